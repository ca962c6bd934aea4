package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/simon/core"
)

// Palette (slate dark theme)
var (
	RgbBackground = core.MustParseHex("#0f172a")
	RgbText       = core.MustParseHex("#f8fafc")
	RgbTitle      = core.MustParseHex("#e2e8f0")
	RgbMuted      = core.MustParseHex("#94a3b8")
	RgbBest       = core.MustParseHex("#fbbf24")
	RgbButton     = core.MustParseHex("#1e293b")
	RgbBorder     = core.MustParseHex("#334155")
	RgbGameOver   = core.MustParseHex("#ef4444")
)

// padIdleAlpha is the resting pad opacity over the background
const padIdleAlpha = 0x55 / 255.0

// disabledAlpha fades disabled buttons into the background
const disabledAlpha = 0.4

// Color converts core.RGB to a tcell true color
func Color(c core.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// PadColor is the fill for a pad, glow while active
func PadColor(p core.Pad, active bool) core.RGB {
	if active {
		return p.Glow
	}
	return RgbBackground.Blend(p.Color, padIdleAlpha)
}

// fade blends c toward the background for disabled elements
func fade(c core.RGB) core.RGB {
	return RgbBackground.Blend(c, disabledAlpha)
}
