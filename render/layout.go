package render

import (
	"github.com/lixenwraith/simon/core"
)

// Minimum terminal size for the full view
const (
	MinWidth  = 40
	MinHeight = 17
)

const (
	buttonWidth = 11
	playAgainW  = 14
	buttonGap   = 2
	padGapX     = 2
	padGapY     = 1
	maxPadW     = 24
	maxPadH     = 7
	minPadW     = 8
	minPadH     = 2
	gridTop     = 6
)

// Rect is a screen region
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) is inside r
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Layout places every element for one terminal size
type Layout struct {
	Width, Height int
	TooSmall      bool

	TitleRow    int
	SubtitleRow int
	ScoreRow    int
	StatusRow   int

	Pads [core.PadCount]Rect
	Grid Rect

	Start  Rect
	Replay Rect
	Mute   Rect

	// GameOver box overlays the pad grid; PlayAgain is its button
	GameOver  Rect
	PlayAgain Rect
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// NewLayout computes positions for a width x height terminal
func NewLayout(width, height int) Layout {
	l := Layout{Width: width, Height: height}
	if width < MinWidth || height < MinHeight {
		l.TooSmall = true
		return l
	}

	l.TitleRow = 1
	l.SubtitleRow = 2
	l.ScoreRow = 4

	// Rows below the grid: blank, status, blank, buttons, blank
	padW := clamp((width-4-padGapX)/2, minPadW, maxPadW)
	padH := clamp((height-gridTop-5-padGapY)/2, minPadH, maxPadH)

	gridW := 2*padW + padGapX
	gridH := 2*padH + padGapY
	l.Grid = Rect{X: (width - gridW) / 2, Y: gridTop, W: gridW, H: gridH}

	// Reading order: 0 top-left, 1 top-right, 2 bottom-left, 3 bottom-right
	for i := range l.Pads {
		col, row := i%2, i/2
		l.Pads[i] = Rect{
			X: l.Grid.X + col*(padW+padGapX),
			Y: l.Grid.Y + row*(padH+padGapY),
			W: padW,
			H: padH,
		}
	}

	l.StatusRow = l.Grid.Y + gridH + 1
	buttonsRow := l.StatusRow + 2
	rowW := 3*buttonWidth + 2*buttonGap
	x := (width - rowW) / 2
	l.Start = Rect{X: x, Y: buttonsRow, W: buttonWidth, H: 1}
	l.Replay = Rect{X: x + buttonWidth + buttonGap, Y: buttonsRow, W: buttonWidth, H: 1}
	l.Mute = Rect{X: x + 2*(buttonWidth+buttonGap), Y: buttonsRow, W: buttonWidth, H: 1}

	boxW := min(gridW, 30)
	boxH := min(gridH, 7)
	l.GameOver = Rect{
		X: l.Grid.X + (gridW-boxW)/2,
		Y: l.Grid.Y + (gridH-boxH)/2,
		W: boxW,
		H: boxH,
	}
	l.PlayAgain = Rect{
		X: l.GameOver.X + (boxW-playAgainW)/2,
		Y: l.GameOver.Y + boxH - 2,
		W: playAgainW,
		H: 1,
	}
	return l
}

// PadAt returns the pad under (x, y) or core.NoPad
func (l Layout) PadAt(x, y int) core.PadID {
	if l.TooSmall {
		return core.NoPad
	}
	for i, r := range l.Pads {
		if r.Contains(x, y) {
			return core.PadID(i)
		}
	}
	return core.NoPad
}
