// Package render draws engine snapshots on a tcell screen.
package render

import (
	"fmt"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/simon/core"
	"github.com/lixenwraith/simon/engine"
	"github.com/lixenwraith/simon/input"
)

// TerminalRenderer handles all terminal rendering
// Not safe for concurrent use; the event loop owns it
type TerminalRenderer struct {
	screen tcell.Screen
	layout Layout
	last   engine.Snapshot
}

// NewTerminalRenderer creates a renderer sized to the screen
func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	w, h := screen.Size()
	return &TerminalRenderer{
		screen: screen,
		layout: NewLayout(w, h),
	}
}

// UpdateDimensions recomputes the layout after a resize
func (r *TerminalRenderer) UpdateDimensions(width, height int) {
	r.layout = NewLayout(width, height)
}

// Layout returns the current layout
func (r *TerminalRenderer) Layout() Layout {
	return r.layout
}

// RenderFrame renders the entire frame for snap
func (r *TerminalRenderer) RenderFrame(snap engine.Snapshot) {
	r.last = snap
	base := tcell.StyleDefault.Background(Color(RgbBackground)).Foreground(Color(RgbText))
	r.screen.Fill(' ', base)

	if r.layout.TooSmall {
		r.drawTooSmall(base)
		r.screen.Show()
		return
	}

	r.drawHeader(base)
	r.drawScore(snap, base)
	r.drawPads(snap)
	r.drawStatus(snap, base)
	r.drawControls(snap, base)
	if snap.Phase == engine.PhaseGameOver {
		r.drawGameOver(snap, base)
	}

	r.screen.Show()
}

// IntentAt maps a click to an intent against the last rendered frame
func (r *TerminalRenderer) IntentAt(x, y int) (input.Intent, bool) {
	l := r.layout
	if l.TooSmall {
		return input.Intent{}, false
	}

	if r.last.Phase == engine.PhaseGameOver {
		if l.PlayAgain.Contains(x, y) {
			return input.Intent{Type: input.IntentStart}, true
		}
		if l.GameOver.Contains(x, y) {
			return input.Intent{}, false
		}
	}

	if pad := l.PadAt(x, y); pad != core.NoPad {
		return input.Intent{Type: input.IntentPad, Pad: pad}, true
	}

	switch {
	case l.Start.Contains(x, y):
		return input.Intent{Type: input.IntentStart}, true
	case l.Replay.Contains(x, y):
		if r.last.CanReplay() {
			return input.Intent{Type: input.IntentReplay}, true
		}
	case l.Mute.Contains(x, y):
		return input.Intent{Type: input.IntentToggleMute}, true
	}
	return input.Intent{}, false
}

// StatusText is the line under the pads
func StatusText(snap engine.Snapshot) string {
	switch snap.Phase {
	case engine.PhasePlaying:
		return "Watch the sequence..."
	case engine.PhaseInput:
		return fmt.Sprintf("Your turn — step %d of %d", snap.Step(), snap.SequenceLen)
	case engine.PhaseIdle:
		return "Press Start to play"
	}
	return ""
}

// StartLabel is "Start" before and after a game, "Restart" during one
func StartLabel(phase engine.Phase) string {
	if phase == engine.PhaseIdle || phase == engine.PhaseGameOver {
		return "Start"
	}
	return "Restart"
}

func (r *TerminalRenderer) drawText(x, y int, s string, style tcell.Style) int {
	for _, ch := range s {
		if x >= 0 && x < r.layout.Width {
			r.screen.SetContent(x, y, ch, nil, style)
		}
		x++
	}
	return x
}

func (r *TerminalRenderer) drawCentered(y int, s string, style tcell.Style) {
	x := (r.layout.Width - utf8.RuneCountInString(s)) / 2
	r.drawText(x, y, s, style)
}

func (r *TerminalRenderer) fillRect(rect Rect, style tcell.Style) {
	for y := rect.Y; y < rect.Y+rect.H; y++ {
		for x := rect.X; x < rect.X+rect.W; x++ {
			r.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

func (r *TerminalRenderer) drawInRect(rect Rect, y int, s string, style tcell.Style) {
	x := rect.X + (rect.W-utf8.RuneCountInString(s))/2
	r.drawText(x, y, s, style)
}

func (r *TerminalRenderer) drawTooSmall(base tcell.Style) {
	h := r.layout.Height
	r.drawCentered(h/2-1, "Terminal too small", base.Bold(true))
	r.drawCentered(h/2, fmt.Sprintf("need %dx%d", MinWidth, MinHeight), base.Foreground(Color(RgbMuted)))
}

func (r *TerminalRenderer) drawHeader(base tcell.Style) {
	r.drawCentered(r.layout.TitleRow, "S I M O N", base.Foreground(Color(RgbTitle)).Bold(true))
	r.drawCentered(r.layout.SubtitleRow, "Sound Memory Game", base.Foreground(Color(RgbMuted)))
}

func (r *TerminalRenderer) drawScore(snap engine.Snapshot, base tcell.Style) {
	label := base.Foreground(Color(RgbMuted))
	mid := r.layout.Width / 2
	y := r.layout.ScoreRow

	x := r.drawText(mid-14, y, "SCORE ", label)
	r.drawText(x, y, fmt.Sprintf("%d", snap.Score), base.Bold(true))

	x = r.drawText(mid+4, y, "BEST ", label)
	r.drawText(x, y, fmt.Sprintf("%d", snap.Best), base.Foreground(Color(RgbBest)).Bold(true))
}

func (r *TerminalRenderer) drawPads(snap engine.Snapshot) {
	for i, rect := range r.layout.Pads {
		pad := core.Pads[i]
		active := snap.ActivePad == pad.ID
		fill := tcell.StyleDefault.Background(Color(PadColor(pad, active)))
		r.fillRect(rect, fill)

		labelColor := RgbText
		if active {
			labelColor = RgbBackground
		}
		label := fmt.Sprintf("%d %s", i+1, pad.Label)
		r.drawInRect(rect, rect.Y+rect.H/2, label, fill.Foreground(Color(labelColor)).Bold(active))
	}
}

func (r *TerminalRenderer) drawStatus(snap engine.Snapshot, base tcell.Style) {
	if text := StatusText(snap); text != "" {
		r.drawCentered(r.layout.StatusRow, text, base.Foreground(Color(RgbMuted)))
	}
}

func (r *TerminalRenderer) drawButton(rect Rect, label string, enabled bool, base tcell.Style) {
	bg, fg := RgbButton, RgbText
	if !enabled {
		bg, fg = fade(bg), fade(fg)
	}
	style := base.Background(Color(bg)).Foreground(Color(fg))
	r.fillRect(rect, style)
	r.drawInRect(rect, rect.Y, "[ "+label+" ]", style)
}

func (r *TerminalRenderer) drawControls(snap engine.Snapshot, base tcell.Style) {
	l := r.layout
	r.drawButton(l.Start, StartLabel(snap.Phase), true, base)
	r.drawButton(l.Replay, "Replay", snap.CanReplay(), base)

	mute := "Mute"
	if snap.Muted {
		mute = "Unmute"
	}
	r.drawButton(l.Mute, mute, true, base)
}

func (r *TerminalRenderer) drawGameOver(snap engine.Snapshot, base tcell.Style) {
	box := r.layout.GameOver
	inner := base.Background(Color(RgbButton))
	border := inner.Foreground(Color(RgbGameOver))
	r.fillRect(box, inner)

	right, bottom := box.X+box.W-1, box.Y+box.H-1
	for x := box.X + 1; x < right; x++ {
		r.screen.SetContent(x, box.Y, '─', nil, border)
		r.screen.SetContent(x, bottom, '─', nil, border)
	}
	for y := box.Y + 1; y < bottom; y++ {
		r.screen.SetContent(box.X, y, '│', nil, border)
		r.screen.SetContent(right, y, '│', nil, border)
	}
	r.screen.SetContent(box.X, box.Y, '┌', nil, border)
	r.screen.SetContent(right, box.Y, '┐', nil, border)
	r.screen.SetContent(box.X, bottom, '└', nil, border)
	r.screen.SetContent(right, bottom, '┘', nil, border)

	r.drawInRect(box, box.Y+1, "Game Over", border.Bold(true))

	line := fmt.Sprintf("Score: %d", snap.Score)
	if snap.NewBest {
		line += "  New Best!"
	}
	x := box.X + (box.W-utf8.RuneCountInString(line))/2
	x = r.drawText(x, box.Y+2, fmt.Sprintf("Score: %d", snap.Score), inner.Foreground(Color(RgbText)))
	if snap.NewBest {
		r.drawText(x, box.Y+2, "  New Best!", inner.Foreground(Color(RgbBest)).Bold(true))
	}

	r.drawButton(r.layout.PlayAgain, "Play Again", true, base)
}
