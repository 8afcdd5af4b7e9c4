package runner

import (
	"fmt"

	"github.com/deliciousfudge/2d-side-scroller/internal/core"
	"github.com/deliciousfudge/2d-side-scroller/internal/stream"
)

// Visual characters for rendering
const (
	GroundTop    = '▀'
	GroundFill   = '▒'
	CoinChar     = 'o'
	ObstacleChar = '▲'
	PlayerChar   = '█'
	PlayerHead   = '◉'
)

// rowsPerUnit is the vertical scale of the world on screen.
const rowsPerUnit = 2.0

// viewport maps the stream's visible region onto the screen.
func (g *Game) viewport(dst *core.Screen) core.Viewport {
	return core.Viewport{
		Left:        g.streamCfg.ScreenLeftBound,
		Right:       g.streamCfg.ScreenRightBound,
		Ground:      g.streamCfg.SpawnHeight,
		Cols:        dst.Width(),
		GroundRow:   dst.Height() - 5,
		RowsPerUnit: rowsPerUnit,
	}
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.stream == nil {
		g.drawCenteredMessage(dst, "ERROR", "Stream could not start")
		return
	}

	vp := g.viewport(dst)
	for _, seg := range g.stream.Active() {
		g.drawSegment(dst, vp, seg)
	}
	if g.phase != phaseDead {
		g.drawPlayer(dst, vp)
	}

	// HUD
	dst.DrawTextColored(2, 0, fmt.Sprintf(" Coins: %d ", g.coins), core.ColorBrightYellow)
	if g.difficulty.IsEnabled() {
		speedText := fmt.Sprintf(" Spd: %.1f ", g.stream.Speed())
		dst.DrawText(dst.Width()-len(speedText)-2, 0, speedText)
	}

	switch {
	case g.phase == phaseInstructions:
		g.drawCenteredMessage(dst, "SIDE SCROLLER", "Space to jump  |  Collect coins, avoid spikes")
	case g.paused:
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	case g.phase == phaseDead && g.err != nil:
		g.drawCenteredMessage(dst, "GAME OVER", "Stream error, press Q to quit")
	case g.phase == phaseDead:
		g.drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Coins: %d  |  Press R to respawn", g.coins))
	}
}

// drawSegment renders the ground of a segment and its visible slots.
func (g *Game) drawSegment(dst *core.Screen, vp core.Viewport, seg *stream.Segment) {
	if !seg.IsActive() {
		return
	}
	x0 := core.Clamp(vp.Col(seg.StartEdge()), 0, dst.Width())
	x1 := core.Clamp(vp.Col(seg.EndEdge()), 0, dst.Width())
	if x1 <= x0 {
		return
	}

	top := vp.Row(seg.Y()) + 1
	dst.DrawHLine(x0, top, x1-x0, GroundTop, core.ColorGreen)
	for y := top + 1; y < dst.Height(); y++ {
		dst.DrawHLine(x0, y, x1-x0, GroundFill, core.ColorGray)
	}

	for i := 0; i < seg.SlotCount(); i++ {
		sl := seg.Slot(i)
		if !sl.Visible {
			continue
		}
		box := slotBox(seg, i)
		switch sl.Kind {
		case stream.SlotCoin:
			dst.SetColored(vp.Col(seg.SlotX(i)), vp.Row(seg.SlotY(i)), CoinChar, core.ColorBrightYellow)
		case stream.SlotObstacle:
			fillBox(dst, vp, box, ObstacleChar, core.ColorRed)
		}
	}
}

// drawPlayer renders the player body with its head on the top row.
func (g *Game) drawPlayer(dst *core.Screen, vp core.Viewport) {
	box := g.player.Box()
	fillBox(dst, vp, box, PlayerChar, core.ColorCyan)
	top := vp.Row(box.MaxY - 0.01)
	for x := vp.Col(box.MinX); x <= vp.Col(box.MaxX-0.01); x++ {
		dst.SetColored(x, top, PlayerHead, core.ColorCyan)
	}
}

// fillBox fills the cells covered by a world box.
func fillBox(dst *core.Screen, vp core.Viewport, b core.Box, r rune, c core.Color) {
	x0, x1 := vp.Col(b.MinX), vp.Col(b.MaxX-0.01)
	y0, y1 := vp.Row(b.MaxY-0.01), vp.Row(b.MinY)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dst.SetColored(x, y, r, c)
		}
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	// Calculate box dimensions
	boxW := core.Max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	// Draw box
	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	// Draw text
	titleX := boxX + (boxW-len([]rune(title)))/2
	dst.DrawText(titleX, boxY+1, title)

	subtitleX := boxX + (boxW-len([]rune(subtitle)))/2
	dst.DrawText(subtitleX, boxY+3, subtitle)
}
