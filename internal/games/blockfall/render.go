package blockfall

import (
	"fmt"

	"github.com/vovakirdan/blockfall/internal/core"
	bfcore "github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

// Visual characters for rendering. Each board cell is two columns wide.
const (
	BlockChar = '█'
	GhostChar = '░'
	EmptyChar = '·'

	cellWidth  = 2
	hudHeight  = 2
	panelWidth = 12
	previewH   = 4 // Rows reserved per preview in the side panel
)

// blockColors maps engine colors to the platform palette.
var blockColors = [bfcore.ColorCount]core.Color{
	bfcore.ColorNone:   core.ColorDefault,
	bfcore.ColorCyan:   core.ColorCyan,
	bfcore.ColorYellow: core.ColorYellow,
	bfcore.ColorPurple: core.ColorMagenta,
	bfcore.ColorGreen:  core.ColorGreen,
	bfcore.ColorRed:    core.ColorRed,
	bfcore.ColorOrange: core.ColorOrange,
	bfcore.ColorBlue:   core.ColorBlue,
	bfcore.ColorPink:   core.ColorBrightMagenta,
	bfcore.ColorLime:   core.ColorBrightGreen,
	bfcore.ColorWhite:  core.ColorBrightWhite,
}

// ScreenColor returns the platform color for an engine color.
func ScreenColor(c bfcore.Color) core.Color {
	if c >= bfcore.ColorCount {
		return core.ColorDefault
	}
	return blockColors[c]
}

// layout holds the screen rectangles for one frame.
type layout struct {
	field core.Rect // Board frame including the border
	panel core.Rect // Next/hold panel
}

// computeLayout centers the field and panel below the HUD.
// Returns false when the screen cannot fit them.
func (g *Game) computeLayout(w, h int) (layout, bool) {
	visible := g.board.Rows() - g.board.HiddenRows()
	fieldW := g.board.Cols()*cellWidth + 2
	fieldH := visible + 2
	totalW := fieldW + 1 + panelWidth
	if w < totalW || h < hudHeight+fieldH {
		return layout{}, false
	}

	area := core.Centered(w, fieldH, totalW, fieldH)
	area.Y = hudHeight
	field, panel := area.SplitRight(panelWidth, 1)
	return layout{field: field, panel: panel}, true
}

// Render draws the game state to the screen buffer.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	g.renderHUD(dst)

	lay, ok := g.computeLayout(dst.Width(), dst.Height())
	if !ok {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	g.renderField(dst, lay.field)
	g.renderPanel(dst, lay.panel)

	switch {
	case g.won:
		g.renderOverlay(dst, "You Win!", fmt.Sprintf("Final Score: %d", g.score.Score()))
	case g.timeUp:
		g.renderOverlay(dst, "Time Up", "Press R to restart")
	case g.gameOver:
		g.renderOverlay(dst, "Game Over", "Press R to restart")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *core.Screen) {
	clock := formatClock(g.score.Elapsed())
	if g.score.TimeAttack() {
		clock = "Left " + formatClock(g.score.Remaining())
	}
	hud := fmt.Sprintf(" %s | Score: %d  Level: %d/%d  Lines: %d  %s",
		g.Title(), g.score.Score(), g.score.Level(), g.diff.MaxLevel, g.score.Lines(), clock)
	dst.DrawText(0, 0, hud)
	dst.DrawHLine(0, 1, dst.Width(), '─')
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// renderField draws the visible rows of the board inside a frame.
func (g *Game) renderField(dst *core.Screen, frame core.Rect) {
	dst.DrawBox(frame)
	inner := frame.Inset(1)
	hidden := g.board.HiddenRows()

	for y := inner.Y; y < inner.Bottom(); y++ {
		for x := inner.X; x < inner.Right(); x += cellWidth {
			dst.SetColored(x+1, y, EmptyChar, core.ColorGray)
		}
	}

	for _, c := range g.board.RenderableCells(true) {
		if c.Row < hidden {
			continue
		}
		x := inner.X + c.Col*cellWidth
		y := inner.Y + c.Row - hidden
		r, color := BlockChar, ScreenColor(c.Color)
		if c.Ghost {
			r, color = GhostChar, core.ColorGray
		}
		for i := range cellWidth {
			dst.SetColored(x+i, y, r, color)
		}
	}
}

// renderPanel draws the upcoming queue and the held block.
func (g *Game) renderPanel(dst *core.Screen, panel core.Rect) {
	y := panel.Y
	dst.DrawTextColored(panel.X, y, "NEXT", core.ColorGray)
	y++
	for _, b := range g.conveyor.Upcoming() {
		if y+previewH > panel.Bottom()-previewH-1 {
			break
		}
		drawPreview(dst, panel.X+1, y, b.Type)
		y += previewH
	}

	y = panel.Bottom() - previewH - 1
	dst.DrawTextColored(panel.X, y, "HOLD", core.ColorGray)
	if held := g.board.HeldBlock(); held != nil {
		drawPreview(dst, panel.X+1, y+1, held.Type)
	}
}

// drawPreview draws a block type's normalized orientation 0 at (x, y).
func drawPreview(dst *core.Screen, x, y int, t bfcore.BlockType) {
	color := ScreenColor(t.Color())
	for _, o := range t.Preview() {
		for i := range cellWidth {
			dst.SetColored(x+o.Col*cellWidth+i, y+o.Row, BlockChar, color)
		}
	}
}

// renderOverlay draws a centered message box.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := max(len(line1), len(line2)) + 4
	boxH := 4
	box := core.Centered(dst.Width(), dst.Height(), boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+2, line2)
}
