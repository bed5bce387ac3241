package crunch

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/tui-crunch/internal/core"
	"github.com/vovakirdan/tui-crunch/internal/games/crunch/engine"
)

const (
	cellWidth  = 3 // Each board cell is drawn as " x "
	hudHeight  = 3
	footHeight = 2
	minHUDW    = 44
)

// tileStyle is how a tile type is drawn.
type tileStyle struct {
	Glyph rune
	Color core.Color
}

var tileStyles = map[engine.TileType]tileStyle{
	engine.TileCroissant:   {'▲', core.ColorOrange},
	engine.TileCupcake:     {'♥', core.ColorPink},
	engine.TileDanish:      {'■', core.ColorYellow},
	engine.TileDonut:       {'●', core.ColorBrown},
	engine.TileMacaroon:    {'◆', core.ColorGreen},
	engine.TileSugarCookie: {'★', core.ColorBrightWhite},
}

// TileStyle returns the glyph and color of a tile type.
func TileStyle(t engine.TileType) (rune, core.Color) {
	if s, ok := tileStyles[t]; ok {
		return s.Glyph, s.Color
	}
	return '?', core.ColorGray
}

// minScreenSize returns the smallest screen a board fits on.
func minScreenSize(cols, rows int) (int, int) {
	return max(cols*cellWidth+2, minHUDW), rows + 2 + hudHeight + footHeight
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.failure != nil {
		g.renderFailure(dst)
		return
	}
	if g.level == nil {
		return
	}

	// Check screen size
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	boardW := g.level.Columns()*cellWidth + 2
	boardH := g.level.Rows() + 2
	areaW := max(boardW, minHUDW)
	area := core.NewRect((g.screenW-areaW)/2, 0, areaW, g.screenH)
	board := core.NewRect(area.X+(areaW-boardW)/2, hudHeight, boardW, boardH)

	g.renderHUD(dst, area)
	g.renderBoard(dst, board)
	g.renderFooter(dst, area, board.Bottom())
	g.renderOverlays(dst, board)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small", core.ColorDefault)
	minW, minH := minScreenSize(g.level.Columns(), g.level.Rows())
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need at least %dx%d", minW, minH), core.ColorGray)
}

// renderFailure explains why no level could be started.
func (g *Game) renderFailure(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y-1, "Crunch could not start", core.ColorBrightRed)
	dst.DrawTextCentered(y, g.failure.Error(), core.ColorDefault)
	dst.DrawTextCentered(y+2, "Press R to retry or Q to quit", core.ColorGray)
}

// renderHUD draws the score and level info.
func (g *Game) renderHUD(dst *core.Screen, area core.Rect) {
	x := area.X
	dst.DrawTextCentered(0, g.Title(), core.ColorBrightMagenta)

	var levelStr string
	if g.mode == ModeEndless {
		levelStr = fmt.Sprintf("Round %d", g.round+1)
	} else {
		levelStr = fmt.Sprintf("Level %d/%d  %s", g.levelIndex+1, len(g.catalog), g.level.Name())
	}
	dst.DrawText(x, 1, levelStr)

	movesStr := fmt.Sprintf("Moves: %d", g.movesLeft)
	movesColor := core.ColorDefault
	if g.movesLeft <= 3 {
		movesColor = core.ColorBrightRed
	}
	dst.DrawTextColored(area.Right()-utf8.RuneCountInString(movesStr), 1, movesStr, movesColor)

	scoreStr := fmt.Sprintf("Score: %d / %d", g.levelScore, g.target)
	scoreColor := core.ColorDefault
	if g.levelScore >= g.target {
		scoreColor = core.ColorGreen
	}
	dst.DrawTextColored(x, 2, scoreStr, scoreColor)

	if g.mode == ModeEndless || g.levelIndex > 0 {
		totalStr := fmt.Sprintf("Total: %d", g.score)
		dst.DrawText(area.Right()-utf8.RuneCountInString(totalStr), 2, totalStr)
	}
}

// renderBoard draws the framed board. Row 0 is at the bottom.
func (g *Game) renderBoard(dst *core.Screen, board core.Rect) {
	grid := g.level.Grid()
	cells := board.Inset(1)

	dst.DrawBox(board, core.ColorGray)

	for r := 0; r < grid.Rows(); r++ {
		for c := 0; c < grid.Columns(); c++ {
			if !grid.IsPlayable(c, r) {
				continue
			}
			x, y := g.cellOrigin(cells, engine.C(c, r))
			t := grid.TypeAt(c, r)
			if t == engine.TileNone {
				dst.SetColored(x+1, y, '·', core.ColorGray)
				continue
			}
			glyph, color := TileStyle(t)
			dst.SetColored(x+1, y, glyph, color)
		}
	}

	if g.hintTicks > 0 {
		g.markCell(dst, cells, g.hint.From, '{', '}', core.ColorCyan)
		g.markCell(dst, cells, g.hint.To, '{', '}', core.ColorCyan)
	}
	if g.selected {
		g.markCell(dst, cells, g.selection, '<', '>', core.ColorBrightYellow)
	}
	if !g.selected || g.cursor != g.selection {
		g.markCell(dst, cells, g.cursor, '[', ']', core.ColorBrightWhite)
	}
}

// cellOrigin returns the screen position of the left edge of a cell
// inside the board frame.
func (g *Game) cellOrigin(cells core.Rect, c engine.Coord) (int, int) {
	return cells.X + c.Column*cellWidth, cells.Bottom() - 1 - c.Row
}

// markCell brackets a cell.
func (g *Game) markCell(dst *core.Screen, cells core.Rect, c engine.Coord, left, right rune, color core.Color) {
	x, y := g.cellOrigin(cells, c)
	dst.SetColored(x, y, left, color)
	dst.SetColored(x+cellWidth-1, y, right, color)
}

// renderFooter draws the last message and the controls below the board.
func (g *Game) renderFooter(dst *core.Screen, area core.Rect, y int) {
	if g.message != "" {
		color := core.ColorBrightYellow
		if g.lastTurn.Combo() > 1 {
			color = core.ColorBrightMagenta
		}
		dst.DrawTextCentered(y, g.message, color)
	}
	controls := "Arrows: Move  Space: Select  H: Hint  X: Shuffle"
	if n := utf8.RuneCountInString(controls); n <= area.W {
		dst.DrawTextColored(area.X+(area.W-n)/2, y+1, controls, core.ColorGray)
	}
}

// renderOverlays frames the banner of the current phase over the board.
func (g *Game) renderOverlays(dst *core.Screen, board core.Rect) {
	switch g.phase() {
	case PhasePaused:
		g.drawOverlay(dst, board, "PAUSED", "Press P to resume")

	case PhaseLevelCleared:
		reached := fmt.Sprintf("Target %d reached!", g.target)
		switch {
		case g.mode == ModeEndless:
			g.drawOverlay(dst, board, reached, fmt.Sprintf("Next: Round %d", g.round+2))
		case g.levelIndex >= len(g.catalog)-1:
			g.drawOverlay(dst, board, reached, "Final level complete!")
		default:
			g.drawOverlay(dst, board, reached, "Next: "+g.catalog[g.levelIndex+1].Name)
		}

	case PhaseWon:
		g.drawOverlay(dst, board, "CAMPAIGN COMPLETE!", fmt.Sprintf("Final score: %d", g.score), "Press R to restart")

	case PhaseGameOver:
		g.drawOverlay(dst, board, "OUT OF MOVES",
			fmt.Sprintf("%d / %d points", g.levelScore, g.target), "Press R to restart")
	}
}

// drawOverlay draws a framed block of centered lines over the board.
func (g *Game) drawOverlay(dst *core.Screen, board core.Rect, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(line))
	}

	box := board.Centered(maxLen+4, len(lines)+2)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorBrightWhite)

	inner := box.Inset(1)
	for i, line := range lines {
		x := inner.X + (inner.W-utf8.RuneCountInString(line))/2
		dst.DrawText(x, inner.Y+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | Space: Select, then arrow to swap | H: Hint | X: Shuffle | P: Pause | R: Restart | Q: Quit"
}
