package pipeflow

import (
	"fmt"
	"math"

	pcore "github.com/vovakirdan/pipeflow/internal/core"
	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/core"
)

// View draws the board in a titled frame followed by a status line.
// Each cell is its pipe glyph plus a marker: '+' held tile, '@' cursor,
// 'S' source, 'E' sink, '*' reached by the flow.
func (g *Game) View() string {
	snap := g.Snapshot()
	n := g.board.N

	secs := pcore.Clamp(int(math.Ceil(snap.Remaining.Seconds())), 0, snap.TimeLimit)
	status := fmt.Sprintf("%s %ds %s", snap.Difficulty, secs, snap.State)
	if snap.State == StateWon {
		status += fmt.Sprintf(" score %d", snap.Score)
	}

	frame := pcore.NewRect(0, 0, 2*n+2, n+2)
	canvas := pcore.NewCanvas(max(frame.W, len([]rune(status))), frame.H+1)
	canvas.Frame(frame, g.ID())

	inner := frame.Inset(1)
	visited := make(map[core.Position]bool, len(snap.Visited))
	for _, p := range snap.Visited {
		visited[p] = true
	}
	for _, c := range snap.Cells {
		x, y := inner.X+2*c.Pos.X, inner.Y+c.Pos.Y
		canvas.Set(x, y, core.Glyph(c))
		canvas.Set(x+1, y, g.marker(c.Pos, snap, visited))
	}
	canvas.Text(0, frame.Bottom(), status)
	return canvas.String() + "\n"
}

func (g *Game) marker(p core.Position, snap Snapshot, visited map[core.Position]bool) rune {
	playing := snap.State == StatePlaying
	switch {
	case playing && snap.Grabbed != nil && *snap.Grabbed == p:
		return '+'
	case playing && snap.Cursor == p:
		return '@'
	case g.ends.IsSource(p):
		return 'S'
	case g.ends.IsSink(p):
		return 'E'
	case visited[p]:
		return '*'
	default:
		return ' '
	}
}
