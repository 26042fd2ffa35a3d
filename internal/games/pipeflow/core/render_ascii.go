package core

import (
	"fmt"
	"strings"
)

// Light glyphs for water tiles, heavy glyphs for lava, indexed by DirSet.
var (
	waterGlyphs = [16]rune{
		'·', '╵', '╶', '└', '╷', '│', '┌', '├',
		'╴', '┘', '─', '┴', '┐', '┤', '┬', '┼',
	}
	lavaGlyphs = [16]rune{
		'·', '╹', '╺', '┗', '╻', '┃', '┏', '┣',
		'╸', '┛', '━', '┻', '┓', '┫', '┳', '╋',
	}
)

// Glyph returns the box-drawing rune for a tile's rotated ports.
func Glyph(c Cell) rune {
	ports := c.Ports() & 0x0F
	if c.Pipe.Liquid == Lava {
		return lavaGlyphs[ports]
	}
	return waterGlyphs[ports]
}

// RenderASCII draws the board one row per line, two columns per cell: the
// tile glyph followed by a marker ('S' source, 'E' sink, '*' visited,
// ' ' otherwise). visited may be nil.
func RenderASCII(b *Board, ends Endpoints, visited func(Position) bool) string {
	var sb strings.Builder
	for y := 0; y < b.N; y++ {
		for x := 0; x < b.N; x++ {
			p := P(x, y)
			sb.WriteRune(Glyph(b.Get(p)))
			switch {
			case ends.IsSource(p):
				sb.WriteByte('S')
			case ends.IsSink(p):
				sb.WriteByte('E')
			case visited != nil && visited(p):
				sb.WriteByte('*')
			default:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderRun draws the board with the run's visited overlay and a status line.
func RenderRun(b *Board, ends Endpoints, r *Run) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run: %s | State: %s | Visited: %d\n",
		r.ID(), r.State(), len(r.Visited())))
	sb.WriteString(strings.Repeat("-", 2*b.N) + "\n")
	sb.WriteString(RenderASCII(b, ends, r.IsVisited))
	return sb.String()
}

// String renders the bare board.
func (b *Board) String() string {
	return RenderASCII(b, Endpoints{}, nil)
}
