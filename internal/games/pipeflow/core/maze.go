package core

import "strings"

// Walls is the per-cell set of blocked sides used during maze generation.
type Walls uint8

const (
	WallLeft  Walls = 1
	WallRight Walls = 2
	WallUp    Walls = 4
	WallDown  Walls = 8

	// WallAll blocks every side.
	WallAll = WallLeft | WallRight | WallUp | WallDown

	// visited is a generation-only marker, stripped before returning.
	visited Walls = 128
)

// WallFor returns the wall bit for side d.
func WallFor(d Dir) Walls {
	switch d {
	case DirUp:
		return WallUp
	case DirRight:
		return WallRight
	case DirDown:
		return WallDown
	default:
		return WallLeft
	}
}

// Blocked reports whether side d is walled.
func (w Walls) Blocked(d Dir) bool {
	return w&WallFor(d) != 0
}

// Open returns the sides that are not walled.
func (w Walls) Open() DirSet {
	var s DirSet
	for _, d := range AllDirs {
		if !w.Blocked(d) {
			s = s.With(d)
		}
	}
	return s
}

func (w Walls) String() string {
	parts := make([]string, 0, 4)
	for _, d := range AllDirs {
		if w.Blocked(d) {
			parts = append(parts, d.String())
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// WallTopology is a W×H maze of blocked sides, row-major.
type WallTopology struct {
	W     int
	H     int
	cells []Walls
}

// NewWallTopology creates a topology with every side of every cell blocked.
func NewWallTopology(w, h int) *WallTopology {
	t := &WallTopology{W: w, H: h, cells: make([]Walls, w*h)}
	for i := range t.cells {
		t.cells[i] = WallAll
	}
	return t
}

// InBounds returns true if the position is inside the topology.
func (t *WallTopology) InBounds(p Position) bool {
	return p.X >= 0 && p.X < t.W && p.Y >= 0 && p.Y < t.H
}

// At returns the walls of the cell at p. Off-grid positions are fully walled.
func (t *WallTopology) At(p Position) Walls {
	if !t.InBounds(p) {
		return WallAll
	}
	return t.cells[p.Y*t.W+p.X] &^ visited
}

// Carve removes the wall between p and its neighbor on side d, on both sides.
func (t *WallTopology) Carve(p Position, d Dir) {
	n := p.Step(d)
	if !t.InBounds(p) || !t.InBounds(n) {
		return
	}
	t.cells[p.Y*t.W+p.X] &^= WallFor(d)
	t.cells[n.Y*t.W+n.X] &^= WallFor(d.Opposite())
}

func (t *WallTopology) visitedAt(p Position) bool {
	return t.cells[p.Y*t.W+p.X]&visited != 0
}

func (t *WallTopology) markVisited(p Position) {
	t.cells[p.Y*t.W+p.X] |= visited
}

// GenerateMaze carves a spanning tree over a w×h grid by randomized
// depth-first backtracking from (0,0). Every cell ends up reachable from
// every other through open sides.
func GenerateMaze(w, h int, rng RNG) *WallTopology {
	t := NewWallTopology(w, h)
	if w <= 0 || h <= 0 {
		return t
	}

	start := P(0, 0)
	t.markVisited(start)
	stack := []Position{start}
	candidates := make([]Dir, 0, 4)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		candidates = candidates[:0]
		for _, d := range AllDirs {
			n := cur.Step(d)
			if t.InBounds(n) && !t.visitedAt(n) {
				candidates = append(candidates, d)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		stack = append(stack, cur)
		d := candidates[rng.Intn(len(candidates))]
		next := cur.Step(d)
		t.Carve(cur, d)
		t.markVisited(next)
		stack = append(stack, next)
	}

	for i := range t.cells {
		t.cells[i] &^= visited
	}
	return t
}

// String renders the maze with ASCII walls.
func (t *WallTopology) String() string {
	var sb strings.Builder

	sb.WriteString("+" + strings.Repeat("---+", t.W) + "\n")
	for y := 0; y < t.H; y++ {
		sb.WriteString("|")
		for x := 0; x < t.W; x++ {
			if t.At(P(x, y)).Blocked(DirRight) {
				sb.WriteString("   |")
			} else {
				sb.WriteString("    ")
			}
		}
		sb.WriteString("\n+")
		for x := 0; x < t.W; x++ {
			if t.At(P(x, y)).Blocked(DirDown) {
				sb.WriteString("---+")
			} else {
				sb.WriteString("   +")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
