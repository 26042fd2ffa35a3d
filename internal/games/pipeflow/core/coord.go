package core

import "fmt"

// Position represents a cell coordinate on the board.
// X increases to the right, Y increases downward (screen coordinates).
type Position struct {
	X int
	Y int
}

// P is a convenience constructor for Position.
func P(x, y int) Position {
	return Position{X: x, Y: y}
}

// String returns a string representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns a new Position offset by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Step returns a new Position one step in the given direction.
func (p Position) Step(d Dir) Position {
	dx, dy := d.Delta()
	return p.Add(dx, dy)
}

// Less orders positions row-major (by Y, then X).
func (p Position) Less(other Position) bool {
	if p.Y != other.Y {
		return p.Y < other.Y
	}
	return p.X < other.X
}

// DirTo returns the direction from p to an orthogonally adjacent position.
func (p Position) DirTo(other Position) (Dir, bool) {
	for _, d := range AllDirs {
		if p.Step(d) == other {
			return d, true
		}
	}
	return DirUp, false
}
