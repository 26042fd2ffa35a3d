// Package core provides the core game logic for the PipeFlow puzzle game.
// This package is UI-agnostic and deterministic for a given RNG.
package core

import "strings"

// Dir represents one of the four cardinal sides of a tile.
type Dir uint8

const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

// AllDirs lists the directions in clockwise order starting at Up.
var AllDirs = [4]Dir{DirUp, DirRight, DirDown, DirLeft}

// String returns the string representation of a direction.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirRight:
		return "Right"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	default:
		return "Unknown"
	}
}

// Delta returns the (dx, dy) offset for moving one step in this direction.
// Up decreases Y, Down increases Y (screen coordinates).
func (d Dir) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the opposite direction.
func (d Dir) Opposite() Dir {
	return (d + 2) % 4
}

// Clockwise returns the direction a port facing d faces after one
// clockwise quarter turn.
func (d Dir) Clockwise() Dir {
	return (d + 1) % 4
}

// DirSet is a bitset of directions, one bit per Dir.
type DirSet uint8

// Dirs builds a set from the given directions.
func Dirs(ds ...Dir) DirSet {
	var s DirSet
	for _, d := range ds {
		s |= 1 << d
	}
	return s
}

// Has reports whether d is in the set.
func (s DirSet) Has(d Dir) bool {
	return s&(1<<d) != 0
}

// With returns the set with d added.
func (s DirSet) With(d Dir) DirSet {
	return s | 1<<d
}

// Count returns the number of directions in the set.
func (s DirSet) Count() int {
	n := 0
	for _, d := range AllDirs {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Rotate turns every direction in the set clockwise by the given number of
// quarter turns: up←left, right←up, down←right, left←down per step.
func (s DirSet) Rotate(steps int) DirSet {
	steps = ((steps % 4) + 4) % 4
	out := s & 0x0F
	for i := 0; i < steps; i++ {
		out = ((out << 1) | (out >> 3)) & 0x0F
	}
	return out
}

// String renders the set as e.g. "{Up,Right}".
func (s DirSet) String() string {
	parts := make([]string, 0, 4)
	for _, d := range AllDirs {
		if s.Has(d) {
			parts = append(parts, d.String())
		}
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// Liquid identifies which fluid a tile is printed for.
type Liquid uint8

const (
	Water Liquid = iota
	Lava
)

// Liquids lists every liquid in spawn order.
var Liquids = [2]Liquid{Water, Lava}

// String returns the string representation of a liquid.
func (l Liquid) String() string {
	switch l {
	case Water:
		return "water"
	case Lava:
		return "lava"
	default:
		return "unknown"
	}
}

// Tag returns the single-letter tag used in level text.
func (l Liquid) Tag() byte {
	if l == Lava {
		return 'L'
	}
	return 'W'
}

// ParseLiquid converts a string to a Liquid.
// Returns Water and false if the string is not recognized.
func ParseLiquid(s string) (Liquid, bool) {
	switch strings.ToLower(s) {
	case "water", "w":
		return Water, true
	case "lava", "l":
		return Lava, true
	default:
		return Water, false
	}
}

// PipeShape defines which ports a tile has in its canonical orientation.
type PipeShape uint8

const (
	Straight PipeShape = iota
	Round
	ThreeWay
	Cross
	Empty
)

// String returns the string representation of a shape.
func (s PipeShape) String() string {
	switch s {
	case Straight:
		return "straight"
	case Round:
		return "round"
	case ThreeWay:
		return "threeway"
	case Cross:
		return "cross"
	case Empty:
		return "empty"
	default:
		return "unknown"
	}
}

// Ports returns the ports of the shape at zero rotation.
func (s PipeShape) Ports() DirSet {
	switch s {
	case Straight:
		return Dirs(DirUp, DirDown)
	case Round:
		return Dirs(DirUp, DirRight)
	case ThreeWay:
		return Dirs(DirUp, DirRight, DirDown)
	case Cross:
		return Dirs(DirUp, DirRight, DirDown, DirLeft)
	default:
		return 0
	}
}

// Code returns the level text digit of the shape (0 for Empty).
func (s PipeShape) Code() int {
	if s >= Empty {
		return 0
	}
	return int(s) + 1
}

// ShapeFromCode maps a level text digit to a shape.
// 0 is Empty, 1-4 select Straight, Round, ThreeWay, Cross.
func ShapeFromCode(code int) (PipeShape, bool) {
	switch {
	case code == 0:
		return Empty, true
	case code >= 1 && code <= 4:
		return PipeShape(code - 1), true
	default:
		return Empty, false
	}
}

// ParseShape converts a shape name to a PipeShape.
func ParseShape(s string) (PipeShape, bool) {
	switch strings.ToLower(s) {
	case "straight", "s":
		return Straight, true
	case "round", "corner", "r":
		return Round, true
	case "threeway", "tee", "t":
		return ThreeWay, true
	case "cross", "x":
		return Cross, true
	case "empty", "", "e":
		return Empty, true
	default:
		return Empty, false
	}
}

// Pipe is the printed tile: which liquid it carries and its physical shape.
type Pipe struct {
	Liquid Liquid
	Shape  PipeShape
}

// EmptyPipe returns a water-affine empty tile.
func EmptyPipe() Pipe {
	return Pipe{Liquid: Water, Shape: Empty}
}

// IsEmpty reports whether the tile has no ports.
func (p Pipe) IsEmpty() bool {
	return p.Shape == Empty
}

// Rotation is a discrete clockwise quarter-turn count in [0, 3].
// It is the only source of truth for orientation; animation is derived from it.
type Rotation uint8

// Next returns the rotation after one more clockwise quarter turn.
func (r Rotation) Next() Rotation {
	return (r + 1) % 4
}

// Degrees returns the rotation in degrees (0, 90, 180, 270).
func (r Rotation) Degrees() int {
	return int(r%4) * 90
}

// Difficulty selects one of the three time-limit tiers of a level.
type Difficulty uint8

const (
	Easy Difficulty = iota
	Normal
	Hard
)

// String returns the string representation of a difficulty.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Normal:
		return "normal"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty converts a string to a Difficulty.
// Returns Easy and false if the string is not recognized.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(s) {
	case "easy", "":
		return Easy, true
	case "normal":
		return Normal, true
	case "hard":
		return Hard, true
	default:
		return Easy, false
	}
}
