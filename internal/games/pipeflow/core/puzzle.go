package core

// Puzzle is a procedurally generated single-liquid board layout.
type Puzzle struct {
	W     int
	H     int
	Pipes []Pipe // row-major, canonical orientation
	Start Position
	End   Position
	Walls *WallTopology
}

// Endpoints returns the puzzle's water source and sink.
func (p Puzzle) Endpoints() Endpoints {
	return NewEndpoints().AddSource(Water, p.Start).AddSink(Water, p.End)
}

// GeneratePuzzle builds a water puzzle from a fresh maze using the default
// shape table.
func GeneratePuzzle(w, h int, rng RNG) (Puzzle, error) {
	return GeneratePuzzleWith(w, h, rng, DefaultShapeTable())
}

// GeneratePuzzleWith is GeneratePuzzle with a custom shape table.
// The source lies on the top or left edge of the upper-left half, the sink
// on the bottom or right edge of the lower-right half.
func GeneratePuzzleWith(w, h int, rng RNG, table ShapeTable) (Puzzle, error) {
	topo := GenerateMaze(w, h, rng)
	pipes, err := AssignShapes(topo, Water, rng, table)
	if err != nil {
		return Puzzle{}, err
	}
	return Puzzle{
		W:     w,
		H:     h,
		Pipes: pipes,
		Start: randomStart(w, h, rng),
		End:   randomEnd(w, h, rng),
		Walls: topo,
	}, nil
}

func randomStart(w, h int, rng RNG) Position {
	x := between(rng, 0, w/2)
	if x != 0 {
		return P(x, 0)
	}
	return P(0, clamp(between(rng, 1, h-1-h/2), 0, h-1))
}

func randomEnd(w, h int, rng RNG) Position {
	x := between(rng, w/2, w-1)
	if x != w-1 {
		return P(x, h-1)
	}
	return P(x, clamp(between(rng, h-1-h/2, h-1), 0, h-1))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
