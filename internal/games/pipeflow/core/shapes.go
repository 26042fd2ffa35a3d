package core

// ShapeTable maps an exact set of blocked sides to the shapes a cell with
// those walls may receive. When several shapes are listed one is drawn at
// random.
type ShapeTable map[Walls][]PipeShape

// DefaultShapeTable returns the compatibility table used by procedural
// boards. Dead ends (three walls) have no one-port shape, so they are
// promoted to a two-port shape drawn from deadEnd. With no deadEnd shapes
// given, Straight and Round are used.
func DefaultShapeTable(deadEnd ...PipeShape) ShapeTable {
	if len(deadEnd) == 0 {
		deadEnd = []PipeShape{Straight, Round}
	}

	t := ShapeTable{
		0: {Cross},

		WallUp:    {ThreeWay},
		WallDown:  {ThreeWay},
		WallLeft:  {ThreeWay},
		WallRight: {ThreeWay},

		WallUp | WallDown:    {Straight},
		WallLeft | WallRight: {Straight},

		WallUp | WallRight:   {Round},
		WallRight | WallDown: {Round},
		WallDown | WallLeft:  {Round},
		WallLeft | WallUp:    {Round},
	}
	for _, w := range []Walls{
		WallUp | WallRight | WallDown,
		WallRight | WallDown | WallLeft,
		WallDown | WallLeft | WallUp,
		WallLeft | WallUp | WallRight,
	} {
		t[w] = append([]PipeShape(nil), deadEnd...)
	}
	return t
}

// Lookup returns the candidate shapes for the given walls.
func (t ShapeTable) Lookup(w Walls) ([]PipeShape, bool) {
	shapes, ok := t[w&WallAll]
	if !ok || len(shapes) == 0 {
		return nil, false
	}
	return shapes, true
}

// AssignShapes converts every cell of the topology into a pipe of the given
// liquid. Shapes are placed in canonical orientation; the board's
// connectivity is derived from rotation at play time, not here.
func AssignShapes(topo *WallTopology, liquid Liquid, rng RNG, table ShapeTable) ([]Pipe, error) {
	if table == nil {
		table = DefaultShapeTable()
	}
	pipes := make([]Pipe, 0, topo.W*topo.H)
	for y := 0; y < topo.H; y++ {
		for x := 0; x < topo.W; x++ {
			p := P(x, y)
			shapes, ok := table.Lookup(topo.At(p))
			if !ok {
				return nil, &InvalidTopologyError{Pos: p, Walls: topo.At(p)}
			}
			shape := shapes[0]
			if len(shapes) > 1 {
				shape = shapes[rng.Intn(len(shapes))]
			}
			pipes = append(pipes, Pipe{Liquid: liquid, Shape: shape})
		}
	}
	return pipes, nil
}
