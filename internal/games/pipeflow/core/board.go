package core

// Cell is one board slot: the tile it holds, the tile's rotation and the
// slot's fixed position. Neighbors are never stored; they are computed from
// Pos on demand.
type Cell struct {
	Pipe     Pipe
	Rotation Rotation
	Pos      Position
}

// Ports returns the sides the tile exposes after rotation.
func (c Cell) Ports() DirSet {
	return c.Pipe.Shape.Ports().Rotate(int(c.Rotation))
}

// Board is an N×N grid of cells.
// Cells are stored in row-major order: index = y*N + x.
//
// Rotate and Swap must not be called while a flow run over the board is
// active; doing so is undefined behavior for that run.
type Board struct {
	N      int
	cells  []Cell
	facing []DirSet // per cell: sides whose neighbor has a port facing back
}

// NewBoard creates an n×n board from row-major pipes, all at zero rotation.
// Missing entries are filled with empty tiles.
func NewBoard(n int, pipes []Pipe) *Board {
	if n < 0 {
		n = 0
	}
	b := &Board{
		N:      n,
		cells:  make([]Cell, n*n),
		facing: make([]DirSet, n*n),
	}
	for i := range b.cells {
		p := EmptyPipe()
		if i < len(pipes) {
			p = pipes[i]
		}
		b.cells[i] = Cell{Pipe: p, Pos: P(i%n, i/n)}
	}
	b.RecomputeAll()
	return b
}

// NewEmptyBoard creates a board where every cell is empty.
func NewEmptyBoard(n int) *Board {
	return NewBoard(n, nil)
}

func (b *Board) index(p Position) int {
	return p.Y*b.N + p.X
}

// InBounds returns true if the position is on the board.
func (b *Board) InBounds(p Position) bool {
	return p.X >= 0 && p.X < b.N && p.Y >= 0 && p.Y < b.N
}

// Get returns the cell at the given position.
// Returns an empty cell if out of bounds.
func (b *Board) Get(p Position) Cell {
	if !b.InBounds(p) {
		return Cell{Pipe: EmptyPipe(), Pos: p}
	}
	return b.cells[b.index(p)]
}

// Neighbor returns the position adjacent to p in direction d, if on the board.
func (b *Board) Neighbor(p Position, d Dir) (Position, bool) {
	n := p.Step(d)
	return n, b.InBounds(n)
}

// Positions returns every position in row-major order.
func (b *Board) Positions() []Position {
	out := make([]Position, len(b.cells))
	for i, c := range b.cells {
		out[i] = c.Pos
	}
	return out
}

// Cells returns a copy of the cells in row-major order.
func (b *Board) Cells() []Cell {
	out := make([]Cell, len(b.cells))
	copy(out, b.cells)
	return out
}

// SetPipe replaces the tile at p and refreshes connectivity around it.
func (b *Board) SetPipe(p Position, pipe Pipe) {
	if !b.InBounds(p) {
		return
	}
	b.cells[b.index(p)].Pipe = pipe
	b.refreshAround(p)
}

// SetRotation sets the rotation at p and refreshes connectivity around it.
func (b *Board) SetRotation(p Position, r Rotation) {
	if !b.InBounds(p) {
		return
	}
	b.cells[b.index(p)].Rotation = r % 4
	b.refreshAround(p)
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	facing := make([]DirSet, len(b.facing))
	copy(facing, b.facing)
	return &Board{N: b.N, cells: cells, facing: facing}
}

// CountShape returns how many cells hold the given shape.
func (b *Board) CountShape(s PipeShape) int {
	n := 0
	for _, c := range b.cells {
		if c.Pipe.Shape == s {
			n++
		}
	}
	return n
}
