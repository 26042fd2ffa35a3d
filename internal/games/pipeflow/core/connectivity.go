package core

// RecomputeFacing refreshes the facing flags of the cell at p.
// A side is flagged iff the neighbor exists and exposes a port back toward p.
// Liquid is not part of the flag; it is only checked at flow time.
func (b *Board) RecomputeFacing(p Position) {
	if !b.InBounds(p) {
		return
	}
	var s DirSet
	for _, d := range AllDirs {
		n, ok := b.Neighbor(p, d)
		if !ok {
			continue
		}
		if b.cells[b.index(n)].Ports().Has(d.Opposite()) {
			s = s.With(d)
		}
	}
	b.facing[b.index(p)] = s
}

// RecomputeAll refreshes the facing flags of every cell.
func (b *Board) RecomputeAll() {
	for _, c := range b.cells {
		b.RecomputeFacing(c.Pos)
	}
}

// refreshAround recomputes p and its four neighbors.
func (b *Board) refreshAround(p Position) {
	b.RecomputeFacing(p)
	for _, d := range AllDirs {
		if n, ok := b.Neighbor(p, d); ok {
			b.RecomputeFacing(n)
		}
	}
}

// Open reports whether the tile at p has its own port on side d.
func (b *Board) Open(p Position, d Dir) bool {
	return b.Get(p).Ports().Has(d)
}

// Facing returns the sides of p whose neighbor exposes a port back.
func (b *Board) Facing(p Position) DirSet {
	if !b.InBounds(p) {
		return 0
	}
	return b.facing[b.index(p)]
}

// Connected reports whether p and its neighbor on side d both expose a port
// toward each other.
func (b *Board) Connected(p Position, d Dir) bool {
	return b.Open(p, d) && b.Facing(p).Has(d)
}

// FlowEligible reports whether liquid l may pass from p through side d:
// the sides must be connected and both tiles must be printed for l.
func (b *Board) FlowEligible(p Position, d Dir, l Liquid) bool {
	if !b.Connected(p, d) {
		return false
	}
	n := p.Step(d)
	return b.Get(p).Pipe.Liquid == l && b.Get(n).Pipe.Liquid == l
}

// Rotate turns the tile at p one quarter clockwise and refreshes the
// connectivity of p and its neighbors. Returns false if p is off the board.
func (b *Board) Rotate(p Position) bool {
	if !b.InBounds(p) {
		return false
	}
	i := b.index(p)
	b.cells[i].Rotation = b.cells[i].Rotation.Next()
	b.refreshAround(p)
	return true
}

// CheckSwap reports why moving the tile at from into to would be rejected.
// Tiles may only be dropped into empty slots.
func (b *Board) CheckSwap(from, to Position) error {
	switch {
	case !b.InBounds(from) || !b.InBounds(to):
		return &MutationError{Op: "swap", From: from, To: to, Reason: "out of bounds"}
	case from == to:
		return &MutationError{Op: "swap", From: from, To: to, Reason: "same cell"}
	case b.Get(from).Pipe.IsEmpty():
		return &MutationError{Op: "swap", From: from, To: to, Reason: "nothing to move"}
	case !b.Get(to).Pipe.IsEmpty():
		return &MutationError{Op: "swap", From: from, To: to, Reason: "destination occupied"}
	}
	return nil
}

// Swap exchanges the tile and rotation of two cells and refreshes both
// neighborhoods. A rejected swap leaves the board untouched and returns false.
func (b *Board) Swap(from, to Position) bool {
	if b.CheckSwap(from, to) != nil {
		return false
	}
	i, j := b.index(from), b.index(to)
	b.cells[i].Pipe, b.cells[j].Pipe = b.cells[j].Pipe, b.cells[i].Pipe
	b.cells[i].Rotation, b.cells[j].Rotation = b.cells[j].Rotation, b.cells[i].Rotation
	b.refreshAround(from)
	b.refreshAround(to)
	return true
}
