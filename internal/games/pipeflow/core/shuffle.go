package core

// Shuffle rotates every tile a random number of quarter turns in [0, 3].
func Shuffle(b *Board, rng RNG) {
	for _, p := range b.Positions() {
		k := rng.Intn(4)
		for i := 0; i < k; i++ {
			b.Rotate(p)
		}
	}
}

// Scatter redistributes row-major pipes of an n×n board. Tiles on fixed
// positions stay put; every other tile, empty ones included, is dealt to a
// non-fixed slot by random draw without replacement.
func Scatter(n int, pipes []Pipe, fixed func(Position) bool, rng RNG) []Pipe {
	out := make([]Pipe, n*n)
	pool := make([]Pipe, 0, n*n)
	for i := range out {
		p := EmptyPipe()
		if i < len(pipes) {
			p = pipes[i]
		}
		if fixed(P(i%n, i/n)) {
			out[i] = p
			continue
		}
		pool = append(pool, p)
	}
	for i := range out {
		if fixed(P(i%n, i/n)) {
			continue
		}
		k := rng.Intn(len(pool))
		out[i] = pool[k]
		pool = append(pool[:k], pool[k+1:]...)
	}
	return out
}
