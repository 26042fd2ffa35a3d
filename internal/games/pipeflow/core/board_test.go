package core_test

import (
	"testing"

	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/core"
)

func TestDirSetRotate(t *testing.T) {
	testCases := []struct {
		name  string
		in    core.DirSet
		steps int
		want  core.DirSet
	}{
		{"up to right", core.Dirs(core.DirUp), 1, core.Dirs(core.DirRight)},
		{"left to up", core.Dirs(core.DirLeft), 1, core.Dirs(core.DirUp)},
		{"straight vertical to horizontal", core.Dirs(core.DirUp, core.DirDown), 1, core.Dirs(core.DirLeft, core.DirRight)},
		{"round twice", core.Dirs(core.DirUp, core.DirRight), 2, core.Dirs(core.DirDown, core.DirLeft)},
		{"negative steps", core.Dirs(core.DirUp), -1, core.Dirs(core.DirLeft)},
		{"full turn", core.Dirs(core.DirUp, core.DirRight, core.DirDown), 4, core.Dirs(core.DirUp, core.DirRight, core.DirDown)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Rotate(tc.steps)
			if got != tc.want {
				t.Errorf("Rotate(%d) of %v = %v, want %v", tc.steps, tc.in, got, tc.want)
			}
		})
	}
}

func TestShapeCodes(t *testing.T) {
	for code := 0; code <= 4; code++ {
		s, ok := core.ShapeFromCode(code)
		if !ok {
			t.Fatalf("code %d rejected", code)
		}
		if s.Code() != code {
			t.Errorf("shape %v code = %d, want %d", s, s.Code(), code)
		}
	}
	if _, ok := core.ShapeFromCode(5); ok {
		t.Error("code 5 accepted")
	}
}

func TestBoardLayout(t *testing.T) {
	pipes := []core.Pipe{
		{Liquid: core.Water, Shape: core.Cross},
		{Liquid: core.Lava, Shape: core.Straight},
		{Liquid: core.Water, Shape: core.Round},
	}
	b := core.NewBoard(2, pipes)

	if got := b.Get(core.P(1, 0)).Pipe; got.Liquid != core.Lava || got.Shape != core.Straight {
		t.Errorf("(1,0) = %+v, want lava straight", got)
	}
	if got := b.Get(core.P(0, 1)).Pipe.Shape; got != core.Round {
		t.Errorf("(0,1) shape = %v, want round", got)
	}
	if got := b.Get(core.P(1, 1)).Pipe.Shape; got != core.Empty {
		t.Errorf("(1,1) shape = %v, want empty fill", got)
	}
	if b.InBounds(core.P(2, 0)) || b.InBounds(core.P(0, -1)) {
		t.Error("out-of-bounds position reported in bounds")
	}
	if c := b.Get(core.P(5, 5)); !c.Pipe.IsEmpty() {
		t.Error("out-of-bounds Get should return an empty cell")
	}
}

func TestRotateFullCycle(t *testing.T) {
	shapes := []core.PipeShape{core.Straight, core.Round, core.ThreeWay, core.Cross, core.Empty}

	for _, s := range shapes {
		t.Run(s.String(), func(t *testing.T) {
			pipes := make([]core.Pipe, 9)
			for i := range pipes {
				pipes[i] = core.Pipe{Liquid: core.Water, Shape: core.Cross}
			}
			pipes[4] = core.Pipe{Liquid: core.Water, Shape: s}
			b := core.NewBoard(3, pipes)
			center := core.P(1, 1)

			before := b.Get(center).Ports()
			facingBefore := make(map[core.Position]core.DirSet)
			for _, p := range b.Positions() {
				facingBefore[p] = b.Facing(p)
			}

			for i := 0; i < 4; i++ {
				if !b.Rotate(center) {
					t.Fatal("rotate rejected")
				}
			}

			if got := b.Get(center).Ports(); got != before {
				t.Errorf("ports after 4 rotations = %v, want %v", got, before)
			}
			if got := b.Get(center).Rotation; got != 0 {
				t.Errorf("rotation after 4 turns = %d, want 0", got)
			}
			for _, p := range b.Positions() {
				if b.Facing(p) != facingBefore[p] {
					t.Errorf("facing at %v changed: %v -> %v", p, facingBefore[p], b.Facing(p))
				}
			}
		})
	}
}

func TestRotateUpdatesNeighbors(t *testing.T) {
	// (0,0) straight vertical, (1,0) cross.
	b := core.NewBoard(2, []core.Pipe{
		{Liquid: core.Water, Shape: core.Straight},
		{Liquid: core.Water, Shape: core.Cross},
		{Liquid: core.Water, Shape: core.Cross},
		{Liquid: core.Water, Shape: core.Cross},
	})
	left, right := core.P(0, 0), core.P(1, 0)

	if b.Facing(right).Has(core.DirLeft) {
		t.Fatal("vertical straight should not face right neighbor")
	}
	if b.Connected(left, core.DirRight) {
		t.Fatal("vertical straight connected to the right")
	}

	b.Rotate(left)

	if !b.Facing(right).Has(core.DirLeft) {
		t.Error("after rotation right neighbor should see a port facing it")
	}
	if !b.Connected(left, core.DirRight) || !b.Connected(right, core.DirLeft) {
		t.Error("horizontal straight should connect both ways")
	}
	if b.Connected(left, core.DirDown) {
		t.Error("horizontal straight should not connect down")
	}
}

// Facing is a property of the neighbor alone; Connected and FlowEligible
// require both sides.
func TestFacingAndFlowEligible(t *testing.T) {
	rng := core.NewRNG(7)
	for trial := 0; trial < 50; trial++ {
		n := 5
		pipes := make([]core.Pipe, n*n)
		for i := range pipes {
			pipes[i] = core.Pipe{
				Liquid: core.Liquid(rng.Intn(2)),
				Shape:  core.PipeShape(rng.Intn(5)),
			}
		}
		b := core.NewBoard(n, pipes)
		core.Shuffle(b, rng)

		for _, p := range b.Positions() {
			for _, d := range core.AllDirs {
				nb, ok := b.Neighbor(p, d)
				wantFacing := ok && b.Get(nb).Ports().Has(d.Opposite())
				if b.Facing(p).Has(d) != wantFacing {
					t.Fatalf("facing %v %v = %v, want %v", p, d, b.Facing(p).Has(d), wantFacing)
				}

				wantConnected := wantFacing && b.Open(p, d)
				if b.Connected(p, d) != wantConnected {
					t.Fatalf("connected %v %v mismatch", p, d)
				}
				if ok && b.Connected(p, d) != b.Connected(nb, d.Opposite()) {
					t.Fatalf("connected not symmetric at %v %v", p, d)
				}

				for _, l := range core.Liquids {
					want := wantConnected && b.Get(p).Pipe.Liquid == l && b.Get(nb).Pipe.Liquid == l
					if b.FlowEligible(p, d, l) != want {
						t.Fatalf("flow eligible %v %v %v mismatch", p, d, l)
					}
				}
			}
		}
	}
}

func TestSwap(t *testing.T) {
	newBoard := func() *core.Board {
		return core.NewBoard(2, []core.Pipe{
			{Liquid: core.Water, Shape: core.Round},
			core.EmptyPipe(),
			{Liquid: core.Lava, Shape: core.Cross},
			{Liquid: core.Water, Shape: core.Straight},
		})
	}

	t.Run("into empty", func(t *testing.T) {
		b := newBoard()
		b.SetRotation(core.P(0, 0), 1)
		if !b.Swap(core.P(0, 0), core.P(1, 0)) {
			t.Fatal("swap into empty rejected")
		}
		got := b.Get(core.P(1, 0))
		if got.Pipe.Shape != core.Round || got.Rotation != 1 {
			t.Errorf("moved tile = %+v, want round at rotation 1", got)
		}
		if got.Pos != core.P(1, 0) {
			t.Errorf("position travelled with payload: %v", got.Pos)
		}
		if !b.Get(core.P(0, 0)).Pipe.IsEmpty() {
			t.Error("source slot should be empty after swap")
		}
		// Round at rotation 1 exposes right and down, so (1,1) straight sees it.
		if !b.Connected(core.P(1, 0), core.DirDown) {
			t.Error("connectivity not refreshed after swap")
		}
	})

	t.Run("into occupied", func(t *testing.T) {
		b := newBoard()
		before := b.Cells()
		if b.Swap(core.P(0, 0), core.P(0, 1)) {
			t.Fatal("swap into occupied slot accepted")
		}
		after := b.Cells()
		for i := range before {
			if before[i] != after[i] {
				t.Errorf("cell %d changed on rejected swap", i)
			}
		}
	})

	testCases := []struct {
		name     string
		from, to core.Position
		reason   string
	}{
		{"occupied", core.P(0, 0), core.P(1, 1), "destination occupied"},
		{"same", core.P(0, 0), core.P(0, 0), "same cell"},
		{"off board", core.P(0, 0), core.P(2, 0), "out of bounds"},
		{"empty source", core.P(1, 0), core.P(0, 0), "nothing to move"},
	}
	for _, tc := range testCases {
		t.Run("reject "+tc.name, func(t *testing.T) {
			err := newBoard().CheckSwap(tc.from, tc.to)
			me, ok := err.(*core.MutationError)
			if !ok {
				t.Fatalf("expected *MutationError, got %v", err)
			}
			if me.Reason != tc.reason {
				t.Errorf("reason = %q, want %q", me.Reason, tc.reason)
			}
		})
	}
}

func TestRenderASCII(t *testing.T) {
	b := core.NewBoard(2, []core.Pipe{
		{Liquid: core.Water, Shape: core.Cross},
		{Liquid: core.Water, Shape: core.Straight},
		{Liquid: core.Lava, Shape: core.Round},
		core.EmptyPipe(),
	})
	ends := core.NewEndpoints().AddSource(core.Water, core.P(0, 0)).AddSink(core.Water, core.P(1, 1))
	visited := func(p core.Position) bool { return p == core.P(1, 0) }

	got := core.RenderASCII(b, ends, visited)
	want := "┼S│*\n┗ ·E\n"
	if got != want {
		t.Errorf("RenderASCII =\n%q\nwant\n%q", got, want)
	}
}
