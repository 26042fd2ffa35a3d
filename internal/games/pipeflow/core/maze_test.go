package core_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/core"
)

// reachable runs a BFS over open passages of the topology from (0,0).
func reachable(topo *core.WallTopology) int {
	seen := map[core.Position]bool{core.P(0, 0): true}
	queue := []core.Position{core.P(0, 0)}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range core.AllDirs {
			if topo.At(cur).Blocked(d) {
				continue
			}
			n := cur.Step(d)
			if !topo.InBounds(n) || seen[n] {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return len(seen)
}

func TestGenerateMazeConnected(t *testing.T) {
	sizes := [][2]int{{1, 1}, {2, 2}, {5, 5}, {7, 3}, {10, 10}}
	for _, size := range sizes {
		for seed := uint64(1); seed <= 20; seed++ {
			w, h := size[0], size[1]
			topo := core.GenerateMaze(w, h, core.NewRNG(seed))
			if got := reachable(topo); got != w*h {
				t.Fatalf("%dx%d seed %d: reached %d of %d cells", w, h, seed, got, w*h)
			}
		}
	}
}

func TestGenerateMazeIsSpanningTree(t *testing.T) {
	topo := core.GenerateMaze(8, 6, rand.New(rand.NewSource(42)))

	openings := 0
	for y := 0; y < topo.H; y++ {
		for x := 0; x < topo.W; x++ {
			p := core.P(x, y)
			w := topo.At(p)
			for _, d := range core.AllDirs {
				n := p.Step(d)
				if !topo.InBounds(n) {
					if !w.Blocked(d) {
						t.Errorf("%v open toward the outside on %v", p, d)
					}
					continue
				}
				if w.Blocked(d) != topo.At(n).Blocked(d.Opposite()) {
					t.Errorf("wall between %v and %v is one-sided", p, n)
				}
				if !w.Blocked(d) {
					openings++
				}
			}
		}
	}
	// Each passage is counted from both sides; a tree has cells-1 edges.
	if edges := openings / 2; edges != topo.W*topo.H-1 {
		t.Errorf("passages = %d, want %d", edges, topo.W*topo.H-1)
	}
}

func TestGenerateMazeDeterministic(t *testing.T) {
	a := core.GenerateMaze(6, 6, core.NewRNG(99))
	b := core.GenerateMaze(6, 6, core.NewRNG(99))
	if a.String() != b.String() {
		t.Error("same seed produced different mazes")
	}
}

func TestWallTopologyString(t *testing.T) {
	topo := core.NewWallTopology(2, 1)
	topo.Carve(core.P(0, 0), core.DirRight)
	want := "+---+---+\n|       |\n+---+---+\n"
	if got := topo.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestDefaultShapeTable(t *testing.T) {
	table := core.DefaultShapeTable()

	testCases := []struct {
		name  string
		walls core.Walls
		want  []core.PipeShape
	}{
		{"no walls", 0, []core.PipeShape{core.Cross}},
		{"one wall", core.WallLeft, []core.PipeShape{core.ThreeWay}},
		{"vertical corridor", core.WallLeft | core.WallRight, []core.PipeShape{core.Straight}},
		{"corner", core.WallUp | core.WallLeft, []core.PipeShape{core.Round}},
		{"dead end", core.WallUp | core.WallRight | core.WallDown, []core.PipeShape{core.Straight, core.Round}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := table.Lookup(tc.walls)
			if !ok {
				t.Fatal("lookup missed")
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("got %v, want %v", got, tc.want)
				}
			}
		})
	}

	if _, ok := table.Lookup(core.WallAll); ok {
		t.Error("fully walled cell should miss")
	}
}

func TestAssignShapes(t *testing.T) {
	topo := core.GenerateMaze(6, 6, core.NewRNG(3))
	pipes, err := core.AssignShapes(topo, core.Water, core.NewRNG(3), nil)
	if err != nil {
		t.Fatalf("AssignShapes: %v", err)
	}
	if len(pipes) != 36 {
		t.Fatalf("got %d pipes, want 36", len(pipes))
	}
	for i, p := range pipes {
		pos := core.P(i%6, i/6)
		if p.Liquid != core.Water {
			t.Errorf("%v liquid = %v", pos, p.Liquid)
		}
		open := topo.At(pos).Open().Count()
		switch {
		case open == 1 && p.Shape != core.Straight && p.Shape != core.Round:
			t.Errorf("%v dead end got %v", pos, p.Shape)
		case open >= 2 && p.Shape.Ports().Count() != open:
			t.Errorf("%v has %d openings but shape %v", pos, open, p.Shape)
		}
	}

	// A single cell never gets a passage.
	_, err = core.AssignShapes(core.GenerateMaze(1, 1, core.NewRNG(1)), core.Water, core.NewRNG(1), nil)
	var topoErr *core.InvalidTopologyError
	if !errors.As(err, &topoErr) {
		t.Fatalf("expected InvalidTopologyError, got %v", err)
	}
	if topoErr.Pos != core.P(0, 0) {
		t.Errorf("error position = %v", topoErr.Pos)
	}
}

func TestDeadEndPolicyTunable(t *testing.T) {
	table := core.DefaultShapeTable(core.Round)
	topo := core.GenerateMaze(5, 5, core.NewRNG(11))
	pipes, err := core.AssignShapes(topo, core.Water, core.NewRNG(11), table)
	if err != nil {
		t.Fatalf("AssignShapes: %v", err)
	}
	for i, p := range pipes {
		if topo.At(core.P(i%5, i/5)).Open().Count() == 1 && p.Shape != core.Round {
			t.Errorf("dead end %d got %v with round-only policy", i, p.Shape)
		}
	}
}

func TestGeneratePuzzleEndpoints(t *testing.T) {
	for _, n := range []int{5, 6, 10} {
		for seed := uint64(1); seed <= 30; seed++ {
			pz, err := core.GeneratePuzzle(n, n, core.NewRNG(seed))
			if err != nil {
				t.Fatalf("n=%d seed=%d: %v", n, seed, err)
			}
			s, e := pz.Start, pz.End
			if s.X < 0 || s.X > n/2 {
				t.Errorf("start %v x outside upper-left half", s)
			}
			if s.X != 0 && s.Y != 0 {
				t.Errorf("start %v not on top edge", s)
			}
			if s.X == 0 && (s.Y < 1 || s.Y > n-1-n/2) {
				t.Errorf("start %v y outside left-edge range", s)
			}
			if e.X < n/2 || e.X > n-1 {
				t.Errorf("end %v x outside lower-right half", e)
			}
			if e.X != n-1 && e.Y != n-1 {
				t.Errorf("end %v not on bottom edge", e)
			}
			if e.X == n-1 && (e.Y < n-1-n/2 || e.Y > n-1) {
				t.Errorf("end %v y outside right-edge range", e)
			}

			ends := pz.Endpoints()
			if len(ends.Sources[core.Water]) != 1 || len(ends.Sinks[core.Water]) != 1 {
				t.Errorf("expected a single water source and sink, got %+v", ends)
			}
		}
	}
}
