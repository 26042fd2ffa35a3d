package pipeflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pcore "github.com/vovakirdan/pipeflow/internal/core"
	"github.com/vovakirdan/pipeflow/internal/config"
	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/core"
	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/levels"
	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/levels/formats"
)

// level01Solution rotates the top row of level01 into a path to the sink.
const level01Solution = "ororororoo"

func unshuffled() config.PipeflowConfig {
	cfg := config.DefaultPipeflowConfig()
	cfg.Gameplay.Shuffle = false
	return cfg
}

func newLevelGame(t *testing.T, id string, opts Options) *Game {
	t.Helper()
	lvl, err := levels.Builtin().LoadByID(id)
	require.NoError(t, err)
	opts.Level = &lvl
	g, err := New(opts)
	require.NoError(t, err)
	require.NoError(t, g.Reset(pcore.RuntimeConfig{Seed: 7}))
	return g
}

func play(t *testing.T, g *Game, codes string) {
	t.Helper()
	for i := 0; i < len(codes); i++ {
		a, ok := pcore.ParseAction(codes[i])
		require.True(t, ok, "action %q", codes[i])
		g.Step(pcore.FrameOf(a))
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"level", "arcade", "free"} {
		m, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, Mode(s), m)
	}
	_, err := ParseMode("zen")
	assert.Error(t, err)

	_, err = New(Options{Mode: ModeLevel})
	assert.Error(t, err, "level mode without a level")
}

func TestLevelWinScore(t *testing.T) {
	g := newLevelGame(t, "level01", Options{Config: unshuffled()})
	assert.Equal(t, 20*time.Second, g.Remaining())

	play(t, g, level01Solution)
	g.Elapse(5 * time.Second)
	play(t, g, "f")

	snap := g.Snapshot()
	assert.Equal(t, StateWon, snap.State)
	assert.Equal(t, 7500, snap.Score)
	assert.True(t, g.State().Won)
	assert.Contains(t, snap.Visited, core.P(4, 4))
	assert.Equal(t, uint64(len(level01Solution)+1), snap.Tick)
}

func TestLevelLossFreezesBoard(t *testing.T) {
	g := newLevelGame(t, "level01", Options{Config: unshuffled(), Difficulty: config.DifficultyHard})
	assert.Equal(t, 10, g.Snapshot().TimeLimit)

	play(t, g, "f")
	snap := g.Snapshot()
	assert.Equal(t, StateLost, snap.State)
	assert.Equal(t, 0, snap.Score)

	before := g.Board().Get(core.P(0, 0)).Rotation
	play(t, g, "o")
	assert.Equal(t, before, g.Board().Get(core.P(0, 0)).Rotation, "no rotation after release")

	g.Elapse(time.Second)
	assert.Equal(t, 10*time.Second, g.Remaining(), "countdown stops after release")
}

func TestTimeOut(t *testing.T) {
	g := newLevelGame(t, "level01", Options{Config: unshuffled()})
	g.Elapse(19 * time.Second)
	assert.False(t, g.Over())
	g.Elapse(2 * time.Second)

	snap := g.Snapshot()
	assert.Equal(t, StateTimedOut, snap.State)
	assert.Equal(t, time.Duration(0), snap.Remaining)
	assert.True(t, g.State().GameOver)

	play(t, g, level01Solution+"f")
	assert.Nil(t, g.Run(), "no flow after the timer ran out")
}

func TestRestart(t *testing.T) {
	g := newLevelGame(t, "level01", Options{})
	play(t, g, "rrf")
	require.NotNil(t, g.Run())

	play(t, g, "x")
	snap := g.Snapshot()
	assert.Equal(t, StatePlaying, snap.State)
	assert.Equal(t, core.P(0, 0), snap.Cursor, "cursor back on the default start")
	assert.Equal(t, 20*time.Second, snap.Remaining)
	assert.Nil(t, g.Run())
	assert.Equal(t, uint64(4), snap.Tick)
}

func TestCursorStaysOnBoard(t *testing.T) {
	g := newLevelGame(t, "level01", Options{Config: unshuffled()})
	play(t, g, "uull")
	assert.Equal(t, core.P(0, 0), g.Snapshot().Cursor)

	play(t, g, "rrrrrrrddddddd")
	assert.Equal(t, core.P(4, 4), g.Snapshot().Cursor)
}

func TestShuffleKeepsTiles(t *testing.T) {
	g := newLevelGame(t, "level02", Options{})
	lvl := g.opts.Level
	for i, c := range g.Board().Cells() {
		assert.Equal(t, lvl.Pipes[i], c.Pipe)
	}
}

const freeText = `5
30;20;10
S:1;:;:;:;:2;
:3;:1;:;:;:1;
:;:;:;:;:1;
:;:;:;:;:1;
:;:;:;:;E:1;
`

func newFreeGame(t *testing.T) *Game {
	t.Helper()
	parsed, err := formats.ParseText([]byte(freeText))
	require.NoError(t, err)
	parsed.ID = "free"
	g, err := New(Options{Mode: ModeFree, Level: &levels.Level{Level: parsed}, Config: unshuffled()})
	require.NoError(t, err)
	require.NoError(t, g.Reset(pcore.RuntimeConfig{Seed: 11}))
	return g
}

// moveTo walks the cursor to p.
func moveTo(t *testing.T, g *Game, p core.Position) {
	t.Helper()
	for g.cursor != p {
		switch {
		case g.cursor.X < p.X:
			play(t, g, "r")
		case g.cursor.X > p.X:
			play(t, g, "l")
		case g.cursor.Y < p.Y:
			play(t, g, "d")
		default:
			play(t, g, "u")
		}
	}
}

func find(g *Game, match func(core.Position, core.Cell) bool) (core.Position, bool) {
	for _, c := range g.Board().Cells() {
		if match(c.Pos, c) {
			return c.Pos, true
		}
	}
	return core.Position{}, false
}

func TestFreeWorldGrabAndDrop(t *testing.T) {
	g := newFreeGame(t)
	ends := g.Endpoints()

	for _, p := range []core.Position{core.P(0, 0), core.P(4, 4)} {
		assert.True(t, ends.Contains(p))
		assert.False(t, g.Board().Get(p).Pipe.IsEmpty(), "endpoint %v kept its tile", p)
	}

	// Endpoints cannot be picked up.
	moveTo(t, g, core.P(0, 0))
	play(t, g, "g")
	assert.Nil(t, g.Snapshot().Grabbed)

	tile, ok := find(g, func(p core.Position, c core.Cell) bool { return !ends.Contains(p) && !c.Pipe.IsEmpty() })
	require.True(t, ok)
	hole, ok := find(g, func(p core.Position, c core.Cell) bool { return c.Pipe.IsEmpty() })
	require.True(t, ok)
	pipe := g.Board().Get(tile).Pipe

	moveTo(t, g, tile)
	play(t, g, "g")
	require.NotNil(t, g.Snapshot().Grabbed)
	assert.Equal(t, tile, *g.Snapshot().Grabbed)

	moveTo(t, g, hole)
	play(t, g, "g")
	assert.Nil(t, g.Snapshot().Grabbed)
	assert.Equal(t, pipe, g.Board().Get(hole).Pipe)
	assert.True(t, g.Board().Get(tile).Pipe.IsEmpty())

	// Dropping onto an occupied tile or an endpoint is rejected.
	other, ok := find(g, func(p core.Position, c core.Cell) bool {
		return p != hole && !ends.Contains(p) && !c.Pipe.IsEmpty()
	})
	require.True(t, ok)
	play(t, g, "g")
	moveTo(t, g, other)
	play(t, g, "g")
	assert.Equal(t, pipe, g.Board().Get(hole).Pipe, "occupied drop leaves the tile in place")

	play(t, g, "g")
	moveTo(t, g, core.P(4, 4))
	play(t, g, "g")
	assert.Equal(t, core.Straight, g.Board().Get(core.P(4, 4)).Pipe.Shape)
}

func TestGrabIgnoredOutsideFreeWorld(t *testing.T) {
	g := newLevelGame(t, "level01", Options{Config: unshuffled()})
	play(t, g, "rg")
	assert.Nil(t, g.Snapshot().Grabbed)
}

func TestArcadeDeterministic(t *testing.T) {
	snapshot := func() Snapshot {
		g, err := New(Options{Mode: ModeArcade, Difficulty: config.DifficultyNormal})
		require.NoError(t, err)
		require.NoError(t, g.Reset(pcore.RuntimeConfig{Seed: 42}))
		play(t, g, "rrdo")
		return g.Snapshot()
	}

	a, b := snapshot(), snapshot()
	assert.Equal(t, a, b)
	assert.Equal(t, "arcade", a.Level)
	assert.Equal(t, 40, a.TimeLimit)
	assert.Len(t, a.Cells, 100)
}

func TestArcadeBadDeadEndShape(t *testing.T) {
	cfg := config.DefaultPipeflowConfig()
	cfg.Generator.DeadEndShapes = []string{"empty"}
	g, err := New(Options{Mode: ModeArcade, Config: cfg})
	require.NoError(t, err)
	assert.Error(t, g.Reset(pcore.RuntimeConfig{Seed: 1}))
}

func TestAsyncFlow(t *testing.T) {
	g := newLevelGame(t, "level01", Options{Config: unshuffled(), Pacer: core.NoPacer{}})
	play(t, g, level01Solution+"f")
	require.NotNil(t, g.Run())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	outcome, err := g.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.OutcomeWon, outcome)
	assert.Equal(t, StateWon, g.Snapshot().State)
	assert.Equal(t, 10000, g.Snapshot().Score)
}
