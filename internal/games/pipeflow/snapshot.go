package pipeflow

import (
	"time"

	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/core"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying  GameStateType = "playing"
	StateFlowing  GameStateType = "flowing"
	StateWon      GameStateType = "won"
	StateLost     GameStateType = "lost"
	StateTimedOut GameStateType = "timed_out"
)

// Snapshot captures the session state for determinism testing and replay.
type Snapshot struct {
	Tick       uint64
	Mode       string
	Level      string
	Difficulty string
	TimeLimit  int
	Remaining  time.Duration
	Cursor     core.Position
	Grabbed    *core.Position
	Score      int
	State      GameStateType
	Cells      []core.Cell
	Visited    []core.Position
}

// Snapshot returns the current session snapshot.
func (g *Game) Snapshot() Snapshot {
	g.settle()

	state := StatePlaying
	switch {
	case g.timedOut:
		state = StateTimedOut
	case g.outcome == core.OutcomeWon:
		state = StateWon
	case g.outcome == core.OutcomeLost:
		state = StateLost
	case g.run != nil:
		state = StateFlowing
	}

	var visited []core.Position
	if g.run != nil {
		visited = g.run.Visited()
	}
	var grabbed *core.Position
	if g.grabbed != nil {
		p := *g.grabbed
		grabbed = &p
	}

	return Snapshot{
		Tick:       g.tick,
		Mode:       string(g.opts.Mode),
		Level:      g.ID(),
		Difficulty: string(g.opts.Difficulty),
		TimeLimit:  g.limit,
		Remaining:  g.remaining,
		Cursor:     g.cursor,
		Grabbed:    grabbed,
		Score:      g.score,
		State:      state,
		Cells:      g.board.Cells(),
		Visited:    visited,
	}
}
