// Package pipeflow implements a PipeFlow play session: the board, the tile
// cursor, the countdown and the liquid release, driven by semantic input frames.
package pipeflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	pcore "github.com/vovakirdan/pipeflow/internal/core"
	"github.com/vovakirdan/pipeflow/internal/config"
	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/core"
	"github.com/vovakirdan/pipeflow/internal/games/pipeflow/levels"
)

// Mode represents the game mode.
type Mode string

const (
	ModeLevel  Mode = "level"
	ModeArcade Mode = "arcade"
	ModeFree   Mode = "free"
)

// ParseMode converts a flag value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeLevel, ModeArcade, ModeFree:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want level, arcade or free)", s)
	}
}

// Options configures a session.
type Options struct {
	Mode       Mode
	Level      *levels.Level // required unless Mode is ModeArcade
	Difficulty config.DifficultyPreset
	Config     config.PipeflowConfig

	// Pacer, when set, releases the liquids asynchronously and paces the
	// waves through it. A nil Pacer resolves the flow within one Step.
	Pacer  core.Pacer
	Logger *log.Logger
}

// Game is one PipeFlow session.
type Game struct {
	opts   Options
	logger *log.Logger
	rng    *core.SimpleRNG
	tick   uint64

	limit   int // seconds
	arcade  *core.Puzzle
	board   *core.Board
	ends    core.Endpoints
	start   core.Position
	cursor  core.Position
	grabbed *core.Position

	remaining time.Duration
	run       *core.Run
	outcome   core.Outcome
	timedOut  bool
	score     int
}

// New creates a session. Call Reset before the first Step.
func New(opts Options) (*Game, error) {
	if opts.Mode == "" {
		opts.Mode = ModeLevel
	}
	if _, err := ParseMode(string(opts.Mode)); err != nil {
		return nil, err
	}
	if opts.Mode != ModeArcade && opts.Level == nil {
		return nil, fmt.Errorf("%s mode needs a level", opts.Mode)
	}
	if opts.Difficulty == "" {
		opts.Difficulty = config.DifficultyEasy
	}
	if opts.Config.Board.ArcadeSize == 0 {
		opts.Config = config.DefaultPipeflowConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Game{opts: opts, logger: logger}, nil
}

// ID returns the identifier scores are stored under.
func (g *Game) ID() string {
	if g.opts.Mode == ModeArcade {
		return "arcade"
	}
	return g.opts.Level.ID
}

// Title returns the display name.
func (g *Game) Title() string {
	switch g.opts.Mode {
	case ModeArcade:
		return "PipeFlow (Arcade)"
	case ModeFree:
		return g.opts.Level.Name + " (Free World)"
	default:
		return g.opts.Level.Name
	}
}

// Mode returns the session's mode.
func (g *Game) Mode() Mode {
	return g.opts.Mode
}

// Difficulty returns the session's difficulty preset.
func (g *Game) Difficulty() config.DifficultyPreset {
	return g.opts.Difficulty
}

// tier maps the difficulty preset to a level's time-limit tier.
func (g *Game) tier() core.Difficulty {
	return core.Difficulty(g.opts.Difficulty.Index())
}

// Reset initializes the session. Arcade mode generates a fresh puzzle.
func (g *Game) Reset(cfg pcore.RuntimeConfig) error {
	g.rng = core.NewRNG(cfg.SeedOrNow())
	g.tick = 0
	g.arcade = nil

	switch g.opts.Mode {
	case ModeArcade:
		n := g.opts.Config.Board.ArcadeSize
		table, err := ShapeTable(g.opts.Config.Generator)
		if err != nil {
			return err
		}
		puzzle, err := core.GeneratePuzzleWith(n, n, g.rng, table)
		if err != nil {
			return fmt.Errorf("generating arcade puzzle: %w", err)
		}
		g.arcade = &puzzle
		g.limit = g.opts.Config.Arcade.TimeLimits.For(g.opts.Difficulty)
	default:
		g.limit = g.opts.Level.TimeLimit(g.tier())
	}
	g.load()
	return nil
}

// load builds the board for the current mode and restores the play state.
func (g *Game) load() {
	if g.run != nil {
		g.run.Cancel()
	}
	g.run = nil
	g.outcome = core.OutcomePending
	g.timedOut = false
	g.score = 0
	g.grabbed = nil
	g.remaining = time.Duration(g.limit) * time.Second

	switch g.opts.Mode {
	case ModeArcade:
		g.board = core.NewBoard(g.arcade.W, g.arcade.Pipes)
		g.ends = g.arcade.Endpoints()
		g.start = g.arcade.Start
	default:
		lvl := g.opts.Level
		g.board = lvl.Board(g.opts.Mode == ModeFree, g.rng)
		g.ends = lvl.Ends.Clone()
		g.start = core.P(0, 0)
		if lvl.DefaultStart != nil {
			g.start = *lvl.DefaultStart
		}
	}
	if g.opts.Config.Gameplay.Shuffle {
		core.Shuffle(g.board, g.rng)
	}
	g.cursor = g.start
}

// restart reshuffles the current board. Free world rebuilds the level, so
// the tiles are dealt again.
func (g *Game) restart() {
	g.logger.Debug("restart", "game", g.ID(), "mode", g.opts.Mode)
	if g.opts.Mode == ModeFree || g.board == nil {
		g.load()
		return
	}
	if g.run != nil {
		g.run.Cancel()
	}
	g.run = nil
	g.outcome = core.OutcomePending
	g.timedOut = false
	g.score = 0
	g.grabbed = nil
	g.remaining = time.Duration(g.limit) * time.Second
	if g.opts.Config.Gameplay.Shuffle {
		core.Shuffle(g.board, g.rng)
	}
	g.cursor = g.start
}

// Step advances the session by one input frame.
func (g *Game) Step(in pcore.InputFrame) pcore.StepResult {
	g.tick++

	if in.Has(pcore.ActionRestart) {
		g.restart()
		return pcore.StepResult{State: g.State()}
	}

	g.settle()
	if g.Over() || g.run != nil {
		// The board is frozen once the liquids are released.
		return pcore.StepResult{State: g.State()}
	}

	switch {
	case in.Has(pcore.ActionUp):
		g.moveCursor(core.DirUp)
	case in.Has(pcore.ActionDown):
		g.moveCursor(core.DirDown)
	case in.Has(pcore.ActionLeft):
		g.moveCursor(core.DirLeft)
	case in.Has(pcore.ActionRight):
		g.moveCursor(core.DirRight)
	}

	if in.Has(pcore.ActionRotate) {
		g.board.Rotate(g.cursor)
	}
	if in.Has(pcore.ActionGrab) && g.opts.Mode == ModeFree {
		g.grab()
	}
	if in.Has(pcore.ActionFlow) {
		g.startFlow()
	}
	return pcore.StepResult{State: g.State()}
}

func (g *Game) moveCursor(d core.Dir) {
	if next, ok := g.board.Neighbor(g.cursor, d); ok {
		g.cursor = next
	}
}

// grab picks up the tile under the cursor, or drops the held tile into the
// empty cell under the cursor.
func (g *Game) grab() {
	if g.grabbed == nil {
		if g.ends.Contains(g.cursor) || g.board.Get(g.cursor).Pipe.IsEmpty() {
			return
		}
		p := g.cursor
		g.grabbed = &p
		return
	}

	from := *g.grabbed
	g.grabbed = nil
	if from == g.cursor {
		return
	}
	var err error
	if g.ends.Contains(g.cursor) {
		err = &core.MutationError{Op: "swap", From: from, To: g.cursor, Reason: "endpoint is fixed"}
	} else {
		err = g.board.CheckSwap(from, g.cursor)
	}
	if err != nil {
		var me *core.MutationError
		if errors.As(err, &me) {
			g.logger.Debug("swap rejected", "from", me.From, "to", me.To, "reason", me.Reason)
		}
		return
	}
	g.board.Swap(from, g.cursor)
}

// startFlow stops the countdown and releases the liquids.
func (g *Game) startFlow() {
	g.grabbed = nil
	opts := []core.Option{core.WithLogger(g.logger)}
	if g.opts.Pacer != nil {
		opts = append(opts, core.WithPacer(g.opts.Pacer))
	}
	r, err := core.NewRun(g.board, g.ends, opts...)
	if err != nil {
		g.logger.Error("flow rejected", "game", g.ID(), "err", err)
		return
	}
	g.run = r
	if g.opts.Pacer == nil {
		r.RunToCompletion()
		g.settle()
		return
	}
	if err := r.Start(context.Background()); err != nil {
		g.logger.Error("flow start failed", "run", r.ID(), "err", err)
	}
}

// settle records the outcome of a finished run.
func (g *Game) settle() {
	if g.run == nil || g.outcome != core.OutcomePending || !g.run.Finished() {
		return
	}
	g.outcome = g.run.Outcome()
	if g.outcome == core.OutcomeWon {
		p := core.ScoreParams{
			MaxScore:     g.opts.Config.Scoring.MaxScore,
			MaxTimeLimit: g.opts.Config.Scoring.MaxTimeLimit,
		}
		g.score = core.Score(g.remaining.Seconds(), float64(g.limit), g.opts.Mode == ModeArcade, p)
	}
	g.logger.Info("level finished", "game", g.ID(), "outcome", g.outcome, "score", g.score, "remaining", g.remaining)
}

// Elapse counts the timer down by d. The countdown stops once the liquids
// are released; reaching zero before that loses the level.
func (g *Game) Elapse(d time.Duration) {
	if g.run != nil || g.Over() {
		return
	}
	g.remaining -= d
	if g.remaining <= 0 {
		g.remaining = 0
		g.timedOut = true
		g.outcome = core.OutcomeLost
		g.logger.Info("time is up", "game", g.ID())
	}
}

// Wait blocks until an asynchronous flow finishes, then records its outcome.
func (g *Game) Wait(ctx context.Context) (core.Outcome, error) {
	if g.run == nil {
		return g.outcome, nil
	}
	if _, err := g.run.Wait(ctx); err != nil {
		return core.OutcomePending, err
	}
	g.settle()
	return g.outcome, nil
}

// Over reports whether the level has been won or lost.
func (g *Game) Over() bool {
	return g.outcome != core.OutcomePending
}

// Board returns the live board.
func (g *Game) Board() *core.Board {
	return g.board
}

// Endpoints returns the session's sources and sinks.
func (g *Game) Endpoints() core.Endpoints {
	return g.ends
}

// Run returns the current flow run, or nil before the liquids are released.
func (g *Game) Run() *core.Run {
	return g.run
}

// Remaining returns the time left on the countdown.
func (g *Game) Remaining() time.Duration {
	return g.remaining
}

// State returns the current game state.
func (g *Game) State() pcore.GameState {
	return pcore.GameState{
		Score:    g.score,
		GameOver: g.Over(),
		Won:      g.outcome == core.OutcomeWon,
	}
}

// ShapeTable builds the generator's shape table from config.
func ShapeTable(cfg config.GeneratorConfig) (core.ShapeTable, error) {
	shapes := make([]core.PipeShape, 0, len(cfg.DeadEndShapes))
	for _, name := range cfg.DeadEndShapes {
		s, ok := core.ParseShape(name)
		if !ok || s == core.Empty {
			return nil, fmt.Errorf("generator: invalid dead-end shape %q", name)
		}
		shapes = append(shapes, s)
	}
	return core.DefaultShapeTable(shapes...), nil
}
