package core

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
)

// ErrRunStarted is returned when Start is called on a run that already began.
var ErrRunStarted = errors.New("flow run already started")

// RunState is the lifecycle state of a flow run.
type RunState uint8

const (
	RunIdle RunState = iota
	RunRunning
	RunWon
	RunLost
	RunCancelled
)

func (s RunState) String() string {
	switch s {
	case RunIdle:
		return "idle"
	case RunRunning:
		return "running"
	case RunWon:
		return "won"
	case RunLost:
		return "lost"
	case RunCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Outcome is the win-condition result of a run.
// A cancelled run stays Pending.
type Outcome uint8

const (
	OutcomePending Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "pending"
	}
}

// StepResult describes a single queue pop of one traversal.
type StepResult struct {
	Traversal    int        // index in spawn order
	Liquid       Liquid     // liquid of the traversal
	Cell         Position   // popped cell
	Depth        int        // BFS depth of Cell
	WaveBoundary bool       // Depth is greater than any depth this traversal popped before
	Claimed      []Position // neighbors claimed by this step, in direction order
	TraversalEnd bool       // the traversal's queue emptied
	RunFinished  bool       // the whole run finished
}

// Traversal reports the progress of one (liquid, source) traversal.
type Traversal struct {
	Liquid  Liquid
	Source  Position
	Claimed int // cells owned by this traversal, source included
	Done    bool
}

// runContext is the state shared by every traversal of one run.
type runContext struct {
	visited mapset.Set[Position]
	depth   map[Position]int
}

func newRunContext() *runContext {
	return &runContext{
		visited: mapset.New[Position](),
		depth:   make(map[Position]int),
	}
}

// claim marks p visited at depth d. Returns false if p was already taken.
func (rc *runContext) claim(p Position, d int) bool {
	if rc.visited.Has(p) {
		return false
	}
	rc.visited.Put(p)
	rc.depth[p] = d
	return true
}

type traversal struct {
	liquid    Liquid
	source    Position
	queue     []Position
	lastDepth int
	claimed   int
	done      bool
}

// Option configures a Run.
type Option func(*Run)

// WithPacer sets the pacer used between waves by Start.
func WithPacer(p Pacer) Option {
	return func(r *Run) {
		if p != nil {
			r.pacer = p
		}
	}
}

// WithObserver registers a callback invoked after every step.
// Observers run on the stepping goroutine without the run's lock held.
func WithObserver(fn func(StepResult)) Option {
	return func(r *Run) {
		if fn != nil {
			r.observers = append(r.observers, fn)
		}
	}
}

// WithLogger sets the run's logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Run) {
		if l != nil {
			r.logger = l
		}
	}
}

// Run is one execution of the flow engine over a board.
//
// Traversals are spawned per (liquid, source) pair, water sources first and
// then lava, each in declaration order. They are advanced round-robin one
// queue pop at a time and share a single visited set, so the first traversal
// to reach a cell owns it. The board is only read; it must not be rotated or
// swapped while the run is active.
type Run struct {
	mu sync.Mutex

	id       uuid.UUID
	board    *Board
	ends     Endpoints
	rc       *runContext
	travs    []*traversal
	cursor   int
	state    RunState
	outcome  Outcome
	started  bool
	stopLoop context.CancelFunc

	pacer     Pacer
	observers []func(StepResult)
	logger    *log.Logger

	done     chan struct{}
	doneOnce sync.Once
}

// NewRun validates the endpoints against the board and returns an idle run.
// The endpoints are copied and stay fixed for the run's lifetime.
func NewRun(b *Board, ends Endpoints, opts ...Option) (*Run, error) {
	if err := ends.Validate(b); err != nil {
		return nil, err
	}
	r := &Run{
		id:     uuid.New(),
		board:  b,
		ends:   ends.Clone(),
		pacer:  NoPacer{},
		logger: log.New(io.Discard),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// StartRun creates a run and starts it asynchronously.
func StartRun(ctx context.Context, b *Board, ends Endpoints, opts ...Option) (*Run, error) {
	r, err := NewRun(b, ends, opts...)
	if err != nil {
		return nil, err
	}
	if err := r.Start(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// ID returns the run's unique identifier.
func (r *Run) ID() uuid.UUID {
	return r.id
}

// begin spawns the traversals and seeds the shared context. Caller holds mu.
func (r *Run) begin() {
	if r.state != RunIdle {
		return
	}
	r.rc = newRunContext()
	r.state = RunRunning
	for _, l := range Liquids {
		for _, src := range r.ends.Sources[l] {
			t := &traversal{liquid: l, source: src, lastDepth: -1}
			if r.rc.claim(src, 0) {
				t.queue = append(t.queue, src)
				t.claimed = 1
			} else {
				t.done = true
			}
			r.travs = append(r.travs, t)
		}
	}
	r.logger.Debug("flow run started", "run", r.id, "traversals", len(r.travs))
	if r.allDone() {
		r.finish()
	}
}

func (r *Run) allDone() bool {
	for _, t := range r.travs {
		if !t.done {
			return false
		}
	}
	return true
}

// nextTraversal returns the index of the next traversal due to pop, or -1.
func (r *Run) nextTraversal() int {
	n := len(r.travs)
	for k := 0; k < n; k++ {
		i := (r.cursor + k) % n
		if !r.travs[i].done {
			return i
		}
	}
	return -1
}

// finish evaluates the win condition. Caller holds mu.
func (r *Run) finish() {
	r.outcome = Evaluate(r.ends, r.rc.visited.Has)
	if r.outcome == OutcomeWon {
		r.state = RunWon
	} else {
		r.state = RunLost
	}
	r.logger.Info("flow run finished", "run", r.id, "outcome", r.outcome, "visited", r.rc.visited.Size())
	r.doneOnce.Do(func() { close(r.done) })
}

// stepLocked performs one pop. Caller holds mu.
func (r *Run) stepLocked() (StepResult, bool) {
	if r.state == RunIdle {
		r.begin()
	}
	if r.state != RunRunning {
		return StepResult{}, false
	}
	i := r.nextTraversal()
	if i < 0 {
		r.finish()
		return StepResult{RunFinished: true}, false
	}
	t := r.travs[i]
	r.cursor = (i + 1) % len(r.travs)

	cur := t.queue[0]
	t.queue = t.queue[1:]
	depth := r.rc.depth[cur]
	res := StepResult{
		Traversal:    i,
		Liquid:       t.liquid,
		Cell:         cur,
		Depth:        depth,
		WaveBoundary: depth > t.lastDepth,
	}
	if res.WaveBoundary {
		t.lastDepth = depth
		r.logger.Debug("wave", "run", r.id, "liquid", t.liquid, "depth", depth)
	}

	for _, d := range AllDirs {
		if !r.board.FlowEligible(cur, d, t.liquid) {
			continue
		}
		n := cur.Step(d)
		if r.rc.claim(n, depth+1) {
			t.queue = append(t.queue, n)
			t.claimed++
			res.Claimed = append(res.Claimed, n)
		}
	}

	if len(t.queue) == 0 {
		t.done = true
		res.TraversalEnd = true
	}
	if r.allDone() {
		r.finish()
		res.RunFinished = true
	}
	return res, true
}

func (r *Run) notify(res StepResult) {
	for _, fn := range r.observers {
		fn(res)
	}
}

// Step advances the next due traversal by one pop. It returns false once
// the run is finished or cancelled.
func (r *Run) Step() (StepResult, bool) {
	r.mu.Lock()
	res, ok := r.stepLocked()
	r.mu.Unlock()
	if ok {
		r.notify(res)
	}
	return res, ok
}

// RunToCompletion steps the run synchronously until it finishes.
func (r *Run) RunToCompletion() Outcome {
	for {
		if _, ok := r.Step(); !ok {
			return r.Outcome()
		}
	}
}

// Start runs the schedule on its own goroutine, pausing through the pacer
// before each wave. Pacing never changes the order of steps.
func (r *Run) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started || r.state != RunIdle {
		r.mu.Unlock()
		return ErrRunStarted
	}
	r.started = true
	ctx, r.stopLoop = context.WithCancel(ctx)
	r.begin()
	r.mu.Unlock()

	go r.loop(ctx)
	return nil
}

func (r *Run) loop(ctx context.Context) {
	for {
		r.mu.Lock()
		if r.state != RunRunning {
			r.mu.Unlock()
			return
		}
		liquid, depth, wave := r.peekLocked()
		r.mu.Unlock()

		if wave {
			if err := r.pacer.Pause(ctx, liquid, depth); err != nil {
				r.Cancel()
				return
			}
		}

		if _, ok := r.Step(); !ok {
			return
		}
	}
}

// peekLocked reports whether the next pop opens a new wave. Caller holds mu.
func (r *Run) peekLocked() (Liquid, int, bool) {
	i := r.nextTraversal()
	if i < 0 {
		return Water, 0, false
	}
	t := r.travs[i]
	d := r.rc.depth[t.queue[0]]
	return t.liquid, d, d > t.lastDepth
}

// Cancel aborts the run and discards its visited and depth state.
// Cancelling a finished run is a no-op.
func (r *Run) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case RunWon, RunLost, RunCancelled:
		return
	}
	r.state = RunCancelled
	r.rc = nil
	r.travs = nil
	if r.stopLoop != nil {
		r.stopLoop()
	}
	r.logger.Debug("flow run cancelled", "run", r.id)
	r.doneOnce.Do(func() { close(r.done) })
}

// Done is closed once the run finishes or is cancelled.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run ends or ctx is done.
func (r *Run) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-r.done:
		return r.Outcome(), nil
	case <-ctx.Done():
		return OutcomePending, ctx.Err()
	}
}

// State returns the lifecycle state.
func (r *Run) State() RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Finished reports whether the run reached Won or Lost.
func (r *Run) Finished() bool {
	s := r.State()
	return s == RunWon || s == RunLost
}

// Outcome returns Pending until the run finishes.
func (r *Run) Outcome() Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcome
}

// Visited returns the cells claimed so far in row-major order.
func (r *Run) Visited() []Position {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rc == nil {
		return nil
	}
	out := make([]Position, 0, r.rc.visited.Size())
	r.rc.visited.Each(func(p Position) {
		out = append(out, p)
	})
	slices.SortFunc(out, func(a, b Position) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
	return out
}

// IsVisited reports whether p has been claimed by any traversal.
func (r *Run) IsVisited(p Position) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rc != nil && r.rc.visited.Has(p)
}

// Depth returns the BFS depth at which p was claimed.
func (r *Run) Depth(p Position) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rc == nil {
		return 0, false
	}
	d, ok := r.rc.depth[p]
	return d, ok
}

// Traversals reports the progress of each traversal in spawn order.
func (r *Run) Traversals() []Traversal {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Traversal, len(r.travs))
	for i, t := range r.travs {
		out[i] = Traversal{Liquid: t.liquid, Source: t.source, Claimed: t.claimed, Done: t.done}
	}
	return out
}
