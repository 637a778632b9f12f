package genetic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/mazega/genetic/tracking"
	"github.com/lixenwraith/mazega/maze"
)

// ErrNotIdle is returned when starting an engine that already ran
var ErrNotIdle = errors.New("engine is not idle")

// StopReason explains a terminal state
type StopReason string

const (
	ReasonNone            StopReason = ""
	ReasonMaxGenerations  StopReason = "max_generations"
	ReasonOptimum         StopReason = "optimum"
	ReasonStopped         StopReason = "stopped"
	ReasonCancelled       StopReason = "cancelled"
	ReasonEvaluatorFailed StopReason = "evaluator_failed"
)

// ErrEvaluator wraps a panic raised by an evaluator
var ErrEvaluator = errors.New("evaluator failed")

// historyCapacity bounds retained statistics for unbounded runs
const historyCapacity = 4096

// Result is the final state of a run
type Result struct {
	RunID  uuid.UUID
	State  State
	Reason StopReason
	// Best is the best record of the run; valid when HasBest
	Best    Record
	HasBest bool
	// Route is Best's scored walk
	Route Route
	// Err is set when the run ended with ReasonEvaluatorFailed
	Err error
	// Generation is the index of the last evaluated generation
	Generation  int
	Evaluations int
	Elapsed     time.Duration
}

// Option customises an engine before it starts
type Option func(*Engine)

// WithObserver adds a progress observer
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// WithEvaluator replaces the evaluator chosen by Config.Fitness
func WithEvaluator(ev Evaluator) Option {
	return func(e *Engine) { e.evaluator = ev }
}

// WithSelector replaces the selector chosen by Config.Selection
func WithSelector(s Selector) Option {
	return func(e *Engine) { e.selector = s }
}

// WithRand injects the random source, overriding Config.Seed
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithLogger sets the structured logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithHistory sets how many generation statistics are retained (0 = all)
func WithHistory(capacity int) Option {
	return func(e *Engine) { e.historyCap = capacity }
}

// Engine evolves move sequences over one maze.
// Lifecycle: Idle -> Running -> Stopped | Converged. An engine runs once.
type Engine struct {
	id        uuid.UUID
	maze      *maze.Maze
	config    Config
	evaluator Evaluator
	selector  Selector
	ranking   Ranking
	optimum   float64
	rng       *rand.Rand
	logger    *slog.Logger

	observers  []Observer
	notifier   *notifier
	historyCap int
	collector  *tracking.Collector

	mu          sync.RWMutex
	state       State
	generation  int
	best        Record
	hasBest     bool
	population  []Candidate
	evaluations int
	result      Result

	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewEngine validates cfg and m and returns an idle engine
func NewEngine(m *maze.Maze, cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		id:         uuid.New(),
		maze:       m,
		config:     cfg,
		historyCap: historyCapacity,
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.evaluator == nil {
		ev, err := NewEvaluator(cfg.Fitness, cfg.Axes)
		if err != nil {
			return nil, err
		}
		e.evaluator = ev
	}
	if e.selector == nil {
		sel, err := NewSelector(cfg.Selection, cfg.TournamentSize)
		if err != nil {
			return nil, err
		}
		e.selector = sel
	}
	if e.rng == nil {
		if cfg.Seed == 0 {
			e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		} else {
			e.rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
		}
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	e.logger = e.logger.With("run_id", e.id.String())

	e.ranking = e.evaluator.Ranking()
	e.optimum = e.evaluator.Optimum(m)
	e.collector = tracking.NewCollector(e.historyCap, e.ranking == Maximize)
	e.notifier = newNotifier(e.observers)

	return e, nil
}

// Start validates and launches a run in one call
func Start(ctx context.Context, m *maze.Maze, cfg Config, opts ...Option) (*Engine, error) {
	e, err := NewEngine(m, cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := e.Start(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Start moves an idle engine to Running and evolves on a new goroutine.
// Cancelling ctx stops the run at the next generation boundary.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		return ErrNotIdle
	}
	e.state = StateRunning
	e.mu.Unlock()

	e.logger.Info("run started",
		"population", e.config.PopulationSize,
		"mutation_rate", e.config.MutationRate,
		"selection", e.config.Selection.String(),
		"fitness", e.config.Fitness.String(),
		"max_generations", e.config.MaxGenerations,
		"width", e.maze.Width(),
		"height", e.maze.Height(),
	)

	e.notifier.start()
	go e.loop(ctx)
	return nil
}

// Run starts the engine and blocks until it is terminal.
// The error is ctx.Err() when the run ended through ctx cancellation.
func (e *Engine) Run(ctx context.Context) (Result, error) {
	if err := e.Start(ctx); err != nil {
		return Result{}, err
	}
	res := e.Wait()
	switch res.Reason {
	case ReasonCancelled:
		return res, ctx.Err()
	case ReasonEvaluatorFailed:
		return res, res.Err
	}
	return res, nil
}

// Stop requests a stop. A running engine finishes the current generation first;
// an idle engine becomes Stopped without running.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateIdle {
		e.state = StateStopped
		e.result = Result{RunID: e.id, State: StateStopped, Reason: ReasonStopped}
		e.notifier.close()
		close(e.done)
	}
}

// Wait blocks until the engine is terminal and observers have drained
func (e *Engine) Wait() Result {
	<-e.done
	e.notifier.wait()

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.result
}

// Done is closed when the engine reaches a terminal state
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

func (e *Engine) ID() uuid.UUID        { return e.id }
func (e *Engine) Config() Config       { return e.config }
func (e *Engine) Maze() *maze.Maze     { return e.maze }
func (e *Engine) Ranking() Ranking     { return e.ranking }
func (e *Engine) Optimum() float64     { return e.optimum }
func (e *Engine) Dropped() uint64      { return e.notifier.dropped.Load() }
func (e *Engine) Evaluator() Evaluator { return e.evaluator }

// State returns the current lifecycle state
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Generation returns the index of the last evaluated generation
func (e *Engine) Generation() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.generation
}

// Best returns a copy of the best record so far
func (e *Engine) Best() (Record, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if !e.hasBest {
		return Record{}, false
	}
	r := e.best
	r.Path = r.Path.Clone()
	return r, true
}

// Population returns a deep copy of the last scored population
func (e *Engine) Population() ([]Candidate, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.population) == 0 {
		return nil, nil
	}
	var out []Candidate
	if err := copier.CopyWithOption(&out, e.population, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	return out, nil
}

// History returns retained per-generation statistics, oldest first
func (e *Engine) History() []tracking.Stats {
	return e.collector.History()
}

// --- Evolution Loop ---

func (e *Engine) loop(ctx context.Context) {
	started := time.Now()
	size := e.config.PopulationSize

	paths := InitializePopulation(e.maze, size, e.rng)
	scores := make([]float64, size)

	for gen := 0; ; gen++ {
		genStart := time.Now()
		if err := e.evaluate(paths, scores); err != nil {
			e.logger.Error("evaluation failed", "generation", gen, "error", err)
			e.finish(StateStopped, ReasonEvaluatorFailed, err, started)
			return
		}

		pop := make([]Candidate, size)
		for i := range pop {
			pop[i] = Candidate{Path: paths[i], Score: scores[i]}
		}
		genBest := pop[bestIndex(pop, e.ranking)]

		stats := tracking.Summarize(gen, scores, e.ranking == Maximize, e.optimum)
		stats.Elapsed = time.Since(genStart)
		e.collector.Collect(stats)

		e.mu.Lock()
		if !e.hasBest || e.ranking.Better(genBest.Score, e.best.Score) {
			e.best = Record{Candidate: genBest, Generation: gen}
			e.hasBest = true
		}
		e.population = pop
		e.generation = gen
		e.evaluations += size
		bestSoFar := e.best
		e.mu.Unlock()

		state, reason := e.boundary(ctx, gen, bestSoFar.Score)

		e.logger.Debug("generation",
			"generation", gen,
			"best", genBest.Score,
			"best_so_far", bestSoFar.Score,
			"mean", stats.Mean,
			"elapsed", stats.Elapsed,
		)

		// State is terminal before the final progress goes out
		if state.Terminal() {
			e.mu.Lock()
			e.state = state
			e.mu.Unlock()
		}

		bestSoFar.Path = bestSoFar.Path.Clone()
		e.notifier.send(Progress{
			RunID:      e.id,
			Generation: gen,
			Best:       Candidate{Path: genBest.Path.Clone(), Score: genBest.Score},
			BestSoFar:  bestSoFar,
			Route:      TraceFor(e.evaluator, bestSoFar.Path, e.maze, e.config.Axes),
			Stats:      stats,
			Maze:       e.maze,
			Axes:       e.config.Axes,
			Optimum:    e.optimum,
			State:      state,
		})

		if state.Terminal() {
			e.finish(state, reason, nil, started)
			return
		}

		paths = e.breed(pop)
	}
}

// boundary decides, between generations, whether the run ends
func (e *Engine) boundary(ctx context.Context, gen int, bestScore float64) (State, StopReason) {
	select {
	case <-e.stopCh:
		return StateStopped, ReasonStopped
	default:
	}
	if ctx.Err() != nil {
		return StateStopped, ReasonCancelled
	}
	if e.config.StopOnOptimum && e.ranking.AtLeast(bestScore, e.optimum) {
		return StateConverged, ReasonOptimum
	}
	if e.config.MaxGenerations > 0 && gen+1 >= e.config.MaxGenerations {
		return StateConverged, ReasonMaxGenerations
	}
	return StateRunning, ReasonNone
}

func (e *Engine) finish(state State, reason StopReason, err error, started time.Time) {
	e.mu.Lock()
	e.state = state
	e.result = Result{
		RunID:       e.id,
		State:       state,
		Reason:      reason,
		Best:        e.best,
		HasBest:     e.hasBest,
		Generation:  e.generation,
		Evaluations: e.evaluations,
		Elapsed:     time.Since(started),
		Err:         err,
	}
	e.result.Best.Path = e.best.Path.Clone()
	if e.hasBest {
		e.result.Route = TraceFor(e.evaluator, e.result.Best.Path, e.maze, e.config.Axes)
	}
	res := e.result
	e.mu.Unlock()

	e.logger.Info("run finished",
		"state", state.String(),
		"reason", string(reason),
		"generation", res.Generation,
		"best", res.Best.Score,
		"best_generation", res.Best.Generation,
		"evaluations", res.Evaluations,
		"elapsed", res.Elapsed,
		"dropped_notifications", e.Dropped(),
	)

	e.notifier.close()
	close(e.done)
}

// evaluate scores every path; the errgroup wait is the generation barrier
func (e *Engine) evaluate(paths []Individual, scores []float64) error {
	workers := e.config.Parallelism
	if workers <= 1 || len(paths) < 2 {
		return e.scoreRange(paths, scores, 0, len(paths))
	}

	chunk := (len(paths) + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < len(paths); lo += chunk {
		hi := min(lo+chunk, len(paths))
		g.Go(func() error {
			return e.scoreRange(paths, scores, lo, hi)
		})
	}
	return g.Wait()
}

// scoreRange scores paths[lo:hi], turning an evaluator panic into ErrEvaluator
func (e *Engine) scoreRange(paths []Individual, scores []float64, lo, hi int) (err error) {
	i := lo
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: individual %d: %v", ErrEvaluator, i, r)
		}
	}()
	for ; i < hi; i++ {
		scores[i] = e.evaluator.Evaluate(paths[i], e.maze)
	}
	return nil
}

// breed builds the next generation from the scored population
func (e *Engine) breed(pop []Candidate) []Individual {
	next := make([]Individual, len(pop))
	for i := range next {
		p1 := e.selector.Select(pop, e.ranking, e.rng)
		p2 := e.selector.Select(pop, e.ranking, e.rng)
		child := Crossover(pop[p1].Path, pop[p2].Path, e.rng)
		Mutate(child, e.config.MutationRate, e.rng)
		next[i] = child
	}
	return next
}
