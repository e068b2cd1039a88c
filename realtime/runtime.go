package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/comalice/combograph"
	"github.com/comalice/combograph/internal/logging"
)

var (
	ErrBatchFull      = errors.New("command batch full")
	ErrDuplicateActor = errors.New("actor already registered")
	ErrUnknownActor   = errors.New("unknown actor")
	ErrStopped        = errors.New("runtime stopped")
)

// GraphSource supplies the move graph for a tick. *moveset.Handle implements
// it; StaticGraph wraps a fixed graph.
type GraphSource interface {
	Graph() *combograph.MoveGraph
}

// StaticGraph is a GraphSource that never changes.
type StaticGraph struct{ G *combograph.MoveGraph }

func (s StaticGraph) Graph() *combograph.MoveGraph { return s.G }

// Config configures the runtime. Zero fields take defaults.
type Config struct {
	TickRate         time.Duration // default 16.667ms (60 FPS)
	MaxInputsPerTick int           // command batch capacity, default 1000
	Workers          int           // advance goroutines, default 1
}

// Option configures optional collaborators.
type Option func(*Runtime)

// WithLogger sets the runtime logger.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Runtime) { rt.logger = logging.OrNop(l) }
}

// WithMetrics records tick and transition metrics.
func WithMetrics(m *Metrics) Option {
	return func(rt *Runtime) { rt.metrics = m }
}

// WithPublisher receives every matched or rejected step.
func WithPublisher(p Publisher) Option {
	return func(rt *Runtime) { rt.publisher = p }
}

// Runtime owns a roster of actors sharing one graph source.
type Runtime struct {
	source    GraphSource
	tickRate  time.Duration
	workers   int
	logger    *slog.Logger
	metrics   *Metrics
	publisher Publisher

	// mu serializes ticks and roster access.
	mu     sync.Mutex
	actors []*combograph.Actor
	ids    []uuid.UUID
	index  map[uuid.UUID]int

	// Command batching; independent of mu so senders never wait on a tick.
	batchMu     sync.Mutex
	batch       []Command
	spare       []Command
	maxBatch    int
	sequenceNum uint64

	tickNum atomic.Uint64

	ticker     *time.Ticker
	tickCtx    context.Context
	tickCancel context.CancelFunc
	stopped    chan struct{}
	running    atomic.Bool
	// halted is set by Stop; a stopped runtime is not restarted.
	halted atomic.Bool
}

// NewRuntime creates a stopped runtime reading graphs from source.
func NewRuntime(source GraphSource, cfg Config, opts ...Option) *Runtime {
	if cfg.MaxInputsPerTick <= 0 {
		cfg.MaxInputsPerTick = 1000
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 16667 * time.Microsecond
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if source == nil {
		source = StaticGraph{}
	}

	rt := &Runtime{
		source:   source,
		tickRate: cfg.TickRate,
		workers:  cfg.Workers,
		logger:   logging.NewNop(),
		index:    make(map[uuid.UUID]int),
		batch:    make([]Command, 0, cfg.MaxInputsPerTick),
		spare:    make([]Command, 0, cfg.MaxInputsPerTick),
		maxBatch: cfg.MaxInputsPerTick,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

//
// Roster
//

// AddActor registers a new idle actor with an input queue of the given
// capacity (8 or 16) and returns its ID.
func (rt *Runtime) AddActor(queueCapacity int) uuid.UUID {
	id := uuid.New()
	// A fresh random UUID cannot collide in practice.
	_ = rt.AddActorWithID(id, queueCapacity)
	return id
}

// AddActorWithID registers an actor under a caller-chosen ID.
func (rt *Runtime) AddActorWithID(id uuid.UUID, queueCapacity int) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if _, exists := rt.index[id]; exists {
		return fmt.Errorf("actor %s: %w", id, ErrDuplicateActor)
	}
	rt.index[id] = len(rt.actors)
	rt.actors = append(rt.actors, combograph.NewActor(queueCapacity))
	rt.ids = append(rt.ids, id)
	rt.metrics.setActors(len(rt.actors))
	return nil
}

// RemoveActor drops an actor. Commands still batched for it are ignored.
func (rt *Runtime) RemoveActor(id uuid.UUID) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	i, ok := rt.index[id]
	if !ok {
		return fmt.Errorf("actor %s: %w", id, ErrUnknownActor)
	}
	last := len(rt.actors) - 1
	rt.actors[i] = rt.actors[last]
	rt.ids[i] = rt.ids[last]
	rt.index[rt.ids[i]] = i
	rt.actors[last] = nil
	rt.actors = rt.actors[:last]
	rt.ids = rt.ids[:last]
	delete(rt.index, id)
	rt.metrics.setActors(len(rt.actors))
	return nil
}

// ActorSnapshot is a copy of one actor's data between ticks.
type ActorSnapshot struct {
	ID       uuid.UUID
	State    combograph.ActorState
	Pending  int
	Last     combograph.Result
	Capacity int
}

// Actor returns a snapshot of the actor with the given ID.
func (rt *Runtime) Actor(id uuid.UUID) (ActorSnapshot, bool) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	i, ok := rt.index[id]
	if !ok {
		return ActorSnapshot{}, false
	}
	a := rt.actors[i]
	return ActorSnapshot{
		ID:       id,
		State:    a.State,
		Pending:  a.Queue.Len(),
		Last:     a.Last,
		Capacity: a.Queue.Cap(),
	}, true
}

// ActorCount returns the number of registered actors.
func (rt *Runtime) ActorCount() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.actors)
}

//
// Commands (thread-safe, applied at the next tick)
//

// SendInput queues a trigger for the actor.
func (rt *Runtime) SendInput(id uuid.UUID, trigger combograph.TriggerID) error {
	return rt.send(Command{Kind: CommandInput, Actor: id, Trigger: trigger})
}

// SignalFinished marks the actor's current action complete.
func (rt *Runtime) SignalFinished(id uuid.UUID) error {
	return rt.send(Command{Kind: CommandFinish, Actor: id})
}

// ResetActor returns the actor to the idle node, e.g. on combo timeout or death.
func (rt *Runtime) ResetActor(id uuid.UUID) error {
	return rt.send(Command{Kind: CommandReset, Actor: id})
}

// ClearInputs drops the actor's pending inputs, e.g. on respawn.
func (rt *Runtime) ClearInputs(id uuid.UUID) error {
	return rt.send(Command{Kind: CommandClear, Actor: id})
}

func (rt *Runtime) send(cmd Command) error {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()

	if len(rt.batch) >= rt.maxBatch {
		return ErrBatchFull
	}
	cmd.SequenceNum = rt.sequenceNum
	rt.sequenceNum++
	rt.batch = append(rt.batch, cmd)
	return nil
}

// GetTickNumber returns the number of completed ticks.
func (rt *Runtime) GetTickNumber() uint64 {
	return rt.tickNum.Load()
}

//
// Tick loop
//

// Start begins fixed-rate execution. It fails once the runtime has been
// stopped.
func (rt *Runtime) Start(ctx context.Context) error {
	if rt.halted.Load() {
		return ErrStopped
	}
	if !rt.running.CompareAndSwap(false, true) {
		return errors.New("runtime already started")
	}
	rt.tickCtx, rt.tickCancel = context.WithCancel(ctx)
	rt.ticker = time.NewTicker(rt.tickRate)
	rt.stopped = make(chan struct{})

	rt.logger.Info("runtime started", "tick_rate", rt.tickRate, "workers", rt.workers)
	go rt.tickLoop()
	return nil
}

// Stop halts the tick loop and waits for the current tick to finish. The
// publisher is closed and detached; Step still works afterwards but publishes
// nothing.
func (rt *Runtime) Stop() error {
	if !rt.running.CompareAndSwap(true, false) {
		return nil
	}
	rt.halted.Store(true)
	rt.tickCancel()
	rt.ticker.Stop()
	<-rt.stopped

	rt.logger.Info("runtime stopped", "ticks", rt.GetTickNumber())

	rt.mu.Lock()
	pub := rt.publisher
	rt.publisher = nil
	rt.mu.Unlock()
	if pub != nil {
		return pub.Close()
	}
	return nil
}

func (rt *Runtime) tickLoop() {
	defer close(rt.stopped)

	for {
		select {
		case <-rt.tickCtx.Done():
			return
		case <-rt.ticker.C:
			rt.safeStep()
		}
	}
}

// safeStep runs one tick, logging instead of crashing on a panic.
func (rt *Runtime) safeStep() {
	defer func() {
		if r := recover(); r != nil {
			rt.logger.Error("tick panicked", "tick", rt.GetTickNumber(), "panic", r)
		}
	}()
	if err := rt.Step(rt.tickCtx); err != nil && !errors.Is(err, context.Canceled) {
		rt.logger.Error("tick failed", "tick", rt.GetTickNumber(), "error", err)
	}
}
