package testutil

import (
	"context"

	"github.com/google/uuid"

	"github.com/comalice/combograph"
	"github.com/comalice/combograph/realtime"
)

// Triggers used by the fixture graphs.
const (
	Light combograph.TriggerID = 1
	Heavy combograph.TriggerID = 2
)

// LightChain builds idle -light-> A(100) -light-> B(101).
func LightChain() *combograph.MoveGraph {
	b := combograph.NewBuilder()
	idle, _ := b.AddNamedNode("idle", 0)
	a, _ := b.AddNamedNode("A", 100)
	bb, _ := b.AddNamedNode("B", 101)
	_ = b.AddEdge(idle, a, Light)
	_ = b.AddEdge(a, bb, Light)
	return b.MustBuild()
}

// Sword builds the five-node sword set with edges added out of node order:
//
//	idle -light-> slash -light-> slash2 -heavy-> finisher
//	idle -heavy-> thrust, slash -heavy-> thrust
func Sword() *combograph.MoveGraph {
	b := combograph.NewBuilder()
	idle, _ := b.AddNamedNode("idle", 0)
	slash, _ := b.AddNamedNode("slash", 100)
	slash2, _ := b.AddNamedNode("slash2", 101)
	finisher, _ := b.AddNamedNode("finisher", 102)
	thrust, _ := b.AddNamedNode("thrust", 200)
	_ = b.AddEdge(slash2, finisher, Heavy)
	_ = b.AddEdge(idle, slash, Light)
	_ = b.AddEdge(slash, slash2, Light)
	_ = b.AddEdge(idle, thrust, Heavy)
	_ = b.AddEdge(slash, thrust, Heavy)
	return b.MustBuild()
}

// ActorAdapter provides a common interface for driving one actor directly
// through the engine or through the tick runtime.
// This allows running the same scenario on both.
type ActorAdapter interface {
	Press(t combograph.TriggerID) error
	Finish() error
	Reset() error
	// Step advances once and reports what happened.
	Step() (combograph.Result, error)
	State() combograph.ActorState
	Pending() int
}

// DirectAdapter calls Advance on a local state and queue.
type DirectAdapter struct {
	g     *combograph.MoveGraph
	state combograph.ActorState
	queue combograph.Queue
}

// NewDirectAdapter creates an adapter with a queue of the given capacity.
func NewDirectAdapter(g *combograph.MoveGraph, queueCapacity int) *DirectAdapter {
	return &DirectAdapter{
		g:     g,
		state: combograph.NewActorState(),
		queue: combograph.NewQueue(queueCapacity),
	}
}

// Press enqueues immediately; a full queue drops the input silently, like
// the runtime does.
func (a *DirectAdapter) Press(t combograph.TriggerID) error {
	a.queue.TryEnqueue(t)
	return nil
}

func (a *DirectAdapter) Finish() error {
	a.state.SignalFinished()
	return nil
}

func (a *DirectAdapter) Reset() error {
	a.state.Reset()
	return nil
}

func (a *DirectAdapter) Step() (combograph.Result, error) {
	return combograph.Advance(&a.state, a.queue, a.g), nil
}

func (a *DirectAdapter) State() combograph.ActorState { return a.state }

func (a *DirectAdapter) Pending() int { return a.queue.Len() }

// TickAdapter drives one actor of a realtime.Runtime in lockstep.
type TickAdapter struct {
	rt *realtime.Runtime
	id uuid.UUID
}

// NewTickAdapter creates a runtime holding a single actor.
func NewTickAdapter(g *combograph.MoveGraph, queueCapacity int, opts ...realtime.Option) *TickAdapter {
	rt := realtime.NewRuntime(realtime.StaticGraph{G: g}, realtime.Config{}, opts...)
	return &TickAdapter{rt: rt, id: rt.AddActor(queueCapacity)}
}

// Runtime exposes the wrapped runtime.
func (a *TickAdapter) Runtime() *realtime.Runtime { return a.rt }

func (a *TickAdapter) Press(t combograph.TriggerID) error {
	return a.rt.SendInput(a.id, t)
}

func (a *TickAdapter) Finish() error {
	return a.rt.SignalFinished(a.id)
}

func (a *TickAdapter) Reset() error {
	return a.rt.ResetActor(a.id)
}

func (a *TickAdapter) Step() (combograph.Result, error) {
	if err := a.rt.Step(context.Background()); err != nil {
		return combograph.Result{}, err
	}
	s, _ := a.rt.Actor(a.id)
	return s.Last, nil
}

func (a *TickAdapter) State() combograph.ActorState {
	s, _ := a.rt.Actor(a.id)
	return s.State
}

// Pending counts queued inputs; commands not yet applied by a tick are not
// included.
func (a *TickAdapter) Pending() int {
	s, _ := a.rt.Actor(a.id)
	return s.Pending
}
