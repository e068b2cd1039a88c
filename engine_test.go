package combograph_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/comalice/combograph"
)

const (
	actionIdle       ActionID = 0
	actionLight      ActionID = 100
	actionLightLight ActionID = 101

	triggerLight TriggerID = 1
	triggerHeavy TriggerID = 2
)

// lightChain builds Idle -light-> Light -light-> LightLight.
func lightChain(t *testing.T) *MoveGraph {
	t.Helper()
	b := NewBuilder()
	idle := b.AddNode(actionIdle)
	light := b.AddNode(actionLight)
	lightLight := b.AddNode(actionLightLight)
	require.NoError(t, b.AddEdge(idle, light, triggerLight))
	require.NoError(t, b.AddEdge(light, lightLight, triggerLight))
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestLightLightCombo(t *testing.T) {
	g := lightChain(t)
	st := NewActorState()
	var q InputQueue
	q.TryEnqueue(triggerLight)
	q.TryEnqueue(triggerLight)

	ok, action := TryAdvance(&st, &q, g)
	require.True(t, ok)
	assert.Equal(t, actionLight, action)
	assert.Equal(t, ActorState{CurrentNode: 1, Busy: true}, st)
	assert.Equal(t, 1, q.Len())

	SignalFinished(&st)

	ok, action = TryAdvance(&st, &q, g)
	require.True(t, ok)
	assert.Equal(t, actionLightLight, action)
	assert.Equal(t, ActorState{CurrentNode: 2, Busy: true}, st)
	assert.Equal(t, 0, q.Len())
}

func TestUnmatchedTriggerAtIdle(t *testing.T) {
	g := lightChain(t)
	st := NewActorState()
	var q InputQueue
	q.TryEnqueue(triggerHeavy)

	ok, action := TryAdvance(&st, &q, g)
	assert.False(t, ok)
	assert.Equal(t, NoAction, action)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, ActorState{CurrentNode: 0, Busy: false}, st)
}

func TestBusyActorLeavesQueueAlone(t *testing.T) {
	g := lightChain(t)
	st := ActorState{CurrentNode: 1, Busy: true}
	var q InputQueue
	q.TryEnqueue(triggerLight)
	head, tail := q.Head(), q.Tail()

	for i := 0; i < 3; i++ {
		ok, action := TryAdvance(&st, &q, g)
		assert.False(t, ok)
		assert.Equal(t, NoAction, action)
	}
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, head, q.Head())
	assert.Equal(t, tail, q.Tail())
	assert.Equal(t, ActorState{CurrentNode: 1, Busy: true}, st)

	r := Advance(&st, &q, g)
	assert.Equal(t, Busy, r.Outcome)
}

func TestEmptyQueue(t *testing.T) {
	g := lightChain(t)
	st := ActorState{CurrentNode: 2}
	var q InputQueue

	r := Advance(&st, &q, g)
	assert.Equal(t, Empty, r.Outcome)
	assert.False(t, r.Transitioned())
	assert.Equal(t, ActorState{CurrentNode: 2}, st)
}

func TestRejectionResetsFromAnyNode(t *testing.T) {
	g := lightChain(t)
	for node := 0; node < g.NodeCount(); node++ {
		st := ActorState{CurrentNode: node}
		var q InputQueue
		q.TryEnqueue(triggerHeavy)
		q.TryEnqueue(triggerLight)

		r := Advance(&st, &q, g)
		assert.Equal(t, Rejected, r.Outcome, "node %d", node)
		assert.Equal(t, node, r.From)
		assert.Equal(t, triggerHeavy, r.Trigger)
		assert.Equal(t, 1, q.Len(), "exactly one input consumed at node %d", node)
		assert.Equal(t, ActorState{CurrentNode: IdleNode}, st)
	}
}

func TestZeroNodeGraph(t *testing.T) {
	empty, err := NewBuilder().Build()
	require.NoError(t, err)

	for _, g := range []*MoveGraph{empty, nil} {
		st := ActorState{CurrentNode: 3}
		var q InputQueue
		q.TryEnqueue(triggerLight)

		ok, _ := TryAdvance(&st, &q, g)
		assert.False(t, ok)
		assert.Equal(t, 1, q.Len())
		assert.Equal(t, NoGraph, Advance(&st, &q, g).Outcome)
		assert.Equal(t, ActorState{CurrentNode: 3}, st)
	}
}

func TestCorruptCurrentNodeHeals(t *testing.T) {
	g := lightChain(t)
	for _, bad := range []int{-1, 3, 1 << 20} {
		st := ActorState{CurrentNode: bad}
		var q InputQueue
		q.TryEnqueue(triggerLight)

		r := Advance(&st, &q, g)
		assert.True(t, r.Healed)
		assert.Equal(t, Matched, r.Outcome, "current %d read as idle", bad)
		assert.Equal(t, IdleNode, r.From)
		assert.Equal(t, actionLight, r.Action)
		assert.Equal(t, ActorState{CurrentNode: 1, Busy: true}, st)
	}
}

func TestScanClampedToEdgeArray(t *testing.T) {
	// Node 0 claims 5 edges but only 2 exist; the second holds the match.
	g := NewMoveGraph(
		[]Node{
			{Action: 0, EdgeStart: 0, EdgeCount: 5},
			{Action: 7},
		},
		[]Edge{{Trigger: 9, Target: 0}, {Trigger: triggerLight, Target: 1}},
	)
	st := NewActorState()
	var q InputQueue
	q.TryEnqueue(triggerLight)
	q.TryEnqueue(triggerHeavy)

	ok, action := TryAdvance(&st, &q, g)
	require.True(t, ok)
	assert.Equal(t, ActionID(7), action)

	st.SignalFinished()
	st.CurrentNode = 0
	// Unmatched trigger scanned against the clamped range, no panic.
	ok, _ = TryAdvance(&st, &q, g)
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
}

func TestInvalidTargetTreatedAsMiss(t *testing.T) {
	g := NewMoveGraph(
		[]Node{
			{Action: 0, EdgeStart: 0, EdgeCount: 2},
			{Action: 5, EdgeStart: 2, EdgeCount: 0},
		},
		// The first matching edge is broken; the engine does not fall back
		// to the second one.
		[]Edge{{Trigger: triggerLight, Target: 42}, {Trigger: triggerLight, Target: 1}},
	)
	st := NewActorState()
	var q InputQueue
	q.TryEnqueue(triggerLight)

	r := Advance(&st, &q, g)
	assert.Equal(t, Rejected, r.Outcome)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, ActorState{CurrentNode: IdleNode}, st)
}

func TestDeadEndNodeRejects(t *testing.T) {
	g := lightChain(t)
	st := ActorState{CurrentNode: 2}
	var q InputQueue
	q.TryEnqueue(triggerLight)

	ok, _ := TryAdvance(&st, &q, g)
	assert.False(t, ok)
	assert.Equal(t, IdleNode, st.CurrentNode)
}

func TestResetReturnsToIdle(t *testing.T) {
	st := ActorState{CurrentNode: 4, Busy: true}
	Reset(&st)
	assert.Equal(t, NewActorState(), st)

	st = ActorState{CurrentNode: 2, Busy: true}
	st.Reset()
	assert.Equal(t, ActorState{}, st)
}

// TestRandomWalksReproducePath generates random graphs, walks a random path
// from idle, feeds the path's triggers and checks the engine replays it.
func TestRandomWalksReproducePath(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for trial := 0; trial < 200; trial++ {
		nodes := 1 + rng.IntN(12)
		b := NewBuilder()
		for i := 0; i < nodes; i++ {
			b.AddNode(ActionID(1000 + i))
		}
		// Unique triggers per node keep the walk unambiguous.
		for from := 0; from < nodes; from++ {
			out := rng.IntN(4)
			for k := 0; k < out; k++ {
				require.NoError(t, b.AddEdge(from, rng.IntN(nodes), TriggerID(k+1)))
			}
		}
		g, err := b.Build()
		require.NoError(t, err)

		var triggers []TriggerID
		var path []int
		cur := IdleNode
		for step := 0; step < LongQueueCapacity; step++ {
			edges := g.EdgesOf(cur)
			if len(edges) == 0 {
				break
			}
			e := edges[rng.IntN(len(edges))]
			triggers = append(triggers, e.Trigger)
			path = append(path, e.Target)
			cur = e.Target
		}

		st := NewActorState()
		var q InputQueue16
		for _, tr := range triggers {
			require.True(t, q.TryEnqueue(tr))
		}
		for i, want := range path {
			ok, action := TryAdvance(&st, &q, g)
			require.True(t, ok, "trial %d step %d", trial, i)
			n, _ := g.Node(want)
			require.Equal(t, n.Action, action)
			require.Equal(t, want, st.CurrentNode)
			st.SignalFinished()
		}
		require.Equal(t, 0, q.Len())
	}
}

func TestAdvanceDoesNotAllocate(t *testing.T) {
	g := lightChain(t)
	st := NewActorState()
	var q InputQueue

	allocs := testing.AllocsPerRun(1000, func() {
		q.TryEnqueue(triggerLight)
		q.TryEnqueue(triggerHeavy)
		TryAdvance(&st, &q, g)
		st.SignalFinished()
		TryAdvance(&st, &q, g)
	})
	assert.Zero(t, allocs)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "matched", Matched.String())
	assert.Equal(t, "rejected", Rejected.String())
	assert.Equal(t, "busy", Busy.String())
	assert.Equal(t, "empty", Empty.String())
	assert.Equal(t, "no_graph", NoGraph.String())
	assert.Equal(t, "unknown", Outcome(200).String())
}
