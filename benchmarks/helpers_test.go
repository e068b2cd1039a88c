package benchmarks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/combograph"
	"github.com/comalice/combograph/moveset"
)

func TestGeneratedGraphsAreValid(t *testing.T) {
	for _, g := range []*combograph.MoveGraph{GenFlatGraph(0), GenFlatGraph(5), GenWideGraph(0), GenWideGraph(8)} {
		require.NoError(t, g.Validate())
	}
	assert.Equal(t, 16, GenWideGraph(8).EdgeCount())
}

func TestWideGraphMatchesLastEdge(t *testing.T) {
	g := GenWideGraph(8)
	st := combograph.NewActorState()
	var q combograph.InputQueue
	q.TryEnqueue(Tick)
	ok, action := combograph.TryAdvance(&st, &q, g)
	require.True(t, ok)
	assert.Equal(t, combograph.ActionID(1), action)
}

func TestMoveSetYAMLBuildsFlatGraph(t *testing.T) {
	ms, err := moveset.Parse(GenMoveSetYAML(4))
	require.NoError(t, err)
	g, err := ms.Build()
	require.NoError(t, err)
	want := GenFlatGraph(4)
	assert.Equal(t, want.NodeCount(), g.NodeCount())
	for i := range g.NodeCount() {
		assert.Equal(t, want.EdgesOf(i), g.EdgesOf(i))
	}
}

func TestRefillArmsEveryActor(t *testing.T) {
	actors := GenActors(3, combograph.QueueCapacity)
	actors[1].State.Busy = true
	Refill(actors)
	for _, a := range actors {
		assert.False(t, a.State.Busy)
		assert.Equal(t, 1, a.Queue.Len())
	}
}
