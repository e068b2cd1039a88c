package combograph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/comalice/combograph"
)

func TestBuilderGroupsInterleavedEdges(t *testing.T) {
	b := NewBuilder()
	a := b.AddNode(0)
	c := b.AddNode(10)
	d := b.AddNode(20)

	// Deliberately interleave sources.
	require.NoError(t, b.AddEdge(d, a, 5))
	require.NoError(t, b.AddEdge(a, c, 1))
	require.NoError(t, b.AddEdge(c, d, 2))
	require.NoError(t, b.AddEdge(a, d, 3))
	require.NoError(t, b.AddEdge(d, c, 6))
	require.NoError(t, b.AddEdge(a, a, 4))

	g, err := b.Build()
	require.NoError(t, err)
	require.NoError(t, g.Validate())
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 6, g.EdgeCount())

	want := map[int][]Edge{
		a: {{Trigger: 1, Target: c}, {Trigger: 3, Target: d}, {Trigger: 4, Target: a}},
		c: {{Trigger: 2, Target: d}},
		d: {{Trigger: 5, Target: a}, {Trigger: 6, Target: c}},
	}
	for idx, edges := range want {
		n, ok := g.Node(idx)
		require.True(t, ok)
		assert.Equal(t, len(edges), n.EdgeCount, "node %d", idx)
		for k, e := range edges {
			got, ok := g.Edge(n.EdgeStart + k)
			require.True(t, ok)
			assert.Equal(t, e, got, "node %d edge %d", idx, k)
		}
		assert.Equal(t, edges, g.EdgesOf(idx))
	}

	// Ranges tile the edge array without gaps.
	next := 0
	for i := 0; i < g.NodeCount(); i++ {
		n, _ := g.Node(i)
		assert.Equal(t, next, n.EdgeStart)
		next += n.EdgeCount
	}
	assert.Equal(t, g.EdgeCount(), next)
}

func TestBuilderRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
	}{
		{"negative source", -1, 0},
		{"source past end", 2, 0},
		{"negative target", 0, -1},
		{"target past end", 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			b.AddNode(0)
			b.AddNode(1)

			err := b.AddEdge(tt.from, tt.to, 1)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNodeOutOfRange))

			// The error sticks to the builder.
			g, err := b.Build()
			assert.Nil(t, g)
			assert.ErrorIs(t, err, ErrNodeOutOfRange)
		})
	}
}

func TestBuilderForwardReferenceFails(t *testing.T) {
	b := NewBuilder()
	idle := b.AddNode(0)
	assert.ErrorIs(t, b.AddEdge(idle, 1, 1), ErrNodeOutOfRange)
	b.AddNode(100)
	_, err := b.Build()
	assert.ErrorIs(t, err, ErrNodeOutOfRange)
}

func TestBuilderNamedNodes(t *testing.T) {
	b := NewBuilder()
	idle, err := b.AddNamedNode("idle", 0)
	require.NoError(t, err)
	light, err := b.AddNamedNode("light", 100)
	require.NoError(t, err)
	require.NoError(t, b.AddEdge(idle, light, 1))

	got, ok := b.Index("light")
	require.True(t, ok)
	assert.Equal(t, light, got)
	_, ok = b.Index("heavy")
	assert.False(t, ok)

	_, err = b.AddNamedNode("light", 101)
	assert.ErrorIs(t, err, ErrDuplicateName)
	_, err = b.Build()
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestBuilderEmptyNameIsUnnamed(t *testing.T) {
	b := NewBuilder()
	first, err := b.AddNamedNode("", 0)
	require.NoError(t, err)
	second, err := b.AddNamedNode("", 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, []int{first, second})

	_, ok := b.Index("")
	assert.False(t, ok)
	g, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "", g.NodeName(1))
}

func TestBuilderCarriesNames(t *testing.T) {
	b := NewBuilder()
	b.AddNamedNode("idle", 0)
	b.AddNode(5)
	g := b.MustBuild()

	assert.Equal(t, "idle", g.NodeName(0))
	assert.Equal(t, "", g.NodeName(1))
	assert.Equal(t, "", g.NodeName(7))
}

func TestBuilderEmpty(t *testing.T) {
	g, err := NewBuilder().Build()
	require.NoError(t, err)
	assert.Equal(t, 0, g.NodeCount())
	assert.ErrorIs(t, g.Validate(), ErrEmptyGraph)
}

func TestMustBuildPanics(t *testing.T) {
	b := NewBuilder()
	_ = b.AddEdge(0, 0, 1)
	assert.Panics(t, func() { b.MustBuild() })
}
