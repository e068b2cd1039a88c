package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/combograph"
)

// op is one scripted call against an adapter.
type op struct {
	press  []combograph.TriggerID
	finish bool
	reset  bool
	want   combograph.Outcome
	node   int
}

func run(t *testing.T, a ActorAdapter, script []op) {
	t.Helper()
	for i, o := range script {
		for _, p := range o.press {
			require.NoError(t, a.Press(p))
		}
		if o.reset {
			require.NoError(t, a.Reset())
		}
		if o.finish {
			require.NoError(t, a.Finish())
		}
		r, err := a.Step()
		require.NoError(t, err)
		assert.Equal(t, o.want, r.Outcome, "step %d", i)
		assert.Equal(t, o.node, a.State().CurrentNode, "step %d", i)
	}
}

// TestAdapterScenarios runs the same scripts on the engine and the runtime.
func TestAdapterScenarios(t *testing.T) {
	scenarios := []struct {
		name   string
		graph  func() *combograph.MoveGraph
		script []op
	}{
		{
			name:  "light light",
			graph: LightChain,
			script: []op{
				{press: []combograph.TriggerID{Light, Light}, want: combograph.Matched, node: 1},
				{want: combograph.Busy, node: 1},
				{finish: true, want: combograph.Matched, node: 2},
				{finish: true, want: combograph.Empty, node: 2},
			},
		},
		{
			name:  "dead end drops to idle",
			graph: LightChain,
			script: []op{
				{press: []combograph.TriggerID{Light}, want: combograph.Matched, node: 1},
				{press: []combograph.TriggerID{Light}, finish: true, want: combograph.Matched, node: 2},
				{press: []combograph.TriggerID{Light}, finish: true, want: combograph.Rejected, node: 0},
				{press: []combograph.TriggerID{Light}, want: combograph.Matched, node: 1},
			},
		},
		{
			name:  "sword finisher",
			graph: Sword,
			script: []op{
				{press: []combograph.TriggerID{Light, Light, Heavy}, want: combograph.Matched, node: 1},
				{finish: true, want: combograph.Matched, node: 2},
				{finish: true, want: combograph.Matched, node: 3},
			},
		},
		{
			name:  "reset mid combo keeps the queue",
			graph: Sword,
			script: []op{
				{press: []combograph.TriggerID{Light, Heavy}, want: combograph.Matched, node: 1},
				{reset: true, want: combograph.Matched, node: 4},
			},
		},
	}

	for _, sc := range scenarios {
		t.Run(sc.name+"/direct", func(t *testing.T) {
			run(t, NewDirectAdapter(sc.graph(), combograph.QueueCapacity), sc.script)
		})
		t.Run(sc.name+"/tick", func(t *testing.T) {
			run(t, NewTickAdapter(sc.graph(), combograph.QueueCapacity), sc.script)
		})
	}
}

func TestAdaptersDropOverflow(t *testing.T) {
	adapters := map[string]ActorAdapter{
		"direct": NewDirectAdapter(LightChain(), combograph.QueueCapacity),
		"tick":   NewTickAdapter(LightChain(), combograph.QueueCapacity),
	}
	for name, a := range adapters {
		t.Run(name, func(t *testing.T) {
			for range 10 {
				require.NoError(t, a.Press(Heavy))
			}
			r, err := a.Step()
			require.NoError(t, err)
			assert.Equal(t, combograph.Rejected, r.Outcome)
			assert.Equal(t, combograph.QueueCapacity-1, a.Pending())
		})
	}
}

func TestTickAdapterCountsTicks(t *testing.T) {
	a := NewTickAdapter(LightChain(), combograph.LongQueueCapacity)
	for range 3 {
		_, err := a.Step()
		require.NoError(t, err)
	}
	assert.Equal(t, uint64(3), a.Runtime().GetTickNumber())
}
