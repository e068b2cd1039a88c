package combograph_test

import (
	"testing"

	"github.com/comalice/combograph"
)

func benchGraph() *combograph.MoveGraph {
	b := combograph.NewBuilder()
	idle := b.AddNode(0)
	light := b.AddNode(100)
	heavy := b.AddNode(200)
	_ = b.AddEdge(idle, light, 1)
	_ = b.AddEdge(idle, heavy, 2)
	_ = b.AddEdge(light, idle, 1)
	_ = b.AddEdge(heavy, idle, 2)
	return b.MustBuild()
}

func BenchmarkTryAdvanceMatch(b *testing.B) {
	g := benchGraph()
	st := combograph.NewActorState()
	var q combograph.InputQueue

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.TryEnqueue(1)
		combograph.TryAdvance(&st, &q, g)
		st.SignalFinished()
	}
}

func BenchmarkTryAdvanceBusy(b *testing.B) {
	g := benchGraph()
	st := combograph.ActorState{Busy: true}
	var q combograph.InputQueue
	q.TryEnqueue(1)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		combograph.TryAdvance(&st, &q, g)
	}
}

func BenchmarkAdvanceResult(b *testing.B) {
	g := benchGraph()
	st := combograph.NewActorState()
	q := combograph.NewQueue(combograph.LongQueueCapacity)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.TryEnqueue(combograph.TriggerID(1 + i%3))
		_ = combograph.Advance(&st, q, g)
		st.SignalFinished()
	}
}

func BenchmarkBuild(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		bld := combograph.NewBuilder()
		for n := 0; n < 64; n++ {
			bld.AddNode(combograph.ActionID(n))
		}
		for n := 63; n >= 0; n-- {
			_ = bld.AddEdge(n, (n+1)%64, 1)
			_ = bld.AddEdge(n, 0, 2)
		}
		if _, err := bld.Build(); err != nil {
			b.Fatal(err)
		}
	}
}
