// Package benchmarks provides shared helpers for benchmark tests.
package benchmarks

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/combograph"
	"github.com/comalice/combograph/moveset"
)

// Tick is the trigger every generated graph advances on.
const Tick combograph.TriggerID = 1

// GenFlatGraph creates a ring of n nodes cycling on Tick, so an actor never
// falls back to idle.
func GenFlatGraph(n int) *combograph.MoveGraph {
	if n < 1 {
		n = 1
	}
	b := combograph.NewBuilder()
	for i := 0; i < n; i++ {
		b.AddNode(combograph.ActionID(i))
	}
	for i := 0; i < n; i++ {
		_ = b.AddEdge(i, (i+1)%n, Tick)
	}
	return b.MustBuild()
}

// GenWideGraph creates two nodes whose only Tick edge comes after
// numEdges-1 decoys, so every advance scans the full list.
func GenWideGraph(numEdges int) *combograph.MoveGraph {
	if numEdges < 1 {
		numEdges = 1
	}
	b := combograph.NewBuilder()
	a := b.AddNode(0)
	c := b.AddNode(1)
	for _, from := range []int{a, c} {
		to := c
		if from == c {
			to = a
		}
		for i := 1; i < numEdges; i++ {
			_ = b.AddEdge(from, to, Tick+combograph.TriggerID(i))
		}
		_ = b.AddEdge(from, to, Tick)
	}
	return b.MustBuild()
}

// GenActors creates n idle actors with queues of the given capacity.
func GenActors(n, queueCapacity int) []*combograph.Actor {
	actors := make([]*combograph.Actor, n)
	for i := range actors {
		actors[i] = combograph.NewActor(queueCapacity)
	}
	return actors
}

// Refill tops up every actor's queue with one Tick and clears Busy.
func Refill(actors []*combograph.Actor) {
	for _, a := range actors {
		a.State.SignalFinished()
		a.Queue.TryEnqueue(Tick)
	}
}

// GenMoveSetYAML generates a move set document describing GenFlatGraph(n).
func GenMoveSetYAML(n int) []byte {
	if n < 1 {
		n = 1
	}
	ms := moveset.MoveSet{
		Name:     fmt.Sprintf("flat_%d", n),
		Triggers: map[string]int{"tick": int(Tick)},
	}
	for i := 0; i < n; i++ {
		ms.Nodes = append(ms.Nodes, moveset.NodeSpec{
			Name:   fmt.Sprintf("s%d", i),
			Action: moveset.Ref{Num: i, IsNum: true},
		})
		ms.Edges = append(ms.Edges, moveset.EdgeSpec{
			From: fmt.Sprintf("s%d", i),
			To:   fmt.Sprintf("s%d", (i+1)%n),
			On:   moveset.Ref{Name: "tick"},
		})
	}
	data, err := yaml.Marshal(&ms)
	if err != nil {
		panic(err)
	}
	return data
}
