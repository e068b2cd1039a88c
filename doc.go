// Package combograph recognizes input combos against an immutable move graph.
//
// A MoveGraph is authored once with a Builder and shared read-only by any number
// of actors. Each actor owns an ActorState and an input queue. Once per
// simulation tick the caller runs TryAdvance for the actor:
//
//	b := combograph.NewBuilder()
//	idle := b.AddNode(0)
//	light := b.AddNode(100)
//	_ = b.AddEdge(idle, light, 1)
//	g, err := b.Build()
//
//	var st combograph.ActorState
//	var q combograph.InputQueue
//	q.TryEnqueue(1)
//	if ok, action := combograph.TryAdvance(&st, &q, g); ok {
//		// play action, call st.SignalFinished() when it completes
//	}
//
// # Transition rules
//
//   - A busy actor never transitions and its queue is left alone.
//   - The oldest queued trigger is compared against the current node's edges;
//     the first edge with that trigger wins.
//   - A match consumes the trigger, moves the actor and marks it busy.
//   - A miss consumes the trigger and drops the actor back to the idle node 0.
//
// # Recovery
//
// The engine runs every frame, so corrupt data never panics. An out-of-range
// current node is read as node 0, edge ranges are clamped to the edge array, and
// a matched edge pointing outside the graph is handled as a miss.
//
// # Concurrency
//
// TryAdvance does no I/O, takes no locks and allocates nothing. A MoveGraph is
// never mutated after Build, so AdvanceAll can process disjoint actors on
// several goroutines against the same graph.
package combograph
