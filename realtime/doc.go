// Package realtime drives many combograph actors from a fixed-rate tick loop.
//
// Input mappers, animation callbacks and gameplay code talk to the runtime
// from any goroutine. Their calls are batched and applied at the next tick
// boundary, which keeps each actor single-writer:
//
//	lib := moveset.NewLibrary()
//	lib.LoadFile("sword.yaml")
//	rt := realtime.NewRuntime(lib.Handle("sword"), realtime.Config{
//		TickRate: 16667 * time.Microsecond, // 60 FPS
//		Workers:  4,
//	})
//	hero := rt.AddActor(combograph.QueueCapacity)
//	rt.Start(ctx)
//	rt.SendInput(hero, light)      // from the input mapper
//	rt.SignalFinished(hero)        // from the animation layer
//
// # Tick phases
//
//  1. Collect the command batch atomically.
//  2. Apply commands in the order they were sent: inputs are enqueued into
//     the actor's queue (a full queue rejects the input), finish and reset
//     signals update the actor's state.
//  3. Read the current graph from the GraphSource once and advance every
//     actor against it, in parallel when Workers > 1.
//  4. Publish matched and rejected steps and update metrics.
//
// A graph swapped in by a moveset.Watcher is picked up at phase 3 of the next
// tick; actor states are kept across the swap.
//
// # Determinism
//
// Given the same sequence of calls between ticks, Step produces the same
// actor states and the same published steps regardless of Workers, because
// actors never share data and the graph is immutable.
//
// Step can be called directly instead of Start for lockstep simulations,
// tests and replays.
package realtime
