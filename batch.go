package combograph

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Actor bundles the per-actor data AdvanceAll works on. An Actor must not be
// shared between concurrent AdvanceAll calls.
type Actor struct {
	State ActorState
	Queue Queue
	// Last is the result of the most recent advance.
	Last Result
}

// NewActor returns an idle actor with a queue of the given capacity
// (see NewQueue).
func NewActor(queueCapacity int) *Actor {
	return &Actor{
		State: NewActorState(),
		Queue: NewQueue(queueCapacity),
	}
}

// minChunk keeps goroutine overhead below the cost of the work it carries.
const minChunk = 64

// AdvanceAll advances every actor once against g. Actors are split into
// disjoint chunks processed by up to workers goroutines; workers <= 1 runs
// inline. The graph is only read, so no synchronization is needed beyond the
// caller not touching the actors until AdvanceAll returns.
func AdvanceAll(ctx context.Context, g *MoveGraph, actors []*Actor, workers int) error {
	if workers <= 1 || len(actors) <= minChunk {
		if err := ctx.Err(); err != nil {
			return err
		}
		advanceRange(g, actors)
		return nil
	}

	chunk := (len(actors) + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for lo := 0; lo < len(actors); lo += chunk {
		hi := min(lo+chunk, len(actors))
		part := actors[lo:hi]
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			advanceRange(g, part)
			return nil
		})
	}
	return eg.Wait()
}

func advanceRange(g *MoveGraph, actors []*Actor) {
	for _, a := range actors {
		if a == nil || a.Queue == nil {
			continue
		}
		a.Last = Advance(&a.State, a.Queue, g)
	}
}
