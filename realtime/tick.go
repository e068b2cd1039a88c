package realtime

import (
	"context"
	"time"

	"github.com/comalice/combograph"
)

// Step runs exactly one tick synchronously. A cancelled ctx is only honored
// before the tick starts: pending commands stay batched and no actor moves.
// Once advancing begins the tick runs to completion and is fully reported.
func (rt *Runtime) Step(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()
	ctx = context.WithoutCancel(ctx)

	// Phase 1: collect commands atomically
	cmds := rt.collectCommands()

	rt.mu.Lock()
	defer rt.mu.Unlock()

	// Phase 2: apply in send order
	rt.applyCommands(cmds)
	rt.recycle(cmds)

	// Phase 3: advance every actor against this tick's graph
	g := rt.source.Graph()
	if err := combograph.AdvanceAll(ctx, g, rt.actors, rt.workers); err != nil {
		return err
	}
	tick := rt.tickNum.Add(1)

	// Phase 4: report
	rt.report(ctx, tick)
	rt.metrics.observeTick(time.Since(start))
	return nil
}

// collectCommands swaps the batch for the spare buffer.
func (rt *Runtime) collectCommands() []Command {
	rt.batchMu.Lock()
	defer rt.batchMu.Unlock()

	cmds := rt.batch
	rt.batch = rt.spare[:0]
	rt.spare = nil
	return cmds
}

// recycle hands the drained buffer back for the next collect.
func (rt *Runtime) recycle(cmds []Command) {
	rt.batchMu.Lock()
	rt.spare = cmds[:0]
	rt.batchMu.Unlock()
}

func (rt *Runtime) applyCommands(cmds []Command) {
	for _, cmd := range cmds {
		i, ok := rt.index[cmd.Actor]
		if !ok {
			rt.metrics.countInput(resultUnknownActor)
			rt.logger.Debug("command for unknown actor dropped",
				"actor", cmd.Actor, "kind", cmd.Kind, "seq", cmd.SequenceNum)
			continue
		}
		a := rt.actors[i]

		switch cmd.Kind {
		case CommandInput:
			if a.Queue.TryEnqueue(cmd.Trigger) {
				rt.metrics.countInput(resultAccepted)
			} else {
				rt.metrics.countInput(resultRejected)
			}
		case CommandFinish:
			a.State.SignalFinished()
		case CommandReset:
			a.State.Reset()
		case CommandClear:
			a.Queue.Clear()
		}
	}
}

// report publishes and counts each actor's step outcome for this tick.
func (rt *Runtime) report(ctx context.Context, tick uint64) {
	for i, a := range rt.actors {
		res := a.Last
		if res.Healed {
			rt.metrics.countRecovery()
			rt.logger.Warn("actor recovered from invalid node",
				"actor", rt.ids[i], "node", res.From, "tick", tick)
		}
		switch res.Outcome {
		case combograph.Matched, combograph.Rejected:
		default:
			continue
		}
		rt.metrics.countTransition(res.Outcome)
		if rt.publisher == nil {
			continue
		}
		if err := rt.publisher.Publish(ctx, Step{Tick: tick, Actor: rt.ids[i], Result: res}); err != nil {
			rt.logger.Debug("publish failed", "actor", rt.ids[i], "tick", tick, "error", err)
		}
	}
}
