package realtime

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/comalice/combograph"
)

// Input is one mapped button press for an actor.
type Input struct {
	Actor   uuid.UUID
	Trigger combograph.TriggerID
}

// InputSource is a stream of inputs, e.g. from a network session or an
// input mapper goroutine.
type InputSource interface {
	Inputs() <-chan Input
}

// ChannelSource is an InputSource backed by a Go channel.
type ChannelSource struct {
	ch chan Input
}

// NewChannelSource creates a ChannelSource with the given channel.
// The channel should be buffered if the producer must not block.
func NewChannelSource(ch chan Input) *ChannelSource {
	return &ChannelSource{ch: ch}
}

// Inputs returns the receive-only channel for inputs.
func (s *ChannelSource) Inputs() <-chan Input {
	return s.ch
}

// Pump forwards src into the runtime until ctx is done or the source is
// closed. Inputs arriving while the command batch is full are dropped and
// counted; the returned count is the number dropped.
func (rt *Runtime) Pump(ctx context.Context, src InputSource) (dropped int, err error) {
	in := src.Inputs()
	for {
		select {
		case <-ctx.Done():
			return dropped, ctx.Err()
		case i, ok := <-in:
			if !ok {
				return dropped, nil
			}
			if err := rt.SendInput(i.Actor, i.Trigger); err != nil {
				if !errors.Is(err, ErrBatchFull) {
					return dropped, err
				}
				dropped++
				rt.logger.Debug("input dropped", "actor", i.Actor, "trigger", i.Trigger, "error", err)
			}
		}
	}
}
