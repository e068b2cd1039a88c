package realtime

import (
	"github.com/google/uuid"

	"github.com/comalice/combograph"
)

// CommandKind selects what a queued command does to its actor.
type CommandKind uint8

const (
	CommandInput CommandKind = iota
	CommandFinish
	CommandReset
	CommandClear
)

func (k CommandKind) String() string {
	switch k {
	case CommandInput:
		return "input"
	case CommandFinish:
		return "finish"
	case CommandReset:
		return "reset"
	case CommandClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Command is one call batched for the next tick.
type Command struct {
	Kind    CommandKind
	Actor   uuid.UUID
	Trigger combograph.TriggerID // CommandInput only
	// SequenceNum orders commands; assigned by the runtime.
	SequenceNum uint64
}
