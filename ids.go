package combograph

// TriggerID identifies an input event, e.g. a button press. Opaque to the engine.
type TriggerID int

// ActionID identifies the game action (animation, attack) bound to a node.
type ActionID int

const (
	// NoTrigger is never produced by an input mapper.
	NoTrigger TriggerID = 0
	// NoAction is returned when TryAdvance does not transition.
	NoAction ActionID = 0
	// IdleNode is the start and recovery node of every graph.
	IdleNode = 0
)
