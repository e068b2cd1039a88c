package combograph

// ActorState is one actor's cursor into a MoveGraph.
type ActorState struct {
	CurrentNode int
	// Busy is set by a successful transition and cleared by SignalFinished.
	Busy bool
}

// NewActorState returns an idle, non-busy state.
func NewActorState() ActorState {
	return ActorState{CurrentNode: IdleNode}
}

// SignalFinished marks the current action as complete so the next
// TryAdvance may transition again.
func (s *ActorState) SignalFinished() {
	s.Busy = false
}

// Reset returns the actor to the idle node, e.g. on timeout, death or a
// moveset switch.
func (s *ActorState) Reset() {
	s.CurrentNode = IdleNode
	s.Busy = false
}

// SignalFinished is the function form of (*ActorState).SignalFinished.
func SignalFinished(s *ActorState) { s.SignalFinished() }

// Reset is the function form of (*ActorState).Reset.
func Reset(s *ActorState) { s.Reset() }

// Outcome classifies one Advance call.
type Outcome uint8

const (
	// Busy: the actor's action has not finished; nothing was read.
	Busy Outcome = iota
	// Empty: no input was queued.
	Empty
	// NoGraph: the graph has no nodes; the queue was not touched.
	NoGraph
	// Matched: one input was consumed and the actor moved along an edge.
	Matched
	// Rejected: one input was consumed without a valid edge and the actor
	// dropped back to the idle node.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Busy:
		return "busy"
	case Empty:
		return "empty"
	case NoGraph:
		return "no_graph"
	case Matched:
		return "matched"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result describes what a single Advance call did.
type Result struct {
	Outcome Outcome
	// From is the node the actor was read from, after recovery.
	From int
	// To is the node the actor is in afterwards.
	To      int
	Trigger TriggerID
	Action  ActionID
	// Healed is set when the stored CurrentNode was out of range and read as
	// the idle node.
	Healed bool
}

// Transitioned reports whether the actor moved along an edge.
func (r Result) Transitioned() bool {
	return r.Outcome == Matched
}

// TryAdvance consumes at most one queued trigger and moves the actor along
// the matching edge of its current node. It returns true and the target
// node's action on a match.
func TryAdvance(s *ActorState, q Queue, g *MoveGraph) (bool, ActionID) {
	r := Advance(s, q, g)
	return r.Outcome == Matched, r.Action
}

// Advance is TryAdvance with a full description of the step.
func Advance(s *ActorState, q Queue, g *MoveGraph) Result {
	if s.Busy {
		return Result{Outcome: Busy, From: s.CurrentNode, To: s.CurrentNode}
	}
	trigger, ok := q.Peek()
	if !ok {
		return Result{Outcome: Empty, From: s.CurrentNode, To: s.CurrentNode}
	}
	nodeCount := g.NodeCount()
	if nodeCount == 0 {
		return Result{Outcome: NoGraph, From: s.CurrentNode, To: s.CurrentNode}
	}

	res := Result{From: s.CurrentNode, Trigger: trigger}
	if res.From < 0 || res.From >= nodeCount {
		res.From = IdleNode
		res.Healed = true
	}

	// Whatever happens next, the peeked input is consumed.
	q.TryDequeue()

	target, found := g.match(res.From, trigger)
	if found && target >= 0 && target < nodeCount {
		s.CurrentNode = target
		s.Busy = true
		res.Outcome = Matched
		res.To = target
		res.Action = g.nodes[target].Action
		return res
	}

	s.CurrentNode = IdleNode
	res.Outcome = Rejected
	res.To = IdleNode
	return res
}

// match returns the target of node's first edge taking trigger.
func (g *MoveGraph) match(node int, trigger TriggerID) (int, bool) {
	start, end := edgeSpan(g.nodes[node], len(g.edges))
	for _, e := range g.edges[start:end] {
		if e.Trigger == trigger {
			return e.Target, true
		}
	}
	return 0, false
}
