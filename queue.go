package combograph

const (
	// QueueCapacity is the slot count of InputQueue.
	QueueCapacity = 8
	// LongQueueCapacity is the slot count of InputQueue16, for longer chains.
	LongQueueCapacity = 16
)

// Queue is the FIFO of pending triggers consumed by TryAdvance.
// InputQueue and InputQueue16 implement it without allocating.
type Queue interface {
	TryEnqueue(t TriggerID) bool
	TryDequeue() (TriggerID, bool)
	Peek() (TriggerID, bool)
	Clear()
	Len() int
	Cap() int
}

// ring holds the cursor bookkeeping shared by the fixed-size queues.
// The slots live in the owning queue so the whole queue stays one value.
type ring struct {
	head  int
	tail  int
	count int
}

func (r *ring) enqueue(slots []TriggerID, t TriggerID) bool {
	if r.count == len(slots) {
		return false
	}
	slots[r.tail] = t
	r.tail++
	if r.tail == len(slots) {
		r.tail = 0
	}
	r.count++
	return true
}

func (r *ring) dequeue(slots []TriggerID) (TriggerID, bool) {
	if r.count == 0 {
		return NoTrigger, false
	}
	t := slots[r.head]
	slots[r.head] = NoTrigger
	r.head++
	if r.head == len(slots) {
		r.head = 0
	}
	r.count--
	return t, true
}

func (r *ring) peek(slots []TriggerID) (TriggerID, bool) {
	if r.count == 0 {
		return NoTrigger, false
	}
	return slots[r.head], true
}

func (r *ring) clear(slots []TriggerID) {
	clear(slots)
	*r = ring{}
}

// InputQueue is an 8-slot ring buffer of triggers. The zero value is empty and
// ready to use. A full queue rejects new input instead of dropping old input.
type InputQueue struct {
	slots [QueueCapacity]TriggerID
	ring
}

// TryEnqueue appends t. It returns false and leaves the queue unchanged when full.
func (q *InputQueue) TryEnqueue(t TriggerID) bool { return q.enqueue(q.slots[:], t) }

// TryDequeue removes and returns the oldest trigger.
func (q *InputQueue) TryDequeue() (TriggerID, bool) { return q.dequeue(q.slots[:]) }

// Peek returns the oldest trigger without removing it.
func (q *InputQueue) Peek() (TriggerID, bool) { return q.peek(q.slots[:]) }

// Clear drops every pending trigger, e.g. on respawn or combo timeout.
func (q *InputQueue) Clear() { q.clear(q.slots[:]) }

func (q *InputQueue) Len() int  { return q.count }
func (q *InputQueue) Cap() int  { return QueueCapacity }
func (q *InputQueue) Head() int { return q.head }
func (q *InputQueue) Tail() int { return q.tail }

// InputQueue16 is the 16-slot variant of InputQueue.
type InputQueue16 struct {
	slots [LongQueueCapacity]TriggerID
	ring
}

func (q *InputQueue16) TryEnqueue(t TriggerID) bool   { return q.enqueue(q.slots[:], t) }
func (q *InputQueue16) TryDequeue() (TriggerID, bool) { return q.dequeue(q.slots[:]) }
func (q *InputQueue16) Peek() (TriggerID, bool)       { return q.peek(q.slots[:]) }
func (q *InputQueue16) Clear()                        { q.clear(q.slots[:]) }
func (q *InputQueue16) Len() int                      { return q.count }
func (q *InputQueue16) Cap() int                      { return LongQueueCapacity }
func (q *InputQueue16) Head() int                     { return q.head }
func (q *InputQueue16) Tail() int                     { return q.tail }

// NewQueue returns an empty queue with the given capacity: 16 selects
// InputQueue16, anything else InputQueue.
func NewQueue(capacity int) Queue {
	if capacity == LongQueueCapacity {
		return &InputQueue16{}
	}
	return &InputQueue{}
}
