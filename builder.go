package combograph

import "fmt"

// Builder collects nodes and edges in any order and bakes them into a
// MoveGraph. It is an authoring-time tool: invalid references are programmer
// errors and fail loudly.
type Builder struct {
	actions []ActionID
	names   []string
	byName  map[string]int
	pending [][]Edge // outgoing edges per node, in AddEdge order
	edges   int
	err     error // first authoring error, reported again by Build
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{byName: make(map[string]int)}
}

// AddNode appends a node and returns its index. Indices are stable and
// assigned sequentially from 0; the first node added is the idle node.
func (b *Builder) AddNode(action ActionID) int {
	b.actions = append(b.actions, action)
	b.names = append(b.names, "")
	b.pending = append(b.pending, nil)
	return len(b.actions) - 1
}

// AddNamedNode is AddNode with a debug name that can be looked up with Index
// and is carried into the built graph. An empty name adds an unnamed node.
func (b *Builder) AddNamedNode(name string, action ActionID) (int, error) {
	if name == "" {
		return b.AddNode(action), nil
	}
	if b.byName == nil {
		b.byName = make(map[string]int)
	}
	if _, exists := b.byName[name]; exists {
		err := fmt.Errorf("node %q: %w", name, ErrDuplicateName)
		b.fail(err)
		return -1, err
	}
	i := b.AddNode(action)
	b.names[i] = name
	b.byName[name] = i
	return i, nil
}

// Index returns the index of a named node.
func (b *Builder) Index(name string) (int, bool) {
	i, ok := b.byName[name]
	return i, ok
}

// NodeCount returns the number of nodes added so far.
func (b *Builder) NodeCount() int {
	return len(b.actions)
}

// AddEdge adds a transition from -> to taken on trigger. Both indices must
// refer to nodes already added.
func (b *Builder) AddEdge(from, to int, trigger TriggerID) error {
	if err := b.checkIndex("source", from); err != nil {
		return err
	}
	if err := b.checkIndex("target", to); err != nil {
		return err
	}
	b.pending[from] = append(b.pending[from], Edge{Trigger: trigger, Target: to})
	b.edges++
	return nil
}

// Build flattens the per-node edge lists into one contiguous array. Each
// node's edges keep the order they were added in. Build fails if any earlier
// AddNode/AddEdge call failed.
func (b *Builder) Build() (*MoveGraph, error) {
	if b.err != nil {
		return nil, b.err
	}

	g := &MoveGraph{
		nodes: make([]Node, len(b.actions)),
		edges: make([]Edge, 0, b.edges),
	}
	for i, action := range b.actions {
		g.nodes[i] = Node{
			Action:    action,
			EdgeStart: len(g.edges),
			EdgeCount: len(b.pending[i]),
		}
		g.edges = append(g.edges, b.pending[i]...)
	}
	for _, name := range b.names {
		if name != "" {
			g.names = append([]string(nil), b.names...)
			break
		}
	}
	return g, nil
}

// MustBuild is like Build but panics on error. Intended for static tables.
func (b *Builder) MustBuild() *MoveGraph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}

func (b *Builder) checkIndex(role string, i int) error {
	if i < 0 || i >= len(b.actions) {
		err := fmt.Errorf("%s node %d (have %d nodes): %w", role, i, len(b.actions), ErrNodeOutOfRange)
		b.fail(err)
		return err
	}
	return nil
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
