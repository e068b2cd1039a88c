package combograph

import (
	"errors"
	"fmt"
)

// Node is a move in the graph. Its outgoing edges are
// edges[EdgeStart : EdgeStart+EdgeCount] of the owning MoveGraph.
type Node struct {
	Action    ActionID
	EdgeStart int
	EdgeCount int
}

// Edge is an input-triggered transition out of exactly one node.
type Edge struct {
	Trigger TriggerID
	Target  int
}

// MoveGraph is an immutable move graph in row-grouped layout: every node's
// edges sit contiguously in one shared array. Safe for concurrent readers.
// A nil *MoveGraph behaves like a graph with no nodes.
type MoveGraph struct {
	nodes []Node
	edges []Edge
	names []string // optional, indexed like nodes
}

// NewMoveGraph wraps raw node and edge arrays without checking them. The slices
// are copied. Use Validate to inspect hand-edited data; the engine tolerates
// malformed ranges either way.
func NewMoveGraph(nodes []Node, edges []Edge) *MoveGraph {
	return &MoveGraph{
		nodes: append([]Node(nil), nodes...),
		edges: append([]Edge(nil), edges...),
	}
}

func (g *MoveGraph) NodeCount() int {
	if g == nil {
		return 0
	}
	return len(g.nodes)
}

func (g *MoveGraph) EdgeCount() int {
	if g == nil {
		return 0
	}
	return len(g.edges)
}

// Node returns node i, or false if i is out of range.
func (g *MoveGraph) Node(i int) (Node, bool) {
	if i < 0 || i >= g.NodeCount() {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Edge returns edge i of the flat edge array, or false if i is out of range.
func (g *MoveGraph) Edge(i int) (Edge, bool) {
	if i < 0 || i >= g.EdgeCount() {
		return Edge{}, false
	}
	return g.edges[i], true
}

// EdgesOf returns node i's outgoing edges, clamped to the edge array.
// The returned slice aliases the graph and must not be modified.
func (g *MoveGraph) EdgesOf(i int) []Edge {
	n, ok := g.Node(i)
	if !ok {
		return nil
	}
	start, end := edgeSpan(n, len(g.edges))
	return g.edges[start:end:end]
}

// NodeName returns the authoring name of node i, or "" when unnamed.
func (g *MoveGraph) NodeName(i int) string {
	if g == nil || i < 0 || i >= len(g.names) {
		return ""
	}
	return g.names[i]
}

// edgeSpan clamps a node's edge range to [0, limit).
func edgeSpan(n Node, limit int) (start, end int) {
	start = n.EdgeStart
	if start < 0 {
		start = 0
	}
	if start > limit {
		start = limit
	}
	end = start
	if n.EdgeCount > 0 {
		end = n.EdgeStart + n.EdgeCount
		if end > limit || end < start {
			end = limit
		}
	}
	return start, end
}

// Validate reports every structural problem in the graph. Graphs produced by
// Builder.Build always validate; graphs from NewMoveGraph may not.
func (g *MoveGraph) Validate() error {
	if g.NodeCount() == 0 {
		return ErrEmptyGraph
	}

	var errs []error
	owner := make([]int, len(g.edges))
	for i := range owner {
		owner[i] = -1
	}
	for i, n := range g.nodes {
		if n.EdgeStart < 0 || n.EdgeCount < 0 {
			errs = append(errs, fmt.Errorf("node %d: negative edge range (%d, %d)", i, n.EdgeStart, n.EdgeCount))
			continue
		}
		// Written without EdgeStart+EdgeCount, which can overflow.
		if n.EdgeStart > len(g.edges) || n.EdgeCount > len(g.edges)-n.EdgeStart {
			errs = append(errs, fmt.Errorf("node %d: edge range start %d count %d exceeds %d edges", i, n.EdgeStart, n.EdgeCount, len(g.edges)))
		}
		start, end := edgeSpan(n, len(g.edges))
		for e := start; e < end; e++ {
			if owner[e] >= 0 {
				errs = append(errs, fmt.Errorf("node %d: edge %d already owned by node %d", i, e, owner[e]))
				continue
			}
			owner[e] = i
			if t := g.edges[e].Target; t < 0 || t >= len(g.nodes) {
				errs = append(errs, fmt.Errorf("node %d: edge %d targets node %d: %w", i, e, t, ErrNodeOutOfRange))
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidGraph, errors.Join(errs...))
	}
	return nil
}
