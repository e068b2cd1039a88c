// Package builder declares combo trees in Go code and bakes them into move
// graphs:
//
//	g, err := builder.Build(builder.New("idle", 0,
//		builder.On(light, builder.New("jab", 100,
//			builder.On(light, builder.New("jab-jab", 101,
//				builder.Link(heavy, "uppercut"))))),
//		builder.On(heavy, builder.New("uppercut", 102)),
//	))
package builder

import (
	"errors"
	"fmt"

	"github.com/comalice/combograph"
)

// ErrUnknownMove is returned when a Link names a move that was never declared.
var ErrUnknownMove = errors.New("unknown move")

// Shortcuts
type (
	Trigger = combograph.TriggerID
	Action  = combograph.ActionID
)

// Move is one node of a combo tree.
type Move struct {
	Name   string
	Action Action
	edges  []edge
}

// edge points at a nested move or, for Link, at a move by name.
type edge struct {
	on   Trigger
	next *Move
	link string
}

// Option pattern for configuring moves
type Option func(*Move)

// New creates a move. The root passed to Build becomes the idle node.
func New(name string, action Action, opts ...Option) *Move {
	m := &Move{Name: name, Action: action}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// On adds an edge to a new follow-up move.
func On(trigger Trigger, next *Move) Option {
	return func(m *Move) { m.edges = append(m.edges, edge{on: trigger, next: next}) }
}

// Link adds an edge to a move declared elsewhere in the tree, for loops and
// shared finishers.
func Link(trigger Trigger, name string) Option {
	return func(m *Move) { m.edges = append(m.edges, edge{on: trigger, link: name}) }
}

// Build bakes the tree rooted at root. Moves are numbered depth first with
// the root at index 0; edges keep their declaration order.
func Build(root *Move) (*combograph.MoveGraph, error) {
	b := combograph.NewBuilder()
	if err := Add(b, root); err != nil {
		return nil, err
	}
	return b.Build()
}

// Add appends the tree to b. Links may point at moves already in b.
func Add(b *combograph.Builder, root *Move) error {
	var order []*Move
	index := make(map[*Move]int)
	var visit func(m *Move) error
	visit = func(m *Move) error {
		i, err := b.AddNamedNode(m.Name, m.Action)
		if err != nil {
			return err
		}
		order = append(order, m)
		index[m] = i
		for _, e := range m.edges {
			if e.next != nil {
				if err := visit(e.next); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := visit(root); err != nil {
		return err
	}

	for _, m := range order {
		for _, e := range m.edges {
			to, ok := index[e.next]
			if e.next == nil {
				to, ok = b.Index(e.link)
			}
			if !ok {
				return fmt.Errorf("move %q: link %q: %w", m.Name, e.link, ErrUnknownMove)
			}
			if err := b.AddEdge(index[m], to, e.on); err != nil {
				return err
			}
		}
	}
	return nil
}
