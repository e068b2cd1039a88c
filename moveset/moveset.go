// Package moveset reads move graphs authored in YAML and keeps a library of
// built graphs that can be swapped atomically while actors are running.
//
// A move set file looks like:
//
//	name: sword
//	actions: {idle: 0, slash: 100, slash2: 101}
//	triggers: {light: 1, heavy: 2}
//	nodes:
//	  - {name: idle, action: idle}
//	  - {name: slash, action: slash}
//	  - {name: slash2, action: slash2}
//	edges:
//	  - {from: idle, to: slash, on: light}
//	  - {from: slash, to: slash2, on: light}
//
// The first node is the idle node. Actions and triggers can be written as
// integers or as names from the tables.
package moveset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/combograph"
)

var (
	ErrNoNodes        = errors.New("move set has no nodes")
	ErrUnnamedNode    = errors.New("node has no name")
	ErrUnknownNode    = errors.New("unknown node")
	ErrUnknownAction  = errors.New("unknown action")
	ErrUnknownTrigger = errors.New("unknown trigger")
	ErrBadCapacity    = errors.New("queue_capacity must be 8 or 16")
)

// MoveSet is the parsed form of a move set file.
type MoveSet struct {
	Name     string         `yaml:"name"`
	Actions  map[string]int `yaml:"actions,omitempty"`
	Triggers map[string]int `yaml:"triggers,omitempty"`
	// QueueCapacity suggests the input queue size for actors using this set.
	QueueCapacity int        `yaml:"queue_capacity,omitempty"`
	Nodes         []NodeSpec `yaml:"nodes"`
	Edges         []EdgeSpec `yaml:"edges"`
}

type NodeSpec struct {
	Name   string `yaml:"name"`
	Action Ref    `yaml:"action"`
}

type EdgeSpec struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	On   Ref    `yaml:"on"`
}

// Ref is an integer literal or a symbolic name.
type Ref struct {
	Num   int
	Name  string
	IsNum bool
}

func (r *Ref) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number or a name", value.Line)
	}
	if value.ShortTag() == "!!int" {
		var n int
		if err := value.Decode(&n); err != nil {
			return err
		}
		*r = Ref{Num: n, IsNum: true}
		return nil
	}
	*r = Ref{Name: value.Value}
	return nil
}

func (r Ref) MarshalYAML() (any, error) {
	if r.IsNum {
		return r.Num, nil
	}
	return r.Name, nil
}

func (r Ref) String() string {
	if r.IsNum {
		return strconv.Itoa(r.Num)
	}
	return r.Name
}

// Parse decodes a move set. Unknown fields are rejected.
func Parse(data []byte) (*MoveSet, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var ms MoveSet
	if err := dec.Decode(&ms); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoNodes
		}
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return &ms, nil
}

// Load reads and parses a move set file. An empty name defaults to the file
// name without its extension.
func Load(path string) (*MoveSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	ms, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if ms.Name == "" {
		ms.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return ms, nil
}

// Marshal encodes the move set back to YAML.
func (ms *MoveSet) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(ms)
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}

// Build resolves names and bakes the move set into a MoveGraph.
func (ms *MoveSet) Build() (*combograph.MoveGraph, error) {
	if len(ms.Nodes) == 0 {
		return nil, ErrNoNodes
	}
	switch ms.QueueCapacity {
	case 0, combograph.QueueCapacity, combograph.LongQueueCapacity:
	default:
		return nil, fmt.Errorf("%w: got %d", ErrBadCapacity, ms.QueueCapacity)
	}

	b := combograph.NewBuilder()
	for i, n := range ms.Nodes {
		if n.Name == "" {
			return nil, fmt.Errorf("node %d: %w", i, ErrUnnamedNode)
		}
		var action int
		if n.Action != (Ref{}) {
			var err error
			if action, err = ms.resolve(n.Action, ms.Actions, ErrUnknownAction); err != nil {
				return nil, fmt.Errorf("node %q: %w", n.Name, err)
			}
		}
		if _, err := b.AddNamedNode(n.Name, combograph.ActionID(action)); err != nil {
			return nil, err
		}
	}

	for i, e := range ms.Edges {
		from, ok := b.Index(e.From)
		if !ok {
			return nil, fmt.Errorf("edge %d: from %q: %w", i, e.From, ErrUnknownNode)
		}
		to, ok := b.Index(e.To)
		if !ok {
			return nil, fmt.Errorf("edge %d: to %q: %w", i, e.To, ErrUnknownNode)
		}
		trigger, err := ms.resolve(e.On, ms.Triggers, ErrUnknownTrigger)
		if err != nil {
			return nil, fmt.Errorf("edge %d (%s -> %s): %w", i, e.From, e.To, err)
		}
		if err := b.AddEdge(from, to, combograph.TriggerID(trigger)); err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
	}
	return b.Build()
}

// Trigger resolves a trigger given as a table name or an integer literal.
func (ms *MoveSet) Trigger(s string) (combograph.TriggerID, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return combograph.TriggerID(n), nil
	}
	n, err := ms.resolve(Ref{Name: s}, ms.Triggers, ErrUnknownTrigger)
	return combograph.TriggerID(n), err
}

// Capacity returns the input queue capacity actors should use.
func (ms *MoveSet) Capacity() int {
	if ms.QueueCapacity == 0 {
		return combograph.QueueCapacity
	}
	return ms.QueueCapacity
}

func (ms *MoveSet) resolve(r Ref, table map[string]int, notFound error) (int, error) {
	if r.IsNum {
		return r.Num, nil
	}
	if n, ok := table[r.Name]; ok {
		return n, nil
	}
	if r.Name == "" {
		return 0, fmt.Errorf("empty reference: %w", notFound)
	}
	return 0, fmt.Errorf("%q: %w", r.Name, notFound)
}
