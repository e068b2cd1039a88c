// Package production provides the read-only debug views of a move graph:
// Graphviz DOT and JSON exports with the actor's current node highlighted.
package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/comalice/combograph"
)

// NoHighlight disables current-node highlighting in ExportDOT.
const NoHighlight = -1

// DefaultVisualizer renders MoveGraphs. Triggers maps trigger IDs to display
// names; unnamed triggers are printed as numbers.
type DefaultVisualizer struct {
	Triggers map[combograph.TriggerID]string
}

// ExportDOT generates Graphviz DOT source for g. The node at index current is
// filled; the idle node is drawn with a double border. Edges whose target is
// outside the graph are drawn dashed red.
func (v *DefaultVisualizer) ExportDOT(g *combograph.MoveGraph, current int) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph MoveGraph {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	for i := 0; i < g.NodeCount(); i++ {
		n, _ := g.Node(i)
		style := ""
		if i == combograph.IdleNode {
			style += " peripheries=2"
		}
		if i == current {
			style += " style=filled fillcolor=lightgreen"
		}
		fmt.Fprintf(&buf, "  %q [label=\"%s\\naction %d\"%s];\n", nodeID(i), nodeLabel(g, i), n.Action, style)
	}

	for i := 0; i < g.NodeCount(); i++ {
		for _, e := range g.EdgesOf(i) {
			extra := ""
			if e.Target < 0 || e.Target >= g.NodeCount() {
				extra = " style=dashed color=red"
			}
			fmt.Fprintf(&buf, "  %q -> %q [label=%q%s];\n", nodeID(i), nodeID(e.Target), v.triggerLabel(e.Trigger), extra)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

type jsonNode struct {
	Index     int    `json:"index"`
	Name      string `json:"name,omitempty"`
	Action    int    `json:"action"`
	EdgeStart int    `json:"edgeStart"`
	EdgeCount int    `json:"edgeCount"`
}

type jsonEdge struct {
	Trigger int    `json:"trigger"`
	Label   string `json:"label,omitempty"`
	Target  int    `json:"target"`
}

type jsonGraph struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

// ExportJSON serializes the raw node and edge arrays.
func (v *DefaultVisualizer) ExportJSON(g *combograph.MoveGraph) ([]byte, error) {
	out := jsonGraph{
		Nodes: make([]jsonNode, 0, g.NodeCount()),
		Edges: make([]jsonEdge, 0, g.EdgeCount()),
	}
	for i := 0; i < g.NodeCount(); i++ {
		n, _ := g.Node(i)
		out.Nodes = append(out.Nodes, jsonNode{
			Index:     i,
			Name:      g.NodeName(i),
			Action:    int(n.Action),
			EdgeStart: n.EdgeStart,
			EdgeCount: n.EdgeCount,
		})
	}
	for i := 0; i < g.EdgeCount(); i++ {
		e, _ := g.Edge(i)
		out.Edges = append(out.Edges, jsonEdge{
			Trigger: int(e.Trigger),
			Label:   v.Triggers[e.Trigger],
			Target:  e.Target,
		})
	}
	return json.MarshalIndent(out, "", "  ")
}

func nodeID(i int) string {
	return "n" + strconv.Itoa(i)
}

func nodeLabel(g *combograph.MoveGraph, i int) string {
	if name := g.NodeName(i); name != "" {
		return strings.ReplaceAll(name, `"`, `\"`)
	}
	return "#" + strconv.Itoa(i)
}

func (v *DefaultVisualizer) triggerLabel(t combograph.TriggerID) string {
	if name, ok := v.Triggers[t]; ok {
		return name
	}
	return strconv.Itoa(int(t))
}
