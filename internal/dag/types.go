package dag

import (
	"github.com/samuel-clarke/ddsp/internal/keypath"
	"github.com/samuel-clarke/ddsp/internal/model"
)

// Node is a single processor stage in the validated graph.
type Node struct {
	// ID is the processor's configured name, unique within the graph.
	ID string
	// Processor is the configured component for this stage.
	Processor model.Processor
	// Inputs are the parsed routes feeding the processor's controls,
	// in control order.
	Inputs []keypath.Route

	// deps holds the set of node IDs this node reads signals from.
	deps map[string]*Node
	// dependents holds the set of nodes that read this node's signals.
	dependents map[string]*Node
}

// Graph is the validated processor pipeline of one processor group.
type Graph struct {
	// nodes indexes all nodes by ID.
	nodes map[string]*Node
	// order preserves the declaration order, which is also a valid
	// topological order once validation passes.
	order []*Node
	// conditioning is the set of keys routable without a node prefix.
	conditioning map[string]bool
}

// Nodes returns the graph's nodes in execution order.
func (g *Graph) Nodes() []*Node {
	return g.order
}

// Node looks up a node by its ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// OutputNode returns the final stage, whose signal is the group's output.
func (g *Graph) OutputNode() *Node {
	return g.order[len(g.order)-1]
}

// Dependencies returns the IDs of the nodes the given node reads from.
func (g *Graph) Dependencies(id string) []string {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	deps := make([]string, 0, len(n.deps))
	for depID := range n.deps {
		deps = append(deps, depID)
	}
	return deps
}

// Dependents returns the IDs of the nodes that read from the given node.
func (g *Graph) Dependents(id string) []string {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	dependents := make([]string, 0, len(n.dependents))
	for depID := range n.dependents {
		dependents = append(dependents, depID)
	}
	return dependents
}
