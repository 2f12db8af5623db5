package dag

import (
	"context"
	"fmt"

	"github.com/samuel-clarke/ddsp/internal/ctxlog"
	"github.com/samuel-clarke/ddsp/internal/keypath"
	"github.com/samuel-clarke/ddsp/internal/model"
)

// Build constructs a complete, validated processor graph from a processor
// group and the conditioning keys available to it.
func Build(ctx context.Context, group *model.ProcessorGroup, conditioning []string) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting processor graph construction.")

	graph := &Graph{
		nodes:        make(map[string]*Node),
		conditioning: make(map[string]bool, len(conditioning)),
	}
	for _, key := range conditioning {
		graph.conditioning[key] = true
	}

	// First pass: create all nodes and check name uniqueness.
	for _, entry := range group.Dag {
		id := entry.Processor.ProcessorName()
		if id == "" {
			return nil, fmt.Errorf("processor of type %T has an empty name", entry.Processor)
		}
		if _, exists := graph.nodes[id]; exists {
			return nil, fmt.Errorf("duplicate processor name '%s' in dag", id)
		}
		node := &Node{
			ID:         id,
			Processor:  entry.Processor,
			deps:       make(map[string]*Node),
			dependents: make(map[string]*Node),
		}
		graph.nodes[id] = node
		graph.order = append(graph.order, node)
	}
	logger.Debug("Build: Node creation complete.", "node_count", len(graph.order))

	// Second pass: parse routes, check sources, and link dependencies.
	if err := linkNodes(ctx, group, graph); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node linking complete.")

	if err := graph.detectCycles(); err != nil {
		return nil, fmt.Errorf("error validating processor graph: %w", err)
	}
	logger.Debug("Build: Cycle detection passed.")

	return graph, nil
}

// linkNodes parses each entry's input routes and establishes edges.
// Routes may only read conditioning keys or signals of nodes declared
// earlier, which guarantees declaration order is executable.
func linkNodes(ctx context.Context, group *model.ProcessorGroup, graph *Graph) error {
	logger := ctxlog.FromContext(ctx)
	seen := make(map[string]*Node, len(graph.order))

	for i, entry := range group.Dag {
		node := graph.order[i]
		controls := node.Processor.Controls()
		if len(entry.Inputs) != len(controls) {
			return fmt.Errorf("processor '%s' declares %d controls %v but dag routes %d inputs %v",
				node.ID, len(controls), controls, len(entry.Inputs), entry.Inputs)
		}

		for _, raw := range entry.Inputs {
			route, err := keypath.ParseRoute(raw)
			if err != nil {
				return fmt.Errorf("processor '%s': %w", node.ID, err)
			}

			if route.IsConditioning() {
				if !graph.conditioning[route.Key] {
					return fmt.Errorf("processor '%s' reads unknown conditioning key %q", node.ID, route.Key)
				}
				node.Inputs = append(node.Inputs, route)
				continue
			}

			source, ok := seen[route.Node]
			if !ok {
				if _, later := graph.nodes[route.Node]; later {
					return fmt.Errorf("processor '%s' reads '%s' before node '%s' has run",
						node.ID, route.Key, route.Node)
				}
				return fmt.Errorf("processor '%s' reads unknown node '%s'", node.ID, route.Node)
			}
			if !hasOutput(source.Processor, route.Signal) {
				return fmt.Errorf("processor '%s' reads unknown signal %q of node '%s' (has %v)",
					node.ID, route.Signal, route.Node, source.Processor.Outputs())
			}

			node.Inputs = append(node.Inputs, route)
			node.deps[source.ID] = source
			source.dependents[node.ID] = node
		}

		seen[node.ID] = node
		logger.Debug("Linked processor node.", "node_id", node.ID, "inputs", entry.Inputs)
	}
	return nil
}

func hasOutput(p model.Processor, signal string) bool {
	for _, out := range p.Outputs() {
		if out == signal {
			return true
		}
	}
	return false
}
