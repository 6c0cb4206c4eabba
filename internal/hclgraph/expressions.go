package hclgraph

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
)

// referencedNodes walks the variable traversals of an expression and returns
// the node names it references. Only the `param` and `node` roots are legal
// in a graph file; anything else is reported against the declaring node. The
// result is sorted so dependency sets are deterministic across runs.
func referencedNodes(nodeName string, expr hcl.Expression) ([]string, error) {
	seen := make(map[string]struct{})
	var deps []string

	for _, traversal := range expr.Variables() {
		switch root := traversal.RootName(); root {
		case "param":
			// Params are opaque to the graph; nothing to record.
		case "node":
			if len(traversal) < 2 {
				return nil, fmt.Errorf("node %q: bare `node` reference; expected node.<name>", nodeName)
			}
			attr, ok := traversal[1].(hcl.TraverseAttr)
			if !ok {
				return nil, fmt.Errorf("node %q: node references must use attribute form node.<name>", nodeName)
			}
			if _, dup := seen[attr.Name]; !dup {
				seen[attr.Name] = struct{}{}
				deps = append(deps, attr.Name)
			}
		default:
			return nil, fmt.Errorf("node %q: unknown reference %q; only param.* and node.* are available", nodeName, root)
		}
	}

	sort.Strings(deps)
	return deps, nil
}

// mergeDeps unions the explicit depends_on list with the implicit references,
// dropping duplicates. Explicit entries keep their declared order; implicit
// ones follow, already sorted.
func mergeDeps(explicit, implicit []string) []string {
	seen := make(map[string]struct{}, len(explicit)+len(implicit))
	merged := make([]string, 0, len(explicit)+len(implicit))
	for _, lists := range [][]string{explicit, implicit} {
		for _, dep := range lists {
			if _, dup := seen[dep]; dup {
				continue
			}
			seen[dep] = struct{}{}
			merged = append(merged, dep)
		}
	}
	return merged
}
