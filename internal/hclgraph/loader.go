package hclgraph

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/depgridgo/internal/ctxlog"
	"github.com/vk/depgridgo/internal/fsutil"
)

// Load parses every .hcl file under path (or the single file path points at)
// into a Spec. Parsing is strict: unknown top-level blocks, malformed node
// blocks, and duplicate node names across files are all load-time errors.
func Load(ctx context.Context, path string) (*Spec, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found under %s", path)
	}
	logger.Debug("Discovered graph files.", "count", len(files))

	parser := hclparse.NewParser()
	spec := &Spec{}
	byName := make(map[string]string) // node name -> file, for duplicate reporting

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", file, diags)
		}

		for _, block := range root.Nodes {
			if prev, dup := byName[block.Name]; dup {
				return nil, fmt.Errorf("node %q in %s is already declared in %s", block.Name, file, prev)
			}
			byName[block.Name] = file

			implicit, err := referencedNodes(block.Name, block.Expr)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}

			spec.Nodes = append(spec.Nodes, &NodeSpec{
				Name:      block.Name,
				DependsOn: mergeDeps(block.DependsOn, implicit),
				Expr:      block.Expr,
			})
		}
	}

	logger.Debug("Graph loading complete.", "nodes", len(spec.Nodes))
	return spec, nil
}
