package app

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/vk/depgridgo/depgraph"
	"github.com/vk/depgridgo/internal/ctxlog"
	"github.com/vk/depgridgo/internal/hclgraph"
)

// Run loads the graph files, builds the concurrent engine, resolves the
// requested targets, and prints the resolved values as one JSON object.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	spec, err := hclgraph.Load(ctx, a.config.GridPath)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}

	graph, err := spec.BuildAsync()
	if err != nil {
		return fmt.Errorf("failed to build graph: %w", err)
	}
	a.logger.Debug("Graph built.", "node_count", len(spec.Nodes))

	targets := a.config.Targets
	if len(targets) == 0 {
		targets = spec.NodeNames()
	}
	for _, target := range targets {
		if !graph.Has(target) {
			return fmt.Errorf("unknown target node %q", target)
		}
	}

	params, err := parseParams(a.config.Params)
	if err != nil {
		return err
	}

	a.logger.Info("Resolving graph.", "targets", targets)
	value, err := graph.GetMany(ctx, targets, params, depgraph.NewAsyncResults()).Wait(ctx)
	if err != nil {
		return fmt.Errorf("resolution failed: %w", err)
	}
	a.logger.Info("Resolution finished.")

	return a.render(value.(map[string]any))
}

// render prints the id-to-value map as a JSON object on one line.
func (a *App) render(resolved map[string]any) error {
	objVals := make(map[string]cty.Value, len(resolved))
	for id, v := range resolved {
		cv, ok := v.(cty.Value)
		if !ok {
			return fmt.Errorf("node %q resolved to unexpected type %T", id, v)
		}
		objVals[id] = cv
	}

	obj := cty.ObjectVal(objVals)
	out, err := ctyjson.Marshal(obj, obj.Type())
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	fmt.Fprintln(a.outW, string(out))
	return nil
}
