package hclgraph

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/depgridgo/depgraph"
)

// BuildSync registers every node of the spec into a synchronous engine.
func (s *Spec) BuildSync() (*depgraph.Graph, error) {
	g := depgraph.New()
	err := s.defineOrdered(g.Has, func(n *NodeSpec) error {
		return g.Define(n.Name, func(params any, deps map[string]any) (any, error) {
			return evalNode(n, params, deps)
		}, n.DependsOn...)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// BuildAsync registers every node of the spec into a concurrent engine.
func (s *Spec) BuildAsync() (*depgraph.AsyncGraph, error) {
	g := depgraph.NewAsync()
	err := s.defineOrdered(g.Has, func(n *NodeSpec) error {
		return g.Define(n.Name, func(_ context.Context, params any, deps map[string]any) (any, error) {
			return evalNode(n, params, deps)
		}, n.DependsOn...)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// defineOrdered registers nodes in dependency order, whatever their order in
// the files. The engine requires a dependency to be defined before any of its
// dependents, so the loader makes passes over the remaining nodes, defining
// each one whose dependencies are all registered, until done. A pass with no
// progress means some dependency can never exist (a typo, or a node that
// ultimately references itself); defining one such node anyway surfaces the
// engine's own UnknownDependencyError, naming the missing id.
func (s *Spec) defineOrdered(has func(string) bool, define func(*NodeSpec) error) error {
	pending := make([]*NodeSpec, len(s.Nodes))
	copy(pending, s.Nodes)

	for len(pending) > 0 {
		var remaining []*NodeSpec
		for _, n := range pending {
			ready := true
			for _, dep := range n.DependsOn {
				if !has(dep) {
					ready = false
					break
				}
			}
			if !ready {
				remaining = append(remaining, n)
				continue
			}
			if err := define(n); err != nil {
				return err
			}
		}
		if len(remaining) == len(pending) {
			return define(remaining[0])
		}
		pending = remaining
	}
	return nil
}

// evalNode evaluates a node's expression. Params and dependency values travel
// through the engine's type-erased value domain as cty.Value; this is the
// layer that narrows them back.
func evalNode(spec *NodeSpec, params any, deps map[string]any) (any, error) {
	paramsVal := cty.EmptyObjectVal
	if params != nil {
		var ok bool
		paramsVal, ok = params.(cty.Value)
		if !ok {
			return nil, fmt.Errorf("node %q: params must be a cty.Value, got %T", spec.Name, params)
		}
	}

	vars := map[string]cty.Value{"param": paramsVal}
	if len(deps) > 0 {
		nodeVals := make(map[string]cty.Value, len(deps))
		for name, v := range deps {
			cv, ok := v.(cty.Value)
			if !ok {
				return nil, fmt.Errorf("node %q: dependency %q produced %T, expected cty.Value", spec.Name, name, v)
			}
			nodeVals[name] = cv
		}
		vars["node"] = cty.ObjectVal(nodeVals)
	}

	val, diags := spec.Expr.Value(&hcl.EvalContext{
		Variables: vars,
		Functions: exprFunctions(),
	})
	if diags.HasErrors() {
		return nil, fmt.Errorf("node %q: %w", spec.Name, diags)
	}
	return val, nil
}
