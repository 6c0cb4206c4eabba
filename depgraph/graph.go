package depgraph

import "sync"

// NodeFunc is a user-supplied computation. It receives the params value given
// to Get or GetMany, untouched, and the resolved values of the node's
// declared dependencies keyed by dependency id. Nodes without dependencies
// receive an empty map.
type NodeFunc func(params any, deps map[string]any) (any, error)

// Results is the per-resolution-call cache, keyed by node id. The caller owns
// it: pass nil (or an empty map) for a fresh resolution, or pre-seed values
// to short-circuit parts of the graph. Presence of a key is what marks a node
// as computed, so legitimately zero values (0, "", false) still count as
// cache hits.
type Results map[string]any

// resolvedFunc is a registered node after Define has bound its dependency
// resolution. It threads the in-flight cache through recursive calls.
type resolvedFunc func(params any, results Results) (any, error)

// Graph is the synchronous engine: a registry of nodes plus depth-first
// resolution. The registry is safe for concurrent Define/Has/Get, but one
// Results cache must not be shared by concurrently running resolution calls.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]resolvedFunc
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]resolvedFunc),
	}
}

// Define registers fn under id. Every entry of deps must already be defined;
// the graph stays acyclic because a node can never reference a node defined
// after it. Fails with *DuplicateNodeError or *UnknownDependencyError, always
// at definition time.
func (g *Graph) Define(id string, fn NodeFunc, deps ...string) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return &DuplicateNodeError{ID: id}
	}
	for _, dep := range deps {
		if _, ok := g.nodes[dep]; !ok {
			return &UnknownDependencyError{ID: id, Dependency: dep}
		}
	}

	if len(deps) == 0 {
		g.nodes[id] = func(params any, _ Results) (any, error) {
			return fn(params, map[string]any{})
		}
		return nil
	}

	// Copy the slice so later mutation by the caller cannot change the
	// registered dependency set.
	declared := make([]string, len(deps))
	copy(declared, deps)

	g.nodes[id] = func(params any, results Results) (any, error) {
		resolved := make(map[string]any, len(declared))
		for _, dep := range declared {
			val, err := g.Get(dep, params, results)
			if err != nil {
				return nil, err
			}
			resolved[dep] = val
		}
		return fn(params, resolved)
	}
	return nil
}

// Has reports whether id is defined.
func (g *Graph) Has(id string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Get resolves id for params, using results as the shared cache. A cached id
// is returned without invoking its function, so within one resolution call a
// node is computed at most once. After a successful Get, results holds a
// value for id and for every node transitively required to compute it.
//
// Passing a nil cache resolves id against a fresh one that is discarded
// afterwards; use GetMany or supply a Results to retain computed values.
func (g *Graph) Get(id string, params any, results Results) (any, error) {
	if results == nil {
		results = Results{}
	}
	if val, ok := results[id]; ok {
		return val, nil
	}

	g.mutex.RLock()
	fn, ok := g.nodes[id]
	g.mutex.RUnlock()
	if !ok {
		return nil, &NodeNotFoundError{ID: id}
	}

	val, err := fn(params, results)
	if err != nil {
		return nil, err
	}
	results[id] = val
	return val, nil
}

// GetMany resolves every id in order against one shared cache, so later ids
// observe values computed for earlier ones. It returns the accumulated cache,
// which contains at least the requested ids plus every transitively computed
// dependency.
func (g *Graph) GetMany(ids []string, params any, results Results) (Results, error) {
	if results == nil {
		results = Results{}
	}
	for _, id := range ids {
		if _, err := g.Get(id, params, results); err != nil {
			return nil, err
		}
	}
	return results, nil
}
