package depgraph

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vk/depgridgo/internal/ctxlog"
)

// AsyncNodeFunc is a user-supplied computation for the concurrent engine. It
// runs on its own goroutine, so it may block on I/O or timers; that is the
// engine's equivalent of returning a promise. ctx is the context given to Get
// or GetMany. The engine never cancels a launched computation itself.
type AsyncNodeFunc func(ctx context.Context, params any, deps map[string]any) (any, error)

// asyncResolvedFunc is a registered async node after Define has bound its
// dependency resolution.
type asyncResolvedFunc func(ctx context.Context, params any, results *AsyncResults) (any, error)

// AsyncGraph is the concurrent engine. It shares the Graph contract, with two
// differences: the cache stores in-flight promises rather than values, so
// concurrent requests for one node share a single computation, and sibling
// dependencies of a node overlap their latency instead of resolving one after
// another.
type AsyncGraph struct {
	mutex sync.RWMutex
	nodes map[string]asyncResolvedFunc
}

// NewAsync creates an empty AsyncGraph.
func NewAsync() *AsyncGraph {
	return &AsyncGraph{
		nodes: make(map[string]asyncResolvedFunc),
	}
}

// AsyncResults is the per-resolution-call promise cache. Unlike the sync
// engine's Results it is mutated from many goroutines, so access goes through
// an internal mutex. A zero-value AsyncResults is not usable; call
// NewAsyncResults.
type AsyncResults struct {
	mu       sync.Mutex
	promises map[string]*Promise
}

// NewAsyncResults creates an empty promise cache.
func NewAsyncResults() *AsyncResults {
	return &AsyncResults{promises: make(map[string]*Promise)}
}

// Seed stores an already-known value for id, so resolution treats it as
// computed and never invokes the node's function.
func (r *AsyncResults) Seed(id string, val any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.promises[id] = resolvedPromise(val)
}

// Value returns the value cached for id. ok is false when id was never
// requested, is still in flight, or failed.
func (r *AsyncResults) Value(id string) (any, bool) {
	r.mu.Lock()
	p, found := r.promises[id]
	r.mu.Unlock()
	if !found {
		return nil, false
	}
	val, err, settled := p.Peek()
	if !settled || err != nil {
		return nil, false
	}
	return val, true
}

// Len reports how many node slots the cache holds, settled or in flight.
func (r *AsyncResults) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.promises)
}

// existing returns the promise cached for id, if any.
func (r *AsyncResults) existing(id string) (*Promise, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.promises[id]
	return p, ok
}

// claim installs a fresh unsettled promise at id and reports whether the
// caller won the slot. When another goroutine got there first, its promise is
// returned instead and claimed is false. The install happens under the lock,
// before any suspension point, which is what makes per-node computation
// at-most-once under concurrency.
func (r *AsyncResults) claim(id string) (p *Promise, claimed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.promises[id]; ok {
		return p, false
	}
	p = newPromise()
	r.promises[id] = p
	return p, true
}

// Define registers fn under id with the same validation as Graph.Define:
// duplicate ids and dependencies that do not pre-exist are rejected at
// definition time.
func (g *AsyncGraph) Define(id string, fn AsyncNodeFunc, deps ...string) error {
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
		g.nodes[id] = func(ctx context.Context, params any, _ *AsyncResults) (any, error) {
			return fn(ctx, params, map[string]any{})
		}
		return nil
	}

	declared := make([]string, len(deps))
	copy(declared, deps)

	g.nodes[id] = func(ctx context.Context, params any, results *AsyncResults) (any, error) {
		// Request every dependency before waiting on any of them, so
		// independent dependencies overlap their latency.
		promises := make([]*Promise, len(declared))
		for i, dep := range declared {
			promises[i] = g.Get(ctx, dep, params, results)
		}

		resolved := make(map[string]any, len(declared))
		var mu sync.Mutex
		eg, waitCtx := errgroup.WithContext(ctx)
		for i, dep := range declared {
			i, dep := i, dep
			eg.Go(func() error {
				val, err := promises[i].Wait(waitCtx)
				if err != nil {
					return &DependencyFailureError{ID: id, Dependency: dep, Err: err}
				}
				mu.Lock()
				resolved[dep] = val
				mu.Unlock()
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		return fn(ctx, params, resolved)
	}
	return nil
}

// Has reports whether id is defined.
func (g *AsyncGraph) Has(id string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Get resolves id for params against the shared promise cache and returns the
// promise immediately. A cached id, whether in flight or settled, returns the
// existing promise without a second invocation. An unknown id yields a
// rejected promise and leaves the supplied cache untouched; failures are
// always delivered through the promise, never as a panic.
func (g *AsyncGraph) Get(ctx context.Context, id string, params any, results *AsyncResults) *Promise {
	if results == nil {
		results = NewAsyncResults()
	}
	if p, ok := results.existing(id); ok {
		return p
	}

	g.mutex.RLock()
	fn, ok := g.nodes[id]
	g.mutex.RUnlock()
	if !ok {
		return rejectedPromise(&NodeNotFoundError{ID: id})
	}

	p, claimed := results.claim(id)
	if !claimed {
		// Another goroutine started this node between our cache check and
		// the claim; share its computation.
		return p
	}

	logger := ctxlog.FromContext(ctx)
	go func() {
		logger.Debug("Resolving node.", "node", id)
		val, err := fn(ctx, params, results)
		if err != nil {
			logger.Debug("Node failed.", "node", id, "error", err)
		} else {
			logger.Debug("Node settled.", "node", id)
		}
		p.settle(val, err)
	}()
	return p
}

// GetMany resolves every id concurrently against one shared promise cache and
// returns a promise of the accumulated id-to-value map. The map holds exactly
// the requested ids; transitively computed dependencies stay in the cache. If
// any id fails, the returned promise rejects with the first failure observed;
// sibling in-flight computations are not cancelled.
func (g *AsyncGraph) GetMany(ctx context.Context, ids []string, params any, results *AsyncResults) *Promise {
	if results == nil {
		results = NewAsyncResults()
	}

	promises := make([]*Promise, len(ids))
	for i, id := range ids {
		promises[i] = g.Get(ctx, id, params, results)
	}

	out := newPromise()
	go func() {
		values := make(map[string]any, len(ids))
		var mu sync.Mutex
		eg, waitCtx := errgroup.WithContext(ctx)
		for i, id := range ids {
			i, id := i, id
			eg.Go(func() error {
				val, err := promises[i].Wait(waitCtx)
				if err != nil {
					return err
				}
				mu.Lock()
				values[id] = val
				mu.Unlock()
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			out.settle(nil, err)
			return
		}
		out.settle(values, nil)
	}()
	return out
}
