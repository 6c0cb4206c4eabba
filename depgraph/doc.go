// Package depgraph implements a computation-graph manager. Callers register
// named nodes, each optionally depending on previously registered nodes, and
// then request the value of any node for a given params value. Dependencies
// are resolved recursively, each node is computed at most once per resolution
// call, and results accumulate in a caller-owned cache.
//
// Two engines share the same contract. Graph is synchronous: node functions
// return plain values and resolution runs depth-first to completion on the
// calling goroutine. AsyncGraph is concurrent: every computation runs on its
// own goroutine, sibling dependencies overlap their latency, and the cache
// stores in-flight promises so concurrent requests for one node share a
// single underlying computation.
//
// Cycles are prevented structurally rather than by graph traversal: Define
// rejects any dependency that is not already registered, so a back-edge can
// never be constructed.
package depgraph
