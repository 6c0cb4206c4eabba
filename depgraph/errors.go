package depgraph

import "fmt"

// DuplicateNodeError is returned by Define when the node id is already
// registered. Registration is create-once; there is no update or delete.
type DuplicateNodeError struct {
	ID string
}

// Error implements the error interface.
func (e *DuplicateNodeError) Error() string {
	return fmt.Sprintf("node %q is already defined", e.ID)
}

// UnknownDependencyError is returned by Define when a declared dependency
// has not been registered yet. Dependencies must pre-exist their dependents;
// this rule is what keeps the graph acyclic by construction.
type UnknownDependencyError struct {
	// ID is the node being defined.
	ID string
	// Dependency is the missing dependency id.
	Dependency string
}

// Error implements the error interface.
func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("node %q depends on %q, which is not defined", e.ID, e.Dependency)
}

// NodeNotFoundError is returned by Get and GetMany when the requested id is
// neither registered nor pre-seeded in the results cache.
type NodeNotFoundError struct {
	ID string
}

// Error implements the error interface.
func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("node %q is not defined", e.ID)
}

// DependencyFailureError wraps a failure of one dependency while resolving a
// dependent node. The underlying error is preserved as a structured cause,
// reachable through errors.Is and errors.As.
type DependencyFailureError struct {
	// ID is the node whose resolution failed.
	ID string
	// Dependency is the dependency whose computation failed.
	Dependency string
	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *DependencyFailureError) Error() string {
	return fmt.Sprintf("node %q: dependency %q failed: %v", e.ID, e.Dependency, e.Err)
}

// Unwrap exposes the underlying failure for errors.Is / errors.As.
func (e *DependencyFailureError) Unwrap() error {
	return e.Err
}
