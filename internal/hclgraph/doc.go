// Package hclgraph loads computation graphs from HCL files.
//
// A graph file declares one block per node. The expression may reference the
// caller-supplied params as `param.<name>` and the values of other nodes as
// `node.<name>`; every `node.` reference becomes a dependency automatically,
// and `depends_on` adds explicit ones:
//
//	node "height" {
//	  expr = param.x + param.y
//	}
//
//	node "temperature" {
//	  expr = param.y - node.height
//	}
//
// Files are parsed into a Spec, which builds either engine from package
// depgraph. Declaration order inside the files does not matter; the loader
// orders definitions so that dependencies are registered before dependents,
// which is the shape the engine requires.
package hclgraph
