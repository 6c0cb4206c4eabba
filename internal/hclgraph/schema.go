package hclgraph

import "github.com/hashicorp/hcl/v2"

// nodeBlock is the raw HCL shape of a single `node "<name>" {}` block.
type nodeBlock struct {
	Name      string         `hcl:"name,label"`
	DependsOn []string       `hcl:"depends_on,optional"`
	Expr      hcl.Expression `hcl:"expr"`
}

// fileRoot decodes the top level of one graph file.
type fileRoot struct {
	Nodes []*nodeBlock `hcl:"node,block"`
}

// NodeSpec is one parsed node: its name, its full dependency set (explicit
// depends_on merged with references harvested from the expression), and the
// expression that computes it.
type NodeSpec struct {
	Name      string
	DependsOn []string
	Expr      hcl.Expression
}

// Spec is a parsed graph definition, ready to build an engine.
type Spec struct {
	Nodes []*NodeSpec
}

// NodeNames returns the declared node names in file order.
func (s *Spec) NodeNames() []string {
	names := make([]string, len(s.Nodes))
	for i, n := range s.Nodes {
		names[i] = n.Name
	}
	return names
}
