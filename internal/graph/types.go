// Package graph models foreign-key relationships between knowledge base
// collections as a directed graph.
package graph

// Relation declares that Field in every record of Source must name an
// existing TargetKey value in Target.
type Relation struct {
	Name      string // short label used in diagnostics, e.g. "positions"
	Source    string // referencing collection id
	Field     string // foreign-key field in Source records
	Target    string // referenced collection id
	TargetKey string // identity field in Target records (defaults to "id")
}

// Node represents a collection in the graph.
type Node struct {
	Name   string
	IsRoot bool // true when nothing this collection depends on is declared
}

// Edge points from a referenced collection to the collection referencing it.
type Edge struct {
	From string // referenced (parent) collection
	To   string // referencing (child) collection
}

// EdgeMeta contains metadata about an edge relationship.
type EdgeMeta struct {
	Name         string // relation label
	ForeignKey   string // field in child records
	ReferenceKey string // identity field in parent records
}

// Graph is the relationship structure between collections.
type Graph struct {
	Nodes        map[string]*Node
	Children     map[string][]string // collection -> collections referencing it
	Parents      map[string][]string // collection -> collections it references
	edges        []Edge              // insertion order
	edgeMetadata map[Edge][]*EdgeMeta
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:        make(map[string]*Node),
		Children:     make(map[string][]string),
		Parents:      make(map[string][]string),
		edgeMetadata: make(map[Edge][]*EdgeMeta),
	}
}

// AddNode adds a collection node if it is not present yet.
func (g *Graph) AddNode(name string) *Node {
	if n, ok := g.Nodes[name]; ok {
		return n
	}
	n := &Node{Name: name, IsRoot: true}
	g.Nodes[name] = n
	return n
}

// AddEdgeWithMeta adds a parent -> child relationship. Several relations
// between the same pair of collections share one edge.
func (g *Graph) AddEdgeWithMeta(parent, child string, meta *EdgeMeta) {
	g.AddNode(parent)
	g.AddNode(child).IsRoot = false

	edge := Edge{From: parent, To: child}
	if _, exists := g.edgeMetadata[edge]; !exists {
		g.Children[parent] = append(g.Children[parent], child)
		g.Parents[child] = append(g.Parents[child], parent)
		g.edges = append(g.edges, edge)
	}
	g.edgeMetadata[edge] = append(g.edgeMetadata[edge], meta)
}

// GetChildren returns collections that reference parent.
func (g *Graph) GetChildren(parent string) []string {
	return g.Children[parent]
}

// GetParents returns collections referenced by child.
func (g *Graph) GetParents(child string) []string {
	return g.Parents[child]
}

// GetEdgeMeta returns the relations carried by an edge, or nil.
func (g *Graph) GetEdgeMeta(parent, child string) []*EdgeMeta {
	return g.edgeMetadata[Edge{From: parent, To: child}]
}

// NodeCount returns the number of collections in the graph.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// AllEdges returns edges in the order they were added.
func (g *Graph) AllEdges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}
