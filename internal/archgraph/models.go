// Package archgraph implements the dependency-graph analysis engine: graph
// construction, circular-dependency detection, layering-rule validation,
// coupling/cohesion metrics and diagram rendering.
package archgraph

// Module is one analyzable unit as reported by the module scanner.
type Module struct {
	ID       string            `json:"id"`
	Layer    string            `json:"layer,omitempty"`    // explicit layer tag, may be empty
	Metadata map[string]string `json:"metadata,omitempty"` // opaque, carried through uninterpreted
}

// Edge is a directed dependency between two modules.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the adjacency representation of one analysis input. It is built
// once by Build and never mutated afterwards; concurrent analyses must each
// build their own instance.
type Graph struct {
	order   []string            // node insertion order
	adj     map[string][]string // out-edges per node, deduplicated, insertion order
	modules map[string]Module
	edges   []Edge // deduplicated edge list in insertion order
}

// Nodes returns module identifiers in insertion order.
func (g *Graph) Nodes() []string { return g.order }

// Deps returns the out-edges of a node in insertion order.
func (g *Graph) Deps(id string) []string { return g.adj[id] }

// Edges returns the deduplicated edge list in insertion order.
func (g *Graph) Edges() []Edge { return g.edges }

// Module returns the module record for an identifier. Nodes materialized from
// dangling edges carry only their ID.
func (g *Graph) Module(id string) (Module, bool) {
	m, ok := g.modules[id]
	return m, ok
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of distinct edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

func (g *Graph) hasSelfEdge(id string) bool {
	for _, to := range g.adj[id] {
		if to == id {
			return true
		}
	}
	return false
}

// Cycle is one circular dependency group. Members, read cyclically, form a
// closed path in the graph; a single member implies a self-edge.
type Cycle struct {
	Members []string `json:"members"`
}

// Violation is a dependency edge that crosses layers in a disallowed
// direction.
type Violation struct {
	From      string `json:"from"`
	To        string `json:"to"`
	FromLayer string `json:"from_layer"`
	ToLayer   string `json:"to_layer"`
	Rule      string `json:"rule"`
}

// Metrics holds the aggregate coupling/cohesion scores plus the raw counts
// they were derived from. Both scores are bounded to [0,100].
type Metrics struct {
	Coupling    float64 `json:"coupling"` // higher = worse
	Cohesion    float64 `json:"cohesion"` // higher = better
	ModuleCount int     `json:"module_count"`
	EdgeCount   int     `json:"edge_count"`
}

// Summary describes the analyzed graph.
type Summary struct {
	ModuleCount int `json:"module_count"`
	EdgeCount   int `json:"edge_count"`
}

// Result aggregates the outcome of one analysis run. It is created fresh per
// invocation and shares no state with other runs.
type Result struct {
	Summary    Summary     `json:"summary"`
	Cycles     []Cycle     `json:"cycles,omitempty"`
	Violations []Violation `json:"violations,omitempty"`
	Metrics    Metrics     `json:"metrics"`
	Diagram    string      `json:"diagram,omitempty"`
}
