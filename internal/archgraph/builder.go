package archgraph

import "fmt"

// Build converts a module list and an edge list into a dependency graph.
//
// Edges referencing an identifier absent from the module list are accepted;
// the missing endpoint is materialized as a node without metadata, so callers
// may supply partial data. Duplicate edges collapse to one. The only failure
// mode is malformed input: an empty module identifier or edge endpoint.
func Build(modules []Module, edges []Edge) (*Graph, error) {
	g := &Graph{
		adj:     make(map[string][]string),
		modules: make(map[string]Module, len(modules)),
	}

	for i, m := range modules {
		if m.ID == "" {
			return nil, fmt.Errorf("module %d: empty id", i)
		}
		if _, ok := g.modules[m.ID]; ok {
			continue // first declaration wins
		}
		g.modules[m.ID] = m
		g.order = append(g.order, m.ID)
	}

	seen := make(map[Edge]bool, len(edges))
	for i, e := range edges {
		if e.From == "" {
			return nil, fmt.Errorf("edge %d: empty from", i)
		}
		if e.To == "" {
			return nil, fmt.Errorf("edge %d: empty to", i)
		}
		g.ensureNode(e.From)
		g.ensureNode(e.To)
		if seen[e] {
			continue
		}
		seen[e] = true
		g.adj[e.From] = append(g.adj[e.From], e.To)
		g.edges = append(g.edges, e)
	}

	return g, nil
}

// ensureNode materializes a node referenced by an edge but missing from the
// module list.
func (g *Graph) ensureNode(id string) {
	if _, ok := g.modules[id]; ok {
		return
	}
	g.modules[id] = Module{ID: id}
	g.order = append(g.order, id)
}
