package archgraph

import (
	"fmt"
	"path"
	"strings"
)

// LayerUnclassified is assigned to modules matching no pattern and carrying
// no explicit layer tag. Unclassified modules are exempt from validation.
const LayerUnclassified = "unclassified"

// LayerPattern assigns a layer to modules whose identifier matches a path
// pattern. Patterns are evaluated in declaration order; the first match wins.
type LayerPattern struct {
	Pattern string `json:"pattern"`
	Layer   string `json:"layer"`
}

// LayerRules declares the architectural layers and the permitted transitions
// between them.
//
// Allowed maps a source layer to the target layers its modules may depend on.
// A layer absent from the map is unconstrained; an explicitly empty list
// forbids all cross-layer dependencies from that layer. Same-layer edges are
// always permitted.
type LayerRules struct {
	Allowed  map[string][]string `json:"allowed"`
	Patterns []LayerPattern      `json:"patterns,omitempty"`
}

// Empty reports whether no rules are declared at all.
func (r *LayerRules) Empty() bool {
	return r == nil || (len(r.Allowed) == 0 && len(r.Patterns) == 0)
}

// LayerOf classifies one module: explicit tag first, then patterns in
// declaration order, else LayerUnclassified.
func (r *LayerRules) LayerOf(m Module) string {
	if m.Layer != "" {
		return m.Layer
	}
	if r != nil {
		for _, p := range r.Patterns {
			if matchPattern(p.Pattern, m.ID) {
				return p.Layer
			}
		}
	}
	return LayerUnclassified
}

// matchPattern matches a module identifier against a layer pattern. Patterns
// with glob metacharacters use path.Match semantics; plain patterns match the
// identifier itself or any identifier underneath it.
func matchPattern(pattern, id string) bool {
	if strings.ContainsAny(pattern, "*?[") {
		ok, err := path.Match(pattern, id)
		return err == nil && ok
	}
	return id == pattern || strings.HasPrefix(id, pattern+"/")
}

// ValidateLayers flags every edge whose endpoints are both classified and
// whose layer transition is not permitted. Violations are reported in graph
// edge order, so results are deterministic for a given input.
func ValidateLayers(g *Graph, rules *LayerRules) []Violation {
	if rules.Empty() {
		return nil
	}

	layers := make(map[string]string, len(g.order))
	for _, id := range g.order {
		m := g.modules[id]
		layers[id] = rules.LayerOf(m)
	}

	var violations []Violation
	for _, e := range g.edges {
		from, to := layers[e.From], layers[e.To]
		if from == LayerUnclassified || to == LayerUnclassified {
			continue
		}
		if from == to {
			continue
		}
		allowed, declared := rules.Allowed[from]
		if !declared {
			continue
		}
		if containsLayer(allowed, to) {
			continue
		}
		violations = append(violations, Violation{
			From:      e.From,
			To:        e.To,
			FromLayer: from,
			ToLayer:   to,
			Rule:      fmt.Sprintf("%s may not depend on %s", from, to),
		})
	}
	return violations
}

func containsLayer(layers []string, layer string) bool {
	for _, l := range layers {
		if l == layer {
			return true
		}
	}
	return false
}
