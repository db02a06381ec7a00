package archgraph

import "strings"

// DefaultHighCouplingDegree is the average out-degree that maps to a coupling
// score of 100.
const DefaultHighCouplingDegree = 10

// ComputeMetrics derives the coupling and cohesion scores from a graph.
//
// Coupling is the average out-degree normalized against highCouplingDegree
// (<= 0 selects the default) and clamped to [0,100]; a graph with zero or one
// module has no meaningful coupling and scores 0. Cohesion is the percentage
// of edges whose endpoints share an enclosing package; with zero modules it
// is 0, and with zero edges the denominator is treated as 1.
func ComputeMetrics(g *Graph, highCouplingDegree int) Metrics {
	m := Metrics{
		ModuleCount: g.NodeCount(),
		EdgeCount:   g.EdgeCount(),
	}
	if highCouplingDegree <= 0 {
		highCouplingDegree = DefaultHighCouplingDegree
	}

	if m.ModuleCount > 1 {
		avgOut := float64(m.EdgeCount) / float64(m.ModuleCount)
		coupling := avgOut / float64(highCouplingDegree) * 100
		m.Coupling = clampScore(coupling)
	}

	if m.ModuleCount > 0 {
		total := m.EdgeCount
		if total == 0 {
			total = 1
		}
		same := 0
		for _, e := range g.edges {
			if packageOf(e.From) == packageOf(e.To) {
				same++
			}
		}
		m.Cohesion = clampScore(float64(same) / float64(total) * 100)
	}

	return m
}

// packageOf strips the last path segment of an identifier; top-level modules
// share the empty package.
func packageOf(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		return id[:i]
	}
	return ""
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
