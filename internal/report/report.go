// Package report renders analysis results for humans and machines.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/archlens/archlens/internal/archgraph"
)

// FormatText returns a human-readable summary of an analysis result.
func FormatText(r *archgraph.Result) string {
	var b strings.Builder
	b.WriteString("Architecture Analysis\n")
	b.WriteString("=====================\n\n")
	b.WriteString(fmt.Sprintf("Modules:  %d\n", r.Summary.ModuleCount))
	b.WriteString(fmt.Sprintf("Edges:    %d\n", r.Summary.EdgeCount))
	b.WriteString(fmt.Sprintf("Coupling: %.1f / 100 (lower is better)\n", r.Metrics.Coupling))
	b.WriteString(fmt.Sprintf("Cohesion: %.1f / 100 (higher is better)\n", r.Metrics.Cohesion))

	if len(r.Cycles) > 0 {
		b.WriteString(fmt.Sprintf("\nCircular Dependencies: %d\n", len(r.Cycles)))
		for i, cycle := range r.Cycles {
			b.WriteString(fmt.Sprintf("  %d: %s\n", i+1, strings.Join(cycle.Members, " -> ")))
		}
	} else {
		b.WriteString("\nNo circular dependencies found.\n")
	}

	if len(r.Violations) > 0 {
		b.WriteString(fmt.Sprintf("\nLayer Violations: %d\n", len(r.Violations)))
		for _, v := range r.Violations {
			b.WriteString(fmt.Sprintf("  %s -> %s (%s)\n", v.From, v.To, v.Rule))
		}
	} else {
		b.WriteString("\nNo layer violations found.\n")
	}

	if r.Diagram != "" {
		b.WriteString("\nDependency Diagram\n")
		b.WriteString("------------------\n")
		b.WriteString(r.Diagram)
	}

	return b.String()
}

// ExportJSON serializes an analysis result to indented JSON.
func ExportJSON(r *archgraph.Result) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
