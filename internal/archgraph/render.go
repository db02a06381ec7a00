package archgraph

import (
	"fmt"
	"strings"
)

// DiagramFormat selects the diagram description syntax.
type DiagramFormat string

const (
	FormatMermaid DiagramFormat = "mermaid"
	FormatDOT     DiagramFormat = "dot"
)

// DefaultMaxGraphEdges bounds rendered edge entries when no limit is
// configured.
const DefaultMaxGraphEdges = 200

// Render serializes the graph into a diagram description: one line per node,
// one line per edge. Edges beyond maxEdges (<= 0 selects the default) are
// silently truncated, and identifiers are sanitized to satisfy the target
// syntax. Rendering never mutates the graph and cannot fail on a well-formed
// graph; unknown formats fall back to Mermaid.
func Render(g *Graph, format DiagramFormat, maxEdges int) string {
	if maxEdges <= 0 {
		maxEdges = DefaultMaxGraphEdges
	}
	if format == FormatDOT {
		return renderDOT(g, maxEdges)
	}
	return renderMermaid(g, maxEdges)
}

func renderMermaid(g *Graph, maxEdges int) string {
	var b strings.Builder
	b.WriteString("graph LR\n")

	for _, id := range g.order {
		b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", sanitizeID(id), id))
	}

	for i, e := range g.edges {
		if i >= maxEdges {
			break
		}
		b.WriteString(fmt.Sprintf("  %s --> %s\n", sanitizeID(e.From), sanitizeID(e.To)))
	}

	return b.String()
}

func renderDOT(g *Graph, maxEdges int) string {
	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [fontname=\"Helvetica\" shape=box];\n\n")

	for _, id := range g.order {
		b.WriteString(fmt.Sprintf("  %s [label=\"%s\"];\n", sanitizeID(id), id))
	}
	b.WriteString("\n")

	for i, e := range g.edges {
		if i >= maxEdges {
			break
		}
		b.WriteString(fmt.Sprintf("  %s -> %s;\n", sanitizeID(e.From), sanitizeID(e.To)))
	}

	b.WriteString("}\n")
	return b.String()
}

// sanitizeID replaces every character outside [A-Za-z0-9_] so identifiers are
// valid in both Mermaid and DOT.
func sanitizeID(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, s)
}
