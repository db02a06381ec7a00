package archgraph

import (
	"strings"
	"testing"
)

func TestRender_Mermaid(t *testing.T) {
	g := mustBuild(t, mods("src/a", "src/b"), []Edge{edge("src/a", "src/b")})

	out := Render(g, FormatMermaid, 0)
	if !strings.HasPrefix(out, "graph LR\n") {
		t.Errorf("expected mermaid header, got %q", out)
	}
	if !strings.Contains(out, `src_a["src/a"]`) {
		t.Errorf("expected sanitized node with original label, got %q", out)
	}
	if !strings.Contains(out, "src_a --> src_b") {
		t.Errorf("expected edge line, got %q", out)
	}
}

func TestRender_DOT(t *testing.T) {
	g := mustBuild(t, mods("src/a", "src/b"), []Edge{edge("src/a", "src/b")})

	out := Render(g, FormatDOT, 0)
	if !strings.HasPrefix(out, "digraph dependencies {") {
		t.Errorf("expected dot header, got %q", out)
	}
	if !strings.Contains(out, "src_a -> src_b;") {
		t.Errorf("expected edge line, got %q", out)
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("expected closing brace, got %q", out)
	}
}

func TestRender_EdgeBound(t *testing.T) {
	modules := mods("a", "b", "c", "d")
	edges := []Edge{
		edge("a", "b"), edge("b", "c"), edge("c", "d"), edge("d", "a"),
	}
	g := mustBuild(t, modules, edges)

	out := Render(g, FormatMermaid, 2)
	count := strings.Count(out, "-->")
	if count != 2 {
		t.Errorf("expected 2 edge entries, got %d:\n%s", count, out)
	}
	// The first two edges in insertion order survive truncation.
	if !strings.Contains(out, "a --> b") || !strings.Contains(out, "b --> c") {
		t.Errorf("expected first edges kept, got %q", out)
	}
}

func TestRender_SanitizesIdentifiers(t *testing.T) {
	g := mustBuild(t, mods("pkg/näme-1.go"), nil)

	out := Render(g, FormatMermaid, 0)
	if !strings.Contains(out, "pkg_n_me_1_go[") {
		t.Errorf("expected sanitized identifier, got %q", out)
	}
}

func TestRender_UnknownFormatFallsBackToMermaid(t *testing.T) {
	g := mustBuild(t, mods("a"), nil)
	out := Render(g, DiagramFormat("bogus"), 0)
	if !strings.HasPrefix(out, "graph LR\n") {
		t.Errorf("expected mermaid fallback, got %q", out)
	}
}

func TestRender_EmptyGraph(t *testing.T) {
	g := mustBuild(t, nil, nil)
	if out := Render(g, FormatMermaid, 0); out != "graph LR\n" {
		t.Errorf("expected bare header, got %q", out)
	}
}

func TestSanitizeID(t *testing.T) {
	if got := sanitizeID("src/ui-kit.v2"); got != "src_ui_kit_v2" {
		t.Errorf("sanitizeID = %q", got)
	}
}
