package archgraph

import "testing"

func mods(ids ...string) []Module {
	out := make([]Module, 0, len(ids))
	for _, id := range ids {
		out = append(out, Module{ID: id})
	}
	return out
}

func edge(from, to string) Edge { return Edge{From: from, To: to} }

func TestBuild_EveryModuleBecomesNode(t *testing.T) {
	g, err := Build(mods("a", "b", "c"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.NodeCount() != 3 {
		t.Fatalf("expected 3 nodes, got %d", g.NodeCount())
	}
	for _, id := range []string{"a", "b", "c"} {
		if _, ok := g.Module(id); !ok {
			t.Errorf("expected node %q in graph", id)
		}
		if len(g.Deps(id)) != 0 {
			t.Errorf("expected node %q to have no out-edges", id)
		}
	}
}

func TestBuild_DanglingEdgeMaterializesNode(t *testing.T) {
	g, err := Build(mods("a"), []Edge{edge("a", "ghost"), edge("phantom", "a")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.NodeCount() != 3 {
		t.Fatalf("expected 3 nodes, got %d", g.NodeCount())
	}
	ghost, ok := g.Module("ghost")
	if !ok {
		t.Fatal("expected materialized node 'ghost'")
	}
	if ghost.Metadata != nil || ghost.Layer != "" {
		t.Error("materialized node should carry no metadata")
	}
}

func TestBuild_DuplicateEdgesCollapse(t *testing.T) {
	g, err := Build(mods("a", "b"), []Edge{edge("a", "b"), edge("a", "b"), edge("a", "b")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("expected 1 edge after dedup, got %d", g.EdgeCount())
	}
	if len(g.Deps("a")) != 1 {
		t.Errorf("expected 1 out-edge for a, got %d", len(g.Deps("a")))
	}
}

func TestBuild_SelfEdgeAccepted(t *testing.T) {
	g, err := Build(mods("a"), []Edge{edge("a", "a")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.hasSelfEdge("a") {
		t.Error("expected self-edge on a")
	}
}

func TestBuild_PreservesInsertionOrder(t *testing.T) {
	g, err := Build(mods("z", "m", "a"), []Edge{
		edge("z", "a"),
		edge("z", "m"),
		edge("m", "a"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantNodes := []string{"z", "m", "a"}
	for i, id := range g.Nodes() {
		if id != wantNodes[i] {
			t.Errorf("node %d: expected %q, got %q", i, wantNodes[i], id)
		}
	}

	wantDeps := []string{"a", "m"}
	for i, to := range g.Deps("z") {
		if to != wantDeps[i] {
			t.Errorf("dep %d of z: expected %q, got %q", i, wantDeps[i], to)
		}
	}

	wantEdges := []Edge{edge("z", "a"), edge("z", "m"), edge("m", "a")}
	for i, e := range g.Edges() {
		if e != wantEdges[i] {
			t.Errorf("edge %d: expected %v, got %v", i, wantEdges[i], e)
		}
	}
}

func TestBuild_FirstModuleDeclarationWins(t *testing.T) {
	g, err := Build([]Module{
		{ID: "a", Layer: "ui"},
		{ID: "a", Layer: "domain"},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, _ := g.Module("a")
	if m.Layer != "ui" {
		t.Errorf("expected first declaration to win, got layer %q", m.Layer)
	}
}

func TestBuild_EmptyModuleID(t *testing.T) {
	_, err := Build([]Module{{ID: ""}}, nil)
	if err == nil {
		t.Fatal("expected validation error for empty module id")
	}
}

func TestBuild_EmptyEdgeEndpoints(t *testing.T) {
	if _, err := Build(mods("a"), []Edge{edge("", "a")}); err == nil {
		t.Error("expected validation error for empty from")
	}
	if _, err := Build(mods("a"), []Edge{edge("a", "")}); err == nil {
		t.Error("expected validation error for empty to")
	}
}

func TestBuild_MetadataCarriedThrough(t *testing.T) {
	g, err := Build([]Module{
		{ID: "a", Metadata: map[string]string{"lines": "120"}},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, _ := g.Module("a")
	if m.Metadata["lines"] != "120" {
		t.Errorf("expected metadata carried through, got %v", m.Metadata)
	}
}
