package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/archlens/archlens/internal/archgraph"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func hasModule(modules []archgraph.Module, id string) bool {
	for _, m := range modules {
		if m.ID == id {
			return true
		}
	}
	return false
}

func hasEdge(edges []archgraph.Edge, from, to string) bool {
	for _, e := range edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

func TestScan_TypeScriptRelativeImports(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.ts", `
import { login } from './auth/login';
import axios from 'axios';
`)
	writeFile(t, root, "src/auth/login.ts", `
import { db } from '../db';
export function login() {}
`)
	writeFile(t, root, "src/db.ts", `export const db = {};`)

	var s Scanner
	modules, edges, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, id := range []string{"src/app", "src/auth/login", "src/db"} {
		if !hasModule(modules, id) {
			t.Errorf("expected module %q", id)
		}
	}
	if !hasEdge(edges, "src/app", "src/auth/login") {
		t.Error("expected edge src/app -> src/auth/login")
	}
	if !hasEdge(edges, "src/auth/login", "src/db") {
		t.Error("expected edge src/auth/login -> src/db")
	}
	// External packages are dropped.
	for _, e := range edges {
		if e.To == "axios" {
			t.Error("external import should not produce an edge")
		}
	}
}

func TestScan_IndexResolution(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.ts", `import { ui } from './ui';`)
	writeFile(t, root, "src/ui/index.ts", `export const ui = {};`)

	var s Scanner
	_, edges, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasEdge(edges, "src/app", "src/ui/index") {
		t.Errorf("expected edge to index module, got %v", edges)
	}
}

func TestScan_GoPackages(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "go.mod", "module example.com/proj\n\ngo 1.24\n")
	writeFile(t, root, "internal/api/server.go", `package api

import (
	"fmt"

	"example.com/proj/internal/store"
)

var _ = fmt.Sprintf
var _ = store.Open
`)
	writeFile(t, root, "internal/store/store.go", `package store

func Open() {}
`)

	var s Scanner
	modules, edges, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !hasModule(modules, "internal/api") || !hasModule(modules, "internal/store") {
		t.Fatalf("expected package-level modules, got %v", modules)
	}
	if !hasEdge(edges, "internal/api", "internal/store") {
		t.Errorf("expected edge internal/api -> internal/store, got %v", edges)
	}
	// Stdlib imports are dropped.
	for _, e := range edges {
		if e.To == "fmt" {
			t.Error("stdlib import should not produce an edge")
		}
	}
}

func TestScan_PythonImports(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app/main.py", `
import os
from app.models import user
from . import views
`)
	writeFile(t, root, "app/models/user.py", `class User: pass`)
	writeFile(t, root, "app/views.py", `def index(): pass`)
	writeFile(t, root, "app/__init__.py", ``)

	var s Scanner
	_, edges, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !hasEdge(edges, "app/main", "app/models/user") {
		t.Errorf("expected edge app/main -> app/models/user, got %v", edges)
	}
	if !hasEdge(edges, "app/main", "app/views") {
		t.Errorf("expected relative import edge to sibling module, got %v", edges)
	}
	for _, e := range edges {
		if e.To == "os" {
			t.Error("stdlib import should not produce an edge")
		}
	}
}

func TestScan_MaxDepth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "shallow.ts", `export const a = 1;`)
	writeFile(t, root, "deep/nested/far.ts", `export const b = 2;`)

	s := Scanner{MaxDepth: 1}
	modules, _, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasModule(modules, "shallow") {
		t.Error("expected root-level module")
	}
	if hasModule(modules, "deep/nested/far") {
		t.Error("expected deep module to be skipped")
	}
}

func TestScan_SkipsNodeModules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.ts", `export const a = 1;`)
	writeFile(t, root, "node_modules/lib/index.ts", `export const b = 2;`)

	var s Scanner
	modules, _, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hasModule(modules, "node_modules/lib/index") {
		t.Error("expected node_modules to be skipped")
	}
}

func TestScan_ModuleMetadata(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.ts", "const a = 1;\nconst b = 2;\n")

	var s Scanner
	modules, _, err := s.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(modules) != 1 {
		t.Fatalf("expected 1 module, got %d", len(modules))
	}
	if modules[0].Metadata["language"] != "typescript" {
		t.Errorf("expected typescript metadata, got %v", modules[0].Metadata)
	}
	if modules[0].Metadata["lines"] == "" {
		t.Error("expected line count metadata")
	}
}
