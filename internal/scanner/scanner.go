// Package scanner walks a project tree and extracts modules and raw import
// edges for the analysis engine. All file-system I/O of an analysis lives
// here; the engine itself is pure.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/archlens/archlens/internal/archgraph"
)

// Scanner discovers source modules under a root directory.
type Scanner struct {
	// MaxDepth bounds directory recursion relative to the root; 0 means
	// unlimited.
	MaxDepth int
}

// skippedDirs are never descended into.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"__pycache__":  true,
}

type sourceFile struct {
	relPath string // repo-relative, forward slashes
	lang    string
	content []byte
}

// Scan walks root and returns the module list and raw dependency edges of
// every recognized source file. Module identifiers are repo-relative paths
// without extension (Go modules use the package directory). Imports that do
// not resolve to a scanned module are treated as external and dropped.
func (s *Scanner) Scan(ctx context.Context, root string) ([]archgraph.Module, []archgraph.Edge, error) {
	root = filepath.Clean(root)

	goModule := readGoModulePath(filepath.Join(root, "go.mod"))

	var files []sourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || skippedDirs[name] {
				return filepath.SkipDir
			}
			if s.MaxDepth > 0 && strings.Count(rel, "/")+1 >= s.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		lang := languageOf(rel)
		if lang == "" {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("read %s: %w", rel, readErr)
		}
		files = append(files, sourceFile{relPath: rel, lang: lang, content: content})
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", root, err)
	}

	// First pass: register every module so imports can be resolved against
	// the full set.
	var modules []archgraph.Module
	known := make(map[string]bool)
	for _, f := range files {
		id := moduleID(f)
		if known[id] {
			continue
		}
		known[id] = true
		modules = append(modules, archgraph.Module{
			ID: id,
			Metadata: map[string]string{
				"language": f.lang,
				"lines":    strconv.Itoa(strings.Count(string(f.content), "\n") + 1),
			},
		})
	}

	// Second pass: extract and resolve imports.
	var edges []archgraph.Edge
	for _, f := range files {
		from := moduleID(f)
		for _, spec := range extractImports(f) {
			to, ok := resolveImport(f, spec, goModule, known)
			if !ok {
				continue
			}
			if to == from {
				continue // a file importing its own package
			}
			edges = append(edges, archgraph.Edge{From: from, To: to})
		}
	}

	return modules, edges, nil
}

func languageOf(relPath string) string {
	switch strings.ToLower(filepath.Ext(relPath)) {
	case ".go":
		return "go"
	case ".js", ".jsx", ".mjs":
		return "javascript"
	case ".ts", ".tsx":
		return "typescript"
	case ".py":
		return "python"
	default:
		return ""
	}
}

// moduleID derives the module identifier of a source file. Go files collapse
// into their package directory; other languages are file-granular.
func moduleID(f sourceFile) string {
	if f.lang == "go" {
		dir := strings.TrimSuffix(f.relPath, "/"+baseName(f.relPath))
		if dir == f.relPath { // file at root
			return "."
		}
		return dir
	}
	return strings.TrimSuffix(f.relPath, filepath.Ext(f.relPath))
}

func baseName(relPath string) string {
	if i := strings.LastIndex(relPath, "/"); i >= 0 {
		return relPath[i+1:]
	}
	return relPath
}

// readGoModulePath returns the module directive of a go.mod file, or "".
func readGoModulePath(path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "module "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
