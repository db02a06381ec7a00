package scanner

import (
	"path"
	"regexp"
	"strings"
)

var (
	goSingleImportRE = regexp.MustCompile(`^import\s+(?:[\w.]+\s+)?"([^"]+)"`)
	goBlockImportRE  = regexp.MustCompile(`^(?:[\w.]+\s+)?"([^"]+)"`)

	jsImportRE  = regexp.MustCompile(`(?:import|export)\s+(?:[^'"]*?\s+from\s+)?['"]([^'"]+)['"]`)
	jsRequireRE = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)

	pyImportRE = regexp.MustCompile(`^import\s+([\w.]+)`)
	pyFromRE   = regexp.MustCompile(`^from\s+([\w.]+)\s+import\s+(.+)`)
)

// importSpec is one raw import statement. names is populated only for Python
// from-imports, where the imported names may be submodules of the package.
type importSpec struct {
	path  string
	names []string
}

// extractImports pulls raw import specifiers out of a source file with
// line-oriented matching; no parsing or type resolution happens here.
func extractImports(f sourceFile) []importSpec {
	var specs []importSpec
	inGoBlock := false

	for _, line := range strings.Split(string(f.content), "\n") {
		line = strings.TrimSpace(line)

		switch f.lang {
		case "go":
			if inGoBlock {
				if line == ")" {
					inGoBlock = false
					continue
				}
				if m := goBlockImportRE.FindStringSubmatch(line); m != nil {
					specs = append(specs, importSpec{path: m[1]})
				}
				continue
			}
			if strings.HasPrefix(line, "import (") {
				inGoBlock = true
				continue
			}
			if m := goSingleImportRE.FindStringSubmatch(line); m != nil {
				specs = append(specs, importSpec{path: m[1]})
			}

		case "javascript", "typescript":
			for _, m := range jsImportRE.FindAllStringSubmatch(line, -1) {
				specs = append(specs, importSpec{path: m[1]})
			}
			for _, m := range jsRequireRE.FindAllStringSubmatch(line, -1) {
				specs = append(specs, importSpec{path: m[1]})
			}

		case "python":
			if m := pyFromRE.FindStringSubmatch(line); m != nil {
				specs = append(specs, importSpec{path: m[1], names: importedNames(m[2])})
			} else if m := pyImportRE.FindStringSubmatch(line); m != nil {
				specs = append(specs, importSpec{path: m[1]})
			}
		}
	}

	return specs
}

// importedNames parses the name list of a Python from-import, dropping
// aliases and comments.
func importedNames(list string) []string {
	if i := strings.Index(list, "#"); i >= 0 {
		list = list[:i]
	}
	var names []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if i := strings.Index(part, " as "); i >= 0 {
			part = part[:i]
		}
		part = strings.Trim(part, "()")
		part = strings.TrimSpace(part)
		if part != "" && part != "*" {
			names = append(names, part)
		}
	}
	return names
}

// resolveImport maps a raw import specifier to a scanned module identifier.
// Specifiers that resolve to nothing in the scan set are external packages
// and are dropped by the caller.
func resolveImport(f sourceFile, spec importSpec, goModule string, known map[string]bool) (string, bool) {
	switch f.lang {
	case "go":
		if goModule == "" {
			return "", false
		}
		if spec.path == goModule {
			return pickKnown(known, ".")
		}
		if rest, ok := strings.CutPrefix(spec.path, goModule+"/"); ok {
			return pickKnown(known, rest)
		}
		return "", false

	case "javascript", "typescript":
		if !strings.HasPrefix(spec.path, ".") {
			return "", false
		}
		dir := path.Dir(f.relPath)
		resolved := path.Clean(path.Join(dir, spec.path))
		resolved = strings.TrimSuffix(resolved, path.Ext(resolved))
		return pickKnown(known, resolved, resolved+"/index")

	case "python":
		target := pythonTarget(f, spec.path)
		var candidates []string
		for _, name := range spec.names {
			candidates = append(candidates, path.Join(target, name))
		}
		candidates = append(candidates, target, target+"/__init__")
		return pickKnown(known, candidates...)
	}

	return "", false
}

// pythonTarget resolves a dotted Python module path to a repo-relative path.
// Leading dots climb from the importing file's package.
func pythonTarget(f sourceFile, dotted string) string {
	if !strings.HasPrefix(dotted, ".") {
		return strings.ReplaceAll(dotted, ".", "/")
	}
	dir := path.Dir(f.relPath)
	rest := strings.TrimLeft(dotted, ".")
	for i := 1; i < len(dotted)-len(rest); i++ {
		dir = path.Dir(dir)
	}
	if rest == "" {
		return dir
	}
	return path.Join(dir, strings.ReplaceAll(rest, ".", "/"))
}

func pickKnown(known map[string]bool, candidates ...string) (string, bool) {
	for _, c := range candidates {
		if known[c] {
			return c, true
		}
	}
	return "", false
}
