package parser

import (
	"os"
	"path/filepath"
	"strings"
)

// ModuleResolver maps file paths to dotted Python module names relative to a
// project root, honoring package boundaries (__init__.py chains).
type ModuleResolver struct {
	projectRoot string
}

func NewModuleResolver(projectRoot string) *ModuleResolver {
	return &ModuleResolver{projectRoot: projectRoot}
}

func (r *ModuleResolver) ModuleName(filePath string) string {
	rel, err := filepath.Rel(r.projectRoot, filePath)
	if err != nil {
		return ""
	}

	parts := strings.Split(rel, string(os.PathSeparator))

	// Remove non-package prefixes (dirs without __init__.py)
	packageStart := 0
	for i := 0; i < len(parts)-1; i++ {
		checkPath := filepath.Join(r.projectRoot, filepath.Join(parts[:i+1]...), "__init__.py")
		if _, err := os.Stat(checkPath); os.IsNotExist(err) {
			packageStart = i + 1
		} else {
			break // Found first package
		}
	}

	parts = parts[packageStart:]

	parts[len(parts)-1] = strings.TrimSuffix(parts[len(parts)-1], ".py")

	if parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}

	return strings.Join(parts, ".")
}

// ResolveImport turns a relative import into an absolute module path from the
// perspective of fromModule.
func (r *ModuleResolver) ResolveImport(fromModule, importStmt string, isRelative bool, relativeLevel int) string {
	if !isRelative {
		return importStmt
	}

	parts := strings.Split(fromModule, ".")
	if relativeLevel >= len(parts) {
		return importStmt
	}

	base := strings.Join(parts[:len(parts)-relativeLevel], ".")
	if importStmt == "" {
		return base
	}
	return base + "." + importStmt
}
