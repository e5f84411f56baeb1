package parser

import (
	"os"
	"path/filepath"
	"testing"
)

func writeEmpty(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestModuleName(t *testing.T) {
	root := t.TempDir()
	writeEmpty(t, filepath.Join(root, "pkg", "__init__.py"))
	writeEmpty(t, filepath.Join(root, "pkg", "colors.py"))
	writeEmpty(t, filepath.Join(root, "scripts", "run.py"))

	r := NewModuleResolver(root)

	if got := r.ModuleName(filepath.Join(root, "pkg", "colors.py")); got != "pkg.colors" {
		t.Errorf("expected pkg.colors, got %q", got)
	}
	if got := r.ModuleName(filepath.Join(root, "pkg", "__init__.py")); got != "pkg" {
		t.Errorf("expected pkg, got %q", got)
	}
	// scripts/ has no __init__.py, so only the file name contributes.
	if got := r.ModuleName(filepath.Join(root, "scripts", "run.py")); got != "run" {
		t.Errorf("expected run, got %q", got)
	}
}

func TestResolveImport(t *testing.T) {
	r := NewModuleResolver("/project")

	if got := r.ResolveImport("pkg.sub.mod", "colors", true, 1); got != "pkg.sub.colors" {
		t.Errorf("expected pkg.sub.colors, got %q", got)
	}
	if got := r.ResolveImport("pkg.sub.mod", "colors", true, 2); got != "pkg.colors" {
		t.Errorf("expected pkg.colors, got %q", got)
	}
	if got := r.ResolveImport("pkg.sub.mod", "", true, 1); got != "pkg.sub" {
		t.Errorf("expected pkg.sub, got %q", got)
	}
	if got := r.ResolveImport("pkg.mod", "other", false, 0); got != "other" {
		t.Errorf("absolute import must pass through, got %q", got)
	}
}
