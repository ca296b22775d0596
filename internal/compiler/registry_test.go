package compiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lhaig/jswitch/internal/parser"
)

// writeJavaFile creates a file with the given content in the specified directory.
func writeJavaFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	// Ensure subdirectory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestRegistrySingleFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeJavaFile(t, tmpDir, "Day.java", daySource)

	reg := NewSourceRegistry(parser.DefaultSourceLevel)
	if err := reg.AddPath(path); err != nil {
		t.Fatalf("AddPath: %v", err)
	}
	if reg.Diagnostics().HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", reg.Diagnostics().Format("test"))
	}

	if len(reg.Units()) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(reg.Units()))
	}
	unit := reg.GetUnit(path)
	if unit == nil {
		t.Fatal("GetUnit returned nil for added path")
	}
	if unit.File != path {
		t.Errorf("expected unit file %q, got %q", path, unit.File)
	}
	if len(unit.Types) != 1 || unit.Types[0].TypeName() != "Day" {
		t.Errorf("expected enum Day, got %+v", unit.Types)
	}
}

func TestRegistryDirectoryOrder(t *testing.T) {
	tmpDir := t.TempDir()
	writeJavaFile(t, tmpDir, "b/Second.java", "class Second {}")
	writeJavaFile(t, tmpDir, "a/First.java", "class First {}")
	writeJavaFile(t, tmpDir, "Root.java", "class Root {}")
	writeJavaFile(t, tmpDir, "notes.txt", "not java")

	reg := NewSourceRegistry(parser.DefaultSourceLevel)
	if err := reg.AddPath(tmpDir); err != nil {
		t.Fatalf("AddPath: %v", err)
	}

	var got []string
	for _, f := range reg.Files() {
		rel, _ := filepath.Rel(tmpDir, f)
		got = append(got, filepath.ToSlash(rel))
	}
	want := []string{"Root.java", "a/First.java", "b/Second.java"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("expected files %v, got %v", want, got)
	}
}

func TestRegistryDeduplicates(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeJavaFile(t, tmpDir, "A.java", "class A {}")

	reg := NewSourceRegistry(parser.DefaultSourceLevel)
	for _, p := range []string{path, tmpDir, filepath.Join(tmpDir, ".", "A.java")} {
		if err := reg.AddPath(p); err != nil {
			t.Fatalf("AddPath(%s): %v", p, err)
		}
	}
	if len(reg.Units()) != 1 {
		t.Errorf("expected 1 unit after adding the same file three times, got %d", len(reg.Units()))
	}
}

func TestRegistryParseErrorsCarryFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeJavaFile(t, tmpDir, "Bad.java", "class Bad { int f( { }")

	reg := NewSourceRegistry(parser.DefaultSourceLevel)
	if err := reg.AddPath(path); err != nil {
		t.Fatalf("AddPath must not fail on syntax errors: %v", err)
	}
	errs := reg.Diagnostics().Errors()
	if len(errs) == 0 {
		t.Fatal("expected parse errors")
	}
	for _, e := range errs {
		if e.File != path {
			t.Errorf("expected error file %q, got %q", path, e.File)
		}
	}
}

func TestRegistrySourceLevel(t *testing.T) {
	source := "class A { int record; }"

	reg := NewSourceRegistry(8)
	reg.AddSource("A.java", source)
	if reg.Diagnostics().HasErrors() {
		t.Errorf("record is an ordinary name at level 8, got:\n%s", reg.Diagnostics().Format("test"))
	}
	if reg.GetUnit("A.java") == nil {
		t.Error("GetUnit returned nil for in-memory source")
	}
}

func TestRegistryErrors(t *testing.T) {
	tmpDir := t.TempDir()
	empty := filepath.Join(tmpDir, "empty")
	if err := os.MkdirAll(empty, 0755); err != nil {
		t.Fatal(err)
	}

	reg := NewSourceRegistry(parser.DefaultSourceLevel)
	if err := reg.AddPath(filepath.Join(tmpDir, "Missing.java")); err == nil {
		t.Error("expected an error for a missing file")
	}
	err := reg.AddPath(empty)
	if err == nil || !strings.Contains(err.Error(), "no .java files") {
		t.Errorf("expected a no-sources error, got %v", err)
	}
}
