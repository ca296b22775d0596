package compiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/lhaig/jswitch/internal/codegen"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		base   string
		format codegen.Format
		want   string
	}{
		{"out", codegen.FormatText, "out.txt"},
		{"out", codegen.FormatJSON, "out.json"},
		{"out", codegen.FormatYAML, "out.yaml"},
		{"out.json", codegen.FormatJSON, "out.json"},
		{"out.JSON", codegen.FormatJSON, "out.JSON"},
		{"out.json", codegen.FormatYAML, "out.json.yaml"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.base, tt.format); got != tt.want {
			t.Errorf("OutputPath(%q, %s) = %q, want %q", tt.base, tt.format, got, tt.want)
		}
	}
}

func TestEmitDumpYAML(t *testing.T) {
	tmpDir := t.TempDir()
	writeJavaFile(t, tmpDir, "src/Day.java", daySource)
	writeJavaFile(t, tmpDir, "src/Use.java", useSource)

	outPath, _, err := EmitDump([]string{filepath.Join(tmpDir, "src")},
		filepath.Join(tmpDir, "out", "switches"), codegen.FormatYAML)
	if err != nil {
		t.Fatalf("EmitDump failed: %v", err)
	}
	if filepath.Base(outPath) != "switches.yaml" {
		t.Errorf("Expected switches.yaml, got %s", outPath)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	var units []map[string]interface{}
	if err := yaml.Unmarshal(content, &units); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(units) != 2 {
		t.Errorf("Expected 2 units, got %d", len(units))
	}
	if !strings.Contains(string(content), "dispatch: tableswitch") {
		t.Errorf("Expected a tableswitch dispatch, got:\n%s", content)
	}
}

func TestEmitDumpCompileErrors(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeJavaFile(t, tmpDir, "A.java", "class A { void f(int x) { switch (x) { case 1: case 1: break; } } }")
	base := filepath.Join(tmpDir, "out")

	_, res, err := EmitDump([]string{path}, base, codegen.FormatText)
	if err == nil {
		t.Fatal("Expected compilation errors")
	}
	if res == nil || !res.Diagnostics.HasErrors() {
		t.Error("Expected the result to carry the diagnostics")
	}
	if _, statErr := os.Stat(base + ".txt"); !os.IsNotExist(statErr) {
		t.Error("Expected no output file on compile errors")
	}
}
