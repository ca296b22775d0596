package linter

import (
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc"

	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/diagnostic"
	"github.com/lhaig/jswitch/internal/parser"
)

func parseAndLint(t *testing.T, source string) []string {
	t.Helper()
	return messages(lintSource(t, source).All())
}

func lintSource(t *testing.T, source string) *diagnostic.Diagnostics {
	t.Helper()
	p := parser.New(source)
	unit := p.Parse()

	if p.Diagnostics().HasErrors() {
		t.Fatalf("Parser errors: %s", p.Diagnostics().Format("test"))
	}
	return Lint(unit)
}

func messages(diags []diagnostic.Diagnostic) []string {
	var warnings []string
	for _, d := range diags {
		warnings = append(warnings, d.Message)
	}
	return warnings
}

func containsWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

const dayEnum = "enum Day { MONDAY, TUESDAY, WEDNESDAY }\n"

// --- Empty method body ---

func TestEmptyMethodBody(t *testing.T) {
	warnings := parseAndLint(t, "class A { void noop() {} }")
	if !containsWarning(warnings, "method 'A.noop' has an empty body") {
		t.Errorf("Expected empty body warning, got: %v", warnings)
	}
}

func TestAbstractMethodNoEmptyBodyWarning(t *testing.T) {
	warnings := parseAndLint(t, "interface Shape { int area(); }")
	if containsWarning(warnings, "empty body") {
		t.Errorf("Did not expect empty body warning, got: %v", warnings)
	}
}

// --- Restricted identifiers ---

func TestRestrictedIdentifierNames(t *testing.T) {
	source := heredoc.Doc(`
		class A {
			int permits;
			int sealed(int when) {
				int record = when;
				return record + permits;
			}
		}
	`)
	diags := lintSource(t, source).WithCode(diagnostic.LintRestrictedIdentifier)
	warnings := messages(diags)
	for _, want := range []string{
		"field 'permits'",
		"method 'sealed'",
		"parameter 'when'",
		"variable 'record'",
	} {
		if !containsWarning(warnings, want) {
			t.Errorf("Expected restricted identifier warning for %s, got: %v", want, warnings)
		}
	}
	if len(diags) != 4 {
		t.Errorf("Expected 4 restricted identifier warnings, got %d: %v", len(diags), warnings)
	}
	for _, d := range diags {
		if d.Hint == "" {
			t.Errorf("Expected a hint on %q", d.Message)
		}
	}
}

func TestOrdinaryNamesNotRestricted(t *testing.T) {
	source := "class A { int yielded; int f(int whenever) { int records = whenever; return records + yielded; } }"
	diags := lintSource(t, source).WithCode(diagnostic.LintRestrictedIdentifier)
	if len(diags) != 0 {
		t.Errorf("Did not expect restricted identifier warnings, got: %v", messages(diags))
	}
}

// --- Missing enum cases ---

func TestMissingEnumCase(t *testing.T) {
	source := dayEnum + heredoc.Doc(`
		class A {
			int f(Day d) {
				switch (d) {
					case MONDAY:
						return 1;
				}
				return 0;
			}
		}
	`)
	diags := lintSource(t, source).WithCode(diagnostic.LintMissingEnumCase)
	if len(diags) != 1 {
		t.Fatalf("Expected 1 missing case warning, got %d: %v", len(diags), messages(diags))
	}
	if want := "switch on Day does not handle TUESDAY, WEDNESDAY"; diags[0].Message != want {
		t.Errorf("message = %q, want %q", diags[0].Message, want)
	}
	if diags[0].Line != 4 {
		t.Errorf("Expected warning on line 4, got %d", diags[0].Line)
	}
}

func TestMissingEnumCaseNotReported(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"all constants", "switch (d) { case MONDAY, TUESDAY -> {} case WEDNESDAY -> {} }"},
		{"default label", "switch (d) { case MONDAY: break; default: break; }"},
		{"int selector", "switch (1) { case 1: break; }"},
		{"unknown names", "switch (d) { case FRIDAY: break; }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := dayEnum + "class A { void f(Day d) { " + tt.body + " } }"
			diags := lintSource(t, source).WithCode(diagnostic.LintMissingEnumCase)
			if len(diags) != 0 {
				t.Errorf("Did not expect missing case warning, got: %v", messages(diags))
			}
		})
	}
}

func TestMissingEnumCaseAcrossUnits(t *testing.T) {
	enumUnit := parser.New(dayEnum, parser.WithFile("Day.java")).Parse()
	useUnit := parser.New("class A { void f(Day d) { switch (d) { case TUESDAY: break; } } }",
		parser.WithFile("A.java")).Parse()

	diags := LintAll([]*ast.CompilationUnit{enumUnit, useUnit}).WithCode(diagnostic.LintMissingEnumCase)
	if len(diags) != 1 {
		t.Fatalf("Expected 1 missing case warning, got %d", len(diags))
	}
	if diags[0].File != "A.java" {
		t.Errorf("Expected warning in A.java, got %q", diags[0].File)
	}
}

// --- Fallthrough ---

func TestFallthrough(t *testing.T) {
	source := heredoc.Doc(`
		class A {
			int f(int x) {
				int y = 0;
				switch (x) {
					case 1:
						y = 1;
					case 2:
						y = 2;
						break;
					case 3:
					case 4:
						return y;
					case 5:
						if (y > 0) {
							return 1;
						} else {
							return 2;
						}
					default:
						y = 3;
				}
				return y;
			}
		}
	`)
	diags := lintSource(t, source).WithCode(diagnostic.LintFallthrough)
	if len(diags) != 1 {
		t.Fatalf("Expected 1 fallthrough warning, got %d: %v", len(diags), messages(diags))
	}
	if want := "control falls through to case 2"; diags[0].Message != want {
		t.Errorf("message = %q, want %q", diags[0].Message, want)
	}
	if diags[0].Line != 7 {
		t.Errorf("Expected warning on line 7, got %d", diags[0].Line)
	}
}

func TestFallthroughInSwitchExpression(t *testing.T) {
	source := heredoc.Doc(`
		class A {
			int f(int x) {
				return switch (x) {
					case 1:
						x = 2;
					default:
						yield x;
				};
			}
		}
	`)
	warnings := messages(lintSource(t, source).WithCode(diagnostic.LintFallthrough))
	if !containsWarning(warnings, "falls through to default") {
		t.Errorf("Expected fallthrough into default, got: %v", warnings)
	}
}

func TestArrowLabelsNeverFallThrough(t *testing.T) {
	source := "class A { void f(int x) { switch (x) { case 1 -> x = 2; case 2 -> { x = 3; } default -> x = 4; } } }"
	diags := lintSource(t, source).WithCode(diagnostic.LintFallthrough)
	if len(diags) != 0 {
		t.Errorf("Did not expect fallthrough warnings, got: %v", messages(diags))
	}
}

// --- Unused variables ---

func TestUnusedVariable(t *testing.T) {
	source := "class A { int f() { int unused = 1; int used = 2; return used; } }"
	warnings := parseAndLint(t, source)
	if !containsWarning(warnings, "variable 'unused' is declared but never used") {
		t.Errorf("Expected unused variable warning, got: %v", warnings)
	}
	if containsWarning(warnings, "'used' is declared") {
		t.Errorf("Did not expect warning for 'used', got: %v", warnings)
	}
}

func TestAssignedOnlyVariableIsUnused(t *testing.T) {
	source := "class A { void f() { int x = 1; x = 2; } }"
	warnings := parseAndLint(t, source)
	if !containsWarning(warnings, "variable 'x' is declared but never used") {
		t.Errorf("Expected unused variable warning, got: %v", warnings)
	}
}

// --- Naming conventions ---

func TestNamingConventions(t *testing.T) {
	source := "class bad_type { void DoIt() { return; } }\nenum Color { red, GREEN_2 }"
	warnings := parseAndLint(t, source)

	if !containsWarning(warnings, "type 'bad_type' should use PascalCase") {
		t.Errorf("Expected type naming warning, got: %v", warnings)
	}
	if !containsWarning(warnings, "method 'DoIt' should use camelCase") {
		t.Errorf("Expected method naming warning, got: %v", warnings)
	}
	if !containsWarning(warnings, "constant 'red' in enum 'Color'") {
		t.Errorf("Expected constant naming warning, got: %v", warnings)
	}
	if containsWarning(warnings, "'GREEN_2'") {
		t.Errorf("Did not expect warning for GREEN_2, got: %v", warnings)
	}
}

func TestNamingHelpers(t *testing.T) {
	tests := []struct {
		name       string
		camel      bool
		pascal     bool
		upperSnake bool
	}{
		{"doWork", true, false, false},
		{"Day", false, true, false},
		{"MONDAY", false, true, true},
		{"MAX_VALUE", false, false, true},
		{"do_work", false, false, false},
		{"", false, false, false},
		{"9LIVES", false, false, false},
	}
	for _, tt := range tests {
		if got := isCamelCase(tt.name); got != tt.camel {
			t.Errorf("isCamelCase(%q) = %v, want %v", tt.name, got, tt.camel)
		}
		if got := isPascalCase(tt.name); got != tt.pascal {
			t.Errorf("isPascalCase(%q) = %v, want %v", tt.name, got, tt.pascal)
		}
		if got := isUpperSnakeCase(tt.name); got != tt.upperSnake {
			t.Errorf("isUpperSnakeCase(%q) = %v, want %v", tt.name, got, tt.upperSnake)
		}
	}
}

// --- Clean code ---

func TestCleanSourceNoWarnings(t *testing.T) {
	source := dayEnum + heredoc.Doc(`
		class Schedule {
			int hours(Day d) {
				switch (d) {
					case MONDAY:
					case TUESDAY:
						return 8;
					default:
						return 4;
				}
			}
		}
	`)
	if warnings := parseAndLint(t, source); len(warnings) != 0 {
		t.Errorf("Expected no warnings for clean code, got: %v", warnings)
	}
}
