package diagnostic

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Severity represents the severity level of a diagnostic message
type Severity int

const (
	Error Severity = iota
	Warning
	Info
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single compiler error, warning, or info message
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Line     int
	Column   int
	File     string // optional file path (for multi-file compilation)
	Hint     string // optional suggestion
}

// Diagnostics manages a collection of diagnostic messages
type Diagnostics struct {
	items []Diagnostic
	file  string
}

// New creates a new empty Diagnostics collection
func New() *Diagnostics {
	return &Diagnostics{
		items: make([]Diagnostic, 0),
	}
}

// NewForFile creates a collection that stamps every added diagnostic with file.
func NewForFile(file string) *Diagnostics {
	d := New()
	d.file = file
	return d
}

func (d *Diagnostics) add(item Diagnostic) {
	if item.File == "" {
		item.File = d.file
	}
	d.items = append(d.items, item)
}

// Report adds an error diagnostic carrying a code.
func (d *Diagnostics) Report(code Code, line, col int, format string, args ...interface{}) {
	d.add(Diagnostic{
		Severity: Error,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// Warn adds a warning diagnostic carrying a code.
func (d *Diagnostics) Warn(code Code, line, col int, format string, args ...interface{}) {
	d.add(Diagnostic{
		Severity: Warning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// Errorf adds an error diagnostic with formatted message
func (d *Diagnostics) Errorf(line, col int, format string, args ...interface{}) {
	d.Report(Syntax, line, col, format, args...)
}

// Warningf adds a warning diagnostic with formatted message
func (d *Diagnostics) Warningf(line, col int, format string, args ...interface{}) {
	d.add(Diagnostic{
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
	})
}

// WarningWithHint adds a warning diagnostic with an optional hint
func (d *Diagnostics) WarningWithHint(code Code, line, col int, msg, hint string) {
	d.add(Diagnostic{
		Severity: Warning,
		Code:     code,
		Message:  msg,
		Line:     line,
		Column:   col,
		Hint:     hint,
	})
}

// Merge appends all diagnostics from other.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil {
		return
	}
	d.items = append(d.items, other.items...)
}

// HasErrors returns true if there are any error-level diagnostics
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the error-level diagnostics
func (d *Diagnostics) Errors() []Diagnostic {
	errors := make([]Diagnostic, 0)
	for _, item := range d.items {
		if item.Severity == Error {
			errors = append(errors, item)
		}
	}
	return errors
}

// WithCode returns the diagnostics carrying code, in report order.
func (d *Diagnostics) WithCode(code Code) []Diagnostic {
	var out []Diagnostic
	for _, item := range d.items {
		if item.Code == code {
			out = append(out, item)
		}
	}
	return out
}

// ErrorsOnly returns a collection holding just the error diagnostics.
func (d *Diagnostics) ErrorsOnly() *Diagnostics {
	out := New()
	out.items = append(out.items, d.Errors()...)
	return out
}

// All returns all diagnostics regardless of severity
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Count returns the total number of diagnostics
func (d *Diagnostics) Count() int {
	return len(d.items)
}

// ErrorCount returns the number of error-level diagnostics
func (d *Diagnostics) ErrorCount() int {
	count := 0
	for _, item := range d.items {
		if item.Severity == Error {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-level diagnostics
func (d *Diagnostics) WarningCount() int {
	count := 0
	for _, item := range d.items {
		if item.Severity == Warning {
			count++
		}
	}
	return count
}

// Styles controls how FormatStyled renders each part of a diagnostic.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Code    lipgloss.Style
	Hint    lipgloss.Style
}

// DefaultStyles builds the standard palette on renderer r.
func DefaultStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Info:    r.NewStyle().Foreground(lipgloss.Color("12")),
		Code:    r.NewStyle().Faint(true),
		Hint:    r.NewStyle().Foreground(lipgloss.Color("14")),
	}
}

// Format returns human-readable error messages
// Output format:
//
//	error[filename:3:10]: duplicate default case [duplicate-default-case]
//	  hint: remove one of the default labels
func (d *Diagnostics) Format(filename string) string {
	return d.render(filename, nil)
}

// FormatStyled is Format with lipgloss styling applied.
func (d *Diagnostics) FormatStyled(filename string, styles Styles) string {
	return d.render(filename, &styles)
}

func (d *Diagnostics) render(filename string, styles *Styles) string {
	if len(d.items) == 0 {
		return ""
	}

	paint := func(s lipgloss.Style, text string) string {
		if styles == nil {
			return text
		}
		return s.Render(text)
	}

	var builder strings.Builder
	for i, item := range d.items {
		fileToUse := filename
		if item.File != "" {
			fileToUse = item.File
		}

		sev := item.Severity.String()
		if styles != nil {
			switch item.Severity {
			case Error:
				sev = paint(styles.Error, sev)
			case Warning:
				sev = paint(styles.Warning, sev)
			default:
				sev = paint(styles.Info, sev)
			}
		}

		builder.WriteString(fmt.Sprintf("%s[%s:%d:%d]: %s",
			sev,
			fileToUse,
			item.Line,
			item.Column,
			item.Message,
		))
		if item.Code != "" && item.Code != Syntax {
			builder.WriteString(" ")
			builder.WriteString(paint(styles.codeStyle(), "["+string(item.Code)+"]"))
		}

		if item.Hint != "" {
			builder.WriteString("\n  " + paint(styles.hintStyle(), "hint: "+item.Hint))
		}

		if i < len(d.items)-1 {
			builder.WriteString("\n")
		}
	}

	return builder.String()
}

func (s *Styles) codeStyle() lipgloss.Style {
	if s == nil {
		return lipgloss.NewStyle()
	}
	return s.Code
}

func (s *Styles) hintStyle() lipgloss.Style {
	if s == nil {
		return lipgloss.NewStyle()
	}
	return s.Hint
}

// Clear removes all diagnostics from the collection
func (d *Diagnostics) Clear() {
	d.items = make([]Diagnostic, 0)
}
