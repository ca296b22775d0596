package compiler

import (
	"fmt"
	"io"

	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/checker"
	"github.com/lhaig/jswitch/internal/codegen"
	"github.com/lhaig/jswitch/internal/diagnostic"
	"github.com/lhaig/jswitch/internal/linter"
	"github.com/lhaig/jswitch/internal/parser"
)

// Result holds the output of a compilation
type Result struct {
	Diagnostics *diagnostic.Diagnostics
	Units       []*ast.CompilationUnit
	Check       *checker.CheckResult
	Code        []*codegen.Unit
}

// Option configures a compilation
type Option func(*options)

type options struct {
	level int
	lint  bool
}

// WithSourceLevel sets the language level of every parsed file.
func WithSourceLevel(level int) Option {
	return func(o *options) { o.level = level }
}

// WithLint adds the linter's warnings to the result diagnostics.
func WithLint() Option {
	return func(o *options) { o.lint = true }
}

func newOptions(opts []Option) *options {
	o := &options{level: parser.DefaultSourceLevel}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Compile runs the full pipeline on one in-memory source:
// parse -> check -> flow -> codegen.
func Compile(source string, opts ...Option) *Result {
	o := newOptions(opts)
	reg := NewSourceRegistry(o.level)
	reg.AddSource("input", source)
	return compileRegistry(reg, o)
}

// Check runs parse + check only (no codegen).
func Check(source string, opts ...Option) *diagnostic.Diagnostics {
	o := newOptions(opts)
	reg := NewSourceRegistry(o.level)
	reg.AddSource("input", source)
	if reg.Diagnostics().HasErrors() {
		return reg.Diagnostics()
	}
	return checker.CheckAll(reg.Units()).Diagnostics
}

// CompileProject runs the multi-file pipeline over files and directories.
// An I/O failure is returned as an error; compile problems are in the
// result diagnostics.
func CompileProject(paths []string, opts ...Option) (*Result, error) {
	o := newOptions(opts)
	reg, err := load(paths, o)
	if err != nil {
		return nil, err
	}
	return compileRegistry(reg, o), nil
}

// CheckProject runs the multi-file pipeline up to checking (no codegen).
func CheckProject(paths []string, opts ...Option) (*diagnostic.Diagnostics, error) {
	o := newOptions(opts)
	reg, err := load(paths, o)
	if err != nil {
		return nil, err
	}
	if reg.Diagnostics().HasErrors() {
		return reg.Diagnostics(), nil
	}
	res := checker.CheckAll(reg.Units())
	if o.lint {
		res.Diagnostics.Merge(linter.LintAll(reg.Units()))
	}
	return res.Diagnostics, nil
}

// LintProject parses paths and returns the linter's warnings together with
// any parse errors.
func LintProject(paths []string, opts ...Option) (*diagnostic.Diagnostics, error) {
	o := newOptions(opts)
	reg, err := load(paths, o)
	if err != nil {
		return nil, err
	}
	if reg.Diagnostics().HasErrors() {
		return reg.Diagnostics(), nil
	}
	return linter.LintAll(reg.Units()), nil
}

// DumpProject compiles paths and writes the generated code bookkeeping to w.
func DumpProject(w io.Writer, paths []string, format codegen.Format, opts ...Option) (*Result, error) {
	res, err := CompileProject(paths, opts...)
	if err != nil {
		return nil, err
	}
	if res.Diagnostics.HasErrors() {
		return res, nil
	}
	if err := codegen.Dump(w, res.Code, format); err != nil {
		return res, fmt.Errorf("writing dump: %w", err)
	}
	return res, nil
}

func load(paths []string, o *options) (*SourceRegistry, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no source files given")
	}
	reg := NewSourceRegistry(o.level)
	for _, p := range paths {
		if err := reg.AddPath(p); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func compileRegistry(reg *SourceRegistry, o *options) *Result {
	res := &Result{Units: reg.Units()}

	// Parse
	if reg.Diagnostics().HasErrors() {
		res.Diagnostics = reg.Diagnostics()
		return res
	}

	// Check, including flow analysis of clean methods
	res.Check = checker.CheckAll(res.Units)
	res.Diagnostics = diagnostic.New()
	res.Diagnostics.Merge(reg.Diagnostics())
	res.Diagnostics.Merge(res.Check.Diagnostics)
	if o.lint {
		res.Diagnostics.Merge(linter.LintAll(res.Units))
	}
	if res.Diagnostics.HasErrors() {
		return res
	}

	res.Code = codegen.Generate(res.Units, res.Check)
	return res
}
