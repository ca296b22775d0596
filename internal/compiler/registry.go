package compiler

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/diagnostic"
	"github.com/lhaig/jswitch/internal/parser"
)

// SourceExt is the extension collected from directories
const SourceExt = ".java"

// SourceRegistry manages the parsed compilation units of one compilation.
// Files are kept in the order they were added; a directory contributes its
// .java files in lexical order. Adding the same file twice is a no-op.
type SourceRegistry struct {
	units map[string]*ast.CompilationUnit // absolute file path -> parsed AST
	files []string                        // absolute paths in insertion order
	names map[string]string               // absolute file path -> display name
	level int
	diag  *diagnostic.Diagnostics
}

// NewSourceRegistry creates an empty registry parsing at the given source
// level.
func NewSourceRegistry(level int) *SourceRegistry {
	return &SourceRegistry{
		units: make(map[string]*ast.CompilationUnit),
		names: make(map[string]string),
		level: level,
		diag:  diagnostic.New(),
	}
}

// AddPath parses a file, or every .java file below a directory. Parse
// errors are collected in Diagnostics; the returned error covers I/O only.
func (r *SourceRegistry) AddPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("source not found: %w", err)
	}
	if !info.IsDir() {
		return r.addFile(path)
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, SourceExt) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scanning %s: %w", path, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files in %s", SourceExt, path)
	}
	sort.Strings(files)
	for _, f := range files {
		if err := r.addFile(f); err != nil {
			return err
		}
	}
	return nil
}

func (r *SourceRegistry) addFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if _, ok := r.units[absPath]; ok {
		return nil
	}
	source, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	r.add(absPath, filepath.Clean(path), string(source))
	return nil
}

// AddSource parses in-memory source under the given name
func (r *SourceRegistry) AddSource(name, source string) {
	if _, ok := r.units[name]; ok {
		return
	}
	r.add(name, name, source)
}

func (r *SourceRegistry) add(key, name, source string) {
	p := parser.New(source, parser.WithFile(name), parser.WithSourceLevel(r.level))
	r.units[key] = p.Parse()
	r.files = append(r.files, key)
	r.names[key] = name
	r.diag.Merge(p.Diagnostics())
}

// Files returns the display names of the registered files in order.
func (r *SourceRegistry) Files() []string {
	names := make([]string, len(r.files))
	for i, f := range r.files {
		names[i] = r.names[f]
	}
	return names
}

// Units returns the parsed units in registration order.
func (r *SourceRegistry) Units() []*ast.CompilationUnit {
	units := make([]*ast.CompilationUnit, len(r.files))
	for i, f := range r.files {
		units[i] = r.units[f]
	}
	return units
}

// GetUnit returns the unit parsed from path, or nil if the path has not
// been added.
func (r *SourceRegistry) GetUnit(path string) *ast.CompilationUnit {
	if u, ok := r.units[path]; ok {
		return u
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil
	}
	return r.units[absPath]
}

// Diagnostics returns the parse diagnostics of every added file
func (r *SourceRegistry) Diagnostics() *diagnostic.Diagnostics {
	return r.diag
}
