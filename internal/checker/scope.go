package checker

import (
	"fmt"

	"github.com/lhaig/jswitch/internal/constant"
)

// SymbolKind represents the kind of symbol
type SymbolKind int

const (
	SymLocal SymbolKind = iota
	SymParam
	SymField
)

// String returns the string representation of the symbol kind
func (sk SymbolKind) String() string {
	switch sk {
	case SymLocal:
		return "local variable"
	case SymParam:
		return "parameter"
	case SymField:
		return "field"
	default:
		return "unknown"
	}
}

// Symbol represents a symbol in the symbol table
type Symbol struct {
	Name  string
	Type  *Type
	Final bool
	Kind  SymbolKind
	Field *Field         // set for SymField
	Const constant.Value // folded value of a final local with a constant initializer
}

// Scope represents a lexical scope with a symbol table
type Scope struct {
	parent  *Scope
	symbols map[string]*Symbol
}

// NewScope creates a new scope with an optional parent
func NewScope(parent *Scope) *Scope {
	return &Scope{
		parent:  parent,
		symbols: make(map[string]*Symbol),
	}
}

// Define adds a symbol to the current scope. Locals may not shadow another
// local or parameter of an enclosing scope either.
func (s *Scope) Define(name string, sym *Symbol) error {
	if prev := s.Resolve(name); prev != nil && prev.Kind != SymField {
		return fmt.Errorf("duplicate %s '%s'", sym.Kind, name)
	}
	s.symbols[name] = sym
	return nil
}

// Resolve looks up a symbol in the current scope and parent scopes
// Returns nil if the symbol is not found
func (s *Scope) Resolve(name string) *Symbol {
	if sym, ok := s.symbols[name]; ok {
		return sym
	}
	if s.parent != nil {
		return s.parent.Resolve(name)
	}
	return nil
}

// ResolveLocal looks up a symbol only in the current scope (not parent scopes)
func (s *Scope) ResolveLocal(name string) *Symbol {
	if sym, ok := s.symbols[name]; ok {
		return sym
	}
	return nil
}
