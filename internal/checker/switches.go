package checker

import (
	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/diagnostic"
)

// Registry maintains the case and default bookkeeping of switch statements
// and switch expressions alike.
type Registry struct {
	diags *diagnostic.Diagnostics
}

// NewRegistry creates a Registry reporting into diags.
func NewRegistry(diags *diagnostic.Diagnostics) Registry {
	return Registry{diags: diags}
}

// AddCase appends label to the cases of sw in source order.
func (r Registry) AddCase(sw ast.Switch, label *ast.CaseLabel) {
	list := sw.Registry()
	list.Cases = append(list.Cases, label)
	list.Count++
}

// SetDefault installs label as the default of sw. A second default is
// reported and replaces the first.
func (r Registry) SetDefault(sw ast.Switch, label *ast.CaseLabel) {
	list := sw.Registry()
	if list.Default != nil {
		r.diags.Report(diagnostic.DuplicateDefaultCase, label.Line, label.Column,
			"the default case is already defined")
	}
	list.Default = label
}
