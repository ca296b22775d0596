package checker

import (
	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/constant"
	"github.com/lhaig/jswitch/internal/diagnostic"
)

// flow computes reachability for a method body that resolved without
// errors. It sets the Reachable flag of switches and case labels, reports
// unreachable statements, and reports non-constant case expressions.
type flow struct {
	c        *Checker
	switches []ast.Switch
	breaks   map[ast.Switch]bool
}

func (c *Checker) analyseMethod(m *ast.MethodDecl) {
	f := &flow{c: c, breaks: make(map[ast.Switch]bool)}
	f.statements(m.Body.Statements, true)
}

// statements analyses a statement list entered with the given reachability
// and reports whether it can complete normally. Only the first statement
// made unreachable by its predecessors is reported.
func (f *flow) statements(list []ast.Statement, reachable bool) bool {
	live := reachable
	reported := false
	for _, s := range list {
		if !live && reachable && !reported {
			f.report(diagnostic.UnreachableCode, s, "unreachable code")
			reported = true
		}
		live = f.stmt(s, live)
	}
	return live
}

func (f *flow) stmt(s ast.Statement, reachable bool) bool {
	switch n := s.(type) {
	case *ast.Block:
		return f.statements(n.Statements, reachable)

	case *ast.LocalVarDecl:
		f.expr(n.Init, reachable)
		return reachable

	case *ast.ExprStmt:
		f.expr(n.Expr, reachable)
		return reachable

	case *ast.AssignStmt:
		f.expr(n.Target, reachable)
		f.expr(n.Value, reachable)
		return reachable

	case *ast.IfStmt:
		f.expr(n.Condition, reachable)
		thenReachable := reachable
		if v := f.c.constants[n.Condition]; v.Kind() == constant.Bool && !v.Bool() {
			if reachable {
				line, col := n.Then.Pos()
				f.c.diag.Warn(diagnostic.DeadCode, line, col, "dead code")
			}
			thenReachable = false
		}
		thenNormal := f.stmt(n.Then, thenReachable)
		if n.Else == nil {
			return reachable
		}
		elseNormal := f.stmt(n.Else, reachable)
		return thenNormal || elseNormal

	case *ast.ReturnStmt:
		f.expr(n.Value, reachable)
		return false

	case *ast.BreakStmt:
		if len(f.switches) > 0 && reachable {
			f.breaks[f.switches[len(f.switches)-1]] = true
		}
		return false

	case *ast.YieldStmt:
		f.expr(n.Value, reachable)
		return false

	case *ast.SwitchStmt:
		n.Reachable = reachable
		f.expr(n.Expr, reachable)
		normal := f.switchBody(n, reachable)
		return reachable && (normal || n.Labels.Default == nil || f.breaks[n])
	}
	return reachable
}

// expr visits the switch expressions nested in e
func (f *flow) expr(e ast.Expression, reachable bool) {
	if e == nil {
		return
	}
	ast.Inspect(e, func(n ast.Node) bool {
		sx, ok := n.(*ast.SwitchExpr)
		if !ok {
			return true
		}
		sx.Reachable = reachable
		f.expr(sx.Expr, reachable)
		f.switchBody(sx, reachable)
		return false
	})
}

// switchBody analyses the labels and statement groups of sw and reports
// whether control can leave the switch by falling out of its body. Every
// label is as reachable as the switch itself.
func (f *flow) switchBody(sw ast.Switch, reachable bool) bool {
	f.switches = append(f.switches, sw)
	defer func() { f.switches = f.switches[:len(f.switches)-1] }()

	live := reachable
	normal := false
	reported := false
	var arrow bool
	for _, s := range sw.Stmts() {
		if label, ok := s.(*ast.CaseLabel); ok {
			if label.IsArrow && live && arrow {
				normal = true
			}
			arrow = label.IsArrow
			label.Reachable = reachable
			f.checkLabel(label)
			live, reported = reachable, false
			continue
		}

		if !live && reachable && !reported {
			f.report(diagnostic.UnreachableCode, s, "unreachable code")
			reported = true
		}
		live = f.stmt(s, live)

		if arrow && sw.IsExpression() && live && reachable {
			if _, ok := s.(*ast.Block); ok {
				f.report(diagnostic.SwitchExpressionNoResult, s,
					"a switch labeled block in a switch expression should not complete normally")
			}
		}
	}

	if sw.IsExpression() && !arrow && live && reachable && len(sw.Stmts()) > 0 {
		f.report(diagnostic.SwitchExpressionNoResult, sw,
			"the switch expression completes without providing a value")
	}
	return normal || live
}

// checkLabel requires every non-enum case expression to be a constant
func (f *flow) checkLabel(label *ast.CaseLabel) {
	for _, e := range label.Exprs {
		t := f.c.exprTypes[e]
		if t == nil || t.IsEnum() {
			continue
		}
		if !f.c.constants[e].IsConstant() {
			f.report(diagnostic.CaseExpressionMustBeConstant, e, "case expressions must be constant expressions")
		}
	}
}

func (f *flow) report(code diagnostic.Code, at ast.Node, format string, args ...interface{}) {
	line, col := at.Pos()
	f.c.diag.Report(code, line, col, format, args...)
}
