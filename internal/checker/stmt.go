package checker

import (
	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/constant"
	"github.com/lhaig/jswitch/internal/diagnostic"
)

// checkStatements checks a statement list in a new scope
func (c *Checker) checkStatements(stmts []ast.Statement) {
	prev := c.scope
	c.scope = NewScope(prev)
	for _, s := range stmts {
		c.checkStmt(s)
	}
	c.scope = prev
}

func (c *Checker) checkStmt(s ast.Statement) {
	switch n := s.(type) {
	case *ast.Block:
		c.checkStatements(n.Statements)

	case *ast.LocalVarDecl:
		c.checkLocalVarDecl(n)

	case *ast.ExprStmt:
		c.checkExpr(n.Expr)

	case *ast.AssignStmt:
		c.checkAssign(n)

	case *ast.IfStmt:
		if t := c.checkExpr(n.Condition); t != nil && !isBoolean(t) {
			c.errorAt(diagnostic.TypeMismatch, n.Condition, "type mismatch: cannot convert from %s to boolean", t)
		}
		c.checkNested(n.Then)
		if n.Else != nil {
			c.checkNested(n.Else)
		}

	case *ast.ReturnStmt:
		c.checkReturn(n)

	case *ast.BreakStmt:
		c.checkBreak(n)

	case *ast.YieldStmt:
		c.checkYield(n)

	case *ast.SwitchStmt:
		c.checkSwitch(n)

	case *ast.EmptyStmt:
	}
}

// checkNested checks a statement that gets its own scope
func (c *Checker) checkNested(s ast.Statement) {
	if b, ok := s.(*ast.Block); ok {
		c.checkStatements(b.Statements)
		return
	}
	c.checkStatements([]ast.Statement{s})
}

func (c *Checker) checkLocalVarDecl(n *ast.LocalVarDecl) {
	t := c.resolveTypeRef(n.Type)
	if t == TypeVoid {
		c.errorAt(diagnostic.TypeMismatch, n, "void is an invalid type for the variable %s", n.Name)
		t = nil
	}

	sym := &Symbol{Name: n.Name, Type: t, Final: n.Final, Kind: SymLocal}
	if n.Init != nil {
		it := c.checkExpr(n.Init)
		value := c.constants[n.Init]
		switch {
		case it == nil || t == nil:
		case !Assignable(value, it, t):
			c.errorAt(diagnostic.TypeMismatch, n.Init, "type mismatch: cannot convert from %s to %s", it, t)
		case n.Final && isConstantType(t):
			sym.Const = convertConstant(value, t)
		}
	}

	if err := c.scope.Define(n.Name, sym); err != nil {
		c.errorAt(diagnostic.DuplicateDeclaration, n, "%s", err)
	}
}

func (c *Checker) checkAssign(n *ast.AssignStmt) {
	target := c.checkExpr(n.Target)
	value := c.checkExpr(n.Value)

	switch ast.Unparen(n.Target).(type) {
	case *ast.Name, *ast.QualifiedName:
	default:
		c.errorAt(diagnostic.InvalidOperand, n.Target, "the left-hand side of an assignment must be a variable")
		return
	}
	if f := c.bindings[n.Target]; f != nil && f.IsEnumConstant {
		c.errorAt(diagnostic.InvalidOperand, n.Target, "the enum constant %s cannot be assigned", f.Name)
		return
	}
	if target == nil || value == nil {
		return
	}
	if !Assignable(c.constants[n.Value], value, target) {
		c.errorAt(diagnostic.TypeMismatch, n.Value, "type mismatch: cannot convert from %s to %s", value, target)
	}
}

func (c *Checker) checkReturn(n *ast.ReturnStmt) {
	if c.innermostSwitchExpr() != nil {
		c.errorAt(diagnostic.InvalidOperand, n, "return outside of enclosing switch expression")
	}
	if n.Value == nil {
		if c.returnTyp != nil && c.returnTyp != TypeVoid {
			c.errorAt(diagnostic.TypeMismatch, n, "this method must return a result of type %s", c.returnTyp)
		}
		return
	}
	t := c.checkExpr(n.Value)
	if c.returnTyp == TypeVoid {
		c.errorAt(diagnostic.TypeMismatch, n.Value, "void methods cannot return a value")
		return
	}
	if t != nil && c.returnTyp != nil && !Assignable(c.constants[n.Value], t, c.returnTyp) {
		c.errorAt(diagnostic.TypeMismatch, n.Value, "type mismatch: cannot convert from %s to %s", t, c.returnTyp)
	}
}

func (c *Checker) checkBreak(n *ast.BreakStmt) {
	if len(c.switches) == 0 {
		c.errorAt(diagnostic.BreakOutsideSwitch, n, "break cannot be used outside of a switch")
		return
	}
	if c.switches[len(c.switches)-1].sw.IsExpression() {
		c.errorAt(diagnostic.BreakOutsideSwitch, n, "breaking out of a switch expression is not allowed")
	}
}

func (c *Checker) checkYield(n *ast.YieldStmt) {
	frame := c.innermostSwitchExpr()
	if frame == nil {
		c.checkExpr(n.Value)
		c.errorAt(diagnostic.YieldOutsideSwitch, n, "yield outside of switch expression")
		return
	}
	c.checkExpr(n.Value)
	frame.yields = append(frame.yields, n)
}

// innermostSwitchExpr returns the frame of the nearest enclosing switch
// expression, or nil
func (c *Checker) innermostSwitchExpr() *switchFrame {
	for i := len(c.switches) - 1; i >= 0; i-- {
		if c.switches[i].sw.IsExpression() {
			return c.switches[i]
		}
	}
	return nil
}

// checkSwitch checks the selector, resolves every label and checks the
// guarded statements of a switch. For a switch expression it returns the
// result type.
func (c *Checker) checkSwitch(sw ast.Switch) *Type {
	selector := c.switchSelector(sw.Selector())

	frame := &switchFrame{sw: sw}
	c.switches = append(c.switches, frame)
	prev := c.scope
	c.scope = NewScope(prev)

	for _, s := range sw.Stmts() {
		if label, ok := s.(*ast.CaseLabel); ok {
			c.resolver.Resolve(label, selector, sw)
			continue
		}
		c.checkStmt(s)
	}

	c.scope = prev
	c.switches = c.switches[:len(c.switches)-1]

	c.checkDuplicateCases(sw)
	if !sw.IsExpression() {
		return nil
	}
	c.checkExhaustive(sw, selector)
	return c.switchResultType(sw, frame)
}

// switchSelector checks the selector expression. It returns nil when the
// selector is unresolved or of a type that cannot be switched on.
func (c *Checker) switchSelector(e ast.Expression) *Type {
	t := c.checkExpr(e)
	if t == nil {
		return nil
	}
	if !isSwitchable(t) {
		c.errorAt(diagnostic.IncorrectSwitchType, e,
			"cannot switch on a value of type %s; only convertible int values, strings or enum variables are permitted", t)
		return nil
	}
	return t
}

// checkDuplicateCases reports every label expression whose folded value was
// already used by an earlier label of the same switch.
func (c *Checker) checkDuplicateCases(sw ast.Switch) {
	seen := make(map[constant.Value]bool)
	for _, label := range sw.Registry().Cases {
		for i, v := range label.Constants {
			if !v.IsConstant() {
				continue
			}
			if seen[v] {
				c.errorAt(diagnostic.DuplicateCase, label.Exprs[i], "duplicate case label")
				continue
			}
			seen[v] = true
		}
	}
}

// checkExhaustive requires a default label or, for an enum selector, a label
// for every constant.
func (c *Checker) checkExhaustive(sw ast.Switch, selector *Type) {
	list := sw.Registry()
	if list.Default != nil || selector == nil {
		return
	}
	if selector.IsEnum() {
		covered := make(map[int]bool)
		for _, label := range list.Cases {
			for _, v := range label.Constants {
				if v.Kind() == constant.EnumOrdinal {
					covered[v.Ordinal()] = true
				}
			}
		}
		missing := 0
		for _, f := range selector.Enum.Constants {
			if !covered[f.Index] {
				missing++
			}
		}
		if missing > 0 {
			c.errorAt(diagnostic.SwitchExpressionNotExhaustive, sw,
				"the switch expression does not cover all possible input values, %d of %s missing", missing, selector)
		}
		return
	}
	c.errorAt(diagnostic.SwitchExpressionNotExhaustive, sw,
		"a switch expression should have a default case")
}

// switchResultType derives the type of a switch expression from its yields
func (c *Checker) switchResultType(sw ast.Switch, frame *switchFrame) *Type {
	if len(frame.yields) == 0 {
		c.errorAt(diagnostic.SwitchExpressionNoResult, sw, "a switch expression must have at least one result expression")
		return nil
	}

	var result *Type
	for _, y := range frame.yields {
		t := c.exprTypes[y.Value]
		if t == nil {
			return nil
		}
		if t == TypeVoid {
			c.errorAt(diagnostic.TypeMismatch, y.Value, "a switch expression arm cannot yield void")
			return nil
		}
		switch {
		case result == nil:
			result = t
		case Assignable(c.constants[y.Value], t, result):
		case Assignable(constant.Unknown, result, t):
			result = t
		case isNumeric(result) && isNumeric(t):
			result = binaryPromotion(result, t)
		default:
			c.errorAt(diagnostic.TypeMismatch, y.Value, "type mismatch: cannot convert from %s to %s", t, result)
			return nil
		}
	}
	return result
}
