package formatter

import (
	"fmt"
	"strings"

	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/lexer"
)

// Format takes a compilation unit and returns canonical source code.
func Format(unit *ast.CompilationUnit) string {
	f := &formatter{}
	f.formatUnit(unit)
	return f.sb.String()
}

type formatter struct {
	sb     strings.Builder
	indent int
}

// --- helpers (same pattern as codegen.go) ---

func (f *formatter) emit(s string) {
	f.sb.WriteString(s)
}

func (f *formatter) emitf(format string, args ...any) {
	f.sb.WriteString(fmt.Sprintf(format, args...))
}

func (f *formatter) emitLine(s string) {
	if s == "" {
		f.sb.WriteString("\n")
	} else {
		f.sb.WriteString(f.indentStr())
		f.sb.WriteString(s)
		f.sb.WriteString("\n")
	}
}

func (f *formatter) emitLinef(format string, args ...any) {
	f.sb.WriteString(f.indentStr())
	f.sb.WriteString(fmt.Sprintf(format, args...))
	f.sb.WriteString("\n")
}

func (f *formatter) incIndent() { f.indent++ }
func (f *formatter) decIndent() { f.indent-- }

func (f *formatter) indentStr() string {
	return strings.Repeat("    ", f.indent)
}

func (f *formatter) blankLine() {
	f.sb.WriteString("\n")
}

// --- declarations ---

func (f *formatter) formatUnit(unit *ast.CompilationUnit) {
	for i, decl := range unit.Types {
		if i > 0 {
			f.blankLine()
		}
		switch d := decl.(type) {
		case *ast.ClassDecl:
			f.formatClassDecl(d)
		case *ast.EnumDecl:
			f.formatEnumDecl(d)
		}
	}
}

func modifiers(m ast.Modifiers) string {
	var parts []string
	for _, mod := range []struct {
		set  bool
		word string
	}{
		{m.Public, "public"},
		{m.Protected, "protected"},
		{m.Private, "private"},
		{m.Abstract, "abstract"},
		{m.Static, "static"},
		{m.Final, "final"},
		{m.Sealed, "sealed"},
	} {
		if mod.set {
			parts = append(parts, mod.word)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ") + " "
}

func (f *formatter) formatClassDecl(c *ast.ClassDecl) {
	var head strings.Builder
	head.WriteString(modifiers(c.Modifiers))
	head.WriteString(c.Kind.String() + " " + c.Name)
	if c.Kind == ast.KindRecord {
		head.WriteString("(" + f.formatParams(c.Components) + ")")
	}
	if len(c.Extends) > 0 {
		head.WriteString(" extends " + typeList(c.Extends))
	}
	if len(c.Implements) > 0 {
		head.WriteString(" implements " + typeList(c.Implements))
	}
	if len(c.Permits) > 0 {
		head.WriteString(" permits " + typeList(c.Permits))
	}
	f.emitLine(head.String() + " {")
	f.incIndent()
	f.formatMembers(c.Fields, c.Methods)
	f.decIndent()
	f.emitLine("}")
}

func (f *formatter) formatEnumDecl(e *ast.EnumDecl) {
	head := modifiers(e.Modifiers) + "enum " + e.Name
	if len(e.Implements) > 0 {
		head += " implements " + typeList(e.Implements)
	}
	f.emitLine(head + " {")
	f.incIndent()

	names := make([]string, len(e.Constants))
	for i, c := range e.Constants {
		names[i] = c.Name
	}
	hasMembers := len(e.Fields) > 0 || len(e.Methods) > 0
	if len(names) > 0 || hasMembers {
		line := strings.Join(names, ", ")
		if hasMembers {
			line += ";"
		}
		f.emitLine(line)
	}
	if hasMembers {
		f.blankLine()
		f.formatMembers(e.Fields, e.Methods)
	}

	f.decIndent()
	f.emitLine("}")
}

// formatMembers prints fields first, then every method preceded by a blank
// line.
func (f *formatter) formatMembers(fields []*ast.FieldDecl, methods []*ast.MethodDecl) {
	for _, fd := range fields {
		line := modifiers(fd.Modifiers) + formatTypeRef(fd.Type) + " " + fd.Name
		if fd.Init != nil {
			line += " = " + f.formatExpr(fd.Init)
		}
		f.emitLine(line + ";")
	}
	for i, m := range methods {
		if i > 0 || len(fields) > 0 {
			f.blankLine()
		}
		f.formatMethodDecl(m)
	}
}

func (f *formatter) formatMethodDecl(m *ast.MethodDecl) {
	head := fmt.Sprintf("%s%s %s(%s)", modifiers(m.Modifiers), formatTypeRef(m.ReturnType), m.Name, f.formatParams(m.Params))
	if m.Body == nil {
		f.emitLine(head + ";")
		return
	}
	f.emitLine(head + " {")
	f.incIndent()
	f.formatBlock(m.Body)
	f.decIndent()
	f.emitLine("}")
}

func (f *formatter) formatParams(params []*ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = formatTypeRef(p.Type) + " " + p.Name
	}
	return strings.Join(parts, ", ")
}

// --- statements ---

func (f *formatter) formatBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		f.formatStmt(stmt)
	}
}

func (f *formatter) formatStmt(s ast.Statement) {
	switch stmt := s.(type) {
	case *ast.LocalVarDecl:
		line := formatTypeRef(stmt.Type) + " " + stmt.Name
		if stmt.Final {
			line = "final " + line
		}
		if stmt.Init != nil {
			line += " = " + f.formatExpr(stmt.Init)
		}
		f.emitLine(line + ";")

	case *ast.AssignStmt:
		f.emitLinef("%s = %s;", f.formatExpr(stmt.Target), f.formatExpr(stmt.Value))

	case *ast.ReturnStmt:
		if stmt.Value != nil {
			f.emitLinef("return %s;", f.formatExpr(stmt.Value))
		} else {
			f.emitLine("return;")
		}

	case *ast.IfStmt:
		f.formatIfStmt(stmt, false)

	case *ast.BreakStmt:
		f.emitLine("break;")

	case *ast.YieldStmt:
		f.emitLinef("yield %s;", f.formatExpr(stmt.Value))

	case *ast.EmptyStmt:
		f.emitLine(";")

	case *ast.ExprStmt:
		f.emitLinef("%s;", f.formatExpr(stmt.Expr))

	case *ast.SwitchStmt:
		f.emitLinef("switch (%s) {", f.formatExpr(stmt.Expr))
		f.incIndent()
		f.formatSwitchBody(stmt.Body)
		f.decIndent()
		f.emitLine("}")

	case *ast.Block:
		f.emitLine("{")
		f.incIndent()
		f.formatBlock(stmt)
		f.decIndent()
		f.emitLine("}")
	}
}

// formatNested prints the body of an if or else branch, always braced
func (f *formatter) formatNested(s ast.Statement) {
	f.incIndent()
	if b, ok := s.(*ast.Block); ok {
		f.formatBlock(b)
	} else {
		f.formatStmt(s)
	}
	f.decIndent()
}

func (f *formatter) formatIfStmt(stmt *ast.IfStmt, isElseIf bool) {
	if isElseIf {
		f.emitf(" else if (%s) {\n", f.formatExpr(stmt.Condition))
	} else {
		f.emitLinef("if (%s) {", f.formatExpr(stmt.Condition))
	}
	f.formatNested(stmt.Then)
	if stmt.Else == nil {
		f.emitLine("}")
		return
	}
	if elseIf, ok := stmt.Else.(*ast.IfStmt); ok {
		f.emit(f.indentStr() + "}")
		f.formatIfStmt(elseIf, true)
		return
	}
	f.emitLine("} else {")
	f.formatNested(stmt.Else)
	f.emitLine("}")
}

// formatSwitchBody prints labels at the current indent. A colon label is
// followed by its statements one level deeper; an arrow label is followed
// by its single body on the same line.
func (f *formatter) formatSwitchBody(body []ast.Statement) {
	for i := 0; i < len(body); i++ {
		label, ok := body[i].(*ast.CaseLabel)
		if !ok {
			f.incIndent()
			f.formatStmt(body[i])
			f.decIndent()
			continue
		}
		if !label.IsArrow {
			f.emitLine(formatLabel(label) + ":")
			continue
		}

		head := formatLabel(label) + " ->"
		if i+1 >= len(body) {
			f.emitLine(head + " {}")
			continue
		}
		if _, next := body[i+1].(*ast.CaseLabel); next {
			f.emitLine(head + " {}")
			continue
		}
		i++
		switch arm := body[i].(type) {
		case *ast.Block:
			f.emitLine(head + " {")
			f.incIndent()
			f.formatBlock(arm)
			f.decIndent()
			f.emitLine("}")
		case *ast.YieldStmt:
			if arm.Implicit {
				f.emitLinef("%s %s;", head, f.formatExpr(arm.Value))
			} else {
				f.emitLinef("%s yield %s;", head, f.formatExpr(arm.Value))
			}
		case *ast.ExprStmt:
			f.emitLinef("%s %s;", head, f.formatExpr(arm.Expr))
		case *ast.AssignStmt:
			f.emitLinef("%s %s = %s;", head, f.formatExpr(arm.Target), f.formatExpr(arm.Value))
		default:
			f.emitLine(head)
			f.incIndent()
			f.formatStmt(arm)
			f.decIndent()
		}
	}
}

// formatLabel renders a label without its separator
func formatLabel(label *ast.CaseLabel) string {
	if label.IsDefault() {
		return "default"
	}
	exprs := make([]string, len(label.Exprs))
	for i, e := range label.Exprs {
		exprs[i] = formatExprPrec(e, 0)
	}
	s := "case " + strings.Join(exprs, ", ")
	if label.Guard != nil {
		s += " when " + formatExprPrec(label.Guard, 0)
	}
	return s
}

// --- expressions ---

func (f *formatter) formatExpr(e ast.Expression) string {
	if sx, ok := e.(*ast.SwitchExpr); ok {
		return f.formatSwitchExpr(sx)
	}
	return formatExprPrec(e, 0)
}

// formatSwitchExpr renders a switch expression whose body is indented one
// level deeper than the line it starts on.
func (f *formatter) formatSwitchExpr(sx *ast.SwitchExpr) string {
	sub := &formatter{indent: f.indent + 1}
	sub.formatSwitchBody(sx.Body)
	return fmt.Sprintf("switch (%s) {\n%s%s}", formatExprPrec(sx.Expr, 0), sub.sb.String(), f.indentStr())
}

// formatExprPrec formats an expression, wrapping in parens if needed based on parent precedence.
func formatExprPrec(e ast.Expression, parentPrec int) string {
	switch expr := e.(type) {
	case *ast.BinaryExpr:
		prec := precedence(expr.Op)
		left := formatExprPrec(expr.Left, prec)
		right := formatExprPrec(expr.Right, prec+1) // +1 for left-associativity
		result := fmt.Sprintf("%s %s %s", left, expr.Op, right)
		if prec < parentPrec {
			return "(" + result + ")"
		}
		return result

	case *ast.UnaryExpr:
		operand := formatExprPrec(expr.Operand, unaryPrec)
		if (expr.Op == lexer.MINUS || expr.Op == lexer.PLUS) && strings.HasPrefix(operand, expr.Op.String()) {
			// keep "- -x" from reading as a decrement
			operand = " " + operand
		}
		return expr.Op.String() + operand

	case *ast.ParenExpr:
		return "(" + formatExprPrec(expr.X, 0) + ")"

	case *ast.Name:
		return expr.Name

	case *ast.QualifiedName:
		return strings.Join(expr.Segments, ".")

	case *ast.IntLit:
		return expr.Raw

	case *ast.CharLit:
		return expr.Raw

	case *ast.StringLit:
		return expr.Raw

	case *ast.BoolLit:
		if expr.Value {
			return "true"
		}
		return "false"

	case *ast.NullLit:
		return "null"

	case *ast.SwitchExpr:
		// only reached inside operands; the statement forms go through formatSwitchExpr
		return ast.ExprString(expr)

	default:
		return "<unknown>"
	}
}

// --- type references ---

func formatTypeRef(t *ast.TypeRef) string {
	if t == nil {
		return "void"
	}
	return t.Name
}

func typeList(refs []*ast.TypeRef) string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = formatTypeRef(r)
	}
	return strings.Join(names, ", ")
}

// --- operator precedence ---

// Precedence levels (higher binds tighter):
//
//	1: ||
//	2: &&
//	3: |
//	4: ^
//	5: &
//	6: == !=
//	7: < > <= >=
//	8: << >> >>>
//	9: + -
//	10: * / %
func precedence(op lexer.TokenType) int {
	switch op {
	case lexer.OR_OR:
		return 1
	case lexer.AND_AND:
		return 2
	case lexer.PIPE:
		return 3
	case lexer.CARET:
		return 4
	case lexer.AMP:
		return 5
	case lexer.EQ, lexer.NEQ:
		return 6
	case lexer.LT, lexer.GT, lexer.LEQ, lexer.GEQ:
		return 7
	case lexer.SHL, lexer.SHR, lexer.USHR:
		return 8
	case lexer.PLUS, lexer.MINUS:
		return 9
	case lexer.STAR, lexer.SLASH, lexer.PERCENT:
		return 10
	default:
		return 0
	}
}

const unaryPrec = 11
