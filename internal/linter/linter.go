package linter

import (
	"strings"
	"unicode"

	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/diagnostic"
	"github.com/lhaig/jswitch/internal/lexer"
)

// Linter performs style and best-practice checks on compilation units.
// It reports warnings (never errors) using the diagnostic system.
type Linter struct {
	units []*ast.CompilationUnit
	diag  *diagnostic.Diagnostics
	enums []*ast.EnumDecl
}

// Lint runs all lint rules on a single unit and returns diagnostics.
func Lint(unit *ast.CompilationUnit) *diagnostic.Diagnostics {
	return LintAll([]*ast.CompilationUnit{unit})
}

// LintAll lints units that see each other's enum declarations.
func LintAll(units []*ast.CompilationUnit) *diagnostic.Diagnostics {
	l := &Linter{units: units}
	for _, u := range units {
		for _, decl := range u.Types {
			if e, ok := decl.(*ast.EnumDecl); ok {
				l.enums = append(l.enums, e)
			}
		}
	}

	all := diagnostic.New()
	for _, u := range units {
		l.diag = diagnostic.NewForFile(u.File)
		l.lintTypes(u)
		all.Merge(l.diag)
	}
	return all
}

// lintTypes checks every type declaration of u with its members.
func (l *Linter) lintTypes(u *ast.CompilationUnit) {
	for _, decl := range u.Types {
		line, col := decl.Pos()
		l.checkTypeNaming(decl.TypeName(), line, col)
		l.checkRestrictedName("type", decl.TypeName(), line, col)

		switch d := decl.(type) {
		case *ast.ClassDecl:
			for _, p := range d.Components {
				l.checkRestrictedName("record component", p.Name, p.Line, p.Column)
			}
			l.lintMembers(d.Name, d.Fields, d.Methods)
		case *ast.EnumDecl:
			for _, c := range d.Constants {
				l.checkConstantNaming(d.Name, c.Name, c.Line, c.Column)
			}
			l.lintMembers(d.Name, d.Fields, d.Methods)
		}
	}
}

func (l *Linter) lintMembers(owner string, fields []*ast.FieldDecl, methods []*ast.MethodDecl) {
	for _, f := range fields {
		l.checkRestrictedName("field", f.Name, f.Line, f.Column)
		if f.Init != nil {
			l.lintSwitches(f.Init)
		}
	}
	for _, m := range methods {
		l.checkMethodNaming(m.Name, m.Line, m.Column)
		l.checkRestrictedName("method", m.Name, m.Line, m.Column)
		for _, p := range m.Params {
			l.checkRestrictedName("parameter", p.Name, p.Line, p.Column)
		}
		if m.Body == nil {
			continue
		}
		l.checkEmptyMethodBody(owner+"."+m.Name, m.Body, m.Line, m.Column)
		l.checkUnusedVariables(m.Body)
		l.lintSwitches(m.Body)
	}
}

// lintSwitches applies the switch rules to every switch under n, and the
// naming rules to every local declared there.
func (l *Linter) lintSwitches(n ast.Node) {
	ast.Inspect(n, func(node ast.Node) bool {
		switch s := node.(type) {
		case *ast.LocalVarDecl:
			l.checkRestrictedName("variable", s.Name, s.Line, s.Column)
		case *ast.SwitchStmt:
			l.checkMissingEnumCases(s)
			l.checkFallthrough(s)
		case *ast.SwitchExpr:
			l.checkFallthrough(s)
		}
		return true
	})
}

// --- Lint rules ---

// checkEmptyMethodBody warns if a method body has no statements.
func (l *Linter) checkEmptyMethodBody(name string, body *ast.Block, line, col int) {
	if body == nil || len(body.Statements) == 0 {
		l.diag.Warningf(line, col, "method '%s' has an empty body", name)
	}
}

// checkRestrictedName warns when a declaration is named with a restricted
// identifier. The word stays legal as a name but reads as a keyword.
func (l *Linter) checkRestrictedName(what, name string, line, col int) {
	if lexer.RestrictedKeyword(name) == lexer.NOT_A_TOKEN {
		return
	}
	l.diag.WarningWithHint(diagnostic.LintRestrictedIdentifier, line, col,
		what+" '"+name+"' uses a restricted identifier",
		"rename it; '"+name+"' has a contextual meaning in newer source levels")
}

// checkMissingEnumCases warns about a switch statement over enum constants
// that has no default and leaves constants unhandled.
func (l *Linter) checkMissingEnumCases(sw *ast.SwitchStmt) {
	if sw.Labels.Default != nil {
		return
	}
	var names []string
	for _, s := range sw.Body {
		label, ok := s.(*ast.CaseLabel)
		if !ok {
			continue
		}
		if label.IsDefault() {
			return
		}
		for _, e := range label.Exprs {
			switch n := ast.Unparen(e).(type) {
			case *ast.Name:
				names = append(names, n.Name)
			case *ast.QualifiedName:
				names = append(names, n.Segments[len(n.Segments)-1])
			default:
				return
			}
		}
	}
	if len(names) == 0 {
		return
	}

	enum := l.enumCovering(names)
	if enum == nil {
		return
	}
	covered := make(map[string]bool, len(names))
	for _, n := range names {
		covered[n] = true
	}
	var missing []string
	for _, c := range enum.Constants {
		if !covered[c.Name] {
			missing = append(missing, c.Name)
		}
	}
	if len(missing) == 0 {
		return
	}
	l.diag.WarningWithHint(diagnostic.LintMissingEnumCase, sw.Line, sw.Column,
		"switch on "+enum.Name+" does not handle "+strings.Join(missing, ", "),
		"add the missing cases or a default label")
}

// enumCovering returns the only enum declaring every name, or nil
func (l *Linter) enumCovering(names []string) *ast.EnumDecl {
	var found *ast.EnumDecl
	for _, e := range l.enums {
		constants := make(map[string]bool, len(e.Constants))
		for _, c := range e.Constants {
			constants[c.Name] = true
		}
		all := true
		for _, n := range names {
			if !constants[n] {
				all = false
				break
			}
		}
		if !all {
			continue
		}
		if found != nil {
			return nil
		}
		found = e
	}
	return found
}

// checkFallthrough warns when the statements of a colon label run into the
// next label. Labels stacked without statements between them are fine.
func (l *Linter) checkFallthrough(sw ast.Switch) {
	var group []ast.Statement
	inGroup := false
	for _, s := range sw.Stmts() {
		label, ok := s.(*ast.CaseLabel)
		if !ok {
			group = append(group, s)
			continue
		}
		if inGroup && len(group) > 0 && !completesAbruptly(group[len(group)-1]) {
			l.diag.WarningWithHint(diagnostic.LintFallthrough, label.Line, label.Column,
				"control falls through to "+strings.TrimSuffix(formatLabel(label), " "),
				"end the previous case with break, return or yield")
		}
		inGroup = !label.IsArrow
		group = group[:0]
	}
}

func formatLabel(label *ast.CaseLabel) string {
	if label.IsDefault() {
		return "default"
	}
	exprs := make([]string, len(label.Exprs))
	for i, e := range label.Exprs {
		exprs[i] = ast.ExprString(e)
	}
	return "case " + strings.Join(exprs, ", ")
}

// completesAbruptly reports whether s always transfers control away
func completesAbruptly(s ast.Statement) bool {
	switch n := s.(type) {
	case *ast.ReturnStmt, *ast.BreakStmt, *ast.YieldStmt:
		return true
	case *ast.Block:
		return len(n.Statements) > 0 && completesAbruptly(n.Statements[len(n.Statements)-1])
	case *ast.IfStmt:
		return n.Else != nil && completesAbruptly(n.Then) && completesAbruptly(n.Else)
	}
	return false
}

// checkMethodNaming warns if a method name is not camelCase.
func (l *Linter) checkMethodNaming(name string, line, col int) {
	if !isCamelCase(name) {
		l.diag.Warningf(line, col,
			"method '%s' should use camelCase naming", name)
	}
}

// checkTypeNaming warns if a type name is not PascalCase.
func (l *Linter) checkTypeNaming(name string, line, col int) {
	if !isPascalCase(name) {
		l.diag.Warningf(line, col,
			"type '%s' should use PascalCase naming", name)
	}
}

// checkConstantNaming warns if an enum constant is not UPPER_SNAKE_CASE.
func (l *Linter) checkConstantNaming(enumName, constName string, line, col int) {
	if !isUpperSnakeCase(constName) {
		l.diag.Warningf(line, col,
			"constant '%s' in enum '%s' should use UPPER_SNAKE_CASE naming", constName, enumName)
	}
}

// checkUnusedVariables warns about locals that are never read.
func (l *Linter) checkUnusedVariables(body *ast.Block) {
	used := collectUsedNames(body)
	ast.Inspect(body, func(n ast.Node) bool {
		if decl, ok := n.(*ast.LocalVarDecl); ok && !used[decl.Name] {
			l.diag.Warningf(decl.Line, decl.Column,
				"variable '%s' is declared but never used", decl.Name)
		}
		return true
	})
}

// --- Name collection helpers ---

// collectUsedNames collects every name read under n. The target of an
// assignment is a write, not a read.
func collectUsedNames(n ast.Node) map[string]bool {
	used := make(map[string]bool)
	written := make(map[ast.Expression]bool)
	ast.Inspect(n, func(node ast.Node) bool {
		switch e := node.(type) {
		case *ast.AssignStmt:
			written[e.Target] = true
		case *ast.Name:
			if !written[e] {
				used[e.Name] = true
			}
		case *ast.QualifiedName:
			if !written[e] {
				used[e.Segments[0]] = true
			}
		}
		return true
	})
	return used
}

// --- Naming convention helpers ---

// isCamelCase returns true if the name starts with a lowercase letter and
// contains no underscores.
func isCamelCase(name string) bool {
	if len(name) == 0 {
		return false
	}
	runes := []rune(name)
	if !unicode.IsLower(runes[0]) {
		return false
	}
	return !strings.ContainsRune(name, '_')
}

// isUpperSnakeCase returns true if the name uses uppercase letters, digits,
// and underscores only, not starting with a digit.
func isUpperSnakeCase(name string) bool {
	if len(name) == 0 || unicode.IsDigit([]rune(name)[0]) {
		return false
	}
	for _, r := range name {
		if !unicode.IsUpper(r) && r != '_' && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// isPascalCase returns true if the name starts with an uppercase letter
// and contains no underscores.
func isPascalCase(name string) bool {
	if len(name) == 0 {
		return false
	}
	runes := []rune(name)
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	return !strings.ContainsRune(name, '_')
}
