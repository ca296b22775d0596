package checker

import (
	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/constant"
	"github.com/lhaig/jswitch/internal/diagnostic"
)

// Checker performs semantic analysis on compilation units
type Checker struct {
	units     []*ast.CompilationUnit
	diag      *diagnostic.Diagnostics // diagnostics of the unit being checked
	unitDiags []*diagnostic.Diagnostics
	types     map[string]*Type

	scope     *Scope
	owner     *Type // type whose members are being checked
	method    *ast.MethodDecl
	returnTyp *Type
	resolver  *CaseResolver

	exprTypes map[ast.Expression]*Type
	constants map[ast.Expression]constant.Value
	bindings  map[ast.Expression]*Field
	receivers map[*ast.Name]*Type

	// Switch nesting for break and yield targets
	switches []*switchFrame

	// Methods whose resolution produced no errors, in check order
	clean []*ast.MethodDecl
}

// switchFrame tracks one switch being checked
type switchFrame struct {
	sw     ast.Switch
	yields []*ast.YieldStmt
}

// CheckResult holds the results of type checking for use by later pipeline stages
type CheckResult struct {
	Diagnostics *diagnostic.Diagnostics
	ExprTypes   map[ast.Expression]*Type
	Constants   map[ast.Expression]constant.Value
	Types       map[string]*Type
}

// TypeOf returns the resolved type of e, or nil
func (r *CheckResult) TypeOf(e ast.Expression) *Type {
	return r.ExprTypes[e]
}

// ConstantOf returns the folded value of e
func (r *CheckResult) ConstantOf(e ast.Expression) constant.Value {
	return r.Constants[e]
}

// Check performs semantic analysis on a single compilation unit
func Check(unit *ast.CompilationUnit) *diagnostic.Diagnostics {
	return CheckAll([]*ast.CompilationUnit{unit}).Diagnostics
}

// CheckWithResult performs semantic analysis and returns results for downstream stages
func CheckWithResult(unit *ast.CompilationUnit) *CheckResult {
	return CheckAll([]*ast.CompilationUnit{unit})
}

// CheckAll checks units that see each other's type declarations.
// Pass 1: register type names.
// Pass 2: resolve supertypes and fields.
// Pass 3: check field initializers and fold field constants.
// Pass 4: check method bodies, resolving switch labels.
// Pass 5: flow analysis of methods that resolved without errors.
func CheckAll(units []*ast.CompilationUnit) *CheckResult {
	c := &Checker{
		units:     units,
		types:     make(map[string]*Type),
		exprTypes: make(map[ast.Expression]*Type),
		constants: make(map[ast.Expression]constant.Value),
		bindings:  make(map[ast.Expression]*Field),
		receivers: make(map[*ast.Name]*Type),
	}
	for _, u := range units {
		c.unitDiags = append(c.unitDiags, diagnostic.NewForFile(u.File))
	}

	c.eachUnit(c.registerTypes)
	c.eachUnit(c.resolveMembers)
	c.eachUnit(c.checkFieldInits)
	c.eachUnit(c.checkMethods)

	all := diagnostic.New()
	for _, d := range c.unitDiags {
		all.Merge(d)
	}
	return &CheckResult{
		Diagnostics: all,
		ExprTypes:   c.exprTypes,
		Constants:   c.constants,
		Types:       c.types,
	}
}

// eachUnit runs fn for every unit with its diagnostics selected
func (c *Checker) eachUnit(fn func(u *ast.CompilationUnit)) {
	for i, u := range c.units {
		c.useDiagnostics(c.unitDiags[i])
		fn(u)
	}
}

func (c *Checker) useDiagnostics(d *diagnostic.Diagnostics) {
	c.diag = d
	c.resolver = NewCaseResolver(c, d)
}

func (c *Checker) errorAt(code diagnostic.Code, n ast.Node, format string, args ...interface{}) {
	line, col := n.Pos()
	c.diag.Report(code, line, col, format, args...)
}

// registerTypes declares every type of u by name
func (c *Checker) registerTypes(u *ast.CompilationUnit) {
	for _, decl := range u.Types {
		name := decl.TypeName()
		if _, exists := c.types[name]; exists || LookupBuiltin(name) != nil {
			c.errorAt(diagnostic.DuplicateDeclaration, decl, "duplicate type '%s'", name)
			continue
		}
		t := &Type{Name: name, Kind: KindClass, Fields: make(map[string]*Field), decl: decl, diags: c.diag}
		if _, ok := decl.(*ast.EnumDecl); ok {
			t.Kind = KindEnum
			t.Enum = &EnumInfo{}
		}
		c.types[name] = t
	}
}

// resolveMembers resolves supertypes and binds fields of every type in u
func (c *Checker) resolveMembers(u *ast.CompilationUnit) {
	for _, decl := range u.Types {
		t := c.types[decl.TypeName()]
		if t == nil || t.decl != decl {
			continue
		}
		switch d := decl.(type) {
		case *ast.EnumDecl:
			t.Supers = c.resolveTypeRefs(d.Implements)
			for _, ec := range d.Constants {
				f := &Field{Name: ec.Name, Type: t, Owner: t, Static: true, Final: true, IsEnumConstant: true}
				if c.addField(t, f, ec) {
					t.Enum.Constants = append(t.Enum.Constants, f)
				}
			}
			c.addFieldDecls(t, d.Fields)
		case *ast.ClassDecl:
			t.Supers = append(c.resolveTypeRefs(d.Extends), c.resolveTypeRefs(d.Implements)...)
			for _, p := range d.Components {
				if pt := c.resolveTypeRef(p.Type); pt != nil {
					c.addField(t, &Field{Name: p.Name, Type: pt, Owner: t, Final: true}, p)
				}
			}
			c.addFieldDecls(t, d.Fields)
			if d.Kind == ast.KindInterface {
				// interface fields are implicitly static final
				for _, f := range t.Fields {
					f.Static, f.Final = true, true
				}
			}
		}
	}
}

func (c *Checker) addFieldDecls(t *Type, decls []*ast.FieldDecl) {
	for _, fd := range decls {
		ft := c.resolveTypeRef(fd.Type)
		if ft == nil {
			continue
		}
		c.addField(t, &Field{
			Name:   fd.Name,
			Type:   ft,
			Owner:  t,
			Static: fd.Modifiers.Static,
			Final:  fd.Modifiers.Final,
			decl:   fd,
		}, fd)
	}
}

// addField numbers f after the fields already declared in t
func (c *Checker) addField(t *Type, f *Field, at ast.Node) bool {
	if _, exists := t.Fields[f.Name]; exists {
		c.errorAt(diagnostic.DuplicateDeclaration, at, "duplicate field %s.%s", t.Name, f.Name)
		return false
	}
	f.Index = len(t.Fields)
	t.Fields[f.Name] = f
	return true
}

func (c *Checker) resolveTypeRefs(refs []*ast.TypeRef) []*Type {
	var out []*Type
	for _, ref := range refs {
		if t := c.resolveTypeRef(ref); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// resolveTypeRef resolves a type reference, reporting unknown names
func (c *Checker) resolveTypeRef(ref *ast.TypeRef) *Type {
	if ref == nil {
		return TypeVoid
	}
	if t := c.lookupType(ref.Name); t != nil {
		return t
	}
	c.errorAt(diagnostic.UndefinedType, ref, "%s cannot be resolved to a type", ref.Name)
	return nil
}

func (c *Checker) lookupType(name string) *Type {
	if t := LookupBuiltin(name); t != nil {
		return t
	}
	return c.types[name]
}

// checkFieldInits type-checks field initializers and folds their constants
func (c *Checker) checkFieldInits(u *ast.CompilationUnit) {
	for _, decl := range u.Types {
		t := c.types[decl.TypeName()]
		if t == nil || t.decl != decl {
			continue
		}
		fields := make([]*Field, len(t.Fields))
		for _, f := range t.Fields {
			fields[f.Index] = f
		}
		for _, f := range fields {
			if f.decl != nil && f.decl.Init != nil {
				c.fieldConstant(f)
			}
		}
	}
}

// checkMethods checks every method body in u, then runs flow analysis on
// the methods that resolved cleanly.
func (c *Checker) checkMethods(u *ast.CompilationUnit) {
	c.clean = c.clean[:0]
	u.Methods(func(owner ast.TypeDecl, m *ast.MethodDecl) {
		t := c.types[owner.TypeName()]
		if t == nil || t.decl != owner {
			return
		}
		c.checkMethod(t, m)
	})
	for _, m := range c.clean {
		c.analyseMethod(m)
	}
}

func (c *Checker) checkMethod(owner *Type, m *ast.MethodDecl) {
	before := c.diag.ErrorCount()

	c.owner = owner
	c.method = m
	c.returnTyp = c.resolveTypeRef(m.ReturnType)
	c.scope = NewScope(nil)
	for _, p := range m.Params {
		pt := c.resolveTypeRef(p.Type)
		if err := c.scope.Define(p.Name, &Symbol{Name: p.Name, Type: pt, Kind: SymParam}); err != nil {
			c.errorAt(diagnostic.DuplicateDeclaration, p, "%s", err)
		}
	}
	if m.Body != nil {
		c.checkStatements(m.Body.Statements)
	}
	c.owner, c.method, c.scope = nil, nil, nil

	if m.Body != nil && c.diag.ErrorCount() == before {
		c.clean = append(c.clean, m)
	}
}

// ResolveType implements Evaluator
func (c *Checker) ResolveType(expr ast.Expression) *Type {
	return c.checkExpr(expr)
}

// Constant implements Evaluator
func (c *Checker) Constant(expr ast.Expression) constant.Value {
	return c.constants[expr]
}

// FieldBinding implements Evaluator
func (c *Checker) FieldBinding(expr ast.Expression) *Field {
	return c.bindings[expr]
}

// TagReceiver implements Evaluator
func (c *Checker) TagReceiver(name *ast.Name, enum *Type) {
	c.receivers[name] = enum
}
