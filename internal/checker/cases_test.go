package checker

import (
	"testing"

	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/constant"
	"github.com/lhaig/jswitch/internal/diagnostic"
)

// stubEval answers the resolver from fixed tables.
type stubEval struct {
	types  map[ast.Expression]*Type
	values map[ast.Expression]constant.Value
	fields map[ast.Expression]*Field
	tagged map[*ast.Name]*Type
}

func newStubEval() *stubEval {
	return &stubEval{
		types:  make(map[ast.Expression]*Type),
		values: make(map[ast.Expression]constant.Value),
		fields: make(map[ast.Expression]*Field),
		tagged: make(map[*ast.Name]*Type),
	}
}

func (s *stubEval) ResolveType(e ast.Expression) *Type { return s.types[e] }
func (s *stubEval) Constant(e ast.Expression) constant.Value { return s.values[e] }
func (s *stubEval) FieldBinding(e ast.Expression) *Field { return s.fields[e] }
func (s *stubEval) TagReceiver(name *ast.Name, enum *Type) { s.tagged[name] = enum }
func (s *stubEval) set(e ast.Expression, t *Type, v constant.Value) { s.types[e], s.values[e] = t, v }

func caseOf(exprs ...ast.Expression) *ast.CaseLabel {
	return &ast.CaseLabel{Span: ast.Span{Line: 1, Column: 1}, Exprs: exprs}
}

func colorEnum() *Type {
	t := &Type{Name: "Color", Kind: KindEnum, Enum: &EnumInfo{}, Fields: make(map[string]*Field)}
	for i, name := range []string{"RED", "GREEN", "BLUE"} {
		f := &Field{Name: name, Type: t, Owner: t, Static: true, Final: true, IsEnumConstant: true, Index: i}
		t.Fields[name] = f
		t.Enum.Constants = append(t.Enum.Constants, f)
	}
	return t
}

func TestResolveBoxedLabelOnPrimitiveSelector(t *testing.T) {
	eval := newStubEval()
	diags := diagnostic.New()
	r := NewCaseResolver(eval, diags)

	expr := &ast.Name{Name: "boxed"}
	eval.set(expr, TypeBoxedInt, constant.MakeInt(7))

	v := r.Resolve(caseOf(expr), TypeInt, &ast.SwitchStmt{})
	if !v.Equal(constant.MakeInt(7)) {
		t.Errorf("expected 7, got %s", v)
	}
	if diags.Count() != 0 {
		t.Errorf("boxing should be silent, got:\n%s", diags.Format("test"))
	}
}

func TestResolveEnumWithoutFieldBinding(t *testing.T) {
	color := colorEnum()
	eval := newStubEval()
	diags := diagnostic.New()
	r := NewCaseResolver(eval, diags)

	expr := &ast.BinaryExpr{Left: &ast.Name{Name: "a"}, Right: &ast.Name{Name: "b"}}
	eval.set(expr, color, constant.Unknown)

	v := r.Resolve(caseOf(expr), color, &ast.SwitchStmt{})
	if v.IsConstant() {
		t.Errorf("expected NotAConstant, got %s", v)
	}
	if got := diags.WithCode(diagnostic.TypeMismatch); len(got) != 1 || diags.Count() != 1 {
		t.Errorf("expected one type mismatch, got:\n%s", diags.Format("test"))
	}
}

func TestResolveTagsEnumReceivers(t *testing.T) {
	color := colorEnum()

	tests := []struct {
		name     string
		selector *Type
		expr     func(n *ast.Name) ast.Expression
		tagged   bool
	}{
		{"bare name", color, func(n *ast.Name) ast.Expression { return n }, true},
		{"parenthesized", color, func(n *ast.Name) ast.Expression {
			return &ast.ParenExpr{X: &ast.ParenExpr{X: n}}
		}, true},
		{"int selector", TypeInt, func(n *ast.Name) ast.Expression { return n }, false},
		{"unresolved selector", nil, func(n *ast.Name) ast.Expression { return n }, false},
		{"inside binary", color, func(n *ast.Name) ast.Expression {
			return &ast.BinaryExpr{Left: n, Right: &ast.IntLit{Raw: "1"}}
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := newStubEval()
			r := NewCaseResolver(eval, diagnostic.New())
			name := &ast.Name{Name: "RED"}
			r.Resolve(caseOf(tt.expr(name)), tt.selector, &ast.SwitchStmt{})

			_, tagged := eval.tagged[name]
			if tagged != tt.tagged {
				t.Errorf("tagged = %v, want %v", tagged, tt.tagged)
			}
			if tagged && eval.tagged[name] != color {
				t.Error("tagged with the wrong receiver")
			}
		})
	}
}

func TestResolveEnumConstants(t *testing.T) {
	color := colorEnum()
	eval := newStubEval()
	diags := diagnostic.New()
	r := NewCaseResolver(eval, diags)

	blue := &ast.Name{Name: "BLUE"}
	eval.set(blue, color, constant.Unknown)
	eval.fields[blue] = color.Fields["BLUE"]

	label := caseOf(blue)
	first := r.Resolve(label, color, &ast.SwitchStmt{})
	second := r.Resolve(label, color, &ast.SwitchStmt{})
	if first.Kind() != constant.EnumOrdinal || first.Int64() != 3 {
		t.Errorf("expected enum key 3, got %s", first)
	}
	if !first.Equal(second) {
		t.Errorf("resolution is not stable: %s then %s", first, second)
	}
	if diags.Count() != 0 {
		t.Errorf("unexpected diagnostics:\n%s", diags.Format("test"))
	}
}

func TestResolveMultiExpressionLabel(t *testing.T) {
	eval := newStubEval()
	diags := diagnostic.New()
	r := NewCaseResolver(eval, diags)

	one, two := &ast.IntLit{Raw: "1"}, &ast.IntLit{Raw: "2"}
	eval.set(one, TypeInt, constant.MakeInt(1))
	eval.set(two, TypeInt, constant.MakeInt(2))

	label := caseOf(one, two)
	if v := r.Resolve(label, TypeInt, &ast.SwitchStmt{}); v.IsConstant() {
		t.Errorf("a multi-expression label has no single value, got %s", v)
	}
	if len(label.Constants) != 2 || label.Constants[0].Int64() != 1 || label.Constants[1].Int64() != 2 {
		t.Errorf("unexpected constants %v", label.Constants)
	}
}

func TestResolveSkipsUnresolvedInputs(t *testing.T) {
	tests := []struct {
		name     string
		caseType *Type
		selector *Type
	}{
		{"unresolved case", nil, TypeInt},
		{"unresolved selector", TypeString, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := newStubEval()
			diags := diagnostic.New()
			r := NewCaseResolver(eval, diags)

			expr := &ast.Name{Name: "x"}
			eval.set(expr, tt.caseType, constant.MakeString("x"))
			if v := r.Resolve(caseOf(expr), tt.selector, &ast.SwitchStmt{}); v.IsConstant() {
				t.Errorf("expected NotAConstant, got %s", v)
			}
			if diags.Count() != 0 {
				t.Errorf("unexpected diagnostics:\n%s", diags.Format("test"))
			}
		})
	}
}

func TestRegistryAddCase(t *testing.T) {
	const n = 4
	reg := NewRegistry(diagnostic.New())
	sw := &ast.SwitchExpr{}

	var added []*ast.CaseLabel
	for i := 0; i <= n; i++ {
		label := caseOf(&ast.IntLit{Raw: "1"})
		reg.AddCase(sw, label)
		added = append(added, label)
	}

	list := sw.Registry()
	if list.Count != n+1 || len(list.Cases) != n+1 {
		t.Fatalf("expected %d cases, got count %d and %d entries", n+1, list.Count, len(list.Cases))
	}
	for i := range added {
		if list.Cases[i] != added[i] {
			t.Errorf("case %d out of order", i)
		}
	}
}

func TestRegistrySetDefault(t *testing.T) {
	diags := diagnostic.New()
	reg := NewRegistry(diags)
	sw := &ast.SwitchStmt{}

	first := &ast.CaseLabel{Span: ast.Span{Line: 2, Column: 3}}
	second := &ast.CaseLabel{Span: ast.Span{Line: 5, Column: 3}}
	reg.SetDefault(sw, first)
	if diags.Count() != 0 {
		t.Fatalf("a first default is not an error:\n%s", diags.Format("test"))
	}
	reg.SetDefault(sw, second)

	got := diags.WithCode(diagnostic.DuplicateDefaultCase)
	if len(got) != 1 || diags.Count() != 1 {
		t.Fatalf("expected one duplicate default, got:\n%s", diags.Format("test"))
	}
	if got[0].Line != 5 {
		t.Errorf("expected the second default to be reported, got line %d", got[0].Line)
	}
	if sw.Labels.Default != second {
		t.Error("the last default should win")
	}
	if sw.Labels.Count != 0 {
		t.Errorf("defaults are not counted as cases, got %d", sw.Labels.Count)
	}
}
