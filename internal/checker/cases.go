package checker

import (
	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/constant"
	"github.com/lhaig/jswitch/internal/diagnostic"
)

// Evaluator resolves case expressions on behalf of a CaseResolver. ResolveType
// returns nil when the expression cannot be typed because of an error that
// was already reported. Constant and FieldBinding are only meaningful after
// ResolveType.
type Evaluator interface {
	ResolveType(expr ast.Expression) *Type
	Constant(expr ast.Expression) constant.Value
	FieldBinding(expr ast.Expression) *Field
	// TagReceiver makes name resolve against the members of enum instead of
	// the enclosing scope.
	TagReceiver(name *ast.Name, enum *Type)
}

// CaseResolver registers and folds the labels of switch statements and
// switch expressions.
type CaseResolver struct {
	eval     Evaluator
	diags    *diagnostic.Diagnostics
	registry Registry
}

// NewCaseResolver creates a resolver reporting into diags.
func NewCaseResolver(eval Evaluator, diags *diagnostic.Diagnostics) *CaseResolver {
	return &CaseResolver{
		eval:     eval,
		diags:    diags,
		registry: NewRegistry(diags),
	}
}

// Resolve registers label with sw and folds it against the selector type.
//
// A default label is installed with SetDefault and yields NotAConstant.
// Otherwise every expression is folded independently into label.Constants;
// the result is that fold for a single-expression label and NotAConstant for
// a multi-expression label. A nil selector means the selector failed to
// resolve, in which case no further diagnostics are produced.
func (r *CaseResolver) Resolve(label *ast.CaseLabel, selector *Type, sw ast.Switch) constant.Value {
	if label.IsDefault() {
		r.registry.SetDefault(sw, label)
		return constant.Unknown
	}

	r.registry.AddCase(sw, label)
	label.Constants = make([]constant.Value, len(label.Exprs))
	for i, expr := range label.Exprs {
		label.Constants[i] = r.resolveExpr(expr, selector)
	}
	if len(label.Exprs) == 1 {
		return label.Constants[0]
	}
	return constant.Unknown
}

func (r *CaseResolver) resolveExpr(expr ast.Expression, selector *Type) constant.Value {
	// Enum case labels name constants without the type prefix.
	if selector.IsEnum() {
		if name, ok := ast.Unparen(expr).(*ast.Name); ok {
			r.eval.TagReceiver(name, selector)
		}
	}

	caseType := r.eval.ResolveType(expr)
	if caseType == nil || selector == nil {
		return constant.Unknown
	}

	value := r.eval.Constant(expr)
	switch {
	case ConstantAssignable(value, caseType, selector) || caseType.IsCompatibleWith(selector):
		if !caseType.IsEnum() {
			return value
		}
		if ast.IsParenthesized(expr) {
			r.report(diagnostic.EnumConstantsCannotBeSurroundedByParens, expr,
				"enum constants cannot be surrounded by parenthesis")
		}
		ref := ast.Unparen(expr)
		if field := r.eval.FieldBinding(ref); field != nil {
			if !field.IsEnumConstant {
				r.report(diagnostic.EnumSwitchCannotTargetField, ref,
					"an enum switch case label must be the unqualified name of an enumeration constant, '%s' is a field", field.Name)
			} else if _, qualified := ref.(*ast.QualifiedName); qualified {
				r.report(diagnostic.CannotUseQualifiedEnumConstantInCaseLabel, ref,
					"the qualified case label %s must be replaced with the unqualified enum constant %s",
					ast.ExprString(ref), field.Name)
			}
			return constant.MakeEnumOrdinal(field.Index)
		}
	case BoxingAssignable(value, caseType, selector):
		// Boxing in a case label is accepted without a conversion warning.
		return value
	}

	r.report(diagnostic.TypeMismatch, expr, "type mismatch: cannot convert from %s to %s", caseType, selector)
	return constant.Unknown
}

func (r *CaseResolver) report(code diagnostic.Code, at ast.Node, format string, args ...interface{}) {
	line, col := at.Pos()
	r.diags.Report(code, line, col, format, args...)
}
