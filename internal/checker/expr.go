package checker

import (
	"strings"

	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/constant"
	"github.com/lhaig/jswitch/internal/diagnostic"
	"github.com/lhaig/jswitch/internal/lexer"
)

// checkExpr resolves the type of e and records its folded value. Results are
// cached, so an expression is only ever checked and reported once.
func (c *Checker) checkExpr(e ast.Expression) *Type {
	if e == nil {
		return nil
	}
	if t, ok := c.exprTypes[e]; ok {
		return t
	}
	t, v := c.inferExpr(e)
	c.exprTypes[e] = t
	if v.IsConstant() {
		c.constants[e] = v
	}
	return t
}

func (c *Checker) inferExpr(e ast.Expression) (*Type, constant.Value) {
	switch n := e.(type) {
	case *ast.IntLit:
		return c.checkIntLit(n, false)

	case *ast.CharLit:
		s, err := unquote(n.Raw)
		if err != nil || len([]rune(s)) != 1 {
			c.errorAt(diagnostic.InvalidOperand, n, "invalid character constant %s", n.Raw)
			return TypeChar, constant.Unknown
		}
		return TypeChar, constant.MakeInt(int64([]rune(s)[0]))

	case *ast.StringLit:
		s, err := unquote(n.Raw)
		if err != nil {
			c.errorAt(diagnostic.InvalidOperand, n, "%s", err)
			return TypeString, constant.Unknown
		}
		return TypeString, constant.MakeString(s)

	case *ast.BoolLit:
		return TypeBoolean, constant.MakeBool(n.Value)

	case *ast.NullLit:
		return TypeNull, constant.Unknown

	case *ast.Name:
		return c.checkName(n)

	case *ast.QualifiedName:
		return c.checkQualifiedName(n)

	case *ast.ParenExpr:
		t := c.checkExpr(n.X)
		if f := c.bindings[n.X]; f != nil {
			c.bindings[n] = f
		}
		return t, c.constants[n.X]

	case *ast.UnaryExpr:
		return c.checkUnary(n)

	case *ast.BinaryExpr:
		return c.checkBinary(n)

	case *ast.SwitchExpr:
		return c.checkSwitch(n), constant.Unknown
	}

	c.errorAt(diagnostic.InvalidOperand, e, "unsupported expression")
	return nil, constant.Unknown
}

func (c *Checker) checkIntLit(n *ast.IntLit, negated bool) (*Type, constant.Value) {
	t := TypeInt
	if n.Long {
		t = TypeLong
	}
	v, err := intLiteral(n, negated)
	if err != nil {
		c.errorAt(diagnostic.InvalidOperand, n, "%s", err)
		return t, constant.Unknown
	}
	return t, constant.MakeInt(v)
}

// checkName resolves a bare identifier. A name tagged with an enum receiver
// resolves among that enum's members only; otherwise locals and parameters
// are searched before the fields of the enclosing type.
func (c *Checker) checkName(n *ast.Name) (*Type, constant.Value) {
	if enum := c.receivers[n]; enum != nil {
		f := enum.Fields[n.Name]
		if f == nil {
			c.errorAt(diagnostic.UndefinedName, n, "%s cannot be resolved or is not a field of %s", n.Name, enum)
			return nil, constant.Unknown
		}
		return c.bindField(n, f)
	}

	if c.scope != nil {
		if sym := c.scope.Resolve(n.Name); sym != nil {
			return sym.Type, sym.Const
		}
	}
	if c.owner != nil {
		if f := c.owner.Fields[n.Name]; f != nil {
			return c.bindField(n, f)
		}
	}
	c.errorAt(diagnostic.UndefinedName, n, "%s cannot be resolved to a variable", n.Name)
	return nil, constant.Unknown
}

// bindField records that e denotes f and returns its type and value
func (c *Checker) bindField(e ast.Expression, f *Field) (*Type, constant.Value) {
	c.bindings[e] = f
	if f.IsEnumConstant {
		return f.Type, constant.Unknown
	}
	return f.Type, c.fieldConstant(f)
}

// checkQualifiedName resolves an access path. The longest prefix naming a
// type qualifies the first field; a leading variable qualifies instance
// fields.
func (c *Checker) checkQualifiedName(n *ast.QualifiedName) (*Type, constant.Value) {
	var cur *Type
	rest := n.Segments

	if c.scope != nil {
		if sym := c.scope.Resolve(rest[0]); sym != nil {
			cur, rest = sym.Type, rest[1:]
		}
	}
	if cur == nil && c.owner != nil {
		if f := c.owner.Fields[rest[0]]; f != nil {
			cur, rest = f.Type, rest[1:]
		}
	}
	if cur == nil {
		for i := len(rest) - 1; i >= 1; i-- {
			if t := c.lookupType(strings.Join(rest[:i], ".")); t != nil {
				cur, rest = t, rest[i:]
				break
			}
		}
	}
	if cur == nil {
		c.errorAt(diagnostic.UndefinedName, n, "%s cannot be resolved", rest[0])
		return nil, constant.Unknown
	}

	var field *Field
	for _, seg := range rest {
		if cur == nil {
			return nil, constant.Unknown
		}
		if cur.Fields == nil || cur.Fields[seg] == nil {
			c.errorAt(diagnostic.UndefinedName, n, "%s cannot be resolved or is not a field of %s", seg, cur)
			return nil, constant.Unknown
		}
		field = cur.Fields[seg]
		cur = field.Type
	}
	return c.bindField(n, field)
}

func (c *Checker) checkUnary(n *ast.UnaryExpr) (*Type, constant.Value) {
	if lit, ok := n.Operand.(*ast.IntLit); ok && n.Op == lexer.MINUS {
		// -2147483648 is only representable as a negated literal
		t, v := c.checkIntLit(lit, true)
		c.exprTypes[lit] = t
		if v.IsConstant() {
			c.constants[lit] = constant.MakeInt(-v.Int64())
		}
		return t, v
	}

	operand := c.checkExpr(n.Operand)
	if operand == nil {
		return nil, constant.Unknown
	}
	value := c.constants[n.Operand]

	switch n.Op {
	case lexer.NOT:
		if !isBoolean(operand) {
			c.errorAt(diagnostic.InvalidOperand, n, "the operator ! is undefined for the argument type %s", operand)
			return nil, constant.Unknown
		}
		return TypeBoolean, foldUnary(n.Op, value, TypeBoolean)
	case lexer.TILDE:
		if !isIntegral(operand) {
			c.errorAt(diagnostic.InvalidOperand, n, "the operator ~ is undefined for the argument type %s", operand)
			return nil, constant.Unknown
		}
	default:
		if !isNumeric(operand) {
			c.errorAt(diagnostic.InvalidOperand, n, "the operator %s is undefined for the argument type %s", n.Op, operand)
			return nil, constant.Unknown
		}
	}
	t := unaryPromotion(operand)
	return t, foldUnary(n.Op, value, t)
}

func (c *Checker) checkBinary(n *ast.BinaryExpr) (*Type, constant.Value) {
	left := c.checkExpr(n.Left)
	right := c.checkExpr(n.Right)
	if left == nil || right == nil {
		return nil, constant.Unknown
	}
	lv, rv := c.constants[n.Left], c.constants[n.Right]

	undefined := func() (*Type, constant.Value) {
		c.errorAt(diagnostic.InvalidOperand, n, "the operator %s is undefined for the argument types %s, %s", n.Op, left, right)
		return nil, constant.Unknown
	}

	switch n.Op {
	case lexer.PLUS:
		if left == TypeString || right == TypeString {
			if left == TypeVoid || right == TypeVoid {
				return undefined()
			}
			return TypeString, foldBinary(n.Op, concatString(lv, left), concatString(rv, right), TypeString)
		}
		fallthrough
	case lexer.MINUS, lexer.STAR, lexer.SLASH, lexer.PERCENT:
		if !isNumeric(left) || !isNumeric(right) {
			return undefined()
		}
		t := binaryPromotion(left, right)
		if !isIntegral(t) {
			return t, constant.Unknown
		}
		return t, foldBinary(n.Op, lv, rv, t)

	case lexer.SHL, lexer.SHR, lexer.USHR:
		if !isIntegral(left) || !isIntegral(right) {
			return undefined()
		}
		t := unaryPromotion(left)
		return t, foldBinary(n.Op, lv, rv, t)

	case lexer.AMP, lexer.PIPE, lexer.CARET:
		if isBoolean(left) && isBoolean(right) {
			return TypeBoolean, foldBinary(n.Op, lv, rv, TypeBoolean)
		}
		if !isIntegral(left) || !isIntegral(right) {
			return undefined()
		}
		t := binaryPromotion(left, right)
		return t, foldBinary(n.Op, lv, rv, t)

	case lexer.AND_AND, lexer.OR_OR:
		if !isBoolean(left) || !isBoolean(right) {
			return undefined()
		}
		return TypeBoolean, foldBinary(n.Op, lv, rv, TypeBoolean)

	case lexer.LT, lexer.GT, lexer.LEQ, lexer.GEQ:
		if !isNumeric(left) || !isNumeric(right) {
			return undefined()
		}
		if !isIntegral(binaryPromotion(left, right)) {
			return TypeBoolean, constant.Unknown
		}
		return TypeBoolean, foldBinary(n.Op, lv, rv, TypeBoolean)

	case lexer.EQ, lexer.NEQ:
		switch {
		case isNumeric(left) && isNumeric(right):
			if !isIntegral(binaryPromotion(left, right)) {
				return TypeBoolean, constant.Unknown
			}
		case isBoolean(left) && isBoolean(right):
		case left.IsReference() && right.IsReference() &&
			(left.IsCompatibleWith(right) || right.IsCompatibleWith(left)):
		default:
			return undefined()
		}
		return TypeBoolean, foldBinary(n.Op, lv, rv, TypeBoolean)
	}

	return undefined()
}
