package checker

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/constant"
	"github.com/lhaig/jswitch/internal/diagnostic"
	"github.com/lhaig/jswitch/internal/lexer"
)

// fieldConstant returns the folded value of a constant field, checking its
// initializer on first use. Repeated calls return the cached value; a field
// reached again while its own initializer is being folded is not a constant.
func (c *Checker) fieldConstant(f *Field) constant.Value {
	switch f.state {
	case foldDone:
		return f.value
	case foldActive:
		return constant.Unknown
	}
	f.state = foldActive

	var value constant.Value
	if f.decl != nil && f.decl.Init != nil {
		value = c.checkFieldInit(f)
	}
	if !f.Final || !isConstantType(f.Type) {
		value = constant.Unknown
	}

	f.value = value
	f.state = foldDone
	return value
}

// checkFieldInit checks the initializer of f in the context of its owner
func (c *Checker) checkFieldInit(f *Field) constant.Value {
	owner, method, returnTyp, scope, switches, diag := c.owner, c.method, c.returnTyp, c.scope, c.switches, c.diag
	defer func() {
		c.owner, c.method, c.returnTyp, c.scope, c.switches = owner, method, returnTyp, scope, switches
		c.useDiagnostics(diag)
	}()

	c.owner, c.method, c.returnTyp, c.scope, c.switches = f.Owner, nil, nil, NewScope(nil), nil
	if f.Owner.diags != nil {
		c.useDiagnostics(f.Owner.diags)
	}

	init := f.decl.Init
	t := c.checkExpr(init)
	if t == nil {
		return constant.Unknown
	}
	value := c.constants[init]
	if !Assignable(value, t, f.Type) {
		c.errorAt(diagnostic.TypeMismatch, init, "type mismatch: cannot convert from %s to %s", t, f.Type)
		return constant.Unknown
	}
	return convertConstant(value, f.Type)
}

// convertConstant narrows or widens an integral constant to the value it
// takes once stored in a variable of type t.
func convertConstant(v constant.Value, t *Type) constant.Value {
	if v.Kind() != constant.Int {
		return v
	}
	switch Unbox(t).Kind {
	case KindByte:
		return constant.MakeInt(int64(int8(v.Int64())))
	case KindShort:
		return constant.MakeInt(int64(int16(v.Int64())))
	case KindChar:
		return constant.MakeInt(int64(uint16(v.Int64())))
	case KindInt:
		return constant.MakeInt(int64(int32(v.Int64())))
	case KindLong:
		return v
	}
	return constant.Unknown
}

// intLiteral parses an int or long literal. A negated decimal literal may
// reach the magnitude of the most negative value.
func intLiteral(lit *ast.IntLit, negated bool) (int64, error) {
	digits := strings.ReplaceAll(lit.Raw, "_", "")
	digits = strings.TrimRight(digits, "lL")

	base := 10
	switch {
	case strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X"):
		base, digits = 16, digits[2:]
	case strings.HasPrefix(digits, "0b") || strings.HasPrefix(digits, "0B"):
		base, digits = 2, digits[2:]
	case len(digits) > 1 && digits[0] == '0':
		base, digits = 8, digits[1:]
	}

	bits := 32
	if lit.Long {
		bits = 64
	}
	u, err := strconv.ParseUint(digits, base, bits)
	if err != nil {
		return 0, fmt.Errorf("the literal %s of type %s is out of range", lit.Raw, literalType(lit))
	}

	if base != 10 {
		if lit.Long {
			return int64(u), nil
		}
		return int64(int32(uint32(u))), nil
	}

	limit := uint64(math.MaxInt32)
	if lit.Long {
		limit = math.MaxInt64
	}
	if u > limit+1 || (u == limit+1 && !negated) {
		return 0, fmt.Errorf("the literal %s of type %s is out of range", lit.Raw, literalType(lit))
	}
	if negated {
		return -int64(u), nil
	}
	return int64(u), nil
}

func literalType(lit *ast.IntLit) string {
	if lit.Long {
		return "long"
	}
	return "int"
}

// unquote decodes a char or string literal including its quotes
func unquote(raw string) (string, error) {
	if len(raw) < 2 {
		return "", fmt.Errorf("malformed literal %s", raw)
	}
	body := raw[1 : len(raw)-1]

	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' {
			sb.WriteByte(ch)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("invalid escape sequence in %s", raw)
		}
		switch esc := body[i]; esc {
		case 'b':
			sb.WriteByte('\b')
		case 't':
			sb.WriteByte('\t')
		case 'n':
			sb.WriteByte('\n')
		case 'f':
			sb.WriteByte('\f')
		case 'r':
			sb.WriteByte('\r')
		case 's':
			sb.WriteByte(' ')
		case '"', '\'', '\\':
			sb.WriteByte(esc)
		case 'u':
			for i+1 < len(body) && body[i+1] == 'u' {
				i++
			}
			if i+5 > len(body) {
				return "", fmt.Errorf("invalid unicode escape in %s", raw)
			}
			r, err := strconv.ParseUint(body[i+1:i+5], 16, 16)
			if err != nil {
				return "", fmt.Errorf("invalid unicode escape in %s", raw)
			}
			sb.WriteRune(rune(r))
			i += 4
		default:
			if esc < '0' || esc > '7' {
				return "", fmt.Errorf("invalid escape sequence \\%c in %s", esc, raw)
			}
			n := int(esc - '0')
			maxDigits := 2
			if esc > '3' {
				maxDigits = 1
			}
			for j := 0; j < maxDigits && i+1 < len(body) && body[i+1] >= '0' && body[i+1] <= '7'; j++ {
				i++
				n = n*8 + int(body[i]-'0')
			}
			sb.WriteRune(rune(n))
		}
	}
	return sb.String(), nil
}

// foldUnary folds a unary operator applied to a constant of type t
func foldUnary(op lexer.TokenType, v constant.Value, t *Type) constant.Value {
	switch {
	case !v.IsConstant():
		return constant.Unknown
	case op == lexer.NOT && v.Kind() == constant.Bool:
		return constant.MakeBool(!v.Bool())
	case v.Kind() != constant.Int:
		return constant.Unknown
	}
	x := v.Int64()
	switch op {
	case lexer.PLUS:
		return narrow(x, t)
	case lexer.MINUS:
		return narrow(-x, t)
	case lexer.TILDE:
		return narrow(^x, t)
	}
	return constant.Unknown
}

// narrow wraps x to the width of the integral result type t
func narrow(x int64, t *Type) constant.Value {
	if t == TypeLong {
		return constant.MakeInt(x)
	}
	return constant.MakeInt(int64(int32(x)))
}

// foldBinary folds a binary operator over constant operands; result is the
// type of the expression. String operands must already be concatenation
// ready.
func foldBinary(op lexer.TokenType, l, r constant.Value, result *Type) constant.Value {
	if !l.IsConstant() || !r.IsConstant() {
		return constant.Unknown
	}

	if result == TypeString {
		return constant.MakeString(l.Str() + r.Str())
	}

	if l.Kind() == constant.Bool && r.Kind() == constant.Bool {
		a, b := l.Bool(), r.Bool()
		switch op {
		case lexer.AND_AND, lexer.AMP:
			return constant.MakeBool(a && b)
		case lexer.OR_OR, lexer.PIPE:
			return constant.MakeBool(a || b)
		case lexer.CARET, lexer.NEQ:
			return constant.MakeBool(a != b)
		case lexer.EQ:
			return constant.MakeBool(a == b)
		}
		return constant.Unknown
	}

	if l.Kind() == constant.String && r.Kind() == constant.String {
		switch op {
		case lexer.EQ:
			return constant.MakeBool(l.Str() == r.Str())
		case lexer.NEQ:
			return constant.MakeBool(l.Str() != r.Str())
		}
		return constant.Unknown
	}

	if l.Kind() != constant.Int || r.Kind() != constant.Int {
		return constant.Unknown
	}
	a, b := l.Int64(), r.Int64()
	switch op {
	case lexer.PLUS:
		return narrow(a+b, result)
	case lexer.MINUS:
		return narrow(a-b, result)
	case lexer.STAR:
		return narrow(a*b, result)
	case lexer.SLASH, lexer.PERCENT:
		if b == 0 {
			return constant.Unknown
		}
		if op == lexer.SLASH {
			if result != TypeLong {
				return narrow(int64(int32(a)/int32(b)), result)
			}
			return narrow(a/b, result)
		}
		if result != TypeLong {
			return narrow(int64(int32(a)%int32(b)), result)
		}
		return narrow(a%b, result)
	case lexer.AMP:
		return narrow(a&b, result)
	case lexer.PIPE:
		return narrow(a|b, result)
	case lexer.CARET:
		return narrow(a^b, result)
	case lexer.SHL, lexer.SHR, lexer.USHR:
		return foldShift(op, a, b, result)
	case lexer.EQ:
		return constant.MakeBool(a == b)
	case lexer.NEQ:
		return constant.MakeBool(a != b)
	case lexer.LT:
		return constant.MakeBool(a < b)
	case lexer.GT:
		return constant.MakeBool(a > b)
	case lexer.LEQ:
		return constant.MakeBool(a <= b)
	case lexer.GEQ:
		return constant.MakeBool(a >= b)
	}
	return constant.Unknown
}

// foldShift masks the shift distance to the width of the left operand
func foldShift(op lexer.TokenType, a, b int64, result *Type) constant.Value {
	if result == TypeLong {
		n := uint(b & 63)
		switch op {
		case lexer.SHL:
			return constant.MakeInt(a << n)
		case lexer.SHR:
			return constant.MakeInt(a >> n)
		default:
			return constant.MakeInt(int64(uint64(a) >> n))
		}
	}
	x, n := int32(a), uint(b&31)
	switch op {
	case lexer.SHL:
		return constant.MakeInt(int64(x << n))
	case lexer.SHR:
		return constant.MakeInt(int64(x >> n))
	default:
		return constant.MakeInt(int64(int32(uint32(x) >> n)))
	}
}

// concatString renders a constant as it appears in string concatenation
func concatString(v constant.Value, t *Type) constant.Value {
	switch {
	case !v.IsConstant():
		return constant.Unknown
	case v.Kind() == constant.String:
		return v
	case v.Kind() == constant.Bool:
		return constant.MakeString(strconv.FormatBool(v.Bool()))
	case Unbox(t) == TypeChar:
		return constant.MakeString(string(rune(v.Int64())))
	case v.Kind() == constant.Int:
		return constant.MakeString(strconv.FormatInt(v.Int64(), 10))
	}
	return constant.Unknown
}
