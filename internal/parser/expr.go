package parser

import (
	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/lexer"
)

// Expression parsing - precedence climbing

// Precedence levels (lowest to highest):
// 1. ||
// 2. &&
// 3. |
// 4. ^
// 5. &
// 6. == !=
// 7. < > <= >=
// 8. << >> >>>
// 9. + -
// 10. * / %
// All binary operators are left-associative.

const (
	precNone       = 0
	precOrOr       = 1
	precAndAnd     = 2
	precBitOr      = 3
	precBitXor     = 4
	precBitAnd     = 5
	precEquality   = 6
	precComparison = 7
	precShift      = 8
	precAdditive   = 9
	precMulti      = 10
)

func tokenPrecedence(tt lexer.TokenType) int {
	switch tt {
	case lexer.OR_OR:
		return precOrOr
	case lexer.AND_AND:
		return precAndAnd
	case lexer.PIPE:
		return precBitOr
	case lexer.CARET:
		return precBitXor
	case lexer.AMP:
		return precBitAnd
	case lexer.EQ, lexer.NEQ:
		return precEquality
	case lexer.LT, lexer.GT, lexer.LEQ, lexer.GEQ:
		return precComparison
	case lexer.SHL, lexer.SHR, lexer.USHR:
		return precShift
	case lexer.PLUS, lexer.MINUS:
		return precAdditive
	case lexer.STAR, lexer.SLASH, lexer.PERCENT:
		return precMulti
	default:
		return precNone
	}
}

func (p *Parser) parseExpression() ast.Expression {
	return p.parsePrecedence(precOrOr)
}

func (p *Parser) parsePrecedence(minPrec int) ast.Expression {
	left := p.parseUnary()

	for {
		prec := tokenPrecedence(p.current().Type)
		if prec == precNone || prec < minPrec {
			break
		}

		op := p.advance()
		right := p.parsePrecedence(prec + 1)
		left = &ast.BinaryExpr{
			Left:  left,
			Op:    op.Type,
			Right: right,
			Span:  p.spanFrom(left),
		}
	}

	return left
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.current().Type {
	case lexer.MINUS, lexer.PLUS, lexer.TILDE, lexer.NOT:
		op := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{
			Op:      op.Type,
			Operand: operand,
			Span:    p.span(op),
		}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.current()

	switch tok.Type {
	case lexer.INT_LIT:
		p.advance()
		return &ast.IntLit{Raw: tok.Literal, Span: p.span(tok)}
	case lexer.LONG_LIT:
		p.advance()
		return &ast.IntLit{Raw: tok.Literal, Long: true, Span: p.span(tok)}
	case lexer.CHAR_LIT:
		p.advance()
		return &ast.CharLit{Raw: tok.Literal, Span: p.span(tok)}
	case lexer.STRING_LIT:
		p.advance()
		return &ast.StringLit{Raw: tok.Literal, Span: p.span(tok)}
	case lexer.TRUE, lexer.FALSE:
		p.advance()
		return &ast.BoolLit{Value: tok.Type == lexer.TRUE, Span: p.span(tok)}
	case lexer.NULL:
		p.advance()
		return &ast.NullLit{Span: p.span(tok)}
	case lexer.IDENT:
		return p.parseName()
	case lexer.LPAREN:
		p.advance()
		inner := p.parseExpression()
		p.expect(lexer.RPAREN)
		return &ast.ParenExpr{X: inner, Span: p.span(tok)}
	case lexer.SWITCH:
		return p.parseSwitchExpr()
	default:
		p.diags.Errorf(tok.Line, tok.Column, "unexpected %s in expression", describe(tok))
		if tok.Type != lexer.SEMICOLON && tok.Type != lexer.RBRACE && tok.Type != lexer.EOF {
			p.advance()
		}
		return &ast.Name{Name: "<error>", Span: p.span(tok)}
	}
}

// parseName parses a bare identifier or a dotted access path
func (p *Parser) parseName() ast.Expression {
	tok := p.advance()
	if !p.check(lexer.DOT) {
		return &ast.Name{Name: tok.Literal, Span: p.span(tok)}
	}

	segments := []string{tok.Literal}
	for p.match(lexer.DOT) {
		segments = append(segments, p.expect(lexer.IDENT).Literal)
	}
	return &ast.QualifiedName{Segments: segments, Span: p.span(tok)}
}
