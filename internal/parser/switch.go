package parser

import (
	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/diagnostic"
	"github.com/lhaig/jswitch/internal/lexer"
)

// parseSwitchStmt parses: switch (<expr>) { (label stmt*)* }
func (p *Parser) parseSwitchStmt() *ast.SwitchStmt {
	tok := p.current()
	selector, body := p.parseSwitchParts(false)
	return &ast.SwitchStmt{Expr: selector, Body: body, Span: p.span(tok)}
}

// parseSwitchExpr parses a switch in expression position
func (p *Parser) parseSwitchExpr() *ast.SwitchExpr {
	tok := p.current()
	if p.level < switchLevel {
		p.diags.Errorf(tok.Line, tok.Column, "switch expressions are not supported at source level %d", p.level)
	}
	selector, body := p.parseSwitchParts(true)
	return &ast.SwitchExpr{Expr: selector, Body: body, Span: p.span(tok)}
}

// parseSwitchParts parses the selector and the label/statement body shared
// by both switch forms. Arrow bodies in a switch expression become implicit
// yields.
func (p *Parser) parseSwitchParts(isExpr bool) (ast.Expression, []ast.Statement) {
	p.expect(lexer.SWITCH)
	p.expect(lexer.LPAREN)
	selector := p.parseExpression()
	p.expect(lexer.RPAREN)
	p.expect(lexer.LBRACE)

	var body []ast.Statement
	var first *ast.CaseLabel
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		startPos := p.pos

		if p.check(lexer.CASE) || p.check(lexer.DEFAULT) {
			label := p.parseCaseLabel()
			if first == nil {
				first = label
			} else if label.IsArrow != first.IsArrow {
				p.diags.Report(diagnostic.SwitchMixedCaseKinds, label.Line, label.Column,
					"different case kinds used in the switch")
			}
			body = append(body, label)
			if label.IsArrow {
				if stmt := p.parseArrowBody(isExpr); stmt != nil {
					body = append(body, stmt)
				}
			}
		} else {
			if first == nil {
				tok := p.current()
				p.diags.Errorf(tok.Line, tok.Column, "statement in switch must follow a case label")
			}
			if stmt := p.parseStatement(); stmt != nil {
				body = append(body, stmt)
			}
		}

		if p.pos == startPos {
			p.advance()
		}
	}
	p.expect(lexer.RBRACE)
	return selector, body
}

// parseArrowBody parses what follows `->`: a block, or an expression that is
// an implicit yield in a switch expression and a statement otherwise.
func (p *Parser) parseArrowBody(isExpr bool) ast.Statement {
	if p.check(lexer.LBRACE) {
		return p.parseBlock()
	}
	if !isExpr {
		return p.parseExprStmtOrAssign()
	}
	tok := p.current()
	value := p.parseExpression()
	p.expect(lexer.SEMICOLON)
	return &ast.YieldStmt{Value: value, Implicit: true, Span: p.span(tok)}
}

// parseCaseLabel parses: default (:|->) | case <expr> {, <expr>} [when <expr>] (:|->)
func (p *Parser) parseCaseLabel() *ast.CaseLabel {
	tok := p.advance()
	label := &ast.CaseLabel{}

	if tok.Type == lexer.CASE {
		label.Exprs = append(label.Exprs, p.parseCaseExpr())
		for p.match(lexer.COMMA) {
			label.Exprs = append(label.Exprs, p.parseCaseExpr())
		}
		if len(label.Exprs) > 1 && p.level < switchLevel {
			p.diags.Errorf(tok.Line, tok.Column, "multiple case expressions are not supported at source level %d", p.level)
		}
		if p.checkRestricted(lexer.RESTRICTED_WHEN) {
			when := p.advance()
			label.Guard = p.parseExpression()
			p.diags.Report(diagnostic.GuardNotSupported, when.Line, when.Column,
				"guarded case labels are not supported")
		}
	}

	if arrow := p.current(); p.match(lexer.ARROW) {
		label.IsArrow = true
		if p.level < switchLevel {
			p.diags.Errorf(arrow.Line, arrow.Column, "arrow case labels are not supported at source level %d", p.level)
		}
	} else {
		p.expect(lexer.COLON)
	}

	label.Span = p.span(tok)
	return label
}

// parseCaseExpr parses one case constant. A type followed by a binding name
// is a type pattern, which is reported and kept as its type name.
func (p *Parser) parseCaseExpr() ast.Expression {
	if p.isLocalVarDeclStart() {
		start := p.current()
		typ := p.parseTypeRef()
		binding := p.advance()
		p.diags.Report(diagnostic.PatternNotSupported, start.Line, start.Column,
			"type pattern '%s %s' is not supported in case labels", typ.Name, binding.Literal)
		return &ast.Name{Name: typ.Name, Span: p.span(start)}
	}
	return p.parseExpression()
}
