package parser

import (
	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/diagnostic"
	"github.com/lhaig/jswitch/internal/lexer"
)

// syncTokens are tokens the parser can synchronize to after an error
var syncTokens = map[lexer.TokenType]bool{
	lexer.CLASS:     true,
	lexer.INTERFACE: true,
	lexer.ENUM:      true,
	lexer.PUBLIC:    true,
	lexer.PRIVATE:   true,
	lexer.PROTECTED: true,
	lexer.RETURN:    true,
	lexer.IF:        true,
	lexer.SWITCH:    true,
	lexer.CASE:      true,
	lexer.DEFAULT:   true,
	lexer.RBRACE:    true,
	lexer.SEMICOLON: true,
	lexer.EOF:       true,
}

// Parser holds the parser state
type Parser struct {
	tokens []lexer.Token
	pos    int
	diags  *diagnostic.Diagnostics
	source string
	file   string
	level  int // source level gating restricted identifiers
}

// current returns the current token
func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

// peek returns the next token without consuming
func (p *Parser) peek() lexer.Token {
	return p.peekAt(1)
}

func (p *Parser) peekAt(n int) lexer.Token {
	if p.pos+n >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos+n]
}

// advance moves to the next token and returns the consumed token
func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches the expected type,
// otherwise reports an error
func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	tok := p.current()
	if tok.Type != tt {
		p.diags.Errorf(tok.Line, tok.Column, "expected %s, got %s", tt, describe(tok))
		return tok
	}
	return p.advance()
}

// check returns true if the current token is of the given type
func (p *Parser) check(tt lexer.TokenType) bool {
	return p.current().Type == tt
}

// match consumes the current token if it matches, returns true if consumed
func (p *Parser) match(tt lexer.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

// restricted returns the restricted kind tok acts as at the parser's source
// level, or NOT_A_TOKEN when it is an ordinary identifier here.
func (p *Parser) restricted(tok lexer.Token) lexer.TokenType {
	if kind := lexer.Classify(tok, p.level); lexer.IsRestrictedKeyword(kind) {
		return kind
	}
	return lexer.NOT_A_TOKEN
}

// checkRestricted reports whether the current token acts as kind.
func (p *Parser) checkRestricted(kind lexer.TokenType) bool {
	return p.restricted(p.current()) == kind
}

// prevEnd is the byte offset just past the last consumed token.
func (p *Parser) prevEnd() int {
	if p.pos == 0 || len(p.tokens) == 0 {
		return 0
	}
	return p.tokens[p.pos-1].End()
}

// span covers source from start up to the last consumed token.
func (p *Parser) span(start lexer.Token) ast.Span {
	end := p.prevEnd()
	if end < start.Offset {
		end = start.Offset
	}
	return ast.Span{Line: start.Line, Column: start.Column, Start: start.Offset, End: end}
}

// spanFrom covers source from the start of n up to the last consumed token.
func (p *Parser) spanFrom(n ast.Node) ast.Span {
	line, col := n.Pos()
	start, _ := n.Range()
	return ast.Span{Line: line, Column: col, Start: start, End: p.prevEnd()}
}

// synchronize skips tokens until a sync point is found, consuming a
// semicolon sync point.
func (p *Parser) synchronize() {
	for !p.check(lexer.EOF) {
		if p.current().Type == lexer.SEMICOLON {
			p.advance()
			return
		}
		if syncTokens[p.current().Type] {
			return
		}
		p.advance()
	}
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.IDENT, lexer.INT_LIT, lexer.LONG_LIT, lexer.CHAR_LIT, lexer.STRING_LIT, lexer.ILLEGAL:
		return tok.Type.String() + " '" + tok.Literal + "'"
	}
	return tok.Type.String()
}
