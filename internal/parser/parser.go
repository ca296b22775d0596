package parser

import (
	"github.com/lhaig/jswitch/internal/ast"
	"github.com/lhaig/jswitch/internal/diagnostic"
	"github.com/lhaig/jswitch/internal/lexer"
)

// DefaultSourceLevel is the language level used when none is configured.
const DefaultSourceLevel = 21

// switchLevel is the first source level with arrow labels, multi-expression
// labels and switch expressions.
const switchLevel = 14

// Option configures a Parser
type Option func(*Parser)

// WithSourceLevel sets the language level that gates restricted identifiers.
func WithSourceLevel(level int) Option {
	return func(p *Parser) { p.level = level }
}

// WithFile names the source file in the unit and its diagnostics.
func WithFile(name string) Option {
	return func(p *Parser) { p.file = name }
}

// New creates a new parser
func New(source string, opts ...Option) *Parser {
	l := lexer.New(source)
	p := &Parser{
		tokens: l.Tokenize(),
		source: source,
		level:  DefaultSourceLevel,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.diags = diagnostic.NewForFile(p.file)
	return p
}

// Diagnostics returns the parser's diagnostics
func (p *Parser) Diagnostics() *diagnostic.Diagnostics {
	return p.diags
}

// SourceLevel returns the language level the parser accepts.
func (p *Parser) SourceLevel() int {
	return p.level
}

// Parse parses the token stream into a CompilationUnit
func (p *Parser) Parse() *ast.CompilationUnit {
	start := p.current()
	unit := &ast.CompilationUnit{File: p.file}

	for !p.check(lexer.EOF) {
		declStart := p.current()
		mods := p.parseModifiers()

		switch {
		case p.check(lexer.CLASS):
			unit.Types = append(unit.Types, p.parseClassDecl(declStart, mods, ast.KindClass))
		case p.check(lexer.INTERFACE):
			unit.Types = append(unit.Types, p.parseClassDecl(declStart, mods, ast.KindInterface))
		case p.check(lexer.ENUM):
			unit.Types = append(unit.Types, p.parseEnumDecl(declStart, mods))
		case p.checkRestricted(lexer.RESTRICTED_RECORD):
			unit.Types = append(unit.Types, p.parseRecordDecl(declStart, mods))
		default:
			tok := p.current()
			p.diags.Errorf(tok.Line, tok.Column, "unexpected %s at top level", describe(tok))
			startPos := p.pos
			p.synchronize()
			if p.pos == startPos {
				p.advance() // ensure forward progress to avoid infinite loop
			}
		}
	}

	unit.Span = ast.Span{Line: start.Line, Column: start.Column, Start: 0, End: len(p.source)}
	return unit
}

// parseModifiers parses any sequence of declaration modifiers
func (p *Parser) parseModifiers() ast.Modifiers {
	var mods ast.Modifiers
	for {
		switch {
		case p.match(lexer.PUBLIC):
			mods.Public = true
		case p.match(lexer.PRIVATE):
			mods.Private = true
		case p.match(lexer.PROTECTED):
			mods.Protected = true
		case p.match(lexer.STATIC):
			mods.Static = true
		case p.match(lexer.FINAL):
			mods.Final = true
		case p.match(lexer.ABSTRACT):
			mods.Abstract = true
		case p.checkRestricted(lexer.RESTRICTED_SEALED) && startsDeclaration(p.peek().Type):
			p.advance()
			mods.Sealed = true
		default:
			return mods
		}
	}
}

// startsDeclaration reports whether tt can follow `sealed` in a modifier list
func startsDeclaration(tt lexer.TokenType) bool {
	switch tt {
	case lexer.CLASS, lexer.INTERFACE, lexer.ABSTRACT, lexer.PUBLIC, lexer.PRIVATE,
		lexer.PROTECTED, lexer.STATIC, lexer.FINAL:
		return true
	}
	return false
}

// parseTypeName parses the declared name of a type. Restricted identifiers
// other than `when` cannot name a type.
func (p *Parser) parseTypeName() lexer.Token {
	name := p.expect(lexer.IDENT)
	if kind := p.restricted(name); kind != lexer.NOT_A_TOKEN && kind != lexer.RESTRICTED_WHEN {
		p.diags.Report(diagnostic.RestrictedIdentifierUsed, name.Line, name.Column,
			"'%s' is a restricted identifier and cannot be used as a type name", name.Literal)
	}
	return name
}

// parseClassDecl parses: class|interface <name> [extends ...] [implements ...] [permits ...] { members }
func (p *Parser) parseClassDecl(start lexer.Token, mods ast.Modifiers, kind ast.ClassKind) *ast.ClassDecl {
	p.advance() // class or interface
	name := p.parseTypeName()

	decl := &ast.ClassDecl{
		Kind:      kind,
		Name:      name.Literal,
		Modifiers: mods,
	}

	if p.match(lexer.EXTENDS) {
		decl.Extends = p.parseTypeRefList()
		if kind == ast.KindClass && len(decl.Extends) > 1 {
			line, col := decl.Extends[1].Pos()
			p.diags.Errorf(line, col, "a class can only extend one class")
		}
	}
	if p.match(lexer.IMPLEMENTS) {
		if kind == ast.KindInterface {
			tok := p.tokens[p.pos-1]
			p.diags.Errorf(tok.Line, tok.Column, "an interface cannot implement other types")
		}
		decl.Implements = p.parseTypeRefList()
	}
	if p.checkRestricted(lexer.RESTRICTED_PERMITS) {
		p.advance()
		decl.Permits = p.parseTypeRefList()
	}

	p.parseMembers(&decl.Fields, &decl.Methods)
	decl.Span = p.span(start)
	return decl
}

// parseRecordDecl parses: record <name>(<components>) [implements ...] { members }
func (p *Parser) parseRecordDecl(start lexer.Token, mods ast.Modifiers) *ast.ClassDecl {
	p.advance() // record
	name := p.parseTypeName()

	decl := &ast.ClassDecl{
		Kind:      ast.KindRecord,
		Name:      name.Literal,
		Modifiers: mods,
	}

	p.expect(lexer.LPAREN)
	decl.Components = p.parseParamList()
	p.expect(lexer.RPAREN)

	if p.match(lexer.IMPLEMENTS) {
		decl.Implements = p.parseTypeRefList()
	}

	p.parseMembers(&decl.Fields, &decl.Methods)
	decl.Span = p.span(start)
	return decl
}

// parseEnumDecl parses: enum <name> [implements ...] { A, B, C [; members] }
func (p *Parser) parseEnumDecl(start lexer.Token, mods ast.Modifiers) *ast.EnumDecl {
	p.expect(lexer.ENUM)
	name := p.parseTypeName()

	decl := &ast.EnumDecl{
		Name:      name.Literal,
		Modifiers: mods,
	}
	if p.match(lexer.IMPLEMENTS) {
		decl.Implements = p.parseTypeRefList()
	}

	p.expect(lexer.LBRACE)
	for p.check(lexer.IDENT) {
		tok := p.advance()
		decl.Constants = append(decl.Constants, &ast.EnumConstant{
			Name: tok.Literal,
			Span: p.span(tok),
		})
		if !p.match(lexer.COMMA) {
			break
		}
	}

	if p.match(lexer.SEMICOLON) {
		p.parseMemberList(&decl.Fields, &decl.Methods)
	}
	p.expect(lexer.RBRACE)
	decl.Span = p.span(start)
	return decl
}

// parseMembers parses a braced member list
func (p *Parser) parseMembers(fields *[]*ast.FieldDecl, methods *[]*ast.MethodDecl) {
	p.expect(lexer.LBRACE)
	p.parseMemberList(fields, methods)
	p.expect(lexer.RBRACE)
}

// parseMemberList parses fields and methods up to the closing brace
func (p *Parser) parseMemberList(fields *[]*ast.FieldDecl, methods *[]*ast.MethodDecl) {
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		startPos := p.pos
		field, method := p.parseMember()
		if field != nil {
			*fields = append(*fields, field)
		}
		if method != nil {
			*methods = append(*methods, method)
		}
		if p.pos == startPos {
			p.advance()
		}
	}
}

// parseMember parses: <mods> (<type>|void) <name> ( '(' params ')' block | [= expr] ; )
func (p *Parser) parseMember() (*ast.FieldDecl, *ast.MethodDecl) {
	start := p.current()
	mods := p.parseModifiers()

	var typ *ast.TypeRef
	if !p.match(lexer.VOID) {
		if !lexer.IsPrimitiveType(p.current().Type) && !p.check(lexer.IDENT) {
			tok := p.current()
			p.diags.Errorf(tok.Line, tok.Column, "unexpected %s in type body", describe(tok))
			p.synchronize()
			return nil, nil
		}
		typ = p.parseTypeRef()
	}
	name := p.expect(lexer.IDENT)

	if p.match(lexer.LPAREN) {
		params := p.parseParamList()
		p.expect(lexer.RPAREN)
		method := &ast.MethodDecl{
			Modifiers:  mods,
			ReturnType: typ,
			Name:       name.Literal,
			Params:     params,
		}
		if !p.match(lexer.SEMICOLON) {
			method.Body = p.parseBlock()
		}
		method.Span = p.span(start)
		return nil, method
	}

	if typ == nil {
		p.diags.Errorf(name.Line, name.Column, "field '%s' cannot have type void", name.Literal)
		typ = &ast.TypeRef{Name: "void"}
	}
	field := &ast.FieldDecl{
		Modifiers: mods,
		Type:      typ,
		Name:      name.Literal,
	}
	if p.match(lexer.ASSIGN) {
		field.Init = p.parseExpression()
	}
	p.expect(lexer.SEMICOLON)
	field.Span = p.span(start)
	return field, nil
}

// parseParamList parses comma-separated parameters or record components
func (p *Parser) parseParamList() []*ast.Param {
	var params []*ast.Param
	if p.check(lexer.RPAREN) {
		return params
	}
	params = append(params, p.parseParam())
	for p.match(lexer.COMMA) {
		params = append(params, p.parseParam())
	}
	return params
}

// parseParam parses: [final] <type> <name>
func (p *Parser) parseParam() *ast.Param {
	start := p.current()
	p.match(lexer.FINAL)
	typ := p.parseTypeRef()
	name := p.expect(lexer.IDENT)
	return &ast.Param{Type: typ, Name: name.Literal, Span: p.span(start)}
}

// parseTypeRefList parses comma-separated type references
func (p *Parser) parseTypeRefList() []*ast.TypeRef {
	refs := []*ast.TypeRef{p.parseTypeRef()}
	for p.match(lexer.COMMA) {
		refs = append(refs, p.parseTypeRef())
	}
	return refs
}

// parseTypeRef parses a primitive type or a possibly qualified class name
func (p *Parser) parseTypeRef() *ast.TypeRef {
	tok := p.current()
	if lexer.IsPrimitiveType(tok.Type) {
		p.advance()
		return &ast.TypeRef{Name: tok.Literal, Primitive: true, Span: p.span(tok)}
	}

	name := p.expect(lexer.IDENT).Literal
	for p.check(lexer.DOT) && p.peek().Type == lexer.IDENT {
		p.advance()
		name += "." + p.advance().Literal
	}
	return &ast.TypeRef{Name: name, Span: p.span(tok)}
}

// parseBlock parses: { statement* }
func (p *Parser) parseBlock() *ast.Block {
	tok := p.expect(lexer.LBRACE)
	block := &ast.Block{}
	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		startPos := p.pos
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		if p.pos == startPos {
			p.advance()
		}
	}
	p.expect(lexer.RBRACE)
	block.Span = p.span(tok)
	return block
}

// parseStatement parses a statement
func (p *Parser) parseStatement() ast.Statement {
	switch p.current().Type {
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.SWITCH:
		return p.parseSwitchStmt()
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.BREAK:
		return p.parseBreakStmt()
	case lexer.SEMICOLON:
		tok := p.advance()
		return &ast.EmptyStmt{Span: p.span(tok)}
	case lexer.FINAL:
		return p.parseLocalVarDecl()
	case lexer.CASE, lexer.DEFAULT:
		tok := p.current()
		p.diags.Errorf(tok.Line, tok.Column, "'%s' label outside of a switch", tok.Literal)
		p.synchronize()
		return nil
	}

	if p.isYieldStatement() {
		return p.parseYieldStmt()
	}
	if p.isLocalVarDeclStart() {
		return p.parseLocalVarDecl()
	}
	return p.parseExprStmtOrAssign()
}

// isYieldStatement reports whether the current `yield` begins a yield
// statement rather than an expression using a variable named yield.
func (p *Parser) isYieldStatement() bool {
	if !p.checkRestricted(lexer.RESTRICTED_YIELD) {
		return false
	}
	switch p.peek().Type {
	case lexer.ASSIGN, lexer.DOT, lexer.SEMICOLON, lexer.LBRACKET:
		return false
	}
	return true
}

// isLocalVarDeclStart looks ahead for `<type> <name>`
func (p *Parser) isLocalVarDeclStart() bool {
	if lexer.IsPrimitiveType(p.current().Type) {
		return true
	}
	i := 0
	for p.peekAt(i).Type == lexer.IDENT && p.peekAt(i+1).Type == lexer.DOT {
		i += 2
	}
	return p.peekAt(i).Type == lexer.IDENT && p.peekAt(i+1).Type == lexer.IDENT
}

// parseLocalVarDecl parses: [final] <type> <name> [= <expr>];
func (p *Parser) parseLocalVarDecl() *ast.LocalVarDecl {
	start := p.current()
	final := p.match(lexer.FINAL)
	typ := p.parseTypeRef()
	name := p.expect(lexer.IDENT)

	decl := &ast.LocalVarDecl{Final: final, Type: typ, Name: name.Literal}
	if p.match(lexer.ASSIGN) {
		decl.Init = p.parseExpression()
	}
	p.expect(lexer.SEMICOLON)
	decl.Span = p.span(start)
	return decl
}

// parseIfStmt parses: if (<expr>) <stmt> [else <stmt>]
func (p *Parser) parseIfStmt() *ast.IfStmt {
	tok := p.expect(lexer.IF)
	p.expect(lexer.LPAREN)
	condition := p.parseExpression()
	p.expect(lexer.RPAREN)
	then := p.parseStatement()

	var elseStmt ast.Statement
	if p.match(lexer.ELSE) {
		elseStmt = p.parseStatement()
	}

	return &ast.IfStmt{
		Condition: condition,
		Then:      then,
		Else:      elseStmt,
		Span:      p.span(tok),
	}
}

// parseReturnStmt parses: return [expr];
func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	tok := p.expect(lexer.RETURN)
	var value ast.Expression
	if !p.check(lexer.SEMICOLON) {
		value = p.parseExpression()
	}
	p.expect(lexer.SEMICOLON)
	return &ast.ReturnStmt{Value: value, Span: p.span(tok)}
}

// parseBreakStmt parses: break;
func (p *Parser) parseBreakStmt() *ast.BreakStmt {
	tok := p.expect(lexer.BREAK)
	p.expect(lexer.SEMICOLON)
	return &ast.BreakStmt{Span: p.span(tok)}
}

// parseYieldStmt parses: yield <expr>;
func (p *Parser) parseYieldStmt() *ast.YieldStmt {
	tok := p.advance()
	value := p.parseExpression()
	p.expect(lexer.SEMICOLON)
	return &ast.YieldStmt{Value: value, Span: p.span(tok)}
}

// parseExprStmtOrAssign parses an expression statement or assignment
func (p *Parser) parseExprStmtOrAssign() ast.Statement {
	tok := p.current()
	expr := p.parseExpression()

	if p.match(lexer.ASSIGN) {
		value := p.parseExpression()
		p.expect(lexer.SEMICOLON)
		return &ast.AssignStmt{Target: expr, Value: value, Span: p.span(tok)}
	}

	p.expect(lexer.SEMICOLON)
	return &ast.ExprStmt{Expr: expr, Span: p.span(tok)}
}
