package ast

import (
	"github.com/lhaig/jswitch/internal/constant"
	"github.com/lhaig/jswitch/internal/lexer"
)

// Node is the base interface for all AST nodes
type Node interface {
	Pos() (line, col int)
	Range() (start, end int)
}

// Statement nodes
type Statement interface {
	Node
	stmtNode()
}

// Expression nodes
type Expression interface {
	Node
	exprNode()
}

// TypeDecl is a class, interface, record or enum declaration
type TypeDecl interface {
	Node
	TypeName() string
	typeDecl()
}

// Span locates a node in its source file. Start and End are byte offsets,
// End exclusive.
type Span struct {
	Line   int
	Column int
	Start  int
	End    int
}

func (s Span) Pos() (int, int)   { return s.Line, s.Column }
func (s Span) Range() (int, int) { return s.Start, s.End }

// CompilationUnit represents one source file
type CompilationUnit struct {
	Span
	File  string
	Types []TypeDecl
}

// Modifiers holds declaration modifiers
type Modifiers struct {
	Public    bool
	Private   bool
	Protected bool
	Static    bool
	Final     bool
	Abstract  bool
	Sealed    bool
}

// ClassKind distinguishes the declaration forms sharing ClassDecl
type ClassKind int

const (
	KindClass ClassKind = iota
	KindInterface
	KindRecord
)

func (k ClassKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindRecord:
		return "record"
	default:
		return "class"
	}
}

// ClassDecl represents a class, interface or record declaration
type ClassDecl struct {
	Span
	Kind       ClassKind
	Name       string
	Modifiers  Modifiers
	Components []*Param // record components
	Extends    []*TypeRef
	Implements []*TypeRef
	Permits    []*TypeRef
	Fields     []*FieldDecl
	Methods    []*MethodDecl
}

func (c *ClassDecl) TypeName() string { return c.Name }

// EnumDecl represents an enum declaration
type EnumDecl struct {
	Span
	Name       string
	Modifiers  Modifiers
	Implements []*TypeRef
	Constants  []*EnumConstant
	Fields     []*FieldDecl
	Methods    []*MethodDecl
}

func (e *EnumDecl) TypeName() string { return e.Name }

// EnumConstant is one constant of an enum, in declaration order
type EnumConstant struct {
	Span
	Name string
}

// FieldDecl represents a field declaration
type FieldDecl struct {
	Span
	Modifiers Modifiers
	Type      *TypeRef
	Name      string
	Init      Expression
}

// MethodDecl represents a method declaration; ReturnType is nil for void
type MethodDecl struct {
	Span
	Modifiers  Modifiers
	ReturnType *TypeRef
	Name       string
	Params     []*Param
	Body       *Block
}

// Param represents a method parameter or record component
type Param struct {
	Span
	Type *TypeRef
	Name string
}

// TypeRef represents a type reference
type TypeRef struct {
	Span
	Name      string // dotted for qualified names
	Primitive bool
}

// Statements

// Block represents a braced statement list
type Block struct {
	Span
	Statements []Statement
}

// LocalVarDecl represents a local variable declaration
type LocalVarDecl struct {
	Span
	Final bool
	Type  *TypeRef
	Name  string
	Init  Expression
}

// ExprStmt represents an expression used as a statement
type ExprStmt struct {
	Span
	Expr Expression
}

// AssignStmt represents an assignment statement
type AssignStmt struct {
	Span
	Target Expression
	Value  Expression
}

// IfStmt represents an if statement
type IfStmt struct {
	Span
	Condition Expression
	Then      Statement
	Else      Statement
}

// ReturnStmt represents a return statement
type ReturnStmt struct {
	Span
	Value Expression
}

// BreakStmt represents a break statement
type BreakStmt struct {
	Span
}

// YieldStmt represents a yield statement. Implicit is set for the value of
// an arrow case in a switch expression.
type YieldStmt struct {
	Span
	Value    Expression
	Implicit bool
}

// EmptyStmt represents a lone semicolon
type EmptyStmt struct {
	Span
}

// CaseList is the case bookkeeping shared by switch statements and switch
// expressions. Cases holds the non-default labels in source order and
// len(Cases) always equals Count.
type CaseList struct {
	Cases   []*CaseLabel
	Count   int
	Default *CaseLabel
}

// Switch is implemented by SwitchStmt and SwitchExpr
type Switch interface {
	Node
	Selector() Expression
	Stmts() []Statement
	Registry() *CaseList
	IsExpression() bool
}

// SwitchStmt represents a switch statement. Body interleaves CaseLabel
// statements with the statements they guard.
type SwitchStmt struct {
	Span
	Expr      Expression
	Body      []Statement
	Labels    CaseList
	Reachable bool
}

func (s *SwitchStmt) Selector() Expression { return s.Expr }
func (s *SwitchStmt) Stmts() []Statement   { return s.Body }
func (s *SwitchStmt) Registry() *CaseList  { return &s.Labels }
func (s *SwitchStmt) IsExpression() bool   { return false }

// CaseLabel is one `case` or `default` label. A label with no Exprs is the
// default label.
type CaseLabel struct {
	Span
	Exprs     []Expression
	Guard     Expression // `when` guard, parsed but not supported
	IsArrow   bool
	Reachable bool
	// Constants holds the folded value of each expression of Exprs after
	// resolution.
	Constants []constant.Value
}

// IsDefault reports whether c is a default label.
func (c *CaseLabel) IsDefault() bool { return len(c.Exprs) == 0 }

// Expressions

// IntLit represents an int or long literal
type IntLit struct {
	Span
	Raw  string
	Long bool
}

// CharLit represents a character literal, Raw includes the quotes
type CharLit struct {
	Span
	Raw string
}

// StringLit represents a string literal, Raw includes the quotes
type StringLit struct {
	Span
	Raw string
}

// BoolLit represents true or false
type BoolLit struct {
	Span
	Value bool
}

// NullLit represents null
type NullLit struct {
	Span
}

// Name is a single bare identifier
type Name struct {
	Span
	Name string
}

// QualifiedName is a multi-segment access path such as Day.MONDAY
type QualifiedName struct {
	Span
	Segments []string
}

// ParenExpr is a parenthesized expression
type ParenExpr struct {
	Span
	X Expression
}

// UnaryExpr represents a prefix operator
type UnaryExpr struct {
	Span
	Op      lexer.TokenType
	Operand Expression
}

// BinaryExpr represents an infix operator
type BinaryExpr struct {
	Span
	Left  Expression
	Op    lexer.TokenType
	Right Expression
}

// SwitchExpr represents a switch expression
type SwitchExpr struct {
	Span
	Expr      Expression
	Body      []Statement
	Labels    CaseList
	Reachable bool
}

func (s *SwitchExpr) Selector() Expression { return s.Expr }
func (s *SwitchExpr) Stmts() []Statement   { return s.Body }
func (s *SwitchExpr) Registry() *CaseList  { return &s.Labels }
func (s *SwitchExpr) IsExpression() bool   { return true }

func (*Block) stmtNode()        {}
func (*LocalVarDecl) stmtNode() {}
func (*ExprStmt) stmtNode()     {}
func (*AssignStmt) stmtNode()   {}
func (*IfStmt) stmtNode()       {}
func (*ReturnStmt) stmtNode()   {}
func (*BreakStmt) stmtNode()    {}
func (*YieldStmt) stmtNode()    {}
func (*EmptyStmt) stmtNode()    {}
func (*SwitchStmt) stmtNode()   {}
func (*CaseLabel) stmtNode()    {}

func (*IntLit) exprNode()        {}
func (*CharLit) exprNode()       {}
func (*StringLit) exprNode()     {}
func (*BoolLit) exprNode()       {}
func (*NullLit) exprNode()       {}
func (*Name) exprNode()          {}
func (*QualifiedName) exprNode() {}
func (*ParenExpr) exprNode()     {}
func (*UnaryExpr) exprNode()     {}
func (*BinaryExpr) exprNode()    {}
func (*SwitchExpr) exprNode()    {}

func (*ClassDecl) typeDecl() {}
func (*EnumDecl) typeDecl()  {}

// Unparen strips any number of enclosing parentheses.
func Unparen(e Expression) Expression {
	for {
		p, ok := e.(*ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}

// IsParenthesized reports whether e is wrapped in at least one pair of
// parentheses.
func IsParenthesized(e Expression) bool {
	_, ok := e.(*ParenExpr)
	return ok
}

// Methods calls fn for every method declared in u, with its enclosing type.
func (u *CompilationUnit) Methods(fn func(owner TypeDecl, m *MethodDecl)) {
	for _, t := range u.Types {
		switch d := t.(type) {
		case *ClassDecl:
			for _, m := range d.Methods {
				fn(d, m)
			}
		case *EnumDecl:
			for _, m := range d.Methods {
				fn(d, m)
			}
		}
	}
}
