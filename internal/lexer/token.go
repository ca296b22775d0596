package lexer

import "fmt"

// TokenType represents the type of a token
type TokenType int

const (
	// NOT_A_TOKEN is returned by the restricted keyword lookups when the
	// text is an ordinary identifier.
	NOT_A_TOKEN TokenType = iota
	ILLEGAL
	EOF

	// Literals
	IDENT      // x, Day, MONDAY
	INT_LIT    // 123, 0x1F
	LONG_LIT   // 123L
	CHAR_LIT   // 'a'
	STRING_LIT // "hello"

	// Keywords
	ABSTRACT
	BOOLEAN
	BREAK
	BYTE
	CASE
	CHAR
	CLASS
	DEFAULT
	DOUBLE
	ELSE
	ENUM
	EXTENDS
	FALSE
	FINAL
	FLOAT
	IF
	IMPLEMENTS
	INT
	INTERFACE
	LONG
	NULL
	PRIVATE
	PROTECTED
	PUBLIC
	RETURN
	SHORT
	STATIC
	SWITCH
	THROW
	TRUE
	VOID

	// Restricted identifiers. The scanner never produces these; the parser
	// reclassifies IDENT tokens through RestrictedKeyword.
	RESTRICTED_YIELD
	RESTRICTED_RECORD
	RESTRICTED_SEALED
	RESTRICTED_PERMITS
	RESTRICTED_WHEN

	// Operators
	PLUS     // +
	MINUS    // -
	STAR     // *
	SLASH    // /
	PERCENT  // %
	AMP      // &
	PIPE     // |
	CARET    // ^
	TILDE    // ~
	NOT      // !
	SHL      // <<
	SHR      // >>
	USHR     // >>>
	AND_AND  // &&
	OR_OR    // ||
	EQ       // ==
	NEQ      // !=
	LT       // <
	GT       // >
	LEQ      // <=
	GEQ      // >=
	ASSIGN   // =
	ARROW    // ->
	QUESTION // ?

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	COLON     // :
	SEMICOLON // ;
	DOT       // .
	AT        // @
)

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
	Offset  int // byte offset of the first character
}

// End returns the byte offset just past the token.
func (t Token) End() int { return t.Offset + len(t.Literal) }

var tokenNames = map[TokenType]string{
	NOT_A_TOKEN: "NOT_A_TOKEN",
	ILLEGAL:     "ILLEGAL",
	EOF:         "EOF",
	IDENT:       "IDENT",
	INT_LIT:     "INT_LIT",
	LONG_LIT:    "LONG_LIT",
	CHAR_LIT:    "CHAR_LIT",
	STRING_LIT:  "STRING_LIT",

	ABSTRACT:   "abstract",
	BOOLEAN:    "boolean",
	BREAK:      "break",
	BYTE:       "byte",
	CASE:       "case",
	CHAR:       "char",
	CLASS:      "class",
	DEFAULT:    "default",
	DOUBLE:     "double",
	ELSE:       "else",
	ENUM:       "enum",
	EXTENDS:    "extends",
	FALSE:      "false",
	FINAL:      "final",
	FLOAT:      "float",
	IF:         "if",
	IMPLEMENTS: "implements",
	INT:        "int",
	INTERFACE:  "interface",
	LONG:       "long",
	NULL:       "null",
	PRIVATE:    "private",
	PROTECTED:  "protected",
	PUBLIC:     "public",
	RETURN:     "return",
	SHORT:      "short",
	STATIC:     "static",
	SWITCH:     "switch",
	THROW:      "throw",
	TRUE:       "true",
	VOID:       "void",

	RESTRICTED_YIELD:   "yield",
	RESTRICTED_RECORD:  "record",
	RESTRICTED_SEALED:  "sealed",
	RESTRICTED_PERMITS: "permits",
	RESTRICTED_WHEN:    "when",

	PLUS:     "+",
	MINUS:    "-",
	STAR:     "*",
	SLASH:    "/",
	PERCENT:  "%",
	AMP:      "&",
	PIPE:     "|",
	CARET:    "^",
	TILDE:    "~",
	NOT:      "!",
	SHL:      "<<",
	SHR:      ">>",
	USHR:     ">>>",
	AND_AND:  "&&",
	OR_OR:    "||",
	EQ:       "==",
	NEQ:      "!=",
	LT:       "<",
	GT:       ">",
	LEQ:      "<=",
	GEQ:      ">=",
	ASSIGN:   "=",
	ARROW:    "->",
	QUESTION: "?",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COMMA:     ",",
	COLON:     ":",
	SEMICOLON: ";",
	DOT:       ".",
	AT:        "@",
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// keywords maps reserved words to their token types. Restricted
// identifiers are deliberately absent.
var keywords = map[string]TokenType{
	"abstract":   ABSTRACT,
	"boolean":    BOOLEAN,
	"break":      BREAK,
	"byte":       BYTE,
	"case":       CASE,
	"char":       CHAR,
	"class":      CLASS,
	"default":    DEFAULT,
	"double":     DOUBLE,
	"else":       ELSE,
	"enum":       ENUM,
	"extends":    EXTENDS,
	"false":      FALSE,
	"final":      FINAL,
	"float":      FLOAT,
	"if":         IF,
	"implements": IMPLEMENTS,
	"int":        INT,
	"interface":  INTERFACE,
	"long":       LONG,
	"null":       NULL,
	"private":    PRIVATE,
	"protected":  PROTECTED,
	"public":     PUBLIC,
	"return":     RETURN,
	"short":      SHORT,
	"static":     STATIC,
	"switch":     SWITCH,
	"throw":      THROW,
	"true":       TRUE,
	"void":       VOID,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsRestrictedKeyword reports whether tt is one of the restricted
// identifier kinds. It depends on the kind only, never on lexeme text.
func IsRestrictedKeyword(tt TokenType) bool {
	switch tt {
	case RESTRICTED_YIELD, RESTRICTED_RECORD, RESTRICTED_WHEN, RESTRICTED_SEALED, RESTRICTED_PERMITS:
		return true
	default:
		return false
	}
}

// RestrictedKeyword returns the restricted kind spelled exactly by text, or
// NOT_A_TOKEN when text is an ordinary identifier.
func RestrictedKeyword(text string) TokenType {
	if !restrictedCandidate(len(text), firstByte(text)) {
		return NOT_A_TOKEN
	}
	switch text {
	case "yield":
		return RESTRICTED_YIELD
	case "record":
		return RESTRICTED_RECORD
	case "when":
		return RESTRICTED_WHEN
	case "sealed":
		return RESTRICTED_SEALED
	case "permits":
		return RESTRICTED_PERMITS
	default:
		return NOT_A_TOKEN
	}
}

// RestrictedKeywordRunes is RestrictedKeyword for already decoded text.
func RestrictedKeywordRunes(text []rune) TokenType {
	if len(text) == 0 {
		return NOT_A_TOKEN
	}
	if !restrictedCandidate(len(text), text[0]) {
		return NOT_A_TOKEN
	}
	return RestrictedKeyword(string(text))
}

// restrictedCandidate filters on length and first character before the
// full comparison; all five words are ASCII so byte and rune lengths agree.
func restrictedCandidate(n int, first rune) bool {
	switch n {
	case 4:
		return first == 'w'
	case 5:
		return first == 'y'
	case 6:
		return first == 'r' || first == 's'
	case 7:
		return first == 'p'
	}
	return false
}

func firstByte(s string) rune {
	if s == "" {
		return 0
	}
	return rune(s[0])
}

// restrictedSince holds the first source level accepting each restricted kind.
var restrictedSince = map[TokenType]int{
	RESTRICTED_YIELD:   14,
	RESTRICTED_RECORD:  16,
	RESTRICTED_SEALED:  17,
	RESTRICTED_PERMITS: 17,
	RESTRICTED_WHEN:    21,
}

// RestrictedSince returns the minimum source level at which tt acts as a
// keyword, or 0 when tt is not restricted.
func RestrictedSince(tt TokenType) int {
	return restrictedSince[tt]
}

// Classify returns the kind tok acts as at the given source level: an
// identifier spelling a restricted keyword the level accepts becomes that
// keyword, every other token keeps its type.
func Classify(tok Token, level int) TokenType {
	if tok.Type != IDENT {
		return tok.Type
	}
	kind := RestrictedKeyword(tok.Literal)
	if !IsRestrictedKeyword(kind) || level < RestrictedSince(kind) {
		return IDENT
	}
	return kind
}

// IsPrimitiveType reports whether tt names a primitive type keyword.
func IsPrimitiveType(tt TokenType) bool {
	switch tt {
	case BOOLEAN, BYTE, CHAR, SHORT, INT, LONG, FLOAT, DOUBLE:
		return true
	default:
		return false
	}
}
