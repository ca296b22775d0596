package lexer

// Lexer scans Java source text and produces tokens
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // current line number
	column       int  // current column number
}

// New creates a new Lexer instance
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// readChar reads the next character and advances the position
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // ASCII code for NUL
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

// peekChar returns the next character without advancing the position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) peekCharAt(n int) byte {
	if l.readPosition+n >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition+n]
}

// skipWhitespace skips whitespace characters
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f' {
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		l.readChar()
	}
}

// skipSingleLineComment skips a single-line comment (//)
func (l *Lexer) skipSingleLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// skipMultiLineComment skips a block comment; the opening /* is already consumed.
func (l *Lexer) skipMultiLineComment() {
	for {
		if l.ch == 0 {
			break
		}
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // consume '*'
			l.readChar() // consume '/'
			break
		}
		l.readChar()
	}
}

// readIdentifier reads an identifier or keyword
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads an integer literal in decimal, hex, octal or binary
// form, with optional underscores and an L suffix.
func (l *Lexer) readNumber() (string, TokenType) {
	position := l.position
	tokenType := INT_LIT

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	} else if l.ch == '0' && (l.peekChar() == 'b' || l.peekChar() == 'B') {
		l.readChar()
		l.readChar()
		for l.ch == '0' || l.ch == '1' || l.ch == '_' {
			l.readChar()
		}
	} else {
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}

	if l.ch == 'L' || l.ch == 'l' {
		tokenType = LONG_LIT
		l.readChar()
	}

	return l.input[position:l.position], tokenType
}

// readQuoted reads a string or character literal up to the closing quote.
// The returned literal keeps its quotes and escapes.
func (l *Lexer) readQuoted(quote byte) (string, bool) {
	position := l.position
	for {
		l.readChar()
		if l.ch == 0 || l.ch == '\n' {
			return l.input[position:l.position], false
		}
		if l.ch == '\\' {
			l.readChar()
			continue
		}
		if l.ch == quote {
			break
		}
	}
	return l.input[position : l.position+1], true
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	line, col, offset := l.line, l.column, l.position
	tok := func(tt TokenType, lit string) Token {
		return Token{Type: tt, Literal: lit, Line: line, Column: col, Offset: offset}
	}
	// two consumes the current and next char as one token
	two := func(tt TokenType) Token {
		lit := l.input[l.position : l.position+2]
		l.readChar()
		return tok(tt, lit)
	}

	var t Token
	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			t = two(EQ)
		} else {
			t = tok(ASSIGN, "=")
		}
	case '!':
		if l.peekChar() == '=' {
			t = two(NEQ)
		} else {
			t = tok(NOT, "!")
		}
	case '<':
		switch l.peekChar() {
		case '=':
			t = two(LEQ)
		case '<':
			t = two(SHL)
		default:
			t = tok(LT, "<")
		}
	case '>':
		switch {
		case l.peekChar() == '=':
			t = two(GEQ)
		case l.peekChar() == '>' && l.peekCharAt(1) == '>':
			l.readChar()
			l.readChar()
			t = tok(USHR, ">>>")
		case l.peekChar() == '>':
			t = two(SHR)
		default:
			t = tok(GT, ">")
		}
	case '&':
		if l.peekChar() == '&' {
			t = two(AND_AND)
		} else {
			t = tok(AMP, "&")
		}
	case '|':
		if l.peekChar() == '|' {
			t = two(OR_OR)
		} else {
			t = tok(PIPE, "|")
		}
	case '+':
		t = tok(PLUS, "+")
	case '-':
		if l.peekChar() == '>' {
			t = two(ARROW)
		} else {
			t = tok(MINUS, "-")
		}
	case '*':
		t = tok(STAR, "*")
	case '/':
		if l.peekChar() == '/' {
			l.skipSingleLineComment()
			return l.NextToken()
		} else if l.peekChar() == '*' {
			l.readChar() // consume '/'
			l.readChar() // consume '*'
			l.skipMultiLineComment()
			return l.NextToken()
		}
		t = tok(SLASH, "/")
	case '%':
		t = tok(PERCENT, "%")
	case '^':
		t = tok(CARET, "^")
	case '~':
		t = tok(TILDE, "~")
	case '?':
		t = tok(QUESTION, "?")
	case '(':
		t = tok(LPAREN, "(")
	case ')':
		t = tok(RPAREN, ")")
	case '{':
		t = tok(LBRACE, "{")
	case '}':
		t = tok(RBRACE, "}")
	case '[':
		t = tok(LBRACKET, "[")
	case ']':
		t = tok(RBRACKET, "]")
	case ',':
		t = tok(COMMA, ",")
	case ':':
		t = tok(COLON, ":")
	case ';':
		t = tok(SEMICOLON, ";")
	case '.':
		t = tok(DOT, ".")
	case '@':
		t = tok(AT, "@")
	case '"', '\'':
		tt := STRING_LIT
		if l.ch == '\'' {
			tt = CHAR_LIT
		}
		lit, ok := l.readQuoted(l.ch)
		if !ok {
			t = tok(ILLEGAL, lit)
			return t
		}
		t = tok(tt, lit)
	case 0:
		return tok(EOF, "")
	default:
		if isLetter(l.ch) {
			ident := l.readIdentifier()
			return tok(LookupIdent(ident), ident)
		} else if isDigit(l.ch) {
			literal, tokenType := l.readNumber()
			return tok(tokenType, literal)
		}
		t = tok(ILLEGAL, string(l.ch))
	}

	l.readChar()
	return t
}

// Tokenize returns all tokens from the input
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			break
		}
	}
	return tokens
}

// Helper functions

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
