package lexer

import (
	"testing"
)

func TestNextToken_Operators(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "arithmetic operators",
			input:    "+ - * / %",
			expected: []TokenType{PLUS, MINUS, STAR, SLASH, PERCENT, EOF},
		},
		{
			name:     "comparison operators",
			input:    "== != < > <= >=",
			expected: []TokenType{EQ, NEQ, LT, GT, LEQ, GEQ, EOF},
		},
		{
			name:     "bitwise and shift operators",
			input:    "& | ^ ~ << >> >>>",
			expected: []TokenType{AMP, PIPE, CARET, TILDE, SHL, SHR, USHR, EOF},
		},
		{
			name:     "logical operators",
			input:    "&& || !",
			expected: []TokenType{AND_AND, OR_OR, NOT, EOF},
		},
		{
			name:     "arrow and assignment",
			input:    "-> = ?",
			expected: []TokenType{ARROW, ASSIGN, QUESTION, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input)
			for i, expectedType := range tt.expected {
				tok := l.NextToken()
				if tok.Type != expectedType {
					t.Errorf("token[%d] - wrong type. expected=%q, got=%q",
						i, expectedType, tok.Type)
				}
			}
		})
	}
}

func TestNextToken_Delimiters(t *testing.T) {
	input := "( ) { } [ ] , : ; . @"
	expected := []TokenType{
		LPAREN, RPAREN, LBRACE, RBRACE, LBRACKET, RBRACKET,
		COMMA, COLON, SEMICOLON, DOT, AT, EOF,
	}

	l := New(input)
	for i, expectedType := range expected {
		tok := l.NextToken()
		if tok.Type != expectedType {
			t.Errorf("token[%d] - wrong type. expected=%q, got=%q",
				i, expectedType, tok.Type)
		}
	}
}

func TestNextToken_Keywords(t *testing.T) {
	tests := []struct {
		keyword  string
		expected TokenType
	}{
		{"class", CLASS},
		{"enum", ENUM},
		{"interface", INTERFACE},
		{"switch", SWITCH},
		{"case", CASE},
		{"default", DEFAULT},
		{"break", BREAK},
		{"return", RETURN},
		{"static", STATIC},
		{"final", FINAL},
		{"int", INT},
		{"char", CHAR},
		{"true", TRUE},
		{"null", NULL},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			l := New(tt.keyword)
			tok := l.NextToken()
			if tok.Type != tt.expected {
				t.Errorf("keyword %q - wrong type. expected=%q, got=%q",
					tt.keyword, tt.expected, tok.Type)
			}
			if tok.Literal != tt.keyword {
				t.Errorf("keyword %q - wrong literal. expected=%q, got=%q",
					tt.keyword, tt.keyword, tok.Literal)
			}
		})
	}
}

func TestNextToken_RestrictedWordsStayIdentifiers(t *testing.T) {
	for _, word := range []string{"yield", "record", "sealed", "permits", "when"} {
		tok := New(word).NextToken()
		if tok.Type != IDENT {
			t.Errorf("%q: expected IDENT from the scanner, got %s", word, tok.Type)
		}
	}
}

func TestNextToken_Literals(t *testing.T) {
	tests := []struct {
		input   string
		tt      TokenType
		literal string
	}{
		{"42", INT_LIT, "42"},
		{"0x1F", INT_LIT, "0x1F"},
		{"0b101", INT_LIT, "0b101"},
		{"1_000", INT_LIT, "1_000"},
		{"7L", LONG_LIT, "7L"},
		{"'a'", CHAR_LIT, "'a'"},
		{`'\n'`, CHAR_LIT, `'\n'`},
		{`"hi \"there\""`, STRING_LIT, `"hi \"there\""`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := New(tt.input).NextToken()
			if tok.Type != tt.tt {
				t.Fatalf("expected %s, got %s", tt.tt, tok.Type)
			}
			if tok.Literal != tt.literal {
				t.Errorf("expected literal %q, got %q", tt.literal, tok.Literal)
			}
		})
	}
}

func TestNextToken_UnterminatedString(t *testing.T) {
	tok := New(`"abc`).NextToken()
	if tok.Type != ILLEGAL {
		t.Errorf("expected ILLEGAL, got %s", tok.Type)
	}
}

func TestNextToken_Comments(t *testing.T) {
	input := `// line comment
case /* block
comment */ A`
	toks := New(input).Tokenize()
	want := []TokenType{CASE, IDENT, EOF}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(toks))
	}
	for i := range want {
		if toks[i].Type != want[i] {
			t.Errorf("token[%d]: expected %s, got %s", i, want[i], toks[i].Type)
		}
	}
	if toks[1].Line != 3 {
		t.Errorf("expected A on line 3, got %d", toks[1].Line)
	}
}

func TestNextToken_Positions(t *testing.T) {
	input := "case A ->\n  B"
	toks := New(input).Tokenize()
	expected := []struct {
		line, col, offset, end int
	}{
		{1, 1, 0, 4},
		{1, 6, 5, 6},
		{1, 8, 7, 9},
		{2, 3, 12, 13},
	}
	for i, e := range expected {
		tok := toks[i]
		if tok.Line != e.line || tok.Column != e.col {
			t.Errorf("token[%d] %q: expected %d:%d, got %d:%d", i, tok.Literal, e.line, e.col, tok.Line, tok.Column)
		}
		if tok.Offset != e.offset || tok.End() != e.end {
			t.Errorf("token[%d] %q: expected span %d-%d, got %d-%d", i, tok.Literal, e.offset, e.end, tok.Offset, tok.End())
		}
	}
}

func TestRestrictedKeyword(t *testing.T) {
	tests := []struct {
		text     string
		expected TokenType
	}{
		{"yield", RESTRICTED_YIELD},
		{"record", RESTRICTED_RECORD},
		{"when", RESTRICTED_WHEN},
		{"sealed", RESTRICTED_SEALED},
		{"permits", RESTRICTED_PERMITS},
		{"Yield", NOT_A_TOKEN},
		{"RECORD", NOT_A_TOKEN},
		{"recordx", NOT_A_TOKEN},
		{"recor", NOT_A_TOKEN},
		{"whe", NOT_A_TOKEN},
		{"wxyz", NOT_A_TOKEN},
		{"sealer", NOT_A_TOKEN},
		{"permit", NOT_A_TOKEN},
		{"", NOT_A_TOKEN},
		{"switch", NOT_A_TOKEN},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := RestrictedKeyword(tt.text); got != tt.expected {
				t.Errorf("RestrictedKeyword(%q) = %s, want %s", tt.text, got, tt.expected)
			}
			if got := RestrictedKeywordRunes([]rune(tt.text)); got != tt.expected {
				t.Errorf("RestrictedKeywordRunes(%q) = %s, want %s", tt.text, got, tt.expected)
			}
		})
	}

	if got := RestrictedKeywordRunes(nil); got != NOT_A_TOKEN {
		t.Errorf("nil runes: expected NOT_A_TOKEN, got %s", got)
	}
}

func TestIsRestrictedKeyword(t *testing.T) {
	restricted := map[TokenType]bool{
		RESTRICTED_YIELD:   true,
		RESTRICTED_RECORD:  true,
		RESTRICTED_SEALED:  true,
		RESTRICTED_PERMITS: true,
		RESTRICTED_WHEN:    true,
	}
	for tt := NOT_A_TOKEN; tt <= AT; tt++ {
		if got := IsRestrictedKeyword(tt); got != restricted[tt] {
			t.Errorf("IsRestrictedKeyword(%s) = %v, want %v", tt, got, restricted[tt])
		}
	}
	if IsRestrictedKeyword(TokenType(-1)) || IsRestrictedKeyword(AT+100) {
		t.Error("out-of-range kinds must not be restricted")
	}
}

func TestRestrictedSince(t *testing.T) {
	if RestrictedSince(RESTRICTED_YIELD) != 14 || RestrictedSince(RESTRICTED_WHEN) != 21 {
		t.Errorf("unexpected source levels: yield=%d when=%d",
			RestrictedSince(RESTRICTED_YIELD), RestrictedSince(RESTRICTED_WHEN))
	}
	if RestrictedSince(IDENT) != 0 {
		t.Errorf("IDENT should have no restricted level")
	}
}

func TestTokenTypeString(t *testing.T) {
	if RESTRICTED_PERMITS.String() != "permits" {
		t.Errorf("got %q", RESTRICTED_PERMITS.String())
	}
	if TokenType(9999).String() != "TokenType(9999)" {
		t.Errorf("got %q", TokenType(9999).String())
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		tok   Token
		level int
		want  TokenType
	}{
		{Token{Type: IDENT, Literal: "yield"}, 14, RESTRICTED_YIELD},
		{Token{Type: IDENT, Literal: "yield"}, 13, IDENT},
		{Token{Type: IDENT, Literal: "record"}, 16, RESTRICTED_RECORD},
		{Token{Type: IDENT, Literal: "sealed"}, 16, IDENT},
		{Token{Type: IDENT, Literal: "permits"}, 21, RESTRICTED_PERMITS},
		{Token{Type: IDENT, Literal: "when"}, 17, IDENT},
		{Token{Type: IDENT, Literal: "when"}, 21, RESTRICTED_WHEN},
		{Token{Type: IDENT, Literal: "whenever"}, 21, IDENT},
		{Token{Type: SWITCH, Literal: "switch"}, 8, SWITCH},
	}
	for _, tt := range tests {
		if got := Classify(tt.tok, tt.level); got != tt.want {
			t.Errorf("Classify(%q, %d) = %s, want %s", tt.tok.Literal, tt.level, got, tt.want)
		}
	}
}
