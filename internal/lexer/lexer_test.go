package lexer

import (
	"testing"

	"zephyr-lang/internal/token"
)

func TestTokenizeSimple(t *testing.T) {
	source := `let x = 1 + 2`
	l := New(source, "test.zp")
	tokens, diags := l.Tokenize()

	if len(diags) > 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}

	expected := []token.Kind{
		token.KW_LET, token.IDENT, token.ASSIGN,
		token.NUMBER, token.PLUS, token.NUMBER, token.EOF,
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}

	for i, exp := range expected {
		if tokens[i].Kind != exp {
			t.Errorf("token[%d]: expected %s, got %s (%q)", i, exp, tokens[i].Kind, tokens[i].Lexeme)
		}
	}
}

func TestTokenizeKeywords(t *testing.T) {
	source := `let const var function if else while return async await try catch throw true false null undefined`
	l := New(source, "test.zp")
	tokens, diags := l.Tokenize()

	if len(diags) > 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}

	expected := []token.Kind{
		token.KW_LET, token.KW_CONST, token.KW_VAR, token.KW_FUNCTION,
		token.KW_IF, token.KW_ELSE, token.KW_WHILE, token.KW_RETURN,
		token.KW_ASYNC, token.KW_AWAIT, token.KW_TRY, token.KW_CATCH,
		token.KW_THROW, token.KW_TRUE, token.KW_FALSE, token.KW_NULL,
		token.KW_UNDEFINED,
		token.EOF,
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}

	for i, exp := range expected {
		if tokens[i].Kind != exp {
			t.Errorf("token[%d]: expected %s, got %s", i, exp, tokens[i].Kind)
		}
	}
}

func TestTokenizeOperators(t *testing.T) {
	source := `= == != < <= > >= + - * / % && ||`
	l := New(source, "test.zp")
	tokens, diags := l.Tokenize()

	if len(diags) > 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}

	expected := []token.Kind{
		token.ASSIGN, token.EQ, token.NEQ,
		token.LT, token.LTE, token.GT, token.GTE,
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.AND, token.OR,
		token.EOF,
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}

	for i, exp := range expected {
		if tokens[i].Kind != exp {
			t.Errorf("token[%d]: expected %s, got %s", i, exp, tokens[i].Kind)
		}
	}
}

func TestTokenizeDelimiters(t *testing.T) {
	source := `( ) { } [ ] , . ; :`
	l := New(source, "test.zp")
	tokens, diags := l.Tokenize()

	if len(diags) > 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}

	expected := []token.Kind{
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.LBRACKET, token.RBRACKET, token.COMMA, token.DOT,
		token.SEMICOLON, token.COLON,
		token.EOF,
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}

	for i, exp := range expected {
		if tokens[i].Kind != exp {
			t.Errorf("token[%d]: expected %s, got %s", i, exp, tokens[i].Kind)
		}
	}
}

func TestTokenizeStrings(t *testing.T) {
	source := `"hello" 'world'`
	l := New(source, "test.zp")
	tokens, diags := l.Tokenize()

	if len(diags) > 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}

	if tokens[0].Kind != token.STRING || tokens[0].Lexeme != "hello" {
		t.Errorf("expected STRING 'hello', got %s %q", tokens[0].Kind, tokens[0].Lexeme)
	}
	if tokens[1].Kind != token.STRING || tokens[1].Lexeme != "world" {
		t.Errorf("expected STRING 'world', got %s %q", tokens[1].Kind, tokens[1].Lexeme)
	}
}

func TestTokenizeStringVerbatim(t *testing.T) {
	// Backslash sequences are not escapes; the content is taken as written.
	source := `"a\nb"`
	l := New(source, "test.zp")
	tokens, diags := l.Tokenize()

	if len(diags) > 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if tokens[0].Lexeme != `a\nb` {
		t.Errorf("expected verbatim content %q, got %q", `a\nb`, tokens[0].Lexeme)
	}
}

func TestTokenizeStringSpansNewline(t *testing.T) {
	source := "\"line1\nline2\""
	l := New(source, "test.zp")
	tokens, diags := l.Tokenize()

	if len(diags) > 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if tokens[0].Kind != token.STRING || tokens[0].Lexeme != "line1\nline2" {
		t.Errorf("expected STRING with embedded newline, got %s %q", tokens[0].Kind, tokens[0].Lexeme)
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	source := `"abc`
	l := New(source, "test.zp")
	_, diags := l.Tokenize()

	if len(diags) != 1 || diags[0].Code != "E1001" {
		t.Fatalf("expected one E1001 diagnostic, got %v", diags)
	}
}

func TestTokenizeNumbers(t *testing.T) {
	source := `123 3.14 0 42`
	l := New(source, "test.zp")
	tokens, diags := l.Tokenize()

	if len(diags) > 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}

	wantLexemes := []string{"123", "3.14", "0", "42"}
	for i, want := range wantLexemes {
		if tokens[i].Kind != token.NUMBER || tokens[i].Lexeme != want {
			t.Errorf("token[%d]: expected NUMBER %q, got %s %q", i, want, tokens[i].Kind, tokens[i].Lexeme)
		}
	}
}

func TestTokenizeTrailingDot(t *testing.T) {
	// A dot not followed by a digit belongs to the next token, not the number.
	source := `1.foo`
	l := New(source, "test.zp")
	tokens, _ := l.Tokenize()

	expected := []token.Kind{token.NUMBER, token.DOT, token.IDENT, token.EOF}
	for i, exp := range expected {
		if tokens[i].Kind != exp {
			t.Errorf("token[%d]: expected %s, got %s", i, exp, tokens[i].Kind)
		}
	}
}

func TestTokenizeNewlines(t *testing.T) {
	source := "a\nb\n"
	l := New(source, "test.zp")
	tokens, _ := l.Tokenize()

	expected := []token.Kind{
		token.IDENT, token.NEWLINE, token.IDENT, token.NEWLINE, token.EOF,
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, exp := range expected {
		if tokens[i].Kind != exp {
			t.Errorf("token[%d]: expected %s, got %s", i, exp, tokens[i].Kind)
		}
	}
}

func TestTokenizeLineComment(t *testing.T) {
	source := "x // this is a comment\ny"
	l := New(source, "test.zp")
	tokens, _ := l.Tokenize()

	expected := []token.Kind{
		token.IDENT, token.NEWLINE, token.IDENT, token.EOF,
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, exp := range expected {
		if tokens[i].Kind != exp {
			t.Errorf("token[%d]: expected %s, got %s", i, exp, tokens[i].Kind)
		}
	}
}

func TestTokenizeNestedBlockComment(t *testing.T) {
	source := "x /* a /* b */ c */ y"
	l := New(source, "test.zp")
	tokens, diags := l.Tokenize()

	if len(diags) > 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}

	expected := []token.Kind{token.IDENT, token.IDENT, token.EOF}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, exp := range expected {
		if tokens[i].Kind != exp {
			t.Errorf("token[%d]: expected %s, got %s", i, exp, tokens[i].Kind)
		}
	}
}

func TestTokenizeUnterminatedBlockComment(t *testing.T) {
	source := "x /* a /* b */ c"
	l := New(source, "test.zp")
	_, diags := l.Tokenize()

	if len(diags) != 1 || diags[0].Code != "E1002" {
		t.Fatalf("expected one E1002 diagnostic, got %v", diags)
	}
}

func TestTokenizeLoneAmpersand(t *testing.T) {
	for _, src := range []string{"a & b", "a | b", "a ! b"} {
		l := New(src, "test.zp")
		tokens, diags := l.Tokenize()
		if len(diags) != 1 || diags[0].Code != "E1003" {
			t.Errorf("%q: expected one E1003 diagnostic, got %v", src, diags)
		}
		found := false
		for _, tok := range tokens {
			if tok.Kind == token.ILLEGAL {
				found = true
			}
		}
		if !found {
			t.Errorf("%q: expected an ILLEGAL token", src)
		}
	}
}

func TestTokenizeUnicodeIdentifier(t *testing.T) {
	source := "let café = 1"
	l := New(source, "test.zp")
	tokens, diags := l.Tokenize()

	if len(diags) > 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}
	if tokens[1].Kind != token.IDENT || tokens[1].Lexeme != "café" {
		t.Errorf("expected IDENT 'café', got %s %q", tokens[1].Kind, tokens[1].Lexeme)
	}
}

func TestTokenizePositions(t *testing.T) {
	source := "let x = 1"
	l := New(source, "test.zp")
	tokens, _ := l.Tokenize()

	// "let" starts at line 1, col 1
	if tokens[0].Span.Start.Line != 1 || tokens[0].Span.Start.Column != 1 {
		t.Errorf("'let' position: expected 1:1, got %d:%d", tokens[0].Span.Start.Line, tokens[0].Span.Start.Column)
	}
	// "x" starts at line 1, col 5
	if tokens[1].Span.Start.Line != 1 || tokens[1].Span.Start.Column != 5 {
		t.Errorf("'x' position: expected 1:5, got %d:%d", tokens[1].Span.Start.Line, tokens[1].Span.Start.Column)
	}
}
