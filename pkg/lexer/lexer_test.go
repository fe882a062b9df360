package lexer

import (
	"testing"

	"github.com/kristofer/rlox/pkg/token"
)

func TestNext_BasicTokens(t *testing.T) {
	input := `( ) { } , . - + ; * /`

	tests := []struct {
		expectedKind    token.Kind
		expectedLexeme  string
	}{
		{token.LeftParen, "("},
		{token.RightParen, ")"},
		{token.LeftBrace, "{"},
		{token.RightBrace, "}"},
		{token.Comma, ","},
		{token.Dot, "."},
		{token.Minus, "-"},
		{token.Plus, "+"},
		{token.Semicolon, ";"},
		{token.Star, "*"},
		{token.Slash, "/"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("tests[%d]: unexpected error: %v", i, err)
		}
		if tok.Kind != tt.expectedKind {
			t.Fatalf("tests[%d] - kind wrong. expected=%s, got=%s", i, tt.expectedKind, tok.Kind)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestNext_Operators(t *testing.T) {
	input := `! != = == < <= > >=`

	tests := []struct {
		expectedKind   token.Kind
		expectedLexeme string
	}{
		{token.Bang, "!"},
		{token.BangEqual, "!="},
		{token.Equal, "="},
		{token.EqualEqual, "=="},
		{token.Less, "<"},
		{token.LessEqual, "<="},
		{token.Greater, ">"},
		{token.GreaterEqual, ">="},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("tests[%d]: unexpected error: %v", i, err)
		}
		if tok.Kind != tt.expectedKind || tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - got {%s %q}, want {%s %q}",
				i, tok.Kind, tok.Lexeme, tt.expectedKind, tt.expectedLexeme)
		}
	}
}

func TestNext_NumbersAndStrings(t *testing.T) {
	input := `42 3.14 "hello world" ""`

	tests := []struct {
		expectedKind   token.Kind
		expectedLexeme string
	}{
		{token.Number, "42"},
		{token.Number, "3.14"},
		{token.String, "hello world"},
		{token.String, ""},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("tests[%d]: unexpected error: %v", i, err)
		}
		if tok.Kind != tt.expectedKind || tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - got {%s %q}, want {%s %q}",
				i, tok.Kind, tok.Lexeme, tt.expectedKind, tt.expectedLexeme)
		}
	}
}

func TestNext_KeywordsAndIdentifiers(t *testing.T) {
	input := `var x = true and false or nil fun print return while for if else class this super`

	expectedKinds := []token.Kind{
		token.Var, token.Identifier, token.Equal, token.True, token.And, token.False,
		token.Or, token.Nil, token.Fun, token.Print, token.Return, token.While,
		token.For, token.If, token.Else, token.Class, token.This, token.Super,
		token.EOF,
	}

	l := New(input)
	for i, expected := range expectedKinds {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("tests[%d]: unexpected error: %v", i, err)
		}
		if tok.Kind != expected {
			t.Fatalf("tests[%d] - kind wrong. expected=%s, got=%s", i, expected, tok.Kind)
		}
	}
}

func TestNext_LineComment(t *testing.T) {
	input := "x // this is a comment\ny"

	l := New(input)
	tok1, _ := l.Next()
	if tok1.Kind != token.Identifier || tok1.Lexeme != "x" {
		t.Fatalf("expected identifier x, got %+v", tok1)
	}
	tok2, _ := l.Next()
	if tok2.Kind != token.Identifier || tok2.Lexeme != "y" {
		t.Fatalf("expected identifier y, got %+v", tok2)
	}
	if tok2.Line != 2 {
		t.Fatalf("expected y on line 2, got line %d", tok2.Line)
	}
}

func TestNext_NumberBeforePeriod(t *testing.T) {
	input := `42.`

	l := New(input)
	tok1, _ := l.Next()
	if tok1.Kind != token.Number || tok1.Lexeme != "42" {
		t.Fatalf("expected NUMBER 42, got %+v", tok1)
	}
	tok2, _ := l.Next()
	if tok2.Kind != token.Dot {
		t.Fatalf("expected '.', got %+v", tok2)
	}
}

func TestNext_UnterminatedString(t *testing.T) {
	l := New(`"unterminated`)
	_, err := l.Next()
	if err == nil {
		t.Fatal("expected an error for an unterminated string")
	}
}

func TestNext_IllegalCharacter(t *testing.T) {
	l := New(`@`)
	tok, err := l.Next()
	if err == nil {
		t.Fatal("expected an error for an illegal character")
	}
	if tok.Kind != token.Illegal {
		t.Fatalf("expected ILLEGAL token, got %s", tok.Kind)
	}
}

func TestPeek_IsIdempotentAndDoesNotConsume(t *testing.T) {
	l := New(`x y`)

	p1, err := l.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p2, err := l.Peek()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p1 != p2 {
		t.Fatalf("two Peek calls returned different tokens: %+v vs %+v", p1, p2)
	}

	n1, _ := l.Next()
	if n1 != p1 {
		t.Fatalf("Next after Peek returned a different token: %+v vs %+v", n1, p1)
	}

	n2, _ := l.Next()
	if n2.Lexeme != "y" {
		t.Fatalf("expected second token to be 'y', got %+v", n2)
	}
}

func TestLineTracking(t *testing.T) {
	input := "x\ny\nz"
	l := New(input)

	tok1, _ := l.Next()
	if tok1.Line != 1 {
		t.Errorf("expected line 1, got %d", tok1.Line)
	}
	tok2, _ := l.Next()
	if tok2.Line != 2 {
		t.Errorf("expected line 2, got %d", tok2.Line)
	}
	tok3, _ := l.Next()
	if tok3.Line != 3 {
		t.Errorf("expected line 3, got %d", tok3.Line)
	}
}
