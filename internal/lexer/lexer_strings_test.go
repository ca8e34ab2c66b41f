package lexer

import "testing"

func TestPlainStringLiteral(t *testing.T) {
	l := New(`"hello world"`)

	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %s", tok.Type)
	}
	if tok.Literal != `"hello world"` {
		t.Fatalf("literal wrong, got %q", tok.Literal)
	}

	tok, _ = l.NextToken()
	if tok.Type != EOF {
		t.Fatalf("expected EOF, got %s", tok.Type)
	}
}

func TestUnterminatedStringIsLexError(t *testing.T) {
	l := New(`"hello`)

	_, err := l.NextToken()
	if err == nil {
		t.Fatal("expected a LexError for an unterminated string")
	}
	if _, ok := err.(*LexError); !ok {
		t.Fatalf("expected *LexError, got %T", err)
	}
}

func TestEmptyStringLiteral(t *testing.T) {
	l := New(`""`)

	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != STRING || tok.Literal != `""` {
		t.Fatalf("expected empty STRING, got %s %q", tok.Type, tok.Literal)
	}
}
