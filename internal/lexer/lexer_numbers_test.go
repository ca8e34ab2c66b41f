package lexer

import "testing"

func TestNumberLiterals(t *testing.T) {
	input := `0 123 3.14 0.5 10.25`

	tests := []struct {
		expectedLiteral string
		expectedType    TokenType
	}{
		{"0", NUMBER},
		{"123", NUMBER},
		{"3.14", NUMBER},
		{"0.5", NUMBER},
		{"10.25", NUMBER},
		{"", EOF},
	}

	l := New(input)
	for i, tt := range tests {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNumberStopsAtSecondDot(t *testing.T) {
	// "1.2.3" is NUMBER(1.2) DOT NUMBER(3), not a three-part float.
	l := New("1.2.3")

	tok, _ := l.NextToken()
	if tok.Type != NUMBER || tok.Literal != "1.2" {
		t.Fatalf("expected NUMBER 1.2, got %s %q", tok.Type, tok.Literal)
	}
	tok, _ = l.NextToken()
	if tok.Type != DOT {
		t.Fatalf("expected DOT, got %s", tok.Type)
	}
	tok, _ = l.NextToken()
	if tok.Type != NUMBER || tok.Literal != "3" {
		t.Fatalf("expected NUMBER 3, got %s %q", tok.Type, tok.Literal)
	}
}
