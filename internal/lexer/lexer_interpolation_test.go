package lexer

import "testing"

func collectTypes(t *testing.T, input string) []TokenType {
	t.Helper()
	l := New(input)
	var types []TokenType
	for {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Type == EOF {
			break
		}
		types = append(types, tok.Type)
	}
	return types
}

func TestInterpolationSingleSplice(t *testing.T) {
	// "hi ${name}!" -> "hi " & (name) & "!"
	got := collectTypes(t, `"hi ${name}!"`)
	want := []TokenType{STRING, AMP, LPAREN, IDENT, RPAREN, AMP, STRING}
	assertTypes(t, got, want)
}

func TestInterpolationElidesEmptyEdges(t *testing.T) {
	// "${x}" -> (x), no leading/trailing empty string & operators.
	got := collectTypes(t, `"${x}"`)
	want := []TokenType{LPAREN, IDENT, RPAREN}
	assertTypes(t, got, want)
}

func TestInterpolationMultipleSplices(t *testing.T) {
	// "a${x}b${y}c" -> "a" & (x) & "b" & (y) & "c"
	got := collectTypes(t, `"a${x}b${y}c"`)
	want := []TokenType{
		STRING, AMP, LPAREN, IDENT, RPAREN,
		AMP, STRING, AMP, LPAREN, IDENT, RPAREN,
		AMP, STRING,
	}
	assertTypes(t, got, want)
}

func TestInterpolationNoSpliceIsUnchanged(t *testing.T) {
	got := collectTypes(t, `"plain text"`)
	assertTypes(t, got, []TokenType{STRING})
}

func TestInterpolationExprMayItselfContainString(t *testing.T) {
	got := collectTypes(t, `"${"${x}"}"`)
	want := []TokenType{LPAREN, LPAREN, IDENT, RPAREN, RPAREN}
	assertTypes(t, got, want)
}

func assertTypes(t *testing.T, got, want []TokenType) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token[%d]: got %s, want %s (full: got %v, want %v)", i, got[i], want[i], got, want)
		}
	}
}
