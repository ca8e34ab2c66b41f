package parser

import (
	"fmt"

	"github.com/cwbudde/go-lscript/internal/lexer"
)

// ParseError reports a violated grammar production (spec §7, InvalidToken).
// Parsing is fatal on the first error; there is no recovery.
type ParseError struct {
	TokenType lexer.TokenType
	Literal   string
	Line      int
	LineText  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unexpected %s %q at line %d: %s", e.TokenType, e.Literal, e.Line, e.LineText)
}
