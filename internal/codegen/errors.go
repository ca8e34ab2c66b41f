package codegen

import (
	"fmt"
	"strings"
)

// CodeGenError reports a semantic failure during code generation: an
// unresolved variable, an invalid module reference, a break/continue
// outside a loop or beyond nesting depth, or an unsupported node kind
// (spec §7).
type CodeGenError struct {
	Line int
	Msg  string
}

func (e *CodeGenError) Error() string {
	return fmt.Sprintf("codegen error at line %d: %s", e.Line, e.Msg)
}

// UndefinedFunctionError lists every unqualified user-function reference
// left unresolved at the end of code generation.
type UndefinedFunctionError struct {
	Names []string
}

func (e *UndefinedFunctionError) Error() string {
	return fmt.Sprintf("undefined function(s): %s", strings.Join(e.Names, ", "))
}
