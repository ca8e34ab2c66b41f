// Package diag normalizes the compiler's per-stage error types (lexer,
// parser, code generator, linker) into a single Diagnostic shape for
// display and machine-readable reporting, generalizing the ad-hoc
// per-package error formatting the compiler would otherwise need to
// duplicate at every stage boundary.
package diag

import (
	"fmt"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/cwbudde/go-lscript/internal/codegen"
	"github.com/cwbudde/go-lscript/internal/lexer"
	"github.com/cwbudde/go-lscript/internal/linker"
	"github.com/cwbudde/go-lscript/internal/parser"
)

// Kind identifies which pipeline stage raised a Diagnostic (spec §7).
type Kind int

const (
	KindLex Kind = iota
	KindParse
	KindCodeGen
	KindLink
	KindUndefinedFunction
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindLex:
		return "lex error"
	case KindParse:
		return "parse error"
	case KindCodeGen:
		return "codegen error"
	case KindLink:
		return "link error"
	case KindUndefinedFunction:
		return "undefined function"
	default:
		return "internal error"
	}
}

// Diagnostic is the normalized shape of any compiler-stage failure.
type Diagnostic struct {
	Kind     Kind
	Message  string
	Module   string // module or file name, empty if unknown
	Line     int
	Column   int
	LineText string
}

func (d *Diagnostic) Error() string { return d.Format(false) }

// Format renders the diagnostic with a source-line caret, following the
// compiler's plain-text error presentation. Color emits ANSI codes for
// terminal output.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	if d.Module != "" {
		fmt.Fprintf(&sb, "%s in %s:%d", d.Kind, d.Module, d.Line)
	} else {
		fmt.Fprintf(&sb, "%s at line %d", d.Kind, d.Line)
	}
	if d.Column > 0 {
		fmt.Fprintf(&sb, ":%d", d.Column)
	}
	sb.WriteString("\n")

	if d.LineText != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(d.LineText)
		sb.WriteString("\n")
		if d.Column > 0 {
			sb.WriteString(strings.Repeat(" ", len(lineNumStr)+d.Column-1))
			if color {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

// FormatAll renders a batch of diagnostics, numbering them when there is
// more than one.
func FormatAll(diags []*Diagnostic, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format(color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "compilation failed with %d error(s):\n\n", len(diags))
	for i, d := range diags {
		fmt.Fprintf(&sb, "[%d of %d]\n", i+1, len(diags))
		sb.WriteString(d.Format(color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// FormatJSON renders the diagnostic as a JSON object, built incrementally
// with sjson rather than a struct tag-driven marshal. Fields are written
// in a fixed order (kind, message, module, line, column, lineText), and
// module, column and lineText are omitted when empty, as in the
// plain-text report.
func (d *Diagnostic) FormatJSON() (string, error) {
	json := "{}"
	var err error
	set := func(path string, value interface{}) {
		if err != nil {
			return
		}
		json, err = sjson.Set(json, path, value)
	}
	set("kind", d.Kind.String())
	set("message", d.Message)
	if d.Module != "" {
		set("module", d.Module)
	}
	set("line", d.Line)
	if d.Column > 0 {
		set("column", d.Column)
	}
	if d.LineText != "" {
		set("lineText", d.LineText)
	}
	return json, err
}

// FromError classifies a pipeline error into a Diagnostic. moduleName
// names the source or module the error was raised against; it is
// attached only when the error type itself carries no module name.
func FromError(err error, moduleName string) *Diagnostic {
	switch e := err.(type) {
	case *Diagnostic:
		return e
	case *lexer.LexError:
		return &Diagnostic{
			Kind:     KindLex,
			Message:  e.Error(),
			Module:   moduleName,
			Line:     e.Pos.Line,
			Column:   e.Pos.Column,
			LineText: e.Line,
		}
	case *parser.ParseError:
		return &Diagnostic{
			Kind:     KindParse,
			Message:  e.Error(),
			Module:   moduleName,
			Line:     e.Line,
			LineText: e.LineText,
		}
	case *codegen.CodeGenError:
		return &Diagnostic{
			Kind:    KindCodeGen,
			Message: e.Error(),
			Module:  moduleName,
			Line:    e.Line,
		}
	case *codegen.UndefinedFunctionError:
		return &Diagnostic{
			Kind:    KindUndefinedFunction,
			Message: e.Error(),
			Module:  moduleName,
		}
	case *linker.LinkError:
		return &Diagnostic{
			Kind:    KindLink,
			Message: e.Error(),
			Module:  e.ModuleName,
		}
	default:
		return &Diagnostic{
			Kind:    KindInternal,
			Message: err.Error(),
			Module:  moduleName,
		}
	}
}
