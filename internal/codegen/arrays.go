package codegen

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-lscript/internal/ast"
)

// genArrayLit generates an array or hash literal (spec §4.3, Arrays and
// member access). A non-empty array of only number/string literals is
// folded into the constant-data pool instead of being built at runtime.
func (g *Generator) genArrayLit(e *ast.ArrayLit) error {
	if e.IsHash {
		for i, key := range e.Keys {
			if err := g.genExpr(key); err != nil {
				return err
			}
			if err := g.genExpr(e.Elements[i]); err != nil {
				return err
			}
		}
		g.emit("mk_hash", strconv.Itoa(len(e.Elements)), e.Line())
		return nil
	}

	if len(e.Elements) > 0 && allLiteral(e.Elements) {
		idx := g.mod.AddConst(literalRecord(e.Elements))
		g.emit("load.const", strconv.Itoa(idx), e.Line())
		return nil
	}

	for _, el := range e.Elements {
		if err := g.genExpr(el); err != nil {
			return err
		}
	}
	g.emit("mk_array", strconv.Itoa(len(e.Elements)), e.Line())
	return nil
}

func allLiteral(elements []ast.Expr) bool {
	for _, el := range elements {
		switch el.(type) {
		case *ast.NumberLit, *ast.StringLit:
		default:
			return false
		}
	}
	return true
}

func literalRecord(elements []ast.Expr) string {
	parts := make([]string, len(elements))
	for i, el := range elements {
		switch lit := el.(type) {
		case *ast.NumberLit:
			parts[i] = lit.Raw
		case *ast.StringLit:
			parts[i] = lit.Literal
		}
	}
	return strings.Join(parts, " ")
}

// literalArg returns the textual argument form for a literal index
// expression (used by the `.index` opcode variants), and whether Index is
// such a literal.
func literalArg(index ast.Expr) (string, bool) {
	switch lit := index.(type) {
	case *ast.NumberLit:
		return lit.Raw, true
	case *ast.StringLit:
		return lit.Literal, true
	default:
		return "", false
	}
}

// genIndexLoad generates member/array access (spec §4.3, Arrays and
// member access: Indexing).
func (g *Generator) genIndexLoad(e *ast.IndexExpr) error {
	if recv, ok := e.Receiver.(*ast.Identifier); ok && !g.isKnownVariable(recv.Name) {
		if def, ok := g.nativeTables[recv.Name]; ok {
			if key, ok := e.Index.(*ast.StringLit); ok && def.HasConst(key.Unquoted()) {
				g.emit("load.const", recv.Name+"::"+key.Unquoted(), e.Line())
				return nil
			}
		}
	}

	if err := g.genExpr(e.Receiver); err != nil {
		return err
	}
	if arg, ok := literalArg(e.Index); ok {
		g.emit("get.index", arg, e.Line())
		return nil
	}
	if err := g.genExpr(e.Index); err != nil {
		return err
	}
	g.emit("get", "", e.Line())
	return nil
}

// genIndexAssign generates element assignment, plain or compound (spec
// §4.3, Arrays and member access: Element assignment).
func (g *Generator) genIndexAssign(s *ast.IndexAssignStmt) error {
	if err := g.genExpr(s.Value); err != nil {
		return err
	}
	if err := g.genExpr(s.Receiver); err != nil {
		return err
	}

	if s.Op != "" {
		if err := g.genExpr(s.Index); err != nil {
			return err
		}
		mnemonic, ok := mathOps[s.Op]
		if !ok {
			return g.fail(s.Line(), "unknown compound assignment operator %q", s.Op)
		}
		g.emit("set.op", mnemonic, s.Line())
		return nil
	}

	if arg, ok := literalArg(s.Index); ok {
		g.emit("set.index", arg, s.Line())
		return nil
	}
	if err := g.genExpr(s.Index); err != nil {
		return err
	}
	g.emit("set", "", s.Line())
	return nil
}

// genObjectConstructor generates `new { ... }` (spec §4.3, Other
// statements; SPEC_FULL.md §C.3 makes the literal-hash requirement a
// CodeGenError rather than a parse-time grammar restriction).
func (g *Generator) genObjectConstructor(e *ast.ObjectConstructor) error {
	if e.Hash == nil {
		return g.fail(e.Line(), "new{} requires a literal hash expression")
	}
	if err := g.genExpr(e.Hash); err != nil {
		return err
	}
	g.emit("bind_refs", "", e.Line())
	return nil
}
