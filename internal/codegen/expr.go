package codegen

import (
	"strconv"

	"github.com/cwbudde/go-lscript/internal/ast"
)

// mathOps, compareOps, and logicOps map AST operator text to opcode
// mnemonics (spec §4.3, Expressions and §6 opcode set).
var mathOps = map[string]string{"+": "add", "-": "sub", "*": "mul", "/": "div", "%": "mod"}
var compareOps = map[string]string{"<": "lt", "<=": "le", ">": "gt", ">=": "ge", "==": "eq", "!=": "ne"}
var logicOps = map[string]bool{"and": true, "or": true, "xor": true}

func (g *Generator) genExpr(expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.NumberLit:
		idx := g.mod.AddConst(e.Raw)
		g.emit("load.const", strconv.Itoa(idx), e.Line())
		return nil

	case *ast.StringLit:
		idx := g.mod.AddConst(e.Literal)
		g.emit("load.const", strconv.Itoa(idx), e.Line())
		return nil

	case *ast.Identifier:
		if g.isBuiltinConst(e.Name) {
			g.emit("load.const", e.Name, e.Line())
			return nil
		}
		g.emitLoad(e.Name, e.Line())
		return nil

	case *ast.BinaryExpr:
		return g.genBinaryExpr(e)

	case *ast.UnaryExpr:
		return g.genUnaryExpr(e)

	case *ast.CondExpr:
		return g.genCondExpr(e)

	case *ast.CallExpr:
		return g.genCall(e)

	case *ast.IndexExpr:
		return g.genIndexLoad(e)

	case *ast.FuncRef:
		return g.genFuncRef(e)

	case *ast.ArrayLit:
		return g.genArrayLit(e)

	case *ast.ObjectConstructor:
		return g.genObjectConstructor(e)

	default:
		return g.fail(expr.Line(), "unsupported expression kind %T", expr)
	}
}

func (g *Generator) genBinaryExpr(e *ast.BinaryExpr) error {
	if err := g.genExpr(e.Left); err != nil {
		return err
	}
	if err := g.genExpr(e.Right); err != nil {
		return err
	}
	if mnemonic, ok := mathOps[e.Op]; ok {
		g.emit(mnemonic, "", e.Line())
		return nil
	}
	if mnemonic, ok := compareOps[e.Op]; ok {
		g.emit(mnemonic, "", e.Line())
		return nil
	}
	if logicOps[e.Op] {
		g.emit(e.Op, "", e.Line())
		return nil
	}
	if e.Op == "&" {
		g.emit("concat", "", e.Line())
		return nil
	}
	return g.fail(e.Line(), "unknown binary operator %q", e.Op)
}

func (g *Generator) genUnaryExpr(e *ast.UnaryExpr) error {
	if err := g.genExpr(e.X); err != nil {
		return err
	}
	switch e.Op {
	case "neg":
		idx := g.mod.AddConst("-1")
		g.emit("load.const", strconv.Itoa(idx), e.Line())
		g.emit("mul", "", e.Line())
		return nil
	case "not":
		g.emit("not", "", e.Line())
		return nil
	default:
		return g.fail(e.Line(), "unknown unary operator %q", e.Op)
	}
}

// genCondExpr generates the if(c, t, f) conditional-expression form (spec
// §4.3, If expression / statement).
func (g *Generator) genCondExpr(e *ast.CondExpr) error {
	id := g.nextLabelID()
	trueLabel := "IF_TRUE_" + itoa(id)
	endLabel := "IFE_END_" + itoa(id)

	if err := g.genCondJump(e.Cond, trueLabel, true); err != nil {
		return err
	}
	if err := g.genExpr(e.Else); err != nil {
		return err
	}
	g.emit("jmp", endLabel, e.Line())
	g.emitLabel(trueLabel)
	if err := g.genExpr(e.Then); err != nil {
		return err
	}
	g.emitLabel(endLabel)
	return nil
}

func itoa(n int) string { return strconv.Itoa(n) }
