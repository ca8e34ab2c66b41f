package codegen

import "github.com/cwbudde/go-lscript/internal/ast"

// invertCompare implements the comparison-inversion table (spec §4.3):
// < <-> >=, <= <-> >, == <-> != (and each reverse).
var invertCompare = map[string]string{
	"lt": "ge", "ge": "lt",
	"le": "gt", "gt": "le",
	"eq": "ne", "ne": "eq",
}

// genCondJump emits code that jumps to label when cond evaluates to
// jumpOnTrue. A top-level comparison is folded directly into a jmp<cmp>
// (inverted when jumpOnTrue is false); anything else is evaluated and
// compared against `load.const true` with jmpeq/jmpne.
func (g *Generator) genCondJump(cond ast.Expr, label string, jumpOnTrue bool) error {
	if bin, ok := cond.(*ast.BinaryExpr); ok {
		if cmp, ok := compareOps[bin.Op]; ok {
			if err := g.genExpr(bin.Left); err != nil {
				return err
			}
			if err := g.genExpr(bin.Right); err != nil {
				return err
			}
			if !jumpOnTrue {
				cmp = invertCompare[cmp]
			}
			g.emit("jmp"+cmp, label, cond.Line())
			return nil
		}
	}

	if err := g.genExpr(cond); err != nil {
		return err
	}
	idx := g.mod.AddConst("true")
	g.emit("load.const", itoa(idx), cond.Line())
	if jumpOnTrue {
		g.emit("jmpeq", label, cond.Line())
	} else {
		g.emit("jmpne", label, cond.Line())
	}
	return nil
}

func (g *Generator) nextLabelID() int {
	id := g.loopSeq
	g.loopSeq++
	return id
}

// genIfStmt generates the jump chain for an if/elsif/.../else statement
// (spec §4.3, If statement with/without else).
func (g *Generator) genIfStmt(s *ast.IfStmt) error {
	id := g.nextLabelID()
	endLabel := "IF_END_" + itoa(id)

	if s.Else != nil {
		return g.genIfWithElse(s, id, endLabel)
	}
	return g.genIfWithoutElse(s, id, endLabel)
}

func (g *Generator) genIfWithElse(s *ast.IfStmt, id int, endLabel string) error {
	branchLabels := make([]string, len(s.Branches))
	for i := range s.Branches {
		branchLabels[i] = "IF_C_" + itoa(id) + "_" + itoa(i)
	}

	for i, branch := range s.Branches {
		if err := g.genCondJump(branch.Cond, branchLabels[i], true); err != nil {
			return err
		}
	}

	if err := g.genBlock(s.Else); err != nil {
		return err
	}
	g.emit("jmp", endLabel, s.Line())

	for i, branch := range s.Branches {
		g.emitLabel(branchLabels[i])
		if err := g.genBlock(branch.Body); err != nil {
			return err
		}
		if i < len(s.Branches)-1 {
			g.emit("jmp", endLabel, s.Line())
		}
	}
	g.emitLabel(endLabel)
	return nil
}

func (g *Generator) genIfWithoutElse(s *ast.IfStmt, id int, endLabel string) error {
	for i, branch := range s.Branches {
		isLast := i == len(s.Branches)-1
		nextLabel := endLabel
		if !isLast {
			nextLabel = "IF_C_" + itoa(id) + "_" + itoa(i+1)
		}
		if err := g.genCondJump(branch.Cond, nextLabel, false); err != nil {
			return err
		}
		if err := g.genBlock(branch.Body); err != nil {
			return err
		}
		if !isLast {
			g.emit("jmp", endLabel, s.Line())
			g.emitLabel(nextLabel)
		}
	}
	g.emitLabel(endLabel)
	return nil
}

// genForWhile generates "for cond ... end" (spec §4.3, Loops).
func (g *Generator) genForWhile(s *ast.ForWhileStmt) error {
	id := g.nextLabelID()
	condLabel := "FOR_COND_" + itoa(id)
	loopLabel := "FOR_LOOP_" + itoa(id)
	endLabel := "FOR_END_" + itoa(id)

	g.pushLoop(id, condLabel, endLabel)
	defer g.popLoop()

	g.emitLabel(condLabel)
	if err := g.genCondJump(s.Cond, loopLabel, true); err != nil {
		return err
	}
	g.emit("jmp", endLabel, s.Line())
	g.emitLabel(loopLabel)
	if err := g.genBlock(s.Body); err != nil {
		return err
	}
	g.emit("jmp", condLabel, s.Line())
	g.emitLabel(endLabel)
	return nil
}

// genForEach generates "for expr as name ... end" using the iterator
// protocol (spec §4.3, Loops; GLOSSARY Iterator protocol).
func (g *Generator) genForEach(s *ast.ForEachStmt) error {
	id := g.nextLabelID()
	condLabel := "FOR_COND_" + itoa(id)
	endLabel := "FOR_END_" + itoa(id)

	g.pushLoop(id, condLabel, endLabel)
	defer g.popLoop()

	if err := g.genExpr(s.Iterable); err != nil {
		return err
	}
	g.emit("call.native", "_iter_create$", s.Line())

	g.emitLabel(condLabel)
	g.emit("dup", "", s.Line())
	g.emit("call.native", "_iter_hasnext$", s.Line())
	idx := g.mod.AddConst("true")
	g.emit("load.const", itoa(idx), s.Line())
	g.emit("jmpne", endLabel, s.Line())

	g.emit("dup", "", s.Line())
	g.emit("call.native", "_iter_next$", s.Line())
	g.storeLoopVar(s.VarName, s.Line())

	if err := g.genBlock(s.Body); err != nil {
		return err
	}
	g.emit("jmp", condLabel, s.Line())
	g.emitLabel(endLabel)
	g.emit("unload", "", s.Line())
	return nil
}

func (g *Generator) storeLoopVar(name string, line int) {
	g.emitStore(name, line)
}

func (g *Generator) genBlock(b *ast.Block) error {
	for _, stmt := range b.Stmts {
		if err := g.genStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

type loopFrame struct {
	id        int
	condLabel string
	endLabel  string
}

func (g *Generator) pushLoop(id int, condLabel, endLabel string) {
	g.scopes[g.cur].loopIDs = append(g.scopes[g.cur].loopIDs, id)
	g.loopFrames = append(g.loopFrames, loopFrame{id: id, condLabel: condLabel, endLabel: endLabel})
}

func (g *Generator) popLoop() {
	sc := g.scopes[g.cur]
	sc.loopIDs = sc.loopIDs[:len(sc.loopIDs)-1]
	g.loopFrames = g.loopFrames[:len(g.loopFrames)-1]
}

// genLoopControl emits break/continue at the requested enclosing depth
// (spec §4.3, Loops). Depth 1 is the innermost loop.
func (g *Generator) genLoopControl(s *ast.LoopControlStmt) error {
	idx := len(g.loopFrames) - s.Depth
	if idx < 0 || idx >= len(g.loopFrames) {
		return g.fail(s.Line(), "%s depth %d exceeds enclosing loop nesting", s.Kind, s.Depth)
	}
	frame := g.loopFrames[idx]
	if s.Kind == "break" {
		g.emit("jmp", frame.endLabel, s.Line())
	} else {
		g.emit("jmp", frame.condLabel, s.Line())
	}
	return nil
}
