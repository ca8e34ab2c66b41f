package codegen

import "github.com/cwbudde/go-lscript/internal/ast"

// genStmt dispatches a single statement to its code generator (spec §4.3).
func (g *Generator) genStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.UseDirective:
		return g.genUseDirective(s)
	case *ast.ImportDirective:
		return g.genImportDirective(s)
	case *ast.FuncDef:
		return g.genFuncDef(s)
	case *ast.Block:
		return g.genBlock(s)
	case *ast.AssignStmt:
		return g.genAssignStmt(s)
	case *ast.IndexAssignStmt:
		return g.genIndexAssign(s)
	case *ast.ExprStmt:
		return g.genExprStmt(s)
	case *ast.ReturnStmt:
		return g.genReturnStmt(s)
	case *ast.EmitStmt:
		return g.genEmitStmt(s)
	case *ast.LoopControlStmt:
		return g.genLoopControl(s)
	case *ast.IfStmt:
		return g.genIfStmt(s)
	case *ast.ForWhileStmt:
		return g.genForWhile(s)
	case *ast.ForEachStmt:
		return g.genForEach(s)
	default:
		return g.fail(stmt.Line(), "unsupported statement kind %T", stmt)
	}
}

// genUseDirective binds Names into the current outer-reference set when
// inside a function, or declares them as host-shared globals at program
// scope (spec §4.3, Scope declarations).
func (g *Generator) genUseDirective(s *ast.UseDirective) error {
	sc := g.scopes[g.cur]
	if sc.isGlobal {
		for _, name := range s.Names {
			sc.bind(name)
			g.shared = append(g.shared, name)
		}
		return nil
	}
	for _, name := range s.Names {
		sc.outer[name] = true
	}
	return nil
}

// genImportDirective loads native module-definition tables eagerly, or
// records a script-module import for the linker to relocate (spec §4.4).
func (g *Generator) genImportDirective(s *ast.ImportDirective) error {
	if s.Native {
		for _, name := range s.Names {
			if err := g.loadNative(name, s.Line()); err != nil {
				return err
			}
		}
		return nil
	}
	g.imports = append(g.imports, s.Names...)
	return nil
}

// genAssignStmt generates a plain or compound assignment to a simple name
// (spec §4.3, Assignment). A compound op desugars to name = name <op> value
// since there is no dedicated compound-store opcode for simple variables.
func (g *Generator) genAssignStmt(s *ast.AssignStmt) error {
	if s.Op == "" {
		if err := g.genExpr(s.Value); err != nil {
			return err
		}
		g.emitStore(s.Name, s.Line())
		return nil
	}

	g.emitLoad(s.Name, s.Line())
	if err := g.genExpr(s.Value); err != nil {
		return err
	}
	mnemonic, ok := mathOps[s.Op]
	if !ok {
		return g.fail(s.Line(), "unknown compound assignment operator %q", s.Op)
	}
	g.emit(mnemonic, "", s.Line())
	g.emitStore(s.Name, s.Line())
	return nil
}

// genExprStmt evaluates X for its side effects and discards the result
// (spec §4.3, Other statements).
func (g *Generator) genExprStmt(s *ast.ExprStmt) error {
	if err := g.genExpr(s.X); err != nil {
		return err
	}
	g.emit("unload", "", s.Line())
	return nil
}

func (g *Generator) genReturnStmt(s *ast.ReturnStmt) error {
	if s.Value != nil {
		if err := g.genExpr(s.Value); err != nil {
			return err
		}
	}
	g.emit("ret", "", s.Line())
	return nil
}

// genEmitStmt generates `emit`, optionally tagged with a name (spec §4.3,
// Emit statement).
func (g *Generator) genEmitStmt(s *ast.EmitStmt) error {
	if err := g.genExpr(s.Value); err != nil {
		return err
	}
	g.emit("emit", s.Name, s.Line())
	return nil
}
