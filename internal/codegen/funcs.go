package codegen

import "github.com/cwbudde/go-lscript/internal/ast"

// genFuncDef enters a new scope for the function body, binds parameters,
// emits its arity label, walks the body, and restores global scope as
// current without popping the scope arena (spec §4.3, Function
// definitions).
func (g *Generator) genFuncDef(def *ast.FuncDef) error {
	parentID, ok := g.scopesByName[def.ScopeName]
	if !ok {
		parentID = 0
	}

	id := len(g.scopes)
	sc := newScope(id, def.Name, parentID)
	g.scopes = append(g.scopes, sc)
	g.scopesByName[def.Name] = id

	for _, param := range def.Params {
		sc.bind(param)
	}

	container := &opsContainer{}
	g.funcCont[def.Name] = container
	g.funcArity[def.Name] = len(def.Params)
	g.funcOrder = append(g.funcOrder, def.Name)
	g.definedFuncs[def.Name] = true

	prevC := g.curC
	g.cur, g.curC = id, container

	if err := g.genBlock(def.Body); err != nil {
		return err
	}
	if last, ok := container.last(); !ok || last.Mnemonic != "ret" {
		g.emit("ret", "", def.Line())
	}

	// Function bodies are always encountered at program scope (the parser
	// hoists every FuncDef, including lifted lambdas, to the root block),
	// so the scope current before entry is always global.
	g.cur, g.curC = 0, prevC
	return nil
}
