package codegen

import (
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"

	"github.com/cwbudde/go-lscript/internal/ast"
	"github.com/cwbudde/go-lscript/internal/moduledef"
)

func sortStrings(s []string) { sort.Sort(natural.StringSlice(s)) }

// isKnownVariable reports whether name is already known to name a
// local/outer variable at this point in the single-pass walk: declared
// `use`-outer in the current scope, already bound locally, or already
// bound as a global. This is the test spec §4.3 calls "not a local/outer
// variable" when deciding static vs dynamic call dispatch.
func (g *Generator) isKnownVariable(name string) bool {
	sc := g.scopes[g.cur]
	if sc.outer[name] {
		return true
	}
	if _, ok := sc.locals[name]; ok {
		return true
	}
	if _, ok := g.scopes[0].locals[name]; ok {
		return true
	}
	return false
}

func (g *Generator) genCall(e *ast.CallExpr) error {
	switch target := e.Target.(type) {
	case *ast.Identifier:
		if !g.isKnownVariable(target.Name) {
			return g.genStaticCall("", target.Name, e.Args, e.Line())
		}
	case *ast.IndexExpr:
		if recv, ok := target.Receiver.(*ast.Identifier); ok && !g.isKnownVariable(recv.Name) {
			if key, ok := target.Index.(*ast.StringLit); ok {
				return g.genStaticCall(recv.Name, key.Unquoted(), e.Args, e.Line())
			}
		}
	}
	return g.genDynamicCall(e)
}

func (g *Generator) genDynamicCall(e *ast.CallExpr) error {
	for _, arg := range e.Args {
		if err := g.genExpr(arg); err != nil {
			return err
		}
	}
	if err := g.genExpr(e.Target); err != nil {
		return err
	}
	g.emit("invoke", strconv.Itoa(len(e.Args)), e.Line())
	return nil
}

func (g *Generator) genStaticCall(moduleName, name string, args []ast.Expr, line int) error {
	for _, arg := range args {
		if err := g.genExpr(arg); err != nil {
			return err
		}
	}

	qualname, isNative := g.qualifyFunction(moduleName, name)
	if isNative {
		g.emit("call.native", qualname, line)
		return nil
	}
	g.emit("call.udf", qualname, line)
	if !strings.Contains(qualname, "::") {
		if _, seen := g.referencedFuncs[qualname]; !seen {
			g.referencedFuncs[qualname] = line
		}
	}
	return nil
}

// qualifyFunction resolves a static call/reference target to its emitted
// name and whether it is native. moduleName is "" for a bare identifier
// call (the built-in module, spec §4.3).
func (g *Generator) qualifyFunction(moduleName, name string) (qualname string, isNative bool) {
	if moduleName == "" {
		if def, ok := g.builtinDef(); ok {
			if _, ok := def.HasFunc(name); ok {
				return name, true
			}
		}
		return name, false
	}
	qualname = moduleName + "::" + name
	if def, ok := g.nativeTables[moduleName]; ok {
		if _, ok := def.HasFunc(name); ok {
			return qualname, true
		}
	}
	return qualname, false
}

// genFuncRef generates mk_ref.native/mk_ref.udf for an explicit function
// reference (spec §4.3, Calls).
func (g *Generator) genFuncRef(e *ast.FuncRef) error {
	qualname, isNative := g.qualifyFunction(e.Module, e.Name)
	if isNative {
		g.emit("mk_ref.native", qualname, e.Line())
		return nil
	}
	g.emit("mk_ref.udf", qualname, e.Line())
	if !strings.Contains(qualname, "::") {
		if _, seen := g.referencedFuncs[qualname]; !seen {
			g.referencedFuncs[qualname] = e.Line()
		}
	}
	return nil
}

// isBuiltinConst reports whether name is a constant of the "$builtin"
// native module table (spec §4.3: "Built-in names ... shadow no scope").
func (g *Generator) isBuiltinConst(name string) bool {
	def, ok := g.builtinDef()
	return ok && def.HasConst(name)
}

func (g *Generator) builtinDef() (*moduledef.Def, bool) {
	if g.builtin != nil {
		return g.builtin, true
	}
	if g.resolver == nil {
		return nil, false
	}
	def, err := g.resolver.Resolve("$builtin")
	if err != nil {
		return nil, false
	}
	g.builtin = def
	return g.builtin, true
}

// loadNative lazily loads and caches a native module's definition table
// for `import native` (spec §4.4).
func (g *Generator) loadNative(name string, line int) error {
	if _, ok := g.nativeTables[name]; ok {
		return nil
	}
	if g.resolver == nil {
		return g.fail(line, "no module-definition resolver configured for native import %q", name)
	}
	def, err := g.resolver.Resolve(name)
	if err != nil {
		return g.fail(line, "cannot load native module %q: %v", name, err)
	}
	g.nativeTables[name] = def
	return nil
}

// checkUndefinedFunctions fails with the full list of unqualified
// user-function references that never got a matching definition (spec
// §4.3, Post-walk passes).
func (g *Generator) checkUndefinedFunctions() error {
	var missing []string
	for name := range g.referencedFuncs {
		if !g.definedFuncs[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sortStrings(missing)
	return &UndefinedFunctionError{Names: missing}
}
