package codegen

import "strconv"

// emitLoad reads a name, resolving it now if bound locally, or emitting
// a deferred placeholder otherwise (spec §4.3, Scope and variable
// resolution).
func (g *Generator) emitLoad(name string, line int) {
	sc := g.scopes[g.cur]
	if !sc.outer[name] {
		if idx, ok := sc.locals[name]; ok {
			g.emit("load", strconv.Itoa(idx), line)
			return
		}
	}
	g.deferLoadOrStore(name, line, false)
}

// emitStore writes a name. A first binding in this scope (not declared
// `use`-outer) allocates the next dense local index; otherwise it
// resolves to the existing local or defers.
func (g *Generator) emitStore(name string, line int) {
	sc := g.scopes[g.cur]
	if sc.outer[name] {
		g.deferLoadOrStore(name, line, true)
		return
	}
	idx := sc.bind(name)
	g.emit("store", strconv.Itoa(idx), line)
}

func (g *Generator) deferLoadOrStore(name string, line int, isStore bool) {
	mnemonic := "!load.!"
	if isStore {
		mnemonic = "!store.!"
	}
	idx := g.emit(mnemonic, name, line)
	g.deferred = append(g.deferred, deferredRef{
		container: g.curC,
		index:     idx,
		name:      name,
		scopeID:   g.cur,
		isStore:   isStore,
		line:      line,
	})
}

// resolveDeferred rewrites every deferred placeholder by walking outward
// from its emit-time scope until a scope binding the name is found.
func (g *Generator) resolveDeferred() error {
	for _, d := range g.deferred {
		if err := g.resolveOne(d); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) resolveOne(d deferredRef) error {
	hops := 0
	for id := d.scopeID; id != -1; id = g.scopes[id].parent {
		sc := g.scopes[id]
		idx, ok := sc.locals[d.name]
		if !ok {
			hops++
			continue
		}
		op := d.container.ops[d.index]
		if sc.isGlobal {
			op.Mnemonic = mnemonicFor("global", d.isStore)
			op.Arg = strconv.Itoa(idx)
		} else {
			op.Mnemonic = mnemonicFor("outer", d.isStore)
			op.Arg = strconv.Itoa(hops) + ":" + strconv.Itoa(idx)
		}
		d.container.ops[d.index] = op
		return nil
	}
	return g.fail(d.line, "undefined variable %q", d.name)
}

func mnemonicFor(kind string, isStore bool) string {
	if isStore {
		return "store." + kind
	}
	return "load." + kind
}
