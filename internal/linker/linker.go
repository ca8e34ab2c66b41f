// Package linker merges a compiled module with its transitive script-module
// imports into one self-contained CompiledModule (spec §4.6).
package linker

import (
	"sort"

	"github.com/maruel/natural"
	log "github.com/sirupsen/logrus"

	"github.com/cwbudde/go-lscript/internal/module"
)

// Linker walks a module's import graph and merges every dependency the
// provider resolves.
type Linker struct {
	provider module.DependencyProvider
	log      *log.Logger
}

// Option configures a Linker.
type Option func(*Linker)

// WithLogger overrides the logger used for Debug diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(lk *Linker) { lk.log = l }
}

// New creates a Linker that resolves script-module imports via provider.
func New(provider module.DependencyProvider, opts ...Option) *Linker {
	lk := &Linker{provider: provider, log: log.StandardLogger()}
	for _, opt := range opts {
		opt(lk)
	}
	return lk
}

// Link returns a single module named "result" containing the merged
// contents of main and all its transitive imports (spec §4.6).
func (lk *Linker) Link(main *module.CompiledModule) (*module.CompiledModule, error) {
	visited := map[string]bool{}
	merged, err := lk.linkModule(main, visited)
	if err != nil {
		return nil, err
	}
	merged.Name = "result"
	merged.Imports = nil
	lk.log.WithFields(log.Fields{
		"functions": len(merged.Funcs),
		"globals":   merged.NGlobals,
		"modules":   len(visited),
	}).Debug("link complete")
	return merged, nil
}

// linkModule merges m's transitive imports, in depth-first encounter
// order, skipping names already in visited to break import cycles (spec
// §4.6 step 1).
func (lk *Linker) linkModule(m *module.CompiledModule, visited map[string]bool) (*module.CompiledModule, error) {
	accum := m
	for _, name := range m.Imports {
		if visited[name] {
			continue
		}
		visited[name] = true

		ref, err := lk.provider.Resolve(name)
		if err != nil {
			return nil, &LinkError{ModuleName: name, Err: err}
		}
		linkedRef, err := lk.linkModule(ref, visited)
		if err != nil {
			return nil, err
		}
		accum = merge(accum, linkedRef)
	}
	return accum, nil
}

// merge combines accum with ref, placing ref's relocated contents ahead of
// accum's (spec §4.6 step 2).
func merge(accum, ref *module.CompiledModule) *module.CompiledModule {
	relocRef := relocate(ref, 0, 0)
	relocAccum := relocate(accum, ref.NGlobals, len(ref.ConstData))

	out := &module.CompiledModule{
		Name:      "result",
		Refs:      unionRefs(relocRef.Refs, relocAccum.Refs),
		Shared:    append(append([]string{}, relocRef.Shared...), relocAccum.Shared...),
		ConstData: append(append([]string{}, relocRef.ConstData...), relocAccum.ConstData...),
		Funcs:     append(append([]module.FuncRecord{}, relocRef.Funcs...), relocAccum.Funcs...),
		Main:      append(append([]module.Op{}, relocRef.Main...), relocAccum.Main...),
		NGlobals:  accum.NGlobals + ref.NGlobals,
	}
	return out
}

func unionRefs(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, name := range append(append([]string{}, a...), b...) {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Sort(natural.StringSlice(out))
	return out
}
