package linker

import (
	"strconv"
	"strings"

	"github.com/cwbudde/go-lscript/internal/module"
)

// isAllDigits reports whether s is a non-empty run of ASCII digits, the
// test spec §4.6 uses to tell a pooled constant-data index apart from a
// module-qualified native-constant name in a load.const argument.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func qualifyLabel(moduleName, label string) string {
	if strings.Contains(label, "::") {
		return label
	}
	return moduleName + "::" + label
}

func qualifyName(moduleName, name string, imports map[string]bool) string {
	if strings.Contains(name, "::") || imports[name] {
		return name
	}
	return moduleName + "::" + name
}

func shiftArg(arg string, delta int) string {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return arg
	}
	return strconv.Itoa(n + delta)
}

// relocateOp applies spec §4.6 step 3's per-opcode rules. inMain reports
// whether op belongs to main code rather than a function body: plain
// load/store address the global frame only in main code, so only there do
// they take the global offset g.
func relocateOp(op module.Op, moduleName string, g, d int, imports map[string]bool, inMain bool) module.Op {
	switch op.Mnemonic {
	case "call.udf", "mk_ref.udf":
		op.Arg = qualifyName(moduleName, op.Arg, imports)
	case "load.const":
		if isAllDigits(op.Arg) {
			op.Arg = shiftArg(op.Arg, d)
		}
	case "load.global", "store.global":
		op.Arg = shiftArg(op.Arg, g)
	case "load", "store":
		if inMain {
			op.Arg = shiftArg(op.Arg, g)
		}
	}
	return op
}

func relocateOps(ops []module.Op, moduleName string, g, d int, imports map[string]bool, inMain bool) []module.Op {
	out := make([]module.Op, len(ops))
	for i, op := range ops {
		out[i] = relocateOp(op, moduleName, g, d, imports, inMain)
	}
	return out
}

// relocate produces a copy of m with every function label qualified, every
// call.udf/mk_ref.udf name qualified (unless already qualified or naming
// one of m's own script imports), and every numeric global/const-data
// reference shifted by (g, d) (spec §4.6 step 3).
func relocate(m *module.CompiledModule, g, d int) *module.CompiledModule {
	imports := make(map[string]bool, len(m.Imports))
	for _, name := range m.Imports {
		imports[name] = true
	}

	funcs := make([]module.FuncRecord, len(m.Funcs))
	for i, fr := range m.Funcs {
		funcs[i] = module.FuncRecord{
			Label: qualifyLabel(m.Name, fr.Label),
			Ops:   relocateOps(fr.Ops, m.Name, g, d, imports, false),
		}
	}

	return &module.CompiledModule{
		Name:      m.Name,
		Refs:      append([]string(nil), m.Refs...),
		Imports:   append([]string(nil), m.Imports...),
		Shared:    append([]string(nil), m.Shared...),
		ConstData: append([]string(nil), m.ConstData...),
		Funcs:     funcs,
		Main:      relocateOps(m.Main, m.Name, g, d, imports, true),
		NGlobals:  m.NGlobals,
	}
}
