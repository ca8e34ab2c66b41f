// Package module defines the compiled-module data model (spec §3,
// CompiledModule) and its bidirectional textual serialization (spec §4.5).
package module

// Op is one opcode record: mnemonic, an optional argument, and an optional
// debug annotation of the form "#modulename(lineno)". A label is emitted as
// an Op whose Mnemonic is the label text ("name.arity:" or "NAME:") with
// both Arg and Debug empty.
type Op struct {
	Mnemonic string
	Arg      string
	Debug    string
}

// IsLabel reports whether this op is a pseudo-op label rather than a real
// opcode: it ends in ':' and carries no argument or debug annotation.
func (o Op) IsLabel() bool {
	return len(o.Mnemonic) > 0 && o.Mnemonic[len(o.Mnemonic)-1] == ':' && o.Arg == "" && o.Debug == ""
}

// FuncRecord is one function definition: its arity label ("name.arity:")
// and its ordered opcode list.
type FuncRecord struct {
	Label string
	Ops   []Op
}

// CompiledModule is the structured representation of one compiled module
// (spec §3). Imports and Shared preserve declaration order; the code
// generator and the linker store Refs sorted in natural order.
type CompiledModule struct {
	Name string

	Refs    []string // native-module reference names
	Imports []string // script-module import names
	Shared  []string // host-shared global variable names, in declaration order

	ConstData []string // each entry is a space-joined literal sequence

	Funcs []FuncRecord
	Main  []Op

	NGlobals int
}

// New creates an empty CompiledModule with the given name.
func New(name string) *CompiledModule {
	return &CompiledModule{Name: name}
}

// AddConst appends a constant-data record and returns its pool index,
// reusing an existing entry with the same textual form when present
// (constant-array pooling, spec §4.3).
func (m *CompiledModule) AddConst(record string) int {
	for i, existing := range m.ConstData {
		if existing == record {
			return i
		}
	}
	m.ConstData = append(m.ConstData, record)
	return len(m.ConstData) - 1
}
