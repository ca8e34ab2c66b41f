// Package codegen implements the single-pass code generator: it walks an
// ast.Block and produces a module.CompiledModule of ordered opcode
// records (spec §4.3).
package codegen

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/maruel/natural"
	log "github.com/sirupsen/logrus"

	"github.com/cwbudde/go-lscript/internal/ast"
	"github.com/cwbudde/go-lscript/internal/module"
	"github.com/cwbudde/go-lscript/internal/moduledef"
)

// opsContainer is a growable emission vector; deferred fixups record an
// index into one of these and rewrite it in place once resolution
// completes (spec §9).
type opsContainer struct {
	ops []module.Op
}

func (c *opsContainer) emit(op module.Op) int {
	c.ops = append(c.ops, op)
	return len(c.ops) - 1
}

func (c *opsContainer) last() (module.Op, bool) {
	if len(c.ops) == 0 {
		return module.Op{}, false
	}
	return c.ops[len(c.ops)-1], true
}

type deferredRef struct {
	container *opsContainer
	index     int
	name      string
	scopeID   int
	isStore   bool
	line      int
}

// Generator holds all state accumulated over one module's traversal.
type Generator struct {
	moduleName string

	scopes      []*scope
	scopesByName map[string]int
	cur         int // current scope id

	main *opsContainer
	curC *opsContainer // container currently receiving emitted ops

	funcOrder []string // function names in definition order
	funcCont  map[string]*opsContainer
	funcArity map[string]int

	deferred []deferredRef

	definedFuncs    map[string]bool
	referencedFuncs map[string]int // name -> line of first reference, for the error report

	nativeTables map[string]*moduledef.Def
	resolver     moduledef.Resolver
	builtin      *moduledef.Def // lazily loaded "$builtin" table, nil if unavailable

	shared  []string // host-shared global names, in declaration order
	imports []string // script-module import names, in declaration order

	mod *module.CompiledModule // owns the constant-data pool during traversal

	loopSeq    int
	loopFrames []loopFrame
	lambdaN    int

	log *log.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithResolver supplies the native-module-definition loader used to
// resolve `import native` and builtin-name lookups.
func WithResolver(r moduledef.Resolver) Option {
	return func(g *Generator) { g.resolver = r }
}

// WithLoopIDSeed fixes the starting loop-id counter instead of the
// default randomized offset, for deterministic test output (spec §9,
// SPEC_FULL.md C.1).
func WithLoopIDSeed(seed int) Option {
	return func(g *Generator) { g.loopSeq = seed }
}

// WithLogger overrides the logger used for Debug/Trace diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// New creates a Generator for a module named moduleName.
func New(moduleName string, opts ...Option) *Generator {
	g := &Generator{
		moduleName:      moduleName,
		scopesByName:    map[string]int{"global": 0},
		main:            &opsContainer{},
		funcCont:        make(map[string]*opsContainer),
		funcArity:       make(map[string]int),
		definedFuncs:    make(map[string]bool),
		referencedFuncs: make(map[string]int),
		nativeTables:    make(map[string]*moduledef.Def),
		mod:             module.New(moduleName),
		log:             log.StandardLogger(),
	}
	g.scopes = append(g.scopes, newScope(0, "global", -1))
	g.scopes[0].isGlobal = true
	g.cur = 0
	g.curC = g.main
	g.loopSeq = -1
	for _, opt := range opts {
		opt(g)
	}
	if g.loopSeq == -1 {
		// Mirrors the original compiler's random.randint(1, 100) * 100000:
		// a large, collision-unlikely starting point for generated labels
		// (SPEC_FULL.md C.1).
		g.loopSeq = (rand.Intn(100) + 1) * 100000
	}
	return g
}

// Generate walks root and returns the compiled module.
func (g *Generator) Generate(root *ast.Block) (*module.CompiledModule, error) {
	for _, stmt := range root.Stmts {
		if err := g.genStmt(stmt); err != nil {
			return nil, err
		}
	}

	if err := g.resolveDeferred(); err != nil {
		return nil, err
	}
	if err := g.checkUndefinedFunctions(); err != nil {
		return nil, err
	}

	g.mod.Refs = refNames(g.nativeTables)
	g.mod.Imports = g.imports
	g.mod.Shared = g.shared

	for _, name := range g.funcOrder {
		g.mod.Funcs = append(g.mod.Funcs, module.FuncRecord{
			Label: fmt.Sprintf("%s.%d:", name, g.funcArity[name]),
			Ops:   g.funcCont[name].ops,
		})
	}
	g.mod.Main = g.main.ops
	g.mod.NGlobals = len(g.scopes[0].order)

	g.log.WithFields(log.Fields{"functions": len(g.mod.Funcs), "main_ops": len(g.mod.Main)}).Debug("codegen complete")
	return g.mod, nil
}

func refNames(tables map[string]*moduledef.Def) []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

func (g *Generator) emit(mnemonic, arg string, line int) int {
	return g.curC.emit(module.Op{Mnemonic: mnemonic, Arg: arg, Debug: debugAnnotation(g.moduleName, line)})
}

func (g *Generator) emitBare(mnemonic string, line int) int {
	return g.emit(mnemonic, "", line)
}

func (g *Generator) emitLabel(name string) int {
	return g.curC.emit(module.Op{Mnemonic: name + ":"})
}

func debugAnnotation(module string, line int) string {
	return fmt.Sprintf("#%s(%d)", module, line)
}

func (g *Generator) fail(line int, format string, args ...interface{}) error {
	return &CodeGenError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
