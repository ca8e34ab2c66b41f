// Package lscript is the public facade wiring the tokenizer, parser, code
// generator, and linker into one callable pipeline, mirroring the way the
// teacher repo's internal/interp/runner package wires an interpreter's
// evaluator and environment behind a single New/NewWithOptions entry point.
package lscript

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/cwbudde/go-lscript/internal/codegen"
	"github.com/cwbudde/go-lscript/internal/diag"
	"github.com/cwbudde/go-lscript/internal/lexer"
	"github.com/cwbudde/go-lscript/internal/linker"
	"github.com/cwbudde/go-lscript/internal/module"
	"github.com/cwbudde/go-lscript/internal/moduledef"
	"github.com/cwbudde/go-lscript/internal/parser"
)

// Options configures a single compile-and-link run.
type Options struct {
	// NativeDefs resolves `import native "..."` module definitions
	// (spec §4.4/§6). Nil means native imports fail to resolve.
	NativeDefs moduledef.Resolver

	// Dependencies resolves `import "..."` script-module imports for the
	// linker (spec §6). Nil means Link fails on any import.
	Dependencies module.DependencyProvider

	// Logger receives Debug/Trace diagnostics from every pipeline stage;
	// defaults to logrus.StandardLogger() when nil (SPEC_FULL.md A.1).
	Logger *log.Logger

	// LoopIDSeed fixes the code generator's starting loop-label counter
	// for reproducible output (spec §9, SPEC_FULL.md C.1). Zero means
	// use the generator's randomized default.
	LoopIDSeed int
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.StandardLogger()
}

// Compile lexes, parses, and generates code for one module's source text,
// returning its unlinked CompiledModule. Any failure is normalized into a
// *diag.Diagnostic naming moduleName.
func Compile(moduleName, source string, opts Options) (*module.CompiledModule, error) {
	lg := opts.logger()

	l := lexer.New(source, lexer.WithLogger(lg))
	p := parser.New(l, parser.WithLogger(lg))

	root, err := p.Parse()
	if err != nil {
		return nil, diag.FromError(err, moduleName)
	}

	genOpts := []codegen.Option{codegen.WithLogger(lg)}
	if opts.NativeDefs != nil {
		genOpts = append(genOpts, codegen.WithResolver(opts.NativeDefs))
	}
	if opts.LoopIDSeed != 0 {
		genOpts = append(genOpts, codegen.WithLoopIDSeed(opts.LoopIDSeed))
	}

	gen := codegen.New(moduleName, genOpts...)
	mod, err := gen.Generate(root)
	if err != nil {
		return nil, diag.FromError(err, moduleName)
	}
	return mod, nil
}

// Link resolves main's transitive script-module imports through
// opts.Dependencies and returns the single merged "result" module ready
// for textual serialization (spec §4.6).
func Link(main *module.CompiledModule, opts Options) (*module.CompiledModule, error) {
	if opts.Dependencies == nil {
		if len(main.Imports) == 0 {
			main.Name = "result"
			return main, nil
		}
		return nil, diag.FromError(&linker.LinkError{
			ModuleName: main.Imports[0],
			Err:        fmt.Errorf("no dependency provider configured"),
		}, main.Name)
	}

	lk := linker.New(opts.Dependencies, linker.WithLogger(opts.logger()))
	result, err := lk.Link(main)
	if err != nil {
		return nil, diag.FromError(err, main.Name)
	}
	return result, nil
}

// CompileAndLink runs the full pipeline — Compile then Link — and
// serializes the result to the textual bytecode form (spec §4.5).
func CompileAndLink(moduleName, source string, opts Options) (string, error) {
	mod, err := Compile(moduleName, source, opts)
	if err != nil {
		return "", err
	}
	linked, err := Link(mod, opts)
	if err != nil {
		return "", err
	}
	return linked.Serialize(), nil
}
