package linker

import (
	"errors"
	"testing"

	"github.com/cwbudde/go-lscript/internal/module"
)

type fakeProvider map[string]*module.CompiledModule

func (p fakeProvider) Resolve(name string) (*module.CompiledModule, error) {
	if m, ok := p[name]; ok {
		return m, nil
	}
	return nil, errors.New("not found")
}

func TestLinkMergesSingleImport(t *testing.T) {
	mathlib := &module.CompiledModule{
		Name:      "mathlib",
		ConstData: []string{"2"},
		Funcs: []module.FuncRecord{
			{Label: "double.1:", Ops: []module.Op{
				{Mnemonic: "load", Arg: "0"},
				{Mnemonic: "load.const", Arg: "0"},
				{Mnemonic: "mul"},
				{Mnemonic: "ret"},
			}},
		},
	}
	app := &module.CompiledModule{
		Name:      "app",
		Imports:   []string{"mathlib"},
		ConstData: []string{"5"},
		Main: []module.Op{
			{Mnemonic: "load.const", Arg: "0"},
			{Mnemonic: "call.udf", Arg: "mathlib::double"},
			{Mnemonic: "store", Arg: "0"},
		},
		NGlobals: 1,
	}

	lk := New(fakeProvider{"mathlib": mathlib})
	result, err := lk.Link(app)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}

	if result.Name != "result" {
		t.Fatalf("expected result module named \"result\", got %q", result.Name)
	}
	if len(result.Imports) != 0 {
		t.Fatalf("expected no unresolved imports, got %v", result.Imports)
	}
	if len(result.ConstData) != 2 || result.ConstData[0] != "2" || result.ConstData[1] != "5" {
		t.Fatalf("expected const data [2 5], got %v", result.ConstData)
	}
	if len(result.Funcs) != 1 || result.Funcs[0].Label != "mathlib::double.1:" {
		t.Fatalf("expected one qualified func record, got %+v", result.Funcs)
	}
	if result.Main[0].Arg != "1" {
		t.Fatalf("expected app's load.const shifted by mathlib's const-data length, got %q", result.Main[0].Arg)
	}
	if result.Main[1].Arg != "mathlib::double" {
		t.Fatalf("expected already-qualified call left alone, got %q", result.Main[1].Arg)
	}
	if result.NGlobals != 1 {
		t.Fatalf("expected NGlobals 1 (mathlib contributes 0), got %d", result.NGlobals)
	}
}

func TestLinkBreaksImportCycles(t *testing.T) {
	a := &module.CompiledModule{Name: "a", Imports: []string{"b"}}
	b := &module.CompiledModule{Name: "b", Imports: []string{"a"}}

	lk := New(fakeProvider{"a": a, "b": b})
	if _, err := lk.Link(a); err != nil {
		t.Fatalf("expected the cycle to be broken without error, got %v", err)
	}
}

func TestLinkPropagatesMissingDependency(t *testing.T) {
	app := &module.CompiledModule{Name: "app", Imports: []string{"ghost"}}
	lk := New(fakeProvider{})
	_, err := lk.Link(app)
	if err == nil {
		t.Fatal("expected a LinkError for a missing dependency")
	}
	var linkErr *LinkError
	if !errors.As(err, &linkErr) {
		t.Fatalf("expected a *LinkError, got %T", err)
	}
	if linkErr.ModuleName != "ghost" {
		t.Fatalf("expected ModuleName ghost, got %q", linkErr.ModuleName)
	}
}

func TestLinkWithNoImportsReturnsModuleUnchanged(t *testing.T) {
	app := &module.CompiledModule{
		Name:      "app",
		ConstData: []string{"1"},
		Main:      []module.Op{{Mnemonic: "load.const", Arg: "0"}},
		NGlobals:  0,
	}
	lk := New(fakeProvider{})
	result, err := lk.Link(app)
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if len(result.ConstData) != 1 || result.ConstData[0] != "1" {
		t.Fatalf("expected const data untouched, got %v", result.ConstData)
	}
}
