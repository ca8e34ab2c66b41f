package lscript

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-lscript/internal/module"
)

func TestCompileProducesMainCode(t *testing.T) {
	mod, err := Compile("demo", "x = 1\nx = x + 1\n", Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if mod.Name != "demo" {
		t.Fatalf("expected module name demo, got %q", mod.Name)
	}
	if len(mod.Main) == 0 {
		t.Fatal("expected non-empty main code")
	}
}

func TestCompileReportsParseError(t *testing.T) {
	_, err := Compile("demo", "x = \n", Options{})
	if err == nil {
		t.Fatal("expected a parse error for a dangling assignment")
	}
}

func TestCompileReportsUndefinedFunction(t *testing.T) {
	_, err := Compile("demo", "ghost()\n", Options{})
	if err == nil {
		t.Fatal("expected an undefined-function error")
	}
}

func TestLinkWithNoDependenciesAndNoImportsPassesThrough(t *testing.T) {
	mod := &module.CompiledModule{Name: "demo"}
	out, err := Link(mod, Options{})
	if err != nil {
		t.Fatalf("Link: %v", err)
	}
	if out != mod {
		t.Fatal("expected the module to pass through unchanged")
	}
}

func TestLinkWithNoDependenciesButImportsFails(t *testing.T) {
	mod := &module.CompiledModule{Name: "demo", Imports: []string{"mathlib"}}
	_, err := Link(mod, Options{})
	if err == nil {
		t.Fatal("expected an error: imports present but no dependency provider configured")
	}
}

type stubProvider struct{ mods map[string]*module.CompiledModule }

func (s stubProvider) Resolve(name string) (*module.CompiledModule, error) {
	if m, ok := s.mods[name]; ok {
		return m, nil
	}
	return nil, errMissing(name)
}

type errMissing string

func (e errMissing) Error() string { return "missing module: " + string(e) }

func TestCompileAndLinkSerializesResult(t *testing.T) {
	out, err := CompileAndLink("demo", "x = 1\n", Options{})
	if err != nil {
		t.Fatalf("CompileAndLink: %v", err)
	}
	if !strings.Contains(out, "; module result") {
		t.Fatalf("expected serialized output naming the result module, got %q", out)
	}
}

func TestCompileAndLinkWithDependency(t *testing.T) {
	mathlib, err := Compile("mathlib", "func double(n)\n  return n * 2\nend\n", Options{})
	if err != nil {
		t.Fatalf("Compile mathlib: %v", err)
	}

	out, err := CompileAndLink("app", "import mathlib\nresult = mathlib.double(4)\n", Options{
		Dependencies: stubProvider{mods: map[string]*module.CompiledModule{"mathlib": mathlib}},
	})
	if err != nil {
		t.Fatalf("CompileAndLink: %v", err)
	}
	if !strings.Contains(out, "mathlib::double") {
		t.Fatalf("expected the qualified call in the serialized output, got %q", out)
	}
}
