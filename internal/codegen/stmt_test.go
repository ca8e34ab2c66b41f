package codegen

import (
	"testing"

	"github.com/cwbudde/go-lscript/internal/ast"
)

func TestGenUseDirectiveAtGlobalScopeDeclaresShared(t *testing.T) {
	s := &ast.UseDirective{Base: ln(1), Names: []string{"counter"}}
	g := New("m")
	if err := g.genStmt(s); err != nil {
		t.Fatalf("genStmt: %v", err)
	}
	if len(g.shared) != 1 || g.shared[0] != "counter" {
		t.Fatalf("expected counter declared shared, got %v", g.shared)
	}
	if _, ok := g.scopes[0].locals["counter"]; !ok {
		t.Fatal("expected counter bound in global scope")
	}
}

func TestGenUseDirectiveInFunctionScopeMarksOuter(t *testing.T) {
	g := New("m")
	g.scopes[0].bind("total")
	fn := newScope(1, "f", 0)
	g.scopes = append(g.scopes, fn)
	g.cur = 1

	s := &ast.UseDirective{Base: ln(1), Names: []string{"total"}}
	if err := g.genStmt(s); err != nil {
		t.Fatalf("genStmt: %v", err)
	}
	if !fn.outer["total"] {
		t.Fatal("expected total marked as an outer reference")
	}
}

func TestGenImportDirectiveNativeLoadsEagerly(t *testing.T) {
	s := &ast.ImportDirective{Base: ln(1), Native: true, Names: []string{"math"}}
	g := New("m", WithResolver(fakeResolver{"math": defWith(map[string]int{"sqrt": 1})}))
	if err := g.genStmt(s); err != nil {
		t.Fatalf("genStmt: %v", err)
	}
	if _, ok := g.nativeTables["math"]; !ok {
		t.Fatal("expected math loaded into nativeTables")
	}
}

func TestGenImportDirectiveScriptRecordsName(t *testing.T) {
	s := &ast.ImportDirective{Base: ln(1), Names: []string{"utils"}}
	g := New("m")
	if err := g.genStmt(s); err != nil {
		t.Fatalf("genStmt: %v", err)
	}
	if len(g.imports) != 1 || g.imports[0] != "utils" {
		t.Fatalf("expected utils recorded as a script import, got %v", g.imports)
	}
}

func TestGenAssignStmtPlain(t *testing.T) {
	s := &ast.AssignStmt{Base: ln(1), Name: "x", Value: numLit("5", 1)}
	g := New("m")
	if err := g.genStmt(s); err != nil {
		t.Fatalf("genStmt: %v", err)
	}
	assertOps(t, g, []opRecord{{"load.const", "0"}, {"store", "0"}})
}

func TestGenAssignStmtCompoundDesugars(t *testing.T) {
	g := New("m")
	g.scopes[0].bind("x")
	s := &ast.AssignStmt{Base: ln(1), Name: "x", Op: "+", Value: numLit("1", 1)}
	if err := g.genStmt(s); err != nil {
		t.Fatalf("genStmt: %v", err)
	}
	assertOps(t, g, []opRecord{{"load", "0"}, {"load.const", "0"}, {"add", ""}, {"store", "0"}})
}

func TestGenExprStmtDiscardsResult(t *testing.T) {
	s := &ast.ExprStmt{Base: ln(1), X: numLit("1", 1)}
	g := New("m")
	if err := g.genStmt(s); err != nil {
		t.Fatalf("genStmt: %v", err)
	}
	assertOps(t, g, []opRecord{{"load.const", "0"}, {"unload", ""}})
}

func TestGenReturnStmtBare(t *testing.T) {
	s := &ast.ReturnStmt{Base: ln(1)}
	g := New("m")
	if err := g.genStmt(s); err != nil {
		t.Fatalf("genStmt: %v", err)
	}
	assertOps(t, g, []opRecord{{"ret", ""}})
}

func TestGenEmitStmtWithName(t *testing.T) {
	s := &ast.EmitStmt{Base: ln(1), Value: numLit("1", 1), Name: "progress"}
	g := New("m")
	if err := g.genStmt(s); err != nil {
		t.Fatalf("genStmt: %v", err)
	}
	assertOps(t, g, []opRecord{{"load.const", "0"}, {"emit", "progress"}})
}

func TestGenEmitStmtUntagged(t *testing.T) {
	s := &ast.EmitStmt{Base: ln(1), Value: numLit("1", 1)}
	g := New("m")
	if err := g.genStmt(s); err != nil {
		t.Fatalf("genStmt: %v", err)
	}
	assertOps(t, g, []opRecord{{"load.const", "0"}, {"emit", ""}})
}
