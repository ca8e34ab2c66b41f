package codegen

import (
	"testing"

	"github.com/cwbudde/go-lscript/internal/ast"
)

func block(line int, stmts ...ast.Stmt) *ast.Block {
	b := ast.NewBlock(line)
	b.Stmts = append(b.Stmts, stmts...)
	return b
}

func TestGenIfWithElseLabels(t *testing.T) {
	stmt := &ast.IfStmt{
		Base: ln(1),
		Branches: []ast.IfBranch{
			{Cond: &ast.BinaryExpr{Base: ln(1), Op: "<", Left: numLit("1", 1), Right: numLit("2", 1)}, Body: block(1, &ast.ReturnStmt{Base: ln(1), Value: numLit("1", 1)})},
		},
		Else: block(1, &ast.ReturnStmt{Base: ln(1), Value: numLit("2", 1)}),
	}
	g := New("m", WithLoopIDSeed(7))
	if err := g.genStmt(stmt); err != nil {
		t.Fatalf("genStmt: %v", err)
	}
	got := opsOf(g)
	want := []opRecord{
		{"load.const", "0"}, {"load.const", "1"}, {"jmplt", "IF_C_7_0"},
		{"load.const", "1"}, {"ret", ""},
		{"jmp", "IF_END_7"},
		{"IF_C_7_0:", ""},
		{"load.const", "0"}, {"ret", ""},
		{"IF_END_7:", ""},
	}
	if len(got) != len(want) {
		t.Fatalf("op count: want %d, got %d (%+v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("op %d: want %+v, got %+v (full %+v)", i, want[i], got[i], got)
		}
	}
}

func TestGenIfWithoutElseSingleBranchSkipsChaining(t *testing.T) {
	stmt := &ast.IfStmt{
		Base: ln(1),
		Branches: []ast.IfBranch{
			{Cond: &ast.BinaryExpr{Base: ln(1), Op: "<", Left: numLit("1", 1), Right: numLit("2", 1)}, Body: block(1, &ast.ReturnStmt{Base: ln(1)})},
		},
	}
	g := New("m", WithLoopIDSeed(3))
	if err := g.genStmt(stmt); err != nil {
		t.Fatalf("genStmt: %v", err)
	}
	got := opsOf(g)
	want := []opRecord{
		{"load.const", "0"}, {"load.const", "1"}, {"jmpge", "IF_END_3"},
		{"ret", ""},
		{"IF_END_3:", ""},
	}
	if len(got) != len(want) {
		t.Fatalf("op count: want %d, got %d (%+v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("op %d: want %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestGenForWhileLoop(t *testing.T) {
	stmt := &ast.ForWhileStmt{
		Base: ln(1),
		Cond: &ast.BinaryExpr{Base: ln(1), Op: "<", Left: ident("i", 1), Right: numLit("10", 1)},
		Body: block(1, &ast.LoopControlStmt{Base: ln(1), Kind: "break", Depth: 1}),
	}
	g := New("m", WithLoopIDSeed(1))
	g.scopes[0].bind("i")
	if err := g.genStmt(stmt); err != nil {
		t.Fatalf("genStmt: %v", err)
	}
	got := opsOf(g)
	want := []opRecord{
		{"FOR_COND_1:", ""},
		{"load", "0"}, {"load.const", "0"}, {"jmplt", "FOR_LOOP_1"},
		{"jmp", "FOR_END_1"},
		{"FOR_LOOP_1:", ""},
		{"jmp", "FOR_END_1"},
		{"jmp", "FOR_COND_1"},
		{"FOR_END_1:", ""},
	}
	if len(got) != len(want) {
		t.Fatalf("op count: want %d, got %d (%+v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("op %d: want %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestGenLoopControlRejectsExcessiveDepth(t *testing.T) {
	g := New("m")
	g.pushLoop(1, "FOR_COND_1", "FOR_END_1")
	stmt := &ast.LoopControlStmt{Base: ln(1), Kind: "break", Depth: 2}
	if err := g.genLoopControl(stmt); err == nil {
		t.Fatal("expected an error for a break depth beyond the loop nesting")
	}
}

func TestGenForEachUsesIteratorProtocol(t *testing.T) {
	stmt := &ast.ForEachStmt{
		Base:     ln(1),
		Iterable: ident("xs", 1),
		VarName:  "item",
		Body:     block(1),
	}
	g := New("m", WithLoopIDSeed(1))
	g.scopes[0].bind("xs")
	if err := g.genStmt(stmt); err != nil {
		t.Fatalf("genStmt: %v", err)
	}
	got := opsOf(g)
	want := []opRecord{
		{"load", "0"},
		{"call.native", "_iter_create$"},
		{"FOR_COND_1:", ""},
		{"dup", ""},
		{"call.native", "_iter_hasnext$"},
		{"load.const", "0"},
		{"jmpne", "FOR_END_1"},
		{"dup", ""},
		{"call.native", "_iter_next$"},
		{"store", "1"},
		{"jmp", "FOR_COND_1"},
		{"FOR_END_1:", ""},
		{"unload", ""},
	}
	if len(got) != len(want) {
		t.Fatalf("op count: want %d, got %d (%+v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("op %d: want %+v, got %+v", i, want[i], got[i])
		}
	}
}
