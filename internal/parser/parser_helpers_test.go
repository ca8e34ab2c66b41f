package parser

import (
	"testing"

	"github.com/cwbudde/go-lscript/internal/ast"
	"github.com/cwbudde/go-lscript/internal/lexer"
)

// mustParse parses src and fails the test on error, returning the root block.
func mustParse(t *testing.T, src string) *ast.Block {
	t.Helper()
	p := New(lexer.New(src))
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return root
}

// parseErr parses src and asserts it fails, returning the error.
func parseErr(t *testing.T, src string) error {
	t.Helper()
	p := New(lexer.New(src))
	root, err := p.Parse()
	if err == nil {
		t.Fatalf("Parse(%q): expected error, got root with %d stmts", src, len(root.Stmts))
	}
	return err
}

func stmtAt(t *testing.T, root *ast.Block, i int) ast.Stmt {
	t.Helper()
	if i >= len(root.Stmts) {
		t.Fatalf("stmt %d: only %d statements parsed (%+v)", i, len(root.Stmts), root.Stmts)
	}
	return root.Stmts[i]
}
