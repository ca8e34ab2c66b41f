package moduledef

import (
	"strings"
	"testing"
)

func TestLoadSeparatesConstsAndFuncs(t *testing.T) {
	src := `
# comment
PI
f.2
g.0
`
	def, err := Load("math", strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !def.HasConst("PI") {
		t.Fatal("expected PI to be a constant")
	}
	if arity, ok := def.HasFunc("f"); !ok || arity != 2 {
		t.Fatalf("expected f.2, got arity=%d ok=%v", arity, ok)
	}
	if arity, ok := def.HasFunc("g"); !ok || arity != 0 {
		t.Fatalf("expected g.0, got arity=%d ok=%v", arity, ok)
	}
}

func TestLoadSkipsBlankAndCommentLines(t *testing.T) {
	def, err := Load("empty", strings.NewReader("\n# nothing here\n\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(def.Consts) != 0 || len(def.Funcs) != 0 {
		t.Fatalf("expected empty def, got %+v", def)
	}
}
