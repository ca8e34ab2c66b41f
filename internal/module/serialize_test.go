package module

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func sample() *CompiledModule {
	m := New("demo")
	m.Refs = []string{"io"}
	m.Imports = []string{"util"}
	m.Shared = []string{"counter"}
	m.ConstData = []string{`"hello"`, "42"}
	m.Funcs = []FuncRecord{
		{
			Label: "main.0:",
			Ops: []Op{
				{Mnemonic: "push.const", Arg: "0"},
				{Mnemonic: "load.global", Arg: "0", Debug: "#demo(3)"},
				{Mnemonic: "ret"},
			},
		},
	}
	m.Main = []Op{
		{Mnemonic: "call", Arg: "main.0"},
		{Mnemonic: "halt"},
	}
	m.NGlobals = 1
	return m
}

func TestSerializeRoundTrip(t *testing.T) {
	m := sample()
	text := m.Serialize()

	got, err := Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got.Name != m.Name {
		t.Fatalf("name: got %q want %q", got.Name, m.Name)
	}
	if len(got.Funcs) != 1 || got.Funcs[0].Label != "main.0:" {
		t.Fatalf("funcs: got %+v", got.Funcs)
	}
	if len(got.Funcs[0].Ops) != 3 {
		t.Fatalf("ops: got %+v", got.Funcs[0].Ops)
	}
	if got.NGlobals != 1 {
		t.Fatalf("n_globals: got %d want 1", got.NGlobals)
	}
}

func TestSerializeSnapshot(t *testing.T) {
	snaps.MatchSnapshot(t, sample().Serialize())
}

func TestNGlobalsRecomputedFromHighestSlot(t *testing.T) {
	m := New("g")
	m.NGlobals = 0
	m.Main = []Op{
		{Mnemonic: "store", Arg: "4"},
	}
	text := m.Serialize()

	got, err := Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.NGlobals != 5 {
		t.Fatalf("expected n_globals recomputed to 5, got %d", got.NGlobals)
	}
}

func TestParseRejectsOpcodeOutsideSection(t *testing.T) {
	_, err := Parse("  push.const 0\n")
	if err == nil {
		t.Fatal("expected error for content outside any section")
	}
}

func TestAddConstPools(t *testing.T) {
	m := New("x")
	a := m.AddConst("1 2 3")
	b := m.AddConst("1 2 3")
	c := m.AddConst("4 5")
	if a != b {
		t.Fatalf("expected pooled index to match: %d vs %d", a, b)
	}
	if c == a {
		t.Fatalf("expected distinct record to get a distinct index")
	}
}
