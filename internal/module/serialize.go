package module

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Section markers, spec §4.5.
const (
	sectionRefs    = ".refs"
	sectionImports = ".imports"
	sectionShared  = ".shared"
	sectionData    = ".data"
	sectionDefs    = ".defs"
	sectionEntry   = ".entry"
)

// labelRE matches a function-definition label: "name.arity:".
var labelRE = regexp.MustCompile(`^[^\s]+\.[0-9]+:$`)

// codeLineRE splits an indented opcode line into its mnemonic, an optional
// argument, and an optional debug annotation. The argument runs up to a
// " ; #module(line)" suffix, either of which may be absent (spec §4.5).
var codeLineRE = regexp.MustCompile(`^\s*(\S+)(?:\s+([^;#]+?))?(?:\s*;\s*(#\S.*))?\s*$`)


// Serialize renders the module in the textual format read by Parse.
func (m *CompiledModule) Serialize() string {
	var b strings.Builder

	fmt.Fprintf(&b, "; module %s\n", m.Name)
	fmt.Fprintf(&b, "; n_globals %d\n", m.NGlobals)

	writeList(&b, sectionRefs, m.Refs)
	writeList(&b, sectionImports, m.Imports)
	writeList(&b, sectionShared, m.Shared)
	writeList(&b, sectionData, m.ConstData)

	if len(m.Funcs) > 0 {
		b.WriteString(sectionDefs + "\n")
		for _, fn := range m.Funcs {
			b.WriteString(fn.Label + "\n")
			for _, op := range fn.Ops {
				writeOp(&b, op)
			}
		}
	}

	if len(m.Main) > 0 {
		b.WriteString(sectionEntry + "\n")
		for _, op := range m.Main {
			writeOp(&b, op)
		}
	}

	return b.String()
}

func writeList(b *strings.Builder, marker string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(marker + "\n")
	for _, it := range items {
		b.WriteString(it + "\n")
	}
}

func writeOp(b *strings.Builder, op Op) {
	if op.IsLabel() {
		fmt.Fprintf(b, "%s\n", op.Mnemonic)
		return
	}
	b.WriteString("  " + op.Mnemonic)
	if op.Arg != "" {
		b.WriteString(" " + op.Arg)
	}
	if op.Debug != "" {
		b.WriteString(" ; " + op.Debug)
	}
	b.WriteString("\n")
}

// ParseError reports a malformed textual module.
type ParseError struct {
	LineNo int
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.LineNo, e.Reason, e.Line)
}

// Parse reads a module previously produced by Serialize. While reading
// .entry, NGlobals is recomputed as max(declared value, 1 + the highest
// argument of any plain "store" op), since main code addresses the global
// frame directly (spec §4.5) — so a hand-edited or truncated header never
// undercounts it.
func Parse(text string) (*CompiledModule, error) {
	m := &CompiledModule{}
	lines := strings.Split(text, "\n")

	section := ""
	var curFunc *FuncRecord
	maxGlobal := -1

	flushFunc := func() {
		if curFunc != nil {
			m.Funcs = append(m.Funcs, *curFunc)
			curFunc = nil
		}
	}

	for i, raw := range lines {
		lineNo := i + 1
		line := raw
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, "; module ") {
			m.Name = strings.TrimPrefix(line, "; module ")
			continue
		}
		if strings.HasPrefix(line, "; n_globals ") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "; n_globals ")))
			if err != nil {
				return nil, &ParseError{LineNo: lineNo, Line: line, Reason: "malformed n_globals header"}
			}
			m.NGlobals = n
			continue
		}

		switch strings.TrimSpace(line) {
		case sectionRefs, sectionImports, sectionShared, sectionData, sectionDefs, sectionEntry:
			flushFunc()
			section = strings.TrimSpace(line)
			continue
		}

		switch section {
		case sectionRefs:
			m.Refs = append(m.Refs, line)
		case sectionImports:
			m.Imports = append(m.Imports, line)
		case sectionShared:
			m.Shared = append(m.Shared, line)
		case sectionData:
			m.ConstData = append(m.ConstData, line)
		case sectionDefs:
			if labelRE.MatchString(strings.TrimSpace(line)) {
				flushFunc()
				curFunc = &FuncRecord{Label: strings.TrimSpace(line)}
				continue
			}
			op, err := parseOpLine(line, lineNo)
			if err != nil {
				return nil, err
			}
			if curFunc == nil {
				return nil, &ParseError{LineNo: lineNo, Line: line, Reason: "opcode outside any function"}
			}
			curFunc.Ops = append(curFunc.Ops, op)
		case sectionEntry:
			op, err := parseOpLine(line, lineNo)
			if err != nil {
				return nil, err
			}
			m.Main = append(m.Main, op)
			if op.Mnemonic == "store" {
				if n, convErr := strconv.Atoi(op.Arg); convErr == nil && n > maxGlobal {
					maxGlobal = n
				}
			}
		default:
			return nil, &ParseError{LineNo: lineNo, Line: line, Reason: "content outside any section"}
		}
	}
	flushFunc()

	if maxGlobal+1 > m.NGlobals {
		m.NGlobals = maxGlobal + 1
	}
	return m, nil
}

func parseOpLine(line string, lineNo int) (Op, error) {
	groups := codeLineRE.FindStringSubmatch(line)
	if groups == nil {
		return Op{}, &ParseError{LineNo: lineNo, Line: line, Reason: "malformed opcode line"}
	}
	return Op{
		Mnemonic: groups[1],
		Arg:      strings.TrimSpace(groups[2]),
		Debug:    strings.TrimSpace(groups[3]),
	}, nil
}

