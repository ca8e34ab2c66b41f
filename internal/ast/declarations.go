package ast

// UseDirective declares that Names refer to an enclosing or shared scope
// rather than creating new locals. At function scope it populates that
// scope's outer-reference set; at program scope it declares shared
// (host-visible) globals.
type UseDirective struct {
	Base
	Names []string
}

func (*UseDirective) stmtNode() {}

// ImportDirective loads module names, either as native module-definition
// references (Native true) or as script-module imports.
type ImportDirective struct {
	Base
	Native bool
	Names  []string
}

func (*ImportDirective) stmtNode() {}

// ObjectConstructor wraps a hash literal and requests that the generated
// code rebind any function references inside it to have the hash itself as
// receiver (new { ... }).
type ObjectConstructor struct {
	Base
	Hash *ArrayLit
}

func (*ObjectConstructor) exprNode() {}
