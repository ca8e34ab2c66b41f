package ast

// FuncDef is a function definition: name, parameter list, body, and the
// name of the scope it is lexically nested in (used to resolve `use`
// outer-reference declarations against an ancestor scope). Lambdas lifted
// out of expression position become top-level FuncDefs named "$lambda_<N>".
type FuncDef struct {
	Base
	Name      string
	Params    []string
	Body      *Block
	ScopeName string
}

func (*FuncDef) stmtNode() {}
