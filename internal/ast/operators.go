package ast

// BinaryExpr covers the math (+ - * / %), compare (< <= > >= == !=), logic
// (and or xor) and string-concat (&) operator families; Op determines which
// family a given instance belongs to and is resolved against the mnemonic
// tables in the code generator.
type BinaryExpr struct {
	Base
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr covers MathNegate ("neg") and LogicNot ("not").
type UnaryExpr struct {
	Base
	Op string
	X  Expr
}

func (*UnaryExpr) exprNode() {}

// CondExpr is the conditional-expression form: if(c, t, f).
type CondExpr struct {
	Base
	Cond Expr
	Then Expr
	Else Expr
}

func (*CondExpr) exprNode() {}
