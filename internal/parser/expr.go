package parser

import (
	"strconv"

	"github.com/cwbudde/go-lscript/internal/ast"
	"github.com/cwbudde/go-lscript/internal/lexer"
)

// parseExpr is the lowest-precedence production: string concatenation.
// expr := concat (('&') concat)*
func (p *Parser) parseExpr() (ast.Expr, error) {
	left, err := p.parseLogic()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.AMP) {
		tok := p.advance()
		p.skipEOLs() // support multi-line '&' concatenation
		right, err := p.parseLogic()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Base: lineBase(tok.Line), Op: "&", Left: left, Right: right}
	}
	return left, nil
}

// parseLogic := cond (('or'|'and'|'xor') cond)*
func (p *Parser) parseLogic() (ast.Expr, error) {
	left, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.OR) || p.curIs(lexer.AND) || p.curIs(lexer.XOR) {
		tok := p.advance()
		right, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Base: lineBase(tok.Line), Op: tok.Literal, Left: left, Right: right}
	}
	return left, nil
}

// parseCond := ['not'] term (cmp-op term)*
func (p *Parser) parseCond() (ast.Expr, error) {
	negate := false
	var notTok lexer.Token
	if p.curIs(lexer.NOT) {
		notTok = p.advance()
		negate = true
	}

	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for isCompareOp(p.cur().Type) {
		tok := p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Base: lineBase(tok.Line), Op: tok.Literal, Left: left, Right: right}
	}

	if negate {
		left = &ast.UnaryExpr{Base: lineBase(notTok.Line), Op: "not", X: left}
	}
	return left, nil
}

func isCompareOp(tt lexer.TokenType) bool {
	switch tt {
	case lexer.LT, lexer.LE, lexer.GT, lexer.GE, lexer.EQ, lexer.NE:
		return true
	}
	return false
}

// parseTerm := factor (('+'|'-') factor)*
func (p *Parser) parseTerm() (ast.Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.PLUS) || p.curIs(lexer.MINUS) {
		tok := p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Base: lineBase(tok.Line), Op: tok.Literal, Left: left, Right: right}
	}
	return left, nil
}

// parseFactor := atom (('*'|'/'|'%') atom)*, with leading unary minus
// handled at the atom boundary per spec §4.2.
func (p *Parser) parseFactor() (ast.Expr, error) {
	left, err := p.parseUnaryAtom()
	if err != nil {
		return nil, err
	}
	for p.curIs(lexer.ASTERISK) || p.curIs(lexer.SLASH) || p.curIs(lexer.PERCENT) {
		tok := p.advance()
		right, err := p.parseUnaryAtom()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Base: lineBase(tok.Line), Op: tok.Literal, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnaryAtom() (ast.Expr, error) {
	if p.curIs(lexer.MINUS) {
		minusTok := p.advance()
		if p.curIs(lexer.NUMBER) {
			numTok := p.advance()
			v, err := strconv.ParseFloat(numTok.Literal, 64)
			if err != nil {
				return nil, p.errorAt(numTok)
			}
			return &ast.NumberLit{Base: lineBase(minusTok.Line), Value: -v, Raw: "-" + numTok.Literal}, nil
		}
		if p.curIs(lexer.STRING) {
			return nil, p.errorAt(p.cur())
		}
		x, err := p.parseAtomChain()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Base: lineBase(minusTok.Line), Op: "neg", X: x}, nil
	}
	return p.parseAtomChain()
}
