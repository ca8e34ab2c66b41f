package parser

import (
	"strconv"

	"github.com/cwbudde/go-lscript/internal/ast"
	"github.com/cwbudde/go-lscript/internal/lexer"
)

// parseAtomChain parses one atom, following it with the access postfix
// chain (indexing, member access, calls) when the atom is an identifier.
// access := IDENT (('[' expr ']') | ('.' IDENT) | ('(' args? ')'))*
func (p *Parser) parseAtomChain() (ast.Expr, error) {
	if p.curIs(lexer.IDENT) {
		return p.parseAccess()
	}
	return p.parseAtom()
}

func (p *Parser) parseAccess() (ast.Expr, error) {
	tok := p.advance()
	var expr ast.Expr = &ast.Identifier{Base: lineBase(tok.Line), Name: tok.Literal}

	for {
		switch {
		case p.curIs(lexer.LBRACK):
			br := p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBRACK); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Base: lineBase(br.Line), Receiver: expr, Index: idx}

		case p.curIs(lexer.DOT):
			dot := p.advance()
			name, err := p.expect(lexer.IDENT)
			if err != nil {
				return nil, err
			}
			key := &ast.StringLit{Base: lineBase(name.Line), Literal: `"` + name.Literal + `"`}
			expr = &ast.IndexExpr{Base: lineBase(dot.Line), Receiver: expr, Index: key}

		case p.curIs(lexer.LPAREN):
			paren := p.advance()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Base: lineBase(paren.Line), Target: expr, Args: args}

		default:
			return expr, nil
		}
	}
}

// parseArgs parses a comma-separated argument list up to and including the
// closing ')'. An empty list (immediate ')') is allowed.
func (p *Parser) parseArgs() ([]ast.Expr, error) {
	var args []ast.Expr
	if p.curIs(lexer.RPAREN) {
		p.advance()
		return args, nil
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return args, nil
	}
}

// parseAtom := number | string | 'if' '(' expr ',' expr ',' expr ')'
//            | '(' expr ')' | array | hash | funcref | new-obj | lambda
func (p *Parser) parseAtom() (ast.Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case lexer.NUMBER:
		p.advance()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.errorAt(tok)
		}
		return &ast.NumberLit{Base: lineBase(tok.Line), Value: v, Raw: tok.Literal}, nil

	case lexer.STRING:
		p.advance()
		return &ast.StringLit{Base: lineBase(tok.Line), Literal: tok.Literal}, nil

	case lexer.IF:
		return p.parseCondExpr()

	case lexer.LPAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return inner, nil

	case lexer.LBRACK:
		return p.parseArrayLit()

	case lexer.LBRACE:
		return p.parseHashLit()

	case lexer.REF:
		return p.parseFuncRef()

	case lexer.NEW:
		return p.parseObjectConstructor()

	case lexer.FUNC:
		return p.parseLambda()
	}

	return nil, p.errorAt(tok)
}

// parseCondExpr parses the conditional-expression form if(c, t, f).
func (p *Parser) parseCondExpr() (ast.Expr, error) {
	ifTok := p.advance()
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COMMA); err != nil {
		return nil, err
	}
	thenExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COMMA); err != nil {
		return nil, err
	}
	elseExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return &ast.CondExpr{Base: lineBase(ifTok.Line), Cond: cond, Then: thenExpr, Else: elseExpr}, nil
}

// parseArrayLit parses a positional array literal: '[' (expr (',' expr)*)? ']'.
func (p *Parser) parseArrayLit() (ast.Expr, error) {
	open := p.advance()
	lit := &ast.ArrayLit{Base: lineBase(open.Line)}
	if p.curIs(lexer.RBRACK) {
		p.advance()
		return lit, nil
	}
	for {
		el, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit.Elements = append(lit.Elements, el)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		if _, err := p.expect(lexer.RBRACK); err != nil {
			return nil, err
		}
		return lit, nil
	}
}

// parseHashLit parses a hash literal: '{' (HASHKEY expr (',' HASHKEY expr)*)? '}'.
func (p *Parser) parseHashLit() (ast.Expr, error) {
	open := p.advance()
	lit := &ast.ArrayLit{Base: lineBase(open.Line), IsHash: true}
	if p.curIs(lexer.RBRACE) {
		p.advance()
		return lit, nil
	}
	for {
		keyTok, err := p.expect(lexer.HASHKEY)
		if err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		key := &ast.StringLit{Base: lineBase(keyTok.Line), Literal: `"` + keyTok.Literal + `"`}
		lit.Keys = append(lit.Keys, key)
		lit.Elements = append(lit.Elements, val)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		if _, err := p.expect(lexer.RBRACE); err != nil {
			return nil, err
		}
		return lit, nil
	}
}

// parseFuncRef parses an explicit function-value reference: ref name or
// ref module.name.
func (p *Parser) parseFuncRef() (ast.Expr, error) {
	refTok := p.advance()
	name, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	if p.curIs(lexer.DOT) {
		p.advance()
		fn, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		return &ast.FuncRef{Base: lineBase(refTok.Line), Module: name.Literal, Name: fn.Literal}, nil
	}
	return &ast.FuncRef{Base: lineBase(refTok.Line), Name: name.Literal}, nil
}

// parseObjectConstructor parses new { ... }. The hash-literal requirement
// (spec §C.3) is enforced by the code generator, not the parser, so that an
// arbitrary expression here is still a grammatically valid parse and the
// restriction surfaces as the documented CodeGenError.
func (p *Parser) parseObjectConstructor() (ast.Expr, error) {
	newTok := p.advance()
	inner, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	hash, _ := inner.(*ast.ArrayLit)
	return &ast.ObjectConstructor{Base: lineBase(newTok.Line), Hash: hash}, nil
}
