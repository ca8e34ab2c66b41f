package parser

import (
	"fmt"

	"github.com/cwbudde/go-lscript/internal/ast"
	"github.com/cwbudde/go-lscript/internal/lexer"
)

// parseTopLevelStmt parses one directive, function definition, or statement
// at program scope.
func (p *Parser) parseTopLevelStmt() (ast.Stmt, error) {
	switch p.cur().Type {
	case lexer.USE:
		return p.parseUseDirective()
	case lexer.IMPORT:
		return p.parseImportDirective()
	case lexer.FUNC:
		return p.parseFuncDefStmt()
	default:
		return p.parseStmt()
	}
}

// parseBlockUntil parses statements until the current token's type is found
// in terminators, without consuming the terminator. Used for if/elsif/else
// bodies, loop bodies, and function bodies.
func (p *Parser) parseBlockUntil(terminators ...lexer.TokenType) (*ast.Block, error) {
	startLine := p.cur().Line
	block := ast.NewBlock(startLine)

	for {
		if err := p.checkSticky(); err != nil {
			return nil, err
		}
		if p.skipBlankLine() {
			continue
		}
		if p.curIs(lexer.EOF) {
			return nil, p.errorAt(p.cur())
		}
		for _, t := range terminators {
			if p.curIs(t) {
				return block, nil
			}
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
		if err := p.expectStmtEnd(); err != nil {
			return nil, err
		}
	}
}

// parseStmt parses one executable statement (not a directive or func-def).
func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.cur().Type {
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.FOR:
		return p.parseForStmt()
	case lexer.BREAK, lexer.CONTINUE:
		return p.parseLoopControl()
	case lexer.RETURN:
		return p.parseReturnStmt()
	case lexer.EMIT:
		return p.parseEmitStmt()
	case lexer.IDENT:
		return p.parseAssignOrCallStmt()
	}
	return nil, p.errorAt(p.cur())
}

// --- directives --------------------------------------------------------

func (p *Parser) parseUseDirective() (ast.Stmt, error) {
	tok := p.advance()
	names, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	return &ast.UseDirective{Base: lineBase(tok.Line), Names: names}, nil
}

func (p *Parser) parseImportDirective() (ast.Stmt, error) {
	tok := p.advance()
	native := false
	if p.curIs(lexer.NATIVE) {
		p.advance()
		native = true
	}
	names, err := p.parseIdentList()
	if err != nil {
		return nil, err
	}
	return &ast.ImportDirective{Base: lineBase(tok.Line), Native: native, Names: names}, nil
}

func (p *Parser) parseIdentList() ([]string, error) {
	var names []string
	for {
		tok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Literal)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		return names, nil
	}
}

// --- function definitions ----------------------------------------------

func (p *Parser) parseParamList() ([]string, error) {
	if _, err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []string
	if p.curIs(lexer.RPAREN) {
		p.advance()
		return params, nil
	}
	for {
		tok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		params = append(params, tok.Literal)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		if _, err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return params, nil
	}
}

// parseFuncBody parses either the multi-statement "... end" form or the
// one-line "=> stmt" form.
func (p *Parser) parseFuncBody() (*ast.Block, error) {
	if p.curIs(lexer.ARROW) {
		arrow := p.advance()
		block := ast.NewBlock(arrow.Line)
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
		return block, nil
	}
	body, err := p.parseBlockUntil(lexer.END)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.END); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *Parser) parseFuncDefStmt() (ast.Stmt, error) {
	funcTok := p.advance()
	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	scopeName := p.currentScope()
	p.pushScope(nameTok.Literal)
	body, err := p.parseFuncBody()
	p.popScope()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDef{
		Base:      lineBase(funcTok.Line),
		Name:      nameTok.Literal,
		Params:    params,
		Body:      body,
		ScopeName: scopeName,
	}, nil
}

// parseLambda parses an anonymous function literal in expression position,
// lifting it to a top-level "$lambda_<N>" FuncDef and returning a FuncRef
// in its place (spec §4.2).
func (p *Parser) parseLambda() (ast.Expr, error) {
	funcTok := p.advance()
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("$lambda_%d", p.lambdaSeq)
	p.lambdaSeq++
	scopeName := p.currentScope()
	p.pushScope(name)
	body, err := p.parseFuncBody()
	p.popScope()
	if err != nil {
		return nil, err
	}
	fd := &ast.FuncDef{
		Base:      lineBase(funcTok.Line),
		Name:      name,
		Params:    params,
		Body:      body,
		ScopeName: scopeName,
	}
	p.hoistedFns = append(p.hoistedFns, fd)
	return &ast.FuncRef{Base: lineBase(funcTok.Line), Name: name}, nil
}

// --- control flow --------------------------------------------------------

func (p *Parser) parseIfStmt() (ast.Stmt, error) {
	ifTok := p.advance()
	stmt := &ast.IfStmt{Base: lineBase(ifTok.Line)}

	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectStmtEnd(); err != nil {
		return nil, err
	}
	body, err := p.parseBlockUntil(lexer.ELSIF, lexer.ELSE, lexer.END)
	if err != nil {
		return nil, err
	}
	stmt.Branches = append(stmt.Branches, ast.IfBranch{Cond: cond, Body: body})

	for p.curIs(lexer.ELSIF) {
		p.advance()
		c, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectStmtEnd(); err != nil {
			return nil, err
		}
		b, err := p.parseBlockUntil(lexer.ELSIF, lexer.ELSE, lexer.END)
		if err != nil {
			return nil, err
		}
		stmt.Branches = append(stmt.Branches, ast.IfBranch{Cond: c, Body: b})
	}

	if p.curIs(lexer.ELSE) {
		p.advance()
		if err := p.expectStmtEnd(); err != nil {
			return nil, err
		}
		b, err := p.parseBlockUntil(lexer.END)
		if err != nil {
			return nil, err
		}
		stmt.Else = b
	}

	if _, err := p.expect(lexer.END); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseForStmt parses "for expr ... end" (conditional) or
// "for expr as name ... end" (iteration).
func (p *Parser) parseForStmt() (ast.Stmt, error) {
	forTok := p.advance()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	if p.curIs(lexer.AS) {
		p.advance()
		nameTok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		if err := p.expectStmtEnd(); err != nil {
			return nil, err
		}
		body, err := p.parseBlockUntil(lexer.END)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.END); err != nil {
			return nil, err
		}
		return &ast.ForEachStmt{Base: lineBase(forTok.Line), Iterable: expr, VarName: nameTok.Literal, Body: body}, nil
	}

	if err := p.expectStmtEnd(); err != nil {
		return nil, err
	}
	body, err := p.parseBlockUntil(lexer.END)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.END); err != nil {
		return nil, err
	}
	return &ast.ForWhileStmt{Base: lineBase(forTok.Line), Cond: expr, Body: body}, nil
}

func (p *Parser) parseLoopControl() (ast.Stmt, error) {
	tok := p.advance()
	kind := tok.Literal
	depth := 1
	if p.curIs(lexer.NUMBER) {
		numTok := p.advance()
		d, err := parsePositiveInt(numTok.Literal)
		if err != nil {
			return nil, p.errorAt(numTok)
		}
		depth = d
	}
	return &ast.LoopControlStmt{Base: lineBase(tok.Line), Kind: kind, Depth: depth}, nil
}

func parsePositiveInt(s string) (int, error) {
	n := 0
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return 0, fmt.Errorf("not an integer: %q", s)
		}
		n = n*10 + int(ch-'0')
	}
	if n < 1 {
		return 0, fmt.Errorf("depth must be >= 1: %q", s)
	}
	return n, nil
}

func (p *Parser) parseReturnStmt() (ast.Stmt, error) {
	tok := p.advance()
	if p.curIs(lexer.EOL) || p.curIs(lexer.EOF) {
		return &ast.ReturnStmt{Base: lineBase(tok.Line)}, nil
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ReturnStmt{Base: lineBase(tok.Line), Value: val}, nil
}

func (p *Parser) parseEmitStmt() (ast.Stmt, error) {
	tok := p.advance()
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	name := ""
	if p.curIs(lexer.AS) {
		p.advance()
		nameTok, err := p.expect(lexer.IDENT)
		if err != nil {
			return nil, err
		}
		name = nameTok.Literal
	}
	return &ast.EmitStmt{Base: lineBase(tok.Line), Value: val, Name: name}, nil
}

// --- assignment / call statements ---------------------------------------

func isCompoundAssignOp(tt lexer.TokenType) (string, bool) {
	switch tt {
	case lexer.PLUS_ASSIGN:
		return "+", true
	case lexer.MINUS_ASSIGN:
		return "-", true
	case lexer.TIMES_ASSIGN:
		return "*", true
	case lexer.DIVIDE_ASSIGN:
		return "/", true
	case lexer.PERCENT_ASSIGN:
		return "%", true
	}
	return "", false
}

// parseAssignOrCallStmt parses an access-chain statement: either an
// assignment (plain or compound) to an identifier/indexed target, or a call
// expression used as a statement.
func (p *Parser) parseAssignOrCallStmt() (ast.Stmt, error) {
	startTok := p.cur()
	target, err := p.parseAccess()
	if err != nil {
		return nil, err
	}

	if p.curIs(lexer.ASSIGN) {
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return assignTo(startTok.Line, target, "", val)
	}
	if op, ok := isCompoundAssignOp(p.cur().Type); ok {
		p.advance()
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return assignTo(startTok.Line, target, op, val)
	}

	return &ast.ExprStmt{Base: lineBase(startTok.Line), X: target}, nil
}

func assignTo(line int, target ast.Expr, op string, val ast.Expr) (ast.Stmt, error) {
	switch t := target.(type) {
	case *ast.Identifier:
		return &ast.AssignStmt{Base: lineBase(line), Name: t.Name, Op: op, Value: val}, nil
	case *ast.IndexExpr:
		return &ast.IndexAssignStmt{Base: lineBase(line), Receiver: t.Receiver, Index: t.Index, Op: op, Value: val}, nil
	default:
		return nil, &ParseError{Line: line, Literal: "<assignment target>"}
	}
}
