// Package parser implements the recursive-descent parser for L: it turns a
// lexer.Lexer token stream into an ast.Block syntax tree.
package parser

import (
	log "github.com/sirupsen/logrus"

	"github.com/cwbudde/go-lscript/internal/ast"
	"github.com/cwbudde/go-lscript/internal/lexer"
)

// Parser holds parsing state over a buffered token stream. Tokens are
// fetched lazily from the lexer and kept in a small buffer to support the
// one- and two-token lookahead the grammar needs.
type Parser struct {
	lex    *lexer.Lexer
	tokens []lexer.Token
	pos    int

	scopeStack []string // current enclosing scope names, "global" at the base
	lambdaSeq  int
	hoistedFns []ast.Stmt // named func-defs and lifted lambdas, in completion order
	stickyErr  error      // first fatal error encountered; sticks (no recovery)
	log        *log.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger overrides the logger used for Debug/Trace diagnostics. The
// default is logrus.StandardLogger().
func WithLogger(l *log.Logger) Option {
	return func(p *Parser) { p.log = l }
}

// New creates a Parser over the given lexer.
func New(l *lexer.Lexer, opts ...Option) *Parser {
	p := &Parser{
		lex:        l,
		scopeStack: []string{"global"},
		log:        log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses the full program and returns its root block.
func (p *Parser) Parse() (*ast.Block, error) {
	root := ast.NewBlock(1)

	var directives []ast.Stmt
	var others []ast.Stmt

	for !p.curIs(lexer.EOF) {
		if err := p.checkSticky(); err != nil {
			return nil, err
		}
		if p.skipBlankLine() {
			continue
		}
		stmt, err := p.parseTopLevelStmt()
		if err != nil {
			return nil, err
		}
		switch stmt.(type) {
		case *ast.UseDirective, *ast.ImportDirective:
			directives = append(directives, stmt)
		case *ast.FuncDef:
			p.hoistedFns = append(p.hoistedFns, stmt)
		default:
			others = append(others, stmt)
		}
		if err := p.expectStmtEnd(); err != nil {
			return nil, err
		}
	}

	root.Stmts = append(root.Stmts, directives...)
	root.Stmts = append(root.Stmts, p.hoistedFns...)
	root.Stmts = append(root.Stmts, others...)

	p.log.WithField("statements", len(root.Stmts)).Debug("parse complete")
	return root, nil
}

func (p *Parser) currentScope() string {
	return p.scopeStack[len(p.scopeStack)-1]
}

func (p *Parser) pushScope(name string) { p.scopeStack = append(p.scopeStack, name) }
func (p *Parser) popScope()             { p.scopeStack = p.scopeStack[:len(p.scopeStack)-1] }

// --- token buffer -----------------------------------------------------

func (p *Parser) fill(n int) error {
	for len(p.tokens) <= n {
		tok, err := p.lex.NextToken()
		if err != nil {
			return err
		}
		p.tokens = append(p.tokens, tok)
		if tok.Type == lexer.EOF {
			// pad so further fills see EOF without re-invoking the lexer
			for len(p.tokens) <= n {
				p.tokens = append(p.tokens, tok)
			}
		}
	}
	return nil
}

func (p *Parser) peekAt(n int) (lexer.Token, error) {
	if err := p.fill(p.pos + n); err != nil {
		return lexer.Token{}, err
	}
	return p.tokens[p.pos+n], nil
}

func (p *Parser) cur() lexer.Token {
	tok, err := p.peekAt(0)
	if err != nil {
		// lexer errors are fatal and surface the next time the caller
		// inspects a token; stickyErr records it so that checkSticky
		// can report it to callers that check it explicitly.
		p.stickyErr = err
		return lexer.Token{Type: lexer.ILLEGAL}
	}
	return tok
}

func (p *Parser) curIs(tt lexer.TokenType) bool { return p.cur().Type == tt }

func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	p.pos++
	return tok
}

// skipBlankLine consumes a stray EOL with nothing before it (blank source
// lines at statement-boundary position).
func (p *Parser) skipBlankLine() bool {
	if p.curIs(lexer.EOL) {
		p.advance()
		return true
	}
	return false
}

// skipEOLs consumes any run of EOL tokens (used after '&' to support
// multi-line string-concatenation expressions, spec §4.2).
func (p *Parser) skipEOLs() {
	for p.curIs(lexer.EOL) {
		p.advance()
	}
}

func lineBase(n int) ast.Base { return ast.Base{LineNo: n} }

func (p *Parser) errorAt(tok lexer.Token) error {
	return &ParseError{TokenType: tok.Type, Literal: tok.Literal, Line: tok.Line, LineText: tok.LineText}
}

func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	if err := p.checkSticky(); err != nil {
		return lexer.Token{}, err
	}
	if !p.curIs(tt) {
		return lexer.Token{}, p.errorAt(p.cur())
	}
	return p.advance(), nil
}

func (p *Parser) checkSticky() error {
	if p.stickyErr != nil {
		return p.stickyErr
	}
	return nil
}

// expectStmtEnd requires the EOL or EOF that terminates every statement.
func (p *Parser) expectStmtEnd() error {
	if err := p.checkSticky(); err != nil {
		return err
	}
	if p.curIs(lexer.EOF) {
		return nil
	}
	if !p.curIs(lexer.EOL) {
		return p.errorAt(p.cur())
	}
	p.advance()
	return nil
}
