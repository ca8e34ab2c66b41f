package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// LexError reports an unrecognized character run (spec §4.1, InvalidSequence).
// Lexing is fatal on the first error; there is no recovery.
type LexError struct {
	Text string
	Pos  Position
	Line string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("invalid sequence %q at line %d: %s", e.Text, e.Pos.Line, e.Line)
}

// Lexer is a lazy tokenizer over L source text. NextToken advances one
// token at a time; Hold requests that the most recently returned token be
// re-yielded by the next call to NextToken, giving callers one token of
// lookback without needing to buffer themselves.
//
// Column positions are rune counts, not byte offsets.
type Lexer struct {
	input        string
	lines        []string
	position     int
	readPosition int
	line         int
	column       int
	ch           rune

	held    *Token
	pending []Token // synthesized tokens from string interpolation, drained before scanning

	log *log.Logger
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithLogger overrides the logger used for Debug/Trace diagnostics. The
// default is logrus.StandardLogger().
func WithLogger(l *log.Logger) Option {
	return func(lx *Lexer) { lx.log = l }
}

// New creates a Lexer over input.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{
		input: input,
		lines: strings.Split(input, "\n"),
		line:  1,
		log:   log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.readChar()
	return l
}

// Hold re-queues tok to be returned again by the next NextToken call. Only
// one token of lookback is supported at a time.
func (l *Lexer) Hold(tok Token) {
	l.held = &tok
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) currentPos() Position {
	return Position{Line: l.line, Column: l.column, Offset: l.position}
}

func (l *Lexer) lineText(line int) string {
	if line < 1 || line > len(l.lines) {
		return ""
	}
	return l.lines[line-1]
}

func (l *Lexer) newToken(tt TokenType, literal string, pos Position) Token {
	return Token{Type: tt, Literal: literal, Line: pos.Line, LineText: l.lineText(pos.Line)}
}

func isIdentStart(ch rune) bool { return unicode.IsLetter(ch) || ch == '_' }
func isIdentPart(ch rune) bool  { return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' }
func isDigit(ch rune) bool      { return ch >= '0' && ch <= '9' }

// NextToken returns the next token, or a *LexError if the input contains an
// unrecognized character run.
func (l *Lexer) NextToken() (Token, error) {
	if l.held != nil {
		tok := *l.held
		l.held = nil
		return tok, nil
	}
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok, nil
	}
	tok, err := l.scan()
	if err == nil {
		l.log.WithFields(log.Fields{"type": tok.Type, "literal": tok.Literal, "line": tok.Line}).Trace("token")
	}
	return tok, err
}

func (l *Lexer) skipSpacesAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '#' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		return
	}
}

func (l *Lexer) scan() (Token, error) {
	l.skipSpacesAndComments()
	pos := l.currentPos()

	if l.ch == 0 {
		return l.newToken(EOF, "", pos), nil
	}

	if l.ch == '\n' {
		l.line++
		l.column = 0
		l.readChar()
		return l.newToken(EOL, "\n", pos), nil
	}

	switch {
	case l.ch == '"':
		return l.scanString(pos)
	case isDigit(l.ch):
		return l.scanNumber(pos), nil
	case isIdentStart(l.ch):
		return l.scanIdentOrKeyword(pos), nil
	}

	if tok, ok := l.scanOperator(pos); ok {
		return tok, nil
	}

	start := l.position
	l.readChar()
	errTok := l.input[start:l.position]
	return Token{}, &LexError{Text: errTok, Pos: pos, Line: l.lineText(pos.Line)}
}

func (l *Lexer) scanOperator(pos Position) (Token, bool) {
	ch := l.ch
	two := func(second rune, tt TokenType, lit string) (Token, bool) {
		if l.peekChar() == second {
			l.readChar()
			l.readChar()
			return l.newToken(tt, lit, pos), true
		}
		return Token{}, false
	}

	switch ch {
	case '+':
		if tok, ok := two('=', PLUS_ASSIGN, "+="); ok {
			return tok, true
		}
		l.readChar()
		return l.newToken(PLUS, "+", pos), true
	case '-':
		if tok, ok := two('=', MINUS_ASSIGN, "-="); ok {
			return tok, true
		}
		l.readChar()
		return l.newToken(MINUS, "-", pos), true
	case '*':
		if tok, ok := two('=', TIMES_ASSIGN, "*="); ok {
			return tok, true
		}
		l.readChar()
		return l.newToken(ASTERISK, "*", pos), true
	case '/':
		if tok, ok := two('=', DIVIDE_ASSIGN, "/="); ok {
			return tok, true
		}
		l.readChar()
		return l.newToken(SLASH, "/", pos), true
	case '%':
		if tok, ok := two('=', PERCENT_ASSIGN, "%="); ok {
			return tok, true
		}
		l.readChar()
		return l.newToken(PERCENT, "%", pos), true
	case '<':
		if tok, ok := two('=', LE, "<="); ok {
			return tok, true
		}
		l.readChar()
		return l.newToken(LT, "<", pos), true
	case '>':
		if tok, ok := two('=', GE, ">="); ok {
			return tok, true
		}
		l.readChar()
		return l.newToken(GT, ">", pos), true
	case '=':
		if tok, ok := two('=', EQ, "=="); ok {
			return tok, true
		}
		if tok, ok := two('>', ARROW, "=>"); ok {
			return tok, true
		}
		l.readChar()
		return l.newToken(ASSIGN, "=", pos), true
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return l.newToken(NE, "!=", pos), true
		}
		return Token{}, false
	case '&':
		l.readChar()
		return l.newToken(AMP, "&", pos), true
	case '.':
		l.readChar()
		return l.newToken(DOT, ".", pos), true
	case ',':
		l.readChar()
		return l.newToken(COMMA, ",", pos), true
	case '(':
		l.readChar()
		return l.newToken(LPAREN, "(", pos), true
	case ')':
		l.readChar()
		return l.newToken(RPAREN, ")", pos), true
	case '[':
		l.readChar()
		return l.newToken(LBRACK, "[", pos), true
	case ']':
		l.readChar()
		return l.newToken(RBRACK, "]", pos), true
	case '{':
		l.readChar()
		return l.newToken(LBRACE, "{", pos), true
	case '}':
		l.readChar()
		return l.newToken(RBRACE, "}", pos), true
	}
	return Token{}, false
}

// scanNumber reads an unsigned decimal integer or float: [0-9]+(\.[0-9]+)?.
// L has no hex, binary, or signed-literal forms (unary minus is an operator).
func (l *Lexer) scanNumber(pos Position) Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.newToken(NUMBER, l.input[start:l.position], pos)
}

// scanIdentOrKeyword reads an identifier and classifies it, recognizing the
// trailing ':' of a hash key (spec §4.1: a colon immediately following an
// identifier-shaped run distinguishes a HASHKEY from an IDENT).
func (l *Lexer) scanIdentOrKeyword(pos Position) Token {
	start := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	literal := l.input[start:l.position]

	if l.ch == ':' && l.peekChar() != '=' && l.peekChar() != ':' {
		l.readChar()
		return l.newToken(HASHKEY, literal, pos)
	}

	folded := foldCaser.String(literal)
	if tt := LookupIdent(folded); tt != IDENT {
		return l.newToken(tt, folded, pos)
	}
	return l.newToken(IDENT, literal, pos)
}

type stringPart struct {
	isExpr bool
	text   string
}

// scanString reads a "..."-delimited string literal, re-tokenizing any
// ${ expr } splices per spec §4.1. The returned token (and any synthesized
// tokens queued in l.pending) replace the literal on the token stream.
func (l *Lexer) scanString(pos Position) (Token, error) {
	startLine := l.line
	l.readChar() // consume opening quote

	var parts []stringPart
	var buf strings.Builder
	hasInterp := false

	flush := func() {
		parts = append(parts, stringPart{text: buf.String()})
		buf.Reset()
	}

	for l.ch != '"' {
		if l.ch == 0 {
			return Token{}, &LexError{Text: "<eof in string>", Pos: pos, Line: l.lineText(startLine)}
		}
		if l.ch == '$' && l.peekChar() == '{' {
			hasInterp = true
			flush()
			l.readChar() // $
			l.readChar() // {
			exprStart := l.position
			depth := 1
			for depth > 0 {
				if l.ch == 0 {
					return Token{}, &LexError{Text: "<eof in interpolation>", Pos: pos, Line: l.lineText(startLine)}
				}
				if l.ch == '{' {
					depth++
				} else if l.ch == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				l.readChar()
			}
			parts = append(parts, stringPart{isExpr: true, text: l.input[exprStart:l.position]})
			l.readChar() // consume closing '}'
			continue
		}
		buf.WriteRune(l.ch)
		l.readChar()
	}
	flush()
	l.readChar() // consume closing quote

	if !hasInterp {
		return l.newToken(STRING, `"`+parts[0].text+`"`, pos), nil
	}

	toks := l.expandInterpolation(parts, pos)
	l.log.WithField("parts", len(parts)).Debug("string interpolation expanded")
	if len(toks) == 0 {
		return l.newToken(STRING, `""`, pos), nil
	}
	first := toks[0]
	l.pending = append(l.pending, toks[1:]...)
	return first, nil
}

// expandInterpolation rewrites alternating literal/expr parts into the token
// sequence for `"left" & (expr) & "right"`, eliding empty leading/trailing
// literal segments (spec §4.1). Nested interpolation inside an expr's own
// string literals is handled naturally by sub-lexing with a fresh Lexer.
func (l *Lexer) expandInterpolation(parts []stringPart, pos Position) []Token {
	var kept []stringPart
	for _, p := range parts {
		if !p.isExpr && p.text == "" {
			continue
		}
		kept = append(kept, p)
	}

	var out []Token
	for i, p := range kept {
		if i > 0 {
			out = append(out, l.newToken(AMP, "&", pos))
		}
		if !p.isExpr {
			out = append(out, l.newToken(STRING, `"`+p.text+`"`, pos))
			continue
		}
		out = append(out, l.newToken(LPAREN, "(", pos))
		sub := New(p.text, WithLogger(l.log))
		for {
			tok, err := sub.NextToken()
			if err != nil || tok.Type == EOF {
				break
			}
			if tok.Type == EOL {
				continue
			}
			tok.Line = pos.Line
			tok.LineText = l.lineText(pos.Line)
			out = append(out, tok)
		}
		out = append(out, l.newToken(RPAREN, ")", pos))
	}
	return out
}
