package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ripopov/surfer-sub000/internal/model"
)

// TokenType represents the type of a token in the search query
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenText
	TokenFilter
	TokenRegex  // /pattern/
	TokenAnd    // + (explicit)
	TokenOr     // |
	TokenNot    // -
	TokenLParen // (
	TokenRParen // )
)

// Token represents a single token in the search query
type Token struct {
	Type  TokenType
	Value string
}

// ComparisonOp represents comparison operators
type ComparisonOp string

const (
	OpEqual        ComparisonOp = "="
	OpNotEqual     ComparisonOp = "!="
	OpGreater      ComparisonOp = ">"
	OpGreaterEqual ComparisonOp = ">="
	OpLess         ComparisonOp = "<"
	OpLessEqual    ComparisonOp = "<="
)

// Tokenizer converts a search query string into tokens
type Tokenizer struct {
	input string
	pos   int
}

// NewTokenizer creates a new tokenizer for the given input
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: input}
}

// NextToken returns the next token in the input
func (t *Tokenizer) NextToken() Token {
	t.skipWhitespace()

	if t.pos >= len(t.input) {
		return Token{Type: TokenEOF}
	}

	switch ch := t.input[t.pos]; ch {
	case '(':
		t.pos++
		return Token{Type: TokenLParen, Value: "("}
	case ')':
		t.pos++
		return Token{Type: TokenRParen, Value: ")"}
	case '|':
		t.pos++
		return Token{Type: TokenOr, Value: "|"}
	case '+':
		t.pos++
		return Token{Type: TokenAnd, Value: "+"}
	case '-':
		t.pos++
		return Token{Type: TokenNot, Value: "-"}
	case '"':
		return t.readQuotedText()
	case '~':
		return t.readFuzzyFilter()
	case '/':
		return t.readRegex()
	default:
		if isAlpha(ch) {
			return t.readFilter()
		}
		return t.readText()
	}
}

// AllTokens returns all tokens in the input
func (t *Tokenizer) AllTokens() []Token {
	var tokens []Token
	for {
		tok := t.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) && (t.input[t.pos] == ' ' || t.input[t.pos] == '\t' || t.input[t.pos] == '\n') {
		t.pos++
	}
}

func (t *Tokenizer) readQuotedText() Token {
	t.pos++ // opening quote
	start := t.pos
	for t.pos < len(t.input) && t.input[t.pos] != '"' {
		t.pos++
	}
	value := t.input[start:t.pos]
	if t.pos < len(t.input) {
		t.pos++
	}
	return Token{Type: TokenText, Value: value}
}

// readFilter reads either ident:criteria or plain text starting with a letter
func (t *Tokenizer) readFilter() Token {
	start := t.pos
	for t.pos < len(t.input) && isAlphaNumeric(t.input[t.pos]) {
		t.pos++
	}
	if t.pos < len(t.input) && t.input[t.pos] == ':' {
		ident := t.input[start:t.pos]
		t.pos++
		return Token{Type: TokenFilter, Value: ident + ":" + t.readFilterCriteria()}
	}
	t.pos = start
	return t.readText()
}

func (t *Tokenizer) readFilterCriteria() string {
	start := t.pos
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if ch == ' ' || ch == '\t' || ch == '|' || ch == ')' {
			break
		}
		t.pos++
	}
	return t.input[start:t.pos]
}

func (t *Tokenizer) readText() Token {
	start := t.pos
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if ch == ' ' || ch == '\t' || ch == '|' || ch == '+' || ch == ')' || ch == '(' {
			break
		}
		t.pos++
	}
	return Token{Type: TokenText, Value: t.input[start:t.pos]}
}

func (t *Tokenizer) readFuzzyFilter() Token {
	t.pos++ // ~
	start := t.pos
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if ch == ' ' || ch == '\t' || ch == '|' || ch == '+' || ch == ')' || ch == '(' {
			break
		}
		t.pos++
	}
	term := t.input[start:t.pos]
	if term == "" {
		return Token{Type: TokenText, Value: "~"}
	}
	return Token{Type: TokenFilter, Value: "~" + term}
}

func (t *Tokenizer) readRegex() Token {
	t.pos++ // opening /
	start := t.pos
	escaped := false
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		switch {
		case escaped:
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '/':
			pattern := t.input[start:t.pos]
			t.pos++
			return Token{Type: TokenRegex, Value: pattern}
		}
		t.pos++
	}
	// Unterminated: the rest of the input is the pattern
	return Token{Type: TokenRegex, Value: t.input[start:]}
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isAlphaNumeric(ch byte) bool {
	return isAlpha(ch) || (ch >= '0' && ch <= '9') || ch == '_'
}

// Parser converts tokens into a FilterExpr tree
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser for the given tokens
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseQuery parses a complete search query and returns the root expression.
// An empty query matches everything.
func ParseQuery(query string) (FilterExpr, error) {
	tokens := NewTokenizer(query).AllTokens()
	if len(tokens) == 1 {
		return NewAlwaysMatchExpr(), nil
	}

	parser := NewParser(tokens)
	expr, err := parser.parseOr()
	if err != nil {
		return nil, err
	}
	if parser.currentToken().Type != TokenEOF {
		return nil, fmt.Errorf("unexpected token: %s", parser.currentToken().Value)
	}
	return expr, nil
}

func (p *Parser) currentToken() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

// Operator precedence: OR < AND < NOT < atoms

func (p *Parser) parseOr() (FilterExpr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.currentToken().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = NewOrExpr(left, right)
	}
	return left, nil
}

func (p *Parser) parseAnd() (FilterExpr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		switch p.currentToken().Type {
		case TokenEOF, TokenRParen, TokenOr:
			return left, nil
		case TokenAnd:
			p.advance()
		}
		// Implicit AND between adjacent terms
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = NewAndExpr(left, right)
	}
}

func (p *Parser) parseNot() (FilterExpr, error) {
	if p.currentToken().Type == TokenNot {
		p.advance()
		expr, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return NewNotExpr(expr), nil
	}
	return p.parseAtom()
}

func (p *Parser) parseAtom() (FilterExpr, error) {
	tok := p.currentToken()
	switch tok.Type {
	case TokenLParen:
		p.advance()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.currentToken().Type != TokenRParen {
			return nil, fmt.Errorf("expected closing parenthesis")
		}
		p.advance()
		return expr, nil
	case TokenText:
		p.advance()
		return NewTextExpr(tok.Value), nil
	case TokenFilter:
		p.advance()
		return parseFilterValue(tok.Value)
	case TokenRegex:
		p.advance()
		return NewRegexExpr(tok.Value)
	case TokenEOF:
		return nil, fmt.Errorf("unexpected end of query")
	}
	return nil, fmt.Errorf("unexpected token: %s", tok.Value)
}

func parseFilterValue(value string) (FilterExpr, error) {
	if term, ok := strings.CutPrefix(value, "~"); ok {
		return NewFuzzyExpr(term), nil
	}

	ident, criteria, _ := strings.Cut(value, ":")
	switch strings.ToLower(ident) {
	case "kind", "k":
		kind, ok := model.ParseKind(criteria)
		if !ok {
			return nil, fmt.Errorf("unknown item kind %q", criteria)
		}
		return NewKindExpr(kind), nil
	case "d", "depth":
		op, rest, err := parseComparison(criteria)
		if err != nil {
			return nil, err
		}
		depth, err := strconv.Atoi(rest)
		if err != nil {
			return nil, fmt.Errorf("invalid depth %q", rest)
		}
		return NewDepthExpr(op, depth), nil
	case "selected", "sel":
		b, err := strconv.ParseBool(criteria)
		if err != nil {
			return nil, fmt.Errorf("selected: %w", err)
		}
		return NewSelectedExpr(b), nil
	}
	// Unknown filters search for the literal text
	return NewTextExpr(value), nil
}

func parseComparison(criteria string) (ComparisonOp, string, error) {
	for _, op := range []ComparisonOp{OpGreaterEqual, OpLessEqual, OpNotEqual, OpGreater, OpLess, OpEqual} {
		if rest, ok := strings.CutPrefix(criteria, string(op)); ok {
			return op, rest, nil
		}
	}
	if criteria == "" {
		return "", "", fmt.Errorf("missing comparison value")
	}
	return OpEqual, criteria, nil
}
