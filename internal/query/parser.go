package query

import "strings"

// Parser turns tokens into a Query.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens, pos: 0}
}

// Parse tokenizes and parses an extended query. Every input parses: text
// that fits no operator is a fuzzy term.
func Parse(input string) Query {
	return NewParser(Tokenize(input)).Parse()
}

// Parse parses the tokens into a Query. Groups are kept even when empty so
// group positions follow the OR separators of the input.
func (p *Parser) Parse() Query {
	q := Query{p.parseGroup()}
	for p.current().Type == TokenOr {
		p.advance()
		q = append(q, p.parseGroup())
	}
	return q
}

func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() Token {
	token := p.current()
	p.pos++
	return token
}

func (p *Parser) parseGroup() Group {
	var g Group
	for p.current().Type == TokenItem {
		g = append(g, ParseTerm(p.advance().Value))
	}
	return g
}

type operator struct {
	kind   Kind
	prefix string
	suffix string
}

// operators in matching priority order.
var operators = []operator{
	{KindExact, "=", ""},
	{KindInclude, "'", ""},
	{KindPrefix, "^", ""},
	{KindInversePrefix, "!^", ""},
	{KindInverseSuffix, "!", "$"},
	{KindSuffix, "", "$"},
	{KindInverseExact, "!", ""},
	{KindFuzzy, "", ""},
}

// ParseTerm classifies a single item. Quoted forms (`="a b"`) are tried for
// every operator before unquoted ones; an operator whose pattern would be
// empty does not apply.
func ParseTerm(item string) Term {
	for _, op := range operators {
		if pattern, ok := op.match(item, true); ok {
			return Term{Kind: op.kind, Pattern: pattern}
		}
	}
	for _, op := range operators {
		if pattern, ok := op.match(item, false); ok {
			return Term{Kind: op.kind, Pattern: pattern}
		}
	}
	return Term{Kind: KindFuzzy, Pattern: item}
}

func (op operator) match(item string, quoted bool) (string, bool) {
	prefix, suffix := op.prefix, op.suffix
	if quoted {
		prefix += `"`
		suffix = `"` + suffix
	}
	if len(item) < len(prefix)+len(suffix) {
		return "", false
	}
	if !strings.HasPrefix(item, prefix) || !strings.HasSuffix(item, suffix) {
		return "", false
	}
	pattern := item[len(prefix) : len(item)-len(suffix)]
	return pattern, pattern != ""
}
