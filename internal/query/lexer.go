package query

import (
	"fmt"
	"strings"
)

type TokenType int

const (
	TokenItem TokenType = iota
	TokenOr
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenItem:
		return "ITEM"
	case TokenOr:
		return "OR"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

const (
	orToken  = '|'
	quote    = '"'
	spaceSep = ' '
)

// Token represents a lexical token.
type Token struct {
	Type  TokenType
	Value string
}

func (t Token) String() string {
	if t.Value != "" {
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	}
	return t.Type.String()
}

// Lexer splits a query into items and OR separators. Items are separated by
// runs of spaces that are followed by an even number of double quotes, so a
// quoted phrase stays one item.
type Lexer struct {
	input []rune
	pos   int
	// quotesAfter[i] counts the quotes in input[i:].
	quotesAfter []int
}

// NewLexer creates a new lexer.
func NewLexer(input string) *Lexer {
	return &Lexer{input: []rune(input)}
}

// Tokenize tokenizes a query string into tokens.
func Tokenize(query string) []Token {
	var tokens []Token
	for i, part := range strings.Split(query, string(orToken)) {
		if i > 0 {
			tokens = append(tokens, Token{Type: TokenOr, Value: string(orToken)})
		}
		tokens = append(tokens, NewLexer(strings.TrimSpace(part)).TokenizeAll()...)
	}
	return append(tokens, Token{Type: TokenEOF})
}

// TokenizeAll returns the items of a single OR group.
func (l *Lexer) TokenizeAll() []Token {
	l.quotesAfter = make([]int, len(l.input)+1)
	for i := len(l.input) - 1; i >= 0; i-- {
		l.quotesAfter[i] = l.quotesAfter[i+1]
		if l.input[i] == quote {
			l.quotesAfter[i]++
		}
	}

	var tokens []Token
	for {
		tok, ok := l.next()
		if !ok {
			return tokens
		}
		if strings.TrimSpace(tok.Value) == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
}

func (l *Lexer) next() (Token, bool) {
	if l.pos >= len(l.input) {
		return Token{}, false
	}
	start := l.pos
	for l.pos < len(l.input) {
		if l.input[l.pos] == spaceSep {
			end := l.pos
			for l.pos < len(l.input) && l.input[l.pos] == spaceSep {
				l.pos++
			}
			if l.quotesAfter[l.pos]%2 == 0 {
				return Token{Type: TokenItem, Value: string(l.input[start:end])}, true
			}
			continue
		}
		l.pos++
	}
	return Token{Type: TokenItem, Value: string(l.input[start:])}, true
}
