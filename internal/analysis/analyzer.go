package analysis

import (
	"strings"
	"unicode"
)

// Token is a word found in a text. Start and End are rune offsets, End
// exclusive.
type Token struct {
	Term     string
	Position int
	Start    int
	End      int
}

// Analyzer defines the interface for text analysis.
type Analyzer interface {
	Analyze(text string) []Token
}

// Simple lowercases and splits on anything that is not a letter, number or
// combining mark. Tokens shorter than MinLength runes are dropped.
type Simple struct {
	MinLength int
}

func NewSimple() *Simple {
	return &Simple{MinLength: 2}
}

// Analyze tokenizes text into tokens with positions.
func (a *Simple) Analyze(text string) []Token {
	var tokens []Token
	var current strings.Builder
	var position, start, runes, offset int

	flush := func() {
		if runes >= a.MinLength && runes > 0 {
			tokens = append(tokens, Token{
				Term:     current.String(),
				Position: position,
				Start:    start,
				End:      offset,
			})
			position++
		}
		current.Reset()
		runes = 0
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r) {
			if runes == 0 {
				start = offset
			}
			current.WriteRune(unicode.ToLower(r))
			runes++
		} else if runes > 0 {
			flush()
		}
		offset++
	}
	if runes > 0 {
		flush()
	}

	return tokens
}

// SpaceTokens counts the runs of non-space characters in text. Only the
// ASCII space separates runs; tabs and newlines are part of a run.
func SpaceTokens(text string) int {
	count := 0
	inRun := false
	for _, r := range text {
		if r == ' ' {
			inRun = false
			continue
		}
		if !inRun {
			count++
			inRun = true
		}
	}
	return count
}

// Terms returns the distinct terms of text in first-seen order.
func Terms(a Analyzer, text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range a.Analyze(text) {
		if _, ok := seen[tok.Term]; ok {
			continue
		}
		seen[tok.Term] = struct{}{}
		out = append(out, tok.Term)
	}
	return out
}
