package fuzzy

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Text is a string prepared for matching: case-folded and optionally
// stripped of diacritics. Match indices refer to Runes; Orig maps them back
// to rune offsets in the original string.
type Text struct {
	Runes   []rune
	offsets []int
}

// Prepare folds s according to opts.
func Prepare(s string, opts Options) Text {
	if !opts.IgnoreDiacritics {
		rs := []rune(s)
		if !opts.IsCaseSensitive {
			for i, r := range rs {
				rs[i] = unicode.ToLower(r)
			}
		}
		return Text{Runes: rs}
	}

	var t Text
	i := 0
	for _, r := range s {
		for _, d := range norm.NFD.String(string(r)) {
			if unicode.Is(unicode.Mn, d) {
				continue
			}
			if !opts.IsCaseSensitive {
				d = unicode.ToLower(d)
			}
			t.Runes = append(t.Runes, d)
			t.offsets = append(t.offsets, i)
		}
		i++
	}
	return t
}

func (t Text) Len() int { return len(t.Runes) }

func (t Text) String() string { return string(t.Runes) }

// Orig returns the rune offset in the original string of prepared rune i.
func (t Text) Orig(i int) int {
	if t.offsets == nil || i < 0 {
		return i
	}
	if i >= len(t.offsets) {
		if len(t.offsets) == 0 {
			return 0
		}
		return t.offsets[len(t.offsets)-1] + 1
	}
	return t.offsets[i]
}

func (t Text) equal(p []rune) bool {
	if len(t.Runes) != len(p) {
		return false
	}
	for i, r := range p {
		if t.Runes[i] != r {
			return false
		}
	}
	return true
}

// indexRunes returns the first index >= from where p occurs in s, or -1.
func indexRunes(s, p []rune, from int) int {
	if from < 0 {
		from = 0
	}
	if len(p) == 0 {
		if from > len(s) {
			return len(s)
		}
		return from
	}
outer:
	for i := from; i+len(p) <= len(s); i++ {
		for j, r := range p {
			if s[i+j] != r {
				continue outer
			}
		}
		return i
	}
	return -1
}

func hasPrefix(s, p []rune) bool {
	return len(s) >= len(p) && indexRunes(s[:len(p)], p, 0) == 0
}

func hasSuffix(s, p []rune) bool {
	return len(s) >= len(p) && indexRunes(s[len(s)-len(p):], p, 0) == 0
}
