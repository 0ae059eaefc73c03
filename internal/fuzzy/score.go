package fuzzy

import (
	"math"
	"strings"

	"harshagw/qanun/internal/analysis"
)

// epsilon replaces a perfect score of a weighted field so that the product
// of field scores still reflects the other fields.
var epsilon = math.Nextafter(1, 2) - 1

// Norm returns the field-length penalty of value: 1/sqrt(space-separated
// token count), rounded to three decimals.
func Norm(value string) float64 {
	n := analysis.SpaceTokens(value)
	if n == 0 {
		return 1
	}
	return math.Round(1/math.Sqrt(float64(n))*1000) / 1000
}

// Blank reports whether value holds only whitespace. Blank values are not
// indexed.
func Blank(value string) bool {
	return strings.TrimSpace(value) == ""
}

// Field is one indexed field value of a record.
type Field struct {
	Text Text
	Norm float64
}

// NewField prepares value for matching. It returns nil for blank values.
func NewField(value string, opts Options) *Field {
	if Blank(value) {
		return nil
	}
	return &Field{Text: Prepare(value, opts), Norm: Norm(value)}
}

// FieldMatch records a successful match in the field at KeyIndex.
type FieldMatch struct {
	KeyIndex int
	Score    float64
	Norm     float64
	Indices  [][2]int
}

// MatchRecord matches every field of one record. fields is parallel to the
// key list; nil entries are skipped.
func MatchRecord(m Matcher, fields []*Field) []FieldMatch {
	var matches []FieldMatch
	for i, f := range fields {
		if f == nil {
			continue
		}
		r := m.SearchIn(f.Text)
		if !r.IsMatch {
			continue
		}
		matches = append(matches, FieldMatch{
			KeyIndex: i,
			Score:    r.Score,
			Norm:     f.Norm,
			Indices:  r.Indices,
		})
	}
	return matches
}

// Combine folds field matches into one record score:
// the product of score^(weight*norm). keys must be normalized.
func Combine(matches []FieldMatch, keys []Key, ignoreFieldNorm bool) float64 {
	total := 1.0
	for _, m := range matches {
		weight := 1.0
		if m.KeyIndex < len(keys) && keys[m.KeyIndex].Weight > 0 {
			weight = keys[m.KeyIndex].Weight
		}
		score := m.Score
		if score == 0 {
			score = epsilon
		}
		norm := m.Norm
		if ignoreFieldNorm {
			norm = 1
		}
		total *= math.Pow(score, weight*norm)
	}
	return total
}
