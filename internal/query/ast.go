package query

import (
	"fmt"
	"strings"
)

// Kind is the matching operator of a single query item.
type Kind int

const (
	KindFuzzy Kind = iota
	KindExact
	KindInclude
	KindPrefix
	KindInversePrefix
	KindInverseSuffix
	KindSuffix
	KindInverseExact
)

func (k Kind) String() string {
	switch k {
	case KindFuzzy:
		return "fuzzy"
	case KindExact:
		return "exact"
	case KindInclude:
		return "include"
	case KindPrefix:
		return "prefix-exact"
	case KindInversePrefix:
		return "inverse-prefix-exact"
	case KindInverseSuffix:
		return "inverse-suffix-exact"
	case KindSuffix:
		return "suffix-exact"
	case KindInverseExact:
		return "inverse-exact"
	default:
		return "unknown"
	}
}

// Inverse reports whether the item matches texts that do not contain the
// pattern.
func (k Kind) Inverse() bool {
	return k == KindInversePrefix || k == KindInverseSuffix || k == KindInverseExact
}

// Term is one operator applied to one pattern.
type Term struct {
	Kind    Kind
	Pattern string
}

func (t Term) String() string {
	return fmt.Sprintf("%s(%s)", t.Kind, t.Pattern)
}

// Group is a conjunction: every term must match.
type Group []Term

func (g Group) String() string {
	parts := make([]string, len(g))
	for i, t := range g {
		parts[i] = t.String()
	}
	return fmt.Sprintf("AND(%s)", strings.Join(parts, ", "))
}

// Query is a disjunction of groups, tried in order.
type Query []Group

func (q Query) String() string {
	if len(q) == 0 {
		return "empty"
	}
	parts := make([]string, len(q))
	for i, g := range q {
		parts[i] = g.String()
	}
	return fmt.Sprintf("OR(%s)", strings.Join(parts, ", "))
}

// Terms returns every term of the query in order.
func (q Query) Terms() []Term {
	var out []Term
	for _, g := range q {
		out = append(out, g...)
	}
	return out
}
