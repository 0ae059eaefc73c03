package query

import "testing"

func TestParseTerm_Operators(t *testing.T) {
	tests := []struct {
		item    string
		kind    Kind
		pattern string
	}{
		{"jscript", KindFuzzy, "jscript"},
		{"=scheme", KindExact, "scheme"},
		{"'python", KindInclude, "python"},
		{"^java", KindPrefix, "java"},
		{"!^earlang", KindInversePrefix, "earlang"},
		{"!.js$", KindInverseSuffix, ".js"},
		{".go$", KindSuffix, ".go"},
		{"!ruby", KindInverseExact, "ruby"},
		{`="scheme language"`, KindExact, "scheme language"},
		{`'"a b"`, KindInclude, "a b"},
		{`^"a b"`, KindPrefix, "a b"},
		{`!^"a b"`, KindInversePrefix, "a b"},
		{`!"a b"$`, KindInverseSuffix, "a b"},
		{`"a b"$`, KindSuffix, "a b"},
		{`!"a b"`, KindInverseExact, "a b"},
		{`"a b"`, KindFuzzy, "a b"},
	}
	for _, tt := range tests {
		got := ParseTerm(tt.item)
		if got.Kind != tt.kind || got.Pattern != tt.pattern {
			t.Errorf("ParseTerm(%q) = %s, want %s(%s)", tt.item, got, tt.kind, tt.pattern)
		}
	}
}

func TestParseTerm_EmptyPatternFallsThrough(t *testing.T) {
	tests := []struct {
		item    string
		kind    Kind
		pattern string
	}{
		{"'", KindFuzzy, "'"},
		{"=", KindFuzzy, "="},
		{"!$", KindSuffix, "!"},
		{"$", KindFuzzy, "$"},
		{`""`, KindFuzzy, `""`},
		{"!", KindFuzzy, "!"},
	}
	for _, tt := range tests {
		got := ParseTerm(tt.item)
		if got.Kind != tt.kind || got.Pattern != tt.pattern {
			t.Errorf("ParseTerm(%q) = %s, want %s(%s)", tt.item, got, tt.kind, tt.pattern)
		}
	}
}

func TestParse_Groups(t *testing.T) {
	q := Parse("^core go$ | rb$ | py$ xy$")
	if len(q) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(q))
	}
	if len(q[0]) != 2 || len(q[1]) != 1 || len(q[2]) != 2 {
		t.Errorf("unexpected group sizes: %s", q)
	}
	if q[0][0].Kind != KindPrefix || q[0][1].Kind != KindSuffix {
		t.Errorf("unexpected first group: %s", q[0])
	}
	if got := q.String(); got != "OR(AND(prefix-exact(core), suffix-exact(go)), AND(suffix-exact(rb)), AND(suffix-exact(py), suffix-exact(xy)))" {
		t.Errorf("unexpected string: %s", got)
	}
	if len(q.Terms()) != 5 {
		t.Errorf("expected 5 terms, got %d", len(q.Terms()))
	}
}

func TestParse_EmptyGroupsKept(t *testing.T) {
	q := Parse("a || b")
	if len(q) != 3 || len(q[1]) != 0 {
		t.Errorf("expected an empty middle group, got %s", q)
	}
}

func TestKind_Inverse(t *testing.T) {
	for _, k := range []Kind{KindInversePrefix, KindInverseSuffix, KindInverseExact} {
		if !k.Inverse() {
			t.Errorf("%s should be inverse", k)
		}
	}
	if KindFuzzy.Inverse() || KindInclude.Inverse() {
		t.Error("fuzzy and include are not inverse")
	}
}
