package search

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"harshagw/qanun/internal/extract"
	"harshagw/qanun/internal/index"
)

func newSearcher(t testing.TB, records ...extract.Record) *Searcher {
	t.Helper()
	idx, err := index.Build(records, index.DefaultConfig())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return New(idx, Options{})
}

func article(source, number, content string) extract.Record {
	return extract.Record{
		SourceKey:     source,
		BookID:        "book_1st",
		BookName:      "الكتاب الأول",
		ArticleNumber: number,
		Content:       content,
	}
}

func TestSearch_TooShort(t *testing.T) {
	s := newSearcher(t, article("cpp", "1", "a a a"))

	for _, q := range []string{"", "a", "م"} {
		resp, err := s.Run(Request{Query: q})
		if err != nil {
			t.Fatalf("error: %v", err)
		}
		if !resp.TooShort || len(resp.Results) != 0 {
			t.Errorf("Run(%q) = %+v, want too short and empty", q, resp)
		}
	}
	if got := s.Search("a", 20); len(got) != 0 {
		t.Errorf("Search(a) returned %d results", len(got))
	}
}

func TestSearch_ExactBeatsNearMiss(t *testing.T) {
	s := newSearcher(t, article("cpp", "1", "the quick brown fox jumps"))

	exact := s.Search("quick", 20)
	near := s.Search("quik", 20)
	if len(exact) != 1 || len(near) != 1 {
		t.Fatalf("expected one result each, got %d and %d", len(exact), len(near))
	}
	if exact[0].Score >= near[0].Score {
		t.Errorf("quick scored %v, quik scored %v", exact[0].Score, near[0].Score)
	}
	if exact[0].Snippet != "the quick brown fox jumps" {
		t.Errorf("Snippet = %q", exact[0].Snippet)
	}
}

func TestSearch_IdentifierOnly(t *testing.T) {
	s := newSearcher(t, article("cpp", "12", "nothing numeric in here"))

	results := s.Search("12", 20)
	if len(results) != 1 {
		t.Fatalf("expected identifier match, got %d results", len(results))
	}
	r := results[0]
	if r.Snippet != r.Content {
		t.Errorf("identifier-only hit should keep full content, got %q", r.Snippet)
	}
	if len(r.Matches) != 1 || r.Matches[0].Key != index.ArticleNumberKey {
		t.Errorf("Matches = %+v", r.Matches)
	}
}

func TestSearch_IdentifierOutranksContent(t *testing.T) {
	s := newSearcher(t,
		article("cpp", "9", "abc"),
		article("cpp", "abc", "zzz zzz"),
	)

	results := s.Search("abc", 20)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ArticleNumber != "abc" {
		t.Errorf("identifier hit ranked %q first", results[0].ArticleNumber)
	}
	if results[0].Score > results[1].Score {
		t.Errorf("results not ascending: %v > %v", results[0].Score, results[1].Score)
	}
}

func TestSearch_TiesKeepCorpusOrder(t *testing.T) {
	var records []extract.Record
	for i := range 25 {
		records = append(records, article("cpp", fmt.Sprint(100+i), "same text"))
	}
	s := newSearcher(t, records...)

	results := s.Search("same", 0)
	if len(results) != DefaultLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultLimit, len(results))
	}
	for i, r := range results {
		if r.RefIndex != i {
			t.Fatalf("result %d has RefIndex %d", i, r.RefIndex)
		}
	}
	if got := s.Search("same", 3); len(got) != 3 {
		t.Errorf("limit 3 returned %d", len(got))
	}
}

func TestSearchSource_MatchesDedicatedIndex(t *testing.T) {
	records := []extract.Record{
		article("cpp", "1", "the judicial police investigate offences"),
		article("dp", "1", "the police may arrest"),
		article("cpp", "2", "police custody lasts forty eight hours"),
		article("dp", "2", "penalties for theft"),
	}
	s := newSearcher(t, records...)

	var cppOnly []extract.Record
	for _, r := range records {
		if r.SourceKey == "cpp" {
			cppOnly = append(cppOnly, r)
		}
	}
	dedicated := newSearcher(t, cppOnly...)

	got := s.SearchSource("cpp", "police", 20)
	want := dedicated.Search("police", 20)
	if len(got) != len(want) || len(got) != 2 {
		t.Fatalf("got %d results, dedicated index gave %d", len(got), len(want))
	}
	for i := range got {
		if got[i].SourceKey != "cpp" {
			t.Errorf("result %d from source %q", i, got[i].SourceKey)
		}
		if got[i].ArticleNumber != want[i].ArticleNumber || got[i].Score != want[i].Score {
			t.Errorf("result %d = %s/%v, dedicated %s/%v", i,
				got[i].ArticleNumber, got[i].Score, want[i].ArticleNumber, want[i].Score)
		}
	}

	if got := s.SearchSource("unknown", "police", 20); len(got) != 0 {
		t.Errorf("unknown source returned %d results", len(got))
	}
}

func TestSearch_NotReady(t *testing.T) {
	s := New(nil, Options{})
	resp, err := s.Run(Request{Query: "anything"})
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if resp.TooShort || len(resp.Results) != 0 {
		t.Errorf("Run on missing index = %+v", resp)
	}

	idx, _ := index.Build(nil, index.DefaultConfig())
	idx.Close()
	if got := New(idx, Options{}).Search("anything", 5); len(got) != 0 {
		t.Errorf("closed index returned %d results", len(got))
	}
}

func TestSearch_EmptyCorpus(t *testing.T) {
	s := newSearcher(t)
	if got := s.Search("anything", 5); len(got) != 0 {
		t.Errorf("empty corpus returned %d results", len(got))
	}
}

func TestSearch_Extended(t *testing.T) {
	s := newSearcher(t,
		article("cpp", "1", "the quick brown fox"),
		article("cpp", "2", "a lazy dog sleeps"),
	)

	resp, err := s.Run(Request{Query: "^the", Extended: true})
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ArticleNumber != "1" {
		t.Errorf("^the = %+v", resp.Results)
	}

	resp, _ = s.Run(Request{Query: "'lazy | 'fox", Extended: true})
	if len(resp.Results) != 2 {
		t.Fatalf("OR query returned %d results", len(resp.Results))
	}
	if resp.Results[0].Score != resp.Results[1].Score {
		t.Errorf("equal-length include matches scored %v and %v", resp.Results[0].Score, resp.Results[1].Score)
	}

	resp, _ = s.Run(Request{Query: "'lazy 'fox", Extended: true})
	if len(resp.Results) != 0 {
		t.Errorf("AND query matched %d results", len(resp.Results))
	}
}

func TestSearch_SnippetWindow(t *testing.T) {
	content := strings.Repeat("x", 200) + " needle " + strings.Repeat("y", 200)
	s := newSearcher(t, article("cpp", "1", content))

	results := s.Search("needle", 20)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	snip := results[0].Snippet
	if !strings.HasPrefix(snip, Ellipsis) || !strings.HasSuffix(snip, Ellipsis) {
		t.Errorf("snippet not clipped on both sides: %q", snip)
	}
	if !strings.Contains(snip, "needle") {
		t.Errorf("snippet lost the match: %q", snip)
	}
	if n := len([]rune(snip)); n > len([]rune(content))+2*len(Ellipsis) {
		t.Errorf("snippet too long: %d", n)
	}
}

type recordingObserver struct {
	scopes []string
	counts []int
}

func (o *recordingObserver) ObserveSearch(scope string, took time.Duration, results int, tooShort bool) {
	o.scopes = append(o.scopes, scope)
	o.counts = append(o.counts, results)
}

func TestSearch_Observer(t *testing.T) {
	idx, _ := index.Build([]extract.Record{article("dp", "1", "theft")}, index.DefaultConfig())
	defer idx.Close()
	obs := &recordingObserver{}
	s := New(idx, Options{Observer: obs})

	s.Search("theft", 5)
	s.SearchSource("dp", "theft", 5)
	s.Search("t", 5)

	if strings.Join(obs.scopes, ",") != "global,dp,global" {
		t.Errorf("scopes = %v", obs.scopes)
	}
	if obs.counts[0] != 1 || obs.counts[2] != 0 {
		t.Errorf("counts = %v", obs.counts)
	}
}

func TestByIdentifier(t *testing.T) {
	s := newSearcher(t,
		article("cpp", "5", "first"),
		article("dp", "5", "second"),
		article("dp", "6", "third"),
	)
	results, err := s.ByIdentifier("5")
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if len(results) != 2 || results[0].SourceKey != "cpp" || results[1].SourceKey != "dp" {
		t.Errorf("ByIdentifier(5) = %+v", results)
	}
}

func TestFormatLegalPath(t *testing.T) {
	r := Result{Record: extract.Record{BookName: "الكتاب الأول", BookTitle: "التحري عن الجرائم"}}
	if got := FormatLegalPath(r); got != "الكتاب الأول • التحري عن الجرائم" {
		t.Errorf("FormatLegalPath = %q", got)
	}
	r.BookTitle = ""
	if got := FormatLegalPath(r); got != "الكتاب الأول" {
		t.Errorf("FormatLegalPath without title = %q", got)
	}
	if got := FormatLegalPath(Result{}); got != "" {
		t.Errorf("FormatLegalPath empty = %q", got)
	}
}

func BenchmarkSearch(b *testing.B) {
	var records []extract.Record
	words := []string{"police", "judicial", "custody", "penalty", "offence", "court", "appeal", "witness"}
	for i := range 2000 {
		var sb strings.Builder
		for j := range 40 {
			sb.WriteString(words[(i+j)%len(words)])
			sb.WriteByte(' ')
		}
		records = append(records, article("cpp", fmt.Sprint(i), sb.String()))
	}
	s := newSearcher(b, records...)

	b.ResetTimer()
	for range b.N {
		s.Search("custdy", 20)
	}
}
