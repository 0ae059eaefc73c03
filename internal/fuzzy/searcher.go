package fuzzy

// Matcher scores a prepared text against a compiled pattern.
type Matcher interface {
	SearchIn(text Text) Result
}

// NewMatcher compiles pattern for the configured search mode.
func NewMatcher(pattern string, opts Options) Matcher {
	if opts.UseExtendedSearch {
		return NewExtendedSearcher(pattern, opts)
	}
	return NewBitapSearcher(pattern, opts)
}

type chunk struct {
	pattern    []rune
	alphabet   map[rune]uint32
	startIndex int
}

// BitapSearcher matches one fuzzy pattern. Patterns longer than MaxBits are
// split into MaxBits-rune chunks; a trailing partial chunk is taken from the
// last MaxBits runes so that every chunk is full length.
type BitapSearcher struct {
	opts    Options
	pattern []rune
	chunks  []chunk
}

func NewBitapSearcher(pattern string, opts Options) *BitapSearcher {
	s := &BitapSearcher{
		opts:    opts,
		pattern: Prepare(pattern, opts).Runes,
	}

	n := len(s.pattern)
	if n == 0 {
		return s
	}
	if n <= MaxBits {
		s.addChunk(s.pattern, 0)
		return s
	}

	remainder := n % MaxBits
	end := n - remainder
	for i := 0; i < end; i += MaxBits {
		s.addChunk(s.pattern[i:i+MaxBits], i)
	}
	if remainder > 0 {
		s.addChunk(s.pattern[n-MaxBits:], n-MaxBits)
	}
	return s
}

func (s *BitapSearcher) addChunk(p []rune, startIndex int) {
	s.chunks = append(s.chunks, chunk{
		pattern:    p,
		alphabet:   patternAlphabet(p),
		startIndex: startIndex,
	})
}

// SearchIn matches the pattern against text. A text identical to the
// pattern scores 0; otherwise the score is the mean over chunks.
func (s *BitapSearcher) SearchIn(text Text) Result {
	if text.equal(s.pattern) {
		return Result{
			IsMatch: true,
			Score:   0,
			Indices: [][2]int{{0, text.Len() - 1}},
		}
	}

	var indices [][2]int
	var total float64
	matched := false
	for _, c := range s.chunks {
		r := bitapSearch(text.Runes, c.pattern, c.alphabet, s.opts.Location+c.startIndex, s.opts)
		if r.IsMatch {
			matched = true
			indices = append(indices, r.Indices...)
		}
		total += r.Score
	}

	if !matched {
		return Result{Score: 1}
	}
	return Result{
		IsMatch: true,
		Score:   total / float64(len(s.chunks)),
		Indices: indices,
	}
}
