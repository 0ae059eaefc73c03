package fuzzy

// MaxBits is the longest pattern a single bitap pass can handle. Longer
// patterns are split into chunks.
const MaxBits = 32

// Options configures matching. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// Threshold is the worst score still accepted (0 exact, 1 anything).
	Threshold float64
	// Location is where in the text the pattern is expected to be found.
	Location int
	// Distance is how far from Location a match may drift before its score
	// reaches 1. Ignored when IgnoreLocation is set.
	Distance       int
	IgnoreLocation bool
	// FindAllMatches keeps scanning after a perfect match was found.
	FindAllMatches bool
	// MinMatchCharLength is the shortest run of matched characters reported
	// in match indices. A match without any such run is rejected.
	MinMatchCharLength int
	IsCaseSensitive    bool
	// IgnoreDiacritics folds combining marks, Arabic harakat included.
	IgnoreDiacritics bool
	// IgnoreFieldNorm disables the field-length penalty.
	IgnoreFieldNorm bool
	// UseExtendedSearch enables the operator syntax of ExtendedSearcher.
	UseExtendedSearch bool
}

// DefaultOptions returns the article search configuration.
func DefaultOptions() Options {
	return Options{
		Threshold:          0.3,
		Location:           0,
		Distance:           100,
		IgnoreLocation:     true,
		FindAllMatches:     true,
		MinMatchCharLength: 2,
	}
}

// Key is a weighted searchable field.
type Key struct {
	Name   string
	Weight float64
}

// NormalizeKeys returns keys with weights scaled to sum to 1. Non-positive
// weights count as 1.
func NormalizeKeys(keys []Key) []Key {
	out := make([]Key, len(keys))
	var total float64
	for i, k := range keys {
		if k.Weight <= 0 {
			k.Weight = 1
		}
		out[i] = k
		total += k.Weight
	}
	for i := range out {
		out[i].Weight /= total
	}
	return out
}
