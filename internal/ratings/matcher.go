package ratings

import (
	"fmt"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"movielog/internal/config"
	"movielog/internal/textutil"
)

// DefaultThreshold is the minimum similarity for a match, inclusive.
const DefaultThreshold = 0.8

// Scorer returns the similarity of two normalized titles in [0, 1].
type Scorer func(a, b string) float64

// Ratio scores two strings as 2*LCS/(len(a)+len(b)) over runes, where LCS is
// the longest common subsequence. Empty input scores 0.
func Ratio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if a == "" || b == "" || total == 0 {
		return 0
	}
	return 2 * float64(edlib.LCS(a, b)) / float64(total)
}

// JaroWinkler scores two strings with the Jaro-Winkler similarity. Empty
// input scores 0.
func JaroWinkler(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return float64(edlib.JaroWinklerSimilarity(a, b))
}

// ScorerFor resolves a configured algorithm name.
func ScorerFor(algorithm string) (Scorer, error) {
	switch algorithm {
	case config.AlgorithmRatio, "":
		return Ratio, nil
	case config.AlgorithmJaroWinkler:
		return JaroWinkler, nil
	default:
		return nil, fmt.Errorf("unknown similarity algorithm %q", algorithm)
	}
}

// Match is the outcome of a successful lookup.
type Match struct {
	Entry
	Score float64
}

// Matcher picks the single best rating for a title.
type Matcher struct {
	Threshold float64
	Score     Scorer
}

// NewMatcher returns a matcher for the given threshold and algorithm.
func NewMatcher(threshold float64, algorithm string) (*Matcher, error) {
	scorer, err := ScorerFor(algorithm)
	if err != nil {
		return nil, err
	}
	return &Matcher{Threshold: threshold, Score: scorer}, nil
}

// Match returns the entry whose title key equals title's with score 1.
// Otherwise it scores title against every snapshot entry and returns the
// highest scoring entry at or above the threshold. Ties keep the earliest
// entry.
func (m *Matcher) Match(title string, snapshot *Snapshot) (Match, bool) {
	if m == nil || snapshot == nil || snapshot.Len() == 0 {
		return Match{}, false
	}
	if entry, ok := snapshot.Lookup(title); ok {
		return Match{Entry: entry, Score: 1}, true
	}
	score := m.Score
	if score == nil {
		score = Ratio
	}
	needle := textutil.NormalizeTitle(title)

	best := -1
	bestScore := 0.0
	for i, candidate := range snapshot.normalized {
		s := score(needle, candidate)
		if s < m.Threshold {
			continue
		}
		if best < 0 || s > bestScore {
			best = i
			bestScore = s
		}
	}
	if best < 0 {
		return Match{}, false
	}
	return Match{Entry: snapshot.entries[best], Score: bestScore}, true
}
