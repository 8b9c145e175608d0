package keyword

import "strings"

// DefaultLexicon holds terms that often appear in fabricated or clickbait news.
var DefaultLexicon = []string{
	"shocking", "clickbait", "scam", "miracle",
	"unbelievable", "breaking", "urgent", "exclusive",
	"you won't believe", "doctors hate", "secret",
	"conspiracy", "hoax", "fake", "lie",
}

// Scorer flags text containing any lexicon term. It is immutable after
// construction and safe for concurrent use.
type Scorer struct {
	lexicon []string
}

// NewScorer copies and lowercases terms. Blank terms are dropped; a nil or
// empty list falls back to DefaultLexicon.
func NewScorer(terms []string) *Scorer {
	if len(terms) == 0 {
		terms = DefaultLexicon
	}

	lexicon := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		lexicon = append(lexicon, t)
	}

	return &Scorer{lexicon: lexicon}
}

func (s *Scorer) Flag(text string) bool {
	_, ok := s.Match(text)
	return ok
}

// Match returns the first lexicon term found in text.
func (s *Scorer) Match(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	lower := strings.ToLower(text)
	for _, term := range s.lexicon {
		if strings.Contains(lower, term) {
			return term, true
		}
	}

	return "", false
}

func (s *Scorer) Lexicon() []string {
	out := make([]string, len(s.lexicon))
	copy(out, s.lexicon)
	return out
}
