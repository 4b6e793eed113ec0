// Package triggers proposes trigger tags for a mood entry from the free
// text of its note. Matching is lexicon-based: note tokens are stopword
// filtered, then single tokens and adjacent bigrams are looked up against
// a static vocabulary of trigger surface forms.
package triggers

import (
	"strings"
	"unicode"

	"github.com/orsinium-labs/stopwords"
)

// lexicon maps surface forms (canonicalized) to the tag they suggest.
// Multiple surfaces can point at the same tag.
var lexicon = map[string]string{
	"work":          "work",
	"job":           "work",
	"boss":          "work",
	"interview":     "job-search",
	"job interview": "job-search",
	"rejection":     "job-search",
	"application":   "job-search",
	"layoff":        "job-loss",
	"laid off":      "job-loss",
	"fired":         "job-loss",
	"unemployed":    "job-loss",
	"money":         "finances",
	"rent":          "finances",
	"bills":         "finances",
	"debt":          "finances",
	"savings":       "finances",
	"sleep":         "sleep",
	"insomnia":      "sleep",
	"tired":         "sleep",
	"family":        "family",
	"kids":          "family",
	"partner":       "relationships",
	"friends":       "relationships",
	"alone":         "isolation",
	"isolated":      "isolation",
	"health":        "health",
	"sick":          "health",
	"pain":          "health",
	"exercise":      "exercise",
	"gym":           "exercise",
}

// Suggester performs stopword-filtered lexicon matching. Zero value is not
// usable; construct with New.
type Suggester struct {
	stops *stopwords.Stopwords
}

// New builds a Suggester with the English stopword list.
func New() *Suggester {
	return &Suggester{stops: stopwords.MustGet("en")}
}

// Suggest returns deduplicated trigger tags for a note, in first-seen order.
// Whitespace-only notes return nil.
func (s *Suggester) Suggest(note string) []string {
	tokens := tokenize(note)
	if len(tokens) == 0 {
		return nil
	}

	var tags []string
	seen := make(map[string]bool)
	add := func(surface string) {
		tag, ok := lexicon[surface]
		if !ok || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	// Bigrams run over the raw token stream: surfaces like "laid off"
	// contain words the stopword list would otherwise eat.
	for i, tok := range tokens {
		if i+1 < len(tokens) {
			add(tok + " " + tokens[i+1])
		}
	}

	// Single tokens are stopword filtered so filler words never match.
	for _, tok := range tokens {
		if s.stops != nil && s.stops.Contains(tok) {
			continue
		}
		add(tok)
	}
	return tags
}

// tokenize lowercases and splits on anything that is not a letter or digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
