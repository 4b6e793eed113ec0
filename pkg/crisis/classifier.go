package crisis

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/coregx/ahocorasick"
)

// Result is the outcome of classifying one piece of text.
type Result struct {
	Detected         bool     `json:"detected"`
	Severity         Severity `json:"severity"`
	MatchedKeywords  []string `json:"matchedKeywords"`
	SuggestedActions []string `json:"suggestedActions"`
}

// Classifier holds the compiled taxonomy: an Aho-Corasick automaton for the
// contains-phrases, a padded-token form for exact phrases, and compiled
// regexes. Safe for concurrent use after construction.
type Classifier struct {
	ac          *ahocorasick.Automaton
	containsIdx []int // pattern id -> taxonomy index

	exact []exactPhrase
	regex []regexPhrase
}

type exactPhrase struct {
	padded string // " phrase " for whole-token substring search
	idx    int
}

type regexPhrase struct {
	re  *regexp.Regexp
	idx int
}

// New compiles the static taxonomy into a Classifier.
func New() (*Classifier, error) {
	c := &Classifier{}

	var patterns []string
	for i, kw := range Taxonomy {
		switch kw.Match {
		case MatchContains:
			patterns = append(patterns, canonicalize(kw.Phrase))
			c.containsIdx = append(c.containsIdx, i)
		case MatchExact:
			c.exact = append(c.exact, exactPhrase{
				padded: " " + canonicalize(kw.Phrase) + " ",
				idx:    i,
			})
		case MatchRegex:
			re, err := regexp.Compile("(?i)" + kw.Phrase)
			if err != nil {
				return nil, err
			}
			c.regex = append(c.regex, regexPhrase{re: re, idx: i})
		}
	}

	ac, err := ahocorasick.NewBuilder().
		AddStrings(patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, err
	}
	c.ac = ac

	return c, nil
}

// Detect scans text against the taxonomy. Empty or whitespace-only input
// short-circuits to a non-detection without touching the automaton.
// Severity is the maximum tier among matches; SuggestedActions is the static
// per-severity list.
func (c *Classifier) Detect(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{Detected: false, Severity: SeverityNone}
	}

	canon := canonicalize(text)
	hits := make(map[int]bool)

	for _, m := range c.ac.FindAllOverlapping([]byte(canon)) {
		hits[c.containsIdx[m.PatternID]] = true
	}

	padded := " " + canon + " "
	for _, e := range c.exact {
		if strings.Contains(padded, e.padded) {
			hits[e.idx] = true
		}
	}

	for _, r := range c.regex {
		if r.re.MatchString(text) {
			hits[r.idx] = true
		}
	}

	if len(hits) == 0 {
		return Result{Detected: false, Severity: SeverityNone}
	}

	// Walk the taxonomy in order so MatchedKeywords is deterministic.
	res := Result{Detected: true, Severity: SeverityNone}
	for i, kw := range Taxonomy {
		if !hits[i] {
			continue
		}
		res.MatchedKeywords = append(res.MatchedKeywords, kw.Phrase)
		if kw.Severity > res.Severity {
			res.Severity = kw.Severity
		}
	}
	res.SuggestedActions = ActionsFor(res.Severity)
	return res
}

// canonicalize folds text for matching: lowercase, apostrophes and hyphens
// preserved inside words, every other separator collapsed to a single space.
// The same form is applied to both taxonomy phrases and scanned input so the
// two always agree.
func canonicalize(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	lastWasSpace := true
	for _, ch := range s {
		c := unicode.ToLower(ch)
		if c == '’' || c == '‘' {
			c = '\''
		}
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '\'' || c == '-' {
			out.WriteRune(c)
			lastWasSpace = false
			continue
		}
		if !lastWasSpace {
			out.WriteRune(' ')
			lastWasSpace = true
		}
	}

	result := out.String()
	return strings.TrimRight(result, " ")
}
