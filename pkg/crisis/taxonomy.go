package crisis

// MatchType selects how a taxonomy phrase is compared against input text.
type MatchType int

const (
	// MatchExact matches the phrase as a whole token sequence.
	MatchExact MatchType = iota
	// MatchContains matches the phrase as a case-insensitive substring.
	MatchContains
	// MatchRegex matches a compiled regular expression.
	MatchRegex
)

// Keyword is one entry in the static severity taxonomy.
type Keyword struct {
	Phrase   string
	Severity Severity
	Match    MatchType
}

// Taxonomy is the static ordered severity taxonomy. Order matters only for
// the stability of MatchedKeywords; severity resolution is a max over all
// matches regardless of position.
var Taxonomy = []Keyword{
	// Critical: explicit self-harm or suicidal language.
	{Phrase: "suicide", Severity: SeverityCritical, Match: MatchContains},
	{Phrase: "suicidal", Severity: SeverityCritical, Match: MatchContains},
	{Phrase: "kill myself", Severity: SeverityCritical, Match: MatchContains},
	{Phrase: "end my life", Severity: SeverityCritical, Match: MatchContains},
	{Phrase: "end it all", Severity: SeverityCritical, Match: MatchContains},
	{Phrase: "want to die", Severity: SeverityCritical, Match: MatchContains},
	{Phrase: "better off dead", Severity: SeverityCritical, Match: MatchContains},
	{Phrase: "hurt myself", Severity: SeverityCritical, Match: MatchContains},
	{Phrase: "self harm", Severity: SeverityCritical, Match: MatchContains},
	{Phrase: "better off without me", Severity: SeverityCritical, Match: MatchContains},
	{Phrase: `no ?(one|body) would (care|miss me|notice)`, Severity: SeverityCritical, Match: MatchRegex},

	// High: despair and loss of agency.
	{Phrase: "hopeless", Severity: SeverityHigh, Match: MatchContains},
	{Phrase: "worthless", Severity: SeverityHigh, Match: MatchContains},
	{Phrase: "no way out", Severity: SeverityHigh, Match: MatchContains},
	{Phrase: "give up", Severity: SeverityHigh, Match: MatchContains},
	{Phrase: "can't go on", Severity: SeverityHigh, Match: MatchContains},
	{Phrase: "cant go on", Severity: SeverityHigh, Match: MatchContains},
	{Phrase: "nothing matters", Severity: SeverityHigh, Match: MatchContains},
	{Phrase: "lost everything", Severity: SeverityHigh, Match: MatchContains},
	{Phrase: "trapped", Severity: SeverityHigh, Match: MatchExact},

	// Medium: acute distress.
	{Phrase: "panic attack", Severity: SeverityMedium, Match: MatchContains},
	{Phrase: "can't cope", Severity: SeverityMedium, Match: MatchContains},
	{Phrase: "cant cope", Severity: SeverityMedium, Match: MatchContains},
	{Phrase: "breaking down", Severity: SeverityMedium, Match: MatchContains},
	{Phrase: "falling apart", Severity: SeverityMedium, Match: MatchContains},
	{Phrase: "overwhelmed", Severity: SeverityMedium, Match: MatchExact},
	{Phrase: "desperate", Severity: SeverityMedium, Match: MatchExact},
	{Phrase: `can['\x{2019}]?t (sleep|eat) (at all|anymore)`, Severity: SeverityMedium, Match: MatchRegex},

	// Low: everyday strain worth a gentle nudge.
	{Phrase: "stressed", Severity: SeverityLow, Match: MatchContains},
	{Phrase: "anxious", Severity: SeverityLow, Match: MatchContains},
	{Phrase: "exhausted", Severity: SeverityLow, Match: MatchContains},
	{Phrase: "burned out", Severity: SeverityLow, Match: MatchContains},
	{Phrase: "burnt out", Severity: SeverityLow, Match: MatchContains},
	{Phrase: "lonely", Severity: SeverityLow, Match: MatchExact},
	{Phrase: "tired", Severity: SeverityLow, Match: MatchExact},
}

// suggestedActions is a static lookup keyed by the final severity, not
// accumulated per keyword.
var suggestedActions = map[Severity][]string{
	SeverityCritical: {
		"Call or text the 988 Suicide & Crisis Lifeline now",
		"If you are in immediate danger, call 911",
		"Reach out to someone you trust and tell them how you feel",
	},
	SeverityHigh: {
		"Talk to a licensed counselor as soon as you can",
		"Schedule a session with your coach",
		"The 988 Lifeline is available anytime, day or night",
	},
	SeverityMedium: {
		"Try a grounding exercise: name 5 things you can see",
		"Take a short walk or step away from the screen",
		"Consider messaging your coach about how today went",
	},
	SeverityLow: {
		"Take a few deep breaths",
		"Log what triggered this feeling",
		"Be kind to yourself today",
	},
}

// ActionsFor returns the static action list for a tier. No actions exist
// below Low.
func ActionsFor(s Severity) []string {
	return suggestedActions[s]
}
