package scorer

// Rule is one deterministic quality check with its fixed diagnostics.
type Rule struct {
	Name       string
	Category   string // shape, content, fit
	Issue      string
	Suggestion string
}

const (
	RuleLength          = "LENGTH"
	RuleStructure       = "STRUCTURE"
	RuleMetrics         = "METRICS"
	RuleKeywords        = "KEYWORDS"
	RulePersonalization = "PERSONALIZATION"
)

//nolint:gochecknoglobals // Scoring configuration constants
var ScoringRules = map[string]Rule{
	RuleLength: {
		Name:       RuleLength,
		Category:   "shape",
		Issue:      "Length is outside the recommended range of 250-400 words",
		Suggestion: "Edit the letter to the recommended length",
	},
	RuleStructure: {
		Name:       RuleStructure,
		Category:   "shape",
		Issue:      "Paragraph structure is off: expected 3-5 paragraphs",
		Suggestion: "Split the letter into 3-5 paragraphs separated by blank lines",
	},
	RuleMetrics: {
		Name:       RuleMetrics,
		Category:   "content",
		Issue:      "Quantified achievements are missing",
		Suggestion: "Add at least 2 metrics or figures",
	},
	RuleKeywords: {
		Name:       RuleKeywords,
		Category:   "fit",
		Issue:      "Too few keywords from the job posting",
		Suggestion: "Include more relevant terms from the posting",
	},
	RulePersonalization: {
		Name:       RulePersonalization,
		Category:   "fit",
		Issue:      "Not personalized enough",
		Suggestion: "Mention the specific company and position",
	},
}

// ruleOrder fixes the order diagnostics are reported in.
//
//nolint:gochecknoglobals // Scoring configuration constants
var ruleOrder = []string{RuleLength, RuleStructure, RuleMetrics, RuleKeywords, RulePersonalization}
