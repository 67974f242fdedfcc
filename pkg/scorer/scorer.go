// Package scorer rates generated cover letters with deterministic
// heuristics and an optional model review.
package scorer

import (
	"regexp"
	"sort"
	"strings"
)

// ValidationResult is the outcome of one assessment. It is never mutated
// after Assess returns it.
type ValidationResult struct {
	IsValid              bool     `json:"is_valid"`
	Score                float64  `json:"score"`
	LengthOK             bool     `json:"length_ok"`
	StructureOK          bool     `json:"structure_ok"`
	HasMetrics           bool     `json:"has_metrics"`
	KeywordMatchRatio    float64  `json:"keyword_match_ratio"`
	PersonalizationScore float64  `json:"personalization_score"`
	Issues               []string `json:"issues"`
	Suggestions          []string `json:"suggestions"`
}

// Thresholds are the tunable bands and cut-offs of the assessment.
type Thresholds struct {
	Validity             float64
	KeywordIssue         float64
	PersonalizationIssue float64
	MinWords             int
	MaxWords             int
	MinParagraphs        int
	MaxParagraphs        int
	MinMetrics           int
}

// DefaultThresholds returns the standard bands: 250-400 words, 3-5
// paragraphs, 2 metrics and a 0.7 validity threshold.
func DefaultThresholds() (th Thresholds) {
	th = Thresholds{
		Validity:             0.7,
		KeywordIssue:         0.3,
		PersonalizationIssue: 0.5,
		MinWords:             250,
		MaxWords:             400,
		MinParagraphs:        3,
		MaxParagraphs:        5,
		MinMetrics:           2,
	}
	return th
}

const (
	companyWeight      = 0.5
	positionWeight     = 0.3
	organizationWeight = 0.2
)

//nolint:gochecknoglobals // fixed pattern tables
var (
	paragraphSplit = regexp.MustCompile(`\n\s*\n`)

	metricPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d+(?:[.,]\d+)?\s*%`),
		regexp.MustCompile(`(?i)\d+\s*(?:млн|тыс|лет|год|месяц)`),
		regexp.MustCompile(`(?i)\d+\s*(?:million|thousand|years?|months?|times)\b`),
		regexp.MustCompile(`[$€£]\s?\d+`),
		regexp.MustCompile(`\d+[.,]\d+`),
		regexp.MustCompile(`\d+\+`),
		regexp.MustCompile(`(?i)\d+x\b`),
		regexp.MustCompile(`(?i)на\s+\d+%`),
		regexp.MustCompile(`(?i)в\s+\d+\s+раз`),
	}

	positionTerms     = []string{"позиция", "должность", "роль", "вакансия", "position", "role", "job", "opportunity"}
	organizationTerms = []string{"компания", "организация", "команда", "проект", "company", "organization", "team", "project"}
)

// Scorer runs the deterministic checks. It has no mutable state.
type Scorer struct {
	th Thresholds
}

// NewScorer creates a scorer with th.
func NewScorer(th Thresholds) (scorer *Scorer) {
	scorer = &Scorer{th: th}
	return scorer
}

// Thresholds returns the configured thresholds.
func (s *Scorer) Thresholds() (th Thresholds) {
	th = s.th
	return th
}

// Assess scores text against keywords and the company name. The score is
// the unweighted mean of the five components.
func (s *Scorer) Assess(text string, keywords []string, companyName string) (result ValidationResult) {
	words := len(strings.Fields(text))
	paragraphs := CountParagraphs(text)

	result.LengthOK = words >= s.th.MinWords && words <= s.th.MaxWords
	result.StructureOK = paragraphs >= s.th.MinParagraphs && paragraphs <= s.th.MaxParagraphs
	result.HasMetrics = CountMetrics(text) >= s.th.MinMetrics
	result.KeywordMatchRatio = KeywordMatchRatio(text, keywords)
	result.PersonalizationScore = PersonalizationScore(text, companyName)

	failed := map[string]bool{
		RuleLength:          !result.LengthOK,
		RuleStructure:       !result.StructureOK,
		RuleMetrics:         !result.HasMetrics,
		RuleKeywords:        result.KeywordMatchRatio < s.th.KeywordIssue,
		RulePersonalization: result.PersonalizationScore < s.th.PersonalizationIssue,
	}

	result.Issues = []string{}
	result.Suggestions = []string{}
	for _, name := range ruleOrder {
		if failed[name] {
			rule := ScoringRules[name]
			result.Issues = append(result.Issues, rule.Issue)
			result.Suggestions = append(result.Suggestions, rule.Suggestion)
		}
	}

	components := []float64{
		boolScore(result.LengthOK),
		boolScore(result.StructureOK),
		boolScore(result.HasMetrics),
		result.KeywordMatchRatio,
		result.PersonalizationScore,
	}
	var sum float64
	for _, c := range components {
		sum += c
	}

	result.Score = clamp(sum / float64(len(components)))
	result.IsValid = result.Score >= s.th.Validity

	return result
}

// CountParagraphs counts non-empty blocks separated by blank lines.
func CountParagraphs(text string) (n int) {
	for _, p := range paragraphSplit.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

// CountMetrics counts distinct quantified spans. Overlapping matches from
// different patterns count once.
func CountMetrics(text string) (n int) {
	var spans [][]int
	for _, re := range metricPatterns {
		spans = append(spans, re.FindAllStringIndex(text, -1)...)
	}
	if len(spans) == 0 {
		return n
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i][0] < spans[j][0] })

	n = 1
	end := spans[0][1]
	for _, span := range spans[1:] {
		if span[0] < end {
			if span[1] > end {
				end = span[1]
			}
			continue
		}
		n++
		end = span[1]
	}

	return n
}

// KeywordMatchRatio is the fraction of keywords found in text, compared
// case-insensitively. No keywords is a vacuous full match.
func KeywordMatchRatio(text string, keywords []string) (ratio float64) {
	if len(keywords) == 0 {
		ratio = 1.0
		return ratio
	}
	ratio = float64(CountKeywordHits(text, keywords)) / float64(len(keywords))
	return ratio
}

// CountKeywordHits counts keywords that appear in text.
func CountKeywordHits(text string, keywords []string) (hits int) {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			hits++
		}
	}
	return hits
}

// PersonalizationScore weighs a company mention, position references and
// organization references, capped at 1.0.
func PersonalizationScore(text, companyName string) (score float64) {
	lower := strings.ToLower(text)

	if company := strings.TrimSpace(companyName); company != "" && strings.Contains(lower, strings.ToLower(company)) {
		score += companyWeight
	}
	if containsAny(lower, positionTerms) {
		score += positionWeight
	}
	if containsAny(lower, organizationTerms) {
		score += organizationWeight
	}

	score = clamp(score)
	return score
}

func containsAny(text string, terms []string) (found bool) {
	for _, term := range terms {
		if strings.Contains(text, term) {
			found = true
			break
		}
	}
	return found
}

func boolScore(ok bool) (score float64) {
	if ok {
		score = 1.0
	}
	return score
}

func clamp(v float64) (out float64) {
	out = v
	if out < 0 {
		out = 0
	}
	if out > 1 {
		out = 1
	}
	return out
}
