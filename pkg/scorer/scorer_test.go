package scorer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const strongOpening = "I am excited about the position at Acme where I increased throughput by 45% and saved $200 for the team using Python and Django."

func buildLetter(opening string, paragraphs, wordsPer int) (text string) {
	filler := strings.TrimSpace(strings.Repeat("word ", wordsPer))
	blocks := make([]string, 0, paragraphs)
	for i := 0; i < paragraphs; i++ {
		block := filler
		if i == 0 && opening != "" {
			block = opening + " " + filler
		}
		blocks = append(blocks, block)
	}
	text = strings.Join(blocks, "\n\n")
	return text
}

func TestAssessStrongLetter(t *testing.T) {
	text := buildLetter(strongOpening, 4, 70)
	result := NewScorer(DefaultThresholds()).Assess(text, []string{"Python", "django"}, "Acme")

	assert.True(t, result.LengthOK)
	assert.True(t, result.StructureOK)
	assert.True(t, result.HasMetrics)
	assert.InDelta(t, 1.0, result.KeywordMatchRatio, 1e-9)
	assert.InDelta(t, 1.0, result.PersonalizationScore, 1e-9)
	assert.InDelta(t, 1.0, result.Score, 1e-9)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Issues)
	assert.Empty(t, result.Suggestions)
}

func TestAssessEmptyText(t *testing.T) {
	result := NewScorer(DefaultThresholds()).Assess("", []string{"Python"}, "Acme")

	assert.False(t, result.IsValid)
	assert.InDelta(t, 0.0, result.Score, 1e-9)
	require.Len(t, result.Issues, 5)
	require.Len(t, result.Suggestions, 5)
	assert.Equal(t, ScoringRules[RuleLength].Issue, result.Issues[0])
	assert.Equal(t, ScoringRules[RulePersonalization].Suggestion, result.Suggestions[4])
}

func TestAssessPartialLetter(t *testing.T) {
	// Two short paragraphs, no metrics, half the keywords, only a team reference.
	text := "Our team uses Python daily.\n\nThanks for reading."
	result := NewScorer(DefaultThresholds()).Assess(text, []string{"Python", "Kubernetes"}, "Globex")

	assert.False(t, result.LengthOK)
	assert.False(t, result.StructureOK)
	assert.False(t, result.HasMetrics)
	assert.InDelta(t, 0.5, result.KeywordMatchRatio, 1e-9)
	assert.InDelta(t, 0.2, result.PersonalizationScore, 1e-9)
	assert.InDelta(t, (0.5+0.2)/5, result.Score, 1e-9)
	assert.Equal(t, []string{
		ScoringRules[RuleLength].Issue,
		ScoringRules[RuleStructure].Issue,
		ScoringRules[RuleMetrics].Issue,
		ScoringRules[RulePersonalization].Issue,
	}, result.Issues)
}

func TestAssessVacuousKeywordMatch(t *testing.T) {
	result := NewScorer(DefaultThresholds()).Assess("anything", nil, "")
	assert.InDelta(t, 1.0, result.KeywordMatchRatio, 1e-9)
}

func TestAssessIsIdempotent(t *testing.T) {
	s := NewScorer(DefaultThresholds())
	text := buildLetter(strongOpening, 2, 30)

	first := s.Assess(text, []string{"Python", "Rust"}, "Acme")
	second := s.Assess(text, []string{"Python", "Rust"}, "Acme")
	assert.Equal(t, first, second)
}

func TestAssessBoundsAndValidity(t *testing.T) {
	s := NewScorer(DefaultThresholds())
	inputs := []string{
		"",
		"short",
		buildLetter("", 1, 500),
		buildLetter(strongOpening, 6, 60),
		buildLetter(strongOpening, 3, 80),
		strings.Repeat("Acme position team 10% 20% ", 100),
	}

	for _, text := range inputs {
		for _, keywords := range [][]string{nil, {"Python"}, {"Acme", "Rust", "team"}} {
			r := s.Assess(text, keywords, "Acme")
			for _, v := range []float64{r.Score, r.KeywordMatchRatio, r.PersonalizationScore} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
			assert.Equal(t, r.Score >= 0.7, r.IsValid)
			assert.Len(t, r.Suggestions, len(r.Issues))
		}
	}
}

func TestCustomValidityThreshold(t *testing.T) {
	th := DefaultThresholds()
	th.Validity = 0.9
	text := "Our team uses Python daily.\n\nThanks for reading."

	r := NewScorer(th).Assess(text, nil, "")
	assert.False(t, r.IsValid)

	th.Validity = 0.1
	r = NewScorer(th).Assess(text, nil, "")
	assert.True(t, r.IsValid)
}

func TestCountMetrics(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{text: "no numbers here", want: 0},
		{text: "grew revenue by 45%", want: 1},
		{text: "вырос на 45%", want: 1},
		{text: "saved $2 million in 3 years", want: 2},
		{text: "ускорил в 3 раза, 10+ проектов", want: 2},
		{text: "uptime 99.95 and 5x faster", want: 2},
		{text: "joined in 2023.", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, CountMetrics(tt.text))
		})
	}
}

func TestCountParagraphs(t *testing.T) {
	assert.Equal(t, 0, CountParagraphs("  \n\n "))
	assert.Equal(t, 3, CountParagraphs("a\n\nb\n  \nc"))
	assert.Equal(t, 1, CountParagraphs("a\nb"))
}

func TestPersonalizationScore(t *testing.T) {
	assert.InDelta(t, 0.5, PersonalizationScore("Hello ACME", "Acme"), 1e-9)
	assert.InDelta(t, 0.3, PersonalizationScore("This role", ""), 1e-9)
	assert.InDelta(t, 0.5, PersonalizationScore("Эта вакансия, наша команда", ""), 1e-9)
	assert.InDelta(t, 0.0, PersonalizationScore("Hello", "  "), 1e-9)
}

func TestCountKeywordHits(t *testing.T) {
	assert.Equal(t, 2, CountKeywordHits("Python and DJANGO", []string{"python", "Django", "Go lang", ""}))
}
