package scorer

import (
	"context"
	"strings"

	"github.com/ivan-hilckov/lucidum/pkg/llm"
	"github.com/tidwall/gjson"
)

const reviewPrompt = `Rate the quality of the cover letter against these criteria:

1. Structure (introduction, body, closing)
2. Personalization (mentions the company and position)
3. Concrete achievements with metrics
4. Professional tone
5. No cliches or platitudes
6. A call to action

Return a JSON object with the fields:
- "score": overall score from 1 to 10
- "strengths": list of strengths
- "weaknesses": list of weaknesses
- "recommendations": list of recommendations

Return JSON only.

Cover letter:
`

const (
	reviewTemperature = 0.1
	reviewMaxTokens   = 500
	neutralScore      = 7
)

// Review is a qualitative model assessment. It never affects ValidationResult.
type Review struct {
	Score           int      `json:"score"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`
	// Automatic is false when the review is the neutral placeholder.
	Automatic bool `json:"automatic"`
}

// Summary renders the review on one line.
func (r Review) Summary() (s string) {
	var parts []string
	if len(r.Strengths) > 0 {
		parts = append(parts, "strengths: "+strings.Join(r.Strengths, "; "))
	}
	if len(r.Weaknesses) > 0 {
		parts = append(parts, "weaknesses: "+strings.Join(r.Weaknesses, "; "))
	}
	s = strings.Join(parts, " | ")
	return s
}

// NeutralReview is returned whenever the model review is unavailable.
func NeutralReview() (r Review) {
	r = Review{
		Score:           neutralScore,
		Strengths:       []string{"Basic structure is present"},
		Weaknesses:      []string{"Automatic review unavailable"},
		Recommendations: []string{"Check the letter manually against the quality criteria"},
	}
	return r
}

// Reviewer asks the text generation service for a qualitative review.
type Reviewer struct {
	gen       llm.Generator
	model     string
	maxTokens int
}

// NewReviewer creates a Reviewer. maxTokens <= 0 uses the default limit.
func NewReviewer(gen llm.Generator, model string, maxTokens int) (r *Reviewer) {
	if maxTokens <= 0 {
		maxTokens = reviewMaxTokens
	}
	r = &Reviewer{gen: gen, model: model, maxTokens: maxTokens}
	return r
}

// Review never fails; any service or parse problem yields NeutralReview.
func (r *Reviewer) Review(ctx context.Context, letter string) (review Review) {
	reply, err := r.gen.Generate(ctx, llm.Request{
		Model:       r.model,
		Messages:    []llm.Message{llm.User(reviewPrompt + letter)},
		MaxTokens:   r.maxTokens,
		Temperature: reviewTemperature,
	})
	if err != nil {
		review = NeutralReview()
		return review
	}

	review = parseReview(reply)
	return review
}

func parseReview(reply string) (review Review) {
	raw := llm.StripCodeFences(reply)
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		raw = raw[start : end+1]
	}

	score := gjson.Get(raw, "score")
	if !gjson.Valid(raw) || score.Type != gjson.Number {
		review = NeutralReview()
		return review
	}

	review.Score = int(score.Int())
	if review.Score < 1 {
		review.Score = 1
	}
	if review.Score > 10 {
		review.Score = 10
	}
	review.Strengths = stringList(gjson.Get(raw, "strengths"))
	review.Weaknesses = stringList(gjson.Get(raw, "weaknesses"))
	review.Recommendations = stringList(gjson.Get(raw, "recommendations"))
	review.Automatic = true

	return review
}

func stringList(result gjson.Result) (values []string) {
	values = []string{}
	if result.Type == gjson.String {
		values = append(values, result.String())
		return values
	}
	for _, item := range result.Array() {
		if v := strings.TrimSpace(item.String()); v != "" {
			values = append(values, v)
		}
	}
	return values
}
