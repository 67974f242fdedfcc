package analyzer

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ivan-hilckov/lucidum/pkg/llm"
	"github.com/ivan-hilckov/lucidum/pkg/logging"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seniorPython = `Acme Analytics Inc. is hiring
Senior Python Developer
We need Django, PostgreSQL and Kubernetes experience.`

// scriptedGenerator answers by prompt kind so concurrent calls stay deterministic.
func scriptedGenerator(keywords, profile, requirements string, calls *int32) llm.Generator {
	return llm.GeneratorFunc(func(_ context.Context, req llm.Request) (string, error) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		prompt := req.Messages[len(req.Messages)-1].Content
		switch {
		case strings.Contains(prompt, "describe the hiring company"):
			return profile, nil
		case strings.Contains(prompt, "extract the requirements"):
			return requirements, nil
		default:
			return keywords, nil
		}
	})
}

func failingGenerator(calls *int32) llm.Generator {
	return llm.GeneratorFunc(func(_ context.Context, _ llm.Request) (string, error) {
		atomic.AddInt32(calls, 1)
		return "", &llm.ServiceError{Provider: "test", Message: "connection refused", Cause: errors.New("dial tcp")}
	})
}

func TestAnalyzeWithService(t *testing.T) {
	gen := scriptedGenerator(
		"Python, Django, PostgreSQL, Kubernetes, Go, python",
		"```json\n{\"name\": \"Acme\", \"size\": \"Startup\", \"culture\": \"mission-driven\", \"industry\": \"fintech\"}\n```",
		`{"hard_skills": ["Python", "Django"], "soft_skills": ["communication"], "experience_years": 5, "education_level": null, "certifications": []}`,
		nil,
	)
	a := New(gen, Config{Model: "test-model"}, logging.NewTest(t))

	analysis := a.Analyze(context.Background(), seniorPython, Options{})

	assert.Equal(t, []string{"Python", "Django", "PostgreSQL", "Kubernetes"}, analysis.Keywords)
	assert.Equal(t, KeywordSourceLLM, analysis.KeywordSource)
	assert.Equal(t, "Acme Analytics Inc.", analysis.CompanyName)
	assert.Equal(t, SizeStartup, analysis.CompanySize)
	assert.Equal(t, CultureMissionDriven, analysis.CompanyCulture)
	assert.Equal(t, "fintech", analysis.Industry)
	assert.Equal(t, SenioritySenior, analysis.SeniorityLevel)
	assert.True(t, analysis.IsTechnicalRole)
	assert.Equal(t, []string{"Python", "Django"}, analysis.Requirements.HardSkills)
	require.NotNil(t, analysis.Requirements.ExperienceYears)
	assert.Equal(t, 5, *analysis.Requirements.ExperienceYears)
	assert.Empty(t, analysis.Requirements.EducationLevel)
}

func TestAnalyzeFallsBackToRegex(t *testing.T) {
	var calls int32
	a := New(failingGenerator(&calls), Config{}, logging.NewTest(t))

	analysis := a.Analyze(context.Background(), seniorPython, Options{})

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, KeywordSourceRegex, analysis.KeywordSource)
	assert.Contains(t, analysis.Keywords, "Python")
	assert.Contains(t, analysis.Keywords, "Django")
	assert.Empty(t, analysis.CompanySize)
	assert.Empty(t, analysis.Requirements.HardSkills)
}

func TestAnalyzeUnusableKeywordReply(t *testing.T) {
	gen := scriptedGenerator("a, b, ,", "not json", "not json", nil)
	a := New(gen, Config{}, nil)

	analysis := a.Analyze(context.Background(), seniorPython, Options{})

	assert.Equal(t, KeywordSourceRegex, analysis.KeywordSource)
	assert.Equal(t, []string{"Python", "Django", "PostgreSQL", "Kubernetes"}, analysis.Keywords)
}

func TestAnalyzeEmptyDescription(t *testing.T) {
	var calls int32
	a := New(failingGenerator(&calls), Config{}, logging.NewTest(t))

	analysis := a.Analyze(context.Background(), "", Options{})

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.NotNil(t, analysis.Keywords)
	assert.Empty(t, analysis.Keywords)
	assert.Empty(t, analysis.CompanyName)
	assert.False(t, analysis.IsTechnicalRole)
	assert.False(t, analysis.IsCreativeRole)
	assert.Equal(t, SeniorityUnknown, analysis.SeniorityLevel)
}

func TestAnalyzeKeywordPromptOverride(t *testing.T) {
	var seen string
	gen := llm.GeneratorFunc(func(_ context.Context, req llm.Request) (string, error) {
		prompt := req.Messages[0].Content
		if strings.HasPrefix(prompt, "CUSTOM") {
			seen = prompt
			assert.InDelta(t, 0.1, req.Temperature, 1e-9)
		}
		return "Python, Django", nil
	})
	a := New(gen, Config{}, nil)

	a.Analyze(context.Background(), seniorPython, Options{KeywordPrompt: "CUSTOM {job_description}"})

	assert.Equal(t, "CUSTOM "+seniorPython, seen)
}

func TestKeywordPromptTruncates(t *testing.T) {
	long := strings.Repeat("я", KeywordPreviewChars+500)
	prompt := KeywordPrompt("", long)

	assert.True(t, strings.HasPrefix(prompt, "Extract 8-15 key skills"))
	assert.Equal(t, KeywordPreviewChars, strings.Count(prompt, "я"))
}

func TestAnalyzeLongDescription(t *testing.T) {
	head := "Acme Analytics Inc.\nData analyst\n" + strings.Repeat("Reporting and dashboards for finance. ", 60)
	tail := "\nThis is a junior position working with Python and SQL."
	jd := head + tail
	require.Greater(t, len([]rune(head)), KeywordPreviewChars)

	var mu sync.Mutex
	var prompts []string
	gen := llm.GeneratorFunc(func(_ context.Context, req llm.Request) (string, error) {
		mu.Lock()
		prompts = append(prompts, req.Messages[0].Content)
		mu.Unlock()
		return "", &llm.ServiceError{Provider: "test", Message: "unavailable"}
	})
	a := New(gen, Config{}, logging.NewTest(t))

	analysis := a.Analyze(context.Background(), jd, Options{})

	assert.Equal(t, SeniorityJunior, analysis.SeniorityLevel)
	assert.True(t, analysis.IsTechnicalRole)
	assert.Contains(t, analysis.Keywords, "Python")
	assert.Contains(t, analysis.Keywords, "SQL")

	require.Len(t, prompts, 3)
	for _, prompt := range prompts {
		assert.NotContains(t, prompt, "junior")
		assert.NotContains(t, prompt, "Python")
	}
}

func TestAnalyzeRecoversFromPanics(t *testing.T) {
	gen := llm.GeneratorFunc(func(_ context.Context, _ llm.Request) (string, error) {
		var counts map[string]int
		counts["calls"]++
		return "Python", nil
	})
	a := New(gen, Config{}, logging.NewTest(t))

	var analysis JobAnalysis
	require.NotPanics(t, func() {
		analysis = a.Analyze(context.Background(), seniorPython, Options{})
	})

	assert.Equal(t, KeywordSourceRegex, analysis.KeywordSource)
	assert.Contains(t, analysis.Keywords, "Django")
	assert.Empty(t, analysis.CompanySize)
	assert.NotNil(t, analysis.Requirements.HardSkills)
	assert.Equal(t, SenioritySenior, analysis.SeniorityLevel)
}

func TestParseProfileRejectsUnknownValues(t *testing.T) {
	profile := parseProfile(`Here you go: {"size": "huge", "culture": "chaotic", "industry": null}`)
	assert.Empty(t, profile.Size)
	assert.Empty(t, profile.Culture)
	assert.Empty(t, profile.Industry)
}
