package prompts

import (
	"strings"
	"testing"

	"github.com/ivan-hilckov/lucidum/pkg/analyzer"
	"github.com/ivan-hilckov/lucidum/pkg/roles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSystemPrompt(t *testing.T) {
	c := NewComposer(roles.Default())

	prompt, err := c.BuildSystemPrompt(roles.CorporateRecruiter, []string{"Python", "Django"}, "", "")
	require.NoError(t, err)

	persona, err := roles.Default().GetPrompt(roles.CorporateRecruiter)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(prompt, strings.TrimSpace(persona)))
	assert.Contains(t, prompt, "ATS KEYWORDS: Python, Django")
	assert.True(t, strings.HasSuffix(prompt, QualityCriteria))
	assert.Less(t, strings.Index(prompt, "ATS KEYWORDS"), strings.Index(prompt, "QUALITY CRITERIA"))
}

func TestBuildSystemPromptWithoutKeywords(t *testing.T) {
	prompt, err := NewComposer(roles.Default()).BuildSystemPrompt(roles.StorytellingCoach, nil, "", "")
	require.NoError(t, err)
	assert.NotContains(t, prompt, "ATS KEYWORDS")
}

func TestBuildSystemPromptIndustry(t *testing.T) {
	c := NewComposer(roles.Default())

	prompt, err := c.BuildSystemPrompt(roles.IndustrySME, nil, "healthcare", "")
	require.NoError(t, err)
	assert.Contains(t, prompt, "veteran of healthcare")
	assert.NotContains(t, prompt, roles.IndustryPlaceholder)

	prompt, err = c.BuildSystemPrompt(roles.IndustrySME, nil, "", "")
	require.NoError(t, err)
	assert.Contains(t, prompt, "veteran of "+DefaultIndustry)
}

func TestBuildSystemPromptOverride(t *testing.T) {
	prompt, err := NewComposer(roles.Default()).BuildSystemPrompt(roles.CorporateRecruiter, []string{"Go"}, "", "Write like a pirate.")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(prompt, "Write like a pirate."))
	assert.NotContains(t, prompt, "corporate recruiter")
	assert.Contains(t, prompt, QualityCriteria)
}

func TestBuildSystemPromptUnknownRole(t *testing.T) {
	_, err := NewComposer(roles.Default()).BuildSystemPrompt("poet", nil, "", "")

	var cfgErr *roles.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestBuildUserPromptOrderAndOmissions(t *testing.T) {
	analysis := analyzer.JobAnalysis{
		Keywords:       []string{"Python", "Django"},
		CompanyName:    "Globex",
		Industry:       "fintech",
		CompanyCulture: analyzer.CultureCasual,
		SeniorityLevel: analyzer.SenioritySenior,
	}

	prompt := BuildUserPrompt("my resume", "the job", analysis, Context{SpecialRequirements: "mention relocation"})

	order := []string{
		"CANDIDATE RESUME:\nmy resume",
		"JOB DESCRIPTION:\nthe job",
		"COMPANY: Globex",
		"KEY SKILLS FROM THE POSTING: Python, Django",
		"- Industry: fintech",
		"- Company culture: casual",
		"- Position level: senior",
		"- Special instructions: mention relocation",
	}
	last := -1
	for _, part := range order {
		idx := strings.Index(prompt, part)
		require.GreaterOrEqual(t, idx, 0, part)
		assert.Greater(t, idx, last, part)
		last = idx
	}

	assert.NotContains(t, prompt, "Hiring manager")
	assert.NotContains(t, prompt, "Company size")
}

func TestBuildUserPromptCompanyOverride(t *testing.T) {
	analysis := analyzer.JobAnalysis{CompanyName: "Globex"}
	prompt := BuildUserPrompt("r", "j", analysis, Context{CompanyName: "Acme", HiringManager: "Dana"})

	assert.Contains(t, prompt, "COMPANY: Acme")
	assert.NotContains(t, prompt, "Globex")
	assert.Contains(t, prompt, "- Hiring manager: Dana")
}

func TestBuildUserPromptMinimal(t *testing.T) {
	prompt := BuildUserPrompt("r", "j", analyzer.JobAnalysis{SeniorityLevel: analyzer.SeniorityUnknown}, Context{})
	assert.Equal(t, "CANDIDATE RESUME:\nr\n\nJOB DESCRIPTION:\nj", prompt)
}

func TestBuildImprovementPrompt(t *testing.T) {
	prompt := BuildImprovementPrompt("SYSTEM", []string{"too short"}, []string{"add detail"})

	assert.True(t, strings.HasPrefix(prompt, "SYSTEM\n"))
	assert.Contains(t, prompt, "- too short")
	assert.Contains(t, prompt, "- add detail")

	empty := BuildImprovementPrompt("SYSTEM", nil, nil)
	assert.Contains(t, empty, "- none")
}

func TestBuildFallbackUserPrompt(t *testing.T) {
	assert.Equal(t, "RESUME:\nr\n\nJOB DESCRIPTION:\nj", BuildFallbackUserPrompt("r", "j"))
}
