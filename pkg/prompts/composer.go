// Package prompts assembles the system and user prompts sent for letter
// generation, repair and fallback.
package prompts

import (
	"fmt"
	"strings"

	"github.com/ivan-hilckov/lucidum/pkg/analyzer"
	"github.com/ivan-hilckov/lucidum/pkg/roles"
)

// QualityCriteria is appended to every persona prompt.
const QualityCriteria = `QUALITY CRITERIA:
- Length: 250-400 words
- Structure: introduction, body with achievements, cultural fit, closing; 3-5 paragraphs separated by blank lines
- Personalization: mention the company and the specific position
- Metrics: at least 2 quantified achievements taken from the resume
- Tone: professional and confident, never aggressive
- Language: write in the language of the job description

AVOID:
- Repeating the resume line by line
- Generic phrases such as "team player"
- Salary expectations
- Negative remarks about previous employers

SELF-CHECK BEFORE ANSWERING:
- Is the company name correct?
- Are there concrete metrics?
- Are the keywords used?
- Does the length meet the requirement?

Output only the letter text.`

// FallbackSystemPrompt is the fixed, persona-free prompt used when the main
// pipeline fails.
const FallbackSystemPrompt = `You are a professional cover letter writer.
Write a concise, relevant cover letter in the language of the job description.
Rely strictly on the real experience and skills from the resume.

Length: 250-400 words
Structure: introduction, body with achievements, closing
Include at least 2 quantified results

Output only the letter text.`

// DefaultIndustry fills the industry placeholder when analysis found none.
const DefaultIndustry = "the employer's industry"

// Context carries caller supplied details for the user prompt.
type Context struct {
	CompanyName         string
	HiringManager       string
	SpecialRequirements string
}

// Composer builds prompts from the role catalog. It holds no per-call state.
type Composer struct {
	catalog *roles.Catalog
}

// NewComposer creates a Composer over catalog.
func NewComposer(catalog *roles.Catalog) (c *Composer) {
	c = &Composer{catalog: catalog}
	return c
}

// BuildSystemPrompt renders the persona template for role, adds the keyword
// line when keywords are present and appends QualityCriteria. A non-empty
// override replaces the persona template.
func (c *Composer) BuildSystemPrompt(role roles.ID, keywords []string, industry, override string) (prompt string, err error) {
	persona := override
	if strings.TrimSpace(persona) == "" {
		persona, err = c.catalog.GetPrompt(role)
		if err != nil {
			return prompt, err
		}
	}

	if strings.TrimSpace(industry) == "" {
		industry = DefaultIndustry
	}
	persona = strings.ReplaceAll(persona, roles.IndustryPlaceholder, industry)

	var b strings.Builder
	b.WriteString(strings.TrimSpace(persona))
	if len(keywords) > 0 {
		fmt.Fprintf(&b, "\n\nATS KEYWORDS: %s", strings.Join(keywords, ", "))
	}
	b.WriteString("\n\n")
	b.WriteString(QualityCriteria)

	prompt = b.String()
	return prompt, err
}

// BuildUserPrompt lays out labeled sections in a fixed order. Optional
// sections are omitted when empty; resume and job description are always
// included verbatim.
func BuildUserPrompt(resume, jobDescription string, analysis analyzer.JobAnalysis, ctx Context) (prompt string) {
	sections := []string{
		"CANDIDATE RESUME:\n" + resume,
		"JOB DESCRIPTION:\n" + jobDescription,
	}

	company := strings.TrimSpace(ctx.CompanyName)
	if company == "" {
		company = analysis.CompanyName
	}
	if company != "" {
		sections = append(sections, "COMPANY: "+company)
	}

	if len(analysis.Keywords) > 0 {
		sections = append(sections, "KEY SKILLS FROM THE POSTING: "+strings.Join(analysis.Keywords, ", "))
	}

	var hints []string
	if analysis.Industry != "" {
		hints = append(hints, "- Industry: "+analysis.Industry)
	}
	if analysis.CompanyCulture != "" {
		hints = append(hints, "- Company culture: "+string(analysis.CompanyCulture))
	}
	if analysis.CompanySize != "" {
		hints = append(hints, "- Company size: "+string(analysis.CompanySize))
	}
	if analysis.SeniorityLevel != "" && analysis.SeniorityLevel != analyzer.SeniorityUnknown {
		hints = append(hints, "- Position level: "+string(analysis.SeniorityLevel))
	}
	if len(hints) > 0 {
		sections = append(sections, "ROLE CONTEXT:\n"+strings.Join(hints, "\n"))
	}

	var extra []string
	if hm := strings.TrimSpace(ctx.HiringManager); hm != "" {
		extra = append(extra, "- Hiring manager: "+hm)
	}
	if sr := strings.TrimSpace(ctx.SpecialRequirements); sr != "" {
		extra = append(extra, "- Special instructions: "+sr)
	}
	if len(extra) > 0 {
		sections = append(sections, "ADDITIONAL CONTEXT:\n"+strings.Join(extra, "\n"))
	}

	prompt = strings.Join(sections, "\n\n")
	return prompt
}

// BuildImprovementPrompt extends the original system prompt with the
// defects and suggestions of the previous attempt.
func BuildImprovementPrompt(systemPrompt string, issues, suggestions []string) (prompt string) {
	prompt = fmt.Sprintf(`%s

IMPORTANT: the previous version had these problems:
%s

Suggestions for improvement:
%s

Write an improved version that fixes these problems.`,
		systemPrompt, bulletList(issues), bulletList(suggestions))
	return prompt
}

// BuildFallbackUserPrompt is the minimal user prompt for the fallback path.
func BuildFallbackUserPrompt(resume, jobDescription string) (prompt string) {
	prompt = fmt.Sprintf("RESUME:\n%s\n\nJOB DESCRIPTION:\n%s", resume, jobDescription)
	return prompt
}

func bulletList(items []string) (list string) {
	if len(items) == 0 {
		list = "- none"
		return list
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	list = strings.Join(lines, "\n")
	return list
}
