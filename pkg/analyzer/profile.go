package analyzer

import (
	"context"
	"strings"

	"github.com/ivan-hilckov/lucidum/pkg/llm"
	"github.com/tidwall/gjson"
)

const profilePrompt = `Analyze the job description and describe the hiring company.

Return a JSON object with the fields:
- "name": company name, if mentioned
- "size": one of startup, small, medium, large, enterprise
- "culture": one of formal, casual, creative, technical, mission_driven
- "industry": the industry

Use null when the information is unclear. Return JSON only.

Job description:
`

const requirementsPrompt = `Analyze the job description and extract the requirements.

Return a JSON object with the fields:
- "hard_skills": list of technical skills
- "soft_skills": list of soft skills
- "experience_years": years of experience (number or null)
- "education_level": education level
- "certifications": list of certifications

Return JSON only.

Job description:
`

type companyProfile struct {
	Name     string
	Size     CompanySize
	Culture  CompanyCulture
	Industry string
}

func (a *Analyzer) extractProfile(ctx context.Context, jobDescription string) (profile companyProfile) {
	if a.gen == nil {
		return profile
	}

	prompt := profilePrompt + llm.TruncateRunes(jobDescription, ProfilePreviewChars)
	reply, err := a.ask(ctx, prompt, a.tokens(profileMaxTokens))
	if err != nil {
		a.logger.Warn("company profile extraction failed", "error", err)
		return profile
	}

	profile = parseProfile(reply)
	return profile
}

// parseProfile reads the company profile JSON leniently. Unknown enum values
// and malformed replies leave the corresponding fields empty.
func parseProfile(reply string) (profile companyProfile) {
	raw := extractJSONObject(reply)
	if !gjson.Valid(raw) {
		return profile
	}

	result := gjson.Parse(raw)
	profile.Name = stringField(result, "name")
	profile.Industry = stringField(result, "industry")

	if size, ok := validSize(strings.ToLower(stringField(result, "size"))); ok {
		profile.Size = size
	}
	culture := strings.ReplaceAll(strings.ToLower(stringField(result, "culture")), "-", "_")
	if c, ok := validCulture(culture); ok {
		profile.Culture = c
	}

	return profile
}

func (a *Analyzer) extractRequirements(ctx context.Context, jobDescription string) (reqs Requirements) {
	reqs = emptyRequirements()
	if a.gen == nil {
		return reqs
	}

	prompt := requirementsPrompt + llm.TruncateRunes(jobDescription, RequirementsPreviewChars)
	reply, err := a.ask(ctx, prompt, a.tokens(requirementsMaxTokens))
	if err != nil {
		a.logger.Warn("requirements extraction failed", "error", err)
		return reqs
	}

	reqs = parseRequirements(reply)
	return reqs
}

func parseRequirements(reply string) (reqs Requirements) {
	reqs = emptyRequirements()

	raw := extractJSONObject(reply)
	if !gjson.Valid(raw) {
		return reqs
	}

	result := gjson.Parse(raw)
	reqs.HardSkills = stringList(result.Get("hard_skills"))
	reqs.SoftSkills = stringList(result.Get("soft_skills"))
	reqs.Certifications = stringList(result.Get("certifications"))
	reqs.EducationLevel = stringField(result, "education_level")

	if years := result.Get("experience_years"); years.Type == gjson.Number && years.Int() >= 0 {
		n := int(years.Int())
		reqs.ExperienceYears = &n
	}

	return reqs
}

// extractJSONObject trims code fences and any prose around the outermost
// JSON object in a model reply.
func extractJSONObject(reply string) (raw string) {
	raw = llm.StripCodeFences(reply)
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		raw = raw[start : end+1]
	}
	return raw
}

func stringField(result gjson.Result, path string) (value string) {
	field := result.Get(path)
	if field.Type == gjson.String {
		value = strings.TrimSpace(field.String())
	}
	return value
}

func stringList(result gjson.Result) (values []string) {
	values = []string{}
	if !result.IsArray() {
		return values
	}
	for _, item := range result.Array() {
		if item.Type != gjson.String {
			continue
		}
		if v := strings.TrimSpace(item.String()); v != "" {
			values = append(values, v)
		}
	}
	return values
}
