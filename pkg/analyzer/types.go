package analyzer

// Seniority is the experience level a posting targets.
type Seniority string

const (
	SeniorityJunior  Seniority = "junior"
	SeniorityMiddle  Seniority = "middle"
	SenioritySenior  Seniority = "senior"
	SeniorityUnknown Seniority = "unknown"
)

// CompanySize is the employer size class reported by profile extraction.
type CompanySize string

const (
	SizeStartup    CompanySize = "startup"
	SizeSmall      CompanySize = "small"
	SizeMedium     CompanySize = "medium"
	SizeLarge      CompanySize = "large"
	SizeEnterprise CompanySize = "enterprise"
)

// CompanyCulture is the dominant workplace culture reported by profile extraction.
type CompanyCulture string

const (
	CultureFormal        CompanyCulture = "formal"
	CultureCasual        CompanyCulture = "casual"
	CultureCreative      CompanyCulture = "creative"
	CultureTechnical     CompanyCulture = "technical"
	CultureMissionDriven CompanyCulture = "mission_driven"
)

// KeywordSource records how the keyword list was obtained.
type KeywordSource string

const (
	KeywordSourceLLM   KeywordSource = "llm"
	KeywordSourceRegex KeywordSource = "regex"
	KeywordSourceNone  KeywordSource = "none"
)

// MaxKeywords caps the keyword list on every extraction path.
const MaxKeywords = 15

// MaxRegexKeywords caps the keyword list produced by the regex fallback.
const MaxRegexKeywords = 8

// Requirements is the structured skill and experience breakdown of a posting.
type Requirements struct {
	HardSkills      []string `json:"hard_skills"`
	SoftSkills      []string `json:"soft_skills"`
	ExperienceYears *int     `json:"experience_years,omitempty"`
	EducationLevel  string   `json:"education_level,omitempty"`
	Certifications  []string `json:"certifications"`
}

// JobAnalysis is everything extracted from one job description.
type JobAnalysis struct {
	Keywords        []string       `json:"keywords"`
	KeywordSource   KeywordSource  `json:"keyword_source"`
	CompanyName     string         `json:"company_name,omitempty"`
	CompanySize     CompanySize    `json:"company_size,omitempty"`
	CompanyCulture  CompanyCulture `json:"company_culture,omitempty"`
	Industry        string         `json:"industry,omitempty"`
	Requirements    Requirements   `json:"requirements"`
	SeniorityLevel  Seniority      `json:"seniority_level"`
	IsTechnicalRole bool           `json:"is_technical_role"`
	IsCreativeRole  bool           `json:"is_creative_role"`
}

// HasCompany reports whether a company name is known.
func (a JobAnalysis) HasCompany() (ok bool) {
	ok = a.CompanyName != ""
	return ok
}

func validSize(s string) (size CompanySize, ok bool) {
	switch CompanySize(s) {
	case SizeStartup, SizeSmall, SizeMedium, SizeLarge, SizeEnterprise:
		size, ok = CompanySize(s), true
	}
	return size, ok
}

func validCulture(s string) (culture CompanyCulture, ok bool) {
	switch CompanyCulture(s) {
	case CultureFormal, CultureCasual, CultureCreative, CultureTechnical, CultureMissionDriven:
		culture, ok = CompanyCulture(s), true
	}
	return culture, ok
}

// Empty returns the analysis of a posting nothing could be extracted from.
func Empty() (analysis JobAnalysis) {
	analysis = JobAnalysis{
		Keywords:       []string{},
		KeywordSource:  KeywordSourceNone,
		SeniorityLevel: SeniorityUnknown,
		Requirements:   emptyRequirements(),
	}
	return analysis
}
