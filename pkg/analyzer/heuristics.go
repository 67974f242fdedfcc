package analyzer

import (
	"regexp"
	"strings"
)

// companyLines is how many leading lines of a posting are scanned for a company name.
const companyLines = 5

//nolint:gochecknoglobals // fixed keyword tables
var (
	technicalTerms = []string{
		"developer", "engineer", "programmer", "architect", "devops",
		"python", "java", "javascript", "sql", "api", "database", "git",
		"coding", "software", "technical", "разработчик",
	}

	creativeTerms = []string{
		"designer", "creative", "artist", "content", "marketing", "brand",
		"visual", "graphic", "ui/ux", "ui designer", "ux designer", "креативный",
	}

	seniorityGroups = []struct {
		level Seniority
		terms []string
	}{
		{level: SenioritySenior, terms: []string{"senior", "lead", "principal", "ведущий", "старший"}},
		{level: SeniorityJunior, terms: []string{"junior", "entry", "начинающий", "младший"}},
		{level: SeniorityMiddle, terms: []string{"middle", "mid", "средний"}},
	}

	companyLabelRe  = regexp.MustCompile(`(?i)^\s*(?:company|employer|компания|работодатель)\s*:\s*(.+?)\s*$`)
	companyRuEntity = regexp.MustCompile(`(?:^|\s)((?:ООО|ОАО|ЗАО|ПАО|АО)\s+(?:«[^»\n]+»|"[^"\n]+"|[^\s,.;]+))`)
	companyEnEntity = regexp.MustCompile(`\b([A-Z][A-Za-z0-9&\-]*(?:\s+[A-Z][A-Za-z0-9&\-]*){0,3}\s+(?:Inc\.|Inc|LLC|Ltd\.|Ltd|Corp\.|Corp|GmbH))(?:\W|$)`)

	// companyLeadIns are capitalized words that open a sentence before an
	// entity name, as in "About Acme Corp." or "Join Our Team at Initech LLC".
	companyLeadIns = map[string]bool{
		"about": true, "at": true, "join": true, "our": true, "for": true,
		"with": true, "by": true, "from": true, "welcome": true, "to": true,
		"hiring": true, "we": true, "meet": true, "why": true,
	}

	knownTechnologies = regexp.MustCompile(`(?i)\b(JavaScript|TypeScript|Java|Python|React|Angular|Vue|Django|Flask|FastAPI|` +
		`PostgreSQL|MySQL|MongoDB|Redis|SQL|GraphQL|Kafka|AWS|Azure|GCP|Docker|Kubernetes|Terraform|` +
		`Git|CI/CD|DevOps|Agile|Scrum)\b`)

	technologyNames = map[string]string{
		"javascript": "JavaScript", "typescript": "TypeScript", "java": "Java", "python": "Python",
		"react": "React", "angular": "Angular", "vue": "Vue", "django": "Django", "flask": "Flask",
		"fastapi": "FastAPI", "postgresql": "PostgreSQL", "mysql": "MySQL", "mongodb": "MongoDB",
		"redis": "Redis", "sql": "SQL", "graphql": "GraphQL", "kafka": "Kafka", "aws": "AWS",
		"azure": "Azure", "gcp": "GCP", "docker": "Docker", "kubernetes": "Kubernetes",
		"terraform": "Terraform", "git": "Git", "ci/cd": "CI/CD", "devops": "DevOps",
		"agile": "Agile", "scrum": "Scrum",
	}
)

func containsAny(text string, terms []string) (found bool) {
	for _, term := range terms {
		if strings.Contains(text, term) {
			found = true
			return found
		}
	}
	return found
}

// IsTechnicalRole reports whether the posting mentions any technical term.
func IsTechnicalRole(jobDescription string) (technical bool) {
	technical = containsAny(strings.ToLower(jobDescription), technicalTerms)
	return technical
}

// IsCreativeRole reports whether the posting mentions any creative term.
func IsCreativeRole(jobDescription string) (creative bool) {
	creative = containsAny(strings.ToLower(jobDescription), creativeTerms)
	return creative
}

// DetectSeniority checks senior, junior and middle terms in that order and
// returns the first group that matches.
func DetectSeniority(jobDescription string) (level Seniority) {
	text := strings.ToLower(jobDescription)
	for _, group := range seniorityGroups {
		if containsAny(text, group.terms) {
			level = group.level
			return level
		}
	}
	level = SeniorityUnknown
	return level
}

// ExtractCompanyName looks for a "Company: X" label or a legal entity name
// in the first lines of the posting. It returns "" when nothing matches.
func ExtractCompanyName(jobDescription string) (name string) {
	lines := strings.Split(jobDescription, "\n")
	if len(lines) > companyLines {
		lines = lines[:companyLines]
	}

	for _, line := range lines {
		if m := companyLabelRe.FindStringSubmatch(line); m != nil {
			name = strings.TrimSpace(m[1])
			return name
		}
		if m := companyRuEntity.FindStringSubmatch(line); m != nil {
			name = strings.TrimSpace(m[1])
			return name
		}
		if m := companyEnEntity.FindStringSubmatch(line); m != nil {
			name = trimLeadIns(m[1])
			return name
		}
	}

	return name
}

// trimLeadIns drops leading sentence words from an entity match, keeping
// at least the legal suffix and one name token.
func trimLeadIns(match string) (name string) {
	fields := strings.Fields(match)
	for len(fields) > 2 && companyLeadIns[strings.ToLower(fields[0])] {
		fields = fields[1:]
	}
	name = strings.Join(fields, " ")
	return name
}

// ExtractKeywordsRegex scans for well known technology names. Results keep
// the order of first appearance, use canonical spelling and are capped.
func ExtractKeywordsRegex(jobDescription string) (keywords []string) {
	keywords = []string{}
	seen := make(map[string]bool)

	for _, match := range knownTechnologies.FindAllString(jobDescription, -1) {
		key := strings.ToLower(match)
		if seen[key] {
			continue
		}
		seen[key] = true

		name, ok := technologyNames[key]
		if !ok {
			name = match
		}
		keywords = append(keywords, name)
		if len(keywords) == MaxRegexKeywords {
			break
		}
	}

	return keywords
}

// ParseKeywords turns a comma separated model reply into a clean keyword
// list: trimmed, longer than two characters, deduplicated and capped.
func ParseKeywords(reply string) (keywords []string) {
	keywords = []string{}
	seen := make(map[string]bool)

	cleaned := strings.NewReplacer("\n", ",", ";", ",").Replace(reply)
	for _, raw := range strings.Split(cleaned, ",") {
		kw := strings.Trim(strings.TrimSpace(raw), `"'*-•.`)
		kw = strings.TrimSpace(kw)
		if len([]rune(kw)) <= 2 {
			continue
		}
		key := strings.ToLower(kw)
		if seen[key] {
			continue
		}
		seen[key] = true
		keywords = append(keywords, kw)
		if len(keywords) == MaxKeywords {
			break
		}
	}

	return keywords
}
