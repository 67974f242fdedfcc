package roles

import (
	"strings"

	"github.com/ivan-hilckov/lucidum/pkg/analyzer"
)

// Policy chooses how personas are selected.
type Policy string

const (
	// PolicyRuleBased applies the ordered selection rules.
	PolicyRuleBased Policy = "rule_based"
	// PolicySimple always selects the corporate recruiter.
	PolicySimple Policy = "simple"
)

// ParsePolicy validates a policy name. Empty selects PolicyRuleBased.
func ParsePolicy(s string) (policy Policy, err error) {
	switch Policy(strings.TrimSpace(s)) {
	case "", PolicyRuleBased:
		policy = PolicyRuleBased
	case PolicySimple:
		policy = PolicySimple
	default:
		err = &ConfigurationError{ID: ID(s), Reason: "unknown role selection policy"}
	}
	return policy, err
}

//nolint:gochecknoglobals // fixed keyword table
var salesIndustryTerms = []string{"sales", "marketing", "продаж"}

// Select picks the persona for an analysis. Rules are evaluated in order
// and the first match wins; the result is always a catalog member.
func Select(policy Policy, analysis analyzer.JobAnalysis) (id ID) {
	if policy == PolicySimple {
		id = CorporateRecruiter
		return id
	}

	industry := strings.ToLower(analysis.Industry)

	switch {
	case analysis.SeniorityLevel == analyzer.SeniorityJunior:
		id = GrowthMindsetCoach
	case analysis.IsTechnicalRole:
		id = IndustrySME
	case analysis.IsCreativeRole:
		id = StorytellingCoach
	case industry != "" && containsAny(industry, salesIndustryTerms):
		id = PersuasiveCopywriter
	case analysis.CompanySize == analyzer.SizeLarge || analysis.CompanySize == analyzer.SizeEnterprise:
		id = ATSSpecialist
	case analysis.CompanySize == analyzer.SizeStartup || analysis.CompanySize == analyzer.SizeSmall:
		id = HiringManagerPeer
	case analysis.CompanyCulture == analyzer.CultureCreative || analysis.CompanyCulture == analyzer.CultureMissionDriven:
		id = StorytellingCoach
	default:
		id = CorporateRecruiter
	}

	return id
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
