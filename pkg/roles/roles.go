// Package roles holds the fixed catalog of writing personas and the policy
// that picks one for a job analysis.
package roles

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ID identifies a persona. Only the constants below are valid.
type ID string

const (
	CorporateRecruiter   ID = "corporate_recruiter"
	StorytellingCoach    ID = "storytelling_coach"
	ATSSpecialist        ID = "ats_specialist"
	HiringManagerPeer    ID = "hiring_manager_peer"
	IndustrySME          ID = "industry_sme"
	GrowthMindsetCoach   ID = "growth_mindset_coach"
	PersuasiveCopywriter ID = "persuasive_copywriter"
)

// IndustryPlaceholder is replaced with the analysed industry in persona templates.
const IndustryPlaceholder = "{INDUSTRY}"

// AllIDs lists every persona in catalog order.
func AllIDs() (ids []ID) {
	ids = []ID{
		CorporateRecruiter,
		StorytellingCoach,
		ATSSpecialist,
		HiringManagerPeer,
		IndustrySME,
		GrowthMindsetCoach,
		PersuasiveCopywriter,
	}
	return ids
}

// ParseID validates a persona identifier.
func ParseID(s string) (id ID, err error) {
	candidate := ID(strings.TrimSpace(s))
	for _, known := range AllIDs() {
		if candidate == known {
			id = known
			return id, err
		}
	}
	err = &ConfigurationError{ID: candidate, Reason: "unknown role"}
	return id, err
}

// Definition is one immutable persona record.
type Definition struct {
	ID          ID       `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Template    string   `json:"template"`
	Temperature float64  `json:"temperature"`
	BestFor     []string `json:"best_for"`
}

// ConfigurationError reports a catalog lookup or construction problem. It
// signals a programming or configuration defect, not a per-request failure.
type ConfigurationError struct {
	ID     ID
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("role %q: %s", e.ID, e.Reason)
}

// Catalog is a read-only set of persona definitions.
type Catalog struct {
	defs map[ID]Definition
}

// NewCatalog validates defs and builds a catalog. Every known ID must be
// present exactly once with a temperature in [0,1] and a non-empty template.
func NewCatalog(defs []Definition) (catalog *Catalog, err error) {
	byID := make(map[ID]Definition, len(defs))

	for _, def := range defs {
		if _, err = ParseID(string(def.ID)); err != nil {
			return catalog, err
		}
		if _, dup := byID[def.ID]; dup {
			err = &ConfigurationError{ID: def.ID, Reason: "defined more than once"}
			return catalog, err
		}
		if def.Temperature < 0 || def.Temperature > 1 {
			err = &ConfigurationError{ID: def.ID, Reason: fmt.Sprintf("temperature %.2f outside [0,1]", def.Temperature)}
			return catalog, err
		}
		if strings.TrimSpace(def.Template) == "" {
			err = &ConfigurationError{ID: def.ID, Reason: "empty template"}
			return catalog, err
		}
		byID[def.ID] = def
	}

	for _, id := range AllIDs() {
		if _, ok := byID[id]; !ok {
			err = &ConfigurationError{ID: id, Reason: "missing from catalog"}
			return catalog, err
		}
	}

	catalog = &Catalog{defs: byID}
	return catalog, err
}

// Default returns the built-in catalog.
func Default() (catalog *Catalog) {
	catalog, err := NewCatalog(builtinDefinitions())
	if err != nil {
		panic(errors.Wrap(err, "built-in role catalog is invalid"))
	}
	return catalog
}

// Get returns the definition for id.
func (c *Catalog) Get(id ID) (def Definition, err error) {
	def, ok := c.defs[id]
	if !ok {
		err = &ConfigurationError{ID: id, Reason: "not in catalog"}
	}
	return def, err
}

// GetPrompt returns the raw persona template for id.
func (c *Catalog) GetPrompt(id ID) (prompt string, err error) {
	def, err := c.Get(id)
	prompt = def.Template
	return prompt, err
}

// GetTemperature returns the sampling temperature for id.
func (c *Catalog) GetTemperature(id ID) (temperature float64, err error) {
	def, err := c.Get(id)
	temperature = def.Temperature
	return temperature, err
}

// GetLabel returns the human readable name for id.
func (c *Catalog) GetLabel(id ID) (label string, err error) {
	def, err := c.Get(id)
	label = def.Label
	return label, err
}

// Definitions returns all definitions in catalog order.
func (c *Catalog) Definitions() (defs []Definition) {
	for _, id := range AllIDs() {
		defs = append(defs, c.defs[id])
	}
	return defs
}
