package generator

import (
	"time"

	"github.com/ivan-hilckov/lucidum/pkg/roles"
	"github.com/ivan-hilckov/lucidum/pkg/scorer"
	"github.com/pkg/errors"
)

// ValidationDepth selects whether the model review runs after scoring.
type ValidationDepth string

const (
	DepthBasic ValidationDepth = "basic"
	DepthFull  ValidationDepth = "full"
)

// ParseDepth validates a depth name. Empty selects DepthBasic.
func ParseDepth(s string) (depth ValidationDepth, err error) {
	switch ValidationDepth(s) {
	case "", DepthBasic:
		depth = DepthBasic
	case DepthFull:
		depth = DepthFull
	default:
		err = errors.Errorf("unknown validation depth %q", s)
	}
	return depth, err
}

// Config holds the pipeline constants. Zero values are not meaningful; start
// from DefaultConfig.
type Config struct {
	Model               string
	ExtractionModel     string
	LetterMaxTokens     int
	FallbackMaxTokens   int
	ExtractionMaxTokens int
	ReviewMaxTokens     int
	FallbackTemperature float64
	CallTimeout         time.Duration
	RepairThreshold     float64
	MinWords            int
	FallbackScore       float64
	Policy              roles.Policy
	Depth               ValidationDepth
	Thresholds          scorer.Thresholds
}

// DefaultConfig returns the standard pipeline settings.
func DefaultConfig() (cfg Config) {
	cfg = Config{
		LetterMaxTokens:     800,
		FallbackMaxTokens:   800,
		ReviewMaxTokens:     500,
		FallbackTemperature: 0.5,
		CallTimeout:         60 * time.Second,
		RepairThreshold:     0.6,
		MinWords:            50,
		FallbackScore:       0.7,
		Policy:              roles.PolicyRuleBased,
		Depth:               DepthBasic,
		Thresholds:          scorer.DefaultThresholds(),
	}
	return cfg
}

// Validate rejects settings that would break the score contract.
func (c Config) Validate() (err error) {
	switch {
	case c.RepairThreshold < 0 || c.RepairThreshold > 1:
		err = errors.Errorf("repair threshold %.2f outside [0,1]", c.RepairThreshold)
	case c.Thresholds.Validity < 0 || c.Thresholds.Validity > 1:
		err = errors.Errorf("validity threshold %.2f outside [0,1]", c.Thresholds.Validity)
	case c.FallbackScore < 0 || c.FallbackScore > 1:
		err = errors.Errorf("fallback score %.2f outside [0,1]", c.FallbackScore)
	case c.MinWords < 0:
		err = errors.Errorf("minimum words %d is negative", c.MinWords)
	case c.LetterMaxTokens <= 0 || c.FallbackMaxTokens <= 0:
		err = errors.New("max tokens must be positive")
	case c.Policy != roles.PolicyRuleBased && c.Policy != roles.PolicySimple:
		err = errors.Errorf("unknown role selection policy %q", c.Policy)
	case c.Depth != DepthBasic && c.Depth != DepthFull:
		err = errors.Errorf("unknown validation depth %q", c.Depth)
	}
	return err
}
