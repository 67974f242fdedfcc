package generator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ivan-hilckov/lucidum/pkg/analyzer"
	"github.com/ivan-hilckov/lucidum/pkg/roles"
	"github.com/ivan-hilckov/lucidum/pkg/scorer"
	"github.com/pkg/errors"
)

// Request is everything needed for one cover letter. The caller owns it.
type Request struct {
	Resume              string `json:"resume" validate:"required,max=100000"`
	JobDescription      string `json:"job_description" validate:"required,max=100000"`
	CompanyName         string `json:"company_name,omitempty" validate:"max=200"`
	HiringManager       string `json:"hiring_manager,omitempty" validate:"max=200"`
	SpecialRequirements string `json:"special_requirements,omitempty" validate:"max=5000"`

	// Debug overrides. They never change the state machine.
	CustomSystemPrompt  string `json:"custom_system_prompt,omitempty" validate:"max=20000"`
	CustomKeywordPrompt string `json:"custom_keyword_prompt,omitempty" validate:"max=20000"`
	ForceFallback       bool   `json:"use_fallback,omitempty"`
}

//nolint:gochecknoglobals // validator caches struct metadata
var validate = validator.New()

// Validate checks the request shape. Generate itself accepts any request;
// front ends call Validate to reject bad input early.
func (r Request) Validate() (err error) {
	trimmed := r
	trimmed.Resume = strings.TrimSpace(r.Resume)
	trimmed.JobDescription = strings.TrimSpace(r.JobDescription)

	err = validate.Struct(trimmed)
	if err == nil {
		return err
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		err = errors.Errorf("invalid request: %s", strings.Join(fields, ", "))
	}
	return err
}

// Result is the terminal output of one Generate call. Text is never empty.
type Result struct {
	Text                  string                  `json:"text"`
	QualityScore          float64                 `json:"quality_score"`
	Validation            scorer.ValidationResult `json:"validation"`
	Analysis              analyzer.JobAnalysis    `json:"analysis"`
	RoleUsed              roles.ID                `json:"role_used"`
	GenerationTimeSeconds float64                 `json:"generation_time_seconds"`
	Metadata              map[string]any          `json:"metadata"`
}

// FallbackUsed reports whether the result came from the fallback path.
func (r Result) FallbackUsed() (used bool) {
	used, _ = r.Metadata[MetaFallbackUsed].(bool)
	return used
}

// Failed reports whether even the fallback failed.
func (r Result) Failed() (failed bool) {
	_, failed = r.Metadata[MetaError]
	return failed
}

// Metadata keys.
const (
	MetaRequestID            = "request_id"
	MetaRoleLabel            = "role_label"
	MetaRoleDescription      = "role_description"
	MetaWordCount            = "word_count"
	MetaKeywordsFound        = "keywords_found"
	MetaTotalKeywords        = "total_keywords"
	MetaKeywordSource        = "keyword_source"
	MetaImprovementAttempted = "improvement_attempted"
	MetaImprovementError     = "improvement_error"
	MetaCleanup              = "cleanup_applied"
	MetaFallbackUsed         = "fallback_used"
	MetaFallbackReason       = "fallback_reason"
	MetaReviewScore          = "review_score"
	MetaReviewSummary        = "review_summary"
	MetaStates               = "states"
	MetaError                = "error"
)

// State is a step of the orchestration state machine.
type State string

const (
	StateStart        State = "START"
	StateAnalyzed     State = "ANALYZED"
	StateRoleSelected State = "ROLE_SELECTED"
	StatePromptsBuilt State = "PROMPTS_BUILT"
	StateGenerated    State = "GENERATED"
	StateValidated    State = "VALIDATED"
	StateImproved     State = "IMPROVED"
	StateRevalidated  State = "REVALIDATED"
	StateError        State = "ERROR"
	StateFallback     State = "FALLBACK"
	StateDone         State = "DONE"
)

// ErrorKind classifies a failed pipeline step.
type ErrorKind string

const (
	// KindService is a transport or provider failure.
	KindService ErrorKind = "service"
	// KindDegenerate is an empty or too short response.
	KindDegenerate ErrorKind = "degenerate"
	// KindConfiguration is a catalog or prompt setup defect.
	KindConfiguration ErrorKind = "configuration"
	// KindForced marks a caller requested fallback.
	KindForced ErrorKind = "forced"
	// KindUnexpected is a panic recovered inside a pipeline step.
	KindUnexpected ErrorKind = "unexpected"
)

// StepError is the explicit failure value threaded through the state
// machine in place of panics.
type StepError struct {
	Kind  ErrorKind
	Stage State
	Cause error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failure at %s: %v", e.Kind, e.Stage, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}
