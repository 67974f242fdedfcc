// Package generator runs the cover letter pipeline: analysis, persona
// selection, prompt composition, generation, assessment, one optional
// repair and the fallback chain.
package generator

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ivan-hilckov/lucidum/pkg/analyzer"
	"github.com/ivan-hilckov/lucidum/pkg/llm"
	"github.com/ivan-hilckov/lucidum/pkg/logging"
	"github.com/ivan-hilckov/lucidum/pkg/metrics"
	"github.com/ivan-hilckov/lucidum/pkg/prompts"
	"github.com/ivan-hilckov/lucidum/pkg/roles"
	"github.com/ivan-hilckov/lucidum/pkg/scorer"
	"github.com/pkg/errors"
)

// FailurePrefix starts the letter text of a result where every path failed.
const FailurePrefix = "Cover letter generation failed: "

// Recorder receives pipeline measurements. *metrics.Recorder satisfies it.
type Recorder interface {
	ObserveGeneration(outcome metrics.Outcome, role string, elapsed time.Duration, quality float64)
	ObserveKeywordSource(source string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveGeneration(metrics.Outcome, string, time.Duration, float64) {
}

func (nopRecorder) ObserveKeywordSource(string) {
}

// Option customizes a Generator.
type Option func(g *Generator)

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) (opt Option) {
	opt = func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
	return opt
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) (opt Option) {
	opt = func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
	return opt
}

// WithCatalog replaces the built-in role catalog.
func WithCatalog(c *roles.Catalog) (opt Option) {
	opt = func(g *Generator) {
		if c != nil {
			g.catalog = c
		}
	}
	return opt
}

// Generator orchestrates one cover letter per Generate call. It holds no
// per-request state and is safe for concurrent use.
type Generator struct {
	gen      llm.Generator
	cfg      Config
	analyzer *analyzer.Analyzer
	catalog  *roles.Catalog
	composer *prompts.Composer
	scorer   *scorer.Scorer
	reviewer *scorer.Reviewer
	recorder Recorder
	logger   *logging.Logger
}

// New wires a Generator around a text generation client. Every call made
// through it is bounded by cfg.CallTimeout.
func New(gen llm.Generator, cfg Config, opts ...Option) (g *Generator, err error) {
	if gen == nil {
		err = errors.New("text generation client is required")
		return g, err
	}
	if err = cfg.Validate(); err != nil {
		err = errors.Wrap(err, "invalid pipeline configuration")
		return g, err
	}

	bounded := llm.WithTimeout(gen, cfg.CallTimeout)

	g = &Generator{
		gen:      bounded,
		cfg:      cfg,
		catalog:  roles.Default(),
		scorer:   scorer.NewScorer(cfg.Thresholds),
		recorder: nopRecorder{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	extractionModel := cfg.ExtractionModel
	if extractionModel == "" {
		extractionModel = cfg.Model
	}
	g.analyzer = analyzer.New(bounded, analyzer.Config{Model: extractionModel, MaxTokens: cfg.ExtractionMaxTokens}, g.logger)
	g.composer = prompts.NewComposer(g.catalog)
	if cfg.Depth == DepthFull {
		g.reviewer = scorer.NewReviewer(bounded, extractionModel, cfg.ReviewMaxTokens)
	}

	return g, err
}

// Catalog returns the role catalog in use.
func (g *Generator) Catalog() (c *roles.Catalog) {
	c = g.catalog
	return c
}

// Analyze runs only the analysis and role selection steps.
func (g *Generator) Analyze(ctx context.Context, jobDescription, keywordPrompt string) (analysis analyzer.JobAnalysis, role roles.ID) {
	analysis = g.analyzer.Analyze(ctx, jobDescription, analyzer.Options{KeywordPrompt: keywordPrompt})
	g.recorder.ObserveKeywordSource(string(analysis.KeywordSource))
	role = roles.Select(g.cfg.Policy, analysis)
	return analysis, role
}

// run is the per-call state of one Generate invocation.
type run struct {
	id       string
	start    time.Time
	states   []State
	analysis analyzer.JobAnalysis
	logger   *logging.Logger
}

func (r *run) enter(s State) {
	r.states = append(r.states, s)
	r.logger.Debug("pipeline state", "state", s)
}

// current returns the last state entered.
func (r *run) current() (s State) {
	if len(r.states) > 0 {
		s = r.states[len(r.states)-1]
	}
	return s
}

// panicked converts a recovered panic value into a step error.
func (r *run) panicked(p any) (stepErr *StepError) {
	stepErr = &StepError{Kind: KindUnexpected, Stage: r.current(), Cause: errors.Errorf("panic: %v", p)}
	r.logger.Error("pipeline step panicked", "stage", stepErr.Stage, "panic", p)
	return stepErr
}

func (r *run) trace() (s string) {
	parts := make([]string, 0, len(r.states))
	for _, st := range r.states {
		parts = append(parts, string(st))
	}
	s = strings.Join(parts, ",")
	return s
}

// Generate never fails. Primary path failures fall through to the
// fallback; a failed fallback yields a zero-score result whose text
// explains the failure.
func (g *Generator) Generate(ctx context.Context, req Request) (result Result) {
	r := &run{
		id:       uuid.NewString(),
		start:    time.Now(),
		analysis: analyzer.Empty(),
	}
	r.logger = g.logger.With("request_id", r.id)
	r.enter(StateStart)

	var outcome metrics.Outcome
	var stepErr *StepError

	if req.ForceFallback {
		stepErr = &StepError{Kind: KindForced, Stage: StateStart, Cause: errors.New("fallback requested by caller")}
	} else {
		result, outcome, stepErr = g.primary(ctx, req, r)
	}

	if stepErr != nil {
		r.enter(StateError)
		r.logger.Warn("primary pipeline failed, using fallback",
			"kind", stepErr.Kind, "stage", stepErr.Stage, "error", stepErr.Cause)
		result, outcome = g.fallback(ctx, req, r, stepErr)
	}

	r.enter(StateDone)
	result.GenerationTimeSeconds = time.Since(r.start).Seconds()
	result.Metadata[MetaRequestID] = r.id
	result.Metadata[MetaStates] = r.trace()

	g.recorder.ObserveGeneration(outcome, string(result.RoleUsed), time.Since(r.start), result.QualityScore)
	r.logger.Info("cover letter generated",
		"outcome", outcome,
		"role", result.RoleUsed,
		"quality", result.QualityScore,
		"seconds", result.GenerationTimeSeconds,
	)

	return result
}

func (g *Generator) primary(ctx context.Context, req Request, r *run) (result Result, outcome metrics.Outcome, stepErr *StepError) {
	defer func() {
		if p := recover(); p != nil {
			result, outcome, stepErr = Result{}, "", r.panicked(p)
		}
	}()

	// Analyze the posting; a caller supplied company wins over extraction.
	r.analysis = g.analyzer.Analyze(ctx, req.JobDescription, analyzer.Options{KeywordPrompt: req.CustomKeywordPrompt})
	if company := strings.TrimSpace(req.CompanyName); company != "" {
		r.analysis.CompanyName = company
	}
	g.recorder.ObserveKeywordSource(string(r.analysis.KeywordSource))
	r.enter(StateAnalyzed)

	// Pick the persona
	role := roles.Select(g.cfg.Policy, r.analysis)
	def, err := g.catalog.Get(role)
	if err != nil {
		stepErr = &StepError{Kind: KindConfiguration, Stage: StateRoleSelected, Cause: err}
		return result, outcome, stepErr
	}
	r.enter(StateRoleSelected)

	// Build prompts
	systemPrompt, err := g.composer.BuildSystemPrompt(role, r.analysis.Keywords, r.analysis.Industry, req.CustomSystemPrompt)
	if err != nil {
		stepErr = &StepError{Kind: KindConfiguration, Stage: StatePromptsBuilt, Cause: err}
		return result, outcome, stepErr
	}
	userPrompt := prompts.BuildUserPrompt(req.Resume, req.JobDescription, r.analysis, prompts.Context{
		CompanyName:         req.CompanyName,
		HiringManager:       req.HiringManager,
		SpecialRequirements: req.SpecialRequirements,
	})
	r.enter(StatePromptsBuilt)

	// Generate and score the first letter
	text, cleanup, genErr := g.attempt(ctx, systemPrompt, userPrompt, def.Temperature, g.cfg.LetterMaxTokens, StateGenerated)
	if genErr != nil {
		stepErr = genErr
		return result, outcome, stepErr
	}
	r.enter(StateGenerated)

	validation := g.scorer.Assess(text, r.analysis.Keywords, r.analysis.CompanyName)
	r.enter(StateValidated)

	outcome = metrics.OutcomePrimary
	meta := map[string]any{
		MetaImprovementAttempted: false,
	}

	// One repair attempt for weak letters
	if !validation.IsValid && validation.Score < g.cfg.RepairThreshold {
		meta[MetaImprovementAttempted] = true
		improvementPrompt := prompts.BuildImprovementPrompt(systemPrompt, validation.Issues, validation.Suggestions)

		improved, improvedCleanup, repairErr := g.attempt(ctx, improvementPrompt, userPrompt, def.Temperature, g.cfg.LetterMaxTokens, StateImproved)
		if repairErr != nil {
			r.logger.Warn("repair attempt failed, keeping first letter", "kind", repairErr.Kind, "error", repairErr.Cause)
			meta[MetaImprovementError] = repairErr.Error()
		} else {
			r.enter(StateImproved)
			text, cleanup = improved, improvedCleanup
			validation = g.scorer.Assess(text, r.analysis.Keywords, r.analysis.CompanyName)
			r.enter(StateRevalidated)
			outcome = metrics.OutcomeRepaired
		}
	}

	if g.reviewer != nil {
		review := g.reviewer.Review(ctx, text)
		meta[MetaReviewScore] = review.Score
		meta[MetaReviewSummary] = review.Summary()
	}

	meta[MetaRoleLabel] = def.Label
	meta[MetaRoleDescription] = def.Description
	meta[MetaWordCount] = llm.CountWords(text)
	meta[MetaKeywordsFound] = scorer.CountKeywordHits(text, r.analysis.Keywords)
	meta[MetaTotalKeywords] = len(r.analysis.Keywords)
	meta[MetaKeywordSource] = string(r.analysis.KeywordSource)
	meta[MetaCleanup] = strings.Join(cleanup, ",")
	meta[MetaFallbackUsed] = false

	result = Result{
		Text:         text,
		QualityScore: validation.Score,
		Validation:   validation,
		Analysis:     r.analysis,
		RoleUsed:     role,
		Metadata:     meta,
	}

	return result, outcome, stepErr
}

// attempt makes one generation call, cleans the reply and enforces the
// minimum word floor.
func (g *Generator) attempt(ctx context.Context, systemPrompt, userPrompt string, temperature float64, maxTokens int, stage State) (text string, cleanup []string, stepErr *StepError) {
	raw, err := g.gen.Generate(ctx, llm.Request{
		Model:       g.cfg.Model,
		Messages:    []llm.Message{llm.System(systemPrompt), llm.User(userPrompt)},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		stepErr = &StepError{Kind: KindService, Stage: stage, Cause: err}
		return text, cleanup, stepErr
	}

	text, cleanup = llm.Cleanup(raw)
	if words := llm.CountWords(text); words < g.cfg.MinWords {
		stepErr = &StepError{
			Kind:  KindDegenerate,
			Stage: stage,
			Cause: errors.Errorf("response has %d words, minimum is %d", words, g.cfg.MinWords),
		}
		text = ""
	}

	return text, cleanup, stepErr
}

func (g *Generator) fallback(ctx context.Context, req Request, r *run, reason *StepError) (result Result, outcome metrics.Outcome) {
	defer func() {
		if p := recover(); p != nil {
			result, outcome = g.terminal(r, reason, r.panicked(p))
		}
	}()

	r.enter(StateFallback)

	// Simple prompt, no persona and no repair

	userPrompt := prompts.BuildFallbackUserPrompt(req.Resume, req.JobDescription)
	text, cleanup, stepErr := g.attempt(ctx, prompts.FallbackSystemPrompt, userPrompt, g.cfg.FallbackTemperature, g.cfg.FallbackMaxTokens, StateFallback)
	if stepErr != nil {
		result, outcome = g.terminal(r, reason, stepErr)
		return result, outcome
	}

	// Score it for the record; quality is fixed for fallback letters
	label, _ := g.catalog.GetLabel(roles.CorporateRecruiter)
	validation := g.scorer.Assess(text, r.analysis.Keywords, r.analysis.CompanyName)

	outcome = metrics.OutcomeFallback
	result = Result{
		Text:         text,
		QualityScore: g.cfg.FallbackScore,
		Validation:   validation,
		Analysis:     r.analysis,
		RoleUsed:     roles.CorporateRecruiter,
		Metadata: map[string]any{
			MetaFallbackUsed:         true,
			MetaFallbackReason:       reason.Error(),
			MetaRoleLabel:            label,
			MetaWordCount:            llm.CountWords(text),
			MetaKeywordsFound:        scorer.CountKeywordHits(text, r.analysis.Keywords),
			MetaTotalKeywords:        len(r.analysis.Keywords),
			MetaCleanup:              strings.Join(cleanup, ","),
			MetaKeywordSource:        string(r.analysis.KeywordSource),
			MetaImprovementAttempted: false,
		},
	}

	return result, outcome
}

func (g *Generator) terminal(r *run, reason, failure *StepError) (result Result, outcome metrics.Outcome) {
	r.logger.Error("fallback generation failed", "kind", failure.Kind, "error", failure.Cause, "primary_error", reason.Cause)

	outcome = metrics.OutcomeFailed
	result = Result{
		Text:         FailurePrefix + failure.Cause.Error(),
		QualityScore: 0,
		Validation: scorer.ValidationResult{
			Issues:      []string{"Critical generation error"},
			Suggestions: []string{"Try again later"},
		},
		Analysis: r.analysis,
		RoleUsed: roles.CorporateRecruiter,
		Metadata: map[string]any{
			MetaFallbackUsed:   true,
			MetaFallbackReason: reason.Error(),
			MetaError:          failure.Error(),
		},
	}

	return result, outcome
}
