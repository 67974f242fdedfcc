// Package analyzer extracts keywords, company signals and requirements from
// free-text job descriptions.
package analyzer

import (
	"context"
	"strings"

	"github.com/ivan-hilckov/lucidum/pkg/llm"
	"github.com/ivan-hilckov/lucidum/pkg/logging"
	"golang.org/x/sync/errgroup"
)

// DefaultKeywordPrompt asks for a comma separated keyword list. The
// {job_description} placeholder receives the truncated posting.
const DefaultKeywordPrompt = `Extract 8-15 key skills and technologies from the job description.
Return only a comma separated list, no explanations.

Job description:
{job_description}`

const (
	// KeywordPreviewChars bounds the posting text sent for keyword extraction.
	KeywordPreviewChars = 1000
	// ProfilePreviewChars bounds the posting text sent for company profiling.
	ProfilePreviewChars = 1000
	// RequirementsPreviewChars bounds the posting text sent for requirements extraction.
	RequirementsPreviewChars = 1500

	extractionTemperature = 0.1
	keywordMaxTokens      = 150
	profileMaxTokens      = 200
	requirementsMaxTokens = 300
)

// Config tunes the service calls the analyzer makes.
type Config struct {
	Model string
	// MaxTokens overrides the per-request token limits when positive.
	MaxTokens int
}

// Options carries per-call overrides.
type Options struct {
	// KeywordPrompt replaces DefaultKeywordPrompt when non-empty.
	KeywordPrompt string
}

// Analyzer turns job descriptions into JobAnalysis values. It is safe for
// concurrent use.
type Analyzer struct {
	gen    llm.Generator
	cfg    Config
	logger *logging.Logger
}

// New creates an Analyzer. A nil logger discards output.
func New(gen llm.Generator, cfg Config, logger *logging.Logger) (a *Analyzer) {
	if logger == nil {
		logger = logging.NewNop()
	}
	a = &Analyzer{gen: gen, cfg: cfg, logger: logger}
	return a
}

// Analyze never fails: service errors degrade to heuristic extraction and
// empty profile data. Heuristics always run over the full text.
func (a *Analyzer) Analyze(ctx context.Context, jobDescription string, opts Options) (analysis JobAnalysis) {
	analysis = Empty()
	analysis.CompanyName = ExtractCompanyName(jobDescription)
	analysis.SeniorityLevel = DetectSeniority(jobDescription)
	analysis.IsTechnicalRole = IsTechnicalRole(jobDescription)
	analysis.IsCreativeRole = IsCreativeRole(jobDescription)

	if strings.TrimSpace(jobDescription) == "" {
		return analysis
	}

	var (
		keywords []string
		source   KeywordSource
		profile  companyProfile
		reqs     Requirements
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if a.recovered("keywords", func() { keywords, source = a.extractKeywords(gCtx, jobDescription, opts.KeywordPrompt) }) {
			keywords, source = ExtractKeywordsRegex(jobDescription), KeywordSourceRegex
		}
		return nil
	})

	g.Go(func() error {
		if a.recovered("profile", func() { profile = a.extractProfile(gCtx, jobDescription) }) {
			profile = companyProfile{}
		}
		return nil
	})

	g.Go(func() error {
		if a.recovered("requirements", func() { reqs = a.extractRequirements(gCtx, jobDescription) }) {
			reqs = emptyRequirements()
		}
		return nil
	})

	_ = g.Wait()

	analysis.Keywords = keywords
	analysis.KeywordSource = source
	analysis.CompanySize = profile.Size
	analysis.CompanyCulture = profile.Culture
	analysis.Industry = profile.Industry
	analysis.Requirements = reqs

	a.logger.Debug("job analyzed",
		"keywords", len(analysis.Keywords),
		"keyword_source", analysis.KeywordSource,
		"company", analysis.CompanyName,
		"seniority", analysis.SeniorityLevel,
	)

	return analysis
}

// recovered runs step and reports whether it panicked. A panicking step
// degrades like a failed service call.
func (a *Analyzer) recovered(name string, step func()) (panicked bool) {
	defer func() {
		if p := recover(); p != nil {
			a.logger.Error("analysis step panicked", "step", name, "panic", p)
			panicked = true
		}
	}()

	step()
	return panicked
}

func (a *Analyzer) tokens(fallback int) (n int) {
	n = fallback
	if a.cfg.MaxTokens > 0 {
		n = a.cfg.MaxTokens
	}
	return n
}

func (a *Analyzer) ask(ctx context.Context, prompt string, maxTokens int) (reply string, err error) {
	reply, err = a.gen.Generate(ctx, llm.Request{
		Model:       a.cfg.Model,
		Messages:    []llm.Message{llm.User(prompt)},
		MaxTokens:   maxTokens,
		Temperature: extractionTemperature,
	})
	return reply, err
}

// KeywordPrompt renders the keyword extraction prompt for a posting.
func KeywordPrompt(template, jobDescription string) (prompt string) {
	if strings.TrimSpace(template) == "" {
		template = DefaultKeywordPrompt
	}
	preview := llm.TruncateRunes(jobDescription, KeywordPreviewChars)
	prompt = strings.ReplaceAll(template, "{job_description}", preview)
	return prompt
}

func (a *Analyzer) extractKeywords(ctx context.Context, jobDescription, template string) (keywords []string, source KeywordSource) {
	if a.gen != nil {
		reply, err := a.ask(ctx, KeywordPrompt(template, jobDescription), a.tokens(keywordMaxTokens))
		if err == nil {
			keywords = ParseKeywords(llm.StripCodeFences(reply))
			if len(keywords) > 0 {
				source = KeywordSourceLLM
				return keywords, source
			}
			a.logger.Warn("keyword reply had no usable entries, using regex fallback")
		} else {
			a.logger.Warn("keyword extraction failed, using regex fallback", "error", err)
		}
	}

	keywords = ExtractKeywordsRegex(jobDescription)
	source = KeywordSourceRegex
	return keywords, source
}

func emptyRequirements() (reqs Requirements) {
	reqs = Requirements{
		HardSkills:     []string{},
		SoftSkills:     []string{},
		Certifications: []string{},
	}
	return reqs
}
