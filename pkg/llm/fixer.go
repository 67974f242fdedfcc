package llm

import (
	"regexp"
	"strings"
)

// FixPattern defines a search-and-replace cleanup applied to generated letters.
type FixPattern struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Fixer normalizes raw model output into plain letter text.
type Fixer struct {
	patterns []FixPattern
}

// NewFixer creates a fixer with the default cleanup patterns.
func NewFixer() (fixer *Fixer) {
	fixer = &Fixer{patterns: buildLetterPatterns()}
	return fixer
}

// Apply runs every pattern over text and reports which ones changed it.
func (f *Fixer) Apply(text string) (fixed string, applied []string) {
	fixed = text

	for _, pattern := range f.patterns {
		if !pattern.Pattern.MatchString(fixed) {
			continue
		}
		next := pattern.Pattern.ReplaceAllString(fixed, pattern.Replacement)
		if next != fixed {
			fixed = next
			applied = append(applied, pattern.Name)
		}
	}

	fixed = strings.TrimSpace(fixed)
	return fixed, applied
}

// Cleanup applies the default patterns. It is what the pipeline uses on
// every letter it receives from a provider.
func Cleanup(text string) (cleaned string, applied []string) {
	cleaned, applied = defaultFixer.Apply(text)
	return cleaned, applied
}

//nolint:gochecknoglobals // compiled once
var defaultFixer = NewFixer()

func buildLetterPatterns() (patterns []FixPattern) {
	patterns = []FixPattern{
		{
			Name:        "Normalize line endings",
			Pattern:     regexp.MustCompile(`\r\n?`),
			Replacement: "\n",
		},
		{
			Name:        "Strip opening code fence",
			Pattern:     regexp.MustCompile("\\A\\s*```[a-zA-Z]*[ \\t]*\\n"),
			Replacement: "",
		},
		{
			Name:        "Strip closing code fence",
			Pattern:     regexp.MustCompile("\\n?```\\s*\\z"),
			Replacement: "",
		},
		{
			Name:        "Drop assistant preamble",
			Pattern:     regexp.MustCompile(`(?i)\A\s*(?:here(?:'s| is) (?:a |an |the |your )?(?:revised |improved |updated )?cover letter[^\n]*|sure[,!][^\n]*)\n+`),
			Replacement: "",
		},
		{
			Name:        "Trim trailing spaces",
			Pattern:     regexp.MustCompile(`(?m)[ \t]+$`),
			Replacement: "",
		},
		{
			Name:        "Collapse blank lines",
			Pattern:     regexp.MustCompile(`\n{3,}`),
			Replacement: "\n\n",
		},
	}

	return patterns
}
