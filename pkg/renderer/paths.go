package renderer

import (
	"path/filepath"
	"strings"
	"time"
)

// LetterPaths are the files written for one generated letter.
type LetterPaths struct {
	Markdown string
	PDF      string
	JSON     string
	JobText  string
}

// BuildPaths names output files after the company and the date, e.g.
// acme-2026-01-02-cover.md. An empty company becomes "letter".
func BuildPaths(outDir, company string, date time.Time) (paths LetterPaths) {
	base := SanitizeFilename(company)
	if base == "" {
		base = "letter"
	}
	base = base + "-" + date.Format("2006-01-02")

	paths = LetterPaths{
		Markdown: filepath.Join(outDir, base+"-cover.md"),
		PDF:      filepath.Join(outDir, base+"-cover.pdf"),
		JSON:     filepath.Join(outDir, base+"-cover.json"),
		JobText:  filepath.Join(outDir, base+"-jd.txt"),
	}
	return paths
}

//nolint:gochecknoglobals // fixed suffix table
var companySuffixes = []string{
	", llc", ", inc.", ", inc",
	" llc", " inc.", " inc", " corporation", " corp.", " corp",
	" limited", " ltd.", " ltd", " co.", " co", " gmbh",
}

// SanitizeFilename lowercases name, drops legal suffixes and replaces
// everything but ASCII letters and digits with single hyphens.
func SanitizeFilename(name string) (sanitized string) {
	sanitized = strings.ToLower(strings.TrimSpace(name))
	for _, suffix := range companySuffixes {
		sanitized = strings.TrimSuffix(sanitized, suffix)
	}

	sanitized = strings.Map(func(r rune) (result rune) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			result = r
			return result
		}
		result = '-'
		return result
	}, sanitized)

	for strings.Contains(sanitized, "--") {
		sanitized = strings.ReplaceAll(sanitized, "--", "-")
	}
	sanitized = strings.Trim(sanitized, "-")

	return sanitized
}
