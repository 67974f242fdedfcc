package renderer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMarkdown(t *testing.T) {
	tests := []struct {
		name string
		path func(dir string) string
	}{
		{name: "existing directory", path: func(dir string) string { return filepath.Join(dir, "acme-cover.md") }},
		{name: "nested directory is created", path: func(dir string) string { return filepath.Join(dir, "letters", "2026", "acme-cover.md") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t.TempDir())
			letter := "Dear Hiring Manager,\n\nI build payment systems in Go.\n"

			require.NoError(t, WriteMarkdown(letter, path))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, letter, string(data))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
		})
	}
}

func TestCleanupMarkdown(t *testing.T) {
	dir := t.TempDir()
	letter := filepath.Join(dir, "acme-cover.md")
	jobText := filepath.Join(dir, "acme-job.md")
	require.NoError(t, WriteMarkdown("letter", letter))
	require.NoError(t, WriteMarkdown("job", jobText))

	require.NoError(t, CleanupMarkdown(letter, jobText))

	for _, path := range []string{letter, jobText} {
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err), "%s should be removed", path)
	}

	err := CleanupMarkdown(letter)
	assert.Error(t, err, "removing a missing file reports an error")
}

func TestValidateFiles(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "letter.md")
	require.NoError(t, os.WriteFile(existing, []byte("letter"), 0600))

	assert.NoError(t, validateFiles(existing))
	assert.NoError(t, validateFiles())

	err := validateFiles(existing, "/nonexistent/template.latex")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nonexistent/template.latex")
}

func TestRenderPDFMissingInput(t *testing.T) {
	if checkPandocExists(context.Background()) != nil {
		t.Skip("pandoc not installed")
	}

	err := RenderPDF(context.Background(), "/nonexistent/letter.md", filepath.Join(t.TempDir(), "out.pdf"), "")
	assert.Error(t, err)
}

func TestRenderPDFMissingTemplate(t *testing.T) {
	if checkPandocExists(context.Background()) != nil {
		t.Skip("pandoc not installed")
	}

	letter := filepath.Join(t.TempDir(), "letter.md")
	require.NoError(t, WriteMarkdown("Dear team,\n", letter))

	err := RenderPDF(context.Background(), letter, filepath.Join(t.TempDir(), "out.pdf"), "/nonexistent/letter.latex")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestPandocArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"-f", "markdown", "-o", "out.pdf", "-V", "geometry:margin=1in", "in.md"},
		pandocArgs("in.md", "out.pdf", ""))

	assert.Equal(t,
		[]string{"-f", "markdown", "-o", "out.pdf", "-V", "geometry:margin=1in", "--template", "letter.latex", "in.md"},
		pandocArgs("in.md", "out.pdf", "letter.latex"))
}

func TestLetterMarkdown(t *testing.T) {
	assert.Equal(t, "Dear team ,\n\nThanks\n", LetterMarkdown("  Dear team 🚀,\n\nThanks ✅  "))
	assert.Equal(t, "\n", LetterMarkdown(""))
}
