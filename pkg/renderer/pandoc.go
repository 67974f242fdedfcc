// Package renderer writes generated letters to disk as Markdown and,
// optionally, PDF.
package renderer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// RenderPDF converts markdown to PDF using pandoc. An empty templatePath
// uses the pandoc default template.
func RenderPDF(ctx context.Context, markdownPath, outputPath, templatePath string) (err error) {
	// Validate pandoc exists
	err = checkPandocExists(ctx)
	if err != nil {
		return err
	}

	// Validate input files exist
	files := []string{markdownPath}
	if templatePath != "" {
		files = append(files, templatePath)
	}
	err = validateFiles(files...)
	if err != nil {
		return err
	}

	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	// Run pandoc
	cmd := exec.CommandContext(ctx, "pandoc", pandocArgs(markdownPath, outputPath, templatePath)...)

	var output []byte
	output, err = cmd.CombinedOutput()
	if err != nil {
		err = errors.Wrapf(err, "pandoc failed: %s", string(output))
		return err
	}

	return err
}

func pandocArgs(markdownPath, outputPath, templatePath string) (args []string) {
	args = []string{
		"-f", "markdown",
		"-o", outputPath,
		"-V", "geometry:margin=1in",
	}
	if templatePath != "" {
		args = append(args, "--template", templatePath)
	}
	args = append(args, markdownPath)
	return args
}

// checkPandocExists verifies pandoc is installed.
func checkPandocExists(ctx context.Context) (err error) {
	cmd := exec.CommandContext(ctx, "pandoc", "--version")
	err = cmd.Run()
	if err != nil {
		err = errors.New("pandoc not found in PATH (install pandoc to generate PDFs)")
		return err
	}
	return err
}

// validateFiles checks that required files exist.
func validateFiles(paths ...string) (err error) {
	for _, path := range paths {
		_, err = os.Stat(path)
		if os.IsNotExist(err) {
			err = errors.Errorf("file not found: %s", path)
			return err
		}
	}
	return err
}

// WriteMarkdown writes markdown content to a file.
func WriteMarkdown(content, outputPath string) (err error) {
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	err = os.WriteFile(outputPath, []byte(content), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write markdown file: %s", outputPath)
		return err
	}

	return err
}

// LetterMarkdown prepares letter text for pandoc: emojis are removed since
// LaTeX cannot typeset them, and the text ends with a newline.
func LetterMarkdown(text string) (markdown string) {
	var b strings.Builder
	for _, r := range text {
		if isEmoji(r) {
			continue
		}
		b.WriteRune(r)
	}

	markdown = strings.TrimSpace(b.String()) + "\n"
	return markdown
}

func isEmoji(r rune) (emoji bool) {
	switch {
	case r >= 0x1F300 && r <= 0x1F9FF:
		emoji = true
	case r >= 0x2600 && r <= 0x27BF:
		emoji = true
	case r == 0xFE0F:
		emoji = true
	}
	return emoji
}

// CleanupMarkdown removes markdown files after PDF generation.
func CleanupMarkdown(paths ...string) (err error) {
	for _, path := range paths {
		err = os.Remove(path)
		if err != nil {
			err = errors.Wrapf(err, "failed to remove markdown file: %s", path)
			return err
		}
	}
	return err
}
