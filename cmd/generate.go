package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ivan-hilckov/lucidum/pkg/generator"
	"github.com/ivan-hilckov/lucidum/pkg/jd"
	"github.com/ivan-hilckov/lucidum/pkg/renderer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var resumeFile string

//nolint:gochecknoglobals // Cobra boilerplate
var resumeUser string

//nolint:gochecknoglobals // Cobra boilerplate
var company string

//nolint:gochecknoglobals // Cobra boilerplate
var hiringManager string

//nolint:gochecknoglobals // Cobra boilerplate
var notes string

//nolint:gochecknoglobals // Cobra boilerplate
var outputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var renderPDF bool

//nolint:gochecknoglobals // Cobra boilerplate
var keepMarkdown bool

//nolint:gochecknoglobals // Cobra boilerplate
var jsonOutput bool

//nolint:gochecknoglobals // Cobra boilerplate
var forceFallback bool

//nolint:gochecknoglobals // Cobra boilerplate
var generateCmd = &cobra.Command{
	Use:   "generate <jd-file-or-url>",
	Short: "Generate a cover letter",
	Long: `Generate a cover letter for a job description.

The job description can be provided as:
- A file path (e.g., jd.txt)
- A URL (e.g., https://example.com/jobs/123)
- "-" to read from standard input

The resume comes from a file (--resume) or from the resume store (--user).

Example:
  lucidum generate jd.txt --resume resume.md
  lucidum generate https://example.com/jobs/123 --resume resume.md --company "Acme" --pdf
  cat jd.txt | lucidum generate - --user 42 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&resumeFile, "resume", "", "Resume file (Markdown or plain text)")
	generateCmd.Flags().StringVar(&resumeUser, "user", "", "Use the stored resume of this user id")
	generateCmd.Flags().StringVar(&company, "company", "", "Company name (extracted from JD if not provided)")
	generateCmd.Flags().StringVar(&hiringManager, "hiring-manager", "", "Hiring manager to address")
	generateCmd.Flags().StringVar(&notes, "notes", "", "Special requirements for the letter")
	generateCmd.Flags().StringVar(&outputDir, "output", "", "Write letter files to this directory (default from config when --pdf is set)")
	generateCmd.Flags().BoolVar(&renderPDF, "pdf", false, "Render the letter to PDF with pandoc")
	generateCmd.Flags().BoolVar(&keepMarkdown, "keep-markdown", true, "Keep the Markdown letter after PDF generation")
	generateCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full result as JSON")
	generateCmd.Flags().BoolVar(&forceFallback, "fallback", false, "Skip the main pipeline and use the fallback prompt")
}

func runGenerate(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	var jobDescription string
	jobDescription, err = fetchAndLogJD(args[0])
	if err != nil {
		return err
	}

	var resume string
	resume, err = loadResume(ctx, rt)
	if err != nil {
		return err
	}

	req := generator.Request{
		Resume:              resume,
		JobDescription:      jobDescription,
		CompanyName:         company,
		HiringManager:       hiringManager,
		SpecialRequirements: notes,
		ForceFallback:       forceFallback,
	}
	err = req.Validate()
	if err != nil {
		return err
	}

	var genSpinner *spinner
	if !getVerbose() && !jsonOutput {
		genSpinner = newSpinner("Generating cover letter...")
		genSpinner.start()
	}

	result := rt.pipeline.Generate(ctx, req)

	if genSpinner != nil {
		genSpinner.stopSpinner()
	}

	err = printResult(result)
	if err != nil {
		return err
	}

	dir := outputDir
	if dir == "" && renderPDF {
		dir = rt.cfg.Defaults.OutputDir
	}
	if dir != "" && !result.Failed() {
		err = writeOutputs(ctx, dir, rt.cfg.Pandoc.TemplatePath, jobDescription, result)
		if err != nil {
			return err
		}
	}

	if result.Failed() {
		err = errors.New("cover letter generation failed")
	}
	return err
}

func fetchAndLogJD(jdInput string) (jobDescription string, err error) {
	if getVerbose() {
		fmt.Fprintf(os.Stderr, "Loading job description from: %s\n", jdInput)
	}

	jobDescription, err = jd.Fetch(jdInput)
	if err != nil && jdInput != jd.StdinArg && strings.HasPrefix(jdInput, "http") {
		// Pages rendered by JavaScript come back empty; accept a paste instead.
		fmt.Fprintf(os.Stderr, "\nWarning: Failed to fetch job description from URL: %v\n", err)
		fmt.Fprintln(os.Stderr, "\nPlease paste the job description text below.")
		fmt.Fprintln(os.Stderr, "When finished, press Ctrl+D (Unix/Mac) or Ctrl+Z then Enter (Windows):")

		jobDescription, err = jd.ReadAll(os.Stdin)
		if err != nil {
			err = errors.Wrap(err, "no job description provided")
			return jobDescription, err
		}
	}
	if err != nil {
		return jobDescription, err
	}

	if getVerbose() {
		fmt.Fprintf(os.Stderr, "Job description loaded (%d characters)\n", len(jobDescription))
	}

	return jobDescription, err
}

func loadResume(ctx context.Context, rt *runtime) (resume string, err error) {
	switch {
	case resumeFile != "":
		var data []byte
		data, err = os.ReadFile(resumeFile)
		if err != nil {
			err = errors.Wrapf(err, "failed to read resume file: %s", resumeFile)
			return resume, err
		}
		resume = string(data)

	case resumeUser != "":
		store, storeErr := rt.resumeStore(ctx)
		if storeErr != nil {
			err = storeErr
			return resume, err
		}
		var found bool
		resume, found, err = store.Get(ctx, resumeUser)
		if err != nil {
			return resume, err
		}
		if !found {
			err = errors.Errorf("no resume stored for user %s (run 'lucidum resume set')", resumeUser)
			return resume, err
		}

	default:
		err = errors.New("either --resume or --user is required")
	}

	return resume, err
}

func printResult(result generator.Result) (err error) {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(result)
		if err != nil {
			err = errors.Wrap(err, "failed to encode result")
		}
		return err
	}

	fmt.Println(result.Text)
	fmt.Println()

	label, _ := result.Metadata[generator.MetaRoleLabel].(string)
	fmt.Fprintf(os.Stderr, "Quality: %.0f%%  Role: %s", result.QualityScore*100, result.RoleUsed)
	if label != "" {
		fmt.Fprintf(os.Stderr, " (%s)", label)
	}
	fmt.Fprintf(os.Stderr, "  Time: %.1fs\n", result.GenerationTimeSeconds)

	if result.FallbackUsed() {
		fmt.Fprintf(os.Stderr, "Fallback used: %v\n", result.Metadata[generator.MetaFallbackReason])
	}
	for _, issue := range result.Validation.Issues {
		fmt.Fprintf(os.Stderr, "  - %s\n", issue)
	}

	return err
}

func writeOutputs(ctx context.Context, dir, templatePath, jobDescription string, result generator.Result) (err error) {
	paths := renderer.BuildPaths(dir, result.Analysis.CompanyName, time.Now())

	err = renderer.WriteMarkdown(renderer.LetterMarkdown(result.Text), paths.Markdown)
	if err != nil {
		return err
	}

	err = os.WriteFile(paths.JobText, []byte(jobDescription), 0600)
	if err != nil {
		err = errors.Wrap(err, "failed to write job description file")
		return err
	}

	var data []byte
	data, err = json.MarshalIndent(result, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to encode result")
		return err
	}
	err = os.WriteFile(paths.JSON, data, 0600)
	if err != nil {
		err = errors.Wrap(err, "failed to write result file")
		return err
	}

	fmt.Fprintf(os.Stderr, "Cover letter saved at: %s\n", paths.Markdown)

	if renderPDF {
		err = renderer.RenderPDF(ctx, paths.Markdown, paths.PDF, templatePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to render cover letter PDF: %v\n", err)
			err = nil
			return err
		}
		fmt.Fprintf(os.Stderr, "Cover letter PDF saved at: %s\n", paths.PDF)

		if !keepMarkdown {
			err = renderer.CleanupMarkdown(paths.Markdown)
			if err != nil {
				return err
			}
		}
	}

	return err
}

// spinner provides a simple text-based progress indicator on stderr.
type spinner struct {
	message string
	stop    chan bool
	done    chan bool
	mu      sync.Mutex
	active  bool
}

func newSpinner(message string) (s *spinner) {
	s = &spinner{
		message: message,
		stop:    make(chan bool),
		done:    make(chan bool),
	}
	return s
}

func (s *spinner) start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.mu.Unlock()

	go func() {
		chars := []string{"|", "/", "-", "\\"}
		i := 0
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		fmt.Fprintf(os.Stderr, "%s ", s.message)
		for {
			select {
			case <-s.stop:
				fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+2))
				s.done <- true
				return
			case <-ticker.C:
				fmt.Fprintf(os.Stderr, "\r%s %s", s.message, chars[i%len(chars)])
				i++
			}
		}
	}()
}

func (s *spinner) stopSpinner() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.stop <- true
	<-s.done

	s.mu.Lock()
	s.active = false
	s.mu.Unlock()
}
