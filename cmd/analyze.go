package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var analyzeCmd = &cobra.Command{
	Use:   "analyze <jd-file-or-url>",
	Short: "Analyze a job description and show the persona it selects",
	Long: `Analyze a job description without writing a letter.

Prints the extracted keywords, company profile, requirements and the writing
persona the pipeline would use.

Example:
  lucidum analyze jd.txt
  lucidum analyze https://example.com/jobs/123 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the analysis as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
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

	analysis, role := rt.pipeline.Analyze(ctx, jobDescription, "")

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(map[string]any{
			"analysis": analysis,
			"role":     role,
		})
		if err != nil {
			err = errors.Wrap(err, "failed to encode analysis")
		}
		return err
	}

	label, _ := rt.pipeline.Catalog().GetLabel(role)

	fmt.Printf("Role:        %s (%s)\n", role, label)
	fmt.Printf("Company:     %s\n", orDash(analysis.CompanyName))
	fmt.Printf("Size:        %s\n", orDash(string(analysis.CompanySize)))
	fmt.Printf("Culture:     %s\n", orDash(string(analysis.CompanyCulture)))
	fmt.Printf("Industry:    %s\n", orDash(analysis.Industry))
	fmt.Printf("Seniority:   %s\n", analysis.SeniorityLevel)
	fmt.Printf("Technical:   %t\n", analysis.IsTechnicalRole)
	fmt.Printf("Creative:    %t\n", analysis.IsCreativeRole)
	fmt.Printf("Keywords:    %s (%s)\n", orDash(strings.Join(analysis.Keywords, ", ")), analysis.KeywordSource)
	fmt.Printf("Hard skills: %s\n", orDash(strings.Join(analysis.Requirements.HardSkills, ", ")))
	fmt.Printf("Soft skills: %s\n", orDash(strings.Join(analysis.Requirements.SoftSkills, ", ")))
	if analysis.Requirements.ExperienceYears != nil {
		fmt.Printf("Experience:  %d+ years\n", *analysis.Requirements.ExperienceYears)
	}
	if analysis.Requirements.EducationLevel != "" {
		fmt.Printf("Education:   %s\n", analysis.Requirements.EducationLevel)
	}

	return err
}

func orDash(s string) (out string) {
	out = s
	if out == "" {
		out = "-"
	}
	return out
}
