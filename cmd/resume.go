package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ivan-hilckov/lucidum/pkg/chat"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var resumeUserID string

//nolint:gochecknoglobals // Cobra boilerplate
var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Manage stored resumes",
}

//nolint:gochecknoglobals // Cobra boilerplate
var resumeSetCmd = &cobra.Command{
	Use:   "set <file.md|->",
	Short: "Store a Markdown resume for a user",
	Long: `Store a Markdown resume for a user in the configured resume store.

The same rules as chat uploads apply: the file must be a non-empty, valid
UTF-8 .md file. Use "-" to read the resume from standard input.

Example:
  lucidum resume set resume.md --user 42`,
	Args: cobra.ExactArgs(1),
	RunE: runResumeSet,
}

//nolint:gochecknoglobals // Cobra boilerplate
var resumeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored resume of a user",
	Args:  cobra.NoArgs,
	RunE:  runResumeShow,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.AddCommand(resumeSetCmd, resumeShowCmd)
	resumeCmd.PersistentFlags().StringVar(&resumeUserID, "user", defaultUserID, "User id")
}

func runResumeSet(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()

	rt, err := newBaseRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	doc := chat.Document{Name: args[0]}
	if args[0] == "-" {
		doc.Name = "stdin.md"
		doc.Content, err = io.ReadAll(os.Stdin)
	} else {
		doc.Content, err = os.ReadFile(args[0])
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to read resume: %s", args[0])
		return err
	}

	var text string
	text, err = chat.ValidateDocument(doc)
	if err != nil {
		return err
	}

	err = storeResume(ctx, rt, text)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Resume saved for user %s (%d characters)\n", resumeUserID, len(text))
	return err
}

func storeResume(ctx context.Context, rt *runtime, text string) (err error) {
	store, err := rt.resumeStore(ctx)
	if err != nil {
		return err
	}
	err = store.Put(ctx, resumeUserID, text)
	return err
}

func runResumeShow(cmd *cobra.Command, _ []string) (err error) {
	ctx := cmd.Context()

	rt, err := newBaseRuntime()
	if err != nil {
		return err
	}
	defer rt.Close()

	store, err := rt.resumeStore(ctx)
	if err != nil {
		return err
	}

	text, found, err := store.Get(ctx, resumeUserID)
	if err != nil {
		return err
	}
	if !found {
		err = errors.Errorf("no resume stored for user %s", resumeUserID)
		return err
	}

	fmt.Println(strings.TrimRight(text, "\n"))
	return err
}
