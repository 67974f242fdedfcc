package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/ivan-hilckov/lucidum/pkg/chat"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const defaultUserID = "local"

// uploadCommand sends a local file as a document upload.
const uploadCommand = "/upload"

//nolint:gochecknoglobals // Cobra boilerplate
var chatUserID string

//nolint:gochecknoglobals // Cobra boilerplate
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run the conversational front end in the terminal",
	Long: `Run the conversational front end in the terminal.

Commands:
  /start               show help
  /set_resume          start a resume upload
  /upload <file.md>    upload a resume file
  /generate            start a cover letter; then paste the job description
                       and finish it with an empty line

Type /quit or press Ctrl+D to exit.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatUserID, "user", defaultUserID, "User id for resume and session storage")
}

func runChat(cmd *cobra.Command, _ []string) (err error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	resumeStore, err := rt.resumeStore(ctx)
	if err != nil {
		return err
	}
	sessions, err := rt.sessionStore(ctx)
	if err != nil {
		return err
	}

	handler := chat.NewHandler(rt.pipeline, resumeStore, sessions, rt.logger)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for _, reply := range handler.Handle(ctx, chat.Update{User: chatUserID, Text: "/start"}) {
		fmt.Printf("%s\n\n", reply)
	}

	for {
		fmt.Print("> ")
		var message string
		var ok bool
		message, ok = readMessage(scanner)
		if !ok || message == "/quit" {
			break
		}
		if message == "" {
			continue
		}

		var update chat.Update
		update, err = buildUpdate(chatUserID, message)
		if err != nil {
			fmt.Printf("❌ %v\n\n", err)
			continue
		}

		for _, reply := range handler.Handle(ctx, update) {
			fmt.Printf("%s\n\n", reply)
		}

		if ctx.Err() != nil {
			break
		}
	}

	err = scanner.Err()
	if err != nil {
		err = errors.Wrap(err, "failed to read input")
	}
	return err
}

// readMessage reads one message. Commands are single lines; free text runs
// until an empty line so job descriptions can be pasted.
func readMessage(scanner *bufio.Scanner) (message string, ok bool) {
	if !scanner.Scan() {
		return message, ok
	}
	ok = true

	first := strings.TrimSpace(scanner.Text())
	if first == "" || strings.HasPrefix(first, "/") {
		message = first
		return message, ok
	}

	lines := []string{scanner.Text()}
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}

	message = strings.TrimSpace(strings.Join(lines, "\n"))
	return message, ok
}

// buildUpdate turns "/upload <path>" into a document update and anything
// else into a text update.
func buildUpdate(user, message string) (update chat.Update, err error) {
	update.User = user

	if !strings.HasPrefix(message, uploadCommand+" ") {
		update.Text = message
		return update, err
	}

	path := strings.TrimSpace(strings.TrimPrefix(message, uploadCommand))
	var content []byte
	content, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return update, err
	}

	update.Document = &chat.Document{Name: filepath.Base(path), Content: content}
	return update, err
}
