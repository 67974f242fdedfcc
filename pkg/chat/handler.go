// Package chat implements the conversational front end: resume upload,
// job description intake and letter delivery, independent of the
// messaging transport.
package chat

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ivan-hilckov/lucidum/pkg/generator"
	"github.com/ivan-hilckov/lucidum/pkg/logging"
	"github.com/ivan-hilckov/lucidum/pkg/resumes"
	"github.com/ivan-hilckov/lucidum/pkg/session"
	"github.com/pkg/errors"
)

// QualityNoticeThreshold is the score below which replies carry a quality
// annotation.
const QualityNoticeThreshold = 0.8

// Replies sent to the user.
const (
	MsgWelcome = "🧠 Welcome to Lucidum!\n\n" +
		"Commands:\n" +
		"/set_resume - Save your resume (MD file only)\n" +
		"/generate - Create cover letter"
	MsgUploadResume   = "Please upload your resume as a .md file 📄\n(Only Markdown files are accepted)"
	MsgNeedResume     = "❌ Please set your resume first with /set_resume"
	MsgSendJob        = "Please send the job description to generate a cover letter:"
	MsgNotAwaiting    = "❌ Please use /set_resume command first to upload your resume."
	MsgResumeAsText   = "❌ Please upload your resume as a .md file, not as text.\nUse the document upload feature to send your .md file."
	MsgGenerating     = "🔄 Generating cover letter..."
	MsgStorageError   = "❌ Error accessing resume storage. Please try again."
	MsgSaveError      = "❌ Error saving resume. Please try again."
	MsgUnknownCommand = "❌ Unknown command. Please use:\n" +
		"/set_resume - to upload your resume\n" +
		"/generate - to create a cover letter"
	MsgLetterPrefix = "📄 Your cover letter:\n\n"
)

// Document is an uploaded file.
type Document struct {
	Name    string
	Content []byte
}

// Update is one incoming message. Exactly one of Text or Document is set.
type Update struct {
	User     string
	Text     string
	Document *Document
}

// LetterGenerator produces cover letters. *generator.Generator satisfies it.
type LetterGenerator interface {
	Generate(ctx context.Context, req generator.Request) (result generator.Result)
}

// Handler routes updates through the session state machine. It is safe for
// concurrent use when its stores are.
type Handler struct {
	gen      LetterGenerator
	resumes  resumes.Store
	sessions session.Store
	logger   *logging.Logger
}

// NewHandler creates a Handler. A nil logger discards output.
func NewHandler(gen LetterGenerator, resumeStore resumes.Store, sessions session.Store, logger *logging.Logger) (h *Handler) {
	if logger == nil {
		logger = logging.NewNop()
	}
	h = &Handler{gen: gen, resumes: resumeStore, sessions: sessions, logger: logger}
	return h
}

// Handle processes one update and returns the replies to send, in order.
// Failures are reported to the user as replies.
func (h *Handler) Handle(ctx context.Context, u Update) (replies []string) {
	logger := h.logger.With("user", u.User)

	if u.Document != nil {
		replies = h.handleDocument(ctx, logger, u.User, *u.Document)
		return replies
	}

	text := strings.TrimSpace(u.Text)
	if text == "" {
		return replies
	}

	if command, ok := parseCommand(text); ok {
		replies = h.handleCommand(ctx, logger, u.User, command)
		return replies
	}

	replies = h.handleText(ctx, logger, u.User, text)
	return replies
}

// parseCommand returns "/name" for "/name@bot args".
func parseCommand(text string) (command string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return command, ok
	}
	command = strings.Fields(text)[0]
	if i := strings.Index(command, "@"); i > 0 {
		command = command[:i]
	}
	ok = true
	return command, ok
}

func (h *Handler) handleCommand(ctx context.Context, logger *logging.Logger, user, command string) (replies []string) {
	switch command {
	case "/start":
		replies = []string{MsgWelcome}

	case "/set_resume":
		if err := h.sessions.Set(ctx, user, session.AwaitingResume); err != nil {
			logger.Error("failed to update session", "error", err)
			replies = []string{MsgStorageError}
			return replies
		}
		replies = []string{MsgUploadResume}

	case "/generate":
		_, found, err := h.resumes.Get(ctx, user)
		if err != nil {
			logger.Error("failed to read resume", "error", err)
			replies = []string{MsgStorageError}
			return replies
		}
		if !found {
			replies = []string{MsgNeedResume}
			return replies
		}
		if err = h.sessions.Set(ctx, user, session.AwaitingJobDescription); err != nil {
			logger.Error("failed to update session", "error", err)
			replies = []string{MsgStorageError}
			return replies
		}
		replies = []string{MsgSendJob}

	default:
		replies = []string{MsgUnknownCommand}
	}

	return replies
}

func (h *Handler) handleDocument(ctx context.Context, logger *logging.Logger, user string, doc Document) (replies []string) {
	state, err := h.sessions.Get(ctx, user)
	if err != nil {
		logger.Error("failed to read session", "error", err)
		replies = []string{MsgStorageError}
		return replies
	}
	if state != session.AwaitingResume {
		replies = []string{MsgNotAwaiting}
		return replies
	}

	text, err := ValidateDocument(doc)
	if err != nil {
		replies = []string{"❌ " + sentence(err.Error())}
		return replies
	}

	if err = h.resumes.Put(ctx, user, text); err != nil {
		logger.Error("failed to save resume", "error", err)
		replies = []string{MsgSaveError}
		return replies
	}
	if err = h.sessions.Clear(ctx, user); err != nil {
		logger.Warn("failed to clear session", "error", err)
	}

	logger.Info("resume saved", "file", doc.Name, "bytes", len(doc.Content))
	replies = []string{fmt.Sprintf("✅ Resume from '%s' saved successfully!\nUse /generate to create cover letters.", doc.Name)}
	return replies
}

// ValidateDocument accepts only non-empty UTF-8 Markdown files and returns
// their text.
func ValidateDocument(doc Document) (text string, err error) {
	if doc.Name == "" {
		err = errors.New("invalid document")
		return text, err
	}
	if !strings.EqualFold(filepath.Ext(doc.Name), ".md") {
		err = errors.New("only .md files are accepted")
		return text, err
	}
	if len(doc.Content) == 0 || strings.TrimSpace(string(doc.Content)) == "" {
		err = errors.New("file content is empty")
		return text, err
	}
	if !utf8.Valid(doc.Content) {
		err = errors.New("file contains invalid characters")
		return text, err
	}

	text = string(doc.Content)
	return text, err
}

func sentence(s string) (out string) {
	r, size := utf8.DecodeRuneInString(s)
	out = strings.ToUpper(string(r)) + s[size:]
	return out
}

func (h *Handler) handleText(ctx context.Context, logger *logging.Logger, user, text string) (replies []string) {
	state, err := h.sessions.Get(ctx, user)
	if err != nil {
		logger.Error("failed to read session", "error", err)
		replies = []string{MsgStorageError}
		return replies
	}

	switch state {
	case session.AwaitingResume:
		replies = []string{MsgResumeAsText}
		return replies
	case session.AwaitingJobDescription:
	default:
		replies = []string{MsgUnknownCommand}
		return replies
	}

	resume, found, err := h.resumes.Get(ctx, user)
	if err != nil {
		logger.Error("failed to read resume", "error", err)
		replies = []string{MsgStorageError}
		return replies
	}
	if !found {
		replies = []string{MsgNeedResume}
		return replies
	}

	result := h.gen.Generate(ctx, generator.Request{Resume: resume, JobDescription: text})
	if err = h.sessions.Clear(ctx, user); err != nil {
		logger.Warn("failed to clear session", "error", err)
	}

	if result.QualityScore < QualityNoticeThreshold {
		logger.Info("low quality cover letter", "quality", result.QualityScore)
	}

	replies = []string{MsgGenerating, FormatLetter(result)}
	return replies
}

// FormatLetter renders a result as a chat reply, with a quality note when
// the score is below QualityNoticeThreshold.
func FormatLetter(result generator.Result) (reply string) {
	reply = MsgLetterPrefix + result.Text
	if result.QualityScore < QualityNoticeThreshold {
		reply += fmt.Sprintf("\n\n⚠️ Quality: %.0f%%", result.QualityScore*100)
	}
	return reply
}
