package chat

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/ivan-hilckov/lucidum/pkg/generator"
	"github.com/ivan-hilckov/lucidum/pkg/logging"
	"github.com/ivan-hilckov/lucidum/pkg/resumes"
	"github.com/ivan-hilckov/lucidum/pkg/session"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	mu       sync.Mutex
	requests []generator.Request
	result   generator.Result
}

func (s *stubGenerator) Generate(_ context.Context, req generator.Request) (result generator.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	result = s.result
	return result
}

type memoryResumes struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func (m *memoryResumes) Get(_ context.Context, user string) (text string, found bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return text, found, m.err
	}
	text, found = m.data[user]
	return text, found, err
}

func (m *memoryResumes) Put(_ context.Context, user, text string) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[user] = text
	return err
}

func newHandler(t *testing.T, result generator.Result) (h *Handler, gen *stubGenerator, store *memoryResumes, sessions *session.MemoryStore) {
	t.Helper()
	gen = &stubGenerator{result: result}
	store = &memoryResumes{data: map[string]string{}}
	sessions = session.NewMemoryStore()
	h = NewHandler(gen, store, sessions, logging.NewTest(t))
	return h, gen, store, sessions
}

func goodResult(score float64) (result generator.Result) {
	result = generator.Result{Text: "Dear hiring team, ...", QualityScore: score}
	return result
}

func TestFullConversation(t *testing.T) {
	h, gen, store, sessions := newHandler(t, goodResult(0.9))
	ctx := context.Background()

	assert.Equal(t, []string{MsgWelcome}, h.Handle(ctx, Update{User: "1", Text: "/start"}))
	assert.Equal(t, []string{MsgNeedResume}, h.Handle(ctx, Update{User: "1", Text: "/generate"}))
	assert.Equal(t, []string{MsgUploadResume}, h.Handle(ctx, Update{User: "1", Text: "/set_resume"}))

	replies := h.Handle(ctx, Update{User: "1", Document: &Document{Name: "cv.MD", Content: []byte("# Jane\nGo")}})
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Resume from 'cv.MD' saved successfully")
	assert.Equal(t, "# Jane\nGo", store.data["1"])

	state, err := sessions.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, session.Idle, state)

	assert.Equal(t, []string{MsgSendJob}, h.Handle(ctx, Update{User: "1", Text: "/generate@lucidum_bot"}))

	replies = h.Handle(ctx, Update{User: "1", Text: "Senior Go developer at Acme"})
	require.Len(t, replies, 2)
	assert.Equal(t, MsgGenerating, replies[0])
	assert.Equal(t, MsgLetterPrefix+"Dear hiring team, ...", replies[1])
	assert.NotContains(t, replies[1], "Quality")

	require.Len(t, gen.requests, 1)
	assert.Equal(t, "# Jane\nGo", gen.requests[0].Resume)
	assert.Equal(t, "Senior Go developer at Acme", gen.requests[0].JobDescription)

	state, err = sessions.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, session.Idle, state)
}

func TestLowQualityAnnotation(t *testing.T) {
	h, _, store, sessions := newHandler(t, goodResult(0.55))
	ctx := context.Background()
	store.data["2"] = "resume"
	require.NoError(t, sessions.Set(ctx, "2", session.AwaitingJobDescription))

	replies := h.Handle(ctx, Update{User: "2", Text: "Job text"})
	require.Len(t, replies, 2)
	assert.True(t, strings.HasSuffix(replies[1], "⚠️ Quality: 55%"))
}

func TestDocumentRules(t *testing.T) {
	tests := []struct {
		name  string
		doc   Document
		reply string
	}{
		{name: "not markdown", doc: Document{Name: "cv.pdf", Content: []byte("x")}, reply: "❌ Only .md files are accepted"},
		{name: "empty", doc: Document{Name: "cv.md"}, reply: "❌ File content is empty"},
		{name: "blank", doc: Document{Name: "cv.md", Content: []byte(" \n ")}, reply: "❌ File content is empty"},
		{name: "not utf8", doc: Document{Name: "cv.md", Content: []byte{0xff, 0xfe, 0x41}}, reply: "❌ File contains invalid characters"},
		{name: "no name", doc: Document{Content: []byte("x")}, reply: "❌ Invalid document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, store, sessions := newHandler(t, goodResult(1))
			ctx := context.Background()
			require.NoError(t, sessions.Set(ctx, "3", session.AwaitingResume))

			replies := h.Handle(ctx, Update{User: "3", Document: &tt.doc})
			assert.Equal(t, []string{tt.reply}, replies)
			assert.Empty(t, store.data)

			state, err := sessions.Get(ctx, "3")
			require.NoError(t, err)
			assert.Equal(t, session.AwaitingResume, state)
		})
	}
}

func TestDocumentWithoutSetResume(t *testing.T) {
	h, _, store, _ := newHandler(t, goodResult(1))

	replies := h.Handle(context.Background(), Update{User: "4", Document: &Document{Name: "cv.md", Content: []byte("x")}})
	assert.Equal(t, []string{MsgNotAwaiting}, replies)
	assert.Empty(t, store.data)
}

func TestTextOutsideFlow(t *testing.T) {
	h, gen, _, sessions := newHandler(t, goodResult(1))
	ctx := context.Background()

	assert.Equal(t, []string{MsgUnknownCommand}, h.Handle(ctx, Update{User: "5", Text: "hello"}))
	assert.Equal(t, []string{MsgUnknownCommand}, h.Handle(ctx, Update{User: "5", Text: "/help"}))
	assert.Empty(t, h.Handle(ctx, Update{User: "5", Text: "   "}))

	require.NoError(t, sessions.Set(ctx, "5", session.AwaitingResume))
	assert.Equal(t, []string{MsgResumeAsText}, h.Handle(ctx, Update{User: "5", Text: "my resume as text"}))
	assert.Empty(t, gen.requests)
}

func TestStorageFailures(t *testing.T) {
	h, _, store, sessions := newHandler(t, goodResult(1))
	ctx := context.Background()
	store.err = errors.New("disk full")

	assert.Equal(t, []string{MsgStorageError}, h.Handle(ctx, Update{User: "6", Text: "/generate"}))

	require.NoError(t, sessions.Set(ctx, "6", session.AwaitingResume))
	replies := h.Handle(ctx, Update{User: "6", Document: &Document{Name: "cv.md", Content: []byte("x")}})
	assert.Equal(t, []string{MsgSaveError}, replies)
}

func TestHandlerWithFileStore(t *testing.T) {
	gen := &stubGenerator{result: goodResult(0.95)}
	store := resumes.NewFileStore(t.TempDir() + "/resumes.json")
	h := NewHandler(gen, store, session.NewMemoryStore(), nil)
	ctx := context.Background()

	h.Handle(ctx, Update{User: "7", Text: "/set_resume"})
	h.Handle(ctx, Update{User: "7", Document: &Document{Name: "cv.md", Content: []byte("# Resume")}})
	h.Handle(ctx, Update{User: "7", Text: "/generate"})
	replies := h.Handle(ctx, Update{User: "7", Text: "Job"})

	require.Len(t, replies, 2)
	assert.Equal(t, "# Resume", gen.requests[0].Resume)
}
