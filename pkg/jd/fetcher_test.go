package jd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJD(t *testing.T, content string) (path string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestFetchSources(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lucidum/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<html><body><h1>Platform Engineer</h1><p>Acme runs payments in Go.</p></body></html>"))
	}))
	defer page.Close()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "file keeps text as written",
			input: writeJD(t, "Platform Engineer\n\nWe use Go and Kafka.\n"),
			want:  "Platform Engineer\n\nWe use Go and Kafka.\n",
		},
		{
			name:  "url is reduced to visible text",
			input: page.URL,
			want:  "Platform Engineer\nAcme runs payments in Go.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fetch(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetchErrors(t *testing.T) {
	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer notFound.Close()

	scriptOnly := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><script>render()</script></body></html>"))
	}))
	defer scriptOnly.Close()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "missing file", input: "/nonexistent/jd.txt", wantErr: "failed to fetch JD from file"},
		{name: "blank file", input: writeJD(t, " \n\t"), wantErr: "file is empty"},
		{name: "http error status", input: notFound.URL, wantErr: "status: 404"},
		{name: "page without visible text", input: scriptOnly.URL, wantErr: "empty after processing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FetchWithContext(context.Background(), tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFetchHonorsContext(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := FetchWithContext(ctx, slow.URL)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestReadAll(t *testing.T) {
	content, err := ReadAll(strings.NewReader("  Senior Go Developer\n"))
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Developer", content)

	_, err = ReadAll(strings.NewReader(" \n "))
	assert.Error(t, err)
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "inline tags stay on one line",
			input: "<p>Remote <strong>Go</strong> role</p>",
			want:  "Remote Go role",
		},
		{
			name:  "scripts and styles are dropped",
			input: "<style>.x{color:red}</style><p>Salary</p><script>track()</script><p>Benefits</p>",
			want:  "Salary\nBenefits",
		},
		{
			name:  "head is ignored and blocks become lines",
			input: "<html><head><title>Jobs</title></head><body><div><h1>Acme Inc.</h1><div>Senior   Go Developer</div></div></body></html>",
			want:  "Acme Inc.\nSenior Go Developer",
		},
		{
			name:  "list items",
			input: "<ul><li>Go</li><li>PostgreSQL</li></ul>",
			want:  "Go\nPostgreSQL",
		},
		{
			name:  "plain text",
			input: "Plain text",
			want:  "Plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractText(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
