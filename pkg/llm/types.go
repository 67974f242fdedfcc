package llm

import (
	"context"
	"fmt"
	"strings"
)

// Role tags a message for the text generation service.
type Role string

const (
	// RoleSystem carries persona and rules.
	RoleSystem Role = "system"
	// RoleUser carries the task payload.
	RoleUser Role = "user"
)

// Message is one role-tagged message in a generation request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is a single text generation call.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// Generator is the text generation capability every pipeline stage depends on.
type Generator interface {
	Generate(ctx context.Context, req Request) (text string, err error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (text string, err error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (text string, err error) {
	text, err = f(ctx, req)
	return text, err
}

// ServiceError is returned by providers for transport failures, API errors
// and replies without usable text.
type ServiceError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

// System builds a system message.
func System(content string) (msg Message) {
	msg = Message{Role: RoleSystem, Content: content}
	return msg
}

// User builds a user message.
func User(content string) (msg Message) {
	msg = Message{Role: RoleUser, Content: content}
	return msg
}

// splitMessages separates system content from user turns. Providers that
// take the system prompt out of band (Anthropic, Gemini) use this.
func splitMessages(messages []Message) (system string, turns []string) {
	var systemParts []string
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			systemParts = append(systemParts, m.Content)
		default:
			turns = append(turns, m.Content)
		}
	}
	system = strings.Join(systemParts, "\n\n")
	return system, turns
}
