package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient generates text with Google Gemini.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a Gemini-backed Generator. Close releases it.
func NewGeminiClient(ctx context.Context, cfg ClientConfig) (client *GeminiClient, err error) {
	var c *genai.Client
	c, err = genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return client, err
	}

	client = &GeminiClient{client: c}
	return client, err
}

// Generate sends req as one GenerateContent call with the system prompt as
// system instruction.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (text string, err error) {
	system, turns := splitMessages(req.Messages)
	if len(turns) == 0 {
		err = &ServiceError{Provider: string(ProviderGemini), Message: "request has no user message"}
		return text, err
	}

	modelName := req.Model
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	parts := make([]genai.Part, 0, len(turns))
	for _, turn := range turns {
		parts = append(parts, genai.Text(turn))
	}

	resp, callErr := model.GenerateContent(ctx, parts...)
	if callErr != nil {
		err = &ServiceError{Provider: string(ProviderGemini), Message: "generate content failed", Cause: callErr}
		return text, err
	}

	text, err = geminiText(resp)
	return text, err
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() (err error) {
	if c.client != nil {
		err = c.client.Close()
	}
	return err
}

func geminiText(resp *genai.GenerateContentResponse) (text string, err error) {
	if resp == nil || len(resp.Candidates) == 0 {
		err = &ServiceError{Provider: string(ProviderGemini), Message: "no candidates in response"}
		return text, err
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		err = &ServiceError{Provider: string(ProviderGemini), Message: "no content in response"}
		return text, err
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			parts = append(parts, string(t))
		}
	}

	text = strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		err = &ServiceError{Provider: string(ProviderGemini), Message: "no text parts in response"}
	}
	return text, err
}
