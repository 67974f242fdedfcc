package llm

import (
	"context"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIClient generates text with the OpenAI Chat Completions API.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates an OpenAI-backed Generator.
func NewOpenAIClient(cfg ClientConfig) (client *OpenAIClient) {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client = &OpenAIClient{client: openai.NewClient(opts...)}
	return client
}

// Generate sends req as one chat completion.
func (c *OpenAIClient) Generate(ctx context.Context, req Request) (text string, err error) {
	model := req.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	resp, callErr := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.F(model),
		Messages:    openai.F(messages),
		Temperature: openai.F(req.Temperature),
		MaxTokens:   openai.F(int64(req.MaxTokens)),
	})
	if callErr != nil {
		err = &ServiceError{Provider: string(ProviderOpenAI), Message: "chat completion failed", Cause: callErr}
		return text, err
	}

	if len(resp.Choices) == 0 {
		err = &ServiceError{Provider: string(ProviderOpenAI), Message: "no choices in response"}
		return text, err
	}

	text = strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		err = &ServiceError{Provider: string(ProviderOpenAI), Message: "empty message content"}
		return text, err
	}

	return text, err
}
