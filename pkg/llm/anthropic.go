package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient generates text with the Anthropic Messages API.
type AnthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient creates an Anthropic-backed Generator.
func NewAnthropicClient(cfg ClientConfig) (client *AnthropicClient) {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client = &AnthropicClient{client: anthropic.NewClient(opts...)}
	return client
}

// Generate sends req as a single Messages call.
func (c *AnthropicClient) Generate(ctx context.Context, req Request) (text string, err error) {
	system, turns := splitMessages(req.Messages)
	if len(turns) == 0 {
		err = &ServiceError{Provider: string(ProviderAnthropic), Message: "request has no user message"}
		return text, err
	}

	model := req.Model
	if model == "" {
		model = DefaultAnthropicModel
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	for _, turn := range turns {
		params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(turn)))
	}

	msg, callErr := c.client.Messages.New(ctx, params)
	if callErr != nil {
		err = &ServiceError{Provider: string(ProviderAnthropic), Message: "messages request failed", Cause: callErr}
		return text, err
	}

	var parts []string
	for _, block := range msg.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}

	text = strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		err = &ServiceError{Provider: string(ProviderAnthropic), Message: "no text content in response"}
		return text, err
	}

	return text, err
}
