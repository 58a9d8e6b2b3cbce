package llm

import (
	"context"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

const DefaultAnthropicModel = "claude-3-5-haiku-latest"

type AnthropicProvider struct {
	APIKey    string
	Model     string
	MaxTokens int
}

var _ Provider = (*AnthropicProvider)(nil)

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, opts Options) (string, error) {
	if p.APIKey == "" {
		return "", fmt.Errorf("anthropic: %w (ANTHROPIC_API_KEY)", ErrMissingAPIKey)
	}

	model := opts.modelOr(p.Model)
	if model == "" {
		model = DefaultAnthropicModel
	}
	maxTokens := p.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	req := anthropic.MessagesRequest{
		Model: anthropic.Model(model),
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
		MaxTokens: maxTokens,
	}
	if systemPrompt != "" {
		req.System = systemPrompt
	}
	if opts.Temperature != nil {
		t := float32(*opts.Temperature)
		req.Temperature = &t
	}

	client := anthropic.NewClient(p.APIKey)
	resp, err := client.CreateMessages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			text += *block.Text
		}
	}
	return text, nil
}
