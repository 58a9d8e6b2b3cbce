package llm

import (
	"context"
	"fmt"
	"math"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultDeepSeekModel = "deepseek-chat"
	DeepSeekBaseURL      = "https://api.deepseek.com/v1"
)

// OpenAICompatProvider serves OpenAI and any endpoint speaking the same
// chat completions protocol (DeepSeek).
type OpenAICompatProvider struct {
	ProviderName string
	APIKey       string
	BaseURL      string
	Model        string
}

var _ Provider = (*OpenAICompatProvider)(nil)

// NewDeepSeekProvider returns an OpenAI-compatible provider pointed at DeepSeek.
func NewDeepSeekProvider(apiKey, model string) *OpenAICompatProvider {
	if model == "" {
		model = DefaultDeepSeekModel
	}
	return &OpenAICompatProvider{
		ProviderName: "deepseek",
		APIKey:       apiKey,
		BaseURL:      DeepSeekBaseURL,
		Model:        model,
	}
}

func (p *OpenAICompatProvider) Name() string {
	if p.ProviderName == "" {
		return "openai"
	}
	return p.ProviderName
}

func (p *OpenAICompatProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, opts Options) (string, error) {
	if p.APIKey == "" {
		return "", fmt.Errorf("%s: %w", p.Name(), ErrMissingAPIKey)
	}

	config := openai.DefaultConfig(p.APIKey)
	if p.BaseURL != "" {
		config.BaseURL = p.BaseURL
	}
	client := openai.NewClientWithConfig(config)

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	model := opts.modelOr(p.Model)
	if model == "" {
		model = DefaultOpenAIModel
	}
	req := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}
	if opts.Temperature != nil {
		req.Temperature = float32(*opts.Temperature)
		// Temperature is omitempty in the request; a tiny non-zero value keeps 0 on the wire.
		if req.Temperature == 0 {
			req.Temperature = math.SmallestNonzeroFloat32
		}
	}

	resp, err := client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s API error: %w", p.Name(), err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
