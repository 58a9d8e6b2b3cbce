package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider implements the Provider interface for Google's Gemini models.
type GeminiProvider struct {
	APIKey string
	Model  string
}

// Ensure interface compliance
var _ Provider = (*GeminiProvider)(nil)

func (p *GeminiProvider) Name() string { return "gemini" }

// GenerateResponse sends a generateContent request to the Gemini API using the official GenAI SDK.
// Thinking is disabled so that the preview stays fast.
func (p *GeminiProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, opts Options) (string, error) {
	if p.APIKey == "" {
		return "", fmt.Errorf("gemini: %w (GEMINI_API_KEY)", ErrMissingAPIKey)
	}

	model := opts.modelOr(p.Model)
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	}
	if opts.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*opts.Temperature))
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	return result.Text(), nil
}
