package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiLegacyProvider talks to Gemini through the older generative-ai-go SDK.
// Some API keys are still provisioned against it.
type GeminiLegacyProvider struct {
	APIKey string
	Model  string
}

var _ Provider = (*GeminiLegacyProvider)(nil)

func (p *GeminiLegacyProvider) Name() string { return "gemini-legacy" }

func (p *GeminiLegacyProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, opts Options) (string, error) {
	if p.APIKey == "" {
		return "", fmt.Errorf("gemini-legacy: %w (GEMINI_API_KEY)", ErrMissingAPIKey)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.APIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	modelName := opts.modelOr(p.Model)
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	model := client.GenerativeModel(modelName)
	if opts.Temperature != nil {
		model.SetTemperature(float32(*opts.Temperature))
	}
	if systemPrompt != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini-legacy generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}
