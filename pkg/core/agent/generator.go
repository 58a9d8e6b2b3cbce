package agent

import (
	"context"
	"fmt"
	"strings"

	"prompt_architect/pkg/core/llm"
	"prompt_architect/pkg/core/prompt"

	"go.uber.org/zap"
)

// Generator is the generation and refinement front used by the workbench.
type Generator struct {
	manager *Manager
	prompts *prompt.Registry
}

func NewGenerator(manager *Manager, prompts *prompt.Registry) *Generator {
	if prompts == nil {
		prompts = prompt.NewRegistry()
	}
	return &Generator{manager: manager, prompts: prompts}
}

// Generate runs the assembled prompt at the given temperature and returns the
// model output untouched. An empty string means the model produced no text.
func (g *Generator) Generate(ctx context.Context, assembled string, temperature float64) (string, error) {
	out, err := g.manager.ExecutePrompt(ctx, AgentGenerate, assembled, "", llm.Options{
		Temperature: llm.Temperature(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return out, nil
}

// Refine asks the model to rewrite the draft of one section, labelled by its
// human readable name. The trimmed response is returned, or current when the
// model answered with nothing.
func (g *Generator) Refine(ctx context.Context, label, current string) (string, error) {
	user, system, err := g.prompts.Render(prompt.RefineSectionID, prompt.RefineVars{
		Label:    label,
		Draft:    current,
		HasDraft: strings.TrimSpace(current) != "",
	})
	if err != nil {
		return "", fmt.Errorf("refine: %w", err)
	}

	out, err := g.manager.ExecutePrompt(ctx, AgentRefine, user, system, llm.Options{})
	if err != nil {
		return "", fmt.Errorf("refine %s: %w", label, err)
	}

	refined := strings.TrimSpace(out)
	if refined == "" {
		g.manager.logger.Warn("Refinement returned no text, keeping draft", zap.String("section", label))
		return current, nil
	}
	return refined, nil
}
