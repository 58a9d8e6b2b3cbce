package agent

import (
	"context"
	"errors"
	"testing"

	"prompt_architect/pkg/core/llm"
	"prompt_architect/pkg/core/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	name   string
	reply  string
	err    error
	calls  int
	prompt string
	system string
	opts   llm.Options
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) GenerateResponse(_ context.Context, p, system string, opts llm.Options) (string, error) {
	f.calls++
	f.prompt, f.system, f.opts = p, system, opts
	return f.reply, f.err
}

func newTestManager(cfg Config, providers ...*fakeProvider) *Manager {
	m := make(map[string]llm.Provider, len(providers))
	for _, p := range providers {
		m[p.name] = p
	}
	return NewManagerWithProviders(cfg, m, nil)
}

func TestGetProviderResolution(t *testing.T) {
	gemini := &fakeProvider{name: "gemini"}
	openai := &fakeProvider{name: "openai"}
	anth := &fakeProvider{name: "anthropic"}

	m := newTestManager(Config{
		ActiveProvider: "openai",
		Agents:         map[string]AgentConfig{AgentRefine: {Provider: "anthropic"}},
	}, gemini, openai, anth)

	assert.Equal(t, "anthropic", m.GetProvider(AgentRefine).Name())
	assert.Equal(t, "openai", m.GetProvider(AgentGenerate).Name())

	m2 := newTestManager(Config{ActiveProvider: "missing"}, gemini)
	assert.Equal(t, "gemini", m2.GetProvider(AgentGenerate).Name())
}

func TestSetGlobalProvider(t *testing.T) {
	m := newTestManager(Config{ActiveProvider: "gemini"}, &fakeProvider{name: "gemini"}, &fakeProvider{name: "deepseek"})

	require.NoError(t, m.SetGlobalProvider("deepseek"))
	assert.Equal(t, "deepseek", m.GetActiveProvider())
	assert.Error(t, m.SetGlobalProvider("nope"))
	assert.Equal(t, "deepseek", m.GetActiveProvider())
	assert.Equal(t, []string{"deepseek", "gemini"}, m.Available())
}

func TestExecutePromptFillsConfiguredModel(t *testing.T) {
	gemini := &fakeProvider{name: "gemini", reply: "ok"}
	m := newTestManager(Config{
		ActiveProvider: "gemini",
		Providers:      map[string]ProviderConfig{"gemini": {Model: "gemini-2.5-pro"}},
	}, gemini)

	out, err := m.ExecutePrompt(context.Background(), AgentGenerate, "hi", "", llm.Options{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "gemini-2.5-pro", gemini.opts.Model)
}

func TestNewManagerRegistersAllProviders(t *testing.T) {
	m := NewManager(Config{}, Credentials{}, nil)
	assert.Equal(t, "gemini", m.GetActiveProvider())
	assert.Equal(t, []string{"anthropic", "deepseek", "gemini", "gemini-legacy", "openai"}, m.Available())

	_, err := m.ExecutePrompt(context.Background(), AgentGenerate, "hi", "", llm.Options{})
	assert.True(t, errors.Is(err, llm.ErrMissingAPIKey))
}

func TestGeneratorGenerate(t *testing.T) {
	gemini := &fakeProvider{name: "gemini", reply: "  answer  "}
	g := NewGenerator(newTestManager(Config{ActiveProvider: "gemini"}, gemini), nil)

	out, err := g.Generate(context.Background(), "Act as a chef.", 0.3)
	require.NoError(t, err)
	assert.Equal(t, "  answer  ", out)
	assert.Equal(t, "Act as a chef.", gemini.prompt)
	require.NotNil(t, gemini.opts.Temperature)
	assert.InDelta(t, 0.3, *gemini.opts.Temperature, 1e-9)
}

func TestGeneratorGenerateError(t *testing.T) {
	gemini := &fakeProvider{name: "gemini", err: errors.New("quota")}
	g := NewGenerator(newTestManager(Config{}, gemini), nil)

	_, err := g.Generate(context.Background(), "x", 0.7)
	assert.ErrorContains(t, err, "quota")
}

func TestGeneratorRefine(t *testing.T) {
	gemini := &fakeProvider{name: "gemini", reply: "\n  Senior copywriter with 10 years of experience. \n"}
	g := NewGenerator(newTestManager(Config{}, gemini), prompt.NewRegistry())

	out, err := g.Refine(context.Background(), "Role", "copywriter")
	require.NoError(t, err)
	assert.Equal(t, "Senior copywriter with 10 years of experience.", out)
	assert.Contains(t, gemini.prompt, `section: "Role"`)
	assert.Contains(t, gemini.prompt, `"copywriter"`)
	assert.Nil(t, gemini.opts.Temperature)
}

func TestGeneratorRefineEmptyDraftAndReply(t *testing.T) {
	gemini := &fakeProvider{name: "gemini", reply: "   "}
	g := NewGenerator(newTestManager(Config{}, gemini), nil)

	out, err := g.Refine(context.Background(), "Context", "  ")
	require.NoError(t, err)
	assert.Equal(t, "  ", out)
	assert.Contains(t, gemini.prompt, "The field is empty")
}
