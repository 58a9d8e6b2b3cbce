package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"prompt_architect/pkg/core/llm"

	"go.uber.org/zap"
)

// Agent types used when resolving per-purpose provider overrides.
const (
	AgentGenerate = "generate"
	AgentRefine   = "refine"
)

type Config struct {
	ActiveProvider string                    `yaml:"active_provider"`
	Providers      map[string]ProviderConfig `yaml:"providers"`
	Agents         map[string]AgentConfig    `yaml:"agents"`
}

type ProviderConfig struct {
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

type AgentConfig struct {
	Provider    string `yaml:"provider"` // Optional override
	Description string `yaml:"description"`
}

// Credentials carries the API keys read from the environment.
type Credentials struct {
	GeminiAPIKey    string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	DeepSeekAPIKey  string
	AnthropicAPIKey string
}

type Manager struct {
	mu        sync.RWMutex
	config    Config
	providers map[string]llm.Provider
	logger    *zap.Logger
}

// NewManager wires every known provider. Providers without a key are still
// registered and fail with llm.ErrMissingAPIKey when called.
func NewManager(config Config, creds Credentials, logger *zap.Logger) *Manager {
	if config.ActiveProvider == "" {
		config.ActiveProvider = "gemini"
	}
	model := func(name string) ProviderConfig { return config.Providers[name] }

	openaiBase := creds.OpenAIBaseURL
	if b := model("openai").BaseURL; b != "" {
		openaiBase = b
	}

	return NewManagerWithProviders(config, map[string]llm.Provider{
		"gemini":        &llm.GeminiProvider{APIKey: creds.GeminiAPIKey, Model: model("gemini").Model},
		"gemini-legacy": &llm.GeminiLegacyProvider{APIKey: creds.GeminiAPIKey, Model: model("gemini-legacy").Model},
		"openai": &llm.OpenAICompatProvider{
			ProviderName: "openai",
			APIKey:       creds.OpenAIAPIKey,
			BaseURL:      openaiBase,
			Model:        model("openai").Model,
		},
		"deepseek":  llm.NewDeepSeekProvider(creds.DeepSeekAPIKey, model("deepseek").Model),
		"anthropic": &llm.AnthropicProvider{APIKey: creds.AnthropicAPIKey, Model: model("anthropic").Model},
	}, logger)
}

// NewManagerWithProviders builds a manager over an explicit provider set.
func NewManagerWithProviders(config Config, providers map[string]llm.Provider, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{config: config, providers: providers, logger: logger}
}

func (m *Manager) GetProvider(agentType string) llm.Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// 1. Check for agent-specific override
	if agentConfig, ok := m.config.Agents[agentType]; ok && agentConfig.Provider != "" {
		if p, ok := m.providers[agentConfig.Provider]; ok {
			return p
		}
	}

	// 2. Use global active provider
	if p, ok := m.providers[m.config.ActiveProvider]; ok {
		return p
	}

	// 3. Fallback
	return m.providers["gemini"]
}

// ExecutePrompt sends prompt to the provider configured for agentType.
func (m *Manager) ExecutePrompt(ctx context.Context, agentType, prompt, systemPrompt string, opts llm.Options) (string, error) {
	provider := m.GetProvider(agentType)
	if provider == nil {
		return "", fmt.Errorf("no provider configured for %s", agentType)
	}
	if opts.Model == "" {
		m.mu.RLock()
		opts.Model = m.config.Providers[provider.Name()].Model
		m.mu.RUnlock()
	}

	m.logger.Debug("Executing prompt",
		zap.String("agent", agentType),
		zap.String("provider", provider.Name()),
		zap.Int("promptChars", len(prompt)),
	)
	return provider.GenerateResponse(ctx, prompt, systemPrompt, opts)
}

func (m *Manager) SetGlobalProvider(newProvider string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.providers[newProvider]; !ok {
		return fmt.Errorf("provider %s not found", newProvider)
	}
	m.config.ActiveProvider = newProvider
	m.logger.Info("Global provider switched", zap.String("provider", newProvider))
	return nil
}

func (m *Manager) GetActiveProvider() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.ActiveProvider
}

// Available lists registered provider names, sorted.
func (m *Manager) Available() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
