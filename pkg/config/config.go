package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"prompt_architect/pkg/core/agent"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Archive drivers.
const (
	ArchivePostgres = "postgres"
	ArchiveSQLite   = "sqlite"
	ArchiveNone     = "none"
)

// Config holds the process configuration read from the environment.
type Config struct {
	Env         string `envconfig:"ENV" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`
	ServerPort  string `envconfig:"SERVER_PORT" default:"8080"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	DatabaseURL       string `envconfig:"DATABASE_URL"`
	MigrateOnStart    bool   `envconfig:"MIGRATE_ON_START" default:"true"`
	ArchiveDriver     string `envconfig:"ARCHIVE_DRIVER" default:"postgres"`
	ArchiveSQLitePath string `envconfig:"ARCHIVE_SQLITE_PATH" default:"prompts.db"`

	JWTSecret  string `envconfig:"SUPABASE_JWT_SECRET"`
	AdminEmail string `envconfig:"ADMIN_EMAIL"`

	GeminiAPIKey      string        `envconfig:"GEMINI_API_KEY"`
	OpenAIAPIKey      string        `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL     string        `envconfig:"OPENAI_BASE_URL"`
	DeepSeekAPIKey    string        `envconfig:"DEEPSEEK_API_KEY"`
	AnthropicAPIKey   string        `envconfig:"ANTHROPIC_API_KEY"`
	GenerationTimeout time.Duration `envconfig:"GENERATION_TIMEOUT" default:"0s"`

	ModelsFile string `envconfig:"MODELS_FILE" default:"config/models.yaml"`
	PromptsDir string `envconfig:"PROMPTS_DIR" default:"resources"`
}

// Load reads envFile when it exists, then the environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("loading %s: %w", envFile, err)
			}
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("error processing env vars: %w", err)
	}
	cfg.ArchiveDriver = strings.ToLower(strings.TrimSpace(cfg.ArchiveDriver))
	switch cfg.ArchiveDriver {
	case "":
		cfg.ArchiveDriver = ArchivePostgres
	case ArchivePostgres, ArchiveSQLite, ArchiveNone:
	default:
		return nil, fmt.Errorf("ARCHIVE_DRIVER: unsupported value %q", cfg.ArchiveDriver)
	}
	return &cfg, nil
}

// GetAllowedOrigins splits CORSAllowedOrigins on commas.
func (c *Config) GetAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(c.CORSAllowedOrigins, " ", ""), ",")
}

// Credentials returns the provider API keys.
func (c *Config) Credentials() agent.Credentials {
	return agent.Credentials{
		GeminiAPIKey:    c.GeminiAPIKey,
		OpenAIAPIKey:    c.OpenAIAPIKey,
		OpenAIBaseURL:   c.OpenAIBaseURL,
		DeepSeekAPIKey:  c.DeepSeekAPIKey,
		AnthropicAPIKey: c.AnthropicAPIKey,
	}
}

// LoadModels parses the provider selection file. A missing file yields the
// zero config, which selects gemini with its default model.
func LoadModels(path string) (agent.Config, error) {
	var cfg agent.Config
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}
