package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ARCHIVE_DRIVER", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ArchivePostgres, cfg.ArchiveDriver)
	assert.Equal(t, "config/models.yaml", cfg.ModelsFile)
	assert.Equal(t, "resources", cfg.PromptsDir)
}

func TestLoadFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GENERATION_TIMEOUT=30s\n"), 0644))
	t.Setenv("GENERATION_TIMEOUT", "")
	os.Unsetenv("GENERATION_TIMEOUT")
	t.Setenv("ARCHIVE_DRIVER", "SQLite")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.GenerationTimeout)
	assert.Equal(t, ArchiveSQLite, cfg.ArchiveDriver)
}

func TestLoadRejectsUnknownArchiveDriver(t *testing.T) {
	t.Setenv("ARCHIVE_DRIVER", "mongo")
	_, err := Load("")
	assert.ErrorContains(t, err, "ARCHIVE_DRIVER")
}

func TestGetAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: "http://a.test, http://b.test"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.GetAllowedOrigins())
	assert.Nil(t, (&Config{}).GetAllowedOrigins())
}

func TestLoadModels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	content := `active_provider: openai
providers:
  openai:
    model: gpt-4o
agents:
  refine:
    provider: gemini
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadModels(path)
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.ActiveProvider)
	assert.Equal(t, "gpt-4o", cfg.Providers["openai"].Model)
	assert.Equal(t, "gemini", cfg.Agents["refine"].Provider)

	missing, err := LoadModels(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Empty(t, missing.ActiveProvider)
}
