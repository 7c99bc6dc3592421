package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cyoa-server/shared/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateSecrets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	prev := utils.SecretsDir
	utils.SecretsDir = dir
	t.Cleanup(func() { utils.SecretsDir = prev })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolateSecrets(t)
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("GOOGLE_API_KEY", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.HTTPPort)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, 60*time.Second, cfg.AI.GenerationTimeout)
	assert.Equal(t, "admin", cfg.Admin.User)
	assert.Equal(t, "change-me", cfg.Admin.Password)
	assert.Equal(t, uint(30), cfg.HTTP.RateLimitPerMinute)
	assert.False(t, cfg.HasTextCredential())
}

func TestLoad_SecretsOverrideEnv(t *testing.T) {
	dir := isolateSecrets(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "google_api_key"), []byte("file-key\n"), 0o600))
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("GOOGLE_API_KEY", "env-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.AI.GoogleAPIKey)
	assert.True(t, cfg.HasTextCredential())
}

func TestLoad_EnvFile(t *testing.T) {
	isolateSecrets(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CYOA_TEST_ONLY=1\nAI_PROVIDER=ollama\nAI_BASE_URL=http://localhost:11434\n"), 0o600))
	t.Setenv("STORAGE_DRIVER", "memory")
	// godotenv never overrides variables that are already set; register cleanup for the ones it sets.
	t.Setenv("AI_PROVIDER", "")
	os.Unsetenv("AI_PROVIDER")
	t.Setenv("AI_BASE_URL", "")
	os.Unsetenv("AI_BASE_URL")
	t.Setenv("CYOA_TEST_ONLY", "")
	os.Unsetenv("CYOA_TEST_ONLY")

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, cfg.AI.Provider)
	assert.True(t, cfg.HasTextCredential())
}

func TestValidate(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Driver: "postgres"}, AI: AIConfig{Provider: "gemini"}}
	assert.Error(t, cfg.Validate())

	cfg.Storage.DatabaseURL = "postgres://localhost/cyoa"
	assert.NoError(t, cfg.Validate())

	cfg.AI.Provider = "watson"
	assert.Error(t, cfg.Validate())

	cfg = &Config{Storage: StorageConfig{Driver: "cassandra"}, AI: AIConfig{Provider: "gemini"}}
	assert.Error(t, cfg.Validate())
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{HTTP: HTTPConfig{CORSAllowedOrigins: []string{" http://a.test ", "", "http://b.test"}}}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())
}
