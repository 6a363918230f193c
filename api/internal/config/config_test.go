package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "DEFAULT_LLM", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_PREFERRED_MODEL",
		"OPENAI_BASE_URL", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_PREFERRED_MODEL",
		"DATABASE_URL", "TELEGRAM_BOT_TOKEN", "WEBHOOK_URL",
	} {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "gpt", cfg.DefaultLLM)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, "gpt-4.1", cfg.OpenAIPreferredModel)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "gemini-2.5-pro", cfg.GeminiPreferredModel)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("DEFAULT_LLM", "gemini")
	t.Setenv("GEMINI_PREFERRED_MODEL", " gemini-exp ")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.DefaultLLM)
	assert.Equal(t, "gemini-exp", cfg.GeminiPreferredModel)
}

func TestLoadRequiresAKey(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	assert.Error(t, err)
}
