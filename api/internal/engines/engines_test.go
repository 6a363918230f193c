package engines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policy-memo/api/internal/chat"
	"policy-memo/api/internal/config"
)

func TestFromConfigRegistersConfiguredBackends(t *testing.T) {
	engs := FromConfig(&config.Config{
		DefaultLLM:           "gemini",
		OpenAIAPIKey:         "sk",
		OpenAIModel:          "gpt-4o-mini",
		OpenAIPreferredModel: "gpt-4.1",
		GeminiAPIKey:         "g",
		GeminiModel:          "gemini-2.5-flash",
		GeminiPreferredModel: "gemini-2.5-pro",
	})
	assert.Equal(t, []string{"gemini", "gpt", "openai"}, engs.Names())

	inv, err := engs.Get("")
	require.NoError(t, err)
	assert.Equal(t, "gemini", inv.Name())
	assert.Equal(t, "gemini-2.5-pro", inv.PreferredModel)

	inv, err = engs.Get("openai")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", inv.PreferredModel)
}

func TestFromConfigSkipsMissingKeys(t *testing.T) {
	engs := FromConfig(&config.Config{DefaultLLM: "gpt", GeminiAPIKey: "g", GeminiModel: "m"})
	_, err := engs.Get("gpt")
	assert.ErrorIs(t, err, chat.ErrUnknownBackend)

	inv, err := engs.Get("")
	require.NoError(t, err)
	assert.Equal(t, "gemini", inv.Name())
}
