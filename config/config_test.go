package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "ragchat", cfg.DatabaseName)
	assert.Equal(t, 20, cfg.HistoryWindow)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "gemini-1.5-pro", cfg.LLMModel)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.InDelta(t, 0.2, cfg.LLMTemperature, 0.0001)
	assert.True(t, cfg.IngestAsync)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LLM_PROVIDER", "groq")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("HISTORY_WINDOW", "8")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "groq", cfg.LLMProvider)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.LLMModel)
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
	assert.Equal(t, 8, cfg.HistoryWindow)
}

func TestLoad_ExplicitModelWins(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LLM_PROVIDER", "groq")
	t.Setenv("LLM_MODEL", "mixtral-8x7b")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "mixtral-8x7b", cfg.LLMModel)
}
