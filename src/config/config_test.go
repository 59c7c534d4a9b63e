package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadReadsFallbackEnvNames(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DISCORD_BOT_TOKEN", "tok-2")
	t.Setenv("CLAUDE_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "key-2")

	cfg := Load()
	require.Equal(t, "tok-2", cfg.Token)
	require.Equal(t, "key-2", cfg.ClaudeKey)
	require.Equal(t, "claude", cfg.AIProvider)
}

func TestValidateRequiresToken(t *testing.T) {
	cfg := Config{AIProvider: "claude", ClaudeKey: "k"}
	require.Error(t, cfg.Validate())
}

func TestValidateRequiresKeyForSelectedProvider(t *testing.T) {
	cfg := Config{Token: "t", AIProvider: "claude"}
	require.Error(t, cfg.Validate())

	cfg.ClaudeKey = "k"
	require.NoError(t, cfg.Validate())

	cfg = Config{Token: "t", AIProvider: "openai"}
	require.Error(t, cfg.Validate())

	cfg.OpenAIKey = "k"
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := Config{Token: "t", AIProvider: "palm"}
	require.Error(t, cfg.Validate())
}
