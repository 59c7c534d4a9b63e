package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chihoong/discord-summarizer-bot/src/types"
)

// Defaults applied when a summarize command omits arguments.
const (
	DefaultHours = 24
	DefaultLimit = 50
	DefaultStyle = types.StyleComprehensive
)

// Pipeline timeouts and budgets.
const (
	HistoryTimeout   = 10 * time.Second
	PromptCharBudget = 12000
	CommandCooldown  = 30 * time.Second
)

// Config holds the process-wide credentials and knobs. It is built once at
// startup and read-only afterwards.
type Config struct {
	Token      string
	AIProvider string
	ClaudeKey  string
	OpenAIKey  string
	Model      string
}

// Load reads configuration from the environment. Validation is separate so
// main decides how to fail.
func Load() Config {
	return Config{
		Token:      firstEnv("DISCORD_TOKEN", "DISCORD_BOT_TOKEN"),
		AIProvider: getenv("AI_PROVIDER", "claude"),
		ClaudeKey:  firstEnv("CLAUDE_API_KEY", "ANTHROPIC_API_KEY"),
		OpenAIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:      os.Getenv("SUMMARIZER_MODEL"),
	}
}

// Validate checks the startup contract: a Discord token and an API key for
// the selected provider must both be present.
func (c Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN not set")
	}
	switch strings.ToLower(c.AIProvider) {
	case "claude", "anthropic":
		if c.ClaudeKey == "" {
			return fmt.Errorf("CLAUDE_API_KEY not set")
		}
	case "openai", "gpt":
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY not set")
		}
	default:
		return fmt.Errorf("unknown AI provider %q", c.AIProvider)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
