package core

import "context"

// Options controls model behavior; zero fields fall back to provider defaults.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int
	SystemPrompt        string
}

// Client is a provider-agnostic interface for the one LLM operation the bot
// needs.
type Client interface {
	// Summarize sends the prepared prompt and returns the generated text.
	// Failures wrap one of the sentinel errors in this package.
	Summarize(ctx context.Context, prompt string, opts Options) (string, error)
}
