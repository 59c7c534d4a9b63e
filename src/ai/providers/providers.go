// Package providers registers the concrete AI providers with the core
// factory. Import it for side effects.
package providers

import (
	"github.com/chihoong/discord-summarizer-bot/src/ai/anthropic"
	"github.com/chihoong/discord-summarizer-bot/src/ai/core"
	"github.com/chihoong/discord-summarizer-bot/src/ai/openai"
)

func init() {
	core.RegisterProvider("claude", anthropic.NewClient, "anthropic")
	core.RegisterProvider("openai", openai.NewClient, "gpt")
}
