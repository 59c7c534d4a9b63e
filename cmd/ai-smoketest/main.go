// ai-smoketest sends a canned transcript through a configured summarization
// provider. Useful for verifying keys and prompt behavior without running the
// Discord bot.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/chihoong/discord-summarizer-bot/src/ai/core"
	_ "github.com/chihoong/discord-summarizer-bot/src/ai/providers"
	"github.com/chihoong/discord-summarizer-bot/src/prompt"
	"github.com/chihoong/discord-summarizer-bot/src/types"
)

var (
	providerFlag = flag.String("provider", "claude", "Provider name (claude|openai)")
	modelFlag    = flag.String("model", "", "Override model name")
	styleFlag    = flag.String("style", "comprehensive", "Summary style")
	timeoutFlag  = flag.Duration("timeout", 60*time.Second, "Overall timeout")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	style, ok := types.ParseStyle(*styleFlag)
	if !ok {
		log.Fatalf("unrecognized style %q", *styleFlag)
	}

	client, err := core.NewClient(core.FactoryConfig{
		Provider:  *providerFlag,
		Model:     *modelFlag,
		ClaudeKey: os.Getenv("CLAUDE_API_KEY"),
		OpenAIKey: os.Getenv("OPENAI_API_KEY"),
	})
	if err != nil {
		log.Fatalf("client: %v", err)
	}

	built := prompt.NewBuilder(0).Build(sampleWindow(), style, "smoketest")

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	defer cancel()

	start := time.Now()
	text, err := client.Summarize(ctx, built, core.Options{})
	if err != nil {
		log.Fatalf("summarize: %v", err)
	}

	fmt.Printf("=== %s (%s, %s)\n%s\n", *providerFlag, style, time.Since(start).Round(time.Millisecond), text)
}

func sampleWindow() []types.ChatMessage {
	base := time.Now().UTC().Add(-2 * time.Hour)
	lines := []struct {
		author, body string
	}{
		{"alice", "Morning all, did the deploy go out last night?"},
		{"bob", "Yes, v2.3 shipped around midnight. One rollback on the EU region."},
		{"carol", "The rollback was a config typo, fixed in v2.3.1 this morning."},
		{"alice", "Great. Are we still on for the retro at 3pm?"},
		{"bob", "Retro confirmed for 3pm, same room as last week."},
	}

	window := make([]types.ChatMessage, len(lines))
	for i, l := range lines {
		window[i] = types.ChatMessage{
			Author:    l.author,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Body:      l.body,
		}
	}
	return window
}
