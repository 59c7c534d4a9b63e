package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/chihoong/discord-summarizer-bot/src/ai/core"
	_ "github.com/chihoong/discord-summarizer-bot/src/ai/providers"
	"github.com/chihoong/discord-summarizer-bot/src/bot"
	"github.com/chihoong/discord-summarizer-bot/src/config"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	aiClient, err := core.NewClient(core.FactoryConfig{
		Provider:  cfg.AIProvider,
		Model:     cfg.Model,
		ClaudeKey: cfg.ClaudeKey,
		OpenAIKey: cfg.OpenAIKey,
	})
	if err != nil {
		log.Fatalf("ai client: %v", err)
	}

	b, err := bot.New(cfg, aiClient)
	if err != nil {
		log.Fatalf("create bot: %v", err)
	}
	if err := b.Start(); err != nil {
		log.Fatalf("start bot: %v", err)
	}

	log.Println("Summarizer bot is running. Press CTRL-C to exit.")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	b.Stop()
	log.Println("Summarizer bot stopped gracefully")
}
