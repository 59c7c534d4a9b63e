package bot

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/chihoong/discord-summarizer-bot/src/ai/core"
	"github.com/chihoong/discord-summarizer-bot/src/config"
	"github.com/chihoong/discord-summarizer-bot/src/prompt"
)

// Bot wires the Discord session to the summarization pipeline. It holds no
// per-invocation state; each command runs in its own goroutine.
type Bot struct {
	session *discordgo.Session
	ai      core.Client
	limiter *RateLimiter
	prompts prompt.Builder
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func New(cfg config.Config, aiClient core.Client) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	b := &Bot{
		session: dg,
		ai:      aiClient,
		limiter: NewRateLimiter(config.CommandCooldown),
		prompts: prompt.NewBuilder(config.PromptCharBudget),
		ctx:     ctx,
		cancel:  cancel,
	}

	dg.AddHandler(b.handleReady)
	dg.AddHandler(b.handleMessageCreate)

	dg.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuilds

	return b, nil
}

func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord connection: %w", err)
	}
	b.limiter.StartCleanup(b.ctx, 5*time.Minute)
	return nil
}

// Stop abandons in-flight invocations and closes the session. Results that
// arrive after cancellation are discarded, not retried.
func (b *Bot) Stop() {
	b.cancel()
	b.wg.Wait()
	b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Printf("Summarizer bot logged in as %s", event.User.Username)
}
