package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/chihoong/discord-summarizer-bot/src/ai/core"
	"github.com/chihoong/discord-summarizer-bot/src/command"
	"github.com/chihoong/discord-summarizer-bot/src/config"
	"github.com/chihoong/discord-summarizer-bot/src/discord"
	"github.com/chihoong/discord-summarizer-bot/src/history"
	"github.com/chihoong/discord-summarizer-bot/src/logging"
	"github.com/chihoong/discord-summarizer-bot/src/prompt"
	"github.com/chihoong/discord-summarizer-bot/src/types"
)

const helpText = `🤖 **Channel Summarizer Bot**

**Commands:**

` + "`!ping`" + ` - Test if the bot is responding
` + "`!help_summarizer`" + ` - Show this help message
` + "`!summarize [hours] [limit] [style]`" + ` - Summarize recent messages in the current channel
` + "`!summarize_channel <channel> [hours] [limit] [style]`" + ` - Summarize messages from a specific channel

**Styles:** comprehensive (default), brief, bullet, participants
**Defaults:** last 24 hours, up to 50 messages
**Bounds:** hours 1-168, limit 1-500 (out-of-range values are clamped)

**Examples:**
• ` + "`!summarize`" + ` - Summarize the last 24 hours
• ` + "`!summarize 12 50 brief`" + ` - Last 12 hours, max 50 messages, brief style
• ` + "`!summarize_channel general 6 100 bullet`" + ` - #general, last 6 hours, bullets`

// session is the slice of discordgo.Session the pipeline touches, narrowed so
// tests can substitute a fake.
type session interface {
	history.Provider
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
	GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error)
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}

	content := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(content, "!") {
		return
	}

	keyword := strings.ToLower(strings.TrimPrefix(strings.Fields(content)[0], "!"))
	switch keyword {
	case "ping":
		s.ChannelMessageSend(m.ChannelID, "🏓 Pong! Bot is working!")
	case "help_summarizer":
		s.ChannelMessageSend(m.ChannelID, helpText)
	case "summarize", "summarize_channel":
		b.dispatchSummarize(s, m, content)
	}
}

func (b *Bot) dispatchSummarize(s *discordgo.Session, m *discordgo.MessageCreate, content string) {
	if !b.limiter.CanUse(m.Author.ID) {
		wait := b.limiter.TimeUntilNext(m.Author.ID)
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf(
			"Please wait %d seconds before requesting another summary.", int(wait.Seconds())+1))
		return
	}

	inv := &invocation{
		session:     s,
		selfID:      s.State.User.ID,
		guildID:     m.GuildID,
		channelID:   m.ChannelID,
		channelName: channelNameFromState(s, m.ChannelID),
		userID:      m.Author.ID,
		raw:         content,
		ai:          b.ai,
		prompts:     b.prompts,
		now:         time.Now,
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		inv.run(b.ctx)
	}()
}

func channelNameFromState(s *discordgo.Session, channelID string) string {
	if ch, err := s.State.Channel(channelID); err == nil && ch.Name != "" {
		return ch.Name
	}
	return "this channel"
}

// invocation carries everything one pipeline run needs. Nothing here outlives
// the run or is shared with another invocation.
type invocation struct {
	session     session
	selfID      string
	guildID     string
	channelID   string
	channelName string
	userID      string
	raw         string
	ai          core.Client
	prompts     prompt.Builder
	now         func() time.Time
}

// run executes the pipeline: parse, fetch, build, summarize, format. Any
// stage failure skips straight to the failure reply.
func (inv *invocation) run(ctx context.Context) {
	req, err := command.Parse(inv.raw,
		command.Channel{ID: inv.channelID, Name: inv.channelName},
		command.Defaults{Hours: config.DefaultHours, Limit: config.DefaultLimit, Style: config.DefaultStyle},
		inv.resolveChannel)
	if err != nil {
		inv.reply(failureMessage(err))
		return
	}

	inv.session.ChannelTyping(inv.channelID)
	inv.reply(fmt.Sprintf("📊 Fetching messages from #%s (last %d hours)...", req.ChannelName, req.HoursBack))

	fetchCtx, cancelFetch := context.WithTimeout(ctx, config.HistoryTimeout)
	window, err := history.NewFetcher(inv.session, inv.selfID).Fetch(fetchCtx, req.ChannelID, req.HoursBack, req.MessageLimit)
	cancelFetch()
	if err != nil {
		log.Printf("history fetch failed for #%s: %v", req.ChannelName, err)
		if ctx.Err() != nil {
			return
		}
		inv.reply(failureMessage(err))
		return
	}
	if len(window) == 0 {
		inv.reply(fmt.Sprintf("No messages found in #%s for the specified time period.", req.ChannelName))
		return
	}

	inv.reply(fmt.Sprintf("🤖 Analyzing %d messages from #%s...", len(window), req.ChannelName))
	inv.session.ChannelTyping(inv.channelID)

	built := inv.prompts.Build(window, req.Style, req.ChannelName)

	summary, err := inv.ai.Summarize(ctx, built, optionsFor(req.Style))
	if err != nil {
		if errors.Is(err, core.ErrAuth) {
			logging.Alert("summarizer rejected credentials, key may be revoked: %v", err)
		}
		log.Printf("summarize failed for #%s: %v", req.ChannelName, err)
		if ctx.Err() != nil {
			return
		}
		inv.reply(failureMessage(err))
		return
	}

	if ctx.Err() != nil {
		// Shutting down; the result is no longer deliverable.
		return
	}

	response := inv.summaryHeader(req.ChannelName, len(window)) + discord.BeautifyForDiscord(summary)
	for _, chunk := range discord.BuildLongMessages(response, inv.userID) {
		inv.reply(chunk)
	}
}

func (inv *invocation) reply(msg string) {
	if _, err := inv.session.ChannelMessageSend(inv.channelID, msg); err != nil {
		log.Printf("send to channel %s failed: %v", inv.channelID, err)
	}
}

func (inv *invocation) summaryHeader(channelName string, count int) string {
	return fmt.Sprintf("🤖 **Summary of #%s**\n📊 %d messages analyzed\n⏰ Generated at %s\n\n",
		channelName, count, inv.now().UTC().Format("2006-01-02 15:04 UTC"))
}

// resolveChannel maps a channel token (name, #name or <#id> mention) to a
// text channel in the invoking guild.
func (inv *invocation) resolveChannel(ref string) (string, string, error) {
	wantID := ""
	if strings.HasPrefix(ref, "<#") && strings.HasSuffix(ref, ">") {
		wantID = strings.TrimSuffix(strings.TrimPrefix(ref, "<#"), ">")
	}
	wantName := strings.TrimPrefix(ref, "#")

	channels, err := inv.session.GuildChannels(inv.guildID)
	if err != nil {
		return "", "", fmt.Errorf("list guild channels: %w", err)
	}
	for _, ch := range channels {
		if ch.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		if ch.ID == wantID || strings.EqualFold(ch.Name, wantName) {
			return ch.ID, ch.Name, nil
		}
	}
	return "", "", fmt.Errorf("channel %q not found", ref)
}

// optionsFor bounds the completion length to the style's expected verbosity.
func optionsFor(style types.Style) core.Options {
	switch style {
	case types.StyleBrief:
		return core.Options{MaxCompletionTokens: 300}
	case types.StyleBullet:
		return core.Options{MaxCompletionTokens: 600}
	case types.StyleParticipants:
		return core.Options{MaxCompletionTokens: 800}
	default:
		return core.Options{MaxCompletionTokens: 1000}
	}
}

// failureMessage converts a pipeline error into a single user-facing chunk.
// It names the failure kind and nothing else: no credentials, no upstream
// bodies, no stack traces.
func failureMessage(err error) string {
	var verr *command.ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Sprintf("❌ %s. Try `!help_summarizer` for usage.", verr.Reason)
	case errors.Is(err, history.ErrPermissionDenied):
		return "❌ I need the Read Message History permission in that channel."
	case errors.Is(err, history.ErrChannelUnavailable):
		return "❌ I can't access that channel right now."
	case errors.Is(err, history.ErrRateLimited):
		return "❌ Discord is rate limiting history reads. Please try again in a moment."
	case errors.Is(err, core.ErrAuth):
		return "❌ The summarization service rejected our credentials. The operators have been notified."
	case errors.Is(err, core.ErrTimeout):
		return "❌ The summarization service timed out. Please try again."
	case errors.Is(err, core.ErrRateLimited):
		return "❌ The summarization service is busy. Please try again shortly."
	case errors.Is(err, core.ErrEmptyCompletion):
		return "❌ The summarization service returned no text. Please try again."
	case errors.Is(err, core.ErrUpstream):
		return "❌ The summarization service had a problem. Please try again later."
	default:
		return "❌ Something went wrong while preparing the summary. Please try again."
	}
}
