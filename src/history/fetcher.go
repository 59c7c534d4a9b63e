package history

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/chihoong/discord-summarizer-bot/src/types"
)

// Fetch failure kinds, distinguished so the dispatcher can reply with
// actionable text.
var (
	ErrPermissionDenied   = errors.New("history: missing read message history permission")
	ErrChannelUnavailable = errors.New("history: channel unavailable")
	ErrRateLimited        = errors.New("history: rate limited by Discord")
)

// Discord caps ChannelMessages at 100 per call.
const pageSize = 100

// Provider is the slice of discordgo.Session the fetcher needs.
type Provider interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
}

// Fetcher reads a bounded window of channel history. It holds no state across
// invocations beyond the session handle and the bot's own user ID.
type Fetcher struct {
	provider Provider
	selfID   string
}

func NewFetcher(provider Provider, selfID string) *Fetcher {
	return &Fetcher{provider: provider, selfID: selfID}
}

// Fetch collects up to limit messages newer than now-hoursBack, returned in
// chronological order. An empty, nil-error result means there was nothing in
// the window; that is not a failure.
func (f *Fetcher) Fetch(ctx context.Context, channelID string, hoursBack, limit int) ([]types.ChatMessage, error) {
	cutoff := time.Now().UTC().Add(-time.Duration(hoursBack) * time.Hour)

	var collected []types.ChatMessage
	beforeID := ""

	for len(collected) < limit {
		page, err := f.provider.ChannelMessages(channelID, pageSize, beforeID, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, classify(err)
		}
		if len(page) == 0 {
			break
		}

		// Pages arrive newest first, so the first message past the cutoff
		// means everything after it is out of the window too.
		reachedCutoff := false
		for _, msg := range page {
			if msg.Timestamp.Before(cutoff) {
				reachedCutoff = true
				break
			}
			if f.skip(msg) {
				continue
			}
			collected = append(collected, convert(msg))
			if len(collected) == limit {
				break
			}
		}

		if reachedCutoff || len(page) < pageSize {
			break
		}
		beforeID = page[len(page)-1].ID
	}

	// Reverse newest-first collection into transcript order.
	for i, j := 0, len(collected)-1; i < j; i, j = i+1, j-1 {
		collected[i], collected[j] = collected[j], collected[i]
	}
	return collected, nil
}

// skip drops our own messages, other bots, and service messages (joins, pins)
// that would pollute the summary.
func (f *Fetcher) skip(msg *discordgo.Message) bool {
	if msg.Author == nil || msg.Author.ID == f.selfID || msg.Author.Bot {
		return true
	}
	if msg.Type != discordgo.MessageTypeDefault && msg.Type != discordgo.MessageTypeReply {
		return true
	}
	return false
}

func convert(msg *discordgo.Message) types.ChatMessage {
	author := msg.Author.Username
	if msg.Author.GlobalName != "" {
		author = msg.Author.GlobalName
	}
	return types.ChatMessage{
		Author:    author,
		Timestamp: msg.Timestamp.UTC(),
		Body:      msg.Content,
		Extra:     describeExtras(msg),
	}
}

func describeExtras(msg *discordgo.Message) string {
	var parts []string
	for _, att := range msg.Attachments {
		parts = append(parts, fmt.Sprintf("[attachment: %s]", att.Filename))
	}
	for _, embed := range msg.Embeds {
		if embed.Title != "" {
			parts = append(parts, fmt.Sprintf("[embed: %s]", embed.Title))
		}
	}
	return strings.Join(parts, " ")
}

func classify(err error) error {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		switch rest.Response.StatusCode {
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrChannelUnavailable, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
	}
	return fmt.Errorf("history: fetch: %w", err)
}
