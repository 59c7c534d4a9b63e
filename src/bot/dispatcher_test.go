package bot

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"github.com/chihoong/discord-summarizer-bot/src/ai/core"
	"github.com/chihoong/discord-summarizer-bot/src/history"
	"github.com/chihoong/discord-summarizer-bot/src/prompt"
	"github.com/chihoong/discord-summarizer-bot/src/types"
)

type fakeSession struct {
	mu           sync.Mutex
	sent         []string
	pages        map[string][]*discordgo.Message
	channels     []*discordgo.Channel
	historyErr   error
	historyCalls int
}

func (f *fakeSession) ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.pages[beforeID], nil
}

func (f *fakeSession) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, content)
	return &discordgo.Message{Content: content}, nil
}

func (f *fakeSession) ChannelTyping(channelID string, options ...discordgo.RequestOption) error {
	return nil
}

func (f *fakeSession) GuildChannels(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Channel, error) {
	return f.channels, nil
}

func (f *fakeSession) allSent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.sent, "\n---\n")
}

type fakeAI struct {
	mu      sync.Mutex
	calls   int
	text    string
	err     error
	prompts []string
}

func (f *fakeAI) Summarize(ctx context.Context, prompt string, opts core.Options) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

// cancelingAI cancels its context mid-call, as a shutdown would.
type cancelingAI struct {
	cancel context.CancelFunc
	err    error
}

func (c *cancelingAI) Summarize(ctx context.Context, prompt string, opts core.Options) (string, error) {
	c.cancel()
	return "", c.err
}

func recentMessages(n int) []*discordgo.Message {
	msgs := make([]*discordgo.Message, n)
	for i := 0; i < n; i++ {
		msgs[i] = &discordgo.Message{
			ID:        fmt.Sprint(n - i),
			Content:   fmt.Sprintf("message %d", n-i),
			Timestamp: time.Now().UTC().Add(-time.Duration(i+1) * time.Minute),
			Author:    &discordgo.User{ID: fmt.Sprintf("u%d", i%3), Username: fmt.Sprintf("user%d", i%3)},
			Type:      discordgo.MessageTypeDefault,
		}
	}
	return msgs
}

func newTestInvocation(raw string, s *fakeSession, ai core.Client) *invocation {
	return &invocation{
		session:     s,
		selfID:      "bot",
		guildID:     "guild",
		channelID:   "chan",
		channelName: "lobby",
		userID:      "caller",
		raw:         raw,
		ai:          ai,
		prompts:     prompt.NewBuilder(0),
		now:         func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func TestRunDefaultSummarize(t *testing.T) {
	s := &fakeSession{pages: map[string][]*discordgo.Message{"": recentMessages(30)}}
	ai := &fakeAI{text: "everyone agreed on the plan"}

	newTestInvocation("!summarize", s, ai).run(context.Background())

	require.Equal(t, 1, ai.calls)
	require.Contains(t, s.allSent(), "30 messages analyzed")
	require.Contains(t, s.allSent(), "everyone agreed on the plan")
	require.Contains(t, s.allSent(), "Summary of #lobby")
	// Progress, analyzing, then a single summary chunk.
	require.Len(t, s.sent, 3)
}

func TestRunEmptyWindowSkipsSummarizer(t *testing.T) {
	s := &fakeSession{pages: map[string][]*discordgo.Message{}}
	ai := &fakeAI{text: "should never appear"}

	newTestInvocation("!summarize 12 50 brief", s, ai).run(context.Background())

	require.Equal(t, 0, ai.calls)
	require.Contains(t, s.allSent(), "No messages found")
}

func TestRunUnknownChannelSkipsFetch(t *testing.T) {
	s := &fakeSession{channels: []*discordgo.Channel{
		{ID: "1", Name: "random", Type: discordgo.ChannelTypeGuildText},
	}}
	ai := &fakeAI{}

	newTestInvocation("!summarize_channel general 6 100 bullet", s, ai).run(context.Background())

	require.Equal(t, 0, s.historyCalls)
	require.Equal(t, 0, ai.calls)
	require.Contains(t, s.allSent(), "channel not found")
}

func TestRunNamedChannelResolved(t *testing.T) {
	s := &fakeSession{
		channels: []*discordgo.Channel{
			{ID: "2", Name: "general", Type: discordgo.ChannelTypeGuildText},
		},
		pages: map[string][]*discordgo.Message{"": recentMessages(5)},
	}
	ai := &fakeAI{text: "summary of general"}

	newTestInvocation("!summarize_channel general", s, ai).run(context.Background())

	require.Equal(t, 1, ai.calls)
	require.Contains(t, s.allSent(), "Summary of #general")
}

func TestRunSummarizerTimeoutReported(t *testing.T) {
	s := &fakeSession{pages: map[string][]*discordgo.Message{"": recentMessages(3)}}
	ai := &fakeAI{err: fmt.Errorf("anthropic: %w", core.ErrTimeout)}

	newTestInvocation("!summarize", s, ai).run(context.Background())

	require.Contains(t, s.allSent(), "timed out")
	require.NotContains(t, s.allSent(), "anthropic")
}

func TestRunFetchPermissionErrorReported(t *testing.T) {
	s := &fakeSession{historyErr: &discordgo.RESTError{
		Response:     &http.Response{StatusCode: http.StatusForbidden, Status: "403 Forbidden"},
		ResponseBody: []byte("{}"),
	}}
	ai := &fakeAI{}

	newTestInvocation("!summarize", s, ai).run(context.Background())

	require.Equal(t, 0, ai.calls)
	require.Contains(t, s.allSent(), "Read Message History")
}

func TestRunShutdownDuringSummarizeSkipsFailureReply(t *testing.T) {
	s := &fakeSession{pages: map[string][]*discordgo.Message{"": recentMessages(3)}}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ai := &cancelingAI{cancel: cancel, err: fmt.Errorf("x: %w", core.ErrUpstream)}

	newTestInvocation("!summarize", s, ai).run(ctx)

	require.NotContains(t, s.allSent(), "had a problem")
}

func TestRunShutdownDuringFetchSkipsFailureReply(t *testing.T) {
	s := &fakeSession{historyErr: &discordgo.RESTError{
		Response:     &http.Response{StatusCode: http.StatusForbidden, Status: "403 Forbidden"},
		ResponseBody: []byte("{}"),
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	newTestInvocation("!summarize", s, &fakeAI{}).run(ctx)

	require.NotContains(t, s.allSent(), "Read Message History")
}

func TestFailureMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("x: %w", history.ErrPermissionDenied), "Read Message History"},
		{fmt.Errorf("x: %w", history.ErrChannelUnavailable), "can't access"},
		{fmt.Errorf("x: %w", history.ErrRateLimited), "rate limiting"},
		{fmt.Errorf("x: %w", core.ErrAuth), "credentials"},
		{fmt.Errorf("x: %w", core.ErrTimeout), "timed out"},
		{fmt.Errorf("x: %w", core.ErrRateLimited), "busy"},
		{fmt.Errorf("x: %w", core.ErrEmptyCompletion), "no text"},
		{fmt.Errorf("x: %w", core.ErrUpstream), "had a problem"},
		{fmt.Errorf("mystery"), "Something went wrong"},
	}
	for _, tc := range cases {
		msg := failureMessage(tc.err)
		require.Contains(t, msg, tc.want)
		require.NotContains(t, msg, "x:")
	}
}

func TestOptionsForStyleVerbosity(t *testing.T) {
	require.Less(t,
		optionsFor(types.StyleBrief).MaxCompletionTokens,
		optionsFor(types.StyleComprehensive).MaxCompletionTokens)
}
