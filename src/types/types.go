package types

import (
	"strings"
	"time"
)

// Style selects the summarization mode. It changes the prompt instruction and
// the expected verbosity of the model output.
type Style string

const (
	StyleComprehensive Style = "comprehensive"
	StyleBrief         Style = "brief"
	StyleBullet        Style = "bullet"
	StyleParticipants  Style = "participants"
)

// ParseStyle matches a command token against the known styles, case-insensitively.
func ParseStyle(token string) (Style, bool) {
	style := Style(strings.ToLower(token))
	switch style {
	case StyleComprehensive, StyleBrief, StyleBullet, StyleParticipants:
		return style, true
	}
	return "", false
}

// SummaryRequest is a fully resolved summarize command. Every field is valid
// by construction: the parser clamps or rejects before one is created.
type SummaryRequest struct {
	ChannelID    string
	ChannelName  string
	HoursBack    int
	MessageLimit int
	Style        Style
}

// ChatMessage is one transcript entry fetched from Discord. It lives for a
// single invocation and is never shared across requests.
type ChatMessage struct {
	Author    string
	Timestamp time.Time
	Body      string
	// Extra carries a short description of attachments or embeds, if any.
	Extra string
}
