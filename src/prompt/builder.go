package prompt

import (
	"fmt"
	"strings"

	"github.com/chihoong/discord-summarizer-bot/src/types"
)

const (
	// DefaultCharBudget bounds the serialized transcript so the prompt stays
	// well inside provider input limits.
	DefaultCharBudget = 12000

	timestampLayout  = "2006-01-02 15:04"
	transcriptHeader = "\n\nMessages:\n"
	truncationNotice = "[Note: earlier messages were omitted to fit the summarization window.]"
)

// Builder assembles the exact text sent to the summarization provider. Output
// is deterministic for a given (window, style, channel name).
type Builder struct {
	CharBudget int
}

func NewBuilder(charBudget int) Builder {
	if charBudget <= 0 {
		charBudget = DefaultCharBudget
	}
	return Builder{CharBudget: charBudget}
}

// Build serializes the window as "{author} [{timestamp}]: {body}" lines in
// chronological order, prefixed with a style-specific instruction. When the
// transcript exceeds the character budget the oldest messages are dropped
// first and a single truncation notice is inserted.
func (b Builder) Build(window []types.ChatMessage, style types.Style, channelName string) string {
	instruction := styleInstruction(style, channelName)

	lines := make([]string, len(window))
	for i, msg := range window {
		lines[i] = formatLine(msg)
	}

	kept, truncated := fitLines(lines, b.CharBudget-len(instruction)-len(transcriptHeader))

	var sb strings.Builder
	sb.WriteString(instruction)
	sb.WriteString(transcriptHeader)
	if truncated {
		sb.WriteString(truncationNotice)
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Join(kept, "\n"))
	return sb.String()
}

func formatLine(msg types.ChatMessage) string {
	line := fmt.Sprintf("%s [%s]: %s", msg.Author, msg.Timestamp.UTC().Format(timestampLayout), msg.Body)
	if msg.Extra != "" {
		line += " " + msg.Extra
	}
	return line
}

// fitLines keeps the newest lines that fit within budget, preserving order.
func fitLines(lines []string, budget int) ([]string, bool) {
	total := 0
	for _, line := range lines {
		total += len(line) + 1
	}
	if total <= budget {
		return lines, false
	}

	budget -= len(truncationNotice) + 1
	kept, used := 0, 0
	for i := len(lines) - 1; i >= 0; i-- {
		need := len(lines[i]) + 1
		if used+need > budget {
			break
		}
		used += need
		kept++
	}
	return lines[len(lines)-kept:], true
}

func styleInstruction(style types.Style, channelName string) string {
	switch style {
	case types.StyleBrief:
		return fmt.Sprintf("Provide a concise summary of these Discord messages from #%s in no more than 200 words. Cover only the most important points.", channelName)
	case types.StyleBullet:
		return fmt.Sprintf("Summarize these Discord messages from #%s as an organized bullet-point breakdown. Group related messages into distinct topics or threads, one section per topic.", channelName)
	case types.StyleParticipants:
		return fmt.Sprintf("Summarize these Discord messages from #%s with a focus on the participants: who said what, who drove each discussion, and how engaged each participant was.", channelName)
	default:
		return fmt.Sprintf(`Please provide a comprehensive summary of these Discord messages from #%s.

Include:
- Main topics discussed
- Key decisions or conclusions
- Important announcements or updates
- Notable questions and answers
- Overall tone and sentiment of the conversation

Please format your response clearly with appropriate sections.`, channelName)
	}
}
