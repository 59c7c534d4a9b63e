package discord

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MaxDiscordMessageLen = 2000
	// SafeChunkLen leaves headroom for continuation markers.
	SafeChunkLen = 1900
)

// BuildLongMessages formats a long message for Discord by chunking across
// messages at paragraph, then sentence, then word boundaries. The first chunk
// mentions userID when provided.
func BuildLongMessages(message string, userID string) []string {
	mention := ""
	if userID != "" {
		mention = fmt.Sprintf("<@%s> ", userID)
	}

	firstMessage := mention + message
	if len(firstMessage) <= MaxDiscordMessageLen {
		return []string{firstMessage}
	}

	chunks := splitMessage(message, userID)
	for i := 0; i < len(chunks)-1; i++ {
		chunks[i] = chunks[i] + "\n*(continued...)*"
	}
	if len(chunks) > 1 {
		chunks[len(chunks)-1] = chunks[len(chunks)-1] + "\n*(end of response)*"
	}
	return chunks
}

func splitMessage(message string, userID string) []string {
	var messages []string
	mention := ""
	if userID != "" {
		mention = fmt.Sprintf("<@%s> ", userID)
	}
	firstMaxLength := SafeChunkLen - len(mention)
	paragraphs := strings.Split(message, "\n\n")

	var currentMessage strings.Builder
	isFirst := true

	flush := func() {
		if currentMessage.Len() == 0 {
			return
		}
		if isFirst {
			messages = append(messages, mention+currentMessage.String())
			isFirst = false
		} else {
			messages = append(messages, currentMessage.String())
		}
		currentMessage.Reset()
	}

	for _, paragraph := range paragraphs {
		if len(paragraph) > SafeChunkLen {
			flush()

			for _, sentence := range splitBySentences(paragraph) {
				effectiveMaxLength := SafeChunkLen
				if isFirst {
					effectiveMaxLength = firstMaxLength
				}
				if currentMessage.Len()+len(sentence)+2 > effectiveMaxLength {
					flush()
				}
				if currentMessage.Len() > 0 {
					currentMessage.WriteString(" ")
				}
				currentMessage.WriteString(sentence)
			}
			continue
		}

		effectiveMaxLength := SafeChunkLen
		if isFirst {
			effectiveMaxLength = firstMaxLength
		}
		if currentMessage.Len()+len(paragraph)+4 > effectiveMaxLength {
			flush()
		}
		if currentMessage.Len() > 0 {
			currentMessage.WriteString("\n\n")
		}
		currentMessage.WriteString(paragraph)
	}

	flush()
	return messages
}

func splitBySentences(text string) []string {
	var sentences []string
	var current strings.Builder
	for _, char := range text {
		current.WriteRune(char)
		if char == '.' || char == '!' || char == '?' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	// A run without sentence boundaries can still exceed the chunk size, so
	// each oversized sentence falls back to word-sized pieces.
	var out []string
	for _, sentence := range sentences {
		if len(sentence) > SafeChunkLen {
			out = append(out, splitByWords(sentence)...)
			continue
		}
		out = append(out, sentence)
	}
	return out
}

func splitByWords(text string) []string {
	var chunks []string
	var chunk strings.Builder
	for _, word := range strings.Fields(text) {
		for len(word) > SafeChunkLen {
			if chunk.Len() > 0 {
				chunks = append(chunks, chunk.String())
				chunk.Reset()
			}
			chunks = append(chunks, word[:SafeChunkLen])
			word = word[SafeChunkLen:]
		}
		if chunk.Len()+len(word)+1 > SafeChunkLen {
			chunks = append(chunks, chunk.String())
			chunk.Reset()
		}
		if chunk.Len() > 0 {
			chunk.WriteString(" ")
		}
		chunk.WriteString(word)
	}
	if chunk.Len() > 0 {
		chunks = append(chunks, chunk.String())
	}
	return chunks
}

var newlineCollapse = regexp.MustCompile(`\n{3,}`)

// BeautifyForDiscord normalizes model output for readability: collapsed blank
// runs, consistent bullets, URLs wrapped so they don't spawn embeds.
func BeautifyForDiscord(text string) string {
	if text == "" {
		return text
	}

	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = newlineCollapse.ReplaceAllString(normalized, "\n\n")

	lines := strings.Split(normalized, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "- "):
			lines[i] = strings.Replace(line, "- ", "• ", 1)
		case strings.HasPrefix(trimmed, "* "):
			lines[i] = strings.Replace(line, "* ", "• ", 1)
		}
	}

	result := strings.TrimSpace(strings.Join(lines, "\n"))
	return WrapURLsNoEmbed(result)
}

var urlRegex = regexp.MustCompile(`https?://[^\s\[\]()<>]+`)

// WrapURLsNoEmbed wraps URLs in angle brackets to prevent Discord embeds.
func WrapURLsNoEmbed(text string) string {
	return urlRegex.ReplaceAllStringFunc(text, func(url string) string {
		url = strings.TrimRight(url, ".,;:!?)")
		return fmt.Sprintf("<%s>", url)
	})
}
