package logging

import (
	"log"
	"strings"
)

// IsRateLimit probes an upstream error for rate-limit markers, for providers
// that report throttling in the body rather than the status line.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "rate_limit") || strings.Contains(msg, "429")
}

// Alert logs an operator-facing warning that must never be surfaced to chat.
func Alert(format string, args ...interface{}) {
	log.Printf("ALERT: "+format, args...)
}
