package core

import (
	"github.com/google/uuid"
)

// NewCorrelationID generates a unique identifier for tracing a single
// user-triggered action through logs: guard check, API call, outcome.
func NewCorrelationID() string {
	return uuid.NewString()
}

// TruncateText shortens text to maxLen runes for log previews, appending
// "..." when truncation occurred.
func TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}
