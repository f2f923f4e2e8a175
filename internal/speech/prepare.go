// Package speech prepares reply text before it is handed to a synthesizer.
package speech

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxChars bounds synthesis latency for long replies.
	DefaultMaxChars = 250
	// LinkPlaceholder replaces URLs so links are never read aloud.
	LinkPlaceholder = "link"
	ellipsis        = "..."
)

var urlPattern = regexp.MustCompile(`(?i)\b(?:https?://|www\.)\S+`)

// Prepare replaces URLs with LinkPlaceholder, then truncates to maxChars runes plus an ellipsis.
// A non-positive maxChars uses DefaultMaxChars.
func Prepare(text string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	cleaned := strings.TrimSpace(ScrubURLs(text))
	if utf8.RuneCountInString(cleaned) <= maxChars {
		return cleaned
	}

	runes := []rune(cleaned)
	return strings.TrimRight(string(runes[:maxChars]), " ") + ellipsis
}

// ScrubURLs replaces every URL in text with LinkPlaceholder.
func ScrubURLs(text string) string {
	return urlPattern.ReplaceAllString(text, LinkPlaceholder)
}
