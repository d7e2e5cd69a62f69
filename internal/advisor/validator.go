package advisor

import (
	"regexp"
	"strings"
)

// The chat contract promises exact figures from the user's records. Answers
// that hedge are discarded outright rather than passed along.

const (
	// RefusalMessage replaces any answer containing hedging language.
	RefusalMessage = "I can only provide exact figures from your records."

	// NoDataMessage replaces an empty answer.
	NoDataMessage = "No matching data found in your records."
)

// Word-boundary match so "turnaround" or "roundabout" do not trip the filter.
var hedgingPattern = regexp.MustCompile(`(?i)\b(approximately|around|about|roughly|seems|probably)\b`)

// ValidateResponse enforces the exact-figures contract on raw provider text.
func ValidateResponse(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return NoDataMessage
	}
	if hedgingPattern.MatchString(text) {
		return RefusalMessage
	}
	return text
}
