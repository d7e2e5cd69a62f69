package advisor

import "fmt"

// The budgeter decides whether the full encoded history fits the prompt or
// only a most-recent suffix does. Token counts are estimated as len/4 — a
// character-based approximation; the real tokenizer is unknown, but the ratio
// only needs to be consistent since it gates truncation deterministically.

const charsPerToken = 4

// PromptContext is the bounded transaction context handed to the composer.
type PromptContext struct {
	SummaryLine    string
	Lines          []string
	TruncationNote string
	TotalCount     int
}

// Truncated reports whether the visible listing is a suffix of the history.
func (pc PromptContext) Truncated() bool {
	return pc.TruncationNote != ""
}

// EstimateTokens approximates the token cost of a block of text.
func EstimateTokens(text string) int {
	return len(text) / charsPerToken
}

// BuildContext selects the full encoded sequence when it fits under
// tokenCeiling, otherwise the most recent window lines (the tail of the
// insertion-ordered input, which upstream keeps chronological). Pure and
// deterministic: same input and thresholds, same decision. The summary line is
// passed through untouched either way.
func BuildContext(summaryLine string, lines []string, tokenCeiling, window int) PromptContext {
	pc := PromptContext{
		SummaryLine: summaryLine,
		Lines:       lines,
		TotalCount:  len(lines),
	}

	total := len(summaryLine)
	for _, line := range lines {
		total += len(line) + 1 // newline joining the listing
	}
	if total/charsPerToken <= tokenCeiling {
		return pc
	}

	if window > len(lines) {
		window = len(lines)
	}
	pc.Lines = lines[len(lines)-window:]
	pc.TruncationNote = fmt.Sprintf(
		"Note: only the most recent %d of %d transactions are listed below. The summary figures above cover all %d transactions.",
		len(pc.Lines), pc.TotalCount, pc.TotalCount,
	)
	return pc
}
