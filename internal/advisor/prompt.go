package advisor

import (
	"fmt"
	"strings"

	"expense-advisor/internal/models"
)

// Two composition modes exist, chosen solely by the configured provider
// family. The full template carries the complete budgeted listing plus a
// strict ruleset and is meant for a locally hosted model where context is
// free. The compact template sends only the summary and a short recent window
// in plain prose to metered hosted APIs; it deliberately omits the strict
// ruleset and trades grounding strength for cost and latency.

const fullPromptTemplate = `You are a personal finance advisor for %s and nobody else.

RULES:
1. Only use the financial data provided below.
2. Do NOT search the internet or use external information.
3. Do NOT invent, estimate or assume transactions that are not listed.
4. Never use approximate or hedging language; state exact figures from the records.
5. When a transaction matches the question, quote its line literally.
6. If asked about data you don't have, say "I don't have that information in your records."

SUMMARY:
%s
%s
TRANSACTIONS (one per line as date|kind|amount|memo; kind C = credit, money in; D = debit, money out; amounts in %s):
%s

User question: %s

Answer using only the data above. Be concise and actionable.`

const compactPromptTemplate = `You are a personal finance advisor for %s.

Summary of their records: %s

Their %d most recent transactions:
%s

User question: %s

Answer briefly using only this data. Be concise and actionable.`

// ComposeFull builds the full-context instruction text. The user's question is
// interpolated verbatim; it is data inside the final string, never executed or
// templated back into control flow.
func ComposeFull(profile *models.FinancialProfile, pc PromptContext, question string) string {
	note := ""
	if pc.Truncated() {
		note = pc.TruncationNote + "\n"
	}

	listing := "(no transactions recorded)"
	if len(pc.Lines) > 0 {
		listing = strings.Join(pc.Lines, "\n")
	}

	return fmt.Sprintf(fullPromptTemplate,
		displayName(profile),
		pc.SummaryLine,
		note,
		profile.Currency,
		listing,
		question,
	)
}

// ComposeCompact builds the metered-provider instruction text from the summary
// line and the most recent transactions in human-readable form.
func ComposeCompact(profile *models.FinancialProfile, summaryLine string, recent []models.Transaction, question string) string {
	lines := make([]string, 0, len(recent))
	for _, tx := range recent {
		lines = append(lines, fmt.Sprintf("- %s: %s %s %s (%s)",
			tx.OccurredAt.Format(dateLayout),
			tx.Kind,
			tx.Amount.StringFixed(2),
			profile.Currency,
			sanitizeMemo(tx.Memo),
		))
	}

	listing := "(no transactions recorded)"
	if len(lines) > 0 {
		listing = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(compactPromptTemplate,
		displayName(profile),
		summaryLine,
		len(recent),
		listing,
		question,
	)
}

// RecentWindow returns the last n transactions of a chronologically ascending
// history.
func RecentWindow(txs []models.Transaction, n int) []models.Transaction {
	if n >= len(txs) {
		return txs
	}
	return txs[len(txs)-n:]
}

func displayName(profile *models.FinancialProfile) string {
	if profile.DisplayName != "" {
		return profile.DisplayName
	}
	return "this user"
}
