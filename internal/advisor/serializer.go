package advisor

import (
	"fmt"
	"strings"
	"time"

	"expense-advisor/internal/models"

	"github.com/shopspring/decimal"
)

// Each transaction is grounded into the prompt as one compact pipe-delimited
// line: date|kind|amount|memo, e.g. 2025-03-15|D|450.00|Groceries. The format
// is lossless for memos free of the reserved characters, which sanitization
// strips on the way in.

const (
	dateLayout           = "2006-01-02"
	noDetailsPlaceholder = "No details"

	kindCodeCredit = "C"
	kindCodeDebit  = "D"
)

// EncodedTransaction is the decoded form of one listing line, used to verify
// the encoding round-trips.
type EncodedTransaction struct {
	Date   time.Time
	Kind   models.TransactionKind
	Amount decimal.Decimal
	Memo   string
}

// Summary aggregates the complete transaction history. It is always computed
// over the full input, never a truncated window.
type Summary struct {
	TotalCredit decimal.Decimal
	TotalDebit  decimal.Decimal
	Count       int
}

func (s Summary) Net() decimal.Decimal {
	return s.TotalCredit.Sub(s.TotalDebit)
}

// Line renders the one-line figure block stamped into every prompt.
func (s Summary) Line(currency string) string {
	return fmt.Sprintf("Income: %s %s | Expenses: %s %s | Net: %s %s",
		s.TotalCredit.StringFixed(2), currency,
		s.TotalDebit.StringFixed(2), currency,
		s.Net().StringFixed(2), currency,
	)
}

// Summarize totals credits and debits over the entire input. An unrecognized
// kind is a data-model violation and fails hard rather than being coerced.
func Summarize(txs []models.Transaction) (Summary, error) {
	s := Summary{
		TotalCredit: decimal.Zero,
		TotalDebit:  decimal.Zero,
		Count:       len(txs),
	}
	for _, tx := range txs {
		switch tx.Kind {
		case models.KindCredit:
			s.TotalCredit = s.TotalCredit.Add(tx.Amount)
		case models.KindDebit:
			s.TotalDebit = s.TotalDebit.Add(tx.Amount)
		default:
			return Summary{}, fmt.Errorf("unknown transaction kind %q for transaction %s", tx.Kind, tx.ID)
		}
	}
	return s, nil
}

// EncodeTransactions encodes the input in order, one line per transaction.
func EncodeTransactions(txs []models.Transaction) ([]string, error) {
	lines := make([]string, 0, len(txs))
	for _, tx := range txs {
		line, err := EncodeTransaction(tx)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func EncodeTransaction(tx models.Transaction) (string, error) {
	code, err := kindCode(tx.Kind)
	if err != nil {
		return "", fmt.Errorf("transaction %s: %w", tx.ID, err)
	}
	return fmt.Sprintf("%s|%s|%s|%s",
		tx.OccurredAt.Format(dateLayout),
		code,
		tx.Amount.StringFixed(2),
		sanitizeMemo(tx.Memo),
	), nil
}

// DecodeLine parses an encoded line back into its fields.
func DecodeLine(line string) (EncodedTransaction, error) {
	parts := strings.SplitN(line, "|", 4)
	if len(parts) != 4 {
		return EncodedTransaction{}, fmt.Errorf("malformed encoded line %q", line)
	}

	date, err := time.Parse(dateLayout, parts[0])
	if err != nil {
		return EncodedTransaction{}, fmt.Errorf("malformed date in %q: %w", line, err)
	}

	var kind models.TransactionKind
	switch parts[1] {
	case kindCodeCredit:
		kind = models.KindCredit
	case kindCodeDebit:
		kind = models.KindDebit
	default:
		return EncodedTransaction{}, fmt.Errorf("unknown kind code %q in %q", parts[1], line)
	}

	amount, err := decimal.NewFromString(parts[2])
	if err != nil {
		return EncodedTransaction{}, fmt.Errorf("malformed amount in %q: %w", line, err)
	}

	return EncodedTransaction{
		Date:   date,
		Kind:   kind,
		Amount: amount,
		Memo:   parts[3],
	}, nil
}

func kindCode(kind models.TransactionKind) (string, error) {
	switch kind {
	case models.KindCredit:
		return kindCodeCredit, nil
	case models.KindDebit:
		return kindCodeDebit, nil
	default:
		return "", fmt.Errorf("unknown transaction kind %q", kind)
	}
}

// sanitizeMemo keeps the field delimiter and line structure intact: pipes
// become slashes, newlines become single spaces, empty memos get a
// placeholder.
func sanitizeMemo(memo string) string {
	memo = strings.ReplaceAll(memo, "|", "/")
	memo = strings.ReplaceAll(memo, "\r\n", " ")
	memo = strings.ReplaceAll(memo, "\n", " ")
	memo = strings.ReplaceAll(memo, "\r", " ")
	memo = strings.TrimSpace(memo)
	if memo == "" {
		return noDetailsPlaceholder
	}
	return memo
}
