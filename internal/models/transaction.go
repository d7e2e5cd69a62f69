package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindCredit TransactionKind = "credit"
	KindDebit  TransactionKind = "debit"
)

// Transaction is an immutable money movement owned by a user. The chat and
// chart subsystems are read-only consumers; lifecycle is controlled by the
// CRUD layer.
type Transaction struct {
	ID         uuid.UUID       `db:"id"`
	UserID     uuid.UUID       `db:"user_id"`
	Amount     decimal.Decimal `db:"amount"`
	Kind       TransactionKind `db:"kind"`
	Memo       string          `db:"memo"`
	OccurredAt time.Time       `db:"occurred_at"`
	RecordedAt time.Time       `db:"recorded_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}
