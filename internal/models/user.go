package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `db:"id"`
	Email     string    `db:"email"`
	Password  string    `db:"password"`
	FullName  string    `db:"full_name"`
	Currency  string    `db:"currency"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// FinancialProfile is the read-only projection of a user consumed by the
// advisor to stamp currency units and salutations into prompts.
type FinancialProfile struct {
	UserID      uuid.UUID
	Currency    string
	DisplayName string
}
