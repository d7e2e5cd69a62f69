package repository

import (
	"context"

	"expense-advisor/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var transactionColumns = []string{"id", "user_id", "amount", "kind", "memo", "occurred_at", "recorded_at", "updated_at"}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Insert("transactions").
		Columns(transactionColumns...).
		Values(tx.ID, tx.UserID, tx.Amount, tx.Kind, tx.Memo, tx.OccurredAt, tx.RecordedAt, tx.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Update("transactions").
		Set("amount", tx.Amount).
		Set("kind", tx.Kind).
		Set("memo", tx.Memo).
		Set("occurred_at", tx.OccurredAt).
		Set("updated_at", tx.UpdatedAt).
		Where(squirrel.Eq{"id": tx.ID, "user_id": tx.UserID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	query := squirrel.Delete("transactions").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListByOwner returns the complete history in chronological ascending order,
// recorded_at as the tiebreak. The advisor's prompt grounding depends on this
// ordering: the budgeter keeps the tail of the slice as "most recent".
func (r *TransactionRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("occurred_at ASC", "recorded_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	return r.list(ctx, query)
}

// ListByMonth returns one calendar month, newest first (the order the mobile
// client renders).
func (r *TransactionRepository) ListByMonth(ctx context.Context, userID uuid.UUID, year, month int) ([]models.Transaction, error) {
	query := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Expr("EXTRACT(YEAR FROM occurred_at) = ?", year)).
		Where(squirrel.Expr("EXTRACT(MONTH FROM occurred_at) = ?", month)).
		OrderBy("occurred_at DESC", "recorded_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	return r.list(ctx, query)
}

func (r *TransactionRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]models.Transaction, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Amount, &tx.Kind, &tx.Memo, &tx.OccurredAt, &tx.RecordedAt, &tx.UpdatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	return transactions, rows.Err()
}

// MonthlyStats sums credits and debits for one calendar month.
func (r *TransactionRepository) MonthlyStats(ctx context.Context, userID uuid.UUID, year, month int) (credit, debit decimal.Decimal, err error) {
	query := squirrel.Select(
		"COALESCE(SUM(amount) FILTER (WHERE kind = 'credit'), 0)",
		"COALESCE(SUM(amount) FILTER (WHERE kind = 'debit'), 0)",
	).
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Expr("EXTRACT(YEAR FROM occurred_at) = ?", year)).
		Where(squirrel.Expr("EXTRACT(MONTH FROM occurred_at) = ?", month)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&credit, &debit); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return credit, debit, nil
}
