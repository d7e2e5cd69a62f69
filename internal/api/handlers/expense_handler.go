package handlers

import (
	"errors"
	"time"

	"expense-advisor/internal/dto"
	"expense-advisor/internal/models"
	"expense-advisor/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ExpenseHandler struct {
	txRepo *repository.TransactionRepository
	logger *zap.Logger
}

func NewExpenseHandler(txRepo *repository.TransactionRepository, logger *zap.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		txRepo: txRepo,
		logger: logger,
	}
}

// Create godoc
// @Summary Record a transaction
// @Tags expenses
// @Accept json
// @Produce json
// @Param request body dto.ExpenseCreateRequest true "Transaction"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user identity"})
	}

	var req dto.ExpenseCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	kind, occurredAt, err := parseExpenseFields(req.Kind, req.OccurredAt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	now := time.Now()
	tx := models.Transaction{
		ID:         uuid.New(),
		UserID:     userID,
		Amount:     decimal.NewFromFloat(req.Amount),
		Kind:       kind,
		Memo:       req.Memo,
		OccurredAt: occurredAt,
		RecordedAt: now,
		UpdatedAt:  now,
	}

	if err := h.txRepo.Create(c.Context(), &tx); err != nil {
		h.logger.Error("Failed to create transaction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create expense"})
	}

	return c.Status(fiber.StatusCreated).JSON(toExpenseResponse(tx))
}

// List godoc
// @Summary List one month of transactions, newest first
// @Tags expenses
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {array} dto.ExpenseResponse
// @Router /expenses [get]
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user identity"})
	}

	year := c.QueryInt("year")
	month := c.QueryInt("month")
	if year == 0 || month < 1 || month > 12 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "year and month query parameters are required"})
	}

	txs, err := h.txRepo.ListByMonth(c.Context(), userID, year, month)
	if err != nil {
		h.logger.Error("Failed to list transactions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list expenses"})
	}

	out := make([]dto.ExpenseResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toExpenseResponse(tx))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary Update a transaction
// @Tags expenses
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body dto.ExpenseUpdateRequest true "Transaction"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 404 {object} map[string]string
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) Update(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user identity"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid expense id"})
	}

	var req dto.ExpenseUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	kind, occurredAt, err := parseExpenseFields(req.Kind, req.OccurredAt)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	tx := models.Transaction{
		ID:         id,
		UserID:     userID,
		Amount:     decimal.NewFromFloat(req.Amount),
		Kind:       kind,
		Memo:       req.Memo,
		OccurredAt: occurredAt,
		UpdatedAt:  time.Now(),
	}

	if err := h.txRepo.Update(c.Context(), &tx); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Expense not found"})
		}
		h.logger.Error("Failed to update transaction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update expense"})
	}

	return c.JSON(fiber.Map{"message": "Expense updated successfully"})
}

// Delete godoc
// @Summary Delete a transaction
// @Tags expenses
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user identity"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid expense id"})
	}

	if err := h.txRepo.Delete(c.Context(), id, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Expense not found"})
		}
		h.logger.Error("Failed to delete transaction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete expense"})
	}

	return c.JSON(fiber.Map{"message": "Expense deleted successfully"})
}

// MonthlyStats godoc
// @Summary Credit/debit/net totals for one month
// @Tags expenses
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1-12)"
// @Success 200 {object} dto.MonthlyStats
// @Router /expenses/monthly-stats [get]
func (h *ExpenseHandler) MonthlyStats(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user identity"})
	}

	year := c.QueryInt("year")
	month := c.QueryInt("month")
	if year == 0 || month < 1 || month > 12 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "year and month query parameters are required"})
	}

	credit, debit, err := h.txRepo.MonthlyStats(c.Context(), userID, year, month)
	if err != nil {
		h.logger.Error("Failed to compute monthly stats", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute stats"})
	}

	return c.JSON(dto.MonthlyStats{
		TotalCredit: credit.InexactFloat64(),
		TotalDebit:  debit.InexactFloat64(),
		NetAmount:   credit.Sub(debit).InexactFloat64(),
	})
}

// DashboardStats godoc
// @Summary Totals for the last four months, oldest first
// @Tags expenses
// @Produce json
// @Success 200 {array} dto.DashboardMonth
// @Router /expenses/dashboard-stats [get]
func (h *ExpenseHandler) DashboardStats(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user identity"})
	}

	now := time.Now()
	months := make([]dto.DashboardMonth, 0, 4)
	for i := 3; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		credit, debit, err := h.txRepo.MonthlyStats(c.Context(), userID, monthStart.Year(), int(monthStart.Month()))
		if err != nil {
			h.logger.Error("Failed to compute dashboard stats", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to compute stats"})
		}
		months = append(months, dto.DashboardMonth{
			Month:       monthStart.Format("2006-01"),
			TotalCredit: credit.InexactFloat64(),
			TotalDebit:  debit.InexactFloat64(),
		})
	}

	return c.JSON(months)
}

func parseExpenseFields(kind, occurredAt string) (models.TransactionKind, time.Time, error) {
	var k models.TransactionKind
	switch models.TransactionKind(kind) {
	case models.KindCredit:
		k = models.KindCredit
	case models.KindDebit:
		k = models.KindDebit
	default:
		return "", time.Time{}, errors.New("transaction_type must be credit or debit")
	}

	t, err := time.Parse(time.RFC3339, occurredAt)
	if err != nil {
		return "", time.Time{}, errors.New("transaction_date must be RFC3339")
	}
	return k, t, nil
}

func toExpenseResponse(tx models.Transaction) dto.ExpenseResponse {
	return dto.ExpenseResponse{
		ID:         tx.ID.String(),
		Memo:       tx.Memo,
		Amount:     tx.Amount.InexactFloat64(),
		Kind:       string(tx.Kind),
		OccurredAt: tx.OccurredAt.Format(time.RFC3339),
		RecordedAt: tx.RecordedAt.Format(time.RFC3339),
	}
}
