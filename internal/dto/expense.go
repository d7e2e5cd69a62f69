package dto

type ExpenseCreateRequest struct {
	Memo       string  `json:"details"`
	Amount     float64 `json:"amount"`
	Kind       string  `json:"transaction_type"`
	OccurredAt string  `json:"transaction_date"`
}

type ExpenseUpdateRequest struct {
	Memo       string  `json:"details"`
	Amount     float64 `json:"amount"`
	Kind       string  `json:"transaction_type"`
	OccurredAt string  `json:"transaction_date"`
}

type ExpenseResponse struct {
	ID         string  `json:"id"`
	Memo       string  `json:"details"`
	Amount     float64 `json:"amount"`
	Kind       string  `json:"transaction_type"`
	OccurredAt string  `json:"transaction_date"`
	RecordedAt string  `json:"created_at"`
}

type MonthlyStats struct {
	TotalCredit float64 `json:"total_credit"`
	TotalDebit  float64 `json:"total_debit"`
	NetAmount   float64 `json:"net_amount"`
}

type DashboardMonth struct {
	Month       string  `json:"month"`
	TotalCredit float64 `json:"total_credit"`
	TotalDebit  float64 `json:"total_debit"`
}
