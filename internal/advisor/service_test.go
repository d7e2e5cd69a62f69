package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"expense-advisor/internal/llm"
	"expense-advisor/internal/models"
	"expense-advisor/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubTransactions struct {
	txs []models.Transaction
	err error
}

func (s *stubTransactions) ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	return s.txs, s.err
}

type stubProfiles struct {
	profile *models.FinancialProfile
}

func (s *stubProfiles) GetProfile(ctx context.Context, userID uuid.UUID) (*models.FinancialProfile, error) {
	if s.profile == nil {
		return nil, errors.New("not found")
	}
	return s.profile, nil
}

type stubProvider struct {
	name       string
	answer     string
	lastPrompt string
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Generate(ctx context.Context, prompt string) llm.Response {
	s.lastPrompt = prompt
	return llm.Response{Text: s.answer, Status: llm.StatusOK}
}

type stubRenderer struct {
	url      string
	err      error
	lastHint string
	called   bool
}

func (s *stubRenderer) Render(txs []models.Transaction, hint string, userID uuid.UUID) (string, error) {
	s.called = true
	s.lastHint = hint
	return s.url, s.err
}

func advisorCfg() *config.AdvisorConfig {
	return &config.AdvisorConfig{
		TokenCeiling:        7500,
		TruncationWindow:    600,
		CompactRecentWindow: 20,
	}
}

func newTestService(t *testing.T, txs []models.Transaction, provider *stubProvider, renderer *stubRenderer) *Service {
	t.Helper()
	profile := &models.FinancialProfile{
		UserID:      uuid.New(),
		Currency:    "INR",
		DisplayName: "Asha",
	}
	return NewService(
		&stubTransactions{txs: txs},
		&stubProfiles{profile: profile},
		provider,
		renderer,
		advisorCfg(),
		zap.NewNop(),
	)
}

func TestChatGroundsPromptInRecords(t *testing.T) {
	txs := []models.Transaction{
		tx(t, "2025-03-15", models.KindDebit, "450.00", "Groceries"),
	}
	provider := &stubProvider{
		name:   llm.ProviderOllama,
		answer: "You spent 450.00 INR on Groceries on 2025-03-15.",
	}
	renderer := &stubRenderer{}
	svc := newTestService(t, txs, provider, renderer)

	resp, err := svc.Chat(context.Background(), uuid.New(), "How much did I spend on groceries?")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	for _, want := range []string{
		"Income: 0.00 INR | Expenses: 450.00 INR | Net: -450.00 INR",
		"2025-03-15|D|450.00|Groceries",
		"How much did I spend on groceries?",
	} {
		if !strings.Contains(provider.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	if resp.Response != "You spent 450.00 INR on Groceries on 2025-03-15." {
		t.Errorf("unexpected response: %q", resp.Response)
	}
	if resp.ChartURL != nil {
		t.Error("no chart was requested, ChartURL should be nil")
	}
	if renderer.called {
		t.Error("renderer should not run without a chart keyword")
	}
}

func TestChatCompactModeForHostedProvider(t *testing.T) {
	txs := []models.Transaction{
		tx(t, "2025-03-15", models.KindDebit, "450.00", "Groceries"),
	}
	provider := &stubProvider{name: llm.ProviderOpenAI, answer: "Net is -450.00 INR."}
	svc := newTestService(t, txs, provider, &stubRenderer{})

	if _, err := svc.Chat(context.Background(), uuid.New(), "What is my net?"); err != nil {
		t.Fatalf("Chat: %v", err)
	}

	if strings.Contains(provider.lastPrompt, "2025-03-15|D|450.00|Groceries") {
		t.Error("hosted provider should get the compact prompt, not the encoded listing")
	}
	if !strings.Contains(provider.lastPrompt, "- 2025-03-15: debit 450.00 INR (Groceries)") {
		t.Error("compact prompt missing the human-readable recent listing")
	}
}

func TestChatHedgedAnswerIsRefused(t *testing.T) {
	txs := []models.Transaction{
		tx(t, "2025-03-15", models.KindDebit, "450.00", "Groceries"),
	}
	provider := &stubProvider{name: llm.ProviderOllama, answer: "You spent approximately 450 INR."}
	svc := newTestService(t, txs, provider, &stubRenderer{})

	resp, err := svc.Chat(context.Background(), uuid.New(), "groceries?")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Response != RefusalMessage {
		t.Errorf("got %q, want refusal", resp.Response)
	}
}

func TestChatChartKeywordTriggersRenderer(t *testing.T) {
	txs := []models.Transaction{
		tx(t, "2025-03-15", models.KindDebit, "450.00", "Groceries"),
	}
	provider := &stubProvider{name: llm.ProviderOllama, answer: "Here is your spending."}
	renderer := &stubRenderer{url: "http://localhost:8080/serve-files/chart_x.png"}
	svc := newTestService(t, txs, provider, renderer)

	resp, err := svc.Chat(context.Background(), uuid.New(), "Show me a monthly chart of my spending")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if !renderer.called {
		t.Fatal("renderer was not invoked")
	}
	if renderer.lastHint != "Show me a monthly chart of my spending" {
		t.Errorf("renderer got hint %q", renderer.lastHint)
	}
	if resp.ChartURL == nil || *resp.ChartURL != renderer.url {
		t.Errorf("ChartURL = %v, want %q", resp.ChartURL, renderer.url)
	}
}

func TestChatChartFailureDoesNotFailResponse(t *testing.T) {
	txs := []models.Transaction{
		tx(t, "2025-03-15", models.KindDebit, "450.00", "Groceries"),
	}
	provider := &stubProvider{name: llm.ProviderOllama, answer: "Here is your spending."}
	renderer := &stubRenderer{err: errors.New("disk full")}
	svc := newTestService(t, txs, provider, renderer)

	resp, err := svc.Chat(context.Background(), uuid.New(), "plot my expenses")
	if err != nil {
		t.Fatalf("Chat should not fail on a chart error: %v", err)
	}
	if resp.ChartURL != nil {
		t.Error("ChartURL should be nil when rendering fails")
	}
	if resp.Response != "Here is your spending." {
		t.Errorf("answer should be unaffected, got %q", resp.Response)
	}
}

func TestChatEmptyHistoryNoChart(t *testing.T) {
	provider := &stubProvider{name: llm.ProviderOllama, answer: "You have no transactions recorded."}
	renderer := &stubRenderer{url: ""}
	svc := newTestService(t, nil, provider, renderer)

	resp, err := svc.Chat(context.Background(), uuid.New(), "graph my spending")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.ChartURL != nil {
		t.Error("ChartURL should be nil for an empty history")
	}
}

func TestChatSummaryCoversFullHistoryWhenTruncated(t *testing.T) {
	// 1500 encoded lines blow past the 7500-token ceiling, so the listing is
	// windowed to the most recent 600 while the summary still totals all 1500.
	txs := make([]models.Transaction, 0, 1500)
	for i := 0; i < 1500; i++ {
		txs = append(txs, tx(t, "2025-01-01", models.KindDebit, "1.00", "daily coffee"))
	}
	provider := &stubProvider{name: llm.ProviderOllama, answer: "ok"}
	svc := newTestService(t, txs, provider, &stubRenderer{})

	if _, err := svc.Chat(context.Background(), uuid.New(), "total?"); err != nil {
		t.Fatalf("Chat: %v", err)
	}

	if !strings.Contains(provider.lastPrompt, "Expenses: 1500.00 INR") {
		t.Error("summary should cover the complete history, not the window")
	}
	if !strings.Contains(provider.lastPrompt, "most recent 600 of 1500") {
		t.Error("truncation note missing from prompt")
	}
	if got := strings.Count(provider.lastPrompt, "daily coffee"); got != 600 {
		t.Errorf("listing should contain exactly the 600-line window, got %d lines", got)
	}
}

func TestWantsChart(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"show me a CHART", true},
		{"graph it", true},
		{"plot my expenses", true},
		{"visualize last month", true},
		{"how much did I spend", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := WantsChart(tc.message); got != tc.want {
			t.Errorf("WantsChart(%q) = %v, want %v", tc.message, got, tc.want)
		}
	}
}
