// Package advisor turns a user's transaction history into a grounded,
// bounded prompt, routes it to the configured LLM backend and validates the
// answer before it reaches the caller. Every request is handled statelessly:
// one repository read, one outbound provider call, optionally one chart file
// write.
package advisor

import (
	"context"
	"fmt"
	"strings"

	"expense-advisor/internal/dto"
	"expense-advisor/internal/llm"
	"expense-advisor/internal/models"
	"expense-advisor/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransactionSource lists a user's complete history in chronological
// ascending order, recorded_at as tiebreak.
type TransactionSource interface {
	ListByOwner(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
}

// ProfileSource resolves the read-only financial profile projection.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.FinancialProfile, error)
}

// ChartRenderer persists a plot of the history and returns its public URL, or
// "" when there is nothing to plot.
type ChartRenderer interface {
	Render(txs []models.Transaction, hint string, userID uuid.UUID) (string, error)
}

var chartKeywords = []string{"chart", "graph", "plot", "visualize"}

// WantsChart reports whether a chat message implies a visualization.
func WantsChart(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range chartKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

type Service struct {
	transactions TransactionSource
	profiles     ProfileSource
	provider     llm.Provider
	charts       ChartRenderer
	cfg          *config.AdvisorConfig
	logger       *zap.Logger
}

func NewService(
	transactions TransactionSource,
	profiles ProfileSource,
	provider llm.Provider,
	charts ChartRenderer,
	cfg *config.AdvisorConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		transactions: transactions,
		profiles:     profiles,
		provider:     provider,
		charts:       charts,
		cfg:          cfg,
		logger:       logger,
	}
}

// Chat answers one question about the user's own records. The chart, when
// requested, is best-effort: a rendering failure is logged and the answer
// ships without it.
func (s *Service) Chat(ctx context.Context, userID uuid.UUID, message string) (*dto.ChatResponse, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	txs, err := s.transactions.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	prompt, err := s.composePrompt(profile, txs, message)
	if err != nil {
		return nil, err
	}

	resp := s.provider.Generate(ctx, prompt)
	if resp.Status != llm.StatusOK {
		s.logger.Warn("Provider call degraded",
			zap.String("provider", s.provider.Name()),
			zap.Int("status", int(resp.Status)),
			zap.String("detail", resp.Detail),
		)
	}

	answer := ValidateResponse(resp.Text)

	out := &dto.ChatResponse{Response: answer}
	if WantsChart(message) {
		url, err := s.charts.Render(txs, message, userID)
		if err != nil {
			s.logger.Error("Chart generation failed", zap.Error(err))
		} else if url != "" {
			out.ChartURL = &url
		}
	}

	return out, nil
}

// composePrompt picks the composition mode from the provider family: the
// local large-context backend gets the full encoded listing under the token
// budget, metered hosted backends get the compact summary form.
func (s *Service) composePrompt(profile *models.FinancialProfile, txs []models.Transaction, message string) (string, error) {
	summary, err := Summarize(txs)
	if err != nil {
		return "", err
	}
	summaryLine := summary.Line(profile.Currency)

	if s.provider.Name() != llm.ProviderOllama {
		recent := RecentWindow(txs, s.cfg.CompactRecentWindow)
		return ComposeCompact(profile, summaryLine, recent, message), nil
	}

	lines, err := EncodeTransactions(txs)
	if err != nil {
		return "", err
	}
	pc := BuildContext(summaryLine, lines, s.cfg.TokenCeiling, s.cfg.TruncationWindow)
	if pc.Truncated() {
		s.logger.Info("Transaction context truncated",
			zap.Int("total", pc.TotalCount),
			zap.Int("shown", len(pc.Lines)),
		)
	}
	return ComposeFull(profile, pc, message), nil
}
