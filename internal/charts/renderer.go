// Package charts buckets a user's transactions and renders one of three PNG
// plot variants. Rendering is best-effort from the caller's point of view: an
// empty history yields no chart, an empty filtered subset yields a "No data"
// placeholder image, and only I/O failures surface as errors.
package charts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"expense-advisor/internal/models"

	"github.com/google/uuid"
	"github.com/wcharczuk/go-chart/v2"
	"go.uber.org/zap"
)

type Kind int

const (
	KindTimeSeries Kind = iota
	KindMonthlyStacked
	KindCategoryPie
)

// PickKind selects a rendering strategy from the free-text request hint.
func PickKind(hint string) Kind {
	lower := strings.ToLower(hint)
	switch {
	case strings.Contains(lower, "monthly"):
		return KindMonthlyStacked
	case strings.Contains(lower, "pie"):
		return KindCategoryPie
	default:
		return KindTimeSeries
	}
}

type Renderer struct {
	dir     string
	baseURL string
	logger  *zap.Logger
}

func NewRenderer(dir, baseURL string, logger *zap.Logger) (*Renderer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}
	return &Renderer{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

// Render buckets the transactions per the hinted strategy, writes the PNG
// under a request-scoped filename and returns its public URL. An empty
// transaction set returns "" with no error.
func (r *Renderer) Render(txs []models.Transaction, hint string, userID uuid.UUID) (string, error) {
	if len(txs) == 0 {
		return "", nil
	}

	var renderable pngRenderable
	switch PickKind(hint) {
	case KindMonthlyStacked:
		renderable = r.monthlyStacked(txs)
	case KindCategoryPie:
		renderable = r.categoryPie(txs)
	default:
		renderable = r.timeSeries(txs)
	}
	return r.save(renderable, userID)
}

// pngRenderable is the surface shared by chart.Chart, chart.StackedBarChart
// and chart.PieChart.
type pngRenderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func (r *Renderer) save(c pngRenderable, userID uuid.UUID) (string, error) {
	// User identity plus current time keeps concurrent requests on distinct
	// output paths.
	name := fmt.Sprintf("chart_%s_%d.png", userID, time.Now().UnixNano())
	path := filepath.Join(r.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := c.Render(chart.PNG, f); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to render chart: %w", err)
	}

	r.logger.Info("Chart rendered", zap.String("file", name))
	return r.baseURL + "/serve-files/" + name, nil
}

// monthlyStacked shows income vs expenses per calendar month as stacked bars.
func (r *Renderer) monthlyStacked(txs []models.Transaction) pngRenderable {
	type bucket struct{ credit, debit float64 }
	buckets := map[string]*bucket{}
	for _, tx := range txs {
		month := tx.OccurredAt.Format("2006-01")
		b, ok := buckets[month]
		if !ok {
			b = &bucket{}
			buckets[month] = b
		}
		switch tx.Kind {
		case models.KindCredit:
			b.credit += tx.Amount.InexactFloat64()
		case models.KindDebit:
			b.debit += tx.Amount.InexactFloat64()
		}
	}

	months := make([]string, 0, len(buckets))
	for m, b := range buckets {
		if b.credit+b.debit > 0 {
			months = append(months, m)
		}
	}
	sort.Strings(months)

	if len(months) == 0 {
		return placeholder("Monthly Income vs Expenses")
	}

	bars := make([]chart.StackedBar, 0, len(months))
	for _, m := range months {
		b := buckets[m]
		values := make([]chart.Value, 0, 2)
		// A zero slice breaks the stack normalization, so only positive
		// components are stacked.
		if b.credit > 0 {
			values = append(values, chart.Value{Label: "Income", Value: b.credit})
		}
		if b.debit > 0 {
			values = append(values, chart.Value{Label: "Expenses", Value: b.debit})
		}
		bars = append(bars, chart.StackedBar{Name: m, Values: values})
	}

	return chart.StackedBarChart{
		Title:      "Monthly Income vs Expenses",
		TitleStyle: chart.Shown(),
		Width:      1000,
		Height:     600,
		BarSpacing: 40,
		XAxis:      chart.Shown(),
		YAxis:      chart.Shown(),
		Bars:       bars,
	}
}

// categoryPie breaks down debit transactions by memo.
func (r *Renderer) categoryPie(txs []models.Transaction) pngRenderable {
	totals := map[string]float64{}
	order := []string{}
	for _, tx := range txs {
		if tx.Kind != models.KindDebit {
			continue
		}
		label := tx.Memo
		if label == "" {
			label = "No details"
		}
		if _, ok := totals[label]; !ok {
			order = append(order, label)
		}
		totals[label] += tx.Amount.InexactFloat64()
	}

	values := make([]chart.Value, 0, len(order))
	for _, label := range order {
		if totals[label] > 0 {
			values = append(values, chart.Value{Label: label, Value: totals[label]})
		}
	}

	if len(values) == 0 {
		return placeholder("Expense Distribution")
	}

	return chart.PieChart{
		Title:      "Expense Distribution",
		TitleStyle: chart.Shown(),
		Width:      800,
		Height:     800,
		Values:     values,
	}
}

// timeSeries plots daily credit and debit sums as two lines.
func (r *Renderer) timeSeries(txs []models.Transaction) pngRenderable {
	creditByDate := map[time.Time]float64{}
	debitByDate := map[time.Time]float64{}
	dateSet := map[time.Time]struct{}{}

	for _, tx := range txs {
		day := tx.OccurredAt.Truncate(24 * time.Hour)
		dateSet[day] = struct{}{}
		switch tx.Kind {
		case models.KindCredit:
			creditByDate[day] += tx.Amount.InexactFloat64()
		case models.KindDebit:
			debitByDate[day] += tx.Amount.InexactFloat64()
		}
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	credits := make([]float64, 0, len(dates))
	debits := make([]float64, 0, len(dates))
	for _, d := range dates {
		credits = append(credits, creditByDate[d])
		debits = append(debits, debitByDate[d])
	}

	// An axis cannot be scaled from a single point; repeat it a day later.
	if len(dates) == 1 {
		dates = append(dates, dates[0].Add(24*time.Hour))
		credits = append(credits, credits[0])
		debits = append(debits, debits[0])
	}

	return chart.Chart{
		Title:  "Income vs Expenses Over Time",
		Width:  1000,
		Height: 600,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{Name: "Income", XValues: dates, YValues: credits},
			chart.TimeSeries{Name: "Expenses", XValues: dates, YValues: debits},
		},
	}
}

// placeholder is the graceful "no data" image: a single slice instead of a
// failed render.
func placeholder(title string) pngRenderable {
	return chart.PieChart{
		Title:      title,
		TitleStyle: chart.Shown(),
		Width:      800,
		Height:     800,
		Values:     []chart.Value{{Label: "No data", Value: 1}},
	}
}
