package service

import (
	"context"
	"fmt"
	"time"

	domainRepo "github.com/mobelio/mobelio-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Discrepancy is one disagreement between an independently recomputed
// aggregate and the latest snapshot.
type Discrepancy struct {
	Metric     string `json:"metric"`
	Recomputed string `json:"recomputed"`
	Reported   string `json:"reported"`
}

// CrossValidationResult is the outcome of an on-demand ground-truth check
type CrossValidationResult struct {
	Valid         bool          `json:"valid"`
	Discrepancies []Discrepancy `json:"discrepancies"`
	CheckedAt     time.Time     `json:"checked_at"`
}

// CrossValidator recomputes key aggregates straight from the raw collections,
// bypassing the cache and every calculator shortcut, to catch drift between
// served values and ground truth. O(n) over all orders; intended as an
// operational self-test, not a hot-path check.
type CrossValidator struct {
	storage   domainRepo.Storage
	history   *SnapshotHistory
	tolerance decimal.Decimal
	log       *logrus.Logger
}

// NewCrossValidator creates a cross-validator over the given storage and
// snapshot history.
func NewCrossValidator(storage domainRepo.Storage, history *SnapshotHistory, tolerance float64, log *logrus.Logger) *CrossValidator {
	if tolerance <= 0 {
		tolerance = DefaultCompareTolerance
	}
	return &CrossValidator{
		storage:   storage,
		history:   history,
		tolerance: decimal.NewFromFloat(tolerance),
		log:       log,
	}
}

// CrossValidate diffs independently recomputed aggregates against the latest
// history entry. With no history yet there is nothing to disagree with and
// the result is trivially valid.
func (cv *CrossValidator) CrossValidate(ctx context.Context) (*CrossValidationResult, error) {
	now := time.Now()
	latest, ok := cv.history.Latest()
	if !ok {
		return &CrossValidationResult{Valid: true, Discrepancies: []Discrepancy{}, CheckedAt: now}, nil
	}

	orders, err := cv.storage.GetOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("cross-validation failed to load orders: %w", err)
	}
	customers, err := cv.storage.GetCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("cross-validation failed to load customers: %w", err)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthlyRevenue := decimal.Zero
	totalOutstanding := decimal.Zero
	activeOrders := 0
	for i := range orders {
		order := &orders[i]
		if !order.CreatedAt.Before(monthStart) {
			monthlyRevenue = monthlyRevenue.Add(order.TotalAmount)
		}
		if order.Status.IsActive() {
			activeOrders++
			totalOutstanding = totalOutstanding.Add(order.Balance())
		}
	}

	var discrepancies []Discrepancy
	checkMoney := func(metric string, recomputed, reported decimal.Decimal) {
		if recomputed.Sub(reported).Abs().GreaterThan(cv.tolerance) {
			discrepancies = append(discrepancies, Discrepancy{
				Metric:     metric,
				Recomputed: recomputed.StringFixed(2),
				Reported:   reported.StringFixed(2),
			})
		}
	}
	checkCount := func(metric string, recomputed, reported int) {
		if recomputed != reported {
			discrepancies = append(discrepancies, Discrepancy{
				Metric:     metric,
				Recomputed: fmt.Sprintf("%d", recomputed),
				Reported:   fmt.Sprintf("%d", reported),
			})
		}
	}

	checkMoney(MetricMonthlyRevenue, monthlyRevenue.Round(2), latest.MonthlyRevenue)
	checkMoney(MetricTotalOutstanding, totalOutstanding.Round(2), latest.TotalOutstanding)
	checkCount(MetricActiveOrders, activeOrders, latest.ActiveOrders)
	checkCount(MetricTotalCustomers, len(customers), latest.TotalCustomers)

	for _, d := range discrepancies {
		cv.log.WithFields(logrus.Fields{
			"metric":     d.Metric,
			"recomputed": d.Recomputed,
			"reported":   d.Reported,
		}).Error("cross-validation discrepancy")
	}

	if discrepancies == nil {
		discrepancies = []Discrepancy{}
	}
	return &CrossValidationResult{
		Valid:         len(discrepancies) == 0,
		Discrepancies: discrepancies,
		CheckedAt:     now,
	}, nil
}
