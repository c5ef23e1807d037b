package service

import (
	"context"
	"time"

	"github.com/mobelio/mobelio-api/internal/config"
	domainRepo "github.com/mobelio/mobelio-api/internal/domain/repository"
	"github.com/mobelio/mobelio-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// MetricsService runs the dashboard metrics pipeline: cache check, fresh
// calculation from storage, validation, anomaly detection, history append,
// best-effort persistence, cache update. Callers never see an error under
// normal operation; the worst outcome is a stale or all-zero snapshot, and
// that degradation is only visible through ValidateMetrics.
type MetricsService struct {
	storage        domainRepo.Storage
	calculator     *MetricsCalculator
	cache          *MetricsCache
	history        *SnapshotHistory
	detector       *AnomalyDetector
	validator      *ConsistencyValidator
	crossValidator *CrossValidator
	strict         bool
	log            *logrus.Logger
	now            func() time.Time
}

// NewMetricsService wires the metrics engine from configuration. The service
// owns the cache and history for its process lifetime; concurrent cache-miss
// callers may recompute in parallel, which is wasted but correct since
// calculation is a pure function of the same underlying data.
func NewMetricsService(storage domainRepo.Storage, cfg config.MetricsConfig, log *logrus.Logger) *MetricsService {
	history := NewSnapshotHistory(cfg.HistorySize)
	return &MetricsService{
		storage:        storage,
		calculator:     NewMetricsCalculator(),
		cache:          NewMetricsCache(cfg.CacheTTL),
		history:        history,
		detector:       NewAnomalyDetector(cfg.AnomalyThreshold, log),
		validator:      NewConsistencyValidator(cfg.CompareTolerance, log),
		crossValidator: NewCrossValidator(storage, history, cfg.CompareTolerance, log),
		strict:         cfg.StrictValidation,
		log:            log,
		now:            time.Now,
	}
}

// GetDashboardMetrics returns the cached snapshot while fresh, otherwise
// recomputes from storage.
func (s *MetricsService) GetDashboardMetrics(ctx context.Context) (*MetricsSnapshot, error) {
	now := s.now()
	if snapshot, ok := s.cache.Get(now); ok {
		return snapshot, nil
	}
	return s.recompute(ctx, now), nil
}

// RefreshMetrics forces a recomputation regardless of cache freshness.
func (s *MetricsService) RefreshMetrics(ctx context.Context) (*MetricsSnapshot, error) {
	s.cache.Invalidate()
	return s.recompute(ctx, s.now()), nil
}

// recompute runs the full pipeline. Calculation failure falls back to the
// last good cached snapshot, or the documented all-zero default when none
// exists.
func (s *MetricsService) recompute(ctx context.Context, now time.Time) *MetricsSnapshot {
	orders, err := s.storage.GetOrders(ctx)
	if err != nil {
		s.log.WithError(err).Error("metrics recomputation failed to load orders")
		return s.fallback(now)
	}
	customers, err := s.storage.GetCustomers(ctx)
	if err != nil {
		s.log.WithError(err).Error("metrics recomputation failed to load customers")
		return s.fallback(now)
	}
	expenses, err := s.storage.GetExpenses(ctx)
	if err != nil {
		s.log.WithError(err).Error("metrics recomputation failed to load expenses")
		return s.fallback(now)
	}

	snapshot, err := s.calculator.Calculate(orders, customers, expenses, now)
	if err != nil {
		s.log.WithError(err).Error("metrics calculation failed")
		return s.fallback(now)
	}

	validation := s.validator.ValidateBusinessRules(snapshot)
	if stored, err := s.storedMetrics(ctx); err != nil {
		s.log.WithError(err).Warn("skipping stored-metric comparison")
	} else {
		s.validator.CompareToStored(stored, snapshot)
	}

	if s.strict && !validation.Valid {
		s.log.WithField("violations", len(validation.Violations)).
			Error("refusing to serve snapshot under strict validation")
		return s.fallback(now)
	}

	if prev, ok := s.history.Latest(); ok {
		s.detector.Compare(prev, snapshot)
	}
	s.history.Append(snapshot)

	s.persist(ctx, snapshot)
	s.cache.Set(snapshot, now)
	return snapshot
}

// fallback serves the last good snapshot, or the all-zero default.
func (s *MetricsService) fallback(now time.Time) *MetricsSnapshot {
	if last, ok := s.cache.Last(); ok {
		return last
	}
	return NewZeroSnapshot(now)
}

// persist writes the derived scalar metrics. Failures are logged and
// swallowed: metric computation must succeed even when the durable write
// does not.
func (s *MetricsService) persist(ctx context.Context, snapshot *MetricsSnapshot) {
	values := map[string]decimal.Decimal{
		MetricMonthlyRevenue:   snapshot.MonthlyRevenue,
		MetricActiveOrders:     decimal.NewFromInt(int64(snapshot.ActiveOrders)),
		MetricTotalCustomers:   decimal.NewFromInt(int64(snapshot.TotalCustomers)),
		MetricTotalOutstanding: snapshot.TotalOutstanding,
		MetricPaidRevenue:      snapshot.PaidRevenue,
	}
	for metricType, value := range values {
		if err := s.storage.StoreBusinessMetric(ctx, metricType, value); err != nil {
			s.log.WithError(apperror.NewPersistenceError(metricType, err)).Warn("metric persistence failed")
		}
	}
}

func (s *MetricsService) storedMetrics(ctx context.Context) (map[string]decimal.Decimal, error) {
	records, err := s.storage.GetBusinessMetrics(ctx)
	if err != nil {
		return nil, err
	}
	stored := make(map[string]decimal.Decimal, len(records))
	for _, record := range records {
		stored[record.MetricType] = record.Value
	}
	return stored, nil
}

// ValidationReport is the operator-facing diagnostic combining business-rule
// validation, stored-value comparison, and ground-truth cross-validation.
type ValidationReport struct {
	Calculated    *MetricsSnapshot           `json:"calculated"`
	Stored        map[string]decimal.Decimal `json:"stored"`
	Consistent    bool                       `json:"consistent"`
	Issues        []string                   `json:"issues"`
	Discrepancies []Discrepancy              `json:"discrepancies"`
}

// ValidateMetrics recalculates a snapshot without touching cache or history,
// compares it against persisted values and independently recomputed
// aggregates, and reports every issue found. Diagnostic only: an invalid
// snapshot is still what GetDashboardMetrics serves unless strict validation
// is enabled.
func (s *MetricsService) ValidateMetrics(ctx context.Context) (*ValidationReport, error) {
	now := s.now()

	orders, err := s.storage.GetOrders(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := s.storage.GetCustomers(ctx)
	if err != nil {
		return nil, err
	}
	expenses, err := s.storage.GetExpenses(ctx)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.calculator.Calculate(orders, customers, expenses, now)
	if err != nil {
		return nil, err
	}

	issues := []string{}
	validation := s.validator.ValidateBusinessRules(snapshot)
	for _, violation := range validation.Violations {
		issues = append(issues, violation.Message)
	}

	stored, err := s.storedMetrics(ctx)
	if err != nil {
		return nil, err
	}
	_, compareIssues := s.validator.CompareToStored(stored, snapshot)
	issues = append(issues, compareIssues...)

	crossResult, err := s.crossValidator.CrossValidate(ctx)
	if err != nil {
		return nil, err
	}

	return &ValidationReport{
		Calculated:    snapshot,
		Stored:        stored,
		Consistent:    len(issues) == 0 && crossResult.Valid,
		Issues:        issues,
		Discrepancies: crossResult.Discrepancies,
	}, nil
}

// CrossValidateMetrics exposes the standalone ground-truth self-test.
func (s *MetricsService) CrossValidateMetrics(ctx context.Context) (*CrossValidationResult, error) {
	return s.crossValidator.CrossValidate(ctx)
}

// History exposes the snapshot ring buffer for trend endpoints and tests.
func (s *MetricsService) History() *SnapshotHistory {
	return s.history
}
