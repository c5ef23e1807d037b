package service

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DefaultCompareTolerance is the absolute tolerance used when comparing
// monetary and percentage values against their persisted counterparts. An
// absolute bound was chosen over a relative one so comparisons stay
// deterministic for values near zero.
const DefaultCompareTolerance = 0.01

// RuleViolation names a business-rule invariant a snapshot failed
type RuleViolation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of business-rule validation
type ValidationResult struct {
	Valid      bool            `json:"valid"`
	Violations []RuleViolation `json:"violations"`
}

// ConsistencyValidator checks snapshots against business-rule invariants and
// against previously persisted metric values.
type ConsistencyValidator struct {
	tolerance decimal.Decimal
	log       *logrus.Logger
}

// NewConsistencyValidator creates a validator with the given absolute compare
// tolerance; zero falls back to DefaultCompareTolerance.
func NewConsistencyValidator(tolerance float64, log *logrus.Logger) *ConsistencyValidator {
	if tolerance <= 0 {
		tolerance = DefaultCompareTolerance
	}
	return &ConsistencyValidator{tolerance: decimal.NewFromFloat(tolerance), log: log}
}

// ValidateBusinessRules evaluates every rule exhaustively, never
// short-circuiting, so one call surfaces all problems at once.
func (v *ConsistencyValidator) ValidateBusinessRules(s *MetricsSnapshot) ValidationResult {
	var violations []RuleViolation

	if s.MonthlyRevenue.IsNegative() {
		violations = append(violations, RuleViolation{
			Rule:    "monthly_revenue_non_negative",
			Message: fmt.Sprintf("monthly revenue is negative: %s", s.MonthlyRevenue.StringFixed(2)),
		})
	}
	if s.TotalOutstanding.IsNegative() {
		violations = append(violations, RuleViolation{
			Rule:    "total_outstanding_non_negative",
			Message: fmt.Sprintf("total outstanding is negative: %s", s.TotalOutstanding.StringFixed(2)),
		})
	}
	if s.PaidRevenue.IsNegative() {
		violations = append(violations, RuleViolation{
			Rule:    "paid_revenue_non_negative",
			Message: fmt.Sprintf("paid revenue is negative: %s", s.PaidRevenue.StringFixed(2)),
		})
	}
	if s.MonthlyExpenses.IsNegative() {
		violations = append(violations, RuleViolation{
			Rule:    "monthly_expenses_non_negative",
			Message: fmt.Sprintf("monthly expenses is negative: %s", s.MonthlyExpenses.StringFixed(2)),
		})
	}
	if s.ActiveOrders < 0 {
		violations = append(violations, RuleViolation{
			Rule:    "active_orders_non_negative",
			Message: fmt.Sprintf("active order count is negative: %d", s.ActiveOrders),
		})
	}
	if s.PaymentRate > 150 {
		violations = append(violations, RuleViolation{
			Rule:    "payment_rate_bounded",
			Message: fmt.Sprintf("payment rate %.2f exceeds 150%%", s.PaymentRate),
		})
	}
	// Heuristic against double-counted payments.
	if s.MonthlyRevenue.IsPositive() && s.PaidRevenue.GreaterThan(s.MonthlyRevenue.Mul(decimal.NewFromInt(2))) {
		violations = append(violations, RuleViolation{
			Rule:    "paid_revenue_bounded",
			Message: fmt.Sprintf("paid revenue %s exceeds twice monthly revenue %s",
				s.PaidRevenue.StringFixed(2), s.MonthlyRevenue.StringFixed(2)),
		})
	}

	result := ValidationResult{Valid: len(violations) == 0, Violations: violations}
	for _, violation := range result.Violations {
		v.log.WithFields(logrus.Fields{
			"rule":   violation.Rule,
			"detail": violation.Message,
		}).Error("business rule violation")
	}
	return result
}

// CompareToStored diffs a freshly calculated snapshot against the persisted
// metric values. Integer metrics must match exactly; monetary metrics use the
// absolute tolerance. Mismatches are reported, never blocking: the calculated
// snapshot stays authoritative.
func (v *ConsistencyValidator) CompareToStored(stored map[string]decimal.Decimal, s *MetricsSnapshot) (bool, []string) {
	var issues []string

	exact := map[string]int{
		MetricActiveOrders:   s.ActiveOrders,
		MetricTotalCustomers: s.TotalCustomers,
	}
	for key, calculated := range exact {
		storedValue, ok := stored[key]
		if !ok {
			continue
		}
		if !storedValue.Equal(decimal.NewFromInt(int64(calculated))) {
			issues = append(issues, fmt.Sprintf("%s: stored %s != calculated %d", key, storedValue.String(), calculated))
		}
	}

	monetary := map[string]decimal.Decimal{
		MetricMonthlyRevenue:   s.MonthlyRevenue,
		MetricTotalOutstanding: s.TotalOutstanding,
		MetricPaidRevenue:      s.PaidRevenue,
	}
	for key, calculated := range monetary {
		storedValue, ok := stored[key]
		if !ok {
			continue
		}
		if storedValue.Sub(calculated).Abs().GreaterThan(v.tolerance) {
			issues = append(issues, fmt.Sprintf("%s: stored %s differs from calculated %s beyond tolerance",
				key, storedValue.StringFixed(2), calculated.StringFixed(2)))
		}
	}

	for _, issue := range issues {
		v.log.WithField("issue", issue).Warn("stored metric inconsistency")
	}
	return len(issues) == 0, issues
}
