package service

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"github.com/mobelio/mobelio-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// MetricsSnapshot is one computed, timestamped instance of all dashboard
// metrics. Snapshots are immutable once created: the cache and history hand
// out the same instance and never mutate it.
type MetricsSnapshot struct {
	Timestamp           time.Time         `json:"timestamp"`
	MonthlyRevenue      decimal.Decimal   `json:"monthly_revenue"`
	MonthlyPaidRevenue  decimal.Decimal   `json:"monthly_paid_revenue"`
	MonthlyOutstanding  decimal.Decimal   `json:"monthly_outstanding"`
	MonthlyExpenses     decimal.Decimal   `json:"monthly_expenses"`
	NetRevenue          decimal.Decimal   `json:"net_revenue"`
	PaidRevenue         decimal.Decimal   `json:"paid_revenue"`
	TotalOutstanding    decimal.Decimal   `json:"total_outstanding"`
	WeeklyRevenue       decimal.Decimal   `json:"weekly_revenue"`
	ActiveOrders        int               `json:"active_orders"`
	TotalCustomers      int               `json:"total_customers"`
	OrderCount          int               `json:"order_count"`
	CompletedOrderCount int               `json:"completed_order_count"`
	WeeklyOrderCount    int               `json:"weekly_order_count"`
	CompletionRate      float64           `json:"completion_rate"`
	PaymentRate         float64           `json:"payment_rate"`
	RevenueGrowth       float64           `json:"revenue_growth"`
	OrderGrowth         float64           `json:"order_growth"`
	OrdersByStatus      map[string]int    `json:"orders_by_status"`
	ReceivablesAging    *ReceivablesAging `json:"receivables_aging"`
	Checksum            string            `json:"checksum"`
}

// ReceivableEntry is the unpaid balance on a single non-completed,
// non-cancelled order, classified by how far past due it is.
type ReceivableEntry struct {
	OrderID       uuid.UUID         `json:"order_id"`
	OrderNumber   string            `json:"order_number"`
	CustomerID    *uuid.UUID        `json:"customer_id,omitempty"`
	BalanceAmount decimal.Decimal   `json:"balance_amount"`
	DaysPastDue   int               `json:"days_past_due"`
	UrgencyLevel  enum.UrgencyLevel `json:"urgency_level"`
}

// ReceivablesAging aggregates receivable entries into urgency buckets.
type ReceivablesAging struct {
	Entries             []ReceivableEntry `json:"entries"`
	CriticalCount       int               `json:"critical_count"`
	HighCount           int               `json:"high_count"`
	TotalCriticalAmount decimal.Decimal   `json:"total_critical_amount"`
	TotalHighAmount     decimal.Decimal   `json:"total_high_amount"`
}

// Persisted metric keys. Only these derived scalars are durable; full
// snapshots never are.
const (
	MetricMonthlyRevenue   = "monthly_revenue"
	MetricActiveOrders     = "active_orders"
	MetricTotalCustomers   = "total_customers"
	MetricTotalOutstanding = "total_outstanding"
	MetricPaidRevenue      = "paid_revenue"
)

// ComputeChecksum returns a stable FNV-1a hash over the five core snapshot
// fields. Two independent recomputations of the same underlying data must
// produce the same checksum; a mismatch signals silent drift.
func ComputeChecksum(s *MetricsSnapshot) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%d|%d|%s|%s",
		s.MonthlyRevenue.StringFixed(2),
		s.ActiveOrders,
		s.TotalCustomers,
		s.TotalOutstanding.StringFixed(2),
		s.PaidRevenue.StringFixed(2),
	)
	return fmt.Sprintf("%016x", h.Sum64())
}

func decimalToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

// NewZeroSnapshot returns the documented all-zero fallback served when
// calculation fails and no previous snapshot exists.
func NewZeroSnapshot(now time.Time) *MetricsSnapshot {
	s := &MetricsSnapshot{
		Timestamp:          now,
		MonthlyRevenue:     decimal.Zero,
		MonthlyPaidRevenue: decimal.Zero,
		MonthlyOutstanding: decimal.Zero,
		MonthlyExpenses:    decimal.Zero,
		NetRevenue:         decimal.Zero,
		PaidRevenue:        decimal.Zero,
		TotalOutstanding:   decimal.Zero,
		WeeklyRevenue:      decimal.Zero,
		OrdersByStatus:     map[string]int{},
		ReceivablesAging: &ReceivablesAging{
			Entries:             []ReceivableEntry{},
			TotalCriticalAmount: decimal.Zero,
			TotalHighAmount:     decimal.Zero,
		},
	}
	s.Checksum = ComputeChecksum(s)
	return s
}
