package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mobelio/mobelio-api/internal/domain/entity"
	"github.com/mobelio/mobelio-api/internal/domain/enum"
	"github.com/mobelio/mobelio-api/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func testOrder(total, deposit float64, status enum.OrderStatus, createdAt time.Time) entity.Order {
	return entity.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-" + uuid.New().String()[:8],
		TotalAmount:   dec(total),
		DepositAmount: dec(deposit),
		Status:        status,
		CreatedAt:     createdAt,
	}
}

func TestCalculateCoreAggregates(t *testing.T) {
	calc := NewMetricsCalculator()
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	orders := []entity.Order{
		testOrder(100, 20, enum.OrderStatusPending, now.Add(-24*time.Hour)),
		testOrder(200, 200, enum.OrderStatusCompleted, now.Add(-48*time.Hour)),
	}
	customers := []entity.Customer{{ID: uuid.New()}, {ID: uuid.New()}}

	snap, err := calc.Calculate(orders, customers, []entity.Expense{}, now)
	require.NoError(t, err)

	assert.Equal(t, "300.00", snap.MonthlyRevenue.StringFixed(2))
	assert.Equal(t, "80.00", snap.TotalOutstanding.StringFixed(2))
	assert.Equal(t, "220.00", snap.PaidRevenue.StringFixed(2))
	assert.Equal(t, 1, snap.ActiveOrders)
	assert.Equal(t, 50.0, snap.CompletionRate)
	assert.Equal(t, 2, snap.OrderCount)
	assert.Equal(t, 1, snap.CompletedOrderCount)
	assert.Equal(t, 2, snap.TotalCustomers)
	// 220 / 300 * 100
	assert.InDelta(t, 73.33, snap.PaymentRate, 0.01)
	assert.Equal(t, 1, snap.OrdersByStatus["pending"])
	assert.Equal(t, 1, snap.OrdersByStatus["completed"])
	assert.NotEmpty(t, snap.Checksum)
}

func TestCalculateEmptyCollections(t *testing.T) {
	calc := NewMetricsCalculator()
	now := time.Now()

	snap, err := calc.Calculate([]entity.Order{}, []entity.Customer{}, []entity.Expense{}, now)
	require.NoError(t, err)

	assert.Equal(t, 0.0, snap.CompletionRate)
	assert.Equal(t, 0.0, snap.PaymentRate)
	assert.Equal(t, 0.0, snap.RevenueGrowth)
	assert.Equal(t, "0.00", snap.MonthlyRevenue.StringFixed(2))
	assert.Equal(t, "0.00", snap.TotalOutstanding.StringFixed(2))
}

func TestCalculateMissingCollections(t *testing.T) {
	calc := NewMetricsCalculator()
	now := time.Now()

	_, err := calc.Calculate(nil, []entity.Customer{}, []entity.Expense{}, now)
	assert.True(t, apperror.IsCalculationError(err))

	_, err = calc.Calculate([]entity.Order{}, nil, []entity.Expense{}, now)
	assert.True(t, apperror.IsCalculationError(err))

	_, err = calc.Calculate([]entity.Order{}, []entity.Customer{}, nil, now)
	assert.True(t, apperror.IsCalculationError(err))
}

func TestCalculateMalformedOrder(t *testing.T) {
	calc := NewMetricsCalculator()
	now := time.Now()

	orders := []entity.Order{testOrder(-50, 0, enum.OrderStatusPending, now)}
	_, err := calc.Calculate(orders, []entity.Customer{}, []entity.Expense{}, now)
	assert.True(t, apperror.IsCalculationError(err))

	orders = []entity.Order{testOrder(50, -10, enum.OrderStatusPending, now)}
	_, err = calc.Calculate(orders, []entity.Customer{}, []entity.Expense{}, now)
	assert.True(t, apperror.IsCalculationError(err))
}

func TestBalanceNeverNegative(t *testing.T) {
	calc := NewMetricsCalculator()
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	// Deposit exceeds total: balance clamps to zero instead of going negative.
	orders := []entity.Order{testOrder(100, 150, enum.OrderStatusMeasuring, now.Add(-time.Hour))}
	snap, err := calc.Calculate(orders, []entity.Customer{}, []entity.Expense{}, now)
	require.NoError(t, err)

	assert.Equal(t, "0.00", snap.TotalOutstanding.StringFixed(2))
	assert.False(t, snap.TotalOutstanding.IsNegative())
	assert.Empty(t, snap.ReceivablesAging.Entries)
}

func TestCalculateExcludesCompletedAndCancelledFromOutstanding(t *testing.T) {
	calc := NewMetricsCalculator()
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	orders := []entity.Order{
		testOrder(100, 20, enum.OrderStatusPending, now.Add(-time.Hour)),
		testOrder(300, 50, enum.OrderStatusCancelled, now.Add(-time.Hour)),
		testOrder(400, 100, enum.OrderStatusCompleted, now.Add(-time.Hour)),
		testOrder(200, 80, enum.OrderStatusAssembly, now.Add(-time.Hour)),
	}
	snap, err := calc.Calculate(orders, []entity.Customer{}, []entity.Expense{}, now)
	require.NoError(t, err)

	// Only pending (80) and assembly (120) carry a balance.
	assert.Equal(t, "200.00", snap.TotalOutstanding.StringFixed(2))
	assert.Equal(t, 2, snap.ActiveOrders)
}

func TestCalculateGrowthRates(t *testing.T) {
	calc := NewMetricsCalculator()
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	prevMonth := time.Date(2026, time.February, 10, 12, 0, 0, 0, time.UTC)

	t.Run("standard percent change", func(t *testing.T) {
		orders := []entity.Order{
			testOrder(150, 0, enum.OrderStatusPending, now.Add(-time.Hour)),
			testOrder(100, 0, enum.OrderStatusPending, prevMonth),
		}
		snap, err := calc.Calculate(orders, []entity.Customer{}, []entity.Expense{}, now)
		require.NoError(t, err)
		assert.InDelta(t, 50.0, snap.RevenueGrowth, 0.01)
	})

	t.Run("growth from zero is 100 percent", func(t *testing.T) {
		orders := []entity.Order{testOrder(150, 0, enum.OrderStatusPending, now.Add(-time.Hour))}
		snap, err := calc.Calculate(orders, []entity.Customer{}, []entity.Expense{}, now)
		require.NoError(t, err)
		assert.Equal(t, 100.0, snap.RevenueGrowth)
		assert.Equal(t, 100.0, snap.OrderGrowth)
	})

	t.Run("two zero months give zero growth", func(t *testing.T) {
		old := testOrder(150, 0, enum.OrderStatusPending, now.AddDate(0, -3, 0))
		snap, err := calc.Calculate([]entity.Order{old}, []entity.Customer{}, []entity.Expense{}, now)
		require.NoError(t, err)
		assert.Equal(t, 0.0, snap.RevenueGrowth)
	})
}

func TestCalculateWeeklyVelocity(t *testing.T) {
	calc := NewMetricsCalculator()
	now := time.Date(2026, time.March, 25, 12, 0, 0, 0, time.UTC)

	orders := []entity.Order{
		testOrder(100, 0, enum.OrderStatusPending, now.Add(-3*24*time.Hour)),
		testOrder(250, 0, enum.OrderStatusPending, now.Add(-6*24*time.Hour)),
		testOrder(999, 0, enum.OrderStatusPending, now.Add(-10*24*time.Hour)),
	}
	snap, err := calc.Calculate(orders, []entity.Customer{}, []entity.Expense{}, now)
	require.NoError(t, err)

	assert.Equal(t, 2, snap.WeeklyOrderCount)
	assert.Equal(t, "350.00", snap.WeeklyRevenue.StringFixed(2))
}

func TestCalculateReceivablesAging(t *testing.T) {
	calc := NewMetricsCalculator()
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	due := now.Add(-40 * 24 * time.Hour)
	order := testOrder(100, 25, enum.OrderStatusMeasuring, now.AddDate(0, -2, 0))
	order.DueDate = &due

	snap, err := calc.Calculate([]entity.Order{order}, []entity.Customer{}, []entity.Expense{}, now)
	require.NoError(t, err)

	require.Len(t, snap.ReceivablesAging.Entries, 1)
	entry := snap.ReceivablesAging.Entries[0]
	assert.Equal(t, 40, entry.DaysPastDue)
	assert.Equal(t, enum.UrgencyCritical, entry.UrgencyLevel)
	assert.Equal(t, "75.00", entry.BalanceAmount.StringFixed(2))
	assert.Equal(t, 1, snap.ReceivablesAging.CriticalCount)
	assert.Equal(t, "75.00", snap.ReceivablesAging.TotalCriticalAmount.StringFixed(2))
}

func TestCalculateAgingBuckets(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		pastDays int
		want     enum.UrgencyLevel
	}{
		{"no overdue is normal", 0, enum.UrgencyNormal},
		{"eight days is medium", 8, enum.UrgencyMedium},
		{"fifteen days is high", 15, enum.UrgencyHigh},
		{"thirty one days is critical", 31, enum.UrgencyCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := NewMetricsCalculator()
			due := now.Add(-time.Duration(tt.pastDays) * 24 * time.Hour)
			order := testOrder(50, 0, enum.OrderStatusCutting, now.AddDate(0, -1, 5))
			order.DueDate = &due

			snap, err := calc.Calculate([]entity.Order{order}, []entity.Customer{}, []entity.Expense{}, now)
			require.NoError(t, err)
			require.Len(t, snap.ReceivablesAging.Entries, 1)
			assert.Equal(t, tt.want, snap.ReceivablesAging.Entries[0].UrgencyLevel)
		})
	}
}

func TestCalculateNoDueDateMeansNotPastDue(t *testing.T) {
	calc := NewMetricsCalculator()
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	order := testOrder(100, 10, enum.OrderStatusDesigning, now.AddDate(0, -2, 0))
	snap, err := calc.Calculate([]entity.Order{order}, []entity.Customer{}, []entity.Expense{}, now)
	require.NoError(t, err)

	require.Len(t, snap.ReceivablesAging.Entries, 1)
	assert.Equal(t, 0, snap.ReceivablesAging.Entries[0].DaysPastDue)
	assert.Equal(t, enum.UrgencyNormal, snap.ReceivablesAging.Entries[0].UrgencyLevel)
}

func TestCalculateMonthlyExpensesAndNetRevenue(t *testing.T) {
	calc := NewMetricsCalculator()
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	orders := []entity.Order{testOrder(500, 100, enum.OrderStatusPending, now.Add(-time.Hour))}
	expenses := []entity.Expense{
		{ID: uuid.New(), Category: "timber", Amount: dec(120), IncurredAt: now.Add(-48 * time.Hour)},
		{ID: uuid.New(), Category: "rent", Amount: dec(80), IncurredAt: now.AddDate(0, -2, 0)},
	}

	snap, err := calc.Calculate(orders, []entity.Customer{}, expenses, now)
	require.NoError(t, err)

	assert.Equal(t, "120.00", snap.MonthlyExpenses.StringFixed(2))
	assert.Equal(t, "380.00", snap.NetRevenue.StringFixed(2))
}

func TestCalculateIdempotent(t *testing.T) {
	calc := NewMetricsCalculator()
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	orders := []entity.Order{
		testOrder(100, 20, enum.OrderStatusPending, now.Add(-24*time.Hour)),
		testOrder(200, 200, enum.OrderStatusCompleted, now.Add(-48*time.Hour)),
	}
	customers := []entity.Customer{{ID: uuid.New()}}

	first, err := calc.Calculate(orders, customers, []entity.Expense{}, now)
	require.NoError(t, err)
	second, err := calc.Calculate(orders, customers, []entity.Expense{}, now)
	require.NoError(t, err)

	assert.Equal(t, first.Checksum, second.Checksum)
	assert.True(t, first.MonthlyRevenue.Equal(second.MonthlyRevenue))
	assert.True(t, first.TotalOutstanding.Equal(second.TotalOutstanding))
	assert.True(t, first.PaidRevenue.Equal(second.PaidRevenue))
	assert.Equal(t, first.ActiveOrders, second.ActiveOrders)
	assert.Equal(t, first.OrdersByStatus, second.OrdersByStatus)
}

func TestChecksumDetectsDrift(t *testing.T) {
	now := time.Now()
	a := NewZeroSnapshot(now)
	b := NewZeroSnapshot(now)
	assert.Equal(t, a.Checksum, b.Checksum)

	c := NewZeroSnapshot(now)
	c.MonthlyRevenue = dec(0.01)
	assert.NotEqual(t, a.Checksum, ComputeChecksum(c))
}
