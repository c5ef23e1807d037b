package service

import (
	"math"
	"time"

	"github.com/mobelio/mobelio-api/internal/domain/entity"
	"github.com/mobelio/mobelio-api/internal/domain/enum"
	"github.com/mobelio/mobelio-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// MetricsCalculator aggregates raw order/customer/expense records into a
// MetricsSnapshot. Calculate is a pure function of its inputs and the clock:
// the same data at the same instant always yields the same snapshot.
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// Calculate computes a full snapshot from the raw collections. It returns a
// CalculationError on missing or malformed input and never a partial result.
func (c *MetricsCalculator) Calculate(
	orders []entity.Order,
	customers []entity.Customer,
	expenses []entity.Expense,
	now time.Time,
) (*MetricsSnapshot, error) {
	if orders == nil {
		return nil, apperror.NewCalculationError("orders collection is missing")
	}
	if customers == nil {
		return nil, apperror.NewCalculationError("customers collection is missing")
	}
	if expenses == nil {
		return nil, apperror.NewCalculationError("expenses collection is missing")
	}
	for i := range orders {
		if orders[i].TotalAmount.IsNegative() {
			return nil, apperror.NewCalculationError("order " + orders[i].OrderNumber + " has a negative total amount")
		}
		if orders[i].DepositAmount.IsNegative() {
			return nil, apperror.NewCalculationError("order " + orders[i].OrderNumber + " has a negative deposit amount")
		}
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)
	weekStart := now.Add(-7 * 24 * time.Hour)

	var (
		monthlyRevenue     = decimal.Zero
		prevMonthRevenue   = decimal.Zero
		monthlyPaid        = decimal.Zero
		monthlyOutstanding = decimal.Zero
		paidRevenue        = decimal.Zero
		totalOutstanding   = decimal.Zero
		weeklyRevenue      = decimal.Zero

		activeOrders    int
		completedOrders int
		monthlyOrders   int
		prevMonthOrders int
		weeklyOrders    int
	)
	ordersByStatus := make(map[string]int)
	aging := &ReceivablesAging{
		Entries:             []ReceivableEntry{},
		TotalCriticalAmount: decimal.Zero,
		TotalHighAmount:     decimal.Zero,
	}

	for i := range orders {
		order := &orders[i]
		thisMonth := !order.CreatedAt.Before(monthStart)
		prevMonth := !order.CreatedAt.Before(prevMonthStart) && order.CreatedAt.Before(monthStart)

		ordersByStatus[order.Status.String()]++

		if thisMonth {
			monthlyOrders++
			monthlyRevenue = monthlyRevenue.Add(order.TotalAmount)
		}
		if prevMonth {
			prevMonthOrders++
			prevMonthRevenue = prevMonthRevenue.Add(order.TotalAmount)
		}
		if !order.CreatedAt.Before(weekStart) {
			weeklyOrders++
			weeklyRevenue = weeklyRevenue.Add(order.TotalAmount)
		}

		if order.Status == enum.OrderStatusCompleted {
			completedOrders++
		}
		if order.Status.IsActive() {
			activeOrders++
		}

		// Completed orders count as fully paid; anything else has only
		// its deposit collected so far.
		var paid decimal.Decimal
		if order.Status == enum.OrderStatusCompleted {
			paid = order.TotalAmount
		} else {
			paid = order.DepositAmount
		}
		paidRevenue = paidRevenue.Add(paid)
		if thisMonth {
			monthlyPaid = monthlyPaid.Add(paid)
		}

		if order.Status.IsActive() {
			balance := order.Balance()
			totalOutstanding = totalOutstanding.Add(balance)
			if thisMonth {
				monthlyOutstanding = monthlyOutstanding.Add(balance)
			}
			if balance.IsPositive() {
				c.appendReceivable(aging, order, balance, now)
			}
		}
	}

	var monthlyExpenses = decimal.Zero
	for i := range expenses {
		if expenses[i].Amount.IsNegative() {
			return nil, apperror.NewCalculationError("expense " + expenses[i].ID.String() + " has a negative amount")
		}
		if !expenses[i].IncurredAt.Before(monthStart) {
			monthlyExpenses = monthlyExpenses.Add(expenses[i].Amount)
		}
	}

	completionRate := 0.0
	if len(orders) > 0 {
		completionRate = roundRate(float64(completedOrders) / float64(len(orders)) * 100)
	}
	paymentRate := 0.0
	if monthlyRevenue.IsPositive() {
		rate, _ := monthlyPaid.Div(monthlyRevenue).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		paymentRate = rate
	}

	snapshot := &MetricsSnapshot{
		Timestamp:           now,
		MonthlyRevenue:      monthlyRevenue.Round(2),
		MonthlyPaidRevenue:  monthlyPaid.Round(2),
		MonthlyOutstanding:  monthlyOutstanding.Round(2),
		MonthlyExpenses:     monthlyExpenses.Round(2),
		NetRevenue:          monthlyRevenue.Sub(monthlyExpenses).Round(2),
		PaidRevenue:         paidRevenue.Round(2),
		TotalOutstanding:    totalOutstanding.Round(2),
		WeeklyRevenue:       weeklyRevenue.Round(2),
		ActiveOrders:        activeOrders,
		TotalCustomers:      len(customers),
		OrderCount:          len(orders),
		CompletedOrderCount: completedOrders,
		WeeklyOrderCount:    weeklyOrders,
		CompletionRate:      completionRate,
		PaymentRate:         paymentRate,
		RevenueGrowth:       growthRate(monthlyRevenue, prevMonthRevenue),
		OrderGrowth:         growthRate(decimal.NewFromInt(int64(monthlyOrders)), decimal.NewFromInt(int64(prevMonthOrders))),
		OrdersByStatus:      ordersByStatus,
		ReceivablesAging:    aging,
	}
	snapshot.Checksum = ComputeChecksum(snapshot)
	return snapshot, nil
}

func (c *MetricsCalculator) appendReceivable(aging *ReceivablesAging, order *entity.Order, balance decimal.Decimal, now time.Time) {
	daysPastDue := 0
	if order.DueDate != nil {
		days := int(math.Floor(now.Sub(*order.DueDate).Hours() / 24))
		if days > 0 {
			daysPastDue = days
		}
	}
	urgency := enum.UrgencyForDaysPastDue(daysPastDue)

	aging.Entries = append(aging.Entries, ReceivableEntry{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.CustomerID,
		BalanceAmount: balance.Round(2),
		DaysPastDue:   daysPastDue,
		UrgencyLevel:  urgency,
	})
	switch urgency {
	case enum.UrgencyCritical:
		aging.CriticalCount++
		aging.TotalCriticalAmount = aging.TotalCriticalAmount.Add(balance).Round(2)
	case enum.UrgencyHigh:
		aging.HighCount++
		aging.TotalHighAmount = aging.TotalHighAmount.Add(balance).Round(2)
	}
}

// growthRate returns the month-over-month percent change. A move from zero
// to anything positive counts as 100% growth; two zero months count as 0%.
func growthRate(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}
	rate, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return rate
}

func roundRate(v float64) float64 {
	return math.Round(v*100) / 100
}
