package repository

import (
	"context"

	"github.com/mobelio/mobelio-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Storage defines the narrow persistence interface the metrics engine
// depends on: raw collections in, derived scalar metrics out.
type Storage interface {
	// GetOrders returns all non-deleted orders.
	GetOrders(ctx context.Context) ([]entity.Order, error)

	// GetCustomers returns all non-deleted customers.
	GetCustomers(ctx context.Context) ([]entity.Customer, error)

	// GetExpenses returns all recorded expenses.
	GetExpenses(ctx context.Context) ([]entity.Expense, error)

	// StoreBusinessMetric upserts a single derived metric value.
	// Idempotent: writing the same key twice keeps one row.
	StoreBusinessMetric(ctx context.Context, metricType string, value decimal.Decimal) error

	// GetBusinessMetrics returns all persisted metric values.
	GetBusinessMetrics(ctx context.Context) ([]entity.BusinessMetric, error)
}
