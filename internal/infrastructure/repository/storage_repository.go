package repository

import (
	"context"
	"fmt"

	"github.com/mobelio/mobelio-api/internal/domain/entity"
	domainRepo "github.com/mobelio/mobelio-api/internal/domain/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type storageRepository struct {
	db *gorm.DB
}

// NewStorageRepository creates the gorm-backed Storage implementation
func NewStorageRepository(db *gorm.DB) domainRepo.Storage {
	return &storageRepository{db: db}
}

func (r *storageRepository) GetOrders(ctx context.Context) ([]entity.Order, error) {
	var orders []entity.Order
	if err := r.db.WithContext(ctx).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return orders, nil
}

func (r *storageRepository) GetCustomers(ctx context.Context) ([]entity.Customer, error) {
	var customers []entity.Customer
	if err := r.db.WithContext(ctx).Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	return customers, nil
}

func (r *storageRepository) GetExpenses(ctx context.Context) ([]entity.Expense, error) {
	var expenses []entity.Expense
	if err := r.db.WithContext(ctx).Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	return expenses, nil
}

func (r *storageRepository) StoreBusinessMetric(ctx context.Context, metricType string, value decimal.Decimal) error {
	metric := entity.BusinessMetric{
		MetricType: metricType,
		Value:      value,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "metric_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&metric).Error
	if err != nil {
		return fmt.Errorf("failed to store business metric %s: %w", metricType, err)
	}
	return nil
}

func (r *storageRepository) GetBusinessMetrics(ctx context.Context) ([]entity.BusinessMetric, error) {
	var metrics []entity.BusinessMetric
	if err := r.db.WithContext(ctx).Find(&metrics).Error; err != nil {
		return nil, fmt.Errorf("failed to load business metrics: %w", err)
	}
	return metrics, nil
}
