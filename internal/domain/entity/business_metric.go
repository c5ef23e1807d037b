package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessMetric is the only durable representation of computed metrics:
// one scalar per metric type, upserted on every persist.
type BusinessMetric struct {
	MetricType string          `gorm:"size:100;primary_key" json:"metric_type"`
	Value      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"value"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// TableName returns the table name for the BusinessMetric model
func (BusinessMetric) TableName() string {
	return "business_metrics"
}
