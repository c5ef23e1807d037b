package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mobelio/mobelio-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order represents a made-to-order furniture job
type Order struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID    *uuid.UUID       `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	OrderNumber   string           `gorm:"size:100;unique;not null" json:"order_number"`
	TotalAmount   decimal.Decimal  `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	DepositAmount decimal.Decimal  `gorm:"type:numeric(12,2);not null;default:0" json:"deposit_amount"`
	Status        enum.OrderStatus `gorm:"default:0;index" json:"status"`
	DueDate       *time.Time       `gorm:"type:date" json:"due_date,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// Balance returns the unpaid remainder on the order, never negative.
func (o *Order) Balance() decimal.Decimal {
	balance := o.TotalAmount.Sub(o.DepositAmount)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
