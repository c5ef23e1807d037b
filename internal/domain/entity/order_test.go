package entity

import (
	"testing"

	"github.com/mobelio/mobelio-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderBalance(t *testing.T) {
	order := Order{
		TotalAmount:   decimal.NewFromInt(100),
		DepositAmount: decimal.NewFromInt(20),
	}
	assert.Equal(t, "80.00", order.Balance().StringFixed(2))
}

func TestOrderBalanceClampsAtZero(t *testing.T) {
	order := Order{
		TotalAmount:   decimal.NewFromInt(100),
		DepositAmount: decimal.NewFromInt(150),
	}
	assert.True(t, order.Balance().IsZero())
	assert.False(t, order.Balance().IsNegative())
}

func TestOrderStatusActivity(t *testing.T) {
	assert.True(t, enum.OrderStatusPending.IsActive())
	assert.True(t, enum.OrderStatusDelivered.IsActive())
	assert.False(t, enum.OrderStatusCompleted.IsActive())
	assert.False(t, enum.OrderStatusCancelled.IsActive())
}
