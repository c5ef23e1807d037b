package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderStatus represents the production status of a workshop order
type OrderStatus int

const (
	OrderStatusPending   OrderStatus = 0
	OrderStatusMeasuring OrderStatus = 1
	OrderStatusDesigning OrderStatus = 2
	OrderStatusCutting   OrderStatus = 3
	OrderStatusAssembly  OrderStatus = 4
	OrderStatusCompleted OrderStatus = 5
	OrderStatusDelivered OrderStatus = 6
	OrderStatusCancelled OrderStatus = 7
)

var orderStatusNames = [...]string{
	"pending",
	"measuring",
	"designing",
	"cutting",
	"assembly",
	"completed",
	"delivered",
	"cancelled",
}

func (s OrderStatus) String() string {
	if s < 0 || int(s) >= len(orderStatusNames) {
		return "unknown"
	}
	return orderStatusNames[s]
}

// IsActive reports whether an order in this status still counts toward
// open work and outstanding receivables.
func (s OrderStatus) IsActive() bool {
	return s != OrderStatusCompleted && s != OrderStatusCancelled
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderStatus(i)
		return nil
	}
	for i, name := range orderStatusNames {
		if name == str {
			*s = OrderStatus(i)
			return nil
		}
	}
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderStatus(v)
	case int:
		*s = OrderStatus(v)
	}
	return nil
}
