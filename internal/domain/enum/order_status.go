package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderStatus represents the fulfilment status of an order
type OrderStatus int

const (
	OrderStatusPending    OrderStatus = 0
	OrderStatusProcessing OrderStatus = 1
	OrderStatusShipped    OrderStatus = 2
	OrderStatusDelivered  OrderStatus = 3
	OrderStatusCancelled  OrderStatus = 4
)

func (s OrderStatus) String() string {
	return [...]string{"Pending", "Processing", "Shipped", "Delivered", "Cancelled"}[s]
}

// ParseOrderStatus resolves a status name as received in requests
func ParseOrderStatus(name string) (OrderStatus, bool) {
	switch name {
	case "Pending", "pending":
		return OrderStatusPending, true
	case "Processing", "processing":
		return OrderStatusProcessing, true
	case "Shipped", "shipped":
		return OrderStatusShipped, true
	case "Delivered", "delivered":
		return OrderStatusDelivered, true
	case "Cancelled", "cancelled":
		return OrderStatusCancelled, true
	}
	return OrderStatusPending, false
}

// IsTerminal reports whether no further transitions are allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo allows one forward step at a time; cancellation is a
// terminal deviation allowed from any non-terminal state
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == OrderStatusCancelled {
		return true
	}
	return target == s+1
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
	switch str {
	case "Pending":
		*s = OrderStatusPending
	case "Processing":
		*s = OrderStatusProcessing
	case "Shipped":
		*s = OrderStatusShipped
	case "Delivered":
		*s = OrderStatusDelivered
	case "Cancelled":
		*s = OrderStatusCancelled
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
