package enums

import "fmt"

// OrderStatus is the lifecycle state of a submitted order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCooking   OrderStatus = "cooking"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusCooking,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// allowedTransitions pins the dashboard state machine: pending orders move
// to cooking, cooking orders resolve to delivered or cancelled, and the two
// resolved states are terminal.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusCooking},
	OrderStatusCooking:   {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches the canonical order status enum.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist for the status.
func (s OrderStatus) IsTerminal() bool {
	return s.IsValid() && len(allowedTransitions[s]) == 0
}

// CanTransitionTo reports whether the state machine permits moving to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range allowedTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the statuses reachable from the current one.
// Terminal statuses return an empty slice, never nil.
func (s OrderStatus) AllowedTransitions() []OrderStatus {
	out := make([]OrderStatus, 0, len(allowedTransitions[s]))
	out = append(out, allowedTransitions[s]...)
	return out
}

// ParseOrderStatus converts the raw string to OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
