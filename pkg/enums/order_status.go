package enums

import "fmt"

// OrderStatus tracks the fulfillment stage of an order.
type OrderStatus string

const (
	OrderStatusPending      OrderStatus = "PENDING"
	OrderStatusConsultation OrderStatus = "CONSULTATION"
	OrderStatusSession      OrderStatus = "SESSION"
	OrderStatusFinishing    OrderStatus = "FINISHING"
	OrderStatusDriveLink    OrderStatus = "DRIVE_LINK"
	OrderStatusDone         OrderStatus = "DONE"
	OrderStatusCancelled    OrderStatus = "CANCELLED"
)

// orderStageSequence is the forward-only progression; CANCELLED sits outside
// the sequence and is reachable from any non-terminal stage.
var orderStageSequence = []OrderStatus{
	OrderStatusPending,
	OrderStatusConsultation,
	OrderStatusSession,
	OrderStatusFinishing,
	OrderStatusDriveLink,
	OrderStatusDone,
}

var validOrderStatuses = append(append([]OrderStatus{}, orderStageSequence...), OrderStatusCancelled)

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are accepted.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusDone || o == OrderStatusCancelled
}

// Next returns the following stage in the forward progression. The second
// return is false for CANCELLED, DONE, or unknown values.
func (o OrderStatus) Next() (OrderStatus, bool) {
	for i, candidate := range orderStageSequence {
		if candidate == o && i+1 < len(orderStageSequence) {
			return orderStageSequence[i+1], true
		}
	}
	return "", false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
