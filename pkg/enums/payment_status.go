package enums

import "fmt"

// OrderPaymentStatus summarizes how much of an order has been paid.
type OrderPaymentStatus string

const (
	OrderPaymentStatusUnpaid   OrderPaymentStatus = "UNPAID"
	OrderPaymentStatusPending  OrderPaymentStatus = "PENDING"
	OrderPaymentStatusDPPaid   OrderPaymentStatus = "DP_PAID"
	OrderPaymentStatusPaid     OrderPaymentStatus = "PAID"
	OrderPaymentStatusFailed   OrderPaymentStatus = "FAILED"
	OrderPaymentStatusExpired  OrderPaymentStatus = "EXPIRED"
	OrderPaymentStatusRefunded OrderPaymentStatus = "REFUNDED"
)

var validOrderPaymentStatuses = []OrderPaymentStatus{
	OrderPaymentStatusUnpaid,
	OrderPaymentStatusPending,
	OrderPaymentStatusDPPaid,
	OrderPaymentStatusPaid,
	OrderPaymentStatusFailed,
	OrderPaymentStatusExpired,
	OrderPaymentStatusRefunded,
}

// String implements fmt.Stringer.
func (o OrderPaymentStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderPaymentStatus.
func (o OrderPaymentStatus) IsValid() bool {
	for _, candidate := range validOrderPaymentStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderPaymentStatus converts raw input into an OrderPaymentStatus.
func ParseOrderPaymentStatus(value string) (OrderPaymentStatus, error) {
	for _, candidate := range validOrderPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order payment status %q", value)
}

// PaymentStatus tracks the lifecycle of a single payment record.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusSettled  PaymentStatus = "SETTLED"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusExpired  PaymentStatus = "EXPIRED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusSettled,
	PaymentStatusFailed,
	PaymentStatusExpired,
	PaymentStatusRefunded,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
