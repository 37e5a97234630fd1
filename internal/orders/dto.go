package orders

import (
	"time"

	"github.com/lumakara/studio-backend/pkg/db/models"
	"github.com/lumakara/studio-backend/pkg/enums"
)

// CreateOrderInput captures the fields accepted when creating an order. The
// public flow always books ONLINE; the back office may record OFFLINE orders.
type CreateOrderInput struct {
	CustomerName  string  `json:"customer_name" validate:"required,min=2,max=160"`
	CustomerEmail string  `json:"customer_email" validate:"required,email"`
	CustomerPhone *string `json:"customer_phone" validate:"omitempty,min=6,max=32"`
	CategoryID    string  `json:"category_id" validate:"required,uuid"`
	PriceTierID   *string `json:"price_tier_id" validate:"omitempty,uuid"`
	DPPercent     *int    `json:"dp_percent" validate:"omitempty,min=0,max=100"`
	Channel       string  `json:"channel" validate:"omitempty,oneof=ONLINE OFFLINE"`
	Notes         *string `json:"notes" validate:"omitempty,max=4000"`
}

// UpdateOrderInput carries partial admin updates; nil fields are left untouched.
type UpdateOrderInput struct {
	CustomerName  *string `json:"customer_name" validate:"omitempty,min=2,max=160"`
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone *string `json:"customer_phone" validate:"omitempty,min=6,max=32"`
	DriveLink     *string `json:"drive_link" validate:"omitempty,url"`
	Notes         *string `json:"notes" validate:"omitempty,max=4000"`
}

// ListParams describe the admin order list inputs.
type ListParams struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.OrderPaymentStatus
	Query         string
	Cursor        string
	Limit         int
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// StaleOrderResult reports the outcome of an order-ttl sweep.
type StaleOrderResult struct {
	Cancelled int
	Cutoff    time.Time
}
