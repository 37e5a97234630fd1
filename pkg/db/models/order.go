package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumakara/studio-backend/pkg/enums"
)

// Order is a customer booking request/transaction.
type Order struct {
	ID            uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber   string                   `gorm:"column:order_number;not null;uniqueIndex:uq_orders_order_number"`
	CustomerName  string                   `gorm:"column:customer_name;not null"`
	CustomerEmail string                   `gorm:"column:customer_email;not null"`
	CustomerPhone *string                  `gorm:"column:customer_phone"`
	CategoryID    uuid.UUID                `gorm:"column:category_id;type:uuid;not null;index"`
	PriceTierID   *uuid.UUID               `gorm:"column:price_tier_id;type:uuid;index"`
	TotalPrice    int64                    `gorm:"column:total_price;not null"`
	DPPercent     int                      `gorm:"column:dp_percent;not null;default:30"`
	DPAmount      int64                    `gorm:"column:dp_amount;not null"`
	Status        enums.OrderStatus        `gorm:"column:status;type:text;not null;default:'PENDING'"`
	PaymentStatus enums.OrderPaymentStatus `gorm:"column:payment_status;type:text;not null;default:'UNPAID'"`
	Channel       enums.OrderChannel       `gorm:"column:channel;type:text;not null;default:'ONLINE'"`
	DriveLink     *string                  `gorm:"column:drive_link"`
	Notes         *string                  `gorm:"column:notes"`
	CancelledAt   *time.Time               `gorm:"column:cancelled_at"`
	Payments      []Payment                `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// RemainingAmount is the balance still owed after settled payments totalling paid.
func (o Order) RemainingAmount(paid int64) int64 {
	remaining := o.TotalPrice - paid
	if remaining < 0 {
		return 0
	}
	return remaining
}
