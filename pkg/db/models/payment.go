package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumakara/studio-backend/pkg/enums"
)

// Payment is one payment attempt/record against an order. The
// (provider, external_id) pair is unique so gateway callbacks stay idempotent
// under at-least-once delivery.
type Payment struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID           `gorm:"column:order_id;type:uuid;not null;index"`
	Provider    string              `gorm:"column:provider;not null;uniqueIndex:uq_payments_provider_external_id"`
	ExternalID  *string             `gorm:"column:external_id;uniqueIndex:uq_payments_provider_external_id"`
	Type        enums.PaymentType   `gorm:"column:type;type:text;not null"`
	Status      enums.PaymentStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	GrossAmount int64               `gorm:"column:gross_amount;not null"`
	SnapToken   *string             `gorm:"column:snap_token"`
	RawStatus   *string             `gorm:"column:raw_status"`
	PaidAt      *time.Time          `gorm:"column:paid_at"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
