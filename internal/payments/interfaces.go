package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/db/models"
)

// Repository defines persistence operations for the payments table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	FindByProviderExternalID(ctx context.Context, provider, externalID string) (*models.Payment, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	SumSettledByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
}

// Service defines the payment operations exposed to controllers.
type Service interface {
	CreateCheckout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
	HandleNotification(ctx context.Context, payload NotificationPayload) error
	RecordManualPayment(ctx context.Context, input ManualPaymentInput) (*models.Payment, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Payment, error)
}
