package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/db/models"
	"github.com/lumakara/studio-backend/pkg/enums"
	"github.com/lumakara/studio-backend/pkg/pagination"
)

// Repository defines persistence operations for the orders table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	List(ctx context.Context, query ListQuery) ([]models.Order, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	FindStalePendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
}

// ListQuery is the repository-level shape of a list request.
type ListQuery struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.OrderPaymentStatus
	Query         string
	Cursor        *pagination.Cursor
	Limit         int
}

// Service defines order operations exposed to controllers and cron jobs.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	List(ctx context.Context, params ListParams) (*OrderList, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*models.Order, error)
	AdvanceStage(ctx context.Context, id uuid.UUID) (*models.Order, error)
	SetStage(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.Order, error)
	SetDriveLink(ctx context.Context, id uuid.UUID, url string) (*models.Order, error)
	ExpireStalePending(ctx context.Context, cutoff time.Time) (*StaleOrderResult, error)
}
