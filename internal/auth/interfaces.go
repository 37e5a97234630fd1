package auth

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/db/models"
)

// Repository defines persistence operations for admin accounts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, admin *models.AdminUser) (*models.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

// Service defines the admin authentication operations.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*TokenPair, error)
	Refresh(ctx context.Context, input RefreshInput) (*TokenPair, error)
	Logout(ctx context.Context, accessID string) error
}
