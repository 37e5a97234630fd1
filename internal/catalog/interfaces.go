package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/db/models"
)

// Repository defines persistence operations for the category and price tier tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListCategories(ctx context.Context, onlyActive bool) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateTier(ctx context.Context, tier *models.PriceTier) (*models.PriceTier, error)
	FindTierByID(ctx context.Context, id uuid.UUID) (*models.PriceTier, error)
	ListTiersByCategory(ctx context.Context, categoryID uuid.UUID, onlyActive bool) ([]models.PriceTier, error)
	UpdateTier(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteTier(ctx context.Context, id uuid.UUID) error
}

// Service defines the catalog operations exposed to controllers.
type Service interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateTier(ctx context.Context, input CreateTierInput) (*models.PriceTier, error)
	ListTiers(ctx context.Context, categoryID uuid.UUID, includeInactive bool) ([]models.PriceTier, error)
	UpdateTier(ctx context.Context, id uuid.UUID, input UpdateTierInput) (*models.PriceTier, error)
	DeleteTier(ctx context.Context, id uuid.UUID) error
}
