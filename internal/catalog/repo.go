package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *repository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Preload("PriceTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Where("id = ?", id).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Preload("PriceTiers", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("sort_order ASC, created_at ASC")
		}).
		Where("slug = ?", slug).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repository) ListCategories(ctx context.Context, onlyActive bool) ([]models.Category, error) {
	var categories []models.Category
	query := r.db.WithContext(ctx).
		Preload("PriceTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		}).
		Order("sort_order ASC, created_at ASC")
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Category{}).Error
}

func (r *repository) CreateTier(ctx context.Context, tier *models.PriceTier) (*models.PriceTier, error) {
	if err := r.db.WithContext(ctx).Create(tier).Error; err != nil {
		return nil, err
	}
	return tier, nil
}

func (r *repository) FindTierByID(ctx context.Context, id uuid.UUID) (*models.PriceTier, error) {
	var tier models.PriceTier
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tier).Error
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

func (r *repository) ListTiersByCategory(ctx context.Context, categoryID uuid.UUID, onlyActive bool) ([]models.PriceTier, error) {
	var tiers []models.PriceTier
	query := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("sort_order ASC, created_at ASC")
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&tiers).Error; err != nil {
		return nil, err
	}
	return tiers, nil
}

func (r *repository) UpdateTier(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.PriceTier{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteTier(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.PriceTier{}).Error
}
