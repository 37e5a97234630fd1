package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/db"
	"github.com/lumakara/studio-backend/pkg/db/models"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
)

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the value and collapses non-alphanumeric runs to dashes.
func Slugify(value string) string {
	slug := strings.ToLower(strings.TrimSpace(value))
	slug = slugRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

type service struct {
	repo Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	slug := input.Slug
	if slug == "" {
		slug = Slugify(input.Name)
	} else {
		slug = Slugify(slug)
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name produces an empty slug")
	}

	category := &models.Category{
		Name:        strings.TrimSpace(input.Name),
		Slug:        slug,
		BasePrice:   input.BasePrice,
		Description: input.Description,
		IsActive:    true,
		SortOrder:   input.SortOrder,
	}

	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_categories_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return created, nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func (s *service) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.repo.FindCategoryBySlug(ctx, slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func (s *service) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	categories, err := s.repo.ListCategories(ctx, !includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return categories, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		slug := Slugify(*input.Slug)
		if slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug must not be empty")
		}
		updates["slug"] = slug
	}
	if input.BasePrice != nil {
		updates["base_price"] = *input.BasePrice
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.SortOrder != nil {
		updates["sort_order"] = *input.SortOrder
	}
	if len(updates) == 0 {
		return s.GetCategory(ctx, id)
	}

	if _, err := s.GetCategory(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCategory(ctx, id, updates); err != nil {
		if db.IsUniqueViolation(err, "uq_categories_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return s.GetCategory(ctx, id)
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		// FK RESTRICT from price_tiers/orders surfaces here
		if db.IsForeignKeyViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "category is still referenced")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) CreateTier(ctx context.Context, input CreateTierInput) (*models.PriceTier, error) {
	categoryID, err := uuid.Parse(input.CategoryID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category id")
	}
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	tier := &models.PriceTier{
		CategoryID:             categoryID,
		Name:                   strings.TrimSpace(input.Name),
		Price:                  input.Price,
		SessionCount:           input.SessionCount,
		SessionDurationMinutes: input.SessionDurationMinutes,
		Description:            input.Description,
		IsActive:               true,
		SortOrder:              input.SortOrder,
	}
	if tier.SessionCount == 0 {
		tier.SessionCount = 1
	}
	if tier.SessionDurationMinutes == 0 {
		tier.SessionDurationMinutes = 60
	}

	created, err := s.repo.CreateTier(ctx, tier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create price tier")
	}
	return created, nil
}

func (s *service) ListTiers(ctx context.Context, categoryID uuid.UUID, includeInactive bool) ([]models.PriceTier, error) {
	tiers, err := s.repo.ListTiersByCategory(ctx, categoryID, !includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list price tiers")
	}
	return tiers, nil
}

func (s *service) UpdateTier(ctx context.Context, id uuid.UUID, input UpdateTierInput) (*models.PriceTier, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.SessionCount != nil {
		updates["session_count"] = *input.SessionCount
	}
	if input.SessionDurationMinutes != nil {
		updates["session_duration_minutes"] = *input.SessionDurationMinutes
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.SortOrder != nil {
		updates["sort_order"] = *input.SortOrder
	}

	tier, err := s.findTier(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return tier, nil
	}
	if err := s.repo.UpdateTier(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update price tier")
	}
	return s.findTier(ctx, id)
}

func (s *service) DeleteTier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findTier(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteTier(ctx, id); err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "price tier is still referenced")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete price tier")
	}
	return nil
}

func (s *service) findTier(ctx context.Context, id uuid.UUID) (*models.PriceTier, error) {
	tier, err := s.repo.FindTierByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price tier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price tier")
	}
	return tier, nil
}
