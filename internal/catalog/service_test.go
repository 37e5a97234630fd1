package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/db/models"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
)

type stubCatalogRepo struct {
	categories    map[uuid.UUID]*models.Category
	tiers         map[uuid.UUID]*models.PriceTier
	deleteCatErr  error
	deleteTierErr error
}

func (s *stubCatalogRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCatalogRepo) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	return category, nil
}

func (s *stubCatalogRepo) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, ok := s.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (s *stubCatalogRepo) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	for _, category := range s.categories {
		if category.Slug == slug {
			return category, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCatalogRepo) ListCategories(ctx context.Context, onlyActive bool) ([]models.Category, error) {
	return nil, nil
}

func (s *stubCatalogRepo) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubCatalogRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if s.deleteCatErr != nil {
		return s.deleteCatErr
	}
	delete(s.categories, id)
	return nil
}

func (s *stubCatalogRepo) CreateTier(ctx context.Context, tier *models.PriceTier) (*models.PriceTier, error) {
	return tier, nil
}

func (s *stubCatalogRepo) FindTierByID(ctx context.Context, id uuid.UUID) (*models.PriceTier, error) {
	tier, ok := s.tiers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return tier, nil
}

func (s *stubCatalogRepo) ListTiersByCategory(ctx context.Context, categoryID uuid.UUID, onlyActive bool) ([]models.PriceTier, error) {
	return nil, nil
}

func (s *stubCatalogRepo) UpdateTier(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubCatalogRepo) DeleteTier(ctx context.Context, id uuid.UUID) error {
	if s.deleteTierErr != nil {
		return s.deleteTierErr
	}
	delete(s.tiers, id)
	return nil
}

func newCatalogTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func assertCode(t *testing.T, err error, want pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != want {
		t.Fatalf("error = %v, want %s", err, want)
	}
}

func TestDeleteReferencedCategoryIsConflict(t *testing.T) {
	id := uuid.New()
	repo := &stubCatalogRepo{
		categories:   map[uuid.UUID]*models.Category{id: {ID: id, Slug: "wedding"}},
		deleteCatErr: errors.New(`update or delete on table "categories" violates foreign key constraint "orders_category_id_fkey" on table "orders"`),
	}
	svc := newCatalogTestService(t, repo)

	assertCode(t, svc.DeleteCategory(context.Background(), id), pkgerrors.CodeConflict)
}

func TestDeleteCategoryStoreOutageIsDependencyError(t *testing.T) {
	id := uuid.New()
	repo := &stubCatalogRepo{
		categories:   map[uuid.UUID]*models.Category{id: {ID: id, Slug: "wedding"}},
		deleteCatErr: errors.New("dial tcp 10.0.0.4:5432: connect: connection refused"),
	}
	svc := newCatalogTestService(t, repo)

	assertCode(t, svc.DeleteCategory(context.Background(), id), pkgerrors.CodeDependency)
}

func TestDeleteReferencedTierIsConflict(t *testing.T) {
	id := uuid.New()
	repo := &stubCatalogRepo{
		tiers:         map[uuid.UUID]*models.PriceTier{id: {ID: id, Name: "Gold"}},
		deleteTierErr: errors.New(`update or delete on table "price_tiers" violates foreign key constraint "orders_price_tier_id_fkey" on table "orders"`),
	}
	svc := newCatalogTestService(t, repo)

	assertCode(t, svc.DeleteTier(context.Background(), id), pkgerrors.CodeConflict)
}

func TestDeleteTierStoreOutageIsDependencyError(t *testing.T) {
	id := uuid.New()
	repo := &stubCatalogRepo{
		tiers:         map[uuid.UUID]*models.PriceTier{id: {ID: id, Name: "Gold"}},
		deleteTierErr: errors.New("dial tcp 10.0.0.4:5432: connect: connection refused"),
	}
	svc := newCatalogTestService(t, repo)

	assertCode(t, svc.DeleteTier(context.Background(), id), pkgerrors.CodeDependency)
}
