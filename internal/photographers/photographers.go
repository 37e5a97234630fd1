package photographers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/db"
	"github.com/lumakara/studio-backend/pkg/db/models"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
)

// CreateInput captures the fields accepted when adding a photographer.
type CreateInput struct {
	Name  string  `json:"name" validate:"required,min=2,max=160"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,min=6,max=32"`
	Bio   *string `json:"bio" validate:"omitempty,max=2000"`
}

// UpdateInput carries partial updates; nil fields are left untouched.
type UpdateInput struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=160"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty,min=6,max=32"`
	Bio      *string `json:"bio" validate:"omitempty,max=2000"`
	IsActive *bool   `json:"is_active"`
}

// Repository defines persistence operations for the photographers table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, photographer *models.Photographer) (*models.Photographer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Photographer, error)
	List(ctx context.Context, onlyActive bool) ([]models.Photographer, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service defines the photographer operations exposed to controllers.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Photographer, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Photographer, error)
	List(ctx context.Context, includeInactive bool) ([]models.Photographer, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Photographer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a photographers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, photographer *models.Photographer) (*models.Photographer, error) {
	if err := r.db.WithContext(ctx).Create(photographer).Error; err != nil {
		return nil, err
	}
	return photographer, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Photographer, error) {
	var photographer models.Photographer
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&photographer).Error
	if err != nil {
		return nil, err
	}
	return &photographer, nil
}

func (r *repository) List(ctx context.Context, onlyActive bool) ([]models.Photographer, error) {
	var photographers []models.Photographer
	query := r.db.WithContext(ctx).Order("name ASC")
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&photographers).Error; err != nil {
		return nil, err
	}
	return photographers, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Photographer{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Photographer{}).Error
}

type service struct {
	repo Repository
}

// NewService builds a photographers service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("photographers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Photographer, error) {
	photographer := &models.Photographer{
		Name:     strings.TrimSpace(input.Name),
		Email:    input.Email,
		Phone:    input.Phone,
		Bio:      input.Bio,
		IsActive: true,
	}
	created, err := s.repo.Create(ctx, photographer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create photographer")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Photographer, error) {
	photographer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "photographer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load photographer")
	}
	return photographer, nil
}

func (s *service) List(ctx context.Context, includeInactive bool) ([]models.Photographer, error) {
	photographers, err := s.repo.List(ctx, !includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list photographers")
	}
	return photographers, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Photographer, error) {
	updates := map[string]any{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.IsActive != nil {
		// deactivation leaves existing assignments in place
		updates["is_active"] = *input.IsActive
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update photographer")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "photographer still has session assignments")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete photographer")
	}
	return nil
}
