package projects

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/db/models"
)

// MaxImagesPerProject caps how many gallery images a project may hold.
const MaxImagesPerProject = 7

// Repository defines persistence operations for projects and their images.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	FindBySlug(ctx context.Context, slug string) (*models.Project, error)
	List(ctx context.Context, onlyPublished bool) ([]models.Project, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountImages(ctx context.Context, projectID uuid.UUID) (int64, error)
	CreateImage(ctx context.Context, image *models.ProjectImage) (*models.ProjectImage, error)
	FindImageByID(ctx context.Context, id uuid.UUID) (*models.ProjectImage, error)
	UpdateImage(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteImage(ctx context.Context, id uuid.UUID) error
}

// Service defines the project operations exposed to controllers.
type Service interface {
	Create(ctx context.Context, input CreateProjectInput) (*models.Project, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	List(ctx context.Context, includeUnpublished bool) ([]models.Project, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProjectInput) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddImage(ctx context.Context, projectID uuid.UUID, input AddImageInput) (*models.ProjectImage, error)
	UpdateImage(ctx context.Context, imageID uuid.UUID, input UpdateImageInput) (*models.ProjectImage, error)
	DeleteImage(ctx context.Context, imageID uuid.UUID) error
}
