package projects

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/db/models"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
)

type stubProjectsRepo struct {
	projects  map[uuid.UUID]*models.Project
	deleteErr error
}

func (s *stubProjectsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProjectsRepo) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	return project, nil
}

func (s *stubProjectsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, ok := s.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return project, nil
}

func (s *stubProjectsRepo) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	for _, project := range s.projects {
		if project.Slug == slug {
			return project, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProjectsRepo) List(ctx context.Context, onlyPublished bool) ([]models.Project, error) {
	return nil, nil
}

func (s *stubProjectsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubProjectsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.projects, id)
	return nil
}

func (s *stubProjectsRepo) CountImages(ctx context.Context, projectID uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *stubProjectsRepo) CreateImage(ctx context.Context, image *models.ProjectImage) (*models.ProjectImage, error) {
	return image, nil
}

func (s *stubProjectsRepo) FindImageByID(ctx context.Context, id uuid.UUID) (*models.ProjectImage, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProjectsRepo) UpdateImage(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubProjectsRepo) DeleteImage(ctx context.Context, id uuid.UUID) error {
	return nil
}

type noopTx struct{}

func (noopTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, noopTx{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestDeleteReferencedProjectIsConflict(t *testing.T) {
	id := uuid.New()
	repo := &stubProjectsRepo{
		projects:  map[uuid.UUID]*models.Project{id: {ID: id, Slug: "wedding-laras"}},
		deleteErr: errors.New(`update or delete on table "projects" violates foreign key constraint "sessions_project_id_fkey" on table "sessions"`),
	}
	svc := newTestService(t, repo)

	err := svc.Delete(context.Background(), id)
	if err == nil {
		t.Fatal("expected delete to fail")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("error = %v, want %s", err, pkgerrors.CodeConflict)
	}
}

func TestDeleteProjectStoreOutageIsDependencyError(t *testing.T) {
	id := uuid.New()
	repo := &stubProjectsRepo{
		projects:  map[uuid.UUID]*models.Project{id: {ID: id, Slug: "wedding-laras"}},
		deleteErr: errors.New("dial tcp 10.0.0.4:5432: connect: connection refused"),
	}
	svc := newTestService(t, repo)

	err := svc.Delete(context.Background(), id)
	if err == nil {
		t.Fatal("expected delete to fail")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("error = %v, want %s", err, pkgerrors.CodeDependency)
	}
}
