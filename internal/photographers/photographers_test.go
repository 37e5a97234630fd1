package photographers

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/db/models"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
)

type stubRepo struct {
	photographers map[uuid.UUID]*models.Photographer
	deleteErr     error
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, photographer *models.Photographer) (*models.Photographer, error) {
	photographer.ID = uuid.New()
	s.photographers[photographer.ID] = photographer
	return photographer, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Photographer, error) {
	photographer, ok := s.photographers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return photographer, nil
}

func (s *stubRepo) List(ctx context.Context, onlyActive bool) ([]models.Photographer, error) {
	var out []models.Photographer
	for _, p := range s.photographers {
		if onlyActive && !p.IsActive {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.photographers, id)
	return nil
}

func seedPhotographer(repo *stubRepo, name string) *models.Photographer {
	photographer := &models.Photographer{ID: uuid.New(), Name: name, IsActive: true}
	repo.photographers[photographer.ID] = photographer
	return photographer
}

func TestDeleteAssignedPhotographerIsConflict(t *testing.T) {
	repo := &stubRepo{photographers: map[uuid.UUID]*models.Photographer{}}
	photographer := seedPhotographer(repo, "Bima")
	repo.deleteErr = errors.New(`update or delete on table "photographers" violates foreign key constraint "session_assignments_photographer_id_fkey" on table "session_assignments"`)

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	err = svc.Delete(context.Background(), photographer.ID)
	if err == nil {
		t.Fatal("expected delete to fail")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("error = %v, want %s", err, pkgerrors.CodeConflict)
	}
	if _, ok := repo.photographers[photographer.ID]; !ok {
		t.Fatal("photographer should still exist")
	}
}

func TestDeleteUnassignedPhotographerSucceeds(t *testing.T) {
	repo := &stubRepo{photographers: map[uuid.UUID]*models.Photographer{}}
	photographer := seedPhotographer(repo, "Citra")

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.Delete(context.Background(), photographer.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repo.photographers[photographer.ID]; ok {
		t.Fatal("photographer should be removed")
	}
}

func TestDeleteUnknownPhotographerIsNotFound(t *testing.T) {
	repo := &stubRepo{photographers: map[uuid.UUID]*models.Photographer{}}

	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	err = svc.Delete(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected delete to fail")
	}
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("error = %v, want %s", err, pkgerrors.CodeNotFound)
	}
}
