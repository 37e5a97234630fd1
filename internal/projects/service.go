package projects

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/internal/catalog"
	"github.com/lumakara/studio-backend/pkg/db"
	"github.com/lumakara/studio-backend/pkg/db/models"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a projects service with the required dependencies.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("projects repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	slug := input.Slug
	if slug == "" {
		slug = input.Title
	}
	slug = catalog.Slugify(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "project title produces an empty slug")
	}

	project := &models.Project{
		Title:        strings.TrimSpace(input.Title),
		Slug:         slug,
		MainImageURL: input.MainImageURL,
		Description:  input.Description,
		ShotAt:       input.ShotAt,
	}
	if input.CategoryID != nil && *input.CategoryID != "" {
		id, err := uuid.Parse(*input.CategoryID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category id")
		}
		project.CategoryID = &id
	}
	if input.OrderID != nil && *input.OrderID != "" {
		id, err := uuid.Parse(*input.OrderID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id")
		}
		project.OrderID = &id
	}

	created, err := s.repo.Create(ctx, project)
	if err != nil {
		if db.IsUniqueViolation(err, "uq_projects_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "project slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create project")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}
	return project, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	project, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}
	return project, nil
}

func (s *service) List(ctx context.Context, includeUnpublished bool) ([]models.Project, error) {
	projects, err := s.repo.List(ctx, !includeUnpublished)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list projects")
	}
	return projects, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProjectInput) (*models.Project, error) {
	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Slug != nil {
		slug := catalog.Slugify(*input.Slug)
		if slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug must not be empty")
		}
		updates["slug"] = slug
	}
	if input.CategoryID != nil {
		if *input.CategoryID == "" {
			updates["category_id"] = nil
		} else {
			parsed, err := uuid.Parse(*input.CategoryID)
			if err != nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category id")
			}
			updates["category_id"] = parsed
		}
	}
	if input.MainImageURL != nil {
		updates["main_image_url"] = *input.MainImageURL
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.ShotAt != nil {
		updates["shot_at"] = *input.ShotAt
	}
	if input.IsPublished != nil {
		updates["is_published"] = *input.IsPublished
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return s.Get(ctx, id)
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		if db.IsUniqueViolation(err, "uq_projects_slug") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "project slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update project")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "project still has sessions")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete project")
	}
	return nil
}

// AddImage enforces the gallery cap inside one transaction so concurrent
// uploads cannot exceed it.
func (s *service) AddImage(ctx context.Context, projectID uuid.UUID, input AddImageInput) (*models.ProjectImage, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}

	var image *models.ProjectImage
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		count, err := repo.CountImages(ctx, projectID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count project images")
		}
		if count >= MaxImagesPerProject {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("project gallery is limited to %d images", MaxImagesPerProject))
		}

		image = &models.ProjectImage{
			ProjectID: projectID,
			URL:       input.URL,
			Caption:   input.Caption,
			SortOrder: input.SortOrder,
		}
		if image, err = repo.CreateImage(ctx, image); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add project image")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}

func (s *service) UpdateImage(ctx context.Context, imageID uuid.UUID, input UpdateImageInput) (*models.ProjectImage, error) {
	updates := map[string]any{}
	if input.Caption != nil {
		updates["caption"] = *input.Caption
	}
	if input.SortOrder != nil {
		updates["sort_order"] = *input.SortOrder
	}

	image, err := s.findImage(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return image, nil
	}
	if err := s.repo.UpdateImage(ctx, imageID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update project image")
	}
	return s.findImage(ctx, imageID)
}

func (s *service) DeleteImage(ctx context.Context, imageID uuid.UUID) error {
	if _, err := s.findImage(ctx, imageID); err != nil {
		return err
	}
	if err := s.repo.DeleteImage(ctx, imageID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete project image")
	}
	return nil
}

func (s *service) findImage(ctx context.Context, id uuid.UUID) (*models.ProjectImage, error) {
	image, err := s.repo.FindImageByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project image not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project image")
	}
	return image, nil
}
