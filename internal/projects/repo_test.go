package projects

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgdb "github.com/lumakara/studio-backend/pkg/db"
	"github.com/lumakara/studio-backend/pkg/db/models"
)

func setupProjectsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	projects := `
CREATE TABLE IF NOT EXISTS projects (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  category_id TEXT,
  order_id TEXT,
  main_image_url TEXT,
  description TEXT,
  shot_at DATETIME,
  is_published INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	projectImages := `
CREATE TABLE IF NOT EXISTS project_images (
  id TEXT PRIMARY KEY,
  project_id TEXT NOT NULL,
  url TEXT NOT NULL,
  caption TEXT,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(projects).Error)
	require.NoError(t, db.Exec(projectImages).Error)
	return db
}

func newProject(t *testing.T, db *gorm.DB, slug string, published bool, imageURLs ...string) *models.Project {
	t.Helper()

	project := &models.Project{
		ID:          uuid.New(),
		Title:       "Project " + slug,
		Slug:        slug,
		IsPublished: published,
	}
	for i, url := range imageURLs {
		project.Images = append(project.Images, models.ProjectImage{
			ID:        uuid.New(),
			URL:       url,
			SortOrder: i,
		})
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

func TestDeleteProjectRemovesOnlyItsImages(t *testing.T) {
	db := setupProjectsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	doomed := newProject(t, db, "wedding-amira", true,
		"https://cdn.example.com/amira/1.jpg",
		"https://cdn.example.com/amira/2.jpg",
	)
	survivor := newProject(t, db, "graduation-raka", true,
		"https://cdn.example.com/raka/1.jpg",
	)

	require.NoError(t, repo.Delete(ctx, doomed.ID))

	_, err := repo.FindByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var orphaned int64
	require.NoError(t, db.Model(&models.ProjectImage{}).
		Where("project_id = ?", doomed.ID).
		Count(&orphaned).Error)
	assert.Zero(t, orphaned)

	kept, err := repo.FindByID(ctx, survivor.ID)
	require.NoError(t, err)
	assert.Len(t, kept.Images, 1)
}

func TestFindBySlugOrdersImagesBySortOrder(t *testing.T) {
	db := setupProjectsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	project := &models.Project{
		ID:    uuid.New(),
		Title: "Prewedding Dina",
		Slug:  "prewedding-dina",
		Images: []models.ProjectImage{
			{ID: uuid.New(), URL: "https://cdn.example.com/dina/last.jpg", SortOrder: 2},
			{ID: uuid.New(), URL: "https://cdn.example.com/dina/first.jpg", SortOrder: 0},
			{ID: uuid.New(), URL: "https://cdn.example.com/dina/middle.jpg", SortOrder: 1},
		},
	}
	require.NoError(t, db.Create(project).Error)

	found, err := repo.FindBySlug(ctx, "prewedding-dina")
	require.NoError(t, err)
	require.Len(t, found.Images, 3)
	assert.Equal(t, "https://cdn.example.com/dina/first.jpg", found.Images[0].URL)
	assert.Equal(t, "https://cdn.example.com/dina/middle.jpg", found.Images[1].URL)
	assert.Equal(t, "https://cdn.example.com/dina/last.jpg", found.Images[2].URL)
}

func TestListFiltersUnpublishedProjects(t *testing.T) {
	db := setupProjectsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	published := newProject(t, db, "family-santoso", true)
	newProject(t, db, "draft-editorial", false)

	visible, err := repo.List(ctx, true)
	require.NoError(t, err)
	for _, p := range visible {
		assert.True(t, p.IsPublished)
	}

	slugs := make([]string, 0, len(visible))
	for _, p := range visible {
		slugs = append(slugs, p.Slug)
	}
	assert.Contains(t, slugs, published.Slug)
	assert.NotContains(t, slugs, "draft-editorial")

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Greater(t, len(all), len(visible))
}

// setupProjectsFKTestDB opens a separate in-memory database with foreign keys
// enforced, so referencing rows block deletion the way postgres does.
func setupProjectsFKTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:projects_fk?mode=memory&cache=shared&_foreign_keys=1"), &gorm.Config{})
	require.NoError(t, err)

	projects := `
CREATE TABLE IF NOT EXISTS projects (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  category_id TEXT,
  order_id TEXT,
  main_image_url TEXT,
  description TEXT,
  shot_at DATETIME,
  is_published INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	projectImages := `
CREATE TABLE IF NOT EXISTS project_images (
  id TEXT PRIMARY KEY,
  project_id TEXT NOT NULL REFERENCES projects (id) ON DELETE CASCADE,
  url TEXT NOT NULL,
  caption TEXT,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	sessions := `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  project_id TEXT NOT NULL REFERENCES projects (id) ON DELETE RESTRICT,
  order_id TEXT,
  start_at DATETIME NOT NULL,
  end_at DATETIME NOT NULL,
  location TEXT,
  notes TEXT,
  status TEXT NOT NULL DEFAULT 'PLANNED',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(projects).Error)
	require.NoError(t, db.Exec(projectImages).Error)
	require.NoError(t, db.Exec(sessions).Error)
	return db
}

func TestDeleteProjectWithSessionsIsRefused(t *testing.T) {
	db := setupProjectsFKTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	project := &models.Project{
		ID:    uuid.New(),
		Title: "Wedding Laras",
		Slug:  "wedding-laras",
		Images: []models.ProjectImage{
			{ID: uuid.New(), URL: "https://cdn.example.com/laras/1.jpg"},
		},
	}
	require.NoError(t, db.Create(project).Error)

	start := time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.Exec(
		`INSERT INTO sessions (id, project_id, start_at, end_at, status) VALUES (?, ?, ?, ?, 'PLANNED')`,
		uuid.New().String(), project.ID.String(), start, start.Add(2*time.Hour),
	).Error)

	err := repo.Delete(ctx, project.ID)
	require.Error(t, err)
	assert.True(t, pkgdb.IsForeignKeyViolation(err, ""))

	kept, err := repo.FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, kept.Images, 1)

	var sessionCount int64
	require.NoError(t, db.Table("sessions").
		Where("project_id = ?", project.ID).
		Count(&sessionCount).Error)
	assert.EqualValues(t, 1, sessionCount)
}

func TestUpdateImageChangesCaptionAndOrder(t *testing.T) {
	db := setupProjectsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	project := newProject(t, db, "engagement-putri", true, "https://cdn.example.com/putri/1.jpg")
	imageID := project.Images[0].ID

	caption := "Golden hour at the pier"
	require.NoError(t, repo.UpdateImage(ctx, imageID, map[string]any{
		"caption":    &caption,
		"sort_order": 5,
	}))

	image, err := repo.FindImageByID(ctx, imageID)
	require.NoError(t, err)
	require.NotNil(t, image.Caption)
	assert.Equal(t, caption, *image.Caption)
	assert.Equal(t, 5, image.SortOrder)
}
