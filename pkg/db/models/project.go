package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a gallery entry, optionally tied to a fulfilled order.
type Project struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title        string         `gorm:"column:title;not null"`
	Slug         string         `gorm:"column:slug;not null;uniqueIndex:uq_projects_slug"`
	CategoryID   *uuid.UUID     `gorm:"column:category_id;type:uuid;index"`
	OrderID      *uuid.UUID     `gorm:"column:order_id;type:uuid;index"`
	MainImageURL *string        `gorm:"column:main_image_url"`
	Description  *string        `gorm:"column:description"`
	ShotAt       *time.Time     `gorm:"column:shot_at"`
	IsPublished  bool           `gorm:"column:is_published;not null;default:false"`
	Images       []ProjectImage `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// ProjectImage is one photo within a project gallery.
type ProjectImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectID uuid.UUID `gorm:"column:project_id;type:uuid;not null;index"`
	URL       string    `gorm:"column:url;not null"`
	Caption   *string   `gorm:"column:caption"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
