package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a bookable photography package family.
type Category struct {
	ID          uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string      `gorm:"column:name;not null"`
	Slug        string      `gorm:"column:slug;not null;uniqueIndex:uq_categories_slug"`
	BasePrice   int64       `gorm:"column:base_price;not null"`
	Description *string     `gorm:"column:description"`
	IsActive    bool        `gorm:"column:is_active;not null;default:true"`
	SortOrder   int         `gorm:"column:sort_order;not null;default:0"`
	PriceTiers  []PriceTier `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
