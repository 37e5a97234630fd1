package models

import (
	"time"

	"github.com/google/uuid"
)

// PriceTier is a priced variant within a Category.
type PriceTier struct {
	ID                     uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID             uuid.UUID `gorm:"column:category_id;type:uuid;not null;index"`
	Name                   string    `gorm:"column:name;not null"`
	Price                  int64     `gorm:"column:price;not null"`
	SessionCount           int       `gorm:"column:session_count;not null;default:1"`
	SessionDurationMinutes int       `gorm:"column:session_duration_minutes;not null;default:60"`
	Description            *string   `gorm:"column:description"`
	IsActive               bool      `gorm:"column:is_active;not null;default:true"`
	SortOrder              int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt              time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
