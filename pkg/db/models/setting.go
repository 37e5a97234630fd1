package models

import (
	"time"

	"github.com/google/uuid"
)

// Setting is the single admin-editable settings record controlling the
// calendar's displayed hour range and defaults for new orders.
type Setting struct {
	ID                   uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CalendarDayStartHour int       `gorm:"column:calendar_day_start_hour;not null;default:8"`
	CalendarDayEndHour   int       `gorm:"column:calendar_day_end_hour;not null;default:21"`
	DisplayTimezone      string    `gorm:"column:display_timezone;not null;default:'Asia/Jakarta'"`
	DefaultDPPercent     int       `gorm:"column:default_dp_percent;not null;default:30"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
