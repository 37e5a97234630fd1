package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumakara/studio-backend/pkg/enums"
)

// Session is a scheduled shooting time block tied to a project.
type Session struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProjectID   uuid.UUID           `gorm:"column:project_id;type:uuid;not null;index"`
	OrderID     *uuid.UUID          `gorm:"column:order_id;type:uuid;index"`
	StartAt     time.Time           `gorm:"column:start_at;not null;index"`
	EndAt       time.Time           `gorm:"column:end_at;not null"`
	Location    *string             `gorm:"column:location"`
	Notes       *string             `gorm:"column:notes"`
	Status      enums.SessionStatus `gorm:"column:status;type:text;not null;default:'PLANNED'"`
	Assignments []SessionAssignment `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// Overlaps reports whether the session's [StartAt, EndAt) interval intersects
// the other session's. Touching endpoints do not overlap.
func (s Session) Overlaps(other Session) bool {
	return s.StartAt.Before(other.EndAt) && other.StartAt.Before(s.EndAt)
}

// SessionAssignment links one photographer to one session.
type SessionAssignment struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID      uuid.UUID `gorm:"column:session_id;type:uuid;not null;uniqueIndex:uq_session_assignments_pair"`
	PhotographerID uuid.UUID `gorm:"column:photographer_id;type:uuid;not null;uniqueIndex:uq_session_assignments_pair;index"`
	Session        *Session  `gorm:"foreignKey:SessionID"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
