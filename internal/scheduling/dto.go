package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumakara/studio-backend/pkg/db/models"
)

// CreateSessionInput captures the fields accepted when scheduling a session.
type CreateSessionInput struct {
	ProjectID string     `json:"project_id" validate:"required,uuid"`
	OrderID   *string    `json:"order_id" validate:"omitempty,uuid"`
	StartAt   time.Time  `json:"start_at" validate:"required"`
	EndAt     time.Time  `json:"end_at" validate:"required"`
	Location  *string    `json:"location" validate:"omitempty,max=400"`
	Notes     *string    `json:"notes" validate:"omitempty,max=4000"`
}

// UpdateSessionInput carries partial updates; nil fields are left untouched.
type UpdateSessionInput struct {
	StartAt  *time.Time `json:"start_at"`
	EndAt    *time.Time `json:"end_at"`
	Location *string    `json:"location" validate:"omitempty,max=400"`
	Notes    *string    `json:"notes" validate:"omitempty,max=4000"`
	Status   *string    `json:"status" validate:"omitempty,oneof=PLANNED CONFIRMED DONE CANCELLED"`
}

// AssignInput names the photographer to attach to a session.
type AssignInput struct {
	PhotographerID string `json:"photographer_id" validate:"required,uuid"`
}

// RangeParams filter the admin session list.
type RangeParams struct {
	From *time.Time
	To   *time.Time
}

// ConflictDetail is attached to SCHEDULING_CONFLICT errors so the admin UI
// can point at the clashing booking.
type ConflictDetail struct {
	PhotographerID uuid.UUID `json:"photographer_id"`
	SessionID      uuid.UUID `json:"session_id"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
}

// SessionWithAssignments bundles a session and its resolved photographers.
type SessionWithAssignments struct {
	Session       models.Session        `json:"session"`
	Photographers []models.Photographer `json:"photographers"`
}
