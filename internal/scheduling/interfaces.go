package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/db/models"
)

// Repository defines persistence operations for sessions and assignments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateSession(ctx context.Context, session *models.Session) (*models.Session, error)
	FindSessionByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	ListSessions(ctx context.Context, params RangeParams) ([]models.Session, error)
	ListSessionsInRange(ctx context.Context, from, to time.Time) ([]models.Session, error)
	UpdateSession(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
	LockPhotographer(ctx context.Context, id uuid.UUID) (*models.Photographer, error)
	ListAssignmentsByPhotographer(ctx context.Context, photographerID uuid.UUID) ([]models.SessionAssignment, error)
	CreateAssignment(ctx context.Context, assignment *models.SessionAssignment) (*models.SessionAssignment, error)
	FindAssignmentByID(ctx context.Context, id uuid.UUID) (*models.SessionAssignment, error)
	DeleteAssignment(ctx context.Context, id uuid.UUID) error
	FindPhotographersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Photographer, error)
	FindProjectsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Project, error)
	FindOrdersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Order, error)
}

// Service defines the scheduling operations exposed to controllers.
type Service interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*models.Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error)
	ListSessions(ctx context.Context, params RangeParams) ([]models.Session, error)
	UpdateSession(ctx context.Context, id uuid.UUID, input UpdateSessionInput) (*models.Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	AssignPhotographer(ctx context.Context, sessionID, photographerID uuid.UUID) (*models.SessionAssignment, error)
	UnassignPhotographer(ctx context.Context, assignmentID uuid.UUID) error
	WeekView(ctx context.Context, ref time.Time) (*WeekView, error)
}
