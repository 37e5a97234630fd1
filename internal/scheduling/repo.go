package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lumakara/studio-backend/pkg/db/models"
	"github.com/lumakara/studio-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a scheduling repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateSession(ctx context.Context, session *models.Session) (*models.Session, error) {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (r *repository) FindSessionByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Preload("Assignments").
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *repository) ListSessions(ctx context.Context, params RangeParams) ([]models.Session, error) {
	query := r.db.WithContext(ctx).
		Preload("Assignments").
		Order("start_at ASC")
	if params.From != nil {
		query = query.Where("end_at > ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("start_at < ?", *params.To)
	}

	var sessions []models.Session
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) ListSessionsInRange(ctx context.Context, from, to time.Time) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).
		Preload("Assignments").
		Where("start_at < ? AND end_at > ?", to, from).
		Order("start_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) UpdateSession(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteSession(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Session{}).Error
}

// LockPhotographer takes a row lock so concurrent assignment attempts for the
// same photographer serialize.
func (r *repository) LockPhotographer(ctx context.Context, id uuid.UUID) (*models.Photographer, error) {
	var photographer models.Photographer
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&photographer).Error
	if err != nil {
		return nil, err
	}
	return &photographer, nil
}

// ListAssignmentsByPhotographer returns the photographer's assignments with
// their sessions, skipping cancelled sessions.
func (r *repository) ListAssignmentsByPhotographer(ctx context.Context, photographerID uuid.UUID) ([]models.SessionAssignment, error) {
	var assignments []models.SessionAssignment
	err := r.db.WithContext(ctx).
		Preload("Session").
		Joins("JOIN sessions ON sessions.id = session_assignments.session_id").
		Where("session_assignments.photographer_id = ?", photographerID).
		Where("sessions.status <> ?", enums.SessionStatusCancelled).
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *repository) CreateAssignment(ctx context.Context, assignment *models.SessionAssignment) (*models.SessionAssignment, error) {
	if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return nil, err
	}
	return assignment, nil
}

func (r *repository) FindAssignmentByID(ctx context.Context, id uuid.UUID) (*models.SessionAssignment, error) {
	var assignment models.SessionAssignment
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *repository) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.SessionAssignment{}).Error
}

func (r *repository) FindPhotographersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Photographer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var photographers []models.Photographer
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&photographers).Error
	if err != nil {
		return nil, err
	}
	return photographers, nil
}

func (r *repository) FindProjectsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Project, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *repository) FindOrdersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
