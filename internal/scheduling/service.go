package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/db"
	"github.com/lumakara/studio-backend/pkg/db/models"
	"github.com/lumakara/studio-backend/pkg/enums"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
	"github.com/lumakara/studio-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// projectReader is the slice of the projects repository scheduling needs.
type projectReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
}

// calendarSettings yields the admin-configured calendar bounds.
type calendarSettings interface {
	CalendarBounds(ctx context.Context) (startHour, endHour int, loc *time.Location)
}

type service struct {
	repo     Repository
	projects projectReader
	tx       txRunner
	settings calendarSettings
	logg     *logger.Logger
}

// NewService builds a scheduling service with the required dependencies.
func NewService(repo Repository, projects projectReader, tx txRunner, settings calendarSettings, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("scheduling repository required")
	}
	if projects == nil {
		return nil, fmt.Errorf("project reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if settings == nil {
		return nil, fmt.Errorf("calendar settings required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, projects: projects, tx: tx, settings: settings, logg: logg}, nil
}

func (s *service) CreateSession(ctx context.Context, input CreateSessionInput) (*models.Session, error) {
	projectID, err := uuid.Parse(input.ProjectID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid project id")
	}
	if !input.EndAt.After(input.StartAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session end must be after start")
	}

	if _, err := s.projects.FindByID(ctx, projectID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "project not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load project")
	}

	session := &models.Session{
		ProjectID: projectID,
		StartAt:   input.StartAt.UTC(),
		EndAt:     input.EndAt.UTC(),
		Location:  input.Location,
		Notes:     input.Notes,
		Status:    enums.SessionStatusPlanned,
	}
	if input.OrderID != nil && *input.OrderID != "" {
		orderID, err := uuid.Parse(*input.OrderID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id")
		}
		session.OrderID = &orderID
	}

	created, err := s.repo.CreateSession(ctx, session)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}
	return created, nil
}

func (s *service) GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	session, err := s.repo.FindSessionByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	return session, nil
}

func (s *service) ListSessions(ctx context.Context, params RangeParams) ([]models.Session, error) {
	sessions, err := s.repo.ListSessions(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sessions")
	}
	return sessions, nil
}

func (s *service) UpdateSession(ctx context.Context, id uuid.UUID, input UpdateSessionInput) (*models.Session, error) {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	start := session.StartAt
	end := session.EndAt
	updates := map[string]any{}
	if input.StartAt != nil {
		start = input.StartAt.UTC()
		updates["start_at"] = start
	}
	if input.EndAt != nil {
		end = input.EndAt.UTC()
		updates["end_at"] = end
	}
	if !end.After(start) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session end must be after start")
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.Status != nil {
		status, err := enums.ParseSessionStatus(*input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid session status")
		}
		updates["status"] = status
	}

	if len(updates) == 0 {
		return session, nil
	}
	if err := s.repo.UpdateSession(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update session")
	}
	return s.GetSession(ctx, id)
}

func (s *service) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetSession(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteSession(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete session")
	}
	return nil
}

// AssignPhotographer attaches a photographer to a session. The photographer
// row is locked for the duration of the transaction, so two concurrent
// requests for the same photographer serialize and the overlap scan sees any
// assignment committed first.
func (s *service) AssignPhotographer(ctx context.Context, sessionID, photographerID uuid.UUID) (*models.SessionAssignment, error) {
	var assignment *models.SessionAssignment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		photographer, err := repo.LockPhotographer(ctx, photographerID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "photographer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock photographer")
		}
		if !photographer.IsActive {
			return pkgerrors.New(pkgerrors.CodeValidation, "photographer is not active")
		}

		session, err := repo.FindSessionByID(ctx, sessionID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
		}
		if session.Status == enums.SessionStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeValidation, "cancelled session cannot be assigned")
		}

		existing, err := repo.ListAssignmentsByPhotographer(ctx, photographerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scan existing assignments")
		}
		for _, a := range existing {
			if a.Session == nil || a.SessionID == session.ID {
				continue
			}
			if session.Overlaps(*a.Session) {
				return pkgerrors.New(pkgerrors.CodeSchedulingConflict,
					"photographer is already booked in that time range").
					WithDetails(ConflictDetail{
						PhotographerID: photographerID,
						SessionID:      a.SessionID,
						StartAt:        a.Session.StartAt,
						EndAt:          a.Session.EndAt,
					})
			}
		}

		assignment = &models.SessionAssignment{
			SessionID:      session.ID,
			PhotographerID: photographerID,
		}
		if assignment, err = repo.CreateAssignment(ctx, assignment); err != nil {
			if db.IsUniqueViolation(err, "uq_session_assignments_pair") {
				return pkgerrors.New(pkgerrors.CodeConflict, "photographer already assigned to this session")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assignment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithFields(ctx, map[string]any{
		"sessionID":      sessionID.String(),
		"photographerID": photographerID.String(),
	})
	s.logg.Info(ctx, "photographer assigned")
	return assignment, nil
}

// UnassignPhotographer deletes by assignment id; a missing row is NOT_FOUND
// rather than a silent no-op.
func (s *service) UnassignPhotographer(ctx context.Context, assignmentID uuid.UUID) error {
	if _, err := s.repo.FindAssignmentByID(ctx, assignmentID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}
	if err := s.repo.DeleteAssignment(ctx, assignmentID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete assignment")
	}
	return nil
}

func (s *service) WeekView(ctx context.Context, ref time.Time) (*WeekView, error) {
	startHour, endHour, loc := s.settings.CalendarBounds(ctx)
	weekStart, weekEnd := WeekOf(ref, loc)

	sessions, err := s.repo.ListSessionsInRange(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load week sessions")
	}

	photographerIDs := map[uuid.UUID]struct{}{}
	projectIDs := map[uuid.UUID]struct{}{}
	orderIDs := map[uuid.UUID]struct{}{}
	for _, session := range sessions {
		projectIDs[session.ProjectID] = struct{}{}
		if session.OrderID != nil {
			orderIDs[*session.OrderID] = struct{}{}
		}
		for _, a := range session.Assignments {
			photographerIDs[a.PhotographerID] = struct{}{}
		}
	}

	photographers, err := s.repo.FindPhotographersByIDs(ctx, keys(photographerIDs))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load photographers")
	}
	projects, err := s.repo.FindProjectsByIDs(ctx, keys(projectIDs))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load projects")
	}
	orders, err := s.repo.FindOrdersByIDs(ctx, keys(orderIDs))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders")
	}

	return BuildWeekView(weekStart, sessions, photographers, projects, orders, ViewOptions{
		DayStartHour: startHour,
		DayEndHour:   endHour,
		Location:     loc,
	}), nil
}

func keys(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
