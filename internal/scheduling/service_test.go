package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/db/models"
	"github.com/lumakara/studio-backend/pkg/enums"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
	"github.com/lumakara/studio-backend/pkg/logger"
)

type stubRepo struct {
	sessions      map[uuid.UUID]*models.Session
	photographers map[uuid.UUID]*models.Photographer
	assignments   map[uuid.UUID]*models.SessionAssignment
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		sessions:      map[uuid.UUID]*models.Session{},
		photographers: map[uuid.UUID]*models.Photographer{},
		assignments:   map[uuid.UUID]*models.SessionAssignment{},
	}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) CreateSession(ctx context.Context, session *models.Session) (*models.Session, error) {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	s.sessions[session.ID] = session
	return session, nil
}

func (s *stubRepo) FindSessionByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	if session, ok := s.sessions[id]; ok {
		copied := *session
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ListSessions(ctx context.Context, params RangeParams) ([]models.Session, error) {
	var out []models.Session
	for _, session := range s.sessions {
		out = append(out, *session)
	}
	return out, nil
}

func (s *stubRepo) ListSessionsInRange(ctx context.Context, from, to time.Time) ([]models.Session, error) {
	var out []models.Session
	for _, session := range s.sessions {
		if session.StartAt.Before(to) && session.EndAt.After(from) {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (s *stubRepo) UpdateSession(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	session, ok := s.sessions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["status"]; ok {
		session.Status = v.(enums.SessionStatus)
	}
	if v, ok := updates["start_at"]; ok {
		session.StartAt = v.(time.Time)
	}
	if v, ok := updates["end_at"]; ok {
		session.EndAt = v.(time.Time)
	}
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id uuid.UUID) error {
	delete(s.sessions, id)
	for aid, a := range s.assignments {
		if a.SessionID == id {
			delete(s.assignments, aid)
		}
	}
	return nil
}

func (s *stubRepo) LockPhotographer(ctx context.Context, id uuid.UUID) (*models.Photographer, error) {
	if p, ok := s.photographers[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ListAssignmentsByPhotographer(ctx context.Context, photographerID uuid.UUID) ([]models.SessionAssignment, error) {
	var out []models.SessionAssignment
	for _, a := range s.assignments {
		if a.PhotographerID != photographerID {
			continue
		}
		session, ok := s.sessions[a.SessionID]
		if !ok || session.Status == enums.SessionStatusCancelled {
			continue
		}
		copied := *a
		sessionCopy := *session
		copied.Session = &sessionCopy
		out = append(out, copied)
	}
	return out, nil
}

func (s *stubRepo) CreateAssignment(ctx context.Context, assignment *models.SessionAssignment) (*models.SessionAssignment, error) {
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	s.assignments[assignment.ID] = assignment
	return assignment, nil
}

func (s *stubRepo) FindAssignmentByID(ctx context.Context, id uuid.UUID) (*models.SessionAssignment, error) {
	if a, ok := s.assignments[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	delete(s.assignments, id)
	return nil
}

func (s *stubRepo) FindPhotographersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Photographer, error) {
	var out []models.Photographer
	for _, id := range ids {
		if p, ok := s.photographers[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubRepo) FindProjectsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Project, error) {
	return nil, nil
}

func (s *stubRepo) FindOrdersByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Order, error) {
	return nil, nil
}

type stubProjects struct {
	projects map[uuid.UUID]*models.Project
}

func (s *stubProjects) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	if p, ok := s.projects[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type stubSettings struct{}

func (stubSettings) CalendarBounds(ctx context.Context) (int, int, *time.Location) {
	return 8, 21, time.UTC
}

type fixture struct {
	svc      Service
	repo     *stubRepo
	projects *stubProjects
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newStubRepo()
	projects := &stubProjects{projects: map[uuid.UUID]*models.Project{}}
	svc, err := NewService(repo, projects, stubTx{}, stubSettings{}, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &fixture{svc: svc, repo: repo, projects: projects}
}

func (f *fixture) seedProject() *models.Project {
	project := &models.Project{ID: uuid.New(), Title: "Studio set", Slug: "studio-set"}
	f.projects.projects[project.ID] = project
	return project
}

func (f *fixture) seedSession(start, end time.Time) *models.Session {
	project := f.seedProject()
	session := &models.Session{
		ID:        uuid.New(),
		ProjectID: project.ID,
		StartAt:   start,
		EndAt:     end,
		Status:    enums.SessionStatusPlanned,
	}
	f.repo.sessions[session.ID] = session
	return session
}

func (f *fixture) seedPhotographer(active bool) *models.Photographer {
	p := &models.Photographer{ID: uuid.New(), Name: "Bayu", IsActive: active}
	f.repo.photographers[p.ID] = p
	return p
}

func at(hour int) time.Time {
	return time.Date(2026, 3, 2, hour, 0, 0, 0, time.UTC)
}

func TestCreateSessionRejectsInvertedRange(t *testing.T) {
	f := newFixture(t)
	project := f.seedProject()

	_, err := f.svc.CreateSession(context.Background(), CreateSessionInput{
		ProjectID: project.ID.String(),
		StartAt:   at(12),
		EndAt:     at(12),
	})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.repo.sessions) != 0 {
		t.Fatal("invalid session must not persist")
	}
}

func TestAssignOverlapConflicts(t *testing.T) {
	f := newFixture(t)
	photographer := f.seedPhotographer(true)

	booked := f.seedSession(at(10), at(12))
	if _, err := f.svc.AssignPhotographer(context.Background(), booked.ID, photographer.ID); err != nil {
		t.Fatalf("first assignment: %v", err)
	}

	overlapping := f.seedSession(at(11), at(13))
	_, err := f.svc.AssignPhotographer(context.Background(), overlapping.ID, photographer.ID)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeSchedulingConflict {
		t.Fatalf("expected scheduling conflict, got %v", err)
	}
	if len(f.repo.assignments) != 1 {
		t.Fatalf("assignments = %d, conflict must not change row count", len(f.repo.assignments))
	}
}

func TestAssignTouchingIntervalsSucceeds(t *testing.T) {
	f := newFixture(t)
	photographer := f.seedPhotographer(true)

	morning := f.seedSession(at(10), at(12))
	if _, err := f.svc.AssignPhotographer(context.Background(), morning.ID, photographer.ID); err != nil {
		t.Fatalf("first assignment: %v", err)
	}

	// [12,13) touches [10,12) at the boundary only
	afternoon := f.seedSession(at(12), at(13))
	if _, err := f.svc.AssignPhotographer(context.Background(), afternoon.ID, photographer.ID); err != nil {
		t.Fatalf("touching intervals must not conflict: %v", err)
	}
	if len(f.repo.assignments) != 2 {
		t.Fatalf("assignments = %d, want 2", len(f.repo.assignments))
	}
}

func TestAssignIgnoresCancelledSessions(t *testing.T) {
	f := newFixture(t)
	photographer := f.seedPhotographer(true)

	cancelled := f.seedSession(at(10), at(12))
	if _, err := f.svc.AssignPhotographer(context.Background(), cancelled.ID, photographer.ID); err != nil {
		t.Fatalf("first assignment: %v", err)
	}
	f.repo.sessions[cancelled.ID].Status = enums.SessionStatusCancelled

	overlapping := f.seedSession(at(11), at(13))
	if _, err := f.svc.AssignPhotographer(context.Background(), overlapping.ID, photographer.ID); err != nil {
		t.Fatalf("cancelled sessions must not conflict: %v", err)
	}
}

func TestAssignInactivePhotographerRejected(t *testing.T) {
	f := newFixture(t)
	photographer := f.seedPhotographer(false)
	session := f.seedSession(at(10), at(12))

	_, err := f.svc.AssignPhotographer(context.Background(), session.ID, photographer.ID)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUnassignMissingAssignmentIsNotFound(t *testing.T) {
	f := newFixture(t)

	err := f.svc.UnassignPhotographer(context.Background(), uuid.New())
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
