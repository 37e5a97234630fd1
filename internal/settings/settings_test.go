package settings

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/config"
	"github.com/lumakara/studio-backend/pkg/db/models"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
	"github.com/lumakara/studio-backend/pkg/logger"
)

type stubRepo struct {
	setting *models.Setting
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Find(ctx context.Context) (*models.Setting, error) {
	if s.setting == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.setting
	return &copied, nil
}

func (s *stubRepo) Create(ctx context.Context, setting *models.Setting) (*models.Setting, error) {
	s.setting = setting
	return setting, nil
}

func (s *stubRepo) Update(ctx context.Context, setting *models.Setting) error {
	s.setting = setting
	return nil
}

func newTestService(t *testing.T, repo *stubRepo) Service {
	t.Helper()
	svc, err := NewService(repo,
		config.CalendarConfig{DayStartHour: 8, DayEndHour: 21, Timezone: "Asia/Jakarta"},
		config.OrdersConfig{DefaultDPPercent: 30},
		logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestGetSeedsDefaultsOnFirstRead(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	setting, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if setting.CalendarDayStartHour != 8 || setting.CalendarDayEndHour != 21 {
		t.Fatalf("hours = %d..%d, want 8..21", setting.CalendarDayStartHour, setting.CalendarDayEndHour)
	}
	if setting.DefaultDPPercent != 30 {
		t.Fatalf("dp percent = %d, want 30", setting.DefaultDPPercent)
	}
	if repo.setting == nil {
		t.Fatal("settings row not persisted")
	}
}

func TestUpdateRejectsInvertedHours(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	start := 20
	end := 9
	_, err := svc.Update(context.Background(), UpdateInput{
		CalendarDayStartHour: &start,
		CalendarDayEndHour:   &end,
	})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateRejectsUnknownTimezone(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	tz := "Mars/Olympus"
	_, err := svc.Update(context.Background(), UpdateInput{DisplayTimezone: &tz})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdatePersistsNewDefaults(t *testing.T) {
	repo := &stubRepo{}
	svc := newTestService(t, repo)

	pct := 50
	setting, err := svc.Update(context.Background(), UpdateInput{DefaultDPPercent: &pct})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if setting.DefaultDPPercent != 50 {
		t.Fatalf("dp percent = %d, want 50", setting.DefaultDPPercent)
	}
	if svc.DefaultDPPercent(context.Background()) != 50 {
		t.Fatal("DefaultDPPercent must reflect the stored row")
	}
}
