package settings

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/config"
	"github.com/lumakara/studio-backend/pkg/db/models"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
	"github.com/lumakara/studio-backend/pkg/logger"
)

// UpdateInput carries partial settings updates; nil fields are left untouched.
type UpdateInput struct {
	CalendarDayStartHour *int    `json:"calendar_day_start_hour" validate:"omitempty,min=0,max=23"`
	CalendarDayEndHour   *int    `json:"calendar_day_end_hour" validate:"omitempty,min=1,max=24"`
	DisplayTimezone      *string `json:"display_timezone" validate:"omitempty,max=64"`
	DefaultDPPercent     *int    `json:"default_dp_percent" validate:"omitempty,min=0,max=100"`
}

// Repository defines persistence operations for the single settings row.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Find(ctx context.Context) (*models.Setting, error)
	Create(ctx context.Context, setting *models.Setting) (*models.Setting, error)
	Update(ctx context.Context, setting *models.Setting) error
}

// Service defines the settings operations exposed to controllers and other
// services.
type Service interface {
	Get(ctx context.Context) (*models.Setting, error)
	Update(ctx context.Context, input UpdateInput) (*models.Setting, error)
	DefaultDPPercent(ctx context.Context) int
	CalendarBounds(ctx context.Context) (startHour, endHour int, loc *time.Location)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Find(ctx context.Context) (*models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *repository) Create(ctx context.Context, setting *models.Setting) (*models.Setting, error) {
	if err := r.db.WithContext(ctx).Create(setting).Error; err != nil {
		return nil, err
	}
	return setting, nil
}

func (r *repository) Update(ctx context.Context, setting *models.Setting) error {
	return r.db.WithContext(ctx).Save(setting).Error
}

type service struct {
	repo     Repository
	calendar config.CalendarConfig
	orders   config.OrdersConfig
	logg     *logger.Logger
}

// NewService builds a settings service seeded from the static config defaults.
func NewService(repo Repository, calendar config.CalendarConfig, orders config.OrdersConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, calendar: calendar, orders: orders, logg: logg}, nil
}

// Get returns the settings row, seeding it from config defaults on first read.
func (s *service) Get(ctx context.Context) (*models.Setting, error) {
	setting, err := s.repo.Find(ctx)
	if err == nil {
		return setting, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}

	seeded, err := s.repo.Create(ctx, &models.Setting{
		CalendarDayStartHour: s.calendar.DayStartHour,
		CalendarDayEndHour:   s.calendar.DayEndHour,
		DisplayTimezone:      s.calendar.Timezone,
		DefaultDPPercent:     s.orders.DefaultDPPercent,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed settings")
	}
	s.logg.Info(ctx, "settings seeded from defaults")
	return seeded, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Setting, error) {
	setting, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	if input.CalendarDayStartHour != nil {
		setting.CalendarDayStartHour = *input.CalendarDayStartHour
	}
	if input.CalendarDayEndHour != nil {
		setting.CalendarDayEndHour = *input.CalendarDayEndHour
	}
	if input.DisplayTimezone != nil {
		if _, err := time.LoadLocation(*input.DisplayTimezone); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown timezone")
		}
		setting.DisplayTimezone = *input.DisplayTimezone
	}
	if input.DefaultDPPercent != nil {
		setting.DefaultDPPercent = *input.DefaultDPPercent
	}

	if setting.CalendarDayStartHour < 0 || setting.CalendarDayEndHour > 24 ||
		setting.CalendarDayStartHour >= setting.CalendarDayEndHour {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "calendar hours must satisfy 0 <= start < end <= 24")
	}
	if setting.DefaultDPPercent < 0 || setting.DefaultDPPercent > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "default dp percent must be between 0 and 100")
	}

	if err := s.repo.Update(ctx, setting); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update settings")
	}
	return setting, nil
}

// DefaultDPPercent reads the stored default, falling back to static config
// when the row cannot be loaded.
func (s *service) DefaultDPPercent(ctx context.Context) int {
	setting, err := s.Get(ctx)
	if err != nil {
		return s.orders.DefaultDPPercent
	}
	return setting.DefaultDPPercent
}

// CalendarBounds resolves the configured calendar hour range and timezone.
func (s *service) CalendarBounds(ctx context.Context) (int, int, *time.Location) {
	startHour := s.calendar.DayStartHour
	endHour := s.calendar.DayEndHour
	tz := s.calendar.Timezone

	if setting, err := s.Get(ctx); err == nil {
		startHour = setting.CalendarDayStartHour
		endHour = setting.CalendarDayEndHour
		tz = setting.DisplayTimezone
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return startHour, endHour, loc
}
