// Package preferences stores small per-admin UI flags in Redis, such as
// dismissed onboarding tips. Values are written once and never expire;
// re-setting an existing preference is a no-op.
package preferences

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"

	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
	"github.com/lumakara/studio-backend/pkg/logger"
)

const maxValueLength = 512

// Store is the subset of the Redis client the service needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	PreferenceKey(adminID, name string) string
}

type Service interface {
	// Get returns the stored value and whether it exists.
	Get(ctx context.Context, adminID, name string) (string, bool, error)
	// Set stores the value unless the preference already exists.
	Set(ctx context.Context, adminID, name, value string) error
}

type service struct {
	store Store
	logg  *logger.Logger
}

func NewService(store Store, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("preferences: store is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("preferences: logger is required")
	}
	return &service{store: store, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, adminID, name string) (string, bool, error) {
	name, err := normalizeName(name)
	if err != nil {
		return "", false, err
	}

	value, err := s.store.Get(ctx, s.store.PreferenceKey(adminID, name))
	if errors.Is(err, redislib.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read preference")
	}
	return value, true, nil
}

func (s *service) Set(ctx context.Context, adminID, name, value string) error {
	name, err := normalizeName(name)
	if err != nil {
		return err
	}
	if len(value) > maxValueLength {
		return pkgerrors.New(pkgerrors.CodeValidation, "preference value too long")
	}

	set, err := s.store.SetNX(ctx, s.store.PreferenceKey(adminID, name), value, 0)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write preference")
	}
	if !set {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"admin_id":   adminID,
			"preference": name,
		}), "preference already set, ignoring")
	}
	return nil
}

func normalizeName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "preference name is required")
	}
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' || r == '-' {
			continue
		}
		return "", pkgerrors.New(pkgerrors.CodeValidation, "preference name may only contain letters, digits, '-' and '_'")
	}
	return name, nil
}
