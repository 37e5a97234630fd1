package preferences

import (
	"context"
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"

	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
	"github.com/lumakara/studio-backend/pkg/logger"
)

type stubStore struct {
	values map[string]string
}

func (s *stubStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (s *stubStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := s.values[key]; ok {
		return false, nil
	}
	s.values[key] = value.(string)
	return true, nil
}

func (s *stubStore) PreferenceKey(adminID, name string) string {
	return "test:preference:" + adminID + ":" + name
}

func newTestService(t *testing.T) (Service, *stubStore) {
	t.Helper()
	store := &stubStore{values: map[string]string{}}
	svc, err := NewService(store, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestSetThenGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Set(ctx, "admin-1", "Calendar_Tip", "dismissed"); err != nil {
		t.Fatalf("set: %v", err)
	}

	value, found, err := svc.Get(ctx, "admin-1", "calendar_tip")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found || value != "dismissed" {
		t.Fatalf("got (%q, %v), want (dismissed, true)", value, found)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, found, err := svc.Get(context.Background(), "admin-1", "never_set")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("missing preference reported as found")
	}
}

func TestSetDoesNotOverwrite(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if err := svc.Set(ctx, "admin-1", "theme", "dark"); err != nil {
		t.Fatalf("first set: %v", err)
	}
	if err := svc.Set(ctx, "admin-1", "theme", "light"); err != nil {
		t.Fatalf("second set: %v", err)
	}

	key := store.PreferenceKey("admin-1", "theme")
	if store.values[key] != "dark" {
		t.Fatalf("value = %q, want the original dark", store.values[key])
	}
}

func TestInvalidNameRejected(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Set(context.Background(), "admin-1", "bad name!", "x")
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
