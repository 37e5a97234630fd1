package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgauth "github.com/lumakara/studio-backend/pkg/auth"
	"github.com/lumakara/studio-backend/pkg/config"
	"github.com/lumakara/studio-backend/pkg/logger"

	"github.com/google/uuid"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessionChecker struct {
	alive bool
}

func (s stubSessionChecker) HasSession(context.Context, string) (bool, error) {
	return s.alive, nil
}

func testDeps(alive bool) Deps {
	return Deps{
		Config: &config.Config{
			App: config.AppConfig{Env: "test"},
			JWT: config.JWTConfig{
				Secret:            "router-test-secret",
				Issuer:            "studio-test",
				ExpirationMinutes: 5,
			},
		},
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DB:       stubPinger{},
		Cache:    stubPinger{},
		Sessions: stubSessionChecker{alive: alive},
	}
}

func TestHealthLiveRoute(t *testing.T) {
	router := NewRouter(testDeps(true))

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if env := resp.Header().Get("X-Studio-Env"); env != "test" {
		t.Fatalf("env header = %q", env)
	}
}

func TestAdminRoutesRequireBearerToken(t *testing.T) {
	router := NewRouter(testDeps(true))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAdminRoutesRejectRevokedSession(t *testing.T) {
	deps := testDeps(false)
	router := NewRouter(deps)

	token, err := pkgauth.MintAccessToken(deps.Config.JWT, time.Now(), pkgauth.AccessTokenPayload{
		AdminID: uuid.New(),
		Email:   "admin@lumakara.id",
		JTI:     uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestPublicCategoriesRouteIsOpen(t *testing.T) {
	router := NewRouter(testDeps(true))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// no catalog service wired, so the handler degrades to a 500 envelope
	// rather than a 401 or 404; the route itself is reachable without auth
	if resp.Code == http.StatusUnauthorized || resp.Code == http.StatusNotFound {
		t.Fatalf("public route should not demand auth, got %d", resp.Code)
	}
}
