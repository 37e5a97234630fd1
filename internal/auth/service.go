package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lumakara/studio-backend/pkg/auth"
	"github.com/lumakara/studio-backend/pkg/auth/session"
	"github.com/lumakara/studio-backend/pkg/config"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
	"github.com/lumakara/studio-backend/pkg/logger"
	"github.com/lumakara/studio-backend/pkg/security"
)

// sessionManager is the slice of the Redis session manager the flow needs.
type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	repo     Repository
	sessions sessionManager
	jwtCfg   config.JWTConfig
	logg     *logger.Logger
}

// NewService builds the admin auth service.
func NewService(repo Repository, sessions sessionManager, jwtCfg config.JWTConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("admin repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, sessions: sessions, jwtCfg: jwtCfg, logg: logg}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// same response as a bad password, no account probing
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin")
	}
	if !admin.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	ok, err := security.VerifyPassword(input.Password, admin.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	accessID := session.NewAccessID()
	accessToken, err := auth.MintAccessToken(s.jwtCfg, time.Now().UTC(), auth.AccessTokenPayload{
		AdminID: admin.ID,
		Email:   admin.Email,
		JTI:     accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create refresh session")
	}

	now := time.Now().UTC()
	if err := s.repo.Update(ctx, admin.ID, map[string]any{"last_login_at": now}); err != nil {
		s.logg.Warn(s.logg.WithAdminID(ctx, admin.ID.String()), "stamp last login failed")
	}

	s.logg.Info(s.logg.WithAdminID(ctx, admin.ID.String()), "admin logged in")
	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Admin:        summarize(admin),
	}, nil
}

func (s *service) Refresh(ctx context.Context, input RefreshInput) (*TokenPair, error) {
	claims, err := auth.ParseAccessTokenAllowExpired(s.jwtCfg, input.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
	}

	newAccessID, newRefreshToken, err := s.sessions.Rotate(ctx, claims.ID, input.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate refresh session")
	}

	admin, err := s.repo.FindByID(ctx, claims.AdminID)
	if err != nil || !admin.IsActive {
		// the rotated session is now orphaned; revoke it
		_ = s.sessions.Revoke(ctx, newAccessID)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
	}

	accessToken, err := auth.MintAccessToken(s.jwtCfg, time.Now().UTC(), auth.AccessTokenPayload{
		AdminID: admin.ID,
		Email:   admin.Email,
		JTI:     newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		Admin:        summarize(admin),
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	if err := s.sessions.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}
