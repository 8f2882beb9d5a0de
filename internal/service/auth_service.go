package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/netdesk/internal/auth"
	"github.com/spec-kit/netdesk/internal/config"
	"github.com/spec-kit/netdesk/internal/domain"
	"github.com/spec-kit/netdesk/internal/repository"
	apperrors "github.com/spec-kit/netdesk/pkg/util"
)

// TokenRevoker invalidates issued access tokens on logout.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// AuthService coordinates signup, login and session lifecycle.
type AuthService struct {
	users      repository.UserRepository
	refresh    repository.RefreshTokenRepository
	tokenMgr   *auth.TokenManager
	revoker    TokenRevoker
	bcryptCost int
	refreshTTL time.Duration
	clock      Clock
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	Revoker          TokenRevoker
	Clock            Clock
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	clock := deps.Clock
	if clock == nil {
		clock = SystemClock()
	}
	return &AuthService{
		users:      deps.UserRepo,
		refresh:    deps.RefreshTokenRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		revoker:    deps.Revoker,
		bcryptCost: cfg.Auth.BcryptCost,
		refreshTTL: time.Duration(cfg.Auth.RefreshTokenTTLDays) * 24 * time.Hour,
		clock:      clock,
	}
}

// SignupInput describes a self-service customer registration.
type SignupInput struct {
	Name          string
	Email         string
	Password      string
	ContactNumber string
	Location      string
}

// Session bundles the credentials returned by login/refresh.
type Session struct {
	AccessToken  string
	ExpiresAt    time.Time
	RefreshToken string
}

// Signup registers a new customer account.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	return s.createUser(ctx, input, domain.RoleCustomer)
}

// CreateUser registers an account with an explicit role; the caller
// must be an admin.
func (s *AuthService) CreateUser(ctx context.Context, caller *domain.User, input SignupInput, role domain.Role) (*domain.User, error) {
	if !auth.Allowed(auth.OpUserCreate, caller.Role) {
		return nil, apperrors.NewForbidden("only admins can create users")
	}
	return s.createUser(ctx, input, role)
}

func (s *AuthService) createUser(ctx context.Context, input SignupInput, role domain.Role) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || strings.TrimSpace(input.Name) == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("name, email and password required", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:          strings.TrimSpace(input.Name),
		Email:         email,
		Role:          role,
		ContactNumber: input.ContactNumber,
		Location:      input.Location,
		PasswordHash:  hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Login authenticates a user and issues a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewUnauthorized("invalid email or password")
	}

	session, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Refresh exchanges a valid refresh token for a new session, rotating
// the stored token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, *Session, error) {
	record, err := s.refresh.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewUnauthorized("invalid refresh token")
		}
		return nil, nil, apperrors.MapError(err)
	}
	if s.clock.Now().After(record.ExpiresAt) {
		_ = s.refresh.DeleteByToken(ctx, refreshToken)
		return nil, nil, apperrors.NewUnauthorized("refresh token expired")
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		return nil, nil, apperrors.MapError(err)
	}

	if err := s.refresh.DeleteByToken(ctx, refreshToken); err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	session, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Logout revokes the presented access token and drops all refresh
// tokens of the user.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) error {
	if s.revoker != nil && principal.TokenID != "" {
		if err := s.revoker.Revoke(ctx, principal.TokenID, s.tokenMgr.TTL()); err != nil {
			return apperrors.NewInternalError(err)
		}
	}
	if err := s.refresh.DeleteByUser(ctx, principal.User.ID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AuthService) issueSession(ctx context.Context, user *domain.User) (*Session, error) {
	access, expiresAt, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	refresh := &domain.RefreshToken{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.clock.Now().Add(s.refreshTTL),
	}
	if err := s.refresh.Create(ctx, refresh); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &Session{
		AccessToken:  access,
		ExpiresAt:    expiresAt,
		RefreshToken: refresh.Token,
	}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
