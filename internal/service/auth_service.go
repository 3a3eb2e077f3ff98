package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-crm/internal/auth"
	"github.com/spec-kit/support-crm/internal/config"
	"github.com/spec-kit/support-crm/internal/domain"
	"github.com/spec-kit/support-crm/internal/events"
	"github.com/spec-kit/support-crm/internal/repository"
	apperrors "github.com/spec-kit/support-crm/pkg/util"
)

// AuthService handles credentials: login, staff/technician provisioning and
// the password-reset flow.
type AuthService struct {
	users         repository.UserRepository
	tokens        *auth.TokenManager
	resetConsumer auth.ResetTokenConsumer
	dispatcher    events.Dispatcher
	hasher        *auth.Hasher
	cfg           config.AuthConfig
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	UserRepo      repository.UserRepository
	Tokens        *auth.TokenManager
	ResetConsumer auth.ResetTokenConsumer
	Dispatcher    events.Dispatcher
	Config        config.AuthConfig
}

// RegisterInput describes the payload for admin-driven account creation.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
	City     string
	State    string
	Country  string
	Role     domain.Role
}

// LoginResult carries a signed session token and its owner.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// NewAuthService constructs the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	return &AuthService{
		users:         deps.UserRepo,
		tokens:        deps.Tokens,
		resetConsumer: deps.ResetConsumer,
		dispatcher:    deps.Dispatcher,
		hasher:        auth.NewHasher(deps.Config.BcryptCost),
		cfg:           deps.Config,
	}
}

// Login verifies credentials and issues a session token. An unknown email is
// a 404, a wrong password a 401; clients rely on that distinction.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.tokens.GenerateSessionToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user.PasswordHash = ""
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Register provisions a staff or technician account. Admin accounts are never
// created through this path. When no password is supplied a random one is
// generated; either way the plaintext travels only inside the welcome-email
// event.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	if input.Role != domain.RoleStaff && input.Role != domain.RoleTechnician {
		return nil, apperrors.NewValidationError("role must be staff or technician", map[string]any{"role": input.Role})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewValidationError("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	password := input.Password
	if password == "" {
		password = generatePassword()
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Address:      input.Address,
		City:         input.City,
		State:        input.State,
		Country:      input.Country,
		Role:         input.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventUserRegistered,
		ActorID: user.ID,
		Payload: events.UserRegisteredPayload{
			UserID:        user.ID,
			Name:          user.Name,
			Email:         user.Email,
			Role:          user.Role,
			PlainPassword: password,
		},
	})

	user.PasswordHash = ""
	return user, nil
}

// ForgotPassword issues a short-lived reset token and emits the reset email
// event. The token itself carries identity and expiry; nothing is stored
// until the token is spent.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperrors.NewValidationError("email required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return apperrors.MapError(err)
	}

	token, _, err := s.tokens.GenerateResetToken(user.ID)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	link := strings.TrimRight(s.cfg.PasswordResetBaseURL, "/") + "/reset-password?token=" + url.QueryEscape(token)
	s.publish(ctx, events.Event{
		Type:    events.EventPasswordResetRequested,
		ActorID: user.ID,
		Payload: events.PasswordResetRequestedPayload{
			UserID:    user.ID,
			Name:      user.Name,
			Email:     user.Email,
			ResetLink: link,
		},
	})
	return nil
}

// ResetPassword validates a reset token, marks it spent and replaces the
// user's password. A token can reset a password exactly once.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return apperrors.NewValidationError("password required", nil)
	}

	claims, err := s.tokens.ParseToken(token, auth.PurposePasswordReset)
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired reset token")
	}
	if s.resetConsumer != nil {
		fresh, err := s.resetConsumer.Consume(ctx, claims.ID, s.tokens.ResetTTL())
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		if !fresh {
			return apperrors.NewUnauthorized("reset token already used")
		}
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": claims.UserID})
		}
		return apperrors.MapError(err)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generatePassword returns a random credential for admin-created accounts.
// UUID entropy is sufficient here; the user is told to change it on first
// login.
func generatePassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
