package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/support-crm/internal/domain"
)

// TokenManager handles issuing and validating JWT tokens. Session tokens and
// password-reset tokens share the signing key but differ in purpose and TTL;
// a reset token is never accepted as a session.
type TokenManager struct {
	secret     []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, sessionTTL, resetTTL time.Duration) *TokenManager {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	if resetTTL <= 0 {
		resetTTL = time.Hour
	}
	return &TokenManager{secret: []byte(secret), sessionTTL: sessionTTL, resetTTL: resetTTL}
}

// ResetTTL exposes the reset-token lifetime for single-use bookkeeping.
func (tm *TokenManager) ResetTTL() time.Duration {
	return tm.resetTTL
}

// TokenPurpose distinguishes session tokens from password-reset tokens.
type TokenPurpose string

const (
	PurposeSession       TokenPurpose = "session"
	PurposePasswordReset TokenPurpose = "password_reset"
)

// Claims describes the JWT payload.
type Claims struct {
	UserID  string       `json:"id"`
	Role    domain.Role  `json:"role"`
	Purpose TokenPurpose `json:"purpose"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a session JWT carrying the user id and role.
func (tm *TokenManager) GenerateSessionToken(userID string, role domain.Role) (string, time.Time, error) {
	return tm.generate(userID, role, PurposeSession, tm.sessionTTL)
}

// GenerateResetToken signs a short-lived password-reset JWT.
func (tm *TokenManager) GenerateResetToken(userID string) (string, time.Time, error) {
	return tm.generate(userID, "", PurposePasswordReset, tm.resetTTL)
}

func (tm *TokenManager) generate(userID string, role domain.Role, purpose TokenPurpose, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		UserID:  userID,
		Role:    role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates a token and returns its claims when the purpose matches.
func (tm *TokenManager) ParseToken(tokenStr string, purpose TokenPurpose) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.Purpose != purpose {
		return nil, errors.New("token purpose mismatch")
	}
	return claims, nil
}
