package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/spec-kit/support-crm/internal/auth"
	"github.com/spec-kit/support-crm/internal/config"
	"github.com/spec-kit/support-crm/internal/domain"
	"github.com/spec-kit/support-crm/internal/events"
)

type resetConsumerFake struct {
	seen map[string]bool
}

func (f *resetConsumerFake) Consume(_ context.Context, tokenID string, _ time.Duration) (bool, error) {
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	if f.seen[tokenID] {
		return false, nil
	}
	f.seen[tokenID] = true
	return true, nil
}

func newAuthFixture(t *testing.T) (*AuthService, *userRepoFake, *dispatcherFake, *auth.TokenManager) {
	t.Helper()
	hash, err := auth.NewHasher(4).Hash("hunter22")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	users := newUserRepoFake(&domain.User{
		ID: "staff-1", Name: "Sam", Email: "sam@corp.test", PasswordHash: hash, Role: domain.RoleStaff,
	})
	tokens := auth.NewTokenManager("test-secret", time.Hour, time.Minute)
	dispatcher := &dispatcherFake{}
	svc := NewAuthService(AuthDependencies{
		UserRepo:      users,
		Tokens:        tokens,
		ResetConsumer: &resetConsumerFake{},
		Dispatcher:    dispatcher,
		Config: config.AuthConfig{
			BcryptCost:           4,
			PasswordResetBaseURL: "http://localhost:3000",
		},
	})
	return svc, users, dispatcher, tokens
}

func TestLoginSuccess(t *testing.T) {
	svc, _, _, tokens := newAuthFixture(t)

	result, err := svc.Login(context.Background(), "Sam@Corp.Test", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.User.PasswordHash != "" {
		t.Error("password hash leaked in login result")
	}
	claims, err := tokens.ParseToken(result.Token, auth.PurposeSession)
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.UserID != "staff-1" || claims.Role != domain.RoleStaff {
		t.Errorf("claims = %+v, want staff-1/staff", claims)
	}
}

func TestLoginUnknownEmailIsNotFound(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "ghost@corp.test", "hunter22")
	if status := httpStatusOf(t, err); status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "sam@corp.test", "wrong")
	if status := httpStatusOf(t, err); status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Eve", Email: "eve@corp.test", Role: domain.RoleAdmin,
	})
	if status := httpStatusOf(t, err); status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Sam Again", Email: "sam@corp.test", Role: domain.RoleStaff,
	})
	if status := httpStatusOf(t, err); status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestRegisterGeneratesPasswordAndPublishesEvent(t *testing.T) {
	svc, users, dispatcher, _ := newAuthFixture(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		Name: "Tess", Email: "tess@corp.test", Role: domain.RoleTechnician,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked in register result")
	}

	published := dispatcher.byType(events.EventUserRegistered)
	if len(published) != 1 {
		t.Fatalf("published %d user_registered events, want 1", len(published))
	}
	payload := published[0].Payload.(events.UserRegisteredPayload)
	if payload.PlainPassword == "" {
		t.Error("welcome email payload missing generated password")
	}

	stored, err := users.GetByEmail(context.Background(), "tess@corp.test")
	if err != nil {
		t.Fatalf("stored user missing: %v", err)
	}
	if err := auth.ComparePassword(stored.PasswordHash, payload.PlainPassword); err != nil {
		t.Error("stored hash does not match the emailed password")
	}
}

func TestPasswordResetFlowIsSingleUse(t *testing.T) {
	svc, users, dispatcher, _ := newAuthFixture(t)
	ctx := context.Background()

	if err := svc.ForgotPassword(ctx, "sam@corp.test"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	published := dispatcher.byType(events.EventPasswordResetRequested)
	if len(published) != 1 {
		t.Fatalf("published %d reset events, want 1", len(published))
	}
	link := published[0].Payload.(events.PasswordResetRequestedPayload).ResetLink
	token := link[len("http://localhost:3000/reset-password?token="):]

	if err := svc.ResetPassword(ctx, token, "new-password"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	stored, _ := users.GetByID(ctx, "staff-1")
	if err := auth.ComparePassword(stored.PasswordHash, "new-password"); err != nil {
		t.Error("password not updated")
	}

	err := svc.ResetPassword(ctx, token, "another-password")
	if status := httpStatusOf(t, err); status != http.StatusUnauthorized {
		t.Fatalf("second use: status = %d, want 401", status)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	err := svc.ForgotPassword(context.Background(), "ghost@corp.test")
	if status := httpStatusOf(t, err); status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}
