package services

import (
	"errors"
	"testing"
	"time"

	"github.com/yorumdesk/backend/internal/config"
	"github.com/yorumdesk/backend/internal/models"
	"github.com/yorumdesk/backend/internal/utils"
	"github.com/yorumdesk/backend/pkg/response"
)

func init() {
	utils.SetJWTSecret("test-secret-for-service-testing")
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := setupTestDB(t)
	email := NewEmailService(&config.SMTPConfig{Enabled: false})
	return NewAuthService(db, &config.JWTConfig{Secret: "test-secret-for-service-testing", ExpireHour: 24}, email)
}

func registerTestUser(t *testing.T, svc *AuthService) *models.User {
	t.Helper()
	user, err := svc.Register(&RegisterRequest{
		Email:    "ayse@example.com",
		Username: "ayse",
		Password: "correct-horse",
	}, "127.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return user
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)
	registerTestUser(t, svc)

	_, err := svc.Register(&RegisterRequest{
		Email:    "ayse@example.com",
		Username: "other",
		Password: "another-pass",
	}, "127.0.0.1", "go-test")

	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != 409 {
		t.Fatalf("expected 409 AppError, got %v", err)
	}
}

func TestRegisterStoresHashedPasswordAndIssuesVerification(t *testing.T) {
	svc := newTestAuthService(t)
	user := registerTestUser(t, svc)

	if user.Password == "correct-horse" {
		t.Error("password stored in plaintext")
	}
	if user.Role != "user" {
		t.Errorf("role = %q, expected user", user.Role)
	}
	if user.IsEmailVerified {
		t.Error("new accounts must start unverified")
	}

	var token models.VerificationToken
	if err := svc.db.Where("user_id = ? AND purpose = ?", user.ID, models.TokenPurposeEmailVerify).
		First(&token).Error; err != nil {
		t.Fatalf("verification token not issued: %v", err)
	}
	if token.IsUsed {
		t.Error("fresh token should not be marked used")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t)
	registerTestUser(t, svc)

	_, err := svc.Login(&LoginRequest{Email: "ayse@example.com", Password: "wrong"}, "127.0.0.1", "go-test")
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != 401 {
		t.Fatalf("expected 401 AppError, got %v", err)
	}
	if appErr.Message != "Invalid email or password" {
		t.Errorf("unexpected message %q", appErr.Message)
	}
}

func TestLoginUnknownEmailSameMessage(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "whatever"}, "127.0.0.1", "go-test")
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.Message != "Invalid email or password" {
		t.Fatalf("unknown email must not be distinguishable, got %v", err)
	}
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc := newTestAuthService(t)
	user := registerTestUser(t, svc)

	result, err := svc.Login(&LoginRequest{Email: "ayse@example.com", Password: "correct-horse"}, "10.0.0.5", "go-test")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	claims, err := utils.ParseToken(result.AccessToken)
	if err != nil {
		t.Fatalf("access token does not parse: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != "ayse@example.com" {
		t.Errorf("claims = %+v, unexpected identity", claims)
	}

	if len(result.RefreshToken) != 64 {
		t.Errorf("refresh token length = %d, expected 64 hex chars", len(result.RefreshToken))
	}

	// only the hash is stored
	var stored models.RefreshToken
	if err := svc.db.Where("user_id = ?", user.ID).First(&stored).Error; err != nil {
		t.Fatalf("refresh token row missing: %v", err)
	}
	if stored.TokenHash == result.RefreshToken {
		t.Error("refresh token stored unhashed")
	}
	if stored.TokenHash != hashRefreshToken(result.RefreshToken) {
		t.Error("stored hash does not match the issued token")
	}
	if stored.CreatedByIP != "10.0.0.5" {
		t.Errorf("CreatedByIP = %q", stored.CreatedByIP)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc := newTestAuthService(t)
	registerTestUser(t, svc)

	login, err := svc.Login(&LoginRequest{Email: "ayse@example.com", Password: "correct-horse"}, "127.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	refreshed, err := svc.Refresh(login.RefreshToken, "127.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatal("refresh must issue a new token")
	}

	// the old token is revoked and linked to its replacement
	var old models.RefreshToken
	svc.db.Where("token_hash = ?", hashRefreshToken(login.RefreshToken)).First(&old)
	if old.RevokedAt == nil {
		t.Error("old refresh token not revoked")
	}
	if old.ReplacedByTokenID == nil {
		t.Error("old refresh token not linked to replacement")
	}

	// replaying the old token fails
	_, err = svc.Refresh(login.RefreshToken, "127.0.0.1", "go-test")
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != 401 {
		t.Fatalf("expected 401 on replay, got %v", err)
	}

	// the new token still works
	if _, err := svc.Refresh(refreshed.RefreshToken, "127.0.0.1", "go-test"); err != nil {
		t.Fatalf("rotated token rejected: %v", err)
	}
}

func TestRefreshExpiredToken(t *testing.T) {
	svc := newTestAuthService(t)
	registerTestUser(t, svc)

	login, _ := svc.Login(&LoginRequest{Email: "ayse@example.com", Password: "correct-horse"}, "127.0.0.1", "go-test")

	svc.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", hashRefreshToken(login.RefreshToken)).
		Update("expires_at", time.Now().Add(-time.Hour))

	_, err := svc.Refresh(login.RefreshToken, "127.0.0.1", "go-test")
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.Message != "Refresh token expired" {
		t.Fatalf("expected expiry error, got %v", err)
	}
}

func TestVerifyEmailConsumesToken(t *testing.T) {
	svc := newTestAuthService(t)
	user := registerTestUser(t, svc)

	var token models.VerificationToken
	svc.db.Where("user_id = ?", user.ID).First(&token)

	if err := svc.VerifyEmail(token.Token, "127.0.0.1", "go-test"); err != nil {
		t.Fatalf("VerifyEmail failed: %v", err)
	}

	updated, _ := svc.GetUserByID(user.ID)
	if !updated.IsEmailVerified {
		t.Error("user not marked verified")
	}

	// second use fails
	err := svc.VerifyEmail(token.Token, "127.0.0.1", "go-test")
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.Message != "Token has already been used" {
		t.Fatalf("expected used-token error, got %v", err)
	}
}

func TestRequestPasswordResetUnknownEmailSilent(t *testing.T) {
	svc := newTestAuthService(t)

	if err := svc.RequestPasswordReset("nobody@example.com", "127.0.0.1", "go-test"); err != nil {
		t.Fatalf("unknown email must succeed silently, got %v", err)
	}

	var count int64
	svc.db.Model(&models.VerificationToken{}).Count(&count)
	if count != 0 {
		t.Errorf("no token should be issued for unknown email, found %d", count)
	}
}

func TestResetPasswordRevokesSessions(t *testing.T) {
	svc := newTestAuthService(t)
	user := registerTestUser(t, svc)

	login, _ := svc.Login(&LoginRequest{Email: "ayse@example.com", Password: "correct-horse"}, "127.0.0.1", "go-test")

	if err := svc.RequestPasswordReset("ayse@example.com", "127.0.0.1", "go-test"); err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}

	var token models.VerificationToken
	svc.db.Where("user_id = ? AND purpose = ?", user.ID, models.TokenPurposePasswordReset).First(&token)

	err := svc.ResetPassword(&ResetPasswordRequest{Token: token.Token, NewPassword: "brand-new-pass"}, "127.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("ResetPassword failed: %v", err)
	}

	// old password no longer works, new one does
	if _, err := svc.Login(&LoginRequest{Email: "ayse@example.com", Password: "correct-horse"}, "127.0.0.1", "go-test"); err == nil {
		t.Error("old password still accepted after reset")
	}
	if _, err := svc.Login(&LoginRequest{Email: "ayse@example.com", Password: "brand-new-pass"}, "127.0.0.1", "go-test"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}

	// the pre-reset refresh token was revoked
	if _, err := svc.Refresh(login.RefreshToken, "127.0.0.1", "go-test"); err == nil {
		t.Error("refresh token survived password reset")
	}
}

func TestChangePasswordChecksOldOne(t *testing.T) {
	svc := newTestAuthService(t)
	user := registerTestUser(t, svc)

	err := svc.ChangePassword(user.ID, &ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "whatever-new",
	}, "127.0.0.1", "go-test")

	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.HTTPStatus != 400 {
		t.Fatalf("expected 400 AppError, got %v", err)
	}
}

func TestActivityLogNewestFirstCapped(t *testing.T) {
	svc := newTestAuthService(t)
	user := registerTestUser(t, svc)

	for i := 0; i < 25; i++ {
		svc.recordActivity(user.ID, models.ActivityLogin, "127.0.0.1", "go-test", "Logged in")
	}

	activities, err := svc.ActivityLog(user.ID)
	if err != nil {
		t.Fatalf("ActivityLog failed: %v", err)
	}
	if len(activities) != 20 {
		t.Errorf("activity log length = %d, expected cap of 20", len(activities))
	}
}

func TestResendVerificationRejectsVerified(t *testing.T) {
	svc := newTestAuthService(t)
	user := registerTestUser(t, svc)

	svc.db.Model(user).Update("is_email_verified", true)

	err := svc.ResendVerificationEmail(user.ID)
	var appErr *response.AppError
	if !errors.As(err, &appErr) || appErr.Message != "Email is already verified" {
		t.Fatalf("expected already-verified error, got %v", err)
	}
}

func TestCreateAdminIfNotExists(t *testing.T) {
	svc := newTestAuthService(t)

	if err := svc.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("CreateAdminIfNotExists failed: %v", err)
	}
	// idempotent
	if err := svc.CreateAdminIfNotExists(); err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	var count int64
	svc.db.Model(&models.User{}).Where("role = ?", "admin").Count(&count)
	if count != 1 {
		t.Errorf("admin count = %d, expected 1", count)
	}
}
