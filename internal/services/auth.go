package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/yorumdesk/backend/internal/config"
	"github.com/yorumdesk/backend/internal/models"
	"github.com/yorumdesk/backend/internal/utils"
	"github.com/yorumdesk/backend/pkg/logger"
	"github.com/yorumdesk/backend/pkg/response"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
	configSvc *SystemConfigService
	email     *EmailService
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig, email *EmailService) *AuthService {
	return &AuthService{
		db:        db,
		jwtConfig: jwtCfg,
		configSvc: NewSystemConfigService(db),
		email:     email,
	}
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	AccessToken     string
	AccessExpireAt  time.Time
	RefreshToken    string
	RefreshExpireAt time.Time
	User            *models.User
}

type RefreshResult struct {
	AccessToken     string
	AccessExpireAt  time.Time
	RefreshToken    string
	RefreshExpireAt time.Time
}

// Register creates the account, records the activity and issues the email
// verification token. The token is delivered by mail only.
func (s *AuthService) Register(req *RegisterRequest, clientIP, userAgent string) (*models.User, error) {
	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, response.NewConflict("Email is already registered")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, response.NewServerError("Account could not be created")
	}

	user := models.User{
		Email:       req.Email,
		Username:    req.Username,
		Password:    hashedPassword,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Role:        "user",
		IsActive:    true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, response.NewServerError("Account could not be created")
	}

	s.recordActivity(user.ID, models.ActivityRegistration, clientIP, userAgent, "Account registered")

	if err := s.issueVerificationToken(&user); err != nil {
		logger.Errorf("[Auth] Failed to issue verification token for user %d: %v", user.ID, err)
	}

	return &user, nil
}

// Login authenticates by email and password and issues an access/refresh
// token pair.
func (s *AuthService) Login(req *LoginRequest, clientIP, userAgent string) (*LoginResult, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("Invalid email or password")
		}
		return nil, response.NewServerError("Login failed")
	}

	if !user.IsActive {
		return nil, response.NewUnauthorized("Account is disabled")
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, response.NewUnauthorized("Invalid email or password")
	}

	accessHours := s.getAccessTokenExpireHours()
	refreshHours := s.getRefreshTokenExpireHours()

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, accessHours)
	if err != nil {
		return nil, response.NewServerError("Login failed")
	}

	refreshToken, refreshHash, err := generateRefreshToken()
	if err != nil {
		return nil, response.NewServerError("Login failed")
	}

	refreshExpireAt := time.Now().Add(time.Duration(refreshHours) * time.Hour)
	refreshRecord := models.RefreshToken{
		UserID:      user.ID,
		TokenHash:   refreshHash,
		ExpiresAt:   refreshExpireAt,
		CreatedByIP: clientIP,
		UserAgent:   userAgent,
	}
	if err := s.db.Create(&refreshRecord).Error; err != nil {
		return nil, response.NewServerError("Login failed")
	}

	now := time.Now()
	user.LastLogin = &now
	s.db.Save(&user)

	s.recordActivity(user.ID, models.ActivityLogin, clientIP, userAgent, "Logged in")

	return &LoginResult{
		AccessToken:     token,
		AccessExpireAt:  time.Now().Add(time.Duration(accessHours) * time.Hour),
		RefreshToken:    refreshToken,
		RefreshExpireAt: refreshExpireAt,
		User:            &user,
	}, nil
}

// Refresh rotates the refresh token: the presented token is revoked and
// linked to its replacement inside one transaction.
func (s *AuthService) Refresh(refreshToken string, clientIP, userAgent string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, response.NewBadRequest("Refresh token required")
	}

	hash := hashRefreshToken(refreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ?", hash).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("Invalid refresh token")
		}
		return nil, response.NewServerError("Token refresh failed")
	}

	if stored.RevokedAt != nil {
		return nil, response.NewUnauthorized("Refresh token revoked")
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, response.NewUnauthorized("Refresh token expired")
	}

	var user models.User
	if err := s.db.First(&user, stored.UserID).Error; err != nil {
		return nil, response.NewUnauthorized("User not found")
	}
	if !user.IsActive {
		return nil, response.NewUnauthorized("Account is disabled")
	}

	accessHours := s.getAccessTokenExpireHours()
	refreshHours := s.getRefreshTokenExpireHours()

	newAccessToken, err := utils.GenerateToken(user.ID, user.Email, user.Role, accessHours)
	if err != nil {
		return nil, response.NewServerError("Token refresh failed")
	}

	newRefreshToken, newRefreshHash, err := generateRefreshToken()
	if err != nil {
		return nil, response.NewServerError("Token refresh failed")
	}

	now := time.Now()
	newRefresh := models.RefreshToken{
		UserID:      user.ID,
		TokenHash:   newRefreshHash,
		ExpiresAt:   now.Add(time.Duration(refreshHours) * time.Hour),
		CreatedByIP: clientIP,
		UserAgent:   userAgent,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newRefresh).Error; err != nil {
			return err
		}
		return tx.Model(&stored).Updates(map[string]interface{}{
			"revoked_at":           now,
			"replaced_by_token_id": newRefresh.ID,
		}).Error
	}); err != nil {
		return nil, response.NewServerError("Token refresh failed")
	}

	return &RefreshResult{
		AccessToken:     newAccessToken,
		AccessExpireAt:  time.Now().Add(time.Duration(accessHours) * time.Hour),
		RefreshToken:    newRefreshToken,
		RefreshExpireAt: newRefresh.ExpiresAt,
	}, nil
}

// Logout revokes the presented refresh token and records the activity.
// Revoking an unknown token is a no-op.
func (s *AuthService) Logout(userID uint, refreshToken, clientIP, userAgent string) error {
	if refreshToken != "" {
		hash := hashRefreshToken(refreshToken)
		now := time.Now()
		s.db.Model(&models.RefreshToken{}).
			Where("token_hash = ? AND revoked_at IS NULL", hash).
			Update("revoked_at", now)
	}

	s.recordActivity(userID, models.ActivityLogout, clientIP, userAgent, "Logged out")
	return nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("User not found")
		}
		return nil, response.NewServerError("User could not be loaded")
	}
	return &user, nil
}

type UpdateProfileRequest struct {
	Username    *string `json:"username"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
}

func (s *AuthService) UpdateProfile(userID uint, req *UpdateProfileRequest, clientIP, userAgent string) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, response.NewServerError("Profile could not be updated")
	}

	s.recordActivity(user.ID, models.ActivityProfileUpdate, clientIP, userAgent, "Profile updated")
	return user, nil
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func (s *AuthService) ChangePassword(userID uint, req *ChangePasswordRequest, clientIP, userAgent string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !utils.CheckPassword(req.OldPassword, user.Password) {
		return response.NewBadRequest("Incorrect old password")
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return response.NewServerError("Password could not be changed")
	}

	user.Password = hashedPassword
	if err := s.db.Save(user).Error; err != nil {
		return response.NewServerError("Password could not be changed")
	}

	s.recordActivity(user.ID, models.ActivityPasswordChange, clientIP, userAgent, "Password changed")
	return nil
}

// RequestPasswordReset issues a reset token for the account. It does not
// reveal whether the email exists: unknown addresses succeed silently.
func (s *AuthService) RequestPasswordReset(email, clientIP, userAgent string) error {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return response.NewServerError("Password reset could not be requested")
	}

	hours := s.configSvc.GetInt("auth_password_reset_expire_hours", 2)
	token := models.VerificationToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		Purpose:   models.TokenPurposePasswordReset,
		ExpiresAt: time.Now().Add(time.Duration(hours) * time.Hour),
	}
	if err := s.db.Create(&token).Error; err != nil {
		return response.NewServerError("Password reset could not be requested")
	}

	s.recordActivity(user.ID, models.ActivityPasswordResetRequest, clientIP, userAgent, "Password reset requested")

	if err := s.email.SendPasswordResetEmail(user.Email, token.Token); err != nil {
		logger.Errorf("[Auth] Failed to send password reset mail to user %d: %v", user.ID, err)
	}
	return nil
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// ResetPassword consumes a reset token and sets the new password. All
// outstanding refresh tokens of the account are revoked.
func (s *AuthService) ResetPassword(req *ResetPasswordRequest, clientIP, userAgent string) error {
	token, err := s.consumeToken(req.Token, models.TokenPurposePasswordReset)
	if err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return response.NewServerError("Password could not be reset")
	}

	now := time.Now()
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", token.UserID).
			Update("password", hashedPassword).Error; err != nil {
			return err
		}
		if err := tx.Model(token).Update("is_used", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.RefreshToken{}).
			Where("user_id = ? AND revoked_at IS NULL", token.UserID).
			Update("revoked_at", now).Error
	}); err != nil {
		return response.NewServerError("Password could not be reset")
	}

	s.recordActivity(token.UserID, models.ActivityPasswordReset, clientIP, userAgent, "Password reset")
	return nil
}

// VerifyEmail consumes a verification token and marks the account verified.
func (s *AuthService) VerifyEmail(tokenValue, clientIP, userAgent string) error {
	token, err := s.consumeToken(tokenValue, models.TokenPurposeEmailVerify)
	if err != nil {
		return err
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", token.UserID).
			Update("is_email_verified", true).Error; err != nil {
			return err
		}
		return tx.Model(token).Update("is_used", true).Error
	}); err != nil {
		return response.NewServerError("Email could not be verified")
	}

	s.recordActivity(token.UserID, models.ActivityEmailVerification, clientIP, userAgent, "Email verified")
	return nil
}

// ResendVerificationEmail issues a fresh verification token for an account
// that has not verified yet.
func (s *AuthService) ResendVerificationEmail(userID uint) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return response.NewBadRequest("Email is already verified")
	}
	return s.issueVerificationToken(user)
}

// ActivityLog returns the most recent activities of the account, newest
// first, capped at 20 entries.
func (s *AuthService) ActivityLog(userID uint) ([]models.UserActivity, error) {
	var activities []models.UserActivity
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(20).Find(&activities).Error; err != nil {
		return nil, response.NewServerError("Activity log could not be loaded")
	}
	return activities, nil
}

// CreateAdminIfNotExists creates the default admin account on first boot.
func (s *AuthService) CreateAdminIfNotExists() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", "admin").Count(&count)

	if count == 0 {
		hashedPassword, err := utils.HashPassword("admin")
		if err != nil {
			return err
		}

		admin := models.User{
			Email:           "admin@localhost",
			Username:        "admin",
			Password:        hashedPassword,
			Role:            "admin",
			IsActive:        true,
			IsEmailVerified: true,
		}

		return s.db.Create(&admin).Error
	}

	return nil
}

func (s *AuthService) issueVerificationToken(user *models.User) error {
	hours := s.configSvc.GetInt("auth_email_verify_expire_hours", 24)
	token := models.VerificationToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		Purpose:   models.TokenPurposeEmailVerify,
		ExpiresAt: time.Now().Add(time.Duration(hours) * time.Hour),
	}
	if err := s.db.Create(&token).Error; err != nil {
		return err
	}

	return s.email.SendVerificationEmail(user.Email, token.Token)
}

func (s *AuthService) consumeToken(tokenValue, purpose string) (*models.VerificationToken, error) {
	var token models.VerificationToken
	if err := s.db.Where("token = ? AND purpose = ?", tokenValue, purpose).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewBadRequest("Invalid token")
		}
		return nil, response.NewServerError("Token could not be checked")
	}

	if token.IsUsed {
		return nil, response.NewBadRequest("Token has already been used")
	}
	if time.Now().After(token.ExpiresAt) {
		return nil, response.NewBadRequest("Token has expired")
	}

	return &token, nil
}

func (s *AuthService) recordActivity(userID uint, activityType, clientIP, userAgent, description string) {
	activity := models.UserActivity{
		UserID:       userID,
		ActivityType: activityType,
		IPAddress:    clientIP,
		UserAgent:    userAgent,
		Description:  description,
	}
	if err := s.db.Create(&activity).Error; err != nil {
		logger.Errorf("[Auth] Failed to record activity for user %d: %v", userID, err)
	}
}

func (s *AuthService) getAccessTokenExpireHours() int {
	defaultHours := s.jwtConfig.ExpireHour
	value := s.configSvc.GetWithDefault("auth_access_token_expire_hours", strconv.Itoa(defaultHours))
	hours, err := strconv.Atoi(value)
	if err != nil || hours <= 0 {
		return defaultHours
	}
	return hours
}

func (s *AuthService) getRefreshTokenExpireHours() int {
	value := s.configSvc.GetWithDefault("auth_refresh_token_expire_hours", "720")
	hours, err := strconv.Atoi(value)
	if err != nil || hours <= 0 {
		return 720
	}
	return hours
}

func generateRefreshToken() (token string, tokenHash string, err error) {
	randomBytes := make([]byte, 32)
	if _, err = rand.Read(randomBytes); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(randomBytes)
	tokenHash = hashRefreshToken(token)
	return token, tokenHash, nil
}

func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
