package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yorumdesk/backend/internal/middleware"
	"github.com/yorumdesk/backend/internal/services"
	"github.com/yorumdesk/backend/pkg/response"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles account creation
// POST /accounts/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Register(&req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Account created, please verify your email", gin.H{"user": user})
}

// Login handles email/password login
// POST /accounts/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(&req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Login successful", gin.H{
		"access_token":      result.AccessToken,
		"access_expire_at":  result.AccessExpireAt,
		"refresh_token":     result.RefreshToken,
		"refresh_expire_at": result.RefreshExpireAt,
		"user":              result.User,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh rotates the refresh token pair
// POST /accounts/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Refresh(req.RefreshToken, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Token refreshed", gin.H{
		"access_token":      result.AccessToken,
		"access_expire_at":  result.AccessExpireAt,
		"refresh_token":     result.RefreshToken,
		"refresh_expire_at": result.RefreshExpireAt,
	})
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the refresh token
// POST /accounts/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	c.ShouldBindJSON(&req)

	if err := h.authService.Logout(middleware.GetUserID(c), req.RefreshToken, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Logged out successfully", nil)
}

// Profile returns the current account
// GET /accounts/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	user, err := h.authService.GetUserByID(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Profile loaded", gin.H{"user": user})
}

// UpdateProfile updates the current account's fields
// PUT /accounts/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.UpdateProfile(middleware.GetUserID(c), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Profile updated", gin.H{"user": user})
}

// ChangePassword changes the current account's password
// POST /accounts/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.ChangePassword(middleware.GetUserID(c), &req, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Password changed", nil)
}

type passwordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestPasswordReset issues a reset token. The response is identical
// whether or not the email exists.
// POST /accounts/password-reset
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req passwordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.RequestPasswordReset(req.Email, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "If the email is registered, a reset link has been sent", nil)
}

// ResetPassword consumes the reset token
// POST /accounts/password-reset/confirm
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.ResetPassword(&req, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Password has been reset", nil)
}

type verifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// VerifyEmail consumes the verification token
// POST /accounts/verify-email
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.authService.VerifyEmail(req.Token, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Email verified", nil)
}

// ResendVerification issues a fresh verification token
// POST /accounts/verify-email/resend
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	if err := h.authService.ResendVerificationEmail(middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Verification email sent", nil)
}

// ActivityLog returns the account's recent activity
// GET /accounts/activity
func (h *AuthHandler) ActivityLog(c *gin.Context) {
	activities, err := h.authService.ActivityLog(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Activity log loaded", gin.H{"activities": activities})
}
