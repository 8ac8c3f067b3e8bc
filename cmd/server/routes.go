package main

import (
	"github.com/gin-gonic/gin"
	"github.com/yorumdesk/backend/internal/handlers"
	"github.com/yorumdesk/backend/internal/middleware"
	"github.com/yorumdesk/backend/internal/models"
	"github.com/yorumdesk/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for public submission endpoints
	publicLimiter := middleware.NewRateLimiter(10, 20)

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	// Account routes
	accounts := r.Group("/accounts")
	{
		public := accounts.Group("", publicLimiter.Middleware())
		{
			public.POST("/register", svc.authHandler.Register)
			public.POST("/login", svc.authHandler.Login)
			public.POST("/refresh", svc.authHandler.Refresh)
			public.POST("/password-reset", svc.authHandler.RequestPasswordReset)
			public.POST("/password-reset/confirm", svc.authHandler.ResetPassword)
			public.POST("/verify-email", svc.authHandler.VerifyEmail)
		}

		private := accounts.Group("", middleware.AuthRequired())
		{
			private.POST("/logout", svc.authHandler.Logout)
			private.GET("/profile", svc.authHandler.Profile)
			private.PUT("/profile", svc.authHandler.UpdateProfile)
			private.POST("/change-password", svc.authHandler.ChangePassword)
			private.POST("/verify-email/resend", svc.authHandler.ResendVerification)
			private.GET("/activity", svc.authHandler.ActivityLog)
		}
	}

	// Comment routes. Submission is public (rate limited) so storefront
	// customers can post without an account; moderation needs a login.
	comments := r.Group("/comments")
	{
		comments.POST("", publicLimiter.Middleware(), svc.commentHandler.Create)

		moderation := comments.Group("", middleware.AuthRequired())
		{
			moderation.GET("", svc.commentHandler.List)
			moderation.GET("/status/filter", svc.commentHandler.FilterByStatus)
			moderation.GET("/:id", svc.commentHandler.Get)
			moderation.POST("/update/answered", svc.commentHandler.UpdateStatus)
			moderation.POST("/approve", svc.commentHandler.Approve)
			moderation.POST("/reject", svc.commentHandler.Reject)
			moderation.POST("/reprocess", svc.commentHandler.Reprocess)
		}
	}

	// Admin routes
	api := r.Group("/api", middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLog())
	{
		llmConfigHandler := handlers.NewLLMConfigHandler(models.GetDB())
		api.GET("/llm-configs", llmConfigHandler.List)
		api.GET("/llm-configs/:id", llmConfigHandler.GetByID)
		api.POST("/llm-configs", llmConfigHandler.Create)
		api.PUT("/llm-configs/:id", llmConfigHandler.Update)
		api.DELETE("/llm-configs/:id", llmConfigHandler.Delete)

		api.GET("/system/logs", svc.systemHandler.ListLogs)
		api.GET("/system/logs/modules", svc.systemHandler.ListLogModules)
		api.GET("/system/config/:group", svc.systemHandler.GetConfigGroup)
		api.PUT("/system/config", svc.systemHandler.SetConfig)
		api.POST("/system/digest", svc.systemHandler.TriggerDigest)
	}
}
