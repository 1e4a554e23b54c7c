package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/langx-app/server/internal/container"
	"github.com/langx-app/server/internal/handlers"
	"github.com/langx-app/server/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "langx-api",
			})
		})

		// public routes
		v1.POST("/signup", handlers.SignUp(container.AuthService))
		v1.POST("/login", handlers.SignIn(container.AuthService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.AuthService, container.Logger))

	protected.POST("/logout", handlers.SignOut(container.AuthService))
	protected.GET("/session", handlers.SessionState())

	// Device tokens may arrive before, during, or after setup.
	protected.POST("/devices/token", handlers.RegisterDeviceToken(container.Registrar))

	setupRoutes := protected.Group("/setup")
	{
		setupRoutes.GET("/", handlers.GetSetupState(container.SetupManager))
		setupRoutes.PATCH("/draft", handlers.UpdateSetupDraft(container.SetupManager))
		setupRoutes.POST("/advance", handlers.AdvanceSetup(container.SetupManager))
		setupRoutes.POST("/back", handlers.BackSetup(container.SetupManager))
		setupRoutes.POST("/finalize", handlers.FinalizeSetup(container.SetupManager))
	}

	profileRoutes := protected.Group("/profile")
	profileRoutes.Use(middleware.RequireSetupComplete())
	{
		profileRoutes.GET("/", handlers.GetMyProfile(container.ProfileService))
		profileRoutes.PATCH("/", handlers.PatchMyProfile(container.ProfileService))
		profileRoutes.POST("/presence", handlers.UpdatePresence(container.ProfileService))
		profileRoutes.POST("/typing", handlers.SetTyping(container.ProfileService))
		profileRoutes.POST("/notifications/clear", handlers.ClearNotifications(container.ProfileService))
		profileRoutes.PUT("/conversations/:conversation_id/hide", handlers.HideConversation(container.ProfileService))
		profileRoutes.DELETE("/conversations/:conversation_id/hide", handlers.UnhideConversation(container.ProfileService))
	}

	partnerRoutes := protected.Group("/partners")
	partnerRoutes.Use(middleware.RequireSetupComplete())
	{
		partnerRoutes.GET("/", handlers.FindPartners(container.ProfileService))
		partnerRoutes.POST("/searching", handlers.SetPartnerSearch(container.ProfileService))
	}

	usersRoutes := protected.Group("/users")
	usersRoutes.Use(middleware.RequireSetupComplete())
	{
		usersRoutes.GET("/:id", handlers.GetProfile(container.ProfileService))
	}

	return r
}
