package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ecoquest/backend/internal/app/controllers"
	"github.com/ecoquest/backend/internal/app/models"
	"github.com/ecoquest/backend/internal/app/models/dto"
	"github.com/ecoquest/backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
	participationController *controllers.ParticipationController,
	gamificationController *controllers.GamificationController,
	rewardController *controllers.RewardController,
	ngoController *controllers.NGOController,
	fileController *controllers.FileController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh-token", authController.RefreshToken)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)

		// Location search is needed while picking a home location during
		// onboarding, so it sits outside the onboarded group
		authenticated.GET("/locations/search", userController.SearchLocations)

		// Profile routes stay reachable before onboarding completes
		users := authenticated.Group("/users")
		{
			users.GET("/me", userController.GetMe)
			users.PUT("/me", userController.UpdateProfile)
			users.POST("/me/onboarding", userController.CompleteOnboarding)
			users.PUT("/me/home-location", userController.UpdateHomeLocation)
			users.POST("/me/picture", userController.UploadPicture)

			usersAdminProtected := users.Group("")
			usersAdminProtected.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
			{
				usersAdminProtected.GET("", userController.GetUsers)
			}
		}

		// Everything below requires a completed onboarding
		onboarded := authenticated.Group("")
		onboarded.Use(authMiddleware.OnboardingRequired())
		{
			events := onboarded.Group("/events")
			{
				events.GET("", eventController.GetAll)
				events.GET("/nearby", eventController.GetNearby)
				events.GET("/mine", eventController.GetMine)
				events.POST("/check-in", registrationController.CheckIn)
				events.GET("/:id", eventController.GetByID)

				// Participant routes
				events.POST("/:id/register", registrationController.Register)
				events.DELETE("/:id/register", registrationController.Unregister)
				events.GET("/:id/registration", registrationController.GetStatus)
				events.POST("/:id/participations", participationController.Submit)
				events.POST("/:id/feedback", participationController.SubmitFeedback)
				events.GET("/:id/feedback", participationController.GetFeedback)

				// Organiser-only routes
				eventsOrganiserProtected := events.Group("")
				eventsOrganiserProtected.Use(authMiddleware.RoleRequired(string(models.RoleOrganiser), string(models.RoleAdmin)))
				{
					eventsOrganiserProtected.POST("", eventController.Create)
					eventsOrganiserProtected.PUT("/:id", eventController.Update)
					eventsOrganiserProtected.DELETE("/:id", eventController.Delete)
					eventsOrganiserProtected.POST("/:id/start", eventController.Start)
					eventsOrganiserProtected.POST("/:id/cancel", eventController.Cancel)
					eventsOrganiserProtected.POST("/:id/end", eventController.End)
					eventsOrganiserProtected.GET("/:id/registrations", registrationController.GetByEvent)
					eventsOrganiserProtected.GET("/:id/participations", participationController.GetByEvent)
				}
			}

			onboarded.GET("/registrations/mine", registrationController.GetMine)
			onboarded.GET("/participations/mine", participationController.GetMine)

			participationsOrganiserProtected := onboarded.Group("/participations")
			participationsOrganiserProtected.Use(authMiddleware.RoleRequired(string(models.RoleOrganiser), string(models.RoleAdmin)))
			{
				participationsOrganiserProtected.POST("/:id/verify", participationController.Verify)
			}

			gamification := onboarded.Group("/gamification")
			{
				gamification.GET("/xp", gamificationController.GetXP)
				gamification.GET("/stats", gamificationController.GetStats)
				gamification.GET("/history", gamificationController.GetHistory)
				gamification.GET("/badges", gamificationController.GetBadges)
				gamification.GET("/leaderboard", gamificationController.GetLeaderboard)
			}

			rewards := onboarded.Group("/rewards")
			{
				rewards.GET("", rewardController.GetCatalog)
				rewards.POST("/:id/redeem", rewardController.Redeem)
			}

			ngos := onboarded.Group("/ngos")
			{
				ngos.GET("/me", ngoController.GetOwn)
				ngos.GET("/:id", ngoController.GetByID)

				ngosOrganiserProtected := ngos.Group("")
				ngosOrganiserProtected.Use(authMiddleware.RoleRequired(string(models.RoleOrganiser)))
				{
					ngosOrganiserProtected.PUT("/me", ngoController.Update)
					ngosOrganiserProtected.GET("/me/stats", ngoController.GetStats)
				}
			}

			onboarded.POST("/files", fileController.UploadImage)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
