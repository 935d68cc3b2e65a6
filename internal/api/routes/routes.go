package routes

import (
	"github.com/DavidAcosta7/local-commerce-platform/internal/api/handlers"
	"github.com/DavidAcosta7/local-commerce-platform/internal/api/middleware"
	"github.com/DavidAcosta7/local-commerce-platform/internal/config"
	"github.com/DavidAcosta7/local-commerce-platform/internal/services"
	"github.com/DavidAcosta7/local-commerce-platform/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RateLimitMiddleware(cfg))

	// Initialize services
	emailService := services.NewEmailService(cfg)
	auditService := services.NewAuditService(db)
	reputationService := services.NewReputationService(db)
	achievementService := services.NewAchievementService(db, reputationService)
	commentService := services.NewCommentService(db)
	likeService := services.NewLikeService(db, reputationService, achievementService)
	moderationService := services.NewModerationService(db, auditService, reputationService, achievementService)
	merchantService := services.NewMerchantService(db, auditService, reputationService)
	rankingService := services.NewRankingService(db)
	accountService := services.NewAccountService(db, auditService, reputationService, emailService)

	// Initialize handlers
	commentHandler := handlers.NewCommentHandler(commentService, likeService)
	merchantHandler := handlers.NewMerchantHandler(merchantService)
	adminHandler := handlers.NewAdminHandler(moderationService, merchantService, accountService, auditService)
	leaderboardHandler := handlers.NewLeaderboardHandler(rankingService, reputationService, achievementService)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "message": "Server is running"})
	})

	// API routes
	api := router.Group("/api/v1")

	// Merchant directory
	merchants := api.Group("/merchants")
	{
		merchants.GET("/", merchantHandler.GetMerchants)
		merchants.GET("/mine", middleware.AuthMiddleware(cfg), middleware.MerchantOrAdmin(), merchantHandler.GetMyMerchants)
		merchants.GET("/:merchant_id", merchantHandler.GetMerchant)
		merchants.GET("/:merchant_id/comments", commentHandler.GetMerchantComments)
		merchants.POST("/", middleware.AuthMiddleware(cfg), middleware.MerchantOrAdmin(), merchantHandler.CreateMerchant)
		merchants.PUT("/:merchant_id", middleware.AuthMiddleware(cfg), merchantHandler.UpdateMerchant)
	}

	// Comments and likes
	comments := api.Group("/comments")
	{
		comments.POST("/", middleware.AuthMiddleware(cfg), commentHandler.SubmitComment)
		comments.POST("/:comment_id/like", middleware.AuthMiddleware(cfg), commentHandler.ToggleLike)
	}

	// Leaderboard and achievements
	leaderboard := api.Group("/leaderboard")
	{
		leaderboard.GET("/", leaderboardHandler.GetLeaderboard)
		leaderboard.GET("/me", middleware.AuthMiddleware(cfg), leaderboardHandler.GetMyStanding)
	}
	achievements := api.Group("/achievements")
	{
		achievements.GET("/", leaderboardHandler.GetAchievements)
		achievements.GET("/mine", middleware.AuthMiddleware(cfg), leaderboardHandler.GetMyAchievements)
	}

	// Admin routes
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	{
		admin.GET("/dashboard", adminHandler.GetDashboard)

		// Comment moderation
		admin.GET("/comments", adminHandler.GetAllComments)
		admin.GET("/comments/pending", adminHandler.GetPendingComments)
		admin.POST("/comments/:comment_id/approve", adminHandler.ApproveComment)
		admin.POST("/comments/:comment_id/reject", adminHandler.RejectComment)
		admin.DELETE("/comments/:comment_id", adminHandler.DeleteComment)

		// Merchant verification
		admin.GET("/merchants", adminHandler.GetAllMerchants)
		admin.GET("/merchants/unverified", adminHandler.GetUnverifiedMerchants)
		admin.POST("/merchants/:merchant_id/verify", adminHandler.VerifyMerchant)
		admin.DELETE("/merchants/:merchant_id", adminHandler.DeleteMerchant)

		// User management
		admin.GET("/users", adminHandler.GetUsers)
		admin.PUT("/users/:user_id/role", adminHandler.UpdateUserRole)
		admin.PUT("/users/:user_id/password", adminHandler.ChangeUserPassword)
		admin.DELETE("/users/:user_id", adminHandler.DeleteUser)

		// Audit trail
		admin.GET("/audit", adminHandler.GetAuditLog)
	}

	logger.Info("Routes initialized successfully")
}
