// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/procurehub/rfp-backend/internal/config"
	"github.com/procurehub/rfp-backend/internal/handlers"
	"github.com/procurehub/rfp-backend/internal/middleware"
	"github.com/procurehub/rfp-backend/internal/services"
	"github.com/procurehub/rfp-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(cfg)
	storageService, _ := services.NewStorageService(cfg)
	authService := services.NewAuthService(db, cfg)
	rfpService, responseService := services.NewLifecycleServices(db, storageService, notificationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	rfpHandler := handlers.NewRFPHandler(rfpService, storageService)
	responseHandler := handlers.NewResponseHandler(responseService, storageService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	api := r.Group("/api")
	{
		// Authentication routes
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// RFP lifecycle routes
		rfps := api.Group("/rfps")
		rfps.Use(middleware.AuthRequired())
		{
			// Static paths before :id so the router keeps them distinct
			rfps.GET("/search", rfpHandler.SearchRFPs)
			rfps.GET("/available", middleware.SupplierRequired(), responseHandler.ListAvailableRFPs)
			rfps.GET("/submissions/my", middleware.SupplierRequired(), responseHandler.ListMySubmissions)

			rfps.GET("", rfpHandler.ListRFPs)
			rfps.POST("", middleware.BuyerRequired(), middleware.UploadRateLimit(), rfpHandler.CreateRFP)

			rfps.GET("/:id", rfpHandler.GetRFP)
			rfps.PUT("/:id", middleware.BuyerRequired(), rfpHandler.UpdateRFP)
			rfps.DELETE("/:id", middleware.BuyerRequired(), rfpHandler.DeleteRFP)
			rfps.PATCH("/:id/status", middleware.BuyerRequired(), rfpHandler.UpdateRFPStatus)

			rfps.GET("/:id/responses", middleware.BuyerRequired(), rfpHandler.ListResponsesForRFP)
			rfps.POST("/:id/responses", middleware.SupplierRequired(), middleware.UploadRateLimit(), responseHandler.SubmitResponse)
			rfps.PATCH("/:id/responses/:rid/status", middleware.BuyerRequired(), responseHandler.DecideResponse)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
