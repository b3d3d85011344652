package router

import (
	"github.com/gin-gonic/gin"

	"github.com/registreqc/registreqc-backend/config"
	"github.com/registreqc/registreqc-backend/internal/app/controller"
	"github.com/registreqc/registreqc-backend/internal/middleware"
)

type Router struct {
	authController         *controller.AuthController
	businessController     *controller.BusinessController
	categoryController     *controller.CategoryController
	claimController        *controller.ClaimController
	reviewController       *controller.ReviewController
	adminController        *controller.AdminController
	uploadController       *controller.UploadController
	notificationController *controller.NotificationController
	wsController           *controller.WebSocketController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	businessController *controller.BusinessController,
	categoryController *controller.CategoryController,
	claimController *controller.ClaimController,
	reviewController *controller.ReviewController,
	adminController *controller.AdminController,
	uploadController *controller.UploadController,
	notificationController *controller.NotificationController,
	wsController *controller.WebSocketController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		businessController:     businessController,
		categoryController:     categoryController,
		claimController:        claimController,
		reviewController:       reviewController,
		adminController:        adminController,
		uploadController:       uploadController,
		notificationController: notificationController,
		wsController:           wsController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Registre QC API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		}

		businesses := v1.Group("/businesses")
		{
			businesses.GET("", r.businessController.List)
			businesses.GET("/slug/:slug", r.businessController.GetBySlug)
			businesses.GET("/:id/reviews", r.reviewController.ListForBusiness)
			businesses.POST("",
				r.authMiddleware.Authenticate(),
				r.businessController.Submit,
			)
			businesses.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.businessController.Update,
			)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.List)
			categories.GET("/:slug", r.categoryController.GetBySlug)
		}

		claims := v1.Group("/claims")
		claims.Use(r.authMiddleware.Authenticate())
		{
			claims.POST("", r.claimController.Create)
			claims.GET("/me", r.claimController.ListMine)
		}

		reviews := v1.Group("/reviews")
		reviews.Use(r.authMiddleware.Authenticate())
		{
			reviews.POST("", r.reviewController.Create)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(r.authMiddleware.Authenticate())
		{
			notifications.GET("", r.notificationController.List)
			notifications.POST("/:id/read", r.notificationController.MarkRead)
			notifications.POST("/read-all", r.notificationController.MarkAllRead)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/stats", r.adminController.Stats)
			admin.GET("/businesses/pending", r.adminController.ListPendingBusinesses)
			admin.POST("/businesses/:id/approve", r.adminController.ApproveBusiness)
			admin.POST("/businesses/:id/reject", r.adminController.RejectBusiness)
			admin.GET("/claims", r.adminController.ListClaims)
			admin.POST("/claims/:id/approve", r.adminController.ApproveClaim)
			admin.POST("/claims/:id/reject", r.adminController.RejectClaim)
			admin.GET("/reviews", r.adminController.ListReviews)
			admin.POST("/reviews/:id/moderate", r.adminController.ModerateReview)
		}

		ws := v1.Group("/ws")
		ws.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			ws.GET("/admin", r.wsController.Connect)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
