package app

import (
	"github.com/Harini-0111/electronics-astra-user/docs"
	"github.com/Harini-0111/electronics-astra-user/internal/config"
	"github.com/Harini-0111/electronics-astra-user/internal/middleware"
	"github.com/Harini-0111/electronics-astra-user/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, cfg)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.student))
	{
		a.registerAccountRoutes(authGroup, c)
		a.registerFriendRoutes(authGroup, c)
		a.registerLibraryRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/verify-otp", c.auth.VerifyOTP)
		public.POST("/resend-otp", c.auth.ResendOTP)
		public.POST("/login", c.auth.Login)
		public.POST("/forgot-password", c.auth.ForgotPassword)
		public.POST("/check-reset-otp", c.auth.CheckResetOTP)
		public.POST("/reset-password", c.auth.ResetPassword)

		// Answers for guests too, so it only tries auth.
		public.GET("/session-status", middleware.TryAuthMiddleware(cfg), c.student.SessionStatus)
	}
}

func (a *App) registerAccountRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/profile", c.student.GetProfile)
	group.PUT("/profile", c.student.UpdateProfile)
	group.DELETE("/profile", c.student.DeleteAccount)
	group.PUT("/change-password", c.student.ChangePassword)
}

func (a *App) registerFriendRoutes(group *gin.RouterGroup, c *controllers) {
	group.POST("/friends/request", c.friendship.SendRequest)
	group.POST("/friends/accept", c.friendship.AcceptRequest)
	group.GET("/friends/requests", c.friendship.PendingRequests)
	group.GET("/friends", c.friendship.Friends)
	group.GET("/friend-profile/:publicId", c.student.FriendProfile)
}

func (a *App) registerLibraryRoutes(group *gin.RouterGroup, c *controllers) {
	library := group.Group("/library")
	{
		library.POST("/upload", c.library.Upload)
		library.GET("", c.library.List)
		library.GET("/my-uploads", c.library.MyUploads)
		library.GET("/shared-with-me", c.library.SharedWithMe)
		library.GET("/:fileId/download", c.library.Download)
		library.DELETE("/:fileId", c.library.Delete)
		library.POST("/share", c.library.Share)
	}
}
