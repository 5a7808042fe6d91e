package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"nikahlink/handlers"
	"nikahlink/middleware"
	"nikahlink/utils"
)

// RegisterUserRoutes registers account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.Use(middleware.AuthUserMiddleware(hb.UserService))
		api.GET("/me", hb.UserHandler.GetProfileHandler)
		api.PUT("/me", hb.UserHandler.UpdateProfileHandler)
		api.GET("/me/stats", hb.UserHandler.GetStatsHandler)
	}
}

// RegisterInvitationRoutes registers the owner-facing invitation endpoints.
func RegisterInvitationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/invitations")
	{
		api.Use(middleware.AuthUserMiddleware(hb.UserService))
		api.POST("", hb.InvitationHandler.CreateInvitationHandler)
		api.GET("", hb.InvitationHandler.ListInvitationsHandler)
		api.PUT("/:id", hb.InvitationHandler.UpdateInvitationHandler)
		api.DELETE("/:id", hb.InvitationHandler.DeleteInvitationHandler)
		api.GET("/:id/quota", hb.InvitationHandler.GetQuotaHandler)
		api.POST("/:id/guests", hb.InvitationHandler.AddGuestHandler)
		api.GET("/:id/guests", hb.InvitationHandler.ListGuestsHandler)
		api.GET("/:id/guests/export", hb.InvitationHandler.ExportGuestsHandler)
		api.DELETE("/:id/guests/:guestId", hb.InvitationHandler.DeleteGuestHandler)
	}
}

// RegisterPublicRoutes registers the unauthenticated invitation pages. These
// carry no credentials, so they sit behind the per-IP rate limiter.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	public := r.Group("/invitation")
	{
		public.Use(middleware.RateLimitMiddleware())
		public.GET("", hb.PublicHandler.GetInvitationHandler)
		public.POST("/:id/rsvp", hb.PublicHandler.SubmitRSVPHandler)
		public.GET("/:id/wishes", hb.PublicHandler.ListWishesHandler)
	}
}

// RegisterUpgradeRoutes registers the plan upgrade endpoints.
func RegisterUpgradeRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/upgrade")
	{
		api.Use(middleware.AuthUserMiddleware(hb.UserService))
		api.POST("", hb.UpgradeHandler.SubmitUpgradeHandler)
		api.GET("/transactions", hb.UpgradeHandler.ListMyTransactionsHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.AuthUserMiddleware(hb.UserService))
		adminGroup.Use(middleware.AdminOnlyMiddleware())
		adminGroup.GET("/overview", hb.AdminHandler.OverviewHandler)
		adminGroup.GET("/users", hb.AdminHandler.ListUsersHandler)
		adminGroup.PUT("/users/:id", hb.AdminHandler.UpdateUserHandler)
		adminGroup.DELETE("/users/:id", hb.AdminHandler.DeleteUserHandler)
		adminGroup.GET("/invitations", hb.AdminHandler.ListInvitationsHandler)
		adminGroup.DELETE("/invitations/:id", hb.AdminHandler.DeleteInvitationHandler)
		adminGroup.GET("/transactions", hb.AdminHandler.ListTransactionsHandler)
		adminGroup.POST("/transactions/:id/confirm", hb.AdminHandler.ConfirmTransactionHandler)
		adminGroup.POST("/transactions/:id/reject", hb.AdminHandler.RejectTransactionHandler)
		adminGroup.GET("/packages", hb.AdminHandler.GetPackagesHandler)
		adminGroup.PUT("/packages", hb.AdminHandler.UpdatePackagesHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(utils.ErrorHandler())

	RegisterUserRoutes(r, hb)
	RegisterInvitationRoutes(r, hb)
	RegisterPublicRoutes(r, hb)
	RegisterUpgradeRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
