package api

import (
	"github.com/gin-gonic/gin"

	"github.com/advdiary/advdiary/internal/advisory"
	"github.com/advdiary/advdiary/internal/auth"
	"github.com/advdiary/advdiary/internal/cache"
	"github.com/advdiary/advdiary/internal/config"
	"github.com/advdiary/advdiary/internal/diary"
	"github.com/advdiary/advdiary/internal/export"
	"github.com/advdiary/advdiary/pkg/logger"
)

// SetupRoutes configures all application routes
func SetupRoutes(router *gin.Engine, svc *diary.Service, sessions *auth.Sessions, advisor *advisory.Generator, exporter *export.Exporter, snapshots cache.Snapshots, logger *logger.Logger, cfg *config.Config) {
	h := NewHandlers(svc, sessions, advisor, exporter, snapshots, logger, cfg)

	api := router.Group("/api")
	{
		// Health check
		api.GET("/health", h.HealthCheck)
		api.GET("/case-types", h.CaseTypes)

		// Auth stub
		api.POST("/login", h.Login)
		api.POST("/logout", h.Logout)

		// Everything below acts on behalf of an authenticated principal
		authed := api.Group("", sessions.Middleware())
		{
			authed.GET("/profile", h.GetProfile)
			authed.PUT("/profile", h.UpdateProfile)

			// Case endpoints
			authed.GET("/cases", h.ListCases)
			authed.POST("/cases", h.SaveCase)
			authed.GET("/cases/:id", h.GetCase)
			authed.DELETE("/cases/:id", h.DeleteCase)
			authed.GET("/cases/:id/history", h.CaseHistory)
			authed.GET("/cases/:id/history/export", h.ExportHistory)
			authed.GET("/cases/:id/advice", h.CaseAdvice)

			// Bulk transitions
			authed.POST("/cases/bulk/complete", h.BulkCompleteCases)
			authed.POST("/cases/bulk/delete", h.BulkDeleteCases)

			// Client endpoints
			authed.GET("/clients", h.ListClients)
			authed.POST("/clients", h.SaveClient)
			authed.DELETE("/clients/:id", h.DeleteClient)

			// Cache stats
			authed.GET("/cache/stats", h.CacheStats)
		}
	}
}
