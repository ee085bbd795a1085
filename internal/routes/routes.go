package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/niaga-platform/service-analytics/internal/handlers"
	"github.com/niaga-platform/service-analytics/internal/middleware"
)

// RouteConfig holds configuration for routes
type RouteConfig struct {
	AnalyticsHandler *handlers.AnalyticsHandler
	JWTSecret        string
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *RouteConfig) {
	v1 := router.Group("/api/v1")

	// Admin analytics routes (require authentication and admin role)
	admin := v1.Group("/admin/analytics")
	admin.Use(middleware.Auth(cfg.JWTSecret))
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/dashboard", cfg.AnalyticsHandler.GetDashboard)
		admin.GET("/demographics", cfg.AnalyticsHandler.GetDemographics)
		admin.GET("/traffic-sources", cfg.AnalyticsHandler.GetTrafficSources)
		admin.GET("/engagement", cfg.AnalyticsHandler.GetEngagement)
		admin.GET("/user-types", cfg.AnalyticsHandler.GetUserTypes)
		admin.GET("/active-users", cfg.AnalyticsHandler.GetActiveUsers)
		admin.GET("/top-events", cfg.AnalyticsHandler.GetTopEvents)
		admin.GET("/top-pages", cfg.AnalyticsHandler.GetTopPages)
		admin.GET("/top-traffic-sources", cfg.AnalyticsHandler.GetTopTrafficSources)
		admin.GET("/history", cfg.AnalyticsHandler.GetHistory)
	}
}
