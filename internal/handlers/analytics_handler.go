// Package handlers exposes the analytics reports over HTTP.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/niaga-platform/service-analytics/internal/analytics"
	"github.com/niaga-platform/service-analytics/internal/events"
	"github.com/niaga-platform/service-analytics/internal/services"
)

const dateLayout = "2006-01-02"

// AnalyticsHandler handles analytics report endpoints. The cache,
// snapshot, and publisher collaborators are optional; the adapter is not.
type AnalyticsHandler struct {
	adapter   *analytics.Adapter
	cache     *services.ReportCacheService
	snapshots *services.SnapshotService
	publisher *events.Publisher
	logger    *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(
	adapter *analytics.Adapter,
	cache *services.ReportCacheService,
	snapshots *services.SnapshotService,
	publisher *events.Publisher,
	logger *zap.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		adapter:   adapter,
		cache:     cache,
		snapshots: snapshots,
		publisher: publisher,
		logger:    logger,
	}
}

// parseDateRange reads start_date/end_date query parameters, defaulting to
// the last 30 days. Returns false after writing a 400 on malformed input.
func (h *AnalyticsHandler) parseDateRange(c *gin.Context) (string, string, bool) {
	startDate := c.DefaultQuery("start_date", "")
	endDate := c.DefaultQuery("end_date", "")

	if startDate == "" {
		startDate = time.Now().AddDate(0, 0, -30).Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, startDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date format"})
		return "", "", false
	}

	if endDate == "" {
		endDate = time.Now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, endDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date format"})
		return "", "", false
	}

	return startDate, endDate, true
}

// parseLimit reads the limit query parameter with a default of 10.
func parseLimit(c *gin.Context) int {
	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}
	return limit
}

// GetDashboard returns the combined dashboard summary
// @Summary Get combined analytics dashboard
// @Tags Analytics
// @Param start_date query string false "Start date (YYYY-MM-DD)"
// @Param end_date query string false "End date (YYYY-MM-DD)"
// @Param refresh query bool false "Force refresh (bypass cache)"
// @Router /admin/analytics/dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	startDate, endDate, ok := h.parseDateRange(c)
	if !ok {
		return
	}
	forceRefresh := c.Query("refresh") == "true"

	if h.cache != nil && !forceRefresh {
		cached, _ := h.cache.GetDashboard(c.Request.Context(), startDate, endDate)
		if cached != nil {
			c.JSON(http.StatusOK, gin.H{
				"date_range": gin.H{"start": startDate, "end": endDate},
				"analytics":  cached.Summary,
				"from_cache": true,
			})
			return
		}
	}

	summary := h.adapter.Dashboard(c.Request.Context(), startDate, endDate)

	if summary.Engagement != nil && summary.Engagement.IsMock {
		h.publisher.FallbackServed(services.SnapshotDashboard)
	} else {
		h.publisher.ReportFetched(services.SnapshotDashboard, startDate, endDate)
		if h.snapshots != nil {
			h.snapshots.Record(c.Request.Context(), services.SnapshotDashboard, startDate, endDate, summary)
		}
	}

	if h.cache != nil {
		if err := h.cache.SetDashboard(c.Request.Context(), startDate, endDate, summary); err != nil {
			h.logger.Warn("failed to cache dashboard", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"date_range": gin.H{"start": startDate, "end": endDate},
		"analytics":  summary,
		"from_cache": false,
	})
}

// GetDemographics returns visitor demographics
// @Summary Get visitor demographics
// @Tags Analytics
// @Router /admin/analytics/demographics [get]
func (h *AnalyticsHandler) GetDemographics(c *gin.Context) {
	startDate, endDate, ok := h.parseDateRange(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date_range":   gin.H{"start": startDate, "end": endDate},
		"demographics": h.adapter.Demographics(c.Request.Context(), startDate, endDate),
	})
}

// GetTrafficSources returns channel-grouped session counts
// @Summary Get traffic sources
// @Tags Analytics
// @Router /admin/analytics/traffic-sources [get]
func (h *AnalyticsHandler) GetTrafficSources(c *gin.Context) {
	startDate, endDate, ok := h.parseDateRange(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date_range":      gin.H{"start": startDate, "end": endDate},
		"traffic_sources": h.adapter.TrafficSources(c.Request.Context(), startDate, endDate),
	})
}

// GetEngagement returns sitewide engagement metrics
// @Summary Get engagement metrics
// @Tags Analytics
// @Router /admin/analytics/engagement [get]
func (h *AnalyticsHandler) GetEngagement(c *gin.Context) {
	startDate, endDate, ok := h.parseDateRange(c)
	if !ok {
		return
	}

	engagement := h.adapter.Engagement(c.Request.Context(), startDate, endDate)
	if engagement.IsMock {
		h.publisher.FallbackServed(services.SnapshotEngagement)
	}

	c.JSON(http.StatusOK, gin.H{
		"date_range": gin.H{"start": startDate, "end": endDate},
		"engagement": engagement,
	})
}

// GetUserTypes returns the new-vs-returning user split
// @Summary Get user types
// @Tags Analytics
// @Router /admin/analytics/user-types [get]
func (h *AnalyticsHandler) GetUserTypes(c *gin.Context) {
	startDate, endDate, ok := h.parseDateRange(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"date_range": gin.H{"start": startDate, "end": endDate},
		"user_types": h.adapter.UserTypes(c.Request.Context(), startDate, endDate),
	})
}

// GetActiveUsers returns realtime active users
// @Summary Get realtime active users
// @Tags Analytics
// @Router /admin/analytics/active-users [get]
func (h *AnalyticsHandler) GetActiveUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"active_users": h.adapter.ActiveUsers(c.Request.Context()),
	})
}

// GetTopEvents returns the most frequent events
// @Summary Get top events
// @Tags Analytics
// @Param limit query int false "Row limit"
// @Router /admin/analytics/top-events [get]
func (h *AnalyticsHandler) GetTopEvents(c *gin.Context) {
	limit := parseLimit(c)
	c.JSON(http.StatusOK, gin.H{
		"top_events": h.adapter.TopEvents(c.Request.Context(), limit),
	})
}

// GetTopPages returns the most viewed pages
// @Summary Get top pages
// @Tags Analytics
// @Param limit query int false "Row limit"
// @Router /admin/analytics/top-pages [get]
func (h *AnalyticsHandler) GetTopPages(c *gin.Context) {
	limit := parseLimit(c)
	c.JSON(http.StatusOK, gin.H{
		"top_pages": h.adapter.TopPages(c.Request.Context(), limit),
	})
}

// GetTopTrafficSources returns source/medium pairs for a range label
// @Summary Get top traffic sources
// @Tags Analytics
// @Param range query string false "Range label (realtime, today, last 7 days, ...)"
// @Param limit query int false "Row limit"
// @Router /admin/analytics/top-traffic-sources [get]
func (h *AnalyticsHandler) GetTopTrafficSources(c *gin.Context) {
	rangeLabel := c.DefaultQuery("range", "")
	limit := parseLimit(c)
	c.JSON(http.StatusOK, gin.H{
		"range":               rangeLabel,
		"top_traffic_sources": h.adapter.TopTrafficSources(c.Request.Context(), rangeLabel, limit),
	})
}

// GetHistory returns stored report snapshots
// @Summary Get report snapshot history
// @Tags Analytics
// @Param type query string false "Report type"
// @Param limit query int false "Row limit"
// @Router /admin/analytics/history [get]
func (h *AnalyticsHandler) GetHistory(c *gin.Context) {
	if h.snapshots == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Snapshot history not available"})
		return
	}

	reportType := c.DefaultQuery("type", services.SnapshotDashboard)
	limit := 30
	if limitStr := c.Query("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 {
			limit = n
		}
	}

	snapshots, err := h.snapshots.List(c.Request.Context(), reportType, limit)
	if err != nil {
		h.logger.Error("failed to list snapshots", zap.Error(err), zap.String("report_type", reportType))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load snapshot history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"report_type": reportType,
		"snapshots":   snapshots,
	})
}
