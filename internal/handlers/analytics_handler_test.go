package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/niaga-platform/service-analytics/internal/analytics"
	"github.com/niaga-platform/service-analytics/internal/ga"
	"github.com/niaga-platform/service-analytics/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubReportClient serves a canned response for every report query.
type stubReportClient struct {
	resp *ga.ReportResponse
	err  error
}

func (s *stubReportClient) RunReport(context.Context, string, *ga.RunReportRequest) (*ga.ReportResponse, error) {
	return s.resp, s.err
}

func (s *stubReportClient) RunRealtimeReport(context.Context, string, *ga.RunRealtimeReportRequest) (*ga.ReportResponse, error) {
	return s.resp, s.err
}

func newHandler(client analytics.ReportClient) *AnalyticsHandler {
	adapter := analytics.NewAdapter(&analytics.AdapterConfig{
		Client:     client,
		PropertyID: "123456",
	})
	return NewAnalyticsHandler(adapter, nil, nil, nil, zap.NewNop())
}

func perform(t *testing.T, handler gin.HandlerFunc, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)

	handler(c)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestGetDashboard(t *testing.T) {
	client := &stubReportClient{
		resp: &ga.ReportResponse{
			Rows: []ga.Row{{
				DimensionValues: []ga.Value{{Value: "Malaysia"}, {Value: "Kuala Lumpur"}, {Value: "25-34"}, {Value: "male"}},
				MetricValues:    []ga.Value{{Value: "10"}},
			}},
		},
	}
	handler := newHandler(client)

	w, body := perform(t, handler.GetDashboard, "/dashboard?start_date=2026-01-01&end_date=2026-01-31")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["from_cache"])

	dateRange, ok := body["date_range"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2026-01-01", dateRange["start"])
	assert.Equal(t, "2026-01-31", dateRange["end"])

	summary, ok := body["analytics"].(map[string]interface{})
	require.True(t, ok)
	for _, key := range []string{"demographics", "traffic_sources", "engagement", "user_types"} {
		assert.Contains(t, summary, key)
	}
}

func TestGetDashboardInvalidStartDate(t *testing.T) {
	handler := newHandler(&stubReportClient{})

	w, body := perform(t, handler.GetDashboard, "/dashboard?start_date=01-01-2026")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid start_date format", body["error"])
}

func TestGetDemographicsInvalidEndDate(t *testing.T) {
	handler := newHandler(&stubReportClient{})

	w, body := perform(t, handler.GetDemographics, "/demographics?end_date=not-a-date")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid end_date format", body["error"])
}

func TestGetEngagementServesFallbackOnFailure(t *testing.T) {
	handler := newHandler(&stubReportClient{err: errors.New("upstream down")})

	w, body := perform(t, handler.GetEngagement, "/engagement?start_date=2026-01-01&end_date=2026-01-31")

	assert.Equal(t, http.StatusOK, w.Code, "report failures degrade, never 5xx")

	engagement, ok := body["engagement"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, engagement["is_mock"])
	assert.Equal(t, float64(-1), engagement["sessions"])
}

func TestGetTopEventsLimit(t *testing.T) {
	handler := newHandler(&stubReportClient{
		resp: &ga.ReportResponse{
			Rows: []ga.Row{
				{DimensionValues: []ga.Value{{Value: "page_view"}}, MetricValues: []ga.Value{{Value: "500"}}},
				{DimensionValues: []ga.Value{{Value: "session_start"}}, MetricValues: []ga.Value{{Value: "300"}}},
				{DimensionValues: []ga.Value{{Value: "purchase"}}, MetricValues: []ga.Value{{Value: "20"}}},
			},
		},
	})

	w, body := perform(t, handler.GetTopEvents, "/top-events?limit=2")

	assert.Equal(t, http.StatusOK, w.Code)
	events, ok := body["top_events"].([]interface{})
	require.True(t, ok)
	assert.Len(t, events, 2)
}

func TestGetTopEventsBadLimitDefaults(t *testing.T) {
	handler := newHandler(&stubReportClient{err: errors.New("upstream down")})

	w, body := perform(t, handler.GetTopEvents, "/top-events?limit=zero")

	assert.Equal(t, http.StatusOK, w.Code)
	events, ok := body["top_events"].([]interface{})
	require.True(t, ok)
	assert.Len(t, events, 5, "fallback list capped by the default limit")
}

func TestGetTopTrafficSourcesEchoesRange(t *testing.T) {
	handler := newHandler(&stubReportClient{
		resp: &ga.ReportResponse{
			Rows: []ga.Row{{
				DimensionValues: []ga.Value{{Value: "google"}, {Value: "organic"}},
				MetricValues:    []ga.Value{{Value: "7"}},
			}},
		},
	})

	w, body := perform(t, handler.GetTopTrafficSources, "/top-traffic-sources?range=realtime&limit=5")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "realtime", body["range"])
	sources, ok := body["top_traffic_sources"].([]interface{})
	require.True(t, ok)
	require.Len(t, sources, 1)
	assert.Equal(t, "google", sources[0].(map[string]interface{})["source"])
}

func TestGetActiveUsers(t *testing.T) {
	handler := newHandler(&stubReportClient{
		resp: &ga.ReportResponse{
			Rows: []ga.Row{{
				DimensionValues: []ga.Value{{Value: "Malaysia"}, {Value: "Kuala Lumpur"}},
				MetricValues:    []ga.Value{{Value: "12"}},
			}},
		},
	})

	w, body := perform(t, handler.GetActiveUsers, "/active-users")

	assert.Equal(t, http.StatusOK, w.Code)
	active, ok := body["active_users"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(12), active["total_active_users"])
}

func newCachedHandler(t *testing.T, client analytics.ReportClient) (*AnalyticsHandler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	adapter := analytics.NewAdapter(&analytics.AdapterConfig{
		Client:     client,
		PropertyID: "123456",
	})
	cache := services.NewReportCacheService(redisClient, time.Minute, zap.NewNop())
	return NewAnalyticsHandler(adapter, cache, nil, nil, zap.NewNop()), mr
}

func TestGetDashboardSecondRequestServedFromCache(t *testing.T) {
	client := &stubReportClient{
		resp: &ga.ReportResponse{
			Rows: []ga.Row{{
				DimensionValues: []ga.Value{{Value: "Malaysia"}, {Value: "Kuala Lumpur"}, {Value: "25-34"}, {Value: "male"}},
				MetricValues:    []ga.Value{{Value: "10"}},
			}},
		},
	}
	handler, _ := newCachedHandler(t, client)
	target := "/dashboard?start_date=2026-01-01&end_date=2026-01-31"

	w, body := perform(t, handler.GetDashboard, target)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["from_cache"])

	w, body = perform(t, handler.GetDashboard, target)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["from_cache"])

	summary, ok := body["analytics"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, summary, "demographics")
}

func TestGetDashboardRefreshBypassesCache(t *testing.T) {
	client := &stubReportClient{
		resp: &ga.ReportResponse{
			Rows: []ga.Row{{MetricValues: []ga.Value{{Value: "10"}}}},
		},
	}
	handler, _ := newCachedHandler(t, client)

	_, _ = perform(t, handler.GetDashboard, "/dashboard?start_date=2026-01-01&end_date=2026-01-31")

	w, body := perform(t, handler.GetDashboard, "/dashboard?start_date=2026-01-01&end_date=2026-01-31&refresh=true")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["from_cache"], "refresh=true must go to the upstream even when cached")
}

func TestGetDashboardMockResultIsNotCached(t *testing.T) {
	handler, mr := newCachedHandler(t, &stubReportClient{err: errors.New("upstream down")})
	target := "/dashboard?start_date=2026-01-01&end_date=2026-01-31"

	w, _ := perform(t, handler.GetDashboard, target)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, mr.Keys(), "fallback payloads must never reach the cache")

	_, body := perform(t, handler.GetDashboard, target)
	assert.Equal(t, false, body["from_cache"], "degraded responses must retry upstream next time")
}

func TestGetHistoryUnavailableWithoutStore(t *testing.T) {
	handler := newHandler(&stubReportClient{})

	w, body := perform(t, handler.GetHistory, "/history")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Snapshot history not available", body["error"])
}
