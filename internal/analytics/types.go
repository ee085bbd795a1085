// Package analytics implements the GA4 reporting adapter: date range
// resolution, report requesters, row aggregation, and deterministic
// fallback data when the upstream property is unreachable or unconfigured.
package analytics

import (
	"context"

	"github.com/niaga-platform/service-analytics/internal/ga"
)

// ReportClient is the subset of the Analytics Data API client used by the
// adapter. *ga.Client satisfies it; tests substitute fakes.
type ReportClient interface {
	RunReport(ctx context.Context, property string, req *ga.RunReportRequest) (*ga.ReportResponse, error)
	RunRealtimeReport(ctx context.Context, property string, req *ga.RunRealtimeReportRequest) (*ga.ReportResponse, error)
}

// ReportRange is a resolved reporting window: either realtime or a
// historical span. Date values are calendar dates (YYYY-MM-DD) or relative
// tokens ("7daysAgo", "today") interpreted by the upstream service.
// Realtime is never true alongside date bounds.
type ReportRange struct {
	Realtime  bool   `json:"realtime"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// CityUsers is one city entry in a demographics summary.
type CityUsers struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Users   int64  `json:"users"`
}

// DemographicsSummary aggregates visitor demographics for a date range.
type DemographicsSummary struct {
	AgeGroups          map[string]int64 `json:"age_groups"`
	GenderDistribution map[string]int64 `json:"gender_distribution"`
	Cities             []CityUsers      `json:"cities"`
}

// TrafficSourcesSummary buckets sessions into the five fixed channel
// groupings. Channels matching none of them are dropped.
type TrafficSourcesSummary struct {
	Direct   int64 `json:"direct"`
	Organic  int64 `json:"organic"`
	Social   int64 `json:"social"`
	Paid     int64 `json:"paid"`
	Referral int64 `json:"referral"`
}

// Total returns the session count across all five channel buckets.
func (s *TrafficSourcesSummary) Total() int64 {
	return s.Direct + s.Organic + s.Social + s.Paid + s.Referral
}

// EngagementSummary holds sitewide engagement metrics. Rates are
// percentages. When IsMock is true every numeric field holds the
// sentinel -1 and the data is placeholder, not measured.
type EngagementSummary struct {
	PageViews              int64   `json:"page_views"`
	Sessions               int64   `json:"sessions"`
	BounceRate             float64 `json:"bounce_rate"`
	EngagedSessions        int64   `json:"engaged_sessions"`
	EngagementRate         float64 `json:"engagement_rate"`
	AverageSessionDuration float64 `json:"average_session_duration"`
	EventCount             int64   `json:"event_count"`
	KeyEvents              int64   `json:"key_events"`
	SessionKeyEventRate    float64 `json:"session_key_event_rate"`
	IsMock                 bool    `json:"is_mock"`
}

// CountryUsers is one country entry in an active users summary.
type CountryUsers struct {
	Country string `json:"country"`
	Users   int64  `json:"users"`
}

// CityCount is one city entry in an active users summary.
type CityCount struct {
	City  string `json:"city"`
	Users int64  `json:"users"`
}

// ActiveUsersSummary holds realtime active user counts.
type ActiveUsersSummary struct {
	TotalActiveUsers int64          `json:"total_active_users"`
	TopCountries     []CountryUsers `json:"top_countries"`
	TopCities        []CityCount    `json:"top_cities"`
}

// UserTypesSummary splits active users into new and returning.
type UserTypesSummary struct {
	NewUsers       int64 `json:"new_users"`
	ReturningUsers int64 `json:"returning_users"`
}

// EventCount is one entry in a top events report.
type EventCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// PageCount is one entry in a top pages report.
type PageCount struct {
	Path  string `json:"path"`
	Title string `json:"title"`
	Views int64  `json:"views"`
}

// TrafficSourceDetail is one entry in a top traffic sources report.
type TrafficSourceDetail struct {
	Source string `json:"source"`
	Medium string `json:"medium"`
	Users  int64  `json:"users"`
}

// DashboardSummary combines the historical reports served together on the
// admin dashboard.
type DashboardSummary struct {
	Demographics   *DemographicsSummary   `json:"demographics"`
	TrafficSources *TrafficSourcesSummary `json:"traffic_sources"`
	Engagement     *EngagementSummary     `json:"engagement"`
	UserTypes      *UserTypesSummary      `json:"user_types"`
}

// Typed row shapes produced at the request boundary so aggregators never
// index into positional dimension/metric arrays.

type demographicRow struct {
	Country    string
	City       string
	AgeBracket string
	Gender     string
	Users      int64
}

type channelRow struct {
	Channel  string
	Sessions int64
}

type userTypeRow struct {
	Segment string
	Users   int64
}

type locationRow struct {
	Country string
	City    string
	Users   int64
}
