package analytics

import (
	"context"
	"math"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/niaga-platform/service-analytics/internal/ga"
)

// Adapter normalizes access to the GA4 reporting service for the admin
// dashboard. Every method returns a best-effort summary and never an
// error: failures are logged and converted to fallback placeholders.
//
// Construct once at startup and inject into handlers; the adapter is
// read-only after construction and safe for concurrent use.
type Adapter struct {
	client   ReportClient
	property string
	fallback *FallbackProvider
	logger   *zap.Logger
}

// AdapterConfig holds configuration for the reporting adapter.
type AdapterConfig struct {
	// Client may be nil when analytics is unconfigured; the adapter then
	// serves fallback data without issuing requests.
	Client     ReportClient
	PropertyID string
	Logger     *zap.Logger
}

// NewAdapter creates a new reporting adapter.
func NewAdapter(cfg *AdapterConfig) *Adapter {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{
		client:   cfg.Client,
		property: cfg.PropertyID,
		fallback: NewFallbackProvider(),
		logger:   logger,
	}
}

// configured reports whether the adapter can reach the upstream property.
func (a *Adapter) configured() bool {
	return a.client != nil && a.property != ""
}

// Demographics returns visitor demographics for the date range.
func (a *Adapter) Demographics(ctx context.Context, startDate, endDate string) *DemographicsSummary {
	if !a.configured() {
		return a.fallback.Demographics()
	}

	resp, err := a.client.RunReport(ctx, a.property, &ga.RunReportRequest{
		DateRanges: []ga.DateRange{{StartDate: startDate, EndDate: endDate}},
		Dimensions: dims("country", "city", "userAgeBracket", "userGender"),
		Metrics:    mets("activeUsers"),
		Limit:      100,
	})
	if err != nil {
		a.logger.Warn("demographics report failed", zap.Error(err))
		return a.fallback.Demographics()
	}

	rows := make([]demographicRow, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		rows = append(rows, demographicRow{
			Country:    r.Dim(0),
			City:       r.Dim(1),
			AgeBracket: r.Dim(2),
			Gender:     r.Dim(3),
			Users:      parseInt64(r.Met(0)),
		})
	}
	return aggregateDemographics(rows)
}

// TrafficSources returns channel-grouped session counts for the date range.
func (a *Adapter) TrafficSources(ctx context.Context, startDate, endDate string) *TrafficSourcesSummary {
	if !a.configured() {
		return a.fallback.TrafficSources()
	}

	resp, err := a.client.RunReport(ctx, a.property, &ga.RunReportRequest{
		DateRanges: []ga.DateRange{{StartDate: startDate, EndDate: endDate}},
		Dimensions: dims("sessionDefaultChannelGrouping"),
		Metrics:    mets("sessions"),
		Limit:      1000,
	})
	if err != nil {
		a.logger.Warn("traffic sources report failed", zap.Error(err))
		return a.fallback.TrafficSources()
	}

	rows := make([]channelRow, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		rows = append(rows, channelRow{
			Channel:  r.Dim(0),
			Sessions: parseInt64(r.Met(0)),
		})
	}
	return aggregateChannels(rows)
}

// engagementMetrics is the fixed metric order for the engagement report.
var engagementMetrics = []string{
	"screenPageViews",
	"sessions",
	"bounceRate",
	"engagedSessions",
	"engagementRate",
	"averageSessionDuration",
	"eventCount",
	"keyEvents",
	"sessionKeyEventRate",
}

// Engagement returns sitewide engagement metrics for the date range. An
// empty successful response is treated the same as a failure: the report
// has no dimensions and must produce exactly one aggregate row.
func (a *Adapter) Engagement(ctx context.Context, startDate, endDate string) *EngagementSummary {
	if !a.configured() {
		return a.fallback.Engagement()
	}

	resp, err := a.client.RunReport(ctx, a.property, &ga.RunReportRequest{
		DateRanges: []ga.DateRange{{StartDate: startDate, EndDate: endDate}},
		Metrics:    mets(engagementMetrics...),
	})
	if err != nil {
		a.logger.Warn("engagement report failed", zap.Error(err))
		return a.fallback.Engagement()
	}
	if len(resp.Rows) == 0 {
		a.logger.Warn("engagement report returned no rows",
			zap.String("start_date", startDate),
			zap.String("end_date", endDate),
		)
		return a.fallback.Engagement()
	}

	row := resp.Rows[0]
	return &EngagementSummary{
		PageViews:              parseInt64(row.Met(0)),
		Sessions:               parseInt64(row.Met(1)),
		BounceRate:             percent(row.Met(2)),
		EngagedSessions:        parseInt64(row.Met(3)),
		EngagementRate:         percent(row.Met(4)),
		AverageSessionDuration: parseFloat64(row.Met(5)),
		EventCount:             parseInt64(row.Met(6)),
		KeyEvents:              parseInt64(row.Met(7)),
		SessionKeyEventRate:    percent(row.Met(8)),
	}
}

// UserTypes returns the new-vs-returning user split for the date range.
func (a *Adapter) UserTypes(ctx context.Context, startDate, endDate string) *UserTypesSummary {
	if !a.configured() {
		return a.fallback.UserTypes()
	}

	resp, err := a.client.RunReport(ctx, a.property, &ga.RunReportRequest{
		DateRanges: []ga.DateRange{{StartDate: startDate, EndDate: endDate}},
		Dimensions: dims("newVsReturning"),
		Metrics:    mets("activeUsers"),
	})
	if err != nil {
		a.logger.Warn("user types report failed", zap.Error(err))
		return a.fallback.UserTypes()
	}

	rows := make([]userTypeRow, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		rows = append(rows, userTypeRow{
			Segment: r.Dim(0),
			Users:   parseInt64(r.Met(0)),
		})
	}
	return aggregateUserTypes(rows)
}

// ActiveUsers returns realtime active users with top countries and cities.
func (a *Adapter) ActiveUsers(ctx context.Context) *ActiveUsersSummary {
	if !a.configured() {
		return a.fallback.ActiveUsers()
	}

	resp, err := a.client.RunRealtimeReport(ctx, a.property, &ga.RunRealtimeReportRequest{
		Dimensions: dims("country", "city"),
		Metrics:    mets("activeUsers"),
		Limit:      100,
	})
	if err != nil {
		a.logger.Warn("active users report failed", zap.Error(err))
		return a.fallback.ActiveUsers()
	}

	rows := make([]locationRow, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		rows = append(rows, locationRow{
			Country: r.Dim(0),
			City:    r.Dim(1),
			Users:   parseInt64(r.Met(0)),
		})
	}
	return aggregateActiveUsers(rows)
}

// TopEvents returns the most frequent events, realtime first with a
// historical last-day fallback before the static placeholder.
func (a *Adapter) TopEvents(ctx context.Context, limit int) []EventCount {
	if limit <= 0 {
		limit = 10
	}
	if !a.configured() {
		return a.fallback.TopEvents(limit)
	}

	resp, err := a.client.RunRealtimeReport(ctx, a.property, &ga.RunRealtimeReportRequest{
		Dimensions: dims("eventName"),
		Metrics:    mets("eventCount"),
		Limit:      int64(limit),
	})
	if err != nil {
		a.logger.Warn("realtime top events failed, falling back to historical", zap.Error(err))
		resp, err = a.client.RunReport(ctx, a.property, &ga.RunReportRequest{
			DateRanges: []ga.DateRange{{StartDate: "1daysAgo", EndDate: "today"}},
			Dimensions: dims("eventName"),
			Metrics:    mets("eventCount"),
			OrderBys:   orderByMetricDesc("eventCount"),
			Limit:      int64(limit),
		})
		if err != nil {
			a.logger.Warn("historical top events failed", zap.Error(err))
			return a.fallback.TopEvents(limit)
		}
	}

	events := make([]EventCount, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		events = append(events, EventCount{
			Name:  r.Dim(0),
			Count: parseInt64(r.Met(0)),
		})
	}
	return capEvents(events, limit)
}

// TopPages returns the most viewed pages, realtime first with a historical
// last-day fallback before the static placeholder.
func (a *Adapter) TopPages(ctx context.Context, limit int) []PageCount {
	if limit <= 0 {
		limit = 10
	}
	if !a.configured() {
		return a.fallback.TopPages(limit)
	}

	resp, err := a.client.RunRealtimeReport(ctx, a.property, &ga.RunRealtimeReportRequest{
		Dimensions: dims("pagePath", "pageTitle"),
		Metrics:    mets("activeUsers"),
		Limit:      int64(limit),
	})
	if err != nil {
		a.logger.Warn("realtime top pages failed, falling back to historical", zap.Error(err))
		resp, err = a.client.RunReport(ctx, a.property, &ga.RunReportRequest{
			DateRanges: []ga.DateRange{{StartDate: "1daysAgo", EndDate: "today"}},
			Dimensions: dims("pagePath", "pageTitle"),
			Metrics:    mets("screenPageViews"),
			OrderBys:   orderByMetricDesc("screenPageViews"),
			Limit:      int64(limit),
		})
		if err != nil {
			a.logger.Warn("historical top pages failed", zap.Error(err))
			return a.fallback.TopPages(limit)
		}
	}

	pages := make([]PageCount, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		pages = append(pages, PageCount{
			Path:  r.Dim(0),
			Title: r.Dim(1),
			Views: parseInt64(r.Met(0)),
		})
	}
	return capPages(pages, limit)
}

// TopTrafficSources resolves the range label and returns source/medium
// pairs for realtime ranges, or reshaped channel totals for historical
// ranges (medium left empty in that path).
func (a *Adapter) TopTrafficSources(ctx context.Context, rangeLabel string, limit int) []TrafficSourceDetail {
	if limit <= 0 {
		limit = 10
	}
	if !a.configured() {
		return a.fallback.TopTrafficSources(limit)
	}

	reportRange := ResolveRange(rangeLabel)

	if reportRange.Realtime {
		resp, err := a.client.RunRealtimeReport(ctx, a.property, &ga.RunRealtimeReportRequest{
			Dimensions: dims("sessionSource", "sessionMedium"),
			Metrics:    mets("activeUsers"),
			Limit:      int64(limit),
		})
		if err == nil {
			details := make([]TrafficSourceDetail, 0, len(resp.Rows))
			for _, r := range resp.Rows {
				details = append(details, TrafficSourceDetail{
					Source: r.Dim(0),
					Medium: r.Dim(1),
					Users:  parseInt64(r.Met(0)),
				})
			}
			sort.SliceStable(details, func(i, j int) bool {
				return details[i].Users > details[j].Users
			})
			return capSources(details, limit)
		}
		a.logger.Warn("realtime traffic sources failed, delegating to channel report", zap.Error(err))
	}

	startDate, endDate := reportRange.StartDate, reportRange.EndDate
	if reportRange.Realtime {
		startDate, endDate = "1daysAgo", "today"
	}
	return reshapeChannels(a.TrafficSources(ctx, startDate, endDate), limit)
}

// Dashboard fetches the four historical reports served together on the
// admin dashboard, one request at a time.
func (a *Adapter) Dashboard(ctx context.Context, startDate, endDate string) *DashboardSummary {
	return &DashboardSummary{
		Demographics:   a.Demographics(ctx, startDate, endDate),
		TrafficSources: a.TrafficSources(ctx, startDate, endDate),
		Engagement:     a.Engagement(ctx, startDate, endDate),
		UserTypes:      a.UserTypes(ctx, startDate, endDate),
	}
}

// reshapeChannels flattens a channel summary into ordered source rows.
func reshapeChannels(summary *TrafficSourcesSummary, limit int) []TrafficSourceDetail {
	details := []TrafficSourceDetail{
		{Source: "direct", Users: summary.Direct},
		{Source: "organic", Users: summary.Organic},
		{Source: "social", Users: summary.Social},
		{Source: "paid", Users: summary.Paid},
		{Source: "referral", Users: summary.Referral},
	}
	sort.SliceStable(details, func(i, j int) bool {
		return details[i].Users > details[j].Users
	})
	return capSources(details, limit)
}

func dims(names ...string) []ga.Dimension {
	out := make([]ga.Dimension, len(names))
	for i, name := range names {
		out[i] = ga.Dimension{Name: name}
	}
	return out
}

func mets(names ...string) []ga.Metric {
	out := make([]ga.Metric, len(names))
	for i, name := range names {
		out[i] = ga.Metric{Name: name}
	}
	return out
}

func orderByMetricDesc(metric string) []ga.OrderBy {
	return []ga.OrderBy{{Metric: &ga.MetricOrderBy{MetricName: metric}, Desc: true}}
}

// parseInt64 parses a metric value, defaulting to 0 on failure. Values
// arrive as decimal strings; fractional values are truncated.
func parseInt64(s string) int64 {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

// parseFloat64 parses a metric value, defaulting to 0 on failure.
func parseFloat64(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// percent converts a fractional rate to a rounded percentage.
func percent(s string) float64 {
	return math.Round(parseFloat64(s) * 100)
}
