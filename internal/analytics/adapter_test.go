package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niaga-platform/service-analytics/internal/ga"
)

// fakeReportClient is a spy ReportClient with configurable responses.
type fakeReportClient struct {
	reportCalls   int
	realtimeCalls int

	reportResp *ga.ReportResponse
	reportErr  error

	realtimeResp *ga.ReportResponse
	realtimeErr  error

	lastReportReq   *ga.RunReportRequest
	lastRealtimeReq *ga.RunRealtimeReportRequest
}

func (f *fakeReportClient) RunReport(_ context.Context, _ string, req *ga.RunReportRequest) (*ga.ReportResponse, error) {
	f.reportCalls++
	f.lastReportReq = req
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	return f.reportResp, nil
}

func (f *fakeReportClient) RunRealtimeReport(_ context.Context, _ string, req *ga.RunRealtimeReportRequest) (*ga.ReportResponse, error) {
	f.realtimeCalls++
	f.lastRealtimeReq = req
	if f.realtimeErr != nil {
		return nil, f.realtimeErr
	}
	return f.realtimeResp, nil
}

func newTestAdapter(client ReportClient) *Adapter {
	return NewAdapter(&AdapterConfig{
		Client:     client,
		PropertyID: "123456",
	})
}

func row(dims []string, mets []string) ga.Row {
	r := ga.Row{}
	for _, d := range dims {
		r.DimensionValues = append(r.DimensionValues, ga.Value{Value: d})
	}
	for _, m := range mets {
		r.MetricValues = append(r.MetricValues, ga.Value{Value: m})
	}
	return r
}

func TestAdapterUnconfiguredIssuesNoRequests(t *testing.T) {
	fake := &fakeReportClient{}
	ctx := context.Background()

	// Nil client and empty property both count as unconfigured.
	for _, adapter := range []*Adapter{
		NewAdapter(&AdapterConfig{}),
		NewAdapter(&AdapterConfig{Client: fake}),
	} {
		demo := adapter.Demographics(ctx, "2026-01-01", "2026-01-31")
		assert.Equal(t, int64(Sentinel), demo.AgeGroups["25-34"])

		traffic := adapter.TrafficSources(ctx, "2026-01-01", "2026-01-31")
		assert.Equal(t, int64(Sentinel), traffic.Direct)

		engagement := adapter.Engagement(ctx, "2026-01-01", "2026-01-31")
		assert.True(t, engagement.IsMock)
		assert.Equal(t, int64(Sentinel), engagement.Sessions)

		userTypes := adapter.UserTypes(ctx, "2026-01-01", "2026-01-31")
		assert.Equal(t, int64(Sentinel), userTypes.NewUsers)

		active := adapter.ActiveUsers(ctx)
		assert.Equal(t, int64(Sentinel), active.TotalActiveUsers)

		events := adapter.TopEvents(ctx, 5)
		require.NotEmpty(t, events)
		assert.Equal(t, int64(Sentinel), events[0].Count)

		pages := adapter.TopPages(ctx, 5)
		require.NotEmpty(t, pages)
		assert.Equal(t, int64(Sentinel), pages[0].Views)

		sources := adapter.TopTrafficSources(ctx, "realtime", 5)
		require.NotEmpty(t, sources)
		assert.Equal(t, int64(Sentinel), sources[0].Users)
	}

	assert.Zero(t, fake.reportCalls, "no historical requests may be issued when unconfigured")
	assert.Zero(t, fake.realtimeCalls, "no realtime requests may be issued when unconfigured")
}

func TestDemographicsEndToEnd(t *testing.T) {
	fake := &fakeReportClient{
		reportResp: &ga.ReportResponse{
			Rows: []ga.Row{
				row([]string{"India", "Mumbai", "25-34", "female"}, []string{"42"}),
			},
		},
	}
	adapter := newTestAdapter(fake)

	summary := adapter.Demographics(context.Background(), "2026-01-01", "2026-01-31")

	assert.Equal(t, int64(42), summary.AgeGroups["25-34"])
	assert.Equal(t, int64(42), summary.GenderDistribution["Female"])
	require.Len(t, summary.Cities, 1)
	assert.Equal(t, CityUsers{City: "Mumbai", Country: "India", Users: 42}, summary.Cities[0])

	require.NotNil(t, fake.lastReportReq)
	assert.Equal(t, int64(100), fake.lastReportReq.Limit)
	require.Len(t, fake.lastReportReq.Dimensions, 4)
	assert.Equal(t, "country", fake.lastReportReq.Dimensions[0].Name)
	assert.Equal(t, "userGender", fake.lastReportReq.Dimensions[3].Name)
}

func TestDemographicsFailureFallsBack(t *testing.T) {
	fake := &fakeReportClient{reportErr: errors.New("boom")}
	adapter := newTestAdapter(fake)

	summary := adapter.Demographics(context.Background(), "2026-01-01", "2026-01-31")

	assert.Equal(t, int64(Sentinel), summary.AgeGroups["25-34"])
	assert.Equal(t, 1, fake.reportCalls)
}

func TestEngagementEmptyRowsFallsBack(t *testing.T) {
	fake := &fakeReportClient{reportResp: &ga.ReportResponse{Rows: nil}}
	adapter := newTestAdapter(fake)

	summary := adapter.Engagement(context.Background(), "2026-01-01", "2026-01-31")

	assert.True(t, summary.IsMock)
	assert.Equal(t, int64(Sentinel), summary.PageViews)
	assert.Equal(t, float64(Sentinel), summary.BounceRate)
	assert.Equal(t, 1, fake.reportCalls, "the request was attempted before falling back")
}

func TestEngagementParsesMetricsPositionally(t *testing.T) {
	fake := &fakeReportClient{
		reportResp: &ga.ReportResponse{
			Rows: []ga.Row{
				row(nil, []string{"1200", "300", "0.426", "210", "0.7", "95.5", "4800", "36", "0.12"}),
			},
		},
	}
	adapter := newTestAdapter(fake)

	summary := adapter.Engagement(context.Background(), "2026-01-01", "2026-01-31")

	assert.False(t, summary.IsMock)
	assert.Equal(t, int64(1200), summary.PageViews)
	assert.Equal(t, int64(300), summary.Sessions)
	assert.Equal(t, float64(43), summary.BounceRate)
	assert.Equal(t, int64(210), summary.EngagedSessions)
	assert.Equal(t, float64(70), summary.EngagementRate)
	assert.Equal(t, 95.5, summary.AverageSessionDuration)
	assert.Equal(t, int64(4800), summary.EventCount)
	assert.Equal(t, int64(36), summary.KeyEvents)
	assert.Equal(t, float64(12), summary.SessionKeyEventRate)
}

func TestTopEventsRealtimeSuccess(t *testing.T) {
	fake := &fakeReportClient{
		realtimeResp: &ga.ReportResponse{
			Rows: []ga.Row{
				row([]string{"page_view"}, []string{"500"}),
				row([]string{"purchase"}, []string{"20"}),
			},
		},
	}
	adapter := newTestAdapter(fake)

	events := adapter.TopEvents(context.Background(), 10)

	require.Len(t, events, 2)
	assert.Equal(t, EventCount{Name: "page_view", Count: 500}, events[0])
	assert.Equal(t, 1, fake.realtimeCalls)
	assert.Zero(t, fake.reportCalls, "no historical request when realtime succeeds")
}

func TestTopEventsFallsBackToHistorical(t *testing.T) {
	fake := &fakeReportClient{
		realtimeErr: errors.New("realtime unavailable"),
		reportResp: &ga.ReportResponse{
			Rows: []ga.Row{
				row([]string{"session_start"}, []string{"77"}),
			},
		},
	}
	adapter := newTestAdapter(fake)

	events := adapter.TopEvents(context.Background(), 10)

	require.Len(t, events, 1)
	assert.Equal(t, EventCount{Name: "session_start", Count: 77}, events[0])
	assert.Equal(t, 1, fake.realtimeCalls)
	assert.Equal(t, 1, fake.reportCalls)

	require.NotNil(t, fake.lastReportReq)
	require.Len(t, fake.lastReportReq.DateRanges, 1)
	assert.Equal(t, "1daysAgo", fake.lastReportReq.DateRanges[0].StartDate)
	require.Len(t, fake.lastReportReq.OrderBys, 1)
	assert.True(t, fake.lastReportReq.OrderBys[0].Desc)
}

func TestTopEventsBothTiersFailReturnsStatic(t *testing.T) {
	fake := &fakeReportClient{
		realtimeErr: errors.New("realtime unavailable"),
		reportErr:   errors.New("historical unavailable"),
	}
	adapter := newTestAdapter(fake)

	events := adapter.TopEvents(context.Background(), 3)

	require.Len(t, events, 3)
	for _, event := range events {
		assert.Equal(t, int64(Sentinel), event.Count)
	}
}

func TestTopPagesBothTiersFailReturnsStatic(t *testing.T) {
	fake := &fakeReportClient{
		realtimeErr: errors.New("realtime unavailable"),
		reportErr:   errors.New("historical unavailable"),
	}
	adapter := newTestAdapter(fake)

	pages := adapter.TopPages(context.Background(), 2)

	require.Len(t, pages, 2)
	assert.Equal(t, 1, fake.realtimeCalls)
	assert.Equal(t, 1, fake.reportCalls)
	for _, page := range pages {
		assert.Equal(t, int64(Sentinel), page.Views)
	}
}

func TestActiveUsersTruncation(t *testing.T) {
	resp := &ga.ReportResponse{}
	for i := 0; i < 15; i++ {
		resp.Rows = append(resp.Rows, row(
			[]string{string(rune('A'+i)) + "land", "City" + string(rune('A'+i))},
			[]string{"3"},
		))
	}
	fake := &fakeReportClient{realtimeResp: resp}
	adapter := newTestAdapter(fake)

	summary := adapter.ActiveUsers(context.Background())

	assert.Equal(t, int64(45), summary.TotalActiveUsers)
	assert.Len(t, summary.TopCountries, 10)
	assert.Len(t, summary.TopCities, 10)
}

func TestTopTrafficSourcesRealtime(t *testing.T) {
	fake := &fakeReportClient{
		realtimeResp: &ga.ReportResponse{
			Rows: []ga.Row{
				row([]string{"google", "organic"}, []string{"12"}),
				row([]string{"direct", "(none)"}, []string{"40"}),
			},
		},
	}
	adapter := newTestAdapter(fake)

	sources := adapter.TopTrafficSources(context.Background(), "realtime", 10)

	require.Len(t, sources, 2)
	assert.Equal(t, TrafficSourceDetail{Source: "direct", Medium: "(none)", Users: 40}, sources[0])
	assert.Equal(t, 1, fake.realtimeCalls)
	assert.Zero(t, fake.reportCalls)
}

func TestTopTrafficSourcesHistoricalDelegates(t *testing.T) {
	fake := &fakeReportClient{
		reportResp: &ga.ReportResponse{
			Rows: []ga.Row{
				row([]string{"Direct"}, []string{"100"}),
				row([]string{"Organic Search"}, []string{"60"}),
			},
		},
	}
	adapter := newTestAdapter(fake)

	sources := adapter.TopTrafficSources(context.Background(), "last 7 days", 10)

	assert.Zero(t, fake.realtimeCalls, "historical label must not hit the realtime endpoint")
	assert.Equal(t, 1, fake.reportCalls)

	require.NotNil(t, fake.lastReportReq)
	require.Len(t, fake.lastReportReq.DateRanges, 1)
	assert.Equal(t, "7daysAgo", fake.lastReportReq.DateRanges[0].StartDate)
	require.Len(t, fake.lastReportReq.Dimensions, 1)
	assert.Equal(t, "sessionDefaultChannelGrouping", fake.lastReportReq.Dimensions[0].Name)

	require.Len(t, sources, 5)
	assert.Equal(t, TrafficSourceDetail{Source: "direct", Users: 100}, sources[0])
	assert.Equal(t, TrafficSourceDetail{Source: "organic", Users: 60}, sources[1])
	assert.Empty(t, sources[0].Medium, "medium is left empty in the reshaping path")
}

func TestTopTrafficSourcesRealtimeFailureDelegates(t *testing.T) {
	fake := &fakeReportClient{
		realtimeErr: errors.New("realtime unavailable"),
		reportResp: &ga.ReportResponse{
			Rows: []ga.Row{
				row([]string{"Referral"}, []string{"9"}),
			},
		},
	}
	adapter := newTestAdapter(fake)

	sources := adapter.TopTrafficSources(context.Background(), "realtime", 3)

	assert.Equal(t, 1, fake.realtimeCalls)
	assert.Equal(t, 1, fake.reportCalls)
	require.Len(t, sources, 3)
	assert.Equal(t, TrafficSourceDetail{Source: "referral", Users: 9}, sources[0])
}

func TestDashboardCombinesReports(t *testing.T) {
	fake := &fakeReportClient{
		reportResp: &ga.ReportResponse{
			Rows: []ga.Row{
				row([]string{"Malaysia", "Kuala Lumpur", "25-34", "male"}, []string{"10"}),
			},
		},
	}
	adapter := newTestAdapter(fake)

	summary := adapter.Dashboard(context.Background(), "2026-01-01", "2026-01-31")

	require.NotNil(t, summary.Demographics)
	require.NotNil(t, summary.TrafficSources)
	require.NotNil(t, summary.Engagement)
	require.NotNil(t, summary.UserTypes)
	assert.Equal(t, 4, fake.reportCalls, "one request per historical report, issued sequentially")
}
