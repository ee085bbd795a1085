package ga

// Request and response shapes for the Analytics Data API v1beta
// (properties.runReport / properties.runRealtimeReport).

// DateRange bounds a historical report. Values are either calendar dates
// (YYYY-MM-DD) or relative tokens such as "7daysAgo" and "today".
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Dimension names a report dimension.
type Dimension struct {
	Name string `json:"name"`
}

// Metric names a report metric.
type Metric struct {
	Name string `json:"name"`
}

// MetricOrderBy sorts report rows by a metric value.
type MetricOrderBy struct {
	MetricName string `json:"metricName"`
}

// OrderBy specifies report row ordering.
type OrderBy struct {
	Metric *MetricOrderBy `json:"metric,omitempty"`
	Desc   bool           `json:"desc,omitempty"`
}

// RunReportRequest is the body for a historical report query.
type RunReportRequest struct {
	DateRanges []DateRange `json:"dateRanges"`
	Dimensions []Dimension `json:"dimensions,omitempty"`
	Metrics    []Metric    `json:"metrics"`
	OrderBys   []OrderBy   `json:"orderBys,omitempty"`
	Limit      int64       `json:"limit,omitempty,string"`
}

// RunRealtimeReportRequest is the body for a realtime report query
// covering approximately the last 30 minutes of activity.
type RunRealtimeReportRequest struct {
	Dimensions []Dimension `json:"dimensions,omitempty"`
	Metrics    []Metric    `json:"metrics"`
	OrderBys   []OrderBy   `json:"orderBys,omitempty"`
	Limit      int64       `json:"limit,omitempty,string"`
}

// Header describes a dimension or metric column in a report response.
type Header struct {
	Name string `json:"name"`
}

// Value is a single dimension or metric cell, always string-typed on the wire.
type Value struct {
	Value string `json:"value"`
}

// Row is one report row with ordered dimension and metric values.
type Row struct {
	DimensionValues []Value `json:"dimensionValues"`
	MetricValues    []Value `json:"metricValues"`
}

// ReportResponse is the common response shape for both report variants.
type ReportResponse struct {
	DimensionHeaders []Header `json:"dimensionHeaders"`
	MetricHeaders    []Header `json:"metricHeaders"`
	Rows             []Row    `json:"rows"`
	RowCount         int      `json:"rowCount"`
}

// Dim returns the i-th dimension value of the row, or "" when absent.
func (r Row) Dim(i int) string {
	if i < 0 || i >= len(r.DimensionValues) {
		return ""
	}
	return r.DimensionValues[i].Value
}

// Met returns the i-th metric value of the row, or "" when absent.
func (r Row) Met(i int) string {
	if i < 0 || i >= len(r.MetricValues) {
		return ""
	}
	return r.MetricValues[i].Value
}
