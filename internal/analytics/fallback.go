package analytics

// Sentinel is the placeholder value used for every numeric field in
// fallback data, distinguishing "no data available" from a measured zero.
const Sentinel = -1

// placeholderCities is a fixed illustrative set of real-world cities used
// to seed fallback lists. User counts are always the sentinel, never
// measurements.
var placeholderCities = []CityUsers{
	{City: "Kuala Lumpur", Country: "Malaysia", Users: Sentinel},
	{City: "Singapore", Country: "Singapore", Users: Sentinel},
	{City: "Jakarta", Country: "Indonesia", Users: Sentinel},
	{City: "Bangkok", Country: "Thailand", Users: Sentinel},
	{City: "Mumbai", Country: "India", Users: Sentinel},
}

var placeholderEvents = []string{"page_view", "session_start", "first_visit", "add_to_cart", "purchase"}

var placeholderPages = []PageCount{
	{Path: "/", Title: "Home", Views: Sentinel},
	{Path: "/products", Title: "Products", Views: Sentinel},
	{Path: "/cart", Title: "Cart", Views: Sentinel},
	{Path: "/checkout", Title: "Checkout", Views: Sentinel},
	{Path: "/account", Title: "Account", Views: Sentinel},
}

// FallbackProvider returns statically-shaped placeholder summaries for
// every report type. A fresh value is built per call so callers can never
// mutate shared state.
type FallbackProvider struct{}

// NewFallbackProvider creates a fallback provider.
func NewFallbackProvider() *FallbackProvider {
	return &FallbackProvider{}
}

// Demographics returns placeholder demographics.
func (f *FallbackProvider) Demographics() *DemographicsSummary {
	ageGroups := make(map[string]int64, len(ageBrackets))
	for _, bracket := range ageBrackets {
		ageGroups[bracket] = Sentinel
	}
	cities := make([]CityUsers, len(placeholderCities))
	copy(cities, placeholderCities)
	return &DemographicsSummary{
		AgeGroups: ageGroups,
		GenderDistribution: map[string]int64{
			"Male":   Sentinel,
			"Female": Sentinel,
			"Other":  Sentinel,
		},
		Cities: cities,
	}
}

// TrafficSources returns placeholder channel counts.
func (f *FallbackProvider) TrafficSources() *TrafficSourcesSummary {
	return &TrafficSourcesSummary{
		Direct:   Sentinel,
		Organic:  Sentinel,
		Social:   Sentinel,
		Paid:     Sentinel,
		Referral: Sentinel,
	}
}

// Engagement returns placeholder engagement metrics flagged as mock.
func (f *FallbackProvider) Engagement() *EngagementSummary {
	return &EngagementSummary{
		PageViews:              Sentinel,
		Sessions:               Sentinel,
		BounceRate:             Sentinel,
		EngagedSessions:        Sentinel,
		EngagementRate:         Sentinel,
		AverageSessionDuration: Sentinel,
		EventCount:             Sentinel,
		KeyEvents:              Sentinel,
		SessionKeyEventRate:    Sentinel,
		IsMock:                 true,
	}
}

// UserTypes returns placeholder user type counts.
func (f *FallbackProvider) UserTypes() *UserTypesSummary {
	return &UserTypesSummary{
		NewUsers:       Sentinel,
		ReturningUsers: Sentinel,
	}
}

// ActiveUsers returns placeholder realtime counts.
func (f *FallbackProvider) ActiveUsers() *ActiveUsersSummary {
	summary := &ActiveUsersSummary{TotalActiveUsers: Sentinel}
	seen := make(map[string]bool)
	for _, c := range placeholderCities {
		if !seen[c.Country] {
			seen[c.Country] = true
			summary.TopCountries = append(summary.TopCountries, CountryUsers{Country: c.Country, Users: Sentinel})
		}
		summary.TopCities = append(summary.TopCities, CityCount{City: c.City, Users: Sentinel})
	}
	return summary
}

// TopEvents returns placeholder events, capped at limit.
func (f *FallbackProvider) TopEvents(limit int) []EventCount {
	events := make([]EventCount, 0, len(placeholderEvents))
	for _, name := range placeholderEvents {
		events = append(events, EventCount{Name: name, Count: Sentinel})
	}
	return capEvents(events, limit)
}

// TopPages returns placeholder pages, capped at limit.
func (f *FallbackProvider) TopPages(limit int) []PageCount {
	pages := make([]PageCount, len(placeholderPages))
	copy(pages, placeholderPages)
	return capPages(pages, limit)
}

// TopTrafficSources returns placeholder traffic sources, capped at limit.
func (f *FallbackProvider) TopTrafficSources(limit int) []TrafficSourceDetail {
	details := []TrafficSourceDetail{
		{Source: "direct", Medium: "(none)", Users: Sentinel},
		{Source: "google", Medium: "organic", Users: Sentinel},
		{Source: "facebook", Medium: "social", Users: Sentinel},
		{Source: "google", Medium: "cpc", Users: Sentinel},
		{Source: "partner", Medium: "referral", Users: Sentinel},
	}
	return capSources(details, limit)
}

func capEvents(events []EventCount, limit int) []EventCount {
	if limit > 0 && len(events) > limit {
		return events[:limit]
	}
	return events
}

func capPages(pages []PageCount, limit int) []PageCount {
	if limit > 0 && len(pages) > limit {
		return pages[:limit]
	}
	return pages
}

func capSources(details []TrafficSourceDetail, limit int) []TrafficSourceDetail {
	if limit > 0 && len(details) > limit {
		return details[:limit]
	}
	return details
}
