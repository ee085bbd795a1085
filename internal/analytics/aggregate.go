package analytics

import (
	"sort"
	"strings"
)

const notSet = "(not set)"

// ageBrackets is the fixed set of age group labels in display order.
var ageBrackets = []string{"18-24", "25-34", "35-44", "45-54", "55+"}

// channelLabels maps upstream channel grouping labels to summary buckets,
// checked in order by substring match.
var channelLabels = []string{"Direct", "Organic", "Social", "Paid", "Referral"}

// aggregateDemographics folds demographic rows into age, gender, and city
// summaries. Brackets and genders match by substring; rows matching no
// bucket contribute nothing. City rows are keyed "{city}-{country}", which
// is ambiguous for hyphenated names (an accepted limitation).
func aggregateDemographics(rows []demographicRow) *DemographicsSummary {
	summary := &DemographicsSummary{
		AgeGroups:          make(map[string]int64, len(ageBrackets)),
		GenderDistribution: map[string]int64{"Male": 0, "Female": 0, "Other": 0},
	}
	for _, bracket := range ageBrackets {
		summary.AgeGroups[bracket] = 0
	}

	cityUsers := make(map[string]int64)

	for _, row := range rows {
		if row.AgeBracket != notSet {
			for _, bracket := range ageBrackets {
				if strings.Contains(row.AgeBracket, bracket) {
					summary.AgeGroups[bracket] += row.Users
					break
				}
			}
		}

		gender := strings.ToLower(row.Gender)
		switch {
		case strings.Contains(gender, "female"):
			summary.GenderDistribution["Female"] += row.Users
		case strings.Contains(gender, "male"):
			summary.GenderDistribution["Male"] += row.Users
		default:
			summary.GenderDistribution["Other"] += row.Users
		}

		key := row.City + "-" + row.Country
		cityUsers[key] += row.Users
	}

	cities := make([]CityUsers, 0, len(cityUsers))
	for key, users := range cityUsers {
		parts := strings.SplitN(key, "-", 2)
		city, country := parts[0], ""
		if len(parts) == 2 {
			country = parts[1]
		}
		cities = append(cities, CityUsers{City: city, Country: country, Users: users})
	}
	sort.Slice(cities, func(i, j int) bool {
		if cities[i].Users != cities[j].Users {
			return cities[i].Users > cities[j].Users
		}
		return cities[i].City < cities[j].City
	})
	if len(cities) > 50 {
		cities = cities[:50]
	}
	summary.Cities = cities

	return summary
}

// aggregateChannels folds channel grouping rows into the five fixed
// buckets. Channels matching none of the labels are dropped, not defaulted
// into a catch-all.
func aggregateChannels(rows []channelRow) *TrafficSourcesSummary {
	summary := &TrafficSourcesSummary{}
	for _, row := range rows {
		switch {
		case strings.Contains(row.Channel, "Direct"):
			summary.Direct += row.Sessions
		case strings.Contains(row.Channel, "Organic"):
			summary.Organic += row.Sessions
		case strings.Contains(row.Channel, "Social"):
			summary.Social += row.Sessions
		case strings.Contains(row.Channel, "Paid"):
			summary.Paid += row.Sessions
		case strings.Contains(row.Channel, "Referral"):
			summary.Referral += row.Sessions
		}
	}
	return summary
}

// aggregateUserTypes sums active users per newVsReturning segment. Any
// other segment value is dropped.
func aggregateUserTypes(rows []userTypeRow) *UserTypesSummary {
	summary := &UserTypesSummary{}
	for _, row := range rows {
		switch strings.ToLower(row.Segment) {
		case "new":
			summary.NewUsers += row.Users
		case "returning":
			summary.ReturningUsers += row.Users
		}
	}
	return summary
}

// aggregateActiveUsers sums the realtime total and accumulates per-country
// and per-city counts, excluding "(not set)", each truncated to the top 10.
func aggregateActiveUsers(rows []locationRow) *ActiveUsersSummary {
	summary := &ActiveUsersSummary{}

	countryUsers := make(map[string]int64)
	cityUsers := make(map[string]int64)

	for _, row := range rows {
		summary.TotalActiveUsers += row.Users
		if row.Country != "" && row.Country != notSet {
			countryUsers[row.Country] += row.Users
		}
		if row.City != "" && row.City != notSet {
			cityUsers[row.City] += row.Users
		}
	}

	summary.TopCountries = make([]CountryUsers, 0, len(countryUsers))
	for country, users := range countryUsers {
		summary.TopCountries = append(summary.TopCountries, CountryUsers{Country: country, Users: users})
	}
	sort.Slice(summary.TopCountries, func(i, j int) bool {
		if summary.TopCountries[i].Users != summary.TopCountries[j].Users {
			return summary.TopCountries[i].Users > summary.TopCountries[j].Users
		}
		return summary.TopCountries[i].Country < summary.TopCountries[j].Country
	})
	if len(summary.TopCountries) > 10 {
		summary.TopCountries = summary.TopCountries[:10]
	}

	summary.TopCities = make([]CityCount, 0, len(cityUsers))
	for city, users := range cityUsers {
		summary.TopCities = append(summary.TopCities, CityCount{City: city, Users: users})
	}
	sort.Slice(summary.TopCities, func(i, j int) bool {
		if summary.TopCities[i].Users != summary.TopCities[j].Users {
			return summary.TopCities[i].Users > summary.TopCities[j].Users
		}
		return summary.TopCities[i].City < summary.TopCities[j].City
	})
	if len(summary.TopCities) > 10 {
		summary.TopCities = summary.TopCities[:10]
	}

	return summary
}
