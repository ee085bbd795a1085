package analytics

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ResolveRange maps a human range label to a ReportRange using the current
// local time. Unrecognized labels resolve to realtime rather than erroring.
func ResolveRange(label string) ReportRange {
	return ResolveRangeAt(label, time.Now())
}

// ResolveRangeAt is the deterministic form of ResolveRange for a fixed
// "today". Pure: no I/O, same inputs always yield the same output.
func ResolveRangeAt(label string, now time.Time) ReportRange {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "realtime", "realtime (30m)", "last 30 minutes":
		return ReportRange{Realtime: true}

	case "today":
		d := now.Format(dateLayout)
		return ReportRange{StartDate: d, EndDate: d}

	case "yesterday":
		d := now.AddDate(0, 0, -1).Format(dateLayout)
		return ReportRange{StartDate: d, EndDate: d}

	case "this week":
		monday := mondayOf(now)
		return ReportRange{
			StartDate: monday.Format(dateLayout),
			EndDate:   now.Format(dateLayout),
		}

	case "last week":
		monday := mondayOf(now)
		return ReportRange{
			StartDate: monday.AddDate(0, 0, -7).Format(dateLayout),
			EndDate:   monday.AddDate(0, 0, -1).Format(dateLayout),
		}

	case "last 7 days":
		return ReportRange{StartDate: "7daysAgo", EndDate: "today"}
	case "last 14 days":
		return ReportRange{StartDate: "14daysAgo", EndDate: "today"}
	case "last 28 days":
		return ReportRange{StartDate: "28daysAgo", EndDate: "today"}
	case "last 30 days":
		return ReportRange{StartDate: "30daysAgo", EndDate: "today"}
	case "last 60 days":
		return ReportRange{StartDate: "60daysAgo", EndDate: "today"}

	default:
		return ReportRange{Realtime: true}
	}
}

// mondayOf returns the most recent Monday on or before the given day.
func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
