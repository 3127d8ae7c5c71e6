package util

import "time"

// Normalize truncates t to midnight UTC. Both the simulation calendar and
// price-table keys go through Normalize so that date lookups always align,
// regardless of the timestamp convention of the upstream data feed.
func Normalize(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BusinessDays returns every Monday-Friday day in [start, end] inclusive,
// normalized to midnight UTC, in chronological order. No market holiday
// calendar is applied; days the market was closed simply have no bars and
// are skipped downstream.
func BusinessDays(start, end time.Time) []time.Time {
	start = Normalize(start)
	end = Normalize(end)

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		default:
			days = append(days, d)
		}
	}
	return days
}
