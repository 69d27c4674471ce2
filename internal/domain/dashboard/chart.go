package dashboard

import (
	"strings"
	"time"

	"github.com/parcelco/backoffice/internal/domain/shared"
)

// Granularity selects the chart bucket size
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// Bucket counts per granularity
const (
	DailyBuckets   = 10
	WeeklyBuckets  = 8
	MonthlyBuckets = 6
)

// ParseGranularity parses a granularity; empty means daily
func ParseGranularity(v string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(v)))
	switch g {
	case "":
		return GranularityDaily, nil
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return g, nil
	}
	return "", shared.NewDomainError("INVALID_INPUT", "Granularity must be daily, weekly or monthly")
}

// BucketCount returns the fixed number of buckets for g
func (g Granularity) BucketCount() int {
	switch g {
	case GranularityWeekly:
		return WeeklyBuckets
	case GranularityMonthly:
		return MonthlyBuckets
	}
	return DailyBuckets
}

// Window is a half-open time interval [Start, End)
type Window struct {
	Label string
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ChartPoint is one bucket of chart data
type ChartPoint struct {
	Label     string    `json:"label"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Shipments int64     `json:"shipments"`
	Delivered int64     `json:"delivered"`
}

// Windows returns the buckets for g ordered oldest first. The last bucket
// contains now. Daily buckets are calendar days, weekly buckets are
// consecutive 7-day spans ending with today, monthly buckets are calendar
// months. Day arithmetic happens in now's location.
func Windows(g Granularity, now time.Time) []Window {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	n := g.BucketCount()
	windows := make([]Window, 0, n)

	switch g {
	case GranularityMonthly:
		month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		for i := n - 1; i >= 0; i-- {
			start := month.AddDate(0, -i, 0)
			windows = append(windows, Window{
				Label: start.Format("Jan 2006"),
				Start: start,
				End:   start.AddDate(0, 1, 0),
			})
		}
	case GranularityWeekly:
		end := today.AddDate(0, 0, 1)
		for i := n - 1; i >= 0; i-- {
			wEnd := end.AddDate(0, 0, -7*i)
			start := wEnd.AddDate(0, 0, -7)
			windows = append(windows, Window{
				Label: start.Format("Jan 02"),
				Start: start,
				End:   wEnd,
			})
		}
	default:
		for i := n - 1; i >= 0; i-- {
			start := today.AddDate(0, 0, -i)
			windows = append(windows, Window{
				Label: start.Format("Jan 02"),
				Start: start,
				End:   start.AddDate(0, 0, 1),
			})
		}
	}
	return windows
}
