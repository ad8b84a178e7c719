package itinerary

import (
	"time"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	DefaultMaxTripDays         = 8
	DefaultMaxActivitiesPerDay = 8
	maxTripDaysLimit           = 30
)

// Window is the span of trip days a single generation covers.
type Window struct {
	Start     time.Time
	End       time.Time
	Days      int
	TripDays  int
	FromRange bool
	Truncated bool
	Range     *types.DateRange
}

func (w Window) Partial() bool {
	return w.FromRange || w.Truncated
}

// PlanningWindow picks the days to plan. Trips longer than maxDays honour an
// explicit day range, or are cut down to their first maxDays days.
func PlanningWindow(trip types.TripRef, dateRange *types.DateRange, maxDays int, now time.Time) Window {
	start, total := tripSpan(trip, now)
	w := Window{Start: start, End: start.AddDate(0, 0, total-1), Days: total, TripDays: total}
	if total <= maxDays {
		return w
	}

	if r := clampRange(dateRange, total); r != nil {
		w.Start = start.AddDate(0, 0, r.StartDay-1)
		w.End = start.AddDate(0, 0, r.EndDay-1)
		w.Days = r.EndDay - r.StartDay + 1
		w.FromRange = true
		w.Range = r
		return w
	}

	w.Days = maxDays
	w.End = start.AddDate(0, 0, maxDays-1)
	w.Truncated = true
	return w
}

func clampRange(r *types.DateRange, total int) *types.DateRange {
	if r == nil {
		return nil
	}
	out := *r
	if out.StartDay < 1 {
		out.StartDay = 1
	}
	if out.EndDay > total {
		out.EndDay = total
	}
	if out.EndDay < out.StartDay {
		return nil
	}
	return &out
}

// tripSpan returns the first day and length of a trip. Trips without dates start today and last one day.
func tripSpan(trip types.TripRef, now time.Time) (time.Time, int) {
	start, ok := trip.Start()
	if !ok {
		y, m, d := now.Date()
		start = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	total := trip.TotalDays()
	if total < 1 {
		total = 1
	}
	return start, total
}
