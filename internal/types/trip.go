package types

import "time"

// TripRef is the caller-supplied view of a saved trip.
type TripRef struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Destination string     `json:"destination"`
	StartDate   string     `json:"startDate,omitempty"`
	EndDate     string     `json:"endDate,omitempty"`
	Budget      string     `json:"budget,omitempty"`
	Travelers   []Traveler `json:"travelers,omitempty"`
}

type Traveler struct {
	Name string `json:"name"`
}

// CalendarEvent is a saved event shown by the calendar handlers.
type CalendarEvent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"startTime"`
	Location  string    `json:"location,omitempty"`
}

// DateRange selects 1-based trip days, inclusive on both ends.
type DateRange struct {
	StartDay int `json:"startDay"`
	EndDay   int `json:"endDay"`
}

const DateLayout = "2006-01-02"

// Start parses StartDate, accepting a plain date or RFC3339.
func (t TripRef) Start() (time.Time, bool) {
	return parseTripDate(t.StartDate)
}

func (t TripRef) End() (time.Time, bool) {
	return parseTripDate(t.EndDate)
}

// TotalDays counts calendar days between start and end, both inclusive. Zero when dates are unknown.
func (t TripRef) TotalDays() int {
	start, ok := t.Start()
	if !ok {
		return 0
	}
	end, ok := t.End()
	if !ok || end.Before(start) {
		return 1
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func parseTripDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d, true
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, day := d.Date()
		return time.Date(y, m, day, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
