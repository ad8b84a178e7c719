package types

import (
	"strings"
	"time"
)

// ActivityType is the closed set of recommendation categories.
type ActivityType string

const (
	ActivityRestaurant    ActivityType = "restaurant"
	ActivityAttraction    ActivityType = "attraction"
	ActivityActivity      ActivityType = "activity"
	ActivityShopping      ActivityType = "shopping"
	ActivityEntertainment ActivityType = "entertainment"
	ActivityCultural      ActivityType = "cultural"
	ActivityOutdoor       ActivityType = "outdoor"
	ActivityOther         ActivityType = "other"
)

var activityTypes = []ActivityType{
	ActivityRestaurant, ActivityAttraction, ActivityActivity, ActivityShopping,
	ActivityEntertainment, ActivityCultural, ActivityOutdoor, ActivityOther,
}

// AllActivityTypes returns the enum in schema order.
func AllActivityTypes() []ActivityType {
	out := make([]ActivityType, len(activityTypes))
	copy(out, activityTypes)
	return out
}

// ParseActivityType maps a raw AI value into the enum; anything unknown becomes other.
func ParseActivityType(raw string) ActivityType {
	v := ActivityType(strings.ToLower(strings.TrimSpace(raw)))
	for _, t := range activityTypes {
		if t == v {
			return t
		}
	}
	return ActivityOther
}

type RecommendationRecord struct {
	Name          string       `json:"name"`
	Type          ActivityType `json:"type"`
	Country       string       `json:"country"`
	City          string       `json:"city"`
	WebsiteLink   string       `json:"websiteLink"`
	EstimatedCost string       `json:"estimatedCost"`
	OpenHours     string       `json:"openHours"`
	Description   string       `json:"description"`
	Enrichment    *PlaceFacts  `json:"enrichment"`
}

// Location prefers the enriched address and falls back to "city, country".
func (r RecommendationRecord) Location() string {
	if r.Enrichment != nil && r.Enrichment.FormattedAddress != "" {
		return r.Enrichment.FormattedAddress
	}
	parts := make([]string, 0, 2)
	if r.City != "" {
		parts = append(parts, r.City)
	}
	if r.Country != "" {
		parts = append(parts, r.Country)
	}
	return strings.Join(parts, ", ")
}

// TripContext is the snapshot kept after a recommendation fetch so a later
// "get more advice" can skip straight to the activity type.
type TripContext struct {
	OriginalPrompt string    `json:"originalPrompt"`
	TripName       string    `json:"tripName"`
	Destination    string    `json:"destination"`
	ActivityType   string    `json:"activityType"`
	TimePreference string    `json:"timePreference"`
	Budget         string    `json:"budget"`
	GroupSize      string    `json:"groupSize"`
	Preferences    string    `json:"preferences"`
	Timestamp      time.Time `json:"timestamp"`
}
