package types

import "time"

type Itinerary struct {
	TripID      string           `json:"tripId"`
	GeneratedAt string           `json:"generatedAt"`
	Summary     ItinerarySummary `json:"summary"`
	Days        []ItineraryDay   `json:"days"`
}

type ItinerarySummary struct {
	TotalDays       int    `json:"totalDays"`
	TotalActivities int    `json:"totalActivities"`
	TotalMeals      int    `json:"totalMeals"`
	EstimatedBudget string `json:"estimatedBudget"`
}

type ItineraryDay struct {
	Date       string           `json:"date"`
	DayNumber  int              `json:"dayNumber"`
	Activities []ActivityRecord `json:"activities"`
}

type ActivityRecord struct {
	Time          string `json:"time"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	Type          string `json:"type"`
	EstimatedCost string `json:"estimatedCost,omitempty"`
	Duration      string `json:"duration,omitempty"`
	Tips          string `json:"tips,omitempty"`
}

// Itinerary activity types understood by the planner prompt.
const (
	ItineraryMeal          = "meal"
	ItineraryActivity      = "activity"
	ItineraryTransport     = "transport"
	ItineraryCulture       = "culture"
	ItineraryShopping      = "shopping"
	ItineraryRest          = "rest"
	ItinerarySightseeing   = "sightseeing"
	ItineraryEntertainment = "entertainment"
)

var ItineraryActivityTypes = []string{
	ItineraryMeal, ItineraryActivity, ItineraryTransport, ItineraryCulture,
	ItineraryShopping, ItineraryRest, ItinerarySightseeing, ItineraryEntertainment,
}

// PlannerPreferences is the trip-planning survey. Every multi-choice answer has
// an "Other" free-text sibling that is inlined into prompts when set.
type PlannerPreferences struct {
	AccommodationType         string   `json:"accommodationType"`
	AccommodationTypeOther    string   `json:"accommodationTypeOther,omitempty"`
	RoomSetup                 string   `json:"roomSetup"`
	RoomSetupOther            string   `json:"roomSetupOther,omitempty"`
	TripType                  string   `json:"tripType"`
	TripTypeOther             string   `json:"tripTypeOther,omitempty"`
	DietaryRestrictions       []string `json:"dietaryRestrictions,omitempty"`
	DietaryRestrictionsOther  string   `json:"dietaryRestrictionsOther,omitempty"`
	CuisineInterests          []string `json:"cuisineInterests,omitempty"`
	CuisineInterestsOther     string   `json:"cuisineInterestsOther,omitempty"`
	SnackingHabits            string   `json:"snackingHabits,omitempty"`
	PreferredExperiences      []string `json:"preferredExperiences,omitempty"`
	PreferredExperiencesOther string   `json:"preferredExperiencesOther,omitempty"`
	SocialPreference          string   `json:"socialPreference,omitempty"`
	ItineraryStyle            string   `json:"itineraryStyle,omitempty"`
	SpecialInterests          string   `json:"specialInterests,omitempty"`
	WakeUpTime                string   `json:"wakeUpTime"`
	PreparationTime           string   `json:"preparationTime"`
	ReturnTime                string   `json:"returnTime"`
	MealsPerDay               string   `json:"mealsPerDay"`
	BreakfastTime             string   `json:"breakfastTime,omitempty"`
	LunchTime                 string   `json:"lunchTime,omitempty"`
	DinnerTime                string   `json:"dinnerTime,omitempty"`
	NeedBreaks                string   `json:"needBreaks"`
	BreakDuration             string   `json:"breakDuration,omitempty"`
	BreakActivities           []string `json:"breakActivities,omitempty"`
	BreakActivitiesOther      string   `json:"breakActivitiesOther,omitempty"`
	ShoppingInterest          string   `json:"shoppingInterest"`
	ShoppingCategories        []string `json:"shoppingCategories,omitempty"`
	ShoppingCategoriesOther   string   `json:"shoppingCategoriesOther,omitempty"`
	ShoppingStyle             string   `json:"shoppingStyle,omitempty"`
	AdditionalNotes           string   `json:"additionalNotes,omitempty"`
}

// PlannerRequest is the full trip-planning form.
type PlannerRequest struct {
	Trip        TripRef            `json:"selectedTrip"`
	Preferences PlannerPreferences `json:"preferences"`
	BucketItems []BucketListItem   `json:"selectedBucketItems,omitempty"`
	DateRange   *DateRange         `json:"selectedDateRange,omitempty"`
}

// BucketListItem is a saved candidate activity, independent of any trip calendar.
type BucketListItem struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Type          ActivityType `json:"type"`
	Description   string       `json:"description,omitempty"`
	Country       string       `json:"country,omitempty"`
	City          string       `json:"city,omitempty"`
	Location      string       `json:"location,omitempty"`
	WebsiteLink   string       `json:"websiteLink,omitempty"`
	EstimatedCost string       `json:"estimatedCost,omitempty"`
	OpenHours     string       `json:"openHours,omitempty"`
	Place         *PlaceFacts  `json:"place,omitempty"`
	IsCompleted   bool         `json:"isCompleted"`
	DateAdded     time.Time    `json:"dateAdded"`
}
