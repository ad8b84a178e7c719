package types

// HighLevelPlan assigns a theme to each trip day. It is the input of the detailed pipeline.
type HighLevelPlan struct {
	TripID      string    `json:"tripId"`
	GeneratedAt string    `json:"generatedAt"`
	Destination string    `json:"destination"`
	TotalDays   int       `json:"totalDays"`
	Days        []PlanDay `json:"days"`
}

type PlanDay struct {
	Date        string `json:"date"`
	DayNumber   int    `json:"dayNumber"`
	Topic       string `json:"topic"`
	Description string `json:"description"`
}

// PlanValidation is the verdict on a free-text plan modification request.
type PlanValidation struct {
	IsValid            bool   `json:"isValid"`
	InterpretedRequest string `json:"interpretedRequest,omitempty"`
	Clarification      string `json:"clarificationRequest,omitempty"`
}
