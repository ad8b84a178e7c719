package types

type EventType string

const (
	EventDining        EventType = "dining"
	EventShopping      EventType = "shopping"
	EventSightseeing   EventType = "sightseeing"
	EventTransport     EventType = "transport"
	EventAccommodation EventType = "accommodation"
	EventActivity      EventType = "activity"
	EventEntertainment EventType = "entertainment"
	EventRelaxation    EventType = "relaxation"
	EventBreak         EventType = "break"
	EventOther         EventType = "other"
)

var eventColors = map[EventType]string{
	EventDining:        "#f59e0b",
	EventShopping:      "#ec4899",
	EventSightseeing:   "#3b82f6",
	EventTransport:     "#6b7280",
	EventAccommodation: "#10b981",
	EventActivity:      "#8b5cf6",
	EventEntertainment: "#ef4444",
	EventRelaxation:    "#06b6d4",
	EventBreak:         "#78716c",
	EventOther:         "#64748b",
}

// EventTypes lists the enum in prompt order.
var EventTypes = []EventType{
	EventDining, EventShopping, EventSightseeing, EventTransport, EventAccommodation,
	EventActivity, EventEntertainment, EventRelaxation, EventBreak, EventOther,
}

// Color is the calendar colour for the type; unknown types use the "other" colour.
func (t EventType) Color() string {
	if c, ok := eventColors[t]; ok {
		return c
	}
	return eventColors[EventOther]
}

func (t EventType) Valid() bool {
	_, ok := eventColors[t]
	return ok
}

// DayEvent is one timed calendar entry produced for a planned day.
type DayEvent struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Type         EventType   `json:"type"`
	TripID       string      `json:"tripId"`
	Date         string      `json:"date"`
	StartTime    string      `json:"startTime"`
	EndTime      string      `json:"endTime"`
	LocationName string      `json:"locationName,omitempty"`
	Place        *PlaceFacts `json:"place,omitempty"`
	Remark       string      `json:"remark,omitempty"`
	Cost         string      `json:"cost,omitempty"`
	Color        string      `json:"color"`
}

type DetailedDay struct {
	PlanDay
	Events []DayEvent `json:"events"`
}

type DetailedItinerary struct {
	TripID      string        `json:"tripId"`
	GeneratedAt string        `json:"generatedAt"`
	Destination string        `json:"destination"`
	TotalDays   int           `json:"totalDays"`
	Days        []DetailedDay `json:"days"`
	TotalEvents int           `json:"totalEvents"`
}

// TaskResult is the outcome of one (day, task) step of detailed generation.
type TaskResult struct {
	Day       int  `json:"day"`
	Task      int  `json:"task"`
	Success   bool `json:"success"`
	Completed bool `json:"completed"`
}

type GenerationProgress struct {
	CurrentDay         int          `json:"currentDay"`
	TotalDays          int          `json:"totalDays"`
	CurrentTask        int          `json:"currentTask"`
	TotalTasks         int          `json:"totalTasks"`
	CompletedTasks     int          `json:"completedTasks"`
	IsGenerating       bool         `json:"isGenerating"`
	Error              string       `json:"error,omitempty"`
	TaskStatus         []TaskResult `json:"taskStatus"`
	CurrentTaskMessage string       `json:"currentTaskMessage"`
}

// Clone copies the progress including its task slice.
func (p GenerationProgress) Clone() GenerationProgress {
	p.TaskStatus = append([]TaskResult(nil), p.TaskStatus...)
	return p
}
