package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	generativeAI "github.com/FACorreiaa/go-trip-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-planner/internal/api/textextract"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const planSystemPrompt = `You are an expert travel planner AI. Create detailed daily themes and rich descriptions for trip planning.

IMPORTANT: You must respond with a valid JSON object that matches the provided schema exactly. Do not include any text outside the JSON structure.

Create a comprehensive day-by-day plan with:
- A clear TOPIC/THEME for each day (e.g., "Cultural Exploration", "Adventure Day", "Food & Markets", "Relaxation & Wellness")
- A DETAILED DESCRIPTION that outlines specific activities and experiences for morning, afternoon, and evening
- Each time period should be approximately 50 words with rich, engaging details
- Include specific place names, neighborhoods, or attractions when relevant

Consider these factors:
- User's preferences and trip type
- Logical progression of experiences throughout the trip
- Balance between different types of activities
- Local customs and seasonal considerations
- Travel rhythm and energy levels
- Must-include bucket list items
- Specific places mentioned by users

Format the description to include:
- Morning: Detailed activities with specific areas, markets, or neighborhoods to explore (~50 words)
- Afternoon: Main experiences with landmark names, districts, or attraction types (~50 words)
- Evening: Dining recommendations with cuisine types, entertainment areas, and atmosphere (~50 words)

When users request specific places, include them in brackets after the relevant time period description.
Example format: "Morning: Start your day exploring the bustling fish markets and traditional tea houses in the historic old quarter. [Tsukiji Market, Senso-ji Temple]"

Generate realistic, inspiring daily themes with rich details that create an immersive trip experience while maintaining flexibility for personalization.`

const (
	clarifyGeneric = "Could you please tell me what specific changes you'd like to make to your trip plan? For example: 'Add Ocean Park to day 6' or 'Make day 2 more relaxing'."
	clarifyVague   = "I'd like to help you modify your trip plan. Could you be more specific about what you'd like to change? For example, you could say 'Add Ocean Park to day 6' or 'Make day 2 more relaxing'."
)

// PlanSchema is the JSON schema of a high-level plan.
func PlanSchema() map[string]any {
	str := map[string]any{"type": "string"}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tripId":      str,
			"generatedAt": map[string]any{"type": "string", "format": "date-time"},
			"destination": str,
			"totalDays":   map[string]any{"type": "integer"},
			"days": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"date":        map[string]any{"type": "string", "format": "date"},
						"dayNumber":   map[string]any{"type": "integer"},
						"topic":       str,
						"description": str,
					},
					"required":             []string{"date", "dayNumber", "topic", "description"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"tripId", "generatedAt", "destination", "totalDays", "days"},
		"additionalProperties": false,
	}
}

type planSession struct {
	plan     types.HighLevelPlan
	history  []generativeAI.Message
	original types.PlannerPreferences
}

// PlanService produces and revises the per-day themes of a trip.
type PlanService struct {
	ai     generativeAI.TextCompletion
	plans  *cache.Cache
	logger *slog.Logger
	now    func() time.Time
}

func NewPlanService(ai generativeAI.TextCompletion, ttl time.Duration, logger *slog.Logger) *PlanService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanService{ai: ai, plans: cache.New(ttl, 2*ttl), logger: logger, now: time.Now}
}

// PlanWindow covers the nights of a trip: the checkout day is not planned.
func PlanWindow(trip types.TripRef, dateRange *types.DateRange, now time.Time) Window {
	start, total := tripSpan(trip, now)
	w := Window{Start: start, TripDays: total}

	if r := clampRange(dateRange, total); r != nil {
		w.Start = start.AddDate(0, 0, r.StartDay-1)
		w.Days = r.EndDay - r.StartDay
		w.FromRange = true
		w.Range = r
	} else {
		w.Days = total - 1
	}
	if w.Days < 1 {
		w.Days = 1
	}
	w.End = w.Start.AddDate(0, 0, w.Days-1)
	return w
}

func buildPlanPrompt(req types.PlannerRequest, w Window, tripStart time.Time) string {
	trip, p := req.Trip, req.Preferences
	var l lineWriter

	fmt.Fprintf(&l.b, "Create a high-level %d-day trip plan for %s", w.Days, trip.Destination)
	if w.FromRange && w.TripDays > w.Days {
		fmt.Fprintf(&l.b, " (This is part of a %d-day trip, planning days %d-%d)", w.TripDays, w.Range.StartDay, w.Range.EndDay)
	}
	fmt.Fprintf(&l.b, " from %s to %s.\n\n", w.Start.Format(dateLine), w.End.Format(dateLine))

	tripEnd := tripStart.AddDate(0, 0, w.TripDays-1)
	l.b.WriteString("Trip Context:\n")
	l.item("Full Trip Period", fmt.Sprintf("%s to %s (%d days)", tripStart.Format(dateLine), tripEnd.Format(dateLine), w.TripDays))
	l.item("Planning Period", fmt.Sprintf("%s to %s (%d days)", w.Start.Format(dateLine), w.End.Format(dateLine), w.Days))
	l.item("Destination", trip.Destination)
	l.item("Budget", trip.Budget)
	l.item("Travelers", travelers(trip))

	l.b.WriteString("\nKey Preferences for Daily Themes:\n")
	l.item("Trip Type", withOther(p.TripType, p.TripTypeOther))
	l.item("Accommodation", p.AccommodationType)
	if p.WakeUpTime != "" || p.ReturnTime != "" {
		l.item("Daily Rhythm", fmt.Sprintf("Wake %s, Return %s", p.WakeUpTime, p.ReturnTime))
	}
	l.item("Meals", p.MealsPerDay)
	l.item("Break Needs", p.NeedBreaks)
	l.item("Shopping Interest", p.ShoppingInterest)
	l.item("Preferred Experiences", strings.Join(p.PreferredExperiences, ", "))
	l.item("Cuisine Interests", strings.Join(p.CuisineInterests, ", "))
	l.item("Dietary Restrictions", strings.Join(p.DietaryRestrictions, ", "))

	l.b.WriteString(bucketLines(req.BucketItems))
	if p.AdditionalNotes != "" {
		fmt.Fprintf(&l.b, "\nAdditional Notes: %s\n", p.AdditionalNotes)
	}
	l.b.WriteString("\nCreate daily themes that flow logically and provide a cohesive trip experience. " +
		"Focus on high-level concepts and general activity types rather than specific venues or detailed schedules.")
	return l.b.String()
}

func decodePlan(content string) (types.HighLevelPlan, error) {
	cleaned := textextract.CleanJSON(content)
	var plan types.HighLevelPlan
	err := json.Unmarshal([]byte(cleaned), &plan)
	if err != nil {
		sliced, ok := textextract.SliceJSON(cleaned, '{', '}')
		if !ok {
			return plan, fmt.Errorf("decode plan: %w: %w", types.ErrParseFailure, err)
		}
		if err = json.Unmarshal([]byte(sliced), &plan); err != nil {
			return plan, fmt.Errorf("decode plan: %w: %w", types.ErrParseFailure, err)
		}
	}
	if len(plan.Days) == 0 {
		return plan, fmt.Errorf("plan has no days: %w", types.ErrParseFailure)
	}
	return plan, nil
}

func (s *PlanService) finish(plan types.HighLevelPlan, tripID, destination string, start time.Time) types.HighLevelPlan {
	if plan.TripID == "" {
		plan.TripID = tripID
	}
	if plan.Destination == "" {
		plan.Destination = destination
	}
	plan.GeneratedAt = s.now().Format(time.RFC3339)
	for i := range plan.Days {
		if plan.Days[i].DayNumber <= 0 {
			plan.Days[i].DayNumber = i + 1
		}
		if plan.Days[i].Date == "" {
			plan.Days[i].Date = start.AddDate(0, 0, plan.Days[i].DayNumber-1).Format(types.DateLayout)
		}
	}
	plan.TotalDays = len(plan.Days)
	return plan
}

// GeneratePlan asks for one theme per planned day and stores the plan for later modification.
func (s *PlanService) GeneratePlan(ctx context.Context, req types.PlannerRequest) (types.HighLevelPlan, error) {
	if req.Trip.ID == "" {
		req.Trip.ID = uuid.NewString()
	}
	ctx, span := otel.Tracer("Itinerary").Start(ctx, "PlanService.GeneratePlan", trace.WithAttributes(
		attribute.String("trip.id", req.Trip.ID),
		attribute.String("trip.destination", req.Trip.Destination),
	))
	defer span.End()

	now := s.now()
	w := PlanWindow(req.Trip, req.DateRange, now)
	tripStart, _ := tripSpan(req.Trip, now)
	messages := []generativeAI.Message{
		generativeAI.SystemMessage(planSystemPrompt),
		generativeAI.UserMessage(buildPlanPrompt(req, w, tripStart)),
	}

	out, err := s.ai.Complete(ctx, messages, generativeAI.Options{
		MaxTokens:   2500,
		Temperature: 0.7,
		Schema:      &generativeAI.JSONSchema{Name: "high_level_plan", Schema: PlanSchema()},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return types.HighLevelPlan{}, fmt.Errorf("generate plan: %w", capability(err))
	}

	plan, err := decodePlan(out.Content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		s.logger.WarnContext(ctx, "Could not parse high-level plan", slog.Any("error", err))
		return types.HighLevelPlan{}, fmt.Errorf("generate plan: %w", err)
	}
	plan = s.finish(plan, req.Trip.ID, req.Trip.Destination, w.Start)

	s.plans.SetDefault(plan.TripID, planSession{
		plan:     plan,
		history:  append(messages, generativeAI.AssistantMessage(out.Content)),
		original: req.Preferences,
	})

	span.SetStatus(codes.Ok, "plan generated")
	return plan, nil
}

// Plan returns the stored plan of a trip.
func (s *PlanService) Plan(tripID string) (types.HighLevelPlan, bool) {
	v, ok := s.plans.Get(tripID)
	if !ok {
		return types.HighLevelPlan{}, false
	}
	return v.(planSession).plan, true
}

// Reset forgets a trip's plan and conversation.
func (s *PlanService) Reset(tripID string) {
	s.plans.Delete(tripID)
}

var (
	invalidModification = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(hi|hello|hey|thanks|thank you)$`),
		regexp.MustCompile(`(?i)^(what|how|when|where|why)\s`),
		regexp.MustCompile(`(?i)weather`),
		regexp.MustCompile(`(?i)^(yes|no|ok|okay)$`),
		regexp.MustCompile(`^.{1,2}$`),
	}
	validModification = []*regexp.Regexp{
		regexp.MustCompile(`(?i)day\s*\d+`),
		regexp.MustCompile(`(?i)(add|include|visit|go to|see)`),
		regexp.MustCompile(`(?i)(more|less|replace|change|move)`),
		regexp.MustCompile(`(?i)(relaxing|cultural|food|shopping|adventure|nature)`),
		regexp.MustCompile(`(?i)(morning|afternoon|evening|whole day)`),
		regexp.MustCompile(`\b[A-Z][a-zA-Z\s]{2,}\b`),
	}
)

// ValidateModification screens a chat message before it is sent as a plan modification.
func (s *PlanService) ValidateModification(message string) types.PlanValidation {
	lower := strings.ToLower(strings.TrimSpace(message))
	for _, re := range invalidModification {
		if re.MatchString(lower) {
			return types.PlanValidation{Clarification: clarifyGeneric}
		}
	}
	for _, re := range validModification {
		if re.MatchString(message) {
			return types.PlanValidation{IsValid: true, InterpretedRequest: message}
		}
	}
	if len(message) > 10 {
		return types.PlanValidation{IsValid: true, InterpretedRequest: message}
	}
	return types.PlanValidation{Clarification: clarifyVague}
}

// ModifyPlan revises the stored plan of tripID following a validated request.
func (s *PlanService) ModifyPlan(ctx context.Context, tripID, request string) (types.HighLevelPlan, error) {
	ctx, span := otel.Tracer("Itinerary").Start(ctx, "PlanService.ModifyPlan", trace.WithAttributes(
		attribute.String("trip.id", tripID),
	))
	defer span.End()

	v, ok := s.plans.Get(tripID)
	if !ok {
		span.SetStatus(codes.Error, "no current plan")
		return types.HighLevelPlan{}, fmt.Errorf("no current plan to modify: %w", types.ErrNotFound)
	}
	session := v.(planSession)

	prompt, err := modificationPrompt(request, session)
	if err != nil {
		return types.HighLevelPlan{}, err
	}
	messages := append(append([]generativeAI.Message(nil), session.history...), generativeAI.UserMessage(prompt))

	out, err := s.ai.Complete(ctx, messages, generativeAI.Options{
		MaxTokens:   2000,
		Temperature: 0.7,
		Schema:      &generativeAI.JSONSchema{Name: "high_level_plan", Schema: PlanSchema()},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return types.HighLevelPlan{}, fmt.Errorf("modify plan: %w", capability(err))
	}

	plan, err := decodePlan(out.Content)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		s.logger.WarnContext(ctx, "Could not parse modified plan", slog.Any("error", err))
		return types.HighLevelPlan{}, fmt.Errorf("modify plan: %w", err)
	}
	start, err := time.Parse(types.DateLayout, firstDate(session.plan))
	if err != nil {
		start = s.now()
	}
	plan = s.finish(plan, session.plan.TripID, session.plan.Destination, start)

	session.plan = plan
	session.history = append(messages, generativeAI.AssistantMessage(out.Content))
	s.plans.SetDefault(tripID, session)

	span.SetStatus(codes.Ok, "plan modified")
	return plan, nil
}

func firstDate(plan types.HighLevelPlan) string {
	if len(plan.Days) == 0 {
		return ""
	}
	return plan.Days[0].Date
}

func modificationPrompt(request string, session planSession) (string, error) {
	current, err := json.MarshalIndent(session.plan, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode current plan: %w", err)
	}
	prefs, err := json.MarshalIndent(session.original, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode preferences: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Please modify the current high-level trip plan based on this request: \"%s\"\n\n", request)
	fmt.Fprintf(&b, "CURRENT PLAN:\n%s\n\n", current)
	fmt.Fprintf(&b, "ORIGINAL SURVEY PREFERENCES:\n%s\n\n", prefs)
	b.WriteString(`MODIFICATION INSTRUCTIONS:
1. Keep the detailed description format with approximately 50 words per time period (Morning/Afternoon/Evening)
2. Include rich, engaging details about activities and experiences
3. If specific places are mentioned in the user request, include them in brackets after the relevant time period description
4. Format specific places like: "Morning: [detailed description] [Place A, Place B]"
5. Maintain the inspiring and immersive tone while incorporating the requested changes
`)
	if places := ExtractPlaces(request); len(places) > 0 {
		b.WriteString("\nSPECIFIC PLACES TO INCLUDE:\n")
		for _, p := range places {
			b.WriteString("- " + p + "\n")
		}
		b.WriteString("\nMake sure to incorporate these places into the appropriate time periods and include them in brackets at the end of the relevant descriptions.\n")
	}
	b.WriteString("\nPlease return the updated plan in the same JSON format, keeping the same structure but modifying the content according to the user's request.")
	return b.String(), nil
}

const placeSuffixes = `Temple|Market|Park|Museum|Tower|Bridge|Palace|Castle|Garden|Square|District|Street|Avenue|Road|Beach|Island|Mountain|Lake|River|Station|Airport|Mall|Center|Centre|Building|Hall|Gallery|Theater|Theatre|Church|Shrine|Mosque|Cathedral|Observatory|Zoo|Aquarium|Stadium|Arena|Plaza|Pier|Wharf|Harbor|Harbour|Bay|Cove|Falls|Waterfall|Valley|Hill|Peak|Summit|Cliff|Cave|Forest|Reserve|Sanctuary|Monument|Memorial|Statue|Fountain|Arch|Gate|Wall|Fort|Fortress|Citadel|Ruins|Site|Complex|Resort|Hotel|Restaurant|Cafe|Bar|Club|Shop|Store|Boutique|Factory|Brewery|Winery|Farm|Ranch|Village|Town|City|Prefecture|Province|Region|Area|Zone|Quarter|Neighborhood|Neighbourhood`

var (
	placePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:go to|visit|see|check out|explore)\s+([A-Z][a-zA-Z\s&'-]+(?:` + placeSuffixes + `))`),
		regexp.MustCompile(`\b([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*(?:\s+(?:` + placeSuffixes + `)))\b`),
		regexp.MustCompile(`"([^"]+)"`),
		regexp.MustCompile(`'([^']+)'`),
	}
	capitalised   = regexp.MustCompile(`^[A-Z]`)
	leadingAction = regexp.MustCompile(`(?i)^(?:add|include|visit|see|go to|check out|explore)\s+`)
)

// ExtractPlaces finds place names mentioned in a modification request.
func ExtractPlaces(request string) []string {
	var out []string
	seen := map[string]bool{}
	for _, re := range placePatterns {
		for _, m := range re.FindAllStringSubmatch(request, -1) {
			place := strings.TrimSpace(leadingAction.ReplaceAllString(strings.TrimSpace(m[1]), ""))
			if len(place) > 2 && capitalised.MatchString(place) && !seen[place] {
				seen[place] = true
				out = append(out, place)
			}
		}
	}
	return out
}

func capability(err error) error {
	if errors.Is(err, types.ErrCapabilityFailure) {
		return err
	}
	return fmt.Errorf("%w: %w", types.ErrCapabilityFailure, err)
}
