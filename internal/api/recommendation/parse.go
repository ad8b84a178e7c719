package recommendation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/api/textextract"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type rawRecommendation struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Country       string `json:"country"`
	City          string `json:"city"`
	WebsiteLink   string `json:"websiteLink"`
	EstimatedCost string `json:"estimatedCost"`
	OpenHours     string `json:"openHours"`
	Description   string `json:"description"`
}

type envelope struct {
	Recommendations []rawRecommendation `json:"recommendations"`
}

// Tiers reported by ParseWithTier.
const (
	TierStrict = "strict"
	TierSliced = "sliced"
)

// Parse reads recommendation records from AI output: strict JSON first, then
// the first object or array sliced out of surrounding prose. It never mines
// free text, since saved names must match the AI's exact strings.
func Parse(content string) ([]types.RecommendationRecord, error) {
	records, _, err := ParseWithTier(content)
	return records, err
}

// ParseWithTier is Parse that also reports whether slicing was needed.
func ParseWithTier(content string) ([]types.RecommendationRecord, string, error) {
	tier := TierStrict
	cleaned := textextract.CleanJSON(content)
	raws, ok := decode(cleaned)
	if !ok {
		sliced, found := textextract.SliceAny(cleaned)
		if !found {
			return nil, "", fmt.Errorf("no json found in recommendations: %w", types.ErrParseFailure)
		}
		if raws, ok = decode(sliced); !ok {
			return nil, "", fmt.Errorf("malformed recommendations json: %w", types.ErrParseFailure)
		}
		tier = TierSliced
	}

	records := make([]types.RecommendationRecord, 0, len(raws))
	for _, r := range raws {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		records = append(records, types.RecommendationRecord{
			Name:          name,
			Type:          types.ParseActivityType(r.Type),
			Country:       strings.TrimSpace(r.Country),
			City:          strings.TrimSpace(r.City),
			WebsiteLink:   textextract.NormalizeURL(r.WebsiteLink),
			EstimatedCost: strings.TrimSpace(r.EstimatedCost),
			OpenHours:     strings.TrimSpace(r.OpenHours),
			Description:   strings.TrimSpace(r.Description),
		})
	}
	if len(records) == 0 {
		return nil, "", fmt.Errorf("empty recommendations list: %w", types.ErrParseFailure)
	}
	return records, tier, nil
}

func decode(s string) ([]rawRecommendation, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		var list []rawRecommendation
		if err := json.Unmarshal([]byte(s), &list); err != nil {
			return nil, false
		}
		return list, true
	}
	var env envelope
	if err := json.Unmarshal([]byte(s), &env); err != nil || env.Recommendations == nil {
		return nil, false
	}
	return env.Recommendations, true
}
