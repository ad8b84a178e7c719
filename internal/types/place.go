package types

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceFacts is the normalised result of a places lookup.
type PlaceFacts struct {
	PlaceID          string      `json:"placeId"`
	Name             string      `json:"name"`
	FormattedAddress string      `json:"formattedAddress"`
	Coordinates      Coordinates `json:"coordinates"`
	PhotoRef         *string     `json:"photoRef,omitempty"`
	Rating           *float64    `json:"rating,omitempty"`
	OpeningHoursText *string     `json:"openingHoursText,omitempty"`
	Types            []string    `json:"types,omitempty"`
	BusinessStatus   string      `json:"businessStatus,omitempty"`
	Source           string      `json:"source,omitempty"`
}
