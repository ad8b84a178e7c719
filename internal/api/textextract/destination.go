package textextract

import "strings"

// Destination is a country/city pair resolved from free text.
type Destination struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

var knownDestinations = []struct {
	keywords []string
	dest     Destination
}{
	{[]string{"hong kong"}, Destination{"Hong Kong", "Hong Kong"}},
	{[]string{"singapore"}, Destination{"Singapore", "Singapore"}},
	{[]string{"tokyo"}, Destination{"Japan", "Tokyo"}},
	{[]string{"seoul"}, Destination{"South Korea", "Seoul"}},
	{[]string{"bangkok"}, Destination{"Thailand", "Bangkok"}},
	{[]string{"kuala lumpur"}, Destination{"Malaysia", "Kuala Lumpur"}},
	{[]string{"manila"}, Destination{"Philippines", "Manila"}},
	{[]string{"jakarta"}, Destination{"Indonesia", "Jakarta"}},
	{[]string{"vietnam", "ho chi minh"}, Destination{"Vietnam", "Ho Chi Minh City"}},
	{[]string{"hanoi"}, Destination{"Vietnam", "Hanoi"}},
	{[]string{"macau", "macao"}, Destination{"Macau", "Macau"}},
	{[]string{"taiwan", "taipei"}, Destination{"Taiwan", "Taipei"}},
	{[]string{"shanghai"}, Destination{"China", "Shanghai"}},
	{[]string{"beijing"}, Destination{"China", "Beijing"}},
	{[]string{"osaka"}, Destination{"Japan", "Osaka"}},
	{[]string{"kyoto"}, Destination{"Japan", "Kyoto"}},
	{[]string{"busan"}, Destination{"South Korea", "Busan"}},
}

// ParseDestination resolves well-known cities. Unknown text is used verbatim
// as both country and city; empty text is NotSpecified.
func ParseDestination(text string) Destination {
	if strings.TrimSpace(text) == "" {
		return Destination{NotSpecified, NotSpecified}
	}
	if d, ok := lookupDestination(text); ok {
		return d
	}
	return Destination{Country: text, City: text}
}

// LocateActivity tries the activity name and its location against the known
// table, returning NotSpecified when neither mentions a known destination.
func LocateActivity(name, location string) Destination {
	if d, ok := lookupDestination(name + " " + location); ok {
		return d
	}
	return Destination{NotSpecified, NotSpecified}
}

func lookupDestination(text string) (Destination, bool) {
	lower := strings.ToLower(text)
	for _, k := range knownDestinations {
		for _, kw := range k.keywords {
			if strings.Contains(lower, kw) {
				return k.dest, true
			}
		}
	}
	return Destination{}, false
}
