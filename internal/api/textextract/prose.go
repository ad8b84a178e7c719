package textextract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	NotSpecified = "Not specified"
	DefaultStars = "⭐⭐⭐"
)

var (
	clockPattern    = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*(AM|PM|am|pm)?`)
	citationPattern = regexp.MustCompile(`\[\d+\]`)
	urlPatterns     = []*regexp.Regexp{
		regexp.MustCompile(`(?i)https?://[^\s\],]+`),
		regexp.MustCompile(`(?i)www\.[^\s\],]+`),
	}
	trailingCitation = regexp.MustCompile(`\[\d*\]?$`)
	trailingPunct    = regexp.MustCompile(`[.*,]+$`)

	starsPattern = regexp.MustCompile(`⭐{5}`)
	costRules    = []struct {
		pattern *regexp.Regexp
		stars   string
	}{
		{regexp.MustCompile(`(?i)under.*\$20|very.*budget|cheap`), "⭐"},
		{regexp.MustCompile(`(?i)\$20.*40|budget`), "⭐⭐"},
		{regexp.MustCompile(`(?i)\$40.*80|moderate`), "⭐⭐⭐"},
		{regexp.MustCompile(`(?i)\$80.*150|expensive`), "⭐⭐⭐⭐"},
		{regexp.MustCompile(`(?i)over.*\$150|very.*expensive|luxury`), "⭐⭐⭐⭐⭐"},
	}
)

// ExtractHours finds every clock time in the text and reports the earliest and
// latest as an opening range. Fewer than two times yields NotSpecified.
func ExtractHours(text string) string {
	matches := clockPattern.FindAllStringSubmatch(text, -1)
	if len(matches) < 2 {
		return NotSpecified
	}

	earliest, latest := -1, -1
	for _, m := range matches {
		minutes := toMinutes(m[1], m[2], m[3])
		if earliest == -1 || minutes < earliest {
			earliest = minutes
		}
		if minutes > latest {
			latest = minutes
		}
	}
	return fmt.Sprintf("Open Hour: %s; Close Hour: %s (reference only)", formatClock(earliest), formatClock(latest))
}

// ParseClock converts "7:30", "7:30 PM" or "19:30" into minutes since midnight.
func ParseClock(s string) (int, bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return toMinutes(m[1], m[2], m[3]), true
}

func toMinutes(h, m, period string) int {
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	switch strings.ToLower(period) {
	case "pm":
		if hours != 12 {
			hours += 12
		}
	case "am":
		if hours == 12 {
			hours = 0
		}
	}
	return hours*60 + minutes
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatClock renders minutes since midnight as HH:MM, wrapping past midnight.
func FormatClock(minutes int) string {
	minutes = ((minutes % (24 * 60)) + 24*60) % (24 * 60)
	return formatClock(minutes)
}

// CostStars maps a prose price description onto a one to five star scale.
func CostStars(text string) string {
	if m := starsPattern.FindString(text); m != "" {
		return m
	}
	for _, r := range costRules {
		if r.pattern.MatchString(text) {
			return r.stars
		}
	}
	return DefaultStars
}

// ExtractURL returns the first web link in the text, without citation markers
// or trailing punctuation. Bare www. hosts get an https:// prefix.
func ExtractURL(text string) string {
	clean := strings.ReplaceAll(citationPattern.ReplaceAllString(text, ""), "**", "")
	for _, p := range urlPatterns {
		match := p.FindString(clean)
		if match == "" {
			continue
		}
		match = trailingCitation.ReplaceAllString(match, "")
		match = strings.TrimSpace(trailingPunct.ReplaceAllString(match, ""))
		if strings.HasPrefix(strings.ToLower(match), "www.") {
			match = "https://" + match
		}
		return match
	}
	return ""
}

// NormalizeURL gives a bare host an https scheme and leaves everything else untouched.
func NormalizeURL(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	lower := strings.ToLower(link)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return link
	}
	if strings.HasPrefix(lower, "www.") {
		return "https://" + link
	}
	return link
}
