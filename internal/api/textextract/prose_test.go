package textextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractHours(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"am pm range", "Open daily from 7:00 AM until 11:30 PM", "Open Hour: 07:00; Close Hour: 23:30 (reference only)"},
		{"24h times", "Lunch 12:00 - 14:30, dinner 18:00 - 22:00", "Open Hour: 12:00; Close Hour: 22:00 (reference only)"},
		{"midnight am", "12:00 AM to 6:00 AM", "Open Hour: 00:00; Close Hour: 06:00 (reference only)"},
		{"single time", "Opens at 9:00", NotSpecified},
		{"no times", "Always open", NotSpecified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractHours(tt.text))
		})
	}
}

func TestParseClock(t *testing.T) {
	m, ok := ParseClock("7:30 PM")
	assert.True(t, ok)
	assert.Equal(t, 19*60+30, m)

	_, ok = ParseClock("evening")
	assert.False(t, ok)

	assert.Equal(t, "00:30", FormatClock(24*60+30))
}

func TestCostStars(t *testing.T) {
	assert.Equal(t, "⭐⭐⭐⭐⭐", CostStars("rated ⭐⭐⭐⭐⭐ by locals"))
	assert.Equal(t, "⭐", CostStars("Cheap street food"))
	assert.Equal(t, "⭐⭐", CostStars("budget friendly"))
	assert.Equal(t, "⭐⭐⭐", CostStars("moderate pricing"))
	assert.Equal(t, "⭐⭐⭐⭐", CostStars("quite expensive"))
	assert.Equal(t, "⭐⭐⭐⭐⭐", CostStars("pure luxury"))
	assert.Equal(t, DefaultStars, CostStars("no idea"))
}

func TestExtractURL(t *testing.T) {
	assert.Equal(t, "https://example.com/menu", ExtractURL("Website: https://example.com/menu, open daily"))
	assert.Equal(t, "https://www.example.org", ExtractURL("see www.example.org."))
	assert.Equal(t, "https://example.com/page2", ExtractURL("at https://example.com/page2[3] for details"))
	assert.Equal(t, "", ExtractURL("no link here"))
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://www.a.com", NormalizeURL(" www.a.com "))
	assert.Equal(t, "http://a.com", NormalizeURL("http://a.com"))
	assert.Equal(t, "", NormalizeURL(""))
}
