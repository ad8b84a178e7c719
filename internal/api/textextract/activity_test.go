package textextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func TestClassifyActivity(t *testing.T) {
	assert.Equal(t, types.ActivityRestaurant, ClassifyActivity("Dim Sum Restaurant"))
	assert.Equal(t, types.ActivityShopping, ClassifyActivity("Temple Street Night Market"))
	assert.Equal(t, types.ActivityCultural, ClassifyActivity("Hong Kong Museum of Art"))
	assert.Equal(t, types.ActivityOutdoor, ClassifyActivity("Dragon's Back Hike"))
	assert.Equal(t, types.ActivityAttraction, ClassifyActivity("Victoria Peak"))
}

func TestExtractActivities(t *testing.T) {
	t.Run("markdown list", func(t *testing.T) {
		text := "Here are my picks for a 3-day trip:\n" +
			"1. **Victoria Peak**\nGreat views.\n" +
			"2. **Tim Ho Wan Restaurant**\nDim sum.\n" +
			"### Conclusion\n" +
			"- **Ladies Market**\n"
		got := ExtractActivities(text)
		require.Len(t, got, 3)
		assert.Equal(t, "Victoria Peak", got[0].Name)
		assert.Equal(t, types.ActivityAttraction, got[0].Type)
		assert.Equal(t, types.ActivityRestaurant, got[1].Type)
		assert.Equal(t, "Ladies Market", got[2].Name)
		assert.Equal(t, types.ActivityShopping, got[2].Type)
	})

	t.Run("trip descriptions skipped", func(t *testing.T) {
		got := ExtractActivities("## Hong Kong from March to April 2025\n")
		require.Len(t, got, 1)
		assert.Equal(t, "Travel Recommendations", got[0].Name)
	})

	t.Run("nothing found", func(t *testing.T) {
		got := ExtractActivities("plain text")
		require.Len(t, got, 1)
		assert.Equal(t, types.ActivityActivity, got[0].Type)
	})
}

func TestParseDestination(t *testing.T) {
	assert.Equal(t, Destination{"Japan", "Tokyo"}, ParseDestination("Tokyo, Japan"))
	assert.Equal(t, Destination{"Vietnam", "Ho Chi Minh City"}, ParseDestination("Vietnam"))
	assert.Equal(t, Destination{"Lisbon", "Lisbon"}, ParseDestination("Lisbon"))
	assert.Equal(t, Destination{NotSpecified, NotSpecified}, ParseDestination(" "))
	assert.Equal(t, Destination{"Japan", "Kyoto"}, LocateActivity("Fushimi Inari", "Kyoto"))
	assert.Equal(t, Destination{NotSpecified, NotSpecified}, LocateActivity("Louvre", "Paris"))
}
