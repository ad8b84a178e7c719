package textextract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `[1]`, CleanJSON("```\n[1]```"))
	assert.Equal(t, `{"a":1}`, CleanJSON("  {\"a\":1}  "))
}

func TestSliceAny(t *testing.T) {
	t.Run("object with prose", func(t *testing.T) {
		got, ok := SliceAny(`Here you go: {"a":[1,2]} hope it helps`)
		require.True(t, ok)
		assert.Equal(t, `{"a":[1,2]}`, got)
	})
	t.Run("array first", func(t *testing.T) {
		got, ok := SliceAny(`result [ {"a":1} ] done`)
		require.True(t, ok)
		assert.Equal(t, `[ {"a":1} ]`, got)
	})
	t.Run("no json", func(t *testing.T) {
		_, ok := SliceAny("nothing here")
		assert.False(t, ok)
	})
}

func TestBalanceJSON(t *testing.T) {
	t.Run("valid input untouched", func(t *testing.T) {
		got, ok := BalanceJSON(`{"a":{"b":[1,2]}}`)
		require.True(t, ok)
		assert.Equal(t, `{"a":{"b":[1,2]}}`, got)
	})

	t.Run("missing closers", func(t *testing.T) {
		got, ok := BalanceJSON(`{"days":[{"activities":[{"title":"Museum"}`)
		require.True(t, ok)
		assert.True(t, json.Valid([]byte(got)))
		assert.Equal(t, `{"days":[{"activities":[{"title":"Museum"}]}]}`, got)
	})

	t.Run("truncated inside string value", func(t *testing.T) {
		got, ok := BalanceJSON(`{"days":[{"activities":[{"title":"Muse`)
		require.True(t, ok)
		var v map[string]any
		require.NoError(t, json.Unmarshal([]byte(got), &v))
	})

	t.Run("dangling key backs off to last complete value", func(t *testing.T) {
		got, ok := BalanceJSON(`{"days":[{"activities":[{"title":"A"},{"title":"B","location":`)
		require.True(t, ok)
		var v struct {
			Days []struct {
				Activities []struct {
					Title string `json:"title"`
				} `json:"activities"`
			} `json:"days"`
		}
		require.NoError(t, json.Unmarshal([]byte(got), &v))
		require.Len(t, v.Days, 1)
		require.NotEmpty(t, v.Days[0].Activities)
		assert.Equal(t, "A", v.Days[0].Activities[0].Title)
	})

	t.Run("braces inside strings are ignored", func(t *testing.T) {
		got, ok := BalanceJSON(`{"note":"use { and [ freely","list":[1`)
		require.True(t, ok)
		assert.Equal(t, `{"note":"use { and [ freely","list":[1]}`, got)
	})

	t.Run("escaped quote inside string", func(t *testing.T) {
		got, ok := BalanceJSON(`{"note":"say \"hi\"","n":2`)
		require.True(t, ok)
		assert.Equal(t, `{"note":"say \"hi\"","n":2}`, got)
	})

	t.Run("trailing prose after object", func(t *testing.T) {
		got, ok := BalanceJSON(`{"a":1} and then {"b":2}`)
		require.True(t, ok)
		assert.Equal(t, `{"a":1}`, got)
	})

	t.Run("no json", func(t *testing.T) {
		_, ok := BalanceJSON("sorry, I cannot help")
		assert.False(t, ok)
	})
}
