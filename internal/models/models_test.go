package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestModels(t *testing.T) {
	t.Run("Table Names", func(t *testing.T) {
		assert.Equal(t, "urls", URL{}.TableName())
		assert.Equal(t, "clicks", Click{}.TableName())
	})

	t.Run("URL JSON Shape", func(t *testing.T) {
		u := URL{
			ID:          "id-1",
			ShortCode:   "abc123",
			OriginalURL: "https://example.com/a",
			CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			ClickCount:  3,
			Clicks:      []Click{{URLID: "id-1"}},
		}
		data, err := json.Marshal(u)
		assert.NoError(t, err)

		var out map[string]interface{}
		assert.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, "abc123", out["shortCode"])
		assert.Equal(t, "https://example.com/a", out["originalUrl"])
		assert.Equal(t, float64(3), out["clickCount"])
		assert.NotContains(t, out, "Clicks")
		assert.NotContains(t, out, "clicks")
	})
}
