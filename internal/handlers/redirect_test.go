package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"linkstat/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedirect(t *testing.T) {
	h, env := setupTestHandler(t)
	r := setupTestRouter(h)

	t.Run("Unknown Code", func(t *testing.T) {
		w := doRequest(r, http.MethodGet, "/NONEXISTENT", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decode(t, w)["kind"])
	})

	t.Run("Redirect Records Click", func(t *testing.T) {
		code := createURL(t, r, "https://google.com", "google")

		w := doRequest(r, http.MethodGet, "/"+code, nil, map[string]string{
			"User-Agent":      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148 Safari/604.1",
			"Referer":         "https://news.example.com",
			"CF-IPCountry":    "SE",
			"X-Forwarded-For": "198.51.100.7",
		})
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://google.com", w.Header().Get("Location"))

		ctx := context.Background()
		assert.Eventually(t, func() bool {
			url, err := env.store.Get(ctx, code)
			return err == nil && url.ClickCount == 1
		}, 2*time.Second, 10*time.Millisecond)

		clicks, err := env.store.QueryEvents(ctx, repository.EventQuery{ShortCode: code})
		require.NoError(t, err)
		require.Len(t, clicks, 1)
		assert.Equal(t, "SE", clicks[0].Country)
		assert.Equal(t, "https://news.example.com", clicks[0].Referer)
		assert.Equal(t, "mobile", clicks[0].DeviceType)

		w = doRequest(r, http.MethodGet, "/api/analytics/"+code+"?period=1d", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.EqualValues(t, 1, body["totalClicks"])
		assert.EqualValues(t, 1, body["periodClicks"])
	})
}
