package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"linkstat/internal/config"
	"linkstat/internal/repository"
	"linkstat/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testBaseURL = "https://sho.rt"

type testEnv struct {
	db       *gorm.DB
	store    *repository.GormStore
	registry *services.Registry
	recorder *services.Recorder
}

func setupTestHandler(t *testing.T) (*Handler, *testEnv) {
	t.Helper()

	cfg := config.Config{DatabaseURL: "sqlite://:memory:", BaseURL: testBaseURL}
	db, err := repository.InitDB(cfg)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repository.NewGormStore(db)
	registry := services.NewRegistry(store, nil, nil, logger)
	recorder := services.NewRecorder(store, nil, logger, services.RecorderOptions{QueueSize: 100})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		recorder.Start(ctx, 2)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})

	h := NewHandler(cfg, logger, registry, recorder, services.NewQRService())
	return h, &testEnv{db: db, store: store, registry: registry, recorder: recorder}
}

func setupTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return h.SetupRouter(nil)
}

func doRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// createURL posts to /api/urls and returns the short code.
func createURL(t *testing.T, r http.Handler, url, customCode string) string {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/urls", gin.H{"url": url, "customCode": customCode}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["shortCode"].(string)
}
