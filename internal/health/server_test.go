package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, ReadyResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "keno-engine", Version: "1.0"})

	rec, body := get(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "keno-engine", body.Service)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec, _ = get(t, s, "/live")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyReflectsChecks(t *testing.T) {
	s := NewServer(Config{ServiceName: "keno-engine"})

	rec, body := get(t, s, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not_ready", body.Checks["service"])

	s.SetReady(true)
	s.AddCheck("history", func(ctx context.Context) error { return nil })
	rec, body = get(t, s, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "ok", body.Checks["history"])

	s.AddCheck("database", func(ctx context.Context) error { return errors.New("connection refused") })
	rec, body = get(t, s, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "error: connection refused", body.Checks["database"])
}

func TestMountedHandler(t *testing.T) {
	s := NewServer(Config{})
	s.Handle("/metrics", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("keno_rounds_recorded_total 1"))
	}))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "keno_rounds_recorded_total")
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := NewServer(Config{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.ListenAndServe(ctx))
}
