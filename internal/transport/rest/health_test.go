package rest

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

type pingerMock struct {
	err error
}

func (m *pingerMock) Ping(_ context.Context) error {
	return m.err
}

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestLive_Always200(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler("test-version", map[string]Pinger{
		"pools": &pingerMock{err: errors.New("down")},
	})

	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.Timestamp.IsZero())
}

func TestReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		components map[string]Pinger
		wantCode   int
		wantStatus string
	}{
		{
			name:       "no components",
			components: nil,
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name: "all up",
			components: map[string]Pinger{
				"pools":     &pingerMock{},
				"embedding": PingFunc(func(context.Context) error { return nil }),
			},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name: "one down",
			components: map[string]Pinger{
				"pools":     &pingerMock{},
				"embedding": &pingerMock{err: errors.New("connection refused")},
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHealthHandler("v", tt.components)
			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantStatus, decodeHealth(t, rec).Status)
		})
	}
}

func TestHealth_AllOK(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler("v1.0.0", map[string]Pinger{"pools": &pingerMock{}})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "v1.0.0", resp.Version)

	comp, ok := resp.Components["pools"]
	require.True(t, ok, "expected 'pools' component")
	assert.Equal(t, "ok", comp.Status)
	assert.NotEmpty(t, comp.Latency)
}

func TestHealth_ComponentDown(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler("v1.0.0", map[string]Pinger{
		"pools":    &pingerMock{},
		"database": &pingerMock{err: errors.New("connection refused")},
	})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decodeHealth(t, rec)
	assert.Equal(t, "down", resp.Status)
	assert.Equal(t, "ok", resp.Components["pools"].Status)
	assert.Equal(t, "down", resp.Components["database"].Status)
	assert.Equal(t, "connection refused", resp.Components["database"].Error)
}

func TestHealthHandler_Register(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	NewHealthHandler("v", nil).Register(mux)

	for _, path := range []string{"/live", "/ready", "/health"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
