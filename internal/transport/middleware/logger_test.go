package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordtier/pkg/ctxutil"
)

func logOnce(t *testing.T, status int, body string, req *http.Request) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	})

	Logger(logger)(handler).ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestLogger_Success(t *testing.T) {
	entry := logOnce(t, http.StatusOK, `["cat"]`, httptest.NewRequest(http.MethodGet, "/words/generate-dictionary/kids/1?metric=phonetic", nil))

	assert.Equal(t, "http.request", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/words/generate-dictionary/kids/1", entry["path"])
	assert.Equal(t, "metric=phonetic", entry["query"])
	assert.EqualValues(t, 200, entry["status"])
	assert.EqualValues(t, 7, entry["bytes"])
	assert.Contains(t, entry, "duration")
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		entry := logOnce(t, tt.status, "", httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, tt.level, entry["level"], "status %d", tt.status)
		assert.EqualValues(t, tt.status, entry["status"])
	}
}

func TestLogger_IncludesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ctxutil.WithRequestID(req.Context(), "test-request-id-123"))

	entry := logOnce(t, http.StatusOK, "", req)

	assert.Equal(t, "test-request-id-123", entry["request_id"])
	assert.NotContains(t, entry, "query")
}
