package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		path          string
		handlerStatus int
		body          string
		wantLevel     string
	}{
		{"ok status", http.MethodGet, "/articles", http.StatusOK, `{"articles":[]}`, "INFO"},
		{"created", http.MethodPost, "/users", http.StatusCreated, `{"user":{}}`, "INFO"},
		{"server error", http.MethodGet, "/profiles/jake", http.StatusInternalServerError, "", "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
				if tt.body != "" {
					_, _ = w.Write([]byte(tt.body))
				}
			})

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "http://test"+tt.path, nil)
			LoggingMiddleware(logger, next).ServeHTTP(rr, req)

			require.Equal(t, tt.handlerStatus, rr.Code)

			var entry struct {
				Level      string `json:"level"`
				Msg        string `json:"msg"`
				Method     string `json:"method"`
				Path       string `json:"path"`
				Status     int    `json:"status"`
				Bytes      int64  `json:"bytes"`
				DurationMS int64  `json:"duration_ms"`
			}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			require.Equal(t, "request", entry.Msg)
			require.Equal(t, tt.wantLevel, entry.Level)
			require.Equal(t, tt.method, entry.Method)
			require.Equal(t, tt.path, entry.Path)
			require.Equal(t, tt.handlerStatus, entry.Status)
			require.Equal(t, int64(len(tt.body)), entry.Bytes)
			require.GreaterOrEqual(t, entry.DurationMS, int64(0))
		})
	}
}

func TestLoggingMiddleware_DefaultStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://test/tags", nil)
	LoggingMiddleware(logger, next).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, buf.String(), `"status":200`)
	require.Contains(t, buf.String(), `"bytes":2`)
}
