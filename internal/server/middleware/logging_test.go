package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/keepsake/pkg/api"
)

func newBufferLogger() (*slog.Logger, *strings.Builder) {
	var logBuf strings.Builder
	logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	return logger, &logBuf
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		wantLevel      string
		expectedStatus int
	}{
		{name: "query ok", method: http.MethodPost, path: "/api/v1/query", expectedStatus: http.StatusOK, wantLevel: "INFO"},
		{name: "forbidden write", method: http.MethodPost, path: "/api/v1/write", expectedStatus: http.StatusForbidden, wantLevel: "WARN"},
		{name: "missing document", method: http.MethodPost, path: "/api/v1/write", expectedStatus: http.StatusNotFound, wantLevel: "WARN"},
		{name: "storage failure", method: http.MethodPost, path: "/api/v1/query", expectedStatus: http.StatusInternalServerError, wantLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logBuf := newBufferLogger()

			handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.expectedStatus)
				_, _ = w.Write([]byte("{}"))
			}))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.RemoteAddr = "192.168.1.1:12345"
			req.Header.Set("User-Agent", "keepsake/1.0")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			logOutput := logBuf.String()
			assert.Contains(t, logOutput, "HTTP request")
			assert.Contains(t, logOutput, tt.method)
			assert.Contains(t, logOutput, tt.path)
			assert.Contains(t, logOutput, "192.168.1.1:12345")
			assert.Contains(t, logOutput, "keepsake/1.0")
			assert.Contains(t, logOutput, "level="+tt.wantLevel)
		})
	}
}

func TestLoggingMiddleware_CapturesResponseMetrics(t *testing.T) {
	logger, logBuf := newBufferLogger()

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Hello, World!")) // 13 bytes
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/write", nil)
	req.Header.Set(api.HeaderIdempotencyKey, "k-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	logOutput := logBuf.String()
	assert.Contains(t, logOutput, "duration_ms")
	assert.Contains(t, logOutput, "bytes_written=13")
	assert.Contains(t, logOutput, "status=200")
	assert.Contains(t, logOutput, "idempotent=true")
	// Сам ключ не логируется
	assert.NotContains(t, logOutput, "k-1")
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	logger, logBuf := newBufferLogger()

	var seen string
	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(HeaderRequestID))
		assert.Contains(t, logBuf.String(), "request_id="+seen)
	})

	t.Run("propagated from client", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set(HeaderRequestID, "client-abc.1")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "client-abc.1", seen)
		assert.Equal(t, "client-abc.1", w.Header().Get(HeaderRequestID))
	})

	t.Run("unsafe client id replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set(HeaderRequestID, "bad id\nlevel=ERROR")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.NotEqual(t, "bad id\nlevel=ERROR", seen)
		assert.Len(t, seen, 36)
	})
}

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "query", input: "/api/v1/query", expected: "/api/v1/query"},
		{name: "blob file name masked", input: "/api/v1/blobs/users/alice/blobs/m1/beach.jpg", expected: "/api/v1/blobs/users/alice/blobs/m1/***"},
		{name: "blob prefix only", input: "/api/v1/blobs/", expected: "/api/v1/blobs/"},
		{name: "trailing slash", input: "/api/v1/blobs/users/alice/", expected: "/api/v1/blobs/users/alice/"},
		{name: "single segment", input: "/api/v1/blobs/x", expected: "/api/v1/blobs/***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizePath(tt.input))
		})
	}
}

func TestLoggingWithSkip(t *testing.T) {
	logger, logBuf := newBufferLogger()

	handler := LoggingWithSkip(logger, []string{"/api/v1/health"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	t.Run("Skipped path should not be logged", func(t *testing.T) {
		logBuf.Reset()

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, logBuf.String())
	})

	t.Run("Non-skipped path should be logged", func(t *testing.T) {
		logBuf.Reset()

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/query", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, logBuf.String(), "/api/v1/query")
	})
}

func TestResponseWriter(t *testing.T) {
	w := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	_, err := rw.Write([]byte("Hello, "))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rw.statusCode, "default status")

	rw.WriteHeader(http.StatusAccepted)
	_, err = rw.Write([]byte("World!"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusAccepted, rw.statusCode)
	assert.Equal(t, int64(13), rw.written)
	assert.Same(t, w, rw.Unwrap())
}
