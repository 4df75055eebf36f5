package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAllowedOrigins = []string{"https://gymstats.app/", "http://localhost:8080"}

func TestCorsMiddleware(t *testing.T) {
	testCases := []struct {
		name           string
		origin         string
		userAgent      string
		path           string
		expectedOrigin string
		expectedStatus int
	}{
		{
			name:           "AllowedOrigin",
			origin:         "https://gymstats.app",
			path:           "/gymstats/sessions/finish",
			expectedOrigin: "https://gymstats.app",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "ConfiguredOriginWithoutSlash",
			origin:         "http://localhost:8080",
			path:           "/gymstats/sessions/finish",
			expectedOrigin: "http://localhost:8080",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "NotAllowedOrigin",
			origin:         "https://www.notallowed.com",
			path:           "/gymstats/sessions/finish",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "AllowedUserAgent",
			userAgent:      "GymStats/1.0",
			path:           "/gymstats/sessions/finish",
			expectedOrigin: "*",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "NotAllowedUserAgent",
			userAgent:      "UnknownAgent/1.0",
			path:           "/gymstats/sessions/finish",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "MCPWithoutOrigin",
			userAgent:      "unknown-agent",
			path:           "/mcp",
			expectedOrigin: "*",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req, err := http.NewRequest("GET", tc.path, nil)
			require.NoError(t, err)
			req.Header.Set("Origin", tc.origin)
			req.Header.Set("User-Agent", tc.userAgent)

			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
			handler := Cors(testAllowedOrigins)(nextHandler)

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Unexpected status code")
			assert.Equal(t, tc.expectedOrigin, rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCorsMiddleware_Preflight(t *testing.T) {
	called := false
	handler := Cors(testAllowedOrigins)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/gymstats/sessions/finish", nil)
	req.Header.Set("Origin", "https://gymstats.app")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Headers"), TokenHeader)
	assert.Equal(t, "Origin", rr.Header().Get("Vary"))
}
