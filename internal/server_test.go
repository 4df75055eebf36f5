package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/2beens/gymstats/internal/auth"
	"github.com/2beens/gymstats/internal/config"
	"github.com/2beens/gymstats/internal/gymstats/session"
	"github.com/2beens/gymstats/internal/telemetry/metrics"
	"github.com/2beens/gymstats/pkg"

	"github.com/go-redis/redis_rate/v9"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFinisher struct {
	gotUserID uuid.UUID
}

func (f *stubFinisher) Finish(_ context.Context, userID uuid.UUID, _ session.FinishRequest) (*session.FinishResponse, error) {
	f.gotUserID = userID
	return &session.FinishResponse{SessionID: uuid.New()}, nil
}

type countingLimiter struct {
	allowed int
	calls   int
}

func (l *countingLimiter) Allow(_ context.Context, _ string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	l.calls++
	if l.calls > l.allowed {
		return &redis_rate.Result{Limit: limit, Allowed: 0, RetryAfter: time.Second}, nil
	}
	return &redis_rate.Result{Limit: limit, Allowed: 1, Remaining: l.allowed - l.calls}, nil
}

func newTestServer(t *testing.T) (*Server, *stubFinisher, *auth.LoginTestChecker, *countingLimiter) {
	t.Helper()

	finisher := &stubFinisher{}
	checker := auth.NewLoginTestChecker()
	limiter := &countingLimiter{allowed: 2}

	return &Server{
		config:         &config.Config{FinishRateLimitAllowedPerMin: 2},
		versionInfo:    "abc123",
		userChecker:    checker,
		rateLimiter:    limiter,
		sessionHandler: session.NewHandler(finisher),
		metricsManager: metrics.NewTestManager(),
	}, finisher, checker, limiter
}

func finishRequest(t *testing.T, token string) *http.Request {
	t.Helper()
	body, err := json.Marshal(session.FinishRequest{
		StartedAt: time.Date(2025, 3, 4, 18, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2025, 3, 4, 19, 0, 0, 0, time.UTC),
		Exercises: []session.ExerciseInput{
			{
				ExerciseID: pkg.Ptr(uuid.New()),
				Sets:       []session.SetInput{{ActualReps: pkg.Ptr(5), ActualWeight: pkg.Ptr(100.0)}},
			},
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/gymstats/sessions/finish", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "GymStats/1.0")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestServer_HealthAndVersion(t *testing.T) {
	server, _, _, _ := newTestServer(t)
	router := server.routerSetup()

	get := func(path string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("User-Agent", "curl/8.5.0")
		return req
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, get("/health"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, get("/version"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"version":"abc123"}`, rr.Body.String())
}

func TestServer_FinishSession(t *testing.T) {
	server, finisher, checker, _ := newTestServer(t)
	router := server.routerSetup()

	userID := uuid.New()
	checker.Sessions["tkn"] = userID

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, finishRequest(t, ""))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, finishRequest(t, "unknown"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, finishRequest(t, "tkn"))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, userID, finisher.gotUserID)

	var resp session.FinishResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.SessionID)

	assert.Equal(t, 1.0, testutil.ToFloat64(server.metricsManager.CounterRequests.WithLabelValues("POST", "200")))
}

func TestServer_FinishSession_RateLimited(t *testing.T) {
	server, _, checker, limiter := newTestServer(t)
	router := server.routerSetup()
	checker.Sessions["tkn"] = uuid.New()

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, finishRequest(t, "tkn"))
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, finishRequest(t, "tkn"))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, 3, limiter.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(server.metricsManager.CounterRateLimitedRequests))
}

func TestServer_UnknownPath(t *testing.T) {
	server, _, checker, _ := newTestServer(t)
	router := server.routerSetup()
	checker.Sessions["tkn"] = uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/gymstats/exercises", nil)
	req.Header.Set("User-Agent", "GymStats/1.0")
	req.Header.Set("Authorization", "Bearer tkn")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
