package main

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hireme/internal/platform/config"
	"hireme/pkg/testutil"
)

func testConfig() config.Server {
	return config.Server{
		Environment:   config.EnvDevelopment,
		JWTSigningKey: "router-test-key",
		JWTIssuer:     "hireme",
		JWTTTL:        time.Hour,
		RateLimit:     config.RateLimitConfig{Requests: 1000, Window: time.Minute},
	}
}

func testRouter(cfg config.Server) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newRouter(cfg, logger, infra{}, telemetry{})
}

func register(t *testing.T, router http.Handler, body map[string]any) string {
	t.Helper()
	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/auth/register", body))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	token, ok := testutil.Data(t, rr)["token"].(string)
	require.True(t, ok, "token missing from register response")
	return token
}

func authed(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestHealth(t *testing.T) {
	router := testRouter(testConfig())
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/health"))

	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "message", "Hire Me API is running successfully!")
	data := testutil.Data(t, rr)
	assert.Equal(t, "OK", data["status"])
	assert.Equal(t, "memory", data["database"])
}

func TestUnknownRoute(t *testing.T) {
	router := testRouter(testConfig())
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/nowhere"))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	testutil.AssertJSONContains(t, rr, "message", "Route not found")
}

func TestOversizedPageIsAValidationError(t *testing.T) {
	router := testRouter(testConfig())
	for _, path := range []string{
		"/api/jobs?page=9223372036854775807&limit=10",
		"/api/jobs?page=922337203685477580&limit=100",
	} {
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, path))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	}
}

func TestHiringFlow(t *testing.T) {
	router := testRouter(testConfig())

	employer := register(t, router, map[string]any{
		"name": "Erin", "email": "erin@acme.test", "password": "secret123",
		"role": "employer", "company": "Acme",
	})
	seeker := register(t, router, map[string]any{
		"name": "Sam", "email": "sam@example.com", "password": "secret123",
	})

	rr := testutil.DoRequest(router, authed(testutil.NewJSONRequest(t, http.MethodPost, "/api/jobs", map[string]any{
		"title": "Backend Engineer", "description": "Build APIs in Go",
		"company": "Acme", "location": "Remote", "jobType": "full-time", "workMode": "remote",
	}), employer))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	jobID := testutil.Data(t, rr)["job"].(map[string]any)["id"].(string)

	// seekers cannot post jobs
	rr = testutil.DoRequest(router, authed(testutil.NewJSONRequest(t, http.MethodPost, "/api/jobs", map[string]any{
		"title": "x", "description": "y", "company": "z", "location": "w",
	}), seeker))
	testutil.AssertStatus(t, rr, http.StatusForbidden)

	apply := map[string]any{
		"jobId":       jobID,
		"coverLetter": strings.Repeat("I would love to join the team. ", 3),
	}
	rr = testutil.DoRequest(router, authed(testutil.NewJSONRequest(t, http.MethodPost, "/api/applications", apply), seeker))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	rr = testutil.DoRequest(router, authed(testutil.NewJSONRequest(t, http.MethodPost, "/api/applications", apply), seeker))
	testutil.AssertStatus(t, rr, http.StatusConflict)

	rr = testutil.DoRequest(router, authed(testutil.NewRequest(t, http.MethodGet, "/api/applications/job/"+jobID), employer))
	testutil.AssertStatusOK(t, rr)
	assert.Len(t, testutil.Data(t, rr)["applications"], 1)

	rr = testutil.DoRequest(router, authed(testutil.NewRequest(t, http.MethodGet, "/api/auth/stats"), employer))
	testutil.AssertStatusOK(t, rr)
	stats := testutil.Data(t, rr)["employer"].(map[string]any)
	assert.Equal(t, float64(1), stats["totalJobs"])
	assert.Equal(t, float64(1), stats["totalApplications"])
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Requests = 2
	router := testRouter(cfg)

	for range 2 {
		testutil.AssertStatusOK(t, testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/health")))
	}
	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/health"))
	testutil.AssertStatus(t, rr, http.StatusTooManyRequests)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))

	// /metrics sits outside the limited subtree
	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
	testutil.AssertStatusOK(t, rr)
}
