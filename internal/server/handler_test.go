package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobmatch/internal/config"
	"jobmatch/internal/errors"
	"jobmatch/internal/observability"
	"jobmatch/internal/types"
)

// stubRecommender returns a canned result and records how it was invoked.
type stubRecommender struct {
	result      types.Recommendations
	err         error
	lastUserID  string
	lastRefresh bool
}

func (s *stubRecommender) Recommend(ctx context.Context, userID string, isEmployer bool) (types.Recommendations, error) {
	s.lastUserID = userID
	s.lastRefresh = false
	return s.result, s.err
}

func (s *stubRecommender) Refresh(ctx context.Context, userID string, isEmployer bool) (types.Recommendations, error) {
	s.lastUserID = userID
	s.lastRefresh = true
	return s.result, s.err
}

func testConfig() *config.Config {
	return &config.Config{
		Observability: config.ObservabilityConfig{
			HealthCheck: config.HealthCheckConfig{
				Timeout: 5 * time.Second,
			},
		},
	}
}

func testObservability(t *testing.T) *observability.ObservabilityManager {
	t.Helper()
	om, err := observability.NewObservabilityManager(observability.ObservabilityConfig{Enabled: false}, testConfig())
	if err != nil {
		t.Fatalf("NewObservabilityManager: %v", err)
	}
	return om
}

func testServer(rec Recommender, apiKeys []string, rl *config.RateLimitConfig) *Server {
	return NewServer(testConfig(), ServerConfig{
		Host:           "localhost",
		Port:           "0",
		Version:        "test",
		APIKeys:        apiKeys,
		MaxRequestSize: 1 << 20,
		RateLimit:      rl,
	}, rec, nil, nil, errors.NewLogger(slog.LevelError))
}

func postRecommendations(t *testing.T, handler http.HandlerFunc, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/recommendations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestRecommendationsHandler(t *testing.T) {
	rec := &stubRecommender{result: types.Recommendations{
		Candidates: []types.ScoredCandidate{
			{Candidate: types.Candidate{ID: "p1", Title: "Nurse"}, Score: 47},
		},
		JobTitlesUsed: []string{"Nurse"},
	}}
	s := testServer(rec, nil, nil)
	handler := s.createRecommendationsHandler(testObservability(t))

	rr := postRecommendations(t, handler, `{"userId":"seeker-1"}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if rec.lastUserID != "seeker-1" {
		t.Errorf("pipeline saw user %q, want seeker-1", rec.lastUserID)
	}

	var got types.Recommendations
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.Candidates) != 1 || got.Candidates[0].Score != 47 {
		t.Errorf("unexpected candidates in response: %+v", got.Candidates)
	}
}

func TestRecommendationsHandlerRefresh(t *testing.T) {
	rec := &stubRecommender{}
	s := testServer(rec, nil, nil)
	handler := s.createRecommendationsHandler(testObservability(t))

	rr := postRecommendations(t, handler, `{"userId":"seeker-1","refresh":true}`, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !rec.lastRefresh {
		t.Error("expected the refresh path to be used")
	}
}

func TestRecommendationsHandlerMissingUserID(t *testing.T) {
	s := testServer(&stubRecommender{}, nil, nil)
	handler := s.createRecommendationsHandler(testObservability(t))

	rr := postRecommendations(t, handler, `{"userId":"  "}`, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Error != "Missing user id" {
		t.Errorf("error = %q, want %q", resp.Error, "Missing user id")
	}
}

func TestRecommendationsHandlerRejectsWrongContentType(t *testing.T) {
	s := testServer(&stubRecommender{}, nil, nil)
	handler := s.createRecommendationsHandler(testObservability(t))

	req := httptest.NewRequest(http.MethodPost, "/recommendations", strings.NewReader(`{"userId":"u"}`))
	req.Header.Set("Content-Type", "text/plain")
	rr := httptest.NewRecorder()
	handler(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestRecommendationsHandlerMethodNotAllowed(t *testing.T) {
	s := testServer(&stubRecommender{}, nil, nil)
	handler := s.createRecommendationsHandler(testObservability(t))

	req := httptest.NewRequest(http.MethodGet, "/recommendations", nil)
	rr := httptest.NewRecorder()
	handler(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := testServer(&stubRecommender{}, []string{"valid-key-12345"}, nil)
	next := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	handler := s.authMiddleware(next)

	tests := []struct {
		name   string
		header map[string]string
		want   int
	}{
		{"missing key", nil, http.StatusUnauthorized},
		{"invalid key", map[string]string{"X-API-Key": "wrong"}, http.StatusUnauthorized},
		{"valid header key", map[string]string{"X-API-Key": "valid-key-12345"}, http.StatusOK},
		{"valid bearer token", map[string]string{"Authorization": "Bearer valid-key-12345"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/recommendations", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			handler(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestAuthMiddlewareOpenWhenNoKeys(t *testing.T) {
	s := testServer(&stubRecommender{}, nil, nil)
	handler := s.authMiddleware(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/recommendations", nil)
	rr := httptest.NewRecorder()
	handler(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestUpdateAPIKeysRotation(t *testing.T) {
	s := testServer(&stubRecommender{}, []string{"old-key"}, nil)

	if !s.hasAPIKey("old-key") {
		t.Fatal("old key should be accepted before rotation")
	}

	s.UpdateAPIKeys([]string{"new-key"})

	if s.hasAPIKey("old-key") {
		t.Error("old key should be rejected after rotation")
	}
	if !s.hasAPIKey("new-key") {
		t.Error("new key should be accepted after rotation")
	}
}

func TestRateLimitMiddlewareRejectsBurst(t *testing.T) {
	rl := &config.RateLimitConfig{
		Enabled:        true,
		RequestsPerMin: 1,
		BurstCapacity:  1,
		ByIP:           true,
	}
	s := testServer(&stubRecommender{}, nil, rl)
	defer s.RateLimiter.Close()

	handler := s.createRateLimitMiddleware(testObservability(t))(
		func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) },
	)

	req := httptest.NewRequest(http.MethodPost, "/recommendations", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rr := httptest.NewRecorder()
	handler(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want %d", rr.Code, http.StatusOK)
	}

	rr = httptest.NewRecorder()
	handler(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want %d", rr.Code, http.StatusTooManyRequests)
	}
}

func TestHealthHandlerWithoutRefiner(t *testing.T) {
	s := testServer(&stubRecommender{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	s.healthHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode health response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", resp["status"])
	}
	if resp["service"] != "jobmatch" {
		t.Errorf("service = %v, want jobmatch", resp["service"])
	}
}

func TestStatsHandlerReportsRateLimitConfig(t *testing.T) {
	rl := &config.RateLimitConfig{
		Enabled:        true,
		RequestsPerMin: 60,
		BurstCapacity:  10,
		ByIP:           true,
	}
	s := testServer(&stubRecommender{}, nil, rl)
	defer s.RateLimiter.Close()

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rr := httptest.NewRecorder()
	s.statsHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode stats response: %v", err)
	}
	if _, ok := resp["rate_limiting"]; !ok {
		t.Error("expected rate_limiting stats in response")
	}
	cfg, ok := resp["rate_limit_config"].(map[string]any)
	if !ok {
		t.Fatal("expected rate_limit_config in response")
	}
	if cfg["requests_per_min"] != float64(60) {
		t.Errorf("requests_per_min = %v, want 60", cfg["requests_per_min"])
	}
}
