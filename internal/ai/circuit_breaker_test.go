package ai

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"google.golang.org/genai"

	"jobmatch/internal/config"
	jobmatchErrors "jobmatch/internal/errors"
)

func breakerConfig(enabled bool) *config.AIConfig {
	return &config.AIConfig{
		Provider: "gemini",
		Model:    "gemini-2.0-flash-lite",
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          enabled,
			MaxRequests:      3,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			MinRequests:      3,
			FailureThreshold: 0.6,
		},
	}
}

func TestGenerateBreakerStats(t *testing.T) {
	logger := jobmatchErrors.NewLogger(slog.LevelError)
	cb := NewGenerateBreaker(breakerConfig(true), logger)
	if cb == nil {
		t.Fatal("expected a breaker when enabled")
	}

	stats := cb.GetStats()

	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("circuit breaker name not found")
	}
	if name != "AI-refine" {
		t.Errorf("expected circuit breaker name 'AI-refine', got '%s'", name)
	}

	state, ok := stats["state"].(string)
	if !ok {
		t.Fatal("circuit breaker state not found")
	}
	if state != "closed" {
		t.Errorf("expected initial state 'closed', got '%s'", state)
	}

	enabled, ok := stats["enabled"].(bool)
	if !ok || !enabled {
		t.Error("expected enabled=true in stats")
	}

	if !cb.IsHealthy() {
		t.Error("expected a fresh breaker to be healthy")
	}
}

func TestGenerateBreakerDisabled(t *testing.T) {
	logger := jobmatchErrors.NewLogger(slog.LevelError)
	cb := NewGenerateBreaker(breakerConfig(false), logger)
	if cb != nil {
		t.Fatal("expected nil breaker when disabled")
	}

	// A nil breaker executes calls directly and reports as healthy.
	stats := cb.GetStats()
	if enabled, _ := stats["enabled"].(bool); enabled {
		t.Error("expected enabled=false in nil breaker stats")
	}
	if !cb.IsHealthy() {
		t.Error("expected nil breaker to be healthy")
	}

	wantErr := errors.New("upstream failed")
	_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected passthrough error, got %v", err)
	}
}

func TestModelBreakerStats(t *testing.T) {
	logger := jobmatchErrors.NewLogger(slog.LevelError)
	cb := NewModelBreaker(breakerConfig(true), logger)
	if cb == nil {
		t.Fatal("expected a breaker when enabled")
	}

	stats := cb.GetModelStats()
	if name, _ := stats["name"].(string); name != "AI-model" {
		t.Errorf("expected circuit breaker name 'AI-model', got '%s'", name)
	}
	if !cb.IsModelHealthy() {
		t.Error("expected a fresh model breaker to be healthy")
	}

	var disabled *ModelBreaker
	if !disabled.IsModelHealthy() {
		t.Error("expected nil model breaker to be healthy")
	}
	if enabled, _ := disabled.GetModelStats()["enabled"].(bool); enabled {
		t.Error("expected enabled=false in nil model breaker stats")
	}
}

func TestGenerateBreakerCounts(t *testing.T) {
	logger := jobmatchErrors.NewLogger(slog.LevelError)
	cb := NewGenerateBreaker(breakerConfig(true), logger)

	_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		return nil, errors.New("transient failure")
	})
	if err == nil {
		t.Fatal("expected error from failing call")
	}

	// One failure against MinRequests=3 must not trip the breaker.
	if !cb.IsHealthy() {
		t.Error("breaker tripped below the minimum request count")
	}
}
