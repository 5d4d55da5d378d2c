package server

import (
	"context"
	"sync"
	"time"

	"jobmatch/internal/ai"
	"jobmatch/internal/config"
	"jobmatch/internal/engine"
	jobmatchErrors "jobmatch/internal/errors"
	"jobmatch/internal/types"
)

// RecommendRequest represents the request body for the recommendations endpoint
type RecommendRequest struct {
	UserID     string `json:"userId"`
	IsEmployer bool   `json:"isEmployer"`
	Refresh    bool   `json:"refresh,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Recommender produces ranked recommendations for one user.
// *engine.Pipeline is the production implementation.
type Recommender interface {
	Recommend(ctx context.Context, userID string, isEmployer bool) (types.Recommendations, error)
	Refresh(ctx context.Context, userID string, isEmployer bool) (types.Recommendations, error)
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// Ranking pipeline and its collaborators
	Pipeline  Recommender
	Store     *engine.MemoryStore
	AIService *ai.Service // nil when the refiner is disabled

	// API Authentication. Keys can rotate at runtime via the Vault watcher.
	keyMu   sync.RWMutex
	apiKeys map[string]bool

	// Vault-backed API key rotation
	KeyWatcher *APIKeyWatcher

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Logger
	Logger *jobmatchErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, pipeline Recommender, store *engine.MemoryStore, aiService *ai.Service, logger *jobmatchErrors.Logger) *Server {
	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	s := &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		Pipeline:       pipeline,
		Store:          store,
		AIService:      aiService,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
	s.UpdateAPIKeys(cfg.APIKeys)
	return s
}

// UpdateAPIKeys replaces the accepted API key set. Called at startup and
// whenever the Vault watcher observes a rotation.
func (s *Server) UpdateAPIKeys(keys []string) {
	keyMap := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key != "" {
			keyMap[key] = true
		}
	}

	s.keyMu.Lock()
	s.apiKeys = keyMap
	s.keyMu.Unlock()
}

// hasAPIKey reports whether the given key is currently accepted.
func (s *Server) hasAPIKey(key string) bool {
	s.keyMu.RLock()
	defer s.keyMu.RUnlock()
	return s.apiKeys[key]
}

// apiKeyCount returns the number of configured API keys.
func (s *Server) apiKeyCount() int {
	s.keyMu.RLock()
	defer s.keyMu.RUnlock()
	return len(s.apiKeys)
}
