package ai

import (
	"context"
	"fmt"

	"jobmatch/internal/config"
	"jobmatch/internal/errors"
)

// Service owns the text-generation backend used by the refiner.
type Service struct {
	Generator TextGenerator // Exported for access from server package
	config    *config.AIConfig
	logger    *errors.Logger
}

// NewService creates a new AI service instance for the configured provider.
func NewService(cfg *config.AIConfig, logger *errors.Logger) (*Service, error) {
	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"temperature", cfg.Temperature,
		"timeout", cfg.Timeout,
		"max_retries", cfg.MaxRetries)

	var generator TextGenerator
	var err error

	switch cfg.Provider {
	case "gemini":
		generator, err = NewGeminiProvider(cfg, logger)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeUnsupportedModel,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return &Service{
		Generator: generator,
		config:    cfg,
		logger:    logger,
	}, nil
}

// GetModelInfo returns information about the AI model for health checks.
func (s *Service) GetModelInfo(ctx context.Context) *ModelInfo {
	return s.Generator.GetModelInfo(ctx)
}

// Close releases the underlying provider.
func (s *Service) Close() error {
	return s.Generator.Close()
}
