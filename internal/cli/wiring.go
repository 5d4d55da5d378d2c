package cli

import (
	"fmt"

	"jobmatch/internal/ai"
	"jobmatch/internal/catalog"
	"jobmatch/internal/config"
	"jobmatch/internal/engine"
	"jobmatch/internal/errors"
)

// components holds the wired ranking stack shared by the recommend and serve
// commands.
type components struct {
	Pipeline  *engine.Pipeline
	Store     *engine.MemoryStore
	Fallback  *catalog.Fallback
	AIService *ai.Service // nil when the refiner is disabled
}

// buildComponents wires the stores, fallback catalog, optional refiner and
// pipeline from configuration. seedFile overrides cfg.App.StoreSeedFile when
// non-empty.
func buildComponents(cfg *config.Config, logger *errors.Logger, seedFile string, metrics engine.Metrics) (*components, error) {
	store := engine.NewMemoryStore()

	if seedFile == "" {
		seedFile = cfg.App.StoreSeedFile
	}
	if seedFile != "" {
		if err := store.LoadSeedFile(seedFile); err != nil {
			return nil, fmt.Errorf("failed to load seed file: %w", err)
		}
		logger.Info("Store seeded", "file", seedFile)
	}

	fallback, err := catalog.NewFallback(cfg.Catalog.FallbackFile, cfg.Catalog.WatchFallbackFile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize fallback catalog: %w", err)
	}

	var aiService *ai.Service
	var refiner *ai.Refiner
	if cfg.Refiner.Enabled {
		aiService, err = ai.NewService(&cfg.AI, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create AI service: %w", err)
		}
		refiner = ai.NewRefiner(aiService.Generator, cfg.Refiner, logger)
	}

	pipeline := engine.NewPipeline(store, store, fallback, logger, engine.Options{
		Refiner:           refiner,
		Metrics:           metrics,
		TemplateThreshold: cfg.Catalog.TemplatePoolThreshold,
	})

	return &components{
		Pipeline:  pipeline,
		Store:     store,
		Fallback:  fallback,
		AIService: aiService,
	}, nil
}

// Close releases resources held by the wired components.
func (c *components) Close() {
	if c.Fallback != nil {
		c.Fallback.Close()
	}
	if c.AIService != nil {
		_ = c.AIService.Close()
	}
}
