package observability

import (
	"context"
	"time"

	"jobmatch/internal/ai"
	"jobmatch/internal/engine"
)

// PipelineMetrics bridges the ranking pipeline to the OpenTelemetry
// instruments owned by the ObservabilityManager.
type PipelineMetrics struct {
	om *ObservabilityManager
}

var _ engine.Metrics = (*PipelineMetrics)(nil)

// NewPipelineMetrics creates a metrics recorder for the ranking pipeline.
func NewPipelineMetrics(om *ObservabilityManager) *PipelineMetrics {
	return &PipelineMetrics{om: om}
}

// RecordRun records one completed ranking run.
func (pm *PipelineMetrics) RecordRun(ctx context.Context, isEmployer bool, state engine.State, candidates int, fallback bool, elapsed time.Duration) {
	if pm == nil || pm.om == nil {
		return
	}
	pm.om.GetMetrics().RecordRanking(ctx, pm.om, isEmployer, string(state), candidates, fallback, elapsed)
}

// RecordRefinement records the outcome of one AI refinement pass.
func (pm *PipelineMetrics) RecordRefinement(ctx context.Context, stats ai.RefineStats) {
	if pm == nil || pm.om == nil {
		return
	}
	pm.om.GetMetrics().RecordRefinement(ctx, pm.om, stats.Calls, stats.Failures, stats.TotalTokens, stats.Elapsed)
}
