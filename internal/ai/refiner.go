package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobmatch/internal/config"
	"jobmatch/internal/errors"
	"jobmatch/internal/types"
)

// refinePrompt embeds the seeker profile and one candidate. The labeled
// reply format is what ParseAssessment expects.
const refinePrompt = `You are a job matching assistant. Assess how well the following job fits the candidate profile.

Candidate profile:
- Education: %s
- Skills: %s
- Past job titles: %s
- Location: %s

Job:
- Title: %s
- Description: %s
- Requirements: %s
- Field: %s
- Education required: %s

Reply with exactly these four lines and nothing else:
Score: <integer between 0 and 100>
Reason: <one sentence explaining the fit>
Title Alignment: <Yes or No>
Qualified: <Yes, No or Partially>`

// RefineStats summarizes one refinement pass for metrics reporting.
type RefineStats struct {
	Calls       int
	Failures    int
	TotalTokens int64
	Elapsed     time.Duration
}

// Refiner adjusts the top rule-scored candidates with an external model
// assessment. Refinement is strictly best-effort: any per-candidate failure
// leaves that candidate's rule-based result untouched.
type Refiner struct {
	generator TextGenerator
	cfg       config.RefinerConfig
	logger    *errors.Logger
}

// NewRefiner wires a refiner to its text-generation backend.
func NewRefiner(generator TextGenerator, cfg config.RefinerConfig, logger *errors.Logger) *Refiner {
	return &Refiner{
		generator: generator,
		cfg:       cfg,
		logger:    logger,
	}
}

// Refine assesses the first min(topN, len) entries of an already rule-sorted
// slice, sequentially to bound upstream load, mutating entries in place.
// Callers must re-sort afterwards since blending changes scores.
func (r *Refiner) Refine(ctx context.Context, profile types.NormalizedProfile, scored []types.ScoredCandidate) RefineStats {
	var stats RefineStats
	start := time.Now()

	n := min(r.cfg.TopN, len(scored))
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			// Caller timeout: keep whatever rule-scored results remain.
			break
		}

		stats.Calls++
		reply, usage, err := r.generateOnce(ctx, profile, scored[i].Candidate)
		if err != nil {
			stats.Failures++
			r.logger.Debug("Refinement skipped for candidate",
				"candidate_id", scored[i].Candidate.ID,
				"error", err.Error())
			continue
		}
		if usage != nil {
			stats.TotalTokens += usage.TotalTokens
		}

		applyAssessment(&scored[i], ParseAssessment(reply))
	}

	stats.Elapsed = time.Since(start)
	return stats
}

// generateOnce runs a single generate call with the per-call timeout,
// permitting at most one silent retry.
func (r *Refiner) generateOnce(ctx context.Context, profile types.NormalizedProfile, c types.Candidate) (string, *TokenUsage, error) {
	prompt := buildPrompt(profile, c)

	attempts := 1
	if r.cfg.RetryOnce {
		attempts = 2
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		callCtx := ctx
		var cancel context.CancelFunc
		if r.cfg.PerCallTimeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, r.cfg.PerCallTimeout)
		}
		reply, usage, err := r.generator.Generate(callCtx, prompt)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return reply, usage, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", nil, lastErr
}

// applyAssessment blends one parsed assessment into a scored candidate. The
// model nudges the score only on title alignment and replaces the primary
// reason only at the extremes, where its signal is most informative.
func applyAssessment(sc *types.ScoredCandidate, a Assessment) {
	aiScore := a.Score
	sc.AIScore = &aiScore
	sc.AIReason = a.Reason

	if a.TitleAligned {
		sc.Score += a.Score / 5
	}
	if a.Reason != "" && (a.Score > 80 || a.Score < 30) {
		sc.PrimaryReason = a.Reason
	}
}

func buildPrompt(p types.NormalizedProfile, c types.Candidate) string {
	return fmt.Sprintf(refinePrompt,
		orNone(strings.Join(p.EducationKeywords, ", ")),
		orNone(strings.Join(p.SkillNames, ", ")),
		orNone(strings.Join(p.ExperienceTitles, ", ")),
		orNone(strings.Join(p.LocationTokens, ", ")),
		c.Title,
		orNone(c.Description),
		orNone(c.Requirements),
		orNone(c.Field),
		orNone(c.Education),
	)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not specified"
	}
	return s
}
