package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobmatch/internal/ai"
	"jobmatch/internal/catalog"
	"jobmatch/internal/errors"
	"jobmatch/internal/profile"
	"jobmatch/internal/scoring"
	"jobmatch/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// State names the stages of a ranking run.
type State string

const (
	StateIdle        State = "idle"
	StateNormalizing State = "normalizing"
	StateAggregating State = "aggregating"
	StateScoring     State = "scoring"
	StateRefining    State = "refining"
	StateSorting     State = "sorting"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// softErrUnavailable is the banner text surfaced when stores are unreachable
// and the run recovered with substituted results.
const softErrUnavailable = "Job data is temporarily unavailable; showing example opportunities instead."

// Metrics receives per-run measurements. A nil Metrics is a no-op.
type Metrics interface {
	RecordRun(ctx context.Context, isEmployer bool, state State, candidates int, fallback bool, elapsed time.Duration)
	RecordRefinement(ctx context.Context, stats ai.RefineStats)
}

// Pipeline implements the ranking run end to end. One Pipeline serves many
// concurrent runs; all per-run state lives on the stack.
type Pipeline struct {
	profiles          ProfileStore
	postings          PostingStore
	fallback          *catalog.Fallback
	refiner           *ai.Refiner
	templateThreshold int
	logger            *errors.Logger
	metrics           Metrics
}

// Options configures optional pipeline collaborators.
type Options struct {
	Refiner           *ai.Refiner // nil disables refinement
	Metrics           Metrics     // nil disables measurements
	TemplateThreshold int         // 0 uses the catalog default
}

// NewPipeline wires the pipeline to its stores and fallback catalog.
func NewPipeline(profiles ProfileStore, postings PostingStore, fallback *catalog.Fallback, logger *errors.Logger, opts Options) *Pipeline {
	threshold := opts.TemplateThreshold
	if threshold <= 0 {
		threshold = catalog.TemplatePoolThreshold
	}
	return &Pipeline{
		profiles:          profiles,
		postings:          postings,
		fallback:          fallback,
		refiner:           opts.Refiner,
		templateThreshold: threshold,
		logger:            logger,
		metrics:           opts.Metrics,
	}
}

// SetMetrics attaches a metrics recorder after construction. Must be called
// before the pipeline starts serving runs.
func (p *Pipeline) SetMetrics(m Metrics) {
	p.metrics = m
}

// Recommend runs the full ranking pipeline for one user. The only hard
// failure is a missing user id; every data-layer problem is recovered into a
// soft-error result so callers always receive a candidate list.
func (p *Pipeline) Recommend(ctx context.Context, userID string, isEmployer bool) (types.Recommendations, error) {
	tracer := otel.Tracer("jobmatch.engine")
	ctx, span := tracer.Start(ctx, "pipeline.recommend")
	defer span.End()

	span.SetAttributes(
		attribute.Bool("rank.is_employer", isEmployer),
	)

	if userID == "" {
		span.SetAttributes(attribute.String("rank.state", string(StateFailed)))
		return types.Recommendations{}, errors.NewValidationError(errors.ErrCodeMissingUserID,
			"userId is required", nil)
	}

	start := time.Now()
	state := StateIdle
	usedFallback := false
	served := 0

	defer func() {
		if p.metrics != nil {
			p.metrics.RecordRun(ctx, isEmployer, state, served, usedFallback, time.Since(start))
		}
	}()

	state = StateNormalizing
	norm, pool, fetchErr := p.fetchAndPrepare(ctx, userID, isEmployer)
	if fetchErr != nil {
		state = StateFailed
		p.logger.Warn("Ranking run recovered from data failure",
			"user_id", userID,
			"is_employer", isEmployer,
			"error", fetchErr.Error())
		usedFallback = !isEmployer
		recovered := p.recoverResult(norm, isEmployer)
		served = len(recovered.Candidates)
		return recovered, nil
	}

	if len(pool) == 0 {
		if isEmployer {
			state = StateDone
			return types.Recommendations{Candidates: []types.ScoredCandidate{}}, nil
		}
		usedFallback = true
		pool = p.fallback.Candidates(norm)
	}

	state = StateScoring
	scored := scoring.ScoreAll(norm, pool)

	state = StateSorting
	sortByScore(scored)

	if p.refiner != nil && !usedFallback && len(scored) > 0 {
		state = StateRefining
		stats := p.refiner.Refine(ctx, norm, scored)
		if p.metrics != nil {
			p.metrics.RecordRefinement(ctx, stats)
		}
		// Blending changes scores; restore the ordering invariant.
		sortByScore(scored)
	}

	state = StateDone
	served = len(scored)
	span.SetAttributes(
		attribute.String("rank.state", string(StateDone)),
		attribute.Int("rank.candidates", len(scored)),
		attribute.Bool("rank.fallback", usedFallback),
	)

	result := types.Recommendations{
		Candidates:    scored,
		JobTitlesUsed: collectTitles(scored),
	}
	if usedFallback {
		result.SoftError = softErrUnavailable
	}
	return result, nil
}

// Refresh is a forced re-run with the identical contract. There is no cache
// layer, so it delegates; the separate name keeps the caller's intent
// visible in traces and logs.
func (p *Pipeline) Refresh(ctx context.Context, userID string, isEmployer bool) (types.Recommendations, error) {
	return p.Recommend(ctx, userID, isEmployer)
}

// fetchAndPrepare issues the independent store reads concurrently, then
// normalizes and aggregates. Any store error aborts preparation; the partial
// normalized profile is still returned so fallback selection can use it.
func (p *Pipeline) fetchAndPrepare(ctx context.Context, userID string, isEmployer bool) (types.NormalizedProfile, []types.Candidate, error) {
	var (
		in        profile.Input
		postings  []types.RawPosting
		templates []types.RawTemplate
	)

	var wg sync.WaitGroup
	errs := make([]error, 8)

	fetch := func(slot int, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[slot] = fn()
		}()
	}

	fetch(0, func() (err error) { in.Profile, err = p.profiles.GetProfile(ctx, userID); return })
	fetch(1, func() (err error) { in.Skills, err = p.profiles.GetResumeSkills(ctx, userID); return })
	fetch(2, func() (err error) { in.Education, err = p.profiles.GetEducation(ctx, userID); return })
	fetch(3, func() (err error) { in.Experience, err = p.profiles.GetWorkExperience(ctx, userID); return })
	fetch(4, func() (err error) { in.Certificates, err = p.profiles.GetCertificates(ctx, userID); return })
	fetch(5, func() (err error) { in.References, err = p.profiles.GetReferences(ctx, userID); return })
	fetch(6, func() (err error) { postings, err = p.postings.ListPostings(ctx); return })
	fetch(7, func() (err error) { templates, err = p.postings.ListTemplates(ctx); return })
	wg.Wait()

	norm := profile.Normalize(userID, in)

	for _, err := range errs {
		if err != nil {
			return norm, nil, errors.NewDataError(errors.ErrCodeDataUnavailable,
				"Upstream store read failed", err)
		}
	}

	pool := catalog.Aggregate(postings, templates, isEmployer, p.templateThreshold)
	return norm, pool, nil
}

// recoverResult builds the substituted output after a data failure: the
// fallback catalog for seekers, an empty list for employers.
func (p *Pipeline) recoverResult(norm types.NormalizedProfile, isEmployer bool) types.Recommendations {
	if isEmployer {
		return types.Recommendations{
			Candidates: []types.ScoredCandidate{},
			SoftError:  softErrUnavailable,
		}
	}

	scored := scoring.ScoreAll(norm, p.fallback.Candidates(norm))
	sortByScore(scored)
	return types.Recommendations{
		Candidates:    scored,
		JobTitlesUsed: collectTitles(scored),
		SoftError:     softErrUnavailable,
	}
}

// sortByScore sorts descending by score. The sort is stable so ties keep
// aggregation order, which keeps repeated runs byte-for-byte reproducible.
func sortByScore(scored []types.ScoredCandidate) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
}

// collectTitles lists the distinct candidate titles in result order.
func collectTitles(scored []types.ScoredCandidate) []string {
	seen := make(map[string]bool, len(scored))
	titles := make([]string, 0, len(scored))
	for _, sc := range scored {
		if sc.Title == "" || seen[sc.Title] {
			continue
		}
		seen[sc.Title] = true
		titles = append(titles, sc.Title)
	}
	return titles
}
