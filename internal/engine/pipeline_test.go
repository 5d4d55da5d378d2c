package engine

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"testing"

	"jobmatch/internal/ai"
	"jobmatch/internal/catalog"
	"jobmatch/internal/config"
	"jobmatch/internal/errors"
	"jobmatch/internal/types"
)

func testLogger() *errors.Logger {
	return errors.NewLogger(slog.LevelError)
}

func testFallback(t *testing.T) *catalog.Fallback {
	t.Helper()
	fb, err := catalog.NewFallback("", false, testLogger())
	if err != nil {
		t.Fatalf("NewFallback: %v", err)
	}
	return fb
}

func seededStore() *MemoryStore {
	store := NewMemoryStore()
	store.PutProfile(&types.RawProfile{
		UserID:   "seeker-1",
		City:     "Quezon City",
		Province: "NCR",
		Country:  "Philippines",
	})
	store.PutUserRecords("seeker-1",
		[]types.RawSkill{{Name: "Patient Care"}},
		[]types.RawEducation{{Degree: "Bachelor of Science in Nursing"}},
		nil, nil, nil)
	store.SetPostings([]types.RawPosting{
		{ID: "p1", Title: "Registered Nurse", Company: "St. Luke's", Location: "Quezon City, Philippines",
			Description: "Provide patient care", Field: "Healthcare", Education: "BSN required"},
		{ID: "p2", Title: "Sales Associate", Company: "RetailCo", Location: "Cebu City, Philippines",
			Description: "Assist customers"},
	})
	return store
}

func TestRecommendMissingUserID(t *testing.T) {
	store := NewMemoryStore()
	p := NewPipeline(store, store, testFallback(t), testLogger(), Options{})

	_, err := p.Recommend(context.Background(), "", false)
	if err == nil {
		t.Fatal("expected hard error for missing userId")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("error type = %T, want *errors.AppError", err)
	}
	if appErr.Code != errors.ErrCodeMissingUserID {
		t.Errorf("Code = %q, want %q", appErr.Code, errors.ErrCodeMissingUserID)
	}
}

func TestRecommendDeterminism(t *testing.T) {
	store := seededStore()
	p := NewPipeline(store, store, testFallback(t), testLogger(), Options{})

	first, err := p.Recommend(context.Background(), "seeker-1", false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for run := 0; run < 5; run++ {
		again, err := p.Recommend(context.Background(), "seeker-1", false)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\nfirst: %+v\nagain: %+v", run, first, again)
		}
	}

	if first.Candidates[0].ID != "p1" {
		t.Errorf("top candidate = %s, want p1 (highest rule score)", first.Candidates[0].ID)
	}
	if first.SoftError != "" {
		t.Errorf("SoftError = %q, want empty", first.SoftError)
	}
}

func TestRecommendEmployerEmptyPool(t *testing.T) {
	store := NewMemoryStore()
	store.PutProfile(&types.RawProfile{UserID: "emp-1"})
	store.SetTemplates([]types.RawTemplate{{ID: "t1", Title: "Template Job"}})

	p := NewPipeline(store, store, testFallback(t), testLogger(), Options{})

	got, err := p.Recommend(context.Background(), "emp-1", true)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got.Candidates) != 0 {
		t.Errorf("Candidates = %d, want 0 (no template padding for employers)", len(got.Candidates))
	}
	if got.SoftError != "" {
		t.Errorf("SoftError = %q, want empty for a clean employer run", got.SoftError)
	}
}

func TestRecommendSeekerEmptyPoolFallback(t *testing.T) {
	store := NewMemoryStore()
	store.PutProfile(&types.RawProfile{UserID: "seeker-2"})

	p := NewPipeline(store, store, testFallback(t), testLogger(), Options{})

	got, err := p.Recommend(context.Background(), "seeker-2", false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got.Candidates) == 0 {
		t.Fatal("expected fallback candidates for a seeker with an empty pool")
	}
	for _, c := range got.Candidates {
		if c.Source != types.SourceFallback {
			t.Errorf("candidate %s Source = %q, want %q", c.ID, c.Source, types.SourceFallback)
		}
	}
	if got.SoftError == "" {
		t.Error("expected a soft error banner on the fallback path")
	}
}

func TestRecommendTemplatePadding(t *testing.T) {
	store := NewMemoryStore()
	store.PutProfile(&types.RawProfile{UserID: "seeker-3"})
	store.SetPostings([]types.RawPosting{{ID: "p1", Title: "Only Posting"}})
	store.SetTemplates([]types.RawTemplate{{ID: "t1", Title: "Template Job"}})

	p := NewPipeline(store, store, testFallback(t), testLogger(), Options{})

	got, err := p.Recommend(context.Background(), "seeker-3", false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got.Candidates) != 2 {
		t.Fatalf("Candidates = %d, want posting plus template", len(got.Candidates))
	}
	var sources []types.CandidateSource
	for _, c := range got.Candidates {
		sources = append(sources, c.Source)
	}
	want := []types.CandidateSource{types.SourcePosting, types.SourceTemplate}
	if !reflect.DeepEqual(sources, want) {
		t.Errorf("sources = %v, want %v (ties keep aggregation order)", sources, want)
	}
}

// failingPostingStore simulates an unreachable posting backend.
type failingPostingStore struct{}

func (failingPostingStore) ListPostings(ctx context.Context) ([]types.RawPosting, error) {
	return nil, fmt.Errorf("connection refused")
}

func (failingPostingStore) ListTemplates(ctx context.Context) ([]types.RawTemplate, error) {
	return nil, fmt.Errorf("connection refused")
}

func TestRecommendRecoversFromStoreFailure(t *testing.T) {
	profiles := NewMemoryStore()
	profiles.PutProfile(&types.RawProfile{UserID: "seeker-4"})

	p := NewPipeline(profiles, failingPostingStore{}, testFallback(t), testLogger(), Options{})

	got, err := p.Recommend(context.Background(), "seeker-4", false)
	if err != nil {
		t.Fatalf("store failures must not surface hard errors, got %v", err)
	}
	if len(got.Candidates) == 0 {
		t.Fatal("expected fallback candidates after store failure")
	}
	if got.SoftError == "" {
		t.Error("expected soft error after store failure")
	}

	gotEmp, err := p.Recommend(context.Background(), "emp-x", true)
	if err != nil {
		t.Fatalf("employer run: %v", err)
	}
	if len(gotEmp.Candidates) != 0 {
		t.Errorf("employer Candidates = %d, want 0 after store failure", len(gotEmp.Candidates))
	}
	if gotEmp.SoftError == "" {
		t.Error("expected soft error on the employer recovery path")
	}
}

// stubGenerator returns the same reply for every prompt.
type stubGenerator struct {
	reply string
	calls int
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, *ai.TokenUsage, error) {
	s.calls++
	return s.reply, nil, nil
}

func (s *stubGenerator) GetModelInfo(ctx context.Context) *ai.ModelInfo {
	return &ai.ModelInfo{Name: "stub", Available: true}
}

func (s *stubGenerator) Close() error { return nil }

func TestRecommendRefinementReorders(t *testing.T) {
	store := seededStore()

	gen := &stubGenerator{reply: "Score: 100\nReason: Excellent match\nTitle Alignment: Yes\nQualified: Yes"}
	refiner := ai.NewRefiner(gen, config.RefinerConfig{Enabled: true, TopN: 5}, testLogger())

	p := NewPipeline(store, store, testFallback(t), testLogger(), Options{Refiner: refiner})

	got, err := p.Recommend(context.Background(), "seeker-1", false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if gen.calls != 2 {
		t.Errorf("generator calls = %d, want one per candidate", gen.calls)
	}
	for _, c := range got.Candidates {
		if c.AIScore == nil {
			t.Errorf("candidate %s missing AIScore", c.ID)
			continue
		}
		if c.PrimaryReason != "Excellent match" {
			t.Errorf("candidate %s PrimaryReason = %q, want model reason above override threshold", c.ID, c.PrimaryReason)
		}
	}
	// Ordering must stay sorted after blending.
	for i := 1; i < len(got.Candidates); i++ {
		if got.Candidates[i-1].Score < got.Candidates[i].Score {
			t.Errorf("candidates out of order after refinement: %d < %d at %d",
				got.Candidates[i-1].Score, got.Candidates[i].Score, i)
		}
	}
}

func TestJobTitlesUsedAreDistinctInOrder(t *testing.T) {
	store := NewMemoryStore()
	store.PutProfile(&types.RawProfile{UserID: "seeker-5"})
	store.SetPostings([]types.RawPosting{
		{ID: "a", Title: "Nurse"},
		{ID: "b", Title: "Nurse"},
		{ID: "c", Title: "Driver"},
	})

	p := NewPipeline(store, store, testFallback(t), testLogger(), Options{})

	got, err := p.Recommend(context.Background(), "seeker-5", false)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	want := []string{"Nurse", "Driver"}
	if !reflect.DeepEqual(got.JobTitlesUsed, want) {
		t.Errorf("JobTitlesUsed = %v, want %v", got.JobTitlesUsed, want)
	}
}
