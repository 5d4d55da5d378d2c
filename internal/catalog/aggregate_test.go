package catalog

import (
	"fmt"
	"testing"

	"jobmatch/internal/types"
)

func makePostings(n int) []types.RawPosting {
	postings := make([]types.RawPosting, n)
	for i := range postings {
		postings[i] = types.RawPosting{
			ID:    fmt.Sprintf("post-%d", i+1),
			Title: fmt.Sprintf("Posting %d", i+1),
		}
	}
	return postings
}

func makeTemplates(n int) []types.RawTemplate {
	templates := make([]types.RawTemplate, n)
	for i := range templates {
		templates[i] = types.RawTemplate{
			ID:    fmt.Sprintf("tpl-%d", i+1),
			Title: fmt.Sprintf("Template %d", i+1),
		}
	}
	return templates
}

func TestAggregatePostingsAlwaysIncluded(t *testing.T) {
	pool := Aggregate(makePostings(3), nil, false, TemplatePoolThreshold)
	if len(pool) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(pool))
	}
	for _, c := range pool {
		if c.Source != types.SourcePosting {
			t.Errorf("candidate %s source = %q, want %q", c.ID, c.Source, types.SourcePosting)
		}
	}
}

func TestAggregateSeekerTemplatePadding(t *testing.T) {
	pool := Aggregate(makePostings(2), makeTemplates(3), false, 5)

	if len(pool) != 5 {
		t.Fatalf("expected 5 candidates, got %d", len(pool))
	}
	for _, c := range pool[2:] {
		if c.Source != types.SourceTemplate {
			t.Errorf("candidate %s source = %q, want %q", c.ID, c.Source, types.SourceTemplate)
		}
		if c.ID[:len(templateIDPrefix)] != templateIDPrefix {
			t.Errorf("template candidate id %q missing %q prefix", c.ID, templateIDPrefix)
		}
	}
}

func TestAggregateEmployerNeverGetsTemplates(t *testing.T) {
	pool := Aggregate(makePostings(1), makeTemplates(5), true, 5)
	if len(pool) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(pool))
	}

	pool = Aggregate(nil, makeTemplates(5), true, 5)
	if len(pool) != 0 {
		t.Fatalf("expected empty pool for employer, got %d candidates", len(pool))
	}
}

func TestAggregateHealthyPoolSkipsTemplates(t *testing.T) {
	pool := Aggregate(makePostings(5), makeTemplates(3), false, 5)
	if len(pool) != 5 {
		t.Fatalf("expected 5 candidates, got %d", len(pool))
	}
	for _, c := range pool {
		if c.Source != types.SourcePosting {
			t.Errorf("candidate %s source = %q, want %q", c.ID, c.Source, types.SourcePosting)
		}
	}
}

func TestAggregateDedupeKeepsFirst(t *testing.T) {
	postings := []types.RawPosting{
		{ID: "dup", Title: "First"},
		{ID: "dup", Title: "Second"},
		{ID: "other", Title: "Other"},
	}
	pool := Aggregate(postings, nil, false, 5)

	if len(pool) != 2 {
		t.Fatalf("expected 2 candidates after dedupe, got %d", len(pool))
	}
	if pool[0].Title != "First" {
		t.Errorf("dedupe kept %q, want first occurrence", pool[0].Title)
	}
}

func TestAggregateZeroThresholdUsesDefault(t *testing.T) {
	pool := Aggregate(makePostings(4), makeTemplates(2), false, 0)
	// 4 postings is below the default threshold of 5, so templates pad.
	if len(pool) != 6 {
		t.Fatalf("expected 6 candidates with default threshold, got %d", len(pool))
	}
}
