package catalog

import (
	"jobmatch/internal/types"
)

// TemplatePoolThreshold is the live-posting count below which templates are
// mixed into a seeker's pool. A healthy pool is never diluted with templates.
const TemplatePoolThreshold = 5

// templateIDPrefix namespaces template-derived candidate ids so they cannot
// collide with posting ids within a run.
const templateIDPrefix = "template:"

// Aggregate merges postings and templates into one candidate pool.
//
// All postings are always included. Templates are included only for seekers,
// and only while the posting count is below the threshold. Duplicated ids
// keep their first occurrence. An empty result for a seeker signals the
// pipeline to serve the fallback catalog instead; employers get the empty
// pool as-is.
func Aggregate(postings []types.RawPosting, templates []types.RawTemplate, isEmployer bool, threshold int) []types.Candidate {
	if threshold <= 0 {
		threshold = TemplatePoolThreshold
	}

	seen := make(map[string]bool, len(postings)+len(templates))
	pool := make([]types.Candidate, 0, len(postings))

	for _, p := range postings {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		pool = append(pool, types.Candidate{
			ID:           p.ID,
			Title:        p.Title,
			Company:      p.Company,
			Location:     p.Location,
			Description:  p.Description,
			Field:        p.Field,
			Education:    p.Education,
			Salary:       p.Salary,
			Requirements: p.Requirements,
			PostedAt:     p.PostedAt,
			Source:       types.SourcePosting,
		})
	}

	if !isEmployer && len(pool) < threshold {
		for _, t := range templates {
			id := templateIDPrefix + t.ID
			if seen[id] {
				continue
			}
			seen[id] = true
			pool = append(pool, types.Candidate{
				ID:           id,
				Title:        t.Title,
				Company:      t.Company,
				Location:     t.Location,
				Description:  t.Description,
				Field:        t.Field,
				Education:    t.Education,
				Salary:       t.Salary,
				Requirements: t.Requirements,
				Source:       types.SourceTemplate,
			})
		}
	}

	return pool
}
