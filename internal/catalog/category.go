// Package catalog owns the candidate pool for a ranking run: merging live
// postings with template padding, the broad-category classifier shared with
// the rule scorer, and the curated fallback postings served when the pool is
// empty.
package catalog

import (
	"regexp"
	"strings"

	"jobmatch/internal/types"
)

// Category is a broad occupational category used by the field-match detector
// and to key the fallback catalog.
type Category string

const (
	CategoryHealthcare  Category = "healthcare"
	CategoryBusiness    Category = "business"
	CategoryEngineering Category = "engineering"
	CategoryEducation   Category = "education"
	CategoryArts        Category = "arts"
	CategoryNone        Category = ""
)

// categoryOrder is the fixed evaluation priority: the first category whose
// pattern matches wins, so a candidate is never scored by two categories.
var categoryOrder = []Category{
	CategoryHealthcare,
	CategoryBusiness,
	CategoryEngineering,
	CategoryEducation,
	CategoryArts,
}

var categoryPatterns = map[Category]*regexp.Regexp{
	CategoryHealthcare:  regexp.MustCompile(`nurs|medic|health|bsn|caregiv|pharma|clinic|dental|therap`),
	CategoryBusiness:    regexp.MustCompile(`business|account|financ|market|commerce|admin|management|entrepreneur`),
	CategoryEngineering: regexp.MustCompile(`engineer|comput|software|tech|information|developer|program`),
	CategoryEducation:   regexp.MustCompile(`educat|teach|pedagog|tutor`),
	CategoryArts:        regexp.MustCompile(`\bart|design|media|communicat|creative|multimedia`),
}

// ClassifyText returns the first category whose keyword pattern matches the
// given lower-cased text, or CategoryNone.
func ClassifyText(text string) Category {
	text = strings.ToLower(text)
	for _, cat := range categoryOrder {
		if categoryPatterns[cat].MatchString(text) {
			return cat
		}
	}
	return CategoryNone
}

// ClassifyProfile classifies a profile by its education keywords.
func ClassifyProfile(p types.NormalizedProfile) Category {
	return ClassifyText(strings.Join(p.EducationKeywords, " "))
}

// ClassifyCandidate classifies a candidate by its title and field.
func ClassifyCandidate(c types.Candidate) Category {
	return ClassifyText(c.Title + " " + c.Field)
}
