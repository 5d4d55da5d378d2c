package catalog

import (
	"testing"

	"jobmatch/internal/types"
)

func TestClassifyText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Category
	}{
		{"nursing degree", "bachelor of science in nursing", CategoryHealthcare},
		{"bsn acronym", "bsn", CategoryHealthcare},
		{"caregiving", "caregiver nc ii", CategoryHealthcare},
		{"accountancy", "bs accountancy", CategoryBusiness},
		{"marketing", "digital marketing specialist", CategoryBusiness},
		{"software", "software developer", CategoryEngineering},
		{"compsci", "bs computer science", CategoryEngineering},
		{"teaching", "licensed professional teacher", CategoryEducation},
		{"design", "graphic design", CategoryArts},
		{"fine arts", "bachelor of fine arts", CategoryArts},
		{"no match", "warehouse associate", CategoryNone},
		{"empty", "", CategoryNone},
		// Healthcare outranks business when both match.
		{"priority healthcare over business", "healthcare administration and management", CategoryHealthcare},
		// Business outranks engineering when both match.
		{"priority business over engineering", "business information technology", CategoryBusiness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyText(tt.text); got != tt.want {
				t.Errorf("ClassifyText(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifyProfile(t *testing.T) {
	p := types.NormalizedProfile{
		EducationKeywords: []string{"bachelor of science in nursing", "st. luke's college"},
	}
	if got := ClassifyProfile(p); got != CategoryHealthcare {
		t.Errorf("ClassifyProfile = %q, want %q", got, CategoryHealthcare)
	}

	empty := types.NormalizedProfile{}
	if got := ClassifyProfile(empty); got != CategoryNone {
		t.Errorf("ClassifyProfile(empty) = %q, want %q", got, CategoryNone)
	}
}

func TestClassifyCandidate(t *testing.T) {
	tests := []struct {
		name      string
		candidate types.Candidate
		want      Category
	}{
		{
			name:      "title match",
			candidate: types.Candidate{Title: "Registered Nurse", Field: "Healthcare"},
			want:      CategoryHealthcare,
		},
		{
			name:      "field match only",
			candidate: types.Candidate{Title: "Team Lead", Field: "Accounting"},
			want:      CategoryBusiness,
		},
		{
			name:      "no match",
			candidate: types.Candidate{Title: "Driver", Field: "Logistics"},
			want:      CategoryNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyCandidate(tt.candidate); got != tt.want {
				t.Errorf("ClassifyCandidate = %q, want %q", got, tt.want)
			}
		})
	}
}
