package profile

import (
	"slices"
	"testing"

	"jobmatch/internal/types"
)

func TestNormalizeFullInput(t *testing.T) {
	in := Input{
		Profile: &types.RawProfile{
			UserID:   "user-1",
			Industry: "  Healthcare  ",
			City:     "Quezon City",
			Province: "Metro Manila",
			Country:  "Philippines",
			Skills:   []string{"Patient Care", "communication"},
		},
		Skills: []types.RawSkill{
			{Name: "Communication"},
			{Name: "First Aid"},
		},
		Education: []types.RawEducation{
			{Degree: "Bachelor of Science in Nursing", Field: "Nursing"},
			{Degree: "bachelor of science in nursing"},
		},
		Experience: []types.RawExperience{
			{Title: "Staff Nurse", Company: "St. Luke's"},
			{Title: "  "},
		},
		Certificates: []types.RawItem{{Name: "BLS"}, {Name: "ACLS"}},
		References:   []types.RawItem{{Name: "Dr. Cruz"}},
	}

	np := Normalize("user-1", in)

	if np.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", np.UserID)
	}
	wantEdu := []string{"bachelor of science in nursing", "nursing"}
	if !slices.Equal(np.EducationKeywords, wantEdu) {
		t.Errorf("EducationKeywords = %v, want %v", np.EducationKeywords, wantEdu)
	}
	// Resume skills come first; profile skills dedupe against them.
	wantSkills := []string{"communication", "first aid", "patient care"}
	if !slices.Equal(np.SkillNames, wantSkills) {
		t.Errorf("SkillNames = %v, want %v", np.SkillNames, wantSkills)
	}
	wantExp := []string{"staff nurse"}
	if !slices.Equal(np.ExperienceTitles, wantExp) {
		t.Errorf("ExperienceTitles = %v, want %v", np.ExperienceTitles, wantExp)
	}
	if np.Industry != "healthcare" {
		t.Errorf("Industry = %q, want healthcare", np.Industry)
	}
	wantLoc := []string{"quezon city", "metro manila", "philippines"}
	if !slices.Equal(np.LocationTokens, wantLoc) {
		t.Errorf("LocationTokens = %v, want %v", np.LocationTokens, wantLoc)
	}
	if np.CertificateCount != 2 {
		t.Errorf("CertificateCount = %d, want 2", np.CertificateCount)
	}
	if np.ReferenceCount != 1 {
		t.Errorf("ReferenceCount = %d, want 1", np.ReferenceCount)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	np := Normalize("user-2", Input{})

	if np.UserID != "user-2" {
		t.Errorf("UserID = %q, want user-2", np.UserID)
	}
	if len(np.EducationKeywords) != 0 || len(np.SkillNames) != 0 ||
		len(np.ExperienceTitles) != 0 || len(np.LocationTokens) != 0 {
		t.Errorf("expected empty sets, got %+v", np)
	}
	if np.CertificateCount != 0 || np.ReferenceCount != 0 {
		t.Errorf("expected zero counts, got %+v", np)
	}
}

func TestNormalizeLocationFallback(t *testing.T) {
	in := Input{
		Profile: &types.RawProfile{
			Location: "Cebu City, Cebu, Philippines",
		},
	}

	np := Normalize("user-3", in)
	want := []string{"cebu city", "cebu", "philippines"}
	if !slices.Equal(np.LocationTokens, want) {
		t.Errorf("LocationTokens = %v, want %v", np.LocationTokens, want)
	}
}

func TestNormalizeStructuredLocationWinsOverFreeForm(t *testing.T) {
	in := Input{
		Profile: &types.RawProfile{
			City:     "Davao",
			Location: "Somewhere Else, PH",
		},
	}

	np := Normalize("user-4", in)
	want := []string{"davao"}
	if !slices.Equal(np.LocationTokens, want) {
		t.Errorf("LocationTokens = %v, want %v", np.LocationTokens, want)
	}
}
