package scoring

import (
	"reflect"
	"testing"

	"jobmatch/internal/types"
)

func nursingProfile() types.NormalizedProfile {
	return types.NormalizedProfile{
		UserID:            "user-1",
		EducationKeywords: []string{"bachelor of science in nursing"},
		SkillNames:        []string{"patient care"},
		LocationTokens:    []string{"quezon city", "ncr", "philippines"},
	}
}

func TestScoreEndToEndScenario(t *testing.T) {
	candidate := types.Candidate{
		ID:          "p1",
		Title:       "Registered Nurse",
		Company:     "St. Luke's Medical Center",
		Location:    "Quezon City, Philippines",
		Description: "Provide patient care in a hospital setting",
		Field:       "Healthcare",
		Education:   "BSN required",
		Source:      types.SourcePosting,
	}

	got := Score(nursingProfile(), candidate)

	if got.Score != 47 {
		t.Errorf("Score = %d, want 47 (reasons: %v)", got.Score, got.Reasons)
	}
	wantPrimary := "Your bachelor of science in nursing degree matches the job requirements"
	if got.PrimaryReason != wantPrimary {
		t.Errorf("PrimaryReason = %q, want %q", got.PrimaryReason, wantPrimary)
	}
	if len(got.Reasons) != 4 {
		t.Errorf("len(Reasons) = %d, want 4: %v", len(got.Reasons), got.Reasons)
	}
}

func TestScoreDeterminism(t *testing.T) {
	profile := nursingProfile()
	pool := []types.Candidate{
		{ID: "a", Title: "Registered Nurse", Location: "Remote", Education: "BSN", Source: types.SourcePosting},
		{ID: "b", Title: "Sales Associate", Location: "Cebu City, Philippines", Source: types.SourcePosting},
		{ID: "c", Title: "Nurse Aide", Field: "Healthcare", Source: types.SourceTemplate},
	}

	first := ScoreAll(profile, pool)
	for run := 0; run < 5; run++ {
		again := ScoreAll(profile, pool)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d: results differ:\nfirst: %+v\nagain: %+v", run, first, again)
		}
	}
}

func TestScoreCertificateBonusOnly(t *testing.T) {
	profile := types.NormalizedProfile{
		UserID:           "user-2",
		CertificateCount: 2,
	}
	candidate := types.Candidate{
		ID:       "x",
		Title:    "Quantum Basket Weaver",
		Location: "Atlantis",
		Source:   types.SourcePosting,
	}

	got := Score(profile, candidate)

	if got.Score != 4 {
		t.Errorf("Score = %d, want 4", got.Score)
	}
	want := []string{"You have 2 relevant certification(s)"}
	if !reflect.DeepEqual(got.Reasons, want) {
		t.Errorf("Reasons = %v, want %v", got.Reasons, want)
	}
	if got.PrimaryReason != want[0] {
		t.Errorf("PrimaryReason = %q, want %q", got.PrimaryReason, want[0])
	}
}

func TestScoreReferenceBonusAddsNoReason(t *testing.T) {
	profile := types.NormalizedProfile{UserID: "user-3", ReferenceCount: 8}
	candidate := types.Candidate{ID: "x", Title: "Unrelated", Source: types.SourcePosting}

	got := Score(profile, candidate)

	if got.Score != 5 {
		t.Errorf("Score = %d, want 5 (reference bonus capped)", got.Score)
	}
	if len(got.Reasons) != 0 {
		t.Errorf("Reasons = %v, want none", got.Reasons)
	}
	if got.PrimaryReason != genericReason {
		t.Errorf("PrimaryReason = %q, want the generic fallback", got.PrimaryReason)
	}
}

func TestDetectLocation(t *testing.T) {
	tests := []struct {
		name       string
		tokens     []string
		location   string
		wantPoints int
		wantReason string
	}{
		{
			name:       "remote short-circuits proximity",
			tokens:     []string{"quezon city", "ncr", "philippines"},
			location:   "Remote",
			wantPoints: LocationRemotePts,
			wantReason: "Remote work opportunity",
		},
		{
			name:       "remote case-insensitive",
			tokens:     nil,
			location:   "REMOTE",
			wantPoints: LocationRemotePts,
			wantReason: "Remote work opportunity",
		},
		{
			name:       "city match",
			tokens:     []string{"quezon city", "ncr", "philippines"},
			location:   "Quezon City, Philippines",
			wantPoints: LocationNearPts,
			wantReason: "Located near you",
		},
		{
			name:       "partial containment",
			tokens:     []string{"makati"},
			location:   "Makati City, NCR",
			wantPoints: LocationNearPts,
			wantReason: "Located near you",
		},
		{
			name:       "no overlap",
			tokens:     []string{"davao"},
			location:   "Baguio City, Philippines north",
			wantPoints: 0,
		},
		{
			name:       "empty candidate location",
			tokens:     []string{"manila"},
			location:   "",
			wantPoints: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := types.NormalizedProfile{LocationTokens: tt.tokens}
			c := types.Candidate{Location: tt.location}
			got := detectLocation(p, c)
			if got.points != tt.wantPoints {
				t.Errorf("points = %d, want %d", got.points, tt.wantPoints)
			}
			if tt.wantReason != "" && got.reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", got.reason, tt.wantReason)
			}
		})
	}
}

func TestDetectSkillsCap(t *testing.T) {
	skills := []string{"s01", "s02", "s03", "s04", "s05", "s06", "s07", "s08", "s09", "s10"}
	p := types.NormalizedProfile{SkillNames: skills}
	c := types.Candidate{
		Title:       "Everything Role",
		Description: "needs s01 s02 s03 s04 s05 s06 s07 s08 s09 s10",
	}

	got := detectSkills(p, c)
	if got.points != 15 {
		t.Errorf("points = %d, want 15 (capped)", got.points)
	}
	want := "Your skills match this job: s01, s02, ..."
	if got.reason != want {
		t.Errorf("reason = %q, want %q", got.reason, want)
	}
}

func TestDetectSkillsListsAtMostTwo(t *testing.T) {
	tests := []struct {
		name       string
		skills     []string
		text       string
		wantPoints int
		wantReason string
	}{
		{
			name:       "single skill",
			skills:     []string{"nursing", "golf"},
			text:       "nursing position",
			wantPoints: 2,
			wantReason: "Your skills match this job: nursing",
		},
		{
			name:       "two skills no ellipsis",
			skills:     []string{"nursing", "triage"},
			text:       "nursing and triage duties",
			wantPoints: 4,
			wantReason: "Your skills match this job: nursing, triage",
		},
		{
			name:       "no match",
			skills:     []string{"welding"},
			text:       "accounting role",
			wantPoints: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := types.NormalizedProfile{SkillNames: tt.skills}
			c := types.Candidate{Description: tt.text}
			got := detectSkills(p, c)
			if got.points != tt.wantPoints {
				t.Errorf("points = %d, want %d", got.points, tt.wantPoints)
			}
			if got.reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", got.reason, tt.wantReason)
			}
		})
	}
}

func TestDetectEducation(t *testing.T) {
	tests := []struct {
		name       string
		keywords   []string
		industry   string
		education  string
		wantPoints int
	}{
		{
			name:       "direct substring",
			keywords:   []string{"computer science"},
			education:  "BS Computer Science or equivalent",
			wantPoints: EducationPoints,
		},
		{
			name:       "abbreviation match",
			keywords:   []string{"bachelor of science in nursing"},
			education:  "BSN required",
			wantPoints: EducationPoints,
		},
		{
			name:       "industry inside education",
			keywords:   []string{"fine arts"},
			industry:   "healthcare",
			education:  "Any healthcare-related degree",
			wantPoints: EducationIndustryPts,
		},
		{
			name:       "no education on candidate",
			keywords:   []string{"computer science"},
			education:  "",
			wantPoints: 0,
		},
		{
			name:       "no overlap",
			keywords:   []string{"marine biology"},
			education:  "CPA license",
			wantPoints: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := types.NormalizedProfile{EducationKeywords: tt.keywords, Industry: tt.industry}
			c := types.Candidate{Education: tt.education}
			got := detectEducation(p, c)
			if got.points != tt.wantPoints {
				t.Errorf("points = %d, want %d", got.points, tt.wantPoints)
			}
		})
	}
}

func TestDetectExperienceFirstMatchOnly(t *testing.T) {
	p := types.NormalizedProfile{
		ExperienceTitles: []string{"staff nurse", "nurse supervisor"},
	}
	c := types.Candidate{Title: "Senior Staff Nurse Supervisor"}

	got := detectExperience(p, c)
	if got.points != ExperiencePoints {
		t.Errorf("points = %d, want %d", got.points, ExperiencePoints)
	}
	want := "Your experience as staff nurse is relevant to this job"
	if got.reason != want {
		t.Errorf("reason = %q, want %q", got.reason, want)
	}
}

func TestDetectFieldHealthcarePriority(t *testing.T) {
	p := types.NormalizedProfile{
		EducationKeywords: []string{"bachelor of science in nursing"},
	}
	c := types.Candidate{Title: "Registered Nurse", Field: "Healthcare"}

	got := detectField(p, c)
	if got.points != FieldHealthcarePts {
		t.Errorf("points = %d, want %d", got.points, FieldHealthcarePts)
	}

	p2 := types.NormalizedProfile{EducationKeywords: []string{"business administration"}}
	c2 := types.Candidate{Title: "Accounting Manager", Field: "Finance"}
	got2 := detectField(p2, c2)
	if got2.points != FieldPoints {
		t.Errorf("business alignment points = %d, want %d", got2.points, FieldPoints)
	}
}

func TestAcronym(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"bachelor of science in nursing", "bsn"},
		{"master of business administration", "mba"},
		{"nursing", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := acronym(tt.text); got != tt.want {
			t.Errorf("acronym(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
