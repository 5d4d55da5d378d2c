package types

import "time"

// CandidateSource identifies where a candidate in the ranking pool came from.
type CandidateSource string

const (
	SourcePosting  CandidateSource = "posting"
	SourceTemplate CandidateSource = "template"
	SourceFallback CandidateSource = "fallback"
)

// RawProfile is the untrusted shape returned by an external profile store.
// Every field may be empty; the normalizer is the single boundary that turns
// this into a NormalizedProfile.
type RawProfile struct {
	UserID    string   `json:"userId"`
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Industry  string   `json:"industry,omitempty"`
	City      string   `json:"city,omitempty"`
	Province  string   `json:"province,omitempty"`
	Country   string   `json:"country,omitempty"`
	Location  string   `json:"location,omitempty"`
	Skills    []string `json:"skills,omitempty"`
}

// RawSkill is a skill record from the resume/assessment store.
type RawSkill struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// RawEducation is an education record from the resume store.
type RawEducation struct {
	Degree string `json:"degree,omitempty"`
	Field  string `json:"field,omitempty"`
	School string `json:"school,omitempty"`
}

// RawExperience is a work-experience record from the resume store.
type RawExperience struct {
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
}

// RawItem is a generic stored item (certificate, reference).
type RawItem struct {
	Name string `json:"name,omitempty"`
}

// NormalizedProfile is the flat, comparable representation of a user's
// profile. It is recomputed once per ranking run and treated as immutable
// afterwards. All strings are lower-cased and trimmed.
type NormalizedProfile struct {
	UserID            string
	EducationKeywords []string
	SkillNames        []string
	ExperienceTitles  []string
	LocationTokens    []string
	Industry          string
	CertificateCount  int
	ReferenceCount    int
}

// RawPosting is a job posting as returned by the posting store.
type RawPosting struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Location     string    `json:"location"`
	Description  string    `json:"description"`
	Field        string    `json:"field,omitempty"`
	Education    string    `json:"education,omitempty"`
	Salary       string    `json:"salary,omitempty"`
	Requirements string    `json:"requirements,omitempty"`
	PostedAt     time.Time `json:"postedAt"`
}

// RawTemplate is a job template; templates pad thin seeker pools but are
// never shown to employers.
type RawTemplate struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Company      string `json:"company"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Field        string `json:"field,omitempty"`
	Education    string `json:"education,omitempty"`
	Salary       string `json:"salary,omitempty"`
	Requirements string `json:"requirements,omitempty"`
}

// Candidate is a posting or template unioned into one immutable shape.
// Template-derived ids are namespaced with a "template:" prefix so they can
// never collide with posting ids within a run.
type Candidate struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Company      string          `json:"company"`
	Location     string          `json:"location"`
	Description  string          `json:"description"`
	Field        string          `json:"field,omitempty"`
	Education    string          `json:"education,omitempty"`
	Salary       string          `json:"salary,omitempty"`
	Requirements string          `json:"requirements,omitempty"`
	PostedAt     time.Time       `json:"postedAt,omitempty"`
	Source       CandidateSource `json:"source"`
}

// ScoredCandidate is a Candidate plus the scoring output for one run.
// Scoring never mutates the pool; it produces these in parallel.
type ScoredCandidate struct {
	Candidate
	Score         int      `json:"score"`
	Reasons       []string `json:"reasons"`
	PrimaryReason string   `json:"primaryReason"`
	AIScore       *int     `json:"aiScore,omitempty"`
	AIReason      string   `json:"aiReason,omitempty"`
}

// Recommendations is the terminal output of a ranking run.
type Recommendations struct {
	Candidates    []ScoredCandidate `json:"candidates"`
	JobTitlesUsed []string          `json:"jobTitlesUsed"`
	SoftError     string            `json:"softError,omitempty"`
}
