// Package scoring implements the deterministic rule scorer: five independent
// match detectors plus certificate and reference bonuses, combined into a
// total score and an ordered list of human-readable reasons.
package scoring

import (
	"fmt"
	"strings"

	"jobmatch/internal/catalog"
	"jobmatch/internal/types"
)

// Detector point values. These are contract constants, not tunables: callers
// and stored fixtures depend on the exact totals they produce.
const (
	EducationPoints      = 20
	EducationIndustryPts = 15
	FieldHealthcarePts   = 15
	FieldPoints          = 10
	FieldIndustryPts     = 10
	SkillPointsEach      = 2
	SkillPointsCap       = 15
	ExperiencePoints     = 10
	LocationRemotePts    = 5
	LocationNearPts      = 10
	CertPointsEach       = 2
	CertPointsCap        = 10
	ReferencePointsCap   = 5
)

// genericReason is used when no detector produced a reason.
const genericReason = "This job may be a good fit for you"

// detection is the outcome of one detector.
type detection struct {
	matched bool
	points  int
	reason  string
}

// Score evaluates one candidate against a normalized profile. The input is
// never mutated; detectors run in a fixed order which determines the order
// of reasons and therefore the primary reason.
func Score(p types.NormalizedProfile, c types.Candidate) types.ScoredCandidate {
	sc := types.ScoredCandidate{Candidate: c}

	detections := []detection{
		detectEducation(p, c),
		detectField(p, c),
		detectSkills(p, c),
		detectExperience(p, c),
		detectLocation(p, c),
	}

	for _, d := range detections {
		if !d.matched {
			continue
		}
		sc.Score += d.points
		if d.reason != "" {
			sc.Reasons = append(sc.Reasons, d.reason)
		}
	}

	if p.CertificateCount > 0 {
		sc.Score += min(p.CertificateCount*CertPointsEach, CertPointsCap)
		sc.Reasons = append(sc.Reasons,
			fmt.Sprintf("You have %d relevant certification(s)", p.CertificateCount))
	}
	if p.ReferenceCount > 0 {
		// References nudge the score but never surface as a reason.
		sc.Score += min(p.ReferenceCount, ReferencePointsCap)
	}

	if len(sc.Reasons) > 0 {
		sc.PrimaryReason = sc.Reasons[0]
	} else {
		sc.PrimaryReason = genericReason
	}

	return sc
}

// ScoreAll scores every candidate in the pool, preserving pool order.
func ScoreAll(p types.NormalizedProfile, pool []types.Candidate) []types.ScoredCandidate {
	scored := make([]types.ScoredCandidate, len(pool))
	for i, c := range pool {
		scored[i] = Score(p, c)
	}
	return scored
}

// detectEducation matches the profile's degree keywords against the
// candidate's education requirement. Degree abbreviations count: a keyword
// like "bachelor of science in nursing" matches an education string that
// only says "BSN required".
func detectEducation(p types.NormalizedProfile, c types.Candidate) detection {
	edu := strings.ToLower(strings.TrimSpace(c.Education))
	if edu == "" {
		return detection{}
	}

	for _, kw := range p.EducationKeywords {
		if educationMatches(kw, edu) {
			return detection{
				matched: true,
				points:  EducationPoints,
				reason:  fmt.Sprintf("Your %s degree matches the job requirements", kw),
			}
		}
	}

	if p.Industry != "" && strings.Contains(edu, p.Industry) {
		return detection{
			matched: true,
			points:  EducationIndustryPts,
			reason:  fmt.Sprintf("Your %s industry background matches the educational requirements", p.Industry),
		}
	}

	return detection{}
}

func educationMatches(keyword, education string) bool {
	if strings.Contains(education, keyword) || strings.Contains(keyword, education) {
		return true
	}
	if acr := acronym(keyword); acr != "" && strings.Contains(education, acr) {
		return true
	}
	if acr := acronym(education); acr != "" && strings.Contains(keyword, acr) {
		return true
	}
	return false
}

// acronym builds the degree abbreviation from the initials of significant
// words ("bachelor of science in nursing" -> "bsn"). Returns "" when the
// text has fewer than two significant words.
func acronym(text string) string {
	stop := map[string]bool{"of": true, "in": true, "and": true, "the": true, "for": true}
	var b strings.Builder
	words := 0
	for _, w := range strings.Fields(text) {
		if stop[w] {
			continue
		}
		b.WriteByte(w[0])
		words++
	}
	if words < 2 {
		return ""
	}
	return b.String()
}

var fieldReasons = map[catalog.Category]string{
	catalog.CategoryHealthcare:  "This healthcare role matches your medical background",
	catalog.CategoryBusiness:    "This role matches your business background",
	catalog.CategoryEngineering: "This role matches your technical background",
	catalog.CategoryEducation:   "This role matches your teaching background",
	catalog.CategoryArts:        "This role matches your creative background",
}

// detectField aligns the profile's broad category with the candidate's.
// Categories are evaluated in a fixed priority order inside the classifier,
// so a candidate is never credited by two categories.
func detectField(p types.NormalizedProfile, c types.Candidate) detection {
	profCat := catalog.ClassifyProfile(p)
	if profCat != catalog.CategoryNone && profCat == catalog.ClassifyCandidate(c) {
		points := FieldPoints
		if profCat == catalog.CategoryHealthcare {
			points = FieldHealthcarePts
		}
		return detection{matched: true, points: points, reason: fieldReasons[profCat]}
	}

	field := strings.ToLower(strings.TrimSpace(c.Field))
	if p.Industry != "" && field != "" &&
		(strings.Contains(field, p.Industry) || strings.Contains(p.Industry, field)) {
		return detection{
			matched: true,
			points:  FieldIndustryPts,
			reason:  "This job matches your industry experience",
		}
	}

	return detection{}
}

// detectSkills counts profile skills that appear anywhere in the job text.
func detectSkills(p types.NormalizedProfile, c types.Candidate) detection {
	jobText := strings.ToLower(c.Title + " " + c.Description + " " + c.Requirements + " " + c.Field)

	var matched []string
	for _, skill := range p.SkillNames {
		if strings.Contains(jobText, skill) {
			matched = append(matched, skill)
		}
	}
	if len(matched) == 0 {
		return detection{}
	}

	listed := matched
	suffix := ""
	if len(matched) > 2 {
		listed = matched[:2]
		suffix = ", ..."
	}

	return detection{
		matched: true,
		points:  min(len(matched)*SkillPointsEach, SkillPointsCap),
		reason:  fmt.Sprintf("Your skills match this job: %s%s", strings.Join(listed, ", "), suffix),
	}
}

// detectExperience credits the first held title that overlaps the candidate
// title. Only one overlap counts.
func detectExperience(p types.NormalizedProfile, c types.Candidate) detection {
	title := strings.ToLower(strings.TrimSpace(c.Title))
	if title == "" {
		return detection{}
	}

	for _, held := range p.ExperienceTitles {
		if strings.Contains(title, held) || strings.Contains(held, title) {
			return detection{
				matched: true,
				points:  ExperiencePoints,
				reason:  fmt.Sprintf("Your experience as %s is relevant to this job", held),
			}
		}
	}
	return detection{}
}

// detectLocation scores remote roles a flat bonus and everything else by
// token proximity. The remote check short-circuits: a remote posting never
// also collects the proximity bonus.
func detectLocation(p types.NormalizedProfile, c types.Candidate) detection {
	loc := strings.TrimSpace(c.Location)
	if strings.EqualFold(loc, "remote") {
		return detection{
			matched: true,
			points:  LocationRemotePts,
			reason:  "Remote work opportunity",
		}
	}

	var candParts []string
	for _, part := range strings.Split(strings.ToLower(loc), ",") {
		if part = strings.TrimSpace(part); part != "" {
			candParts = append(candParts, part)
		}
	}

	for _, mine := range p.LocationTokens {
		for _, theirs := range candParts {
			if mine == theirs || strings.Contains(mine, theirs) || strings.Contains(theirs, mine) {
				return detection{
					matched: true,
					points:  LocationNearPts,
					reason:  "Located near you",
				}
			}
		}
	}
	return detection{}
}
