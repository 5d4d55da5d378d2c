// Package profile converts untrusted, partially-populated data from external
// profile and resume stores into the strict NormalizedProfile used by the
// rule scorer. Normalization never fails: absent data yields empty sets.
package profile

import (
	"strings"

	"jobmatch/internal/types"
)

// Input bundles the raw records fetched for one user. Any field may be nil.
type Input struct {
	Profile      *types.RawProfile
	Skills       []types.RawSkill
	Education    []types.RawEducation
	Experience   []types.RawExperience
	Certificates []types.RawItem
	References   []types.RawItem
}

// Normalize builds the flat comparable representation of a user's profile.
// All strings are lower-cased and trimmed; empty values are dropped.
func Normalize(userID string, in Input) types.NormalizedProfile {
	np := types.NormalizedProfile{
		UserID:           userID,
		CertificateCount: len(in.Certificates),
		ReferenceCount:   len(in.References),
	}

	eduSeen := make(map[string]bool)
	for _, edu := range in.Education {
		for _, raw := range []string{edu.Degree, edu.Field} {
			tok := clean(raw)
			if tok == "" || eduSeen[tok] {
				continue
			}
			eduSeen[tok] = true
			np.EducationKeywords = append(np.EducationKeywords, tok)
		}
	}

	skillSeen := make(map[string]bool)
	addSkill := func(raw string) {
		tok := clean(raw)
		if tok == "" || skillSeen[tok] {
			return
		}
		skillSeen[tok] = true
		np.SkillNames = append(np.SkillNames, tok)
	}
	for _, s := range in.Skills {
		addSkill(s.Name)
	}
	if in.Profile != nil {
		// Self-reported profile skills count the same as resume skills.
		for _, s := range in.Profile.Skills {
			addSkill(s)
		}
	}

	for _, exp := range in.Experience {
		if tok := clean(exp.Title); tok != "" {
			np.ExperienceTitles = append(np.ExperienceTitles, tok)
		}
	}

	if in.Profile != nil {
		np.Industry = clean(in.Profile.Industry)
		np.LocationTokens = locationTokens(in.Profile)
	}

	return np
}

// locationTokens builds the ordered [city, province, country] token list,
// falling back to splitting a free-form location string on commas.
func locationTokens(p *types.RawProfile) []string {
	var tokens []string
	for _, raw := range []string{p.City, p.Province, p.Country} {
		if tok := clean(raw); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 && p.Location != "" {
		for _, part := range strings.Split(p.Location, ",") {
			if tok := clean(part); tok != "" {
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
