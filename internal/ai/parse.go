package ai

import (
	"regexp"
	"strconv"
	"strings"
)

// Assessment is the structured form of one model reply. Every field is
// optional in the reply; a field that is missing or malformed takes its zero
// default instead of failing the candidate.
type Assessment struct {
	Score        int    // 0-100, default 0
	Reason       string // default ""
	TitleAligned bool   // default false
	Qualified    string // "Yes", "No" or "Partially", default "No"
}

var (
	scoreLine     = regexp.MustCompile(`(?im)^\s*\**\s*Score\s*\**\s*:\s*(\d{1,3})`)
	reasonLine    = regexp.MustCompile(`(?im)^\s*\**\s*Reason\s*\**\s*:\s*(.+)$`)
	alignmentLine = regexp.MustCompile(`(?im)^\s*\**\s*Title Alignment\s*\**\s*:\s*(yes|no)`)
	qualifiedLine = regexp.MustCompile(`(?im)^\s*\**\s*Qualified\s*\**\s*:\s*(yes|no|partially)`)
)

// ParseAssessment extracts the four labeled fields from a free-text model
// reply. The matching is line oriented and tolerates leading whitespace and
// markdown bold markers around labels. Scores outside 0-100 are clamped.
func ParseAssessment(text string) Assessment {
	a := Assessment{Qualified: "No"}

	if m := scoreLine.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			if n > 100 {
				n = 100
			}
			a.Score = n
		}
	}
	if m := reasonLine.FindStringSubmatch(text); m != nil {
		a.Reason = strings.TrimSpace(m[1])
	}
	if m := alignmentLine.FindStringSubmatch(text); m != nil {
		a.TitleAligned = strings.EqualFold(m[1], "yes")
	}
	if m := qualifiedLine.FindStringSubmatch(text); m != nil {
		switch strings.ToLower(m[1]) {
		case "yes":
			a.Qualified = "Yes"
		case "partially":
			a.Qualified = "Partially"
		default:
			a.Qualified = "No"
		}
	}

	return a
}
