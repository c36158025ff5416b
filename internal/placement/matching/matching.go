// Package matching computes the candidate/role compatibility score used to
// rank open roles and prioritize applicants.
package matching

import (
	"math"
	"strings"
)

const (
	skillWeight = 60.0
	gpaWeight   = 40.0
	gpaScale    = 10.0
)

// Score returns a 0-100 compatibility score from a candidate's skills and
// GPA against a role's requirements.
//
// A skill matches when it is a case-insensitive substring of any requirement,
// and counts once no matter how many requirements it matches. Duplicate
// skills are ignored for matching, but the denominator is the raw
// requirement count, so a role listing the same requirement twice dilutes
// the score. The skill component is (matches / max(len(requirements), 1)) *
// 60; the GPA component is (gpa / 10) * 40. GPA outside [0,10] is a caller
// contract violation and is not clamped here.
//
// Pure and deterministic: identical inputs always produce identical output.
func Score(skills []string, requirements []string, gpa float64) int {
	reqs := dedupeLower(requirements)

	matched := 0
	for _, skill := range dedupeLower(skills) {
		for _, req := range reqs {
			if strings.Contains(req, skill) {
				matched++
				break
			}
		}
	}

	denominator := len(requirements)
	if denominator < 1 {
		denominator = 1
	}

	skillComponent := float64(matched) / float64(denominator) * skillWeight
	gpaComponent := gpa / gpaScale * gpaWeight

	return int(math.Round(skillComponent + gpaComponent))
}

// dedupeLower lowercases and removes duplicates and blanks, preserving first
// occurrence order.
func dedupeLower(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
