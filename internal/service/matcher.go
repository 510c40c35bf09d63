package service

import "math"

// MatchScore returns the compatibility percentage between a user's skills and
// an opportunity's required skills: the share of required skills present in
// the user's list, rounded to the nearest integer. Comparison is exact and
// case-sensitive; no partial credit for near matches. An empty required or
// user list scores 0.
func MatchScore(userSkills, requiredSkills []string) int {
	if len(userSkills) == 0 || len(requiredSkills) == 0 {
		return 0
	}

	owned := make(map[string]struct{}, len(userSkills))
	for _, skill := range userSkills {
		owned[skill] = struct{}{}
	}

	matched := 0
	for _, skill := range requiredSkills {
		if _, ok := owned[skill]; ok {
			matched++
		}
	}

	return int(math.Round(float64(matched) / float64(len(requiredSkills)) * 100))
}
