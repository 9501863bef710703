package service

import "strings"

// NormalizeSkill is the single place skill text is canonicalized for comparison.
// Matching is case-insensitive only; there is no trimming or synonym handling.
func NormalizeSkill(skill string) string {
	return strings.ToLower(skill)
}

// CommonSkills returns the elements of listA whose normalized form appears in listB.
// Order and duplicates of listA are preserved.
func CommonSkills(listA, listB []string) []string {
	common := []string{}
	if len(listA) == 0 || len(listB) == 0 {
		return common
	}

	normalizedB := make(map[string]struct{}, len(listB))
	for _, skill := range listB {
		normalizedB[NormalizeSkill(skill)] = struct{}{}
	}

	for _, skill := range listA {
		if _, ok := normalizedB[NormalizeSkill(skill)]; ok {
			common = append(common, skill)
		}
	}

	return common
}
