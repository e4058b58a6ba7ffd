package importer

import "strings"

// MatchThreshold is the maximum normalized edit distance accepted as a
// category match. 0 is an exact match, 1 shares nothing.
const MatchThreshold = 0.3

// BestMatch finds the known description closest to query. Returns the
// mapped value of the best candidate and true when its distance is below
// MatchThreshold.
func BestMatch(query string, mappings map[string]string) (string, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || len(mappings) == 0 {
		return "", false
	}

	bestDesc := ""
	bestDist := 1.0
	for desc := range mappings {
		d := 1.0 - levenshteinRatio(query, strings.ToLower(strings.TrimSpace(desc)))
		// Ties broken lexicographically so map order cannot change the result.
		if d < bestDist || (d == bestDist && (bestDesc == "" || desc < bestDesc)) {
			bestDesc = desc
			bestDist = d
		}
	}

	if bestDist >= MatchThreshold {
		return "", false
	}
	return mappings[bestDesc], true
}

// levenshteinRatio returns a 0-1 similarity ratio between two strings.
func levenshteinRatio(a, b string) float64 {
	d := levenshteinDistance(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(d)/float64(maxLen)
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, min(prev[j]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}
