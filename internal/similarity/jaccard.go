// Package similarity compares canonical token lists, either as plain sets
// (Jaccard) or through embeddings with a string heuristic fallback.
package similarity

import (
	"sort"
	"strings"
)

// JaccardResult is the set comparison of candidate tokens against job
// tokens. Slices are sorted.
type JaccardResult struct {
	Score        float64
	Intersection []string
	Union        []string
	Matched      []string
	// Missing holds job tokens the candidate lacks.
	Missing []string
}

// Jaccard compares a (candidate) with b (job) case-insensitively. An empty
// union scores 0.
func Jaccard(a, b []string) JaccardResult {
	setA := lowerSet(a)
	setB := lowerSet(b)

	res := JaccardResult{
		Intersection: []string{},
		Union:        []string{},
		Missing:      []string{},
	}

	for token := range setA {
		res.Union = append(res.Union, token)
		if _, ok := setB[token]; ok {
			res.Intersection = append(res.Intersection, token)
		}
	}
	for token := range setB {
		if _, ok := setA[token]; !ok {
			res.Union = append(res.Union, token)
			res.Missing = append(res.Missing, token)
		}
	}

	sort.Strings(res.Intersection)
	sort.Strings(res.Union)
	sort.Strings(res.Missing)
	res.Matched = res.Intersection

	if len(res.Union) > 0 {
		res.Score = float64(len(res.Intersection)) / float64(len(res.Union))
	}

	return res
}

func lowerSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[strings.ToLower(token)] = struct{}{}
	}
	return set
}
