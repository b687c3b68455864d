package matching

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	exactCityScore   = 1.0
	partialCityScore = 0.9
	aliasCityScore   = 1.0
	remoteScore      = 1.0
	hybridScore      = 0.8
)

// cityAliases lists spellings of the same city. A city matches a group when
// it contains one of the spellings.
var cityAliases = map[string][]string{
	"munich":     {"münchen", "muenchen", "munich"},
	"cologne":    {"köln", "koeln", "cologne"},
	"frankfurt":  {"frankfurt am main", "frankfurt/main", "frankfurt"},
	"düsseldorf": {"duesseldorf", "dusseldorf", "düsseldorf"},
	"nuremberg":  {"nürnberg", "nuernberg", "nuremberg"},
	"zurich":     {"zürich", "zuerich", "zurich"},
	"vienna":     {"wien", "vienna"},
}

// LocationInput carries the location facts of a job and a candidate.
type LocationInput struct {
	JobCity       string
	RemoteAllowed bool
	HybridAllowed bool
	CandidateCity string
	WillingRemote bool
	WillingHybrid bool
}

// LocationFit evaluates, first match wins: exact city, containment, city
// alias, remote, hybrid. City rules are skipped when either city is empty.
func LocationFit(in LocationInput) ComponentScore {
	res := ComponentScore{Matched: []string{}, Missing: []string{}}

	job := foldCity(in.JobCity)
	candidate := foldCity(in.CandidateCity)

	if job != "" && candidate != "" {
		switch {
		case job == candidate:
			res.Score = exactCityScore
			res.Matched = append(res.Matched, in.JobCity)
			res.Explanation = fmt.Sprintf("Perfect location match: %s", in.JobCity)
			return res
		case strings.Contains(job, candidate) || strings.Contains(candidate, job):
			res.Score = partialCityScore
			res.Matched = append(res.Matched, in.JobCity)
			res.Explanation = fmt.Sprintf("Location match: %s ≈ %s", in.JobCity, in.CandidateCity)
			return res
		case sameCity(job, candidate):
			res.Score = aliasCityScore
			res.Matched = append(res.Matched, in.JobCity)
			res.Explanation = fmt.Sprintf("Location match via mapping: %s = %s", in.JobCity, in.CandidateCity)
			return res
		}
	}

	switch {
	case in.RemoteAllowed && in.WillingRemote:
		res.Score = remoteScore
		res.Matched = append(res.Matched, "remote")
		res.Explanation = "Remote work compatible"
	case in.HybridAllowed && in.WillingHybrid:
		res.Score = hybridScore
		res.Matched = append(res.Matched, "hybrid")
		res.Explanation = "Hybrid work compatible"
	default:
		if in.JobCity != "" {
			res.Missing = append(res.Missing, in.JobCity)
		}
		res.Explanation = "Location/work mode incompatible"
	}

	return res
}

func foldCity(city string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(city)))
}

func sameCity(a, b string) bool {
	for _, spellings := range cityAliases {
		if containsAny(a, spellings) && containsAny(b, spellings) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
