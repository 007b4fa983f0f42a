package engine

import "sort"

// SearchOptions narrows and orders a candidate result set.
type SearchOptions struct {
	// TypeID filters to one entity type when non-empty.
	TypeID string
	// Ordering must be one of searchOrderings; other values are
	// ignored and the candidate (relevance) order is kept.
	Ordering string
}

// searchOrderings is the fixed allow-list of search result orderings.
var searchOrderings = map[string]struct{}{
	"average_score":  {},
	"-average_score": {},
	"like_count":     {},
	"-like_count":    {},
	"name":           {},
	"-name":          {},
}

// Search restricts the snapshot collection to the candidate ids
// delivered by the full-text index, preserving their relevance order,
// then applies the optional type filter and ordering. Candidate ids
// with no matching snapshot are skipped. Pagination is the caller's
// concern.
func Search(snaps []Snapshot, candidates []string, opts SearchOptions) []Snapshot {
	byID := make(map[string]Snapshot, len(snaps))
	for _, s := range snaps {
		byID[s.ID] = s
	}

	results := make([]Snapshot, 0, len(candidates))
	for _, id := range candidates {
		s, ok := byID[id]
		if !ok {
			continue
		}
		if opts.TypeID != "" && s.TypeID != opts.TypeID {
			continue
		}
		results = append(results, s)
	}

	if _, ok := searchOrderings[opts.Ordering]; !ok {
		return results
	}

	desc := opts.Ordering[0] == '-'
	key := opts.Ordering
	if desc {
		key = key[1:]
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if desc {
			a, b = b, a
		}
		switch key {
		case "average_score":
			return a.AverageScore() < b.AverageScore()
		case "like_count":
			return a.LikeCount < b.LikeCount
		default:
			return a.Name < b.Name
		}
	})
	return results
}
