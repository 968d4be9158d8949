package biz

import (
	"sort"
)

// TopDirectorLimit is the number of directors kept by PrepTop10Directors.
const TopDirectorLimit = 10

// DirectorCount is the number of records attributed to a director.
type DirectorCount struct {
	Director string `json:"director"`
	Count    int    `json:"count"`
}

// PrepTop10Directors drops records without a director or popularity and keeps
// only those whose director is among the ten with the most records. Equal
// counts are ranked alphabetically. Input order is preserved.
func PrepTop10Directors(records []*JoinedRecord) []*JoinedRecord {
	usable := make([]*JoinedRecord, 0, len(records))
	for _, r := range records {
		if r == nil || r.DirectorName == nil || r.Popularity == nil {
			continue
		}
		usable = append(usable, r)
	}

	top := TopDirectors(usable, TopDirectorLimit)
	keep := make(map[string]struct{}, len(top))
	for _, dc := range top {
		keep[dc.Director] = struct{}{}
	}

	out := make([]*JoinedRecord, 0, len(usable))
	for _, r := range usable {
		if _, ok := keep[*r.DirectorName]; ok {
			out = append(out, r)
		}
	}
	return out
}

// TopDirectors ranks directors by record count, descending, ties by name, and
// returns at most n of them. Records without a director are ignored.
func TopDirectors(records []*JoinedRecord, n int) []DirectorCount {
	ranked := countDirectors(records)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Director < ranked[j].Director
	})
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func countDirectors(records []*JoinedRecord) []DirectorCount {
	idx := make(map[string]int)
	var counts []DirectorCount
	for _, r := range records {
		if r == nil || r.DirectorName == nil {
			continue
		}
		name := *r.DirectorName
		i, ok := idx[name]
		if !ok {
			i = len(counts)
			idx[name] = i
			counts = append(counts, DirectorCount{Director: name})
		}
		counts[i].Count++
	}
	return counts
}
