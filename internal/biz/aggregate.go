package biz

import (
	"math"
	"sort"
)

// DirectorValue is a single statistic computed for a director.
type DirectorValue struct {
	Director string  `json:"director"`
	Value    float64 `json:"value"`
}

// BoxStats summarises a director's popularity distribution. Whiskers stop at
// the most extreme values within 1.5 IQR of the quartiles.
type BoxStats struct {
	Director   string    `json:"director"`
	Values     []float64 `json:"values"`
	Min        float64   `json:"min"`
	Q1         float64   `json:"q1"`
	Median     float64   `json:"median"`
	Q3         float64   `json:"q3"`
	Max        float64   `json:"max"`
	LowWhisker float64   `json:"low_whisker"`
	HiWhisker  float64   `json:"high_whisker"`
	Outliers   []float64 `json:"outliers"`
}

// ScatterPoint is one movie's popularity/rating pair.
type ScatterPoint struct {
	Director    string  `json:"director"`
	Popularity  float64 `json:"popularity"`
	VoteAverage float64 `json:"vote_average"`
}

// CountByDirector counts records per director, ordered by director name.
func CountByDirector(records []*JoinedRecord) []DirectorCount {
	counts := countDirectors(records)
	sort.Slice(counts, func(i, j int) bool { return counts[i].Director < counts[j].Director })
	return counts
}

// PopularityByDirector returns the popularity distribution per director,
// ordered by director name. Records without popularity are skipped.
func PopularityByDirector(records []*JoinedRecord) []BoxStats {
	groups := groupValues(records, func(r *JoinedRecord) *float64 { return r.Popularity })
	out := make([]BoxStats, 0, len(groups))
	for _, g := range groups {
		out = append(out, boxStats(g.director, g.values))
	}
	return out
}

// PopularityVsRating returns the records that have both popularity and
// vote average, in input order.
func PopularityVsRating(records []*JoinedRecord) []ScatterPoint {
	points := make([]ScatterPoint, 0, len(records))
	for _, r := range records {
		if r == nil || r.DirectorName == nil || r.Popularity == nil || r.VoteAverage == nil {
			continue
		}
		points = append(points, ScatterPoint{
			Director:    *r.DirectorName,
			Popularity:  *r.Popularity,
			VoteAverage: *r.VoteAverage,
		})
	}
	return points
}

// MedianPopularityByDirector returns median popularity per director, highest first.
func MedianPopularityByDirector(records []*JoinedRecord) []DirectorValue {
	out := medianBy(records, func(r *JoinedRecord) *float64 { return r.Popularity })
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Director < out[j].Director
	})
	return out
}

// MedianRatingByDirector returns median vote average per director, ordered by
// director name. Directors with no rated records are absent.
func MedianRatingByDirector(records []*JoinedRecord) []DirectorValue {
	return medianBy(records, func(r *JoinedRecord) *float64 { return r.VoteAverage })
}

// Median returns the middle value of values, or the mean of the two middle
// values for an even count. ok is false for an empty slice.
func Median(values []float64) (median float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	return Quantile(sortedCopy(values), 0.5), true
}

// Quantile returns the p-quantile of sorted using linear interpolation
// between closest ranks. sorted must be ascending and non-empty.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

type valueGroup struct {
	director string
	values   []float64
}

func groupValues(records []*JoinedRecord, field func(*JoinedRecord) *float64) []valueGroup {
	idx := make(map[string]int)
	var groups []valueGroup
	for _, r := range records {
		if r == nil || r.DirectorName == nil {
			continue
		}
		v := field(r)
		if v == nil {
			continue
		}
		name := *r.DirectorName
		i, ok := idx[name]
		if !ok {
			i = len(groups)
			idx[name] = i
			groups = append(groups, valueGroup{director: name})
		}
		groups[i].values = append(groups[i].values, *v)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].director < groups[j].director })
	return groups
}

func medianBy(records []*JoinedRecord, field func(*JoinedRecord) *float64) []DirectorValue {
	groups := groupValues(records, field)
	out := make([]DirectorValue, 0, len(groups))
	for _, g := range groups {
		m, _ := Median(g.values)
		out = append(out, DirectorValue{Director: g.director, Value: m})
	}
	return out
}

func boxStats(director string, values []float64) BoxStats {
	sorted := sortedCopy(values)
	b := BoxStats{
		Director: director,
		Values:   sorted,
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
		Q1:       Quantile(sorted, 0.25),
		Median:   Quantile(sorted, 0.5),
		Q3:       Quantile(sorted, 0.75),
	}
	iqr := b.Q3 - b.Q1
	lowFence, highFence := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.LowWhisker, b.HiWhisker = b.Q1, b.Q3
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		if v < b.LowWhisker {
			b.LowWhisker = v
		}
		if v > b.HiWhisker {
			b.HiWhisker = v
		}
	}
	return b
}

func sortedCopy(values []float64) []float64 {
	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)
	return s
}
