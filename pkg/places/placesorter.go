package places

import "sort"

// SortByDistance returns a new slice holding the same places ordered by
// ascending distance from ref. Places at equal distance keep their original
// relative order. The input slice is left untouched.
func SortByDistance(ps []Place, ref Coordinate) []Place {
	type ranked struct {
		place Place
		km    float64
	}

	rs := make([]ranked, len(ps))
	for i, p := range ps {
		rs[i] = ranked{place: p, km: Distance(ref, p.Coordinate())}
	}
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].km < rs[j].km
	})

	sorted := make([]Place, len(rs))
	for i, r := range rs {
		sorted[i] = r.place
	}
	return sorted
}
