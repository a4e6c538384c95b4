package places_test

import (
	"testing"

	"github.com/illmade-knight/place-picker/pkg/places"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(ps []places.Place) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestSortByDistance(t *testing.T) {
	berlin := places.Place{ID: "p1", Name: "Berlin", Lat: 52.5, Lon: 13.4}
	paris := places.Place{ID: "p2", Name: "Paris", Lat: 48.8, Lon: 2.3}
	madrid := places.Place{ID: "p3", Name: "Madrid", Lat: 40.4, Lon: -3.7}
	warsaw := places.Place{ID: "p4", Name: "Warsaw", Lat: 52.2, Lon: 21.0}

	t.Run("Nearest first", func(t *testing.T) {
		in := []places.Place{madrid, paris, berlin}
		sorted := places.SortByDistance(in, places.Coordinate{Lat: 52.5, Lon: 13.4})
		assert.Equal(t, []string{"p1", "p2", "p3"}, ids(sorted))
	})

	t.Run("Is a permutation with non-decreasing distance", func(t *testing.T) {
		in := []places.Place{warsaw, madrid, berlin, paris}
		ref := places.Coordinate{Lat: 45, Lon: 5}
		sorted := places.SortByDistance(in, ref)

		require.Len(t, sorted, len(in))
		assert.ElementsMatch(t, in, sorted)
		for i := 1; i < len(sorted); i++ {
			prev := places.Distance(ref, sorted[i-1].Coordinate())
			cur := places.Distance(ref, sorted[i].Coordinate())
			assert.LessOrEqual(t, prev, cur)
		}
	})

	t.Run("Does not mutate input", func(t *testing.T) {
		in := []places.Place{madrid, paris, berlin}
		_ = places.SortByDistance(in, places.Coordinate{Lat: 52.5, Lon: 13.4})
		assert.Equal(t, []string{"p3", "p2", "p1"}, ids(in))
	})

	t.Run("Idempotent", func(t *testing.T) {
		ref := places.Coordinate{Lat: 50, Lon: 10}
		once := places.SortByDistance([]places.Place{madrid, warsaw, paris, berlin}, ref)
		twice := places.SortByDistance(once, ref)
		assert.Equal(t, once, twice)
	})

	t.Run("Stable for equal distances", func(t *testing.T) {
		a := places.Place{ID: "a", Lat: 10, Lon: 10}
		b := places.Place{ID: "b", Lat: 10, Lon: 10}
		c := places.Place{ID: "c", Lat: 10, Lon: 10}
		near := places.Place{ID: "near", Lat: 0, Lon: 0}

		sorted := places.SortByDistance([]places.Place{b, c, near, a}, places.Coordinate{})
		assert.Equal(t, []string{"near", "b", "c", "a"}, ids(sorted))
	})

	t.Run("Empty", func(t *testing.T) {
		sorted := places.SortByDistance(nil, places.Coordinate{})
		assert.Empty(t, sorted)
	})
}
