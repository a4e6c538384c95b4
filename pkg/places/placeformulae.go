package places

import "math"

const earthRadiusKm = 6371

// Distance calculates the great-circle distance in kilometers between two
// coordinates given in decimal degrees.
func Distance(a, b Coordinate) float64 {
	phiA, phiB := radians(a.Lat), radians(b.Lat)
	h := hav(phiB-phiA) + math.Cos(phiA)*math.Cos(phiB)*hav(radians(b.Lon-a.Lon))
	// Rounding can push h past 1 for antipodal points.
	h = math.Min(h, 1)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// hav is the haversine function, sin²(θ/2).
func hav(theta float64) float64 {
	s := math.Sin(theta / 2)
	return s * s
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
