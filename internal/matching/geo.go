// Package matching implements the volunteer-event matching engine: five
// weighted factor scorers, a score aggregator with quality labels and
// recommendations, and a greedy assignment optimizer. Scoring is pure,
// deterministic computation with no I/O; callers own data fetching and
// persistence.
package matching

import "math"

const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two coordinates in
// kilometers using the haversine formula. Symmetric, zero for identical
// points.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
