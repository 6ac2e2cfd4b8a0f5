package geospatial

import (
	"math"

	"github.com/paulmach/orb"
)

const earthRadiusKm = 6371.0

// HaversineKm calculates the great-circle distance in kilometers between two points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push a just past 1 for near-antipodal points
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// DistanceToLineKm returns the minimum Haversine distance from (lat, lon) to any
// vertex of line. An empty line yields +Inf.
func DistanceToLineKm(lat, lon float64, line orb.LineString) float64 {
	best := math.Inf(1)
	for _, p := range line {
		if d := HaversineKm(lat, lon, p.Lat(), p.Lon()); d < best {
			best = d
		}
	}
	return best
}

// PathLengthKm sums the leg distances of an open path.
func PathLengthKm(path orb.LineString) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += HaversineKm(path[i-1].Lat(), path[i-1].Lon(), path[i].Lat(), path[i].Lon())
	}
	return total
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
