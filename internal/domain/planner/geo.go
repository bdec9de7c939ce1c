package planner

import (
	"math"

	"github.com/FACorreiaa/loci-trip-planner/internal/types"
)

const (
	earthRadiusKm      = 6371.0
	averageSpeedKmh    = 40.0
	clusterRadiusKm    = 30.0
	mustVisitSlackRate = 1.5
)

// DefaultOrigin is the region centroid used whenever a record has no coordinates.
var DefaultOrigin = types.GeoPoint{Latitude: 12.97, Longitude: 124.00}

// Distance returns the great-circle distance in kilometers between two points using
// the haversine formula.
func Distance(a, b types.GeoPoint) float64 {
	lat1 := a.Latitude * math.Pi / 180
	lat2 := b.Latitude * math.Pi / 180
	dLat := (b.Latitude - a.Latitude) * math.Pi / 180
	dLon := (b.Longitude - a.Longitude) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h marginally past 1 for antipodal points.
	h = math.Min(1, h)

	return earthRadiusKm * 2 * math.Asin(math.Sqrt(h))
}

// EstimateTravelMinutes converts a distance into whole minutes at the average road speed.
func EstimateTravelMinutes(distanceKm float64) int {
	return int(distanceKm / averageSpeedKmh * 60)
}

// pointOf substitutes DefaultOrigin for a missing coordinate.
func pointOf(p *types.GeoPoint) types.GeoPoint {
	if p == nil {
		return DefaultOrigin
	}
	return *p
}

func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
