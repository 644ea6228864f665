// ABOUTME: Great-circle distance and nearest-gym selection.
// ABOUTME: Uses the haversine formula on a spherical earth.
package geo

import (
	"math"

	"github.com/alexng353/uplifting/internal/models"
)

const (
	// EarthRadiusMeters is the mean earth radius used by Distance.
	EarthRadiusMeters = 6371000.0

	// DetectionRadiusMeters is the maximum distance for a gym to be detected.
	DetectionRadiusMeters = 300.0
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Detection is a gym found near a position.
type Detection struct {
	Gym            models.Gym `json:"gym"`
	DistanceMeters float64    `json:"distanceMeters"`
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the great-circle distance between a and b in meters.
func Distance(a, b Coordinates) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return EarthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// NearestGym returns the closest gym within DetectionRadiusMeters of pos.
// Gyms without coordinates are skipped. Ties go to the first gym encountered.
func NearestGym(pos Coordinates, gyms []models.Gym) (Detection, bool) {
	var best Detection
	found := false

	for _, g := range gyms {
		if !g.HasLocation() {
			continue
		}
		d := Distance(pos, Coordinates{Latitude: *g.Latitude, Longitude: *g.Longitude})
		if d > DetectionRadiusMeters {
			continue
		}
		if !found || d < best.DistanceMeters {
			best = Detection{Gym: g, DistanceMeters: d}
			found = true
		}
	}

	return best, found
}
