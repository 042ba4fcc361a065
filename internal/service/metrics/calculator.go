// Package metrics derives distance, climbing, duration and energy
// figures from a canonical track. Everything here is a pure function of
// its inputs.
package metrics

import (
	"math"

	"github.com/habeebamz/cycling-app-sub000/internal/domain"
)

const (
	earthRadiusKm = 6371.0

	// TCX barometric samples jitter below half a meter; elevation
	// deltas under this floor are ignored for that format only.
	tcxElevationNoiseFloorM = 0.5

	// GPX files without timestamps get a fixed one-hour duration.
	defaultGPXDurationSeconds = 3600
)

// Stats are the waypoint-derived totals for one track.
type Stats struct {
	DistanceKm          float64
	ElevationGainMeters float64
	DurationSeconds     int
}

// Compute accumulates pairwise great-circle distance and positive
// elevation deltas over the track. Descents never reduce the gain.
func Compute(track domain.Track) Stats {
	var s Stats

	pts := track.Points
	for i := 1; i < len(pts); i++ {
		s.DistanceKm += HaversineKm(pts[i-1], pts[i])

		delta := pts[i].Elevation - pts[i-1].Elevation
		if track.Format == domain.FormatTCX && math.Abs(delta) < tcxElevationNoiseFloorM {
			continue
		}
		if delta > 0 {
			s.ElevationGainMeters += delta
		}
	}

	s.DurationSeconds = trackDuration(track)
	return s
}

func trackDuration(track domain.Track) int {
	pts := track.Points
	if len(pts) >= 2 {
		first := pts[0].Timestamp
		last := pts[len(pts)-1].Timestamp
		if !first.IsZero() && !last.IsZero() && last.After(first) {
			return int(last.Sub(first).Seconds())
		}
	}
	if track.Format == domain.FormatGPX {
		return defaultGPXDurationSeconds
	}
	return 0
}

// HaversineKm is the great-circle distance between two waypoints.
func HaversineKm(a, b domain.Waypoint) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
