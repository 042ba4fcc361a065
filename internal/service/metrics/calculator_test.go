package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/habeebamz/cycling-app-sub000/internal/domain"
)

func wp(lat, lon, ele float64) domain.Waypoint {
	return domain.Waypoint{Latitude: lat, Longitude: lon, Elevation: ele}
}

func reversed(points []domain.Waypoint) []domain.Waypoint {
	out := make([]domain.Waypoint, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

func TestHaversineKnownDistance(t *testing.T) {
	// 0.009 degrees of latitude is very close to one kilometer.
	d := HaversineKm(wp(0, 0, 0), wp(0.009, 0, 0))
	if math.Abs(d-1.0) > 0.01 {
		t.Fatalf("expected ~1 km, got %f", d)
	}
}

func TestDistanceSymmetricUnderReversal(t *testing.T) {
	points := []domain.Waypoint{
		wp(45.0, 7.0, 100),
		wp(45.01, 7.01, 150),
		wp(45.02, 7.005, 120),
		wp(45.03, 7.02, 180),
	}
	forward := Compute(domain.Track{Format: domain.FormatGPX, Points: points})
	backward := Compute(domain.Track{Format: domain.FormatGPX, Points: reversed(points)})

	if math.Abs(forward.DistanceKm-backward.DistanceKm) > 1e-9 {
		t.Fatalf("distance changed under reversal: %f vs %f", forward.DistanceKm, backward.DistanceKm)
	}
}

func TestElevationGainCountsOnlyAscents(t *testing.T) {
	points := []domain.Waypoint{
		wp(45.0, 7.0, 100),
		wp(45.01, 7.0, 150), // +50
		wp(45.02, 7.0, 120), // -30, ignored
		wp(45.03, 7.0, 180), // +60
	}
	stats := Compute(domain.Track{Format: domain.FormatGPX, Points: points})
	if math.Abs(stats.ElevationGainMeters-110) > 1e-9 {
		t.Fatalf("expected 110 m gain, got %f", stats.ElevationGainMeters)
	}

	// Reversing the track swaps which deltas count: gain becomes 80.
	stats = Compute(domain.Track{Format: domain.FormatGPX, Points: reversed(points)})
	if math.Abs(stats.ElevationGainMeters-80) > 1e-9 {
		t.Fatalf("expected 80 m gain on reversed track, got %f", stats.ElevationGainMeters)
	}
}

func TestElevationGainNeverNegative(t *testing.T) {
	points := []domain.Waypoint{
		wp(45.0, 7.0, 500),
		wp(45.01, 7.0, 400),
		wp(45.02, 7.0, 300),
	}
	stats := Compute(domain.Track{Format: domain.FormatGPX, Points: points})
	if stats.ElevationGainMeters != 0 {
		t.Fatalf("pure descent should yield 0 gain, got %f", stats.ElevationGainMeters)
	}
}

func TestTCXNoiseFloorSuppressesSmallDeltas(t *testing.T) {
	points := []domain.Waypoint{
		wp(45.0, 7.0, 100.0),
		wp(45.01, 7.0, 100.3),
		wp(45.02, 7.0, 100.6),
		wp(45.03, 7.0, 100.9),
	}
	// Each delta is 0.3 m, below the 0.5 m floor: total gain stays 0
	// for TCX even though the cumulative true gain is 0.9 m.
	stats := Compute(domain.Track{Format: domain.FormatTCX, Points: points})
	if stats.ElevationGainMeters != 0 {
		t.Fatalf("TCX gain below noise floor should be 0, got %f", stats.ElevationGainMeters)
	}

	// The same track as GPX keeps every positive delta.
	stats = Compute(domain.Track{Format: domain.FormatGPX, Points: points})
	if math.Abs(stats.ElevationGainMeters-0.9) > 1e-9 {
		t.Fatalf("GPX gain should be 0.9 m, got %f", stats.ElevationGainMeters)
	}
}

func TestDurationFromTimestamps(t *testing.T) {
	start := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	points := []domain.Waypoint{
		{Latitude: 45.0, Longitude: 7.0, Timestamp: start},
		{Latitude: 45.01, Longitude: 7.0, Timestamp: start.Add(10 * time.Minute)},
		{Latitude: 45.02, Longitude: 7.0, Timestamp: start.Add(25 * time.Minute)},
	}
	stats := Compute(domain.Track{Format: domain.FormatFIT, Points: points})
	if stats.DurationSeconds != 1500 {
		t.Fatalf("expected 1500 s, got %d", stats.DurationSeconds)
	}
}

func TestGPXDurationFallback(t *testing.T) {
	points := []domain.Waypoint{wp(45.0, 7.0, 0), wp(45.01, 7.0, 0)}

	stats := Compute(domain.Track{Format: domain.FormatGPX, Points: points})
	if stats.DurationSeconds != 3600 {
		t.Fatalf("GPX without timestamps should default to 3600 s, got %d", stats.DurationSeconds)
	}

	// Other formats without timestamps report 0 and let the caller
	// decide.
	stats = Compute(domain.Track{Format: domain.FormatTCX, Points: points})
	if stats.DurationSeconds != 0 {
		t.Fatalf("TCX without timestamps should report 0 s, got %d", stats.DurationSeconds)
	}
}
