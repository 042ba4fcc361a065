package metrics

import (
	"math"

	"github.com/habeebamz/cycling-app-sub000/internal/domain"
)

// METsForSpeed maps an average cycling speed in km/h to a MET value.
// Intervals are half-open with the lower bound inclusive.
func METsForSpeed(speedKmh float64) float64 {
	switch {
	case speedKmh < 16:
		return 4.0
	case speedKmh < 19:
		return 6.8
	case speedKmh < 22:
		return 8.0
	case speedKmh < 25:
		return 10.0
	default:
		return 12.0
	}
}

// AverageSpeedKmh returns 0 when the duration is 0.
func AverageSpeedKmh(distanceKm float64, durationSeconds int) float64 {
	if durationSeconds <= 0 {
		return 0
	}
	return distanceKm / (float64(durationSeconds) / 3600.0)
}

// EstimateCalories estimates the energy cost of a ride in kcal.
// An explicit rider-supplied calorie figure takes precedence upstream
// and never reaches this function.
func EstimateCalories(distanceKm float64, durationSeconds int, weightKg float64) int {
	if weightKg <= 0 {
		weightKg = domain.DefaultWeightKg
	}
	mets := METsForSpeed(AverageSpeedKmh(distanceKm, durationSeconds))
	hours := float64(durationSeconds) / 3600.0
	return int(math.Round(mets * weightKg * hours))
}
