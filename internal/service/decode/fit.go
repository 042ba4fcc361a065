package decode

import (
	"bytes"
	"fmt"

	"github.com/habeebamz/cycling-app-sub000/internal/domain"

	"github.com/tormoder/fit"
)

const semicirclesToDegrees = 180.0 / 2147483648.0 // 2^31

// FITDecoder reads Garmin FIT uploads through tormoder/fit.
type FITDecoder struct{}

func (d *FITDecoder) Decode(data []byte) (domain.DecodedTrack, error) {
	decoded, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return domain.DecodedTrack{}, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}

	activity, err := decoded.Activity()
	if err != nil {
		return domain.DecodedTrack{}, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}

	var points []domain.Waypoint
	for _, rec := range activity.Records {
		// Keep positions only when both coordinates are present and
		// inside valid bounds.
		if rec.PositionLat.Semicircles() == 0 || rec.PositionLong.Semicircles() == 0 {
			continue
		}
		lat := float64(rec.PositionLat.Semicircles()) * semicirclesToDegrees
		lon := float64(rec.PositionLong.Semicircles()) * semicirclesToDegrees
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			continue
		}

		wp := domain.Waypoint{
			Longitude: lon,
			Latitude:  lat,
			Timestamp: rec.Timestamp,
		}
		// Altitude per the FIT profile: scale 5, offset 500. 0xFFFF is
		// the invalid sentinel.
		if rec.Altitude != 0 && rec.Altitude != 0xFFFF {
			wp.Elevation = float64(rec.Altitude)/5.0 - 500.0
		}
		points = append(points, wp)
	}

	if len(points) < 2 {
		return domain.DecodedTrack{}, domain.ErrInsufficientTrackData
	}

	out := domain.DecodedTrack{
		Track: domain.Track{Format: domain.FormatFIT, Points: points},
	}

	// The session message carries the device's own totals. A missing or
	// zero-distance summary is treated as absent and the pipeline falls
	// back to waypoint-derived numbers.
	if len(activity.Sessions) > 0 {
		s := activity.Sessions[0]
		// Raw FIT scaling: total_distance is centimeters (scale 100),
		// total_timer_time is milliseconds (scale 1000).
		if s.TotalDistance > 0 && s.TotalDistance != 0xFFFFFFFF {
			summary := &domain.TrackSummary{
				DistanceKm: float64(s.TotalDistance) / 100.0 / 1000.0,
			}
			if s.TotalTimerTime > 0 && s.TotalTimerTime != 0xFFFFFFFF {
				summary.DurationSeconds = int(float64(s.TotalTimerTime) / 1000.0)
			}
			out.Summary = summary
		}
	}

	return out, nil
}
