package decode

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/habeebamz/cycling-app-sub000/internal/domain"
)

// TCX has no decoding library in our stack, but the schema is a plain
// XML document that encoding/xml handles with struct tags.
type tcxFile struct {
	XMLName    xml.Name      `xml:"TrainingCenterDatabase"`
	Activities []tcxActivity `xml:"Activities>Activity"`
}

type tcxActivity struct {
	Sport string   `xml:"Sport,attr"`
	Laps  []tcxLap `xml:"Lap"`
}

type tcxLap struct {
	Trackpoints []tcxTrackpoint `xml:"Track>Trackpoint"`
}

type tcxTrackpoint struct {
	Time           string       `xml:"Time"`
	Position       *tcxPosition `xml:"Position"`
	AltitudeMeters float64      `xml:"AltitudeMeters"`
}

type tcxPosition struct {
	LatitudeDegrees  float64 `xml:"LatitudeDegrees"`
	LongitudeDegrees float64 `xml:"LongitudeDegrees"`
}

// TCXDecoder reads Garmin Training Center uploads.
type TCXDecoder struct{}

func (d *TCXDecoder) Decode(data []byte) (domain.DecodedTrack, error) {
	var doc tcxFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return domain.DecodedTrack{}, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}

	var raw []tcxTrackpoint
	for _, act := range doc.Activities {
		for _, lap := range act.Laps {
			raw = append(raw, lap.Trackpoints...)
		}
	}

	// Validity is judged on the raw trackpoint count, before any
	// position filtering.
	if len(raw) < 2 {
		return domain.DecodedTrack{}, domain.ErrInsufficientTrackData
	}

	var points []domain.Waypoint
	for _, tp := range raw {
		if tp.Position == nil {
			continue
		}
		// Trackpoints with a zeroed position are GPS dropouts.
		if tp.Position.LatitudeDegrees == 0 && tp.Position.LongitudeDegrees == 0 {
			continue
		}
		wp := domain.Waypoint{
			Longitude: tp.Position.LongitudeDegrees,
			Latitude:  tp.Position.LatitudeDegrees,
			Elevation: tp.AltitudeMeters,
		}
		if ts, err := time.Parse(time.RFC3339, tp.Time); err == nil {
			wp.Timestamp = ts
		}
		points = append(points, wp)
	}

	return domain.DecodedTrack{
		Track: domain.Track{Format: domain.FormatTCX, Points: points},
	}, nil
}
