// Cycling App - Social fitness tracking backend for cyclists.
// Copyright (C) 2026  Habeeb Amz
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package decode

import (
	"fmt"

	"github.com/habeebamz/cycling-app-sub000/internal/domain"

	"github.com/tkrajina/gpxgo/gpx"
)

// GPXDecoder reads GPX uploads through gpxgo.
type GPXDecoder struct{}

func (d *GPXDecoder) Decode(data []byte) (domain.DecodedTrack, error) {
	gpxFile, err := gpx.ParseBytes(data)
	if err != nil {
		return domain.DecodedTrack{}, fmt.Errorf("%w: %v", domain.ErrDecodeFailure, err)
	}

	var points []domain.Waypoint

	appendPoint := func(p *gpx.GPXPoint) {
		points = append(points, domain.Waypoint{
			Longitude: p.Point.Longitude,
			Latitude:  p.Point.Latitude,
			Elevation: p.Elevation.Value(),
			Timestamp: p.Timestamp,
		})
	}

	for _, track := range gpxFile.Tracks {
		for _, segment := range track.Segments {
			for i := range segment.Points {
				appendPoint(&segment.Points[i])
			}
		}
	}

	// Some exporters write routes instead of tracks.
	if len(points) == 0 {
		for _, route := range gpxFile.Routes {
			for i := range route.Points {
				appendPoint(&route.Points[i])
			}
		}
	}

	if len(points) < 2 {
		return domain.DecodedTrack{}, domain.ErrNoTrackData
	}

	return domain.DecodedTrack{
		Track: domain.Track{Format: domain.FormatGPX, Points: points},
	}, nil
}
