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

package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/habeebamz/cycling-app-sub000/internal/domain"
	"github.com/habeebamz/cycling-app-sub000/internal/service/metrics"

	"github.com/muktihari/fit/encoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"
)

// Constant for converting Degrees to Semicircles (FIT Standard)
const degreesToSemicircles = 2147483648.0 / 180.0

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// WriteFIT serializes a stored activity back to a .FIT file so riders
// can take their rides elsewhere. Activities without a stored track
// still export their session summary.
func (s *Service) WriteFIT(activity domain.Activity, filepath string) error {
	var points []domain.Waypoint
	if activity.TrackJSON != "" {
		if err := json.Unmarshal([]byte(activity.TrackJSON), &points); err != nil {
			return fmt.Errorf("decode stored track: %w", err)
		}
	}

	f, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := encoder.New(f)
	fit := proto.FIT{}

	fileIdMesg := mesgdef.FileId{
		Type:         typedef.FileActivity,
		Manufacturer: typedef.ManufacturerDevelopment,
		Product:      0,
		SerialNumber: 12345,
		TimeCreated:  activity.StartTime,
	}
	fit.Messages = append(fit.Messages, fileIdMesg.ToMesg(nil))

	// Records: distance along the track accumulates in centimeters.
	var distKm float64
	var prev domain.Waypoint
	for i, wp := range points {
		if i > 0 {
			distKm += metrics.HaversineKm(prev, wp)
		}
		prev = wp

		ts := wp.Timestamp
		if ts.IsZero() {
			// Tracks without timestamps get one synthetic sample per
			// second from the activity start.
			ts = activity.StartTime.Add(time.Duration(i) * time.Second)
		}

		record := &mesgdef.Record{
			Timestamp:        ts,
			PositionLat:      int32(wp.Latitude * degreesToSemicircles),
			PositionLong:     int32(wp.Longitude * degreesToSemicircles),
			Distance:         uint32(distKm * 100000), // km -> cm
			EnhancedAltitude: uint32((wp.Elevation + 500.0) * 5.0),
		}
		fit.Messages = append(fit.Messages, record.ToMesg(nil))
	}

	endTime := activity.EndTime
	if endTime.IsZero() {
		endTime = activity.StartTime.Add(time.Duration(activity.DurationSeconds) * time.Second)
	}
	totalMs := uint32(activity.DurationSeconds) * 1000
	totalDistCm := uint32(activity.DistanceKm * 100000)

	eventMesg := mesgdef.Event{
		Timestamp: endTime,
		Event:     typedef.EventTimer,
		EventType: typedef.EventTypeStopAll,
	}
	fit.Messages = append(fit.Messages, eventMesg.ToMesg(nil))

	lapMesg := mesgdef.Lap{
		Timestamp:        endTime,
		StartTime:        activity.StartTime,
		TotalElapsedTime: totalMs,
		TotalTimerTime:   totalMs,
		TotalDistance:    totalDistCm,
		AvgPower:         uint16(activity.AvgPower),
		Event:            typedef.EventLap,
		EventType:        typedef.EventTypeStop,
	}
	fit.Messages = append(fit.Messages, lapMesg.ToMesg(nil))

	sessionMesg := mesgdef.Session{
		Timestamp:        endTime,
		StartTime:        activity.StartTime,
		TotalElapsedTime: totalMs,
		TotalTimerTime:   totalMs,
		TotalDistance:    totalDistCm,
		TotalCalories:    uint16(activity.CaloriesKcal),
		AvgPower:         uint16(activity.AvgPower),
		Sport:            typedef.SportCycling,
		Event:            typedef.EventSession,
		EventType:        typedef.EventTypeStop,
		Trigger:          typedef.SessionTriggerActivityEnd,
	}
	fit.Messages = append(fit.Messages, sessionMesg.ToMesg(nil))

	if err := enc.Encode(&fit); err != nil {
		return err
	}

	return nil
}
