// Package ingest runs the activity pipeline: decode the uploaded track,
// derive its metrics, estimate energy, persist the activity, apply the
// lifetime aggregates and advance challenge progress. The stages run
// strictly in that order; any failure up to and including the aggregate
// stage aborts ingestion with nothing persisted.
package ingest

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/habeebamz/cycling-app-sub000/internal/domain"
	"github.com/habeebamz/cycling-app-sub000/internal/service/challenge"
	"github.com/habeebamz/cycling-app-sub000/internal/service/decode"
	"github.com/habeebamz/cycling-app-sub000/internal/service/metrics"
	"github.com/habeebamz/cycling-app-sub000/internal/service/records"
)

// FileUpload carries one uploaded activity file plus the rider's
// annotations. CaloriesKcal is an explicit override; 0 means estimate.
type FileUpload struct {
	Filename     string
	Data         []byte
	AthleteID    uint
	Title        string
	Description  string
	CaloriesKcal int
	StartTime    time.Time
	AvgPower     int
	AvgHeartRate int
	MaxHeartRate int
}

// ManualEntry is an activity summary typed in by the rider, with no
// track attached.
type ManualEntry struct {
	AthleteID           uint
	Title               string
	Description         string
	DistanceKm          float64
	DurationSeconds     int
	ElevationGainMeters float64
	CaloriesKcal        int
	StartTime           time.Time
}

var errNegativeSummary = errors.New("distance and duration must be non-negative")

type Service struct {
	activities domain.ActivityStore
	records    *records.Service
	challenges *challenge.Engine
}

func NewService(activities domain.ActivityStore, records *records.Service, challenges *challenge.Engine) *Service {
	return &Service{activities: activities, records: records, challenges: challenges}
}

// IngestFile runs the full pipeline for an uploaded track file.
func (s *Service) IngestFile(up FileUpload) (domain.Activity, error) {
	format, err := decode.FormatFromFilename(up.Filename)
	if err != nil {
		return domain.Activity{}, err
	}

	decoder, err := decode.ForFormat(format)
	if err != nil {
		return domain.Activity{}, err
	}

	decoded, err := decoder.Decode(up.Data)
	if err != nil {
		return domain.Activity{}, err
	}

	stats := metrics.Compute(decoded.Track)

	// Totals reported by the container itself win over waypoint-derived
	// numbers. When the summary carries no duration the timestamps
	// computed above stand.
	if sum := decoded.Summary; sum != nil {
		if sum.DistanceKm > 0 {
			stats.DistanceKm = sum.DistanceKm
		}
		if sum.DurationSeconds > 0 {
			stats.DurationSeconds = sum.DurationSeconds
		}
	}

	activity := domain.Activity{
		AthleteID:           up.AthleteID,
		Title:               up.Title,
		Description:         up.Description,
		DistanceKm:          stats.DistanceKm,
		DurationSeconds:     stats.DurationSeconds,
		ElevationGainMeters: stats.ElevationGainMeters,
		AvgPower:            up.AvgPower,
		AvgHeartRate:        up.AvgHeartRate,
		MaxHeartRate:        up.MaxHeartRate,
		SourceFormat:        format,
	}
	setTimes(&activity, up.StartTime, decoded.Track)

	if trackJSON, err := json.Marshal(decoded.Track.Points); err == nil {
		activity.TrackJSON = string(trackJSON)
	}

	return s.finalize(activity, up.CaloriesKcal)
}

// IngestManual persists a summary the rider entered by hand, bypassing
// the decoder and metrics stages entirely.
func (s *Service) IngestManual(entry ManualEntry) (domain.Activity, error) {
	if entry.DistanceKm < 0 || entry.DurationSeconds < 0 {
		return domain.Activity{}, errNegativeSummary
	}

	activity := domain.Activity{
		AthleteID:           entry.AthleteID,
		Title:               entry.Title,
		Description:         entry.Description,
		DistanceKm:          entry.DistanceKm,
		DurationSeconds:     entry.DurationSeconds,
		ElevationGainMeters: entry.ElevationGainMeters,
		SourceFormat:        domain.FormatManual,
	}
	setTimes(&activity, entry.StartTime, domain.Track{})

	return s.finalize(activity, entry.CaloriesKcal)
}

// finalize resolves the personal-best flag and calories, persists the
// activity and fans it out to the aggregate and challenge stages.
func (s *Service) finalize(activity domain.Activity, calorieOverride int) (domain.Activity, error) {
	athlete, isBest, err := s.records.Evaluate(activity.AthleteID, activity.DistanceKm)
	if err != nil {
		return domain.Activity{}, err
	}
	activity.IsPersonalBest = isBest

	if calorieOverride > 0 {
		activity.CaloriesKcal = calorieOverride
	} else {
		activity.CaloriesKcal = metrics.EstimateCalories(
			activity.DistanceKm, activity.DurationSeconds, athlete.WeightKg)
	}

	if err := s.activities.CreateActivity(&activity); err != nil {
		return domain.Activity{}, err
	}

	if err := s.records.Commit(activity); err != nil {
		return domain.Activity{}, err
	}

	// Challenge evaluation never fails the ingestion; the persisted
	// activity and totals stand either way.
	s.challenges.Apply(activity)

	return activity, nil
}

// DeleteActivity removes an activity and reverses its contribution to
// the athlete's lifetime distance.
func (s *Service) DeleteActivity(id string) error {
	deleted, err := s.activities.DeleteActivity(id)
	if err != nil {
		return err
	}
	return s.records.Reverse(deleted)
}

// UpdateDetails edits the only mutable activity fields.
func (s *Service) UpdateDetails(id, title, description string) error {
	return s.activities.UpdateActivityDetails(id, title, description)
}

func setTimes(a *domain.Activity, start time.Time, track domain.Track) {
	if start.IsZero() && len(track.Points) > 0 {
		start = track.Points[0].Timestamp
	}
	if start.IsZero() {
		start = time.Now()
	}
	a.StartTime = start
	a.EndTime = start.Add(time.Duration(a.DurationSeconds) * time.Second)
}
