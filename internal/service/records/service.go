// Package records keeps the athlete's lifetime aggregates: the longest
// single ride and the total distance across all activities.
package records

import (
	"github.com/habeebamz/cycling-app-sub000/internal/domain"
)

type Service struct {
	athletes domain.AthleteStore
	sink     domain.EventSink
}

func NewService(athletes domain.AthleteStore, sink domain.EventSink) *Service {
	return &Service{athletes: athletes, sink: sink}
}

// Evaluate reports whether the given distance strictly beats the
// athlete's stored longest ride, before this activity contributes
// anything. A missing athlete aborts ingestion here, before any
// persistence happens.
func (s *Service) Evaluate(athleteID uint, distanceKm float64) (domain.AthleteProfile, bool, error) {
	athlete, err := s.athletes.GetAthlete(athleteID)
	if err != nil {
		return domain.AthleteProfile{}, false, err
	}
	return athlete, distanceKm > athlete.LongestRideKm, nil
}

// Commit applies a persisted activity to the lifetime aggregates. A
// personal best overwrites the longest ride in the same atomic update
// that increments the total, and raises the record event.
func (s *Service) Commit(a domain.Activity) error {
	if a.IsPersonalBest {
		best := a.DistanceKm
		if err := s.athletes.ApplyTotals(a.AthleteID, a.DistanceKm, &best); err != nil {
			return err
		}
		s.sink.PersonalRecord(domain.PersonalRecordAchieved{
			AthleteID:  a.AthleteID,
			DistanceKm: a.DistanceKm,
		})
		return nil
	}
	return s.athletes.ApplyTotals(a.AthleteID, a.DistanceKm, nil)
}

// Reverse removes a deleted activity's contribution from the lifetime
// total. The longest ride is deliberately not recomputed from the
// remaining history, so it can go stale after deleting a record ride.
func (s *Service) Reverse(a domain.Activity) error {
	return s.athletes.ApplyTotals(a.AthleteID, -a.DistanceKm, nil)
}
