// Package notify is the default event sink. It only logs; actual
// delivery (push, e-mail, feeds) belongs to the notification system
// downstream and subscribes at this boundary.
package notify

import (
	"log"

	"github.com/habeebamz/cycling-app-sub000/internal/domain"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) PersonalRecord(e domain.PersonalRecordAchieved) {
	log.Printf("notify: athlete %d set a personal record: %.1f km", e.AthleteID, e.DistanceKm)
}

func (s *Service) ChallengeCompleted(e domain.ChallengeCompleted) {
	log.Printf("notify: athlete %d completed challenge %d (%s)", e.AthleteID, e.ChallengeID, e.Title)
}
