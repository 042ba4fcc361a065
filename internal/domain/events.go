package domain

// PersonalRecordAchieved is raised when an activity sets a new longest
// ride for its athlete.
type PersonalRecordAchieved struct {
	AthleteID  uint    `json:"athlete_id"`
	DistanceKm float64 `json:"distance_km"`
}

// ChallengeCompleted is raised when an enrollment transitions into its
// terminal completed state.
type ChallengeCompleted struct {
	AthleteID   uint   `json:"athlete_id"`
	ChallengeID uint   `json:"challenge_id"`
	Title       string `json:"title"`
}

// EventSink receives domain events for downstream notification
// delivery. The core knows nothing about delivery mechanics.
type EventSink interface {
	PersonalRecord(e PersonalRecordAchieved)
	ChallengeCompleted(e ChallengeCompleted)
}
