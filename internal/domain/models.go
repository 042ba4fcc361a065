package domain

import "time"

// DefaultWeightKg is assumed when an athlete has no recorded weight.
const DefaultWeightKg = 75.0

// SourceFormat identifies where an activity's track data came from.
type SourceFormat string

const (
	FormatManual SourceFormat = "manual"
	FormatGPX    SourceFormat = "gpx"
	FormatTCX    SourceFormat = "tcx"
	FormatFIT    SourceFormat = "fit"
)

// Waypoint is one GPS sample. A zero Timestamp means the sample carries
// no time information.
type Waypoint struct {
	Longitude float64   `json:"lon"`
	Latitude  float64   `json:"lat"`
	Elevation float64   `json:"elevation"` // meters
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Track is the canonical ordered waypoint sequence for one recorded
// activity. A valid track has at least two points.
type Track struct {
	Format SourceFormat `json:"format"`
	Points []Waypoint   `json:"points"`
}

// TrackSummary carries totals reported by the container itself (the FIT
// session message). Decoders only attach it when the container reported
// something usable.
type TrackSummary struct {
	DistanceKm      float64 `json:"distance_km"`
	DurationSeconds int     `json:"duration_seconds"`
}

// DecodedTrack is what a format decoder hands to the ingestion pipeline.
type DecodedTrack struct {
	Track   Track
	Summary *TrackSummary
}

// ===============
// DATABASE MODELS
// ===============

// AthleteProfile stores the rider's physical data plus the lifetime
// aggregates mutated by the records service. The aggregates are only
// ever adjusted through atomic in-database increments.
type AthleteProfile struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name"`
	WeightKg        float64   `json:"weight_kg"` // 0 means unknown
	LongestRideKm   float64   `json:"longest_ride_km"`
	TotalDistanceKm float64   `json:"total_distance_km"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Activity represents one finalized ride. The derived metrics
// (distance, duration, elevation, calories) are immutable after
// creation; only Title and Description may be edited.
type Activity struct {
	ID                  string       `json:"id" gorm:"primaryKey"`
	AthleteID           uint         `json:"athlete_id" gorm:"index"`
	Title               string       `json:"title"`
	Description         string       `json:"description"`
	DistanceKm          float64      `json:"distance_km"`
	DurationSeconds     int          `json:"duration_seconds"`
	ElevationGainMeters float64      `json:"elevation_gain_meters"`
	CaloriesKcal        int          `json:"calories_kcal"`
	AvgPower            int          `json:"avg_power,omitempty"`
	AvgHeartRate        int          `json:"avg_heart_rate,omitempty"`
	MaxHeartRate        int          `json:"max_heart_rate,omitempty"`
	TrackJSON           string       `json:"-" gorm:"column:track_json"` // serialized []Waypoint, empty for manual entries
	SourceFormat        SourceFormat `json:"source_format"`
	IsPersonalBest      bool         `json:"is_personal_best"`
	StartTime           time.Time    `json:"start_time"`
	EndTime             time.Time    `json:"end_time"`
	CreatedAt           time.Time    `json:"created_at"`
}

// ==========
// CHALLENGES
// ==========

type ChallengeType string

const (
	ChallengeDistance ChallengeType = "DISTANCE"
	ChallengeTime     ChallengeType = "TIME"
	ChallengeRides    ChallengeType = "RIDES"
)

type ChallengeCondition string

const (
	// ConditionAccumulative sums progress across activities.
	ConditionAccumulative ChallengeCondition = "ACCUMULATIVE"
	// ConditionSingle requires one activity to meet the whole goal.
	ConditionSingle ChallengeCondition = "SINGLE"
)

// Challenge is immutable as far as the progress engine is concerned.
// Goal is km for DISTANCE, hours for TIME and a count for RIDES.
type Challenge struct {
	ID        uint               `json:"id" gorm:"primaryKey"`
	Title     string             `json:"title"`
	Type      ChallengeType      `json:"type"`
	Goal      float64            `json:"goal"`
	Condition ChallengeCondition `json:"condition"`
	StartDate time.Time          `json:"start_date"`
	EndDate   time.Time          `json:"end_date"`
	CreatedAt time.Time          `json:"created_at"`
}

// ChallengeEnrollment tracks one athlete's progress toward one
// challenge. Completed is a one-way transition: once true it never
// regresses, no matter how often the engine re-evaluates.
type ChallengeEnrollment struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ChallengeID uint      `json:"challenge_id" gorm:"index:idx_enrollment,unique"`
	AthleteID   uint      `json:"athlete_id" gorm:"index:idx_enrollment,unique"`
	Progress    float64   `json:"progress"`
	Completed   bool      `json:"completed"`
	Challenge   Challenge `json:"challenge"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
