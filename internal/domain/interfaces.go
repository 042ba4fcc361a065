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

package domain

import "time"

// TrackDecoder turns raw uploaded file bytes into the canonical track.
// Decoupled: the pipeline does not care which container library sits
// behind it.
type TrackDecoder interface {
	Decode(data []byte) (DecodedTrack, error)
}

// AthleteStore is the persistence boundary for athlete profiles.
type AthleteStore interface {
	GetAthlete(id uint) (AthleteProfile, error)

	// ApplyTotals applies a distance delta to the lifetime total as an
	// atomic in-database increment. When longestRideKm is non-nil the
	// longest ride is overwritten in the same update.
	ApplyTotals(id uint, totalDeltaKm float64, longestRideKm *float64) error
}

// ActivityStore is the persistence boundary for activities.
type ActivityStore interface {
	CreateActivity(a *Activity) error
	GetActivity(id string) (Activity, error)

	// DeleteActivity removes the row and returns the deleted activity
	// so its contribution to the lifetime totals can be reversed.
	DeleteActivity(id string) (Activity, error)

	// UpdateActivityDetails edits the only mutable activity fields.
	UpdateActivityDetails(id, title, description string) error
}

// EnrollmentStore is the persistence boundary for challenge enrollments.
type EnrollmentStore interface {
	// ListActiveEnrollments returns the athlete's incomplete
	// enrollments in challenges whose date window contains now, with
	// the challenge preloaded.
	ListActiveEnrollments(athleteID uint, now time.Time) ([]ChallengeEnrollment, error)

	// UpdateEnrollment writes progress and completed for one
	// enrollment as a single exclusive row update.
	UpdateEnrollment(id uint, progress float64, completed bool) error
}
