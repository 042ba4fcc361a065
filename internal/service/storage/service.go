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

package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/habeebamz/cycling-app-sub000/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service encapsulates all database operations. It implements the
// domain store interfaces consumed by the ingestion pipeline.
type Service struct {
	db *gorm.DB
}

// NewService opens the database, runs migrations, and seeds a default
// athlete profile when the table is empty.
func NewService(dbPath string) (*Service, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// AutoMigrate creates or updates tables from the domain models.
	err = db.AutoMigrate(
		&domain.AthleteProfile{},
		&domain.Activity{},
		&domain.Challenge{},
		&domain.ChallengeEnrollment{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Single-user bootstrap: the upload surface falls back to this
	// profile when no athlete is given.
	var count int64
	db.Model(&domain.AthleteProfile{}).Count(&count)
	if count == 0 {
		db.Create(&domain.AthleteProfile{
			Name:     "Cyclist",
			WeightKg: domain.DefaultWeightKg,
		})
	}

	return &Service{db: db}, nil
}

// ========
// ATHLETES
// ========

func (s *Service) GetAthlete(id uint) (domain.AthleteProfile, error) {
	var athlete domain.AthleteProfile
	err := s.db.First(&athlete, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.AthleteProfile{}, domain.ErrAthleteNotFound
	}
	return athlete, err
}

// DefaultAthlete returns the seeded profile.
func (s *Service) DefaultAthlete() (domain.AthleteProfile, error) {
	var athlete domain.AthleteProfile
	err := s.db.Order("id asc").First(&athlete).Error
	return athlete, err
}

func (s *Service) UpdateAthlete(a domain.AthleteProfile) error {
	return s.db.Model(&domain.AthleteProfile{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"name":      a.Name,
		"weight_kg": a.WeightKg,
	}).Error
}

// ApplyTotals applies the distance delta as an atomic in-database
// increment so concurrent ingestions cannot lose updates.
func (s *Service) ApplyTotals(id uint, totalDeltaKm float64, longestRideKm *float64) error {
	updates := map[string]interface{}{
		"total_distance_km": gorm.Expr("total_distance_km + ?", totalDeltaKm),
	}
	if longestRideKm != nil {
		updates["longest_ride_km"] = *longestRideKm
	}

	res := s.db.Model(&domain.AthleteProfile{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAthleteNotFound
	}
	return nil
}

// ==========
// ACTIVITIES
// ==========

func (s *Service) CreateActivity(a *domain.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return s.db.Create(a).Error
}

func (s *Service) GetActivity(id string) (domain.Activity, error) {
	var activity domain.Activity
	err := s.db.First(&activity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Activity{}, domain.ErrActivityNotFound
	}
	return activity, err
}

// DeleteActivity removes the row and returns the deleted activity so
// the caller can reverse its contribution to the lifetime totals.
func (s *Service) DeleteActivity(id string) (domain.Activity, error) {
	activity, err := s.GetActivity(id)
	if err != nil {
		return domain.Activity{}, err
	}
	if err := s.db.Delete(&domain.Activity{}, "id = ?", id).Error; err != nil {
		return domain.Activity{}, err
	}
	return activity, nil
}

func (s *Service) UpdateActivityDetails(id, title, description string) error {
	res := s.db.Model(&domain.Activity{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":       title,
		"description": description,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrActivityNotFound
	}
	return nil
}

// ListRecentActivities returns the athlete's most recent activities,
// ordered by start time (descending).
func (s *Service) ListRecentActivities(athleteID uint, limit int) ([]domain.Activity, error) {
	var activities []domain.Activity
	q := s.db.Where("athlete_id = ?", athleteID).Order("start_time desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&activities).Error
	return activities, err
}

func (s *Service) ListActivitiesByMonth(athleteID uint, monthStr string) ([]domain.Activity, error) {
	var activities []domain.Activity
	err := s.db.
		Where("athlete_id = ? AND strftime('%Y-%m', start_time) = ?", athleteID, monthStr).
		Order("start_time asc").
		Find(&activities).Error
	return activities, err
}

// TotalDistanceKm returns the distance accumulated across all of the
// athlete's stored activities.
func (s *Service) TotalDistanceKm(athleteID uint) float64 {
	// A pointer handles the NULL that SUM returns on an empty table.
	var total *float64
	res := s.db.Model(&domain.Activity{}).
		Where("athlete_id = ?", athleteID).
		Select("sum(distance_km)").Scan(&total)
	if res.Error != nil || total == nil {
		return 0
	}
	return *total
}

func (s *Service) TotalDurationSeconds(athleteID uint) int64 {
	var total *int64
	s.db.Model(&domain.Activity{}).
		Where("athlete_id = ?", athleteID).
		Select("sum(duration_seconds)").Scan(&total)
	if total == nil {
		return 0
	}
	return *total
}

// ==========
// CHALLENGES
// ==========

func (s *Service) CreateChallenge(c *domain.Challenge) error {
	return s.db.Create(c).Error
}

func (s *Service) ListChallenges() ([]domain.Challenge, error) {
	var challenges []domain.Challenge
	err := s.db.Order("start_date desc").Find(&challenges).Error
	return challenges, err
}

// JoinChallenge creates the enrollment row tracking one athlete's
// progress in one challenge.
func (s *Service) JoinChallenge(challengeID, athleteID uint) (domain.ChallengeEnrollment, error) {
	enr := domain.ChallengeEnrollment{ChallengeID: challengeID, AthleteID: athleteID}
	err := s.db.Create(&enr).Error
	return enr, err
}

// ListActiveEnrollments returns the athlete's incomplete enrollments in
// challenges whose date window contains now.
func (s *Service) ListActiveEnrollments(athleteID uint, now time.Time) ([]domain.ChallengeEnrollment, error) {
	var enrollments []domain.ChallengeEnrollment
	err := s.db.Preload("Challenge").
		Where("athlete_id = ? AND completed = ?", athleteID, false).
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}

	active := enrollments[:0]
	for _, enr := range enrollments {
		if !now.Before(enr.Challenge.StartDate) && !now.After(enr.Challenge.EndDate) {
			active = append(active, enr)
		}
	}
	return active, nil
}

// UpdateEnrollment writes progress and completed for one enrollment as
// a single exclusive row update.
func (s *Service) UpdateEnrollment(id uint, progress float64, completed bool) error {
	res := s.db.Model(&domain.ChallengeEnrollment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"progress":  progress,
		"completed": completed,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("enrollment %d not found", id)
	}
	return nil
}
