package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/habeebamz/cycling-app-sub000/internal/domain"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(":memory:")
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestSeedsDefaultAthlete(t *testing.T) {
	svc := newTestService(t)

	athlete, err := svc.DefaultAthlete()
	if err != nil {
		t.Fatalf("DefaultAthlete: %v", err)
	}
	if athlete.WeightKg != domain.DefaultWeightKg {
		t.Fatalf("expected default weight %v, got %v", domain.DefaultWeightKg, athlete.WeightKg)
	}
}

func TestApplyTotals(t *testing.T) {
	svc := newTestService(t)
	athlete, _ := svc.DefaultAthlete()

	if err := svc.ApplyTotals(athlete.ID, 40, nil); err != nil {
		t.Fatalf("ApplyTotals: %v", err)
	}
	best := 45.0
	if err := svc.ApplyTotals(athlete.ID, 45, &best); err != nil {
		t.Fatalf("ApplyTotals: %v", err)
	}

	got, err := svc.GetAthlete(athlete.ID)
	if err != nil {
		t.Fatalf("GetAthlete: %v", err)
	}
	if got.TotalDistanceKm != 85 {
		t.Fatalf("expected total 85, got %f", got.TotalDistanceKm)
	}
	if got.LongestRideKm != 45 {
		t.Fatalf("expected longest 45, got %f", got.LongestRideKm)
	}

	// Deletion path: decrement without touching the longest ride.
	if err := svc.ApplyTotals(athlete.ID, -45, nil); err != nil {
		t.Fatalf("ApplyTotals: %v", err)
	}
	got, _ = svc.GetAthlete(athlete.ID)
	if got.TotalDistanceKm != 40 || got.LongestRideKm != 45 {
		t.Fatalf("unexpected aggregates after reversal: %+v", got)
	}
}

func TestApplyTotalsMissingAthlete(t *testing.T) {
	svc := newTestService(t)
	if err := svc.ApplyTotals(999, 10, nil); !errors.Is(err, domain.ErrAthleteNotFound) {
		t.Fatalf("expected ErrAthleteNotFound, got %v", err)
	}
}

func TestActivityLifecycle(t *testing.T) {
	svc := newTestService(t)
	athlete, _ := svc.DefaultAthlete()

	a := domain.Activity{
		AthleteID:       athlete.ID,
		Title:           "Evening spin",
		DistanceKm:      21.5,
		DurationSeconds: 2700,
		SourceFormat:    domain.FormatManual,
		StartTime:       time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC),
	}
	if err := svc.CreateActivity(&a); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	if a.ID == "" {
		t.Fatal("expected a generated id")
	}

	got, err := svc.GetActivity(a.ID)
	if err != nil {
		t.Fatalf("GetActivity: %v", err)
	}
	if got.Title != "Evening spin" || got.DistanceKm != 21.5 {
		t.Fatalf("unexpected activity: %+v", got)
	}

	if err := svc.UpdateActivityDetails(a.ID, "Night spin", "cool air"); err != nil {
		t.Fatalf("UpdateActivityDetails: %v", err)
	}
	got, _ = svc.GetActivity(a.ID)
	if got.Title != "Night spin" || got.Description != "cool air" {
		t.Fatalf("details not updated: %+v", got)
	}

	deleted, err := svc.DeleteActivity(a.ID)
	if err != nil {
		t.Fatalf("DeleteActivity: %v", err)
	}
	if deleted.DistanceKm != 21.5 {
		t.Fatalf("deleted activity should carry its distance, got %f", deleted.DistanceKm)
	}
	if _, err := svc.GetActivity(a.ID); !errors.Is(err, domain.ErrActivityNotFound) {
		t.Fatalf("expected ErrActivityNotFound, got %v", err)
	}
}

func TestUpdateDetailsMissingActivity(t *testing.T) {
	svc := newTestService(t)
	if err := svc.UpdateActivityDetails("nope", "t", "d"); !errors.Is(err, domain.ErrActivityNotFound) {
		t.Fatalf("expected ErrActivityNotFound, got %v", err)
	}
}

func TestListRecentActivitiesOrdering(t *testing.T) {
	svc := newTestService(t)
	athlete, _ := svc.DefaultAthlete()

	older := domain.Activity{AthleteID: athlete.ID, Title: "older", StartTime: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
	newer := domain.Activity{AthleteID: athlete.ID, Title: "newer", StartTime: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	if err := svc.CreateActivity(&older); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	if err := svc.CreateActivity(&newer); err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}

	list, err := svc.ListRecentActivities(athlete.ID, 10)
	if err != nil {
		t.Fatalf("ListRecentActivities: %v", err)
	}
	if len(list) != 2 || list[0].Title != "newer" {
		t.Fatalf("unexpected ordering: %+v", list)
	}

	list, err = svc.ListRecentActivities(athlete.ID, 1)
	if err != nil {
		t.Fatalf("ListRecentActivities: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("limit ignored, got %d rows", len(list))
	}
}

func TestEnrollmentWindowAndUpdates(t *testing.T) {
	svc := newTestService(t)
	athlete, _ := svc.DefaultAthlete()
	now := time.Now()

	open := domain.Challenge{
		Title: "May Miles", Type: domain.ChallengeDistance, Goal: 100,
		Condition: domain.ConditionAccumulative,
		StartDate: now.Add(-24 * time.Hour), EndDate: now.Add(24 * time.Hour),
	}
	expired := domain.Challenge{
		Title: "April Miles", Type: domain.ChallengeDistance, Goal: 100,
		Condition: domain.ConditionAccumulative,
		StartDate: now.Add(-60 * 24 * time.Hour), EndDate: now.Add(-30 * 24 * time.Hour),
	}
	if err := svc.CreateChallenge(&open); err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}
	if err := svc.CreateChallenge(&expired); err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}

	enrOpen, err := svc.JoinChallenge(open.ID, athlete.ID)
	if err != nil {
		t.Fatalf("JoinChallenge: %v", err)
	}
	if _, err := svc.JoinChallenge(expired.ID, athlete.ID); err != nil {
		t.Fatalf("JoinChallenge: %v", err)
	}

	active, err := svc.ListActiveEnrollments(athlete.ID, now)
	if err != nil {
		t.Fatalf("ListActiveEnrollments: %v", err)
	}
	if len(active) != 1 || active[0].ChallengeID != open.ID {
		t.Fatalf("expected only the open challenge, got %+v", active)
	}
	if active[0].Challenge.Title != "May Miles" {
		t.Fatal("challenge should be preloaded")
	}

	if err := svc.UpdateEnrollment(enrOpen.ID, 40, false); err != nil {
		t.Fatalf("UpdateEnrollment: %v", err)
	}
	if err := svc.UpdateEnrollment(enrOpen.ID, 100, true); err != nil {
		t.Fatalf("UpdateEnrollment: %v", err)
	}

	// Completed enrollments drop out of the active listing.
	active, err = svc.ListActiveEnrollments(athlete.ID, now)
	if err != nil {
		t.Fatalf("ListActiveEnrollments: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("completed enrollment still listed: %+v", active)
	}
}
