// Package challenge advances per-athlete challenge enrollments as
// finalized activities come in. Each enrollment is a two-state machine:
// active, or completed (terminal).
package challenge

import (
	"log"
	"time"

	"github.com/habeebamz/cycling-app-sub000/internal/domain"
)

type Engine struct {
	enrollments domain.EnrollmentStore
	sink        domain.EventSink
	now         func() time.Time
}

func NewEngine(enrollments domain.EnrollmentStore, sink domain.EventSink) *Engine {
	return &Engine{enrollments: enrollments, sink: sink, now: time.Now}
}

// Apply advances every active enrollment of the activity's athlete.
// Failures on one enrollment are logged and do not block the others,
// and never fail the ingestion that triggered the evaluation.
func (e *Engine) Apply(activity domain.Activity) {
	enrolled, err := e.enrollments.ListActiveEnrollments(activity.AthleteID, e.now())
	if err != nil {
		log.Printf("challenge: listing enrollments for athlete %d: %v", activity.AthleteID, err)
		return
	}

	for _, enr := range enrolled {
		progress, completed, changed := advance(enr, activity)
		if !changed {
			continue
		}
		if err := e.enrollments.UpdateEnrollment(enr.ID, progress, completed); err != nil {
			log.Printf("challenge: updating enrollment %d: %v", enr.ID, err)
			continue
		}
		if completed && !enr.Completed {
			e.sink.ChallengeCompleted(domain.ChallengeCompleted{
				AthleteID:   activity.AthleteID,
				ChallengeID: enr.ChallengeID,
				Title:       enr.Challenge.Title,
			})
		}
	}
}

// advance runs one enrollment through the state machine and reports
// whether anything actually changed; unchanged enrollments must not be
// written back.
func advance(enr domain.ChallengeEnrollment, activity domain.Activity) (progress float64, completed bool, changed bool) {
	// Completed is terminal: pinned at the goal, never re-evaluated.
	if enr.Completed {
		return enr.Progress, true, false
	}

	increment := incrementFor(enr.Challenge.Type, activity)
	if increment == 0 {
		return enr.Progress, enr.Completed, false
	}

	goal := goalInUnits(enr.Challenge)

	switch enr.Challenge.Condition {
	case domain.ConditionAccumulative:
		progress = enr.Progress + increment
		completed = progress >= goal
	case domain.ConditionSingle:
		// One ride has to meet the whole goal. A non-qualifying ride
		// resets any prior non-qualifying progress to zero.
		if increment >= goal {
			progress = goal
			completed = true
		} else {
			progress = 0
			completed = false
		}
	default:
		return enr.Progress, enr.Completed, false
	}

	changed = progress != enr.Progress || completed != enr.Completed
	return progress, completed, changed
}

func incrementFor(t domain.ChallengeType, a domain.Activity) float64 {
	switch t {
	case domain.ChallengeDistance:
		return a.DistanceKm
	case domain.ChallengeTime:
		return float64(a.DurationSeconds)
	case domain.ChallengeRides:
		return 1
	default:
		return 0
	}
}

// goalInUnits converts the stored goal into the increment's unit: TIME
// goals are entered in hours but progress accrues in seconds.
func goalInUnits(c domain.Challenge) float64 {
	if c.Type == domain.ChallengeTime {
		return c.Goal * 3600
	}
	return c.Goal
}
