package session

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// NextMidnight is 00:00 UTC of the day after t.
func NextMidnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day()+1, 0, 0, 0, 0, time.UTC)
}

// updateMuscleLastWorked stamps every muscle worked with at least secondary
// intensity with the session end.
func (s *Service) updateMuscleLastWorked(ctx context.Context, userID uuid.UUID, endedAt time.Time, worked []MuscleWorked) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.service.muscle_last_worked")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var rows []gymstats.MuscleLastWorked
	for _, m := range worked {
		if !m.Intensity.AtLeast(gymstats.IntensitySecondary) {
			continue
		}
		rows = append(rows, gymstats.MuscleLastWorked{
			UserID:       userID,
			MuscleID:     m.MuscleID,
			LastWorkedAt: endedAt,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := s.store.UpsertMuscleLastWorked(ctx, rows); err != nil {
		return fmt.Errorf("upsert muscle last worked: %w", err)
	}
	return nil
}

// updatePlan marks the plan day as the last completed one, and rolls the plan
// cycle over once every day of the current cycle is done. It reports whether
// the cycle was rolled over.
func (s *Service) updatePlan(
	ctx context.Context,
	userID uuid.UUID,
	plan gymstats.Plan,
	planDayID uuid.UUID,
	endedAt time.Time,
	deg *degradations,
) bool {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.service.plan")
	defer span.End()

	if err := s.store.SetPlanLastCompletedDay(ctx, userID, plan.ID, planDayID); err != nil {
		deg.fail("plan_last_completed_day", err)
	} else {
		plan.LastCompletedDayID = &planDayID
	}

	completed, err := s.store.PlanCycleCompleted(ctx, userID, plan)
	if err != nil {
		deg.fail("plan_cycle", err)
		return false
	}
	if !completed {
		return false
	}

	newStart := NextMidnight(endedAt)
	if err := s.store.RollPlanCycle(ctx, userID, plan.ID, newStart); err != nil {
		deg.fail("plan_cycle", err)
		return false
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"plan_id": plan.ID,
	}).Debugf("plan cycle completed, next cycle starts at %s", newStart)
	return true
}
