package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

// GetActivePlan returns the active plan of the user, nil if none is active.
func (r *Repo) GetActivePlan(ctx context.Context, userID uuid.UUID) (_ *gymstats.Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.plan.active")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID.String()))

	p := gymstats.Plan{UserID: userID}
	if err := r.db.QueryRow(
		ctx,
		`
			SELECT id, is_active, last_completed_day_id, current_cycle_start, previous_cycle_start
			FROM workout_plan
			WHERE user_id = $1 AND is_active
			ORDER BY created_at DESC
			LIMIT 1;`,
		userID,
	).Scan(&p.ID, &p.IsActive, &p.LastCompletedDayID, &p.CurrentCycleStart, &p.PreviousCycleStart); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &p, nil
}

// GetPlanDayExercises returns the exercise templates of a plan day owned by
// the user, each with its set templates in set order.
func (r *Repo) GetPlanDayExercises(ctx context.Context, userID, planDayID uuid.UUID) (_ []gymstats.PlanDayExercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.plan_day.exercises")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan_day_id", planDayID.String()))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				pde.id, pde.plan_day_id, pde.exercise_id, pde.custom_exercise_id,
				pde.auto_progression_enabled, pde.weight_increment, pde.target_rep_increase,
				s.id, s.set_order, s.target_weight, s.target_min_reps, s.target_max_reps,
				s.weight_increment, s.target_rep_increase
			FROM plan_day_exercise pde
			JOIN plan_day pd ON pd.id = pde.plan_day_id
			JOIN workout_plan wp ON wp.id = pd.plan_id
			LEFT JOIN plan_day_exercise_set s ON s.plan_day_exercise_id = pde.id
			WHERE pde.plan_day_id = $1 AND wp.user_id = $2
			ORDER BY pde.id, s.set_order;`,
		planDayID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		exercises []gymstats.PlanDayExercise
		index     = make(map[uuid.UUID]int)
	)
	for rows.Next() {
		var (
			ex       gymstats.PlanDayExercise
			setID    *uuid.UUID
			setOrder *int
			set      gymstats.PlanDayExerciseSet
		)
		if err := rows.Scan(
			&ex.ID, &ex.PlanDayID, &ex.Exercise.ExerciseID, &ex.Exercise.CustomExerciseID,
			&ex.AutoProgressionEnabled, &ex.WeightIncrement, &ex.TargetRepIncrease,
			&setID, &setOrder, &set.TargetWeight, &set.TargetMinReps, &set.TargetMaxReps,
			&set.WeightIncrement, &set.TargetRepIncrease,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}

		i, ok := index[ex.ID]
		if !ok {
			ex.Sets = []gymstats.PlanDayExerciseSet{}
			exercises = append(exercises, ex)
			i = len(exercises) - 1
			index[ex.ID] = i
		}
		if setID == nil {
			continue
		}
		set.ID = *setID
		set.PlanDayExerciseID = ex.ID
		if setOrder != nil {
			set.SetOrder = *setOrder
		}
		exercises[i].Sets = append(exercises[i].Sets, set)
	}

	return exercises, rows.Err()
}

// UpdatePlanSetTargets overwrites the targets of a set template owned by the user.
func (r *Repo) UpdatePlanSetTargets(ctx context.Context, userID uuid.UUID, targets gymstats.PlanSetTargets) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.plan_set.update_targets")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan_set_id", targets.PlanSetID.String()))

	tag, err := r.db.Exec(
		ctx,
		`
			UPDATE plan_day_exercise_set s
			SET target_weight = $1, target_min_reps = $2, target_max_reps = $3
			FROM plan_day_exercise pde, plan_day pd, workout_plan wp
			WHERE s.id = $4
				AND pde.id = s.plan_day_exercise_id
				AND pd.id = pde.plan_day_id
				AND wp.id = pd.plan_id
				AND wp.user_id = $5;`,
		targets.TargetWeight, targets.TargetMinReps, targets.TargetMaxReps, targets.PlanSetID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return gymstats.ErrPlanNotFound
	}

	return nil
}

func (r *Repo) SetPlanLastCompletedDay(ctx context.Context, userID, planID, planDayID uuid.UUID) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.plan.last_completed_day")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan_id", planID.String()))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout_plan SET last_completed_day_id = $1 WHERE id = $2 AND user_id = $3;`,
		planDayID, planID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return gymstats.ErrPlanNotFound
	}

	return nil
}

// PlanCycleCompleted reports whether every day of the plan has a completed
// session since the start of the current cycle.
func (r *Repo) PlanCycleCompleted(ctx context.Context, userID uuid.UUID, plan gymstats.Plan) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.plan.cycle_completed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan_id", plan.ID.String()))

	var totalDays, completedDays int
	if err := r.db.QueryRow(
		ctx,
		`
			SELECT
				(SELECT count(*) FROM plan_day WHERE plan_id = $1),
				(SELECT count(DISTINCT ws.plan_day_id)
					FROM workout_session ws
					JOIN plan_day pd ON pd.id = ws.plan_day_id AND pd.plan_id = $1
					WHERE ws.user_id = $2
						AND ws.status = $3
						AND ($4::timestamptz IS NULL OR ws.started_at >= $4));`,
		plan.ID, userID, gymstats.SessionStatusCompleted, plan.CurrentCycleStart,
	).Scan(&totalDays, &completedDays); err != nil {
		return false, err
	}
	span.SetAttributes(attribute.Int("days.total", totalDays))
	span.SetAttributes(attribute.Int("days.completed", completedDays))

	return totalDays > 0 && completedDays >= totalDays, nil
}

// RollPlanCycle starts a new cycle at newStart and keeps the current start as the previous one.
func (r *Repo) RollPlanCycle(ctx context.Context, userID, planID uuid.UUID, newStart time.Time) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.plan.roll_cycle")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan_id", planID.String()))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout_plan SET previous_cycle_start = current_cycle_start, current_cycle_start = $1
			WHERE id = $2 AND user_id = $3;`,
		newStart, planID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return gymstats.ErrPlanNotFound
	}

	return nil
}
