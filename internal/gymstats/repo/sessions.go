package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/telemetry/tracing"
	"github.com/2beens/gymstats/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

func mapWriteErr(err error) error {
	if constraint, ok := pkg.IsForeignKeyViolationError(err); ok {
		return fmt.Errorf("%w [%s]: %s", gymstats.ErrInvalidReference, constraint, err)
	}
	return err
}

// SaveSession writes the session row and its sets in one transaction. A session
// with an id must already exist and belong to s.UserID.
func (r *Repo) SaveSession(ctx context.Context, s gymstats.Session, sets []gymstats.SessionSet) (_ uuid.UUID, _ []gymstats.SessionSet, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.session.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", s.UserID.String()))
	span.SetAttributes(attribute.Int("sets", len(sets)))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	sessionID := s.ID
	if sessionID == uuid.Nil {
		if err := tx.QueryRow(
			ctx,
			`INSERT INTO workout_session
					(user_id, plan_id, plan_day_id, started_at, ended_at, status, duration_seconds,
					 total_sets, total_reps, total_volume, exercise_summary)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
				RETURNING id;`,
			s.UserID, s.PlanID, s.PlanDayID, s.StartedAt, s.EndedAt, s.Status, s.DurationSeconds,
			s.TotalSets, s.TotalReps, s.TotalVolume, s.ExerciseSummary,
		).Scan(&sessionID); err != nil {
			return uuid.Nil, nil, mapWriteErr(err)
		}
	} else {
		tag, err := tx.Exec(
			ctx,
			`UPDATE workout_session SET
					plan_id = $1, plan_day_id = $2, started_at = $3, ended_at = $4, status = $5,
					duration_seconds = $6, total_sets = $7, total_reps = $8, total_volume = $9,
					exercise_summary = $10
				WHERE id = $11 AND user_id = $12;`,
			s.PlanID, s.PlanDayID, s.StartedAt, s.EndedAt, s.Status,
			s.DurationSeconds, s.TotalSets, s.TotalReps, s.TotalVolume,
			s.ExerciseSummary, sessionID, s.UserID,
		)
		if err != nil {
			return uuid.Nil, nil, mapWriteErr(err)
		}
		if tag.RowsAffected() == 0 {
			return uuid.Nil, nil, gymstats.ErrSessionNotFound
		}
	}
	span.SetAttributes(attribute.String("session_id", sessionID.String()))

	stored := make([]gymstats.SessionSet, 0, len(sets))
	for _, set := range sets {
		set.SessionID = sessionID
		if err := tx.QueryRow(
			ctx,
			`INSERT INTO session_set
					(session_id, exercise_id, custom_exercise_id, set_order, planned_reps, actual_reps,
					 planned_weight, actual_weight, is_warmup, is_success, rest_seconds, plan_set_id,
					 estimated_1rm, swr)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
				RETURNING id;`,
			sessionID, set.Exercise.ExerciseID, set.Exercise.CustomExerciseID, set.SetOrder, set.PlannedReps, set.ActualReps,
			set.PlannedWeight, set.ActualWeight, set.IsWarmup, set.IsSuccess, set.RestSeconds, set.PlanSetID,
			set.EstimatedOneRM, set.SWR,
		).Scan(&set.ID); err != nil {
			return uuid.Nil, nil, mapWriteErr(err)
		}
		stored = append(stored, set)
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, nil, fmt.Errorf("commit tx: %w", err)
	}

	return sessionID, stored, nil
}

func (r *Repo) UpdateSessionRankUps(ctx context.Context, userID, sessionID uuid.UUID, muscle, muscleGroup, overall int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.session.rank_ups")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session_id", sessionID.String()))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout_session SET muscle_rank_ups = $1, muscle_group_rank_ups = $2, overall_rank_ups = $3
			WHERE id = $4 AND user_id = $5;`,
		muscle, muscleGroup, overall, sessionID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return gymstats.ErrSessionNotFound
	}

	return nil
}

// GetPreviousSession returns the last completed session of the plan day that
// started before the given time, nil if there is none.
func (r *Repo) GetPreviousSession(ctx context.Context, userID, planDayID uuid.UUID, before time.Time) (_ *gymstats.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.session.previous")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan_day_id", planDayID.String()))

	var (
		s       gymstats.Session
		endedAt *time.Time
	)
	if err := r.db.QueryRow(
		ctx,
		`
			SELECT
				id, user_id, plan_id, plan_day_id, started_at, ended_at, status, duration_seconds,
				total_sets, total_reps, total_volume, muscle_rank_ups, muscle_group_rank_ups,
				overall_rank_ups, exercise_summary
			FROM workout_session
			WHERE user_id = $1 AND plan_day_id = $2 AND status = $3 AND started_at < $4
			ORDER BY started_at DESC
			LIMIT 1;`,
		userID, planDayID, gymstats.SessionStatusCompleted, before,
	).Scan(
		&s.ID, &s.UserID, &s.PlanID, &s.PlanDayID, &s.StartedAt, &endedAt, &s.Status, &s.DurationSeconds,
		&s.TotalSets, &s.TotalReps, &s.TotalVolume, &s.MuscleRankUps, &s.MuscleGroupRankUps,
		&s.OverallRankUps, &s.ExerciseSummary,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if endedAt != nil {
		s.EndedAt = *endedAt
	}

	return &s, nil
}
