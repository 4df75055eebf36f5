// Package repo is the postgres store of the gymstats session pipeline.
package repo

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// Schema creates every table the repo reads and writes. It is idempotent.
//
//go:embed schema.sql
var Schema string

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Migrate applies Schema.
func (r *Repo) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (r *Repo) GetProfile(ctx context.Context, userID uuid.UUID) (_ *gymstats.Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.profile.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID.String()))

	p := gymstats.Profile{UserID: userID}
	if err := r.db.QueryRow(
		ctx,
		`SELECT gender, experience_points FROM profile WHERE user_id = $1;`,
		userID,
	).Scan(&p.Gender, &p.ExperiencePoints); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, gymstats.ErrProfileNotFound
		}
		return nil, err
	}

	return &p, nil
}

// LatestBodyweight returns the last entry measured at or before at, nil if there is none.
func (r *Repo) LatestBodyweight(ctx context.Context, userID uuid.UUID, at time.Time) (_ *gymstats.BodyweightEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.bodyweight.latest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var entry gymstats.BodyweightEntry
	if err := r.db.QueryRow(
		ctx,
		`SELECT weight_kg, measured_at FROM bodyweight_entry
			WHERE user_id = $1 AND measured_at <= $2
			ORDER BY measured_at DESC
			LIMIT 1;`,
		userID, at,
	).Scan(&entry.WeightKg, &entry.MeasuredAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &entry, nil
}

// GetExercises resolves standard exercises and the custom exercises owned by userID.
// Unknown references are left out of the result.
func (r *Repo) GetExercises(ctx context.Context, userID uuid.UUID, refs []gymstats.ExerciseRef) (_ []gymstats.Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("refs", len(refs)))

	var standardIDs, customIDs []uuid.UUID
	for _, ref := range refs {
		switch {
		case ref.ExerciseID != nil:
			standardIDs = append(standardIDs, *ref.ExerciseID)
		case ref.CustomExerciseID != nil:
			customIDs = append(customIDs, *ref.CustomExerciseID)
		}
	}
	if len(standardIDs) == 0 && len(customIDs) == 0 {
		return []gymstats.Exercise{}, nil
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT id, FALSE, name, exercise_type FROM exercise WHERE id = ANY($1)
			UNION ALL
			SELECT id, TRUE, name, exercise_type FROM custom_exercise WHERE id = ANY($2) AND user_id = $3;`,
		standardIDs, customIDs, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]gymstats.Exercise, 0, len(refs))
	for rows.Next() {
		var (
			id       uuid.UUID
			isCustom bool
			ex       gymstats.Exercise
		)
		if err := rows.Scan(&id, &isCustom, &ex.Name, &ex.Type); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if isCustom {
			ex.Ref = gymstats.CustomExercise(id)
		} else {
			ex.Ref = gymstats.StandardExercise(id)
		}
		exercises = append(exercises, ex)
	}

	return exercises, rows.Err()
}

func (r *Repo) GetMuscleMappings(ctx context.Context, exerciseKeys []string) (_ []gymstats.MuscleMapping, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.muscle_mappings.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if len(exerciseKeys) == 0 {
		return []gymstats.MuscleMapping{}, nil
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT exercise_key, muscle_id, intensity FROM exercise_muscle WHERE exercise_key = ANY($1);`,
		exerciseKeys,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mappings []gymstats.MuscleMapping
	for rows.Next() {
		var m gymstats.MuscleMapping
		if err := rows.Scan(&m.ExerciseKey, &m.MuscleID, &m.Intensity); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		mappings = append(mappings, m)
	}

	return mappings, rows.Err()
}

func (r *Repo) GetMuscles(ctx context.Context) (_ []gymstats.Muscle, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.muscles.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT id, name, muscle_group_id FROM muscle ORDER BY name;`)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (gymstats.Muscle, error) {
		var m gymstats.Muscle
		err := row.Scan(&m.ID, &m.Name, &m.MuscleGroupID)
		return m, err
	})
}

func (r *Repo) GetMuscleGroups(ctx context.Context) (_ []gymstats.MuscleGroup, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.muscle_groups.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT id, name FROM muscle_group ORDER BY name;`)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (gymstats.MuscleGroup, error) {
		var g gymstats.MuscleGroup
		err := row.Scan(&g.ID, &g.Name)
		return g, err
	})
}

// AddExperiencePoints increments the profile XP and returns the new total.
func (r *Repo) AddExperiencePoints(ctx context.Context, userID uuid.UUID, award int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.profile.add_xp")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("award", award))

	var total int
	if err := r.db.QueryRow(
		ctx,
		`UPDATE profile SET experience_points = experience_points + $1
			WHERE user_id = $2
			RETURNING experience_points;`,
		award, userID,
	).Scan(&total); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, gymstats.ErrProfileNotFound
		}
		return 0, err
	}

	return total, nil
}

func (r *Repo) UpsertMuscleLastWorked(ctx context.Context, rows []gymstats.MuscleLastWorked) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.muscle_last_worked.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("rows", len(rows)))

	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(
			`INSERT INTO muscle_last_worked (user_id, muscle_id, last_worked_at)
				VALUES ($1, $2, $3)
			ON CONFLICT (user_id, muscle_id) DO UPDATE
				SET last_worked_at = GREATEST(muscle_last_worked.last_worked_at, EXCLUDED.last_worked_at);`,
			row.UserID, row.MuscleID, row.LastWorkedAt,
		)
	}

	return r.sendBatch(ctx, batch)
}

// sendBatch runs every queued statement in one transaction.
func (r *Repo) sendBatch(ctx context.Context, batch *pgx.Batch) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapWriteErr(err)
	}

	return tx.Commit(ctx)
}
