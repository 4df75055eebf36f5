package repo

import (
	"context"
	"fmt"

	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

func (r *Repo) GetPersonalRecords(ctx context.Context, userID uuid.UUID) (_ []gymstats.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.personal_records.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID.String()))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				user_id, exercise_key, exercise_id, custom_exercise_id, pr_type, value,
				bodyweight_kg, session_set_id, achieved_at
			FROM personal_record
			WHERE user_id = $1
			ORDER BY exercise_key, pr_type;`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (gymstats.PersonalRecord, error) {
		var pr gymstats.PersonalRecord
		err := row.Scan(
			&pr.UserID, &pr.ExerciseKey, &pr.Exercise.ExerciseID, &pr.Exercise.CustomExerciseID, &pr.Type, &pr.Value,
			&pr.BodyweightKg, &pr.SessionSetID, &pr.AchievedAt,
		)
		return pr, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect rows: %w", err)
	}

	return records, nil
}

// UpsertPersonalRecords writes all records atomically. A stored value is never
// lowered, so replaying an older improvement is a no-op.
func (r *Repo) UpsertPersonalRecords(ctx context.Context, records []gymstats.PersonalRecord) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.personal_records.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("records", len(records)))

	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, pr := range records {
		batch.Queue(
			`INSERT INTO personal_record
					(user_id, exercise_key, exercise_id, custom_exercise_id, pr_type, value,
					 bodyweight_kg, session_set_id, achieved_at)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (user_id, exercise_key, pr_type) DO UPDATE SET
					value = EXCLUDED.value,
					bodyweight_kg = EXCLUDED.bodyweight_kg,
					session_set_id = EXCLUDED.session_set_id,
					achieved_at = EXCLUDED.achieved_at
				WHERE personal_record.value < EXCLUDED.value;`,
			pr.UserID, pr.ExerciseKey, pr.Exercise.ExerciseID, pr.Exercise.CustomExerciseID, pr.Type, pr.Value,
			pr.BodyweightKg, pr.SessionSetID, pr.AchievedAt,
		)
	}

	return r.sendBatch(ctx, batch)
}
