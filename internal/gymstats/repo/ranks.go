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

type rankTables struct {
	user      string
	benchmark string
	// target is the target id column; empty for the overall level
	target     string
	targetType string
}

var rankTablesByLevel = map[gymstats.RankLevel]rankTables{
	gymstats.RankLevelExercise: {
		user:       "user_exercise_rank",
		benchmark:  "exercise_rank_benchmark",
		target:     "exercise_key",
		targetType: "varchar",
	},
	gymstats.RankLevelMuscle: {
		user:       "user_muscle_rank",
		benchmark:  "muscle_rank_benchmark",
		target:     "muscle_id",
		targetType: "uuid",
	},
	gymstats.RankLevelMuscleGroup: {
		user:       "user_muscle_group_rank",
		benchmark:  "muscle_group_rank_benchmark",
		target:     "muscle_group_id",
		targetType: "uuid",
	},
	gymstats.RankLevelOverall: {
		user:      "user_overall_rank",
		benchmark: "overall_rank_benchmark",
	},
}

func tablesFor(level gymstats.RankLevel) (rankTables, error) {
	t, ok := rankTablesByLevel[level]
	if !ok {
		return rankTables{}, fmt.Errorf("unknown rank level: %s", level)
	}
	return t, nil
}

// targetSelect is the target id column projected as text.
func (t rankTables) targetSelect() string {
	if t.target == "" {
		return "''"
	}
	return t.target + "::text"
}

func (r *Repo) GetRanks(ctx context.Context) (_ []gymstats.Rank, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.ranks.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT id, name, sort_order FROM rank ORDER BY sort_order;`)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (gymstats.Rank, error) {
		var rank gymstats.Rank
		err := row.Scan(&rank.ID, &rank.Name, &rank.SortOrder)
		return rank, err
	})
}

func (r *Repo) GetBenchmarkRows(ctx context.Context, level gymstats.RankLevel) (_ []gymstats.BenchmarkRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.benchmarks.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("level", level.String()))

	tables, err := tablesFor(level)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		ctx,
		fmt.Sprintf(
			`SELECT %s, gender, rank_id, min_threshold FROM %s ORDER BY 1, gender, min_threshold;`,
			tables.targetSelect(), tables.benchmark,
		),
	)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (gymstats.BenchmarkRow, error) {
		b := gymstats.BenchmarkRow{Level: level}
		err := row.Scan(&b.TargetID, &b.Gender, &b.RankID, &b.MinThreshold)
		return b, err
	})
}

// GetRankRecords returns the stored ranks of the user at every level.
func (r *Repo) GetRankRecords(ctx context.Context, userID uuid.UUID) (_ []gymstats.RankRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.rank_records.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID.String()))

	var records []gymstats.RankRecord
	for _, level := range gymstats.RankLevels {
		tables := rankTablesByLevel[level]
		rows, err := r.db.Query(
			ctx,
			fmt.Sprintf(
				`SELECT %s, strength_score, rank_id, last_calculated_at FROM %s WHERE user_id = $1;`,
				tables.targetSelect(), tables.user,
			),
			userID,
		)
		if err != nil {
			return nil, fmt.Errorf("query %s ranks: %w", level, err)
		}

		levelRecords, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (gymstats.RankRecord, error) {
			rec := gymstats.RankRecord{Level: level, UserID: userID}
			err := row.Scan(&rec.TargetID, &rec.StrengthScore, &rec.RankID, &rec.LastCalculatedAt)
			return rec, err
		})
		if err != nil {
			return nil, fmt.Errorf("collect %s ranks: %w", level, err)
		}
		records = append(records, levelRecords...)
	}

	return records, nil
}

// UpsertRankRecords writes the records of every level in a single transaction.
func (r *Repo) UpsertRankRecords(ctx context.Context, records []gymstats.RankRecord) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.rank_records.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("records", len(records)))

	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		tables, err := tablesFor(rec.Level)
		if err != nil {
			return err
		}

		if tables.target == "" {
			batch.Queue(
				fmt.Sprintf(
					`INSERT INTO %s (user_id, strength_score, rank_id, last_calculated_at)
						VALUES ($1, $2, $3, $4)
					ON CONFLICT (user_id) DO UPDATE SET
						strength_score = EXCLUDED.strength_score,
						rank_id = EXCLUDED.rank_id,
						last_calculated_at = EXCLUDED.last_calculated_at;`,
					tables.user,
				),
				rec.UserID, rec.StrengthScore, rec.RankID, rec.LastCalculatedAt,
			)
			continue
		}

		batch.Queue(
			fmt.Sprintf(
				`INSERT INTO %[1]s (user_id, %[2]s, strength_score, rank_id, last_calculated_at)
					VALUES ($1, $2::%[3]s, $3, $4, $5)
				ON CONFLICT (user_id, %[2]s) DO UPDATE SET
					strength_score = EXCLUDED.strength_score,
					rank_id = EXCLUDED.rank_id,
					last_calculated_at = EXCLUDED.last_calculated_at;`,
				tables.user, tables.target, tables.targetType,
			),
			rec.UserID, rec.TargetID, rec.StrengthScore, rec.RankID, rec.LastCalculatedAt,
		)
	}

	return r.sendBatch(ctx, batch)
}
