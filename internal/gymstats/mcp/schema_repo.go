package mcp

import (
	"context"
	"fmt"

	"github.com/2beens/gymstats/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// SchemaRepo provides column metadata of the gymstats tables, so MCP clients
// can write their own queries.
type SchemaRepo interface {
	GetGymstatsColumns(ctx context.Context) ([]SchemaColumn, error)
}

// SchemaColumn is one information_schema.columns row.
type SchemaColumn struct {
	TableSchema string
	TableName   string
	ColumnName  string
	DataType    string
	IsNullable  string
	ColumnDef   *string
}

// tables written or read when a session is finished
var gymstatsTables = []string{
	"profile",
	"bodyweight_entry",
	"exercise",
	"custom_exercise",
	"muscle",
	"muscle_group",
	"exercise_muscle",
	"workout_session",
	"session_set",
	"personal_record",
	"rank",
	"user_exercise_rank",
	"user_muscle_rank",
	"user_muscle_group_rank",
	"user_overall_rank",
	"workout_plan",
	"plan_day",
	"plan_day_exercise",
	"plan_day_exercise_set",
	"muscle_last_worked",
}

type poolSchemaRepo struct {
	pool *pgxpool.Pool
}

func NewPoolSchemaRepo(pool *pgxpool.Pool) SchemaRepo {
	return &poolSchemaRepo{pool: pool}
}

func (r *poolSchemaRepo) GetGymstatsColumns(ctx context.Context) (_ []SchemaColumn, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.gymstats.mcp.schema")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("tables", len(gymstatsTables)))

	rows, err := r.pool.Query(ctx, `
		SELECT table_schema, table_name, column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = 'public'
		  AND table_name = ANY($1)
		ORDER BY table_name, ordinal_position`,
		gymstatsTables,
	)
	if err != nil {
		return nil, fmt.Errorf("query information_schema: %w", err)
	}

	cols, err := pgx.CollectRows(rows, pgx.RowToStructByPos[SchemaColumn])
	if err != nil {
		return nil, fmt.Errorf("collect columns: %w", err)
	}
	return cols, nil
}
