package mcp

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with read-only gymstats tools: schema, personal records, strength ranks.
// Used by the main backend when mounting MCP at /mcp (internal/server) and by cmd/gymstats_mcp over stdio.
func NewServer(pool *pgxpool.Pool, statsRepo StatsRepo) *mcp.Server {
	svc := NewContextService(NewPoolSchemaRepo(pool), statsRepo)
	h := NewHandler(svc)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "gymstats-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_gymstats_context",
		Description: "Returns the DB schema of the session pipeline tables (sessions, sets, personal records, ranks, plans): table names, columns, types, nullable, default.",
	}, h.GetGymstatsContextTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_personal_records",
		Description: "Returns the personal records (one_rep_max, max_reps, max_swr) of a user per exercise. Arg: user_id (uuid).",
	}, h.GetPersonalRecordsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_strength_ranks",
		Description: "Returns the stored strength ranks of a user at overall, muscle group, muscle and exercise level, with strength scores. Arg: user_id (uuid).",
	}, h.GetStrengthRanksTool())

	return s
}
