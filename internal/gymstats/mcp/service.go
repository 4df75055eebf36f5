package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/2beens/gymstats/internal/gymstats"

	"github.com/google/uuid"
)

// StatsRepo provides the stored records and ranks of a user.
type StatsRepo interface {
	GetPersonalRecords(ctx context.Context, userID uuid.UUID) ([]gymstats.PersonalRecord, error)
	GetRankRecords(ctx context.Context, userID uuid.UUID) ([]gymstats.RankRecord, error)
	GetRanks(ctx context.Context) ([]gymstats.Rank, error)
}

// contextService provides gymstats context data (schema, records, ranks). Used by Handler for testability.
type contextService interface {
	GetSchema(ctx context.Context) (string, error)
	GetPersonalRecords(ctx context.Context, userID uuid.UUID) ([]gymstats.PersonalRecord, error)
	GetStrengthRanks(ctx context.Context, userID uuid.UUID) ([]StrengthRank, error)
}

// StrengthRank is a stored rank with the rank name resolved.
type StrengthRank struct {
	Level         gymstats.RankLevel `json:"level"`
	TargetID      string             `json:"targetId,omitempty"`
	StrengthScore float64            `json:"strengthScore"`
	Rank          string             `json:"rank,omitempty"`
	RankOrder     int                `json:"rankOrder,omitempty"`
}

// ContextService holds dependencies and implements the gymstats context business logic.
type ContextService struct {
	schema SchemaRepo
	stats  StatsRepo
}

// NewContextService builds a ContextService with the given dependencies.
func NewContextService(schemaRepo SchemaRepo, statsRepo StatsRepo) *ContextService {
	return &ContextService{
		schema: schemaRepo,
		stats:  statsRepo,
	}
}

// GetSchema returns the DB schema (table names, columns, types) of the session pipeline tables.
func (s *ContextService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetGymstatsColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatGymstatsSchema(cols), nil
}

func formatGymstatsSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Gymstats DB Schema\n\nNo gymstats tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Gymstats DB Schema\n\n")
	b.WriteString("Tables: ")
	b.WriteString(strings.Join(tableOrder, ", "))
	b.WriteString(" (schema: public).\n\n")

	for _, tableName := range tableOrder {
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def))
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

// GetPersonalRecords returns the records of a user, ordered by exercise and type.
func (s *ContextService) GetPersonalRecords(ctx context.Context, userID uuid.UUID) ([]gymstats.PersonalRecord, error) {
	records, err := s.stats.GetPersonalRecords(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].ExerciseKey != records[j].ExerciseKey {
			return records[i].ExerciseKey < records[j].ExerciseKey
		}
		return records[i].Type < records[j].Type
	})
	return records, nil
}

// GetStrengthRanks returns the stored ranks of a user at every level, overall first.
func (s *ContextService) GetStrengthRanks(ctx context.Context, userID uuid.UUID) ([]StrengthRank, error) {
	records, err := s.stats.GetRankRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get rank records: %w", err)
	}
	catalog, err := s.stats.GetRanks(ctx)
	if err != nil {
		return nil, fmt.Errorf("get ranks: %w", err)
	}
	byID := make(map[uuid.UUID]gymstats.Rank, len(catalog))
	for _, r := range catalog {
		byID[r.ID] = r
	}

	levelOrder := map[gymstats.RankLevel]int{
		gymstats.RankLevelOverall:     0,
		gymstats.RankLevelMuscleGroup: 1,
		gymstats.RankLevelMuscle:      2,
		gymstats.RankLevelExercise:    3,
	}

	ranks := make([]StrengthRank, 0, len(records))
	for _, rec := range records {
		sr := StrengthRank{
			Level:         rec.Level,
			TargetID:      rec.TargetID,
			StrengthScore: rec.StrengthScore,
		}
		if rec.RankID != nil {
			if r, ok := byID[*rec.RankID]; ok {
				sr.Rank = r.Name
				sr.RankOrder = r.SortOrder
			}
		}
		ranks = append(ranks, sr)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Level != ranks[j].Level {
			return levelOrder[ranks[i].Level] < levelOrder[ranks[j].Level]
		}
		return ranks[i].TargetID < ranks[j].TargetID
	})

	return ranks, nil
}
