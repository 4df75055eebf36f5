package ranking

import (
	"github.com/2beens/gymstats/internal/gymstats"

	"github.com/google/uuid"
)

// GenderPolicy maps a profile gender to the benchmark partition used for it.
type GenderPolicy func(gymstats.Gender) gymstats.Gender

// MaleFallback ranks everyone who is not female against the male benchmarks,
// including profiles with an unset gender.
func MaleFallback(g gymstats.Gender) gymstats.Gender {
	if g == gymstats.GenderFemale {
		return gymstats.GenderFemale
	}
	return gymstats.GenderMale
}

type benchmarkKey struct {
	level    gymstats.RankLevel
	targetID string
	gender   gymstats.Gender
}

// Benchmarks indexes benchmark tables by level, target and gender.
type Benchmarks struct {
	tables map[benchmarkKey]Table
}

// NewBenchmarks builds the tables from raw rows. Rank names and ordering come
// from the catalog; rows pointing at unknown ranks keep only the id.
func NewBenchmarks(rows []gymstats.BenchmarkRow, catalog map[uuid.UUID]gymstats.Rank) Benchmarks {
	grouped := make(map[benchmarkKey][]Threshold)
	for _, row := range rows {
		k := benchmarkKey{level: row.Level, targetID: row.TargetID, gender: row.Gender}
		rank, ok := catalog[row.RankID]
		if !ok {
			rank = gymstats.Rank{ID: row.RankID}
		}
		grouped[k] = append(grouped[k], Threshold{Rank: rank, Min: row.MinThreshold})
	}

	b := Benchmarks{tables: make(map[benchmarkKey]Table, len(grouped))}
	for k, thresholds := range grouped {
		b.tables[k] = NewTable(thresholds)
	}
	return b
}

// Table returns the benchmark table of a target for an already resolved gender.
func (b Benchmarks) Table(level gymstats.RankLevel, targetID string, gender gymstats.Gender) (Table, bool) {
	t, ok := b.tables[benchmarkKey{level: level, targetID: targetID, gender: gender}]
	if !ok || len(t) == 0 {
		return nil, false
	}
	return t, true
}

func (b Benchmarks) Len() int {
	return len(b.tables)
}
