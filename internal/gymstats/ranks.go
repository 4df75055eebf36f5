package gymstats

import (
	"time"

	"github.com/google/uuid"
)

// RankLevel is the granularity a rank is computed at.
type RankLevel string

const (
	RankLevelExercise    RankLevel = "exercise"
	RankLevelMuscle      RankLevel = "muscle"
	RankLevelMuscleGroup RankLevel = "muscle_group"
	RankLevelOverall     RankLevel = "overall"
)

var RankLevels = []RankLevel{
	RankLevelExercise,
	RankLevelMuscle,
	RankLevelMuscleGroup,
	RankLevelOverall,
}

func (l RankLevel) String() string {
	return string(l)
}

// Rank is an entry of the shared rank catalog.
type Rank struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sortOrder"`
}

// BenchmarkRow is one row of a rank benchmark table. TargetID is the exercise
// key, muscle id or muscle group id; empty for the overall table.
type BenchmarkRow struct {
	Level        RankLevel `json:"level"`
	TargetID     string    `json:"targetId"`
	Gender       Gender    `json:"gender"`
	RankID       uuid.UUID `json:"rankId"`
	MinThreshold float64   `json:"minThreshold"`
}

type RankKey struct {
	Level    RankLevel
	TargetID string
}

// RankRecord is the stored rank of a user for one target entity.
type RankRecord struct {
	Level            RankLevel  `json:"level"`
	UserID           uuid.UUID  `json:"userId"`
	TargetID         string     `json:"targetId"`
	StrengthScore    float64    `json:"strengthScore"`
	RankID           *uuid.UUID `json:"rankId,omitempty"`
	LastCalculatedAt time.Time  `json:"lastCalculatedAt"`
}

func (r RankRecord) Key() RankKey {
	return RankKey{Level: r.Level, TargetID: r.TargetID}
}
