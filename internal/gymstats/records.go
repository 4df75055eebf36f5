package gymstats

import (
	"time"

	"github.com/google/uuid"
)

type PRType string

const (
	PRTypeOneRepMax PRType = "one_rep_max"
	PRTypeMaxReps   PRType = "max_reps"
	PRTypeMaxSWR    PRType = "max_swr"
)

var PRTypes = []PRType{PRTypeOneRepMax, PRTypeMaxReps, PRTypeMaxSWR}

// IsBodyweightRelative marks record types skipped for bodyweight-class exercises.
func (t PRType) IsBodyweightRelative() bool {
	return t == PRTypeOneRepMax || t == PRTypeMaxSWR
}

// PersonalRecord is keyed by (user, exercise key, type). Its value never decreases.
type PersonalRecord struct {
	UserID       uuid.UUID   `json:"userId"`
	ExerciseKey  string      `json:"exerciseKey"`
	Exercise     ExerciseRef `json:"exercise"`
	Type         PRType      `json:"type"`
	Value        float64     `json:"value"`
	BodyweightKg *float64    `json:"bodyweightKg,omitempty"`
	SessionSetID *uuid.UUID  `json:"sessionSetId,omitempty"`
	AchievedAt   time.Time   `json:"achievedAt"`
}

// RecordIndex groups records by exercise key and type.
type RecordIndex map[string]map[PRType]PersonalRecord

func IndexRecords(records []PersonalRecord) RecordIndex {
	idx := make(RecordIndex)
	for _, r := range records {
		if idx[r.ExerciseKey] == nil {
			idx[r.ExerciseKey] = make(map[PRType]PersonalRecord)
		}
		idx[r.ExerciseKey][r.Type] = r
	}
	return idx
}

func (idx RecordIndex) Get(exerciseKey string, prType PRType) (PersonalRecord, bool) {
	byType, ok := idx[exerciseKey]
	if !ok {
		return PersonalRecord{}, false
	}
	r, ok := byType[prType]
	return r, ok
}
