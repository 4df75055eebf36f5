package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/gymstats/progression"
	"github.com/2beens/gymstats/internal/gymstats/ranking"
	"github.com/2beens/gymstats/internal/gymstats/xp"

	"github.com/google/uuid"
)

var (
	ErrNoSets          = errors.New("session has no sets")
	ErrInvalidExercise = errors.New("exercise must reference exactly one of exercise id or custom exercise id")
	ErrInvalidTimes    = errors.New("session must end after it started")
)

// FinishRequest is the payload of a finished session.
type FinishRequest struct {
	// SessionID of a session started earlier, updated instead of inserted
	SessionID       *uuid.UUID      `json:"sessionId,omitempty"`
	PlanID          *uuid.UUID      `json:"planId,omitempty"`
	PlanDayID       *uuid.UUID      `json:"planDayId,omitempty"`
	StartedAt       time.Time       `json:"startedAt"`
	EndedAt         time.Time       `json:"endedAt"`
	DurationSeconds *int            `json:"durationSeconds,omitempty"`
	Exercises       []ExerciseInput `json:"exercises"`
}

type ExerciseInput struct {
	ExerciseID       *uuid.UUID `json:"exerciseId,omitempty"`
	CustomExerciseID *uuid.UUID `json:"customExerciseId,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	Sets             []SetInput `json:"sets"`
}

func (e ExerciseInput) Ref() gymstats.ExerciseRef {
	return gymstats.ExerciseRef{
		ExerciseID:       e.ExerciseID,
		CustomExerciseID: e.CustomExerciseID,
	}
}

type SetInput struct {
	// PlannedReps is the planned max reps
	PlannedReps     *int       `json:"plannedReps,omitempty"`
	ActualReps      *int       `json:"actualReps,omitempty"`
	PlannedWeight   *float64   `json:"plannedWeight,omitempty"`
	ActualWeight    *float64   `json:"actualWeight,omitempty"`
	IsWarmup        bool       `json:"isWarmup"`
	RestSeconds     *int       `json:"restSeconds,omitempty"`
	PlanSetID       *uuid.UUID `json:"planSetId,omitempty"`
	WeightIncrement *float64   `json:"weightIncrement,omitempty"`
	RepIncrease     *int       `json:"repIncrease,omitempty"`
}

// Validate checks the request before anything is read or written.
func (r FinishRequest) Validate() error {
	if r.StartedAt.IsZero() || r.EndedAt.IsZero() || r.EndedAt.Before(r.StartedAt) {
		return ErrInvalidTimes
	}

	sets := 0
	for i, ex := range r.Exercises {
		if len(ex.Sets) == 0 {
			continue
		}
		if !ex.Ref().Valid() {
			return fmt.Errorf("exercise %d: %w", i, ErrInvalidExercise)
		}
		sets += len(ex.Sets)
	}
	if sets == 0 {
		return ErrNoSets
	}
	return nil
}

type Totals struct {
	Sets            int     `json:"sets"`
	Reps            int     `json:"reps"`
	Volume          float64 `json:"volume"`
	DurationSeconds int     `json:"durationSeconds"`
}

// Sub returns the difference t - other.
func (t Totals) Sub(other Totals) Totals {
	return Totals{
		Sets:            t.Sets - other.Sets,
		Reps:            t.Reps - other.Reps,
		Volume:          t.Volume - other.Volume,
		DurationSeconds: t.DurationSeconds - other.DurationSeconds,
	}
}

type BestSet struct {
	ExerciseKey    string   `json:"exerciseKey"`
	ExerciseName   string   `json:"exerciseName"`
	SetOrder       int      `json:"setOrder"`
	Weight         *float64 `json:"weight,omitempty"`
	Reps           int      `json:"reps"`
	EstimatedOneRM *float64 `json:"estimated1RM,omitempty"`
	SWR            *float64 `json:"swr,omitempty"`
}

type PersonalRecord struct {
	ExerciseKey  string          `json:"exerciseKey"`
	ExerciseName string          `json:"exerciseName"`
	Type         gymstats.PRType `json:"type"`
	OldValue     *float64        `json:"oldValue,omitempty"`
	NewValue     float64         `json:"newValue"`
}

type MuscleWorked struct {
	MuscleID  uuid.UUID          `json:"muscleId"`
	Name      string             `json:"name"`
	Intensity gymstats.Intensity `json:"intensity"`
}

type FailedSets struct {
	ExerciseKey  string `json:"exerciseKey"`
	ExerciseName string `json:"exerciseName"`
	Failed       int    `json:"failed"`
	Total        int    `json:"total"`
}

// FinishResponse is the summary of a finished session. Warnings name the
// components that failed; their sections are left empty.
type FinishResponse struct {
	SessionID          uuid.UUID            `json:"sessionId"`
	Totals             Totals               `json:"totals"`
	Deltas             *Totals              `json:"deltas,omitempty"`
	BestSet            *BestSet             `json:"bestSet,omitempty"`
	XP                 xp.Result            `json:"xp"`
	PersonalRecords    []PersonalRecord     `json:"personalRecords"`
	MusclesWorked      []MuscleWorked       `json:"musclesWorked"`
	RankChanges        []ranking.Change     `json:"rankChanges"`
	OverallRank        *ranking.Progress    `json:"overallRank,omitempty"`
	MuscleGroupRanks   []ranking.Progress   `json:"muscleGroupRanks"`
	FailedSets         []FailedSets         `json:"failedSets"`
	PlanProgressions   []progression.Change `json:"planProgressions"`
	PlanCycleCompleted bool                 `json:"planCycleCompleted"`
	Warnings           []string             `json:"warnings"`
}
