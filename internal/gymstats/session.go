package gymstats

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
)

type Session struct {
	ID                 uuid.UUID     `json:"id"`
	UserID             uuid.UUID     `json:"userId"`
	PlanID             *uuid.UUID    `json:"planId,omitempty"`
	PlanDayID          *uuid.UUID    `json:"planDayId,omitempty"`
	StartedAt          time.Time     `json:"startedAt"`
	EndedAt            time.Time     `json:"endedAt"`
	Status             SessionStatus `json:"status"`
	DurationSeconds    int           `json:"durationSeconds"`
	TotalSets          int           `json:"totalSets"`
	TotalReps          int           `json:"totalReps"`
	TotalVolume        float64       `json:"totalVolume"`
	MuscleRankUps      int           `json:"muscleRankUps"`
	MuscleGroupRankUps int           `json:"muscleGroupRankUps"`
	OverallRankUps     int           `json:"overallRankUps"`
	ExerciseSummary    string        `json:"exerciseSummary"`
}

// SessionSet is immutable once stored.
type SessionSet struct {
	ID             uuid.UUID   `json:"id"`
	SessionID      uuid.UUID   `json:"sessionId"`
	Exercise       ExerciseRef `json:"exercise"`
	SetOrder       int         `json:"setOrder"`
	PlannedReps    *int        `json:"plannedReps,omitempty"`
	ActualReps     *int        `json:"actualReps,omitempty"`
	PlannedWeight  *float64    `json:"plannedWeight,omitempty"`
	ActualWeight   *float64    `json:"actualWeight,omitempty"`
	IsWarmup       bool        `json:"isWarmup"`
	IsSuccess      bool        `json:"isSuccess"`
	RestSeconds    *int        `json:"restSeconds,omitempty"`
	PlanSetID      *uuid.UUID  `json:"planSetId,omitempty"`
	EstimatedOneRM *float64    `json:"estimated1RM,omitempty"`
	SWR            *float64    `json:"swr,omitempty"`
}

func (s SessionSet) Reps() int {
	if s.ActualReps == nil {
		return 0
	}
	return *s.ActualReps
}

func (s SessionSet) Weight() float64 {
	if s.ActualWeight == nil {
		return 0
	}
	return *s.ActualWeight
}

type BodyweightEntry struct {
	WeightKg   float64   `json:"weightKg"`
	MeasuredAt time.Time `json:"measuredAt"`
}

type MuscleLastWorked struct {
	UserID       uuid.UUID `json:"userId"`
	MuscleID     uuid.UUID `json:"muscleId"`
	LastWorkedAt time.Time `json:"lastWorkedAt"`
}
