package gymstats

import (
	"time"

	"github.com/google/uuid"
)

type Plan struct {
	ID                 uuid.UUID  `json:"id"`
	UserID             uuid.UUID  `json:"userId"`
	IsActive           bool       `json:"isActive"`
	LastCompletedDayID *uuid.UUID `json:"lastCompletedDayId,omitempty"`
	CurrentCycleStart  *time.Time `json:"currentCycleStart,omitempty"`
	PreviousCycleStart *time.Time `json:"previousCycleStart,omitempty"`
}

// PlanDayExercise is the template of one exercise on a plan day.
type PlanDayExercise struct {
	ID                     uuid.UUID            `json:"id"`
	PlanDayID              uuid.UUID            `json:"planDayId"`
	Exercise               ExerciseRef          `json:"exercise"`
	AutoProgressionEnabled bool                 `json:"autoProgressionEnabled"`
	WeightIncrement        float64              `json:"weightIncrement"`
	TargetRepIncrease      int                  `json:"targetRepIncrease"`
	Sets                   []PlanDayExerciseSet `json:"sets"`
}

// PlanDayExerciseSet is a set template. Nil increments fall back to the
// exercise level configuration.
type PlanDayExerciseSet struct {
	ID                uuid.UUID `json:"id"`
	PlanDayExerciseID uuid.UUID `json:"planDayExerciseId"`
	SetOrder          int       `json:"setOrder"`
	TargetWeight      *float64  `json:"targetWeight,omitempty"`
	TargetMinReps     *int      `json:"targetMinReps,omitempty"`
	TargetMaxReps     *int      `json:"targetMaxReps,omitempty"`
	WeightIncrement   *float64  `json:"weightIncrement,omitempty"`
	TargetRepIncrease *int      `json:"targetRepIncrease,omitempty"`
}

// PlanSetTargets is the new target state written for one set template.
type PlanSetTargets struct {
	PlanSetID     uuid.UUID `json:"planSetId"`
	TargetWeight  *float64  `json:"targetWeight,omitempty"`
	TargetMinReps *int      `json:"targetMinReps,omitempty"`
	TargetMaxReps *int      `json:"targetMaxReps,omitempty"`
}
