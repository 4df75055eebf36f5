// Package gymstats holds the typed entities shared by the session completion
// pipeline: sessions and their sets, personal records, strength ranks and
// their benchmarks, workout plans and the exercise/muscle catalog.
package gymstats

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound  = errors.New("profile not found")
	ErrSessionNotFound  = errors.New("session not found")
	ErrPlanNotFound     = errors.New("plan not found")
	ErrInvalidReference = errors.New("invalid reference")
)

// ExerciseType decides how volume, success and progression are computed for a set.
type ExerciseType string

const (
	ExerciseTypeBarbell            ExerciseType = "barbell"
	ExerciseTypeDumbbell           ExerciseType = "dumbbell"
	ExerciseTypeMachine            ExerciseType = "machine"
	ExerciseTypeCable              ExerciseType = "cable"
	ExerciseTypeKettlebell         ExerciseType = "kettlebell"
	ExerciseTypeBodyweight         ExerciseType = "bodyweight"
	ExerciseTypeAssistedBodyweight ExerciseType = "assisted_bodyweight"
	ExerciseTypeWeightedBodyweight ExerciseType = "weighted_bodyweight"
)

func (t ExerciseType) String() string {
	return string(t)
}

// IsCalisthenics reports pure bodyweight exercises, where only reps matter.
func (t ExerciseType) IsCalisthenics() bool {
	return t == ExerciseTypeBodyweight
}

// IsBodyweightClass reports exercises dominated by the lifter's own mass.
// Absolute load records are not meaningful for them.
func (t ExerciseType) IsBodyweightClass() bool {
	switch t {
	case ExerciseTypeBodyweight,
		ExerciseTypeAssistedBodyweight,
		ExerciseTypeWeightedBodyweight:
		return true
	default:
		return false
	}
}

// Intensity is how strongly an exercise engages a muscle.
type Intensity string

const (
	IntensityPrimary   Intensity = "primary"
	IntensitySecondary Intensity = "secondary"
	IntensityAccessory Intensity = "accessory"
)

func (i Intensity) weight() int {
	switch i {
	case IntensityPrimary:
		return 3
	case IntensitySecondary:
		return 2
	case IntensityAccessory:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether i is as strong as other or stronger.
func (i Intensity) AtLeast(other Intensity) bool {
	return i.weight() >= other.weight()
}

// Gender selects the benchmark partition used for ranking.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ExerciseRef points at either a standard or a user custom exercise, never both.
type ExerciseRef struct {
	ExerciseID       *uuid.UUID `json:"exerciseId,omitempty"`
	CustomExerciseID *uuid.UUID `json:"customExerciseId,omitempty"`
}

func StandardExercise(id uuid.UUID) ExerciseRef {
	return ExerciseRef{ExerciseID: &id}
}

func CustomExercise(id uuid.UUID) ExerciseRef {
	return ExerciseRef{CustomExerciseID: &id}
}

// Valid is true when exactly one of the two ids is set.
func (r ExerciseRef) Valid() bool {
	return (r.ExerciseID == nil) != (r.CustomExerciseID == nil)
}

func (r ExerciseRef) IsCustom() bool {
	return r.CustomExerciseID != nil
}

// Key is the exercise key used by records, ranks and muscle mappings.
// Standard and custom ids share the uuid space, so the bare id is enough.
func (r ExerciseRef) Key() string {
	switch {
	case r.ExerciseID != nil:
		return r.ExerciseID.String()
	case r.CustomExerciseID != nil:
		return r.CustomExerciseID.String()
	default:
		return ""
	}
}

type Exercise struct {
	Ref  ExerciseRef  `json:"ref"`
	Name string       `json:"name"`
	Type ExerciseType `json:"type"`
}

func (e Exercise) Key() string {
	return e.Ref.Key()
}

type MuscleGroup struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type Muscle struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	MuscleGroupID uuid.UUID `json:"muscleGroupId"`
}

type MuscleMapping struct {
	ExerciseKey string    `json:"exerciseKey"`
	MuscleID    uuid.UUID `json:"muscleId"`
	Intensity   Intensity `json:"intensity"`
}

type Profile struct {
	UserID           uuid.UUID `json:"userId"`
	Gender           Gender    `json:"gender"`
	ExperiencePoints int       `json:"experiencePoints"`
}
