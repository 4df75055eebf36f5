// Package strength holds the per-set formulas: estimated one rep max (Epley),
// strength-to-weight ratio, training volume and the set success criterion.
package strength

import (
	"github.com/2beens/gymstats/internal/gymstats"
)

// EstimatedOneRepMax uses the Epley formula. A single rep is the weight itself.
// Returns nil when an input is missing, weight is negative or reps is not positive.
func EstimatedOneRepMax(weight *float64, reps *int) *float64 {
	if weight == nil || reps == nil {
		return nil
	}
	w, r := *weight, *reps
	if w < 0 || r <= 0 {
		return nil
	}
	if r == 1 {
		return &w
	}
	oneRM := w * (1 + float64(r)/30)
	return &oneRM
}

// StrengthToWeightRatio divides the one rep max by bodyweight.
func StrengthToWeightRatio(oneRM, bodyweight *float64) *float64 {
	if oneRM == nil || bodyweight == nil || *bodyweight <= 0 {
		return nil
	}
	swr := *oneRM / *bodyweight
	return &swr
}

// RelativeStrength puts a bodyweight exercise rep count on the same scale as
// a strength-to-weight ratio: the Epley estimate of the lifter's own mass,
// divided by that mass.
func RelativeStrength(reps int) float64 {
	if reps <= 0 {
		return 0
	}
	if reps == 1 {
		return 1
	}
	return 1 + float64(reps)/30
}

// Volume of a single set. Free-weight types count the load, pure calisthenics
// count bodyweight, assisted bodyweight subtracts the assistance and weighted
// bodyweight adds the extra load.
func Volume(exType gymstats.ExerciseType, weight *float64, reps *int, bodyweight *float64) float64 {
	if reps == nil || *reps <= 0 {
		return 0
	}
	r := float64(*reps)
	w := 0.0
	if weight != nil && *weight > 0 {
		w = *weight
	}
	bw := 0.0
	if bodyweight != nil && *bodyweight > 0 {
		bw = *bodyweight
	}

	switch exType {
	case gymstats.ExerciseTypeBodyweight:
		return bw * r
	case gymstats.ExerciseTypeAssistedBodyweight:
		load := bw - w
		if load < 0 {
			load = 0
		}
		return load * r
	case gymstats.ExerciseTypeWeightedBodyweight:
		return (bw + w) * r
	default:
		return w * r
	}
}

// Targets are the planned values a set is judged against.
type Targets struct {
	Reps   *int
	Weight *float64
}

// SetSucceeded reports whether the performed set met its plan. Reps must reach
// the planned (max) reps. Weight must reach the planned weight, except for
// assisted bodyweight where using no more assistance than planned is success
// and for calisthenics where weight is ignored. A set without any target
// succeeds if at least one rep was done.
func SetSucceeded(exType gymstats.ExerciseType, planned Targets, actualReps *int, actualWeight *float64) bool {
	reps := 0
	if actualReps != nil {
		reps = *actualReps
	}
	if planned.Reps == nil && planned.Weight == nil {
		return reps > 0
	}

	repsOK := planned.Reps == nil || reps >= *planned.Reps
	if !repsOK {
		return false
	}

	switch exType {
	case gymstats.ExerciseTypeBodyweight:
		return true
	case gymstats.ExerciseTypeAssistedBodyweight:
		if planned.Weight == nil || actualWeight == nil {
			return true
		}
		return *actualWeight <= *planned.Weight
	default:
		if planned.Weight == nil {
			return true
		}
		return actualWeight != nil && *actualWeight >= *planned.Weight
	}
}
