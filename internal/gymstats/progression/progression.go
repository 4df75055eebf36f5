// Package progression advances plan targets after a session in which every
// set of an auto progressing exercise met its target.
package progression

import (
	"context"
	"fmt"
	"math"

	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=progression_test

type plansStore interface {
	UpdatePlanSetTargets(ctx context.Context, userID uuid.UUID, targets gymstats.PlanSetTargets) error
}

type Kind string

const (
	KindWeightIncrease Kind = "weight_increase"
	KindWeightDecrease Kind = "weight_decrease"
	KindRepsIncrease   Kind = "reps_increase"
)

// SetOutcome is a performed, non warm-up set linked to a plan set template.
type SetOutcome struct {
	PlanSetID uuid.UUID
	Succeeded bool
	// optional increments sent with the set, preferred over the plan config
	WeightIncrement *float64
	RepIncrease     *int
}

type Input struct {
	UserID        uuid.UUID
	SessionID     uuid.UUID
	Exercises     map[string]gymstats.Exercise
	PlanExercises []gymstats.PlanDayExercise
	Outcomes      []SetOutcome
}

// Change summarises the progression of one plan exercise. For rep increases
// Before and After are the max reps targets.
type Change struct {
	PlanDayExerciseID uuid.UUID `json:"planDayExerciseId"`
	ExerciseKey       string    `json:"exerciseKey"`
	ExerciseName      string    `json:"exerciseName"`
	Kind              Kind      `json:"kind"`
	Before            float64   `json:"before"`
	After             float64   `json:"after"`
}

type Engine struct {
	store plansStore
}

func NewEngine(store plansStore) *Engine {
	return &Engine{
		store: store,
	}
}

// Run updates every qualifying set template with its own write. A failed write
// does not stop the others: the returned changes cover what was written and
// the error combines the failed writes.
func (e *Engine) Run(ctx context.Context, in Input) (_ []Change, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progression.engine.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	outcomes := make(map[uuid.UUID][]SetOutcome, len(in.Outcomes))
	for _, o := range in.Outcomes {
		outcomes[o.PlanSetID] = append(outcomes[o.PlanSetID], o)
	}

	var changes []Change
	for _, pde := range in.PlanExercises {
		if !pde.AutoProgressionEnabled {
			continue
		}

		referenced, allSucceeded := referencedSets(pde, outcomes)
		if len(referenced) == 0 || !allSucceeded {
			continue
		}

		exercise, ok := in.Exercises[pde.Exercise.Key()]
		if !ok {
			log.WithFields(log.Fields{
				"user_id":     in.UserID,
				"session_id":  in.SessionID,
				"exercise":    pde.Exercise.Key(),
				"plan_day_ex": pde.ID,
			}).Warn("progression: exercise metadata missing, skipping")
			continue
		}

		var summary *Change
		for _, ref := range referenced {
			targets, change, ok := advance(exercise.Type, pde, ref.template, ref.outcome)
			if !ok {
				continue
			}
			if updateErr := e.store.UpdatePlanSetTargets(ctx, in.UserID, targets); updateErr != nil {
				log.WithFields(log.Fields{
					"user_id":    in.UserID,
					"session_id": in.SessionID,
					"plan_set":   targets.PlanSetID,
				}).Errorf("progression: update plan set targets: %s", updateErr)
				err = multierr.Append(err, fmt.Errorf("update plan set %s: %w", targets.PlanSetID, updateErr))
				continue
			}
			if summary == nil {
				change.PlanDayExerciseID = pde.ID
				change.ExerciseKey = exercise.Key()
				change.ExerciseName = exercise.Name
				summary = &change
			}
		}
		if summary != nil {
			changes = append(changes, *summary)
		}
	}

	return changes, err
}

type referencedSet struct {
	template gymstats.PlanDayExerciseSet
	outcome  SetOutcome
}

// referencedSets returns the set templates of the plan exercise that this
// session performed against, and whether all of those sets succeeded.
func referencedSets(pde gymstats.PlanDayExercise, outcomes map[uuid.UUID][]SetOutcome) ([]referencedSet, bool) {
	var referenced []referencedSet
	allSucceeded := true
	for _, tmpl := range pde.Sets {
		performed, ok := outcomes[tmpl.ID]
		if !ok {
			continue
		}
		for _, o := range performed {
			if !o.Succeeded {
				allSucceeded = false
			}
		}
		referenced = append(referenced, referencedSet{
			template: tmpl,
			outcome:  performed[0],
		})
	}
	return referenced, allSucceeded
}

func weightIncrement(pde gymstats.PlanDayExercise, tmpl gymstats.PlanDayExerciseSet, o SetOutcome) float64 {
	switch {
	case o.WeightIncrement != nil:
		return *o.WeightIncrement
	case tmpl.WeightIncrement != nil:
		return *tmpl.WeightIncrement
	default:
		return pde.WeightIncrement
	}
}

func repIncrease(pde gymstats.PlanDayExercise, tmpl gymstats.PlanDayExerciseSet, o SetOutcome) int {
	switch {
	case o.RepIncrease != nil:
		return *o.RepIncrease
	case tmpl.TargetRepIncrease != nil:
		return *tmpl.TargetRepIncrease
	default:
		return pde.TargetRepIncrease
	}
}

// advance computes the next targets of one set template. Calisthenics gain
// reps, assisted bodyweight loses assistance down to zero and everything else
// gains weight. Returns false when there is nothing to change.
func advance(
	exType gymstats.ExerciseType,
	pde gymstats.PlanDayExercise,
	tmpl gymstats.PlanDayExerciseSet,
	o SetOutcome,
) (gymstats.PlanSetTargets, Change, bool) {
	targets := gymstats.PlanSetTargets{
		PlanSetID:     tmpl.ID,
		TargetWeight:  tmpl.TargetWeight,
		TargetMinReps: tmpl.TargetMinReps,
		TargetMaxReps: tmpl.TargetMaxReps,
	}

	switch {
	case exType.IsCalisthenics():
		inc := repIncrease(pde, tmpl, o)
		if inc <= 0 || (tmpl.TargetMinReps == nil && tmpl.TargetMaxReps == nil) {
			return targets, Change{}, false
		}
		change := Change{Kind: KindRepsIncrease}
		if tmpl.TargetMinReps != nil {
			minReps := *tmpl.TargetMinReps + inc
			targets.TargetMinReps = &minReps
		}
		if tmpl.TargetMaxReps != nil {
			maxReps := *tmpl.TargetMaxReps + inc
			targets.TargetMaxReps = &maxReps
			change.Before, change.After = float64(*tmpl.TargetMaxReps), float64(maxReps)
		} else {
			change.Before, change.After = float64(*tmpl.TargetMinReps), float64(*targets.TargetMinReps)
		}
		return targets, change, true

	case exType == gymstats.ExerciseTypeAssistedBodyweight:
		inc := weightIncrement(pde, tmpl, o)
		if inc <= 0 || tmpl.TargetWeight == nil || *tmpl.TargetWeight <= 0 {
			return targets, Change{}, false
		}
		weight := math.Max(0, roundWeight(*tmpl.TargetWeight-inc))
		targets.TargetWeight = &weight
		return targets, Change{Kind: KindWeightDecrease, Before: *tmpl.TargetWeight, After: weight}, true

	default:
		inc := weightIncrement(pde, tmpl, o)
		if inc <= 0 || tmpl.TargetWeight == nil {
			return targets, Change{}, false
		}
		weight := roundWeight(*tmpl.TargetWeight + inc)
		targets.TargetWeight = &weight
		return targets, Change{Kind: KindWeightIncrease, Before: *tmpl.TargetWeight, After: weight}, true
	}
}

func roundWeight(w float64) float64 {
	return math.Round(w*1000) / 1000
}
