package ranking

import (
	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/gymstats/records"
	"github.com/2beens/gymstats/internal/gymstats/strength"

	"github.com/google/uuid"
)

// scorer combines stored records with this session's bests, so a score is
// always computed from the best-ever value.
type scorer struct {
	exercises map[string]gymstats.Exercise
	stored    gymstats.RecordIndex
	bests     map[string]records.ExerciseBests
}

func (s scorer) bestEver(key string, prType gymstats.PRType) (float64, bool) {
	best, found := 0.0, false
	if r, ok := s.stored.Get(key, prType); ok {
		best, found = r.Value, true
	}
	if eb, ok := s.bests[key]; ok {
		if v, ok := eb.Value(prType); ok && (!found || v > best) {
			best, found = v, true
		}
	}
	return best, found
}

func (s scorer) isBodyweightClass(key string) bool {
	ex, ok := s.exercises[key]
	if !ok {
		if eb, found := s.bests[key]; found {
			ex = eb.Exercise
		}
	}
	return ex.Type.IsBodyweightClass()
}

// exerciseScore is the best-ever strength-to-weight ratio, or the best-ever
// rep count for bodyweight class exercises.
func (s scorer) exerciseScore(key string) (float64, bool) {
	if s.isBodyweightClass(key) {
		return s.bestEver(key, gymstats.PRTypeMaxReps)
	}
	return s.bestEver(key, gymstats.PRTypeMaxSWR)
}

// relativeStrength puts every exercise on the strength-to-weight scale.
func (s scorer) relativeStrength(key string) (float64, bool) {
	if s.isBodyweightClass(key) {
		reps, ok := s.bestEver(key, gymstats.PRTypeMaxReps)
		if !ok {
			return 0, false
		}
		return strength.RelativeStrength(int(reps)), true
	}
	return s.bestEver(key, gymstats.PRTypeMaxSWR)
}

// prBearing lists every exercise with a stored record or a session best.
func (s scorer) prBearing() map[string]struct{} {
	keys := make(map[string]struct{}, len(s.stored)+len(s.bests))
	for k := range s.stored {
		keys[k] = struct{}{}
	}
	for k := range s.bests {
		keys[k] = struct{}{}
	}
	return keys
}

type aggregateScores struct {
	muscles map[uuid.UUID]float64
	groups  map[uuid.UUID]float64
	overall *float64
}

// aggregate scores muscles and groups by the strongest primary contributor and
// the user overall by the mean of the group scores.
func (s scorer) aggregate(mappings []gymstats.MuscleMapping, muscles map[uuid.UUID]gymstats.Muscle) aggregateScores {
	bearing := s.prBearing()
	agg := aggregateScores{
		muscles: make(map[uuid.UUID]float64),
		groups:  make(map[uuid.UUID]float64),
	}

	for _, m := range mappings {
		if m.Intensity != gymstats.IntensityPrimary {
			continue
		}
		if _, ok := bearing[m.ExerciseKey]; !ok {
			continue
		}
		rs, ok := s.relativeStrength(m.ExerciseKey)
		if !ok {
			continue
		}
		if current, exists := agg.muscles[m.MuscleID]; !exists || rs > current {
			agg.muscles[m.MuscleID] = rs
		}
	}

	for muscleID, score := range agg.muscles {
		muscle, ok := muscles[muscleID]
		if !ok {
			continue
		}
		if current, exists := agg.groups[muscle.MuscleGroupID]; !exists || score > current {
			agg.groups[muscle.MuscleGroupID] = score
		}
	}

	if len(agg.groups) > 0 {
		sum := 0.0
		for _, score := range agg.groups {
			sum += score
		}
		mean := sum / float64(len(agg.groups))
		agg.overall = &mean
	}
	return agg
}
