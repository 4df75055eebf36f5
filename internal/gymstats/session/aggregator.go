package session

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/gymstats/progression"
	"github.com/2beens/gymstats/internal/gymstats/ranking"
	"github.com/2beens/gymstats/internal/gymstats/strength"
	"github.com/2beens/gymstats/internal/telemetry/tracing"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// refData is everything read before the session is written.
type refData struct {
	profile       gymstats.Profile
	bodyweight    *float64
	exercises     map[string]gymstats.Exercise
	mappings      []gymstats.MuscleMapping
	muscles       map[uuid.UUID]gymstats.Muscle
	groups        map[uuid.UUID]gymstats.MuscleGroup
	records       gymstats.RecordIndex
	benchmarks    ranking.Benchmarks
	ranks         map[gymstats.RankKey]gymstats.RankRecord
	plan          *gymstats.Plan
	planExercises []gymstats.PlanDayExercise
	planSets      map[uuid.UUID]gymstats.PlanDayExerciseSet
	previous      *gymstats.Session

	// ranking must not overwrite stored ranks computed from partial data
	rankingReady bool
	// rankingMissing names the ranking inputs that failed to load
	rankingMissing []string
}

// exercise returns the metadata of ref, or a bare exercise when it is unknown.
func (d *refData) exercise(ref gymstats.ExerciseRef) gymstats.Exercise {
	if ex, ok := d.exercises[ref.Key()]; ok {
		return ex
	}
	return gymstats.Exercise{Ref: ref}
}

// aggregate issues every read of the pipeline. Only the profile read is fatal,
// the others degrade to empty reference data.
func (s *Service) aggregate(ctx context.Context, userID uuid.UUID, req FinishRequest, deg *degradations) (_ *refData, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.service.aggregate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	data := &refData{
		exercises: make(map[string]gymstats.Exercise),
		muscles:   make(map[uuid.UUID]gymstats.Muscle),
		groups:    make(map[uuid.UUID]gymstats.MuscleGroup),
		records:   make(gymstats.RecordIndex),
		ranks:     make(map[gymstats.RankKey]gymstats.RankRecord),
		planSets:  make(map[uuid.UUID]gymstats.PlanDayExerciseSet),
	}
	var benchmarksLoaded, ranksLoaded, recordsLoaded, musclesLoaded, groupsLoaded bool
	var exercisesLoaded, mappingsLoaded bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := s.store.GetProfile(gctx, userID)
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		data.profile = *profile
		return nil
	})
	g.Go(func() error {
		entry, err := s.store.LatestBodyweight(gctx, userID, req.EndedAt)
		if err != nil {
			deg.warn("load_bodyweight", err)
			return nil
		}
		if entry != nil && entry.WeightKg > 0 {
			bw := entry.WeightKg
			data.bodyweight = &bw
		}
		return nil
	})
	g.Go(func() error {
		prs, err := s.store.GetPersonalRecords(gctx, userID)
		if err != nil {
			deg.warn("load_personal_records", err)
			return nil
		}
		data.records = gymstats.IndexRecords(prs)
		recordsLoaded = true
		return nil
	})
	g.Go(func() error {
		rows, err := s.store.GetRankRecords(gctx, userID)
		if err != nil {
			deg.warn("load_rank_records", err)
			return nil
		}
		for _, r := range rows {
			data.ranks[r.Key()] = r
		}
		ranksLoaded = true
		return nil
	})
	g.Go(func() error {
		benchmarks, err := s.benchmarks.Benchmarks(gctx)
		if err != nil {
			deg.warn("load_benchmarks", err)
			return nil
		}
		data.benchmarks = benchmarks
		benchmarksLoaded = true
		return nil
	})
	g.Go(func() error {
		muscles, err := s.store.GetMuscles(gctx)
		if err != nil {
			deg.warn("load_muscles", err)
			return nil
		}
		for _, m := range muscles {
			data.muscles[m.ID] = m
		}
		musclesLoaded = true
		return nil
	})
	g.Go(func() error {
		groups, err := s.store.GetMuscleGroups(gctx)
		if err != nil {
			deg.warn("load_muscle_groups", err)
			return nil
		}
		for _, mg := range groups {
			data.groups[mg.ID] = mg
		}
		groupsLoaded = true
		return nil
	})
	if req.PlanID != nil {
		g.Go(func() error {
			plan, err := s.store.GetActivePlan(gctx, userID)
			if err != nil {
				deg.warn("load_plan", err)
				return nil
			}
			// only the active plan is tracked
			if plan != nil && plan.ID == *req.PlanID {
				data.plan = plan
			}
			return nil
		})
	}
	if req.PlanDayID != nil {
		g.Go(func() error {
			exercises, err := s.store.GetPlanDayExercises(gctx, userID, *req.PlanDayID)
			if err != nil {
				deg.warn("load_plan_day", err)
				return nil
			}
			data.planExercises = exercises
			for _, pde := range exercises {
				for _, set := range pde.Sets {
					data.planSets[set.ID] = set
				}
			}
			return nil
		})
		g.Go(func() error {
			previous, err := s.store.GetPreviousSession(gctx, userID, *req.PlanDayID, req.StartedAt)
			if err != nil {
				deg.warn("load_previous_session", err)
				return nil
			}
			data.previous = previous
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// metadata and mappings cover the session exercises, every exercise
	// holding a record and every plan exercise
	refs := exerciseRefs(req, data)
	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		keys = append(keys, ref.Key())
	}

	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		exercises, err := s.store.GetExercises(gctx, userID, refs)
		if err != nil {
			deg.warn("load_exercises", err)
			return nil
		}
		for _, ex := range exercises {
			data.exercises[ex.Key()] = ex
		}
		exercisesLoaded = true
		return nil
	})
	g.Go(func() error {
		mappings, err := s.store.GetMuscleMappings(gctx, keys)
		if err != nil {
			deg.warn("load_muscle_mappings", err)
			return nil
		}
		data.mappings = mappings
		mappingsLoaded = true
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// muscles are only attributed to resolved exercises
	if !exercisesLoaded {
		data.mappings = nil
	}

	for _, input := range []struct {
		name   string
		loaded bool
	}{
		{"benchmarks", benchmarksLoaded},
		{"rank_records", ranksLoaded},
		{"personal_records", recordsLoaded},
		{"exercises", exercisesLoaded},
		{"muscle_mappings", mappingsLoaded},
		{"muscles", musclesLoaded},
		{"muscle_groups", groupsLoaded},
	} {
		if !input.loaded {
			data.rankingMissing = append(data.rankingMissing, input.name)
		}
	}
	data.rankingReady = len(data.rankingMissing) == 0

	return data, nil
}

func exerciseRefs(req FinishRequest, data *refData) []gymstats.ExerciseRef {
	seen := make(map[string]struct{})
	var refs []gymstats.ExerciseRef
	add := func(ref gymstats.ExerciseRef) {
		if !ref.Valid() {
			return
		}
		if _, ok := seen[ref.Key()]; ok {
			return
		}
		seen[ref.Key()] = struct{}{}
		refs = append(refs, ref)
	}

	for _, ex := range req.Exercises {
		if len(ex.Sets) > 0 {
			add(ex.Ref())
		}
	}
	recordKeys := make([]string, 0, len(data.records))
	for key := range data.records {
		recordKeys = append(recordKeys, key)
	}
	sort.Strings(recordKeys)
	for _, key := range recordKeys {
		for _, prType := range gymstats.PRTypes {
			if r, ok := data.records.Get(key, prType); ok {
				add(r.Exercise)
				break
			}
		}
	}
	for _, pde := range data.planExercises {
		add(pde.Exercise)
	}
	return refs
}

// prepared is the session derived from the request before it is written.
type prepared struct {
	session       gymstats.Session
	sets          []gymstats.SessionSet
	outcomes      []progression.SetOutcome
	totals        Totals
	bestSet       *BestSet
	failedSets    []FailedSets
	musclesWorked []MuscleWorked
}

// prepare computes the derived values of every set and the session totals.
// Warm-up sets are stored but excluded from totals, the best set, the failed
// set overview and progression.
func prepare(userID uuid.UUID, req FinishRequest, data *refData) *prepared {
	p := &prepared{}
	var best bestCandidate
	var summary []string
	var sessionKeys []string

	for _, in := range req.Exercises {
		if len(in.Sets) == 0 {
			continue
		}
		ref := in.Ref()
		exercise := data.exercise(ref)
		sessionKeys = append(sessionKeys, ref.Key())

		failed := FailedSets{
			ExerciseKey:  ref.Key(),
			ExerciseName: exercise.Name,
		}
		for i, si := range in.Sets {
			set := gymstats.SessionSet{
				Exercise:      ref,
				SetOrder:      i + 1,
				PlannedReps:   si.PlannedReps,
				ActualReps:    si.ActualReps,
				PlannedWeight: si.PlannedWeight,
				ActualWeight:  si.ActualWeight,
				IsWarmup:      si.IsWarmup,
				RestSeconds:   si.RestSeconds,
				PlanSetID:     si.PlanSetID,
			}
			if si.PlanSetID != nil {
				if tmpl, ok := data.planSets[*si.PlanSetID]; ok {
					if set.PlannedReps == nil {
						set.PlannedReps = tmpl.TargetMaxReps
					}
					if set.PlannedWeight == nil {
						set.PlannedWeight = tmpl.TargetWeight
					}
				}
			}

			set.EstimatedOneRM = strength.EstimatedOneRepMax(set.ActualWeight, set.ActualReps)
			set.SWR = strength.StrengthToWeightRatio(set.EstimatedOneRM, data.bodyweight)
			set.IsSuccess = strength.SetSucceeded(
				exercise.Type,
				strength.Targets{Reps: set.PlannedReps, Weight: set.PlannedWeight},
				set.ActualReps,
				set.ActualWeight,
			)
			p.sets = append(p.sets, set)

			if set.IsWarmup {
				continue
			}
			p.totals.Sets++
			p.totals.Reps += set.Reps()
			p.totals.Volume += strength.Volume(exercise.Type, set.ActualWeight, set.ActualReps, data.bodyweight)

			failed.Total++
			if !set.IsSuccess {
				failed.Failed++
			}
			if set.PlanSetID != nil {
				p.outcomes = append(p.outcomes, progression.SetOutcome{
					PlanSetID:       *set.PlanSetID,
					Succeeded:       set.IsSuccess,
					WeightIncrement: si.WeightIncrement,
					RepIncrease:     si.RepIncrease,
				})
			}
			best.consider(exercise, set)
		}

		if failed.Failed > 0 {
			p.failedSets = append(p.failedSets, failed)
		}
		name := exercise.Name
		if name == "" {
			name = ref.Key()
		}
		summary = append(summary, fmt.Sprintf("%s x%d", name, len(in.Sets)))
	}

	duration := int(req.EndedAt.Sub(req.StartedAt).Seconds())
	if req.DurationSeconds != nil && *req.DurationSeconds >= 0 {
		duration = *req.DurationSeconds
	}
	p.totals.DurationSeconds = duration
	p.bestSet = best.result()
	p.musclesWorked = musclesWorked(data, sessionKeys)

	var sessionID uuid.UUID
	if req.SessionID != nil {
		sessionID = *req.SessionID
	}
	p.session = gymstats.Session{
		ID:              sessionID,
		UserID:          userID,
		PlanID:          req.PlanID,
		PlanDayID:       req.PlanDayID,
		StartedAt:       req.StartedAt,
		EndedAt:         req.EndedAt,
		Status:          gymstats.SessionStatusCompleted,
		DurationSeconds: duration,
		TotalSets:       p.totals.Sets,
		TotalReps:       p.totals.Reps,
		TotalVolume:     p.totals.Volume,
		ExerciseSummary: strings.Join(summary, ", "),
	}
	return p
}

// bestCandidate tracks the best set of the session. Sets with a strength to
// weight ratio outrank calisthenics sets judged by reps, which outrank sets
// only judged by estimated 1RM (no bodyweight known). The earliest set wins a
// tie.
type bestCandidate struct {
	set      *gymstats.SessionSet
	exercise gymstats.Exercise
	tier     int
	value    float64
}

func (b *bestCandidate) consider(exercise gymstats.Exercise, set gymstats.SessionSet) {
	var tier int
	var value float64
	switch {
	case exercise.Type.IsCalisthenics():
		if set.Reps() <= 0 {
			return
		}
		tier, value = 2, float64(set.Reps())
	case set.SWR != nil:
		tier, value = 3, *set.SWR
	case set.EstimatedOneRM != nil:
		tier, value = 1, *set.EstimatedOneRM
	default:
		return
	}

	if b.set != nil && (tier < b.tier || (tier == b.tier && value <= b.value)) {
		return
	}
	s := set
	b.set = &s
	b.exercise = exercise
	b.tier = tier
	b.value = value
}

func (b *bestCandidate) result() *BestSet {
	if b.set == nil {
		return nil
	}
	return &BestSet{
		ExerciseKey:    b.set.Exercise.Key(),
		ExerciseName:   b.exercise.Name,
		SetOrder:       b.set.SetOrder,
		Weight:         b.set.ActualWeight,
		Reps:           b.set.Reps(),
		EstimatedOneRM: b.set.EstimatedOneRM,
		SWR:            b.set.SWR,
	}
}

// musclesWorked lists every muscle mapped to a session exercise with its
// strongest intensity, strongest first.
func musclesWorked(data *refData, sessionKeys []string) []MuscleWorked {
	inSession := make(map[string]struct{}, len(sessionKeys))
	for _, key := range sessionKeys {
		inSession[key] = struct{}{}
	}

	strongest := make(map[uuid.UUID]gymstats.Intensity)
	for _, m := range data.mappings {
		if _, ok := inSession[m.ExerciseKey]; !ok {
			continue
		}
		if current, ok := strongest[m.MuscleID]; ok && current.AtLeast(m.Intensity) {
			continue
		}
		strongest[m.MuscleID] = m.Intensity
	}

	worked := make([]MuscleWorked, 0, len(strongest))
	for id, intensity := range strongest {
		worked = append(worked, MuscleWorked{
			MuscleID:  id,
			Name:      data.muscles[id].Name,
			Intensity: intensity,
		})
	}
	sort.Slice(worked, func(i, j int) bool {
		a, b := worked[i], worked[j]
		if a.Intensity != b.Intensity {
			return a.Intensity.AtLeast(b.Intensity)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.MuscleID.String() < b.MuscleID.String()
	})
	return worked
}
