package session_test

import (
	"context"
	"sync"
	"time"

	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/gymstats/ranking"

	"github.com/google/uuid"
)

// memStore is an in-memory store. Upserts are applied, so a second finish call
// sees the records and ranks written by the first one.
type memStore struct {
	mu sync.Mutex

	profiles      map[uuid.UUID]*gymstats.Profile
	bodyweight    *gymstats.BodyweightEntry
	exercises     map[string]gymstats.Exercise
	mappings      []gymstats.MuscleMapping
	muscles       []gymstats.Muscle
	groups        []gymstats.MuscleGroup
	records       map[string]gymstats.PersonalRecord
	ranks         map[gymstats.RankKey]gymstats.RankRecord
	plan          *gymstats.Plan
	planExercises []gymstats.PlanDayExercise
	previous      *gymstats.Session
	cycleDone     bool

	sessions    map[uuid.UUID]gymstats.Session
	sets        []gymstats.SessionSet
	rankUps     [3]int
	lastWorked  map[uuid.UUID]time.Time
	targets     map[uuid.UUID]gymstats.PlanSetTargets
	lastDay     *uuid.UUID
	cycleRolled *time.Time

	// errs fails the named method
	errs map[string]error
}

func newMemStore() *memStore {
	return &memStore{
		profiles:   make(map[uuid.UUID]*gymstats.Profile),
		exercises:  make(map[string]gymstats.Exercise),
		records:    make(map[string]gymstats.PersonalRecord),
		ranks:      make(map[gymstats.RankKey]gymstats.RankRecord),
		sessions:   make(map[uuid.UUID]gymstats.Session),
		lastWorked: make(map[uuid.UUID]time.Time),
		targets:    make(map[uuid.UUID]gymstats.PlanSetTargets),
		errs:       make(map[string]error),
	}
}

func (m *memStore) fail(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errs[method]
}

func recordKey(r gymstats.PersonalRecord) string {
	return r.ExerciseKey + "|" + string(r.Type)
}

func (m *memStore) GetProfile(_ context.Context, userID uuid.UUID) (*gymstats.Profile, error) {
	if err := m.fail("GetProfile"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, gymstats.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) LatestBodyweight(context.Context, uuid.UUID, time.Time) (*gymstats.BodyweightEntry, error) {
	if err := m.fail("LatestBodyweight"); err != nil {
		return nil, err
	}
	return m.bodyweight, nil
}

func (m *memStore) GetExercises(_ context.Context, _ uuid.UUID, refs []gymstats.ExerciseRef) ([]gymstats.Exercise, error) {
	if err := m.fail("GetExercises"); err != nil {
		return nil, err
	}
	var exercises []gymstats.Exercise
	for _, ref := range refs {
		if ex, ok := m.exercises[ref.Key()]; ok {
			exercises = append(exercises, ex)
		}
	}
	return exercises, nil
}

func (m *memStore) GetMuscleMappings(_ context.Context, keys []string) ([]gymstats.MuscleMapping, error) {
	if err := m.fail("GetMuscleMappings"); err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}
	var mappings []gymstats.MuscleMapping
	for _, mm := range m.mappings {
		if wanted[mm.ExerciseKey] {
			mappings = append(mappings, mm)
		}
	}
	return mappings, nil
}

func (m *memStore) GetMuscles(context.Context) ([]gymstats.Muscle, error) {
	return m.muscles, m.fail("GetMuscles")
}

func (m *memStore) GetMuscleGroups(context.Context) ([]gymstats.MuscleGroup, error) {
	return m.groups, m.fail("GetMuscleGroups")
}

func (m *memStore) GetPersonalRecords(context.Context, uuid.UUID) ([]gymstats.PersonalRecord, error) {
	if err := m.fail("GetPersonalRecords"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var prs []gymstats.PersonalRecord
	for _, r := range m.records {
		prs = append(prs, r)
	}
	return prs, nil
}

func (m *memStore) GetRankRecords(context.Context, uuid.UUID) ([]gymstats.RankRecord, error) {
	if err := m.fail("GetRankRecords"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var rows []gymstats.RankRecord
	for _, r := range m.ranks {
		rows = append(rows, r)
	}
	return rows, nil
}

func (m *memStore) GetActivePlan(context.Context, uuid.UUID) (*gymstats.Plan, error) {
	return m.plan, m.fail("GetActivePlan")
}

func (m *memStore) GetPlanDayExercises(context.Context, uuid.UUID, uuid.UUID) ([]gymstats.PlanDayExercise, error) {
	return m.planExercises, m.fail("GetPlanDayExercises")
}

func (m *memStore) GetPreviousSession(context.Context, uuid.UUID, uuid.UUID, time.Time) (*gymstats.Session, error) {
	return m.previous, m.fail("GetPreviousSession")
}

func (m *memStore) SaveSession(_ context.Context, s gymstats.Session, sets []gymstats.SessionSet) (uuid.UUID, []gymstats.SessionSet, error) {
	if err := m.fail("SaveSession"); err != nil {
		return uuid.Nil, nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	} else if _, ok := m.sessions[s.ID]; !ok {
		return uuid.Nil, nil, gymstats.ErrSessionNotFound
	}
	m.sessions[s.ID] = s

	stored := make([]gymstats.SessionSet, 0, len(sets))
	for _, set := range sets {
		set.ID = uuid.New()
		set.SessionID = s.ID
		stored = append(stored, set)
	}
	m.sets = append(m.sets, stored...)
	return s.ID, stored, nil
}

func (m *memStore) UpdateSessionRankUps(_ context.Context, _, sessionID uuid.UUID, muscle, muscleGroup, overall int) error {
	if err := m.fail("UpdateSessionRankUps"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rankUps = [3]int{muscle, muscleGroup, overall}
	s := m.sessions[sessionID]
	s.MuscleRankUps, s.MuscleGroupRankUps, s.OverallRankUps = muscle, muscleGroup, overall
	m.sessions[sessionID] = s
	return nil
}

func (m *memStore) UpsertPersonalRecords(_ context.Context, records []gymstats.PersonalRecord) error {
	if err := m.fail("UpsertPersonalRecords"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// like the postgres upsert, a stored value is never lowered
	for _, r := range records {
		if stored, ok := m.records[recordKey(r)]; ok && stored.Value >= r.Value {
			continue
		}
		m.records[recordKey(r)] = r
	}
	return nil
}

func (m *memStore) UpsertRankRecords(_ context.Context, records []gymstats.RankRecord) error {
	if err := m.fail("UpsertRankRecords"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		m.ranks[r.Key()] = r
	}
	return nil
}

func (m *memStore) UpdatePlanSetTargets(_ context.Context, _ uuid.UUID, targets gymstats.PlanSetTargets) error {
	if err := m.fail("UpdatePlanSetTargets"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.targets[targets.PlanSetID] = targets
	return nil
}

func (m *memStore) AddExperiencePoints(_ context.Context, userID uuid.UUID, award int) (int, error) {
	if err := m.fail("AddExperiencePoints"); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.profiles[userID]
	p.ExperiencePoints += award
	return p.ExperiencePoints, nil
}

func (m *memStore) UpsertMuscleLastWorked(_ context.Context, rows []gymstats.MuscleLastWorked) error {
	if err := m.fail("UpsertMuscleLastWorked"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rows {
		m.lastWorked[r.MuscleID] = r.LastWorkedAt
	}
	return nil
}

func (m *memStore) SetPlanLastCompletedDay(_ context.Context, _, _, planDayID uuid.UUID) error {
	if err := m.fail("SetPlanLastCompletedDay"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastDay = &planDayID
	return nil
}

func (m *memStore) PlanCycleCompleted(context.Context, uuid.UUID, gymstats.Plan) (bool, error) {
	return m.cycleDone, m.fail("PlanCycleCompleted")
}

func (m *memStore) RollPlanCycle(_ context.Context, _, _ uuid.UUID, newStart time.Time) error {
	if err := m.fail("RollPlanCycle"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cycleRolled = &newStart
	return nil
}

type staticBenchmarks struct {
	benchmarks ranking.Benchmarks
	err        error
}

func (b staticBenchmarks) Benchmarks(context.Context) (ranking.Benchmarks, error) {
	return b.benchmarks, b.err
}
