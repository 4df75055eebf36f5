package session

import (
	"context"
	"time"

	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/gymstats/ranking"

	"github.com/google/uuid"
)

// Store is the relational store as seen by the finish pipeline. Lookups that
// find nothing return nil without an error, except GetProfile which returns
// gymstats.ErrProfileNotFound.
type Store interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*gymstats.Profile, error)
	LatestBodyweight(ctx context.Context, userID uuid.UUID, at time.Time) (*gymstats.BodyweightEntry, error)
	GetExercises(ctx context.Context, userID uuid.UUID, refs []gymstats.ExerciseRef) ([]gymstats.Exercise, error)
	GetMuscleMappings(ctx context.Context, exerciseKeys []string) ([]gymstats.MuscleMapping, error)
	GetMuscles(ctx context.Context) ([]gymstats.Muscle, error)
	GetMuscleGroups(ctx context.Context) ([]gymstats.MuscleGroup, error)
	GetPersonalRecords(ctx context.Context, userID uuid.UUID) ([]gymstats.PersonalRecord, error)
	GetRankRecords(ctx context.Context, userID uuid.UUID) ([]gymstats.RankRecord, error)
	GetActivePlan(ctx context.Context, userID uuid.UUID) (*gymstats.Plan, error)
	GetPlanDayExercises(ctx context.Context, userID, planDayID uuid.UUID) ([]gymstats.PlanDayExercise, error)
	GetPreviousSession(ctx context.Context, userID, planDayID uuid.UUID, before time.Time) (*gymstats.Session, error)

	// SaveSession inserts the session, or updates it when its id is set, and
	// inserts its sets in the same transaction. It returns the session id and
	// the stored sets.
	SaveSession(ctx context.Context, s gymstats.Session, sets []gymstats.SessionSet) (uuid.UUID, []gymstats.SessionSet, error)
	UpdateSessionRankUps(ctx context.Context, userID, sessionID uuid.UUID, muscle, muscleGroup, overall int) error

	UpsertPersonalRecords(ctx context.Context, records []gymstats.PersonalRecord) error
	UpsertRankRecords(ctx context.Context, records []gymstats.RankRecord) error
	UpdatePlanSetTargets(ctx context.Context, userID uuid.UUID, targets gymstats.PlanSetTargets) error
	AddExperiencePoints(ctx context.Context, userID uuid.UUID, award int) (int, error)

	UpsertMuscleLastWorked(ctx context.Context, rows []gymstats.MuscleLastWorked) error
	SetPlanLastCompletedDay(ctx context.Context, userID, planID, planDayID uuid.UUID) error
	PlanCycleCompleted(ctx context.Context, userID uuid.UUID, plan gymstats.Plan) (bool, error)
	RollPlanCycle(ctx context.Context, userID, planID uuid.UUID, newStart time.Time) error
}

// BenchmarkSource provides the static benchmark tables.
type BenchmarkSource interface {
	Benchmarks(ctx context.Context) (ranking.Benchmarks, error)
}
