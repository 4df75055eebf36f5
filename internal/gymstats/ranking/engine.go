// Package ranking assigns strength ranks at exercise, muscle, muscle group and
// overall level. One threshold algorithm serves all four levels, applied to
// gender partitioned benchmark tables.
package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/gymstats/records"
	"github.com/2beens/gymstats/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=ranking_test

type ranksStore interface {
	UpsertRankRecords(ctx context.Context, records []gymstats.RankRecord) error
}

type Input struct {
	UserID       uuid.UUID
	SessionID    uuid.UUID
	Gender       gymstats.Gender
	CalculatedAt time.Time
	// Exercises holds metadata of the session exercises and of every other
	// exercise the user holds a record for.
	Exercises  map[string]gymstats.Exercise
	Mappings   []gymstats.MuscleMapping
	Muscles    map[uuid.UUID]gymstats.Muscle
	Groups     map[uuid.UUID]gymstats.MuscleGroup
	Stored     gymstats.RecordIndex
	Bests      map[string]records.ExerciseBests
	Benchmarks Benchmarks
	Current    map[gymstats.RankKey]gymstats.RankRecord
}

// Change is a rank that moved in this session.
type Change struct {
	Level      gymstats.RankLevel `json:"level"`
	TargetID   string             `json:"targetId"`
	TargetName string             `json:"targetName"`
	OldRank    *gymstats.Rank     `json:"oldRank,omitempty"`
	NewRank    gymstats.Rank      `json:"newRank"`
	Up         bool               `json:"up"`
}

type Progress struct {
	TargetID      string         `json:"targetId"`
	TargetName    string         `json:"targetName"`
	InitialScore  *float64       `json:"initialScore,omitempty"`
	FinalScore    float64        `json:"finalScore"`
	CurrentRank   *gymstats.Rank `json:"currentRank,omitempty"`
	NextRank      *gymstats.Rank `json:"nextRank,omitempty"`
	PercentToNext float64        `json:"percentToNext"`
}

type Result struct {
	Changes            []Change              `json:"changes"`
	MuscleRankUps      int                   `json:"muscleRankUps"`
	MuscleGroupRankUps int                   `json:"muscleGroupRankUps"`
	OverallRankUps     int                   `json:"overallRankUps"`
	Overall            *Progress             `json:"overall,omitempty"`
	MuscleGroups       []Progress            `json:"muscleGroups"`
	Records            []gymstats.RankRecord `json:"-"`
}

type Engine struct {
	store  ranksStore
	policy GenderPolicy
}

// NewEngine creates the ranking engine. A nil policy means MaleFallback.
func NewEngine(store ranksStore, policy GenderPolicy) *Engine {
	if policy == nil {
		policy = MaleFallback
	}
	return &Engine{
		store:  store,
		policy: policy,
	}
}

// Compute recomputes scores and ranks without writing them.
func (e *Engine) Compute(in Input) *Result {
	gender := e.policy(in.Gender)
	sc := scorer{
		exercises: in.Exercises,
		stored:    in.Stored,
		bests:     in.Bests,
	}
	c := computation{
		in:     in,
		gender: gender,
		result: &Result{},
	}

	touched := sortedKeys(in.Bests)
	for _, key := range touched {
		score, ok := sc.exerciseScore(key)
		if !ok {
			continue
		}
		c.evaluate(gymstats.RankLevelExercise, key, exerciseName(in, key), score)
	}

	agg := sc.aggregate(in.Mappings, in.Muscles)
	touchedMuscles, touchedGroups := touchedTargets(in, touched)

	for _, muscleID := range touchedMuscles {
		score, ok := agg.muscles[muscleID]
		if !ok {
			continue
		}
		c.evaluate(gymstats.RankLevelMuscle, muscleID.String(), in.Muscles[muscleID].Name, score)
	}

	for _, groupID := range touchedGroups {
		score, ok := agg.groups[groupID]
		if !ok {
			continue
		}
		p := c.evaluate(gymstats.RankLevelMuscleGroup, groupID.String(), in.Groups[groupID].Name, score)
		c.result.MuscleGroups = append(c.result.MuscleGroups, p)
	}

	if agg.overall != nil {
		p := c.evaluate(gymstats.RankLevelOverall, "", "overall", *agg.overall)
		c.result.Overall = &p
	}

	return c.result
}

// Run computes all four levels and upserts them in one batch.
func (e *Engine) Run(ctx context.Context, in Input) (_ *Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ranking.engine.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	result := e.Compute(in)
	if len(result.Records) == 0 {
		return result, nil
	}
	if err := e.store.UpsertRankRecords(ctx, result.Records); err != nil {
		return nil, fmt.Errorf("upsert rank records: %w", err)
	}
	return result, nil
}

type computation struct {
	in     Input
	gender gymstats.Gender
	result *Result
}

// evaluate assigns the rank of one target, records a change against the stored
// rank and queues the rank record for the upsert.
func (c *computation) evaluate(level gymstats.RankLevel, targetID, name string, score float64) Progress {
	record := gymstats.RankRecord{
		Level:            level,
		UserID:           c.in.UserID,
		TargetID:         targetID,
		StrengthScore:    score,
		LastCalculatedAt: c.in.CalculatedAt,
	}
	progress := Progress{
		TargetID:   targetID,
		TargetName: name,
		FinalScore: score,
	}

	previous, hadPrevious := c.in.Current[record.Key()]
	if hadPrevious {
		initial := previous.StrengthScore
		progress.InitialScore = &initial
	}

	table, ok := c.in.Benchmarks.Table(level, targetID, c.gender)
	if !ok {
		log.WithFields(log.Fields{
			"user_id":   c.in.UserID,
			"level":     level,
			"target_id": targetID,
			"gender":    c.gender,
		}).Warn("ranking: no benchmark table, rank left empty")
		c.result.Records = append(c.result.Records, record)
		return progress
	}

	current, next, percent, _ := table.Progress(score)
	rank := current.Rank
	record.RankID = &rank.ID
	progress.CurrentRank = &rank
	progress.PercentToNext = percent
	if next != nil {
		nextRank := next.Rank
		progress.NextRank = &nextRank
	}
	c.result.Records = append(c.result.Records, record)

	var oldRankID *uuid.UUID
	if hadPrevious {
		oldRankID = previous.RankID
	}
	oldPos, newPos := table.Position(oldRankID), table.Position(&rank.ID)
	if oldPos == newPos {
		return progress
	}

	change := Change{
		Level:      level,
		TargetID:   targetID,
		TargetName: name,
		NewRank:    rank,
		// an unknown old rank counts as the lowest one
		Up: newPos > max(oldPos, 0),
	}
	if oldRankID != nil {
		old := rankFromTable(table, *oldRankID)
		change.OldRank = &old
	}
	c.result.Changes = append(c.result.Changes, change)

	if change.Up {
		switch level {
		case gymstats.RankLevelMuscle:
			c.result.MuscleRankUps++
		case gymstats.RankLevelMuscleGroup:
			c.result.MuscleGroupRankUps++
		case gymstats.RankLevelOverall:
			c.result.OverallRankUps++
		}
	}
	return progress
}

func rankFromTable(t Table, id uuid.UUID) gymstats.Rank {
	if i := t.index(id); i >= 0 {
		return t[i].Rank
	}
	return gymstats.Rank{ID: id}
}

func exerciseName(in Input, key string) string {
	if ex, ok := in.Exercises[key]; ok {
		return ex.Name
	}
	return in.Bests[key].Exercise.Name
}

// touchedTargets lists the muscles mapped with primary intensity to a session
// exercise, and their groups, in a stable order.
func touchedTargets(in Input, touched []string) ([]uuid.UUID, []uuid.UUID) {
	inSession := make(map[string]struct{}, len(touched))
	for _, key := range touched {
		inSession[key] = struct{}{}
	}

	muscleSet := make(map[uuid.UUID]struct{})
	groupSet := make(map[uuid.UUID]struct{})
	for _, m := range in.Mappings {
		if m.Intensity != gymstats.IntensityPrimary {
			continue
		}
		if _, ok := inSession[m.ExerciseKey]; !ok {
			continue
		}
		muscleSet[m.MuscleID] = struct{}{}
		if muscle, ok := in.Muscles[m.MuscleID]; ok {
			groupSet[muscle.MuscleGroupID] = struct{}{}
		}
	}
	return sortedIDs(muscleSet), sortedIDs(groupSet)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedIDs(set map[uuid.UUID]struct{}) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}
