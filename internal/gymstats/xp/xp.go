// Package xp awards experience points for a finished session and derives the
// user level from a fixed threshold table.
package xp

import (
	"context"
	"fmt"

	"github.com/2beens/gymstats/internal/telemetry/tracing"

	"github.com/google/uuid"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=xp_test

const DefaultSessionAward = 50

// LevelThresholds[n] is the total needed to reach level n+1.
var LevelThresholds = []int{
	0, 100, 250, 450, 700, 1000, 1400, 1900,
	2500, 3200, 4000, 4900, 5900, 7000, 8200, 9500,
}

type profileStore interface {
	// AddExperiencePoints atomically adds the award and returns the new total.
	AddExperiencePoints(ctx context.Context, userID uuid.UUID, award int) (int, error)
}

// LevelFor returns the 1-based level for a total.
func LevelFor(total int) int {
	level := 1
	for i, threshold := range LevelThresholds {
		if total >= threshold {
			level = i + 1
		}
	}
	return level
}

// XPToNextLevel is 0 at the last level.
func XPToNextLevel(total int) int {
	level := LevelFor(total)
	if level >= len(LevelThresholds) {
		return 0
	}
	return LevelThresholds[level] - total
}

type Result struct {
	Awarded       int  `json:"awarded"`
	NewTotal      int  `json:"newTotal"`
	LeveledUp     bool `json:"leveledUp"`
	Level         int  `json:"level"`
	XPToNextLevel int  `json:"xpToNextLevel"`
}

type Engine struct {
	store profileStore
	award int
}

// NewEngine creates the engine. A non positive award means DefaultSessionAward.
func NewEngine(store profileStore, award int) *Engine {
	if award <= 0 {
		award = DefaultSessionAward
	}
	return &Engine{
		store: store,
		award: award,
	}
}

func (e *Engine) Award() int {
	return e.award
}

// Run awards the session XP. When the write fails the result still reports the
// attempted award on top of the old total, without a level up, next to the error.
func (e *Engine) Run(ctx context.Context, userID uuid.UUID, oldTotal int) (_ Result, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "xp.engine.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	newTotal, err := e.store.AddExperiencePoints(ctx, userID, e.award)
	if err != nil {
		attempted := oldTotal + e.award
		return Result{
			Awarded:       e.award,
			NewTotal:      attempted,
			Level:         LevelFor(oldTotal),
			XPToNextLevel: XPToNextLevel(oldTotal),
		}, fmt.Errorf("add experience points: %w", err)
	}

	// the stored total may have moved since the profile was read
	previous := newTotal - e.award
	return Result{
		Awarded:       e.award,
		NewTotal:      newTotal,
		LeveledUp:     LevelFor(newTotal) > LevelFor(previous),
		Level:         LevelFor(newTotal),
		XPToNextLevel: XPToNextLevel(newTotal),
	}, nil
}
