package session

import (
	"github.com/2beens/gymstats/internal/gymstats/progression"
	"github.com/2beens/gymstats/internal/gymstats/ranking"

	"github.com/google/uuid"
)

// compose merges the component outputs into the summary. Sections of failed
// components stay empty, never nil, so clients can always range over them.
func compose(sessionID uuid.UUID, p *prepared, data *refData, out *outputs, deg *degradations) *FinishResponse {
	resp := &FinishResponse{
		SessionID:          sessionID,
		Totals:             p.totals,
		BestSet:            p.bestSet,
		XP:                 out.xp,
		PersonalRecords:    []PersonalRecord{},
		MusclesWorked:      p.musclesWorked,
		RankChanges:        []ranking.Change{},
		MuscleGroupRanks:   []ranking.Progress{},
		FailedSets:         p.failedSets,
		PlanProgressions:   out.progressions,
		PlanCycleCompleted: out.cycleCompleted,
		Warnings:           deg.warnings(),
	}

	if data.previous != nil {
		deltas := p.totals.Sub(Totals{
			Sets:            data.previous.TotalSets,
			Reps:            data.previous.TotalReps,
			Volume:          data.previous.TotalVolume,
			DurationSeconds: data.previous.DurationSeconds,
		})
		resp.Deltas = &deltas
	}

	for _, nr := range out.records {
		resp.PersonalRecords = append(resp.PersonalRecords, PersonalRecord{
			ExerciseKey:  nr.Record.ExerciseKey,
			ExerciseName: nr.ExerciseName,
			Type:         nr.Record.Type,
			OldValue:     nr.OldValue,
			NewValue:     nr.Record.Value,
		})
	}

	if out.ranks != nil {
		if out.ranks.Changes != nil {
			resp.RankChanges = out.ranks.Changes
		}
		resp.OverallRank = out.ranks.Overall
		if out.ranks.MuscleGroups != nil {
			resp.MuscleGroupRanks = out.ranks.MuscleGroups
		}
	}

	if resp.MusclesWorked == nil {
		resp.MusclesWorked = []MuscleWorked{}
	}
	if resp.FailedSets == nil {
		resp.FailedSets = []FailedSets{}
	}
	if resp.PlanProgressions == nil {
		resp.PlanProgressions = []progression.Change{}
	}
	return resp
}
