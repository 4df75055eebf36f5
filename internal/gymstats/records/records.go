// Package records implements the personal-record engine. It compares the best
// sets of a session against the stored records and writes only strict
// improvements, so replaying a session never lowers or duplicates a record.
package records

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=records_test

type recordsStore interface {
	UpsertPersonalRecords(ctx context.Context, records []gymstats.PersonalRecord) error
}

// Candidate is the best value of one record type within a session.
type Candidate struct {
	Type         gymstats.PRType `json:"type"`
	Value        float64         `json:"value"`
	SetID        uuid.UUID       `json:"setId"`
	BodyweightKg *float64        `json:"bodyweightKg,omitempty"`
}

// ExerciseBests holds the per type candidates of one exercise.
type ExerciseBests struct {
	Exercise gymstats.Exercise
	ByType   map[gymstats.PRType]Candidate
}

// Value of the candidate of the given type, if the session produced one.
func (b ExerciseBests) Value(prType gymstats.PRType) (float64, bool) {
	c, ok := b.ByType[prType]
	if !ok {
		return 0, false
	}
	return c.Value, true
}

// SessionBests groups persisted non warm-up sets by exercise and picks the best
// set per record type. Bodyweight relative types are not produced for
// bodyweight class exercises. Exercises without metadata are judged as loaded
// exercises. Within a session the earliest set wins a tie.
func SessionBests(
	sets []gymstats.SessionSet,
	exercises map[string]gymstats.Exercise,
	bodyweight *float64,
) map[string]ExerciseBests {
	bests := make(map[string]ExerciseBests)
	for _, s := range sets {
		if s.IsWarmup {
			continue
		}
		key := s.Exercise.Key()
		if key == "" {
			continue
		}

		eb, ok := bests[key]
		if !ok {
			ex, found := exercises[key]
			if !found {
				ex = gymstats.Exercise{Ref: s.Exercise}
			}
			eb = ExerciseBests{
				Exercise: ex,
				ByType:   make(map[gymstats.PRType]Candidate),
			}
			bests[key] = eb
		}

		bwClass := eb.Exercise.Type.IsBodyweightClass()
		for _, prType := range gymstats.PRTypes {
			if bwClass && prType.IsBodyweightRelative() {
				continue
			}
			value, ok := setValue(s, prType)
			if !ok {
				continue
			}
			if current, exists := eb.ByType[prType]; exists && value <= current.Value {
				continue
			}
			eb.ByType[prType] = Candidate{
				Type:         prType,
				Value:        value,
				SetID:        s.ID,
				BodyweightKg: bodyweight,
			}
		}
	}
	return bests
}

func setValue(s gymstats.SessionSet, prType gymstats.PRType) (float64, bool) {
	switch prType {
	case gymstats.PRTypeOneRepMax:
		if s.EstimatedOneRM == nil {
			return 0, false
		}
		return *s.EstimatedOneRM, true
	case gymstats.PRTypeMaxReps:
		if s.Reps() <= 0 {
			return 0, false
		}
		return float64(s.Reps()), true
	case gymstats.PRTypeMaxSWR:
		if s.SWR == nil {
			return 0, false
		}
		return *s.SWR, true
	default:
		return 0, false
	}
}

// NewRecord is a record set by this session, with the value it replaced.
type NewRecord struct {
	Record       gymstats.PersonalRecord `json:"record"`
	ExerciseName string                  `json:"exerciseName"`
	OldValue     *float64                `json:"oldValue,omitempty"`
}

type Input struct {
	UserID     uuid.UUID
	SessionID  uuid.UUID
	AchievedAt time.Time
	Bests      map[string]ExerciseBests
	Existing   gymstats.RecordIndex
}

type Engine struct {
	store recordsStore
}

func NewEngine(store recordsStore) *Engine {
	return &Engine{
		store: store,
	}
}

// Candidates returns the records the session improves, ordered by exercise
// key and record type. Nothing is written.
func Candidates(in Input) []NewRecord {
	keys := make([]string, 0, len(in.Bests))
	for k := range in.Bests {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var improved []NewRecord
	for _, key := range keys {
		eb := in.Bests[key]
		for _, prType := range gymstats.PRTypes {
			c, ok := eb.ByType[prType]
			if !ok {
				continue
			}

			var oldValue *float64
			if existing, found := in.Existing.Get(key, prType); found {
				if c.Value <= existing.Value {
					continue
				}
				v := existing.Value
				oldValue = &v
			}

			setID := c.SetID
			improved = append(improved, NewRecord{
				Record: gymstats.PersonalRecord{
					UserID:       in.UserID,
					ExerciseKey:  key,
					Exercise:     eb.Exercise.Ref,
					Type:         prType,
					Value:        c.Value,
					BodyweightKg: c.BodyweightKg,
					SessionSetID: &setID,
					AchievedAt:   in.AchievedAt,
				},
				ExerciseName: eb.Exercise.Name,
				OldValue:     oldValue,
			})
		}
	}
	return improved
}

// Run writes every improved record in a single upsert and returns them.
func (e *Engine) Run(ctx context.Context, in Input) (_ []NewRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "records.engine.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	improved := Candidates(in)
	if len(improved) == 0 {
		return nil, nil
	}

	rows := make([]gymstats.PersonalRecord, 0, len(improved))
	for _, nr := range improved {
		rows = append(rows, nr.Record)
	}
	if err := e.store.UpsertPersonalRecords(ctx, rows); err != nil {
		return nil, fmt.Errorf("upsert personal records: %w", err)
	}

	log.Debugf("records: session %s set %d new personal records", in.SessionID, len(improved))
	return improved, nil
}
