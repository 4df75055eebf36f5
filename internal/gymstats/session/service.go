// Package session finishes a logged session: it reads the reference data,
// stores the session with its sets, then updates records, ranks, plan
// targets, experience points and freshness state, and composes the summary.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/gymstats/progression"
	"github.com/2beens/gymstats/internal/gymstats/ranking"
	"github.com/2beens/gymstats/internal/gymstats/records"
	"github.com/2beens/gymstats/internal/gymstats/xp"
	"github.com/2beens/gymstats/internal/telemetry/metrics"
	"github.com/2beens/gymstats/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const (
	outcomeOK       = "ok"
	outcomeDegraded = "degraded"
	outcomeFailed   = "failed"
	outcomeRejected = "rejected"
)

type Service struct {
	store       Store
	benchmarks  BenchmarkSource
	records     *records.Engine
	ranking     *ranking.Engine
	progression *progression.Engine
	xp          *xp.Engine
	metrics     *metrics.Manager
	now         func() time.Time
}

type NewServiceParams struct {
	Store      Store
	Benchmarks BenchmarkSource
	// XPAward per session, DefaultSessionAward when not positive
	XPAward int
	// GenderPolicy selects the benchmark partition, MaleFallback when nil
	GenderPolicy   ranking.GenderPolicy
	MetricsManager *metrics.Manager
}

func NewService(params NewServiceParams) *Service {
	return &Service{
		store:       params.Store,
		benchmarks:  params.Benchmarks,
		records:     records.NewEngine(params.Store),
		ranking:     ranking.NewEngine(params.Store, params.GenderPolicy),
		progression: progression.NewEngine(params.Store),
		xp:          xp.NewEngine(params.Store, params.XPAward),
		metrics:     params.MetricsManager,
		now:         time.Now,
	}
}

// outputs of the components that run after the session is stored
type outputs struct {
	records        []records.NewRecord
	ranks          *ranking.Result
	progressions   []progression.Change
	xp             xp.Result
	cycleCompleted bool
}

// Finish runs the completion pipeline. An error is returned only when the
// profile cannot be read or the session cannot be stored; failures of the
// later components are reported as warnings in the response.
func (s *Service) Finish(ctx context.Context, userID uuid.UUID, req FinishRequest) (_ *FinishResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.service.finish")
	span.SetAttributes(attribute.String("user.id", userID.String()))
	begin := time.Now()
	deg := &degradations{
		userID:  userID,
		metrics: s.metrics,
	}
	defer func() {
		s.observe(begin, err, deg)
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	data, err := s.aggregate(ctx, userID, req, deg)
	if err != nil {
		return nil, err
	}

	p := prepare(userID, req, data)
	sessionID, stored, err := s.store.SaveSession(ctx, p.session, p.sets)
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	deg.setSession(sessionID)
	span.SetAttributes(attribute.String("session.id", sessionID.String()))

	bests := records.SessionBests(stored, data.exercises, data.bodyweight)
	out := &outputs{}

	// the components below write disjoint tables and only log their failures
	var g errgroup.Group
	g.Go(func() error {
		newRecords, err := s.records.Run(ctx, records.Input{
			UserID:     userID,
			SessionID:  sessionID,
			AchievedAt: req.EndedAt,
			Bests:      bests,
			Existing:   data.records,
		})
		if err != nil {
			deg.fail("personal_records", err)
			return nil
		}
		out.records = newRecords
		return nil
	})
	g.Go(func() error {
		out.ranks = s.runRanking(ctx, userID, sessionID, data, bests, deg)
		return nil
	})
	if req.PlanDayID != nil && len(data.planExercises) > 0 {
		g.Go(func() error {
			changes, err := s.progression.Run(ctx, progression.Input{
				UserID:        userID,
				SessionID:     sessionID,
				Exercises:     data.exercises,
				PlanExercises: data.planExercises,
				Outcomes:      p.outcomes,
			})
			if err != nil {
				deg.fail("progression", err)
			}
			out.progressions = changes
			return nil
		})
	}
	g.Go(func() error {
		result, err := s.xp.Run(ctx, userID, data.profile.ExperiencePoints)
		if err != nil {
			deg.fail("xp", err)
		}
		out.xp = result
		return nil
	})
	g.Go(func() error {
		if err := s.updateMuscleLastWorked(ctx, userID, req.EndedAt, p.musclesWorked); err != nil {
			deg.fail("muscle_last_worked", err)
		}
		return nil
	})
	if data.plan != nil && req.PlanDayID != nil {
		g.Go(func() error {
			out.cycleCompleted = s.updatePlan(ctx, userID, *data.plan, *req.PlanDayID, req.EndedAt, deg)
			return nil
		})
	}
	_ = g.Wait()
	s.countOutputs(out)

	return compose(sessionID, p, data, out, deg), nil
}

// runRanking recomputes all rank levels and writes the rank up counters back
// onto the session.
func (s *Service) runRanking(
	ctx context.Context,
	userID, sessionID uuid.UUID,
	data *refData,
	bests map[string]records.ExerciseBests,
	deg *degradations,
) *ranking.Result {
	if !data.rankingReady {
		deg.fail("ranking", fmt.Errorf("ranking inputs not loaded: %s", strings.Join(data.rankingMissing, ", ")))
		return nil
	}

	result, err := s.ranking.Run(ctx, ranking.Input{
		UserID:       userID,
		SessionID:    sessionID,
		Gender:       data.profile.Gender,
		CalculatedAt: s.now(),
		Exercises:    data.exercises,
		Mappings:     data.mappings,
		Muscles:      data.muscles,
		Groups:       data.groups,
		Stored:       data.records,
		Bests:        bests,
		Benchmarks:   data.benchmarks,
		Current:      data.ranks,
	})
	if err != nil {
		deg.fail("ranking", err)
		return nil
	}

	if result.MuscleRankUps+result.MuscleGroupRankUps+result.OverallRankUps == 0 {
		return result
	}
	if err := s.store.UpdateSessionRankUps(
		ctx,
		userID,
		sessionID,
		result.MuscleRankUps,
		result.MuscleGroupRankUps,
		result.OverallRankUps,
	); err != nil {
		deg.fail("session_rank_ups", err)
	}
	return result
}

func (s *Service) observe(begin time.Time, err error, deg *degradations) {
	if s.metrics == nil {
		return
	}
	outcome := outcomeOK
	switch {
	case errors.Is(err, ErrNoSets), errors.Is(err, ErrInvalidExercise), errors.Is(err, ErrInvalidTimes):
		outcome = outcomeRejected
	case err != nil:
		outcome = outcomeFailed
	case deg.failed():
		outcome = outcomeDegraded
	}
	s.metrics.CounterSessionsFinished.WithLabelValues(outcome).Inc()
	s.metrics.HistFinishDuration.Observe(time.Since(begin).Seconds())
}

func (s *Service) countOutputs(out *outputs) {
	if s.metrics == nil {
		return
	}
	s.metrics.CounterPersonalRecords.Add(float64(len(out.records)))
	s.metrics.CounterProgressions.Add(float64(len(out.progressions)))
	if out.ranks == nil {
		return
	}
	for _, c := range out.ranks.Changes {
		if c.Up {
			s.metrics.CounterRankUps.WithLabelValues(c.Level.String()).Inc()
		}
	}
}

// degradations collects the non fatal component failures of one call.
type degradations struct {
	userID  uuid.UUID
	metrics *metrics.Manager

	mu         sync.Mutex
	sessionID  uuid.UUID
	components []string
	err        error
}

func (d *degradations) setSession(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sessionID = id
}

// warn records a failed read.
func (d *degradations) warn(component string, err error) {
	d.add(component, err).Warnf("finish session: %s", err)
}

// fail records a failed write.
func (d *degradations) fail(component string, err error) {
	d.add(component, err).Errorf("finish session: %s", err)
}

func (d *degradations) add(component string, err error) *log.Entry {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.components = append(d.components, component)
	d.err = multierr.Append(d.err, fmt.Errorf("%s: %w", component, err))
	if d.metrics != nil {
		d.metrics.CounterDegradedComponents.WithLabelValues(component).Inc()
	}

	fields := log.Fields{
		"user_id":   d.userID,
		"component": component,
	}
	if d.sessionID != uuid.Nil {
		fields["session_id"] = d.sessionID
	}
	return log.WithFields(fields)
}

func (d *degradations) failed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err != nil
}

// warnings returns the degraded component names, sorted.
func (d *degradations) warnings() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	warnings := make([]string, len(d.components))
	copy(warnings, d.components)
	sort.Strings(warnings)
	return warnings
}

// RankUps sums the rank ups of a response, used for logging.
func (r *FinishResponse) RankUps() int {
	ups := 0
	for _, c := range r.RankChanges {
		if c.Up && c.Level != gymstats.RankLevelExercise {
			ups++
		}
	}
	return ups
}
