//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/gymstats/session"
	"github.com/2beens/gymstats/pkg"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

type finishFixture struct {
	userID     uuid.UUID
	exerciseID uuid.UUID
	muscleID   uuid.UUID
	token      string
}

func (s *IntegrationTestSuite) seedFinishFixture(ctx context.Context) finishFixture {
	t := s.T()

	f := finishFixture{
		userID:     uuid.New(),
		exerciseID: uuid.New(),
		muscleID:   uuid.New(),
	}
	groupID := uuid.New()
	bronzeID, goldID := uuid.New(), uuid.New()

	statements := []struct {
		sql  string
		args []any
	}{
		{`INSERT INTO profile (user_id, gender, experience_points) VALUES ($1, 'male', 0)`, []any{f.userID}},
		{`INSERT INTO bodyweight_entry (user_id, weight_kg, measured_at) VALUES ($1, 80, $2)`, []any{f.userID, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)}},
		{`INSERT INTO muscle_group (id, name) VALUES ($1, $2)`, []any{groupID, gofakeit.Word()}},
		{`INSERT INTO muscle (id, name, muscle_group_id) VALUES ($1, 'Chest', $2)`, []any{f.muscleID, groupID}},
		{`INSERT INTO exercise (id, name, exercise_type) VALUES ($1, 'Bench Press', 'barbell')`, []any{f.exerciseID}},
		{`INSERT INTO exercise_muscle (exercise_key, muscle_id, intensity) VALUES ($1, $2, 'primary')`, []any{f.exerciseID.String(), f.muscleID}},
		{`INSERT INTO rank (id, name, sort_order) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`, []any{bronzeID, "Bronze-" + gofakeit.LetterN(4), 1}},
		{`INSERT INTO rank (id, name, sort_order) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`, []any{goldID, "Gold-" + gofakeit.LetterN(4), 2}},
		{`INSERT INTO overall_rank_benchmark (gender, rank_id, min_threshold) VALUES ('male', $1, 0), ('male', $2, 1000)`, []any{bronzeID, goldID}},
	}
	for _, st := range statements {
		_, err := s.DB.ExecContext(ctx, st.sql, st.args...)
		s.Require().NoError(err, st.sql)
	}

	token, err := s.authService.Login(ctx, f.userID, time.Now())
	s.Require().NoError(err)
	s.Require().NotEmpty(token)
	f.token = token

	t.Logf("seeded user %s", f.userID)
	return f
}

func (s *IntegrationTestSuite) postFinish(ctx context.Context, token string, req session.FinishRequest) (int, []byte) {
	body, err := json.Marshal(req)
	s.Require().NoError(err)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/gymstats/sessions/finish", serverEndpoint), bytes.NewReader(body))
	s.Require().NoError(err)
	httpReq.Header.Set("User-Agent", "test-agent")
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(httpReq)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) TestFinishSession() {
	ctx := context.Background()
	f := s.seedFinishFixture(ctx)

	req := session.FinishRequest{
		StartedAt: time.Date(2025, 3, 4, 18, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2025, 3, 4, 19, 0, 0, 0, time.UTC),
		Exercises: []session.ExerciseInput{
			{
				ExerciseID: &f.exerciseID,
				Sets: []session.SetInput{
					{ActualReps: pkg.Ptr(10), ActualWeight: pkg.Ptr(40.0), IsWarmup: true},
					{ActualReps: pkg.Ptr(5), ActualWeight: pkg.Ptr(100.0)},
					{ActualReps: pkg.Ptr(5), ActualWeight: pkg.Ptr(100.0)},
				},
			},
		},
	}

	status, _ := s.postFinish(ctx, "", req)
	s.Equal(http.StatusUnauthorized, status)

	status, body := s.postFinish(ctx, f.token, req)
	s.Require().Equal(http.StatusOK, status, string(body))

	var resp session.FinishResponse
	s.Require().NoError(json.Unmarshal(body, &resp))
	s.NotEqual(uuid.Nil, resp.SessionID)
	s.Equal(2, resp.Totals.Sets)
	s.Equal(10, resp.Totals.Reps)
	s.Equal(1000.0, resp.Totals.Volume)
	s.Equal(3600, resp.Totals.DurationSeconds)
	s.Equal(80, resp.XP.Awarded)
	s.Equal(80, resp.XP.NewTotal)
	s.Require().NotNil(resp.BestSet)
	s.Equal(2, resp.BestSet.SetOrder)

	prTypes := map[gymstats.PRType]bool{}
	for _, pr := range resp.PersonalRecords {
		s.Equal(f.exerciseID.String(), pr.ExerciseKey)
		s.Nil(pr.OldValue)
		prTypes[pr.Type] = true
	}
	s.True(prTypes[gymstats.PRTypeOneRepMax])
	s.True(prTypes[gymstats.PRTypeMaxSWR])

	s.Require().Len(resp.MusclesWorked, 1)
	s.Equal(f.muscleID, resp.MusclesWorked[0].MuscleID)
	s.Require().NotNil(resp.OverallRank)
	s.Empty(resp.FailedSets)

	var storedSets, warmups int
	s.Require().NoError(s.DB.QueryRowContext(ctx,
		`SELECT count(*), count(*) FILTER (WHERE is_warmup) FROM session_set WHERE session_id = $1`,
		resp.SessionID,
	).Scan(&storedSets, &warmups))
	s.Equal(3, storedSets)
	s.Equal(1, warmups)

	var lastWorkedAt time.Time
	s.Require().NoError(s.DB.QueryRowContext(ctx,
		`SELECT last_worked_at FROM muscle_last_worked WHERE user_id = $1 AND muscle_id = $2`,
		f.userID, f.muscleID,
	).Scan(&lastWorkedAt))
	s.True(req.EndedAt.Equal(lastWorkedAt), "%v != %v", req.EndedAt, lastWorkedAt)

	// same performance again: no new records, XP still awarded
	req.StartedAt = req.StartedAt.AddDate(0, 0, 2)
	req.EndedAt = req.EndedAt.AddDate(0, 0, 2)
	status, body = s.postFinish(ctx, f.token, req)
	s.Require().Equal(http.StatusOK, status, string(body))

	var second session.FinishResponse
	s.Require().NoError(json.Unmarshal(body, &second))
	s.Empty(second.PersonalRecords)
	s.Equal(160, second.XP.NewTotal)
	s.NotEqual(resp.SessionID, second.SessionID)
}

func (s *IntegrationTestSuite) TestFinishSession_Rejected() {
	ctx := context.Background()
	f := s.seedFinishFixture(ctx)

	status, body := s.postFinish(ctx, f.token, session.FinishRequest{
		StartedAt: time.Date(2025, 3, 4, 18, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2025, 3, 4, 19, 0, 0, 0, time.UTC),
	})
	s.Equal(http.StatusBadRequest, status, string(body))

	unknown := uuid.New()
	status, body = s.postFinish(ctx, f.token, session.FinishRequest{
		StartedAt: time.Date(2025, 3, 4, 18, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2025, 3, 4, 19, 0, 0, 0, time.UTC),
		Exercises: []session.ExerciseInput{
			{ExerciseID: &unknown, Sets: []session.SetInput{{ActualReps: pkg.Ptr(5), ActualWeight: pkg.Ptr(60.0)}}},
		},
	})
	s.Equal(http.StatusBadRequest, status, string(body))

	var count int
	s.Require().NoError(s.DB.QueryRowContext(ctx,
		`SELECT count(*) FROM workout_session WHERE user_id = $1`, f.userID,
	).Scan(&count))
	s.Zero(count)
}

func (s *IntegrationTestSuite) TestHealthAndVersion() {
	for path, want := range map[string]string{
		"/health":  `{"status":"ok"}`,
		"/version": `{"version":"test-version-info"}`,
	} {
		req, err := http.NewRequest(http.MethodGet, serverEndpoint+path, nil)
		s.Require().NoError(err)
		req.Header.Set("User-Agent", "test-agent")

		resp, err := http.DefaultClient.Do(req)
		s.Require().NoError(err)
		body, err := io.ReadAll(resp.Body)
		s.Require().NoError(err)
		s.Require().NoError(resp.Body.Close())

		s.Equal(http.StatusOK, resp.StatusCode)
		s.JSONEq(want, string(body))
	}
}
