package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/gymstats/internal/auth"
	"github.com/2beens/gymstats/internal/gymstats"
	"github.com/2beens/gymstats/internal/telemetry/tracing"
	"github.com/2beens/gymstats/pkg"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=session_test

type finisher interface {
	Finish(ctx context.Context, userID uuid.UUID, req FinishRequest) (*FinishResponse, error)
}

type Handler struct {
	service finisher
}

func NewHandler(service finisher) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.session.finish")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		pkg.WriteJSONError(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req FinishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			pkg.WriteJSONError(w, "finish session payload too large", http.StatusRequestEntityTooLarge)
			return
		}
		log.Errorf("finish session, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid finish session payload", http.StatusBadRequest)
		return
	}

	resp, err := h.service.Finish(ctx, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoSets), errors.Is(err, ErrInvalidExercise), errors.Is(err, ErrInvalidTimes):
			pkg.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, gymstats.ErrInvalidReference):
			pkg.WriteJSONError(w, "session references an unknown entity", http.StatusBadRequest)
		case errors.Is(err, gymstats.ErrSessionNotFound), errors.Is(err, gymstats.ErrProfileNotFound):
			pkg.WriteJSONError(w, err.Error(), http.StatusNotFound)
		default:
			log.Errorf("finish session for user %s: %s", userID, err)
			pkg.WriteJSONError(w, "finish session failed", http.StatusInternalServerError)
		}
		return
	}

	if len(resp.Warnings) > 0 {
		log.WithFields(log.Fields{
			"user_id":    userID,
			"session_id": resp.SessionID,
		}).Warnf("finish session degraded: %v", resp.Warnings)
	}
	log.Debugf("session %s finished: %d sets, %d records, %d rank ups",
		resp.SessionID, resp.Totals.Sets, len(resp.PersonalRecords), resp.RankUps())

	pkg.WriteJSON(w, resp, http.StatusOK)
}
