package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/oathline/oathline/internal/repository"
	"github.com/oathline/oathline/internal/service"
	"github.com/oathline/oathline/internal/validation"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps service errors to HTTP statuses. Invariant and
// temporal violations are conflicts: the operation did not happen and state
// is unchanged. Unknown errors become a generic retry-oriented 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var invalid validation.Error

	switch {
	case errors.As(err, &invalid):
		writeError(w, http.StatusUnprocessableEntity, invalid.Error())
	case errors.Is(err, service.ErrInvalidDate):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, repository.ErrGoalNotFound),
		errors.Is(err, repository.ErrMilestoneNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, service.ErrNoActiveGoal):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrMilestoneImmutable),
		errors.Is(err, service.ErrPromiseLocked),
		errors.Is(err, service.ErrNotLocked),
		errors.Is(err, service.ErrDeadlinePassed),
		errors.Is(err, service.ErrActivePromise),
		errors.Is(err, service.ErrUnresolvedMilestones),
		errors.Is(err, repository.ErrScoreConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "something went wrong, please try again")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
