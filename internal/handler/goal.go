package handler

import (
	"errors"
	"net/http"

	"github.com/oathline/oathline/internal/ctxkeys"
	"github.com/oathline/oathline/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		Title string `json:"title"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	goal, err := h.goalService.Create(user.ID, req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newGoalResponse(goal))
}

func (h *GoalHandler) Active(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, milestones, err := h.goalService.Active(user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveGoal) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Goal       goalResponse        `json:"goal"`
		Milestones []milestoneResponse `json:"milestones"`
	}{
		Goal:       newGoalResponse(goal),
		Milestones: newMilestoneResponses(milestones),
	})
}

func (h *GoalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		Reflection string `json:"reflection"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	goal, result, err := h.goalService.Complete(user.ID, req.Reflection)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Goal       goalResponse        `json:"goal"`
		User       userResponse        `json:"user"`
		TierChange *tierChangeResponse `json:"tierChange,omitempty"`
	}{
		Goal:       newGoalResponse(goal),
		User:       newUserResponse(result.User),
		TierChange: newTierChangeResponse(result.TierChange),
	})
}

func (h *GoalHandler) History(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goals, err := h.goalService.Completed(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, newGoalResponse(g))
	}

	writeJSON(w, http.StatusOK, out)
}
