package handler

import (
	"net/http"
	"time"

	"github.com/oathline/oathline/internal/ctxkeys"
	"github.com/oathline/oathline/internal/service"
)

type MilestoneHandler struct {
	milestoneService *service.MilestoneService
}

func NewMilestoneHandler(milestoneService *service.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{
		milestoneService: milestoneService,
	}
}

func (h *MilestoneHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req struct {
		Title string `json:"title"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	milestone, err := h.milestoneService.Create(user.ID, req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newMilestoneResponse(milestone))
}

func (h *MilestoneHandler) Rename(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	milestoneID := r.PathValue("id")

	var req struct {
		Title string `json:"title"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.milestoneService.Rename(user.ID, milestoneID, req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MilestoneHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	milestoneID := r.PathValue("id")

	err := h.milestoneService.Delete(user.ID, milestoneID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MilestoneHandler) Lock(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	milestoneID := r.PathValue("id")

	var req struct {
		PromiseText string    `json:"promiseText"`
		Deadline    time.Time `json:"deadline"`
		Consequence string    `json:"consequence"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Deadline.IsZero() {
		writeError(w, http.StatusUnprocessableEntity, "deadline is required")
		return
	}

	milestone, err := h.milestoneService.Lock(user.ID, milestoneID, req.PromiseText, req.Deadline, req.Consequence)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newMilestoneResponse(milestone))
}

func (h *MilestoneHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	milestoneID := r.PathValue("id")

	var req struct {
		Force bool `json:"force"`
	}
	// Body is optional for complete; force defaults to false.
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	result, err := h.milestoneService.Complete(user.ID, milestoneID, req.Force)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		User       userResponse        `json:"user"`
		TierChange *tierChangeResponse `json:"tierChange,omitempty"`
	}{
		User:       newUserResponse(result.User),
		TierChange: newTierChangeResponse(result.TierChange),
	})
}

func (h *MilestoneHandler) Break(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	milestoneID := r.PathValue("id")

	var req struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.milestoneService.Break(user.ID, milestoneID, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		User       userResponse        `json:"user"`
		TierChange *tierChangeResponse `json:"tierChange,omitempty"`
	}{
		User:       newUserResponse(result.User),
		TierChange: newTierChangeResponse(result.TierChange),
	})
}
