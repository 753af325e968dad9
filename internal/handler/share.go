package handler

import (
	"net/http"
	"time"

	"github.com/oathline/oathline/internal/model"
	"github.com/oathline/oathline/internal/scoring"
	"github.com/oathline/oathline/internal/service"
)

// ShareHandler serves the public read-only projection of a locked promise.
// It exposes only the shared milestone itself plus a masked integrity
// signal, never the goal plan, other milestones, or failure history.
type ShareHandler struct {
	milestoneService *service.MilestoneService
	authService      *service.AuthService
}

func NewShareHandler(milestoneService *service.MilestoneService, authService *service.AuthService) *ShareHandler {
	return &ShareHandler{
		milestoneService: milestoneService,
		authService:      authService,
	}
}

type sharedPromiseResponse struct {
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Consequence  *string    `json:"consequence,omitempty"`
	WitnessCount int        `json:"witnessCount"`
	OwnerTier    string     `json:"ownerTier"`
	OwnerScore   int        `json:"ownerScore"` // rounded down to the nearest 10
}

func (h *ShareHandler) Show(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	milestone, err := h.milestoneService.ByShareToken(token)
	if err != nil {
		writeError(w, http.StatusNotFound, "promise not found")
		return
	}

	owner, err := h.authService.ByID(milestone.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sharedPromiseResponse{
		Title:        milestone.Title,
		Status:       milestone.Status,
		Deadline:     milestone.Deadline,
		Consequence:  milestone.Consequence,
		WitnessCount: milestone.WitnessCount,
		OwnerTier:    scoring.Classify(owner.IntegrityScore).String(),
		OwnerScore:   owner.IntegrityScore / 10 * 10,
	})
}

// Witness increments the witness count. Only locked promises accept
// witnesses; score and state never change.
func (h *ShareHandler) Witness(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	milestone, err := h.milestoneService.ByShareToken(token)
	if err != nil {
		writeError(w, http.StatusNotFound, "promise not found")
		return
	}

	if milestone.Status != model.MilestoneStatusLocked {
		writeError(w, http.StatusConflict, "promise is no longer open for witnesses")
		return
	}

	count, err := h.milestoneService.AddWitness(milestone.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		WitnessCount int `json:"witnessCount"`
	}{WitnessCount: count})
}
