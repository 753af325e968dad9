package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/oathline/oathline/internal/ctxkeys"
	"github.com/oathline/oathline/internal/service"
)

type IntegrityHandler struct {
	integrityService *service.IntegrityService
}

func NewIntegrityHandler(integrityService *service.IntegrityService) *IntegrityHandler {
	return &IntegrityHandler{
		integrityService: integrityService,
	}
}

type integrityRecordResponse struct {
	ID            string    `json:"id"`
	PreviousScore int       `json:"previousScore"`
	NewScore      int       `json:"newScore"`
	Change        int       `json:"change"`
	Reason        string    `json:"reason"`
	FailureStreak int       `json:"failureStreak"`
	MilestoneID   *string   `json:"milestoneId,omitempty"`
	GoalID        *string   `json:"goalId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (h *IntegrityHandler) History(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.integrityService.History(user.ID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]integrityRecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, integrityRecordResponse{
			ID:            rec.ID,
			PreviousScore: rec.PreviousScore,
			NewScore:      rec.NewScore,
			Change:        rec.Change,
			Reason:        rec.Reason,
			FailureStreak: rec.FailureStreak,
			MilestoneID:   rec.MilestoneID,
			GoalID:        rec.GoalID,
			CreatedAt:     rec.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, out)
}
