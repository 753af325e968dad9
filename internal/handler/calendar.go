package handler

import (
	"net/http"
	"time"

	"github.com/oathline/oathline/internal/ctxkeys"
	"github.com/oathline/oathline/internal/model"
	"github.com/oathline/oathline/internal/service"
)

type CalendarHandler struct {
	calendarService *service.CalendarService
}

func NewCalendarHandler(calendarService *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
	}
}

type calendarEntryResponse struct {
	Date    string `json:"date"`
	Worked  *bool  `json:"worked"`
	Journal string `json:"journal"`
}

func (h *CalendarHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	date := r.PathValue("date")

	var req struct {
		Worked  *bool  `json:"worked"`
		Journal string `json:"journal"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.calendarService.SetEntry(user.ID, date, req.Worked, req.Journal)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, calendarEntryResponse{
		Date:    entry.Date,
		Worked:  entry.Worked,
		Journal: entry.Journal,
	})
}

func (h *CalendarHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	entries, err := h.calendarService.Entries(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	out := make([]calendarEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, calendarEntryResponse{
			Date:    entry.Date,
			Worked:  entry.Worked,
			Journal: entry.Journal,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *CalendarHandler) Streak(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	streak, err := h.calendarService.Streak(user.ID, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Streak int    `json:"streak"`
		AsOf   string `json:"asOf"`
	}{
		Streak: streak,
		AsOf:   time.Now().Format(model.CalendarDateLayout),
	})
}
