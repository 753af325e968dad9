package routes

import (
	"net/http"

	"github.com/oathline/oathline/internal/app"
	"github.com/oathline/oathline/internal/handler"
	"github.com/oathline/oathline/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg)
	goal := handler.NewGoalHandler(app.GoalService)
	milestone := handler.NewMilestoneHandler(app.MilestoneService)
	calendar := handler.NewCalendarHandler(app.CalendarService)
	integrity := handler.NewIntegrityHandler(app.IntegrityService)
	share := handler.NewShareHandler(app.MilestoneService, app.AuthService)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Auth (rate limited)
	rateLimiter := middleware.RateLimit(app.Cfg.AuthRateLimit, app.Cfg.AuthRateWindow)

	mux.HandleFunc("POST /auth/guest", rateLimiter(auth.Guest))
	mux.HandleFunc("POST /auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /auth/logout", auth.Logout)
	mux.HandleFunc("GET /auth/me", middleware.RequireAuth(auth.Me))

	// OAuth
	mux.HandleFunc("GET /auth/google", rateLimiter(auth.GoogleAuth))
	mux.HandleFunc("GET /auth/google/callback", rateLimiter(auth.GoogleCallback))

	// Public share surface. Read-only except for witnessing.
	mux.HandleFunc("GET /s/{token}", share.Show)
	mux.HandleFunc("POST /s/{token}/witness", share.Witness)

	// Goals
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /api/goals/active", middleware.RequireAuth(goal.Active))
	mux.HandleFunc("POST /api/goals/complete", middleware.RequireAuth(goal.Complete))
	mux.HandleFunc("GET /api/goals/history", middleware.RequireAuth(goal.History))

	// Milestones
	mux.HandleFunc("POST /api/milestones", middleware.RequireAuth(milestone.Create))
	mux.HandleFunc("PATCH /api/milestones/{id}", middleware.RequireAuth(milestone.Rename))
	mux.HandleFunc("DELETE /api/milestones/{id}", middleware.RequireAuth(milestone.Delete))
	mux.HandleFunc("POST /api/milestones/{id}/lock", middleware.RequireAuth(milestone.Lock))
	mux.HandleFunc("POST /api/milestones/{id}/complete", middleware.RequireAuth(milestone.Complete))
	mux.HandleFunc("POST /api/milestones/{id}/break", middleware.RequireAuth(milestone.Break))

	// Calendar
	mux.HandleFunc("PUT /api/calendar/{date}", middleware.RequireAuth(calendar.Upsert))
	mux.HandleFunc("GET /api/calendar", middleware.RequireAuth(calendar.List))
	mux.HandleFunc("GET /api/calendar/streak", middleware.RequireAuth(calendar.Streak))

	// Integrity ledger
	mux.HandleFunc("GET /api/integrity/history", middleware.RequireAuth(integrity.History))

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.Auth(app.AuthService),
	)

	return h
}
