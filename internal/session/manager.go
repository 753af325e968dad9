// Package session coordinates a single user session: the one-time bootstrap
// that loads (or creates) the user and their data, and the asynchronous
// session-change listener that must never race it.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oathline/oathline/internal/model"
	"github.com/oathline/oathline/internal/repository"
	"github.com/oathline/oathline/internal/service"
)

type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// Event is a session-change notification from the auth layer.
type Event struct {
	Type   EventType
	UserID string
}

// State is the in-memory snapshot of the current session.
type State struct {
	User       *model.User
	ActiveGoal *model.Goal
	Milestones []*model.Milestone
	History    []*model.IntegrityRecord
	Calendar   map[string]*model.CalendarEntry
}

// Manager owns the session state. Bootstrap runs exactly once; the
// initialized flag flips only after it fully succeeds, and OnSessionChange
// no-ops until then, so a change notification arriving mid-bootstrap can
// never double-initialize or clobber in-flight state.
type Manager struct {
	mu          sync.Mutex
	initialized bool
	state       *State

	auth          *service.AuthService
	goalRepo      repository.GoalRepository
	milestoneRepo repository.MilestoneRepository
	integrityRepo repository.IntegrityRepository
	calendarRepo  repository.CalendarRepository
}

func NewManager(
	auth *service.AuthService,
	goalRepo repository.GoalRepository,
	milestoneRepo repository.MilestoneRepository,
	integrityRepo repository.IntegrityRepository,
	calendarRepo repository.CalendarRepository,
) *Manager {
	return &Manager{
		auth:          auth,
		goalRepo:      goalRepo,
		milestoneRepo: milestoneRepo,
		integrityRepo: integrityRepo,
		calendarRepo:  calendarRepo,
	}
}

// Bootstrap establishes the session. With an empty userID it signs in
// anonymously; otherwise the user must exist, since the session layer never
// synthesizes an identity. Calling Bootstrap again returns the existing
// state.
func (m *Manager) Bootstrap(userID string) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return m.state, nil
	}

	var user *model.User
	var err error

	if userID == "" {
		user, err = m.auth.SignInAnonymously()
		if err != nil {
			return nil, fmt.Errorf("failed to establish guest session: %w", err)
		}
	} else {
		user, err = m.auth.ByID(userID)
		if err != nil {
			return nil, fmt.Errorf("failed to establish session: %w", err)
		}
	}

	state, err := m.loadState(user)
	if err != nil {
		return nil, err
	}

	m.state = state
	m.initialized = true

	slog.Info("session bootstrapped", "user_id", user.ID, "guest", user.IsGuest)

	return m.state, nil
}

// OnSessionChange is the asynchronous session-change listener. It may fire
// at any point, including before bootstrap finishes; until the session is
// initialized it does nothing.
func (m *Manager) OnSessionChange(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		slog.Debug("session change ignored before bootstrap", "type", event.Type)
		return
	}

	switch event.Type {
	case EventSignedIn:
		user, err := m.auth.ByID(event.UserID)
		if err != nil {
			slog.Error("failed to load user on sign-in", "error", err, "user_id", event.UserID)
			return
		}
		state, err := m.loadState(user)
		if err != nil {
			slog.Error("failed to load session state on sign-in", "error", err, "user_id", event.UserID)
			return
		}
		m.state = state
		slog.Info("session switched", "user_id", user.ID)

	case EventSignedOut:
		user, err := m.auth.SignInAnonymously()
		if err != nil {
			slog.Error("failed to establish guest session on sign-out", "error", err)
			return
		}
		state, err := m.loadState(user)
		if err != nil {
			slog.Error("failed to load guest session state", "error", err)
			return
		}
		m.state = state
		slog.Info("guest session established", "user_id", user.ID)
	}
}

func (m *Manager) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// State returns the current session snapshot, or nil before bootstrap.
func (m *Manager) State() *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetCalendarEntry applies the entry to the in-memory state immediately,
// then persists it. On persistence failure the in-memory entry rolls back
// to its prior value and the error surfaces to the caller.
func (m *Manager) SetCalendarEntry(date string, worked *bool, journal string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return errors.New("session not initialized")
	}

	_, err := time.Parse(model.CalendarDateLayout, date)
	if err != nil {
		return service.ErrInvalidDate
	}

	prev, hadPrev := m.state.Calendar[date]

	entry := &model.CalendarEntry{
		UserID:  m.state.User.ID,
		Date:    date,
		Worked:  worked,
		Journal: journal,
	}
	m.state.Calendar[date] = entry

	err = m.calendarRepo.Upsert(entry)
	if err != nil {
		if hadPrev {
			m.state.Calendar[date] = prev
		} else {
			delete(m.state.Calendar, date)
		}
		return fmt.Errorf("failed to save calendar entry: %w", err)
	}

	return nil
}

// Streak derives the consecutive-day streak from the in-memory calendar.
func (m *Manager) Streak(today time.Time, lookbackDays int) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return 0
	}

	worked := make(map[string]*bool, len(m.state.Calendar))
	for date, entry := range m.state.Calendar {
		worked[date] = entry.Worked
	}

	return service.CalculateStreak(worked, today, lookbackDays)
}

func (m *Manager) loadState(user *model.User) (*State, error) {
	state := &State{
		User:     user,
		Calendar: make(map[string]*model.CalendarEntry),
	}

	goal, err := m.goalRepo.ActiveByUser(user.ID)
	if err != nil && !errors.Is(err, repository.ErrGoalNotFound) {
		return nil, fmt.Errorf("failed to load active goal: %w", err)
	}
	if goal != nil && err == nil {
		state.ActiveGoal = goal

		milestones, err := m.milestoneRepo.ByGoal(goal.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load milestones: %w", err)
		}
		state.Milestones = milestones
	}

	history, err := m.integrityRepo.History(user.ID, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to load integrity history: %w", err)
	}
	state.History = history

	entries, err := m.calendarRepo.EntriesByUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar entries: %w", err)
	}
	for _, entry := range entries {
		state.Calendar[entry.Date] = entry
	}

	return state, nil
}
