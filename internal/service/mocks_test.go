package service

import (
	"time"

	"github.com/oathline/oathline/internal/model"
	"github.com/oathline/oathline/internal/repository"
)

// Mock repositories. Each method delegates to a function field when set;
// finders default to their not-found sentinel, mutations to success.

type mockUserRepo struct {
	createFunc         func(user *model.User) error
	byIDFunc           func(id string) (*model.User, error)
	byEmailFunc        func(email string) (*model.User, error)
	updatePasswordFunc func(userID string, passwordHash *string) error
}

func (m *mockUserRepo) Create(user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(user)
	}
	return nil
}

func (m *mockUserRepo) ByID(id string) (*model.User, error) {
	if m.byIDFunc != nil {
		return m.byIDFunc(id)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) ByEmail(email string) (*model.User, error) {
	if m.byEmailFunc != nil {
		return m.byEmailFunc(email)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepo) UpdatePassword(userID string, passwordHash *string) error {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(userID, passwordHash)
	}
	return nil
}

type mockGoalRepo struct {
	createFunc               func(goal *model.Goal) error
	byIDFunc                 func(userID, goalID string) (*model.Goal, error)
	activeByUserFunc         func(userID string) (*model.Goal, error)
	completedByUserFunc      func(userID string) ([]*model.Goal, error)
	markCompletedFunc        func(goal *model.Goal, reflection string, finalScore int, stats model.GoalStats) error
	reopenActiveFunc         func(userID, goalID string) error
	deleteWithMilestonesFunc func(userID, goalID string) error
}

func (m *mockGoalRepo) Create(goal *model.Goal) error {
	if m.createFunc != nil {
		return m.createFunc(goal)
	}
	return nil
}

func (m *mockGoalRepo) ByID(userID, goalID string) (*model.Goal, error) {
	if m.byIDFunc != nil {
		return m.byIDFunc(userID, goalID)
	}
	return nil, repository.ErrGoalNotFound
}

func (m *mockGoalRepo) ActiveByUser(userID string) (*model.Goal, error) {
	if m.activeByUserFunc != nil {
		return m.activeByUserFunc(userID)
	}
	return nil, repository.ErrGoalNotFound
}

func (m *mockGoalRepo) CompletedByUser(userID string) ([]*model.Goal, error) {
	if m.completedByUserFunc != nil {
		return m.completedByUserFunc(userID)
	}
	return nil, nil
}

func (m *mockGoalRepo) MarkCompleted(goal *model.Goal, reflection string, finalScore int, stats model.GoalStats) error {
	if m.markCompletedFunc != nil {
		return m.markCompletedFunc(goal, reflection, finalScore, stats)
	}
	return nil
}

func (m *mockGoalRepo) ReopenActive(userID, goalID string) error {
	if m.reopenActiveFunc != nil {
		return m.reopenActiveFunc(userID, goalID)
	}
	return nil
}

func (m *mockGoalRepo) DeleteWithMilestones(userID, goalID string) error {
	if m.deleteWithMilestonesFunc != nil {
		return m.deleteWithMilestonesFunc(userID, goalID)
	}
	return nil
}

type mockMilestoneRepo struct {
	createFunc         func(milestone *model.Milestone) error
	byIDFunc           func(userID, milestoneID string) (*model.Milestone, error)
	byGoalFunc         func(goalID string) ([]*model.Milestone, error)
	byShareTokenFunc   func(token string) (*model.Milestone, error)
	hasLockedFunc      func(userID string) (bool, error)
	updateTitleFunc    func(userID, milestoneID, title string) error
	deleteFunc         func(userID, milestoneID string) error
	renumberFunc       func(goalID string) error
	lockFunc           func(milestoneID, promiseText string, deadline time.Time, consequence, shareToken string, lockedAt time.Time) error
	completeFunc       func(milestoneID string, completedAt time.Time) error
	breakFunc          func(milestoneID, reason string, brokenAt time.Time) error
	reopenToLockedFunc func(milestoneID string) error
	addWitnessFunc     func(milestoneID string) (int, error)
}

func (m *mockMilestoneRepo) Create(milestone *model.Milestone) error {
	if m.createFunc != nil {
		return m.createFunc(milestone)
	}
	return nil
}

func (m *mockMilestoneRepo) ByID(userID, milestoneID string) (*model.Milestone, error) {
	if m.byIDFunc != nil {
		return m.byIDFunc(userID, milestoneID)
	}
	return nil, repository.ErrMilestoneNotFound
}

func (m *mockMilestoneRepo) ByGoal(goalID string) ([]*model.Milestone, error) {
	if m.byGoalFunc != nil {
		return m.byGoalFunc(goalID)
	}
	return nil, nil
}

func (m *mockMilestoneRepo) ByShareToken(token string) (*model.Milestone, error) {
	if m.byShareTokenFunc != nil {
		return m.byShareTokenFunc(token)
	}
	return nil, repository.ErrMilestoneNotFound
}

func (m *mockMilestoneRepo) HasLocked(userID string) (bool, error) {
	if m.hasLockedFunc != nil {
		return m.hasLockedFunc(userID)
	}
	return false, nil
}

func (m *mockMilestoneRepo) UpdateTitle(userID, milestoneID, title string) error {
	if m.updateTitleFunc != nil {
		return m.updateTitleFunc(userID, milestoneID, title)
	}
	return nil
}

func (m *mockMilestoneRepo) Delete(userID, milestoneID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(userID, milestoneID)
	}
	return nil
}

func (m *mockMilestoneRepo) Renumber(goalID string) error {
	if m.renumberFunc != nil {
		return m.renumberFunc(goalID)
	}
	return nil
}

func (m *mockMilestoneRepo) Lock(milestoneID, promiseText string, deadline time.Time, consequence, shareToken string, lockedAt time.Time) error {
	if m.lockFunc != nil {
		return m.lockFunc(milestoneID, promiseText, deadline, consequence, shareToken, lockedAt)
	}
	return nil
}

func (m *mockMilestoneRepo) Complete(milestoneID string, completedAt time.Time) error {
	if m.completeFunc != nil {
		return m.completeFunc(milestoneID, completedAt)
	}
	return nil
}

func (m *mockMilestoneRepo) Break(milestoneID, reason string, brokenAt time.Time) error {
	if m.breakFunc != nil {
		return m.breakFunc(milestoneID, reason, brokenAt)
	}
	return nil
}

func (m *mockMilestoneRepo) ReopenToLocked(milestoneID string) error {
	if m.reopenToLockedFunc != nil {
		return m.reopenToLockedFunc(milestoneID)
	}
	return nil
}

func (m *mockMilestoneRepo) AddWitness(milestoneID string) (int, error) {
	if m.addWitnessFunc != nil {
		return m.addWitnessFunc(milestoneID)
	}
	return 1, nil
}

type mockIntegrityRepo struct {
	applyEventFunc func(record *model.IntegrityRecord) error
	historyFunc    func(userID string, limit int) ([]*model.IntegrityRecord, error)
}

func (m *mockIntegrityRepo) ApplyEvent(record *model.IntegrityRecord) error {
	if m.applyEventFunc != nil {
		return m.applyEventFunc(record)
	}
	return nil
}

func (m *mockIntegrityRepo) History(userID string, limit int) ([]*model.IntegrityRecord, error) {
	if m.historyFunc != nil {
		return m.historyFunc(userID, limit)
	}
	return nil, nil
}

type mockCalendarRepo struct {
	upsertFunc        func(entry *model.CalendarEntry) error
	entriesByUserFunc func(userID string) ([]*model.CalendarEntry, error)
}

func (m *mockCalendarRepo) Upsert(entry *model.CalendarEntry) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(entry)
	}
	return nil
}

func (m *mockCalendarRepo) EntriesByUser(userID string) ([]*model.CalendarEntry, error) {
	if m.entriesByUserFunc != nil {
		return m.entriesByUserFunc(userID)
	}
	return nil, nil
}
