package service

import (
	"errors"
	"testing"
	"time"

	"github.com/oathline/oathline/internal/model"
	"github.com/oathline/oathline/internal/validation"
)

func fixedUser(score, streak int) *mockUserRepo {
	return &mockUserRepo{
		byIDFunc: func(id string) (*model.User, error) {
			return &model.User{ID: id, IsGuest: true, IntegrityScore: score, FailureStreak: streak}, nil
		},
	}
}

func newMilestoneService(repo *mockMilestoneRepo, goalRepo *mockGoalRepo, userRepo *mockUserRepo, integrityRepo *mockIntegrityRepo) *MilestoneService {
	integrity := NewIntegrityService(userRepo, integrityRepo)
	return NewMilestoneService(repo, goalRepo, integrity, NewUserLocks())
}

func activeGoal(id string) *mockGoalRepo {
	return &mockGoalRepo{
		activeByUserFunc: func(userID string) (*model.Goal, error) {
			return &model.Goal{ID: id, UserID: userID, Title: "ship it", Status: model.GoalStatusActive}, nil
		},
	}
}

func TestMilestoneCreateWithoutGoal(t *testing.T) {
	svc := newMilestoneService(&mockMilestoneRepo{}, &mockGoalRepo{}, fixedUser(50, 0), &mockIntegrityRepo{})

	_, err := svc.Create("u1", "write the parser")
	if !errors.Is(err, ErrNoActiveGoal) {
		t.Fatalf("Create() error = %v, want ErrNoActiveGoal", err)
	}
}

func TestMilestoneCreateAssignsNextNumber(t *testing.T) {
	var created *model.Milestone
	repo := &mockMilestoneRepo{
		byGoalFunc: func(goalID string) ([]*model.Milestone, error) {
			return []*model.Milestone{
				{Number: 1, Status: model.MilestoneStatusCompleted},
				{Number: 2, Status: model.MilestoneStatusPending},
			}, nil
		},
		createFunc: func(m *model.Milestone) error {
			created = m
			return nil
		},
	}
	svc := newMilestoneService(repo, activeGoal("g1"), fixedUser(50, 0), &mockIntegrityRepo{})

	milestone, err := svc.Create("u1", "write the parser")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created == nil {
		t.Fatal("milestone was not persisted")
	}
	if milestone.Number != 3 {
		t.Errorf("Number = %d, want 3", milestone.Number)
	}
	if milestone.Status != model.MilestoneStatusPending {
		t.Errorf("Status = %q, want pending", milestone.Status)
	}
	if milestone.GoalID != "g1" {
		t.Errorf("GoalID = %q, want g1", milestone.GoalID)
	}
}

func TestMilestoneCreateRejectsEmptyTitle(t *testing.T) {
	svc := newMilestoneService(&mockMilestoneRepo{}, activeGoal("g1"), fixedUser(50, 0), &mockIntegrityRepo{})

	_, err := svc.Create("u1", "   ")
	var verr validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("Create() error = %v, want validation.Error", err)
	}
}

func TestMilestoneRenameLockedRejected(t *testing.T) {
	repo := &mockMilestoneRepo{
		byIDFunc: func(userID, milestoneID string) (*model.Milestone, error) {
			return &model.Milestone{ID: milestoneID, Status: model.MilestoneStatusLocked}, nil
		},
	}
	svc := newMilestoneService(repo, activeGoal("g1"), fixedUser(50, 0), &mockIntegrityRepo{})

	err := svc.Rename("u1", "m1", "new title")
	if !errors.Is(err, ErrMilestoneImmutable) {
		t.Fatalf("Rename() error = %v, want ErrMilestoneImmutable", err)
	}
}

func TestMilestoneDeleteRenumbers(t *testing.T) {
	deleted := false
	renumbered := ""
	repo := &mockMilestoneRepo{
		byIDFunc: func(userID, milestoneID string) (*model.Milestone, error) {
			return &model.Milestone{ID: milestoneID, GoalID: "g1", Status: model.MilestoneStatusPending}, nil
		},
		deleteFunc: func(userID, milestoneID string) error {
			deleted = true
			return nil
		},
		renumberFunc: func(goalID string) error {
			renumbered = goalID
			return nil
		},
	}
	svc := newMilestoneService(repo, activeGoal("g1"), fixedUser(50, 0), &mockIntegrityRepo{})

	err := svc.Delete("u1", "m1")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !deleted {
		t.Error("milestone was not deleted")
	}
	if renumbered != "g1" {
		t.Errorf("renumbered goal = %q, want g1", renumbered)
	}
}

func TestMilestoneDeleteResolvedRejected(t *testing.T) {
	for _, status := range []string{model.MilestoneStatusLocked, model.MilestoneStatusCompleted, model.MilestoneStatusBroken} {
		repo := &mockMilestoneRepo{
			byIDFunc: func(userID, milestoneID string) (*model.Milestone, error) {
				return &model.Milestone{ID: milestoneID, Status: status}, nil
			},
		}
		svc := newMilestoneService(repo, activeGoal("g1"), fixedUser(50, 0), &mockIntegrityRepo{})

		err := svc.Delete("u1", "m1")
		if !errors.Is(err, ErrMilestoneImmutable) {
			t.Errorf("Delete() with status %q: error = %v, want ErrMilestoneImmutable", status, err)
		}
	}
}

func TestMilestoneLockSetsPromise(t *testing.T) {
	deadline := time.Now().Add(48 * time.Hour)
	var gotToken string
	repo := &mockMilestoneRepo{
		byIDFunc: func(userID, milestoneID string) (*model.Milestone, error) {
			return &model.Milestone{ID: milestoneID, Status: model.MilestoneStatusPending}, nil
		},
		lockFunc: func(milestoneID, promiseText string, d time.Time, consequence, shareToken string, lockedAt time.Time) error {
			gotToken = shareToken
			if promiseText != "I will finish the parser" {
				t.Errorf("promiseText = %q", promiseText)
			}
			if !d.Equal(deadline) {
				t.Errorf("deadline = %v, want %v", d, deadline)
			}
			if consequence != "donate 100 EUR" {
				t.Errorf("consequence = %q", consequence)
			}
			return nil
		},
	}
	svc := newMilestoneService(repo, activeGoal("g1"), fixedUser(50, 0), &mockIntegrityRepo{})

	_, err := svc.Lock("u1", "m1", "I will finish the parser", deadline, "donate 100 EUR")
	if err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if gotToken == "" {
		t.Error("share token was not generated")
	}
}

func TestMilestoneLockSecondPromiseRejected(t *testing.T) {
	repo := &mockMilestoneRepo{
		byIDFunc: func(userID, milestoneID string) (*model.Milestone, error) {
			return &model.Milestone{ID: milestoneID, Status: model.MilestoneStatusPending}, nil
		},
		hasLockedFunc: func(userID string) (bool, error) {
			return true, nil
		},
	}
	svc := newMilestoneService(repo, activeGoal("g1"), fixedUser(50, 0), &mockIntegrityRepo{})

	_, err := svc.Lock("u1", "m1", "promise", time.Now().Add(time.Hour), "consequence")
	if !errors.Is(err, ErrPromiseLocked) {
		t.Fatalf("Lock() error = %v, want ErrPromiseLocked", err)
	}
}

func TestMilestoneLockNonPendingRejected(t *testing.T) {
	repo := &mockMilestoneRepo{
		byIDFunc: func(userID, milestoneID string) (*model.Milestone, error) {
			return &model.Milestone{ID: milestoneID, Status: model.MilestoneStatusCompleted}, nil
		},
	}
	svc := newMilestoneService(repo, activeGoal("g1"), fixedUser(50, 0), &mockIntegrityRepo{})

	_, err := svc.Lock("u1", "m1", "promise", time.Now().Add(time.Hour), "consequence")
	if !errors.Is(err, ErrMilestoneImmutable) {
		t.Fatalf("Lock() error = %v, want ErrMilestoneImmutable", err)
	}
}

func lockedMilestone(deadline time.Time) *mockMilestoneRepo {
	return &mockMilestoneRepo{
		byIDFunc: func(userID, milestoneID string) (*model.Milestone, error) {
			return &model.Milestone{
				ID:       milestoneID,
				GoalID:   "g1",
				UserID:   userID,
				Status:   model.MilestoneStatusLocked,
				Deadline: &deadline,
			}, nil
		},
	}
}

func TestMilestoneCompleteAppliesKept(t *testing.T) {
	var recorded *model.IntegrityRecord
	integrityRepo := &mockIntegrityRepo{
		applyEventFunc: func(record *model.IntegrityRecord) error {
			recorded = record
			return nil
		},
	}
	repo := lockedMilestone(time.Now().Add(time.Hour))
	svc := newMilestoneService(repo, activeGoal("g1"), fixedUser(50, 2), integrityRepo)

	result, err := svc.Complete("u1", "m1", false)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if recorded == nil {
		t.Fatal("no ledger record written")
	}
	if recorded.Change != 2 {
		t.Errorf("Change = %d, want +2", recorded.Change)
	}
	if recorded.NewScore != 52 {
		t.Errorf("NewScore = %d, want 52", recorded.NewScore)
	}
	if recorded.FailureStreak != 0 {
		t.Errorf("FailureStreak = %d, want 0 after a kept promise", recorded.FailureStreak)
	}
	if recorded.Reason != model.ReasonPromiseKept {
		t.Errorf("Reason = %q, want %q", recorded.Reason, model.ReasonPromiseKept)
	}
	if result.User.IntegrityScore != 52 {
		t.Errorf("result score = %d, want 52", result.User.IntegrityScore)
	}
}

func TestMilestoneCompleteNotLocked(t *testing.T) {
	repo := &mockMilestoneRepo{
		byIDFunc: func(userID, milestoneID string) (*model.Milestone, error) {
			return &model.Milestone{ID: milestoneID, Status: model.MilestoneStatusPending}, nil
		},
	}
	svc := newMilestoneService(repo, activeGoal("g1"), fixedUser(50, 0), &mockIntegrityRepo{})

	_, err := svc.Complete("u1", "m1", false)
	if !errors.Is(err, ErrNotLocked) {
		t.Fatalf("Complete() error = %v, want ErrNotLocked", err)
	}
}

func TestMilestoneCompleteAfterDeadline(t *testing.T) {
	repo := lockedMilestone(time.Now().Add(-time.Hour))
	svc := newMilestoneService(repo, activeGoal("g1"), fixedUser(50, 0), &mockIntegrityRepo{})

	_, err := svc.Complete("u1", "m1", false)
	if !errors.Is(err, ErrDeadlinePassed) {
		t.Fatalf("Complete() error = %v, want ErrDeadlinePassed", err)
	}

	// An explicit override still counts the promise as kept.
	_, err = svc.Complete("u1", "m1", true)
	if err != nil {
		t.Fatalf("Complete(force) error = %v", err)
	}
}

func TestMilestoneCompleteRevertsOnScoringFailure(t *testing.T) {
	reverted := ""
	repo := lockedMilestone(time.Now().Add(time.Hour))
	repo.reopenToLockedFunc = func(milestoneID string) error {
		reverted = milestoneID
		return nil
	}
	integrityRepo := &mockIntegrityRepo{
		applyEventFunc: func(record *model.IntegrityRecord) error {
			return errors.New("db down")
		},
	}
	svc := newMilestoneService(repo, activeGoal("g1"), fixedUser(50, 0), integrityRepo)

	_, err := svc.Complete("u1", "m1", false)
	if err == nil {
		t.Fatal("Complete() succeeded despite scoring failure")
	}
	if reverted != "m1" {
		t.Errorf("reverted milestone = %q, want m1", reverted)
	}
}

func TestMilestoneBreakRequiresReason(t *testing.T) {
	svc := newMilestoneService(lockedMilestone(time.Now().Add(time.Hour)), activeGoal("g1"), fixedUser(50, 0), &mockIntegrityRepo{})

	_, err := svc.Break("u1", "m1", "  ")
	var verr validation.Error
	if !errors.As(err, &verr) {
		t.Fatalf("Break() error = %v, want validation.Error", err)
	}
}

func TestMilestoneBreakEscalatesWithStreak(t *testing.T) {
	cases := []struct {
		streak     int
		wantChange int
		wantStreak int
	}{
		{streak: 0, wantChange: -10, wantStreak: 1},
		{streak: 1, wantChange: -15, wantStreak: 2},
		{streak: 2, wantChange: -20, wantStreak: 3},
		{streak: 7, wantChange: -20, wantStreak: 8},
	}

	for _, tc := range cases {
		var recorded *model.IntegrityRecord
		integrityRepo := &mockIntegrityRepo{
			applyEventFunc: func(record *model.IntegrityRecord) error {
				recorded = record
				return nil
			},
		}
		svc := newMilestoneService(lockedMilestone(time.Now().Add(time.Hour)), activeGoal("g1"), fixedUser(80, tc.streak), integrityRepo)

		result, err := svc.Break("u1", "m1", "I watched TV instead")
		if err != nil {
			t.Fatalf("Break() with streak %d: error = %v", tc.streak, err)
		}
		if recorded.Change != tc.wantChange {
			t.Errorf("streak %d: Change = %d, want %d", tc.streak, recorded.Change, tc.wantChange)
		}
		if recorded.FailureStreak != tc.wantStreak {
			t.Errorf("streak %d: FailureStreak = %d, want %d", tc.streak, recorded.FailureStreak, tc.wantStreak)
		}
		if result.User.FailureStreak != tc.wantStreak {
			t.Errorf("streak %d: user streak = %d, want %d", tc.streak, result.User.FailureStreak, tc.wantStreak)
		}
	}
}

func TestMilestoneBreakRevertsOnScoringFailure(t *testing.T) {
	reverted := false
	repo := lockedMilestone(time.Now().Add(time.Hour))
	repo.reopenToLockedFunc = func(milestoneID string) error {
		reverted = true
		return nil
	}
	integrityRepo := &mockIntegrityRepo{
		applyEventFunc: func(record *model.IntegrityRecord) error {
			return errors.New("db down")
		},
	}
	svc := newMilestoneService(repo, activeGoal("g1"), fixedUser(50, 0), integrityRepo)

	_, err := svc.Break("u1", "m1", "a reason")
	if err == nil {
		t.Fatal("Break() succeeded despite scoring failure")
	}
	if !reverted {
		t.Error("milestone was not reverted to locked")
	}
}

func TestAddWitnessNeverTouchesScore(t *testing.T) {
	applied := false
	integrityRepo := &mockIntegrityRepo{
		applyEventFunc: func(record *model.IntegrityRecord) error {
			applied = true
			return nil
		},
	}
	repo := &mockMilestoneRepo{
		addWitnessFunc: func(milestoneID string) (int, error) {
			return 4, nil
		},
	}
	svc := newMilestoneService(repo, activeGoal("g1"), fixedUser(50, 0), integrityRepo)

	count, err := svc.AddWitness("m1")
	if err != nil {
		t.Fatalf("AddWitness() error = %v", err)
	}
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}
	if applied {
		t.Error("witnessing wrote a ledger record")
	}
}
