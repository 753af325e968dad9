package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/oathline/oathline/internal/model"
	"github.com/oathline/oathline/internal/repository"
	"github.com/oathline/oathline/internal/scoring"
	"github.com/oathline/oathline/internal/validation"
)

var (
	ErrMilestoneImmutable = errors.New("milestone is locked or resolved and can no longer be edited")
	ErrPromiseLocked      = errors.New("another promise is already locked")
	ErrNotLocked          = errors.New("milestone is not locked")
	ErrDeadlinePassed     = errors.New("deadline passed: complete requires an explicit override")
	ErrNoActiveGoal       = errors.New("no active goal")
)

// MilestoneService drives the per-milestone state machine:
// pending -> locked -> completed | broken. Completed and broken are terminal.
// All mutations serialize per user through locks.
type MilestoneService struct {
	repo      repository.MilestoneRepository
	goalRepo  repository.GoalRepository
	integrity *IntegrityService
	locks     *UserLocks
}

func NewMilestoneService(
	repo repository.MilestoneRepository,
	goalRepo repository.GoalRepository,
	integrity *IntegrityService,
	locks *UserLocks,
) *MilestoneService {
	return &MilestoneService{
		repo:      repo,
		goalRepo:  goalRepo,
		integrity: integrity,
		locks:     locks,
	}
}

func (s *MilestoneService) Create(userID, title string) (*model.Milestone, error) {
	err := validation.ValidateTitle(title)
	if err != nil {
		return nil, err
	}

	release := s.locks.Acquire(userID)
	defer release()

	goal, err := s.goalRepo.ActiveByUser(userID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return nil, ErrNoActiveGoal
		}
		return nil, fmt.Errorf("failed to get active goal: %w", err)
	}

	existing, err := s.repo.ByGoal(goal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}

	milestone := &model.Milestone{
		ID:        uuid.New().String(),
		GoalID:    goal.ID,
		UserID:    userID,
		Number:    len(existing) + 1,
		Title:     title,
		Status:    model.MilestoneStatusPending,
		CreatedAt: time.Now(),
	}

	err = s.repo.Create(milestone)
	if err != nil {
		return nil, fmt.Errorf("failed to create milestone: %w", err)
	}

	return milestone, nil
}

func (s *MilestoneService) Rename(userID, milestoneID, title string) error {
	err := validation.ValidateTitle(title)
	if err != nil {
		return err
	}

	release := s.locks.Acquire(userID)
	defer release()

	milestone, err := s.repo.ByID(userID, milestoneID)
	if err != nil {
		return err
	}

	if milestone.Status != model.MilestoneStatusPending {
		return ErrMilestoneImmutable
	}

	return s.repo.UpdateTitle(userID, milestoneID, title)
}

// Delete removes a pending milestone and renumbers the goal's remaining
// milestones into a dense 1..N sequence.
func (s *MilestoneService) Delete(userID, milestoneID string) error {
	release := s.locks.Acquire(userID)
	defer release()

	milestone, err := s.repo.ByID(userID, milestoneID)
	if err != nil {
		return err
	}

	if milestone.Status != model.MilestoneStatusPending {
		return ErrMilestoneImmutable
	}

	err = s.repo.Delete(userID, milestoneID)
	if err != nil {
		return err
	}

	err = s.repo.Renumber(milestone.GoalID)
	if err != nil {
		return fmt.Errorf("failed to renumber milestones: %w", err)
	}

	return nil
}

// Lock turns a pending milestone into an irrevocable promise. At most one
// milestone across the user's active goal may be locked at any time.
func (s *MilestoneService) Lock(userID, milestoneID, promiseText string, deadline time.Time, consequence string) (*model.Milestone, error) {
	err := validation.ValidatePromiseText(promiseText)
	if err != nil {
		return nil, err
	}

	release := s.locks.Acquire(userID)
	defer release()

	milestone, err := s.repo.ByID(userID, milestoneID)
	if err != nil {
		return nil, err
	}

	if milestone.Status != model.MilestoneStatusPending {
		return nil, ErrMilestoneImmutable
	}

	locked, err := s.repo.HasLocked(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check locked promises: %w", err)
	}
	if locked {
		return nil, ErrPromiseLocked
	}

	shareToken := uuid.New().String()
	now := time.Now()

	err = s.repo.Lock(milestoneID, promiseText, deadline, consequence, shareToken, now)
	if err != nil {
		return nil, fmt.Errorf("failed to lock milestone: %w", err)
	}

	slog.Info("promise locked", "user_id", userID, "milestone_id", milestoneID, "deadline", deadline)

	return s.repo.ByID(userID, milestoneID)
}

// Complete resolves a locked milestone as kept. Completing after the
// deadline fails unless force is set.
func (s *MilestoneService) Complete(userID, milestoneID string, force bool) (*ApplyResult, error) {
	release := s.locks.Acquire(userID)
	defer release()

	milestone, err := s.repo.ByID(userID, milestoneID)
	if err != nil {
		return nil, err
	}

	if milestone.Status != model.MilestoneStatusLocked {
		return nil, ErrNotLocked
	}

	now := time.Now()
	if !force && milestone.Deadline != nil && now.After(*milestone.Deadline) {
		return nil, ErrDeadlinePassed
	}

	err = s.repo.Complete(milestoneID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to complete milestone: %w", err)
	}

	result, err := s.integrity.Apply(userID, scoring.OutcomeKept, &milestone.ID, &milestone.GoalID)
	if err != nil {
		// Roll back the transition so milestone state and score stay consistent.
		revertErr := s.repo.ReopenToLocked(milestoneID)
		if revertErr != nil {
			slog.Error("failed to revert milestone after scoring failure", "error", revertErr, "milestone_id", milestoneID)
		}
		return nil, err
	}

	slog.Info("promise kept", "user_id", userID, "milestone_id", milestoneID, "score", result.User.IntegrityScore)

	return result, nil
}

// Break resolves a locked milestone as broken. A non-empty reason is
// mandatory.
func (s *MilestoneService) Break(userID, milestoneID, reason string) (*ApplyResult, error) {
	err := validation.ValidateReason(reason)
	if err != nil {
		return nil, err
	}

	release := s.locks.Acquire(userID)
	defer release()

	milestone, err := s.repo.ByID(userID, milestoneID)
	if err != nil {
		return nil, err
	}

	if milestone.Status != model.MilestoneStatusLocked {
		return nil, ErrNotLocked
	}

	err = s.repo.Break(milestoneID, reason, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to break milestone: %w", err)
	}

	result, err := s.integrity.Apply(userID, scoring.OutcomeBroken, &milestone.ID, &milestone.GoalID)
	if err != nil {
		revertErr := s.repo.ReopenToLocked(milestoneID)
		if revertErr != nil {
			slog.Error("failed to revert milestone after scoring failure", "error", revertErr, "milestone_id", milestoneID)
		}
		return nil, err
	}

	slog.Info("promise broken",
		"user_id", userID,
		"milestone_id", milestoneID,
		"score", result.User.IntegrityScore,
		"failure_streak", result.User.FailureStreak,
	)

	return result, nil
}

// AddWitness increments the witness count on a locked milestone. Witnesses
// never affect score or state.
func (s *MilestoneService) AddWitness(milestoneID string) (int, error) {
	return s.repo.AddWitness(milestoneID)
}

func (s *MilestoneService) ByID(userID, milestoneID string) (*model.Milestone, error) {
	return s.repo.ByID(userID, milestoneID)
}

func (s *MilestoneService) ByShareToken(token string) (*model.Milestone, error) {
	return s.repo.ByShareToken(token)
}
