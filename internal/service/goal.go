package service

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/oathline/oathline/internal/model"
	"github.com/oathline/oathline/internal/repository"
	"github.com/oathline/oathline/internal/scoring"
	"github.com/oathline/oathline/internal/validation"
)

var (
	ErrActivePromise        = errors.New("an active promise blocks starting a new goal")
	ErrUnresolvedMilestones = errors.New("all milestones must be completed or broken first")
)

// GoalService enforces the cross-milestone invariants: one active goal per
// user, replacement semantics on goal creation, and the completion flow that
// computes stats, applies the bonus and archives the goal.
type GoalService struct {
	repo          repository.GoalRepository
	milestoneRepo repository.MilestoneRepository
	userRepo      repository.UserRepository
	integrity     *IntegrityService
	locks         *UserLocks
}

func NewGoalService(
	repo repository.GoalRepository,
	milestoneRepo repository.MilestoneRepository,
	userRepo repository.UserRepository,
	integrity *IntegrityService,
	locks *UserLocks,
) *GoalService {
	return &GoalService{
		repo:          repo,
		milestoneRepo: milestoneRepo,
		userRepo:      userRepo,
		integrity:     integrity,
		locks:         locks,
	}
}

// Create starts a new active goal. A locked promise anywhere in the current
// goal blocks this outright. An existing active goal with no locked promise
// is replaced: the old goal and its unresolved milestones are discarded, not
// archived.
func (s *GoalService) Create(userID, title string) (*model.Goal, error) {
	err := validation.ValidateTitle(title)
	if err != nil {
		return nil, err
	}

	release := s.locks.Acquire(userID)
	defer release()

	locked, err := s.milestoneRepo.HasLocked(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check locked promises: %w", err)
	}
	if locked {
		return nil, ErrActivePromise
	}

	existing, err := s.repo.ActiveByUser(userID)
	if err != nil && !errors.Is(err, repository.ErrGoalNotFound) {
		return nil, fmt.Errorf("failed to get active goal: %w", err)
	}
	if existing != nil {
		err = s.repo.DeleteWithMilestones(userID, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to replace active goal: %w", err)
		}
		slog.Info("active goal replaced", "user_id", userID, "old_goal_id", existing.ID)
	}

	now := time.Now()
	goal := &model.Goal{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Status:    model.GoalStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

// Active returns the user's active goal and its milestones in order.
func (s *GoalService) Active(userID string) (*model.Goal, []*model.Milestone, error) {
	goal, err := s.repo.ActiveByUser(userID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return nil, nil, ErrNoActiveGoal
		}
		return nil, nil, err
	}

	milestones, err := s.milestoneRepo.ByGoal(goal.ID)
	if err != nil {
		return nil, nil, err
	}

	return goal, milestones, nil
}

// Completed returns the user's goal history, most recent first.
func (s *GoalService) Completed(userID string) ([]*model.Goal, error) {
	return s.repo.CompletedByUser(userID)
}

// Complete finishes the active goal: every milestone must be resolved and a
// reflection supplied. Stats are frozen onto the goal, the completion bonus
// is applied and ledgered, and the active slot is cleared for the next goal.
func (s *GoalService) Complete(userID, reflection string) (*model.Goal, *ApplyResult, error) {
	err := validation.ValidateReflection(reflection)
	if err != nil {
		return nil, nil, err
	}

	release := s.locks.Acquire(userID)
	defer release()

	goal, err := s.repo.ActiveByUser(userID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return nil, nil, ErrNoActiveGoal
		}
		return nil, nil, fmt.Errorf("failed to get active goal: %w", err)
	}

	milestones, err := s.milestoneRepo.ByGoal(goal.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list milestones: %w", err)
	}

	stats := model.GoalStats{Total: len(milestones)}
	for _, m := range milestones {
		switch m.Status {
		case model.MilestoneStatusCompleted:
			stats.Completed++
		case model.MilestoneStatusBroken:
			stats.Broken++
		default:
			return nil, nil, ErrUnresolvedMilestones
		}
	}

	resolved := stats.Completed + stats.Broken
	if resolved > 0 {
		stats.SuccessRate = int(math.Round(float64(stats.Completed) / float64(resolved) * 100))
	}

	// The final score includes the completion bonus; compute it through the
	// pure policy before touching anything so the archive row is exact.
	user, err := s.userRepo.ByID(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	finalScore := scoring.ApplyOutcome(user.IntegrityScore, user.FailureStreak, scoring.OutcomeGoalCompleted).NewScore

	err = s.repo.MarkCompleted(goal, reflection, finalScore, stats)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to complete goal: %w", err)
	}

	result, err := s.integrity.Apply(userID, scoring.OutcomeGoalCompleted, nil, &goal.ID)
	if err != nil {
		// Roll the archive back so goal state and score stay consistent.
		revertErr := s.repo.ReopenActive(userID, goal.ID)
		if revertErr != nil {
			slog.Error("failed to reopen goal after scoring failure", "error", revertErr, "goal_id", goal.ID)
		}
		return nil, nil, err
	}

	slog.Info("goal completed",
		"user_id", userID,
		"goal_id", goal.ID,
		"success_rate", stats.SuccessRate,
		"final_score", result.User.IntegrityScore,
	)

	completed, err := s.repo.ByID(userID, goal.ID)
	if err != nil {
		return nil, nil, err
	}

	return completed, result, nil
}
