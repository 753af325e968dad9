package service

import (
	"fmt"
	"log/slog"

	"github.com/oathline/oathline/internal/model"
	"github.com/oathline/oathline/internal/repository"
	"github.com/oathline/oathline/internal/scoring"
)

// IntegrityService applies scoring outcomes to a user: it computes the new
// score and streak through the pure policy, persists both together with the
// ledger record in one transaction, and reports any tier boundary crossing.
type IntegrityService struct {
	userRepo      repository.UserRepository
	integrityRepo repository.IntegrityRepository
}

func NewIntegrityService(userRepo repository.UserRepository, integrityRepo repository.IntegrityRepository) *IntegrityService {
	return &IntegrityService{
		userRepo:      userRepo,
		integrityRepo: integrityRepo,
	}
}

// ApplyResult is what one scoring event did to the user.
type ApplyResult struct {
	User       *model.User
	Record     *model.IntegrityRecord
	TierChange *scoring.TierChange
}

func (s *IntegrityService) Apply(userID string, outcome scoring.Outcome, milestoneID, goalID *string) (*ApplyResult, error) {
	user, err := s.userRepo.ByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	result := scoring.ApplyOutcome(user.IntegrityScore, user.FailureStreak, outcome)

	record := &model.IntegrityRecord{
		UserID:        user.ID,
		PreviousScore: user.IntegrityScore,
		NewScore:      result.NewScore,
		Change:        result.Change,
		Reason:        string(outcome),
		FailureStreak: result.NewFailureStreak,
		MilestoneID:   milestoneID,
		GoalID:        goalID,
	}

	err = s.integrityRepo.ApplyEvent(record)
	if err != nil {
		return nil, fmt.Errorf("failed to record integrity event: %w", err)
	}

	tierChange := scoring.DetectChange(user.IntegrityScore, result.NewScore)
	if tierChange != nil {
		slog.Info("tier changed",
			"user_id", user.ID,
			"old_tier", tierChange.OldTier.String(),
			"new_tier", tierChange.NewTier.String(),
			"up", tierChange.Up,
		)
	}

	user.IntegrityScore = result.NewScore
	user.FailureStreak = result.NewFailureStreak

	return &ApplyResult{
		User:       user,
		Record:     record,
		TierChange: tierChange,
	}, nil
}

func (s *IntegrityService) History(userID string, limit int) ([]*model.IntegrityRecord, error) {
	return s.integrityRepo.History(userID, limit)
}
