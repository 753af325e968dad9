package handler

import (
	"time"

	"github.com/oathline/oathline/internal/model"
	"github.com/oathline/oathline/internal/scoring"
)

type userResponse struct {
	ID             string  `json:"id"`
	Email          *string `json:"email,omitempty"`
	IsGuest        bool    `json:"isGuest"`
	IntegrityScore int     `json:"integrityScore"`
	FailureStreak  int     `json:"failureStreak"`
	Tier           string  `json:"tier"`
}

func newUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:             user.ID,
		Email:          user.Email,
		IsGuest:        user.IsGuest,
		IntegrityScore: user.IntegrityScore,
		FailureStreak:  user.FailureStreak,
		Tier:           scoring.Classify(user.IntegrityScore).String(),
	}
}

type goalResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Status      string           `json:"status"`
	Reflection  *string          `json:"reflection,omitempty"`
	FinalScore  *int             `json:"finalScore,omitempty"`
	Stats       *model.GoalStats `json:"stats,omitempty"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func newGoalResponse(goal *model.Goal) goalResponse {
	resp := goalResponse{
		ID:          goal.ID,
		Title:       goal.Title,
		Status:      goal.Status,
		Reflection:  goal.Reflection,
		FinalScore:  goal.FinalScore,
		CompletedAt: goal.CompletedAt,
		CreatedAt:   goal.CreatedAt,
	}

	if goal.Total != nil && goal.Completed != nil && goal.Broken != nil && goal.SuccessRate != nil {
		resp.Stats = &model.GoalStats{
			Total:       *goal.Total,
			Completed:   *goal.Completed,
			Broken:      *goal.Broken,
			SuccessRate: *goal.SuccessRate,
		}
	}

	return resp
}

type milestoneResponse struct {
	ID           string     `json:"id"`
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	PromiseText  *string    `json:"promiseText,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Consequence  *string    `json:"consequence,omitempty"`
	LockedAt     *time.Time `json:"lockedAt,omitempty"`
	WitnessCount int        `json:"witnessCount"`
	ShareToken   *string    `json:"shareToken,omitempty"`
	Reason       *string    `json:"reason,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	BrokenAt     *time.Time `json:"brokenAt,omitempty"`
}

func newMilestoneResponse(m *model.Milestone) milestoneResponse {
	return milestoneResponse{
		ID:           m.ID,
		Number:       m.Number,
		Title:        m.Title,
		Status:       m.Status,
		PromiseText:  m.PromiseText,
		Deadline:     m.Deadline,
		Consequence:  m.Consequence,
		LockedAt:     m.LockedAt,
		WitnessCount: m.WitnessCount,
		ShareToken:   m.ShareToken,
		Reason:       m.Reason,
		CompletedAt:  m.CompletedAt,
		BrokenAt:     m.BrokenAt,
	}
}

func newMilestoneResponses(milestones []*model.Milestone) []milestoneResponse {
	out := make([]milestoneResponse, 0, len(milestones))
	for _, m := range milestones {
		out = append(out, newMilestoneResponse(m))
	}
	return out
}

type tierChangeResponse struct {
	Direction   string `json:"direction"`
	OldTier     string `json:"oldTier"`
	NewTier     string `json:"newTier"`
	ScoreChange int    `json:"scoreChange"`
}

func newTierChangeResponse(tc *scoring.TierChange) *tierChangeResponse {
	if tc == nil {
		return nil
	}
	direction := "down"
	if tc.Up {
		direction = "up"
	}
	return &tierChangeResponse{
		Direction:   direction,
		OldTier:     tc.OldTier.String(),
		NewTier:     tc.NewTier.String(),
		ScoreChange: tc.ScoreChange,
	}
}
