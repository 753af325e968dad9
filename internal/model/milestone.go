package model

import (
	"time"
)

const (
	MilestoneStatusPending   = "pending"
	MilestoneStatusLocked    = "locked"
	MilestoneStatusCompleted = "completed"
	MilestoneStatusBroken    = "broken"
)

type Milestone struct {
	ID           string     `db:"id"`
	GoalID       string     `db:"goal_id"`
	UserID       string     `db:"user_id"`
	Number       int        `db:"number"`
	Title        string     `db:"title"`
	Status       string     `db:"status"`
	PromiseText  *string    `db:"promise_text"`
	Deadline     *time.Time `db:"deadline"`
	Consequence  *string    `db:"consequence"`
	LockedAt     *time.Time `db:"locked_at"`
	WitnessCount int        `db:"witness_count"`
	ShareToken   *string    `db:"share_token"`
	Reason       *string    `db:"reason"`
	CompletedAt  *time.Time `db:"completed_at"`
	BrokenAt     *time.Time `db:"broken_at"`
	CreatedAt    time.Time  `db:"created_at"`
}

// Resolved reports whether the milestone has reached a terminal state.
func (m *Milestone) Resolved() bool {
	return m.Status == MilestoneStatusCompleted || m.Status == MilestoneStatusBroken
}
