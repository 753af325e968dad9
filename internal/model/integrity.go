package model

import (
	"time"
)

// Reason codes for integrity history records.
const (
	ReasonPromiseKept   = "PROMISE_KEPT"
	ReasonPromiseBroken = "PROMISE_BROKEN"
	ReasonGoalCompleted = "GOAL_COMPLETED"
)

// IntegrityRecord is one append-only entry in the integrity ledger.
// Records are never updated or deleted; PreviousScore + Change always
// equals NewScore, so the ledger replays to the current score exactly.
type IntegrityRecord struct {
	ID            string    `db:"id"`
	UserID        string    `db:"user_id"`
	PreviousScore int       `db:"previous_score"`
	NewScore      int       `db:"new_score"`
	Change        int       `db:"change"`
	Reason        string    `db:"reason"`
	FailureStreak int       `db:"failure_streak"`
	MilestoneID   *string   `db:"milestone_id"`
	GoalID        *string   `db:"goal_id"`
	CreatedAt     time.Time `db:"created_at"`
}
