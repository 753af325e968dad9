package model

import (
	"time"
)

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
)

type Goal struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	Title       string     `db:"title"`
	Status      string     `db:"status"`
	Reflection  *string    `db:"reflection"`
	FinalScore  *int       `db:"final_score"`
	Total       *int       `db:"total"`
	Completed   *int       `db:"completed_count"`
	Broken      *int       `db:"broken_count"`
	SuccessRate *int       `db:"success_rate"`
	CompletedAt *time.Time `db:"completed_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

// GoalStats is the resolved-milestone summary computed when a goal completes.
// SuccessRate is a rounded percentage of completed over resolved milestones.
type GoalStats struct {
	Total       int `json:"total"`
	Completed   int `json:"completed"`
	Broken      int `json:"broken"`
	SuccessRate int `json:"successRate"`
}
