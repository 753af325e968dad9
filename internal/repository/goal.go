package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oathline/oathline/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(userID, goalID string) (*model.Goal, error)
	ActiveByUser(userID string) (*model.Goal, error)
	CompletedByUser(userID string) ([]*model.Goal, error)
	MarkCompleted(goal *model.Goal, reflection string, finalScore int, stats model.GoalStats) error
	// ReopenActive reverts a just-completed goal back to active. Only used
	// to roll back a completion whose score application failed.
	ReopenActive(userID, goalID string) error
	DeleteWithMilestones(userID, goalID string) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, title, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Status,
		goal.CreatedAt,
		goal.UpdatedAt,
	)

	return err
}

func (r *goalRepository) ByID(userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.Get(goal, query, goalID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

func (r *goalRepository) ActiveByUser(userID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE user_id = $1 AND status = $2`

	err := r.db.Get(goal, query, userID, model.GoalStatusActive)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}

	return goal, err
}

func (r *goalRepository) CompletedByUser(userID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE user_id = $1 AND status = $2 ORDER BY completed_at DESC`

	err := r.db.Select(&goals, query, userID, model.GoalStatusCompleted)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

// MarkCompleted archives the goal in place: status flips to completed and the
// reflection, final score and stats are frozen onto the row.
func (r *goalRepository) MarkCompleted(goal *model.Goal, reflection string, finalScore int, stats model.GoalStats) error {
	now := time.Now()
	query := `UPDATE goals
	          SET status = $1, reflection = $2, final_score = $3,
	              total = $4, completed_count = $5, broken_count = $6, success_rate = $7,
	              completed_at = $8, updated_at = $9
	          WHERE id = $10 AND user_id = $11 AND status = $12`

	result, err := r.db.Exec(query,
		model.GoalStatusCompleted,
		reflection,
		finalScore,
		stats.Total,
		stats.Completed,
		stats.Broken,
		stats.SuccessRate,
		now,
		now,
		goal.ID,
		goal.UserID,
		model.GoalStatusActive,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func (r *goalRepository) ReopenActive(userID, goalID string) error {
	query := `UPDATE goals
	          SET status = $1, reflection = NULL, final_score = NULL,
	              total = NULL, completed_count = NULL, broken_count = NULL, success_rate = NULL,
	              completed_at = NULL, updated_at = $2
	          WHERE id = $3 AND user_id = $4 AND status = $5`

	result, err := r.db.Exec(query,
		model.GoalStatusActive,
		time.Now(),
		goalID,
		userID,
		model.GoalStatusCompleted,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

// DeleteWithMilestones discards a replaced active goal and everything under
// it. Archiving only happens through MarkCompleted, never here.
func (r *goalRepository) DeleteWithMilestones(userID, goalID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM milestones WHERE goal_id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return err
	}

	result, err := tx.Exec(`DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return tx.Commit()
}
