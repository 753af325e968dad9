package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oathline/oathline/internal/model"
)

var (
	ErrMilestoneNotFound = errors.New("milestone not found")
)

type MilestoneRepository interface {
	Create(milestone *model.Milestone) error
	ByID(userID, milestoneID string) (*model.Milestone, error)
	ByGoal(goalID string) ([]*model.Milestone, error)
	ByShareToken(token string) (*model.Milestone, error)
	HasLocked(userID string) (bool, error)
	UpdateTitle(userID, milestoneID, title string) error
	Delete(userID, milestoneID string) error
	Renumber(goalID string) error
	Lock(milestoneID, promiseText string, deadline time.Time, consequence, shareToken string, lockedAt time.Time) error
	Complete(milestoneID string, completedAt time.Time) error
	Break(milestoneID, reason string, brokenAt time.Time) error
	// ReopenToLocked reverts a just-resolved milestone back to locked. Only
	// used to roll back a transition whose score application failed.
	ReopenToLocked(milestoneID string) error
	AddWitness(milestoneID string) (int, error)
}

type milestoneRepository struct {
	db *sqlx.DB
}

func NewMilestoneRepository(db *sqlx.DB) MilestoneRepository {
	return &milestoneRepository{db: db}
}

func (r *milestoneRepository) Create(milestone *model.Milestone) error {
	query := `INSERT INTO milestones (id, goal_id, user_id, number, title, status, witness_count, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		milestone.ID,
		milestone.GoalID,
		milestone.UserID,
		milestone.Number,
		milestone.Title,
		milestone.Status,
		milestone.WitnessCount,
		milestone.CreatedAt,
	)

	return err
}

func (r *milestoneRepository) ByID(userID, milestoneID string) (*model.Milestone, error) {
	milestone := &model.Milestone{}
	query := `SELECT * FROM milestones WHERE id = $1 AND user_id = $2`

	err := r.db.Get(milestone, query, milestoneID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrMilestoneNotFound
	}

	return milestone, err
}

func (r *milestoneRepository) ByGoal(goalID string) ([]*model.Milestone, error) {
	var milestones []*model.Milestone
	query := `SELECT * FROM milestones WHERE goal_id = $1 ORDER BY number ASC`

	err := r.db.Select(&milestones, query, goalID)
	if err != nil {
		return nil, err
	}

	return milestones, nil
}

func (r *milestoneRepository) ByShareToken(token string) (*model.Milestone, error) {
	milestone := &model.Milestone{}
	query := `SELECT * FROM milestones WHERE share_token = $1`

	err := r.db.Get(milestone, query, token)
	if err == sql.ErrNoRows {
		return nil, ErrMilestoneNotFound
	}

	return milestone, err
}

func (r *milestoneRepository) HasLocked(userID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM milestones WHERE user_id = $1 AND status = $2`

	err := r.db.QueryRow(query, userID, model.MilestoneStatusLocked).Scan(&count)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *milestoneRepository) UpdateTitle(userID, milestoneID, title string) error {
	query := `UPDATE milestones SET title = $1 WHERE id = $2 AND user_id = $3 AND status = $4`

	result, err := r.db.Exec(query, title, milestoneID, userID, model.MilestoneStatusPending)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrMilestoneNotFound
	}

	return nil
}

func (r *milestoneRepository) Delete(userID, milestoneID string) error {
	query := `DELETE FROM milestones WHERE id = $1 AND user_id = $2 AND status = $3`

	result, err := r.db.Exec(query, milestoneID, userID, model.MilestoneStatusPending)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrMilestoneNotFound
	}

	return nil
}

// Renumber rewrites the goal's milestone numbers into a dense 1..N sequence,
// preserving relative order. Called after a pending milestone is deleted.
func (r *milestoneRepository) Renumber(goalID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rows, err := tx.Query(`SELECT id FROM milestones WHERE goal_id = $1 ORDER BY number ASC`, goalID)
	if err != nil {
		return err
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for i, id := range ids {
		_, err := tx.Exec(`UPDATE milestones SET number = $1 WHERE id = $2`, i+1, id)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Lock guards on pending status in the WHERE clause so a milestone can only
// be locked once even under concurrent callers.
func (r *milestoneRepository) Lock(milestoneID, promiseText string, deadline time.Time, consequence, shareToken string, lockedAt time.Time) error {
	query := `UPDATE milestones
	          SET status = $1, promise_text = $2, deadline = $3, consequence = $4,
	              locked_at = $5, witness_count = 0, share_token = $6
	          WHERE id = $7 AND status = $8`

	result, err := r.db.Exec(query,
		model.MilestoneStatusLocked,
		promiseText,
		deadline,
		consequence,
		lockedAt,
		shareToken,
		milestoneID,
		model.MilestoneStatusPending,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrMilestoneNotFound
	}

	return nil
}

func (r *milestoneRepository) Complete(milestoneID string, completedAt time.Time) error {
	query := `UPDATE milestones SET status = $1, completed_at = $2 WHERE id = $3 AND status = $4`

	result, err := r.db.Exec(query,
		model.MilestoneStatusCompleted,
		completedAt,
		milestoneID,
		model.MilestoneStatusLocked,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrMilestoneNotFound
	}

	return nil
}

func (r *milestoneRepository) Break(milestoneID, reason string, brokenAt time.Time) error {
	query := `UPDATE milestones SET status = $1, reason = $2, broken_at = $3 WHERE id = $4 AND status = $5`

	result, err := r.db.Exec(query,
		model.MilestoneStatusBroken,
		reason,
		brokenAt,
		milestoneID,
		model.MilestoneStatusLocked,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrMilestoneNotFound
	}

	return nil
}

func (r *milestoneRepository) ReopenToLocked(milestoneID string) error {
	query := `UPDATE milestones
	          SET status = $1, reason = NULL, completed_at = NULL, broken_at = NULL
	          WHERE id = $2 AND status IN ($3, $4)`

	result, err := r.db.Exec(query,
		model.MilestoneStatusLocked,
		milestoneID,
		model.MilestoneStatusCompleted,
		model.MilestoneStatusBroken,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrMilestoneNotFound
	}

	return nil
}

// AddWitness increments the witness count on a locked milestone and returns
// the new count.
func (r *milestoneRepository) AddWitness(milestoneID string) (int, error) {
	result, err := r.db.Exec(
		`UPDATE milestones SET witness_count = witness_count + 1 WHERE id = $1 AND status = $2`,
		milestoneID,
		model.MilestoneStatusLocked,
	)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if rows == 0 {
		return 0, ErrMilestoneNotFound
	}

	var count int
	err = r.db.QueryRow(`SELECT witness_count FROM milestones WHERE id = $1`, milestoneID).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}
