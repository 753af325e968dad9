package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/oathline/oathline/internal/model"
)

var (
	ErrScoreConflict = errors.New("score changed since it was read")
)

// IntegrityRepository is the write side of the integrity ledger. The ledger
// is append-only: there is deliberately no update or delete operation on
// history records.
type IntegrityRepository interface {
	// ApplyEvent persists a scoring event atomically: the user's score and
	// streak move to the record's new values and the history record is
	// appended, in one transaction. The update is guarded on the record's
	// previous score so a concurrent writer cannot interleave.
	ApplyEvent(record *model.IntegrityRecord) error
	History(userID string, limit int) ([]*model.IntegrityRecord, error)
}

type integrityRepository struct {
	db *sqlx.DB
}

func NewIntegrityRepository(db *sqlx.DB) IntegrityRepository {
	return &integrityRepository{db: db}
}

func (r *integrityRepository) ApplyEvent(record *model.IntegrityRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE users SET integrity_score = $1, failure_streak = $2, updated_at = $3
		 WHERE id = $4 AND integrity_score = $5`,
		record.NewScore,
		record.FailureStreak,
		record.CreatedAt,
		record.UserID,
		record.PreviousScore,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		// Either the user is gone or the score moved under us.
		return ErrScoreConflict
	}

	_, err = tx.Exec(
		`INSERT INTO integrity_history (id, user_id, previous_score, new_score, change, reason, failure_streak, milestone_id, goal_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		record.ID,
		record.UserID,
		record.PreviousScore,
		record.NewScore,
		record.Change,
		record.Reason,
		record.FailureStreak,
		record.MilestoneID,
		record.GoalID,
		record.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *integrityRepository) History(userID string, limit int) ([]*model.IntegrityRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var records []*model.IntegrityRecord
	query := `SELECT * FROM integrity_history WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`

	err := r.db.Select(&records, query, userID, limit)
	if err != nil {
		return nil, err
	}

	return records, nil
}
