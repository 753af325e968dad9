package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oathline/oathline/internal/model"
)

type CalendarRepository interface {
	// Upsert writes the entry for a user and date, overwriting any existing
	// entry. Idempotent by (user, date).
	Upsert(entry *model.CalendarEntry) error
	EntriesByUser(userID string) ([]*model.CalendarEntry, error)
}

type calendarRepository struct {
	db *sqlx.DB
}

func NewCalendarRepository(db *sqlx.DB) CalendarRepository {
	return &calendarRepository{db: db}
}

func (r *calendarRepository) Upsert(entry *model.CalendarEntry) error {
	entry.UpdatedAt = time.Now()

	query := `INSERT INTO calendar_entries (user_id, date, worked, journal, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (user_id, date)
	          DO UPDATE SET worked = excluded.worked, journal = excluded.journal, updated_at = excluded.updated_at`

	_, err := r.db.Exec(query,
		entry.UserID,
		entry.Date,
		entry.Worked,
		entry.Journal,
		entry.UpdatedAt,
	)

	return err
}

func (r *calendarRepository) EntriesByUser(userID string) ([]*model.CalendarEntry, error) {
	var entries []*model.CalendarEntry
	query := `SELECT * FROM calendar_entries WHERE user_id = $1 ORDER BY date DESC`

	err := r.db.Select(&entries, query, userID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
