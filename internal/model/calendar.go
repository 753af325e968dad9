package model

import (
	"time"
)

// CalendarDateLayout is the canonical key format for calendar entries.
const CalendarDateLayout = "2006-01-02"

// CalendarEntry is one day's journal record. Worked is nil when the user
// has not marked the day either way.
type CalendarEntry struct {
	UserID    string    `db:"user_id"`
	Date      string    `db:"date"` // YYYY-MM-DD
	Worked    *bool     `db:"worked"`
	Journal   string    `db:"journal"`
	UpdatedAt time.Time `db:"updated_at"`
}
