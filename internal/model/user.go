package model

import (
	"time"
)

// StartingScore is the integrity score assigned to every new user,
// guest or credentialed.
const StartingScore = 50

type User struct {
	ID             string    `db:"id"`
	Email          *string   `db:"email"` // Nullable for guest users
	PasswordHash   *string   `db:"password_hash"`
	IsGuest        bool      `db:"is_guest"`
	IntegrityScore int       `db:"integrity_score"`
	FailureStreak  int       `db:"failure_streak"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
