package service

import (
	"sync"
)

// UserLocks serializes goal and milestone mutations per user. Invariant
// checks (single active goal, single locked promise) read state and then
// mutate it, so two concurrent callers for the same user must not overlap.
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewUserLocks() *UserLocks {
	return &UserLocks{
		locks: make(map[string]*userLock),
	}
}

// Acquire blocks until the user's lock is held and returns the release func.
func (l *UserLocks) Acquire(userID string) func() {
	l.mu.Lock()
	entry, ok := l.locks[userID]
	if !ok {
		entry = &userLock{}
		l.locks[userID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
