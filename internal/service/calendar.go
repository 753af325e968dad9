package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/oathline/oathline/internal/model"
	"github.com/oathline/oathline/internal/repository"
)

var (
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
)

// CalendarService stores day-by-day journal entries and derives the
// consecutive-days-worked streak from them.
type CalendarService struct {
	repo         repository.CalendarRepository
	lookbackDays int
}

func NewCalendarService(repo repository.CalendarRepository, lookbackDays int) *CalendarService {
	if lookbackDays <= 0 {
		lookbackDays = 365
	}
	return &CalendarService{
		repo:         repo,
		lookbackDays: lookbackDays,
	}
}

// SetEntry writes the entry for a date, overwriting any previous one.
func (s *CalendarService) SetEntry(userID, date string, worked *bool, journal string) (*model.CalendarEntry, error) {
	_, err := time.Parse(model.CalendarDateLayout, date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	entry := &model.CalendarEntry{
		UserID:  userID,
		Date:    date,
		Worked:  worked,
		Journal: journal,
	}

	err = s.repo.Upsert(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to save calendar entry: %w", err)
	}

	return entry, nil
}

func (s *CalendarService) Entries(userID string) ([]*model.CalendarEntry, error) {
	return s.repo.EntriesByUser(userID)
}

// Streak computes the user's current consecutive-day streak as of today.
func (s *CalendarService) Streak(userID string, today time.Time) (int, error) {
	entries, err := s.repo.EntriesByUser(userID)
	if err != nil {
		return 0, err
	}

	worked := make(map[string]*bool, len(entries))
	for _, e := range entries {
		worked[e.Date] = e.Worked
	}

	return CalculateStreak(worked, today, s.lookbackDays), nil
}

// CalculateStreak walks backward from today one day at a time over a sparse
// date -> worked map (nil value or missing key both mean "no entry"):
//
//   - worked true counts the day and continues,
//   - worked false stops immediately (that day does not count),
//   - no entry stops the walk, except on the very first day examined
//     (today), where the walk continues to yesterday without counting.
//
// The day-0 exception keeps a streak intact on a day the user simply has
// not logged yet. The walk is bounded by lookbackDays to guarantee
// termination.
func CalculateStreak(worked map[string]*bool, today time.Time, lookbackDays int) int {
	streak := 0

	for i := 0; i < lookbackDays; i++ {
		day := today.AddDate(0, 0, -i).Format(model.CalendarDateLayout)
		w, ok := worked[day]

		if !ok || w == nil {
			if i == 0 {
				continue
			}
			break
		}

		if !*w {
			break
		}

		streak++
	}

	return streak
}
