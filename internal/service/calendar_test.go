package service

import (
	"errors"
	"testing"
	"time"

	"github.com/oathline/oathline/internal/model"
)

func day(today time.Time, offset int) string {
	return today.AddDate(0, 0, offset).Format(model.CalendarDateLayout)
}

func boolPtr(b bool) *bool {
	return &b
}

func TestCalculateStreak(t *testing.T) {
	today := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		worked map[string]*bool
		want   int
	}{
		{
			name:   "empty calendar",
			worked: map[string]*bool{},
			want:   0,
		},
		{
			name: "today worked",
			worked: map[string]*bool{
				day(today, 0): boolPtr(true),
			},
			want: 1,
		},
		{
			name: "three consecutive days",
			worked: map[string]*bool{
				day(today, 0):  boolPtr(true),
				day(today, -1): boolPtr(true),
				day(today, -2): boolPtr(true),
			},
			want: 3,
		},
		{
			name: "today not yet logged keeps the streak",
			worked: map[string]*bool{
				day(today, -1): boolPtr(true),
				day(today, -2): boolPtr(true),
			},
			want: 2,
		},
		{
			name: "gap before yesterday ends the streak",
			worked: map[string]*bool{
				day(today, 0):  boolPtr(true),
				day(today, -2): boolPtr(true),
				day(today, -3): boolPtr(true),
			},
			want: 1,
		},
		{
			name: "explicit skip today breaks the streak",
			worked: map[string]*bool{
				day(today, 0):  boolPtr(false),
				day(today, -1): boolPtr(true),
				day(today, -2): boolPtr(true),
			},
			want: 0,
		},
		{
			name: "explicit skip yesterday breaks even with today worked",
			worked: map[string]*bool{
				day(today, 0):  boolPtr(true),
				day(today, -1): boolPtr(false),
				day(today, -2): boolPtr(true),
			},
			want: 1,
		},
		{
			name: "nil entry counts as no entry",
			worked: map[string]*bool{
				day(today, 0):  nil,
				day(today, -1): boolPtr(true),
			},
			want: 1,
		},
		{
			name: "nil entry mid-streak ends it",
			worked: map[string]*bool{
				day(today, 0):  boolPtr(true),
				day(today, -1): nil,
				day(today, -2): boolPtr(true),
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateStreak(tt.worked, today, 365)
			if got != tt.want {
				t.Errorf("CalculateStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateStreakBoundedByLookback(t *testing.T) {
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	worked := map[string]*bool{}
	for i := 0; i < 500; i++ {
		worked[day(today, -i)] = boolPtr(true)
	}

	got := CalculateStreak(worked, today, 365)
	if got != 365 {
		t.Errorf("CalculateStreak() = %d, want lookback cap of 365", got)
	}
}

func TestSetEntryRejectsBadDates(t *testing.T) {
	svc := NewCalendarService(&mockCalendarRepo{}, 365)

	for _, date := range []string{"", "2026-3-1", "03/10/2026", "tomorrow", "2026-03-10T00:00:00Z"} {
		_, err := svc.SetEntry("u1", date, boolPtr(true), "")
		if !errors.Is(err, ErrInvalidDate) {
			t.Errorf("SetEntry(%q) error = %v, want ErrInvalidDate", date, err)
		}
	}
}

func TestSetEntryOverwrites(t *testing.T) {
	var saved *model.CalendarEntry
	repo := &mockCalendarRepo{
		upsertFunc: func(entry *model.CalendarEntry) error {
			saved = entry
			return nil
		},
	}
	svc := NewCalendarService(repo, 365)

	entry, err := svc.SetEntry("u1", "2026-03-10", boolPtr(false), "rest day")
	if err != nil {
		t.Fatalf("SetEntry() error = %v", err)
	}
	if saved == nil {
		t.Fatal("entry was not persisted")
	}
	if entry.Worked == nil || *entry.Worked {
		t.Error("Worked should be false")
	}
	if entry.Journal != "rest day" {
		t.Errorf("Journal = %q", entry.Journal)
	}
}

func TestStreakFromRepository(t *testing.T) {
	today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	repo := &mockCalendarRepo{
		entriesByUserFunc: func(userID string) ([]*model.CalendarEntry, error) {
			return []*model.CalendarEntry{
				{UserID: userID, Date: day(today, 0), Worked: boolPtr(true)},
				{UserID: userID, Date: day(today, -1), Worked: boolPtr(true)},
				{UserID: userID, Date: day(today, -3), Worked: boolPtr(true)},
			}, nil
		},
	}
	svc := NewCalendarService(repo, 365)

	got, err := svc.Streak("u1", today)
	if err != nil {
		t.Fatalf("Streak() error = %v", err)
	}
	if got != 2 {
		t.Errorf("Streak() = %d, want 2", got)
	}
}
