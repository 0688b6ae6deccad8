package salon

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Defaults applied when the salon row is lazily created.
const (
	DefaultName     = "Salon"
	DefaultOpensAt  = 8 * 60  // 08:00
	DefaultClosesAt = 20 * 60 // 20:00
)

// Salon is the single salon this deployment serves. Opening times are
// minutes since midnight, with OpensAt < ClosesAt.
type Salon struct {
	ID        uuid.UUID
	Name      string
	OpensAt   int
	ClosesAt  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Salon) Window() Window {
	return Window{OpensAt: s.OpensAt, ClosesAt: s.ClosesAt}
}

// Window is a daily working-hours span in minutes since midnight.
type Window struct {
	OpensAt  int
	ClosesAt int
}

// Contains reports whether the span [start, end) falls inside the window,
// comparing time of day only. An appointment ending exactly at closing time
// is allowed. Both instants must lie on the same calendar day; callers
// reject cross-midnight spans before asking.
func (w Window) Contains(start, end time.Time) bool {
	return secondOfDay(start) >= w.OpensAt*60 && secondOfDay(end) <= w.ClosesAt*60
}

func secondOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
