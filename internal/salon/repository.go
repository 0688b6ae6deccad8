package salon

import (
	"context"
	"errors"
)

var (
	ErrSalonNotFound = errors.New("salon not found")
	ErrInvalidWindow = errors.New("salon must open before it closes")
)

// Repository stores the single salon row.
type Repository interface {
	// Get returns the salon, creating it with the default window on first
	// access if no row exists yet.
	Get(ctx context.Context) (*Salon, error)
	Update(ctx context.Context, name string, opensAt, closesAt int) (*Salon, error)
}

// ValidateWindow checks the opening-hours invariant. Times are minutes
// since midnight, so the whole window stays within one day.
func ValidateWindow(opensAt, closesAt int) error {
	if opensAt < 0 || closesAt > 24*60 || opensAt >= closesAt {
		return ErrInvalidWindow
	}
	return nil
}
