package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service duration bounds in minutes.
const (
	MinServiceDuration = 1
	MaxServiceDuration = 1440
)

type Service struct {
	ID              uuid.UUID
	Name            string
	Price           decimal.Decimal
	DurationMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Employee and the set of services they are capable of performing.
// ServiceIDs is populated by the listing queries; capability-filtered
// lookups return it empty.
type Employee struct {
	ID         uuid.UUID
	Name       string
	ServiceIDs []uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TotalDuration sums service durations in minutes. Zero for an empty map;
// callers reject empty service selections before resolving durations.
func TotalDuration(durations map[uuid.UUID]int) int {
	total := 0
	for _, d := range durations {
		total += d
	}
	return total
}
