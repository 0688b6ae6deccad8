package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Appointment is one row of the booking ledger plus its service line items.
// EndTime is derived from the attached services (start plus the sum of
// their durations); it is never stored.
type Appointment struct {
	ID           uuid.UUID
	CustomerID   uuid.UUID
	EmployeeID   uuid.UUID
	StartTime    time.Time
	EndTime      time.Time
	IsApproved   bool
	ApprovalDate *time.Time
	ServiceIDs   []uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EmployeeAvailability is one row of the availability listing.
type EmployeeAvailability struct {
	EmployeeID uuid.UUID
	Name       string
	Available  bool
}

// EmployeeEarnings is one row of the revenue report.
type EmployeeEarnings struct {
	EmployeeName string
	Total        decimal.Decimal
}
