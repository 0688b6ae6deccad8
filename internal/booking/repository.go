package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all ledger interactions needed by the service.
type Repository interface {
	// For conflict checks: the party's appointments starting on the
	// [dayStart, dayEnd) span, end times derived. Cross-midnight bookings
	// are rejected at creation, so a single day covers every candidate.
	ListForEmployeeOn(ctx context.Context, employeeID uuid.UUID, dayStart, dayEnd time.Time) ([]Appointment, error)
	ListForCustomerOn(ctx context.Context, customerID uuid.UUID, dayStart, dayEnd time.Time) ([]Appointment, error)

	// Create persists the appointment and one line item per service as a
	// single atomic unit.
	Create(ctx context.Context, customerID, employeeID uuid.UUID, start time.Time, serviceIDs []uuid.UUID) (*Appointment, error)

	// Approve marks the appointment approved, keeping the first approval
	// date on re-approval.
	Approve(ctx context.Context, id uuid.UUID, approvedOn time.Time) (*Appointment, error)

	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	List(ctx context.Context) ([]Appointment, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]Appointment, error)

	// EmployeeEarnings folds attached service prices per employee over the
	// whole ledger, optionally restricted to approved appointments.
	EmployeeEarnings(ctx context.Context, approvedOnly bool) ([]EmployeeEarnings, error)
}
