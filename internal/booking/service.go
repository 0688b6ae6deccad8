package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/glowbook/salon-booking/internal/catalog"
	"github.com/glowbook/salon-booking/internal/config"
	"github.com/glowbook/salon-booking/internal/identity"
	redisclient "github.com/glowbook/salon-booking/internal/redis"
	"github.com/glowbook/salon-booking/internal/salon"
)

// listingProbeMinutes is the deliberately coarse window the availability
// listing probes from the requested start. Final booking validation is
// duration-exact; the listing only has to be a conservative pre-filter.
const listingProbeMinutes = 480

var (
	ErrNoServices           = errors.New("at least one service must be selected")
	ErrPastDate             = errors.New("appointment start must be in the future")
	ErrSpansMidnight        = errors.New("appointment must start and end on the same day")
	ErrOutsideSalonHours    = errors.New("appointment falls outside salon working hours")
	ErrEmployeeNotCapable   = errors.New("employee cannot perform every selected service")
	ErrCustomerDoubleBooked = errors.New("customer already has an overlapping appointment")
	ErrEmployeeUnavailable  = errors.New("employee already has an overlapping appointment")
	ErrBookingContended     = errors.New("booking is being processed for this employee or customer, please retry")
	ErrPermissionDenied     = errors.New("operation requires the admin role")
	ErrStorageUnavailable   = errors.New("storage unavailable")
)

// CatalogReader is the slice of the catalog the engine consumes.
type CatalogReader interface {
	ServiceDurations(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)
	EmployeesCapableOf(ctx context.Context, ids []uuid.UUID) ([]catalog.Employee, error)
}

// SalonStore provides the current working-hours window.
type SalonStore interface {
	Get(ctx context.Context) (*salon.Salon, error)
}

type Service struct {
	repo    Repository
	catalog CatalogReader
	salon   SalonStore
	locker  redisclient.Locker
	cfg     config.Config
	now     func() time.Time
}

func NewService(repo Repository, cat CatalogReader, store SalonStore, locker redisclient.Locker, cfg config.Config) *Service {
	return &Service{
		repo:    repo,
		catalog: cat,
		salon:   store,
		locker:  locker,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Book validates the requested appointment end to end and, if every check
// passes, persists it atomically. The double-booking checks and the insert
// run under a lock held for both the employee and the customer, so two
// concurrent requests cannot both pass the free checks and commit.
func (s *Service) Book(ctx context.Context, principal identity.Principal, employeeID uuid.UUID, serviceIDs []uuid.UUID, start time.Time) (*Appointment, error) {
	serviceIDs = dedupe(serviceIDs)
	if len(serviceIDs) == 0 {
		return nil, ErrNoServices
	}

	durations, err := s.catalog.ServiceDurations(ctx, serviceIDs)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve services: %w", err)
	}

	if !start.After(s.now()) {
		return nil, ErrPastDate
	}

	end := start.Add(time.Duration(catalog.TotalDuration(durations)) * time.Minute)
	if !sameDay(start, end) {
		return nil, ErrSpansMidnight
	}

	sal, err := s.salon.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load salon: %w", err)
	}
	if !sal.Window().Contains(start, end) {
		return nil, ErrOutsideSalonHours
	}

	capable, err := s.catalog.EmployeesCapableOf(ctx, serviceIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve capable employees: %w", err)
	}
	if !containsEmployee(capable, employeeID) {
		return nil, ErrEmployeeNotCapable
	}

	var created *Appointment

	err = s.locker.WithBookingLock(ctx, employeeID, principal.CustomerID, func(lockCtx context.Context) error {
		free, err := s.IsCustomerFree(lockCtx, principal.CustomerID, start, end)
		if err != nil {
			return err
		}
		if !free {
			return ErrCustomerDoubleBooked
		}

		free, err = s.IsEmployeeFree(lockCtx, employeeID, start, end)
		if err != nil {
			return err
		}
		if !free {
			return ErrEmployeeUnavailable
		}

		appt, err := s.repo.Create(lockCtx, principal.CustomerID, employeeID, start, serviceIDs)
		if err != nil {
			// Never retried: a blind retry after a half-seen failure could
			// double-book.
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}

		created = appt
		return nil
	})
	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrBookingContended
		}
		return nil, err
	}

	return created, nil
}

// IsEmployeeFree reports whether the employee has no appointment whose
// derived [start, end) span overlaps the given one.
func (s *Service) IsEmployeeFree(ctx context.Context, employeeID uuid.UUID, start, end time.Time) (bool, error) {
	appts, err := s.listEmployeeDay(ctx, employeeID, start)
	if err != nil {
		return false, err
	}
	return noneOverlap(appts, start, end), nil
}

// IsCustomerFree is the same check scoped to the customer's own ledger. It
// also backs the interactive pre-check the booking form runs before submit,
// so the window is validated here rather than trusted: the day-bounded scan
// below would miss next-day appointments for a window crossing midnight.
func (s *Service) IsCustomerFree(ctx context.Context, customerID uuid.UUID, start, end time.Time) (bool, error) {
	if !sameDay(start, end) {
		return false, ErrSpansMidnight
	}

	appts, err := s.listCustomerDay(ctx, customerID, start)
	if err != nil {
		return false, err
	}
	return noneOverlap(appts, start, end), nil
}

// AvailableEmployees lists the employees capable of every requested service
// together with a coarse availability flag probed over a fixed
// listingProbeMinutes window from start. Ordering is unspecified.
func (s *Service) AvailableEmployees(ctx context.Context, serviceIDs []uuid.UUID, start time.Time) ([]EmployeeAvailability, error) {
	serviceIDs = dedupe(serviceIDs)
	if len(serviceIDs) == 0 {
		return nil, ErrNoServices
	}

	capable, err := s.catalog.EmployeesCapableOf(ctx, serviceIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve capable employees: %w", err)
	}

	probeEnd := start.Add(listingProbeMinutes * time.Minute)

	result := make([]EmployeeAvailability, 0, len(capable))
	for _, e := range capable {
		free, err := s.IsEmployeeFree(ctx, e.ID, start, probeEnd)
		if err != nil {
			return nil, err
		}
		result = append(result, EmployeeAvailability{
			EmployeeID: e.ID,
			Name:       e.Name,
			Available:  free,
		})
	}

	return result, nil
}

// Approve marks an appointment approved, stamping the approval date at day
// granularity. Re-approving an already approved appointment is a no-op
// returning the approved row.
func (s *Service) Approve(ctx context.Context, principal identity.Principal, id uuid.UUID) (*Appointment, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	now := s.now()
	approvedOn := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	appt, err := s.repo.Approve(ctx, id, approvedOn)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return appt, nil
}

// ListAppointments returns the whole ledger for the admin approval queue.
func (s *Service) ListAppointments(ctx context.Context, principal identity.Principal) ([]Appointment, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	appts, err := s.repo.List(ctx)
	if err != nil && ctx.Err() == nil {
		appts, err = s.repo.List(ctx)
	}
	return appts, err
}

// CustomerAppointments returns the acting customer's own bookings.
func (s *Service) CustomerAppointments(ctx context.Context, principal identity.Principal) ([]Appointment, error) {
	appts, err := s.repo.ListForCustomer(ctx, principal.CustomerID)
	if err != nil && ctx.Err() == nil {
		appts, err = s.repo.ListForCustomer(ctx, principal.CustomerID)
	}
	return appts, err
}

// EmployeeEarnings reports revenue per employee. Unapproved appointments
// count unless EARNINGS_APPROVED_ONLY is set.
func (s *Service) EmployeeEarnings(ctx context.Context, principal identity.Principal) ([]EmployeeEarnings, error) {
	if !principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}

	rows, err := s.repo.EmployeeEarnings(ctx, s.cfg.EarningsApprovedOnly)
	if err != nil && ctx.Err() == nil {
		rows, err = s.repo.EmployeeEarnings(ctx, s.cfg.EarningsApprovedOnly)
	}
	return rows, err
}

// Idempotent reads get one transparent retry; the conflict-check day scans
// below feed the booking commit, where a stale answer is caught by the lock.

func (s *Service) listEmployeeDay(ctx context.Context, employeeID uuid.UUID, on time.Time) ([]Appointment, error) {
	dayStart, dayEnd := dayBounds(on)
	appts, err := s.repo.ListForEmployeeOn(ctx, employeeID, dayStart, dayEnd)
	if err != nil && ctx.Err() == nil {
		appts, err = s.repo.ListForEmployeeOn(ctx, employeeID, dayStart, dayEnd)
	}
	return appts, err
}

func (s *Service) listCustomerDay(ctx context.Context, customerID uuid.UUID, on time.Time) ([]Appointment, error) {
	dayStart, dayEnd := dayBounds(on)
	appts, err := s.repo.ListForCustomerOn(ctx, customerID, dayStart, dayEnd)
	if err != nil && ctx.Err() == nil {
		appts, err = s.repo.ListForCustomerOn(ctx, customerID, dayStart, dayEnd)
	}
	return appts, err
}

func noneOverlap(appts []Appointment, start, end time.Time) bool {
	for _, a := range appts {
		if overlaps(a.StartTime, a.EndTime, start, end) {
			return false
		}
	}
	return true
}

func containsEmployee(employees []catalog.Employee, id uuid.UUID) bool {
	for _, e := range employees {
		if e.ID == id {
			return true
		}
	}
	return false
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
