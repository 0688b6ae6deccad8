package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glowbook/salon-booking/internal/catalog"
	redisclient "github.com/glowbook/salon-booking/internal/redis"
	"github.com/glowbook/salon-booking/internal/salon"
)

var errStorageDown = errors.New("storage down")

type fakeCatalog struct {
	services  map[uuid.UUID]catalog.Service
	employees []catalog.Employee
}

func (f *fakeCatalog) ServiceDurations(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(ids))
	for _, id := range ids {
		s, ok := f.services[id]
		if !ok {
			return nil, catalog.ErrServiceNotFound
		}
		out[id] = s.DurationMinutes
	}
	return out, nil
}

func (f *fakeCatalog) EmployeesCapableOf(_ context.Context, ids []uuid.UUID) ([]catalog.Employee, error) {
	var out []catalog.Employee
	for _, e := range f.employees {
		if capableOfAll(e, ids) {
			out = append(out, e)
		}
	}
	return out, nil
}

func capableOfAll(e catalog.Employee, ids []uuid.UUID) bool {
	for _, id := range ids {
		found := false
		for _, have := range e.ServiceIDs {
			if have == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type fakeSalonStore struct {
	opensAt  int
	closesAt int
}

func (f *fakeSalonStore) Get(context.Context) (*salon.Salon, error) {
	return &salon.Salon{
		ID:       uuid.New(),
		Name:     salon.DefaultName,
		OpensAt:  f.opensAt,
		ClosesAt: f.closesAt,
	}, nil
}

type fakeLocker struct {
	contended bool
}

func (f *fakeLocker) WithBookingLock(ctx context.Context, _, _ uuid.UUID, fn func(ctx context.Context) error) error {
	if f.contended {
		return redisclient.ErrLockNotAcquired
	}
	return fn(ctx)
}

// fakeLedger keeps appointments in memory and derives end times from the
// fake catalog, just as the SQL layer derives them from the services table.
type fakeLedger struct {
	catalog    *fakeCatalog
	appts      []Appointment
	readFails  int // next N reads fail, for the retry-once behavior
	failCreate bool
}

func (f *fakeLedger) maybeFail() error {
	if f.readFails > 0 {
		f.readFails--
		return errStorageDown
	}
	return nil
}

func (f *fakeLedger) filter(keep func(Appointment) bool) []Appointment {
	var out []Appointment
	for _, a := range f.appts {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (f *fakeLedger) ListForEmployeeOn(_ context.Context, employeeID uuid.UUID, dayStart, dayEnd time.Time) ([]Appointment, error) {
	if err := f.maybeFail(); err != nil {
		return nil, err
	}
	return f.filter(func(a Appointment) bool {
		return a.EmployeeID == employeeID && !a.StartTime.Before(dayStart) && a.StartTime.Before(dayEnd)
	}), nil
}

func (f *fakeLedger) ListForCustomerOn(_ context.Context, customerID uuid.UUID, dayStart, dayEnd time.Time) ([]Appointment, error) {
	if err := f.maybeFail(); err != nil {
		return nil, err
	}
	return f.filter(func(a Appointment) bool {
		return a.CustomerID == customerID && !a.StartTime.Before(dayStart) && a.StartTime.Before(dayEnd)
	}), nil
}

func (f *fakeLedger) Create(ctx context.Context, customerID, employeeID uuid.UUID, start time.Time, serviceIDs []uuid.UUID) (*Appointment, error) {
	if f.failCreate {
		return nil, errStorageDown
	}

	durations, err := f.catalog.ServiceDurations(ctx, serviceIDs)
	if err != nil {
		return nil, err
	}

	a := Appointment{
		ID:         uuid.New(),
		CustomerID: customerID,
		EmployeeID: employeeID,
		StartTime:  start,
		EndTime:    start.Add(time.Duration(catalog.TotalDuration(durations)) * time.Minute),
		ServiceIDs: append([]uuid.UUID(nil), serviceIDs...),
		CreatedAt:  start,
		UpdatedAt:  start,
	}
	f.appts = append(f.appts, a)
	return &a, nil
}

func (f *fakeLedger) Approve(_ context.Context, id uuid.UUID, approvedOn time.Time) (*Appointment, error) {
	for i := range f.appts {
		if f.appts[i].ID == id {
			f.appts[i].IsApproved = true
			if f.appts[i].ApprovalDate == nil {
				d := approvedOn
				f.appts[i].ApprovalDate = &d
			}
			a := f.appts[i]
			return &a, nil
		}
	}
	return nil, ErrAppointmentNotFound
}

func (f *fakeLedger) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	for i := range f.appts {
		if f.appts[i].ID == id {
			a := f.appts[i]
			return &a, nil
		}
	}
	return nil, ErrAppointmentNotFound
}

func (f *fakeLedger) List(context.Context) ([]Appointment, error) {
	if err := f.maybeFail(); err != nil {
		return nil, err
	}
	return append([]Appointment(nil), f.appts...), nil
}

func (f *fakeLedger) ListForCustomer(_ context.Context, customerID uuid.UUID) ([]Appointment, error) {
	if err := f.maybeFail(); err != nil {
		return nil, err
	}
	return f.filter(func(a Appointment) bool { return a.CustomerID == customerID }), nil
}

func (f *fakeLedger) EmployeeEarnings(_ context.Context, approvedOnly bool) ([]EmployeeEarnings, error) {
	if err := f.maybeFail(); err != nil {
		return nil, err
	}

	var out []EmployeeEarnings
	for _, e := range f.catalog.employees {
		total := decimal.Zero
		for _, a := range f.appts {
			if a.EmployeeID != e.ID {
				continue
			}
			if approvedOnly && !a.IsApproved {
				continue
			}
			for _, sid := range a.ServiceIDs {
				total = total.Add(f.catalog.services[sid].Price)
			}
		}
		out = append(out, EmployeeEarnings{EmployeeName: e.Name, Total: total})
	}
	return out, nil
}
