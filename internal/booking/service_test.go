package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowbook/salon-booking/internal/catalog"
	"github.com/glowbook/salon-booking/internal/config"
	"github.com/glowbook/salon-booking/internal/identity"
)

type fixture struct {
	svc    *Service
	ledger *fakeLedger
	cat    *fakeCatalog
	locker *fakeLocker
	now    time.Time

	cut      uuid.UUID // 30 min
	color    uuid.UUID // 120 min
	marathon uuid.UUID // 780 min
	empX     uuid.UUID // capable of everything
	empY     uuid.UUID // haircuts only
}

func newFixture() *fixture {
	f := &fixture{
		now:      time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
		cut:      uuid.New(),
		color:    uuid.New(),
		marathon: uuid.New(),
		empX:     uuid.New(),
		empY:     uuid.New(),
	}

	f.cat = &fakeCatalog{
		services: map[uuid.UUID]catalog.Service{
			f.cut:      {ID: f.cut, Name: "Haircut", Price: decimal.RequireFromString("35.00"), DurationMinutes: 30},
			f.color:    {ID: f.color, Name: "Hair Coloring", Price: decimal.RequireFromString("120.00"), DurationMinutes: 120},
			f.marathon: {ID: f.marathon, Name: "Full Makeover", Price: decimal.RequireFromString("500.00"), DurationMinutes: 780},
		},
		employees: []catalog.Employee{
			{ID: f.empX, Name: "Xena", ServiceIDs: []uuid.UUID{f.cut, f.color, f.marathon}},
			{ID: f.empY, Name: "Yuri", ServiceIDs: []uuid.UUID{f.cut}},
		},
	}
	f.ledger = &fakeLedger{catalog: f.cat}
	f.locker = &fakeLocker{}

	// Salon open 08:00-20:00
	f.svc = NewService(f.ledger, f.cat, &fakeSalonStore{opensAt: 8 * 60, closesAt: 20 * 60}, f.locker, config.Config{})
	f.svc.now = func() time.Time { return f.now }

	return f
}

// tomorrowAt returns a clock time on the day after the fixture's "now".
func (f *fixture) tomorrowAt(hour, min int) time.Time {
	return time.Date(2026, 9, 2, hour, min, 0, 0, time.UTC)
}

func member() identity.Principal {
	return identity.Principal{CustomerID: uuid.New(), Role: identity.RoleMember}
}

func admin() identity.Principal {
	return identity.Principal{CustomerID: uuid.New(), Role: identity.RoleAdmin}
}

func TestBookBackToBackAppointments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.svc.Book(ctx, member(), f.empX, []uuid.UUID{f.cut}, f.tomorrowAt(9, 0))
	require.NoError(t, err)
	assert.Equal(t, f.tomorrowAt(9, 30), first.EndTime)
	assert.False(t, first.IsApproved)

	// 09:15 overlaps the 09:00-09:30 booking
	_, err = f.svc.Book(ctx, member(), f.empX, []uuid.UUID{f.cut}, f.tomorrowAt(9, 15))
	assert.ErrorIs(t, err, ErrEmployeeUnavailable)

	// 09:30 starts the instant the first one ends
	second, err := f.svc.Book(ctx, member(), f.empX, []uuid.UUID{f.cut}, f.tomorrowAt(9, 30))
	require.NoError(t, err)
	assert.Equal(t, f.tomorrowAt(10, 0), second.EndTime)
}

func TestBookMultipleServicesSumDurations(t *testing.T) {
	f := newFixture()

	appt, err := f.svc.Book(context.Background(), member(), f.empX,
		[]uuid.UUID{f.cut, f.color}, f.tomorrowAt(10, 0))
	require.NoError(t, err)
	assert.Equal(t, f.tomorrowAt(12, 30), appt.EndTime)
	assert.Len(t, appt.ServiceIDs, 2)
}

func TestBookPastDate(t *testing.T) {
	f := newFixture()

	yesterday := f.now.AddDate(0, 0, -1)
	_, err := f.svc.Book(context.Background(), member(), f.empX, []uuid.UUID{f.cut}, yesterday)
	assert.ErrorIs(t, err, ErrPastDate)

	// The present instant is also not bookable
	_, err = f.svc.Book(context.Background(), member(), f.empX, []uuid.UUID{f.cut}, f.now)
	assert.ErrorIs(t, err, ErrPastDate)
}

func TestBookOutsideSalonHours(t *testing.T) {
	f := newFixture()

	// 13 hours of work starting at opening time overruns the 12 hour window
	_, err := f.svc.Book(context.Background(), member(), f.empX, []uuid.UUID{f.marathon}, f.tomorrowAt(8, 0))
	assert.ErrorIs(t, err, ErrOutsideSalonHours)

	// Starting before opening fails too
	_, err = f.svc.Book(context.Background(), member(), f.empX, []uuid.UUID{f.cut}, f.tomorrowAt(7, 30))
	assert.ErrorIs(t, err, ErrOutsideSalonHours)
}

func TestBookEndingExactlyAtClose(t *testing.T) {
	f := newFixture()

	appt, err := f.svc.Book(context.Background(), member(), f.empX, []uuid.UUID{f.color}, f.tomorrowAt(18, 0))
	require.NoError(t, err)
	assert.Equal(t, f.tomorrowAt(20, 0), appt.EndTime)
}

func TestBookSpanningMidnight(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Book(context.Background(), member(), f.empX, []uuid.UUID{f.cut}, f.tomorrowAt(23, 45))
	assert.ErrorIs(t, err, ErrSpansMidnight)
}

func TestBookUnknownService(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Book(context.Background(), member(), f.empX, []uuid.UUID{uuid.New()}, f.tomorrowAt(9, 0))
	assert.ErrorIs(t, err, catalog.ErrServiceNotFound)
}

func TestBookNoServices(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Book(context.Background(), member(), f.empX, nil, f.tomorrowAt(9, 0))
	assert.ErrorIs(t, err, ErrNoServices)
}

func TestBookEmployeeNotCapable(t *testing.T) {
	f := newFixture()

	// Yuri only cuts hair; coloring must be refused even though cutting is fine
	_, err := f.svc.Book(context.Background(), member(), f.empY,
		[]uuid.UUID{f.cut, f.color}, f.tomorrowAt(9, 0))
	assert.ErrorIs(t, err, ErrEmployeeNotCapable)
}

func TestBookCustomerDoubleBooked(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customer := member()

	_, err := f.svc.Book(ctx, customer, f.empX, []uuid.UUID{f.cut}, f.tomorrowAt(9, 0))
	require.NoError(t, err)

	// Same customer, different (free) employee, overlapping time
	_, err = f.svc.Book(ctx, customer, f.empY, []uuid.UUID{f.cut}, f.tomorrowAt(9, 15))
	assert.ErrorIs(t, err, ErrCustomerDoubleBooked)
}

func TestBookContendedLock(t *testing.T) {
	f := newFixture()
	f.locker.contended = true

	_, err := f.svc.Book(context.Background(), member(), f.empX, []uuid.UUID{f.cut}, f.tomorrowAt(9, 0))
	assert.ErrorIs(t, err, ErrBookingContended)
}

func TestBookStorageFailureDoesNotRetry(t *testing.T) {
	f := newFixture()
	f.ledger.failCreate = true

	_, err := f.svc.Book(context.Background(), member(), f.empX, []uuid.UUID{f.cut}, f.tomorrowAt(9, 0))
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Empty(t, f.ledger.appts)
}

func TestAvailabilityReadRetriesOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.ledger.readFails = 1
	free, err := f.svc.IsEmployeeFree(ctx, f.empX, f.tomorrowAt(9, 0), f.tomorrowAt(9, 30))
	require.NoError(t, err)
	assert.True(t, free)

	f.ledger.readFails = 2
	_, err = f.svc.IsEmployeeFree(ctx, f.empX, f.tomorrowAt(9, 0), f.tomorrowAt(9, 30))
	assert.Error(t, err)
}

func TestIsCustomerFreeRejectsWindowSpanningMidnight(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customer := member()

	_, err := f.svc.Book(ctx, customer, f.empX, []uuid.UUID{f.cut}, f.tomorrowAt(8, 30))
	require.NoError(t, err)

	// A late-evening window reaching into tomorrow morning overlaps the
	// 08:30 booking, but a scan bounded to the start's day cannot see it.
	// The window must be refused, not answered.
	lateTonight := time.Date(2026, 9, 1, 23, 0, 0, 0, time.UTC)
	free, err := f.svc.IsCustomerFree(ctx, customer.CustomerID, lateTonight, f.tomorrowAt(9, 0))
	assert.ErrorIs(t, err, ErrSpansMidnight)
	assert.False(t, free)
}

func TestAvailableEmployees(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Both can cut hair
	rows, err := f.svc.AvailableEmployees(ctx, []uuid.UUID{f.cut}, f.tomorrowAt(9, 0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.True(t, row.Available)
	}

	// Only Xena covers cut AND color
	rows, err = f.svc.AvailableEmployees(ctx, []uuid.UUID{f.cut, f.color}, f.tomorrowAt(9, 0))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, f.empX, rows[0].EmployeeID)

	_, err = f.svc.AvailableEmployees(ctx, nil, f.tomorrowAt(9, 0))
	assert.ErrorIs(t, err, ErrNoServices)
}

func TestAvailableEmployeesExcludesJustBooked(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.Book(ctx, member(), f.empX, []uuid.UUID{f.cut}, f.tomorrowAt(9, 0))
	require.NoError(t, err)

	rows, err := f.svc.AvailableEmployees(ctx, []uuid.UUID{f.cut}, f.tomorrowAt(9, 0))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := map[uuid.UUID]bool{}
	for _, row := range rows {
		byID[row.EmployeeID] = row.Available
	}
	assert.False(t, byID[f.empX])
	assert.True(t, byID[f.empY])
}

func TestApproveIsAdminOnlyAndIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	appt, err := f.svc.Book(ctx, member(), f.empX, []uuid.UUID{f.cut}, f.tomorrowAt(9, 0))
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, member(), appt.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	approved, err := f.svc.Approve(ctx, admin(), appt.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	require.NotNil(t, approved.ApprovalDate)
	firstDate := *approved.ApprovalDate
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), firstDate)

	// Re-approving a day later is a no-op keeping the original date
	f.now = f.now.AddDate(0, 0, 1)
	again, err := f.svc.Approve(ctx, admin(), appt.ID)
	require.NoError(t, err)
	assert.True(t, again.IsApproved)
	assert.Equal(t, firstDate, *again.ApprovalDate)

	_, err = f.svc.Approve(ctx, admin(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestEmployeeEarnings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	appt, err := f.svc.Book(ctx, member(), f.empX, []uuid.UUID{f.cut, f.color}, f.tomorrowAt(9, 0))
	require.NoError(t, err)
	_, err = f.svc.Book(ctx, member(), f.empY, []uuid.UUID{f.cut}, f.tomorrowAt(9, 0))
	require.NoError(t, err)

	_, err = f.svc.EmployeeEarnings(ctx, member())
	assert.ErrorIs(t, err, ErrPermissionDenied)

	// Default: unapproved revenue counts
	rows, err := f.svc.EmployeeEarnings(ctx, admin())
	require.NoError(t, err)
	totals := map[string]string{}
	for _, row := range rows {
		totals[row.EmployeeName] = row.Total.StringFixed(2)
	}
	assert.Equal(t, "155.00", totals["Xena"])
	assert.Equal(t, "35.00", totals["Yuri"])

	// Approved-only flag restricts the fold
	f.svc.cfg.EarningsApprovedOnly = true
	_, err = f.svc.Approve(ctx, admin(), appt.ID)
	require.NoError(t, err)

	rows, err = f.svc.EmployeeEarnings(ctx, admin())
	require.NoError(t, err)
	totals = map[string]string{}
	for _, row := range rows {
		totals[row.EmployeeName] = row.Total.StringFixed(2)
	}
	assert.Equal(t, "155.00", totals["Xena"])
	assert.Equal(t, "0.00", totals["Yuri"])
}

func TestLedgerListings(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := member()
	bob := member()

	_, err := f.svc.Book(ctx, alice, f.empX, []uuid.UUID{f.cut}, f.tomorrowAt(9, 0))
	require.NoError(t, err)
	_, err = f.svc.Book(ctx, bob, f.empY, []uuid.UUID{f.cut}, f.tomorrowAt(9, 0))
	require.NoError(t, err)

	_, err = f.svc.ListAppointments(ctx, alice)
	assert.ErrorIs(t, err, ErrPermissionDenied)

	all, err := f.svc.ListAppointments(ctx, admin())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.svc.CustomerAppointments(ctx, alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, alice.CustomerID, mine[0].CustomerID)
}
