package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// appointmentColumns derives end_time in SQL so the ledger never stores it.
const appointmentColumns = `
	a.id, a.customer_id, a.employee_id, a.start_time,
	a.start_time + make_interval(mins => COALESCE(SUM(s.duration_minutes), 0)::int) AS end_time,
	a.is_approved, a.approval_date,
	array_agg(aps.service_id ORDER BY aps.service_id) AS service_ids,
	a.created_at, a.updated_at`

const appointmentJoins = `
	FROM appointments a
	JOIN appointment_services aps ON aps.appointment_id = a.id
	JOIN services s ON s.id = aps.service_id`

const appointmentGroup = `
	GROUP BY a.id`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var approvalDate *time.Time

	err := row.Scan(
		&a.ID,
		&a.CustomerID,
		&a.EmployeeID,
		&a.StartTime,
		&a.EndTime,
		&a.IsApproved,
		&approvalDate,
		&a.ServiceIDs,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.ApprovalDate = approvalDate
	return &a, nil
}

func (r *PgRepository) queryAppointments(ctx context.Context, where string, args ...any) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT"+appointmentColumns+appointmentJoins+" "+where+appointmentGroup+" ORDER BY a.start_time",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	return result, rows.Err()
}

// Interface methods

func (r *PgRepository) ListForEmployeeOn(ctx context.Context, employeeID uuid.UUID, dayStart, dayEnd time.Time) ([]Appointment, error) {
	return r.queryAppointments(ctx,
		"WHERE a.employee_id = $1 AND a.start_time >= $2 AND a.start_time < $3",
		employeeID, dayStart, dayEnd)
}

func (r *PgRepository) ListForCustomerOn(ctx context.Context, customerID uuid.UUID, dayStart, dayEnd time.Time) ([]Appointment, error) {
	return r.queryAppointments(ctx,
		"WHERE a.customer_id = $1 AND a.start_time >= $2 AND a.start_time < $3",
		customerID, dayStart, dayEnd)
}

func (r *PgRepository) List(ctx context.Context) ([]Appointment, error) {
	return r.queryAppointments(ctx, "")
}

func (r *PgRepository) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]Appointment, error) {
	return r.queryAppointments(ctx, "WHERE a.customer_id = $1", customerID)
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx,
		"SELECT"+appointmentColumns+appointmentJoins+" WHERE a.id = $1"+appointmentGroup,
		id)
	return scanAppointment(row)
}

func (r *PgRepository) Create(ctx context.Context, customerID, employeeID uuid.UUID, start time.Time, serviceIDs []uuid.UUID) (*Appointment, error) {
	id := uuid.New()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO appointments (id, customer_id, employee_id, start_time, is_approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, now(), now())
	`, id, customerID, employeeID, start)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}

	for _, sid := range serviceIDs {
		_, err = tx.Exec(ctx, `
			INSERT INTO appointment_services (appointment_id, service_id)
			VALUES ($1, $2)
		`, id, sid)
		if err != nil {
			return nil, fmt.Errorf("insert appointment service: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit booking: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *PgRepository) Approve(ctx context.Context, id uuid.UUID, approvedOn time.Time) (*Appointment, error) {
	// COALESCE keeps the original approval date on re-approval.
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET is_approved = true,
		    approval_date = COALESCE(approval_date, $2),
		    updated_at = now()
		WHERE id = $1
	`, id, approvedOn)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrAppointmentNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *PgRepository) EmployeeEarnings(ctx context.Context, approvedOnly bool) ([]EmployeeEarnings, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.name, COALESCE(SUM(s.price), 0)::text
		FROM employees e
		LEFT JOIN appointments a
		  ON a.employee_id = e.id AND (NOT $1 OR a.is_approved)
		LEFT JOIN appointment_services aps ON aps.appointment_id = a.id
		LEFT JOIN services s ON s.id = aps.service_id
		GROUP BY e.id, e.name
		ORDER BY e.name
	`, approvedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []EmployeeEarnings
	for rows.Next() {
		var row EmployeeEarnings
		var total string
		if err := rows.Scan(&row.EmployeeName, &total); err != nil {
			return nil, err
		}
		row.Total, err = decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("parse earnings total: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
