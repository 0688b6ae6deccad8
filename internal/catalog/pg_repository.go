package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

// Prices travel as text so numeric(18,2) never goes through a float.
func scanService(row pgx.Row) (*Service, error) {
	var s Service
	var price string

	err := row.Scan(
		&s.ID,
		&s.Name,
		&price,
		&s.DurationMinutes,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	s.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse service price: %w", err)
	}

	return &s, nil
}

func scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee

	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.ServiceIDs,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	return &e, nil
}

// Interface methods

func (r *PgRepository) ServiceDurations(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, duration_minutes
		FROM services
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	durations := make(map[uuid.UUID]int, len(ids))
	for rows.Next() {
		var id uuid.UUID
		var minutes int
		if err := rows.Scan(&id, &minutes); err != nil {
			return nil, err
		}
		durations[id] = minutes
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, id := range ids {
		if _, ok := durations[id]; !ok {
			return nil, ErrServiceNotFound
		}
	}

	return durations, nil
}

func (r *PgRepository) EmployeesCapableOf(ctx context.Context, ids []uuid.UUID) ([]Employee, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	// AND semantics: an employee qualifies only when their capability set
	// covers every requested service.
	rows, err := r.pool.Query(ctx, `
		SELECT e.id, e.name, e.created_at, e.updated_at
		FROM employees e
		JOIN employee_services es ON es.employee_id = e.id
		WHERE es.service_id = ANY($1)
		GROUP BY e.id, e.name, e.created_at, e.updated_at
		HAVING COUNT(DISTINCT es.service_id) = $2
	`, ids, len(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}

	return result, rows.Err()
}

func (r *PgRepository) GetService(ctx context.Context, id uuid.UUID) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, price::text, duration_minutes, created_at, updated_at
		FROM services
		WHERE id = $1
	`, id)
	return scanService(row)
}

func (r *PgRepository) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, price::text, duration_minutes, created_at, updated_at
		FROM services
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	return result, rows.Err()
}

func (r *PgRepository) CreateService(ctx context.Context, name string, price decimal.Decimal, durationMinutes int) (*Service, error) {
	if name == "" || price.IsNegative() ||
		durationMinutes < MinServiceDuration || durationMinutes > MaxServiceDuration {
		return nil, ErrInvalidService
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO services (id, name, price, duration_minutes, created_at, updated_at)
		VALUES ($1, $2, $3::numeric, $4, now(), now())
		RETURNING id, name, price::text, duration_minutes, created_at, updated_at
	`, uuid.New(), name, price.StringFixed(2), durationMinutes)

	return scanService(row)
}

func (r *PgRepository) UpdateService(ctx context.Context, id uuid.UUID, name string, price decimal.Decimal, durationMinutes int) (*Service, error) {
	if name == "" || price.IsNegative() ||
		durationMinutes < MinServiceDuration || durationMinutes > MaxServiceDuration {
		return nil, ErrInvalidService
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE services
		SET name = $2, price = $3::numeric, duration_minutes = $4, updated_at = now()
		WHERE id = $1
		RETURNING id, name, price::text, duration_minutes, created_at, updated_at
	`, id, name, price.StringFixed(2), durationMinutes)

	return scanService(row)
}

func (r *PgRepository) GetEmployee(ctx context.Context, id uuid.UUID) (*Employee, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT e.id, e.name,
		       COALESCE(array_agg(es.service_id) FILTER (WHERE es.service_id IS NOT NULL), '{}'),
		       e.created_at, e.updated_at
		FROM employees e
		LEFT JOIN employee_services es ON es.employee_id = e.id
		WHERE e.id = $1
		GROUP BY e.id, e.name, e.created_at, e.updated_at
	`, id)
	return scanEmployee(row)
}

func (r *PgRepository) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT e.id, e.name,
		       COALESCE(array_agg(es.service_id) FILTER (WHERE es.service_id IS NOT NULL), '{}'),
		       e.created_at, e.updated_at
		FROM employees e
		LEFT JOIN employee_services es ON es.employee_id = e.id
		GROUP BY e.id, e.name, e.created_at, e.updated_at
		ORDER BY e.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}

	return result, rows.Err()
}

func (r *PgRepository) CreateEmployee(ctx context.Context, name string, serviceIDs []uuid.UUID) (*Employee, error) {
	id := uuid.New()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO employees (id, name, created_at, updated_at)
		VALUES ($1, $2, now(), now())
	`, id, name)
	if err != nil {
		return nil, err
	}

	for _, sid := range dedupe(serviceIDs) {
		_, err = tx.Exec(ctx, `
			INSERT INTO employee_services (employee_id, service_id)
			VALUES ($1, $2)
		`, id, sid)
		if err != nil {
			if isForeignKeyViolation(err) {
				return nil, ErrServiceNotFound
			}
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetEmployee(ctx, id)
}

// UpdateEmployee rewrites the capability set wholesale; the edit form always
// submits the full selection.
func (r *PgRepository) UpdateEmployee(ctx context.Context, id uuid.UUID, name string, serviceIDs []uuid.UUID) (*Employee, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE employees
		SET name = $2, updated_at = now()
		WHERE id = $1
	`, id, name)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrEmployeeNotFound
	}

	_, err = tx.Exec(ctx, `
		DELETE FROM employee_services WHERE employee_id = $1
	`, id)
	if err != nil {
		return nil, err
	}

	for _, sid := range dedupe(serviceIDs) {
		_, err = tx.Exec(ctx, `
			INSERT INTO employee_services (employee_id, service_id)
			VALUES ($1, $2)
		`, id, sid)
		if err != nil {
			if isForeignKeyViolation(err) {
				return nil, ErrServiceNotFound
			}
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetEmployee(ctx, id)
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

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
