package salon

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func scanSalon(row pgx.Row) (*Salon, error) {
	var s Salon

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.OpensAt,
		&s.ClosesAt,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSalonNotFound
		}
		return nil, err
	}

	return &s, nil
}

func (r *PgRepository) Get(ctx context.Context) (*Salon, error) {
	s, err := r.get(ctx)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrSalonNotFound) {
		return nil, err
	}

	// No salon yet: insert the default window. The guarded insert keeps two
	// racing first requests from creating two rows.
	_, err = r.pool.Exec(ctx, `
		INSERT INTO salons (id, name, opens_at, closes_at, created_at, updated_at)
		SELECT $1, $2, $3, $4, now(), now()
		WHERE NOT EXISTS (SELECT 1 FROM salons)
	`, uuid.New(), DefaultName, DefaultOpensAt, DefaultClosesAt)
	if err != nil {
		return nil, err
	}

	return r.get(ctx)
}

func (r *PgRepository) get(ctx context.Context) (*Salon, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, opens_at, closes_at, created_at, updated_at
		FROM salons
		ORDER BY created_at
		LIMIT 1
	`)
	return scanSalon(row)
}

func (r *PgRepository) Update(ctx context.Context, name string, opensAt, closesAt int) (*Salon, error) {
	if err := ValidateWindow(opensAt, closesAt); err != nil {
		return nil, err
	}

	// Lazily create first so there is always a row to update.
	current, err := r.Get(ctx)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE salons
		SET name = $2,
		    opens_at = $3,
		    closes_at = $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING id, name, opens_at, closes_at, created_at, updated_at
	`, current.ID, name, opensAt, closesAt)

	return scanSalon(row)
}
