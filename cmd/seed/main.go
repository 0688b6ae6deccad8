package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glowbook/salon-booking/internal/db"
	"github.com/glowbook/salon-booking/internal/salon"
)

type seedService struct {
	name     string
	price    string
	duration int
}

// A plausible salon catalog. Capability sets are random subsets of it.
var services = []seedService{
	{"Haircut", "35.00", 30},
	{"Beard Trim", "15.00", 15},
	{"Hair Coloring", "120.00", 120},
	{"Highlights", "140.00", 150},
	{"Blow Dry", "25.00", 30},
	{"Keratin Treatment", "180.00", 180},
	{"Manicure", "30.00", 45},
	{"Pedicure", "40.00", 60},
	{"Facial", "65.00", 60},
	{"Scalp Massage", "20.00", 20},
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	serviceIDs, err := seedServices(context.Background(), pool)
	if err != nil {
		log.Fatalf("seed services: %v", err)
	}
	if err := seedEmployees(context.Background(), pool, serviceIDs, 8); err != nil {
		log.Fatalf("seed employees: %v", err)
	}
	if err := seedSalon(context.Background(), pool); err != nil {
		log.Fatalf("seed salon: %v", err)
	}

	// The identity provider is external, so customers are just ids. Print a
	// few for exercising the API by hand.
	for i := 0; i < 3; i++ {
		log.Printf("sample customer id: %s", uuid.NewString())
	}

	log.Println("seed complete")
}

func seedServices(ctx context.Context, pool *pgxpool.Pool) ([]uuid.UUID, error) {
	log.Printf("seeding %d services", len(services))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, len(services))
	for _, s := range services {
		id := uuid.New()
		_, err := tx.Exec(ctx, `
			INSERT INTO services (id, name, price, duration_minutes, created_at, updated_at)
			VALUES ($1, $2, $3::numeric, $4, now(), now())
		`, id, s.name, s.price, s.duration)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

func seedEmployees(ctx context.Context, pool *pgxpool.Pool, serviceIDs []uuid.UUID, count int) error {
	log.Printf("seeding %d employees", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		id := uuid.New()
		name := gofakeit.Name()

		_, err := tx.Exec(ctx, `
			INSERT INTO employees (id, name, created_at, updated_at)
			VALUES ($1, $2, now(), now())
		`, id, name)
		if err != nil {
			return err
		}

		// Each employee can perform between 3 and all of the services.
		capable := gofakeit.Number(3, len(serviceIDs))
		perm := indexes(len(serviceIDs))
		gofakeit.ShuffleInts(perm)
		for _, idx := range perm[:capable] {
			_, err := tx.Exec(ctx, `
				INSERT INTO employee_services (employee_id, service_id)
				VALUES ($1, $2)
			`, id, serviceIDs[idx])
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func seedSalon(ctx context.Context, pool *pgxpool.Pool) error {
	log.Println("seeding salon")

	_, err := pool.Exec(ctx, `
		INSERT INTO salons (id, name, opens_at, closes_at, created_at, updated_at)
		SELECT $1, $2, $3, $4, now(), now()
		WHERE NOT EXISTS (SELECT 1 FROM salons)
	`, uuid.New(), "Glowbook Salon", salon.DefaultOpensAt, salon.DefaultClosesAt)
	return err
}

func indexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
