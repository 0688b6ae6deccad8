package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/glowbook/salon-booking/internal/booking"
	"github.com/glowbook/salon-booking/internal/catalog"
	"github.com/glowbook/salon-booking/internal/salon"
)

type RouterConfig struct {
	Booking *booking.Service
	Catalog catalog.Repository
	Salon   salon.Repository
	PgPool  *pgxpool.Pool
	Redis   *redis.Client
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(IdentityMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Public catalog browsing and the availability listing the booking form
	// drives while the customer picks a slot.
	r.Get("/services", listServicesHandler(cfg.Catalog))
	r.Get("/services/{id}", getServiceHandler(cfg.Catalog))
	r.Get("/availability/employees", availableEmployeesHandler(cfg.Booking))

	// Member endpoints
	r.Group(func(r chi.Router) {
		r.Use(RequireCustomer)
		r.Post("/bookings", createBookingHandler(cfg.Booking))
		r.Get("/bookings/mine", myBookingsHandler(cfg.Booking))
		r.Get("/availability/customer", customerAvailabilityHandler(cfg.Booking))
	})

	// Admin endpoints
	r.Group(func(r chi.Router) {
		r.Use(RequireAdmin)
		r.Get("/bookings", listBookingsHandler(cfg.Booking))
		r.Post("/bookings/{id}/approve", approveBookingHandler(cfg.Booking))
		r.Get("/reports/earnings", earningsHandler(cfg.Booking))
		r.Post("/services", createServiceHandler(cfg.Catalog))
		r.Put("/services/{id}", updateServiceHandler(cfg.Catalog))
		r.Get("/employees", listEmployeesHandler(cfg.Catalog))
		r.Post("/employees", createEmployeeHandler(cfg.Catalog))
		r.Get("/employees/{id}", getEmployeeHandler(cfg.Catalog))
		r.Put("/employees/{id}", updateEmployeeHandler(cfg.Catalog))
		r.Get("/salon", getSalonHandler(cfg.Salon))
		r.Put("/salon", updateSalonHandler(cfg.Salon))
	})

	return r
}
