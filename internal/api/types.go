package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/glowbook/salon-booking/internal/booking"
	"github.com/glowbook/salon-booking/internal/catalog"
	"github.com/glowbook/salon-booking/internal/salon"
)

type CreateBookingRequest struct {
	EmployeeID string    `json:"employee_id"`
	ServiceIDs []string  `json:"service_ids"`
	StartTime  time.Time `json:"start_time"`
}

type AppointmentResponse struct {
	ID           uuid.UUID   `json:"id"`
	CustomerID   uuid.UUID   `json:"customer_id"`
	EmployeeID   uuid.UUID   `json:"employee_id"`
	StartTime    time.Time   `json:"start_time"`
	EndTime      time.Time   `json:"end_time"`
	IsApproved   bool        `json:"is_approved"`
	ApprovalDate *time.Time  `json:"approval_date,omitempty"`
	ServiceIDs   []uuid.UUID `json:"service_ids"`
}

func toAppointmentResponse(a *booking.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:           a.ID,
		CustomerID:   a.CustomerID,
		EmployeeID:   a.EmployeeID,
		StartTime:    a.StartTime,
		EndTime:      a.EndTime,
		IsApproved:   a.IsApproved,
		ApprovalDate: a.ApprovalDate,
		ServiceIDs:   a.ServiceIDs,
	}
}

type EmployeeAvailabilityResponse struct {
	EmployeeID uuid.UUID `json:"employee_id"`
	Name       string    `json:"name"`
	Available  bool      `json:"available"`
}

type CustomerAvailabilityResponse struct {
	Free bool `json:"free"`
}

type EarningsResponse struct {
	EmployeeName  string `json:"employee_name"`
	TotalEarnings string `json:"total_earnings"`
}

type CreateServiceRequest struct {
	Name            string `json:"name"`
	Price           string `json:"price"`
	DurationMinutes int    `json:"duration_minutes"`
}

type ServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Price           string    `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
}

func toServiceResponse(s *catalog.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Price:           s.Price.StringFixed(2),
		DurationMinutes: s.DurationMinutes,
	}
}

type CreateEmployeeRequest struct {
	Name       string   `json:"name"`
	ServiceIDs []string `json:"service_ids"`
}

type EmployeeResponse struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	ServiceIDs []uuid.UUID `json:"service_ids"`
}

func toEmployeeResponse(e *catalog.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		Name:       e.Name,
		ServiceIDs: e.ServiceIDs,
	}
}

type UpdateSalonRequest struct {
	Name     string `json:"name"`
	OpensAt  string `json:"opens_at"`  // "08:00"
	ClosesAt string `json:"closes_at"` // "20:00"
}

type SalonResponse struct {
	Name     string `json:"name"`
	OpensAt  string `json:"opens_at"`
	ClosesAt string `json:"closes_at"`
}

func toSalonResponse(s *salon.Salon) SalonResponse {
	return SalonResponse{
		Name:     s.Name,
		OpensAt:  salon.FormatClock(s.OpensAt),
		ClosesAt: salon.FormatClock(s.ClosesAt),
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
