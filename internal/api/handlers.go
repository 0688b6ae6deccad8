package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/glowbook/salon-booking/internal/booking"
	"github.com/glowbook/salon-booking/internal/catalog"
)

func createBookingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		employeeID, err := uuid.Parse(req.EmployeeID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_employee_id", "employee_id must be a valid UUID")
			return
		}

		serviceIDs, err := parseUUIDs(req.ServiceIDs)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_ids", "service_ids must be valid UUIDs")
			return
		}

		principal := GetPrincipal(r.Context())

		appt, err := svc.Book(r.Context(), principal, employeeID, serviceIDs, req.StartTime)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
	}
}

func listBookingsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appts, err := svc.ListAppointments(r.Context(), GetPrincipal(r.Context()))
		if err != nil {
			handleBookingError(w, err)
			return
		}

		resp := make([]AppointmentResponse, 0, len(appts))
		for i := range appts {
			resp = append(resp, toAppointmentResponse(&appts[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func myBookingsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appts, err := svc.CustomerAppointments(r.Context(), GetPrincipal(r.Context()))
		if err != nil {
			handleBookingError(w, err)
			return
		}

		resp := make([]AppointmentResponse, 0, len(appts))
		for i := range appts {
			resp = append(resp, toAppointmentResponse(&appts[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func approveBookingHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		appt, err := svc.Approve(r.Context(), GetPrincipal(r.Context()), id)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func availableEmployeesHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serviceIDs, err := parseUUIDs(strings.Split(r.URL.Query().Get("service_ids"), ","))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_ids", "service_ids must be comma-separated UUIDs")
			return
		}

		start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_start", "start must be RFC3339")
			return
		}

		rows, err := svc.AvailableEmployees(r.Context(), serviceIDs, start)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		resp := make([]EmployeeAvailabilityResponse, 0, len(rows))
		for _, row := range rows {
			resp = append(resp, EmployeeAvailabilityResponse{
				EmployeeID: row.EmployeeID,
				Name:       row.Name,
				Available:  row.Available,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func customerAvailabilityHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_start", "start must be RFC3339")
			return
		}

		end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_end", "end must be RFC3339")
			return
		}

		principal := GetPrincipal(r.Context())

		free, err := svc.IsCustomerFree(r.Context(), principal.CustomerID, start, end)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, CustomerAvailabilityResponse{Free: free})
	}
}

func earningsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.EmployeeEarnings(r.Context(), GetPrincipal(r.Context()))
		if err != nil {
			handleBookingError(w, err)
			return
		}

		resp := make([]EarningsResponse, 0, len(rows))
		for _, row := range rows {
			resp = append(resp, EarningsResponse{
				EmployeeName:  row.EmployeeName,
				TotalEarnings: row.Total.StringFixed(2),
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrNoServices):
		writeError(w, http.StatusBadRequest, "no_services", err.Error())
	case errors.Is(err, catalog.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "unknown_service", err.Error())
	case errors.Is(err, booking.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, booking.ErrPastDate):
		writeError(w, http.StatusUnprocessableEntity, "past_date", err.Error())
	case errors.Is(err, booking.ErrSpansMidnight):
		writeError(w, http.StatusUnprocessableEntity, "spans_midnight", err.Error())
	case errors.Is(err, booking.ErrOutsideSalonHours):
		writeError(w, http.StatusUnprocessableEntity, "outside_salon_hours", err.Error())
	case errors.Is(err, booking.ErrEmployeeNotCapable):
		writeError(w, http.StatusUnprocessableEntity, "employee_not_capable", err.Error())
	case errors.Is(err, booking.ErrCustomerDoubleBooked):
		writeError(w, http.StatusConflict, "customer_double_booked", err.Error())
	case errors.Is(err, booking.ErrEmployeeUnavailable):
		writeError(w, http.StatusConflict, "employee_unavailable", err.Error())
	case errors.Is(err, booking.ErrBookingContended):
		writeError(w, http.StatusConflict, "booking_contended", "booking is being processed, please retry shortly")
	case errors.Is(err, booking.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, booking.ErrStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "could not reach storage, the booking was not created")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
