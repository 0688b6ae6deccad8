package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/glowbook/salon-booking/internal/catalog"
	"github.com/glowbook/salon-booking/internal/salon"
)

func listServicesHandler(repo catalog.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services, err := repo.ListServices(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]ServiceResponse, 0, len(services))
		for i := range services {
			resp = append(resp, toServiceResponse(&services[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getServiceHandler(repo catalog.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "id must be a valid UUID")
			return
		}

		svc, err := repo.GetService(r.Context(), id)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toServiceResponse(svc))
	}
}

func createServiceHandler(repo catalog.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateServiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_price", "price must be a decimal string")
			return
		}

		svc, err := repo.CreateService(r.Context(), req.Name, price, req.DurationMinutes)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toServiceResponse(svc))
	}
}

func updateServiceHandler(repo catalog.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "id must be a valid UUID")
			return
		}

		var req CreateServiceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_price", "price must be a decimal string")
			return
		}

		svc, err := repo.UpdateService(r.Context(), id, req.Name, price, req.DurationMinutes)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toServiceResponse(svc))
	}
}

func listEmployeesHandler(repo catalog.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		employees, err := repo.ListEmployees(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]EmployeeResponse, 0, len(employees))
		for i := range employees {
			resp = append(resp, toEmployeeResponse(&employees[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func createEmployeeHandler(repo catalog.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateEmployeeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "invalid_name", "name is required")
			return
		}

		serviceIDs, err := parseUUIDs(req.ServiceIDs)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_ids", "service_ids must be valid UUIDs")
			return
		}

		emp, err := repo.CreateEmployee(r.Context(), req.Name, serviceIDs)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toEmployeeResponse(emp))
	}
}

func getEmployeeHandler(repo catalog.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_employee_id", "id must be a valid UUID")
			return
		}

		emp, err := repo.GetEmployee(r.Context(), id)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEmployeeResponse(emp))
	}
}

func updateEmployeeHandler(repo catalog.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_employee_id", "id must be a valid UUID")
			return
		}

		var req CreateEmployeeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "invalid_name", "name is required")
			return
		}

		serviceIDs, err := parseUUIDs(req.ServiceIDs)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_ids", "service_ids must be valid UUIDs")
			return
		}

		emp, err := repo.UpdateEmployee(r.Context(), id, req.Name, serviceIDs)
		if err != nil {
			handleCatalogError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toEmployeeResponse(emp))
	}
}

func getSalonHandler(repo salon.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := repo.Get(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, toSalonResponse(s))
	}
}

func updateSalonHandler(repo salon.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateSalonRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		opensAt, err := salon.ParseClock(req.OpensAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_opens_at", "opens_at must be HH:MM")
			return
		}

		closesAt, err := salon.ParseClock(req.ClosesAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_closes_at", "closes_at must be HH:MM")
			return
		}

		s, err := repo.Update(r.Context(), req.Name, opensAt, closesAt)
		if err != nil {
			if errors.Is(err, salon.ErrInvalidWindow) {
				writeError(w, http.StatusBadRequest, "invalid_window", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, toSalonResponse(s))
	}
}

func handleCatalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrInvalidService):
		writeError(w, http.StatusBadRequest, "invalid_service", err.Error())
	case errors.Is(err, catalog.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "unknown_service", err.Error())
	case errors.Is(err, catalog.ErrEmployeeNotFound):
		writeError(w, http.StatusNotFound, "employee_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
