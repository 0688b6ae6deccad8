package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrServiceNotFound  = errors.New("service not found")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrInvalidService   = errors.New("invalid service definition")
)

// Repository is the read/admin surface over services, employees and
// employee capabilities.
type Repository interface {
	// ServiceDurations resolves every id to its duration in minutes and
	// fails with ErrServiceNotFound if any id is unknown.
	ServiceDurations(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)

	// EmployeesCapableOf returns the employees able to perform every one of
	// the given services, not just some of them.
	EmployeesCapableOf(ctx context.Context, ids []uuid.UUID) ([]Employee, error)

	GetService(ctx context.Context, id uuid.UUID) (*Service, error)
	ListServices(ctx context.Context) ([]Service, error)
	CreateService(ctx context.Context, name string, price decimal.Decimal, durationMinutes int) (*Service, error)
	UpdateService(ctx context.Context, id uuid.UUID, name string, price decimal.Decimal, durationMinutes int) (*Service, error)

	GetEmployee(ctx context.Context, id uuid.UUID) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	CreateEmployee(ctx context.Context, name string, serviceIDs []uuid.UUID) (*Employee, error)
	UpdateEmployee(ctx context.Context, id uuid.UUID, name string, serviceIDs []uuid.UUID) (*Employee, error)
}
