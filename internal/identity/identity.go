package identity

import "github.com/google/uuid"

type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Principal is the acting user as resolved by the external identity
// provider. Core operations receive it explicitly as a parameter; nothing
// in the core reads identity out of ambient state.
type Principal struct {
	CustomerID uuid.UUID
	Role       Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsAuthenticated reports whether a customer identity was resolved.
func (p Principal) IsAuthenticated() bool {
	return p.CustomerID != uuid.Nil
}
