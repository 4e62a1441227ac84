package domain

// Role role of the authenticated user
type Role string

const (
	RoleCustomer Role = "customer"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// IsValid returns true for known roles
func (r Role) IsValid() bool {
	return r == RoleCustomer || r == RoleManager || r == RoleAdmin
}
