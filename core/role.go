package core

// Role is the closed set of account types. Every branch on a role must
// switch over these three values; an unknown role never falls through
// silently because ParseRole rejects it at the boundary.
type Role string

const (
	RoleDonor Role = "donor"
	RoleONG   Role = "ong"
	RoleAdmin Role = "admin"
)

// ParseRole maps a backend role tag to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleDonor:
		return RoleDonor, nil
	case RoleONG:
		return RoleONG, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", ErrUnknownRole
}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleONG, RoleAdmin:
		return true
	}
	return false
}

// DashboardPath returns the dashboard entry point for the role, or ""
// for an unknown role.
func (r Role) DashboardPath() string {
	switch r {
	case RoleDonor:
		return "/dashboard/donor"
	case RoleONG:
		return "/dashboard/ong"
	case RoleAdmin:
		return "/dashboard/admin"
	}
	return ""
}

// AssignmentName is the capitalized role name the role-assignment
// endpoint expects ("Donor", "Ong", "Admin").
func (r Role) AssignmentName() string {
	switch r {
	case RoleDonor:
		return "Donor"
	case RoleONG:
		return "Ong"
	case RoleAdmin:
		return "Admin"
	}
	return ""
}

// RoleInfo is the read-only derivation exposed to view code.
type RoleInfo struct {
	Role    Role `json:"role"`
	IsAdmin bool `json:"isAdmin"`
	IsDonor bool `json:"isDonor"`
	IsONG   bool `json:"isOng"`
}
