package models

// Role is the closed set of actor roles known to the platform.
// The numeric values match the role claim carried in access tokens.
type Role int

const (
	RoleStudent    Role = 1
	RoleInstructor Role = 2
	RoleAdmin      Role = 3
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleInstructor || r == RoleAdmin
}

func (r Role) String() string {
	switch r {
	case RoleStudent:
		return "student"
	case RoleInstructor:
		return "instructor"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Actor is the authenticated caller as supplied by the authentication layer.
// The token middleware has already verified it; services trust it as-is.
type Actor struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}
