package domain

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAthlete Role = "athlete"
	RoleAdmin   Role = "admin"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}
