package domain

import "time"

// Role determines which side of a ride a user is on.
type Role string

const (
	RoleRider  Role = "RIDER"
	RoleDriver Role = "DRIVER"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	return r == RoleRider || r == RoleDriver
}

// User represents a registered rider or driver.
// Users are immutable after registration; phone numbers are globally unique.
type User struct {
	ID        string
	Name      string
	Phone     string
	Role      Role
	CreatedAt time.Time
}
