package models

import "time"

// Role is the single authorization flag carried by a user.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// DefaultLeaveDays is the annual leave granted at registration.
const DefaultLeaveDays = 14

// User is an employee or the administrator.
// It is persisted as one element of the `users` collection.
type User struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Password   string    `json:"password,omitempty"` // bcrypt hash
	Role       Role      `json:"role"`
	OTHours    float64   `json:"otHours"`
	LeaveDays  float64   `json:"leaveDays"`
	JoinedAt   time.Time `json:"joinedDate"`
}

// IsAdmin reports whether the user carries the ADMIN role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Public returns a copy without the credential hash, for responses.
func (u User) Public() User {
	u.Password = ""
	return u
}
