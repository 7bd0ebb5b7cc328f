package models

import "time"

// Well-known bootstrap credentials for the first-run administrator.
// They exist only so a fresh store can be signed into.
const (
	AdminID         = "admin-fixed-id"
	AdminEmployeeID = "ADMIN_001"
	AdminName       = "System Administrator"
	AdminEmail      = "admin@company.com"
	AdminPassword   = "admin"
)

// NewSeedAdmin builds the seeded administrator with zero balances.
// passwordHash must already be hashed.
func NewSeedAdmin(passwordHash string, joined time.Time) User {
	return User{
		ID:         AdminID,
		EmployeeID: AdminEmployeeID,
		Name:       AdminName,
		Email:      AdminEmail,
		Password:   passwordHash,
		Role:       RoleAdmin,
		JoinedAt:   joined.UTC(),
	}
}
