package domain

import "time"

// Role identifies which staff table owns the rest of an identity's profile.
type Role string

const (
	RolePractitioner  Role = "practitioner"
	RoleFrontDesk     Role = "front_desk"
	RoleAdministrator Role = "administrator"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePractitioner, RoleFrontDesk, RoleAdministrator:
		return true
	}
	return false
}

// Status is the account state of an identity.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Identity is the credential row owned by the store. This service only reads it.
type Identity struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	Status       Status
	CreatedAt    time.Time
}

// IsActive reports whether the identity may log in or hold a session.
func (i *Identity) IsActive() bool {
	return i.Status == StatusActive
}
