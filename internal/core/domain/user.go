package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the access role of a user.
type Role string

const (
	RoleCustomer   Role = "CUSTOMER"
	RoleTechnician Role = "TECHNICIAN"
	RoleAdmin      Role = "ADMIN"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleTechnician, RoleAdmin:
		return true
	}
	return false
}

// User is the identity collaborator's entity. The ticket core consumes it
// (creator and assignee references, role checks) but does not own it.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// NewUser creates a user with a generated id. The password hash must already
// be computed by the identity layer.
func NewUser(email, name, passwordHash string, role Role) *User {
	return &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
}
