package models

import (
	"github.com/google/uuid"

	"flash-designer-backend/internal/policy"
)

// SessionUser is the identity resolved from a verified request token.
// Role is empty until the user has picked one.
type SessionUser struct {
	ID       uuid.UUID
	Email    string
	Role     policy.Role
	FullName string
}

// HasRole reports whether the user has chosen a role yet.
func (u SessionUser) HasRole() bool {
	return u.Role != ""
}
