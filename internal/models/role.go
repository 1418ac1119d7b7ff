package models

import (
	"time"

	"github.com/google/uuid"
)

// Administrator-class role names. Members holding any of these are never
// deactivated by an automatic downgrade.
const (
	RoleOwner = "Owner"
	RoleAdmin = "Admin"
)

type Role struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	ServiceLevel *string   `json:"service_level,omitempty" db:"service_level"`
	PortalAccess bool      `json:"portal_access" db:"portal_access"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// IsAdminClass reports whether the role carries administrative capacity.
func (r *Role) IsAdminClass() bool {
	return r.Name == RoleOwner || r.Name == RoleAdmin
}
