package models

import (
	"time"

	"github.com/google/uuid"
)

// CompanyPermission is a per-member grant/revoke exception layered over
// role permissions. An override always wins over a role grant.
type CompanyPermission struct {
	ID           uuid.UUID `json:"id" db:"id"`
	TaxUserID    uuid.UUID `json:"tax_user_id" db:"tax_user_id"`
	PermissionID uuid.UUID `json:"permission_id" db:"permission_id"`
	IsGranted    bool      `json:"is_granted" db:"is_granted"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// PermissionOverride is a resolved override row carrying the permission
// code, as returned by the join query.
type PermissionOverride struct {
	Code      string `json:"code" db:"code"`
	IsGranted bool   `json:"is_granted" db:"is_granted"`
}
