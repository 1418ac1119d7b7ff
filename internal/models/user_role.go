package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TaxUserID uuid.UUID `json:"tax_user_id" db:"tax_user_id"`
	RoleID    uuid.UUID `json:"role_id" db:"role_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type CompanyUserRole struct {
	ID            uuid.UUID `json:"id" db:"id"`
	CompanyUserID uuid.UUID `json:"company_user_id" db:"company_user_id"`
	RoleID        uuid.UUID `json:"role_id" db:"role_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
