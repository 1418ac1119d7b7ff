package models

import (
	"time"

	"github.com/google/uuid"
)

// TaxUser is a full member of a tenant. Email is globally unique.
type TaxUser struct {
	ID           uuid.UUID `json:"id" db:"id"`
	CompanyID    uuid.UUID `json:"company_id" db:"company_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	IsOwner      bool      `json:"is_owner" db:"is_owner"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	Version      int64     `json:"version" db:"version"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
