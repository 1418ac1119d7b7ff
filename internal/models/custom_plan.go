package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomPlan is the tenant's current subscription instance. Exactly one
// per company; destroyed together with the company.
type CustomPlan struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CompanyID uuid.UUID `json:"company_id" db:"company_id"`
	Price     float64   `json:"price" db:"price"`
	UserLimit int       `json:"user_limit" db:"user_limit"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	RenewDate time.Time `json:"renew_date" db:"renew_date"`
	Version   int64     `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
