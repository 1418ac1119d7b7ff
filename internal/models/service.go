package models

import (
	"time"

	"github.com/google/uuid"
)

// Catalog service levels.
const (
	ServiceBasic    = "Basic"
	ServiceStandard = "Standard"
	ServicePro      = "Pro"
)

// Service is a catalog plan tier (Basic/Standard/Pro). Read-only
// reference data, seeded at install time.
type Service struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Price     float64   `json:"price" db:"price"`
	UserLimit int       `json:"user_limit" db:"user_limit"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
