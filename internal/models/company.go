package models

import (
	"time"

	"github.com/google/uuid"
)

type Company struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	IsCompany bool       `json:"is_company" db:"is_company"`
	Domain    *string    `json:"domain,omitempty" db:"domain"`
	AddressID *uuid.UUID `json:"address_id,omitempty" db:"address_id"`
	Status    string     `json:"status" db:"status"`
	Version   int64      `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
