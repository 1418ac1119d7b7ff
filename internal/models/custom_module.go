package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomModule is a feature entitlement attached to a plan. Rows are
// created once per (plan, module) pair and only ever flipped between
// included/excluded; they are never deleted individually.
type CustomModule struct {
	ID         uuid.UUID `json:"id" db:"id"`
	PlanID     uuid.UUID `json:"plan_id" db:"plan_id"`
	ModuleID   uuid.UUID `json:"module_id" db:"module_id"`
	IsIncluded bool      `json:"is_included" db:"is_included"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
