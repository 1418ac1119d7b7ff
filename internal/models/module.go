package models

import (
	"time"

	"github.com/google/uuid"
)

// Module is a catalog feature. A nil ServiceID means the module is a
// paid add-on not bundled with any tier.
type Module struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	ServiceID *uuid.UUID `json:"service_id,omitempty" db:"service_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
