package models

import (
	"time"

	"github.com/google/uuid"
)

// Invitation statuses. Pending is initial; the other three are terminal.
const (
	InvitationPending   = "pending"
	InvitationAccepted  = "accepted"
	InvitationCancelled = "cancelled"
	InvitationExpired   = "expired"
)

// Invitation is a pending offer for a principal to join a tenant with the
// given roles. The token is the sole credential for acceptance.
type Invitation struct {
	ID                uuid.UUID   `json:"id" db:"id"`
	CompanyID         uuid.UUID   `json:"company_id" db:"company_id"`
	Email             string      `json:"email" db:"email"`
	Token             string      `json:"-" db:"token"`
	Status            string      `json:"status" db:"status"`
	RoleIDs           []uuid.UUID `json:"role_ids" db:"role_ids"`
	ExpiresAt         time.Time   `json:"expires_at" db:"expires_at"`
	AcceptedAt        *time.Time  `json:"accepted_at,omitempty" db:"accepted_at"`
	RegisteredUserID  *uuid.UUID  `json:"registered_user_id,omitempty" db:"registered_user_id"`
	CancelledAt       *time.Time  `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CancelledByUserID *uuid.UUID  `json:"cancelled_by_user_id,omitempty" db:"cancelled_by_user_id"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`
}

// IsExpired reports lazy expiry: a Pending invitation past its deadline
// is treated as expired even before the background sweep flips the row.
func (i *Invitation) IsExpired(now time.Time) bool {
	return i.Status == InvitationPending && now.After(i.ExpiresAt)
}
