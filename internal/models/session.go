package models

import (
	"time"

	"github.com/google/uuid"
)

// Member kind discriminator for sessions.
const (
	MemberKindTaxUser     = "tax_user"
	MemberKindCompanyUser = "company_user"
)

type Session struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	MemberID   uuid.UUID  `json:"member_id" db:"member_id"`
	MemberKind string     `json:"member_kind" db:"member_kind"`
	TokenHash  string     `json:"-" db:"token_hash"`
	IsRevoked  bool       `json:"is_revoked" db:"is_revoked"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty" db:"revoked_at"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
