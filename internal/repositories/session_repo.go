package repositories

import (
	"context"

	"taxdesk/internal/models"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	Revoke(ctx context.Context, id uuid.UUID) error
	CountLiveByCompany(ctx context.Context, companyID uuid.UUID) (int, error)
	DeleteByCompanyAndKind(ctx context.Context, companyID uuid.UUID, memberKind string) error
}

type sessionRepo struct {
	db Querier
}

func NewSessionRepo(db Querier) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (id, member_id, member_kind, token_hash, is_revoked, expires_at, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, session.ID, session.MemberID, session.MemberKind, session.TokenHash, session.ExpiresAt)
	return err
}

func (r *sessionRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE sessions SET is_revoked = TRUE, revoked_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// CountLiveByCompany counts non-revoked sessions across both member
// populations of the company.
func (r *sessionRepo) CountLiveByCompany(ctx context.Context, companyID uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM sessions s
		WHERE s.is_revoked = FALSE AND (
			(s.member_kind = 'tax_user' AND s.member_id IN (SELECT id FROM tax_users WHERE company_id = $1))
			OR
			(s.member_kind = 'company_user' AND s.member_id IN (SELECT id FROM company_users WHERE company_id = $1))
		)
	`
	err := r.db.QueryRow(ctx, query, companyID).Scan(&count)
	return count, err
}

func (r *sessionRepo) DeleteByCompanyAndKind(ctx context.Context, companyID uuid.UUID, memberKind string) error {
	var query string
	if memberKind == models.MemberKindCompanyUser {
		query = `
			DELETE FROM sessions
			WHERE member_kind = 'company_user' AND member_id IN (SELECT id FROM company_users WHERE company_id = $1)
		`
	} else {
		query = `
			DELETE FROM sessions
			WHERE member_kind = 'tax_user' AND member_id IN (SELECT id FROM tax_users WHERE company_id = $1)
		`
	}
	_, err := r.db.Exec(ctx, query, companyID)
	return err
}
