package repositories

import (
	"context"
	"errors"

	"taxdesk/internal/common"
	"taxdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InvitationRepository interface {
	Create(ctx context.Context, inv *models.Invitation) error
	GetByToken(ctx context.Context, token string) (*models.Invitation, error)
	// MarkAccepted flips Pending to Accepted conditionally; returns false
	// when the invitation was no longer Pending (lost race or terminal).
	MarkAccepted(ctx context.Context, id, registeredUserID uuid.UUID) (bool, error)
	MarkCancelled(ctx context.Context, id, cancelledBy uuid.UUID) (bool, error)
	MarkExpired(ctx context.Context, id uuid.UUID) (bool, error)
	ExpireStale(ctx context.Context) (int64, error)
	ListPendingByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.Invitation, error)
}

type invitationRepo struct {
	db Querier
}

func NewInvitationRepo(db Querier) InvitationRepository {
	return &invitationRepo{db: db}
}

func (r *invitationRepo) Create(ctx context.Context, inv *models.Invitation) error {
	query := `
		INSERT INTO invitations (id, company_id, email, token, status, role_ids, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, inv.ID, inv.CompanyID, inv.Email, inv.Token, inv.Status, inv.RoleIDs, inv.ExpiresAt)
	return err
}

func (r *invitationRepo) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	inv := &models.Invitation{}
	query := `
		SELECT id, company_id, email, token, status, role_ids, expires_at, accepted_at, registered_user_id, cancelled_at, cancelled_by_user_id, created_at, updated_at
		FROM invitations
		WHERE token = $1
	`
	err := r.db.QueryRow(ctx, query, token).Scan(&inv.ID, &inv.CompanyID, &inv.Email, &inv.Token, &inv.Status, &inv.RoleIDs, &inv.ExpiresAt, &inv.AcceptedAt, &inv.RegisteredUserID, &inv.CancelledAt, &inv.CancelledByUserID, &inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound(common.CodeInvitationNotFound, "invitation not found")
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepo) MarkAccepted(ctx context.Context, id, registeredUserID uuid.UUID) (bool, error) {
	// The status guard closes the race between two concurrent accepts:
	// only the first UPDATE matches the row.
	query := `
		UPDATE invitations
		SET status = 'accepted', accepted_at = NOW(), registered_user_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending' AND expires_at > NOW()
	`
	tag, err := r.db.Exec(ctx, query, id, registeredUserID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *invitationRepo) MarkCancelled(ctx context.Context, id, cancelledBy uuid.UUID) (bool, error) {
	query := `
		UPDATE invitations
		SET status = 'cancelled', cancelled_at = NOW(), cancelled_by_user_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	tag, err := r.db.Exec(ctx, query, id, cancelledBy)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *invitationRepo) MarkExpired(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE invitations
		SET status = 'expired', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ExpireStale flips every Pending invitation past its deadline. Used by
// the background sweep; readers apply the same rule lazily.
func (r *invitationRepo) ExpireStale(ctx context.Context) (int64, error) {
	query := `
		UPDATE invitations
		SET status = 'expired', updated_at = NOW()
		WHERE status = 'pending' AND expires_at <= NOW()
	`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *invitationRepo) ListPendingByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.Invitation, error) {
	query := `
		SELECT id, company_id, email, token, status, role_ids, expires_at, accepted_at, registered_user_id, cancelled_at, cancelled_by_user_id, created_at, updated_at
		FROM invitations
		WHERE company_id = $1 AND status = 'pending'
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []*models.Invitation
	for rows.Next() {
		inv := &models.Invitation{}
		if err := rows.Scan(&inv.ID, &inv.CompanyID, &inv.Email, &inv.Token, &inv.Status, &inv.RoleIDs, &inv.ExpiresAt, &inv.AcceptedAt, &inv.RegisteredUserID, &inv.CancelledAt, &inv.CancelledByUserID, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}
