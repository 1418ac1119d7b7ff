package repositories

import (
	"context"

	"taxdesk/internal/models"

	"github.com/google/uuid"
)

type CompanyPermissionRepository interface {
	Upsert(ctx context.Context, taxUserID, permissionID uuid.UUID, granted bool) error
	ListOverridesByUser(ctx context.Context, taxUserID uuid.UUID) ([]*models.PermissionOverride, error)
	DeleteByCompany(ctx context.Context, companyID uuid.UUID) error
}

type companyPermissionRepo struct {
	db Querier
}

func NewCompanyPermissionRepo(db Querier) CompanyPermissionRepository {
	return &companyPermissionRepo{db: db}
}

func (r *companyPermissionRepo) Upsert(ctx context.Context, taxUserID, permissionID uuid.UUID, granted bool) error {
	query := `
		INSERT INTO company_permissions (id, tax_user_id, permission_id, is_granted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (tax_user_id, permission_id) DO UPDATE SET is_granted = EXCLUDED.is_granted, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, uuid.New(), taxUserID, permissionID, granted)
	return err
}

// ListOverridesByUser returns the member's overrides joined to permission
// codes, ready to patch over role grants.
func (r *companyPermissionRepo) ListOverridesByUser(ctx context.Context, taxUserID uuid.UUID) ([]*models.PermissionOverride, error) {
	query := `
		SELECT p.code, cp.is_granted
		FROM company_permissions cp
		JOIN permissions p ON p.id = cp.permission_id
		WHERE cp.tax_user_id = $1
		ORDER BY p.code
	`
	rows, err := r.db.Query(ctx, query, taxUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []*models.PermissionOverride
	for rows.Next() {
		o := &models.PermissionOverride{}
		if err := rows.Scan(&o.Code, &o.IsGranted); err != nil {
			return nil, err
		}
		overrides = append(overrides, o)
	}
	return overrides, rows.Err()
}

func (r *companyPermissionRepo) DeleteByCompany(ctx context.Context, companyID uuid.UUID) error {
	query := `
		DELETE FROM company_permissions
		WHERE tax_user_id IN (SELECT id FROM tax_users WHERE company_id = $1)
	`
	_, err := r.db.Exec(ctx, query, companyID)
	return err
}
