package repositories

import (
	"context"

	"taxdesk/internal/models"

	"github.com/google/uuid"
)

type UserRoleRepository interface {
	Assign(ctx context.Context, taxUserID, roleID uuid.UUID) error
	ListByUser(ctx context.Context, taxUserID uuid.UUID) ([]*models.UserRole, error)
	ListAdminUserIDs(ctx context.Context, companyID uuid.UUID) ([]uuid.UUID, error)
	DeleteByCompany(ctx context.Context, companyID uuid.UUID) error
}

type userRoleRepo struct {
	db Querier
}

func NewUserRoleRepo(db Querier) UserRoleRepository {
	return &userRoleRepo{db: db}
}

func (r *userRoleRepo) Assign(ctx context.Context, taxUserID, roleID uuid.UUID) error {
	query := `
		INSERT INTO user_roles (id, tax_user_id, role_id, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (tax_user_id, role_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, uuid.New(), taxUserID, roleID)
	return err
}

func (r *userRoleRepo) ListByUser(ctx context.Context, taxUserID uuid.UUID) ([]*models.UserRole, error) {
	query := `
		SELECT id, tax_user_id, role_id, created_at
		FROM user_roles
		WHERE tax_user_id = $1
	`
	rows, err := r.db.Query(ctx, query, taxUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urs []*models.UserRole
	for rows.Next() {
		ur := &models.UserRole{}
		if err := rows.Scan(&ur.ID, &ur.TaxUserID, &ur.RoleID, &ur.CreatedAt); err != nil {
			return nil, err
		}
		urs = append(urs, ur)
	}
	return urs, rows.Err()
}

// ListAdminUserIDs returns the ids of every member in the company holding
// an administrator-class role.
func (r *userRoleRepo) ListAdminUserIDs(ctx context.Context, companyID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT ur.tax_user_id
		FROM user_roles ur
		JOIN roles ro ON ro.id = ur.role_id
		JOIN tax_users tu ON tu.id = ur.tax_user_id
		WHERE tu.company_id = $1 AND ro.name = ANY($2)
	`
	rows, err := r.db.Query(ctx, query, companyID, []string{models.RoleOwner, models.RoleAdmin})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *userRoleRepo) DeleteByCompany(ctx context.Context, companyID uuid.UUID) error {
	query := `
		DELETE FROM user_roles
		WHERE tax_user_id IN (SELECT id FROM tax_users WHERE company_id = $1)
	`
	_, err := r.db.Exec(ctx, query, companyID)
	return err
}
