package repositories

import (
	"context"

	"taxdesk/internal/models"

	"github.com/google/uuid"
)

type RolePermissionRepository interface {
	ListByRole(ctx context.Context, roleID uuid.UUID) ([]*models.RolePermission, error)
	ListCodesByRoles(ctx context.Context, roleIDs []uuid.UUID) ([]string, error)
}

type rolePermissionRepo struct {
	db Querier
}

func NewRolePermissionRepo(db Querier) RolePermissionRepository {
	return &rolePermissionRepo{db: db}
}

func (r *rolePermissionRepo) ListByRole(ctx context.Context, roleID uuid.UUID) ([]*models.RolePermission, error) {
	query := `
		SELECT id, role_id, permission_id, created_at
		FROM role_permissions
		WHERE role_id = $1
	`
	rows, err := r.db.Query(ctx, query, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rps []*models.RolePermission
	for rows.Next() {
		rp := &models.RolePermission{}
		if err := rows.Scan(&rp.ID, &rp.RoleID, &rp.PermissionID, &rp.CreatedAt); err != nil {
			return nil, err
		}
		rps = append(rps, rp)
	}
	return rps, rows.Err()
}

// ListCodesByRoles returns the distinct permission codes granted by any
// of the given roles in one round trip.
func (r *rolePermissionRepo) ListCodesByRoles(ctx context.Context, roleIDs []uuid.UUID) ([]string, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT DISTINCT p.code
		FROM role_permissions rp
		JOIN permissions p ON p.id = rp.permission_id
		WHERE rp.role_id = ANY($1)
		ORDER BY p.code
	`
	rows, err := r.db.Query(ctx, query, roleIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
