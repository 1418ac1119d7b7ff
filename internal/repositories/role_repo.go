package repositories

import (
	"context"
	"errors"

	"taxdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RoleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]*models.Role, error)
}

type roleRepo struct {
	db Querier
}

func NewRoleRepo(db Querier) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	role := &models.Role{}
	query := `
		SELECT id, name, service_level, portal_access, created_at
		FROM roles
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&role.ID, &role.Name, &role.ServiceLevel, &role.PortalAccess, &role.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleRepo) GetByName(ctx context.Context, name string) (*models.Role, error) {
	role := &models.Role{}
	query := `
		SELECT id, name, service_level, portal_access, created_at
		FROM roles
		WHERE name = $1
	`
	err := r.db.QueryRow(ctx, query, name).Scan(&role.ID, &role.Name, &role.ServiceLevel, &role.PortalAccess, &role.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleRepo) List(ctx context.Context) ([]*models.Role, error) {
	query := `
		SELECT id, name, service_level, portal_access, created_at
		FROM roles
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		role := &models.Role{}
		if err := rows.Scan(&role.ID, &role.Name, &role.ServiceLevel, &role.PortalAccess, &role.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
