package repositories

import (
	"context"
	"errors"

	"taxdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PermissionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Permission, error)
	GetByCode(ctx context.Context, code string) (*models.Permission, error)
	List(ctx context.Context) ([]*models.Permission, error)
}

type permissionRepo struct {
	db Querier
}

func NewPermissionRepo(db Querier) PermissionRepository {
	return &permissionRepo{db: db}
}

func (r *permissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Permission, error) {
	p := &models.Permission{}
	query := `
		SELECT id, code, name, created_at
		FROM permissions
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Code, &p.Name, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *permissionRepo) GetByCode(ctx context.Context, code string) (*models.Permission, error) {
	p := &models.Permission{}
	query := `
		SELECT id, code, name, created_at
		FROM permissions
		WHERE code = $1
	`
	err := r.db.QueryRow(ctx, query, code).Scan(&p.ID, &p.Code, &p.Name, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *permissionRepo) List(ctx context.Context) ([]*models.Permission, error) {
	query := `
		SELECT id, code, name, created_at
		FROM permissions
		ORDER BY code
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []*models.Permission
	for rows.Next() {
		p := &models.Permission{}
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}
