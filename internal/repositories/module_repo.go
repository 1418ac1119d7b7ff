package repositories

import (
	"context"
	"errors"

	"taxdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ModuleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Module, error)
	ListByService(ctx context.Context, serviceID uuid.UUID) ([]*models.Module, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Module, error)
}

type moduleRepo struct {
	db Querier
}

func NewModuleRepo(db Querier) ModuleRepository {
	return &moduleRepo{db: db}
}

func (r *moduleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Module, error) {
	m := &models.Module{}
	query := `
		SELECT id, name, service_id, created_at
		FROM modules
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.ServiceID, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *moduleRepo) ListByService(ctx context.Context, serviceID uuid.UUID) ([]*models.Module, error) {
	query := `
		SELECT id, name, service_id, created_at
		FROM modules
		WHERE service_id = $1
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanModules(rows)
}

func (r *moduleRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Module, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, name, service_id, created_at
		FROM modules
		WHERE id = ANY($1)
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanModules(rows)
}

func scanModules(rows pgx.Rows) ([]*models.Module, error) {
	var modules []*models.Module
	for rows.Next() {
		m := &models.Module{}
		if err := rows.Scan(&m.ID, &m.Name, &m.ServiceID, &m.CreatedAt); err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}
