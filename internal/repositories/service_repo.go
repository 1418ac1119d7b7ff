package repositories

import (
	"context"
	"errors"

	"taxdesk/internal/common"
	"taxdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ServiceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	GetByName(ctx context.Context, name string) (*models.Service, error)
	List(ctx context.Context) ([]*models.Service, error)
}

type serviceRepo struct {
	db Querier
}

func NewServiceRepo(db Querier) ServiceRepository {
	return &serviceRepo{db: db}
}

func (r *serviceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	svc := &models.Service{}
	query := `
		SELECT id, name, price, user_limit, is_active, created_at
		FROM services
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&svc.ID, &svc.Name, &svc.Price, &svc.UserLimit, &svc.IsActive, &svc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound(common.CodePlanNotFound, "service level not found").WithDetail("service_id", id.String())
	}
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (r *serviceRepo) GetByName(ctx context.Context, name string) (*models.Service, error) {
	svc := &models.Service{}
	query := `
		SELECT id, name, price, user_limit, is_active, created_at
		FROM services
		WHERE name = $1
	`
	err := r.db.QueryRow(ctx, query, name).Scan(&svc.ID, &svc.Name, &svc.Price, &svc.UserLimit, &svc.IsActive, &svc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound(common.CodePlanNotFound, "service level not found").WithDetail("level", name)
	}
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (r *serviceRepo) List(ctx context.Context) ([]*models.Service, error) {
	query := `
		SELECT id, name, price, user_limit, is_active, created_at
		FROM services
		ORDER BY price
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []*models.Service
	for rows.Next() {
		svc := &models.Service{}
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Price, &svc.UserLimit, &svc.IsActive, &svc.CreatedAt); err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}
