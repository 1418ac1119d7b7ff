package repositories

import (
	"context"
	"errors"

	"taxdesk/internal/common"
	"taxdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CustomPlanRepository interface {
	Create(ctx context.Context, plan *models.CustomPlan) error
	GetByCompanyID(ctx context.Context, companyID uuid.UUID) (*models.CustomPlan, error)
	Update(ctx context.Context, plan *models.CustomPlan) error
	DeleteByCompanyID(ctx context.Context, companyID uuid.UUID) error
}

type customPlanRepo struct {
	db Querier
}

func NewCustomPlanRepo(db Querier) CustomPlanRepository {
	return &customPlanRepo{db: db}
}

func (r *customPlanRepo) Create(ctx context.Context, plan *models.CustomPlan) error {
	query := `
		INSERT INTO custom_plans (id, company_id, price, user_limit, is_active, start_date, renew_date, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, plan.ID, plan.CompanyID, plan.Price, plan.UserLimit, plan.IsActive, plan.StartDate, plan.RenewDate)
	return err
}

func (r *customPlanRepo) GetByCompanyID(ctx context.Context, companyID uuid.UUID) (*models.CustomPlan, error) {
	plan := &models.CustomPlan{}
	query := `
		SELECT id, company_id, price, user_limit, is_active, start_date, renew_date, version, created_at, updated_at
		FROM custom_plans
		WHERE company_id = $1
	`
	err := r.db.QueryRow(ctx, query, companyID).Scan(&plan.ID, &plan.CompanyID, &plan.Price, &plan.UserLimit, &plan.IsActive, &plan.StartDate, &plan.RenewDate, &plan.Version, &plan.CreatedAt, &plan.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound(common.CodePlanNotFound, "no plan for company").WithDetail("company_id", companyID.String())
	}
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// Update writes the row guarded by its version.
func (r *customPlanRepo) Update(ctx context.Context, plan *models.CustomPlan) error {
	query := `
		UPDATE custom_plans
		SET price = $1, user_limit = $2, is_active = $3, start_date = $4, renew_date = $5, version = version + 1, updated_at = NOW()
		WHERE id = $6 AND version = $7
	`
	tag, err := r.db.Exec(ctx, query, plan.Price, plan.UserLimit, plan.IsActive, plan.StartDate, plan.RenewDate, plan.ID, plan.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.Conflict(common.CodeConcurrentModification, "plan was modified concurrently").WithDetail("plan_id", plan.ID.String())
	}
	plan.Version++
	return nil
}

func (r *customPlanRepo) DeleteByCompanyID(ctx context.Context, companyID uuid.UUID) error {
	query := `DELETE FROM custom_plans WHERE company_id = $1`
	_, err := r.db.Exec(ctx, query, companyID)
	return err
}
