package repositories

import (
	"context"

	"taxdesk/internal/models"

	"github.com/google/uuid"
)

type CustomModuleRepository interface {
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]*models.CustomModule, error)
	Upsert(ctx context.Context, planID, moduleID uuid.UUID, included bool) error
	CountByPlan(ctx context.Context, planID uuid.UUID) (int, error)
	DeleteByPlan(ctx context.Context, planID uuid.UUID) error
}

type customModuleRepo struct {
	db Querier
}

func NewCustomModuleRepo(db Querier) CustomModuleRepository {
	return &customModuleRepo{db: db}
}

func (r *customModuleRepo) ListByPlan(ctx context.Context, planID uuid.UUID) ([]*models.CustomModule, error) {
	query := `
		SELECT id, plan_id, module_id, is_included, created_at, updated_at
		FROM custom_modules
		WHERE plan_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mods []*models.CustomModule
	for rows.Next() {
		m := &models.CustomModule{}
		if err := rows.Scan(&m.ID, &m.PlanID, &m.ModuleID, &m.IsIncluded, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	return mods, rows.Err()
}

// Upsert creates the (plan, module) row if absent, else flips the flag.
// Rows are never deleted, so a re-applied tier reuses the existing row.
func (r *customModuleRepo) Upsert(ctx context.Context, planID, moduleID uuid.UUID, included bool) error {
	query := `
		INSERT INTO custom_modules (id, plan_id, module_id, is_included, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (plan_id, module_id) DO UPDATE SET is_included = EXCLUDED.is_included, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, uuid.New(), planID, moduleID, included)
	return err
}

func (r *customModuleRepo) CountByPlan(ctx context.Context, planID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM custom_modules WHERE plan_id = $1`
	err := r.db.QueryRow(ctx, query, planID).Scan(&count)
	return count, err
}

func (r *customModuleRepo) DeleteByPlan(ctx context.Context, planID uuid.UUID) error {
	query := `DELETE FROM custom_modules WHERE plan_id = $1`
	_, err := r.db.Exec(ctx, query, planID)
	return err
}
