package repositories

import (
	"context"

	"taxdesk/internal/models"

	"github.com/google/uuid"
)

type CompanyUserRepository interface {
	Create(ctx context.Context, user *models.CompanyUser) error
	ListActiveByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.CompanyUser, error)
	CountActiveByCompany(ctx context.Context, companyID uuid.UUID) (int, error)
	CountByCompany(ctx context.Context, companyID uuid.UUID) (int, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	DeleteRolesByCompany(ctx context.Context, companyID uuid.UUID) error
	DeleteByCompany(ctx context.Context, companyID uuid.UUID) error
}

type companyUserRepo struct {
	db Querier
}

func NewCompanyUserRepo(db Querier) CompanyUserRepository {
	return &companyUserRepo{db: db}
}

func (r *companyUserRepo) Create(ctx context.Context, user *models.CompanyUser) error {
	query := `
		INSERT INTO company_users (id, company_id, email, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.CompanyID, user.Email, user.IsActive)
	return err
}

// ListActiveByCompany returns active secondary accounts newest-first.
func (r *companyUserRepo) ListActiveByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.CompanyUser, error) {
	query := `
		SELECT id, company_id, email, is_active, created_at, updated_at
		FROM company_users
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.CompanyUser
	for rows.Next() {
		u := &models.CompanyUser{}
		if err := rows.Scan(&u.ID, &u.CompanyID, &u.Email, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *companyUserRepo) CountActiveByCompany(ctx context.Context, companyID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM company_users WHERE company_id = $1 AND is_active = TRUE`
	err := r.db.QueryRow(ctx, query, companyID).Scan(&count)
	return count, err
}

func (r *companyUserRepo) CountByCompany(ctx context.Context, companyID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM company_users WHERE company_id = $1`
	err := r.db.QueryRow(ctx, query, companyID).Scan(&count)
	return count, err
}

func (r *companyUserRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE company_users SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *companyUserRepo) DeleteRolesByCompany(ctx context.Context, companyID uuid.UUID) error {
	query := `
		DELETE FROM company_user_roles
		WHERE company_user_id IN (SELECT id FROM company_users WHERE company_id = $1)
	`
	_, err := r.db.Exec(ctx, query, companyID)
	return err
}

func (r *companyUserRepo) DeleteByCompany(ctx context.Context, companyID uuid.UUID) error {
	query := `DELETE FROM company_users WHERE company_id = $1`
	_, err := r.db.Exec(ctx, query, companyID)
	return err
}
