package repositories

import (
	"context"
	"errors"

	"taxdesk/internal/common"
	"taxdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetByDomain(ctx context.Context, domain string) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type companyRepo struct {
	db Querier
}

func NewCompanyRepo(db Querier) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) Create(ctx context.Context, company *models.Company) error {
	query := `
		INSERT INTO companies (id, name, is_company, domain, address_id, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, company.ID, company.Name, company.IsCompany, company.Domain, company.AddressID, company.Status)
	return err
}

func (r *companyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	company := &models.Company{}
	query := `
		SELECT id, name, is_company, domain, address_id, status, version, created_at, updated_at
		FROM companies
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&company.ID, &company.Name, &company.IsCompany, &company.Domain, &company.AddressID, &company.Status, &company.Version, &company.CreatedAt, &company.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound(common.CodeTenantNotFound, "company not found").WithDetail("company_id", id.String())
	}
	if err != nil {
		return nil, err
	}
	return company, nil
}

func (r *companyRepo) GetByDomain(ctx context.Context, domain string) (*models.Company, error) {
	company := &models.Company{}
	query := `
		SELECT id, name, is_company, domain, address_id, status, version, created_at, updated_at
		FROM companies
		WHERE domain = $1
	`
	err := r.db.QueryRow(ctx, query, domain).Scan(&company.ID, &company.Name, &company.IsCompany, &company.Domain, &company.AddressID, &company.Status, &company.Version, &company.CreatedAt, &company.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound(common.CodeTenantNotFound, "company not found").WithDetail("domain", domain)
	}
	if err != nil {
		return nil, err
	}
	return company, nil
}

// Update writes the row guarded by its version. A stale version surfaces
// as a Conflict so concurrent mutations never silently interleave.
func (r *companyRepo) Update(ctx context.Context, company *models.Company) error {
	query := `
		UPDATE companies
		SET name = $1, is_company = $2, domain = $3, address_id = $4, status = $5, version = version + 1, updated_at = NOW()
		WHERE id = $6 AND version = $7
	`
	tag, err := r.db.Exec(ctx, query, company.Name, company.IsCompany, company.Domain, company.AddressID, company.Status, company.ID, company.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.Conflict(common.CodeConcurrentModification, "company was modified concurrently").WithDetail("company_id", company.ID.String())
	}
	company.Version++
	return nil
}

func (r *companyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM companies WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
