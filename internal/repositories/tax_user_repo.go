package repositories

import (
	"context"
	"errors"
	"fmt"

	"taxdesk/internal/common"
	"taxdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TaxUserRepository interface {
	Create(ctx context.Context, user *models.TaxUser) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TaxUser, error)
	GetByEmail(ctx context.Context, email string) (*models.TaxUser, error)
	ListActiveByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.TaxUser, error)
	CountActiveByCompany(ctx context.Context, companyID uuid.UUID) (int, error)
	CountByCompany(ctx context.Context, companyID uuid.UUID) (int, error)
	Deactivate(ctx context.Context, user *models.TaxUser) error
	DeleteByCompany(ctx context.Context, companyID uuid.UUID) error
}

type taxUserRepo struct {
	db Querier
}

func NewTaxUserRepo(db Querier) TaxUserRepository {
	return &taxUserRepo{db: db}
}

func (r *taxUserRepo) Create(ctx context.Context, user *models.TaxUser) error {
	// Email is globally unique, not just tenant-wide
	var count int
	emailCheck := `SELECT COUNT(*) FROM tax_users WHERE email = $1`
	if err := r.db.QueryRow(ctx, emailCheck, user.Email).Scan(&count); err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if count > 0 {
		return common.Conflict(common.CodeDuplicateEmail, "email already registered").WithDetail("email", user.Email)
	}

	query := `
		INSERT INTO tax_users (id, company_id, email, password_hash, first_name, last_name, is_owner, is_active, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.CompanyID, user.Email, user.PasswordHash, user.FirstName, user.LastName, user.IsOwner, user.IsActive)
	return err
}

func (r *taxUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.TaxUser, error) {
	query := `
		SELECT id, company_id, email, password_hash, first_name, last_name, is_owner, is_active, version, created_at, updated_at
		FROM tax_users
		WHERE id = $1
	`
	user, err := scanTaxUser(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound(common.CodeUserNotFound, "member not found").WithDetail("user_id", id.String())
	}
	return user, err
}

func (r *taxUserRepo) GetByEmail(ctx context.Context, email string) (*models.TaxUser, error) {
	query := `
		SELECT id, company_id, email, password_hash, first_name, last_name, is_owner, is_active, version, created_at, updated_at
		FROM tax_users
		WHERE email = $1
	`
	user, err := scanTaxUser(r.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NotFound(common.CodeUserNotFound, "member not found").WithDetail("email", email)
	}
	return user, err
}

// ListActiveByCompany returns active members newest-first, the order the
// deactivation selection consumes them in.
func (r *taxUserRepo) ListActiveByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.TaxUser, error) {
	query := `
		SELECT id, company_id, email, password_hash, first_name, last_name, is_owner, is_active, version, created_at, updated_at
		FROM tax_users
		WHERE company_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.TaxUser
	for rows.Next() {
		u := &models.TaxUser{}
		if err := rows.Scan(&u.ID, &u.CompanyID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.IsOwner, &u.IsActive, &u.Version, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *taxUserRepo) CountActiveByCompany(ctx context.Context, companyID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tax_users WHERE company_id = $1 AND is_active = TRUE`
	err := r.db.QueryRow(ctx, query, companyID).Scan(&count)
	return count, err
}

func (r *taxUserRepo) CountByCompany(ctx context.Context, companyID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tax_users WHERE company_id = $1`
	err := r.db.QueryRow(ctx, query, companyID).Scan(&count)
	return count, err
}

// Deactivate flips is_active guarded by the row version.
func (r *taxUserRepo) Deactivate(ctx context.Context, user *models.TaxUser) error {
	query := `
		UPDATE tax_users
		SET is_active = FALSE, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
	`
	tag, err := r.db.Exec(ctx, query, user.ID, user.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.Conflict(common.CodeConcurrentModification, "member was modified concurrently").WithDetail("user_id", user.ID.String())
	}
	user.IsActive = false
	user.Version++
	return nil
}

func (r *taxUserRepo) DeleteByCompany(ctx context.Context, companyID uuid.UUID) error {
	query := `DELETE FROM tax_users WHERE company_id = $1`
	_, err := r.db.Exec(ctx, query, companyID)
	return err
}

func scanTaxUser(row pgx.Row) (*models.TaxUser, error) {
	u := &models.TaxUser{}
	err := row.Scan(&u.ID, &u.CompanyID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.IsOwner, &u.IsActive, &u.Version, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}
