package repositories

import (
	"context"
	"errors"

	"taxdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Address, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type addressRepo struct {
	db Querier
}

func NewAddressRepo(db Querier) AddressRepository {
	return &addressRepo{db: db}
}

func (r *addressRepo) Create(ctx context.Context, address *models.Address) error {
	query := `
		INSERT INTO addresses (id, line1, line2, city, state, zip, country, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, address.ID, address.Line1, address.Line2, address.City, address.State, address.Zip, address.Country)
	return err
}

func (r *addressRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	address := &models.Address{}
	query := `
		SELECT id, line1, line2, city, state, zip, country, created_at, updated_at
		FROM addresses
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&address.ID, &address.Line1, &address.Line2, &address.City, &address.State, &address.Zip, &address.Country, &address.CreatedAt, &address.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (r *addressRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM addresses WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
