package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx satisfied by *pgxpool.Pool, pgx.Tx and
// pgxmock pools, so every repository works both standalone and inside a
// transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories bundles every repository bound to one Querier. A bundle
// built inside TxRunner.Run shares that transaction.
type Repositories struct {
	Companies          CompanyRepository
	Addresses          AddressRepository
	CustomPlans        CustomPlanRepository
	CustomModules      CustomModuleRepository
	Services           ServiceRepository
	Modules            ModuleRepository
	Roles              RoleRepository
	Permissions        PermissionRepository
	RolePermissions    RolePermissionRepository
	TaxUsers           TaxUserRepository
	CompanyUsers       CompanyUserRepository
	UserRoles          UserRoleRepository
	CompanyPermissions CompanyPermissionRepository
	Sessions           SessionRepository
	Invitations        InvitationRepository
}

func NewRepositories(db Querier) *Repositories {
	return &Repositories{
		Companies:          NewCompanyRepo(db),
		Addresses:          NewAddressRepo(db),
		CustomPlans:        NewCustomPlanRepo(db),
		CustomModules:      NewCustomModuleRepo(db),
		Services:           NewServiceRepo(db),
		Modules:            NewModuleRepo(db),
		Roles:              NewRoleRepo(db),
		Permissions:        NewPermissionRepo(db),
		RolePermissions:    NewRolePermissionRepo(db),
		TaxUsers:           NewTaxUserRepo(db),
		CompanyUsers:       NewCompanyUserRepo(db),
		UserRoles:          NewUserRoleRepo(db),
		CompanyPermissions: NewCompanyPermissionRepo(db),
		Sessions:           NewSessionRepo(db),
		Invitations:        NewInvitationRepo(db),
	}
}

// TxRunner executes a callback inside a single database transaction with
// transaction-bound repositories. Any error rolls everything back.
type TxRunner interface {
	Run(ctx context.Context, fn func(r *Repositories) error) error
}

type txRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) TxRunner {
	return &txRunner{pool: pool}
}

func (r *txRunner) Run(ctx context.Context, fn func(repos *Repositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
