package services

import (
	"context"
	"sort"
	"time"

	"taxdesk/internal/caching"
	"taxdesk/internal/repositories"

	"github.com/google/uuid"
)

const permissionCacheTTL = 5 * time.Minute

// PermissionService computes the effective permission set for a member:
// the union of all role grants, patched by per-member overrides. An
// override always wins over a role grant, in both directions.
type PermissionService interface {
	Resolve(ctx context.Context, memberID uuid.UUID) ([]string, error)
	UserHasPermission(ctx context.Context, memberID uuid.UUID, code string) (bool, error)
	// SetOverride writes a per-member override and invalidates the cache.
	SetOverride(ctx context.Context, memberID, permissionID uuid.UUID, granted bool) error
	// AssignRole grants a role to a member and invalidates the cache.
	AssignRole(ctx context.Context, memberID, roleID uuid.UUID) error
}

type permissionService struct {
	userRoleRepo       repositories.UserRoleRepository
	rolePermissionRepo repositories.RolePermissionRepository
	overrideRepo       repositories.CompanyPermissionRepository
	cache              caching.PermissionCache
}

func NewPermissionService(
	userRoleRepo repositories.UserRoleRepository,
	rolePermissionRepo repositories.RolePermissionRepository,
	overrideRepo repositories.CompanyPermissionRepository,
	cache caching.PermissionCache,
) PermissionService {
	return &permissionService{
		userRoleRepo:       userRoleRepo,
		rolePermissionRepo: rolePermissionRepo,
		overrideRepo:       overrideRepo,
		cache:              cache,
	}
}

// Resolve returns the member's effective permission codes, sorted. A
// member with no roles and no overrides resolves to an empty set, not an
// error; callers treat that as a normal authorization deny.
func (s *permissionService) Resolve(ctx context.Context, memberID uuid.UUID) ([]string, error) {
	if codes, ok, err := s.cache.GetPermissions(ctx, memberID); err == nil && ok {
		return codes, nil
	}

	userRoles, err := s.userRoleRepo.ListByUser(ctx, memberID)
	if err != nil {
		return nil, err
	}

	roleIDs := make([]uuid.UUID, 0, len(userRoles))
	for _, ur := range userRoles {
		roleIDs = append(roleIDs, ur.RoleID)
	}

	granted, err := s.rolePermissionRepo.ListCodesByRoles(ctx, roleIDs)
	if err != nil {
		return nil, err
	}

	effective := make(map[string]bool, len(granted))
	for _, code := range granted {
		effective[code] = true
	}

	overrides, err := s.overrideRepo.ListOverridesByUser(ctx, memberID)
	if err != nil {
		return nil, err
	}
	for _, o := range overrides {
		if o.IsGranted {
			effective[o.Code] = true
		} else {
			delete(effective, o.Code)
		}
	}

	codes := make([]string, 0, len(effective))
	for code := range effective {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	_ = s.cache.SetPermissions(ctx, memberID, codes, permissionCacheTTL)

	return codes, nil
}

func (s *permissionService) UserHasPermission(ctx context.Context, memberID uuid.UUID, code string) (bool, error) {
	codes, err := s.Resolve(ctx, memberID)
	if err != nil {
		return false, err
	}
	for _, c := range codes {
		if c == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *permissionService) SetOverride(ctx context.Context, memberID, permissionID uuid.UUID, granted bool) error {
	if err := s.overrideRepo.Upsert(ctx, memberID, permissionID, granted); err != nil {
		return err
	}
	return s.cache.DeletePermissions(ctx, memberID)
}

func (s *permissionService) AssignRole(ctx context.Context, memberID, roleID uuid.UUID) error {
	if err := s.userRoleRepo.Assign(ctx, memberID, roleID); err != nil {
		return err
	}
	return s.cache.DeletePermissions(ctx, memberID)
}
