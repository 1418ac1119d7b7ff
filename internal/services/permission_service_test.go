package services

import (
	"context"
	"testing"
	"time"

	"taxdesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockUserRoleRepository struct {
	mock.Mock
}

func (m *MockUserRoleRepository) Assign(ctx context.Context, taxUserID, roleID uuid.UUID) error {
	args := m.Called(ctx, taxUserID, roleID)
	return args.Error(0)
}

func (m *MockUserRoleRepository) ListByUser(ctx context.Context, taxUserID uuid.UUID) ([]*models.UserRole, error) {
	args := m.Called(ctx, taxUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserRole), args.Error(1)
}

func (m *MockUserRoleRepository) ListAdminUserIDs(ctx context.Context, companyID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockUserRoleRepository) DeleteByCompany(ctx context.Context, companyID uuid.UUID) error {
	args := m.Called(ctx, companyID)
	return args.Error(0)
}

type MockRolePermissionRepository struct {
	mock.Mock
}

func (m *MockRolePermissionRepository) ListByRole(ctx context.Context, roleID uuid.UUID) ([]*models.RolePermission, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RolePermission), args.Error(1)
}

func (m *MockRolePermissionRepository) ListCodesByRoles(ctx context.Context, roleIDs []uuid.UUID) ([]string, error) {
	args := m.Called(ctx, roleIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockCompanyPermissionRepository struct {
	mock.Mock
}

func (m *MockCompanyPermissionRepository) Upsert(ctx context.Context, taxUserID, permissionID uuid.UUID, granted bool) error {
	args := m.Called(ctx, taxUserID, permissionID, granted)
	return args.Error(0)
}

func (m *MockCompanyPermissionRepository) ListOverridesByUser(ctx context.Context, taxUserID uuid.UUID) ([]*models.PermissionOverride, error) {
	args := m.Called(ctx, taxUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PermissionOverride), args.Error(1)
}

func (m *MockCompanyPermissionRepository) DeleteByCompany(ctx context.Context, companyID uuid.UUID) error {
	args := m.Called(ctx, companyID)
	return args.Error(0)
}

// memPermissionCache is an in-process cache used to assert hit and
// invalidation behavior without Redis.
type memPermissionCache struct {
	entries map[uuid.UUID][]string
	sets    int
	deletes int
}

func newMemPermissionCache() *memPermissionCache {
	return &memPermissionCache{entries: make(map[uuid.UUID][]string)}
}

func (c *memPermissionCache) GetPermissions(ctx context.Context, memberID uuid.UUID) ([]string, bool, error) {
	codes, ok := c.entries[memberID]
	return codes, ok, nil
}

func (c *memPermissionCache) SetPermissions(ctx context.Context, memberID uuid.UUID, codes []string, ttl time.Duration) error {
	c.entries[memberID] = codes
	c.sets++
	return nil
}

func (c *memPermissionCache) DeletePermissions(ctx context.Context, memberID uuid.UUID) error {
	delete(c.entries, memberID)
	c.deletes++
	return nil
}

type PermissionServiceTestSuite struct {
	suite.Suite
	ctx           context.Context
	userRoles     *MockUserRoleRepository
	rolePerms     *MockRolePermissionRepository
	overrides     *MockCompanyPermissionRepository
	cache         *memPermissionCache
	svc           PermissionService
	memberID      uuid.UUID
	adminRoleID   uuid.UUID
	accountRoleID uuid.UUID
}

func TestPermissionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PermissionServiceTestSuite))
}

func (s *PermissionServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.userRoles = new(MockUserRoleRepository)
	s.rolePerms = new(MockRolePermissionRepository)
	s.overrides = new(MockCompanyPermissionRepository)
	s.cache = newMemPermissionCache()
	s.svc = NewPermissionService(s.userRoles, s.rolePerms, s.overrides, s.cache)
	s.memberID = uuid.New()
	s.adminRoleID = uuid.New()
	s.accountRoleID = uuid.New()
}

func (s *PermissionServiceTestSuite) TearDownTest() {
	s.userRoles.AssertExpectations(s.T())
	s.rolePerms.AssertExpectations(s.T())
	s.overrides.AssertExpectations(s.T())
}

func (s *PermissionServiceTestSuite) stubRoles(roleIDs ...uuid.UUID) {
	userRoles := make([]*models.UserRole, 0, len(roleIDs))
	for _, id := range roleIDs {
		userRoles = append(userRoles, &models.UserRole{ID: uuid.New(), TaxUserID: s.memberID, RoleID: id})
	}
	s.userRoles.On("ListByUser", s.ctx, s.memberID).Return(userRoles, nil)
}

func (s *PermissionServiceTestSuite) TestResolveUnionsRoleGrants() {
	s.stubRoles(s.adminRoleID, s.accountRoleID)
	s.rolePerms.On("ListCodesByRoles", s.ctx, []uuid.UUID{s.adminRoleID, s.accountRoleID}).
		Return([]string{"Company.Delete", "User.Invite", "User.Read"}, nil)
	s.overrides.On("ListOverridesByUser", s.ctx, s.memberID).Return([]*models.PermissionOverride{}, nil)

	codes, err := s.svc.Resolve(s.ctx, s.memberID)

	s.Require().NoError(err)
	s.Equal([]string{"Company.Delete", "User.Invite", "User.Read"}, codes)
}

func (s *PermissionServiceTestSuite) TestGrantOverrideAddsBeyondRoles() {
	s.stubRoles(s.accountRoleID)
	s.rolePerms.On("ListCodesByRoles", s.ctx, []uuid.UUID{s.accountRoleID}).
		Return([]string{"User.Read"}, nil)
	s.overrides.On("ListOverridesByUser", s.ctx, s.memberID).Return([]*models.PermissionOverride{
		{Code: "Company.ManagePlan", IsGranted: true},
	}, nil)

	codes, err := s.svc.Resolve(s.ctx, s.memberID)

	s.Require().NoError(err)
	s.Equal([]string{"Company.ManagePlan", "User.Read"}, codes)
}

func (s *PermissionServiceTestSuite) TestRevokeOverrideBeatsEveryRoleGrant() {
	// Both roles grant the code; the single revoke still removes it.
	s.stubRoles(s.adminRoleID, s.accountRoleID)
	s.rolePerms.On("ListCodesByRoles", s.ctx, []uuid.UUID{s.adminRoleID, s.accountRoleID}).
		Return([]string{"User.Invite", "User.Read"}, nil)
	s.overrides.On("ListOverridesByUser", s.ctx, s.memberID).Return([]*models.PermissionOverride{
		{Code: "User.Invite", IsGranted: false},
	}, nil)

	codes, err := s.svc.Resolve(s.ctx, s.memberID)

	s.Require().NoError(err)
	s.Equal([]string{"User.Read"}, codes)
}

func (s *PermissionServiceTestSuite) TestRevokeOverrideForUngrantedCodeIsHarmless() {
	s.stubRoles(s.accountRoleID)
	s.rolePerms.On("ListCodesByRoles", s.ctx, []uuid.UUID{s.accountRoleID}).
		Return([]string{"User.Read"}, nil)
	s.overrides.On("ListOverridesByUser", s.ctx, s.memberID).Return([]*models.PermissionOverride{
		{Code: "Company.Delete", IsGranted: false},
	}, nil)

	codes, err := s.svc.Resolve(s.ctx, s.memberID)

	s.Require().NoError(err)
	s.Equal([]string{"User.Read"}, codes)
}

func (s *PermissionServiceTestSuite) TestMemberWithNothingResolvesToEmptySet() {
	s.stubRoles()
	s.rolePerms.On("ListCodesByRoles", s.ctx, []uuid.UUID{}).Return([]string{}, nil)
	s.overrides.On("ListOverridesByUser", s.ctx, s.memberID).Return([]*models.PermissionOverride{}, nil)

	codes, err := s.svc.Resolve(s.ctx, s.memberID)

	s.Require().NoError(err)
	s.Empty(codes)
}

func (s *PermissionServiceTestSuite) TestResolveCachesAndSecondCallSkipsStore() {
	s.stubRoles(s.accountRoleID)
	s.rolePerms.On("ListCodesByRoles", s.ctx, []uuid.UUID{s.accountRoleID}).
		Return([]string{"User.Read"}, nil).Once()
	s.overrides.On("ListOverridesByUser", s.ctx, s.memberID).
		Return([]*models.PermissionOverride{}, nil).Once()

	first, err := s.svc.Resolve(s.ctx, s.memberID)
	s.Require().NoError(err)

	second, err := s.svc.Resolve(s.ctx, s.memberID)
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Equal(1, s.cache.sets)
}

func (s *PermissionServiceTestSuite) TestSetOverrideInvalidatesCache() {
	permissionID := uuid.New()
	s.cache.entries[s.memberID] = []string{"User.Read"}
	s.overrides.On("Upsert", s.ctx, s.memberID, permissionID, false).Return(nil)

	err := s.svc.SetOverride(s.ctx, s.memberID, permissionID, false)

	s.Require().NoError(err)
	s.NotContains(s.cache.entries, s.memberID)
}

func (s *PermissionServiceTestSuite) TestAssignRoleInvalidatesCache() {
	s.cache.entries[s.memberID] = []string{"User.Read"}
	s.userRoles.On("Assign", s.ctx, s.memberID, s.adminRoleID).Return(nil)

	err := s.svc.AssignRole(s.ctx, s.memberID, s.adminRoleID)

	s.Require().NoError(err)
	s.NotContains(s.cache.entries, s.memberID)
}

func (s *PermissionServiceTestSuite) TestUserHasPermission() {
	s.stubRoles(s.accountRoleID)
	s.rolePerms.On("ListCodesByRoles", s.ctx, []uuid.UUID{s.accountRoleID}).
		Return([]string{"User.Read"}, nil)
	s.overrides.On("ListOverridesByUser", s.ctx, s.memberID).Return([]*models.PermissionOverride{}, nil)

	ok, err := s.svc.UserHasPermission(s.ctx, s.memberID, "User.Read")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.svc.UserHasPermission(s.ctx, s.memberID, "Company.Delete")
	s.Require().NoError(err)
	s.False(ok)
}
