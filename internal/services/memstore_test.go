package services

import (
	"context"
	"sort"
	"time"

	"taxdesk/internal/common"
	"taxdesk/internal/events"
	"taxdesk/internal/models"
	"taxdesk/internal/repositories"

	"github.com/google/uuid"
)

// memStore is an in-memory rendition of the backing store shared by the
// engine tests. memTxRunner snapshots it per Run so rollback-on-error
// can be asserted the same way it behaves against Postgres.
type memStore struct {
	companies     map[uuid.UUID]*models.Company
	addresses     map[uuid.UUID]*models.Address
	plans         map[uuid.UUID]*models.CustomPlan // keyed by company id
	customModules []*models.CustomModule
	services      map[uuid.UUID]*models.Service
	modules       map[uuid.UUID]*models.Module
	roles         map[uuid.UUID]*models.Role
	permissions   map[uuid.UUID]*models.Permission
	rolePerms     []*models.RolePermission
	taxUsers      []*models.TaxUser
	companyUsers  []*models.CompanyUser
	userRoles     []*models.UserRole
	cuRoles       []*models.CompanyUserRole
	overrides     []*models.CompanyPermission
	sessions      []*models.Session
	invitations   []*models.Invitation
}

func newMemStore() *memStore {
	return &memStore{
		companies:   make(map[uuid.UUID]*models.Company),
		addresses:   make(map[uuid.UUID]*models.Address),
		plans:       make(map[uuid.UUID]*models.CustomPlan),
		services:    make(map[uuid.UUID]*models.Service),
		modules:     make(map[uuid.UUID]*models.Module),
		roles:       make(map[uuid.UUID]*models.Role),
		permissions: make(map[uuid.UUID]*models.Permission),
	}
}

func (st *memStore) clone() *memStore {
	c := newMemStore()
	for k, v := range st.companies {
		cp := *v
		c.companies[k] = &cp
	}
	for k, v := range st.addresses {
		cp := *v
		c.addresses[k] = &cp
	}
	for k, v := range st.plans {
		cp := *v
		c.plans[k] = &cp
	}
	for k, v := range st.services {
		cp := *v
		c.services[k] = &cp
	}
	for k, v := range st.modules {
		cp := *v
		c.modules[k] = &cp
	}
	for k, v := range st.roles {
		cp := *v
		c.roles[k] = &cp
	}
	for k, v := range st.permissions {
		cp := *v
		c.permissions[k] = &cp
	}
	c.customModules = cloneSlice(st.customModules)
	c.rolePerms = cloneSlice(st.rolePerms)
	c.taxUsers = cloneSlice(st.taxUsers)
	c.companyUsers = cloneSlice(st.companyUsers)
	c.userRoles = cloneSlice(st.userRoles)
	c.cuRoles = cloneSlice(st.cuRoles)
	c.overrides = cloneSlice(st.overrides)
	c.sessions = cloneSlice(st.sessions)
	c.invitations = cloneSlice(st.invitations)
	return c
}

func cloneSlice[T any](in []*T) []*T {
	out := make([]*T, 0, len(in))
	for _, v := range in {
		cp := *v
		out = append(out, &cp)
	}
	return out
}

func (st *memStore) repos() *repositories.Repositories {
	return &repositories.Repositories{
		Companies:          &memCompanyRepo{st},
		Addresses:          &memAddressRepo{st},
		CustomPlans:        &memCustomPlanRepo{st},
		CustomModules:      &memCustomModuleRepo{st},
		Services:           &memServiceRepo{st},
		Modules:            &memModuleRepo{st},
		Roles:              &memRoleRepo{st},
		Permissions:        &memPermissionRepo{st},
		RolePermissions:    &memRolePermissionRepo{st},
		TaxUsers:           &memTaxUserRepo{st},
		CompanyUsers:       &memCompanyUserRepo{st},
		UserRoles:          &memUserRoleRepo{st},
		CompanyPermissions: &memCompanyPermissionRepo{st},
		Sessions:           &memSessionRepo{st},
		Invitations:        &memInvitationRepo{st},
	}
}

type memTxRunner struct {
	st *memStore
}

func (r *memTxRunner) Run(ctx context.Context, fn func(repos *repositories.Repositories) error) error {
	backup := r.st.clone()
	if err := fn(r.st.repos()); err != nil {
		*r.st = *backup
		return err
	}
	return nil
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	events []events.Event
}

func (p *capturePublisher) Publish(ctx context.Context, event events.Event) {
	p.events = append(p.events, event)
}

func (p *capturePublisher) types() []string {
	var out []string
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type memCompanyRepo struct{ st *memStore }

func (r *memCompanyRepo) Create(ctx context.Context, c *models.Company) error {
	c.Version = 1
	r.st.companies[c.ID] = c
	return nil
}

func (r *memCompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	c, ok := r.st.companies[id]
	if !ok {
		return nil, common.NotFound(common.CodeTenantNotFound, "company not found")
	}
	cp := *c
	return &cp, nil
}

func (r *memCompanyRepo) GetByDomain(ctx context.Context, domain string) (*models.Company, error) {
	for _, c := range r.st.companies {
		if c.Domain != nil && *c.Domain == domain {
			cp := *c
			return &cp, nil
		}
	}
	return nil, common.NotFound(common.CodeTenantNotFound, "company not found")
}

func (r *memCompanyRepo) Update(ctx context.Context, c *models.Company) error {
	cur, ok := r.st.companies[c.ID]
	if !ok || cur.Version != c.Version {
		return common.Conflict(common.CodeConcurrentModification, "company was modified concurrently")
	}
	cp := *c
	cp.Version++
	r.st.companies[c.ID] = &cp
	c.Version++
	return nil
}

func (r *memCompanyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.st.companies, id)
	return nil
}

type memAddressRepo struct{ st *memStore }

func (r *memAddressRepo) Create(ctx context.Context, a *models.Address) error {
	r.st.addresses[a.ID] = a
	return nil
}

func (r *memAddressRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	return r.st.addresses[id], nil
}

func (r *memAddressRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.st.addresses, id)
	return nil
}

type memCustomPlanRepo struct{ st *memStore }

func (r *memCustomPlanRepo) Create(ctx context.Context, p *models.CustomPlan) error {
	p.Version = 1
	r.st.plans[p.CompanyID] = p
	return nil
}

func (r *memCustomPlanRepo) GetByCompanyID(ctx context.Context, companyID uuid.UUID) (*models.CustomPlan, error) {
	p, ok := r.st.plans[companyID]
	if !ok {
		return nil, common.NotFound(common.CodePlanNotFound, "no plan for company")
	}
	cp := *p
	return &cp, nil
}

func (r *memCustomPlanRepo) Update(ctx context.Context, p *models.CustomPlan) error {
	cur, ok := r.st.plans[p.CompanyID]
	if !ok || cur.Version != p.Version {
		return common.Conflict(common.CodeConcurrentModification, "plan was modified concurrently")
	}
	cp := *p
	cp.Version++
	r.st.plans[p.CompanyID] = &cp
	p.Version++
	return nil
}

func (r *memCustomPlanRepo) DeleteByCompanyID(ctx context.Context, companyID uuid.UUID) error {
	delete(r.st.plans, companyID)
	return nil
}

type memCustomModuleRepo struct{ st *memStore }

func (r *memCustomModuleRepo) ListByPlan(ctx context.Context, planID uuid.UUID) ([]*models.CustomModule, error) {
	var out []*models.CustomModule
	for _, cm := range r.st.customModules {
		if cm.PlanID == planID {
			cp := *cm
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memCustomModuleRepo) Upsert(ctx context.Context, planID, moduleID uuid.UUID, included bool) error {
	for _, cm := range r.st.customModules {
		if cm.PlanID == planID && cm.ModuleID == moduleID {
			cm.IsIncluded = included
			return nil
		}
	}
	r.st.customModules = append(r.st.customModules, &models.CustomModule{
		ID:         uuid.New(),
		PlanID:     planID,
		ModuleID:   moduleID,
		IsIncluded: included,
	})
	return nil
}

func (r *memCustomModuleRepo) CountByPlan(ctx context.Context, planID uuid.UUID) (int, error) {
	count := 0
	for _, cm := range r.st.customModules {
		if cm.PlanID == planID {
			count++
		}
	}
	return count, nil
}

func (r *memCustomModuleRepo) DeleteByPlan(ctx context.Context, planID uuid.UUID) error {
	var kept []*models.CustomModule
	for _, cm := range r.st.customModules {
		if cm.PlanID != planID {
			kept = append(kept, cm)
		}
	}
	r.st.customModules = kept
	return nil
}

type memServiceRepo struct{ st *memStore }

func (r *memServiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	s, ok := r.st.services[id]
	if !ok {
		return nil, common.NotFound(common.CodePlanNotFound, "service level not found")
	}
	return s, nil
}

func (r *memServiceRepo) GetByName(ctx context.Context, name string) (*models.Service, error) {
	for _, s := range r.st.services {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, common.NotFound(common.CodePlanNotFound, "service level not found")
}

func (r *memServiceRepo) List(ctx context.Context) ([]*models.Service, error) {
	var out []*models.Service
	for _, s := range r.st.services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

type memModuleRepo struct{ st *memStore }

func (r *memModuleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Module, error) {
	return r.st.modules[id], nil
}

func (r *memModuleRepo) ListByService(ctx context.Context, serviceID uuid.UUID) ([]*models.Module, error) {
	var out []*models.Module
	for _, m := range r.st.modules {
		if m.ServiceID != nil && *m.ServiceID == serviceID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memModuleRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Module, error) {
	var out []*models.Module
	for _, id := range ids {
		if m, ok := r.st.modules[id]; ok {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memRoleRepo struct{ st *memStore }

func (r *memRoleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	return r.st.roles[id], nil
}

func (r *memRoleRepo) GetByName(ctx context.Context, name string) (*models.Role, error) {
	for _, role := range r.st.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, nil
}

func (r *memRoleRepo) List(ctx context.Context) ([]*models.Role, error) {
	var out []*models.Role
	for _, role := range r.st.roles {
		out = append(out, role)
	}
	return out, nil
}

type memPermissionRepo struct{ st *memStore }

func (r *memPermissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Permission, error) {
	return r.st.permissions[id], nil
}

func (r *memPermissionRepo) GetByCode(ctx context.Context, code string) (*models.Permission, error) {
	for _, p := range r.st.permissions {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memPermissionRepo) List(ctx context.Context) ([]*models.Permission, error) {
	var out []*models.Permission
	for _, p := range r.st.permissions {
		out = append(out, p)
	}
	return out, nil
}

type memRolePermissionRepo struct{ st *memStore }

func (r *memRolePermissionRepo) ListByRole(ctx context.Context, roleID uuid.UUID) ([]*models.RolePermission, error) {
	var out []*models.RolePermission
	for _, rp := range r.st.rolePerms {
		if rp.RoleID == roleID {
			out = append(out, rp)
		}
	}
	return out, nil
}

func (r *memRolePermissionRepo) ListCodesByRoles(ctx context.Context, roleIDs []uuid.UUID) ([]string, error) {
	want := make(map[uuid.UUID]bool, len(roleIDs))
	for _, id := range roleIDs {
		want[id] = true
	}
	seen := make(map[string]bool)
	for _, rp := range r.st.rolePerms {
		if !want[rp.RoleID] {
			continue
		}
		if p, ok := r.st.permissions[rp.PermissionID]; ok {
			seen[p.Code] = true
		}
	}
	var codes []string
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

type memTaxUserRepo struct{ st *memStore }

func (r *memTaxUserRepo) Create(ctx context.Context, u *models.TaxUser) error {
	u.Version = 1
	r.st.taxUsers = append(r.st.taxUsers, u)
	return nil
}

func (r *memTaxUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.TaxUser, error) {
	for _, u := range r.st.taxUsers {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.NotFound(common.CodeUserNotFound, "member not found")
}

func (r *memTaxUserRepo) GetByEmail(ctx context.Context, email string) (*models.TaxUser, error) {
	for _, u := range r.st.taxUsers {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.NotFound(common.CodeUserNotFound, "member not found")
}

func (r *memTaxUserRepo) ListActiveByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.TaxUser, error) {
	var out []*models.TaxUser
	for _, u := range r.st.taxUsers {
		if u.CompanyID == companyID && u.IsActive {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memTaxUserRepo) CountActiveByCompany(ctx context.Context, companyID uuid.UUID) (int, error) {
	count := 0
	for _, u := range r.st.taxUsers {
		if u.CompanyID == companyID && u.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *memTaxUserRepo) CountByCompany(ctx context.Context, companyID uuid.UUID) (int, error) {
	count := 0
	for _, u := range r.st.taxUsers {
		if u.CompanyID == companyID {
			count++
		}
	}
	return count, nil
}

func (r *memTaxUserRepo) Deactivate(ctx context.Context, user *models.TaxUser) error {
	for _, u := range r.st.taxUsers {
		if u.ID == user.ID {
			if u.Version != user.Version {
				return common.Conflict(common.CodeConcurrentModification, "member was modified concurrently")
			}
			u.IsActive = false
			u.Version++
			user.IsActive = false
			user.Version++
			return nil
		}
	}
	return common.NotFound(common.CodeUserNotFound, "member not found")
}

func (r *memTaxUserRepo) DeleteByCompany(ctx context.Context, companyID uuid.UUID) error {
	var kept []*models.TaxUser
	for _, u := range r.st.taxUsers {
		if u.CompanyID != companyID {
			kept = append(kept, u)
		}
	}
	r.st.taxUsers = kept
	return nil
}

type memCompanyUserRepo struct{ st *memStore }

func (r *memCompanyUserRepo) Create(ctx context.Context, u *models.CompanyUser) error {
	r.st.companyUsers = append(r.st.companyUsers, u)
	return nil
}

func (r *memCompanyUserRepo) ListActiveByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.CompanyUser, error) {
	var out []*models.CompanyUser
	for _, u := range r.st.companyUsers {
		if u.CompanyID == companyID && u.IsActive {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memCompanyUserRepo) CountActiveByCompany(ctx context.Context, companyID uuid.UUID) (int, error) {
	count := 0
	for _, u := range r.st.companyUsers {
		if u.CompanyID == companyID && u.IsActive {
			count++
		}
	}
	return count, nil
}

func (r *memCompanyUserRepo) CountByCompany(ctx context.Context, companyID uuid.UUID) (int, error) {
	count := 0
	for _, u := range r.st.companyUsers {
		if u.CompanyID == companyID {
			count++
		}
	}
	return count, nil
}

func (r *memCompanyUserRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	for _, u := range r.st.companyUsers {
		if u.ID == id {
			u.IsActive = false
			return nil
		}
	}
	return nil
}

func (r *memCompanyUserRepo) DeleteRolesByCompany(ctx context.Context, companyID uuid.UUID) error {
	ids := make(map[uuid.UUID]bool)
	for _, u := range r.st.companyUsers {
		if u.CompanyID == companyID {
			ids[u.ID] = true
		}
	}
	var kept []*models.CompanyUserRole
	for _, cr := range r.st.cuRoles {
		if !ids[cr.CompanyUserID] {
			kept = append(kept, cr)
		}
	}
	r.st.cuRoles = kept
	return nil
}

func (r *memCompanyUserRepo) DeleteByCompany(ctx context.Context, companyID uuid.UUID) error {
	var kept []*models.CompanyUser
	for _, u := range r.st.companyUsers {
		if u.CompanyID != companyID {
			kept = append(kept, u)
		}
	}
	r.st.companyUsers = kept
	return nil
}

type memUserRoleRepo struct{ st *memStore }

func (r *memUserRoleRepo) Assign(ctx context.Context, taxUserID, roleID uuid.UUID) error {
	for _, ur := range r.st.userRoles {
		if ur.TaxUserID == taxUserID && ur.RoleID == roleID {
			return nil
		}
	}
	r.st.userRoles = append(r.st.userRoles, &models.UserRole{
		ID:        uuid.New(),
		TaxUserID: taxUserID,
		RoleID:    roleID,
		CreatedAt: time.Now(),
	})
	return nil
}

func (r *memUserRoleRepo) ListByUser(ctx context.Context, taxUserID uuid.UUID) ([]*models.UserRole, error) {
	var out []*models.UserRole
	for _, ur := range r.st.userRoles {
		if ur.TaxUserID == taxUserID {
			out = append(out, ur)
		}
	}
	return out, nil
}

func (r *memUserRoleRepo) ListAdminUserIDs(ctx context.Context, companyID uuid.UUID) ([]uuid.UUID, error) {
	members := make(map[uuid.UUID]bool)
	for _, u := range r.st.taxUsers {
		if u.CompanyID == companyID {
			members[u.ID] = true
		}
	}
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, ur := range r.st.userRoles {
		if !members[ur.TaxUserID] || seen[ur.TaxUserID] {
			continue
		}
		role, ok := r.st.roles[ur.RoleID]
		if ok && role.IsAdminClass() {
			seen[ur.TaxUserID] = true
			ids = append(ids, ur.TaxUserID)
		}
	}
	return ids, nil
}

func (r *memUserRoleRepo) DeleteByCompany(ctx context.Context, companyID uuid.UUID) error {
	members := make(map[uuid.UUID]bool)
	for _, u := range r.st.taxUsers {
		if u.CompanyID == companyID {
			members[u.ID] = true
		}
	}
	var kept []*models.UserRole
	for _, ur := range r.st.userRoles {
		if !members[ur.TaxUserID] {
			kept = append(kept, ur)
		}
	}
	r.st.userRoles = kept
	return nil
}

type memCompanyPermissionRepo struct{ st *memStore }

func (r *memCompanyPermissionRepo) Upsert(ctx context.Context, taxUserID, permissionID uuid.UUID, granted bool) error {
	for _, o := range r.st.overrides {
		if o.TaxUserID == taxUserID && o.PermissionID == permissionID {
			o.IsGranted = granted
			return nil
		}
	}
	r.st.overrides = append(r.st.overrides, &models.CompanyPermission{
		ID:           uuid.New(),
		TaxUserID:    taxUserID,
		PermissionID: permissionID,
		IsGranted:    granted,
	})
	return nil
}

func (r *memCompanyPermissionRepo) ListOverridesByUser(ctx context.Context, taxUserID uuid.UUID) ([]*models.PermissionOverride, error) {
	var out []*models.PermissionOverride
	for _, o := range r.st.overrides {
		if o.TaxUserID != taxUserID {
			continue
		}
		if p, ok := r.st.permissions[o.PermissionID]; ok {
			out = append(out, &models.PermissionOverride{Code: p.Code, IsGranted: o.IsGranted})
		}
	}
	return out, nil
}

func (r *memCompanyPermissionRepo) DeleteByCompany(ctx context.Context, companyID uuid.UUID) error {
	members := make(map[uuid.UUID]bool)
	for _, u := range r.st.taxUsers {
		if u.CompanyID == companyID {
			members[u.ID] = true
		}
	}
	var kept []*models.CompanyPermission
	for _, o := range r.st.overrides {
		if !members[o.TaxUserID] {
			kept = append(kept, o)
		}
	}
	r.st.overrides = kept
	return nil
}

type memSessionRepo struct{ st *memStore }

func (r *memSessionRepo) Create(ctx context.Context, s *models.Session) error {
	r.st.sessions = append(r.st.sessions, s)
	return nil
}

func (r *memSessionRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	for _, s := range r.st.sessions {
		if s.ID == id {
			s.IsRevoked = true
		}
	}
	return nil
}

func (r *memSessionRepo) memberCompany(s *models.Session) (uuid.UUID, bool) {
	if s.MemberKind == models.MemberKindTaxUser {
		for _, u := range r.st.taxUsers {
			if u.ID == s.MemberID {
				return u.CompanyID, true
			}
		}
		return uuid.Nil, false
	}
	for _, u := range r.st.companyUsers {
		if u.ID == s.MemberID {
			return u.CompanyID, true
		}
	}
	return uuid.Nil, false
}

func (r *memSessionRepo) CountLiveByCompany(ctx context.Context, companyID uuid.UUID) (int, error) {
	count := 0
	for _, s := range r.st.sessions {
		if s.IsRevoked {
			continue
		}
		if cid, ok := r.memberCompany(s); ok && cid == companyID {
			count++
		}
	}
	return count, nil
}

func (r *memSessionRepo) DeleteByCompanyAndKind(ctx context.Context, companyID uuid.UUID, memberKind string) error {
	var kept []*models.Session
	for _, s := range r.st.sessions {
		cid, ok := r.memberCompany(s)
		if s.MemberKind == memberKind && ok && cid == companyID {
			continue
		}
		kept = append(kept, s)
	}
	r.st.sessions = kept
	return nil
}

type memInvitationRepo struct{ st *memStore }

func (r *memInvitationRepo) Create(ctx context.Context, inv *models.Invitation) error {
	cp := *inv
	r.st.invitations = append(r.st.invitations, &cp)
	return nil
}

func (r *memInvitationRepo) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	for _, inv := range r.st.invitations {
		if inv.Token == token {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, common.NotFound(common.CodeInvitationNotFound, "invitation not found")
}

func (r *memInvitationRepo) MarkAccepted(ctx context.Context, id, registeredUserID uuid.UUID) (bool, error) {
	for _, inv := range r.st.invitations {
		if inv.ID == id && inv.Status == models.InvitationPending && time.Now().Before(inv.ExpiresAt) {
			now := time.Now()
			inv.Status = models.InvitationAccepted
			inv.AcceptedAt = &now
			inv.RegisteredUserID = &registeredUserID
			return true, nil
		}
	}
	return false, nil
}

func (r *memInvitationRepo) MarkCancelled(ctx context.Context, id, cancelledBy uuid.UUID) (bool, error) {
	for _, inv := range r.st.invitations {
		if inv.ID == id && inv.Status == models.InvitationPending {
			now := time.Now()
			inv.Status = models.InvitationCancelled
			inv.CancelledAt = &now
			inv.CancelledByUserID = &cancelledBy
			return true, nil
		}
	}
	return false, nil
}

func (r *memInvitationRepo) MarkExpired(ctx context.Context, id uuid.UUID) (bool, error) {
	for _, inv := range r.st.invitations {
		if inv.ID == id && inv.Status == models.InvitationPending {
			inv.Status = models.InvitationExpired
			return true, nil
		}
	}
	return false, nil
}

func (r *memInvitationRepo) ExpireStale(ctx context.Context) (int64, error) {
	var n int64
	for _, inv := range r.st.invitations {
		if inv.Status == models.InvitationPending && !time.Now().Before(inv.ExpiresAt) {
			inv.Status = models.InvitationExpired
			n++
		}
	}
	return n, nil
}

func (r *memInvitationRepo) ListPendingByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.Invitation, error) {
	var out []*models.Invitation
	for _, inv := range r.st.invitations {
		if inv.CompanyID == companyID && inv.Status == models.InvitationPending {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}
