package services

import (
	"context"
	"time"

	"taxdesk/internal/common"
	"taxdesk/internal/events"
	"taxdesk/internal/models"
	"taxdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PlanLevelCustom is the display label reported when the current module
// set does not trace back to exactly one catalog tier.
const PlanLevelCustom = "Custom"

// PlanChangeOptions carries the caller-controlled knobs of a transition.
type PlanChangeOptions struct {
	ForceDeactivation   bool        `json:"force_deactivation"`
	AdditionalModuleIDs []uuid.UUID `json:"additional_module_ids"`
	CustomPrice         *float64    `json:"custom_price"`
	StartDate           *time.Time  `json:"start_date"`
	EndDate             *time.Time  `json:"end_date"`
}

// PlanChangeResult reports what the transition did.
type PlanChangeResult struct {
	PreviousPlan      string    `json:"previous_plan"`
	NewPlan           string    `json:"new_plan"`
	PreviousPrice     float64   `json:"previous_price"`
	NewPrice          float64   `json:"new_price"`
	PreviousUserLimit int       `json:"previous_user_limit"`
	NewUserLimit      int       `json:"new_user_limit"`
	DeactivatedCount  int       `json:"deactivated_count"`
	DeactivatedEmails []string  `json:"deactivated_emails"`
	AddedModules      []string  `json:"added_modules"`
	RemovedModules    []string  `json:"removed_modules"`
	EffectiveDate     time.Time `json:"effective_date"`
	ExpirationDate    time.Time `json:"expiration_date"`
}

// PlanService validates and executes a service-level change for a tenant:
// seat-limit enforcement, excess deactivation, module reconciliation and
// plan update, all inside one transaction.
type PlanService interface {
	ChangePlan(ctx context.Context, companyID uuid.UUID, newLevel string, opts PlanChangeOptions) (*PlanChangeResult, error)
	AvailableLevels(ctx context.Context) ([]*models.Service, error)
}

type planService struct {
	txRunner  repositories.TxRunner
	services  repositories.ServiceRepository
	publisher events.Publisher
}

func NewPlanService(txRunner repositories.TxRunner, services repositories.ServiceRepository, publisher events.Publisher) PlanService {
	return &planService{
		txRunner:  txRunner,
		services:  services,
		publisher: publisher,
	}
}

func (s *planService) AvailableLevels(ctx context.Context) ([]*models.Service, error) {
	return s.services.List(ctx)
}

func (s *planService) ChangePlan(ctx context.Context, companyID uuid.UUID, newLevel string, opts PlanChangeOptions) (*PlanChangeResult, error) {
	if newLevel == "" {
		return nil, common.Validation("service level is required")
	}

	var result *PlanChangeResult
	err := s.txRunner.Run(ctx, func(r *repositories.Repositories) error {
		var err error
		result, err = s.changePlanTx(ctx, r, companyID, newLevel, opts)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.Event{
		Type:      events.PlanChanged,
		CompanyID: companyID,
		Payload: map[string]any{
			"previous_plan":     result.PreviousPlan,
			"new_plan":          result.NewPlan,
			"deactivated_count": result.DeactivatedCount,
		},
	})

	log.Info().
		Str("company_id", companyID.String()).
		Str("previous_plan", result.PreviousPlan).
		Str("new_plan", result.NewPlan).
		Int("deactivated", result.DeactivatedCount).
		Msg("plan changed")

	return result, nil
}

func (s *planService) changePlanTx(ctx context.Context, r *repositories.Repositories, companyID uuid.UUID, newLevel string, opts PlanChangeOptions) (*PlanChangeResult, error) {
	if _, err := r.Companies.GetByID(ctx, companyID); err != nil {
		return nil, err
	}

	plan, err := r.CustomPlans.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	// Active seats span both member populations.
	activeMembers, err := r.TaxUsers.CountActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	activeCompanyUsers, err := r.CompanyUsers.CountActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	activeSeats := activeMembers + activeCompanyUsers

	newService, err := r.Services.GetByName(ctx, newLevel)
	if err != nil {
		return nil, err
	}
	if !newService.IsActive {
		return nil, common.NotFound(common.CodePlanNotFound, "service level is not active").WithDetail("level", newLevel)
	}

	currentModules, err := r.CustomModules.ListByPlan(ctx, plan.ID)
	if err != nil {
		return nil, err
	}

	previousPlan, err := inferPlanLevel(ctx, r, currentModules)
	if err != nil {
		return nil, err
	}

	result := &PlanChangeResult{
		PreviousPlan:      previousPlan,
		NewPlan:           newService.Name,
		PreviousPrice:     plan.Price,
		PreviousUserLimit: plan.UserLimit,
		NewUserLimit:      newService.UserLimit,
	}

	// Seat-limit gate. The caller must explicitly opt in to automatic
	// deactivation before any member is touched.
	if activeSeats > newService.UserLimit {
		if !opts.ForceDeactivation {
			return nil, common.Conflict(common.CodeSeatLimitExceeded, "active seats exceed the new service limit").
				WithDetail("active_seats", activeSeats).
				WithDetail("user_limit", newService.UserLimit)
		}

		emails, err := s.deactivateExcess(ctx, r, companyID, activeSeats-newService.UserLimit)
		if err != nil {
			return nil, err
		}
		result.DeactivatedEmails = emails
		result.DeactivatedCount = len(emails)
	}

	added, removed, err := s.reconcileModules(ctx, r, plan.ID, newService.ID, currentModules, opts.AdditionalModuleIDs)
	if err != nil {
		return nil, err
	}
	result.AddedModules = added
	result.RemovedModules = removed

	// Plan row update: price and dates.
	price := newService.Price
	if opts.CustomPrice != nil {
		price = *opts.CustomPrice
	}
	start := time.Now()
	if opts.StartDate != nil {
		start = *opts.StartDate
	}
	renew := start.AddDate(1, 0, 0)
	if opts.EndDate != nil {
		renew = *opts.EndDate
	}

	plan.Price = price
	plan.UserLimit = newService.UserLimit
	plan.StartDate = start
	plan.RenewDate = renew
	plan.IsActive = true
	if err := r.CustomPlans.Update(ctx, plan); err != nil {
		return nil, err
	}

	result.NewPrice = price
	result.EffectiveDate = start
	result.ExpirationDate = renew

	return result, nil
}

// deactivateExcess removes `excess` seats using a strict two-tier
// priority: secondary accounts newest-first, then non-administrator
// members newest-first. Administrators are never deactivated; if the
// remaining candidates cannot cover the excess the whole transition
// fails so the tenant is never silently left over its limit.
func (s *planService) deactivateExcess(ctx context.Context, r *repositories.Repositories, companyID uuid.UUID, excess int) ([]string, error) {
	var emails []string

	companyUsers, err := r.CompanyUsers.ListActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for _, cu := range companyUsers {
		if len(emails) == excess {
			break
		}
		if err := r.CompanyUsers.Deactivate(ctx, cu.ID); err != nil {
			return nil, err
		}
		emails = append(emails, cu.Email)
	}

	if len(emails) < excess {
		adminIDs, err := r.UserRoles.ListAdminUserIDs(ctx, companyID)
		if err != nil {
			return nil, err
		}
		admins := make(map[uuid.UUID]bool, len(adminIDs))
		for _, id := range adminIDs {
			admins[id] = true
		}

		members, err := r.TaxUsers.ListActiveByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if len(emails) == excess {
				break
			}
			if m.IsOwner || admins[m.ID] {
				continue
			}
			if err := r.TaxUsers.Deactivate(ctx, m); err != nil {
				return nil, err
			}
			emails = append(emails, m.Email)
		}
	}

	if len(emails) < excess {
		return nil, common.Conflict(common.CodeDeactivationShortfall, "not enough non-administrator seats to deactivate").
			WithDetail("required", excess).
			WithDetail("deactivatable", len(emails))
	}

	return emails, nil
}

// reconcileModules flips entitlement flags so the plan matches the new
// tier plus the caller's add-ons. Rows are upserted, never deleted; a
// "removed" module is one whose flag transitions to excluded.
func (s *planService) reconcileModules(ctx context.Context, r *repositories.Repositories, planID, serviceID uuid.UUID, current []*models.CustomModule, additionalIDs []uuid.UUID) (added, removed []string, err error) {
	tierModules, err := r.Modules.ListByService(ctx, serviceID)
	if err != nil {
		return nil, nil, err
	}
	additionalModules, err := r.Modules.ListByIDs(ctx, additionalIDs)
	if err != nil {
		return nil, nil, err
	}

	included := make(map[uuid.UUID]bool, len(current))
	for _, cm := range current {
		if cm.IsIncluded {
			included[cm.ModuleID] = true
		}
	}

	target := make(map[uuid.UUID]string, len(tierModules)+len(additionalModules))
	for _, m := range tierModules {
		target[m.ID] = m.Name
	}
	for _, m := range additionalModules {
		target[m.ID] = m.Name
	}

	// Force-include every target module; report only actual transitions.
	for _, m := range tierModules {
		if err := r.CustomModules.Upsert(ctx, planID, m.ID, true); err != nil {
			return nil, nil, err
		}
		if !included[m.ID] {
			added = append(added, m.Name)
		}
	}
	for _, m := range additionalModules {
		if _, isTier := hasModule(tierModules, m.ID); isTier {
			continue
		}
		if err := r.CustomModules.Upsert(ctx, planID, m.ID, true); err != nil {
			return nil, nil, err
		}
		if !included[m.ID] {
			added = append(added, m.Name)
		}
	}

	// Everything included today that the new tier and add-ons do not
	// cover is flipped to excluded.
	var removedIDs []uuid.UUID
	for moduleID := range included {
		if _, keep := target[moduleID]; keep {
			continue
		}
		if err := r.CustomModules.Upsert(ctx, planID, moduleID, false); err != nil {
			return nil, nil, err
		}
		removedIDs = append(removedIDs, moduleID)
	}
	if len(removedIDs) > 0 {
		removedModules, err := r.Modules.ListByIDs(ctx, removedIDs)
		if err != nil {
			return nil, nil, err
		}
		for _, m := range removedModules {
			removed = append(removed, m.Name)
		}
	}

	return added, removed, nil
}

func hasModule(modules []*models.Module, id uuid.UUID) (*models.Module, bool) {
	for _, m := range modules {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

// inferPlanLevel derives the display label for the current plan from the
// modules it includes. The label is display-only and never a decision
// input: a customized plan reports as Custom.
func inferPlanLevel(ctx context.Context, r *repositories.Repositories, current []*models.CustomModule) (string, error) {
	var includedIDs []uuid.UUID
	for _, cm := range current {
		if cm.IsIncluded {
			includedIDs = append(includedIDs, cm.ModuleID)
		}
	}
	if len(includedIDs) == 0 {
		return PlanLevelCustom, nil
	}

	modules, err := r.Modules.ListByIDs(ctx, includedIDs)
	if err != nil {
		return "", err
	}

	var serviceID *uuid.UUID
	for _, m := range modules {
		if m.ServiceID == nil {
			continue
		}
		if serviceID == nil {
			serviceID = m.ServiceID
			continue
		}
		if *serviceID != *m.ServiceID {
			return PlanLevelCustom, nil
		}
	}
	if serviceID == nil {
		return PlanLevelCustom, nil
	}

	svc, err := r.Services.GetByID(ctx, *serviceID)
	if err != nil {
		return "", err
	}
	return svc.Name, nil
}
