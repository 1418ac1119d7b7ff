package services

import (
	"context"
	"fmt"

	"taxdesk/internal/common"
	"taxdesk/internal/events"
	"taxdesk/internal/models"
	"taxdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TenantDeletionAnalysis is the pre-check snapshot of everything the
// cascade would touch.
type TenantDeletionAnalysis struct {
	MemberCount      int  `json:"member_count"`
	CompanyUserCount int  `json:"company_user_count"`
	TotalMembers     int  `json:"total_members"`
	LiveSessionCount int  `json:"live_session_count"`
	ModuleRowCount   int  `json:"module_row_count"`
	HasAddress       bool `json:"has_address"`
}

type TenantDeletionResult struct {
	CompanyID     uuid.UUID              `json:"company_id"`
	Analysis      TenantDeletionAnalysis `json:"analysis"`
	DeletedTables []string               `json:"deleted_tables"`
	ArchiveObject string                 `json:"archive_object,omitempty"`
}

// TenantDeletionService validates a tenant is safe to delete and performs
// the ordered cascade across every dependent table in one transaction.
type TenantDeletionService interface {
	Analyze(ctx context.Context, companyID uuid.UUID) (*TenantDeletionAnalysis, error)
	DeleteTenant(ctx context.Context, companyID uuid.UUID) (*TenantDeletionResult, error)
}

type tenantDeletionService struct {
	txRunner  repositories.TxRunner
	repos     *repositories.Repositories
	archive   ArchiveService
	publisher events.Publisher
}

// NewTenantDeletionService builds the engine. archive may be nil to skip
// the pre-deletion snapshot export.
func NewTenantDeletionService(txRunner repositories.TxRunner, repos *repositories.Repositories, archive ArchiveService, publisher events.Publisher) TenantDeletionService {
	return &tenantDeletionService{
		txRunner:  txRunner,
		repos:     repos,
		archive:   archive,
		publisher: publisher,
	}
}

// Analyze computes the deletion pre-check counts without mutating.
func (s *tenantDeletionService) Analyze(ctx context.Context, companyID uuid.UUID) (*TenantDeletionAnalysis, error) {
	return s.analyze(ctx, s.repos, companyID)
}

func (s *tenantDeletionService) analyze(ctx context.Context, r *repositories.Repositories, companyID uuid.UUID) (*TenantDeletionAnalysis, error) {
	company, err := r.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	memberCount, err := r.TaxUsers.CountByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	companyUserCount, err := r.CompanyUsers.CountByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	liveSessions, err := r.Sessions.CountLiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	analysis := &TenantDeletionAnalysis{
		MemberCount:      memberCount,
		CompanyUserCount: companyUserCount,
		TotalMembers:     memberCount + companyUserCount,
		LiveSessionCount: liveSessions,
		HasAddress:       company.AddressID != nil,
	}

	plan, err := r.CustomPlans.GetByCompanyID(ctx, companyID)
	if err == nil {
		count, err := r.CustomModules.CountByPlan(ctx, plan.ID)
		if err != nil {
			return nil, err
		}
		analysis.ModuleRowCount = count
	} else if common.KindOf(err) != common.KindNotFound {
		return nil, err
	}

	return analysis, nil
}

func (s *tenantDeletionService) DeleteTenant(ctx context.Context, companyID uuid.UUID) (*TenantDeletionResult, error) {
	result := &TenantDeletionResult{CompanyID: companyID}

	// The snapshot export happens outside the transaction: it reads only,
	// and a failed upload must abort before anything is mutated.
	if s.archive != nil {
		object, err := s.archive.ArchiveTenant(ctx, companyID)
		if err != nil {
			return nil, fmt.Errorf("tenant archive export: %w", err)
		}
		result.ArchiveObject = object
	}

	err := s.txRunner.Run(ctx, func(r *repositories.Repositories) error {
		analysis, err := s.analyze(ctx, r, companyID)
		if err != nil {
			return err
		}
		result.Analysis = *analysis

		// Pre-check gate. Refuse without mutation unless at most the sole
		// remaining owner is left and no session is live.
		if analysis.TotalMembers > 1 {
			return common.InvalidState(common.CodeTenantNotEmpty, "tenant still has members").
				WithDetail("member_count", analysis.MemberCount).
				WithDetail("company_user_count", analysis.CompanyUserCount)
		}
		if analysis.LiveSessionCount > 0 {
			return common.InvalidState(common.CodeActiveSessionsExist, "tenant has live sessions").
				WithDetail("live_session_count", analysis.LiveSessionCount)
		}

		order, err := deriveDeleteOrder(tenantCascadeEdges)
		if err != nil {
			return err
		}
		for _, table := range order {
			if err := s.deleteStep(ctx, r, companyID, table, analysis); err != nil {
				return fmt.Errorf("cascade delete %s: %w", table, err)
			}
			result.DeletedTables = append(result.DeletedTables, table)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.Event{
		Type:      events.TenantDeleted,
		CompanyID: companyID,
	})

	log.Info().Str("company_id", companyID.String()).Msg("tenant deleted")

	return result, nil
}

// deleteStep executes the cascade step for one logical table. Steps whose
// pre-counted population is zero are skipped, the order stays mandatory.
func (s *tenantDeletionService) deleteStep(ctx context.Context, r *repositories.Repositories, companyID uuid.UUID, table string, analysis *TenantDeletionAnalysis) error {
	switch table {
	case tableCompanyPermissions:
		if analysis.MemberCount == 0 {
			return nil
		}
		return r.CompanyPermissions.DeleteByCompany(ctx, companyID)
	case tableCompanyUserSessions:
		if analysis.CompanyUserCount == 0 {
			return nil
		}
		return r.Sessions.DeleteByCompanyAndKind(ctx, companyID, models.MemberKindCompanyUser)
	case tableCompanyUserRoles:
		if analysis.CompanyUserCount == 0 {
			return nil
		}
		return r.CompanyUsers.DeleteRolesByCompany(ctx, companyID)
	case tableCompanyUsers:
		if analysis.CompanyUserCount == 0 {
			return nil
		}
		return r.CompanyUsers.DeleteByCompany(ctx, companyID)
	case tableTaxUserSessions:
		if analysis.MemberCount == 0 {
			return nil
		}
		return r.Sessions.DeleteByCompanyAndKind(ctx, companyID, models.MemberKindTaxUser)
	case tableUserRoles:
		if analysis.MemberCount == 0 {
			return nil
		}
		return r.UserRoles.DeleteByCompany(ctx, companyID)
	case tableTaxUsers:
		if analysis.MemberCount == 0 {
			return nil
		}
		return r.TaxUsers.DeleteByCompany(ctx, companyID)
	case tableCustomModules:
		plan, err := r.CustomPlans.GetByCompanyID(ctx, companyID)
		if common.KindOf(err) == common.KindNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return r.CustomModules.DeleteByPlan(ctx, plan.ID)
	case tableCustomPlans:
		return r.CustomPlans.DeleteByCompanyID(ctx, companyID)
	case tableAddresses:
		return s.deleteAddress(ctx, r, companyID)
	case tableCompanies:
		return r.Companies.Delete(ctx, companyID)
	default:
		return fmt.Errorf("unknown cascade table %q", table)
	}
}

func (s *tenantDeletionService) deleteAddress(ctx context.Context, r *repositories.Repositories, companyID uuid.UUID) error {
	company, err := r.Companies.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company.AddressID == nil {
		return nil
	}
	addressID := *company.AddressID

	// Detach the reference first so the address row is free to go while
	// the company row still exists within the transaction.
	company.AddressID = nil
	if err := r.Companies.Update(ctx, company); err != nil {
		return err
	}
	return r.Addresses.Delete(ctx, addressID)
}
