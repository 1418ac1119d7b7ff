package services

import (
	"context"
	"strings"
	"time"

	"taxdesk/internal/common"
	"taxdesk/internal/events"
	"taxdesk/internal/models"
	"taxdesk/internal/repositories"

	"taxdesk/pkg/linkbuilder"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// IssueInvitationRequest carries the inputs for a new invitation.
type IssueInvitationRequest struct {
	CompanyID uuid.UUID   `json:"company_id"`
	Email     string      `json:"email"`
	RoleIDs   []uuid.UUID `json:"role_ids"`
}

// IssuedInvitation is the issue result, including the acceptance link.
type IssuedInvitation struct {
	Invitation *models.Invitation `json:"invitation"`
	AcceptURL  string             `json:"accept_url"`
}

// InvitationService manages time-boxed tenant-join tokens. Pending is the
// only non-terminal state; acceptance re-validates status and expiry at
// the moment of consumption so exactly one of two concurrent accepts wins.
type InvitationService interface {
	Issue(ctx context.Context, req *IssueInvitationRequest) (*IssuedInvitation, error)
	Accept(ctx context.Context, token string, registeredUserID uuid.UUID) (*models.Invitation, error)
	Cancel(ctx context.Context, token string, cancelledBy uuid.UUID) error
	ListPending(ctx context.Context, companyID uuid.UUID) ([]*models.Invitation, error)
	ExpireStale(ctx context.Context) (int64, error)
}

type invitationService struct {
	txRunner    repositories.TxRunner
	repos       *repositories.Repositories
	credentials CredentialService
	links       *linkbuilder.Builder
	publisher   events.Publisher
	ttl         time.Duration
}

func NewInvitationService(
	txRunner repositories.TxRunner,
	repos *repositories.Repositories,
	credentials CredentialService,
	links *linkbuilder.Builder,
	publisher events.Publisher,
	ttl time.Duration,
) InvitationService {
	return &invitationService{
		txRunner:    txRunner,
		repos:       repos,
		credentials: credentials,
		links:       links,
		publisher:   publisher,
		ttl:         ttl,
	}
}

func (s *invitationService) Issue(ctx context.Context, req *IssueInvitationRequest) (*IssuedInvitation, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, common.Validation("a valid email is required")
	}
	if len(req.RoleIDs) == 0 {
		return nil, common.Validation("at least one role is required")
	}

	if _, err := s.repos.Companies.GetByID(ctx, req.CompanyID); err != nil {
		return nil, err
	}

	token, err := s.credentials.GenerateOpaqueToken()
	if err != nil {
		return nil, err
	}

	inv := &models.Invitation{
		ID:        uuid.New(),
		CompanyID: req.CompanyID,
		Email:     email,
		Token:     token,
		Status:    models.InvitationPending,
		RoleIDs:   req.RoleIDs,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.repos.Invitations.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.publisher.Publish(ctx, events.Event{
		Type:      events.InvitationIssued,
		CompanyID: req.CompanyID,
		Payload:   map[string]any{"email": email, "invitation_id": inv.ID.String()},
	})

	return &IssuedInvitation{
		Invitation: inv,
		AcceptURL:  s.links.InvitationLink(token),
	}, nil
}

// Accept consumes the invitation and assigns its roles to the registered
// user. The flip and the role assignments share one transaction; only
// the first of two concurrent accepts succeeds, the second fails with
// InvitationAlreadyConsumed.
func (s *invitationService) Accept(ctx context.Context, token string, registeredUserID uuid.UUID) (*models.Invitation, error) {
	inv, err := s.repos.Invitations.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	// Lazy expiry: a stale Pending row is expired on read, even before
	// the background sweep reaches it. The flip runs outside the
	// acceptance transaction so it persists no matter what.
	if inv.IsExpired(time.Now()) {
		if _, err := s.repos.Invitations.MarkExpired(ctx, inv.ID); err != nil {
			return nil, err
		}
		return nil, common.InvalidState(common.CodeInvitationExpired, "invitation has expired").
			WithDetail("invitation_id", inv.ID.String())
	}

	switch inv.Status {
	case models.InvitationPending:
		// proceed to the conditional flip below
	case models.InvitationAccepted:
		return nil, common.Conflict(common.CodeInvitationAlreadyConsumed, "invitation was already accepted").
			WithDetail("invitation_id", inv.ID.String())
	default:
		return nil, common.InvalidState(common.CodeInvitationNotPending, "invitation is not pending").
			WithDetail("status", inv.Status)
	}

	err = s.txRunner.Run(ctx, func(r *repositories.Repositories) error {
		ok, err := r.Invitations.MarkAccepted(ctx, inv.ID, registeredUserID)
		if err != nil {
			return err
		}
		if !ok {
			// Lost the race between the read above and the flip.
			return common.Conflict(common.CodeInvitationAlreadyConsumed, "invitation was already accepted").
				WithDetail("invitation_id", inv.ID.String())
		}

		for _, roleID := range inv.RoleIDs {
			if err := r.UserRoles.Assign(ctx, registeredUserID, roleID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inv.Status = models.InvitationAccepted
	inv.AcceptedAt = &now
	inv.RegisteredUserID = &registeredUserID

	s.publisher.Publish(ctx, events.Event{
		Type:      events.InvitationAccepted,
		CompanyID: inv.CompanyID,
		Payload:   map[string]any{"invitation_id": inv.ID.String(), "user_id": registeredUserID.String()},
	})

	return inv, nil
}

func (s *invitationService) Cancel(ctx context.Context, token string, cancelledBy uuid.UUID) error {
	var companyID uuid.UUID
	var invitationID uuid.UUID
	err := s.txRunner.Run(ctx, func(r *repositories.Repositories) error {
		inv, err := r.Invitations.GetByToken(ctx, token)
		if err != nil {
			return err
		}
		if inv.Status != models.InvitationPending {
			return common.InvalidState(common.CodeInvitationNotPending, "invitation is not pending").
				WithDetail("status", inv.Status)
		}

		ok, err := r.Invitations.MarkCancelled(ctx, inv.ID, cancelledBy)
		if err != nil {
			return err
		}
		if !ok {
			return common.Conflict(common.CodeInvitationAlreadyConsumed, "invitation was already consumed").
				WithDetail("invitation_id", inv.ID.String())
		}
		companyID = inv.CompanyID
		invitationID = inv.ID
		return nil
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(ctx, events.Event{
		Type:      events.InvitationCancelled,
		CompanyID: companyID,
		Payload:   map[string]any{"invitation_id": invitationID.String()},
	})

	return nil
}

func (s *invitationService) ListPending(ctx context.Context, companyID uuid.UUID) ([]*models.Invitation, error) {
	if _, err := s.repos.Companies.GetByID(ctx, companyID); err != nil {
		return nil, err
	}
	return s.repos.Invitations.ListPendingByCompany(ctx, companyID)
}

// ExpireStale flips every overdue Pending invitation. Called by the
// background sweep.
func (s *invitationService) ExpireStale(ctx context.Context) (int64, error) {
	n, err := s.repos.Invitations.ExpireStale(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Int64("expired", n).Msg("stale invitations expired")
	}
	return n, nil
}
