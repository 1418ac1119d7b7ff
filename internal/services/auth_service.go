package services

import (
	"context"
	"strings"
	"time"

	"taxdesk/internal/common"
	"taxdesk/internal/models"
	"taxdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LoginResult carries the issued access token and its backing session.
type LoginResult struct {
	AccessToken string          `json:"access_token"`
	Session     *models.Session `json:"session"`
	User        *models.TaxUser `json:"user"`
}

// AuthService signs members in and out. A login records a live session
// row; the session stays live until Logout revokes it, and live sessions
// block tenant deletion.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
}

type authService struct {
	repos       *repositories.Repositories
	credentials CredentialService
	sessionTTL  time.Duration
}

func NewAuthService(repos *repositories.Repositories, credentials CredentialService, sessionTTL time.Duration) AuthService {
	return &authService{
		repos:       repos,
		credentials: credentials,
		sessionTTL:  sessionTTL,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, common.Validation("email and password are required")
	}

	user, err := s.repos.TaxUsers.GetByEmail(ctx, email)
	if err != nil {
		if common.KindOf(err) == common.KindNotFound {
			return nil, common.NewError(common.KindValidation, common.CodeInvalidCredentials, "invalid email or password")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, common.NewError(common.KindValidation, common.CodeInvalidCredentials, "invalid email or password")
	}
	if !s.credentials.VerifyPassword(user.PasswordHash, password) {
		return nil, common.NewError(common.KindValidation, common.CodeInvalidCredentials, "invalid email or password")
	}

	token, err := s.credentials.GenerateAccessToken(user.ID, user.CompanyID)
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		ID:         uuid.New(),
		MemberID:   user.ID,
		MemberKind: models.MemberKindTaxUser,
		TokenHash:  s.credentials.HashToken(token),
		ExpiresAt:  time.Now().Add(s.sessionTTL),
	}
	if err := s.repos.Sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", user.ID.String()).
		Str("company_id", user.CompanyID.String()).
		Msg("member logged in")

	return &LoginResult{AccessToken: token, Session: session, User: user}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return s.repos.Sessions.Revoke(ctx, sessionID)
}
