package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// CredentialService covers password hashing, access-token issuance and
// opaque token generation for invitations and confirmations.
type CredentialService interface {
	HashPassword(password string) (string, error)
	VerifyPassword(hash, password string) bool
	GenerateAccessToken(userID, companyID uuid.UUID) (string, error)
	ValidateAccessToken(token string) (*AccessClaims, error)
	GenerateOpaqueToken() (string, error)
	HashToken(token string) string
}

// AccessClaims are the JWT claims carried by an access token.
type AccessClaims struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	jwt.RegisteredClaims
}

type credentialService struct {
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewCredentialService(jwtSecret string, tokenTTL time.Duration) CredentialService {
	return &credentialService{
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

func (s *credentialService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *credentialService) VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *credentialService) GenerateAccessToken(userID, companyID uuid.UUID) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID:    userID.String(),
		CompanyID: companyID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func (s *credentialService) ValidateAccessToken(token string) (*AccessClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &AccessClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// GenerateOpaqueToken returns a URL-safe random token. These are the sole
// credential for invitation acceptance.
func (s *credentialService) GenerateOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *credentialService) HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
