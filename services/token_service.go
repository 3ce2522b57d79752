package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kendall-kelly/servicemen-api/models"
)

var (
	// ErrMissingSigningKey is returned when a TokenService is built without a key
	ErrMissingSigningKey = errors.New("jwt private key is required")
	// ErrIncompleteServiceman is returned when a token is requested for an unsaved serviceman
	ErrIncompleteServiceman = errors.New("serviceman id and email are required to issue a token")
)

// ServicemanClaims is the complete, reviewed claim set of a serviceman token
type ServicemanClaims struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	jwt.RegisteredClaims
}

// TokenService signs serviceman tokens with HS256
type TokenService struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

var tokenServiceInstance *TokenService

// NewTokenService builds a token issuer. A zero ttl issues tokens without expiry.
func NewTokenService(privateKey, issuer, audience string, ttl time.Duration) (*TokenService, error) {
	if privateKey == "" {
		return nil, ErrMissingSigningKey
	}
	return &TokenService{
		key:      []byte(privateKey),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

// InitTokenService builds the process token issuer
func InitTokenService(privateKey, issuer, audience string, ttl time.Duration) (*TokenService, error) {
	service, err := NewTokenService(privateKey, issuer, audience, ttl)
	if err != nil {
		return nil, err
	}
	tokenServiceInstance = service
	return service, nil
}

// GetTokenService returns the process token issuer
func GetTokenService() *TokenService {
	return tokenServiceInstance
}

// SetTokenService sets the process token issuer (primarily for testing)
func SetTokenService(service *TokenService) {
	tokenServiceInstance = service
}

// Issue signs a token for a persisted serviceman
func (s *TokenService) Issue(serviceman *models.Serviceman) (string, error) {
	if serviceman == nil || serviceman.ID == 0 || serviceman.Email == "" {
		return "", ErrIncompleteServiceman
	}

	now := s.now()
	claims := ServicemanClaims{
		ID:        serviceman.ID,
		Email:     serviceman.Email,
		FirstName: serviceman.FirstName,
		LastName:  serviceman.LastName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  strconv.FormatUint(uint64(serviceman.ID), 10),
			Issuer:   s.issuer,
			Audience: jwt.ClaimStrings{s.audience},
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.key)
}
