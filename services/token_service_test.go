package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kendall-kelly/servicemen-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTestToken(t *testing.T, token, key string) *ServicemanClaims {
	t.Helper()

	claims := &ServicemanClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(key), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	return claims
}

func TestNewTokenServiceRequiresKey(t *testing.T) {
	service, err := NewTokenService("", "issuer", "audience", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSigningKey)
	assert.Nil(t, service)
}

func TestIssueCarriesExplicitClaims(t *testing.T) {
	service, err := NewTokenService("secret", "servicemen-api", "servicemen-web", time.Hour)
	require.NoError(t, err)

	fixed := time.Now().UTC().Truncate(time.Second)
	service.now = func() time.Time { return fixed }

	serviceman := &models.Serviceman{ID: 42, Email: "jo@x.com", FirstName: "Jo", LastName: "Doe"}
	token, err := service.Issue(serviceman)
	require.NoError(t, err)

	claims := parseTestToken(t, token, "secret")
	assert.Equal(t, uint(42), claims.ID)
	assert.Equal(t, "jo@x.com", claims.Email)
	assert.Equal(t, "Jo", claims.FirstName, "firstName comes from the entity's first name")
	assert.Equal(t, "Doe", claims.LastName)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "servicemen-api", claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{"servicemen-web"}, claims.Audience)
	assert.Equal(t, fixed, claims.IssuedAt.Time.UTC())
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, fixed.Add(time.Hour), claims.ExpiresAt.Time.UTC())
}

func TestIssueWithoutTTLHasNoExpiry(t *testing.T) {
	service, err := NewTokenService("secret", "servicemen-api", "servicemen-api", 0)
	require.NoError(t, err)

	token, err := service.Issue(&models.Serviceman{ID: 1, Email: "jo@x.com", FirstName: "Jo"})
	require.NoError(t, err)

	claims := parseTestToken(t, token, "secret")
	assert.Nil(t, claims.ExpiresAt)
}

func TestIssueRejectsIncompleteServiceman(t *testing.T) {
	service, err := NewTokenService("secret", "servicemen-api", "servicemen-api", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		serviceman *models.Serviceman
	}{
		{"nil", nil},
		{"unsaved", &models.Serviceman{Email: "jo@x.com"}},
		{"no email", &models.Serviceman{ID: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := service.Issue(tt.serviceman)
			assert.ErrorIs(t, err, ErrIncompleteServiceman)
			assert.Empty(t, token)
		})
	}
}

func TestIssuedTokenRejectsWrongKey(t *testing.T) {
	service, err := NewTokenService("secret", "servicemen-api", "servicemen-api", time.Hour)
	require.NoError(t, err)

	token, err := service.Issue(&models.Serviceman{ID: 1, Email: "jo@x.com", FirstName: "Jo"})
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(token, &ServicemanClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte("other"), nil
	})
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestInitTokenService(t *testing.T) {
	original := GetTokenService()
	defer SetTokenService(original)

	service, err := InitTokenService("secret", "issuer", "audience", time.Hour)
	require.NoError(t, err)
	assert.Same(t, service, GetTokenService())
}
