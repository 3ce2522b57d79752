package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/servicemen-api/config"
)

const (
	servicemanIDKey    = "serviceman_id"
	validatedClaimsKey = "validated_claims"
)

// ErrIncompleteClaims is returned when a token lacks the serviceman identity claims
var ErrIncompleteClaims = errors.New("token is missing the serviceman id or email")

// CustomClaims are the serviceman claims issued by services.TokenService
type CustomClaims struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Validate satisfies validator.CustomClaims
func (c *CustomClaims) Validate(ctx context.Context) error {
	if c.ID == 0 || c.Email == "" {
		return ErrIncompleteClaims
	}
	return nil
}

// EnsureValidToken is a middleware that checks the HS256 token issued at sign-up or sign-in.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	key := []byte(cfg.JWTPrivateKey)
	keyFunc := func(context.Context) (interface{}, error) {
		return key, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		log.Fatalf("Failed to set up the jwt validator: %v", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("Encountered error while validating JWT: %v", err)

		body := `{"success":false,"error":{"code":"INVALID_TOKEN","message":"Failed to validate JWT."}}`
		if errors.Is(err, jwtmiddleware.ErrJWTMissing) {
			body = `{"success":false,"error":{"code":"MISSING_TOKEN","message":"Authorization header with a Bearer token is required."}}`
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		if _, writeErr := w.Write([]byte(body)); writeErr != nil {
			log.Printf("Failed to write error response: %v", writeErr)
		}
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		validated := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
			claims := token.CustomClaims.(*CustomClaims)

			c.Request = r
			c.Set(servicemanIDKey, claims.ID)
			c.Set(validatedClaimsKey, token)
			validated = true

			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)

		// The error handler has already written the response
		if !validated {
			c.Abort()
		}
	}
}

// GetServicemanID extracts the authenticated serviceman's id from the Gin context
func GetServicemanID(c *gin.Context) (uint, error) {
	id, exists := c.Get(servicemanIDKey)
	if !exists {
		return 0, &AuthError{Code: "MISSING_SERVICEMAN_ID", Message: "Serviceman ID not found in context"}
	}

	servicemanID, ok := id.(uint)
	if !ok || servicemanID == 0 {
		return 0, &AuthError{Code: "INVALID_SERVICEMAN_ID", Message: "Serviceman ID is not valid"}
	}

	return servicemanID, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get(validatedClaimsKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// GetServicemanClaims returns the serviceman claims carried by the validated token
func GetServicemanClaims(c *gin.Context) (*CustomClaims, error) {
	validated, err := GetClaims(c)
	if err != nil {
		return nil, err
	}

	claims, ok := validated.CustomClaims.(*CustomClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return claims, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
