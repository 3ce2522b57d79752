package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/servicemen-api/config"
	"github.com/kendall-kelly/servicemen-api/middleware"
	"github.com/kendall-kelly/servicemen-api/models"
	"github.com/kendall-kelly/servicemen-api/services"
	"github.com/kendall-kelly/servicemen-api/tests/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testPassword = "Secr3t!pass"

// envelope is the JSON shape every endpoint responds with
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	return router
}

// setupControllerEnv points the controllers at a fresh migrated database and a test token issuer
func setupControllerEnv(t *testing.T) *gorm.DB {
	t.Helper()

	db := testutil.NewTestDB(t)
	originalDB := config.GetDB()
	config.SetDB(db)

	cfg := testutil.NewTestConfig()
	originalTokens := services.GetTokenService()
	tokens, err := services.NewTokenService(cfg.JWTPrivateKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	require.NoError(t, err)
	services.SetTokenService(tokens)

	t.Cleanup(func() {
		config.SetDB(originalDB)
		services.SetTokenService(originalTokens)
	})
	return db
}

// authed returns the real token middleware configured like setupControllerEnv's issuer
func authed() gin.HandlerFunc {
	return middleware.EnsureValidToken(testutil.NewTestConfig())
}

func createServiceman(t *testing.T, email, phone string) (*models.Serviceman, string) {
	t.Helper()

	serviceman := &models.Serviceman{
		FirstName:   "Reza",
		LastName:    "Karimi",
		PhoneNumber: phone,
		Email:       email,
		Password:    "$2a$10$not-a-real-hash",
	}
	require.NoError(t, config.GetDB().Create(serviceman).Error)

	token, err := services.GetTokenService().Issue(serviceman)
	require.NoError(t, err)
	return serviceman, token
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, _ := json.Marshal(b)
		reader = bytes.NewBuffer(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	env := decodeEnvelope(t, w)
	require.True(t, env.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func statusOf(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, w.Body.String())
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
