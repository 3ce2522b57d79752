package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kendall-kelly/servicemen-api/config"
	"github.com/kendall-kelly/servicemen-api/services"
	"github.com/kendall-kelly/servicemen-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

// startTestServer runs the full application on a local port against a fresh database
func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := testutil.NewTestConfig()

	originalDB := config.GetDB()
	config.SetDB(testutil.NewTestDB(t))

	originalTokens := services.GetTokenService()
	_, err := services.InitTokenService(cfg.JWTPrivateKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	require.NoError(t, err)

	server := httptest.NewServer(newTestRouter())
	t.Cleanup(func() {
		server.Close()
		config.SetDB(originalDB)
		services.SetTokenService(originalTokens)
	})
	return server
}

func call(t *testing.T, server *httptest.Server, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req, err := http.NewRequest(method, server.URL+path, &payload)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

// TestServerStartup is an acceptance test that verifies the server can start
func TestServerStartup(t *testing.T) {
	router := newTestRouter()
	assert.NotNil(t, router, "Router should be initialized")
}

// TestServicemanJourneyAcceptance signs up, signs in and uses the token end to end
func TestServicemanJourneyAcceptance(t *testing.T) {
	server := startTestServer(t)

	status, resp := call(t, server, "POST", "/api/v1/auth/sign-up", "", map[string]string{
		"name":        "Sara",
		"lastName":    "Rahimi",
		"phoneNumber": "09121112233",
		"email":       "sara@example.com",
		"password":    "Str0ng!pass",
	})
	require.Equal(t, http.StatusCreated, status, resp.Error.Code)

	status, resp = call(t, server, "POST", "/api/v1/auth/sign-in", "", map[string]string{
		"username": "09121112233",
		"password": "Str0ng!pass",
	})
	require.Equal(t, http.StatusOK, status, resp.Error.Code)

	var auth struct {
		Token      string `json:"token"`
		Serviceman struct {
			ID       uint  `json:"id"`
			ClientID *uint `json:"clientId"`
		} `json:"serviceman"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &auth))
	require.NotEmpty(t, auth.Token)
	require.NotNil(t, auth.Serviceman.ClientID)

	status, resp = call(t, server, "POST", "/api/v1/service-stations", auth.Token, map[string]string{"name": "Central"})
	require.Equal(t, http.StatusCreated, status, resp.Error.Code)
	var station struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &station))

	status, resp = call(t, server, "PUT", "/api/v1/servicemen/me/service-station", auth.Token, map[string]uint{"serviceStationId": station.ID})
	require.Equal(t, http.StatusOK, status, resp.Error.Code)

	status, resp = call(t, server, "GET", fmt.Sprintf("/api/v1/service-stations/%d/servicemen", station.ID), auth.Token, nil)
	require.Equal(t, http.StatusOK, status, resp.Error.Code)
	var members []struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &members))
	require.Len(t, members, 1)
	assert.Equal(t, auth.Serviceman.ID, members[0].ID)

	status, resp = call(t, server, "GET", "/api/v1/servicemen/me", auth.Token, nil)
	require.Equal(t, http.StatusOK, status, resp.Error.Code)
	var profile struct {
		Email    string `json:"email"`
		ClientID *uint  `json:"clientId"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &profile))
	assert.Equal(t, "sara@example.com", profile.Email)
	assert.Equal(t, auth.Serviceman.ClientID, profile.ClientID)

	status, resp = call(t, server, "GET", "/api/v1/permissions", auth.Token, nil)
	require.Equal(t, http.StatusOK, status, resp.Error.Code)
	var permissions []struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &permissions))
	assert.Len(t, permissions, 3)
}

// TestHealthEndpointAvailability tests that the health endpoint is available immediately
func TestHealthEndpointAvailability(t *testing.T) {
	router := newTestRouter()

	for i := 0; i < 5; i++ {
		req, _ := http.NewRequest("GET", "/api/v1/health", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code,
			fmt.Sprintf("Request %d should succeed", i+1))

		var response map[string]interface{}
		json.Unmarshal(recorder.Body.Bytes(), &response)
		assert.Equal(t, true, response["success"],
			fmt.Sprintf("Request %d should have success=true", i+1))
	}
}
