package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/servicemen-api/config"
	"github.com/kendall-kelly/servicemen-api/models"
	"github.com/kendall-kelly/servicemen-api/services"
	"github.com/kendall-kelly/servicemen-api/validators"
)

// AuthResponse is the data returned by sign-up and sign-in
type AuthResponse struct {
	Serviceman *models.Serviceman `json:"serviceman"`
	Token      string             `json:"token"`
}

// SignUp handles POST /api/v1/auth/sign-up - registers a serviceman and returns a token
func SignUp(c *gin.Context) {
	var req validators.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be a JSON object")
		return
	}

	serviceman, err := services.NewServicemanService(config.GetDB()).Register(c.Request.Context(), req)
	if err != nil {
		respondServicemanError(c, err, "create serviceman")
		return
	}

	respondWithToken(c, http.StatusCreated, serviceman)
}

// SignIn handles POST /api/v1/auth/sign-in - authenticates by email or phone number
func SignIn(c *gin.Context) {
	var req validators.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be a JSON object")
		return
	}

	serviceman, err := services.NewServicemanService(config.GetDB()).Authenticate(c.Request.Context(), req)
	if err != nil {
		respondServicemanError(c, err, "sign in")
		return
	}

	respondWithToken(c, http.StatusOK, serviceman)
}

func respondWithToken(c *gin.Context, status int, serviceman *models.Serviceman) {
	tokenService := services.GetTokenService()
	if tokenService == nil {
		log.Printf("Token service is not initialized")
		respondError(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token")
		return
	}

	token, err := tokenService.Issue(serviceman)
	if err != nil {
		log.Printf("Failed to issue token for serviceman %d: %v", serviceman.ID, err)
		respondError(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token")
		return
	}

	c.JSON(status, gin.H{
		"success": true,
		"data": AuthResponse{
			Serviceman: serviceman,
			Token:      token,
		},
	})
}
