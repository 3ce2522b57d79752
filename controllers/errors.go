package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/servicemen-api/models"
	"github.com/kendall-kelly/servicemen-api/services"
	"github.com/kendall-kelly/servicemen-api/validators"
)

// fieldDetail is one failed rule in a VALIDATION_ERROR response
type fieldDetail struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondValidationError(c *gin.Context, message string, details []fieldDetail) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": message,
			"details": details,
		},
	})
}

// respondServicemanError maps errors from the serviceman gateway onto the JSON error envelope
func respondServicemanError(c *gin.Context, err error, action string) {
	var schemaErr *validators.SchemaError
	var validationErr *models.ValidationError
	var provisioningErr *models.ProvisioningError

	switch {
	case errors.As(err, &schemaErr):
		details := make([]fieldDetail, 0, len(schemaErr.Violations))
		for _, v := range schemaErr.Violations {
			details = append(details, fieldDetail(v))
		}
		respondValidationError(c, schemaErr.Error(), details)
	case errors.As(err, &validationErr):
		details := make([]fieldDetail, 0, len(validationErr.Fields))
		for _, f := range validationErr.Fields {
			details = append(details, fieldDetail{Field: f.Field, Rule: f.Rule, Message: f.Message})
		}
		respondValidationError(c, validationErr.Error(), details)
	case errors.Is(err, models.ErrUniquenessViolation):
		respondError(c, http.StatusConflict, "SERVICEMAN_EXISTS", err.Error())
	case errors.As(err, &provisioningErr):
		log.Printf("Failed to provision %s for serviceman: %v", provisioningErr.Dependency, provisioningErr.Err)
		respondError(c, http.StatusInternalServerError, "CLIENT_PROVISIONING_ERROR", models.ErrDependencyProvisioning.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, services.ErrServicemanNotFound):
		respondError(c, http.StatusNotFound, "SERVICEMAN_NOT_FOUND", "Serviceman not found")
	case errors.Is(err, services.ErrServiceStationNotFound):
		respondError(c, http.StatusNotFound, "SERVICE_STATION_NOT_FOUND", "Service station not found")
	default:
		log.Printf("Failed to %s: %v", action, err)
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to "+action)
	}
}
