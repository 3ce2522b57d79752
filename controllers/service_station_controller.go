package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/servicemen-api/config"
	"github.com/kendall-kelly/servicemen-api/models"
	"github.com/kendall-kelly/servicemen-api/services"
)

// CreateServiceStationRequest represents the request body for creating a service station
type CreateServiceStationRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Address     string `json:"address" binding:"max=255"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,len=11,numeric"`
}

// CreateServiceStation handles POST /api/v1/service-stations
func CreateServiceStation(c *gin.Context) {
	var req CreateServiceStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	station := models.ServiceStation{
		Name:        req.Name,
		Address:     req.Address,
		PhoneNumber: req.PhoneNumber,
	}
	if err := services.NewServiceStationService(config.GetDB()).Create(c.Request.Context(), &station); err != nil {
		respondServicemanError(c, err, "create service station")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    station,
	})
}

// ListServiceStations handles GET /api/v1/service-stations
func ListServiceStations(c *gin.Context) {
	stations, err := services.NewServiceStationService(config.GetDB()).List(c.Request.Context())
	if err != nil {
		respondServicemanError(c, err, "list service stations")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stations,
	})
}

// ListServiceStationServicemen handles GET /api/v1/service-stations/:id/servicemen
func ListServiceStationServicemen(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Service station id must be a positive integer")
		return
	}

	ctx := c.Request.Context()
	db := config.GetDB()
	if _, err := services.NewServiceStationService(db).FindByID(ctx, uint(id)); err != nil {
		respondServicemanError(c, err, "load service station")
		return
	}

	servicemen, err := services.NewServicemanService(db).ListByServiceStation(ctx, uint(id))
	if err != nil {
		respondServicemanError(c, err, "list servicemen")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    servicemen,
	})
}
