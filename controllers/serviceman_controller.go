package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/servicemen-api/config"
	"github.com/kendall-kelly/servicemen-api/middleware"
	"github.com/kendall-kelly/servicemen-api/models"
	"github.com/kendall-kelly/servicemen-api/services"
	"github.com/kendall-kelly/servicemen-api/utils"
)

// ServicemanProfile is a serviceman with its resolved image URL
type ServicemanProfile struct {
	models.Serviceman
	ImageURL string `json:"imageUrl,omitempty"`
}

// JoinServiceStationRequest represents the request body for joining a service station
type JoinServiceStationRequest struct {
	ServiceStationID uint `json:"serviceStationId" binding:"required,gt=0"`
}

// loadCurrentServiceman resolves the token's serviceman, writing the error response when it cannot
func loadCurrentServiceman(c *gin.Context, gateway *services.ServicemanService) (*models.Serviceman, bool) {
	servicemanID, err := middleware.GetServicemanID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Could not extract serviceman information")
		return nil, false
	}

	serviceman, err := gateway.FindByID(c.Request.Context(), servicemanID)
	if err != nil {
		respondServicemanError(c, err, "load serviceman")
		return nil, false
	}
	return serviceman, true
}

func buildProfile(ctx context.Context, gateway *services.ServicemanService, serviceman *models.Serviceman) ServicemanProfile {
	profile := ServicemanProfile{Serviceman: *serviceman}

	image, err := gateway.Image(ctx, serviceman)
	if err != nil {
		log.Printf("Failed to load image for serviceman %d: %v", serviceman.ID, err)
		return profile
	}
	if image == nil {
		return profile
	}

	imageService := services.GetImageService()
	if imageService == nil {
		return profile
	}
	url, err := imageService.GetImageURL(ctx, image.StorageKey)
	if err != nil {
		log.Printf("Failed to generate image URL for serviceman %d: %v", serviceman.ID, err)
		return profile
	}
	profile.ImageURL = url
	return profile
}

// GetMyProfile handles GET /api/v1/servicemen/me - gets the authenticated serviceman's profile
func GetMyProfile(c *gin.Context) {
	gateway := services.NewServicemanService(config.GetDB())
	serviceman, ok := loadCurrentServiceman(c, gateway)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    buildProfile(c.Request.Context(), gateway, serviceman),
	})
}

// UpdateMyProfile handles PUT /api/v1/servicemen/me - updates names, phone number and email
func UpdateMyProfile(c *gin.Context) {
	gateway := services.NewServicemanService(config.GetDB())
	serviceman, ok := loadCurrentServiceman(c, gateway)
	if !ok {
		return
	}

	var req services.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be a JSON object")
		return
	}

	if err := gateway.UpdateProfile(c.Request.Context(), serviceman, req); err != nil {
		respondServicemanError(c, err, "update serviceman")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    buildProfile(c.Request.Context(), gateway, serviceman),
	})
}

// UploadProfileImage handles POST /api/v1/servicemen/me/image - replaces the profile image
func UploadProfileImage(c *gin.Context) {
	gateway := services.NewServicemanService(config.GetDB())
	serviceman, ok := loadCurrentServiceman(c, gateway)
	if !ok {
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		respondError(c, http.StatusServiceUnavailable, "IMAGE_STORAGE_UNAVAILABLE", "Image storage is not configured")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "An image file is required in the 'image' field")
		return
	}

	ctx := c.Request.Context()
	image, err := imageService.UploadImage(ctx, fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
			return
		}
		log.Printf("Failed to upload image for serviceman %d: %v", serviceman.ID, err)
		respondError(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to upload image")
		return
	}

	previous, err := gateway.AttachImage(ctx, serviceman, image)
	if err != nil {
		if deleteErr := imageService.DeleteImage(ctx, image.StorageKey); deleteErr != nil {
			log.Printf("warning: failed to remove orphaned image %s: %v", image.StorageKey, deleteErr)
		}
		respondServicemanError(c, err, "save image")
		return
	}

	if previous != nil {
		if err := imageService.DeleteImage(ctx, previous.StorageKey); err != nil {
			log.Printf("warning: failed to remove replaced image %s: %v", previous.StorageKey, err)
		}
	}

	if url, err := imageService.GetImageURL(ctx, image.StorageKey); err == nil {
		image.URL = url
	} else {
		log.Printf("Failed to generate image URL for serviceman %d: %v", serviceman.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    image,
	})
}

// JoinServiceStation handles PUT /api/v1/servicemen/me/service-station
func JoinServiceStation(c *gin.Context) {
	gateway := services.NewServicemanService(config.GetDB())
	serviceman, ok := loadCurrentServiceman(c, gateway)
	if !ok {
		return
	}

	var req JoinServiceStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, "serviceStationId is required", []fieldDetail{
			{Field: "serviceStationId", Rule: "required", Message: "serviceStationId is required"},
		})
		return
	}

	if err := gateway.AssignServiceStation(c.Request.Context(), serviceman, req.ServiceStationID); err != nil {
		respondServicemanError(c, err, "join service station")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    serviceman,
	})
}

// LeaveServiceStation handles DELETE /api/v1/servicemen/me/service-station
func LeaveServiceStation(c *gin.Context) {
	gateway := services.NewServicemanService(config.GetDB())
	serviceman, ok := loadCurrentServiceman(c, gateway)
	if !ok {
		return
	}

	if err := gateway.LeaveServiceStation(c.Request.Context(), serviceman); err != nil {
		respondServicemanError(c, err, "leave service station")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    serviceman,
	})
}
