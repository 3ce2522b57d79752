package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/servicemen-api/config"
	"github.com/kendall-kelly/servicemen-api/services"
)

// ListPermissions handles GET /api/v1/permissions - lists the seeded permissions
func ListPermissions(c *gin.Context) {
	permissions, err := services.NewPermissionService(config.GetDB()).List(c.Request.Context())
	if err != nil {
		respondServicemanError(c, err, "list permissions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    permissions,
	})
}
