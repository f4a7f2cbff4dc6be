package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

// GET /api/admins
func GetAllAdmins(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var admins []models.Admin
		if err := db.Order("created_at ASC").Find(&admins).Error; err != nil {
			apierror.Respond(c, "[ADMINS_GET]", apierror.Internal("Failed to fetch admins", err))
			return
		}
		c.JSON(http.StatusOK, admins)
	}
}
