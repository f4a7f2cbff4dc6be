package adminController

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

type approvalRequest struct {
	Email string `json:"email"`
}

// requireSuperAdmin checks that the signed-in admin is the super admin.
func requireSuperAdmin(c *gin.Context, db *gorm.DB, superAdminEmail string) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return apierror.Unauthorized("Unauthorized")
	}
	var caller models.Admin
	if err := db.First(&caller, "id = ?", identity.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.Forbidden("Only the super admin can manage admins")
		}
		return apierror.Internal("Failed to fetch admin", err)
	}
	if superAdminEmail == "" || caller.Email != superAdminEmail {
		return apierror.Forbidden("Only the super admin can manage admins")
	}
	return nil
}

func bindApproval(c *gin.Context) (string, error) {
	var req approvalRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		return "", apierror.Validation("Invalid request")
	}
	return strings.ToLower(strings.TrimSpace(req.Email)), nil
}

// ListPendingAdmins returns all admins awaiting approval.
func ListPendingAdmins(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var pending []models.Admin
		if err := db.Where("approved = ?", false).Order("created_at ASC").Find(&pending).Error; err != nil {
			apierror.Respond(c, "[ADMINS_PENDING]", apierror.Internal("Failed to fetch pending admins", err))
			return
		}
		c.JSON(http.StatusOK, pending)
	}
}

func ApproveAdmin(db *gorm.DB, superAdminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := requireSuperAdmin(c, db, superAdminEmail); err != nil {
			apierror.Respond(c, "[ADMINS_APPROVE]", err)
			return
		}
		email, err := bindApproval(c)
		if err != nil {
			apierror.Respond(c, "[ADMINS_APPROVE]", err)
			return
		}

		var admin models.Admin
		if err := db.Where("email = ?", email).First(&admin).Error; err != nil {
			apierror.Respond(c, "[ADMINS_APPROVE]", apierror.NotFound("Admin not found"))
			return
		}
		if err := db.Model(&admin).Update("approved", true).Error; err != nil {
			apierror.Respond(c, "[ADMINS_APPROVE]", apierror.Internal("Failed to approve admin", err))
			return
		}

		log.Printf("✅ Admin approved: %s", email)
		c.JSON(http.StatusOK, gin.H{"message": "Admin approved"})
	}
}

func RejectAdmin(db *gorm.DB, superAdminEmail string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := requireSuperAdmin(c, db, superAdminEmail); err != nil {
			apierror.Respond(c, "[ADMINS_REJECT]", err)
			return
		}
		email, err := bindApproval(c)
		if err != nil {
			apierror.Respond(c, "[ADMINS_REJECT]", err)
			return
		}
		if email == superAdminEmail {
			apierror.Respond(c, "[ADMINS_REJECT]", apierror.Validation("The super admin cannot be rejected"))
			return
		}

		result := db.Where("email = ?", email).Delete(&models.Admin{})
		if result.Error != nil {
			apierror.Respond(c, "[ADMINS_REJECT]", apierror.Internal("Failed to reject admin", result.Error))
			return
		}
		if result.RowsAffected == 0 {
			apierror.Respond(c, "[ADMINS_REJECT]", apierror.NotFound("Admin not found"))
			return
		}

		log.Printf("🚫 Admin rejected: %s", email)
		c.JSON(http.StatusOK, gin.H{"message": "Admin rejected"})
	}
}
