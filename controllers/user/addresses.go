package userControllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

type AddressInput struct {
	Address    string `json:"address" binding:"required"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
}

// GET /api/addresses
//
// Oldest first; the first address is the one orders ship to.
func GetAddresses(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var addresses []models.Address
		if err := db.Where("user_id = ?", userID).Order("created_at ASC").Find(&addresses).Error; err != nil {
			apierror.Respond(c, "[ADDRESSES_GET]", apierror.Internal("Failed to fetch addresses", err))
			return
		}
		c.JSON(http.StatusOK, addresses)
	}
}

// POST /api/addresses
func CreateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var input AddressInput
		if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Address) == "" {
			apierror.Respond(c, "[ADDRESSES_POST]", apierror.Validation("Address is required"))
			return
		}

		address := models.Address{
			UserID:     userID,
			Address:    strings.TrimSpace(input.Address),
			City:       input.City,
			State:      input.State,
			PostalCode: input.PostalCode,
			Phone:      input.Phone,
		}
		if err := db.Create(&address).Error; err != nil {
			apierror.Respond(c, "[ADDRESSES_POST]", apierror.Internal("Failed to save address", err))
			return
		}
		c.JSON(http.StatusCreated, address)
	}
}

// DELETE /api/addresses/:id
//
// Orders that shipped to the address keep their row with a null address.
func DeleteAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Order{}).
				Where("address_id = ? AND user_id = ?", c.Param("id"), userID).
				Update("address_id", nil).Error; err != nil {
				return err
			}
			result := tx.Where("id = ? AND user_id = ?", c.Param("id"), userID).Delete(&models.Address{})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return apierror.NotFound("Address not found")
			}
			return nil
		})
		if err != nil {
			if apierror.Status(err) == http.StatusNotFound {
				apierror.Respond(c, "[ADDRESSES_DELETE]", err)
				return
			}
			apierror.Respond(c, "[ADDRESSES_DELETE]", apierror.Internal("Failed to delete address", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
	}
}
