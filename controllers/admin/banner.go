package adminController

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/images"
	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

type BannerInput struct {
	Label string `json:"label"`
	Image string `json:"image"`
}

// CreateBanner - POST /api/banners
func CreateBanner(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input BannerInput
		if err := c.ShouldBindJSON(&input); err != nil ||
			strings.TrimSpace(input.Label) == "" || strings.TrimSpace(input.Image) == "" {
			apierror.Respond(c, "[BANNERS_POST]", apierror.Validation("Label and image are required"))
			return
		}

		banner := models.Banner{Label: strings.TrimSpace(input.Label), Image: strings.TrimSpace(input.Image)}
		if err := db.Create(&banner).Error; err != nil {
			apierror.Respond(c, "[BANNERS_POST]", apierror.Internal("Failed to create banner", err))
			return
		}
		c.JSON(http.StatusCreated, banner)
	}
}

// GetBanners - List banners
func GetBanners(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var banners []models.Banner
		if err := db.Order("created_at DESC").Find(&banners).Error; err != nil {
			apierror.Respond(c, "[BANNERS_GET]", apierror.Internal("Failed to fetch banners", err))
			return
		}
		c.JSON(http.StatusOK, banners)
	}
}

func findBanner(db *gorm.DB, id string) (*models.Banner, error) {
	var banner models.Banner
	if err := db.First(&banner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("Banner not found")
		}
		return nil, apierror.Internal("Failed to fetch banner", err)
	}
	return &banner, nil
}

// UpdateBanner - PATCH /api/banners/:id. A replaced image is removed from
// the image host.
func UpdateBanner(db *gorm.DB, host images.Host) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input BannerInput
		if err := c.ShouldBindJSON(&input); err != nil || (input.Label == "" && input.Image == "") {
			apierror.Respond(c, "[BANNER_PATCH]", apierror.Validation("Label or image is required"))
			return
		}

		banner, err := findBanner(db, c.Param("id"))
		if err != nil {
			apierror.Respond(c, "[BANNER_PATCH]", err)
			return
		}

		oldImage := banner.Image
		updates := map[string]interface{}{}
		if input.Label != "" {
			updates["label"] = input.Label
		}
		if input.Image != "" {
			updates["image"] = input.Image
		}
		if err := db.Model(banner).Updates(updates).Error; err != nil {
			apierror.Respond(c, "[BANNER_PATCH]", apierror.Internal("Failed to update banner", err))
			return
		}

		if input.Image != "" && input.Image != oldImage {
			if err := host.Delete(c.Request.Context(), oldImage); err != nil {
				log.Printf("⚠️ [BANNER_PATCH] failed to remove image %s: %v", oldImage, err)
			}
		}

		banner, err = findBanner(db, banner.ID)
		if err != nil {
			apierror.Respond(c, "[BANNER_PATCH]", err)
			return
		}
		c.JSON(http.StatusOK, banner)
	}
}

// DeleteBanner - Delete the hosted image, unlink categories, delete the row
func DeleteBanner(db *gorm.DB, host images.Host, policy config.CatalogPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		banner, err := findBanner(db, c.Param("id"))
		if err != nil {
			apierror.Respond(c, "[BANNER_DELETE]", err)
			return
		}

		if policy.GuardBannerDelete {
			if linked := db.Model(banner).Association("Categories").Count(); linked > 0 {
				apierror.Respond(c, "[BANNER_DELETE]", apierror.Validation("Cannot delete banner because categories are linked to it."))
				return
			}
		}

		if err := images.DeleteAll(c.Request.Context(), host, banner.Image); err != nil {
			apierror.Respond(c, "[BANNER_DELETE]", apierror.Internal("Failed to delete banner image", err))
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(banner).Association("Categories").Clear(); err != nil {
				return err
			}
			return tx.Delete(banner).Error
		})
		if err != nil {
			apierror.Respond(c, "[BANNER_DELETE]", apierror.Internal("Failed to delete banner", err))
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Banner deleted successfully"})
	}
}
