package productcontroller

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/images"
	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

// UpdateProduct patches a product. brandId is required; categories, when
// given, replace the current set. Images dropped from the list are removed
// from the image host once the row is saved.
func UpdateProduct(db *gorm.DB, host images.Host) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			apierror.Respond(c, "[PRODUCT_PATCH]", apierror.Validation("Invalid input: "+err.Error()))
			return
		}
		if input.BrandID == "" {
			apierror.Respond(c, "[PRODUCT_PATCH]", apierror.Validation("Brand ID is required"))
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierror.Respond(c, "[PRODUCT_PATCH]", apierror.NotFound("Product not found"))
				return
			}
			apierror.Respond(c, "[PRODUCT_PATCH]", apierror.Internal("Failed to fetch product", err))
			return
		}
		if err := requireBrand(db, input.BrandID); err != nil {
			apierror.Respond(c, "[PRODUCT_PATCH]", err)
			return
		}

		categoryIDs := input.categoryIDs()
		categories, err := findCategories(db, categoryIDs)
		if err != nil {
			apierror.Respond(c, "[PRODUCT_PATCH]", err)
			return
		}

		oldImages := product.Images
		input.apply(&product)
		if input.Title != nil && product.Title == "" {
			apierror.Respond(c, "[PRODUCT_PATCH]", apierror.Validation("Title cannot be empty"))
			return
		}
		if err := validatePricing(&product); err != nil {
			apierror.Respond(c, "[PRODUCT_PATCH]", err)
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("Categories", "Brand").Save(&product).Error; err != nil {
				return err
			}
			if len(categoryIDs) > 0 {
				return tx.Model(&product).Association("Categories").Replace(categories)
			}
			return nil
		})
		if err != nil {
			apierror.Respond(c, "[PRODUCT_PATCH]", apierror.Internal("Failed to update product", err))
			return
		}

		removeDroppedImages(c.Request.Context(), host, oldImages, product.Images)

		if err := db.Preload("Brand").Preload("Categories").First(&product, "id = ?", product.ID).Error; err != nil {
			apierror.Respond(c, "[PRODUCT_PATCH]", apierror.Internal("Failed to fetch product", err))
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func removeDroppedImages(ctx context.Context, host images.Host, before, after []string) {
	kept := make(map[string]bool, len(after))
	for _, url := range after {
		kept[url] = true
	}
	for _, url := range before {
		if kept[url] {
			continue
		}
		if err := host.Delete(ctx, url); err != nil {
			log.Printf("⚠️ [PRODUCT_PATCH] failed to remove image %s: %v", url, err)
		}
	}
}
