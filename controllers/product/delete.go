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

var ErrProductOrdered = apierror.Conflict("Cannot delete product because orders reference it")

// RemoveProduct deletes a product and everything hanging off it: hosted
// images, cart lines and category links. Products that appear in orders are
// kept so order history stays intact. If any image cannot be removed the row
// is left in place.
func RemoveProduct(ctx context.Context, db *gorm.DB, host images.Host, id string) error {
	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("Product not found")
		}
		return apierror.Internal("Failed to fetch product", err)
	}

	var ordered int64
	if err := db.Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&ordered).Error; err != nil {
		return apierror.Internal("Failed to check orders", err)
	}
	if ordered > 0 {
		return ErrProductOrdered
	}

	if err := images.DeleteAll(ctx, host, product.Images...); err != nil {
		return apierror.Internal("Failed to delete product images", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&product).Association("Categories").Clear(); err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		if apierror.IsForeignKeyViolation(err) {
			return ErrProductOrdered
		}
		return apierror.Internal("Failed to delete product", err)
	}
	return nil
}

// DELETE /api/products/:id
func DeleteProduct(db *gorm.DB, host images.Host) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := RemoveProduct(c.Request.Context(), db, host, id); err != nil {
			apierror.Respond(c, "[PRODUCT_DELETE]", err)
			return
		}
		log.Printf("🗑️ [PRODUCT_DELETE] product %s deleted", id)
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
