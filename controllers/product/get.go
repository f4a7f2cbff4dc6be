package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

// GetProductByID returns a single product with its brand and categories.
// URL param: /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.Preload("Brand").Preload("Categories").First(&product, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierror.Respond(c, "[PRODUCT_GET]", apierror.NotFound("Product not found"))
				return
			}
			apierror.Respond(c, "[PRODUCT_GET]", apierror.Internal("Failed to retrieve product", err))
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
