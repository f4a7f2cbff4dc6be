package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/apierror"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var sortColumns = map[string]string{
	"created_at": "products.created_at",
	"price":      "products.price",
	"title":      "products.title",
	"stock":      "products.stock",
}

// GetProducts lists products. Query params: search, categoryId, brandId,
// isFeatured, isAvailable, minPrice, maxPrice, sortBy, order.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Product{}).Preload("Brand").Preload("Categories")

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			likePattern := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(products.title) LIKE ? OR LOWER(products.description) LIKE ?", likePattern, likePattern)
		}
		if categoryID := c.Query("categoryId"); categoryID != "" {
			query = query.
				Joins("JOIN product_categories pc ON pc.product_id = products.id").
				Where("pc.category_id = ?", categoryID)
		}
		if brandID := c.Query("brandId"); brandID != "" {
			query = query.Where("products.brand_id = ?", brandID)
		}

		for param, column := range map[string]string{"isFeatured": "products.is_featured", "isAvailable": "products.is_available"} {
			raw := c.Query(param)
			if raw == "" {
				continue
			}
			v, err := strconv.ParseBool(raw)
			if err != nil {
				apierror.Respond(c, "[PRODUCTS_GET]", apierror.Validation("Invalid "+param))
				return
			}
			query = query.Where(column+" = ?", v)
		}

		for param, op := range map[string]string{"minPrice": ">=", "maxPrice": "<="} {
			raw := c.Query(param)
			if raw == "" {
				continue
			}
			v, err := decimal.NewFromString(raw)
			if err != nil {
				apierror.Respond(c, "[PRODUCTS_GET]", apierror.Validation("Invalid "+param))
				return
			}
			query = query.Where("products.price "+op+" ?", v)
		}

		column, ok := sortColumns[c.DefaultQuery("sortBy", "created_at")]
		if !ok {
			apierror.Respond(c, "[PRODUCTS_GET]", apierror.Validation("Invalid sortBy"))
			return
		}
		sortOrder := strings.ToLower(c.DefaultQuery("order", "desc"))
		if sortOrder != "asc" && sortOrder != "desc" {
			sortOrder = "desc"
		}

		var products []models.Product
		if err := query.Order(column + " " + sortOrder).Find(&products).Error; err != nil {
			apierror.Respond(c, "[PRODUCTS_GET]", apierror.Internal("Failed to fetch products", err))
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
