package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/junaidrashid-git/storefront-api/controllers/admin"
	productcontroller "github.com/junaidrashid-git/storefront-api/controllers/product"
)

// SetupCatalogRoutes registers the public catalog reads.
func SetupCatalogRoutes(api *gin.RouterGroup, d Deps) {
	api.GET("/categories", productcontroller.GetAllCategories(d.DB))
	api.GET("/categories/:id", productcontroller.GetCategoryByID(d.DB))

	api.GET("/products", productcontroller.GetProducts(d.DB))
	api.GET("/products/:id", productcontroller.GetProductByID(d.DB))

	api.GET("/brands", adminController.GetBrands(d.DB))
	api.GET("/brands/:id", adminController.GetBrand(d.DB))

	api.GET("/banners", adminController.GetBanners(d.DB))
}
