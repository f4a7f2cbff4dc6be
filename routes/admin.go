package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/junaidrashid-git/storefront-api/controllers/admin"
	cartControllers "github.com/junaidrashid-git/storefront-api/controllers/cart"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
	productcontroller "github.com/junaidrashid-git/storefront-api/controllers/product"
	userControllers "github.com/junaidrashid-git/storefront-api/controllers/user"
)

// SetupAdminRoutes registers the dashboard endpoints. The group already
// requires a signed-in admin.
func SetupAdminRoutes(dashboard *gin.RouterGroup, d Deps) {
	catalog := d.Config.Policy.Catalog

	// ─────────── Admin & User Management ───────────
	dashboard.GET("/admins", adminController.GetAllAdmins(d.DB))
	adminMgmt := dashboard.Group("/admins")
	{
		adminMgmt.GET("/pending", adminController.ListPendingAdmins(d.DB))
		adminMgmt.POST("/approve", adminController.ApproveAdmin(d.DB, d.Config.SuperAdminEmail))
		adminMgmt.POST("/reject", adminController.RejectAdmin(d.DB, d.Config.SuperAdminEmail))
	}
	dashboard.GET("/users", userControllers.GetAllUsers(d.DB))
	dashboard.GET("/users/:userId/cart", cartControllers.GetAdminUserCart(d.DB))
	dashboard.GET("/users/:userId/orders", orderControllers.GetUserOrdersHandler(d.DB))

	// ─────────── Product Management ───────────
	dashboard.POST("/products", productcontroller.CreateProduct(d.DB))
	dashboard.PATCH("/products/:id", productcontroller.UpdateProduct(d.DB, d.Images))
	dashboard.DELETE("/products/:id", productcontroller.DeleteProduct(d.DB, d.Images))
	dashboard.GET("/products/export", productcontroller.ExportProductsToExcel(d.DB))
	dashboard.POST("/products/import", productcontroller.ImportProductsFromExcel(d.DB))

	// ─────────── Category Management ───────────
	dashboard.POST("/categories", productcontroller.CreateCategory(d.DB))
	dashboard.PATCH("/categories/:id", productcontroller.UpdateCategory(d.DB, d.Images))
	dashboard.DELETE("/categories/:id", productcontroller.DeleteCategory(d.DB, d.Images, catalog))

	// ─────────── Brand Management ───────────
	dashboard.POST("/brands", adminController.CreateBrand(d.DB))
	dashboard.PATCH("/brands/:id", adminController.UpdateBrand(d.DB))
	dashboard.DELETE("/brands/:id", adminController.DeleteBrand(d.DB, d.Images))

	// ─────────── Banner Management ───────────
	dashboard.POST("/banners", adminController.CreateBanner(d.DB))
	dashboard.PATCH("/banners/:id", adminController.UpdateBanner(d.DB, d.Images))
	dashboard.DELETE("/banners/:id", adminController.DeleteBanner(d.DB, d.Images, catalog))

	dashboard.POST("/uploads", adminController.UploadImage(d.Images))
}
