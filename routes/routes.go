package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/auth"
	"github.com/junaidrashid-git/storefront-api/config"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
	paymentControllers "github.com/junaidrashid-git/storefront-api/controllers/payment"
	"github.com/junaidrashid-git/storefront-api/images"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/notify"
	"gorm.io/gorm"
)

// Deps is everything the route groups hand to their controllers.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Sessions *auth.Sessions
	Images   images.Host
	Mailer   notify.Mailer
	SMS      notify.SMSSender
	Gateway  paymentControllers.Gateway
	Hub      *orderControllers.Hub
	Workflow orderControllers.Workflow
}

func (d Deps) notifier() *orderControllers.Notifier {
	return &orderControllers.Notifier{Hub: d.Hub, Mailer: d.Mailer}
}

// SetupRoutes is the single entry‐point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	api := r.Group("/api")

	// 1️⃣ Public auth + catalog reads
	SetupAuthRoutes(api, d)
	SetupCatalogRoutes(api, d)

	authenticate := middleware.Authenticate(d.Sessions, d.Config.TrustUserIDHeader)

	// 2️⃣ Storefront routes (signed-in customers)
	storefront := api.Group("", authenticate, middleware.RequireRole(auth.RoleUser))
	SetupUserRoutes(storefront, d)

	// 3️⃣ Dashboard routes (approved admins)
	dashboard := api.Group("", authenticate, middleware.RequireRole(auth.RoleAdmin))
	SetupAdminRoutes(dashboard, d)
	SetupOrderRoutes(dashboard, d)
}
