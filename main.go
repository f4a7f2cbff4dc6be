package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/junaidrashid-git/storefront-api/auth"
	"github.com/junaidrashid-git/storefront-api/config"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
	paymentControllers "github.com/junaidrashid-git/storefront-api/controllers/payment"
	"github.com/junaidrashid-git/storefront-api/images"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/notify"
	"github.com/junaidrashid-git/storefront-api/routes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	log.Println("✅ Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// Init DB
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}

	// Auto-migrate all tables
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	workflow, err := orderControllers.NewWorkflow(cfg.Policy.Orders)
	if err != nil {
		log.Fatalf("❌ Invalid order policy: %v", err)
	}

	// Gin setup
	r := gin.Default()
	r.MaxMultipartMemory = 32 << 20

	// CORS settings
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	host, err := imageHost(ctx, r, cfg)
	if err != nil {
		log.Fatalf("❌ Image host setup failed: %v", err)
	}

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Sessions: auth.NewSessions(cfg.JWTSecret, cfg.SessionTTL, cfg.SecureCookies),
		Images:   host,
		Mailer:   notify.NewMailer(cfg.Mail.Provider, cfg.Mail.PostmarkToken, cfg.Mail.SendgridAPIKey, cfg.Mail.Sender),
		SMS:      notify.NewSMSSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber),
		Gateway:  paymentControllers.NewRazorpayClient(cfg.Razorpay),
		Hub:      orderControllers.NewHub(),
		Workflow: workflow,
	})

	log.Printf("🚀 Server running on port %s...", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-USER-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// imageHost picks Cloudinary when it is configured and falls back to the
// local uploads folder, which is then served and backed up daily.
func imageHost(ctx context.Context, r *gin.Engine, cfg *config.Config) (images.Host, error) {
	if cfg.Cloudinary.Configured() {
		log.Println("☁️ Storing images on Cloudinary")
		host, err := images.NewCloudinary(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Cloudinary.Folder)
		if err != nil {
			return nil, err
		}
		return host, nil
	}

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		return nil, err
	}
	r.Static("/uploads", cfg.Uploads.Dir)

	if cfg.Uploads.BackupDir != "" {
		go images.RunDailyBackup(ctx, cfg.Uploads.Dir, cfg.Uploads.BackupDir, cfg.Uploads.Retention, cfg.Uploads.BackupHour)
	}
	return images.NewDisk(cfg.Uploads.Dir, cfg.Uploads.PublicBaseURL), nil
}
